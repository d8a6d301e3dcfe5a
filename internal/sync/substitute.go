package sync

import (
	"strings"

	"github.com/alexanderramin/ganttsync/internal/snapshot"
)

// SubstituteResourceIDs returns a copy of the task list with every
// resource reference rewritten through the temporary-id mapping. The lookup
// tolerates the two equivalent textual shapes of a temporary id ("RES-001"
// and "RES001"). Identifiers the mapping cannot resolve are left in place
// rather than dropped, so later failures stay diagnosable.
func SubstituteResourceIDs(tasks []snapshot.TaskInput, mapping map[string]string) []snapshot.TaskInput {
	if len(tasks) == 0 {
		return nil
	}
	out := make([]snapshot.TaskInput, len(tasks))
	for i, t := range tasks {
		out[i] = t
		if len(t.ResourceIDs) > 0 {
			ids := make([]string, len(t.ResourceIDs))
			for j, id := range t.ResourceIDs {
				ids[j] = substituteID(id, mapping)
			}
			out[i].ResourceIDs = ids
		}
		if len(t.Assignments) > 0 {
			assignments := make([]snapshot.AssignmentInput, len(t.Assignments))
			for j, a := range t.Assignments {
				assignments[j] = a
				assignments[j].ResourceID = substituteID(a.ResourceID, mapping)
			}
			out[i].Assignments = assignments
		}
	}
	return out
}

func substituteID(id string, mapping map[string]string) string {
	if durable, ok := mapping[id]; ok {
		return durable
	}
	compact := strings.ReplaceAll(id, "-", "")
	for key, durable := range mapping {
		if strings.ReplaceAll(key, "-", "") == compact {
			return durable
		}
	}
	return id
}
