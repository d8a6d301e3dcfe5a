package sync

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/alexanderramin/ganttsync/internal/domain"
	"github.com/alexanderramin/ganttsync/internal/snapshot"
)

// HierarchyValidator checks the client-declared parent/child structure
// before any mutation is applied. A cycle is the one fatal hierarchy
// condition; level inconsistencies are coerced later and only warned about.
type HierarchyValidator struct {
	logger *slog.Logger
}

func NewHierarchyValidator(logger *slog.Logger) *HierarchyValidator {
	return &HierarchyValidator{logger: logger}
}

// Validate walks each declared child->parent chain looking for cycles, and
// warns when a child's declared level does not exceed its parent's. Returns
// the number of level warnings.
func (v *HierarchyValidator) Validate(parents map[string]string, levels map[string]int) (int, error) {
	for child := range parents {
		visited := map[string]bool{child: true}
		for cur := parents[child]; cur != ""; cur = parents[cur] {
			if visited[cur] {
				return 0, fmt.Errorf("%w: task %q", ErrHierarchyCycle, cur)
			}
			visited[cur] = true
		}
	}

	warnings := 0
	for child, parent := range parents {
		if levels[child] <= levels[parent] {
			warnings++
			v.logger.Warn("declared nesting level does not exceed parent's",
				"child", child, "child_level", levels[child],
				"parent", parent, "parent_level", levels[parent])
		}
	}
	return warnings, nil
}

// HierarchySynchronizer derives the full parent map from per-task nesting
// levels and drives the engine to rebuild the server tree.
type HierarchySynchronizer struct {
	engine    *HierarchyEngine
	validator *HierarchyValidator
	logger    *slog.Logger
}

func NewHierarchySynchronizer(engine *HierarchyEngine, validator *HierarchyValidator, logger *slog.Logger) *HierarchySynchronizer {
	return &HierarchySynchronizer{engine: engine, validator: validator, logger: logger}
}

// DeriveParents reconstructs the outline tree from sequence order plus
// per-task nesting level: a task's parent is the most recently seen task one
// level shallower, and tracked entries for deeper levels are cleared
// whenever a shallower or equal level appears.
func DeriveParents(tasks []snapshot.TaskInput) map[string]string {
	parents := make(map[string]string)
	lastAtLevel := make(map[int]string)
	for _, t := range tasks {
		for level := range lastAtLevel {
			if level >= t.Level {
				delete(lastAtLevel, level)
			}
		}
		if t.Level > 0 {
			if parentID, ok := lastAtLevel[t.Level-1]; ok {
				parents[t.ID] = parentID
			}
		}
		lastAtLevel[t.Level] = t.ID
	}
	return parents
}

// Synchronize validates the declared structure, applies parent edges sorted
// by parent level ascending (so parents are placed before their children are
// re-parented), rebuilds the children cache, and re-verifies tree integrity.
func (s *HierarchySynchronizer) Synchronize(p *domain.Project, desired []snapshot.TaskInput, byClientID map[string]*domain.Task) (*HierarchyStats, error) {
	parents := DeriveParents(desired)
	levels := make(map[string]int, len(desired))
	seq := make(map[string]int, len(desired))
	for i, t := range desired {
		levels[t.ID] = t.Level
		seq[t.ID] = i
	}

	warnings, err := s.validator.Validate(parents, levels)
	if err != nil {
		return nil, err
	}
	stats := &HierarchyStats{Warnings: warnings}

	type edge struct {
		childID     string
		parentID    string
		parentLevel int
		seq         int
	}
	edges := make([]edge, 0, len(parents))
	for childID, parentID := range parents {
		edges = append(edges, edge{
			childID:     childID,
			parentID:    parentID,
			parentLevel: levels[parentID],
			seq:         seq[childID],
		})
	}
	// Ties break on submitted sequence: the move primitive appends each
	// child to the end of its parent's block, so applying siblings in
	// declared order is what keeps the stored outline matching the client's.
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].parentLevel != edges[j].parentLevel {
			return edges[i].parentLevel < edges[j].parentLevel
		}
		return edges[i].seq < edges[j].seq
	})

	before := s.engine.Fallbacks()
	for _, e := range edges {
		child, parent := byClientID[e.childID], byClientID[e.parentID]
		if child == nil || parent == nil {
			s.logger.Warn("hierarchy edge references unknown task",
				"child", e.childID, "parent", e.parentID)
			continue
		}
		if err := s.engine.EstablishParent(p, child, parent); err != nil {
			return nil, fmt.Errorf("establishing parent of %q: %w", child.Name, err)
		}
		stats.Applied++
	}
	stats.Fallbacks = s.engine.Fallbacks() - before

	// The move primitive does not auto-refresh the children index.
	p.RebuildChildIndex()
	s.verify(p, desired, byClientID, stats)
	return stats, nil
}

// verify cross-checks the summary flags against the rebuilt children cache.
// Mismatches are logged, not fatal.
func (s *HierarchySynchronizer) verify(p *domain.Project, desired []snapshot.TaskInput, byClientID map[string]*domain.Task, stats *HierarchyStats) {
	for _, t := range desired {
		if !t.Summary {
			continue
		}
		task := byClientID[t.ID]
		if task == nil {
			continue
		}
		if len(p.Children(task)) == 0 {
			stats.Warnings++
			s.logger.Warn("task flagged as summary has no children after sync",
				"task", task.Name, "client_id", t.ID)
		}
	}
}
