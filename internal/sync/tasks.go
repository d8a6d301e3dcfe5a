package sync

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/alexanderramin/ganttsync/internal/calendar"
	"github.com/alexanderramin/ganttsync/internal/domain"
	"github.com/alexanderramin/ganttsync/internal/snapshot"
)

// TaskSynchronizer replaces the task set wholesale: every non-external task
// is removed and one task is recreated per desired entry. Structural and
// relational aspects are handled by the hierarchy and dependency
// synchronizers afterwards.
type TaskSynchronizer struct {
	reg    *calendar.Registry
	logger *slog.Logger
}

func NewTaskSynchronizer(reg *calendar.Registry, logger *slog.Logger) *TaskSynchronizer {
	return &TaskSynchronizer{reg: reg, logger: logger}
}

// Synchronize rebuilds the task outline from the desired list and returns
// the clientID -> task handle map the later phases key on. Tasks flagged
// External survive the replace; edges they held onto removed tasks do not.
func (s *TaskSynchronizer) Synchronize(p *domain.Project, desired []snapshot.TaskInput) (map[string]*domain.Task, *TaskStats) {
	stats := &TaskStats{}

	removedSet := make(map[*domain.Task]bool)
	kept := p.Tasks[:0]
	for _, t := range p.Tasks {
		if t.External {
			kept = append(kept, t)
			continue
		}
		removedSet[t] = true
		stats.Removed++
	}
	p.Tasks = kept
	for _, t := range p.Tasks {
		t.Predecessors = pruneEdges(t.Predecessors, removedSet)
		t.Successors = pruneEdges(t.Successors, removedSet)
		if t.Parent != nil && removedSet[t.Parent] {
			t.Parent = nil
			t.OutlineLevel = 0
		}
	}

	byClientID := make(map[string]*domain.Task, len(desired))
	for _, in := range desired {
		task := &domain.Task{
			ID:         s.reg.NextID(),
			ClientID:   in.ID,
			Name:       in.Name,
			Completion: clamp01(in.Completion / 100),
			Milestone:  in.Milestone,
			Summary:    in.Summary,
			Notes:      in.Notes,
			Color:      in.Color,
		}
		if in.StartMillis > 0 {
			task.Start = time.UnixMilli(in.StartMillis).UTC()
		}
		if in.EndMillis > 0 {
			task.End = time.UnixMilli(in.EndMillis).UTC()
		}
		p.Tasks = append(p.Tasks, task)
		byClientID[in.ID] = task
		stats.Created++
	}

	p.RebuildChildIndex()
	return byClientID, stats
}

func pruneEdges(deps []*domain.Dependency, removed map[*domain.Task]bool) []*domain.Dependency {
	kept := deps[:0]
	for _, d := range deps {
		if !removed[d.Predecessor] && !removed[d.Successor] {
			kept = append(kept, d)
		}
	}
	return kept
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// AssignmentSynchronizer rebuilds each task's resource assignments from the
// (already id-substituted) desired entries. Assignments are owned by the
// task and recreated on every resync.
type AssignmentSynchronizer struct {
	logger *slog.Logger
}

func NewAssignmentSynchronizer(logger *slog.Logger) *AssignmentSynchronizer {
	return &AssignmentSynchronizer{logger: logger}
}

// Synchronize resolves resource references to pool entries. References that
// survived substitution unresolved (still non-numeric, or numeric but not in
// the pool) are counted and logged.
func (s *AssignmentSynchronizer) Synchronize(p *domain.Project, desired []snapshot.TaskInput, byClientID map[string]*domain.Task) *AssignmentStats {
	stats := &AssignmentStats{}
	for _, in := range desired {
		task := byClientID[in.ID]
		if task == nil {
			continue
		}
		task.Assignments = nil
		assigned := make(map[*domain.Resource]bool)

		for _, a := range in.Assignments {
			s.apply(p, task, a.ResourceID, a.Units, assigned, stats)
		}
		for _, id := range in.ResourceIDs {
			s.apply(p, task, id, 1.0, assigned, stats)
		}
	}
	return stats
}

func (s *AssignmentSynchronizer) apply(p *domain.Project, task *domain.Task, resourceID string, units float64, assigned map[*domain.Resource]bool, stats *AssignmentStats) {
	id, err := strconv.ParseInt(resourceID, 10, 64)
	if err != nil {
		stats.Skipped++
		s.logger.Warn("unresolved resource reference on task",
			"task", task.Name, "resource_id", resourceID)
		return
	}
	res := p.FindResource(id)
	if res == nil {
		stats.Skipped++
		s.logger.Warn("assignment references unknown resource",
			"task", task.Name, "resource_id", resourceID)
		return
	}
	if assigned[res] {
		return
	}
	assigned[res] = true
	task.Assignments = append(task.Assignments, domain.Assignment{Resource: res, Units: units})
	stats.Applied++
}
