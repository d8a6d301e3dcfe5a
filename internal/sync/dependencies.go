package sync

import (
	"log/slog"

	"github.com/alexanderramin/ganttsync/internal/domain"
	"github.com/alexanderramin/ganttsync/internal/snapshot"
)

// DependencySynchronizer reconciles each task's predecessor set against the
// declared list by set-difference: only the delta is applied, so an
// unchanged desired state is a no-op.
type DependencySynchronizer struct {
	logger *slog.Logger
}

func NewDependencySynchronizer(logger *slog.Logger) *DependencySynchronizer {
	return &DependencySynchronizer{logger: logger}
}

// Synchronize applies the predecessor delta for every desired task. Edges
// are keyed by the predecessor's client-assigned id when present, falling
// back to display name, to tolerate ids that never made it into that field.
func (s *DependencySynchronizer) Synchronize(p *domain.Project, desired []snapshot.TaskInput, byClientID map[string]*domain.Task) *DependencyStats {
	stats := &DependencyStats{}
	for _, in := range desired {
		task := byClientID[in.ID]
		if task == nil {
			continue
		}
		s.syncTask(p, task, in.Predecessors, byClientID, stats)
	}
	return stats
}

func dependencyKey(t *domain.Task) string {
	return domain.CoalesceStr(t.ClientID, t.Name)
}

func (s *DependencySynchronizer) syncTask(p *domain.Project, task *domain.Task, desired []string, byClientID map[string]*domain.Task, stats *DependencyStats) {
	current := make(map[string]*domain.Dependency, len(task.Predecessors))
	for _, dep := range task.Predecessors {
		current[dependencyKey(dep.Predecessor)] = dep
	}
	want := make(map[string]bool, len(desired))
	for _, id := range desired {
		want[id] = true
	}

	// current - desired: obsolete edges go first. Removal is an internal,
	// non-undoable operation; no schedule recompute is triggered here.
	for key, dep := range current {
		if want[key] {
			continue
		}
		removeDependency(dep)
		stats.Removed++
		s.logger.Info("removed obsolete dependency",
			"predecessor", dep.Predecessor.Name, "successor", task.Name)
	}

	// desired - current: create the missing edges, skipping invalid ones.
	for _, id := range desired {
		if _, ok := current[id]; ok {
			continue
		}
		pred := s.lookupPredecessor(p, id, byClientID)
		if pred == nil {
			stats.SkippedMissing++
			s.logger.Warn("predecessor not found", "predecessor_id", id, "successor", task.Name)
			continue
		}
		if edgeExists(task, pred) {
			stats.SkippedExisting++
			continue
		}
		if pred == task || pred.IsAncestorOf(task) || task.IsAncestorOf(pred) {
			stats.SkippedSummaryLink++
			s.logger.Warn("skipping summary-subtask dependency",
				"predecessor", pred.Name, "successor", task.Name)
			continue
		}
		createDependency(pred, task)
		stats.Created++
	}
}

func (s *DependencySynchronizer) lookupPredecessor(p *domain.Project, id string, byClientID map[string]*domain.Task) *domain.Task {
	if t := byClientID[id]; t != nil {
		return t
	}
	if t := p.FindTaskByClientID(id); t != nil {
		return t
	}
	for _, t := range p.Tasks {
		if t.Name == id {
			return t
		}
	}
	return nil
}

func edgeExists(task, pred *domain.Task) bool {
	for _, dep := range task.Predecessors {
		if dep.Predecessor == pred {
			return true
		}
	}
	return false
}

// createDependency links a finish-to-start, zero-lag edge into both endpoint
// tasks, tagged as a sync-originated edit so downstream consumers can tell
// it apart from a manual one.
func createDependency(pred, succ *domain.Task) *domain.Dependency {
	dep := &domain.Dependency{
		Predecessor: pred,
		Successor:   succ,
		Source:      domain.DependencySourceSync,
	}
	pred.Successors = append(pred.Successors, dep)
	succ.Predecessors = append(succ.Predecessors, dep)
	return dep
}

// removeDependency unlinks an edge from both endpoint tasks.
func removeDependency(dep *domain.Dependency) {
	dep.Predecessor.Successors = withoutDependency(dep.Predecessor.Successors, dep)
	dep.Successor.Predecessors = withoutDependency(dep.Successor.Predecessors, dep)
}

func withoutDependency(deps []*domain.Dependency, target *domain.Dependency) []*domain.Dependency {
	kept := deps[:0]
	for _, d := range deps {
		if d != target {
			kept = append(kept, d)
		}
	}
	return kept
}
