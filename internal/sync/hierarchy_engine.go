package sync

import (
	"errors"
	"log/slog"
	"time"

	"github.com/alexanderramin/ganttsync/internal/domain"
)

// HierarchyEngine applies a single parent/child relationship to the live
// tree, preserving schedule fields across the structural move.
type HierarchyEngine struct {
	logger    *slog.Logger
	fallbacks int
}

func NewHierarchyEngine(logger *slog.Logger) *HierarchyEngine {
	return &HierarchyEngine{logger: logger}
}

// Fallbacks reports how many flat parent-pointer fallbacks the engine has
// taken since construction.
func (e *HierarchyEngine) Fallbacks() int {
	return e.fallbacks
}

type scheduleSnapshot struct {
	start      time.Time
	end        time.Time
	completion float64
}

func captureSchedule(t *domain.Task) scheduleSnapshot {
	return scheduleSnapshot{start: t.Start, end: t.End, completion: t.Completion}
}

func (s scheduleSnapshot) restore(t *domain.Task) {
	t.Start = s.start
	t.End = s.end
	t.Completion = s.completion
}

// captureChain snapshots t and every ancestor above it. Structural moves
// roll summary fields up the entire ancestor chain, so restoring only the
// direct parent would leak rolled-up dates into grandparents.
func captureChain(snaps map[*domain.Task]scheduleSnapshot, t *domain.Task) {
	for n := t; n != nil; n = n.Parent {
		if _, seen := snaps[n]; seen {
			return
		}
		snaps[n] = captureSchedule(n)
	}
}

func restoreChain(snaps map[*domain.Task]scheduleSnapshot) {
	for t, s := range snaps {
		s.restore(t)
	}
}

// EstablishParent makes child a direct child of parent (nil parent detaches
// to root). When the outline level already matches, only the parent pointer
// is set. Otherwise a structural re-indent moves the subtree; the re-indent
// rolls summary fields up the tree, so the start/end/completion of both
// nodes and of every ancestor the roll-up can reach are snapshotted first
// and restored on exit, including the error path.
func (e *HierarchyEngine) EstablishParent(p *domain.Project, child, parent *domain.Task) (err error) {
	if child == nil {
		return errors.New("nil child task")
	}

	if parent == nil {
		if child.Parent == nil && child.OutlineLevel == 0 {
			return nil
		}
		// The chain above child is the former parent's chain, which the
		// detach rolls up.
		snaps := make(map[*domain.Task]scheduleSnapshot)
		captureChain(snaps, child)
		defer restoreChain(snaps)
		if detachErr := p.DetachToRoot(child); detachErr != nil {
			if errors.Is(detachErr, domain.ErrTaskNotInTree) {
				e.fallbackAssign(child, nil)
				return nil
			}
			return detachErr
		}
		return nil
	}

	if parent.OutlineLevel+1 == child.OutlineLevel {
		child.Parent = parent
		return nil
	}

	snaps := make(map[*domain.Task]scheduleSnapshot)
	captureChain(snaps, child)
	captureChain(snaps, parent)
	defer restoreChain(snaps)

	if moveErr := p.OutlineReindent(child, parent); moveErr != nil {
		if errors.Is(moveErr, domain.ErrTaskNotInTree) {
			e.fallbackAssign(child, parent)
			return nil
		}
		return moveErr
	}
	return nil
}

// fallbackAssign is the degraded mode for tree-lookup failures: a direct
// parent-pointer assignment without structural re-indent. The resulting
// tree is materially flatter, so this logs loudly rather than passing as a
// silent success.
func (e *HierarchyEngine) fallbackAssign(child, parent *domain.Task) {
	e.fallbacks++
	child.Parent = parent
	name := "<root>"
	if parent != nil {
		name = parent.Name
	}
	e.logger.Error("tree lookup failed, falling back to flat parent assignment",
		"child", child.Name, "parent", name)
}
