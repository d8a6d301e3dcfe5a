// Package sync implements the project reconciliation pipeline: it makes the
// server-resident project aggregate exactly reflect a flat client snapshot
// while preserving server-assigned identity.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	stdsync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/ganttsync/internal/calendar"
	"github.com/alexanderramin/ganttsync/internal/domain"
	"github.com/alexanderramin/ganttsync/internal/snapshot"
)

// Orchestrator sequences the reconciliation phases: resource sync, resource
// id substitution, wholesale task sync, hierarchy sync, dependency sync,
// assignment sync, and finally the project-level calendar-set pass. The
// whole pipeline runs under one exclusive per-project lock; intermediate
// states (tasks recreated, dependencies not yet reattached) are never
// exposed to a concurrent call.
type Orchestrator struct {
	logger   *slog.Logger
	observer PhaseObserver
	locks    stdsync.Map // project id -> *stdsync.Mutex
}

func NewOrchestrator(logger *slog.Logger, observers ...PhaseObserver) *Orchestrator {
	return &Orchestrator{
		logger:   logger,
		observer: phaseObserverOrNoop(observers),
	}
}

func (o *Orchestrator) lockFor(projectID string) *stdsync.Mutex {
	mu, _ := o.locks.LoadOrStore(projectID, &stdsync.Mutex{})
	return mu.(*stdsync.Mutex)
}

// Synchronize runs one full reconciliation call. Fatal conditions (nil
// project, invalid snapshot, hierarchy cycle, calendar removal failure)
// return an error and a Result with Success false; per-entity problems only
// surface in the counters.
func (o *Orchestrator) Synchronize(ctx context.Context, p *domain.Project, snap *snapshot.Snapshot) (*Result, error) {
	if p == nil {
		return nil, ErrNilProject
	}
	if snap == nil {
		return nil, ErrNilSnapshot
	}
	if errs := snapshot.Validate(snap); len(errs) > 0 {
		return nil, fmt.Errorf("snapshot validation failed: %w", errors.Join(errs...))
	}

	mu := o.lockFor(p.ID)
	mu.Lock()
	defer mu.Unlock()

	result := &Result{RunID: uuid.New().String()}

	reg := calendar.NewRegistry(p, o.logger)
	factory := calendar.NewFactory(reg, o.logger)
	resolver := calendar.NewResolver(reg, factory, o.logger)
	cleaner := calendar.NewCleaner(reg, o.logger)
	remover := calendar.NewRemover(reg, o.logger)

	resources := NewResourceSynchronizer(reg, factory, resolver, cleaner, o.logger)
	tasks := NewTaskSynchronizer(reg, o.logger)
	hierarchy := NewHierarchySynchronizer(
		NewHierarchyEngine(o.logger), NewHierarchyValidator(o.logger), o.logger)
	dependencies := NewDependencySynchronizer(o.logger)
	assignments := NewAssignmentSynchronizer(o.logger)

	// Phase 1: resources. A failure here aborts the whole call; task sync
	// never proceeds on top of a failed resource phase.
	var resourceResult *ResourceResult
	err := o.phase(ctx, result.RunID, "resources", func() (map[string]any, error) {
		var phaseErr error
		resourceResult, phaseErr = resources.Synchronize(p, snap.Resources)
		if phaseErr != nil {
			return nil, phaseErr
		}
		return map[string]any{"synced": resourceResult.Synced, "skipped": resourceResult.Skipped}, nil
	})
	if err != nil {
		return result, fmt.Errorf("resource sync: %w", err)
	}
	result.Resources = *resourceResult

	// Phase 2: rewrite task-side resource references through the mapping,
	// over the original desired task list.
	desired := SubstituteResourceIDs(snap.Tasks, resourceResult.IDMapping)

	// Phase 3: wholesale task replace.
	var byClientID map[string]*domain.Task
	_ = o.phase(ctx, result.RunID, "tasks", func() (map[string]any, error) {
		var stats *TaskStats
		byClientID, stats = tasks.Synchronize(p, desired)
		result.Tasks = *stats
		return map[string]any{"created": stats.Created, "removed": stats.Removed}, nil
	})

	// Phase 4: hierarchy. A declared cycle is fatal.
	err = o.phase(ctx, result.RunID, "hierarchy", func() (map[string]any, error) {
		stats, phaseErr := hierarchy.Synchronize(p, desired, byClientID)
		if phaseErr != nil {
			return nil, phaseErr
		}
		result.Hierarchy = *stats
		return map[string]any{"applied": stats.Applied, "warnings": stats.Warnings}, nil
	})
	if err != nil {
		return result, fmt.Errorf("hierarchy sync: %w", err)
	}

	// Phase 5: dependencies by set-difference.
	_ = o.phase(ctx, result.RunID, "dependencies", func() (map[string]any, error) {
		stats := dependencies.Synchronize(p, desired, byClientID)
		result.Dependencies = *stats
		return map[string]any{"created": stats.Created, "removed": stats.Removed}, nil
	})

	// Phase 6: assignments.
	_ = o.phase(ctx, result.RunID, "assignments", func() (map[string]any, error) {
		stats := assignments.Synchronize(p, desired, byClientID)
		result.Assignments = *stats
		return map[string]any{"applied": stats.Applied, "skipped": stats.Skipped}, nil
	})

	// Phase 7: project calendar set. A nil list leaves the set untouched;
	// an empty list retires every non-system calendar; a non-empty list
	// keeps or creates exactly those and retires the rest. Removal failures
	// propagate: a half-migrated calendar graph is worse than an aborted
	// removal pass.
	if snap.Calendars != nil {
		err = o.phase(ctx, result.RunID, "calendars", func() (map[string]any, error) {
			kept, removed, phaseErr := o.syncCalendarSet(p, snap.Calendars, reg, factory, remover)
			result.CalendarsKept = kept
			result.CalendarsRemoved = removed
			if phaseErr != nil {
				return nil, phaseErr
			}
			return map[string]any{"kept": kept, "removed": removed}, nil
		})
		if err != nil {
			return result, fmt.Errorf("calendar set sync: %w", err)
		}
	}

	p.UpdatedAt = time.Now().UTC()
	result.Success = true
	return result, nil
}

func (o *Orchestrator) syncCalendarSet(
	p *domain.Project,
	inputs []snapshot.CalendarInput,
	reg *calendar.Registry,
	factory *calendar.Factory,
	remover *calendar.Remover,
) (kept, removed int, err error) {
	keep := make(map[int64]bool)
	for i := range inputs {
		cal := factory.CreateOrUpdate(inputs[i].Settings())
		if cal == nil {
			continue
		}
		keep[cal.ID] = true
		kept++
	}
	removed, err = remover.RemoveNotInSet(p, keep, reg.Standard())
	return kept, removed, err
}

// phase runs one pipeline step and reports it to the observer.
func (o *Orchestrator) phase(ctx context.Context, runID, name string, fn func() (map[string]any, error)) error {
	started := time.Now()
	fields, err := fn()
	o.observer.ObservePhase(ctx, PhaseEvent{
		RunID:     runID,
		Phase:     name,
		Duration:  time.Since(started),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: started,
	})
	return err
}
