package calendar

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/ganttsync/internal/domain"
)

// Remover retires calendars no longer referenced by the desired state. Every
// holder (project, tasks, resources) is migrated to a fallback calendar
// before the target leaves the derived set; a failed migration aborts the
// removal and propagates, never leaving holders half-migrated silently.
type Remover struct {
	reg    *Registry
	logger *slog.Logger
}

func NewRemover(reg *Registry, logger *slog.Logger) *Remover {
	return &Remover{reg: reg, logger: logger}
}

// RemoveIfUnused migrates every holder of target onto fallback, then drops
// target from the derived set.
func (r *Remover) RemoveIfUnused(p *domain.Project, target, fallback *domain.Calendar) error {
	if p == nil {
		return errors.New("nil project")
	}
	if target == nil || fallback == nil {
		return errors.New("nil calendar in removal request")
	}

	if p.Calendar == target {
		if err := r.reassign("project", &p.Calendar, fallback); err != nil {
			return fmt.Errorf("migrating project calendar: %w", err)
		}
	}
	for _, t := range p.Tasks {
		if p.EffectiveTaskCalendar(t) == target {
			if err := r.reassign(t.Name, &t.Calendar, fallback); err != nil {
				return fmt.Errorf("migrating task %q calendar: %w", t.Name, err)
			}
		}
	}
	for _, res := range p.Resources {
		if res.Calendar == target {
			if err := r.reassign(res.Name, &res.Calendar, fallback); err != nil {
				return fmt.Errorf("migrating resource %q calendar: %w", res.Name, err)
			}
		}
	}

	r.reg.RemoveDerived(target)
	r.logger.Info("removed calendar", "calendar", target.Name, "calendar_id", target.ID)
	return nil
}

// reassign is the single calendar-replacement primitive: it validates the
// replacement, then updates the holder's local field so both bookkeeping
// structures stay consistent.
func (r *Remover) reassign(holder string, slot **domain.Calendar, fallback *domain.Calendar) error {
	if err := ValidateReplacement(*slot, fallback); err != nil {
		r.logger.Error("calendar reassignment rejected", "holder", holder, "error", err)
		return err
	}
	*slot = fallback
	return nil
}

// RemoveNotInSet retires every derived calendar whose durable id is not in
// keep, excluding the canonical placeholder instance. Each victim goes
// through the single-target path so one failure does not block the rest;
// accumulated failures are returned joined.
func (r *Remover) RemoveNotInSet(p *domain.Project, keep map[int64]bool, fallback *domain.Calendar) (int, error) {
	placeholder := r.reg.Placeholder()
	var victims []*domain.Calendar
	for _, cal := range r.reg.Derived() {
		if cal == placeholder || keep[cal.ID] {
			continue
		}
		victims = append(victims, cal)
	}

	removed := 0
	var errs []error
	for _, victim := range victims {
		if err := r.RemoveIfUnused(p, victim, fallback); err != nil {
			r.logger.Error("calendar removal failed",
				"calendar", victim.Name, "calendar_id", victim.ID, "error", err)
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
