// Package calendar implements the calendar lifecycle services: the
// per-project registry of base and derived calendars, the portable
// identifier codec, the create-or-update factory, duplicate cleanup and
// base-chain repair, and reference-counted removal.
package calendar

import (
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/alexanderramin/ganttsync/internal/domain"
)

// Registry is the explicit store of a single project's calendars. One
// registry exists per loaded project; every calendar service receives it by
// reference instead of reaching into process-global state.
type Registry struct {
	project *domain.Project
	logger  *slog.Logger
	nextID  int64
}

// NewRegistry wraps the project's calendar sets and seeds the three system
// calendars plus the internal placeholder when they are missing. The durable
// id allocator starts at wall-clock millis with a small random offset,
// clamped above every id the aggregate already holds: a registry is rebuilt
// per sync call, and a fresh wall-clock seed alone could re-issue ids handed
// out moments earlier to surviving entities.
func NewRegistry(p *domain.Project, logger *slog.Logger) *Registry {
	r := &Registry{
		project: p,
		logger:  logger,
		nextID:  time.Now().UnixMilli() + rand.Int63n(997),
	}
	if next := maxDurableID(p) + 1; next > r.nextID {
		r.nextID = next
	}
	r.ensureSystemCalendars()
	return r
}

// maxDurableID scans every entity kind the shared allocator serves.
func maxDurableID(p *domain.Project) int64 {
	var top int64
	for _, c := range p.BaseCalendars {
		if c.ID > top {
			top = c.ID
		}
	}
	for _, c := range p.DerivedCalendars {
		if c.ID > top {
			top = c.ID
		}
	}
	for _, res := range p.Resources {
		if res.ID > top {
			top = res.ID
		}
	}
	for _, t := range p.Tasks {
		if t.ID > top {
			top = t.ID
		}
	}
	return top
}

// NextID returns a fresh durable identity. The allocator is shared by every
// entity kind the sync pipeline creates (calendars, resources, tasks).
func (r *Registry) NextID() int64 {
	id := r.nextID
	r.nextID++
	return id
}

func (r *Registry) ensureSystemCalendars() {
	weekdays := [7]bool{true, true, true, true, true, false, false}
	allWeek := [7]bool{true, true, true, true, true, true, true}

	if r.BySystemKind(domain.CalendarPlaceholder) == nil {
		r.project.BaseCalendars = append(r.project.BaseCalendars, &domain.Calendar{
			ID: r.NextID(), Name: "Default", Kind: domain.CalendarPlaceholder,
		})
	}
	if r.BySystemKind(domain.CalendarStandard) == nil {
		r.project.BaseCalendars = append(r.project.BaseCalendars, &domain.Calendar{
			ID: r.NextID(), Name: "Standard", Kind: domain.CalendarStandard,
			WeekMask: weekdays,
			Hours:    []domain.HourRange{{StartMin: 8 * 60, EndMin: 12 * 60}, {StartMin: 13 * 60, EndMin: 17 * 60}},
		})
	}
	if r.BySystemKind(domain.CalendarTwentyFourSeven) == nil {
		r.project.BaseCalendars = append(r.project.BaseCalendars, &domain.Calendar{
			ID: r.NextID(), Name: "24/7", Kind: domain.CalendarTwentyFourSeven,
			WeekMask: allWeek,
			Hours:    []domain.HourRange{{StartMin: 0, EndMin: 24 * 60}},
		})
	}
	if r.BySystemKind(domain.CalendarNightShift) == nil {
		r.project.BaseCalendars = append(r.project.BaseCalendars, &domain.Calendar{
			ID: r.NextID(), Name: "Night Shift", Kind: domain.CalendarNightShift,
			WeekMask: weekdays,
			Hours:    []domain.HourRange{{StartMin: 23 * 60, EndMin: 24 * 60}, {StartMin: 0, EndMin: 7 * 60}},
		})
	}
}

// BySystemKind returns the first base-set calendar with the given
// discriminator, or nil.
func (r *Registry) BySystemKind(kind domain.CalendarKind) *domain.Calendar {
	for _, c := range r.project.BaseCalendars {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// Standard returns the system Standard calendar. Lookups must use the
// Standard discriminator, never the placeholder one: the kind-0 slot exists
// only as an unset-base marker.
func (r *Registry) Standard() *domain.Calendar {
	return r.BySystemKind(domain.CalendarStandard)
}

// Placeholder returns the internal default-base placeholder instance.
func (r *Registry) Placeholder() *domain.Calendar {
	return r.BySystemKind(domain.CalendarPlaceholder)
}

// ByID looks a calendar up by durable id, derived set first.
func (r *Registry) ByID(id int64) *domain.Calendar {
	if id <= 0 {
		return nil
	}
	for _, c := range r.project.DerivedCalendars {
		if c.ID == id {
			return c
		}
	}
	for _, c := range r.project.BaseCalendars {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// ByName looks a calendar up by exact name, derived set first.
func (r *Registry) ByName(name string) *domain.Calendar {
	for _, c := range r.project.DerivedCalendars {
		if c.Name == name {
			return c
		}
	}
	for _, c := range r.project.BaseCalendars {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ByNormalizedName looks a calendar up by case-insensitive trimmed name,
// derived set first.
func (r *Registry) ByNormalizedName(name string) *domain.Calendar {
	want := normalizeName(name)
	for _, c := range r.project.DerivedCalendars {
		if normalizeName(c.Name) == want {
			return c
		}
	}
	for _, c := range r.project.BaseCalendars {
		if normalizeName(c.Name) == want {
			return c
		}
	}
	return nil
}

// RegisterDerived adds a custom calendar to the derived set.
func (r *Registry) RegisterDerived(c *domain.Calendar) {
	r.project.DerivedCalendars = append(r.project.DerivedCalendars, c)
}

// RemoveDerived drops a calendar from the derived set. Dropping an absent
// calendar is a no-op.
func (r *Registry) RemoveDerived(c *domain.Calendar) {
	kept := r.project.DerivedCalendars[:0]
	for _, candidate := range r.project.DerivedCalendars {
		if candidate != c {
			kept = append(kept, candidate)
		}
	}
	r.project.DerivedCalendars = kept
}

// Derived returns the derived (custom) calendar set.
func (r *Registry) Derived() []*domain.Calendar {
	return r.project.DerivedCalendars
}

// Base returns the base calendar set.
func (r *Registry) Base() []*domain.Calendar {
	return r.project.BaseCalendars
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
