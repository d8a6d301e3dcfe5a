package calendar

import (
	"fmt"
	"log/slog"

	"github.com/alexanderramin/ganttsync/internal/domain"
)

// Cleaner deduplicates calendars, removes base-chain cycles, and repairs
// calendars whose base points at the unset placeholder. With DryRun set it
// counts and logs intended removals without mutating, producing the same
// counts a live run would.
type Cleaner struct {
	reg    *Registry
	logger *slog.Logger
	DryRun bool
}

func NewCleaner(reg *Registry, logger *slog.Logger) *Cleaner {
	return &Cleaner{reg: reg, logger: logger}
}

// CleanDuplicates removes duplicate and cyclic calendars from both sets and
// returns the number of removals (or intended removals in dry-run mode).
func (c *Cleaner) CleanDuplicates() int {
	baseVictims := c.findBaseDuplicates()
	derivedVictims := c.findDerivedVictims()

	for _, v := range baseVictims {
		c.logger.Info("removing duplicate base calendar",
			"calendar", v.Name, "kind", int(v.Kind), "dry_run", c.DryRun)
	}
	for _, v := range derivedVictims {
		c.logger.Info("removing derived calendar",
			"calendar", v.Name, "calendar_id", v.ID, "dry_run", c.DryRun)
	}

	if !c.DryRun {
		c.removeBase(baseVictims)
		for _, v := range derivedVictims {
			c.reg.RemoveDerived(v)
		}
	}
	return len(baseVictims) + len(derivedVictims)
}

// findBaseDuplicates keys the base set by normalized name + discriminator.
// The placeholder instance is never removed; system instances (kinds 1-3)
// are removed only when a true duplicate of their key exists.
func (c *Cleaner) findBaseDuplicates() []*domain.Calendar {
	seen := make(map[string]bool)
	var victims []*domain.Calendar
	for _, cal := range c.reg.Base() {
		key := fmt.Sprintf("%s|%d", normalizeName(cal.Name), cal.Kind)
		if !seen[key] {
			seen[key] = true
			continue
		}
		if cal.Kind == domain.CalendarPlaceholder {
			continue
		}
		victims = append(victims, cal)
	}
	return victims
}

// findDerivedVictims dedups the derived set (by durable id when valid, by
// normalized name otherwise) and additionally marks any calendar whose base
// chain revisits a durable id, regardless of uniqueness.
func (c *Cleaner) findDerivedVictims() []*domain.Calendar {
	seenIDs := make(map[int64]bool)
	seenNames := make(map[string]bool)
	var victims []*domain.Calendar
	for _, cal := range c.reg.Derived() {
		if hasBaseCycle(cal) {
			c.logger.Warn("calendar base chain forms a cycle",
				"calendar", cal.Name, "calendar_id", cal.ID)
			victims = append(victims, cal)
			continue
		}
		if cal.HasDurableID() {
			if seenIDs[cal.ID] {
				victims = append(victims, cal)
				continue
			}
			seenIDs[cal.ID] = true
			continue
		}
		key := normalizeName(cal.Name)
		if seenNames[key] {
			victims = append(victims, cal)
			continue
		}
		seenNames[key] = true
	}
	return victims
}

func (c *Cleaner) removeBase(victims []*domain.Calendar) {
	if len(victims) == 0 {
		return
	}
	drop := make(map[*domain.Calendar]bool, len(victims))
	for _, v := range victims {
		drop[v] = true
	}
	kept := c.reg.project.BaseCalendars[:0]
	for _, cal := range c.reg.project.BaseCalendars {
		if !drop[cal] {
			kept = append(kept, cal)
		}
	}
	c.reg.project.BaseCalendars = kept
}

// hasBaseCycle walks the base chain tracking visited durable ids; a repeated
// id or revisited node marks the chain as cyclic.
func hasBaseCycle(cal *domain.Calendar) bool {
	visited := make(map[*domain.Calendar]bool)
	ids := make(map[int64]bool)
	for n := cal; n != nil; n = n.Base {
		if visited[n] {
			return true
		}
		visited[n] = true
		if n.ID > 0 {
			if ids[n.ID] {
				return true
			}
			ids[n.ID] = true
		}
	}
	return false
}

// RepairBases re-points calendars whose base resolves to the kind-0
// placeholder at the true Standard calendar, skipping any repair that would
// create a self-reference. Returns the number of repairs applied.
func (c *Cleaner) RepairBases() int {
	std := c.reg.Standard()
	if std == nil {
		return 0
	}
	repaired := 0
	for _, cal := range c.reg.Derived() {
		if cal.Base == nil || cal.Base.Kind != domain.CalendarPlaceholder {
			continue
		}
		if cal == std {
			continue
		}
		c.logger.Info("repairing placeholder base calendar",
			"calendar", cal.Name, "calendar_id", cal.ID)
		assignBase(cal, std, c.logger)
		repaired++
	}
	return repaired
}
