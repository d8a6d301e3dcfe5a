package calendar

import (
	"fmt"
	"log/slog"

	"github.com/alexanderramin/ganttsync/internal/domain"
)

// SafeForUse reports whether a calendar's base chain is structurally sound:
// no self-referential base pointer and no cycle anywhere up the chain.
func SafeForUse(c *domain.Calendar) bool {
	if c == nil {
		return false
	}
	visited := make(map[*domain.Calendar]bool)
	ids := make(map[int64]bool)
	for n := c; n != nil; n = n.Base {
		if n.Base == n {
			return false
		}
		if visited[n] {
			return false
		}
		visited[n] = true
		if n.ID > 0 {
			if ids[n.ID] {
				return false
			}
			ids[n.ID] = true
		}
	}
	return true
}

// ValidateReplacement checks that swapping a holder's calendar from old to
// next is safe to apply. A nil or structurally unsafe replacement is
// rejected; the holder keeps old in that case.
func ValidateReplacement(old, next *domain.Calendar) error {
	from := "<none>"
	if old != nil {
		from = old.Name
	}
	if next == nil {
		return fmt.Errorf("replacing calendar %q: replacement is nil", from)
	}
	if !SafeForUse(next) {
		return fmt.Errorf("replacing calendar %q: replacement %q has an unsafe base chain", from, next.Name)
	}
	if next.Kind == domain.CalendarPlaceholder {
		return fmt.Errorf("replacing calendar %q: replacement %q is the unset-base placeholder", from, next.Name)
	}
	return nil
}

// assignBase points c at a new base calendar. A self-referential assignment
// is logged and skipped, leaving the previous base intact.
func assignBase(c, base *domain.Calendar, logger *slog.Logger) {
	if base == c {
		logger.Warn("refusing self-referential base calendar assignment",
			"calendar", c.Name, "calendar_id", c.ID)
		return
	}
	c.Base = base
}
