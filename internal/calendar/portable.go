package calendar

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/alexanderramin/ganttsync/internal/domain"
)

// Portable calendar identifier shapes. Custom calendars without a valid
// durable id encode a deterministic name hash instead, so the same name
// yields the same identifier across sessions.
const (
	PortableStandard        = "standard"
	PortableTwentyFourSeven = "24_7"
	PortableNightShift      = "night_shift"

	customPrefix     = "custom_"
	legacyPrefix     = "custom_legacy_"
	deprecatedPrefix = "CAL-"
)

// SanitizeName lower-cases a calendar name, strips characters outside
// letters, digits, space, and hyphen, and collapses whitespace runs to
// underscores.
func SanitizeName(name string) string {
	lowered := strings.ToLower(name)
	var b strings.Builder
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), "_")
}

func nameHash(name string) string {
	sum := sha1.Sum([]byte(name))
	return hex.EncodeToString(sum[:])
}

// ToPortableID encodes a calendar as a portable identifier string. The
// second return value is false for calendars that have no portable shape
// (nil or the internal placeholder).
func ToPortableID(c *domain.Calendar) (string, bool) {
	if c == nil {
		return "", false
	}
	switch c.Kind {
	case domain.CalendarStandard:
		return PortableStandard, true
	case domain.CalendarTwentyFourSeven:
		return PortableTwentyFourSeven, true
	case domain.CalendarNightShift:
		return PortableNightShift, true
	case domain.CalendarPlaceholder:
		return "", false
	}
	if c.HasDurableID() {
		return fmt.Sprintf("%s%d_%s", customPrefix, c.ID, SanitizeName(c.Name)), true
	}
	return fmt.Sprintf("%s%s_%s", legacyPrefix, nameHash(c.Name), SanitizeName(c.Name)), true
}

// Resolver maps portable identifier strings back to live calendars.
type Resolver struct {
	reg     *Registry
	factory *Factory
	logger  *slog.Logger
}

// NewResolver builds a resolver over the given registry. The factory is
// used for on-demand creation when a custom identifier matches nothing.
func NewResolver(reg *Registry, factory *Factory, logger *slog.Logger) *Resolver {
	return &Resolver{reg: reg, factory: factory, logger: logger}
}

// FromPortableID resolves a portable identifier to a calendar, or nil when
// it cannot be resolved. Deprecated CAL- identifiers are normalized first.
// A resolved calendar with an unsafe base chain is rejected.
func (r *Resolver) FromPortableID(id string) *domain.Calendar {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}

	var cal *domain.Calendar
	switch {
	case id == PortableStandard:
		cal = r.reg.BySystemKind(domain.CalendarStandard)
	case id == PortableTwentyFourSeven:
		cal = r.reg.BySystemKind(domain.CalendarTwentyFourSeven)
	case id == PortableNightShift:
		cal = r.reg.BySystemKind(domain.CalendarNightShift)
	case strings.HasPrefix(id, deprecatedPrefix):
		cal = r.resolveDeprecated(strings.TrimPrefix(id, deprecatedPrefix))
	case strings.HasPrefix(id, legacyPrefix):
		cal = r.resolveLegacy(strings.TrimPrefix(id, legacyPrefix))
	case strings.HasPrefix(id, customPrefix):
		cal = r.resolveCustom(strings.TrimPrefix(id, customPrefix))
	default:
		r.logger.Warn("unrecognized portable calendar id", "id", id)
		return nil
	}

	if cal == nil {
		return nil
	}
	if !SafeForUse(cal) {
		r.logger.Warn("resolved calendar rejected as structurally unsafe",
			"id", id, "calendar", cal.Name)
		return nil
	}
	return cal
}

// resolveDeprecated handles the retired CAL-* shape: a numeric suffix is a
// durable-id lookup, anything else a name lookup. The deprecated shape never
// triggers on-demand creation.
func (r *Resolver) resolveDeprecated(rest string) *domain.Calendar {
	if durableID, err := strconv.ParseInt(rest, 10, 64); err == nil {
		return r.reg.ByID(durableID)
	}
	return r.reg.ByNormalizedName(rest)
}

// resolveLegacy handles custom_legacy_<hash>_<name>: legacy calendars have
// no durable id, so resolution is by name only (hash match first, then
// sanitized-name match).
func (r *Resolver) resolveLegacy(rest string) *domain.Calendar {
	hash, sanitized, ok := strings.Cut(rest, "_")
	if !ok {
		hash = rest
	}
	for _, c := range r.reg.Derived() {
		if nameHash(c.Name) == hash {
			return c
		}
	}
	if sanitized == "" {
		return nil
	}
	return r.bySanitizedName(sanitized)
}

// resolveCustom handles custom_<id>_<name>: durable-id lookup, falling back
// to name lookup, falling back to on-demand creation.
func (r *Resolver) resolveCustom(rest string) *domain.Calendar {
	idPart, sanitized, _ := strings.Cut(rest, "_")
	if durableID, err := strconv.ParseInt(idPart, 10, 64); err == nil {
		if c := r.reg.ByID(durableID); c != nil {
			return c
		}
	}
	if c := r.bySanitizedName(sanitized); c != nil {
		return c
	}
	if sanitized == "" || r.factory == nil {
		return nil
	}
	r.logger.Info("creating calendar on demand for unresolved portable id",
		"name", sanitized)
	return r.factory.CreateOrUpdate(domain.CalendarSettings{
		Name:     sanitized,
		WeekMask: [7]bool{true, true, true, true, true, false, false},
		Hours:    []domain.HourRange{{StartMin: 8 * 60, EndMin: 17 * 60}},
	})
}

func (r *Resolver) bySanitizedName(sanitized string) *domain.Calendar {
	if sanitized == "" {
		return nil
	}
	for _, c := range r.reg.Derived() {
		if SanitizeName(c.Name) == sanitized {
			return c
		}
	}
	for _, c := range r.reg.Base() {
		if SanitizeName(c.Name) == sanitized {
			return c
		}
	}
	return nil
}
