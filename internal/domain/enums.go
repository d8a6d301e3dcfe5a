package domain

import "strings"

// CalendarKind is the server-side discriminator for calendars. The three
// system calendars carry stable small values; 0 is the internal placeholder
// that exists only as a default-base slot and must never be used as a real
// base once a calendar is in active use.
type CalendarKind int

const (
	CalendarPlaceholder     CalendarKind = 0
	CalendarStandard        CalendarKind = 1
	CalendarTwentyFourSeven CalendarKind = 2
	CalendarNightShift      CalendarKind = 3
	CalendarCustom          CalendarKind = 4
)

// ResourceType is the closed set of resource categories.
type ResourceType int

const (
	ResourceWork     ResourceType = 0
	ResourceMaterial ResourceType = 1
	ResourceCost     ResourceType = 2
)

// ResourceTypeFromString maps a client type string onto the discriminator.
// Unknown or empty values default to Work.
func ResourceTypeFromString(s string) ResourceType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "material":
		return ResourceMaterial
	case "cost":
		return ResourceCost
	default:
		return ResourceWork
	}
}

func (t ResourceType) String() string {
	switch t {
	case ResourceMaterial:
		return "material"
	case ResourceCost:
		return "cost"
	default:
		return "work"
	}
}

// DependencySource records who created a dependency edge. Automated sync
// edits carry a marker distinct from manual ones so downstream consumers
// (recompute triggers, undo history) can tell them apart.
type DependencySource string

const (
	DependencySourceUser DependencySource = "user"
	DependencySourceSync DependencySource = "sync"
)
