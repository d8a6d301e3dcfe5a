package domain

// HourRange is one daily working interval, in minutes from midnight.
type HourRange struct {
	StartMin int
	EndMin   int
}

// Calendar is either a fixed system calendar or a derived/custom calendar
// inheriting default hours from exactly one base calendar. A durable ID <= 0
// marks a broken or not-yet-assigned identity.
type Calendar struct {
	ID       int64
	Name     string
	Kind     CalendarKind
	WeekMask [7]bool // Monday..Sunday working-day mask
	Hours    []HourRange
	Base     *Calendar
}

// IsSystem reports whether the calendar is one of the three fixed system
// calendars.
func (c *Calendar) IsSystem() bool {
	return c.Kind >= CalendarStandard && c.Kind <= CalendarNightShift
}

// HasDurableID reports whether the calendar has been assigned a valid
// server-side identity.
func (c *Calendar) HasDurableID() bool {
	return c.ID > 0
}

// CalendarSettings is the full settings payload a client may attach to a
// resource or to the project calendar list.
type CalendarSettings struct {
	Name        string
	WeekMask    [7]bool
	Hours       []HourRange
	HoursPerDay float64
}
