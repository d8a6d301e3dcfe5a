package snapshot

import "fmt"

// Validate checks a snapshot for structural errors before reconciliation.
// Returns every validation error found, not just the first.
func Validate(s *Snapshot) []error {
	var errs []error

	if s.Project.ShortID == "" {
		errs = append(errs, fmt.Errorf("project.short_id is required"))
	}

	taskIDs := make(map[string]bool)
	errs = append(errs, validateTasks(s.Tasks, taskIDs)...)
	errs = append(errs, validateResources(s.Resources)...)
	errs = append(errs, validateCalendars(s.Calendars)...)

	return errs
}

func validateTasks(tasks []TaskInput, taskIDs map[string]bool) []error {
	var errs []error
	for i, t := range tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)

		if t.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if taskIDs[t.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, t.ID))
		} else {
			taskIDs[t.ID] = true
		}

		if t.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if t.Completion < 0 || t.Completion > 100 {
			errs = append(errs, fmt.Errorf("%s.completion must be in [0,100], got %v", prefix, t.Completion))
		}
		if t.Level < 0 {
			errs = append(errs, fmt.Errorf("%s.level must be >= 0, got %d", prefix, t.Level))
		}
		if t.StartMillis > 0 && t.EndMillis > 0 && t.EndMillis < t.StartMillis {
			errs = append(errs, fmt.Errorf("%s: end %d before start %d", prefix, t.EndMillis, t.StartMillis))
		}
		for j, p := range t.Predecessors {
			if p == t.ID {
				errs = append(errs, fmt.Errorf("%s.predecessors[%d]: task depends on itself", prefix, j))
			}
		}
		for j, a := range t.Assignments {
			if a.ResourceID == "" {
				errs = append(errs, fmt.Errorf("%s.assignments[%d].resource_id is required", prefix, j))
			}
			if a.Units <= 0 {
				errs = append(errs, fmt.Errorf("%s.assignments[%d].units must be positive, got %v", prefix, j, a.Units))
			}
		}
	}
	return errs
}

func validateResources(resources []ResourceInput) []error {
	var errs []error
	for i, r := range resources {
		prefix := fmt.Sprintf("resources[%d]", i)

		if r.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		// Type is deliberately unchecked: unrecognized values default to
		// work during reconciliation instead of rejecting the snapshot.
		if r.MaxUnits != nil && *r.MaxUnits <= 0 {
			errs = append(errs, fmt.Errorf("%s.max_units must be positive", prefix))
		}
		if r.Calendar != nil {
			errs = append(errs, validateCalendar(prefix+".calendar", r.Calendar)...)
		}
	}
	return errs
}

func validateCalendars(calendars []CalendarInput) []error {
	var errs []error
	for i := range calendars {
		errs = append(errs, validateCalendar(fmt.Sprintf("calendars[%d]", i), &calendars[i])...)
	}
	return errs
}

func validateCalendar(prefix string, c *CalendarInput) []error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	}
	for j, h := range c.Hours {
		if h.StartMin < 0 || h.EndMin > 24*60 || h.StartMin >= h.EndMin {
			errs = append(errs, fmt.Errorf("%s.hours[%d]: invalid range [%d,%d)", prefix, j, h.StartMin, h.EndMin))
		}
	}
	return errs
}
