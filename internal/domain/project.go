package domain

import "time"

// Project is the aggregate root: it owns the task outline, the resource
// pool, and both calendar sets. Every mutation in the reconciliation
// pipeline happens through a single in-memory instance of this type.
type Project struct {
	ID        string // server-side aggregate id (UUID)
	ShortID   string
	Name      string
	Calendar  *Calendar
	Tasks     []*Task // outline order
	Resources []*Resource

	// BaseCalendars holds the placeholder and system calendars (and, in
	// data inherited from older sessions, possible duplicates of them).
	// DerivedCalendars holds the custom calendars.
	BaseCalendars    []*Calendar
	DerivedCalendars []*Calendar

	CreatedAt time.Time
	UpdatedAt time.Time

	children map[*Task][]*Task
}

// FindTaskByClientID returns the first task with the given client id, or nil.
func (p *Project) FindTaskByClientID(clientID string) *Task {
	for _, t := range p.Tasks {
		if t.ClientID == clientID {
			return t
		}
	}
	return nil
}

// FindTask returns the task with the given durable id, or nil.
func (p *Project) FindTask(id int64) *Task {
	for _, t := range p.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// FindResourceByName returns the first resource with the given name, or nil.
func (p *Project) FindResourceByName(name string) *Resource {
	for _, r := range p.Resources {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// FindResource returns the resource with the given durable id, or nil.
func (p *Project) FindResource(id int64) *Resource {
	for _, r := range p.Resources {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// EffectiveTaskCalendar resolves the calendar a task actually works under:
// its own, else the nearest ancestor's, else the project calendar.
func (p *Project) EffectiveTaskCalendar(t *Task) *Calendar {
	for n := t; n != nil; n = n.Parent {
		if n.Calendar != nil {
			return n.Calendar
		}
	}
	return p.Calendar
}
