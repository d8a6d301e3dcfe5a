// Package snapshot defines the flat client-submitted project snapshot and
// its validation. Each sync call carries a full desired state, not an event
// log: the reconciliation pipeline diffs it against the live aggregate.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alexanderramin/ganttsync/internal/domain"
)

// Snapshot is the top-level JSON structure a client submits for one sync.
// Calendars distinguishes absent (nil: leave the project calendar set
// untouched) from empty (retire every non-system calendar).
type Snapshot struct {
	Project   ProjectInput   `json:"project"`
	Tasks     []TaskInput    `json:"tasks"`
	Resources []ResourceInput `json:"resources,omitempty"`
	Calendars []CalendarInput `json:"calendars"`
}

// ProjectInput identifies the target project.
type ProjectInput struct {
	ShortID string `json:"short_id"`
	Name    string `json:"name,omitempty"`
}

// TaskInput is one flat task row. Level is the outline nesting depth the
// hierarchy synchronizer reconstructs the tree from.
type TaskInput struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	StartMillis  int64             `json:"start,omitempty"`
	EndMillis    int64             `json:"end,omitempty"`
	Completion   float64           `json:"completion"` // 0..100
	Level        int               `json:"level"`
	Summary      bool              `json:"summary,omitempty"`
	Milestone    bool              `json:"milestone,omitempty"`
	Predecessors []string          `json:"predecessors,omitempty"`
	ResourceIDs  []string          `json:"resource_ids,omitempty"`
	Assignments  []AssignmentInput `json:"assignments,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	Color        string            `json:"color,omitempty"`
}

// AssignmentInput allocates a resource to a task with a units multiplier.
type AssignmentInput struct {
	ResourceID string  `json:"resource_id"`
	Units      float64 `json:"units"`
}

// ResourceInput is one desired resource. TempID (or a non-numeric ID) is the
// client-issued temporary identifier echoed back in the id mapping.
type ResourceInput struct {
	ID           string         `json:"id,omitempty"`
	TempID       string         `json:"temp_id,omitempty"`
	Name         string         `json:"name"`
	Type         string         `json:"type,omitempty"` // work|material|cost
	MaxUnits     *float64       `json:"max_units,omitempty"`
	StandardRate float64        `json:"standard_rate,omitempty"`
	OvertimeRate float64        `json:"overtime_rate,omitempty"`
	CostPerUse   float64        `json:"cost_per_use,omitempty"`
	Email        string         `json:"email,omitempty"`
	Group        string         `json:"group,omitempty"`
	CalendarID   string         `json:"calendar_id,omitempty"`
	Calendar     *CalendarInput `json:"calendar,omitempty"` // full settings payload; wins over CalendarID
}

// CalendarInput is a full calendar settings payload.
type CalendarInput struct {
	ID          int64            `json:"id,omitempty"`
	Name        string           `json:"name"`
	WorkingDays [7]bool          `json:"working_days"`
	Hours       []HourRangeInput `json:"hours,omitempty"`
	HoursPerDay float64          `json:"hours_per_day,omitempty"`
}

// HourRangeInput is one daily working interval in minutes from midnight.
type HourRangeInput struct {
	StartMin int `json:"start_min"`
	EndMin   int `json:"end_min"`
}

// Settings converts the payload to the domain settings type.
func (c *CalendarInput) Settings() domain.CalendarSettings {
	s := domain.CalendarSettings{
		Name:        c.Name,
		WeekMask:    c.WorkingDays,
		HoursPerDay: c.HoursPerDay,
	}
	for _, h := range c.Hours {
		s.Hours = append(s.Hours, domain.HourRange{StartMin: h.StartMin, EndMin: h.EndMin})
	}
	return s
}

// Load reads and parses a snapshot JSON file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot file: %w", err)
	}
	return &snap, nil
}
