package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSnapshot() *Snapshot {
	return &Snapshot{
		Project: ProjectInput{ShortID: "PROJ01"},
		Tasks: []TaskInput{
			{ID: "T1", Name: "Excavate", Completion: 50},
			{ID: "T2", Name: "Pour", Level: 1, Predecessors: []string{"T1"}},
		},
		Resources: []ResourceInput{
			{TempID: "RES-001", Name: "Alice", Type: "work"},
		},
	}
}

func TestValidate_AcceptsWellFormedSnapshot(t *testing.T) {
	assert.Empty(t, Validate(validSnapshot()))
}

func TestValidate_RequiresProjectShortID(t *testing.T) {
	s := validSnapshot()
	s.Project.ShortID = ""

	errs := Validate(s)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "short_id")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	s := &Snapshot{
		Tasks: []TaskInput{
			{ID: "", Name: "", Completion: 150},
			{ID: "T2", Name: "Pour", Level: -1},
			{ID: "T2", Name: "Duplicate"},
		},
	}

	errs := Validate(s)
	assert.GreaterOrEqual(t, len(errs), 5, "every problem is reported, not just the first")
}

func TestValidate_TaskRules(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*TaskInput)
		message string
	}{
		{"completion above range", func(t *TaskInput) { t.Completion = 101 }, "completion"},
		{"completion below range", func(t *TaskInput) { t.Completion = -1 }, "completion"},
		{"negative level", func(t *TaskInput) { t.Level = -2 }, "level"},
		{"end before start", func(t *TaskInput) { t.StartMillis = 2000; t.EndMillis = 1000 }, "before start"},
		{"self dependency", func(t *TaskInput) { t.Predecessors = []string{"T1"} }, "itself"},
		{"assignment without resource", func(t *TaskInput) {
			t.Assignments = []AssignmentInput{{Units: 1}}
		}, "resource_id"},
		{"non-positive units", func(t *TaskInput) {
			t.Assignments = []AssignmentInput{{ResourceID: "1", Units: 0}}
		}, "units"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSnapshot()
			tc.mutate(&s.Tasks[0])
			errs := Validate(s)
			require.NotEmpty(t, errs)
			assert.Contains(t, errs[0].Error(), tc.message)
		})
	}
}

func TestValidate_ResourceRules(t *testing.T) {
	s := validSnapshot()
	bad := 0.0
	s.Resources = append(s.Resources,
		ResourceInput{Name: "", MaxUnits: &bad})

	errs := Validate(s)
	require.Len(t, errs, 2)
}

func TestValidate_ToleratesUnknownResourceType(t *testing.T) {
	s := validSnapshot()
	s.Resources[0].Type = "Work"
	s.Resources = append(s.Resources, ResourceInput{Name: "Crane", Type: "plutonium"})

	// Unrecognized types are defaulted during reconciliation, never
	// rejected up front.
	assert.Empty(t, Validate(s))
}

func TestValidate_CalendarRules(t *testing.T) {
	s := validSnapshot()
	s.Calendars = []CalendarInput{
		{Name: "", Hours: []HourRangeInput{{StartMin: 600, EndMin: 600}, {StartMin: -1, EndMin: 60}}},
	}

	errs := Validate(s)
	assert.Len(t, errs, 3)

	s = validSnapshot()
	s.Resources[0].Calendar = &CalendarInput{Name: "Rotation", Hours: []HourRangeInput{{StartMin: 0, EndMin: 25 * 60}}}
	errs = Validate(s)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "calendar")
}
