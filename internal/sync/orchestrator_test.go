package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/ganttsync/internal/domain"
	"github.com/alexanderramin/ganttsync/internal/snapshot"
	"github.com/alexanderramin/ganttsync/internal/testutil"
)

func newSnapshot(shortID string) *snapshot.Snapshot {
	return &snapshot.Snapshot{Project: snapshot.ProjectInput{ShortID: shortID}}
}

type recordingObserver struct {
	events []PhaseEvent
}

func (r *recordingObserver) ObservePhase(_ context.Context, e PhaseEvent) {
	r.events = append(r.events, e)
}

func TestOrchestrator_FullPipeline(t *testing.T) {
	p := testutil.NewTestProject("PROJ01")
	snap := newSnapshot("PROJ01")
	snap.Resources = []snapshot.ResourceInput{
		testutil.NewResourceInput("RES-001", "Alice"),
	}
	snap.Tasks = []snapshot.TaskInput{
		testutil.NewTaskInput("A", "Phase", 0, testutil.WithSummary()),
		testutil.NewTaskInput("B", "Design", 1, testutil.WithResources("RES-001")),
		testutil.NewTaskInput("C", "Build", 1, testutil.WithPredecessors("B")),
	}

	o := NewOrchestrator(testutil.DiscardLogger())
	result, err := o.Synchronize(context.Background(), p, snap)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 1, result.Resources.Synced)
	assert.Equal(t, 3, result.Tasks.Created)
	assert.Equal(t, 2, result.Hierarchy.Applied)
	assert.Equal(t, 1, result.Dependencies.Created)
	assert.Equal(t, 1, result.Assignments.Applied)

	// The temporary resource id was mapped and substituted end to end: B's
	// assignment points at the durable pool entry, not at "RES-001".
	require.Len(t, p.Resources, 1)
	alice := p.Resources[0]
	durable, ok := result.Resources.IDMapping["RES-001"]
	require.True(t, ok)
	assert.NotEqual(t, "RES-001", durable)

	b := p.FindTaskByClientID("B")
	require.NotNil(t, b)
	require.Len(t, b.Assignments, 1)
	assert.Same(t, alice, b.Assignments[0].Resource)

	a, c := p.FindTaskByClientID("A"), p.FindTaskByClientID("C")
	assert.Same(t, a, b.Parent)
	assert.Same(t, a, c.Parent)
	require.Len(t, c.Predecessors, 1)
	assert.Same(t, b, c.Predecessors[0].Predecessor)
}

func TestOrchestrator_SecondRunConverges(t *testing.T) {
	p := testutil.NewTestProject("PROJ02")
	snap := newSnapshot("PROJ02")
	snap.Resources = []snapshot.ResourceInput{
		testutil.NewResourceInput("RES-001", "Alice"),
	}
	snap.Tasks = []snapshot.TaskInput{
		testutil.NewTaskInput("A", "Phase", 0, testutil.WithSummary()),
		testutil.NewTaskInput("B", "Design", 1, testutil.WithResources("RES-001")),
		testutil.NewTaskInput("C", "Build", 1, testutil.WithPredecessors("B")),
	}
	o := NewOrchestrator(testutil.DiscardLogger())

	first, err := o.Synchronize(context.Background(), p, snap)
	require.NoError(t, err)
	aliceID := p.Resources[0].ID

	second, err := o.Synchronize(context.Background(), p, snap)
	require.NoError(t, err)

	// Resource identity is stable across runs and the mapping repeats it.
	require.Len(t, p.Resources, 1)
	assert.Equal(t, aliceID, p.Resources[0].ID)
	assert.Equal(t, first.Resources.IDMapping, second.Resources.IDMapping)

	// Nothing obsolete accumulated: no removals beyond the wholesale task
	// replace, and the final graph shape is identical.
	assert.Zero(t, second.Dependencies.Removed)
	assert.Len(t, p.Tasks, 3)
	b, c := p.FindTaskByClientID("B"), p.FindTaskByClientID("C")
	assert.Same(t, p.FindTaskByClientID("A"), b.Parent)
	require.Len(t, c.Predecessors, 1)
	assert.Same(t, b, c.Predecessors[0].Predecessor)
	require.Len(t, b.Assignments, 1)
	assert.Equal(t, aliceID, b.Assignments[0].Resource.ID)
}

func TestOrchestrator_NilArguments(t *testing.T) {
	o := NewOrchestrator(testutil.DiscardLogger())
	p := testutil.NewTestProject("PROJ03")

	_, err := o.Synchronize(context.Background(), nil, newSnapshot("PROJ03"))
	assert.ErrorIs(t, err, ErrNilProject)

	_, err = o.Synchronize(context.Background(), p, nil)
	assert.ErrorIs(t, err, ErrNilSnapshot)
}

func TestOrchestrator_InvalidSnapshotRejected(t *testing.T) {
	o := NewOrchestrator(testutil.DiscardLogger())
	p := testutil.NewTestProject("PROJ04")
	snap := newSnapshot("") // missing short id
	snap.Tasks = []snapshot.TaskInput{{ID: "T1"}} // missing name

	_, err := o.Synchronize(context.Background(), p, snap)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
	assert.Empty(t, p.Tasks, "nothing is mutated on a rejected snapshot")
}

func TestOrchestrator_CalendarListSemantics(t *testing.T) {
	p := testutil.NewTestProject("PROJ05")
	o := NewOrchestrator(testutil.DiscardLogger())

	// Seed a custom calendar through a resource settings payload.
	seed := newSnapshot("PROJ05")
	res := testutil.NewResourceInput("R1", "Crew")
	res.Calendar = &snapshot.CalendarInput{Name: "Rotation"}
	seed.Resources = []snapshot.ResourceInput{res}
	_, err := o.Synchronize(context.Background(), p, seed)
	require.NoError(t, err)
	require.Len(t, p.DerivedCalendars, 1)

	// A nil calendar list leaves the set untouched.
	_, err = o.Synchronize(context.Background(), p, newSnapshot("PROJ05"))
	require.NoError(t, err)
	assert.Len(t, p.DerivedCalendars, 1)

	// A non-empty list keeps/creates exactly those entries.
	keep := newSnapshot("PROJ05")
	keep.Calendars = []snapshot.CalendarInput{{Name: "Rotation"}, {Name: "Foundry"}}
	result, err := o.Synchronize(context.Background(), p, keep)
	require.NoError(t, err)
	assert.Equal(t, 2, result.CalendarsKept)
	assert.Len(t, p.DerivedCalendars, 2)

	// An empty (non-nil) list retires every custom calendar; holders are
	// migrated off before removal.
	retire := newSnapshot("PROJ05")
	retire.Calendars = []snapshot.CalendarInput{}
	result, err = o.Synchronize(context.Background(), p, retire)
	require.NoError(t, err)
	assert.Equal(t, 2, result.CalendarsRemoved)
	assert.Empty(t, p.DerivedCalendars)
	require.NotNil(t, p.Resources[0].Calendar)
	assert.Equal(t, domain.CalendarStandard, p.Resources[0].Calendar.Kind)
}

func TestOrchestrator_ExternalTasksSurviveResync(t *testing.T) {
	p := testutil.NewTestProject("PROJ06")
	external := &domain.Task{ID: 5, Name: "Interface milestone", External: true}
	p.Tasks = append(p.Tasks, external)
	p.RebuildChildIndex()

	snap := newSnapshot("PROJ06")
	snap.Tasks = []snapshot.TaskInput{testutil.NewTaskInput("T1", "Local work", 0)}

	o := NewOrchestrator(testutil.DiscardLogger())
	result, err := o.Synchronize(context.Background(), p, snap)

	require.NoError(t, err)
	assert.Zero(t, result.Tasks.Removed)
	assert.Len(t, p.Tasks, 2)
	assert.Contains(t, p.Tasks, external)
}

func TestOrchestrator_ReportsPhases(t *testing.T) {
	p := testutil.NewTestProject("PROJ07")
	snap := newSnapshot("PROJ07")
	snap.Tasks = []snapshot.TaskInput{testutil.NewTaskInput("T1", "Work", 0)}
	snap.Calendars = []snapshot.CalendarInput{}

	rec := &recordingObserver{}
	_, err := NewOrchestrator(testutil.DiscardLogger(), rec).Synchronize(context.Background(), p, snap)
	require.NoError(t, err)

	var names []string
	for _, e := range rec.events {
		names = append(names, e.Phase)
		assert.True(t, e.Success)
		assert.NotEmpty(t, e.RunID)
	}
	assert.Equal(t, []string{"resources", "tasks", "hierarchy", "dependencies", "assignments", "calendars"}, names)
}
