package testutil

import (
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/ganttsync/internal/domain"
	"github.com/alexanderramin/ganttsync/internal/snapshot"
	"github.com/google/uuid"
)

// DiscardLogger returns a slog logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestProject builds an empty project aggregate.
func NewTestProject(shortID string) *domain.Project {
	now := time.Now().UTC()
	return &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   shortID,
		Name:      shortID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TaskOption mutates a task input fixture.
type TaskOption func(*snapshot.TaskInput)

// WithPredecessors sets the declared predecessor list.
func WithPredecessors(ids ...string) TaskOption {
	return func(t *snapshot.TaskInput) { t.Predecessors = ids }
}

// WithResources sets the plain resource id list.
func WithResources(ids ...string) TaskOption {
	return func(t *snapshot.TaskInput) { t.ResourceIDs = ids }
}

// WithAssignment appends an assignment entry.
func WithAssignment(resourceID string, units float64) TaskOption {
	return func(t *snapshot.TaskInput) {
		t.Assignments = append(t.Assignments, snapshot.AssignmentInput{ResourceID: resourceID, Units: units})
	}
}

// WithSummary flags the task as a summary node.
func WithSummary() TaskOption {
	return func(t *snapshot.TaskInput) { t.Summary = true }
}

// NewTaskInput builds a task snapshot row with a day-long default schedule.
func NewTaskInput(id, name string, level int, opts ...TaskOption) snapshot.TaskInput {
	t := snapshot.TaskInput{
		ID:          id,
		Name:        name,
		Level:       level,
		StartMillis: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC).UnixMilli(),
		EndMillis:   time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC).UnixMilli(),
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// NewResourceInput builds a resource snapshot row with a temporary id.
func NewResourceInput(tempID, name string) snapshot.ResourceInput {
	return snapshot.ResourceInput{TempID: tempID, Name: name, Type: "work"}
}
