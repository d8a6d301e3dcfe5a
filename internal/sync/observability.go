package sync

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// PhaseEvent captures lightweight execution telemetry for one pipeline
// phase of a reconciliation run.
type PhaseEvent struct {
	RunID     string
	Phase     string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// PhaseObserver receives pipeline phase events.
type PhaseObserver interface {
	ObservePhase(ctx context.Context, event PhaseEvent)
}

// NoopPhaseObserver ignores all events.
type NoopPhaseObserver struct{}

func (NoopPhaseObserver) ObservePhase(context.Context, PhaseEvent) {}

type logPhaseObserver struct {
	logger *slog.Logger
}

// NewLogPhaseObserver writes phase events to the provided writer.
func NewLogPhaseObserver(w io.Writer) PhaseObserver {
	if w == nil {
		return NoopPhaseObserver{}
	}
	return &logPhaseObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logPhaseObserver) ObservePhase(ctx context.Context, event PhaseEvent) {
	attrs := make([]any, 0, 8+len(event.Fields)*2)
	attrs = append(attrs,
		"run_id", event.RunID,
		"phase", event.Phase,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "sync_phase", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "sync_phase", attrs...)
}

func phaseObserverOrNoop(observers []PhaseObserver) PhaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopPhaseObserver{}
}
