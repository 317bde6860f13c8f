// Package session turns user gestures into filter operations and pushes the
// resulting snapshot to a renderer after each one.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/commitplot/pkg/filter"
	"github.com/Sumatoshi-tech/commitplot/pkg/observability"
)

// ErrUnknownEvent is returned for an event kind the session cannot apply.
var ErrUnknownEvent = errors.New("unknown event kind")

const tracerName = "commitplot"

// Kind names a gesture.
type Kind string

// Gesture kinds.
const (
	// KindProgress sets an exact slider position; out of range is rejected.
	KindProgress Kind = "progress"
	// KindSlider is a raw slider value, clamped to [0,100] first.
	KindSlider Kind = "slider"
	// KindRegion brushes a rectangle.
	KindRegion Kind = "region"
	// KindClear removes the brush.
	KindClear Kind = "clear"
	// KindFraction scrolls the commit list to a fraction in [0,1].
	KindFraction Kind = "fraction"
)

// Event is one gesture.
type Event struct {
	Kind   Kind      `json:"kind" yaml:"kind"`
	Value  float64   `json:"value,omitempty" yaml:"value,omitempty"`
	Region []float64 `json:"region,omitempty" yaml:"region,omitempty,flow"`
	Note   string    `json:"note,omitempty" yaml:"note,omitempty"`
}

// Rect returns the event's region. A missing or short region is NoRegion.
func (e Event) Rect() filter.Region {
	if len(e.Region) != 4 {
		return filter.NoRegion
	}

	return filter.Rect(e.Region[0], e.Region[1], e.Region[2], e.Region[3])
}

// Sink receives a snapshot after every applied event.
type Sink interface {
	Publish(ctx context.Context, snap filter.Snapshot) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, snap filter.Snapshot) error

// Publish calls f.
func (f SinkFunc) Publish(ctx context.Context, snap filter.Snapshot) error {
	return f(ctx, snap)
}

// Recorder is a Sink that keeps every snapshot it receives.
type Recorder struct {
	Snapshots []filter.Snapshot
}

// Publish appends snap.
func (r *Recorder) Publish(_ context.Context, snap filter.Snapshot) error {
	r.Snapshots = append(r.Snapshots, snap)

	return nil
}

// Last returns the most recent snapshot.
func (r *Recorder) Last() (filter.Snapshot, bool) {
	if len(r.Snapshots) == 0 {
		return filter.Snapshot{}, false
	}

	return r.Snapshots[len(r.Snapshots)-1], true
}

// Session applies events to one filter manager.
type Session struct {
	manager *filter.Manager
	sink    Sink
	logger  *slog.Logger
	tracer  trace.Tracer
}

// New creates a session. A nil sink discards snapshots; a nil logger uses
// slog.Default().
func New(manager *filter.Manager, sink Sink, logger *slog.Logger) *Session {
	if sink == nil {
		sink = SinkFunc(func(context.Context, filter.Snapshot) error { return nil })
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		manager: manager,
		sink:    sink,
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
	}
}

// Manager returns the underlying filter manager.
func (s *Session) Manager() *filter.Manager {
	return s.manager
}

// Apply runs ev against the manager and publishes the snapshot. Invalid
// filter input leaves the state as it was: the unchanged snapshot is
// published again and the ErrInvalidFilterInput is returned.
func (s *Session) Apply(ctx context.Context, ev Event) error {
	ctx, span := s.tracer.Start(ctx, observability.SpanSessionEvent,
		trace.WithAttributes(attribute.String("session.event", string(ev.Kind))))
	defer span.End()

	var err error

	switch ev.Kind {
	case KindProgress:
		err = s.manager.SetTimeProgress(ctx, ev.Value)
	case KindSlider:
		err = s.manager.SetTimeProgress(ctx, filter.ClampProgress(ev.Value))
	case KindRegion:
		if len(ev.Region) != 4 {
			err = fmt.Errorf("%w: region needs 4 coordinates, got %d", filter.ErrInvalidFilterInput, len(ev.Region))
		} else {
			err = s.manager.SetRegion(ctx, ev.Rect())
		}
	case KindClear:
		err = s.manager.SetRegion(ctx, filter.NoRegion)
	case KindFraction:
		err = s.manager.SetCommitFraction(ctx, ev.Value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}

	if err != nil && !errors.Is(err, filter.ErrInvalidFilterInput) {
		return err
	}

	if pubErr := s.sink.Publish(ctx, s.manager.Snapshot()); pubErr != nil {
		return fmt.Errorf("publish snapshot: %w", pubErr)
	}

	return err
}

// Report summarises a replay.
type Report struct {
	Applied  int             `json:"applied"`
	Rejected int             `json:"rejected"`
	Final    filter.Snapshot `json:"final"`
}

// Replay applies every event of script in order. Rejected inputs are counted
// and skipped; any other error stops the replay.
func (s *Session) Replay(ctx context.Context, script *Script) (Report, error) {
	var report Report

	for i, ev := range script.Events {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("replay: %w", err)
		}

		err := s.Apply(ctx, ev)

		switch {
		case errors.Is(err, filter.ErrInvalidFilterInput):
			report.Rejected++

			s.logger.WarnContext(ctx, "gesture rejected", "index", i, "kind", ev.Kind, "error", err)
		case err != nil:
			return report, fmt.Errorf("event %d (%s): %w", i, ev.Kind, err)
		default:
			report.Applied++
		}
	}

	report.Final = s.manager.Snapshot()

	return report, nil
}
