// Package filter owns the interactive filter state of a session: the time
// slider, the brushed region, and the visible and selected commit sets that
// follow from them.
package filter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	algstats "github.com/Sumatoshi-tech/commitplot/pkg/alg/stats"
	"github.com/Sumatoshi-tech/commitplot/pkg/commits"
	"github.com/Sumatoshi-tech/commitplot/pkg/observability"
	"github.com/Sumatoshi-tech/commitplot/pkg/scale"
)

// ErrInvalidFilterInput is returned for a progress value or region that
// cannot be applied. The state is left unchanged.
var ErrInvalidFilterInput = errors.New("invalid filter input")

const tracerName = "commitplot"

// Operation names used in spans, logs and metrics.
const (
	OpProgress = "progress"
	OpRegion   = "region"
	OpFraction = "fraction"
)

// State is the filter state after the last accepted operation.
type State struct {
	// TimeProgress is the slider position in [0,100].
	TimeProgress float64 `json:"time_progress"`

	// TimeThreshold is the latest instant a visible commit may have. Zero
	// when HasThreshold is false.
	TimeThreshold time.Time `json:"time_threshold"`
	HasThreshold  bool      `json:"has_threshold"`

	// Region is the persisted brush, applied again whenever the visible set
	// changes.
	Region Region `json:"region"`

	Visible  []commits.Summary `json:"-"`
	Selected []commits.Summary `json:"-"`
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger for recompute debug lines and rejections.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics records every operation into em.
func WithMetrics(em *observability.EngineMetrics) Option {
	return func(m *Manager) {
		m.metrics = em
	}
}

// WithTracer overrides the global tracer.
func WithTracer(tr trace.Tracer) Option {
	return func(m *Manager) {
		if tr != nil {
			m.tracer = tr
		}
	}
}

// Manager is the only writer of a session's State. It is not safe for
// concurrent use; apply operations from one goroutine.
type Manager struct {
	store    *commits.Store
	coord    *scale.Coordinator
	progress scale.Progress
	timeline bool

	state  State
	scales scale.Set

	logger  *slog.Logger
	metrics *observability.EngineMetrics
	tracer  trace.Tracer
}

// NewManager returns a manager over store showing every commit and no
// selection.
func NewManager(store *commits.Store, coord *scale.Coordinator, opts ...Option) *Manager {
	if coord == nil {
		coord = scale.NewCoordinator(scale.DefaultGeometry())
	}

	m := &Manager{
		store:  store,
		coord:  coord,
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(m)
	}

	if earliest, latest, ok := store.Bounds(); ok {
		m.progress = scale.NewProgress(earliest, latest)
		m.timeline = true
	}

	m.applyProgress(context.Background(), scale.ProgressMax)

	return m
}

// ClampProgress limits a raw slider value to [0,100]. NaN becomes 0.
func ClampProgress(v float64) float64 {
	if math.IsNaN(v) {
		return scale.ProgressMin
	}

	return algstats.Clamp(v, scale.ProgressMin, scale.ProgressMax)
}

// SetTimeProgress moves the slider to p, recomputes the visible set and its
// scales, and reapplies the persisted region.
func (m *Manager) SetTimeProgress(ctx context.Context, p float64) error {
	return m.run(ctx, OpProgress, []attribute.KeyValue{attribute.Float64("filter.progress", p)}, func(ctx context.Context) error {
		if math.IsNaN(p) || p < scale.ProgressMin || p > scale.ProgressMax {
			return fmt.Errorf("%w: progress %v outside [%d,%d]", ErrInvalidFilterInput, p, scale.ProgressMin, scale.ProgressMax)
		}

		m.applyProgress(ctx, p)

		return nil
	})
}

// SetRegion brushes r over the current scales, or clears the selection for
// NoRegion. The scales are not refitted.
func (m *Manager) SetRegion(ctx context.Context, r Region) error {
	return m.run(ctx, OpRegion, []attribute.KeyValue{attribute.String("filter.region", r.String())}, func(context.Context) error {
		if err := r.Validate(); err != nil {
			return err
		}

		m.state.Region = r
		m.reselect()

		return nil
	})
}

// SetCommitFraction shows the first floor(f*n) commits in chronological
// order, as a scrolled commit list does. The threshold becomes the datetime of
// the last visible commit.
func (m *Manager) SetCommitFraction(ctx context.Context, f float64) error {
	return m.run(ctx, OpFraction, []attribute.KeyValue{attribute.Float64("filter.fraction", f)}, func(ctx context.Context) error {
		if math.IsNaN(f) || f < 0 || f > 1 {
			return fmt.Errorf("%w: fraction %v outside [0,1]", ErrInvalidFilterInput, f)
		}

		all := m.store.Commits()
		n := int(math.Floor(f * float64(len(all))))

		m.state.Visible = all[:n]
		m.state.HasThreshold = n > 0
		m.state.TimeThreshold = time.Time{}
		m.state.TimeProgress = scale.ProgressMin

		if n > 0 {
			m.state.TimeThreshold = all[n-1].Datetime
			m.state.TimeProgress = m.progressOf(m.state.TimeThreshold)
		}

		m.refit(ctx)
		m.reselect()

		return nil
	})
}

// Visible returns a copy of the commits passing the time filter.
func (m *Manager) Visible() []commits.Summary {
	return append([]commits.Summary(nil), m.state.Visible...)
}

// Selected returns a copy of the visible commits inside the region.
func (m *Manager) Selected() []commits.Summary {
	return append([]commits.Summary(nil), m.state.Selected...)
}

// State returns a copy of the current state.
func (m *Manager) State() State {
	s := m.state
	s.Visible = m.Visible()
	s.Selected = m.Selected()

	return s
}

// Scales returns the scales fitted to the visible set.
func (m *Manager) Scales() scale.Set {
	return m.scales
}

// Store returns the commit store the manager filters.
func (m *Manager) Store() *commits.Store {
	return m.store
}

func (m *Manager) run(ctx context.Context, op string, attrs []attribute.KeyValue, apply func(context.Context) error) error {
	ctx, span := m.tracer.Start(ctx, "commitplot.filter."+op, trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()

	if err := apply(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rejected")
		m.metrics.RecordRejected(ctx, op)
		m.logger.WarnContext(ctx, "filter input rejected", "op", op, "error", err)

		return err
	}

	took := time.Since(start)

	span.SetAttributes(
		attribute.Int("filter.visible", len(m.state.Visible)),
		attribute.Int("filter.selected", len(m.state.Selected)),
	)
	m.metrics.RecordUpdate(ctx, op, took, len(m.state.Visible), len(m.state.Selected))
	m.logger.DebugContext(ctx, "filter recomputed",
		"op", op,
		"progress", m.state.TimeProgress,
		"visible", len(m.state.Visible),
		"selected", len(m.state.Selected),
		"took", took,
	)

	return nil
}

// applyProgress assumes p is already validated.
func (m *Manager) applyProgress(ctx context.Context, p float64) {
	m.state.TimeProgress = p

	all := m.store.Commits()

	if !m.timeline {
		m.state.HasThreshold = false
		m.state.TimeThreshold = time.Time{}
		m.state.Visible = nil
	} else {
		threshold := m.progress.Threshold(p)

		// The store is sorted, so the visible set is a prefix.
		n := sort.Search(len(all), func(i int) bool { return all[i].Datetime.After(threshold) })

		m.state.HasThreshold = true
		m.state.TimeThreshold = threshold
		m.state.Visible = all[:n]
	}

	m.refit(ctx)
	m.reselect()
}

func (m *Manager) refit(ctx context.Context) {
	_, span := m.tracer.Start(ctx, observability.SpanScaleFit)
	defer span.End()

	m.scales = m.coord.Fit(m.state.Visible)
}

func (m *Manager) reselect() {
	m.state.Selected = nil

	if !m.state.Region.Active || m.scales.Empty {
		return
	}

	for _, c := range m.state.Visible {
		if p, ok := m.scales.Position(c); ok && m.state.Region.Contains(p) {
			m.state.Selected = append(m.state.Selected, c)
		}
	}
}

func (m *Manager) progressOf(t time.Time) float64 {
	if !m.progress.Hi.After(m.progress.Lo) {
		return scale.ProgressMax
	}

	return ClampProgress(m.progress.Map(t))
}
