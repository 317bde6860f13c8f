package filter

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/commitplot/pkg/commits"
	"github.com/Sumatoshi-tech/commitplot/pkg/linelog"
	"github.com/Sumatoshi-tech/commitplot/pkg/scale"
)

const (
	idFirst  = "c1"
	idSecond = "c2"
	idThird  = "c3"
)

var day = time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

func record(id string, at time.Duration, file string, line int, typ string) linelog.LineRecord {
	return linelog.LineRecord{
		Commit:   id,
		Author:   "Dallas",
		File:     file,
		Line:     line,
		Type:     typ,
		Datetime: day.Add(at),
	}
}

// scenarioStore holds commits at 9:00, 9:30 and 14:00 of one day. The first
// two touch 4 lines of type X and 2 of type Y.
func scenarioStore() *commits.Store {
	nine := 9 * time.Hour
	nineThirty := nine + 30*time.Minute
	two := 14 * time.Hour

	return commits.NewStore([]linelog.LineRecord{
		record(idThird, two, "c.html", 1, "Z"),
		record(idFirst, nine, "a.js", 1, "X"),
		record(idFirst, nine, "a.js", 2, "X"),
		record(idFirst, nine, "b.css", 1, "Y"),
		record(idSecond, nineThirty, "a.js", 3, "X"),
		record(idSecond, nineThirty, "a.js", 4, "X"),
		record(idSecond, nineThirty, "b.css", 2, "Y"),
	}, nil)
}

func ids(cs []commits.Summary) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}

	return out
}

// boundingRegion returns the smallest region around the given commits under
// the manager's current scales.
func boundingRegion(t *testing.T, m *Manager, want ...string) Region {
	t.Helper()

	r := Region{X0: math.Inf(1), Y0: math.Inf(1), X1: math.Inf(-1), Y1: math.Inf(-1), Active: true}

	for _, c := range m.Visible() {
		for _, id := range want {
			if c.ID != id {
				continue
			}

			p, ok := m.Scales().Position(c)
			require.True(t, ok)

			r.X0, r.Y0 = math.Min(r.X0, p.X), math.Min(r.Y0, p.Y)
			r.X1, r.Y1 = math.Max(r.X1, p.X), math.Max(r.Y1, p.Y)
		}
	}

	require.NoError(t, r.Validate())

	return r
}

func TestNewManager_InitialState(t *testing.T) {
	t.Parallel()

	m := NewManager(scenarioStore(), nil)
	st := m.State()

	assert.InDelta(t, 100.0, st.TimeProgress, 0)
	assert.True(t, st.HasThreshold)
	assert.True(t, st.TimeThreshold.Equal(day.Add(14*time.Hour)))
	assert.False(t, st.Region.Active)
	assert.Equal(t, []string{idFirst, idSecond, idThird}, ids(st.Visible))
	assert.Empty(t, st.Selected)
	assert.False(t, m.Scales().Empty)
}

func TestSetTimeProgress_Bounds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewManager(scenarioStore(), nil)

	require.NoError(t, m.SetTimeProgress(ctx, 0))
	assert.Equal(t, []string{idFirst}, ids(m.Visible()))
	assert.True(t, m.State().TimeThreshold.Equal(day.Add(9*time.Hour)))

	require.NoError(t, m.SetTimeProgress(ctx, 100))
	assert.Equal(t, []string{idFirst, idSecond, idThird}, ids(m.Visible()))
}

func TestSetTimeProgress_MonotoneAndIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewManager(scenarioStore(), nil)

	prev := -1

	for p := 0.0; p <= 100; p += 2.5 {
		require.NoError(t, m.SetTimeProgress(ctx, p))

		n := len(m.Visible())
		assert.GreaterOrEqual(t, n, prev, "progress %v", p)
		prev = n

		before := m.State()
		require.NoError(t, m.SetTimeProgress(ctx, p))
		assert.Equal(t, before, m.State())
	}
}

func TestSetTimeProgress_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewManager(scenarioStore(), nil)
	require.NoError(t, m.SetTimeProgress(ctx, 10))

	before := m.State()
	scales := m.Scales()

	for _, p := range []float64{math.NaN(), -0.1, 100.1, math.Inf(1)} {
		err := m.SetTimeProgress(ctx, p)
		require.ErrorIs(t, err, ErrInvalidFilterInput, "progress %v", p)
	}

	assert.Equal(t, before, m.State())
	assert.Equal(t, scales, m.Scales())
}

func TestSetRegion_ScenarioSelection(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewManager(scenarioStore(), nil)

	require.NoError(t, m.SetRegion(ctx, boundingRegion(t, m, idFirst, idSecond)))
	assert.Equal(t, []string{idFirst, idSecond}, ids(m.Selected()))

	snap := m.Snapshot()
	assert.Equal(t, "2 commits selected", snap.SelectionText)
	assert.Equal(t, 9, snap.Overview.PeakHour)
	require.Len(t, snap.Headlines, 5)
	assert.Equal(t, "3", snap.Headlines[0].Value, "headlines cover the visible commits")

	x, ok := snap.Languages.Lookup("X")
	require.True(t, ok)
	assert.Equal(t, 4, x.Lines)
	assert.Equal(t, "66.7%", x.Percent())

	y, ok := snap.Languages.Lookup("Y")
	require.True(t, ok)
	assert.Equal(t, 2, y.Lines)
	assert.Equal(t, "33.3%", y.Percent())
}

func TestSetRegion_IdempotentAndDoesNotRefit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewManager(scenarioStore(), nil)
	scales := m.Scales()
	r := boundingRegion(t, m, idThird)

	require.NoError(t, m.SetRegion(ctx, r))
	first := m.State()

	require.NoError(t, m.SetRegion(ctx, r))
	assert.Equal(t, first, m.State())
	assert.Equal(t, scales, m.Scales())
	assert.Equal(t, []string{idThird}, ids(m.Selected()))
}

func TestSetRegion_DegenerateRectangleIsInclusive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewManager(scenarioStore(), nil)

	var target commits.Summary

	for _, c := range m.Visible() {
		if c.ID == idSecond {
			target = c
		}
	}

	p, ok := m.Scales().Position(target)
	require.True(t, ok)

	require.NoError(t, m.SetRegion(ctx, Rect(p.X, p.Y, p.X, p.Y)))
	assert.Equal(t, []string{idSecond}, ids(m.Selected()))
}

func TestSetRegion_RejectsMalformed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewManager(scenarioStore(), nil)
	require.NoError(t, m.SetRegion(ctx, Rect(0, 0, 600, 400)))

	before := m.State()

	for _, r := range []Region{
		Rect(10, 0, 5, 10),
		Rect(0, 10, 5, 5),
		Rect(math.NaN(), 0, 1, 1),
		Rect(0, 0, math.Inf(1), 1),
	} {
		require.ErrorIs(t, m.SetRegion(ctx, r), ErrInvalidFilterInput, "region %v", r)
	}

	assert.Equal(t, before, m.State())
}

func TestSetRegion_ClearSelection(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewManager(scenarioStore(), nil)

	require.NoError(t, m.SetRegion(ctx, Rect(0, 0, 600, 400)))
	assert.Len(t, m.Selected(), 3)

	require.NoError(t, m.SetRegion(ctx, NoRegion))
	assert.Empty(t, m.Selected())
	assert.Equal(t, "No commits selected", m.Snapshot().SelectionText)
	assert.True(t, m.Snapshot().Languages.Empty())
}

func TestRegionPersistsAcrossProgress(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewManager(scenarioStore(), nil)

	require.NoError(t, m.SetRegion(ctx, boundingRegion(t, m, idFirst, idSecond)))

	// All commits share one day, so the niced time axis does not move.
	require.NoError(t, m.SetTimeProgress(ctx, 0))
	assert.Equal(t, []string{idFirst}, ids(m.Selected()))

	require.NoError(t, m.SetTimeProgress(ctx, 100))
	assert.Equal(t, []string{idFirst, idSecond}, ids(m.Selected()))
}

func TestSetCommitFraction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewManager(scenarioStore(), nil)

	require.NoError(t, m.SetCommitFraction(ctx, 0.67))
	st := m.State()
	assert.Equal(t, []string{idFirst, idSecond}, ids(st.Visible))
	assert.True(t, st.TimeThreshold.Equal(day.Add(9*time.Hour+30*time.Minute)))
	assert.InDelta(t, 10.0, st.TimeProgress, 1e-9)

	require.NoError(t, m.SetCommitFraction(ctx, 0))
	st = m.State()
	assert.Empty(t, st.Visible)
	assert.False(t, st.HasThreshold)
	assert.True(t, m.Scales().Empty)

	require.ErrorIs(t, m.SetCommitFraction(ctx, 1.5), ErrInvalidFilterInput)
	assert.Empty(t, m.State().Visible)
}

func TestEmptyStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewManager(commits.NewStore(nil, nil), scale.NewCoordinator(scale.DefaultGeometry()))

	st := m.State()
	assert.False(t, st.HasThreshold)
	assert.Empty(t, st.Visible)
	assert.True(t, m.Scales().Empty)

	require.NoError(t, m.SetTimeProgress(ctx, 50))
	require.NoError(t, m.SetRegion(ctx, Rect(0, 0, 600, 400)))
	assert.Empty(t, m.Selected())

	snap := m.Snapshot()
	assert.Empty(t, snap.Points)
	assert.Nil(t, snap.TimeThreshold)
	assert.Equal(t, 0, snap.Overview.FileCount)
	assert.False(t, snap.Overview.HasAverage)
	assert.False(t, snap.Overview.HasPeak)
}

func TestSnapshot_PointsLargestFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewManager(scenarioStore(), nil)
	require.NoError(t, m.SetRegion(ctx, boundingRegion(t, m, idThird)))

	snap := m.Snapshot()
	require.Len(t, snap.Points, 3)

	assert.Equal(t, idFirst, snap.Points[0].ID)
	assert.Equal(t, idSecond, snap.Points[1].ID)
	assert.Equal(t, idThird, snap.Points[2].ID)
	assert.True(t, snap.Points[2].Selected)
	assert.False(t, snap.Points[0].Selected)
	assert.InDelta(t, scale.DefaultRadiusMin, snap.Points[2].R, 1e-9)
	assert.Equal(t, []string{idThird}, snap.SelectedIDs)
	assert.Equal(t, 3, snap.TotalCommits)
	assert.Len(t, snap.Narrative, 3)
	require.NotNil(t, snap.TimeThreshold)
}

func TestClampProgress(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.0, ClampProgress(-5), 0)
	assert.InDelta(t, 100.0, ClampProgress(250), 0)
	assert.InDelta(t, 42.0, ClampProgress(42), 0)
	assert.InDelta(t, 0.0, ClampProgress(math.NaN()), 0)
}

func TestManager_SpansMarkRejections(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	m := NewManager(scenarioStore(), nil, WithTracer(tp.Tracer("test")))

	ctx := context.Background()
	require.NoError(t, m.SetTimeProgress(ctx, 50))
	require.Error(t, m.SetTimeProgress(ctx, 150))

	var progressSpans []tracetest.SpanStub

	for _, s := range exporter.GetSpans() {
		if s.Name == "commitplot.filter."+OpProgress {
			progressSpans = append(progressSpans, s)
		}
	}

	require.Len(t, progressSpans, 2)
	assert.Equal(t, codes.Unset, progressSpans[0].Status.Code)
	assert.Equal(t, codes.Error, progressSpans[1].Status.Code)
}
