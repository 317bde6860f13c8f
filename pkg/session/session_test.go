package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commitplot/pkg/commits"
	"github.com/Sumatoshi-tech/commitplot/pkg/filter"
	"github.com/Sumatoshi-tech/commitplot/pkg/linelog"
)

func newManager() *filter.Manager {
	day := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	records := []linelog.LineRecord{
		{Commit: "a", Author: "D", File: "x.js", Line: 1, Type: "js", Datetime: day.Add(9 * time.Hour)},
		{Commit: "b", Author: "D", File: "x.js", Line: 2, Type: "js", Datetime: day.Add(12 * time.Hour)},
		{Commit: "c", Author: "D", File: "y.css", Line: 1, Type: "css", Datetime: day.Add(18 * time.Hour)},
	}

	return filter.NewManager(commits.NewStore(records, nil), nil)
}

func TestApply_PublishesSnapshot(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	s := New(newManager(), rec, nil)
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, Event{Kind: KindProgress, Value: 0}))
	require.NoError(t, s.Apply(ctx, Event{Kind: KindRegion, Region: []float64{0, 0, 600, 400}}))
	require.NoError(t, s.Apply(ctx, Event{Kind: KindClear}))

	require.Len(t, rec.Snapshots, 3)
	assert.Len(t, rec.Snapshots[0].Points, 1)
	assert.Equal(t, []string{"a"}, rec.Snapshots[1].SelectedIDs)
	assert.Empty(t, rec.Snapshots[2].SelectedIDs)
}

func TestApply_SliderIsClamped(t *testing.T) {
	t.Parallel()

	s := New(newManager(), nil, nil)
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, Event{Kind: KindSlider, Value: -40}))
	assert.InDelta(t, 0.0, s.Manager().State().TimeProgress, 0)

	require.NoError(t, s.Apply(ctx, Event{Kind: KindSlider, Value: 140}))
	assert.InDelta(t, 100.0, s.Manager().State().TimeProgress, 0)
}

func TestApply_InvalidInputRepublishesPreviousState(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	s := New(newManager(), rec, nil)
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, Event{Kind: KindProgress, Value: 50}))

	err := s.Apply(ctx, Event{Kind: KindProgress, Value: 150})
	require.ErrorIs(t, err, filter.ErrInvalidFilterInput)

	err = s.Apply(ctx, Event{Kind: KindRegion, Region: []float64{1, 2}})
	require.ErrorIs(t, err, filter.ErrInvalidFilterInput)

	require.Len(t, rec.Snapshots, 3)
	assert.Equal(t, rec.Snapshots[0], rec.Snapshots[1])
	assert.Equal(t, rec.Snapshots[0], rec.Snapshots[2])
}

func TestApply_UnknownKind(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	s := New(newManager(), rec, nil)

	err := s.Apply(context.Background(), Event{Kind: "zoom"})
	require.ErrorIs(t, err, ErrUnknownEvent)
	assert.Empty(t, rec.Snapshots)
}

func TestApply_SinkError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	s := New(newManager(), SinkFunc(func(context.Context, filter.Snapshot) error { return boom }), nil)

	err := s.Apply(context.Background(), Event{Kind: KindClear})
	require.ErrorIs(t, err, boom)
}

func TestReplay(t *testing.T) {
	t.Parallel()

	script := &Script{Events: []Event{
		{Kind: KindFraction, Value: 0.7},
		{Kind: KindProgress, Value: 101},
		{Kind: KindRegion, Region: []float64{0, 0, 600, 400}},
		{Kind: KindProgress, Value: 100},
	}}

	rec := &Recorder{}
	report, err := New(newManager(), rec, nil).Replay(context.Background(), script)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Applied)
	assert.Equal(t, 1, report.Rejected)
	assert.Len(t, rec.Snapshots, 4)
	assert.Equal(t, []string{"a", "b", "c"}, report.Final.SelectedIDs)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, report.Final, last)
}

func TestReplay_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(newManager(), nil, nil).Replay(ctx, &Script{Events: []Event{{Kind: KindClear}}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseScript_YAML(t *testing.T) {
	t.Parallel()

	script, err := ParseScript([]byte(`
name: walkthrough
events:
  - kind: slider
    value: 25
  - kind: region
    region: [10, 20, 300, 200]
  - kind: clear
  - kind: fraction
    value: 0.5
`))
	require.NoError(t, err)

	assert.Equal(t, "walkthrough", script.Name)
	require.Len(t, script.Events, 4)
	assert.Equal(t, KindSlider, script.Events[0].Kind)
	assert.Equal(t, filter.Rect(10, 20, 300, 200), script.Events[1].Rect())
	assert.Equal(t, filter.NoRegion, script.Events[2].Rect())
	assert.InDelta(t, 0.5, script.Events[3].Value, 0)
}

func TestParseScript_JSON(t *testing.T) {
	t.Parallel()

	script, err := ParseScript([]byte(`{"events":[{"kind":"progress","value":40}]}`))
	require.NoError(t, err)
	require.Len(t, script.Events, 1)
	assert.InDelta(t, 40.0, script.Events[0].Value, 0)
}

func TestParseScript_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"no events", "name: x\n"},
		{"unknown kind", "events:\n  - kind: zoom\n"},
		{"progress without value", "events:\n  - kind: progress\n"},
		{"short region", "events:\n  - kind: region\n    region: [1, 2, 3]\n"},
		{"string value", "events:\n  - kind: fraction\n    value: half\n"},
		{"extra field", "events:\n  - kind: clear\n    speed: 3\n"},
		{"broken yaml", "events: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseScript([]byte(tt.doc))
			require.ErrorIs(t, err, ErrInvalidScript)
		})
	}
}

func TestLoadScript_RoundTripsThroughMarshal(t *testing.T) {
	t.Parallel()

	orig := &Script{Name: "rt", Events: []Event{
		{Kind: KindProgress, Value: 30},
		{Kind: KindRegion, Region: []float64{1, 2, 3, 4}},
	}}

	data, err := orig.Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	got, err := LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, orig, got)

	_, err = LoadScript(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
