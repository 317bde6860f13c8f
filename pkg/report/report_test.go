package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commitplot/pkg/commits"
	"github.com/Sumatoshi-tech/commitplot/pkg/filter"
	"github.com/Sumatoshi-tech/commitplot/pkg/linelog"
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

func testSnapshot(t *testing.T, selectAll bool) filter.Snapshot {
	t.Helper()

	store := commits.NewStore([]linelog.LineRecord{
		record("c1", 9*time.Hour, "a.js", 1, "JavaScript"),
		record("c1", 9*time.Hour, "a.js", 2, "JavaScript"),
		record("c1", 9*time.Hour, "b.css", 1, "CSS"),
		record("c2", 14*time.Hour, "c.html", 1, "HTML"),
	}, nil)

	m := filter.NewManager(store, nil)
	if selectAll {
		require.NoError(t, m.SetRegion(context.Background(), filter.Rect(-1e6, -1e6, 1e6, 1e6)))
	}

	return m.Snapshot()
}

func TestWriteTable_Selection(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, testSnapshot(t, true), TableOptions{}))

	out := buf.String()

	assert.Contains(t, out, "Visible commits (progress 100%)")
	assert.Contains(t, out, "Peak hour")
	assert.Contains(t, out, "9:00")
	assert.Contains(t, out, "2 commits selected")
	assert.Contains(t, out, "JavaScript")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "a.js")
}

func TestWriteTable_EmptySelectionAndFileCap(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, testSnapshot(t, false), TableOptions{MaxFiles: 1}))

	out := buf.String()

	assert.Contains(t, out, "No commits selected")
	assert.Contains(t, out, "a.js")
	assert.NotContains(t, out, "c.html")
	assert.Contains(t, out, "2 MORE", "footers are upper-cased")
}

func TestWriteTable_HiddenFiles(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, testSnapshot(t, false), TableOptions{MaxFiles: -1}))

	assert.NotContains(t, buf.String(), "a.js")
}

func TestPrinter_QuietAndNoColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	p := NewPrinter(&buf, false, true)
	p.Info("loaded %d rows", 4)
	p.Success("wrote %s", "out.html")
	p.Warn("skipped %d rows", 1)

	assert.Equal(t, "loaded 4 rows\n✓ wrote out.html\n! skipped 1 rows\n", buf.String())

	buf.Reset()

	q := NewPrinter(&buf, true, true)
	q.Info("hidden")
	q.Success("hidden")
	q.Error("failed: %v", "boom")

	assert.Equal(t, "✗ failed: boom\n", buf.String())
}

func TestExportJSON_Plain(t *testing.T) {
	t.Parallel()

	snap := testSnapshot(t, true)

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, snap, false))

	assert.True(t, strings.HasPrefix(buf.String(), "{"))
	assert.Contains(t, buf.String(), `"selection_text": "2 commits selected"`)

	got, err := ImportJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, snap.SelectedIDs, got.SelectedIDs)
	assert.Equal(t, snap.Headlines, got.Headlines)
}

func TestExportJSON_LZ4(t *testing.T) {
	t.Parallel()

	snap := testSnapshot(t, true)

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, snap, true))

	assert.Equal(t, []byte{0x04, 0x22, 0x4d, 0x18}, buf.Bytes()[:4])

	got, err := ImportJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, snap.SelectionText, got.SelectionText)
	assert.Equal(t, snap.TotalCommits, got.TotalCommits)
	assert.Len(t, got.Points, len(snap.Points))
}

func TestImportJSON_Garbage(t *testing.T) {
	t.Parallel()

	_, err := ImportJSON(strings.NewReader("not json"))
	require.ErrorIs(t, err, ErrBadSnapshot)
}

func TestSaveJSON_PicksCodecFromName(t *testing.T) {
	t.Parallel()

	snap := testSnapshot(t, false)
	dir := t.TempDir()

	for _, name := range []string{"snap.json", "snap.json.lz4"} {
		path := filepath.Join(dir, name)
		require.NoError(t, SaveJSON(path, snap, false))

		f, err := os.Open(path)
		require.NoError(t, err)

		got, err := ImportJSON(f)
		require.NoError(t, f.Close())
		require.NoError(t, err, name)
		assert.Equal(t, snap.TotalCommits, got.TotalCommits, name)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "snap.json"))
	require.NoError(t, err)
	assert.Equal(t, byte('{'), raw[0])
}
