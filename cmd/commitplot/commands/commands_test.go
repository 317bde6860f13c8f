package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commitplot/pkg/report"
)

const testLog = "commit,author,file,line,type,date,time,timezone\n" +
	"c1,Ada,a.js,1,JavaScript,2024-02-15,09:00,+00:00\n" +
	"c1,Ada,a.js,2,JavaScript,2024-02-15,09:00,+00:00\n" +
	"c1,Ada,b.css,1,CSS,2024-02-15,09:00,+00:00\n" +
	"c2,Bo,c.html,1,HTML,2024-03-01,14:30,+00:00\n" +
	"c3,Bo,broken,notanumber,,2024-03-01,14:30,+00:00\n"

const everything = "--region=-1e6,-1e6,1e6,1e6"

// Commands share the OTel globals and color.NoColor, so these tests do not
// run in parallel.

func writeFile(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())

	cfg := writeFile(t, "commitplot.yaml", "render:\n  title: Test history\n")

	var out, errOut bytes.Buffer

	err = execute(context.Background(), append([]string{"--config", cfg, "--no-color"}, args...), &out, &errOut)

	return out.String(), errOut.String(), err
}

func TestStats_PrintsSelection(t *testing.T) {
	log := writeFile(t, "lines.csv", testLog)

	stdout, stderr, err := run(t, "stats", log, everything)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Visible commits (progress 100%)")
	assert.Contains(t, stdout, "2 commits selected")
	assert.Contains(t, stdout, "JavaScript")
	assert.Contains(t, stdout, "a.js")
	assert.Contains(t, stderr, "skipped 1 malformed row of 5")
	assert.Contains(t, stderr, "loaded 2 commits")
}

func TestStats_BadRegionWarns(t *testing.T) {
	log := writeFile(t, "lines.csv", testLog)

	stdout, stderr, err := run(t, "stats", log, "--region", "1,2,3")
	require.NoError(t, err)

	assert.Contains(t, stderr, "ignoring --region")
	assert.Contains(t, stdout, "No commits selected")
}

func TestRender_WritesDashboard(t *testing.T) {
	log := writeFile(t, "lines.csv", testLog)
	out := filepath.Join(t.TempDir(), "history.html")

	_, stderr, err := run(t, "render", log, "-o", out, "--theme", "light", everything)
	require.NoError(t, err)

	html, err := os.ReadFile(out)
	require.NoError(t, err)

	page := string(html)
	assert.Contains(t, page, "<title>Test history")
	assert.Contains(t, page, `id="commits"`)
	assert.Contains(t, page, "lines.csv")
	assert.NotContains(t, page, `class="dark"`)
	assert.Contains(t, stderr, "wrote "+out)
}

func TestRender_RequiresOutput(t *testing.T) {
	log := writeFile(t, "lines.csv", testLog)

	_, _, err := run(t, "render", log)
	require.ErrorIs(t, err, ErrNoOutput)
}

func TestRender_RejectsUnknownTheme(t *testing.T) {
	log := writeFile(t, "lines.csv", testLog)

	_, _, err := run(t, "render", log, "-o", filepath.Join(t.TempDir(), "x.html"), "--theme", "sepia")
	require.Error(t, err)
}

func TestExport_Compressed(t *testing.T) {
	log := writeFile(t, "lines.csv", testLog)
	out := filepath.Join(t.TempDir(), "snap.json.lz4")

	_, _, err := run(t, "-q", "export", log, "-o", out, "--progress", "0")
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)

	defer f.Close()

	snap, err := report.ImportJSON(f)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, snap.TimeProgress, 1e-9)
	assert.Equal(t, "No commits selected", snap.SelectionText)
}

func TestExport_Stdout(t *testing.T) {
	log := writeFile(t, "lines.csv", testLog)

	stdout, _, err := run(t, "-q", "export", log)
	require.NoError(t, err)

	snap, err := report.ImportJSON(bytes.NewBufferString(stdout))
	require.NoError(t, err)

	assert.Len(t, snap.Points, 2)
}

func TestReplay_CountsRejected(t *testing.T) {
	log := writeFile(t, "lines.csv", testLog)
	script := writeFile(t, "gestures.yaml", `name: smoke
events:
  - {kind: progress, value: 150}
  - {kind: region, region: [-1000000, -1000000, 1000000, 1000000]}
  - {kind: slider, value: 250}
`)
	export := filepath.Join(t.TempDir(), "final.json")

	stdout, stderr, err := run(t, "replay", log, "--script", script, "--export", export)
	require.NoError(t, err)

	assert.Contains(t, stderr, `replayed "smoke": 2 applied, 1 rejected`)
	assert.Contains(t, stdout, "2 commits selected")

	f, err := os.Open(export)
	require.NoError(t, err)

	defer f.Close()

	snap, err := report.ImportJSON(f)
	require.NoError(t, err)

	assert.InDelta(t, 100.0, snap.TimeProgress, 1e-9)
}

func TestReplay_RequiresScript(t *testing.T) {
	log := writeFile(t, "lines.csv", testLog)

	_, _, err := run(t, "replay", log)
	require.ErrorIs(t, err, ErrNoScript)
}

func TestConfigShow(t *testing.T) {
	stdout, _, err := run(t, "config", "show")
	require.NoError(t, err)

	assert.Contains(t, stdout, "title: Test history")
	assert.Contains(t, stdout, "theme: dark")
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)

	assert.Contains(t, stdout, "commitplot ")
}

func TestMetricsTextfile(t *testing.T) {
	log := writeFile(t, "lines.csv", testLog)
	metrics := filepath.Join(t.TempDir(), "commitplot.prom")

	_, _, err := run(t, "-q", "--metrics-out", metrics, "stats", log)
	require.NoError(t, err)

	body, err := os.ReadFile(metrics)
	require.NoError(t, err)

	assert.Contains(t, string(body), "commitplot_")
}
