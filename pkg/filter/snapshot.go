package filter

import (
	"slices"
	"time"

	"github.com/Sumatoshi-tech/commitplot/pkg/metrics"
	"github.com/Sumatoshi-tech/commitplot/pkg/scale"
	"github.com/Sumatoshi-tech/commitplot/pkg/stats"
)

// PlotPoint is one visible commit placed on the plot.
type PlotPoint struct {
	scale.Point

	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Author     string    `json:"author"`
	Datetime   time.Time `json:"datetime"`
	HourFrac   float64   `json:"hour_frac"`
	TotalLines int       `json:"total_lines"`
	Selected   bool      `json:"selected"`
}

// Snapshot is everything a renderer needs after one operation.
type Snapshot struct {
	TimeProgress  float64    `json:"time_progress"`
	TimeThreshold *time.Time `json:"time_threshold,omitempty"`
	Region        Region     `json:"region"`

	// Points are the visible commits, largest first so that small circles
	// are drawn on top.
	Points        []PlotPoint `json:"points"`
	SelectedIDs   []string    `json:"selected_ids"`
	SelectionText string      `json:"selection_text"`
	Scales        scale.Set   `json:"scales"`

	TotalCommits int `json:"total_commits"`

	// Overview, Headlines and Files describe the visible commits, Languages the
	// selected ones and Narrative the whole store.
	Overview  stats.Overview          `json:"overview"`
	Headlines []metrics.Value[string] `json:"headlines"`
	Languages stats.Breakdown         `json:"languages"`
	Files     []stats.FileLines       `json:"files"`
	Narrative []stats.NarrativeEntry  `json:"narrative"`
}

// Snapshot derives the render model of the current state. It is a pure read.
func (m *Manager) Snapshot() Snapshot {
	st := m.state

	snap := Snapshot{
		TimeProgress:  st.TimeProgress,
		Region:        st.Region,
		Scales:        m.scales,
		SelectedIDs:   make([]string, 0, len(st.Selected)),
		SelectionText: stats.SelectionText(len(st.Selected)),
		TotalCommits:  m.store.Len(),
		Overview:      stats.Overall(st.Visible),
		Headlines:     stats.Headlines().ComputeAll(st.Visible),
		Languages:     stats.LanguageBreakdown(st.Selected),
		Files:         stats.FileDistribution(st.Visible),
		Narrative:     stats.Narrative(m.store.Commits()),
	}

	if st.HasThreshold {
		threshold := st.TimeThreshold
		snap.TimeThreshold = &threshold
	}

	selected := make(map[string]bool, len(st.Selected))
	for _, c := range st.Selected {
		selected[c.ID] = true
		snap.SelectedIDs = append(snap.SelectedIDs, c.ID)
	}

	snap.Points = make([]PlotPoint, 0, len(st.Visible))

	for _, c := range st.Visible {
		p, ok := m.scales.Position(c)
		if !ok {
			continue
		}

		snap.Points = append(snap.Points, PlotPoint{
			Point:      p,
			ID:         c.ID,
			URL:        c.URL,
			Author:     c.Author,
			Datetime:   c.Datetime,
			HourFrac:   c.HourFrac,
			TotalLines: c.TotalLines,
			Selected:   selected[c.ID],
		})
	}

	slices.SortStableFunc(snap.Points, func(a, b PlotPoint) int {
		return b.TotalLines - a.TotalLines
	})

	return snap
}
