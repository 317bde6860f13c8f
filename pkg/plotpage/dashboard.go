package plotpage

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/Sumatoshi-tech/commitplot/pkg/filter"
	"github.com/Sumatoshi-tech/commitplot/pkg/scale"
)

// Section identifiers of the dashboard.
const (
	SectionOverview  = "overview"
	SectionScatter   = "commits"
	SectionHours     = "hours"
	SectionLanguages = "languages"
	SectionFiles     = "files"
	SectionNarrative = "narrative"
)

// Meta describes where the plotted data came from.
type Meta struct {
	Title    string
	Source   string
	Theme    Theme
	Geometry scale.Geometry
	Skipped  int
}

// Dashboard lays out the full page for one snapshot.
func Dashboard(snap filter.Snapshot, meta Meta) *Page {
	theme := meta.Theme
	if theme == "" {
		theme = ThemeDark
	}

	geometry := meta.Geometry
	if geometry.Width == 0 {
		geometry = scale.DefaultGeometry()
	}

	title := meta.Title
	if title == "" {
		title = "Commit history"
	}

	co := NewChartOpts(theme, geometry)
	colors := NewTypeColors(GetChartPalette(theme), snap.Languages, snap.Files)

	page := NewPage(title, describe(snap, meta)).WithTheme(theme)

	page.Add(
		Section{
			ID:    SectionOverview,
			Title: "Overview",
			Chart: overviewGrid(snap, meta),
		},
		Section{
			ID:       SectionScatter,
			Title:    "Commits",
			Subtitle: snap.SelectionText,
			Chart:    WrapChart(BuildCommitScatter(co, snap)),
			Hint: Hint{
				Title: "Reading the plot",
				Items: []string{
					"Each circle is a commit, placed by date and time of day",
					"Circle area grows with the number of lines the commit touched",
					"Highlighted circles are inside the selection rectangle",
				},
			},
		},
		Section{
			ID:    SectionHours,
			Title: "Commits by hour",
			Chart: WrapChart(BuildHourBar(co, snap.Points)),
		},
		languageSection(co, snap, colors),
		Section{
			ID:       SectionFiles,
			Title:    "Files",
			Subtitle: english.Plural(len(snap.Files), "file", "") + " in view",
			Chart:    &FileList{Files: snap.Files, Colors: colors},
		},
		Section{
			ID:    SectionNarrative,
			Title: "The story so far",
			Chart: NewNarrativeList(snap),
		},
	)

	return page
}

func describe(snap filter.Snapshot, meta Meta) string {
	desc := english.Plural(snap.TotalCommits, "commit", "")
	if meta.Source != "" {
		desc = fmt.Sprintf("%s from %s", desc, meta.Source)
	}

	if snap.TimeThreshold != nil {
		desc += ", up to " + snap.TimeThreshold.Format("Jan 2, 2006 15:04")
	}

	return desc
}

func overviewGrid(snap filter.Snapshot, meta Meta) Renderable {
	o := snap.Overview

	grid := NewGrid(4,
		NewStat("Commits", humanize.Comma(int64(o.Commits))).
			WithNote(fmt.Sprintf("of %s", humanize.Comma(int64(snap.TotalCommits)))),
		NewStat("Lines edited", humanize.Comma(int64(o.TotalLines))),
		NewStat("Files", humanize.Comma(int64(o.FileCount))),
		NewStat("Avg file length", o.AverageLabel()),
		NewStat("Peak hour", o.PeakHourLabel()),
		NewStat("Time progress", fmt.Sprintf("%.0f%%", snap.TimeProgress)),
		NewStat("Selection", snap.SelectionText),
		NewStat("Region", snap.Region.String()),
	)

	if meta.Skipped == 0 {
		return grid
	}

	warning := NewAlert(AlertWarning, "Skipped rows",
		english.Plural(meta.Skipped, "malformed row was", "malformed rows were")+" left out of the plot.")

	return NewGrid(1, warning, grid)
}

func languageSection(co *ChartOpts, snap filter.Snapshot, colors *TypeColors) Section {
	section := Section{
		ID:       SectionLanguages,
		Title:    "Languages",
		Subtitle: "Lines by type in the selection",
	}

	if snap.Languages.Empty() {
		section.Chart = NewAlert(AlertInfo, "", "Drag a rectangle over the plot to break the selection down by language.")

		return section
	}

	legend := &LanguageLegend{Breakdown: snap.Languages, Colors: colors}
	section.Chart = NewGrid(1, legend, WrapChart(BuildLanguageBar(co, snap.Languages, colors)))

	return section
}
