// Package commits groups line records into per-commit summaries and holds the
// immutable, chronologically ordered commit store of a session.
package commits

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/commitplot/pkg/linelog"
)

// ErrEmptyDataset is reported when a log aggregates to zero commits. It is
// not fatal: every derived view degrades to its empty state.
var ErrEmptyDataset = errors.New("no commits in change log")

const (
	minutesPerHour = 60
	idPlaceholder  = "{id}"

	// DefaultURLTemplate links a commit to its page on GitHub.
	DefaultURLTemplate = "https://github.com/dallasplunkett/portfolio/commit/{id}"
)

// Summary is one commit, plotted as one point.
type Summary struct {
	ID         string               `json:"id"`
	URL        string               `json:"url"`
	Author     string               `json:"author"`
	Datetime   time.Time            `json:"datetime"`
	HourFrac   float64              `json:"hour_frac"`
	TotalLines int                  `json:"total_lines"`
	Lines      []linelog.LineRecord `json:"-"`
}

// URLBuilder derives a commit link from its identifier.
type URLBuilder func(id string) string

// TemplateURL returns a URLBuilder that substitutes "{id}" in tmpl. A template
// without the placeholder gets the id appended.
func TemplateURL(tmpl string) URLBuilder {
	if tmpl == "" {
		tmpl = DefaultURLTemplate
	}

	if !strings.Contains(tmpl, idPlaceholder) {
		tmpl = strings.TrimSuffix(tmpl, "/") + "/" + idPlaceholder
	}

	return func(id string) string {
		return strings.ReplaceAll(tmpl, idPlaceholder, id)
	}
}

// HourFrac returns the hour of day plus fractional minutes of t in its own
// location, in [0,24).
func HourFrac(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/minutesPerHour
}

// Aggregate builds one Summary per distinct commit, in order of first
// appearance. Author and datetime come from the first record of each commit.
// The result is not sorted; see SortChronological.
func Aggregate(records []linelog.LineRecord, urls URLBuilder) []Summary {
	if urls == nil {
		urls = TemplateURL("")
	}

	index := make(map[string]int)
	summaries := make([]Summary, 0)

	for _, rec := range records {
		i, seen := index[rec.Commit]
		if !seen {
			i = len(summaries)
			index[rec.Commit] = i
			summaries = append(summaries, Summary{
				ID:       rec.Commit,
				URL:      urls(rec.Commit),
				Author:   rec.Author,
				Datetime: rec.Datetime,
				HourFrac: HourFrac(rec.Datetime),
			})
		}

		summaries[i].Lines = append(summaries[i].Lines, rec)
		summaries[i].TotalLines++
	}

	return summaries
}

// SortChronological orders summaries by datetime, keeping first-appearance
// order among equal instants.
func SortChronological(summaries []Summary) {
	slices.SortStableFunc(summaries, func(a, b Summary) int {
		return a.Datetime.Compare(b.Datetime)
	})
}

// Lines flattens the line records of the given commits, in commit order.
func Lines(summaries []Summary) []linelog.LineRecord {
	total := 0
	for _, c := range summaries {
		total += len(c.Lines)
	}

	out := make([]linelog.LineRecord, 0, total)
	for _, c := range summaries {
		out = append(out, c.Lines...)
	}

	return out
}
