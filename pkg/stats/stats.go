// Package stats computes the read-only summaries shown next to the
// scatterplot: file counts, file lengths, peak hour, language breakdown,
// per-file line distribution and the commit narrative. Every function is a
// pure function of its input.
package stats

import (
	"fmt"
	"math"
	"slices"

	"github.com/dustin/go-humanize/english"

	algstats "github.com/Sumatoshi-tech/commitplot/pkg/alg/stats"
	"github.com/Sumatoshi-tech/commitplot/pkg/commits"
)

const (
	averagePlaces = 2
	percentScale  = 100
	hoursPerDay   = 24
)

// TotalLines counts the line records across cs.
func TotalLines(cs []commits.Summary) int {
	total := 0
	for _, c := range cs {
		total += len(c.Lines)
	}

	return total
}

// FileCount returns the number of distinct files touched by cs.
func FileCount(cs []commits.Summary) int {
	files := make(map[string]struct{})

	for _, c := range cs {
		for _, l := range c.Lines {
			files[l.File] = struct{}{}
		}
	}

	return len(files)
}

// AverageFileLength returns the mean over distinct files of the largest line
// number seen for that file, rounded to two decimals. ok is false when cs
// touches no file.
func AverageFileLength(cs []commits.Summary) (avg float64, ok bool) {
	longest := make(map[string]int)
	order := make([]string, 0)

	for _, c := range cs {
		for _, l := range c.Lines {
			prev, seen := longest[l.File]
			if !seen {
				order = append(order, l.File)
			}

			longest[l.File] = max(prev, l.Line)
		}
	}

	lengths := make([]float64, len(order))
	for i, f := range order {
		lengths[i] = float64(longest[f])
	}

	mean, ok := algstats.Mean(lengths)
	if !ok {
		return 0, false
	}

	return algstats.Round(mean, averagePlaces), true
}

// PeakActivityHour returns the hour of day (0-23) with the most commits.
// Ties go to the lowest hour. ok is false for an empty input.
func PeakActivityHour(cs []commits.Summary) (hour int, ok bool) {
	var counts [hoursPerDay]int

	for _, c := range cs {
		h := int(math.Floor(c.HourFrac))
		counts[algstats.Clamp(h, 0, hoursPerDay-1)]++
	}

	best := -1

	for h, n := range counts {
		if n > 0 && (best < 0 || n > counts[best]) {
			best = h
		}
	}

	if best < 0 {
		return 0, false
	}

	return best, true
}

// LanguageShare is one row of a language breakdown.
type LanguageShare struct {
	Type       string  `json:"type"`
	Lines      int     `json:"lines"`
	Proportion float64 `json:"proportion"`
}

// Percent formats the proportion with one decimal, e.g. "66.7%".
func (s LanguageShare) Percent() string {
	return fmt.Sprintf("%.1f%%", s.Proportion*percentScale)
}

// Breakdown is the per-language line count over a commit subset.
type Breakdown struct {
	Languages  []LanguageShare `json:"languages"`
	TypedLines int             `json:"typed_lines"`
}

// Empty reports whether the breakdown has no rows.
func (b Breakdown) Empty() bool {
	return len(b.Languages) == 0
}

// Lookup returns the share for typ.
func (b Breakdown) Lookup(typ string) (LanguageShare, bool) {
	for _, s := range b.Languages {
		if s.Type == typ {
			return s, true
		}
	}

	return LanguageShare{}, false
}

// LanguageBreakdown counts lines per type over the lines of cs that carry a
// type. Untyped lines are left out of both counts and denominator. Rows keep
// the order in which each type first appears.
func LanguageBreakdown(cs []commits.Summary) Breakdown {
	index := make(map[string]int)

	var b Breakdown

	for _, c := range cs {
		for _, l := range c.Lines {
			if !l.HasType() {
				continue
			}

			i, seen := index[l.Type]
			if !seen {
				i = len(b.Languages)
				index[l.Type] = i
				b.Languages = append(b.Languages, LanguageShare{Type: l.Type})
			}

			b.Languages[i].Lines++
			b.TypedLines++
		}
	}

	if b.TypedLines == 0 {
		return Breakdown{}
	}

	for i := range b.Languages {
		b.Languages[i].Proportion = float64(b.Languages[i].Lines) / float64(b.TypedLines)
	}

	return b
}

// FileLines is one file of the per-file line distribution.
type FileLines struct {
	Name  string   `json:"name"`
	Lines int      `json:"lines"`
	Types []string `json:"types"`
}

// FileDistribution groups the lines of cs by file, largest file first. Files
// with equal line counts keep their first-appearance order. Types holds each
// line's type in record order, for colouring one mark per line.
func FileDistribution(cs []commits.Summary) []FileLines {
	index := make(map[string]int)
	files := make([]FileLines, 0)

	for _, c := range cs {
		for _, l := range c.Lines {
			i, seen := index[l.File]
			if !seen {
				i = len(files)
				index[l.File] = i
				files = append(files, FileLines{Name: l.File})
			}

			files[i].Lines++
			files[i].Types = append(files[i].Types, l.Type)
		}
	}

	slices.SortStableFunc(files, func(a, b FileLines) int {
		return b.Lines - a.Lines
	})

	return files
}

// SelectionText renders the selection counter, e.g. "No commits selected".
func SelectionText(n int) string {
	if n == 0 {
		return "No commits selected"
	}

	return english.Plural(n, "commit", "") + " selected"
}
