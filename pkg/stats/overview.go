package stats

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize/english"

	"github.com/Sumatoshi-tech/commitplot/pkg/commits"
)

const (
	narrativeDateLayout = "Monday, January 2, 2006 at 3:04 PM"
	noValue             = "—"
)

// Overview bundles the headline statistics of a commit subset.
type Overview struct {
	Commits           int     `json:"commits"`
	TotalLines        int     `json:"total_lines"`
	FileCount         int     `json:"file_count"`
	AverageFileLength float64 `json:"average_file_length"`
	HasAverage        bool    `json:"has_average"`
	PeakHour          int     `json:"peak_hour"`
	HasPeak           bool    `json:"has_peak"`
}

// Overall computes the Overview of cs.
func Overall(cs []commits.Summary) Overview {
	o := Overview{
		Commits:    len(cs),
		TotalLines: TotalLines(cs),
		FileCount:  FileCount(cs),
	}

	o.AverageFileLength, o.HasAverage = AverageFileLength(cs)
	o.PeakHour, o.HasPeak = PeakActivityHour(cs)

	return o
}

// AverageLabel formats the average file length, or a dash when undefined.
func (o Overview) AverageLabel() string {
	if !o.HasAverage {
		return noValue
	}

	return fmt.Sprintf("%.2f", o.AverageFileLength)
}

// PeakHourLabel formats the peak hour as "9:00", or a dash when undefined.
func (o Overview) PeakHourLabel() string {
	if !o.HasPeak {
		return noValue
	}

	return fmt.Sprintf("%d:00", o.PeakHour)
}

// NarrativeEntry is the story sentence for one commit.
type NarrativeEntry struct {
	CommitID string    `json:"commit_id"`
	URL      string    `json:"url"`
	Datetime time.Time `json:"datetime"`
	Lines    int       `json:"lines"`
	Files    int       `json:"files"`
	Text     string    `json:"text"`
}

// Narrative tells the history of cs in order, one entry per commit. The first
// entry is the first commit of cs.
func Narrative(cs []commits.Summary) []NarrativeEntry {
	entries := make([]NarrativeEntry, len(cs))

	for i, c := range cs {
		files := FileCount(cs[i : i+1])

		what := "another commit"
		if i == 0 {
			what = "my first commit, and it was glorious"
		}

		entries[i] = NarrativeEntry{
			CommitID: c.ID,
			URL:      c.URL,
			Datetime: c.Datetime,
			Lines:    c.TotalLines,
			Files:    files,
			Text: fmt.Sprintf(
				"On %s, I made %s. I edited %s across %s. Then I looked over all I had made, and I saw that it was very good.",
				c.Datetime.Format(narrativeDateLayout),
				what,
				english.Plural(c.TotalLines, "line", ""),
				english.Plural(files, "file", ""),
			),
		}
	}

	return entries
}
