package stats

import (
	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/commitplot/pkg/commits"
	"github.com/Sumatoshi-tech/commitplot/pkg/metrics"
)

// Headline metric names.
const (
	MetricCommits       = "commits"
	MetricTotalLines    = "total_lines"
	MetricFiles         = "files"
	MetricAvgFileLength = "average_file_length"
	MetricPeakHour      = "peak_hour"
)

// Headlines returns the ordered registry of headline statistics, each
// formatted for display.
func Headlines() *metrics.Registry[[]commits.Summary, string] {
	r := metrics.NewRegistry[[]commits.Summary, string]()

	r.Register(headline(MetricCommits, "Commits", "Number of commits in the subset",
		func(cs []commits.Summary) string { return humanize.Comma(int64(len(cs))) }))
	r.Register(headline(MetricTotalLines, "Total lines", "Line records across all commits",
		func(cs []commits.Summary) string { return humanize.Comma(int64(TotalLines(cs))) }))
	r.Register(headline(MetricFiles, "Files", "Distinct files touched",
		func(cs []commits.Summary) string { return humanize.Comma(int64(FileCount(cs))) }))
	r.Register(headline(MetricAvgFileLength, "Avg file length", "Mean of the longest line number per file",
		func(cs []commits.Summary) string { return Overall(cs).AverageLabel() }))
	r.Register(headline(MetricPeakHour, "Peak hour", "Hour of day with the most commits",
		func(cs []commits.Summary) string { return Overall(cs).PeakHourLabel() }))

	return r
}

func headline(name, display, desc string, fn func([]commits.Summary) string) metrics.Func[[]commits.Summary, string] {
	return metrics.Func[[]commits.Summary, string]{
		MetricMeta: metrics.MetricMeta{
			MetricName:        name,
			MetricDisplayName: display,
			MetricDescription: desc,
		},
		Fn: fn,
	}
}
