package plotpage

import (
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/commitplot/pkg/filter"
	"github.com/Sumatoshi-tech/commitplot/pkg/scale"
	"github.com/Sumatoshi-tech/commitplot/pkg/stats"
)

// Series names of the commit scatter.
const (
	SeriesCommits  = "Commits"
	SeriesSelected = "Selected"
)

const (
	minSymbolSize     = 2
	barHeight         = "320px"
	tooltipDateLayout = "Mon Jan 2, 2006 15:04"
)

// commitTooltip reads the value layout of the scatter points:
// [unix ms, hour, lines, author, date].
const commitTooltip = `function (p) {
	return p.name + '<br/>' + p.value[3] + '<br/>' + p.value[4] + '<br/>' + p.value[2] + ' lines';
}`

// BuildCommitScatter plots the visible commits of snap: time on x, hour of
// day on y, and circle diameter from the radius scale. Selected commits go to
// their own series so they draw in the highlight color.
func BuildCommitScatter(co *ChartOpts, snap filter.Snapshot) *charts.Scatter {
	scatter := charts.NewScatter()

	tooltip := co.Tooltip("item")
	tooltip.Formatter = opts.FuncOpts(commitTooltip)

	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init()),
		charts.WithTooltipOpts(tooltip),
		charts.WithLegendOpts(co.Legend()),
		charts.WithXAxisOpts(co.TimeAxis("Date")),
		charts.WithYAxisOpts(co.HourAxis()),
		charts.WithGridOpts(co.Grid()),
	)

	plain := make([]opts.ScatterData, 0, len(snap.Points))
	selected := make([]opts.ScatterData, 0, len(snap.SelectedIDs))

	for _, p := range snap.Points {
		value := []any{
			p.Datetime.UnixMilli(), p.HourFrac, p.TotalLines,
			p.Author, p.Datetime.Format(tooltipDateLayout),
		}
		point := opts.ScatterData{
			Name:       p.ID,
			Value:      value,
			SymbolSize: symbolSize(p.R),
		}

		if p.Selected {
			selected = append(selected, point)
		} else {
			plain = append(plain, point)
		}
	}

	scatter.AddSeries(SeriesCommits, plain,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: co.PointColor(), Opacity: opts.Float(0.7)}),
	)
	scatter.AddSeries(SeriesSelected, selected,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: co.SelectedColor()}),
	)

	return scatter
}

func symbolSize(r float64) int {
	return max(minSymbolSize, int(math.Round(2*r)))
}

// BuildLanguageBar shows the lines of each language in the selection, one
// bar per language colored like the file dots.
func BuildLanguageBar(co *ChartOpts, breakdown stats.Breakdown, colors *TypeColors) *charts.Bar {
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(co.InitSize("100%", barHeight)),
		charts.WithTooltipOpts(co.Tooltip("axis")),
		charts.WithXAxisOpts(co.CategoryAxis("Language")),
		charts.WithYAxisOpts(co.ValueAxis("Lines")),
	)

	labels := make([]string, len(breakdown.Languages))
	data := make([]opts.BarData, len(breakdown.Languages))

	for i, share := range breakdown.Languages {
		labels[i] = share.Type
		data[i] = opts.BarData{
			Name:      share.Percent(),
			Value:     share.Lines,
			ItemStyle: &opts.ItemStyle{Color: colors.Color(share.Type)},
		}
	}

	bar.SetXAxis(labels)
	bar.AddSeries("Lines", data)

	return bar
}

// BuildHourBar counts the visible commits per hour of day.
func BuildHourBar(co *ChartOpts, points []filter.PlotPoint) *charts.Bar {
	var counts [scale.HoursPerDay]int

	for _, p := range points {
		h := min(max(int(math.Floor(p.HourFrac)), 0), scale.HoursPerDay-1)
		counts[h]++
	}

	labels := make([]string, scale.HoursPerDay)
	data := make([]opts.BarData, scale.HoursPerDay)

	for h := range scale.HoursPerDay {
		labels[h] = strconv.Itoa(h) + ":00"
		data[h] = opts.BarData{Value: counts[h]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(co.InitSize("100%", barHeight)),
		charts.WithTooltipOpts(co.Tooltip("axis")),
		charts.WithXAxisOpts(co.CategoryAxis("Hour")),
		charts.WithYAxisOpts(co.ValueAxis("Commits")),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("Commits", data, charts.WithItemStyleOpts(opts.ItemStyle{Color: co.PointColor()}))

	return bar
}
