package plotpage

import (
	"strconv"

	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/commitplot/pkg/scale"
)

// ChartOpts provides themed chart options.
type ChartOpts struct {
	theme    ThemeConfig
	geometry scale.Geometry
}

// NewChartOpts creates chart options for theme over the given plot geometry.
func NewChartOpts(theme Theme, g scale.Geometry) *ChartOpts {
	return &ChartOpts{theme: GetThemeConfig(theme), geometry: g}
}

// DefaultChartOpts returns dark-theme options over the default geometry.
func DefaultChartOpts() *ChartOpts {
	return NewChartOpts(ThemeDark, scale.DefaultGeometry())
}

// Init returns initialization options sized to the plot geometry.
func (c *ChartOpts) Init() opts.Initialization {
	return opts.Initialization{
		Width:           px(c.geometry.Width),
		Height:          px(c.geometry.Height),
		BackgroundColor: c.theme.ChartBackground,
	}
}

// InitSize returns initialization options with an explicit size.
func (c *ChartOpts) InitSize(width, height string) opts.Initialization {
	return opts.Initialization{
		Width:           width,
		Height:          height,
		BackgroundColor: c.theme.ChartBackground,
	}
}

// Title returns title options with themed text colors.
func (c *ChartOpts) Title(title, subtitle string) opts.Title {
	return opts.Title{
		Title:         title,
		Subtitle:      subtitle,
		Left:          "center",
		TitleStyle:    &opts.TextStyle{Color: c.theme.ChartText},
		SubtitleStyle: &opts.TextStyle{Color: c.theme.ChartTextMuted},
	}
}

// Legend returns legend options with themed text color.
func (c *ChartOpts) Legend() opts.Legend {
	return opts.Legend{
		Show:      opts.Bool(true),
		Top:       "0",
		Left:      "center",
		TextStyle: &opts.TextStyle{Color: c.theme.ChartTextMuted},
	}
}

// Grid places the plot area using the geometry margins.
func (c *ChartOpts) Grid() opts.Grid {
	m := c.geometry.Margins

	return opts.Grid{
		Top:    strconv.FormatFloat(m.Top, 'f', -1, 64),
		Right:  strconv.FormatFloat(m.Right, 'f', -1, 64),
		Bottom: strconv.FormatFloat(m.Bottom, 'f', -1, 64),
		Left:   strconv.FormatFloat(m.Left, 'f', -1, 64),
	}
}

// TimeAxis returns a time x-axis.
func (c *ChartOpts) TimeAxis(name string) opts.XAxis {
	return opts.XAxis{
		Name:      name,
		Type:      "time",
		AxisLabel: &opts.AxisLabel{Color: c.theme.ChartTextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.theme.ChartAxis}},
	}
}

// CategoryAxis returns a category x-axis.
func (c *ChartOpts) CategoryAxis(name string) opts.XAxis {
	return opts.XAxis{
		Name:      name,
		Type:      "category",
		AxisLabel: &opts.AxisLabel{Color: c.theme.ChartTextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.theme.ChartAxis}},
	}
}

// HourAxis returns a y-axis over the hours of a day.
func (c *ChartOpts) HourAxis() opts.YAxis {
	return opts.YAxis{
		Type:      "value",
		Min:       0,
		Max:       scale.HoursPerDay,
		AxisLabel: &opts.AxisLabel{Color: c.theme.ChartTextMuted, Formatter: "{value}:00"},
		SplitLine: &opts.SplitLine{
			Show:      opts.Bool(true),
			LineStyle: &opts.LineStyle{Color: c.theme.ChartGrid},
		},
	}
}

// ValueAxis returns a plain value y-axis.
func (c *ChartOpts) ValueAxis(name string) opts.YAxis {
	return opts.YAxis{
		Name:      name,
		Type:      "value",
		AxisLabel: &opts.AxisLabel{Color: c.theme.ChartTextMuted},
		SplitLine: &opts.SplitLine{
			Show:      opts.Bool(true),
			LineStyle: &opts.LineStyle{Color: c.theme.ChartGrid},
		},
	}
}

// Tooltip returns tooltip options.
func (c *ChartOpts) Tooltip(trigger string) opts.Tooltip {
	return opts.Tooltip{Show: opts.Bool(true), Trigger: trigger}
}

// PointColor returns the fill of an unselected commit.
func (c *ChartOpts) PointColor() string {
	return c.theme.Point
}

// SelectedColor returns the fill of a selected commit.
func (c *ChartOpts) SelectedColor() string {
	return c.theme.Selected
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
