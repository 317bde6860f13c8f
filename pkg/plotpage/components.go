package plotpage

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/commitplot/pkg/filter"
	"github.com/Sumatoshi-tech/commitplot/pkg/stats"
)

// writeTemplate renders a named template straight into w.
func writeTemplate(w io.Writer, name string, data any) error {
	html, err := renderTemplate(name, data)
	if err != nil {
		return err
	}

	if _, err = io.WriteString(w, string(html)); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}

// Card is a titled box around other content.
type Card struct {
	Title    string
	Subtitle string
	Content  Renderable
}

// NewCard creates a card.
func NewCard(title, subtitle string, content Renderable) *Card {
	return &Card{Title: title, Subtitle: subtitle, Content: content}
}

// Render writes the card.
func (c *Card) Render(w io.Writer) error {
	content, err := renderFragment(c.Content)
	if err != nil {
		return err
	}

	return writeTemplate(w, "card.html", cardData{Title: c.Title, Subtitle: c.Subtitle, Content: content})
}

// Grid lays its items out in columns.
type Grid struct {
	Columns int
	Items   []Renderable
}

// NewGrid creates a grid with the given column count.
func NewGrid(columns int, items ...Renderable) *Grid {
	return &Grid{Columns: columns, Items: items}
}

// Render writes the grid.
func (g *Grid) Render(w io.Writer) error {
	data := gridData{ColClass: gridColClass(g.Columns)}

	for _, item := range g.Items {
		html, err := renderFragment(item)
		if err != nil {
			return err
		}

		data.Items = append(data.Items, html)
	}

	return writeTemplate(w, "grid.html", data)
}

func gridColClass(columns int) string {
	switch columns {
	case 1:
		return "grid-cols-1"
	case 2:
		return "grid-cols-1 md:grid-cols-2"
	case 3:
		return "grid-cols-1 md:grid-cols-3"
	default:
		return "grid-cols-2 md:grid-cols-4"
	}
}

// Stat is a single labelled value.
type Stat struct {
	Label string
	Value string
	Note  string
}

// NewStat creates a stat.
func NewStat(label, value string) *Stat {
	return &Stat{Label: label, Value: value}
}

// WithNote adds a small line under the value.
func (s *Stat) WithNote(note string) *Stat {
	s.Note = note

	return s
}

// Render writes the stat.
func (s *Stat) Render(w io.Writer) error {
	return writeTemplate(w, "stat.html", statData{Label: s.Label, Value: s.Value, Note: s.Note})
}

// AlertKind selects the alert styling.
type AlertKind int

// Alert kinds.
const (
	AlertInfo AlertKind = iota
	AlertWarning
)

// Alert is a highlighted message.
type Alert struct {
	Kind    AlertKind
	Title   string
	Message string
}

// NewAlert creates an alert.
func NewAlert(kind AlertKind, title, message string) *Alert {
	return &Alert{Kind: kind, Title: title, Message: message}
}

// Render writes the alert.
func (a *Alert) Render(w io.Writer) error {
	classes := "border-sky-300 bg-sky-50 text-sky-900 dark:border-sky-800 dark:bg-sky-950 dark:text-sky-200"
	if a.Kind == AlertWarning {
		classes = "border-amber-300 bg-amber-50 text-amber-900 dark:border-amber-800 dark:bg-amber-950 dark:text-amber-200"
	}

	return writeTemplate(w, "alert.html", alertData{Title: a.Title, Message: a.Message, Classes: classes})
}

// Table is a simple striped table of text cells.
type Table struct {
	Headers []string
	Rows    [][]string
	Striped bool
}

// NewTable creates a striped table.
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers, Striped: true}
}

// AddRow appends one row.
func (t *Table) AddRow(cells ...string) *Table {
	t.Rows = append(t.Rows, cells)

	return t
}

// Render writes the table.
func (t *Table) Render(w io.Writer) error {
	data := tableData{Headers: t.Headers, Striped: t.Striped}

	for _, row := range t.Rows {
		cells := make([]template.HTML, len(row))
		for i, cell := range row {
			cells[i] = template.HTML(template.HTMLEscapeString(cell)) //nolint:gosec // escaped above.
		}

		data.Rows = append(data.Rows, cells)
	}

	return writeTemplate(w, "table.html", data)
}

// TypeColors assigns palette colors to line types: first the languages of
// the breakdown in order, then any other type met in files.
type TypeColors struct {
	colors  map[string]string
	palette ChartPalette
}

// NewTypeColors builds the color assignment.
func NewTypeColors(palette ChartPalette, breakdown stats.Breakdown, files []stats.FileLines) *TypeColors {
	tc := &TypeColors{colors: make(map[string]string), palette: palette}

	for _, share := range breakdown.Languages {
		tc.add(share.Type)
	}

	for _, f := range files {
		for _, typ := range f.Types {
			tc.add(typ)
		}
	}

	return tc
}

func (tc *TypeColors) add(typ string) {
	if typ == "" {
		return
	}

	if _, ok := tc.colors[typ]; !ok {
		tc.colors[typ] = tc.palette.Color(len(tc.colors))
	}
}

// Color returns the color of typ, or the untyped color.
func (tc *TypeColors) Color(typ string) string {
	if c, ok := tc.colors[typ]; ok {
		return c
	}

	return tc.palette.Untyped
}

// LanguageLegend lists every language of a breakdown with its color and share.
type LanguageLegend struct {
	Breakdown stats.Breakdown
	Colors    *TypeColors
}

// Render writes the legend.
func (l *LanguageLegend) Render(w io.Writer) error {
	data := legendData{}

	for _, share := range l.Breakdown.Languages {
		data.Items = append(data.Items, legendItem{
			Type:    share.Type,
			Color:   l.Colors.Color(share.Type),
			Lines:   share.Lines,
			Percent: share.Percent(),
		})
	}

	return writeTemplate(w, "legend.html", data)
}

// FileList shows each file with one dot per line, colored by line type.
type FileList struct {
	Files  []stats.FileLines
	Colors *TypeColors
}

// Render writes the list.
func (f *FileList) Render(w io.Writer) error {
	data := filesData{Files: make([]fileRow, 0, len(f.Files))}

	for _, file := range f.Files {
		row := fileRow{
			Name:  file.Name,
			Lines: humanize.Comma(int64(file.Lines)) + " lines",
			Dots:  make([]dot, 0, len(file.Types)),
		}

		for _, typ := range file.Types {
			row.Dots = append(row.Dots, dot{Type: typ, Color: f.Colors.Color(typ)})
		}

		data.Files = append(data.Files, row)
	}

	return writeTemplate(w, "files.html", data)
}

// NarrativeList renders the commit story, marking the selected commits.
type NarrativeList struct {
	Entries  []stats.NarrativeEntry
	Selected map[string]bool
}

// NewNarrativeList creates a narrative list from a snapshot.
func NewNarrativeList(snap filter.Snapshot) *NarrativeList {
	selected := make(map[string]bool, len(snap.SelectedIDs))
	for _, id := range snap.SelectedIDs {
		selected[id] = true
	}

	return &NarrativeList{Entries: snap.Narrative, Selected: selected}
}

// Render writes the list.
func (n *NarrativeList) Render(w io.Writer) error {
	data := narrativeData{Entries: make([]narrativeRow, 0, len(n.Entries))}

	for _, e := range n.Entries {
		data.Entries = append(data.Entries, narrativeRow{
			URL:      safeURL(e.URL),
			ID:       e.CommitID,
			Text:     e.Text,
			Selected: n.Selected[e.CommitID],
		})
	}

	return writeTemplate(w, "narrative.html", data)
}

// safeURL lets http(s) links through unescaped and drops everything else.
func safeURL(u string) template.URL {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return template.URL(u) //nolint:gosec // scheme checked above.
	}

	return ""
}
