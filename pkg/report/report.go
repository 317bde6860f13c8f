// Package report renders snapshots for the terminal and exports them as
// JSON documents.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/commitplot/pkg/filter"
)

// DefaultMaxFiles is the number of files listed by WriteTable.
const DefaultMaxFiles = 10

// TableOptions controls WriteTable.
type TableOptions struct {
	// MaxFiles caps the file table; zero means DefaultMaxFiles and a
	// negative value hides the table.
	MaxFiles int
}

// WriteTable prints the headline statistics of the visible commits, the
// language breakdown of the selection and the largest files.
func WriteTable(w io.Writer, snap filter.Snapshot, opts TableOptions) error {
	blocks := []block{headlineTable(snap), languageTable(snap)}

	maxFiles := opts.MaxFiles
	if maxFiles == 0 {
		maxFiles = DefaultMaxFiles
	}

	if maxFiles > 0 && len(snap.Files) > 0 {
		blocks = append(blocks, fileTable(snap, maxFiles))
	}

	for i, b := range blocks {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}

		if _, err := fmt.Fprintf(w, "%s\n%s\n", b.title, b.table.Render()); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	return nil
}

// block is a titled table. Titles are printed above the table so that
// narrow tables do not wrap them.
type block struct {
	title string
	table table.Writer
}

func newBlock(title string) block {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)

	return block{title: title, table: tbl}
}

func headlineTable(snap filter.Snapshot) block {
	b := newBlock(fmt.Sprintf("Visible commits (progress %.0f%%)", snap.TimeProgress))
	tbl := b.table

	tbl.AppendHeader(table.Row{"Metric", "Value"})

	for _, h := range snap.Headlines {
		tbl.AppendRow(table.Row{h.DisplayName, h.Value})
	}

	tbl.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})

	return b
}

func languageTable(snap filter.Snapshot) block {
	b := newBlock(snap.SelectionText)
	tbl := b.table

	tbl.AppendHeader(table.Row{"Type", "Lines", "Share"})

	for _, share := range snap.Languages.Languages {
		tbl.AppendRow(table.Row{share.Type, humanize.Comma(int64(share.Lines)), share.Percent()})
	}

	if snap.Languages.Empty() {
		tbl.AppendRow(table.Row{"-", "0", "-"})
	} else {
		tbl.AppendFooter(table.Row{"Total", humanize.Comma(int64(snap.Languages.TypedLines)), "100%"})
	}

	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})

	return b
}

func fileTable(snap filter.Snapshot, maxFiles int) block {
	b := newBlock("Files")
	tbl := b.table

	tbl.AppendHeader(table.Row{"#", "File", "Lines"})

	for i, f := range snap.Files {
		if i == maxFiles {
			break
		}

		tbl.AppendRow(table.Row{strconv.Itoa(i + 1), f.Name, humanize.Comma(int64(f.Lines))})
	}

	if hidden := len(snap.Files) - maxFiles; hidden > 0 {
		tbl.AppendFooter(table.Row{"", fmt.Sprintf("%d more", hidden), ""})
	}

	tbl.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})

	return b
}
