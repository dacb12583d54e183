// Package report renders reconciliation rows for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/seller-recon/internal/csvwriter"
	"github.com/ginjaninja78/seller-recon/internal/types"
	"github.com/mattn/go-runewidth"
)

// maxCellWidth truncates long addresses so a preview fits a terminal.
const maxCellWidth = 32

// WritePreview prints the first limit rows of ds as an aligned table with
// the export column headers. Widths are measured in terminal cells so CJK
// customer names line up.
func WritePreview(w io.Writer, ds *types.Dataset, limit int) error {
	rows := [][]string{append([]string(nil), types.ExportColumns...)}
	if ds != nil {
		for i, r := range ds.Records {
			if limit >= 0 && i >= limit {
				break
			}
			rows = append(rows, csvwriter.Project(r))
		}
	}

	widths := make([]int, len(types.ExportColumns))
	for _, row := range rows {
		for i, cell := range row {
			cell = runewidth.Truncate(cell, maxCellWidth, "…")
			row[i] = cell
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	for n, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
			return err
		}

		if n == 0 {
			seps := make([]string, len(widths))
			for i, cw := range widths {
				seps[i] = strings.Repeat("-", cw)
			}
			if _, err := fmt.Fprintln(w, strings.Join(seps, "  ")); err != nil {
				return err
			}
		}
	}

	if total := ds.Len(); limit >= 0 && total > limit {
		if _, err := fmt.Fprintf(w, "... %d more row(s)\n", total-limit); err != nil {
			return err
		}
	}

	return nil
}
