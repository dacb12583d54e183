// =============================================================================
// Seller Order Reconciler - XLSX Export Parser
// =============================================================================
//
// This module reads the order exports downloaded from the marketplace seller
// centre. Each export is a single-sheet workbook laid out as:
//
//   | Row 1 | banner text (report title, date range) - discarded         |
//   | Row 2 | header row: Order Number, Seller ID, SKU, Quantity, ...    |
//   | Row 3+| one order (or order line) per row                          |
//
// The delivery address sits in a column whose header cell is blank. It is
// exposed as "Unnamed: <index>" so the ingestor can map it by position.
//
// Cells are read as raw values: long phone numbers stored as numbers would
// otherwise come back in the sheet's display format (e.g. 6.01E+10).
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/seller-recon/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// PARSER OPTIONS
// =============================================================================

// Options controls how a workbook is read.
type Options struct {
	// SheetName is the worksheet to read. Empty means the first sheet.
	SheetName string

	// HeaderRow is the 1-based row holding the column headers.
	// Default: 2 (row 1 is the export banner)
	HeaderRow int
}

// DefaultOptions returns the layout of a standard marketplace export.
func DefaultOptions() Options {
	return Options{
		HeaderRow: 2,
	}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads an export workbook using the default layout.
func Parse(path string) (*types.Table, error) {
	return ParseWithOptions(path, DefaultOptions())
}

// ParseWithOptions reads an export workbook.
//
// RETURNS:
//   - The parsed table (headers plus non-empty data rows).
//   - An error if the workbook cannot be opened, the sheet does not exist,
//     or the sheet is shorter than the header row.
func ParseWithOptions(path string, opts Options) (*types.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := opts.SheetName
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	} else if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheetName)
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheetName, err)
	}

	headerRow := opts.HeaderRow
	if headerRow == 0 {
		headerRow = DefaultOptions().HeaderRow
	}

	// GetRows drops trailing empty cells, which loses a blank header at the
	// end of the row when no order fills that column.
	if width := usedWidth(f, sheetName); headerRow <= len(rows) && len(rows[headerRow-1]) < width {
		header := make([]string, width)
		copy(header, rows[headerRow-1])
		rows[headerRow-1] = header
	}

	table, err := types.NewTable(path, rows, headerRow)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheetName, err)
	}

	return table, nil
}

// usedWidth returns the number of columns in the sheet's recorded used
// range, or 0 when the workbook carries no dimension.
func usedWidth(f *excelize.File, sheet string) int {
	dim, err := f.GetSheetDimension(sheet)
	if err != nil || dim == "" {
		return 0
	}

	ref := dim
	if i := strings.LastIndex(dim, ":"); i >= 0 {
		ref = dim[i+1:]
	}

	col, _, err := excelize.CellNameToCoordinates(ref)
	if err != nil {
		return 0
	}
	return col
}
