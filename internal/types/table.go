package types

import (
	"fmt"
	"strings"
)

// =============================================================================
// TABLE STRUCTURE
// =============================================================================

// Table is one parsed export file: its header row and the data rows below it.
// Both the XLSX and CSV readers produce a Table so the ingestor can align
// them the same way.
type Table struct {
	// SourceFile is the path of the parsed file.
	SourceFile string

	// Headers are the cleaned column names in sheet order.
	Headers []string

	// Rows are the non-empty data rows in sheet order.
	Rows []Row
}

// Row is a single data row of a Table.
type Row struct {
	// Number is the 1-based row number in the source sheet.
	Number int

	// Values maps cleaned header name to the trimmed cell value.
	Values map[string]string
}

// NewTable builds a Table from raw sheet rows. headerRow is 1-based; every
// row above it is a banner row and is discarded.
func NewTable(sourceFile string, raw [][]string, headerRow int) (*Table, error) {
	if headerRow < 1 {
		return nil, fmt.Errorf("header row must be at least 1, got %d", headerRow)
	}
	if len(raw) < headerRow {
		return nil, fmt.Errorf("file has %d row(s), header expected on row %d", len(raw), headerRow)
	}

	headerCells := raw[headerRow-1]

	// Data rows may be wider than the header row; those cells still need a name.
	width := len(headerCells)
	for _, row := range raw[headerRow:] {
		if len(row) > width {
			width = len(row)
		}
	}

	table := &Table{
		SourceFile: sourceFile,
		Headers:    CleanHeaders(headerCells, width),
	}

	for i := headerRow; i < len(raw); i++ {
		row := raw[i]
		if IsRowEmpty(row) {
			continue
		}

		values := make(map[string]string, len(table.Headers))
		for col, header := range table.Headers {
			if col < len(row) {
				values[header] = strings.TrimSpace(row[col])
			} else {
				values[header] = ""
			}
		}

		table.Rows = append(table.Rows, Row{Number: i + 1, Values: values})
	}

	return table, nil
}

// =============================================================================
// HEADER HELPERS
// =============================================================================

// CleanHeaders trims header cells, names empty cells "Unnamed: <index>"
// (0-based, the convention spreadsheet tooling uses for anonymous columns)
// and suffixes repeated names with ".1", ".2", ... so every column stays
// addressable.
func CleanHeaders(cells []string, width int) []string {
	if width < len(cells) {
		width = len(cells)
	}

	headers := make([]string, width)
	used := make(map[string]bool, width)
	suffix := make(map[string]int, width)

	for i := 0; i < width; i++ {
		header := ""
		if i < len(cells) {
			header = strings.TrimSpace(cells[i])
		}
		if header == "" {
			header = fmt.Sprintf("Unnamed: %d", i)
		}

		if used[header] {
			base := header
			n := suffix[base]
			for {
				n++
				header = fmt.Sprintf("%s.%d", base, n)
				if !used[header] {
					break
				}
			}
			suffix[base] = n
		}
		used[header] = true

		headers[i] = header
	}

	return headers
}

// IsRowEmpty checks if a row contains only empty cells.
func IsRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}
