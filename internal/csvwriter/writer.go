// =============================================================================
// Seller Order Reconciler - Reconciliation File Writer
// =============================================================================
//
// This module writes the final dataset as the flat reconciliation file that
// is handed to the courier booking sheet.
//
// FILE LAYOUT:
//   No header row. One line per order, columns in this fixed order:
//
//   | Seller ID | Order Number | SKU | Quantity | Customer Name | Phone | Postcode | Address |
//
//   Comma-separated, UTF-8, fields quoted only when they contain a comma,
//   a quote or a line break (multi-SKU orders always are).
//
// FILE NAMING:
//   <workdir>/<results_dir>/<YYMMDD_HHMM>.<ext>. Two runs within the same
//   minute write the same name; the later run overwrites the earlier file.
//
// =============================================================================

package csvwriter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/seller-recon/internal/types"
	"github.com/ginjaninja78/seller-recon/pkg/utils"
)

// =============================================================================
// WRITER
// =============================================================================

// Writer exports datasets into a results directory.
type Writer struct {
	// Files locates and creates the results directory.
	Files *utils.FileManager

	// TimestampLayout is the Go time layout of the file name.
	TimestampLayout string

	// Extension is the file extension, without the dot.
	Extension string

	// Now returns the time used for the file name.
	Now func() time.Time
}

// New creates a Writer with the local clock.
func New(files *utils.FileManager, layout, extension string) *Writer {
	return &Writer{
		Files:           files,
		TimestampLayout: layout,
		Extension:       extension,
		Now:             time.Now,
	}
}

// OutputPath returns the path the next Write call will use.
func (w *Writer) OutputPath() string {
	return filepath.Join(w.Files.ResultsPath(), utils.OutputFileName(w.TimestampLayout, w.Extension, w.Now()))
}

// Write creates the results directory if needed and writes ds to a
// timestamped file in it.
//
// RETURNS:
//   - The path of the written file.
//   - A *types.ExportError if the directory or file cannot be written.
func (w *Writer) Write(ds *types.Dataset) (string, error) {
	path := w.OutputPath()

	if _, err := w.Files.EnsureResultsDir(); err != nil {
		return "", &types.ExportError{Path: path, Err: err}
	}

	var buf bytes.Buffer
	if err := Encode(&buf, ds); err != nil {
		return "", &types.ExportError{Path: path, Err: err}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", &types.ExportError{Path: path, Err: err}
	}

	return path, nil
}

// =============================================================================
// ENCODING
// =============================================================================

// Encode writes the projected rows of ds to out without a header row.
func Encode(out io.Writer, ds *types.Dataset) error {
	cw := csv.NewWriter(out)

	for _, r := range records(ds) {
		if err := cw.Write(Project(r)); err != nil {
			return fmt.Errorf("order %s: %w", r.OrderNumber, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Project returns the export columns of r in file order.
func Project(r types.Record) []string {
	row := make([]string, len(types.ExportColumns))
	for i, col := range types.ExportColumns {
		row[i] = r.Value(col)
	}
	return row
}

func records(ds *types.Dataset) []types.Record {
	if ds == nil {
		return nil
	}
	return ds.Records
}
