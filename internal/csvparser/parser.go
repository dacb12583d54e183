// =============================================================================
// Seller Order Reconciler - CSV Export Parser
// =============================================================================
//
// Some seller accounts download the order report as CSV instead of XLSX. The
// layout is the same as the workbook export (banner row, header row, data),
// so this parser yields the same types.Table the XLSX parser does.
//
// FEATURES:
//   - Byte-order-mark aware UTF-8 / UTF-16 decoding
//   - Legacy single-byte encodings (Windows-1252, ISO-8859-1) for reports
//     re-saved from older spreadsheet software
//   - Variable field counts and lazy quotes, both common in hand-edited files
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/seller-recon/internal/types"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// =============================================================================
// PARSER OPTIONS
// =============================================================================

// Options controls how a CSV export is read.
type Options struct {
	// Delimiter separates fields. Default: ','
	Delimiter rune

	// HeaderRow is the 1-based row holding the column headers.
	// Default: 2
	HeaderRow int

	// Encoding is the character encoding of the file.
	// Common values: "UTF-8", "UTF-16", "Windows-1252", "ISO-8859-1"
	// Default: "UTF-8"
	Encoding string
}

// DefaultOptions returns the layout of a standard marketplace CSV export.
func DefaultOptions() Options {
	return Options{
		Delimiter: ',',
		HeaderRow: 2,
		Encoding:  "UTF-8",
	}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV export using the default layout.
func Parse(path string) (*types.Table, error) {
	return ParseWithOptions(path, DefaultOptions())
}

// ParseWithOptions reads a CSV export.
func ParseWithOptions(path string, opts Options) (*types.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	table, err := Read(file, path, opts)
	if err != nil {
		return nil, err
	}
	return table, nil
}

// Read parses CSV content from r. sourceFile is recorded on the table.
func Read(r io.Reader, sourceFile string, opts Options) (*types.Table, error) {
	defaults := DefaultOptions()
	if opts.Delimiter == 0 {
		opts.Delimiter = defaults.Delimiter
	}
	if opts.HeaderRow == 0 {
		opts.HeaderRow = defaults.HeaderRow
	}

	decoder, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(transform.NewReader(bufio.NewReader(r), decoder.NewDecoder()))
	configureReader(reader, opts)

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	return types.NewTable(sourceFile, allRows, opts.HeaderRow)
}

// configureReader configures the CSV reader based on the options.
func configureReader(reader *csv.Reader, opts Options) {
	reader.Comma = opts.Delimiter

	// Allow variable number of fields per row; the banner row is usually a
	// single cell.
	reader.FieldsPerRecord = -1

	// Allow lazy quotes (quotes that don't follow strict CSV rules).
	reader.LazyQuotes = true

	reader.TrimLeadingSpace = true
}

// lookupEncoding maps a configured encoding name to a decoder. UTF-8 and
// UTF-16 honour a leading byte-order mark.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "_", "-")) {
	case "", "UTF-8", "UTF8":
		return unicode.UTF8BOM, nil
	case "UTF-16", "UTF16", "UTF-16LE":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "UTF-16BE":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), nil
	case "WINDOWS-1252", "CP1252":
		return charmap.Windows1252, nil
	case "ISO-8859-1", "LATIN1", "LATIN-1":
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}
