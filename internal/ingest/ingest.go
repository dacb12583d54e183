// =============================================================================
// Seller Order Reconciler - Record Ingestor
// =============================================================================
//
// The ingestor turns every export in the drop folder into one working
// dataset. It is the only component that knows about source file formats and
// header layouts; everything downstream sees types.Record values.
//
// INGESTION PIPELINE:
//   1. Discover files matching the configured patterns (sorted by name)
//   2. Parse each file (.xlsx via excelize, .csv via encoding/csv)
//   3. Check the header row against the required schema
//   4. Map each row into a types.Record, preserving row order
//   5. Concatenate all files, aligning columns by header name
//
// The ingestor never deletes anything. It returns the files it parsed so the
// caller can remove them once the run has succeeded.
//
// =============================================================================

package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/seller-recon/internal/config"
	"github.com/ginjaninja78/seller-recon/internal/csvparser"
	"github.com/ginjaninja78/seller-recon/internal/logger"
	"github.com/ginjaninja78/seller-recon/internal/types"
	"github.com/ginjaninja78/seller-recon/internal/validation"
	"github.com/ginjaninja78/seller-recon/internal/xlsxparser"
	"github.com/ginjaninja78/seller-recon/pkg/utils"
)

// Ingestor loads marketplace exports into a working dataset.
type Ingestor struct {
	cfg    *config.Config
	schema *validation.Schema
	logger *logger.Logger
}

// New creates an Ingestor for the given configuration.
func New(cfg *config.Config, log *logger.Logger) *Ingestor {
	return &Ingestor{
		cfg:    cfg,
		schema: validation.NewSchema(cfg.AddressColumn),
		logger: log,
	}
}

// Load reads every matching export in dir.
//
// RETURNS:
//   - The merged dataset. Zero files yield an empty dataset, not an error.
//   - The paths of the files that were parsed, in processing order.
//   - A *types.IngestionError for the first file that fails.
func (in *Ingestor) Load(dir string) (*types.Dataset, []string, error) {
	fm := utils.NewFileManager(dir, in.cfg.ResultsDir)

	files, err := fm.DiscoverInputFiles(in.cfg.InputPatterns)
	if err != nil {
		return nil, nil, &types.IngestionError{File: dir, Err: err}
	}

	in.logger.Info("discovered input files", "count", len(files), "dir", dir)

	ds := &types.Dataset{}
	columnSeen := make(map[string]bool)

	for _, path := range files {
		table, err := in.parseFile(path)
		if err != nil {
			return nil, nil, &types.IngestionError{File: filepath.Base(path), Err: err}
		}

		addressColumn, err := in.schema.ValidateTable(table)
		if err != nil {
			return nil, nil, err
		}

		for _, header := range table.Headers {
			if !columnSeen[header] {
				columnSeen[header] = true
				ds.Columns = append(ds.Columns, header)
			}
		}

		for _, row := range table.Rows {
			ds.Records = append(ds.Records, toRecord(row, filepath.Base(path), addressColumn))
		}

		in.logger.Debug("parsed input file", "file", filepath.Base(path), "rows", len(table.Rows), "address_column", addressColumn)
	}

	return ds, files, nil
}

// parseFile dispatches on the file extension.
func (in *Ingestor) parseFile(path string) (*types.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return xlsxparser.ParseWithOptions(path, xlsxparser.Options{
			SheetName: in.cfg.SheetName,
			HeaderRow: in.cfg.HeaderRow,
		})
	case ".csv":
		return csvparser.ParseWithOptions(path, csvparser.Options{
			Delimiter: ',',
			HeaderRow: in.cfg.HeaderRow,
			Encoding:  in.cfg.CSVEncoding,
		})
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

// toRecord maps a parsed row onto the record fields. The address column is
// kept in Fields only; the Field Deriver promotes it to Record.Address.
func toRecord(row types.Row, sourceFile, addressColumn string) types.Record {
	fields := row.Values
	if addressColumn != types.ColAddress {
		// Alias the anonymous column so later stages can find it by name.
		fields = make(map[string]string, len(row.Values)+1)
		for k, v := range row.Values {
			fields[k] = v
		}
		fields[types.ColAddress] = row.Values[addressColumn]
	}

	return types.Record{
		SellerID:     fields[types.ColSellerID],
		OrderNumber:  fields[types.ColOrderNumber],
		ShippingInfo: fields[types.ColShippingInfo],
		SKU:          fields[types.ColSKU],
		Quantity:     fields[types.ColQuantity],
		CustomerName: fields[types.ColCustomerName],
		Phone:        fields[types.ColPhone],
		Fields:       fields,
		SourceFile:   sourceFile,
		SourceRow:    row.Number,
	}
}
