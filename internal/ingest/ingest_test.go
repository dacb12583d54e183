package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/seller-recon/internal/config"
	"github.com/ginjaninja78/seller-recon/internal/logger"
	"github.com/ginjaninja78/seller-recon/internal/testutil"
	"github.com/ginjaninja78/seller-recon/internal/types"
)

func newIngestor(cfg *config.Config) *Ingestor {
	return New(cfg, logger.Discard())
}

func TestLoad_MergesFilesInNameOrder(t *testing.T) {
	dir := t.TempDir()

	testutil.WriteExport(t, filepath.Join(dir, "b.xlsx"), testutil.ExportHeaders, []testutil.Order{
		{OrderNumber: "B1", SellerID: "S2", Shipping: "Others", SKU: "X", Quantity: "1", CustomerName: "Bee", Phone: "0123", Address: "Jalan B 40000"},
	})
	testutil.WriteExport(t, filepath.Join(dir, "a.xlsx"), testutil.ExportHeaders, []testutil.Order{
		{OrderNumber: "A1", SellerID: "S1", Shipping: "Seller Delivery", SKU: "A,B,A", Quantity: "2,3,1", CustomerName: "Ali", Phone: "0123456789", Address: "No.12 Jalan ABC 54321"},
		{OrderNumber: "A2", SellerID: "S1", Shipping: "J&T", SKU: "C", Quantity: "1", CustomerName: "Chan", Phone: "0198", Address: "Lot 1 10000"},
	})

	ds, files, err := newIngestor(config.Default()).Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(files) != 2 || filepath.Base(files[0]) != "a.xlsx" {
		t.Fatalf("files = %v, want a.xlsx first", files)
	}
	if ds.Len() != 3 {
		t.Fatalf("Expected 3 records, got %d", ds.Len())
	}

	order := []string{ds.Records[0].OrderNumber, ds.Records[1].OrderNumber, ds.Records[2].OrderNumber}
	if order[0] != "A1" || order[1] != "A2" || order[2] != "B1" {
		t.Errorf("record order = %v, want [A1 A2 B1]", order)
	}

	first := ds.Records[0]
	if first.SKU != "A,B,A" || first.Quantity != "2,3,1" {
		t.Errorf("SKU/Quantity = %q/%q", first.SKU, first.Quantity)
	}
	if first.Fields[types.ColAddress] != "No.12 Jalan ABC 54321" {
		t.Errorf("address alias = %q", first.Fields[types.ColAddress])
	}
	if first.Address != "" {
		t.Errorf("Address populated before derivation: %q", first.Address)
	}
	if first.SourceFile != "a.xlsx" || first.SourceRow != 3 {
		t.Errorf("source = %s row %d, want a.xlsx row 3", first.SourceFile, first.SourceRow)
	}
}

func TestLoad_NumericCellsReadRaw(t *testing.T) {
	dir := t.TempDir()

	testutil.WriteExport(t, filepath.Join(dir, "n.xlsx"), testutil.ExportHeaders, []testutil.Order{
		{OrderNumber: "N1", SellerID: 1024, Shipping: "Others", SKU: "A", Quantity: 3, CustomerName: "Num", Phone: int64(60123456789), Address: "Jalan 1 43000"},
	})

	ds, _, err := newIngestor(config.Default()).Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	r := ds.Records[0]
	if r.Phone != "60123456789" {
		t.Errorf("Phone = %q, want 60123456789", r.Phone)
	}
	if r.SellerID != "1024" || r.Quantity != "3" {
		t.Errorf("SellerID/Quantity = %q/%q", r.SellerID, r.Quantity)
	}
}

func TestLoad_NoFiles(t *testing.T) {
	ds, files, err := newIngestor(config.Default()).Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ds.Len() != 0 || len(files) != 0 {
		t.Errorf("Expected empty result, got %d records, %d files", ds.Len(), len(files))
	}
}

func TestLoad_MissingColumn(t *testing.T) {
	dir := t.TempDir()

	headers := append([]string(nil), testutil.ExportHeaders...)
	headers[9] = "Qty" // Quantity renamed

	testutil.WriteExport(t, filepath.Join(dir, "bad.xlsx"), headers, []testutil.Order{
		{OrderNumber: "1", SellerID: "S1", Shipping: "Others", SKU: "A", Quantity: "1", Address: "x"},
	})

	_, files, err := newIngestor(config.Default()).Load(dir)

	var ingestErr *types.IngestionError
	if !errors.As(err, &ingestErr) {
		t.Fatalf("Expected IngestionError, got %v", err)
	}
	if ingestErr.File != "bad.xlsx" || ingestErr.Column != types.ColQuantity {
		t.Errorf("IngestionError = %+v", ingestErr)
	}
	if files != nil {
		t.Errorf("files = %v, want nil on failure", files)
	}
}

func TestLoad_UnparseableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.xlsx")
	if err := os.WriteFile(path, []byte("not a zip archive"), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := newIngestor(config.Default()).Load(dir)

	var ingestErr *types.IngestionError
	if !errors.As(err, &ingestErr) {
		t.Fatalf("Expected IngestionError, got %v", err)
	}
	if ingestErr.File != "corrupt.xlsx" {
		t.Errorf("File = %q, want corrupt.xlsx", ingestErr.File)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Errorf("unparseable input was touched: %v", statErr)
	}
}

func TestLoad_CSVAndSchemaAlignment(t *testing.T) {
	dir := t.TempDir()

	testutil.WriteExport(t, filepath.Join(dir, "a.xlsx"), testutil.ExportHeaders, []testutil.Order{
		{OrderNumber: "A1", SellerID: "S1", Shipping: "Others", SKU: "A", Quantity: "1", Address: "Jalan 1 43000"},
	})

	// CSV export with an explicit Address column and no "Remark" column.
	csv := "banner\n" +
		"Order Number,Seller ID,Shipping Information,SKU,Quantity,Customer Name,Phone,Address,Voucher\n" +
		"C1,S9,Non-Shopee,B,2,Cat,0111,Jalan C 50000,V10\n"
	if err := os.WriteFile(filepath.Join(dir, "b.csv"), []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.InputPatterns = []string{"*.xlsx", "*.csv"}

	ds, files, err := newIngestor(cfg).Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(files) != 2 || ds.Len() != 2 {
		t.Fatalf("files=%d records=%d, want 2/2", len(files), ds.Len())
	}

	c := ds.Records[1]
	if c.OrderNumber != "C1" || c.Fields[types.ColAddress] != "Jalan C 50000" {
		t.Errorf("csv record = %+v", c)
	}
	if c.Fields["Remark"] != "" {
		t.Errorf("missing column should read empty, got %q", c.Fields["Remark"])
	}

	hasVoucher := false
	for _, col := range ds.Columns {
		if col == "Voucher" {
			hasVoucher = true
		}
	}
	if !hasVoucher {
		t.Errorf("Columns = %v, want union including Voucher", ds.Columns)
	}
}

func TestLoad_HeaderOnlyExport(t *testing.T) {
	dir := t.TempDir()

	testutil.WriteExport(t, filepath.Join(dir, "a.xlsx"), testutil.ExportHeaders, []testutil.Order{
		{OrderNumber: "A1", SellerID: "S1", Shipping: "Others", SKU: "A", Quantity: "1", CustomerName: "Ali", Phone: "0123", Address: "Jalan A 43000"},
	})
	testutil.WriteExport(t, filepath.Join(dir, "b_empty.xlsx"), testutil.ExportHeaders, nil)

	ds, files, err := newIngestor(config.Default()).Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(files) != 2 {
		t.Errorf("files = %v, want both exports", files)
	}
	if ds.Len() != 1 || ds.Records[0].OrderNumber != "A1" {
		t.Fatalf("records = %+v, want only A1", ds.Records)
	}
	if got := ds.Records[0].Fields[types.ColAddress]; got != "Jalan A 43000" {
		t.Errorf("address alias = %q", got)
	}
}
