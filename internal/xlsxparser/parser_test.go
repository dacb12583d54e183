package xlsxparser

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/seller-recon/internal/testutil"
)

func TestParse_ExportLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.xlsx")
	testutil.WriteExport(t, path, testutil.ExportHeaders, []testutil.Order{
		{OrderNumber: "2610180001", SellerID: 1002, Shipping: "Others", SKU: "A,B", Quantity: "1,2", Phone: 60123456789, Address: "No.12 Jalan ABC 54321"},
	})

	table, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(table.Headers) != len(testutil.ExportHeaders) {
		t.Fatalf("Expected %d headers, got %d", len(testutil.ExportHeaders), len(table.Headers))
	}
	if last := table.Headers[len(table.Headers)-1]; last != "Unnamed: 17" {
		t.Errorf("address header = %q, want Unnamed: 17", last)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(table.Rows))
	}

	row := table.Rows[0]
	if row.Number != 3 {
		t.Errorf("row number = %d, want 3", row.Number)
	}
	if got := row.Values["Phone"]; got != "60123456789" {
		t.Errorf("Phone = %q, want raw 60123456789", got)
	}
	if got := row.Values["Seller ID"]; got != "1002" {
		t.Errorf("Seller ID = %q", got)
	}
	if got := row.Values["Unnamed: 17"]; got != "No.12 Jalan ABC 54321" {
		t.Errorf("address = %q", got)
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	testutil.WriteExport(t, path, testutil.ExportHeaders, nil)

	table, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(table.Rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(table.Rows))
	}
	if !table.HasColumn("Customer Name") {
		t.Errorf("headers = %q", table.Headers)
	}
}

func TestParse_MissingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.xlsx")
	testutil.WriteExport(t, path, testutil.ExportHeaders, nil)

	_, err := ParseWithOptions(path, Options{SheetName: "Orders", HeaderRow: 2})
	if err == nil || !strings.Contains(err.Error(), `"Orders"`) {
		t.Errorf("Expected sheet not found error, got %v", err)
	}
}

func TestParse_NotAWorkbook(t *testing.T) {
	if _, err := Parse(filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Error("Expected error for missing workbook")
	}
}
