// Package testutil builds marketplace export fixtures for tests.
package testutil

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// ExportHeaders mirrors the seller-centre order export: the delivery address
// sits in the last column, whose header cell is blank ("Unnamed: 17").
var ExportHeaders = []string{
	"Order Number", "Order Status", "Seller ID", "Seller Name", "Order Creation Date",
	"Shipping Information", "Tracking Number", "SKU", "Product Name", "Quantity",
	"Unit Price", "Total Amount", "Customer Name", "Phone", "State", "City", "Remark", "",
}

// Order is one export row.
type Order struct {
	OrderNumber  string
	SellerID     any
	Shipping     string
	SKU          string
	Quantity     any
	CustomerName string
	Phone        any
	Address      string
}

// Cells lays the order out in ExportHeaders column order.
func (o Order) Cells() []any {
	return []any{
		o.OrderNumber, "READY_TO_SHIP", o.SellerID, "Shop", "2026-10-18 10:00",
		o.Shipping, "", o.SKU, "Item", o.Quantity,
		"10.00", "20.00", o.CustomerName, o.Phone, "Selangor", "Shah Alam", "", o.Address,
	}
}

// WriteExport saves a single-sheet workbook with a banner row, the header
// row and one row per order.
func WriteExport(t *testing.T, path string, headers []string, orders []Order) {
	t.Helper()

	rows := make([][]any, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, o.Cells())
	}
	WriteRows(t, path, headers, rows)
}

// WriteRows saves a workbook with a banner row, the header row and the given
// raw rows.
func WriteRows(t *testing.T, path string, headers []string, rows [][]any) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	if err := f.SetCellValue(sheet, "A1", "Order Report 2026-10-01 ~ 2026-10-18"); err != nil {
		t.Fatalf("write banner: %v", err)
	}

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	setRow(t, f, sheet, 2, header)

	for i, row := range rows {
		setRow(t, f, sheet, i+3, row)
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook %s: %v", path, err)
	}
}

func setRow(t *testing.T, f *excelize.File, sheet string, rowNum int, cells []any) {
	t.Helper()

	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		t.Fatalf("cell name: %v", err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		t.Fatalf("write row %d: %v", rowNum, err)
	}
}
