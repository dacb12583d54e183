// =============================================================================
// Seller Order Reconciler - Shared Types
// =============================================================================
//
// This package contains the types shared by every pipeline stage, kept here
// to avoid import cycles. Types defined here are used by:
//   - ingest
//   - reconcile
//   - csvwriter
//   - report
//
// =============================================================================

package types

// =============================================================================
// COLUMN NAMES
// =============================================================================
// Header names as they appear on the marketplace export's header row.

const (
	ColSellerID     = "Seller ID"
	ColOrderNumber  = "Order Number"
	ColShippingInfo = "Shipping Information"
	ColSKU          = "SKU"
	ColQuantity     = "Quantity"
	ColCustomerName = "Customer Name"
	ColPhone        = "Phone"
	ColAddress      = "Address"
	ColPostcode     = "Postcode"
)

// ExportColumns is the fixed column order of the reconciliation file.
var ExportColumns = []string{
	ColSellerID,
	ColOrderNumber,
	ColSKU,
	ColQuantity,
	ColCustomerName,
	ColPhone,
	ColPostcode,
	ColAddress,
}

// =============================================================================
// RECORD TYPES
// =============================================================================

// Record is one row of the working dataset.
type Record struct {
	SellerID     string
	OrderNumber  string
	ShippingInfo string

	// SKU may hold a comma-separated list of item identifiers.
	SKU string

	// Quantity is aligned positionally with SKU.
	Quantity string

	CustomerName string
	Phone        string

	// Address is empty until the Field Deriver has run.
	Address string

	// Postcode is derived from Address, never read from the source.
	Postcode string

	// Fields contains every raw column of the source row keyed by the cleaned
	// header name. It is shared between stage copies and must not be mutated
	// after ingestion.
	Fields map[string]string

	// SourceFile is the base name of the file the row came from.
	SourceFile string

	// SourceRow is the 1-based row number in the source sheet.
	SourceRow int
}

// Value returns the field value for an export column name.
func (r Record) Value(column string) string {
	switch column {
	case ColSellerID:
		return r.SellerID
	case ColOrderNumber:
		return r.OrderNumber
	case ColShippingInfo:
		return r.ShippingInfo
	case ColSKU:
		return r.SKU
	case ColQuantity:
		return r.Quantity
	case ColCustomerName:
		return r.CustomerName
	case ColPhone:
		return r.Phone
	case ColAddress:
		return r.Address
	case ColPostcode:
		return r.Postcode
	}
	return r.Fields[column]
}

// Dataset is the ordered collection of records at a given pipeline stage.
type Dataset struct {
	// Columns is the union of all source headers in first-seen order.
	Columns []string

	// Records is the ordered row list.
	Records []Record
}

// Len returns the number of records, treating a nil dataset as empty.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// WithRecords returns a new dataset sharing the column list of d.
func (d *Dataset) WithRecords(records []Record) *Dataset {
	out := &Dataset{Records: records}
	if d != nil {
		out.Columns = d.Columns
	}
	return out
}
