// =============================================================================
// Seller Order Reconciler - Schema Validation
// =============================================================================
//
// This module checks that a parsed export carries every column the pipeline
// reads before any of its rows enter the working dataset. A file failing
// these checks aborts ingestion with a types.IngestionError naming the file
// and the first missing column.
//
// REQUIRED COLUMNS:
//   Shipping Information, Seller ID, SKU, Quantity, Phone, the address
//   column, Order Number and Customer Name (the last two are projected into
//   the reconciliation file).
//
// =============================================================================

package validation

import (
	"path/filepath"

	"github.com/ginjaninja78/seller-recon/internal/types"
)

// =============================================================================
// SCHEMA
// =============================================================================

// Schema describes the columns an export must carry.
type Schema struct {
	// Required are the header names every export must have.
	Required []string

	// AddressColumn is the fallback header of the address column, used when
	// the export has no column literally named "Address".
	AddressColumn string
}

// NewSchema returns the standard export schema with the given address
// column fallback.
func NewSchema(addressColumn string) *Schema {
	return &Schema{
		Required: []string{
			types.ColShippingInfo,
			types.ColSellerID,
			types.ColSKU,
			types.ColQuantity,
			types.ColPhone,
			types.ColOrderNumber,
			types.ColCustomerName,
		},
		AddressColumn: addressColumn,
	}
}

// =============================================================================
// VALIDATION FUNCTIONS
// =============================================================================

// ValidateTable checks a parsed export against the schema and returns the
// header to read the address from.
func (s *Schema) ValidateTable(table *types.Table) (string, error) {
	file := filepath.Base(table.SourceFile)

	for _, column := range s.Required {
		if !table.HasColumn(column) {
			return "", &types.IngestionError{File: file, Column: column}
		}
	}

	addressColumn := s.ResolveAddressColumn(table)
	if addressColumn == "" {
		// A blank header cell with nothing below it may not exist in the
		// file at all, so an export without orders cannot be held to it.
		if len(table.Rows) == 0 {
			return s.AddressColumn, nil
		}
		return "", &types.IngestionError{File: file, Column: s.AddressColumn}
	}

	return addressColumn, nil
}

// ResolveAddressColumn returns the header carrying the delivery address, or
// an empty string when the export has none.
func (s *Schema) ResolveAddressColumn(table *types.Table) string {
	if table.HasColumn(types.ColAddress) {
		return types.ColAddress
	}
	if s.AddressColumn != "" && table.HasColumn(s.AddressColumn) {
		return s.AddressColumn
	}
	return ""
}
