// =============================================================================
// Seller Order Reconciler - Main Entry Point
// =============================================================================
//
// USAGE:
//   recon process   - Reconcile the exports in the working directory
//   recon version   - Display the application version
//
// LAYOUT:
//   cmd/        : Cobra command definitions
//   internal/   : Ingestion, reconciliation stages and export
//   pkg/utils/  : Working directory housekeeping
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/seller-recon/cmd"
)

func main() {
	cmd.Execute()
}
