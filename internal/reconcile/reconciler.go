// =============================================================================
// Seller Order Reconciler - Reconciler
// =============================================================================
//
// This module orchestrates one reconciliation run over a drop folder.
//
// RECONCILIATION PIPELINE:
//   1. Ingest every export in the working directory
//   2. Keep seller-shipped orders, sort by Seller ID
//   3. Derive the postcode from the address
//   4. Consolidate duplicate SKUs per order
//   5. Normalise phone numbers
//   6. Write the reconciliation file
//   7. Remove the ingested exports
//
// Each stage returns a new dataset; nothing is mutated in place. The run is
// single-threaded and synchronous. Any stage error aborts the run before the
// exports are removed, so a failed run can simply be repeated.
//
// =============================================================================

package reconcile

import (
	"path/filepath"
	"time"

	"github.com/ginjaninja78/seller-recon/internal/config"
	"github.com/ginjaninja78/seller-recon/internal/csvwriter"
	"github.com/ginjaninja78/seller-recon/internal/ingest"
	"github.com/ginjaninja78/seller-recon/internal/logger"
	"github.com/ginjaninja78/seller-recon/internal/types"
	"github.com/ginjaninja78/seller-recon/pkg/utils"
	"github.com/google/uuid"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	// RunID identifies the run in logs and report files.
	RunID string

	// InputFiles are the exports that were ingested.
	InputFiles []string

	// OutputFile is the reconciliation file path. On a dry run it is the path
	// that would have been written.
	OutputFile string

	// ErrorLog is the skipped-record log, when one was written.
	ErrorLog string

	// Dataset is the final dataset as exported.
	Dataset *types.Dataset

	// Skipped lists records dropped under the skip policy.
	Skipped []SkippedRecord

	// RemovedFiles are the exports deleted after the output was written.
	RemovedFiles []string

	// Success indicates whether the output file was produced.
	Success bool

	// Error contains the error that aborted the run.
	Error error

	// CleanupError is set when the output was written but an export could
	// not be removed. The next run would ingest that export again.
	CleanupError error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	FilesIngested  int
	RowsIngested   int
	RowsFiltered   int
	RowsExported   int
	SkippedRecords int
	ProcessingTime time.Duration
}

// =============================================================================
// RECONCILER STRUCTURE
// =============================================================================

// Options adjusts a single run.
type Options struct {
	// DryRun runs every stage but writes and removes nothing.
	DryRun bool

	// KeepInputs leaves the exports in place after a successful run.
	KeepInputs bool
}

// Reconciler runs the pipeline over one working directory.
type Reconciler struct {
	cfg     *config.Config
	workDir string
	opts    Options
	logger  *logger.Logger

	// now is the clock used for file names and reports.
	now func() time.Time
}

// New creates a Reconciler. workDir must already be resolved.
func New(cfg *config.Config, workDir string, opts Options, log *logger.Logger) *Reconciler {
	return &Reconciler{
		cfg:     cfg,
		workDir: workDir,
		opts:    opts,
		logger:  log,
		now:     time.Now,
	}
}

// SetClock replaces the clock. Intended for tests.
func (r *Reconciler) SetClock(now func() time.Time) {
	r.now = now
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline.
func (r *Reconciler) Run() Result {
	startTime := r.now()
	result := Result{RunID: uuid.New().String()}
	log := r.logger.With("run_id", result.RunID)

	log.Info("starting reconciliation", "dir", r.workDir, "dry_run", r.opts.DryRun)

	// =========================================================================
	// STEP 1: INGEST
	// =========================================================================

	ds, files, err := ingest.New(r.cfg, log).Load(r.workDir)
	if err != nil {
		result.Error = err
		log.Error("ingestion failed", "error", err)
		return result
	}

	result.InputFiles = files
	result.Stats.FilesIngested = len(files)
	result.Stats.RowsIngested = ds.Len()

	if len(files) == 0 {
		log.Warn("no input files found; writing an empty reconciliation file")
	}

	// =========================================================================
	// STEP 2-5: TRANSFORM
	// =========================================================================

	ds = FilterAndSort(ds, r.cfg.ShippingKeywords)
	result.Stats.RowsFiltered = ds.Len()
	log.Debug("filtered to seller-shipped orders", "rows", ds.Len())

	ds = DerivePostcode(ds)

	ds, skipped, err := AggregateLineItems(ds, r.cfg.OnMalformed)
	if err != nil {
		result.Error = err
		log.Error("line item aggregation failed", "error", err)
		return result
	}

	result.Skipped = skipped
	result.Stats.SkippedRecords = len(skipped)
	for _, s := range skipped {
		log.Warn("skipped malformed record", "order", s.Record.OrderNumber, "file", s.Record.SourceFile, "row", s.Record.SourceRow, "error", s.Err.Err)
	}

	ds = NormalizePhones(ds)
	result.Dataset = ds
	result.Stats.RowsExported = ds.Len()

	// =========================================================================
	// STEP 6: EXPORT
	// =========================================================================

	fm := utils.NewFileManager(r.workDir, r.cfg.ResultsDir)
	writer := csvwriter.New(fm, r.cfg.TimestampLayout, r.cfg.OutputExtension)
	writer.Now = r.now

	if r.opts.DryRun {
		result.OutputFile = writer.OutputPath()
		result.Success = true
		result.Stats.ProcessingTime = r.now().Sub(startTime)
		log.Info("dry run complete", "would_write", result.OutputFile, "rows", ds.Len())
		return result
	}

	outputPath, err := writer.Write(ds)
	if err != nil {
		result.Error = err
		log.Error("export failed", "error", err)
		return result
	}

	result.OutputFile = outputPath
	result.Success = true
	log.Info("wrote reconciliation file", "path", outputPath, "rows", ds.Len())

	r.writeReports(&result, fm, startTime, log)

	// =========================================================================
	// STEP 7: REMOVE INGESTED EXPORTS
	// =========================================================================

	if r.cfg.ShouldDeleteInputs() && !r.opts.KeepInputs && len(files) > 0 {
		removed, err := fm.RemoveInputFiles(files)
		result.RemovedFiles = removed
		if err != nil {
			result.CleanupError = err
			log.Error("failed to remove input files", "error", err)
		} else {
			log.Info("removed input files", "count", len(removed))
		}
	}

	result.Stats.ProcessingTime = r.now().Sub(startTime)
	return result
}

// writeReports writes the skipped-record log and, when enabled, the run
// summary. Report failures are logged but do not fail the run; the
// reconciliation file is already in place.
func (r *Reconciler) writeReports(result *Result, fm *utils.FileManager, startTime time.Time, log *logger.Logger) {
	dir := fm.ResultsPath()

	if len(result.Skipped) > 0 {
		entries := make([]utils.ErrorLogEntry, len(result.Skipped))
		for i, s := range result.Skipped {
			entries[i] = utils.ErrorLogEntry{
				FileName:     s.Record.SourceFile,
				RowNumber:    s.Record.SourceRow,
				OrderNumber:  s.Record.OrderNumber,
				ErrorMessage: s.Err.Error(),
			}
		}

		path, err := utils.WriteErrorLog(entries, dir, result.RunID, r.now())
		if err != nil {
			log.Warn("failed to write error log", "error", err)
		} else {
			result.ErrorLog = path
			log.Info("wrote error log", "path", filepath.Base(path), "skipped", len(entries))
		}
	}

	if r.cfg.WriteSummary {
		path, err := utils.WriteSummaryLog(utils.ProcessingSummary{
			RunID:          result.RunID,
			StartTime:      startTime,
			EndTime:        r.now(),
			InputFiles:     result.InputFiles,
			OutputFile:     result.OutputFile,
			RowsIngested:   result.Stats.RowsIngested,
			RowsFiltered:   result.Stats.RowsFiltered,
			RowsExported:   result.Stats.RowsExported,
			SkippedRecords: result.Stats.SkippedRecords,
		}, dir)
		if err != nil {
			log.Warn("failed to write summary", "error", err)
		} else {
			log.Debug("wrote summary", "path", filepath.Base(path))
		}
	}
}
