// =============================================================================
// Seller Order Reconciler - File Manager Utility
// =============================================================================
//
// This module provides the filesystem housekeeping around the pipeline:
//   - Export discovery in the drop folder
//   - Removal of ingested exports
//   - Results directory management
//   - Output file naming
//   - Error and summary log generation
//
// REMOVAL STRATEGY:
//   - Exports are removed only after the reconciliation file was written
//   - Only files the ingestor reported as parsed are removed
//   - A file that fails to parse is never touched
//
// =============================================================================

package utils

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the reconciler.
type FileManager struct {
	// WorkDir is the drop folder the exports are read from.
	WorkDir string

	// ResultsDir is the name of the output subdirectory inside WorkDir.
	ResultsDir string
}

// NewFileManager creates a new FileManager.
func NewFileManager(workDir, resultsDir string) *FileManager {
	return &FileManager{
		WorkDir:    workDir,
		ResultsDir: resultsDir,
	}
}

// ResultsPath returns the absolute path of the results directory.
func (fm *FileManager) ResultsPath() string {
	return filepath.Join(fm.WorkDir, fm.ResultsDir)
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureResultsDir creates the results directory if it does not exist.
func (fm *FileManager) EnsureResultsDir() (string, error) {
	dir := fm.ResultsPath()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return dir, nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles returns the regular files in WorkDir whose names match
// any of the glob patterns, sorted by file name. Subdirectories (including
// the results directory) are not scanned, and Office lock files ("~$...")
// are ignored.
func (fm *FileManager) DiscoverInputFiles(patterns []string) ([]string, error) {
	entries, err := os.ReadDir(fm.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan working directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "~$") {
			continue
		}

		matched, err := matchAny(patterns, entry.Name())
		if err != nil {
			return nil, err
		}
		if matched {
			files = append(files, filepath.Join(fm.WorkDir, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

// matchAny reports whether name matches one of the patterns, comparing
// extensions case-insensitively (exports named "ORDERS.XLSX" are common).
func matchAny(patterns []string, name string) (bool, error) {
	lower := strings.ToLower(name)
	for _, pattern := range patterns {
		ok, err := filepath.Match(strings.ToLower(pattern), lower)
		if err != nil {
			return false, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// =============================================================================
// FILE REMOVAL
// =============================================================================

// RemoveInputFiles deletes the given exports. Every path is attempted; the
// returned error joins all failures. Paths outside WorkDir are refused.
func (fm *FileManager) RemoveInputFiles(paths []string) ([]string, error) {
	var removed []string
	var errs []error

	for _, path := range paths {
		if filepath.Dir(filepath.Clean(path)) != filepath.Clean(fm.WorkDir) {
			errs = append(errs, fmt.Errorf("refusing to remove %s: not in %s", path, fm.WorkDir))
			continue
		}
		if err := os.Remove(path); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", filepath.Base(path), err))
			continue
		}
		removed = append(removed, path)
	}

	return removed, errors.Join(errs...)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// OutputFileName formats the reconciliation file name for the given time.
//
// EXAMPLE:
//   layout: "060102_1504", extension: "csv", now: 2026-10-19 09:05
//   output: "261019_0905.csv"
func OutputFileName(layout, extension string, now time.Time) string {
	return now.Format(layout) + "." + strings.TrimPrefix(extension, ".")
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// ErrorLogEntry represents a single skipped record.
type ErrorLogEntry struct {
	FileName     string
	RowNumber    int
	OrderNumber  string
	ErrorMessage string
}

// WriteErrorLog writes skipped-record entries to a log file in dir.
//
// RETURNS:
//   - The path to the error log file, or "" when there is nothing to log.
//   - An error if writing fails.
func WriteErrorLog(entries []ErrorLogEntry, dir, runID string, now time.Time) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	logPath := filepath.Join(dir, fmt.Sprintf("error_log_%s.txt", now.Format("20060102_150405")))

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "Seller Order Reconciler - Error Log\n"+
		"Run ID: %s\n"+
		"Generated: %s\n"+
		"Skipped Records: %d\n"+
		"================================================================================\n\n",
		runID, now.Format("2006-01-02 15:04:05"), len(entries))

	for i, entry := range entries {
		fmt.Fprintf(writer, "Record #%d\n", i+1)
		fmt.Fprintf(writer, "  File:         %s\n", entry.FileName)
		if entry.RowNumber > 0 {
			fmt.Fprintf(writer, "  Row Number:   %d\n", entry.RowNumber)
		}
		fmt.Fprintf(writer, "  Order Number: %s\n", entry.OrderNumber)
		fmt.Fprintf(writer, "  Message:      %s\n\n", entry.ErrorMessage)
	}

	writer.WriteString("================================================================================\n" +
		"End of Error Log\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush error log: %w", err)
	}

	return logPath, nil
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a processing run.
type ProcessingSummary struct {
	RunID          string
	StartTime      time.Time
	EndTime        time.Time
	InputFiles     []string
	OutputFile     string
	RowsIngested   int
	RowsFiltered   int
	RowsExported   int
	SkippedRecords int
}

// WriteSummaryLog writes a processing summary to a log file in dir.
func WriteSummaryLog(summary ProcessingSummary, dir string) (string, error) {
	summaryPath := filepath.Join(dir, fmt.Sprintf("processing_summary_%s.txt", summary.EndTime.Format("20060102_150405")))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "Seller Order Reconciler - Processing Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n"+
		"  Output File:    %s\n\n"+
		"Statistics:\n"+
		"  Input Files:        %d\n"+
		"  Rows Ingested:      %d\n"+
		"  Seller-Shipped:     %d\n"+
		"  Rows Exported:      %d\n"+
		"  Skipped Records:    %d\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		filepath.Base(summary.OutputFile),
		len(summary.InputFiles),
		summary.RowsIngested,
		summary.RowsFiltered,
		summary.RowsExported,
		summary.SkippedRecords)

	if len(summary.InputFiles) > 0 {
		writer.WriteString("Input Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, f := range summary.InputFiles {
			fmt.Fprintf(writer, "  %s\n", filepath.Base(f))
		}
		writer.WriteString("\n")
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
