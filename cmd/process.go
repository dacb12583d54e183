// =============================================================================
// Seller Order Reconciler - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs one reconciliation
// over the working directory.
//
// COMMAND USAGE:
//   recon process [flags]
//
// FLAGS:
//   --dir           : Working directory (default: the binary's directory)
//   --dry-run       : Run every stage but write and remove nothing
//   --keep-inputs   : Leave the exports in place after a successful run
//   --on-malformed  : "fail" (default) or "skip" malformed SKU/Quantity rows
//   --preview       : Print the first N output rows as a table
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/ginjaninja78/seller-recon/internal/logger"
	"github.com/ginjaninja78/seller-recon/internal/reconcile"
	"github.com/ginjaninja78/seller-recon/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Merge the exports in the working directory into a reconciliation file",
	Long: `The process command reads every marketplace export in the working
directory and writes one reconciliation file to its Results folder.

On success:
  - Results/<YYMMDD_HHMM>.csv holds the seller-shipped orders
  - The processed exports are removed (unless --keep-inputs or --dry-run)

On error:
  - Nothing is written and every export stays where it is
  - The error names the file or order number to fix`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().String("dir", "", "Working directory holding the exports")
	processCmd.Flags().Bool("dry-run", false, "Run every stage but write and remove nothing")
	processCmd.Flags().Bool("keep-inputs", false, "Leave the exports in place after a successful run")
	processCmd.Flags().String("on-malformed", "", `Malformed SKU/Quantity rows: "fail" or "skip"`)
	processCmd.Flags().Int("preview", 0, "Print the first N output rows as a table")

	viper.BindPFlag("work_dir", processCmd.Flags().Lookup("dir"))
	viper.BindPFlag("dry_run", processCmd.Flags().Lookup("dry-run"))
	viper.BindPFlag("keep_inputs", processCmd.Flags().Lookup("keep-inputs"))
	viper.BindPFlag("on_malformed", processCmd.Flags().Lookup("on-malformed"))
	viper.BindPFlag("preview", processCmd.Flags().Lookup("preview"))
}

// runProcess loads the configuration, runs the reconciler and prints a
// summary.
func runProcess(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel)

	workDir, err := cfg.ResolveWorkDir()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== Seller Order Reconciler ===")
	fmt.Fprintf(out, "Working directory: %s\n", workDir)

	rec := reconcile.New(cfg, workDir, reconcile.Options{
		DryRun:     viper.GetBool("dry_run"),
		KeepInputs: viper.GetBool("keep_inputs"),
	}, log)

	result := rec.Run()
	if result.Error != nil {
		return result.Error
	}

	if n := viper.GetInt("preview"); n > 0 {
		fmt.Fprintln(out)
		if err := report.WritePreview(out, result.Dataset, n); err != nil {
			return err
		}
	}

	printSummary(out, result, viper.GetBool("dry_run"))

	if result.CleanupError != nil {
		return fmt.Errorf("output written to %s but inputs were not all removed: %w", result.OutputFile, result.CleanupError)
	}

	return nil
}

// printSummary prints the run statistics in the same block layout as the
// summary log.
func printSummary(out io.Writer, result reconcile.Result, dryRun bool) {
	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Run ID:          %s\n", result.RunID)
	fmt.Fprintf(out, "Input files:     %d\n", result.Stats.FilesIngested)
	for _, f := range result.InputFiles {
		fmt.Fprintf(out, "  ✓ %s\n", filepath.Base(f))
	}
	fmt.Fprintf(out, "Rows ingested:   %d\n", result.Stats.RowsIngested)
	fmt.Fprintf(out, "Seller-shipped:  %d\n", result.Stats.RowsFiltered)
	fmt.Fprintf(out, "Rows exported:   %d\n", result.Stats.RowsExported)

	if len(result.Skipped) > 0 {
		fmt.Fprintf(out, "Skipped:         %d\n", len(result.Skipped))
		for _, s := range result.Skipped {
			fmt.Fprintf(out, "  ✗ %v\n", s.Err)
		}
		if result.ErrorLog != "" {
			fmt.Fprintf(out, "Error log:       %s\n", result.ErrorLog)
		}
	}

	if dryRun {
		fmt.Fprintf(out, "Would write:     %s\n", result.OutputFile)
	} else {
		fmt.Fprintf(out, "Output file:     %s\n", result.OutputFile)
		fmt.Fprintf(out, "Removed inputs:  %d\n", len(result.RemovedFiles))
	}
	fmt.Fprintf(out, "Time elapsed:    %s\n", result.Stats.ProcessingTime)
}
