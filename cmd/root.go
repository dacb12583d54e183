// =============================================================================
// Seller Order Reconciler - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (recon)
//   ├── processCmd (recon process)
//   └── versionCmd (recon version)
//
// CONFIGURATION PRECEDENCE (highest first):
//   1. Command-line flags
//   2. RECON_* environment variables (e.g. RECON_WORK_DIR)
//   3. config.yaml
//   4. Built-in defaults
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/ginjaninja78/seller-recon/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "recon",
	Short: "Seller Order Reconciler - merge marketplace exports into one courier file",
	Long: `recon merges the order exports dropped into a working directory into a
single reconciliation file for orders the seller ships themselves.

Steps:
  - Merge every *.xlsx export (banner row, then header row)
  - Keep orders whose Shipping Information mentions others/seller/non-shopee
  - Sort by Seller ID, derive the postcode, consolidate duplicate SKUs
  - Normalise phone numbers to the 60... national form
  - Write Results/<YYMMDD_HHMM>.csv and remove the processed exports

Example Usage:
  recon process                      # Process the folder the binary lives in
  recon process --dir ~/Downloads    # Process another folder
  recon process --dry-run --preview 20`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String(
		"config",
		"config.yaml",
		"Path to the configuration file (optional)",
	)

	rootCmd.PersistentFlags().BoolP(
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig wires environment variables into viper.
func initConfig() {
	viper.SetEnvPrefix("RECON")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}

// loadConfig reads the config file and layers flag and environment
// overrides on top of it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return nil, err
	}

	if viper.IsSet("work_dir") {
		cfg.WorkDir = viper.GetString("work_dir")
	}
	if viper.IsSet("on_malformed") {
		cfg.OnMalformed = viper.GetString("on_malformed")
	}
	if viper.IsSet("log_level") {
		cfg.LogLevel = viper.GetString("log_level")
	}
	if viper.GetBool("verbose") {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
