package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pricerhq/takeoff/internal/api"
	"github.com/pricerhq/takeoff/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "takeoff",
	Short: "Line-item extraction for procurement documents",
	Long: `Takeoff extracts structured line items from OCR'd procurement documents
(RFQs, material requisitions, purchase orders).

The pipeline includes:
  - Table candidate detection and scoring
  - Cross-page fragment grouping and merging
  - Column-role inference and line-item extraction
  - Hybrid reconciliation against an LLM extraction pass
  - Per-item and document-level confidence annotation`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.takeoff/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "takeoff home directory (default: ~/.takeoff)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "json", "output format: json or yaml",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	// Set output format and logging before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(configCmd)
}
