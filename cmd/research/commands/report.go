package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/openresearch/backend/internal/metrics"
	"github.com/wonny/openresearch/backend/pkg/config"
	"github.com/wonny/openresearch/backend/pkg/logger"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <ticker>",
	Short: "Assemble one research report and print it as JSON",
	Long: `Runs the full pipeline for a single ticker and writes the report
to stdout. Useful for inspection and for piping into jq.

Example:
  go run ./cmd/research report AAPL
  go run ./cmd/research report MSFT --timeout 60s`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

var reportTimeout time.Duration

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().DurationVar(&reportTimeout, "timeout", 2*time.Minute, "overall deadline for the report")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)
	mets := metrics.NewRegistry()

	assembler, err := buildAssembler(cfg, log, mets)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	rep, err := assembler.Assemble(ctx, args[0])
	if err != nil {
		return fmt.Errorf("assemble report: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
