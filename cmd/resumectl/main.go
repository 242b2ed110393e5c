// Command resumectl runs the resume analysis and optimization pipelines from the shell.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resumeforge/internal/bootstrap"
	"resumeforge/internal/shared/config"
	"resumeforge/internal/shared/telemetry"
)

var rootCmd = &cobra.Command{
	Use:           "resumectl",
	Short:         "Resume analysis and optimization toolkit",
	Long:          "resumectl scores resumes against a target role, tailors a resume to a job posting, and renders the result as HTML or PDF.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline progress to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadApp builds the same dependency graph the API server uses.
// CLI runs keep metrics in a private registry.
func loadApp(ctx context.Context) (*bootstrap.App, error) {
	cfg := config.Load()
	logger := zap.NewNop()
	if verbose {
		l, err := telemetry.New(telemetry.Options{JSON: cfg.LogJSON, Debug: cfg.LogDebug})
		if err != nil {
			return nil, fmt.Errorf("logger init: %w", err)
		}
		logger = l
	}
	return bootstrap.Build(ctx, cfg, logger, bootstrap.Options{Registerer: prometheus.NewRegistry()})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// output opens path for writing, or returns stdout for "" and "-".
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}
