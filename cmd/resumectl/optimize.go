package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"resumeforge/internal/optimizer"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Generate a resume tailored to a job description",
	Long:  "Runs the six-stage optimizer (context, research, strategy, draft, ATS refinement, review) and prints the workflow id and final sections.",
	RunE:  runOptimize,
}

var (
	optimizeJDFile  string
	optimizeRole    string
	optimizeCompany string
	optimizeOut     string
)

func init() {
	optimizeCmd.Flags().StringVar(&optimizeJDFile, "jd", "", "Path to the job description text (required)")
	optimizeCmd.Flags().StringVarP(&optimizeRole, "role", "r", "", "Job role (required)")
	optimizeCmd.Flags().StringVarP(&optimizeCompany, "company", "c", "", "Company name (required)")
	optimizeCmd.Flags().StringVarP(&optimizeOut, "out", "o", "", "Also render the result to this .html or .pdf file")
	_ = optimizeCmd.MarkFlagRequired("jd")
	_ = optimizeCmd.MarkFlagRequired("role")
	_ = optimizeCmd.MarkFlagRequired("company")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	jd, err := os.ReadFile(optimizeJDFile)
	if err != nil {
		return fmt.Errorf("read job description: %w", err)
	}

	app, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	ctx := cmd.Context()
	res, err := app.OptimizerService.Run(ctx, optimizer.Input{
		JobDescription: string(jd),
		Role:           optimizeRole,
		Company:        optimizeCompany,
	})
	if err != nil {
		return err
	}
	if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	if optimizeOut == "" {
		return nil
	}

	var doc []byte
	switch strings.ToLower(filepath.Ext(optimizeOut)) {
	case ".pdf":
		doc, err = app.OptimizerService.PDF(ctx, res.WorkflowID)
	default:
		var html string
		html, err = app.OptimizerService.Preview(ctx, res.WorkflowID)
		doc = []byte(html)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(optimizeOut, doc, 0o644)
}
