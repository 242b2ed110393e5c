package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"resumeforge/internal/analyses"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume-file>",
	Short: "Score a resume (.pdf, .docx or .txt) against a job role",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var (
	analyzeRole string
	analyzeOut  string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeRole, "role", "r", "", "Target job role used to build the reviewer persona")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Write the report JSON to this file instead of stdout")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read resume: %w", err)
	}

	app, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	analysis, err := app.AnalysesService.Analyze(cmd.Context(), analyses.Upload{
		Data:     data,
		FileName: filepath.Base(path),
		MimeType: mime.TypeByExtension(filepath.Ext(path)),
		JobRole:  analyzeRole,
	})
	if err != nil {
		return err
	}

	w, closeFn, err := output(cmd, analyzeOut)
	if err != nil {
		return err
	}
	if err := writeJSON(w, analysis); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}
