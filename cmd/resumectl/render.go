package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"resumeforge/internal/shared/config"
	"resumeforge/resume/model"
	"resumeforge/resume/render"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render resume sections JSON to HTML or PDF",
	RunE:  runRender,
}

var (
	renderIn     string
	renderOut    string
	renderHeader render.Header
)

func init() {
	renderCmd.Flags().StringVarP(&renderIn, "in", "i", "", "Sections JSON (summary, experience, projects, skills, education)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output file; .pdf renders through Chrome, anything else writes HTML")
	renderCmd.Flags().StringVar(&renderHeader.Name, "name", "", "Candidate name")
	renderCmd.Flags().StringVar(&renderHeader.Email, "email", "", "Contact email")
	renderCmd.Flags().StringVar(&renderHeader.Phone, "phone", "", "Contact phone")
	renderCmd.Flags().StringVar(&renderHeader.LinkedIn, "linkedin", "", "LinkedIn URL")
	renderCmd.Flags().StringVar(&renderHeader.GitHub, "github", "", "GitHub URL")
	_ = renderCmd.MarkFlagRequired("in")
	_ = renderCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	raw, err := os.ReadFile(renderIn)
	if err != nil {
		return fmt.Errorf("read sections: %w", err)
	}
	var sections model.Sections
	if err := json.Unmarshal(raw, &sections); err != nil {
		return fmt.Errorf("decode sections: %w", err)
	}

	var doc []byte
	if strings.EqualFold(filepath.Ext(renderOut), ".pdf") {
		cfg := config.Load()
		doc, err = render.NewChromedp(cfg.ChromePath, 0).PDF(cmd.Context(), sections, renderHeader)
	} else {
		var html string
		html, err = render.HTML(sections, renderHeader)
		doc = []byte(html)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(renderOut, doc, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", renderOut, len(doc))
	return nil
}
