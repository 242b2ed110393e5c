// Package prompts holds the embedded generator prompt templates.
package prompts

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("prompts").ParseFS(templateFS, "templates/*.tmpl"))

const (
	Persona   = "persona"
	Context   = "context"
	Research  = "research"
	Strategy  = "strategy"
	Draft     = "draft"
	ATSRefine = "ats_refine"
	Review    = "review"
)

// Evaluation returns the template name for a scoring category.
func Evaluation(category string) string {
	return "eval_" + category
}

// Has reports whether a template with the given name exists.
func Has(name string) bool {
	return templates.Lookup(name+".tmpl") != nil
}

// Render executes the named template with data.
func Render(name string, data any) (string, error) {
	t := templates.Lookup(name + ".tmpl")
	if t == nil {
		return "", fmt.Errorf("prompt template %q not found", name)
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render prompt %q: %w", name, err)
	}
	return strings.TrimSpace(b.String()), nil
}
