// Package schemas validates structured generator output against embedded JSON Schemas.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Schema names.
const (
	JobContext = "job_context"
	Research   = "research"
	Strategy   = "strategy"
	Review     = "review"
)

//go:embed json/*.json
var schemaFS embed.FS

var (
	compiled   = map[string]*gojsonschema.Schema{}
	compiledMu sync.Mutex
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	parts := make([]string, 0, len(ve.Errors))
	for _, err := range ve.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return fmt.Sprintf("%s failed validation: %s", ve.Schema, strings.Join(parts, "; "))
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Name  string
	Cause error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %v", e.Name, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func load(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()
	if s, ok := compiled[name]; ok {
		return s, nil
	}
	raw, err := schemaFS.ReadFile("json/" + name + ".json")
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Cause: err}
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Cause: err}
	}
	compiled[name] = s
	return s, nil
}

// Validate checks doc against the named schema. A document that is not JSON
// is reported as a ValidationError on the root.
func Validate(name string, doc []byte) error {
	s, err := load(name)
	if err != nil {
		return err
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return &ValidationError{Schema: name, Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: name,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
