// Package schemas embeds the JSON Schemas that constrain structured LLM
// responses and validates documents against them.
package schemas

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFS embed.FS

// Schema names
const (
	ParsedResume  = "parsed_resume"
	JobAnalysis   = "job_analysis"
	MatchScore    = "match_score"
	Customization = "customization"
	ATSAnalysis   = "ats_analysis"
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

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Name    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Name, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	if ve.Schema != "" {
		fmt.Fprintf(&sb, "response does not match %s schema:", ve.Schema)
	} else {
		sb.WriteString("validation failed:")
	}
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "\n  %d. %s: %s", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// Get returns the raw schema document for a name such as "match_score"
func Get(name string) ([]byte, error) {
	data, err := schemaFS.ReadFile(name + ".schema.json")
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Message: "schema not found", Cause: err}
	}
	return data, nil
}

// Names lists every embedded schema name in sorted order
func Names() []string {
	entries, err := schemaFS.ReadDir(".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".schema.json"))
	}
	sort.Strings(names)
	return names
}

// Validate checks a JSON document against the named embedded schema
func Validate(name, jsonContent string) error {
	doc, err := Get(name)
	if err != nil {
		return err
	}
	if err := ValidateJSONString(doc, jsonContent); err != nil {
		if verr, ok := err.(*ValidationError); ok {
			verr.Schema = name
		}
		return err
	}
	return nil
}

// ValidateJSONString validates JSON content against a schema document
func ValidateJSONString(schema []byte, jsonContent string) error {
	schemaLoader := gojsonschema.NewBytesLoader(schema)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Name:    "(inline schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
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
