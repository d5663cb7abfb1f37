package parsing

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/schemas"
)

// APICallError represents a failed call to the LLM provider
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents an LLM response that could not be decoded or did not match its schema
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ValidationError represents invalid input
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// WrapLLMError classifies an error returned by llm.GenerateStructured or
// llm.GenerateText. Empty responses keep llm.ErrNoContent in the chain so the
// message reads "failed to <action>: no response from AI".
func WrapLLMError(action string, err error) error {
	if err == nil {
		return nil
	}

	var (
		schemaErr *schemas.ValidationError
		loadErr   *schemas.SchemaLoadError
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, llm.ErrNoContent):
		return fmt.Errorf("failed to %s: %w", action, err)
	case errors.As(err, &schemaErr), errors.As(err, &loadErr), errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return &ParseError{Message: "failed to " + action, Cause: err}
	default:
		return &APICallError{Message: "failed to " + action, Cause: err}
	}
}
