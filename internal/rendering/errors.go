// Package rendering turns customized resumes and cover letters into HTML, PDF and DOCX documents.
package rendering

import "fmt"

// RenderError reports a failure producing one output format. Format is empty
// when the input was rejected before any format was attempted.
type RenderError struct {
	Format  string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	prefix := "render"
	if e.Format != "" {
		prefix = e.Format + " render"
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", prefix, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
}

func (e *RenderError) Unwrap() error { return e.Cause }
