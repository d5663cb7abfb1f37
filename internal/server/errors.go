package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/parsing"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/storage"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// errInvalidBody is returned when a request body is not valid JSON
var errInvalidBody = errors.New("invalid request body")

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailExists  *ErrEmailAlreadyExists
		badCreds     *ErrInvalidCredentials
		pwMismatch   *ErrPasswordMismatch
		userNotFound *ErrUserNotFound
		validation   *ErrValidation
		inputErr     *parsing.ValidationError
		tooLarge     *http.MaxBytesError
	)

	switch {
	case errors.As(err, &emailExists):
		return http.StatusConflict
	case errors.As(err, &badCreds), errors.As(err, &pwMismatch), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.As(err, &userNotFound),
		errors.Is(err, pipeline.ErrNotFound),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ingestion.ErrUnsupportedFileType):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &validation),
		errors.As(err, &inputErr),
		errors.Is(err, errInvalidBody),
		errors.Is(err, pipeline.ErrInvalidInput),
		errors.Is(err, ingestion.ErrNoText):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrDatabaseUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
