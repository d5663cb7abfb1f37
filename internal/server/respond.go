package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// jsonResponse writes a JSON response
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// errorResponse writes an error JSON response. Server errors are logged and
// their details withheld from the client.
func errorResponse(w http.ResponseWriter, logger *zap.Logger, r *http.Request, err error) {
	status := HTTPStatus(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		if status == http.StatusServiceUnavailable {
			message = "service unavailable"
		} else {
			message = "internal server error"
		}
	}
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes the request body into v
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return tooLarge
		}
		return errInvalidBody
	}
	return nil
}

// validationError converts validator errors to *ErrValidation, reporting the first field
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: fe.Tag()}
	}
	return &ErrValidation{Field: "request", Message: "invalid"}
}

// decodeAndValidate decodes the body into v and validates its struct tags
func decodeAndValidate(r *http.Request, validate *validator.Validate, v any) error {
	if err := decodeJSON(r, v); err != nil {
		return err
	}
	if err := validate.Struct(v); err != nil {
		return validationError(err)
	}
	return nil
}

// pathUUID parses a UUID path parameter
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return parseUUID(name, r.PathValue(name))
}

func parseUUID(name, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: fmt.Sprintf("invalid uuid %q", raw)}
	}
	return id, nil
}
