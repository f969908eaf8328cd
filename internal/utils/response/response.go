// Package response provides helpers for reading JSON requests and writing
// consistent JSON responses.
//
// Every API handler sends JSON back to the client. Error responses always
// share one envelope, so API consumers know what a failure looks like:
//
//	{ "status": "error", "error": "field Name is required" }
//
// Errors from the storage and form layers also carry a machine-readable
// "code" (see CodeFor).
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/students-dashboard/internal/form"
	"github.com/aanand-mishra/students-dashboard/internal/storage"
)

// Response is the standard envelope returned for error cases.
type Response struct {
	Status string `json:"status"`         // "ok" or "error"
	Error  string `json:"error"`          // human-readable error detail
	Code   string `json:"code,omitempty"` // error kind, see CodeFor
}

// Status string constants.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Error codes.
const (
	CodeNotFound      = "not_found"
	CodeUnknownAction = "unknown_action"
	CodeInvalidQuery  = "invalid_query"
)

// ErrEmptyBody is returned by Decode for a request without a body.
var ErrEmptyBody = errors.New("request body is empty")

// validate is shared: a *validator.Validate caches struct metadata and is
// safe for concurrent use.
var validate = validator.New()

// WriteJSON sets the content type, writes status and encodes data.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps err in the error envelope.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
		Code:   CodeFor(err),
	}
}

// ValidationError converts the validator's per-field errors into a single
// human-readable Response, e.g.
//
//	{ "status": "error", "error": "field Name is required, field Gender must be one of: male female other" }
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "email":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a valid email address", e.Field()))
		case "oneof":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be one of: %s", e.Field(), e.Param()))
		case "datetime":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a date formatted YYYY-MM-DD", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
	}
}

// Decode reads the JSON body into v and, when validated is true, checks
// its validate:"..." tags. It writes the 400 response itself and reports
// false if anything is wrong.
func Decode(w http.ResponseWriter, r *http.Request, v any, validated bool) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		WriteJSON(w, http.StatusBadRequest, GeneralError(ErrEmptyBody))
		return false
	}
	if err != nil {
		WriteJSON(w, http.StatusBadRequest, GeneralError(err))
		return false
	}

	if !validated {
		return true
	}
	if err := validate.Struct(v); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			WriteJSON(w, http.StatusBadRequest, ValidationError(validateErrs))
			return false
		}
		WriteJSON(w, http.StatusBadRequest, GeneralError(err))
		return false
	}
	return true
}

// StatusFor maps an error from the storage or form layers to an HTTP
// status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, form.ErrUnknownAction):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrInvalidField),
		errors.Is(err, storage.ErrInvalidOperator),
		errors.Is(err, storage.ErrInvalidQuery):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// CodeFor names the kind of err for the envelope's code field. Errors
// outside the storage and form layers have no code.
func CodeFor(err error) string {
	switch {
	case errors.Is(err, form.ErrUnknownAction):
		return CodeUnknownAction
	case errors.Is(err, storage.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, storage.ErrInvalidField),
		errors.Is(err, storage.ErrInvalidOperator),
		errors.Is(err, storage.ErrInvalidQuery):
		return CodeInvalidQuery
	default:
		return ""
	}
}

// Error logs err and writes it with the status StatusFor picks.
func Error(w http.ResponseWriter, msg string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error(msg, slog.String("error", err.Error()))
	} else {
		slog.Info(msg, slog.String("error", err.Error()))
	}
	WriteJSON(w, status, GeneralError(err))
}
