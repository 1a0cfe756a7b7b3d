// Package response writes JSON responses for handlers that sit outside huma,
// such as router middleware.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	domainerrors "github.com/krishiapp/krishi-settings/internal/errors"
)

// ErrorBody matches the error shape huma handlers produce.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON writes data as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		if logger != nil {
			logger.Error("Failed to encode JSON response", "error", err)
		}
	}
}

// Error writes an error response for the given code.
func Error(w http.ResponseWriter, code domainerrors.Code, message string, logger *slog.Logger) {
	JSON(w, code.HTTPStatus(), ErrorBody{Code: string(code), Message: message}, logger)
}

// TooManyRequests writes a 429 response.
func TooManyRequests(w http.ResponseWriter, message string, logger *slog.Logger) {
	w.Header().Set("Retry-After", "60")
	Error(w, domainerrors.CodeRateLimited, message, logger)
}

// NotFound writes a 404 response.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, domainerrors.CodeNotFound, message, logger)
}

// HandleError writes an appropriate HTTP response based on the error type.
// Domain errors keep their code and details, unknown errors become 500.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domainErr *domainerrors.Error
	if domainerrors.As(err, &domainErr) {
		JSON(w, domainErr.HTTPStatus(), ErrorBody{
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Details: domainErr.Details,
		}, logger)
		return
	}

	// Unknown error = 500
	if logger != nil {
		logger.Error("Unhandled error", "error", err)
	}
	Error(w, domainerrors.CodeInternal, "internal server error", logger)
}
