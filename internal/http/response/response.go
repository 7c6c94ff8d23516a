// Package response writes the JSON envelope for handlers that bypass the
// huma operation pipeline, such as middleware rejections and SSE streams.
package response

import (
	"encoding/json/v2"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	domainerrors "github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/errors"
)

// Version is the envelope format version sent as "v".
const Version = 1

// Envelope provides a consistent JSON response structure.
type Envelope struct {
	Version   int    `json:"v"`
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message,omitempty"`
	Details   any    `json:"details,omitempty"`
	Retryable bool   `json:"retryable,omitzero"`
}

// JSON writes a JSON response with the given status code using json/v2.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	write(w, status, Envelope{
		Version: Version,
		Success: status < 400,
		Data:    data,
	}, logger)
}

// Success writes a successful JSON response (200 OK).
func Success(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusOK, data, logger)
}

// Error writes an error response with the given status code.
func Error(w http.ResponseWriter, status int, code domainerrors.Code, message string, logger *slog.Logger) {
	write(w, status, Envelope{
		Version:   Version,
		Success:   false,
		Error:     message,
		Code:      string(code),
		Message:   message,
		Retryable: code.Retryable(),
	}, logger)
}

// Unauthorized writes a 401 Unauthorized response.
func Unauthorized(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusUnauthorized, domainerrors.CodeUnauthenticated, message, logger)
}

// TooManyRequests writes a 429 response telling the client when to retry.
func TooManyRequests(w http.ResponseWriter, retryAfter time.Duration, logger *slog.Logger) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	w.Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
	Error(w, http.StatusTooManyRequests, domainerrors.CodeRateLimited, "too many requests, try again later", logger)
}

// HandleError writes the response for err. Domain errors keep their code
// and status; anything else is logged and reported as an internal error.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domainErr *domainerrors.Error
	if domainerrors.As(err, &domainErr) {
		write(w, domainErr.HTTPStatus(), Envelope{
			Version:   Version,
			Success:   false,
			Error:     domainErr.Message,
			Code:      string(domainErr.Code),
			Message:   domainErr.Message,
			Details:   domainErr.Details,
			Retryable: domainErr.Code.Retryable(),
		}, logger)
		return
	}

	if logger != nil {
		logger.Error("unhandled error", "error", err)
	}
	Error(w, http.StatusInternalServerError, domainerrors.CodeInternal, "internal server error", logger)
}

func write(w http.ResponseWriter, status int, envelope Envelope, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	// json/v2 MarshalWrite doesn't add a newline, but that's fine for HTTP responses.
	if err := json.MarshalWrite(w, envelope); err != nil && logger != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}
