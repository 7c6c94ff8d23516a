package api

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/errors"
)

// APIError is a custom error type that implements huma.StatusError.
// It maps domain errors to HTTP responses with consistent structure.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status    int
	Code      string `json:"code" doc:"Machine-readable error code"`
	Message   string `json:"message" doc:"Human-readable error message"`
	Details   any    `json:"details,omitempty" doc:"Additional error details"`
	Retryable bool   `json:"retryable,omitzero" doc:"Whether the same request may succeed if retried"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to use domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) {
				return &APIError{
					status:    domainErr.HTTPStatus(),
					Code:      string(domainErr.Code),
					Message:   domainErr.Message,
					Details:   domainErr.Details,
					Retryable: domainErr.Code.Retryable(),
				}
			}
		}

		apiErr := &APIError{
			status:  status,
			Code:    string(statusToCode(status)),
			Message: message,
		}
		if status >= http.StatusInternalServerError {
			// Keep internals out of responses; the request log has the cause.
			apiErr.Message = "internal server error"
		}
		if len(errs) > 0 && status < http.StatusInternalServerError {
			details := make([]string, 0, len(errs))
			for _, err := range errs {
				details = append(details, err.Error())
			}
			apiErr.Details = details
		}
		return apiErr
	}
}

// statusToCode maps HTTP status codes to our domain error codes.
func statusToCode(status int) domainerrors.Code {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domainerrors.CodeValidation
	case http.StatusUnauthorized:
		return domainerrors.CodeUnauthenticated
	case http.StatusForbidden:
		return domainerrors.CodeForbidden
	case http.StatusNotFound:
		return domainerrors.CodeNotFound
	case http.StatusPreconditionFailed:
		return domainerrors.CodePreconditionFailed
	case http.StatusTooManyRequests:
		return domainerrors.CodeRateLimited
	default:
		return domainerrors.CodeInternal
	}
}

// FanoutError reports a failed notification fan-out next to a primary
// result that was committed anyway.
type FanoutError struct {
	Code    string `json:"code" doc:"Always PARTIAL_FANOUT_FAILED"`
	Message string `json:"message" doc:"What failed"`
}

// splitPartialFanout separates a partial fan-out failure, which still yields
// a 200 response, from errors that fail the request.
func splitPartialFanout(err error) (*FanoutError, error) {
	if err == nil {
		return nil, nil
	}
	if domainerrors.CodeOf(err) != domainerrors.CodePartialFanoutFailed {
		return nil, err
	}
	return &FanoutError{
		Code:    string(domainerrors.CodePartialFanoutFailed),
		Message: err.Error(),
	}, nil
}

// MessageResponse is a generic confirmation body.
type MessageResponse struct {
	Message string `json:"message" doc:"Confirmation message"`
}

// MessageOutput wraps a confirmation for Huma.
type MessageOutput struct {
	Body MessageResponse
}

func message(msg string) *MessageOutput {
	return &MessageOutput{Body: MessageResponse{Message: msg}}
}
