package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/http/response"
)

// EnvelopeTransformer wraps every huma response body in the versioned
// envelope shared with non-huma handlers.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return response.Envelope{
			Version:   response.Version,
			Success:   false,
			Error:     apiErr.Message,
			Code:      apiErr.Code,
			Message:   apiErr.Message,
			Details:   apiErr.Details,
			Retryable: apiErr.Retryable,
		}, nil
	}

	code, err := strconv.Atoi(status)
	if err != nil {
		code = 200
	}
	return response.Envelope{
		Version: response.Version,
		Success: code < 400,
		Data:    v,
	}, nil
}
