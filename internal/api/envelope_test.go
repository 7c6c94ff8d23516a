package api

import (
	"encoding/json/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalToMap(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestEnvelopeTransformer_Success(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "200", map[string]string{"id": "test-123"})
	require.NoError(t, err)

	out := marshalToMap(t, result)
	assert.Equal(t, float64(1), out["v"])
	assert.Equal(t, true, out["success"])
	assert.Contains(t, out, "data")
	assert.NotContains(t, out, "error")
	assert.NotContains(t, out, "version")
}

func TestEnvelopeTransformer_DetailedError(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "412", &APIError{
		status:  412,
		Code:    "PRECONDITION_FAILED",
		Message: "friend request is no longer pending",
		Details: map[string]string{"sender_id": "alice"},
	})
	require.NoError(t, err)

	out := marshalToMap(t, result)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "PRECONDITION_FAILED", out["code"])
	assert.Equal(t, "friend request is no longer pending", out["error"])
	assert.Contains(t, out, "details")
	assert.NotContains(t, out, "retryable")
}

func TestEnvelopeTransformer_RetryableError(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "503", &APIError{
		status:    503,
		Code:      "REMOTE_WRITE_FAILED",
		Message:   "write shelf entry",
		Retryable: true,
	})
	require.NoError(t, err)

	assert.Equal(t, true, marshalToMap(t, result)["retryable"])
}
