package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/nightdriver/ndsmon/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, buf *bytes.Buffer) JSONEnvelope {
	t.Helper()
	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	return env
}

func TestWriteJSONSuccess(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONSuccess(&buf, map[string]int{"count": 3}))

	env := decodeEnvelope(t, &buf)
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), data["count"])
}

func TestWriteJSONSuccess_NilDataOmitted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONSuccess(&buf, nil))
	assert.NotContains(t, buf.String(), "data")
}

func TestWriteJSONError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONError(&buf, ErrCodeValidation, "bad", "try again", map[string]string{"id": "7"}))

	env := decodeEnvelope(t, &buf)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeValidation, env.Error.Code)
	assert.Equal(t, "bad", env.Error.Message)
	assert.Equal(t, "try again", env.Error.Suggestion)
}

func TestErrorToJSON(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config not found", errors.New(errors.ErrConfig, "Config file not found", ""), ErrCodeConfigNotFound},
		{"config invalid", errors.New(errors.ErrConfig, "Invalid server URL", ""), ErrCodeConfigInvalid},
		{"transport", errors.New(errors.ErrTransport, "Couldn't reach server", ""), ErrCodeTransportFailed},
		{"validation", errors.New(errors.ErrValidation, "No canvas matches", ""), ErrCodeValidation},
		{"cancelled", errors.Cancelled("Delete"), ErrCodeCancelled},
		{"wrapped", fmt.Errorf("outer: %w", errors.New(errors.ErrTransport, "inner", "")), ErrCodeTransportFailed},
		{"plain", fmt.Errorf("boom"), ErrCodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorToJSON(tt.err).Code)
		})
	}

	assert.Nil(t, ErrorToJSON(nil))
}

func TestErrorToJSON_KeepsSuggestion(t *testing.T) {
	err := errors.New(errors.ErrValidation, "Cannot delete canvas without confirmation", "Pass --yes")
	got := ErrorToJSON(err)
	assert.Equal(t, "Cannot delete canvas without confirmation", got.Message)
	assert.Equal(t, "Pass --yes", got.Suggestion)
	assert.Nil(t, got.Details)
}

func TestReportJSON(t *testing.T) {
	var buf bytes.Buffer
	cause := errors.New(errors.ErrTransport, "down", "")

	err := reportJSON(&buf, cause)
	var reported reportedError
	require.ErrorAs(t, err, &reported)
	assert.True(t, errors.IsCode(err, errors.ErrTransport), "cause stays reachable")

	env := decodeEnvelope(t, &buf)
	assert.Equal(t, ErrCodeTransportFailed, env.Error.Code)
}
