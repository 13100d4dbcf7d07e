package instance

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  Status
	}{
		{"UP", StatusUp},
		{"up", StatusUp},
		{"Down", StatusDown},
		{"starting", StatusStarting},
		{"out_of_service", StatusOutOfService},
		{"UNKNOWN", StatusUnknown},
		{"", StatusUnknown},
		{"sleeping", StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStatus(tt.input))
		})
	}
}

func TestStatus_TextRoundTrip(t *testing.T) {
	var payload struct {
		Status     Status     `json:"status"`
		ActionType ActionType `json:"actionType"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"garbled","actionType":"modified"}`), &payload))
	assert.Equal(t, StatusUnknown, payload.Status)
	assert.Equal(t, ActionModified, payload.ActionType)

	payload.Status = StatusOutOfService
	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"OUT_OF_SERVICE","actionType":"MODIFIED"}`, string(out))
}

func TestParseActionType(t *testing.T) {
	assert.Equal(t, ActionAdded, ParseActionType("added"))
	assert.Equal(t, ActionDeleted, ParseActionType("DELETED"))
	assert.Equal(t, ActionType(""), ParseActionType("renamed"))
}

func TestPortType_String(t *testing.T) {
	assert.Equal(t, "SECURE", PortSecure.String())
	assert.Equal(t, "UNSECURE", PortUnsecure.String())
}
