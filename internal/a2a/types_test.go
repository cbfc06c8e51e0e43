package a2a

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDRoundTrips(t *testing.T) {
	tests := []struct {
		name string
		body string
		want any
	}{
		{"string id", `{"jsonrpc":"2.0","method":"m","id":"abc"}`, "abc"},
		{"numeric id", `{"jsonrpc":"2.0","method":"m","id":12}`, float64(12)},
		{"null id", `{"jsonrpc":"2.0","method":"m","id":null}`, nil},
		{"absent id", `{"jsonrpc":"2.0","method":"m"}`, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var req Request
			require.NoError(t, json.Unmarshal([]byte(tc.body), &req))
			assert.True(t, req.Valid())
			assert.Equal(t, tc.want, req.ID)

			out, err := json.Marshal(NewResult(req.ID, "ok"))
			require.NoError(t, err)
			var resp map[string]any
			require.NoError(t, json.Unmarshal(out, &resp))
			assert.Equal(t, tc.want, resp["id"])
		})
	}
}

func TestRequestValid(t *testing.T) {
	assert.False(t, (&Request{JSONRPC: "1.0", Method: "m"}).Valid())
	assert.False(t, (&Request{JSONRPC: "2.0"}).Valid())
	assert.True(t, (&Request{JSONRPC: "2.0", Method: "m"}).Valid())
}

func TestNewTaskMintsMissingIDs(t *testing.T) {
	task := NewTask(Message{Role: RoleUser, MessageID: "m1", Kind: "message"})
	assert.NotEmpty(t, task.ID)
	assert.NotEmpty(t, task.ContextID)
	assert.Equal(t, TaskSubmitted, task.Status.State)
	require.Len(t, task.History, 1)
	assert.Equal(t, "m1", task.History[0].MessageID)

	inherited := NewTask(Message{TaskID: "t1", ContextID: "c1"})
	assert.Equal(t, "t1", inherited.ID)
	assert.Equal(t, "c1", inherited.ContextID)
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, TaskCompleted.Terminal())
	assert.True(t, TaskFailed.Terminal())
	assert.False(t, TaskSubmitted.Terminal())
	assert.False(t, TaskWorking.Terminal())
}
