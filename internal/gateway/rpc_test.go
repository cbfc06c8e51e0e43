package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edwardtay/webwatcher-sub001/internal/a2a"
	"github.com/edwardtay/webwatcher-sub001/internal/config"
	"github.com/edwardtay/webwatcher-sub001/internal/metrics"
	"github.com/edwardtay/webwatcher-sub001/internal/model"
	"github.com/edwardtay/webwatcher-sub001/internal/resolve"
	"github.com/edwardtay/webwatcher-sub001/internal/skills"
)

// stubExec is a canned skill executor. It records the params it was given
// so routing decisions can be asserted from outside.
type stubExec struct {
	id   string
	out  any
	err  error
	last resolve.Params
}

func (s *stubExec) ID() string { return s.id }

func (s *stubExec) Execute(ctx context.Context, p resolve.Params) (any, error) {
	s.last = p
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

func newTestServer(execs ...skills.Executor) *Server {
	cfg := config.FromEnv()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewWith(prometheus.NewRegistry())
	return New(cfg, skills.NewRegistry(execs...), m, "test", log)
}

func post(t *testing.T, s *Server, body string) (*httptest.ResponseRecorder, a2a.Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var resp a2a.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestInvalidEnvelopeEchoesID(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name   string
		body   string
		wantID any
	}{
		{"wrong version", `{"jsonrpc":"1.0","method":"message/send","id":"abc"}`, "abc"},
		{"missing method", `{"jsonrpc":"2.0","id":7}`, float64(7)},
		{"missing version", `{"method":"message/send","id":"x"}`, "x"},
		{"no id at all", `{"jsonrpc":"1.0","method":"message/send"}`, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, resp := post(t, s, tc.body)
			assert.Equal(t, http.StatusOK, rec.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, a2a.CodeInvalidRequest, resp.Error.Code)
			assert.Equal(t, tc.wantID, resp.ID)
		})
	}
}

func TestParseErrorBody(t *testing.T) {
	s := newTestServer()
	rec, resp := post(t, s, `{not json`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, a2a.CodeParseError, resp.Error.Code)
}

func TestUnknownMethodNamesOffender(t *testing.T) {
	s := newTestServer()
	rec, resp := post(t, s, `{"jsonrpc":"2.0","method":"tasks/resubscribe","id":1}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, a2a.CodeMethodNotFound, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "tasks/resubscribe")
}

func TestTaskGetReportsNotFound(t *testing.T) {
	s := newTestServer()
	_, resp := post(t, s, `{"jsonrpc":"2.0","method":"tasks/get","params":{"id":"t-42"},"id":1}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, a2a.CodeTaskNotFound, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "t-42")
}

func TestSendWrapsResultAsAgentMessage(t *testing.T) {
	exec := &stubExec{id: model.SkillScanURL, out: map[string]any{"riskScore": 12, "verdict": "safe"}}
	s := newTestServer(exec)

	body := `{"jsonrpc":"2.0","method":"message/send","id":"req-1","params":{"message":{
		"role":"user","messageId":"msg-1","kind":"message",
		"parts":[{"kind":"text","text":"scan https://example.com/login"}]}}}`
	rec, resp := post(t, s, body)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, resp.Error)

	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var msg a2a.Message
	require.NoError(t, json.Unmarshal(raw, &msg))

	assert.Equal(t, a2a.RoleAgent, msg.Role)
	assert.Equal(t, "message", msg.Kind)
	assert.NotEmpty(t, msg.MessageID)
	// Context inherited from the inbound message id.
	assert.Equal(t, "msg-1", msg.ContextID)
	require.Len(t, msg.Parts, 1)
	assert.Contains(t, msg.Parts[0].Text, `"verdict": "safe"`)

	assert.Equal(t, "https://example.com/login", exec.last.URL)
}

func TestSendSkillFailureStaysRPCSuccess(t *testing.T) {
	exec := &stubExec{id: model.SkillScanURL, err: skills.Missing(model.SkillScanURL, "url")}
	s := newTestServer(exec)

	body := `{"jsonrpc":"2.0","method":"message/send","id":1,"params":{"message":{
		"role":"user","messageId":"m1","kind":"message",
		"parts":[{"kind":"data","data":{"url":"https://example.com"}}]}}}`
	rec, resp := post(t, s, body)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, resp.Error, "skill failures ride inside a successful envelope")

	raw, _ := json.Marshal(resp.Result)
	var msg a2a.Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	require.Len(t, msg.Parts, 1)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(msg.Parts[0].Text), &payload))
	assert.Equal(t, true, payload["error"])
	assert.Equal(t, "failed", payload["status"])
	assert.NotEmpty(t, payload["suggestion"])
	assert.NotEmpty(t, payload["acceptedInputs"])
}

func TestSendExplicitFieldsWinOverText(t *testing.T) {
	exec := &stubExec{id: model.SkillScanURL, out: map[string]any{"ok": true}}
	s := newTestServer(exec)

	body := `{"jsonrpc":"2.0","method":"message/send","id":1,"params":{"message":{
		"role":"user","messageId":"m1","kind":"message",
		"parts":[{"kind":"data","data":{"url":"https://a.com"}},
		         {"kind":"text","text":"test@b.com"}]}}}`
	_, resp := post(t, s, body)
	require.Nil(t, resp.Error)

	assert.Equal(t, "https://a.com", exec.last.URL)
	assert.Empty(t, exec.last.Email, "explicit url must suppress email extraction for routing")
}

func TestLegacyDirectCall(t *testing.T) {
	exec := &stubExec{id: model.SkillCheckDomain, out: map[string]any{"domain": "example.com", "riskScore": 0}}
	s := newTestServer(exec)

	_, resp := post(t, s, `{"jsonrpc":"2.0","method":"check_domain","params":{"domain":"example.com"},"id":5}`)
	require.Nil(t, resp.Error)
	assert.Equal(t, "example.com", exec.last.Domain)

	result := resp.Result.(map[string]any)
	assert.Equal(t, "example.com", result["domain"])
}

func TestLegacyDirectCallErrorBecomesRPCError(t *testing.T) {
	exec := &stubExec{id: model.SkillCheckDomain, err: skills.Invalid(model.SkillCheckDomain, "domain is not a valid hostname")}
	s := newTestServer(exec)

	rec, resp := post(t, s, `{"jsonrpc":"2.0","method":"check_domain","params":{"domain":"!!"},"id":5}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, a2a.CodeInternal, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "valid hostname")

	data := resp.Error.Data.(map[string]any)
	assert.Equal(t, "invalid_format", data["kind"])
	assert.NotEmpty(t, data["acceptedInputs"])
}

func TestSendMissingMessageParams(t *testing.T) {
	s := newTestServer()
	_, resp := post(t, s, `{"jsonrpc":"2.0","method":"message/send","id":1}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, a2a.CodeInvalidParams, resp.Error.Code)
}

// decodeSSE splits an SSE body into its JSON-RPC payloads.
func decodeSSE(t *testing.T, body string) []a2a.Response {
	t.Helper()
	var out []a2a.Response
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var resp a2a.Response
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &resp))
		out = append(out, resp)
	}
	return out
}

func resultAs[T any](t *testing.T, resp a2a.Response) T {
	t.Helper()
	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestStreamEmitsFourOrderedEvents(t *testing.T) {
	exec := &stubExec{id: model.SkillScanURL, out: map[string]any{"riskScore": 3, "verdict": "safe"}}
	s := newTestServer(exec)

	body := `{"jsonrpc":"2.0","method":"message/stream","id":"t1","params":{"message":{
		"role":"user","messageId":"m1","kind":"message",
		"parts":[{"kind":"text","text":"example.com"}]}}}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no", rec.Header().Get("X-Accel-Buffering"))

	events := decodeSSE(t, rec.Body.String())
	require.Len(t, events, 4)
	for _, ev := range events {
		assert.Equal(t, "t1", ev.ID)
		assert.Nil(t, ev.Error)
	}

	task := resultAs[a2a.Task](t, events[0])
	assert.Equal(t, "task", task.Kind)
	assert.Equal(t, a2a.TaskSubmitted, task.Status.State)
	require.Len(t, task.History, 1)
	assert.Equal(t, "m1", task.History[0].MessageID)

	progress := resultAs[a2a.StatusUpdate](t, events[1])
	assert.Equal(t, a2a.TaskWorking, progress.Status.State)
	assert.False(t, progress.Final)
	assert.Equal(t, task.ID, progress.TaskID)

	result := resultAs[a2a.StatusUpdate](t, events[2])
	assert.Equal(t, a2a.TaskWorking, result.Status.State)
	assert.False(t, result.Final)
	require.NotNil(t, result.Status.Message)
	assert.Contains(t, result.Status.Message.Parts[0].Text, `"verdict": "safe"`)

	terminal := resultAs[a2a.StatusUpdate](t, events[3])
	assert.True(t, terminal.Final)
	assert.Equal(t, a2a.TaskCompleted, terminal.Status.State)

	// The bare host was coerced to a URL before reaching the skill.
	assert.Equal(t, "https://example.com", exec.last.URL)
}

func TestStreamSkillFailureEndsFailed(t *testing.T) {
	exec := &stubExec{id: model.SkillScanURL, err: skills.Invalid(model.SkillScanURL, "refusing to scan local or private address space")}
	s := newTestServer(exec)

	body := `{"jsonrpc":"2.0","method":"message/stream","id":9,"params":{"message":{
		"role":"user","messageId":"m1","kind":"message",
		"parts":[{"kind":"data","data":{"url":"http://127.0.0.1/"}}]}}}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	events := decodeSSE(t, rec.Body.String())
	require.Len(t, events, 4)

	terminal := resultAs[a2a.StatusUpdate](t, events[3])
	assert.True(t, terminal.Final)
	assert.Equal(t, a2a.TaskFailed, terminal.Status.State)
}

func TestAgentCardMatchesRegistry(t *testing.T) {
	s := newTestServer(
		&stubExec{id: model.SkillScanURL},
		&stubExec{id: model.SkillCheckBreach},
	)

	req := httptest.NewRequest(http.MethodGet, "/.well-known/agent.json", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var card a2a.AgentCard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &card))
	assert.True(t, card.Capabilities.Streaming)
	require.Len(t, card.Skills, 2)
	assert.Equal(t, model.SkillScanURL, card.Skills[0].ID)
	assert.Equal(t, model.SkillCheckBreach, card.Skills[1].ID)
	for _, sk := range card.Skills {
		assert.NotEmpty(t, sk.Examples)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer()
	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
