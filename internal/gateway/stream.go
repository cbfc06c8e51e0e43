package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/edwardtay/webwatcher-sub001/internal/a2a"
	"github.com/edwardtay/webwatcher-sub001/internal/resolve"
	"github.com/edwardtay/webwatcher-sub001/internal/skills"
)

// handleStream is the SSE path. The wire contract is exactly four ordered
// events: submitted task, working progress, working result, terminal status
// with final set. Client disconnects turn the remaining emissions into
// no-ops; they never abort the handler.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request, req a2a.Request) {
	inbound, ok := s.parseMessage(w, req)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	s.metrics.StreamsActive.Inc()
	defer s.metrics.StreamsActive.Dec()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	emit := func(v any) {
		if ctx.Err() != nil {
			return
		}
		data, err := json.Marshal(v)
		if err != nil {
			s.log.Error("marshal stream event", "error", err)
			return
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return
		}
		flusher.Flush()
	}

	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error("stream handler panicked", "panic", rec)
			emit(a2a.NewError(req.ID, a2a.CodeInternal, "internal error", nil))
		}
	}()

	task := a2a.NewTask(inbound)
	emit(a2a.NewResult(req.ID, task))

	params := resolve.Extract(inbound)
	skillID := s.route(params)

	progress := a2a.NewTextMessage(a2a.RoleAgent,
		fmt.Sprintf("Running %s on %s", skillID, describeTarget(params)))
	progress.TaskID = task.ID
	progress.ContextID = task.ContextID
	emit(a2a.NewResult(req.ID, a2a.NewStatusUpdate(task.ID, task.ContextID, a2a.TaskWorking, &progress, false)))

	out, serr := s.execute(ctx, skillID, params)
	state := a2a.TaskCompleted
	var payload any = out
	if serr != nil {
		state = a2a.TaskFailed
		payload = skills.Payload(serr)
	}

	text, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		text = []byte(fmt.Sprintf(`{"error": true, "message": %q}`, err.Error()))
	}
	resultMsg := a2a.NewTextMessage(a2a.RoleAgent, string(text))
	resultMsg.TaskID = task.ID
	resultMsg.ContextID = task.ContextID
	emit(a2a.NewResult(req.ID, a2a.NewStatusUpdate(task.ID, task.ContextID, a2a.TaskWorking, &resultMsg, false)))

	emit(a2a.NewResult(req.ID, a2a.NewStatusUpdate(task.ID, task.ContextID, state, nil, true)))

	outcome := "ok"
	if serr != nil {
		outcome = "error"
	}
	s.metrics.RequestsTotal.WithLabelValues(req.Method, outcome).Inc()
}

func describeTarget(p resolve.Params) string {
	switch {
	case p.URL != "":
		return p.URL
	case p.Domain != "":
		return p.Domain
	case p.Email != "":
		return p.Email
	case p.Wallet != "":
		return p.Wallet
	default:
		return "the provided input"
	}
}
