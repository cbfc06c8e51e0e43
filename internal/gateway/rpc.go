package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/edwardtay/webwatcher-sub001/internal/a2a"
	"github.com/edwardtay/webwatcher-sub001/internal/resolve"
	"github.com/edwardtay/webwatcher-sub001/internal/skills"
)

// sendParams is the params shape of the message/send and message/stream
// methods.
type sendParams struct {
	Message a2a.Message `json:"message"`
}

// taskParams is the params shape of tasks/get.
type taskParams struct {
	ID string `json:"id"`
}

// handleRPC parses one JSON-RPC envelope and dispatches it. Every outcome
// past body parsing is written as HTTP 200 with a well-formed envelope: the
// caller is a peer agent and must always get something it can decode.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		s.reply(w, "unparseable", a2a.NewError(nil, a2a.CodeParseError, "unreadable request body", nil))
		return
	}
	var req a2a.Request
	if err := json.Unmarshal(body, &req); err != nil {
		s.reply(w, "unparseable", a2a.NewError(nil, a2a.CodeParseError, "parse error", nil))
		return
	}
	if !req.Valid() {
		s.reply(w, "invalid", a2a.NewError(req.ID, a2a.CodeInvalidRequest, "Invalid Request", nil))
		return
	}

	switch req.Method {
	case "message/send":
		s.handleSend(w, r, req)
	case "message/stream":
		s.handleStream(w, r, req)
	case "tasks/get":
		s.handleTaskGet(w, req)
	default:
		if _, ok := s.registry.Get(req.Method); ok {
			s.handleLegacy(w, r, req)
			return
		}
		s.reply(w, req.Method, a2a.NewError(req.ID, a2a.CodeMethodNotFound,
			fmt.Sprintf("Method not found: %s", req.Method), nil))
	}
}

// handleSend is the unary path: resolve, route, execute, and wrap the
// outcome — success or skill failure — as an agent message in an RPC
// success.
func (s *Server) handleSend(w http.ResponseWriter, r *http.Request, req a2a.Request) {
	inbound, ok := s.parseMessage(w, req)
	if !ok {
		return
	}

	params := resolve.Extract(inbound)
	skillID := s.route(params)

	out, serr := s.execute(r.Context(), skillID, params)
	if serr != nil {
		msg := s.renderMessage(skills.Payload(serr), inbound)
		s.reply(w, req.Method, a2a.NewResult(req.ID, msg))
		return
	}
	s.reply(w, req.Method, a2a.NewResult(req.ID, s.renderMessage(out, inbound)))
}

// handleLegacy is the direct skill-call shortcut: the method is the skill
// id and params are a flat object. Skill failures come back as a JSON-RPC
// error object, still on HTTP 200.
func (s *Server) handleLegacy(w http.ResponseWriter, r *http.Request, req a2a.Request) {
	var bag map[string]any
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &bag); err != nil {
			s.reply(w, req.Method, a2a.NewError(req.ID, a2a.CodeInvalidParams, "params must be an object", nil))
			return
		}
	}

	params := resolve.FromMap(bag)
	out, serr := s.execute(r.Context(), req.Method, params)
	if serr != nil {
		s.reply(w, req.Method, a2a.NewError(req.ID, a2a.CodeInternal, serr.Message, map[string]any{
			"kind":           string(serr.Kind),
			"suggestion":     skills.Suggestion(serr.Skill),
			"acceptedInputs": skills.AcceptedInputs(serr.Skill),
		}))
		return
	}
	s.reply(w, req.Method, a2a.NewResult(req.ID, out))
}

// handleTaskGet always reports task-not-found: tasks live only as long as
// their stream, so there is nothing to look up afterwards.
func (s *Server) handleTaskGet(w http.ResponseWriter, req a2a.Request) {
	var p taskParams
	if len(req.Params) > 0 {
		json.Unmarshal(req.Params, &p)
	}
	s.reply(w, req.Method, a2a.NewError(req.ID, a2a.CodeTaskNotFound,
		fmt.Sprintf("task not found: %s", p.ID), nil))
}

func (s *Server) parseMessage(w http.ResponseWriter, req a2a.Request) (a2a.Message, bool) {
	var p sendParams
	if len(req.Params) == 0 {
		s.reply(w, req.Method, a2a.NewError(req.ID, a2a.CodeInvalidParams, "params.message is required", nil))
		return a2a.Message{}, false
	}
	if err := json.Unmarshal(req.Params, &p); err != nil || len(p.Message.Parts) == 0 {
		s.reply(w, req.Method, a2a.NewError(req.ID, a2a.CodeInvalidParams, "params.message is required", nil))
		return a2a.Message{}, false
	}
	return p.Message, true
}

// route picks the skill for resolved params, counting keyword fallbacks.
func (s *Server) route(params resolve.Params) string {
	skillID := resolve.Route(params)
	if params.Empty() {
		s.metrics.ResolverFallbacks.Inc()
	}
	return skillID
}

// renderMessage wraps a skill outcome as an agent message carrying the
// outcome as formatted JSON text. The context id is inherited from the
// inbound message when present.
func (s *Server) renderMessage(v any, inbound a2a.Message) a2a.Message {
	text, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		text = []byte(fmt.Sprintf(`{"error": true, "message": %q}`, err.Error()))
	}
	msg := a2a.NewTextMessage(a2a.RoleAgent, string(text))
	msg.ContextID = contextIDFor(inbound)
	msg.TaskID = inbound.TaskID
	return msg
}

func contextIDFor(inbound a2a.Message) string {
	switch {
	case inbound.ContextID != "":
		return inbound.ContextID
	case inbound.MessageID != "":
		return inbound.MessageID
	default:
		return uuid.NewString()
	}
}

func (s *Server) reply(w http.ResponseWriter, method string, resp a2a.Response) {
	outcome := "ok"
	if resp.Error != nil {
		outcome = "error"
	}
	s.metrics.RequestsTotal.WithLabelValues(method, outcome).Inc()
	writeJSON(w, http.StatusOK, resp)
}
