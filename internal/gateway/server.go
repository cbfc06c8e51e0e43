// Package gateway exposes the agent over HTTP: a JSON-RPC endpoint with
// unary and SSE delivery, the discovery card, health probes, and metrics.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edwardtay/webwatcher-sub001/internal/config"
	"github.com/edwardtay/webwatcher-sub001/internal/metrics"
	"github.com/edwardtay/webwatcher-sub001/internal/resolve"
	"github.com/edwardtay/webwatcher-sub001/internal/skills"
)

// Server is the protocol gateway.
type Server struct {
	cfg      config.Config
	registry *skills.Registry
	metrics  *metrics.Metrics
	version  string
	log      *slog.Logger
}

// New creates a gateway over the given skill registry.
func New(cfg config.Config, registry *skills.Registry, m *metrics.Metrics, version string, log *slog.Logger) *Server {
	return &Server{cfg: cfg, registry: registry, metrics: m, version: version, log: log}
}

// Router builds the HTTP routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/", s.handleRPC)
	r.Get("/.well-known/agent.json", s.handleAgentCard)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// execute runs a skill with the duration and outcome instrumentation, and
// converts any panic into a skill error so nothing escapes the gateway.
func (s *Server) execute(ctx context.Context, skillID string, p resolve.Params) (out any, serr *skills.Error) {
	exec, ok := s.registry.Get(skillID)
	if !ok {
		return nil, skills.Invalid(skillID, "unknown skill")
	}
	started := time.Now()
	defer func() {
		s.metrics.SkillDuration.WithLabelValues(skillID).Observe(time.Since(started).Seconds())
		if r := recover(); r != nil {
			s.log.Error("skill panicked", "skill", skillID, "panic", r)
			serr = skills.AsError(skillID, fmt.Errorf("skill panicked: %v", r))
		}
		outcome := "ok"
		if serr != nil {
			outcome = "error"
		}
		s.metrics.SkillExecutions.WithLabelValues(skillID, outcome).Inc()
	}()

	result, err := exec.Execute(ctx, p)
	if err != nil {
		serr = skills.AsError(skillID, err)
		return nil, serr
	}
	return result, nil
}
