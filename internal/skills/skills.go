// Package skills implements the agent's skill executors. Each executor
// validates its own input, consults one or more intelligence collaborators,
// and normalizes the outcome into a risk-bearing result. Executors return
// *Error values rather than rendering failures themselves.
package skills

import (
	"context"

	"github.com/edwardtay/webwatcher-sub001/internal/model"
	"github.com/edwardtay/webwatcher-sub001/internal/resolve"
	"github.com/edwardtay/webwatcher-sub001/internal/rules"
)

// Executor runs one skill against resolved parameters.
type Executor interface {
	ID() string
	Execute(ctx context.Context, p resolve.Params) (any, error)
}

// Registry holds the executors by skill id, preserving registration order
// for the agent card.
type Registry struct {
	order []string
	byID  map[string]Executor
}

// NewRegistry builds a registry from the given executors.
func NewRegistry(execs ...Executor) *Registry {
	r := &Registry{byID: make(map[string]Executor, len(execs))}
	for _, e := range execs {
		if _, dup := r.byID[e.ID()]; dup {
			continue
		}
		r.order = append(r.order, e.ID())
		r.byID[e.ID()] = e
	}
	return r
}

// Get returns the executor for a skill id.
func (r *Registry) Get(id string) (Executor, bool) {
	e, ok := r.byID[id]
	return e, ok
}

// IDs lists registered skill ids in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// statusFor maps a contribution score to a source status using the verdict
// thresholds.
func statusFor(contribution int, t rules.Thresholds) model.SourceStatus {
	switch {
	case contribution >= t.Malicious:
		return model.StatusMalicious
	case contribution >= t.Suspicious:
		return model.StatusSuspicious
	default:
		return model.StatusClean
	}
}
