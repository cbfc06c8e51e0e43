package intel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// PolicyReport is the outcome of checking a target against policy lists.
type PolicyReport struct {
	Listed    bool     `json:"listed"`
	RiskScore int      `json:"riskScore"`
	Flags     []string `json:"flags"`
}

// Policy checks targets against a deny list: a remote policy service when
// configured, otherwise the operator-supplied local list.
type Policy struct {
	cfg    Config
	client *http.Client
	deny   map[string]struct{}
	log    *slog.Logger
}

// NewPolicy creates a policy checker. Deny entries are registrable domains.
func NewPolicy(cfg Config, deny []string, log *slog.Logger) *Policy {
	denySet := make(map[string]struct{}, len(deny))
	for _, d := range deny {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			denySet[d] = struct{}{}
		}
	}
	return &Policy{cfg: cfg, client: newHTTPClient(cfg.Timeout), deny: denySet, log: log}
}

// Check returns the policy verdict for target.
func (p *Policy) Check(ctx context.Context, target string) (PolicyReport, error) {
	if p.cfg.BaseURL != "" {
		var report PolicyReport
		err := postJSON(ctx, p.client, p.cfg.BaseURL, map[string]string{"url": target}, &report)
		if err != nil {
			return PolicyReport{}, fmt.Errorf("policy check: %w", err)
		}
		return report, nil
	}
	return p.checkLocal(target)
}

func (p *Policy) checkLocal(target string) (PolicyReport, error) {
	report := PolicyReport{Flags: []string{}}
	u, err := url.Parse(target)
	if err != nil || u.Hostname() == "" {
		return PolicyReport{}, fmt.Errorf("policy check: unparseable target %q", target)
	}
	host := strings.ToLower(u.Hostname())
	candidates := []string{host}
	if reg, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil && reg != host {
		candidates = append(candidates, reg)
	}
	for _, c := range candidates {
		if _, listed := p.deny[c]; listed {
			report.Listed = true
			report.RiskScore = 100
			report.Flags = append(report.Flags, "policy_denylisted")
			break
		}
	}
	return report, nil
}
