package intel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
)

// Breach wraps the breach-database collaborator.
type Breach struct {
	cfg    Config
	client *http.Client
	log    *slog.Logger
}

// NewBreach creates a breach lookup client.
func NewBreach(cfg Config, log *slog.Logger) *Breach {
	return &Breach{cfg: cfg, client: newHTTPClient(cfg.Timeout), log: log}
}

// Lookup returns the breach report for an email address. Without a
// configured collaborator it reports a clean history; the executor turns
// that into the explicit no-breaches result.
func (b *Breach) Lookup(ctx context.Context, email string) (BreachReport, error) {
	if b.cfg.BaseURL == "" {
		return BreachReport{}, nil
	}
	var report BreachReport
	endpoint := fmt.Sprintf("%s?email=%s", b.cfg.BaseURL, url.QueryEscape(email))
	if err := getJSON(ctx, b.client, endpoint, &report); err != nil {
		return BreachReport{}, fmt.Errorf("breach lookup: %w", err)
	}
	return report, nil
}
