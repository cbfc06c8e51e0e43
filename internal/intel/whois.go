package intel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Whois wraps the WHOIS/age collaborator. Registration data changes rarely,
// so successful lookups are cached per domain.
type Whois struct {
	cfg    Config
	client *http.Client
	cache  *lru.Cache[string, WhoisRecord]
	log    *slog.Logger
}

// NewWhois creates a WHOIS client with a cache of the given size.
func NewWhois(cfg Config, cacheSize int, log *slog.Logger) (*Whois, error) {
	cache, err := lru.New[string, WhoisRecord](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("whois cache: %w", err)
	}
	return &Whois{cfg: cfg, client: newHTTPClient(cfg.Timeout), cache: cache, log: log}, nil
}

// Lookup returns the WHOIS record for domain. Without a configured
// collaborator the record reports an unknown age rather than failing, so
// callers can still use the rest of their pipeline.
func (w *Whois) Lookup(ctx context.Context, domain string) (WhoisRecord, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if cached, ok := w.cache.Get(domain); ok {
		return cached, nil
	}
	if w.cfg.BaseURL == "" {
		return WhoisRecord{AgeInDays: -1, Flags: []string{"whois_unavailable"}}, nil
	}
	var record WhoisRecord
	endpoint := fmt.Sprintf("%s?domain=%s", w.cfg.BaseURL, url.QueryEscape(domain))
	if err := getJSON(ctx, w.client, endpoint, &record); err != nil {
		return WhoisRecord{}, fmt.Errorf("whois lookup: %w", err)
	}
	if record.Flags == nil {
		record.Flags = []string{}
	}
	w.cache.Add(domain, record)
	return record, nil
}
