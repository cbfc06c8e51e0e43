package intel

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"

	lru "github.com/hashicorp/golang-lru/v2"
)

// IPRisk wraps the IP-intelligence collaborator. Results are cached per
// address since IP standing moves slowly relative to request volume.
type IPRisk struct {
	cfg    Config
	client *http.Client
	cache  *lru.Cache[string, IPRiskReport]
	log    *slog.Logger
}

// NewIPRisk creates an IP risk client with a cache of the given size.
func NewIPRisk(cfg Config, cacheSize int, log *slog.Logger) (*IPRisk, error) {
	cache, err := lru.New[string, IPRiskReport](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("iprisk cache: %w", err)
	}
	return &IPRisk{cfg: cfg, client: newHTTPClient(cfg.Timeout), cache: cache, log: log}, nil
}

// Score returns the risk report for an IP address.
func (i *IPRisk) Score(ctx context.Context, ip string) (IPRiskReport, error) {
	if cached, ok := i.cache.Get(ip); ok {
		return cached, nil
	}
	if i.cfg.BaseURL == "" {
		report := IPRiskReport{Flags: []string{}}
		if parsed := net.ParseIP(ip); parsed != nil && (parsed.IsPrivate() || parsed.IsLoopback()) {
			report.Flags = append(report.Flags, "non_public_address")
		}
		return report, nil
	}
	var report IPRiskReport
	endpoint := fmt.Sprintf("%s?ip=%s", i.cfg.BaseURL, url.QueryEscape(ip))
	if err := getJSON(ctx, i.client, endpoint, &report); err != nil {
		return IPRiskReport{}, fmt.Errorf("iprisk lookup: %w", err)
	}
	if report.Flags == nil {
		report.Flags = []string{}
	}
	i.cache.Add(ip, report)
	return report, nil
}
