package intel

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/edwardtay/webwatcher-sub001/internal/model"
)

// Reputation looks up a URL's standing across upstream feeds, or derives a
// heuristic reputation locally when no collaborator is configured.
type Reputation struct {
	cfg      Config
	client   *http.Client
	resolver *net.Resolver
	log      *slog.Logger
}

// NewReputation creates a reputation lookup client.
func NewReputation(cfg Config, log *slog.Logger) *Reputation {
	return &Reputation{
		cfg:      cfg,
		client:   newHTTPClient(cfg.Timeout),
		resolver: net.DefaultResolver,
		log:      log,
	}
}

// Lookup returns the reputation report for target.
func (r *Reputation) Lookup(ctx context.Context, target string) (ReputationReport, error) {
	if r.cfg.BaseURL != "" {
		var report ReputationReport
		err := postJSON(ctx, r.client, r.cfg.BaseURL, map[string]string{"url": target}, &report)
		if err != nil {
			return ReputationReport{}, fmt.Errorf("reputation lookup: %w", err)
		}
		return report, nil
	}
	return r.lookupLocal(ctx, target)
}

// Free and abuse-heavy TLDs that dominate blocklist feeds.
var riskyTLDs = map[string]struct{}{
	"tk": {}, "ml": {}, "ga": {}, "cf": {}, "gq": {},
	"top": {}, "zip": {}, "mov": {},
}

func (r *Reputation) lookupLocal(ctx context.Context, target string) (ReputationReport, error) {
	u, err := url.Parse(target)
	if err != nil || u.Hostname() == "" {
		return ReputationReport{}, fmt.Errorf("reputation lookup: unparseable target %q", target)
	}
	host := strings.ToLower(u.Hostname())

	report := ReputationReport{Domain: host, IP: "unknown", Flags: []string{}}
	if reg, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		report.Domain = reg
	}

	if strings.Contains(host, "xn--") {
		report.RiskScore += 25
		report.Flags = append(report.Flags, "punycode_host")
	}
	if strings.Count(host, "-") > 2 {
		report.RiskScore += 10
		report.Flags = append(report.Flags, "hyphen_heavy_host")
	}
	if len(host) > 40 {
		report.RiskScore += 10
		report.Flags = append(report.Flags, "unusually_long_host")
	}
	if dot := strings.LastIndex(host, "."); dot >= 0 {
		if _, risky := riskyTLDs[host[dot+1:]]; risky {
			report.RiskScore += 20
			report.Flags = append(report.Flags, "high_abuse_tld")
		}
	}

	status := model.StatusClean
	if addrs, err := r.resolver.LookupHost(ctx, host); err == nil && len(addrs) > 0 {
		report.IP = addrs[0]
	} else {
		report.RiskScore += 25
		report.Flags = append(report.Flags, "unresolvable_host")
		status = model.StatusUnknown
	}
	if report.RiskScore >= 25 && status == model.StatusClean {
		status = model.StatusSuspicious
	}
	report.Sources = []RepSource{{Name: "host_heuristics", Status: status}}
	return report, nil
}
