package intel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Hop is one stop in a redirect chain.
type Hop struct {
	URL    string `json:"url"`
	Status int    `json:"status"`
}

// RedirectReport captures the redirect chain and the structural risk of the
// URL itself.
type RedirectReport struct {
	Hops      []Hop    `json:"hops"`
	FinalURL  string   `json:"finalUrl"`
	RiskScore int      `json:"riskScore"`
	Flags     []string `json:"flags"`
}

// Redirects walks redirect chains hop by hop without letting the transport
// follow them, so every intermediate location is observable.
type Redirects struct {
	client *http.Client
	log    *slog.Logger
}

const maxHops = 10

// NewRedirects creates a redirect-chain analyzer.
func NewRedirects(timeout time.Duration, log *slog.Logger) *Redirects {
	return &Redirects{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		log: log,
	}
}

// Trace follows target's redirect chain and scores the URL structure.
func (r *Redirects) Trace(ctx context.Context, target string) (RedirectReport, error) {
	report := RedirectReport{Hops: []Hop{}, Flags: []string{}}
	score, flags := ScoreURLShape(target)
	report.RiskScore = score
	report.Flags = append(report.Flags, flags...)

	current := target
	crossHost := false
	downgrade := false
	for hop := 0; hop < maxHops; hop++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current, nil)
		if err != nil {
			return RedirectReport{}, fmt.Errorf("redirect trace: %w", err)
		}
		req.Header.Set("User-Agent", "webwatcher/1.0")
		resp, err := r.client.Do(req)
		if err != nil {
			return RedirectReport{}, fmt.Errorf("redirect trace: %w", err)
		}
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()

		report.Hops = append(report.Hops, Hop{URL: current, Status: resp.StatusCode})
		location := resp.Header.Get("Location")
		if resp.StatusCode < 300 || resp.StatusCode >= 400 || location == "" {
			report.FinalURL = current
			break
		}
		next, err := resp.Request.URL.Parse(location)
		if err != nil {
			report.FinalURL = current
			break
		}
		if !strings.EqualFold(next.Hostname(), resp.Request.URL.Hostname()) {
			crossHost = true
		}
		if resp.Request.URL.Scheme == "https" && next.Scheme == "http" {
			downgrade = true
		}
		current = next.String()
		report.FinalURL = current
	}

	if len(report.Hops) > 3 {
		report.RiskScore += 15
		report.Flags = append(report.Flags, "long_redirect_chain")
	}
	if crossHost {
		report.RiskScore += 10
		report.Flags = append(report.Flags, "cross_host_redirect")
	}
	if downgrade {
		report.RiskScore += 25
		report.Flags = append(report.Flags, "tls_downgrade_redirect")
	}
	if report.RiskScore > 100 {
		report.RiskScore = 100
	}
	return report, nil
}

var sensitivePathWords = []string{"login", "verify", "account", "secure", "update", "wallet"}

// ScoreURLShape rates the structure of the URL string alone. It performs no
// network activity and never fails, so callers can count on a structural
// score even when the host is unreachable.
func ScoreURLShape(target string) (int, []string) {
	flags := []string{}
	score := 0
	u, err := url.Parse(target)
	if err != nil {
		return 0, flags
	}
	if u.User != nil {
		score += 25
		flags = append(flags, "userinfo_in_url")
	}
	host := u.Hostname()
	if net.ParseIP(host) != nil {
		score += 20
		flags = append(flags, "ip_literal_host")
	} else if strings.Count(host, ".") > 3 {
		score += 10
		flags = append(flags, "deep_subdomain")
	}
	if len(target) > 100 {
		score += 10
		flags = append(flags, "long_url")
	}
	lowerPath := strings.ToLower(u.Path)
	for _, w := range sensitivePathWords {
		if strings.Contains(lowerPath, w) {
			score += 10
			flags = append(flags, "sensitive_keywords_in_path")
			break
		}
	}
	return score, flags
}
