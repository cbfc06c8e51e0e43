package intel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// PageScan analyzes page content for a URL: remotely via the page-content
// collaborator when configured, otherwise by fetching the page itself and
// running the built-in heuristics.
type PageScan struct {
	cfg    Config
	client *http.Client
	log    *slog.Logger
}

// NewPageScan creates a page-content scan client.
func NewPageScan(cfg Config, log *slog.Logger) *PageScan {
	return &PageScan{cfg: cfg, client: newHTTPClient(cfg.Timeout), log: log}
}

// Scan returns the page-content report for target.
func (p *PageScan) Scan(ctx context.Context, target string) (PageReport, error) {
	if p.cfg.BaseURL != "" {
		var report PageReport
		err := postJSON(ctx, p.client, p.cfg.BaseURL, map[string]string{"url": target}, &report)
		if err != nil {
			return PageReport{}, fmt.Errorf("page scan: %w", err)
		}
		return report, nil
	}
	return p.scanLocal(ctx, target)
}

var (
	formTagRe    = regexp.MustCompile(`(?i)<form[\s>]`)
	scriptTagRe  = regexp.MustCompile(`(?i)<script[\s>]`)
	iframeTagRe  = regexp.MustCompile(`(?i)<iframe[\s>]`)
	hrefRe       = regexp.MustCompile(`(?i)href=["'](https?://[^"']+)["']`)
	metaRefresh  = regexp.MustCompile(`(?i)<meta[^>]+http-equiv=["']?refresh`)
	obfuscatedRe = regexp.MustCompile(`(?i)\b(eval|unescape|atob)\s*\(`)
	passwordRe   = regexp.MustCompile(`(?i)type=["']?password`)
)

var contentKeywords = []string{
	"verify your account", "confirm your identity", "suspended",
	"unusual activity", "enter your password", "update billing",
}

func (p *PageScan) scanLocal(ctx context.Context, target string) (PageReport, error) {
	body, finalURL, err := fetchPage(ctx, p.client, target)
	if err != nil {
		return PageReport{}, fmt.Errorf("page scan: %w", err)
	}

	report := PageReport{Flags: []string{}}
	report.DOM.Forms = len(formTagRe.FindAllString(body, -1))
	report.DOM.Scripts = len(scriptTagRe.FindAllString(body, -1))
	report.DOM.Iframes = len(iframeTagRe.FindAllString(body, -1))
	report.DOM.ExternalLinks = countExternalLinks(body, finalURL)

	lower := strings.ToLower(body)
	for _, kw := range contentKeywords {
		if strings.Contains(lower, kw) {
			report.RiskScore += 15
			report.Flags = append(report.Flags, "phishing_language")
			break
		}
	}
	if passwordRe.MatchString(body) && strings.HasPrefix(finalURL, "http://") {
		report.RiskScore += 30
		report.Flags = append(report.Flags, "password_field_without_tls")
	}
	if obfuscatedRe.MatchString(body) {
		report.RiskScore += 20
		report.Flags = append(report.Flags, "obfuscated_script")
	}
	if metaRefresh.MatchString(body) {
		report.RiskScore += 10
		report.Flags = append(report.Flags, "meta_refresh_redirect")
	}
	if report.DOM.Iframes > 3 {
		report.RiskScore += 10
		report.Flags = append(report.Flags, "iframe_heavy")
	}
	if report.RiskScore > 100 {
		report.RiskScore = 100
	}
	return report, nil
}

func countExternalLinks(body, pageURL string) int {
	base, err := url.Parse(pageURL)
	if err != nil {
		return 0
	}
	count := 0
	for _, m := range hrefRe.FindAllStringSubmatch(body, -1) {
		link, err := url.Parse(m[1])
		if err != nil {
			continue
		}
		if !strings.EqualFold(link.Hostname(), base.Hostname()) {
			count++
		}
	}
	return count
}
