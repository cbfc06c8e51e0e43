package intel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// FormRiskReport summarizes credential-capture risk in a page's forms.
type FormRiskReport struct {
	Forms     int      `json:"forms"`
	RiskScore int      `json:"riskScore"`
	Flags     []string `json:"flags"`
}

// FormRisk fetches a page and inspects its forms for credential-capture
// patterns.
type FormRisk struct {
	client *http.Client
	log    *slog.Logger
}

// NewFormRisk creates a form inspector.
func NewFormRisk(timeout time.Duration, log *slog.Logger) *FormRisk {
	return &FormRisk{client: newHTTPClient(timeout), log: log}
}

var (
	formBlockRe    = regexp.MustCompile(`(?is)<form[^>]*>.*?</form>`)
	formActionRe   = regexp.MustCompile(`(?i)action=["']([^"']+)["']`)
	hiddenIframeRe = regexp.MustCompile(`(?is)<iframe[^>]*(display\s*:\s*none|width=["']?0|height=["']?0)[^>]*>`)
)

// Inspect fetches target and scores its forms.
func (f *FormRisk) Inspect(ctx context.Context, target string) (FormRiskReport, error) {
	body, finalURL, err := fetchPage(ctx, f.client, target)
	if err != nil {
		return FormRiskReport{}, fmt.Errorf("form inspection: %w", err)
	}

	report := FormRiskReport{Flags: []string{}}
	pageURL, err := url.Parse(finalURL)
	if err != nil {
		return FormRiskReport{}, fmt.Errorf("form inspection: %w", err)
	}

	forms := formBlockRe.FindAllString(body, -1)
	report.Forms = len(forms)

	credentialsOverHTTP := false
	externalAction := false
	for _, form := range forms {
		hasPassword := passwordRe.MatchString(form)
		action := ""
		if m := formActionRe.FindStringSubmatch(form); m != nil {
			action = m[1]
		}
		actionURL, err := pageURL.Parse(action)
		if err != nil {
			continue
		}
		if hasPassword && actionURL.Scheme == "http" {
			credentialsOverHTTP = true
		}
		if actionURL.Host != "" && !strings.EqualFold(actionURL.Hostname(), pageURL.Hostname()) {
			externalAction = true
		}
	}
	if credentialsOverHTTP {
		report.RiskScore += 40
		report.Flags = append(report.Flags, "credentials_over_http")
	}
	if externalAction {
		report.RiskScore += 30
		report.Flags = append(report.Flags, "external_form_action")
	}
	if hiddenIframeRe.MatchString(body) {
		report.RiskScore += 20
		report.Flags = append(report.Flags, "hidden_iframe")
	}
	if report.RiskScore > 100 {
		report.RiskScore = 100
	}
	return report, nil
}
