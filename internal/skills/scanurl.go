package skills

import (
	"context"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"sync"

	"github.com/edwardtay/webwatcher-sub001/internal/intel"
	"github.com/edwardtay/webwatcher-sub001/internal/model"
	"github.com/edwardtay/webwatcher-sub001/internal/resolve"
	"github.com/edwardtay/webwatcher-sub001/internal/rules"
	"github.com/edwardtay/webwatcher-sub001/internal/score"
)

// URLScanner implements the scan_url skill: content scan and reputation
// lookup in parallel, combined into one verdict.
type URLScanner struct {
	pages *intel.PageScan
	rep   *intel.Reputation
	rules *rules.Store
	log   *slog.Logger
}

// NewURLScanner creates the scan_url executor.
func NewURLScanner(pages *intel.PageScan, rep *intel.Reputation, rs *rules.Store, log *slog.Logger) *URLScanner {
	return &URLScanner{pages: pages, rep: rep, rules: rs, log: log}
}

// ID implements Executor.
func (s *URLScanner) ID() string { return model.SkillScanURL }

// Execute implements Executor. The target is validated, and private or
// loopback hosts are rejected, before any network call happens. One of the
// two collaborators failing degrades the result; both failing fails the
// skill.
func (s *URLScanner) Execute(ctx context.Context, p resolve.Params) (any, error) {
	if p.URL == "" {
		return nil, Missing(s.ID(), "url")
	}
	target, serr := validateScanURL(s.ID(), p.URL)
	if serr != nil {
		return nil, serr
	}

	var (
		wg      sync.WaitGroup
		page    intel.PageReport
		pageErr error
		rep     intel.ReputationReport
		repErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		page, pageErr = s.pages.Scan(ctx, target)
	}()
	go func() {
		defer wg.Done()
		rep, repErr = s.rep.Lookup(ctx, target)
	}()
	wg.Wait()

	if pageErr != nil && repErr != nil {
		s.log.Warn("url scan failed on all sources", "target", humanTarget(target), "error", pageErr)
		return nil, Upstream(s.ID(), pageErr)
	}

	th := s.rules.Current().Thresholds
	var signals []model.Signal
	var flagLists [][]string
	composite := 0

	if pageErr == nil {
		contribution := score.Clamp(page.RiskScore)
		composite = score.MaxOf(composite, contribution)
		signals = append(signals, model.Signal{
			SourceName:        "page_scan",
			Status:            statusFor(contribution, th),
			ContributionScore: contribution,
		})
		flagLists = append(flagLists, page.Flags)
	} else {
		signals = append(signals, model.Signal{
			SourceName: "page_scan",
			Status:     model.StatusUnknown,
			Detail:     classify(pageErr),
		})
		flagLists = append(flagLists, []string{"page_scan_unavailable"})
	}

	if repErr == nil {
		contribution := score.Clamp(rep.RiskScore)
		composite = score.MaxOf(composite, contribution)
		signals = append(signals, model.Signal{
			SourceName:        "reputation",
			Status:            statusFor(contribution, th),
			ContributionScore: contribution,
		})
		repFlags := append([]string{}, rep.Flags...)
		for _, src := range rep.Sources {
			if src.Status == model.StatusMalicious || src.Status == model.StatusSuspicious {
				repFlags = append(repFlags, "flagged_by_"+src.Name)
			}
		}
		flagLists = append(flagLists, repFlags)
	} else {
		signals = append(signals, model.Signal{
			SourceName: "reputation",
			Status:     model.StatusUnknown,
			Detail:     classify(repErr),
		})
		flagLists = append(flagLists, []string{"reputation_unavailable"})
	}

	flags := score.UnionFlags(flagLists...)
	if flags == nil {
		flags = []string{}
	}
	result := model.URLScanResult{
		URL:       target,
		RiskScore: composite,
		Verdict:   score.Verdict(composite, th),
		Flags:     flags,
		Sources:   signals,
	}
	if pageErr == nil {
		dom := page.DOM
		result.DOM = &dom
	}
	return result, nil
}

// validateScanURL enforces the scan_url input contract: an absolute http(s)
// URL whose host is not local or private address space.
func validateScanURL(skill, raw string) (string, *Error) {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return "", Invalid(skill, "url must be absolute, e.g. https://example.com")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", Invalid(skill, "url scheme must be http or https")
	}
	host := u.Hostname()
	if host == "" {
		return "", Invalid(skill, "url has no host")
	}
	if blockedHost(host) {
		return "", Invalid(skill, "refusing to scan local or private address space")
	}
	return u.String(), nil
}

func blockedHost(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified()
}
