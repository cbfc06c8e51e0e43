// Package scan implements the comprehensive-scan orchestrator: one target
// fanned out to every analyzer concurrently, settled regardless of
// individual failures, and folded into a single weighted report.
package scan

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/edwardtay/webwatcher-sub001/internal/intel"
	"github.com/edwardtay/webwatcher-sub001/internal/metrics"
	"github.com/edwardtay/webwatcher-sub001/internal/model"
	"github.com/edwardtay/webwatcher-sub001/internal/resolve"
	"github.com/edwardtay/webwatcher-sub001/internal/rules"
	"github.com/edwardtay/webwatcher-sub001/internal/score"
	"github.com/edwardtay/webwatcher-sub001/internal/skills"
)

// Branch names used as detail keys in the report.
const (
	branchRedirects  = "redirects"
	branchPage       = "page_content"
	branchForms      = "form_risk"
	branchTLS        = "tls_security"
	branchReputation = "reputation"
	branchCategory   = "category"
	branchPolicy     = "policy_check"
	branchWhois      = "whois"
	branchIPRisk     = "ip_risk"
)

// failedMarker is the detail recorded for a branch that did not settle with
// a value.
func failedMarker() map[string]any { return map[string]any{"error": "Failed"} }

// Branches bundles the analyzers the orchestrator fans out to.
type Branches struct {
	Redirects  *intel.Redirects
	Pages      *intel.PageScan
	Forms      *intel.FormRisk
	TLS        *intel.TLSAudit
	Reputation *intel.Reputation
	Policy     *intel.Policy
	Whois      *intel.Whois
	IPRisk     *intel.IPRisk
}

// ReportSink receives finished reports. Publishing is best-effort and must
// never block a scan's response.
type ReportSink interface {
	PublishReport(report model.ComprehensiveReport)
}

// Orchestrator runs comprehensive scans. It implements the skill Executor
// contract so the gateway can dispatch to it like any other skill.
type Orchestrator struct {
	branches Branches
	rules    *rules.Store
	metrics  *metrics.Metrics
	reports  ReportSink
	timeout  time.Duration
	log      *slog.Logger
}

// New creates an orchestrator. sink may be nil when report publishing is
// disabled.
func New(branches Branches, rs *rules.Store, m *metrics.Metrics, sink ReportSink, timeout time.Duration, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		branches: branches,
		rules:    rs,
		metrics:  m,
		reports:  sink,
		timeout:  timeout,
		log:      log,
	}
}

// ID implements the skill Executor contract.
func (o *Orchestrator) ID() string { return model.SkillFullScan }

type branchResult struct {
	name  string
	value any
	score int
	err   error
}

// Execute implements the skill Executor contract. Branches are joined with
// a settle-all policy: a failed branch records a zero sub-score and an
// explicit failure marker, and never aborts its siblings.
func (o *Orchestrator) Execute(ctx context.Context, p resolve.Params) (any, error) {
	if p.URL == "" {
		return nil, skills.Missing(o.ID(), "url")
	}
	target, hostname, serr := normalizeTarget(o.ID(), p.URL)
	if serr != nil {
		return nil, serr
	}

	started := time.Now()
	results := make(map[string]branchResult)
	out := make(chan branchResult)

	// Structural scoring needs no network and must survive a dead host.
	shapeScore, _ := intel.ScoreURLShape(target)

	// Wave 1: everything derivable from the target alone.
	o.launch(ctx, out, branchRedirects, func(bctx context.Context) (any, int, error) {
		report, err := o.branches.Redirects.Trace(bctx, target)
		return report, report.RiskScore, err
	})
	o.launch(ctx, out, branchPage, func(bctx context.Context) (any, int, error) {
		report, err := o.branches.Pages.Scan(bctx, target)
		return report, report.RiskScore, err
	})
	o.launch(ctx, out, branchForms, func(bctx context.Context) (any, int, error) {
		report, err := o.branches.Forms.Inspect(bctx, target)
		return report, report.RiskScore, err
	})
	o.launch(ctx, out, branchTLS, func(bctx context.Context) (any, int, error) {
		report, err := o.branches.TLS.Audit(bctx, target)
		return report, report.RiskScore, err
	})
	o.launch(ctx, out, branchReputation, func(bctx context.Context) (any, int, error) {
		report, err := o.branches.Reputation.Lookup(bctx, target)
		return report, report.RiskScore, err
	})
	o.launch(ctx, out, branchCategory, func(bctx context.Context) (any, int, error) {
		report, err := intel.Classify(target)
		return report, report.RiskScore, err
	})
	o.launch(ctx, out, branchPolicy, func(bctx context.Context) (any, int, error) {
		report, err := o.branches.Policy.Check(bctx, target)
		return report, report.RiskScore, err
	})
	for i := 0; i < 7; i++ {
		r := <-out
		results[r.name] = r
	}

	// Wave 2: lookups keyed off wave-1 outcomes.
	launched := 0
	o.launch(ctx, out, branchWhois, func(bctx context.Context) (any, int, error) {
		record, err := o.branches.Whois.Lookup(bctx, hostname)
		return record, record.RiskScore, err
	})
	launched++
	if rep, ok := results[branchReputation]; ok && rep.err == nil {
		if ip := rep.value.(intel.ReputationReport).IP; !intel.IsPlaceholderIP(ip) {
			o.launch(ctx, out, branchIPRisk, func(bctx context.Context) (any, int, error) {
				report, err := o.branches.IPRisk.Score(bctx, ip)
				return report, report.RiskScore, err
			})
			launched++
		}
	}
	for i := 0; i < launched; i++ {
		r := <-out
		results[r.name] = r
	}

	report := o.assemble(target, shapeScore, started, results)
	if o.reports != nil {
		o.reports.PublishReport(report)
	}
	return report, nil
}

// launch runs one branch in its own goroutine under the per-branch budget.
func (o *Orchestrator) launch(ctx context.Context, out chan<- branchResult, name string, fn func(context.Context) (any, int, error)) {
	go func() {
		bctx := ctx
		if o.timeout > 0 {
			var cancel context.CancelFunc
			bctx, cancel = context.WithTimeout(ctx, o.timeout)
			defer cancel()
		}
		value, sc, err := fn(bctx)
		if err != nil {
			o.log.Warn("scan branch failed", "branch", name, "error", err)
			o.metrics.BranchFailures.WithLabelValues(name).Inc()
			out <- branchResult{name: name, err: err}
			return
		}
		out <- branchResult{name: name, value: value, score: score.Clamp(sc)}
	}()
}

func (o *Orchestrator) assemble(target string, shapeScore int, started time.Time, results map[string]branchResult) model.ComprehensiveReport {
	rs := o.rules.Current()

	details := make(map[string]any, len(results))
	var failed []string
	scoreOf := func(name string) int {
		r, ok := results[name]
		if !ok || r.err != nil {
			return 0
		}
		return r.score
	}
	for name, r := range results {
		if r.err != nil {
			details[name] = failedMarker()
			failed = append(failed, name)
			continue
		}
		details[name] = r.value
	}
	sort.Strings(failed)

	// The redirects branch score is the shape score plus chain penalties, so
	// it only ever raises the structural baseline.
	subScores := map[string]int{
		score.CategoryURLStructure: score.MaxOf(score.Clamp(shapeScore), scoreOf(branchRedirects)),
		score.CategoryPageContent:  score.MaxOf(scoreOf(branchPage), scoreOf(branchForms)),
		score.CategoryReputation:   scoreOf(branchReputation),
		score.CategoryThreatIntel:  score.MaxOf(scoreOf(branchPolicy), scoreOf(branchIPRisk)),
		score.CategoryTLSSecurity:  scoreOf(branchTLS),
	}

	composite := score.Composite(subScores, rs.Weights)
	level := score.Bucket(composite, rs.Thresholds)
	tags := score.Tags(subScores, rs.Thresholds.TagFloor)

	return model.ComprehensiveReport{
		Target:      target,
		Composite:   composite,
		RiskLevel:   level,
		SubScores:   subScores,
		Tags:        tags,
		Details:     details,
		Narrative:   narrative(target, composite, level, results, failed),
		ElapsedMS:   time.Since(started).Milliseconds(),
		GeneratedAt: time.Now().UTC(),
	}
}

func narrative(target string, composite int, level model.RiskLevel, results map[string]branchResult, failed []string) string {
	var b strings.Builder
	b.WriteString(target)
	b.WriteString(" scored ")
	b.WriteString(strconv.Itoa(composite))
	b.WriteString("/100 (")
	b.WriteString(string(level))
	b.WriteString(")")

	if r, ok := results[branchCategory]; ok && r.err == nil {
		if cat := r.value.(intel.CategoryReport).Category; cat != "general" {
			b.WriteString(", categorized as ")
			b.WriteString(cat)
		}
	}
	if r, ok := results[branchRedirects]; ok && r.err == nil {
		if hops := len(r.value.(intel.RedirectReport).Hops); hops > 1 {
			b.WriteString(", following ")
			b.WriteString(strconv.Itoa(hops - 1))
			b.WriteString(" redirect(s)")
		}
	}
	b.WriteString(".")
	if len(failed) > 0 {
		b.WriteString(" Unavailable: ")
		b.WriteString(strings.Join(failed, ", "))
		b.WriteString(".")
	}
	return b.String()
}

// normalizeTarget coerces a bare host to https and validates the result.
func normalizeTarget(skill, raw string) (target, hostname string, serr *skills.Error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Hostname() == "" {
		return "", "", skills.Invalid(skill, "target must be a hostname or absolute http(s) url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", skills.Invalid(skill, "target scheme must be http or https")
	}
	return u.String(), u.Hostname(), nil
}
