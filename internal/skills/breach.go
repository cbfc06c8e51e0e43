package skills

import (
	"context"
	"log/slog"

	"github.com/edwardtay/webwatcher-sub001/internal/intel"
	"github.com/edwardtay/webwatcher-sub001/internal/model"
	"github.com/edwardtay/webwatcher-sub001/internal/resolve"
	"github.com/edwardtay/webwatcher-sub001/internal/rules"
	"github.com/edwardtay/webwatcher-sub001/internal/score"
)

// BreachChecker implements the check_breach skill: a breach-database lookup
// passed through with count, score, and breach list intact.
type BreachChecker struct {
	breaches *intel.Breach
	rules    *rules.Store
	log      *slog.Logger
}

// NewBreachChecker creates the check_breach executor.
func NewBreachChecker(breaches *intel.Breach, rs *rules.Store, log *slog.Logger) *BreachChecker {
	return &BreachChecker{breaches: breaches, rules: rs, log: log}
}

// ID implements Executor.
func (b *BreachChecker) ID() string { return model.SkillCheckBreach }

// Execute implements Executor.
func (b *BreachChecker) Execute(ctx context.Context, p resolve.Params) (any, error) {
	if p.Email == "" {
		return nil, Missing(b.ID(), "email")
	}
	if !emailGrammarRe.MatchString(p.Email) {
		return nil, Invalid(b.ID(), "email must look like local@domain.tld")
	}

	report, err := b.breaches.Lookup(ctx, p.Email)
	if err != nil {
		return nil, Upstream(b.ID(), err)
	}

	th := b.rules.Current().Thresholds
	breaches := report.Breaches
	if breaches == nil {
		breaches = []model.Breach{}
	}
	total := report.TotalBreaches
	if total == 0 {
		total = len(breaches)
	}

	result := model.BreachCheckResult{
		Email:         p.Email,
		TotalBreaches: total,
		Breaches:      breaches,
	}
	if total == 0 {
		result.RiskScore = 0
		result.Flags = []string{"no_breaches_found"}
	} else {
		result.RiskScore = score.Clamp(report.RiskScore)
		result.Flags = []string{"breaches_found"}
	}
	result.Verdict = score.Verdict(result.RiskScore, th)
	return result, nil
}
