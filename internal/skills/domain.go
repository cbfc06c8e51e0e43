package skills

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/edwardtay/webwatcher-sub001/internal/intel"
	"github.com/edwardtay/webwatcher-sub001/internal/model"
	"github.com/edwardtay/webwatcher-sub001/internal/resolve"
	"github.com/edwardtay/webwatcher-sub001/internal/rules"
	"github.com/edwardtay/webwatcher-sub001/internal/score"
)

// labelRe is the label-dot-label hostname grammar: labels of 1-63
// alphanumeric characters with internal hyphens, at least two labels.
var labelRe = regexp.MustCompile(`^(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)

// DomainChecker implements the check_domain skill: a WHOIS/age lookup whose
// risk score and flags pass through unchanged.
type DomainChecker struct {
	whois *intel.Whois
	rules *rules.Store
	log   *slog.Logger
}

// NewDomainChecker creates the check_domain executor.
func NewDomainChecker(whois *intel.Whois, rs *rules.Store, log *slog.Logger) *DomainChecker {
	return &DomainChecker{whois: whois, rules: rs, log: log}
}

// ID implements Executor.
func (d *DomainChecker) ID() string { return model.SkillCheckDomain }

// Execute implements Executor.
func (d *DomainChecker) Execute(ctx context.Context, p resolve.Params) (any, error) {
	if p.Domain == "" {
		return nil, Missing(d.ID(), "domain")
	}
	if len(p.Domain) > 253 || !labelRe.MatchString(p.Domain) {
		return nil, Invalid(d.ID(), "domain is not a valid hostname")
	}

	record, err := d.whois.Lookup(ctx, p.Domain)
	if err != nil {
		return nil, Upstream(d.ID(), err)
	}

	th := d.rules.Current().Thresholds
	riskScore := score.Clamp(record.RiskScore)
	flags := record.Flags
	if flags == nil {
		flags = []string{}
	}
	return model.DomainCheckResult{
		Domain:    p.Domain,
		RiskScore: riskScore,
		Verdict:   score.Verdict(riskScore, th),
		Flags:     flags,
		AgeInDays: record.AgeInDays,
		Registrar: record.Registrar,
	}, nil
}
