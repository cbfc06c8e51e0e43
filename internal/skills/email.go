package skills

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/edwardtay/webwatcher-sub001/internal/intel"
	"github.com/edwardtay/webwatcher-sub001/internal/model"
	"github.com/edwardtay/webwatcher-sub001/internal/resolve"
	"github.com/edwardtay/webwatcher-sub001/internal/rules"
	"github.com/edwardtay/webwatcher-sub001/internal/score"
)

var emailGrammarRe = regexp.MustCompile(`^[^@\s]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// EmailAnalyzer implements the analyze_email skill: domain-age lookup plus
// phishing-keyword scanning over the address itself.
type EmailAnalyzer struct {
	whois *intel.Whois
	rules *rules.Store
	log   *slog.Logger
}

// NewEmailAnalyzer creates the analyze_email executor.
func NewEmailAnalyzer(whois *intel.Whois, rs *rules.Store, log *slog.Logger) *EmailAnalyzer {
	return &EmailAnalyzer{whois: whois, rules: rs, log: log}
}

// ID implements Executor.
func (a *EmailAnalyzer) ID() string { return model.SkillAnalyzeEmail }

// Execute implements Executor. A WHOIS failure degrades to an unknown
// domain age instead of failing the skill, because the keyword analysis is
// still worth returning.
func (a *EmailAnalyzer) Execute(ctx context.Context, p resolve.Params) (any, error) {
	if p.Email == "" {
		return nil, Missing(a.ID(), "email")
	}
	if !emailGrammarRe.MatchString(p.Email) {
		return nil, Invalid(a.ID(), "email must look like local@domain.tld")
	}

	domain := p.Email[strings.LastIndex(p.Email, "@")+1:]
	rs := a.rules.Current()

	riskScore := 0
	flags := []string{}
	ageInDays := -1

	record, err := a.whois.Lookup(ctx, domain)
	if err != nil {
		a.log.Warn("whois degraded during email analysis", "domain", domain, "error", err)
		flags = append(flags, "whois_unavailable")
	} else {
		ageInDays = record.AgeInDays
		if ageInDays >= 0 && ageInDays < rs.Email.YoungDomainDays {
			riskScore += rs.Email.YoungDomainScore
			flags = append(flags, "young_domain")
		}
	}

	lower := strings.ToLower(p.Email)
	var hits []string
	for _, kw := range rs.Email.PhishingKeywords {
		if strings.Contains(lower, kw) {
			riskScore += rs.Email.KeywordScore
			hits = append(hits, kw)
		}
	}
	if len(hits) > 0 {
		flags = append(flags, "phishing_keywords")
	}

	riskScore = score.Clamp(riskScore)
	return model.EmailAnalysisResult{
		Email:         p.Email,
		Domain:        domain,
		RiskScore:     riskScore,
		Verdict:       score.Verdict(riskScore, rs.Thresholds),
		Flags:         flags,
		DomainAgeDays: ageInDays,
		KeywordHits:   hits,
	}, nil
}
