// Package score holds the pure scoring functions. Nothing here performs I/O;
// every function maps inputs to outputs so callers can reason about scores
// without mocking anything.
package score

import (
	"math"

	"github.com/edwardtay/webwatcher-sub001/internal/model"
	"github.com/edwardtay/webwatcher-sub001/internal/rules"
)

// Comprehensive-scan category names, in canonical reporting order.
const (
	CategoryURLStructure = "url_structure"
	CategoryPageContent  = "page_content"
	CategoryReputation   = "reputation"
	CategoryThreatIntel  = "threat_intel"
	CategoryTLSSecurity  = "tls_security"
)

// Categories lists the scoring categories in canonical order. Tag emission
// and report rendering iterate this slice so output order never depends on
// map iteration.
var Categories = []string{
	CategoryURLStructure,
	CategoryPageContent,
	CategoryReputation,
	CategoryThreatIntel,
	CategoryTLSSecurity,
}

var categoryTags = map[string]string{
	CategoryURLStructure: "suspicious_url_structure",
	CategoryPageContent:  "risky_page_content",
	CategoryReputation:   "poor_reputation",
	CategoryThreatIntel:  "threat_intelligence_hit",
	CategoryTLSSecurity:  "weak_tls",
}

// Clamp forces n into the 0-100 score range.
func Clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// Verdict classifies a composite score against the verdict thresholds. The
// boundaries are inclusive on the riskier side: a score equal to the
// malicious threshold is malicious.
func Verdict(composite int, t rules.Thresholds) model.Verdict {
	switch {
	case composite >= t.Malicious:
		return model.VerdictMalicious
	case composite >= t.Suspicious:
		return model.VerdictSuspicious
	default:
		return model.VerdictSafe
	}
}

// Bucket classifies a composite score into the coarse risk level used by
// comprehensive reports.
func Bucket(composite int, t rules.Thresholds) model.RiskLevel {
	switch {
	case composite >= t.Danger:
		return model.RiskLevelDanger
	case composite >= t.Caution:
		return model.RiskLevelCaution
	default:
		return model.RiskLevelSafe
	}
}

// Composite folds per-category sub-scores into a single weighted score.
// Missing categories count as zero. The result is rounded to the nearest
// integer and clamped.
func Composite(sub map[string]int, w rules.Weights) int {
	total := float64(sub[CategoryURLStructure])*w.URLStructure +
		float64(sub[CategoryPageContent])*w.PageContent +
		float64(sub[CategoryReputation])*w.Reputation +
		float64(sub[CategoryThreatIntel])*w.ThreatIntel +
		float64(sub[CategoryTLSSecurity])*w.TLSSecurity
	return Clamp(int(math.Round(total)))
}

// Tags returns one tag per category whose sub-score exceeds the floor, in
// canonical category order.
func Tags(sub map[string]int, floor int) []string {
	var tags []string
	for _, cat := range Categories {
		if sub[cat] > floor {
			tags = append(tags, categoryTags[cat])
		}
	}
	return tags
}

// MaxOf returns the larger of two scores.
func MaxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// UnionFlags merges flag lists preserving first-seen order and dropping
// duplicates.
func UnionFlags(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, f := range list {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}

// Combine folds independent signals into a RiskScore by taking the highest
// contribution as the composite. Independent sources corroborate rather than
// accumulate, so two sources reporting 40 still mean 40, not 80.
func Combine(signals []model.Signal, t rules.Thresholds) model.RiskScore {
	composite := 0
	for _, s := range signals {
		composite = MaxOf(composite, Clamp(s.ContributionScore))
	}
	return model.RiskScore{
		Composite:           composite,
		Verdict:             Verdict(composite, t),
		ContributingSignals: signals,
	}
}
