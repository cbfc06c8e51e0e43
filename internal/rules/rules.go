package rules

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights holds the comprehensive-scan category weights. They must sum to 1.
type Weights struct {
	URLStructure float64 `yaml:"url_structure"`
	PageContent  float64 `yaml:"page_content"`
	Reputation   float64 `yaml:"reputation"`
	ThreatIntel  float64 `yaml:"threat_intel"`
	TLSSecurity  float64 `yaml:"tls_security"`
}

// Thresholds holds the cut-offs for verdicts, risk-level buckets, and the
// sub-score floor above which a category contributes a tag.
type Thresholds struct {
	Malicious  int `yaml:"malicious"`
	Suspicious int `yaml:"suspicious"`
	Caution    int `yaml:"caution"`
	Danger     int `yaml:"danger"`
	TagFloor   int `yaml:"tag_floor"`
}

// EmailHeuristics holds the tunables of the email analyzer.
type EmailHeuristics struct {
	YoungDomainDays  int      `yaml:"young_domain_days"`
	YoungDomainScore int      `yaml:"young_domain_score"`
	KeywordScore     int      `yaml:"keyword_score"`
	PhishingKeywords []string `yaml:"phishing_keywords"`
}

// Ruleset is the full scoring configuration. The zero value is not usable;
// start from Default and overlay a file on top.
type Ruleset struct {
	Weights    Weights         `yaml:"weights"`
	Thresholds Thresholds      `yaml:"thresholds"`
	Email      EmailHeuristics `yaml:"email"`
}

// Default returns the built-in ruleset.
func Default() *Ruleset {
	return &Ruleset{
		Weights: Weights{
			URLStructure: 0.15,
			PageContent:  0.25,
			Reputation:   0.25,
			ThreatIntel:  0.25,
			TLSSecurity:  0.10,
		},
		Thresholds: Thresholds{
			Malicious:  50,
			Suspicious: 25,
			Caution:    30,
			Danger:     70,
			TagFloor:   50,
		},
		Email: EmailHeuristics{
			YoungDomainDays:  30,
			YoungDomainScore: 30,
			KeywordScore:     5,
			PhishingKeywords: []string{
				"verify", "urgent", "suspended", "confirm",
				"update", "secure", "account", "click here", "act now",
			},
		},
	}
}

// Load reads a YAML overlay from path and applies it on top of the defaults.
// Fields absent from the file keep their default values.
func Load(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	rs := Default()
	if err := yaml.Unmarshal(data, rs); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	if err := rs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules file %s: %w", path, err)
	}
	return rs, nil
}

// Validate checks internal consistency: weights non-negative and summing to
// one, thresholds ordered and inside the score range.
func (r *Ruleset) Validate() error {
	w := r.Weights
	for name, v := range map[string]float64{
		"url_structure": w.URLStructure,
		"page_content":  w.PageContent,
		"reputation":    w.Reputation,
		"threat_intel":  w.ThreatIntel,
		"tls_security":  w.TLSSecurity,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s is negative", name)
		}
	}
	sum := w.URLStructure + w.PageContent + w.Reputation + w.ThreatIntel + w.TLSSecurity
	if math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("weights sum to %.3f, want 1.0", sum)
	}
	t := r.Thresholds
	if t.Suspicious <= 0 || t.Suspicious >= t.Malicious || t.Malicious > 100 {
		return fmt.Errorf("verdict thresholds out of order: suspicious=%d malicious=%d", t.Suspicious, t.Malicious)
	}
	if t.Caution <= 0 || t.Caution >= t.Danger || t.Danger > 100 {
		return fmt.Errorf("bucket thresholds out of order: caution=%d danger=%d", t.Caution, t.Danger)
	}
	if t.TagFloor < 0 || t.TagFloor > 100 {
		return fmt.Errorf("tag floor %d outside 0-100", t.TagFloor)
	}
	if r.Email.KeywordScore < 0 || r.Email.YoungDomainScore < 0 || r.Email.YoungDomainDays < 0 {
		return fmt.Errorf("email heuristics must be non-negative")
	}
	return nil
}
