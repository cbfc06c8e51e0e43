package model

import (
	"time"
)

// SourceStatus is one intelligence source's classification of a target.
type SourceStatus string

const (
	StatusClean      SourceStatus = "clean"
	StatusSuspicious SourceStatus = "suspicious"
	StatusMalicious  SourceStatus = "malicious"
	StatusUnknown    SourceStatus = "unknown"
)

// Signal represents a single source's opinion about a target. Signals are
// immutable once created; the scoring engine combines them without mutation.
type Signal struct {
	SourceName        string       `json:"sourceName"`
	Status            SourceStatus `json:"status"`
	Detail            string       `json:"detail,omitempty"`
	ContributionScore int          `json:"contributionScore"`
}

// Verdict is the three-level classification derived from a composite score.
type Verdict string

const (
	VerdictSafe       Verdict = "safe"
	VerdictSuspicious Verdict = "suspicious"
	VerdictMalicious  Verdict = "malicious"
)

// RiskLevel is the comprehensive-scan bucket. It is coarser than Verdict and
// uses its own thresholds (see score.Bucket).
type RiskLevel string

const (
	RiskLevelSafe    RiskLevel = "safe"
	RiskLevelCaution RiskLevel = "caution"
	RiskLevelDanger  RiskLevel = "danger"
)

// RiskScore is a combined assessment: a clamped 0-100 composite, the verdict
// derived from it, and the signals that contributed, in combination order.
type RiskScore struct {
	Composite           int      `json:"composite"`
	Verdict             Verdict  `json:"verdict"`
	ContributingSignals []Signal `json:"contributingSignals,omitempty"`
}

// DOMStats summarizes page structure counts from a content scan.
type DOMStats struct {
	Forms         int `json:"forms"`
	Scripts       int `json:"scripts"`
	Iframes       int `json:"iframes"`
	ExternalLinks int `json:"externalLinks"`
}

// URLScanResult is the normalized output of the scan_url skill.
type URLScanResult struct {
	URL       string    `json:"url"`
	RiskScore int       `json:"riskScore"`
	Verdict   Verdict   `json:"verdict"`
	Flags     []string  `json:"flags"`
	Sources   []Signal  `json:"sources,omitempty"`
	DOM       *DOMStats `json:"dom,omitempty"`
}

// DomainCheckResult is the normalized output of the check_domain skill.
type DomainCheckResult struct {
	Domain    string   `json:"domain"`
	RiskScore int      `json:"riskScore"`
	Verdict   Verdict  `json:"verdict"`
	Flags     []string `json:"flags"`
	AgeInDays int      `json:"ageInDays"`
	Registrar string   `json:"registrar,omitempty"`
}

// EmailAnalysisResult is the normalized output of the analyze_email skill.
type EmailAnalysisResult struct {
	Email         string   `json:"email"`
	Domain        string   `json:"domain"`
	RiskScore     int      `json:"riskScore"`
	Verdict       Verdict  `json:"verdict"`
	Flags         []string `json:"flags"`
	DomainAgeDays int      `json:"domainAgeDays"`
	KeywordHits   []string `json:"keywordHits,omitempty"`
}

// Breach is one entry from the breach database, passed through verbatim.
type Breach struct {
	Name        string   `json:"name"`
	Domain      string   `json:"domain,omitempty"`
	BreachDate  string   `json:"breachDate,omitempty"`
	DataClasses []string `json:"dataClasses,omitempty"`
}

// BreachCheckResult is the normalized output of the check_breach skill.
type BreachCheckResult struct {
	Email         string   `json:"email"`
	TotalBreaches int      `json:"totalBreaches"`
	RiskScore     int      `json:"riskScore"`
	Verdict       Verdict  `json:"verdict"`
	Flags         []string `json:"flags"`
	Breaches      []Breach `json:"breaches"`
}

// WalletCheckResult is the normalized output of the check_wallet skill.
type WalletCheckResult struct {
	Address    string   `json:"address"`
	RiskScore  int      `json:"riskScore"`
	Verdict    Verdict  `json:"verdict"`
	Flags      []string `json:"flags"`
	BalanceWei string   `json:"balanceWei"`
	TxCount    uint64   `json:"txCount"`
	IsContract bool     `json:"isContract"`
}

// ComprehensiveReport aggregates the composite score with the raw per-branch
// outcome of every parallel sub-analysis, keyed by analysis name. Failed
// branches appear as {"error":"Failed"} in Details. The report is built once
// per scan and never mutated afterwards.
type ComprehensiveReport struct {
	Target      string         `json:"target"`
	Composite   int            `json:"composite"`
	RiskLevel   RiskLevel      `json:"riskLevel"`
	SubScores   map[string]int `json:"subScores"`
	Tags        []string       `json:"tags,omitempty"`
	Details     map[string]any `json:"details"`
	Narrative   string         `json:"narrative"`
	ElapsedMS   int64          `json:"elapsedMs"`
	GeneratedAt time.Time      `json:"generatedAt"`
}
