package intel

import (
	"net/url"
	"strings"
)

// CategoryReport names the content category a target most likely belongs to.
type CategoryReport struct {
	Category  string   `json:"category"`
	RiskScore int      `json:"riskScore"`
	Flags     []string `json:"flags"`
}

// categoryRules is consulted in order; the first keyword hit wins.
var categoryRules = []struct {
	category string
	score    int
	words    []string
}{
	{"gambling", 25, []string{"casino", "poker", "slots", "betting"}},
	{"crypto", 20, []string{"crypto", "airdrop", "token", "defi", "wallet"}},
	{"adult", 15, []string{"adult", "xxx"}},
	{"finance", 10, []string{"bank", "invest", "loan", "payment"}},
	{"shopping", 5, []string{"shop", "store", "deal"}},
}

// Classify buckets a target by keywords in its host and path. It is pure
// string analysis with no network access.
func Classify(target string) (CategoryReport, error) {
	report := CategoryReport{Category: "general", Flags: []string{}}
	u, err := url.Parse(target)
	if err != nil {
		return report, nil
	}
	haystack := strings.ToLower(u.Hostname() + u.Path)
	for _, rule := range categoryRules {
		for _, w := range rule.words {
			if strings.Contains(haystack, w) {
				report.Category = rule.category
				report.RiskScore = rule.score
				report.Flags = append(report.Flags, "category_"+rule.category)
				return report, nil
			}
		}
	}
	return report, nil
}
