package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edwardtay/webwatcher-sub001/internal/model"
	"github.com/edwardtay/webwatcher-sub001/internal/rules"
)

func TestVerdictThresholds(t *testing.T) {
	th := rules.Default().Thresholds

	tests := []struct {
		name      string
		composite int
		want      model.Verdict
	}{
		{"zero is safe", 0, model.VerdictSafe},
		{"just below suspicious", 24, model.VerdictSafe},
		{"suspicious boundary", 25, model.VerdictSuspicious},
		{"just below malicious", 49, model.VerdictSuspicious},
		{"malicious boundary", 50, model.VerdictMalicious},
		{"ceiling", 100, model.VerdictMalicious},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verdict(tt.composite, th))
		})
	}
}

func TestBucketThresholds(t *testing.T) {
	th := rules.Default().Thresholds

	tests := []struct {
		name      string
		composite int
		want      model.RiskLevel
	}{
		{"low is safe", 29, model.RiskLevelSafe},
		{"caution boundary", 30, model.RiskLevelCaution},
		{"just below danger", 69, model.RiskLevelCaution},
		{"danger boundary", 70, model.RiskLevelDanger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Bucket(tt.composite, th))
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-5))
	assert.Equal(t, 0, Clamp(0))
	assert.Equal(t, 50, Clamp(50))
	assert.Equal(t, 100, Clamp(100))
	assert.Equal(t, 100, Clamp(240))
}

func TestCompositeWeightedSum(t *testing.T) {
	w := rules.Default().Weights

	sub := map[string]int{
		CategoryURLStructure: 40,
		CategoryPageContent:  80,
		CategoryReputation:   20,
		CategoryThreatIntel:  60,
		CategoryTLSSecurity:  10,
	}
	// 40*.15 + 80*.25 + 20*.25 + 60*.25 + 10*.10 = 47
	assert.Equal(t, 47, Composite(sub, w))
}

func TestCompositeBounds(t *testing.T) {
	w := rules.Default().Weights

	all := func(v int) map[string]int {
		sub := make(map[string]int, len(Categories))
		for _, cat := range Categories {
			sub[cat] = v
		}
		return sub
	}

	assert.Equal(t, 0, Composite(all(0), w))
	assert.Equal(t, 100, Composite(all(100), w))
	assert.Equal(t, 0, Composite(map[string]int{}, w), "missing categories count as zero")
}

func TestTagsDeterministicOrder(t *testing.T) {
	sub := map[string]int{
		CategoryTLSSecurity:  90,
		CategoryURLStructure: 60,
		CategoryReputation:   51,
		CategoryPageContent:  50,
	}

	// Canonical category order, not map order; 50 does not clear the floor.
	want := []string{"suspicious_url_structure", "poor_reputation", "weak_tls"}
	for i := 0; i < 20; i++ {
		assert.Equal(t, want, Tags(sub, 50))
	}
}

func TestTagsEmpty(t *testing.T) {
	assert.Empty(t, Tags(map[string]int{CategoryPageContent: 10}, 50))
}

func TestUnionFlags(t *testing.T) {
	got := UnionFlags(
		[]string{"phishing", "new_domain"},
		[]string{"new_domain", "blacklisted"},
		nil,
		[]string{"phishing"},
	)
	assert.Equal(t, []string{"phishing", "new_domain", "blacklisted"}, got)
}

func TestCombineTakesMax(t *testing.T) {
	th := rules.Default().Thresholds

	signals := []model.Signal{
		{SourceName: "pagescan", Status: model.StatusSuspicious, ContributionScore: 40},
		{SourceName: "reputation", Status: model.StatusMalicious, ContributionScore: 72},
	}

	got := Combine(signals, th)
	assert.Equal(t, 72, got.Composite)
	assert.Equal(t, model.VerdictMalicious, got.Verdict)
	assert.Len(t, got.ContributingSignals, 2)
}

func TestCombineClampsContributions(t *testing.T) {
	th := rules.Default().Thresholds

	got := Combine([]model.Signal{
		{SourceName: "pagescan", ContributionScore: 180},
	}, th)
	assert.Equal(t, 100, got.Composite)
}

func TestCombineEmpty(t *testing.T) {
	th := rules.Default().Thresholds

	got := Combine(nil, th)
	assert.Equal(t, 0, got.Composite)
	assert.Equal(t, model.VerdictSafe, got.Verdict)
}
