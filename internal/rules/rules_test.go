package rules

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDefaultValues(t *testing.T) {
	rs := Default()
	require.NoError(t, rs.Validate())

	assert.InDelta(t, 0.15, rs.Weights.URLStructure, 0.0001)
	assert.InDelta(t, 0.25, rs.Weights.PageContent, 0.0001)
	assert.InDelta(t, 0.25, rs.Weights.Reputation, 0.0001)
	assert.InDelta(t, 0.25, rs.Weights.ThreatIntel, 0.0001)
	assert.InDelta(t, 0.10, rs.Weights.TLSSecurity, 0.0001)

	assert.Equal(t, 50, rs.Thresholds.Malicious)
	assert.Equal(t, 25, rs.Thresholds.Suspicious)
	assert.Equal(t, 30, rs.Thresholds.Caution)
	assert.Equal(t, 70, rs.Thresholds.Danger)

	assert.Equal(t, 30, rs.Email.YoungDomainDays)
	assert.Equal(t, 30, rs.Email.YoungDomainScore)
	assert.Equal(t, 5, rs.Email.KeywordScore)
	assert.Contains(t, rs.Email.PhishingKeywords, "click here")
	assert.Contains(t, rs.Email.PhishingKeywords, "act now")
	assert.Len(t, rs.Email.PhishingKeywords, 9)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOverlayKeepsUnnamedDefaults(t *testing.T) {
	path := writeFile(t, `
thresholds:
  malicious: 60
email:
  keyword_score: 10
`)
	rs, err := Load(path)
	require.NoError(t, err)

	// Named fields changed.
	assert.Equal(t, 60, rs.Thresholds.Malicious)
	assert.Equal(t, 10, rs.Email.KeywordScore)
	// Everything else stays at defaults.
	assert.Equal(t, 25, rs.Thresholds.Suspicious)
	assert.InDelta(t, 0.15, rs.Weights.URLStructure, 0.0001)
	assert.Len(t, rs.Email.PhishingKeywords, 9)
}

func TestLoadRejectsInvalidOverlay(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"weights not summing to one", "weights:\n  reputation: 0.9\n"},
		{"inverted thresholds", "thresholds:\n  suspicious: 80\n"},
		{"negative keyword score", "email:\n  keyword_score: -1\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestStoreWithoutFileServesDefaults(t *testing.T) {
	s, err := NewStore("", testLogger())
	require.NoError(t, err)
	assert.Equal(t, Default(), s.Current())
}

func TestStoreReloadKeepsPreviousOnBadFile(t *testing.T) {
	path := writeFile(t, "thresholds:\n  malicious: 55\n")
	s, err := NewStore(path, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 55, s.Current().Thresholds.Malicious)

	// A broken rewrite must not dislodge the active ruleset.
	require.NoError(t, os.WriteFile(path, []byte("thresholds:\n  malicious: 999\n"), 0o644))
	s.reload()
	assert.Equal(t, 55, s.Current().Thresholds.Malicious)

	// A valid rewrite swaps it.
	require.NoError(t, os.WriteFile(path, []byte("thresholds:\n  malicious: 65\n"), 0o644))
	s.reload()
	assert.Equal(t, 65, s.Current().Thresholds.Malicious)
}
