package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "webwatcher", cfg.AgentName)
	assert.Equal(t, 15*time.Second, cfg.IntelTimeout)
	assert.Equal(t, "webwatcher.reports", cfg.ReportsSubject)
	assert.Empty(t, cfg.NATSURL)
	assert.Empty(t, cfg.PageScanURL)
	assert.Equal(t, 512, cfg.CacheSize)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("WW_ADDR", ":9999")
	t.Setenv("WW_INTEL_TIMEOUT_SECONDS", "3")
	t.Setenv("WW_PAGESCAN_URL", "http://pagescan.internal")
	t.Setenv("WW_CACHE_SIZE", "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 3*time.Second, cfg.IntelTimeout)
	assert.Equal(t, "http://pagescan.internal", cfg.PageScanURL)
	assert.Equal(t, 512, cfg.CacheSize, "unparseable ints fall back to the default")
}
