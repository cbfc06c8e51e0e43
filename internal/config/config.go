// Package config loads runtime settings from WW_-prefixed environment
// variables. Every field has a default that works on a laptop with no
// external services configured.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime settings for the agent.
type Config struct {
	// HTTP listener and the externally reachable base URL advertised in the
	// agent card.
	Addr      string
	PublicURL string

	AgentName string
	LogLevel  string

	// Per-branch budget for intelligence calls. Skills inherit it too.
	IntelTimeout time.Duration

	// Optional scoring-rule overlay; empty means built-in defaults only.
	RulesFile string

	// Optional NATS report publishing; empty URL disables it.
	NATSURL        string
	ReportsSubject string

	// Collaborator base URLs. An empty URL switches that client to its
	// local fallback analyzer.
	PageScanURL   string
	ReputationURL string
	WhoisURL      string
	BreachURL     string
	IPRiskURL     string
	PolicyURL     string

	// Registrable domains the local policy check flags outright.
	PolicyDenylist []string

	// Optional Ethereum JSON-RPC endpoint for wallet checks; empty leaves
	// the wallet skill on format validation alone.
	EthRPC string

	// Size of the per-client lookup caches.
	CacheSize int

	// Cap on JSON-RPC request bodies.
	MaxBodyBytes int64
}

// FromEnv builds a Config from the environment.
func FromEnv() Config {
	return Config{
		Addr:           getEnv("WW_ADDR", ":8080"),
		PublicURL:      getEnv("WW_PUBLIC_URL", "http://localhost:8080/"),
		AgentName:      getEnv("WW_AGENT_NAME", "webwatcher"),
		LogLevel:       getEnv("WW_LOG_LEVEL", "info"),
		IntelTimeout:   time.Duration(getEnvInt("WW_INTEL_TIMEOUT_SECONDS", 15)) * time.Second,
		RulesFile:      getEnv("WW_RULES_FILE", ""),
		NATSURL:        getEnv("WW_NATS_URL", ""),
		ReportsSubject: getEnv("WW_REPORTS_SUBJECT", "webwatcher.reports"),
		PageScanURL:    getEnv("WW_PAGESCAN_URL", ""),
		ReputationURL:  getEnv("WW_REPUTATION_URL", ""),
		WhoisURL:       getEnv("WW_WHOIS_URL", ""),
		BreachURL:      getEnv("WW_BREACH_URL", ""),
		IPRiskURL:      getEnv("WW_IPRISK_URL", ""),
		PolicyURL:      getEnv("WW_POLICY_URL", ""),
		PolicyDenylist: getEnvList("WW_POLICY_DENYLIST"),
		EthRPC:         getEnv("WW_ETH_RPC", ""),
		CacheSize:      getEnvInt("WW_CACHE_SIZE", 512),
		MaxBodyBytes:   int64(getEnvInt("WW_MAX_BODY_BYTES", 1<<20)),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
