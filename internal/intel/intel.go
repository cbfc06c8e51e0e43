// Package intel holds the thin adapters around external intelligence
// collaborators, plus the local analyzers the agent runs itself. Every
// adapter takes a context and honors its deadline; remote endpoints are
// optional, and each client degrades to a deterministic local fallback when
// its base URL is empty.
package intel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/edwardtay/webwatcher-sub001/internal/model"
)

// Config carries the settings shared by every collaborator client.
type Config struct {
	// BaseURL of the remote collaborator. Empty switches the client to its
	// local fallback.
	BaseURL string
	// Timeout per call. Zero means rely on the caller's context alone.
	Timeout time.Duration
}

// PageReport is the page-content scan contract.
type PageReport struct {
	RiskScore int            `json:"riskScore"`
	Flags     []string       `json:"flags"`
	DOM       model.DOMStats `json:"dom"`
}

// RepSource is one upstream feed consulted by the reputation collaborator.
type RepSource struct {
	Name    string             `json:"name"`
	Status  model.SourceStatus `json:"status"`
	Details string             `json:"details,omitempty"`
}

// ReputationReport is the reputation lookup contract.
type ReputationReport struct {
	Domain    string      `json:"domain"`
	IP        string      `json:"ip"`
	RiskScore int         `json:"riskScore"`
	Flags     []string    `json:"flags"`
	Sources   []RepSource `json:"sources"`
}

// WhoisRecord is the WHOIS/age lookup contract. AgeInDays is -1 when the
// registration date could not be determined; callers must not treat an
// unknown age as young.
type WhoisRecord struct {
	AgeInDays int      `json:"ageInDays"`
	Registrar string   `json:"registrar"`
	RiskScore int      `json:"riskScore"`
	Flags     []string `json:"flags"`
}

// BreachReport is the breach database contract.
type BreachReport struct {
	TotalBreaches int            `json:"totalBreaches"`
	RiskScore     int            `json:"riskScore"`
	Breaches      []model.Breach `json:"breaches"`
}

// IPRiskReport is the IP intelligence contract.
type IPRiskReport struct {
	RiskScore int      `json:"riskScore"`
	Flags     []string `json:"flags"`
}

// IsPlaceholderIP reports whether a reputation result carries no usable IP.
func IsPlaceholderIP(ip string) bool {
	switch strings.ToLower(strings.TrimSpace(ip)) {
	case "", "unknown", "n/a", "none", "0.0.0.0":
		return true
	}
	return net.ParseIP(ip) == nil
}

const maxResponseBytes = 1 << 20

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return doJSON(client, req, out)
}

func postJSON(ctx context.Context, client *http.Client, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return doJSON(client, req, out)
}

func doJSON(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return fmt.Errorf("collaborator %s returned status %d", req.URL.Host, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode collaborator response: %w", err)
	}
	return nil
}

// fetchPage retrieves a page body for local analysis, capped at 512 KiB.
// The returned URL is the final one after any transport-level redirects.
func fetchPage(ctx context.Context, client *http.Client, rawURL string) (body, finalURL string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", "webwatcher/1.0")
	resp, err := client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 512<<10))
	if err != nil {
		return "", "", err
	}
	return string(data), resp.Request.URL.String(), nil
}
