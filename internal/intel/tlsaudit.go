package intel

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"time"
)

// TLSReport summarizes the transport security of a target.
type TLSReport struct {
	Version       string   `json:"version"`
	Issuer        string   `json:"issuer,omitempty"`
	ExpiresInDays int      `json:"expiresInDays"`
	RiskScore     int      `json:"riskScore"`
	Flags         []string `json:"flags"`
}

// TLSAudit inspects a target's TLS handshake directly. Verification is
// disabled on the handshake so broken certificates can be examined and
// scored instead of aborting the audit.
type TLSAudit struct {
	timeout time.Duration
	log     *slog.Logger
}

// NewTLSAudit creates a TLS auditor.
func NewTLSAudit(timeout time.Duration, log *slog.Logger) *TLSAudit {
	return &TLSAudit{timeout: timeout, log: log}
}

// Audit connects to the target and scores its TLS posture. Plain-http
// targets score without any network activity.
func (t *TLSAudit) Audit(ctx context.Context, target string) (TLSReport, error) {
	u, err := url.Parse(target)
	if err != nil || u.Hostname() == "" {
		return TLSReport{}, fmt.Errorf("tls audit: unparseable target %q", target)
	}
	if u.Scheme == "http" {
		return TLSReport{Version: "none", RiskScore: 60, Flags: []string{"no_tls"}}, nil
	}

	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "443"
	}
	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: t.timeout},
		Config: &tls.Config{
			ServerName:         host,
			InsecureSkipVerify: true,
		},
	}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return TLSReport{}, fmt.Errorf("tls audit: %w", err)
	}
	defer conn.Close()

	state := conn.(*tls.Conn).ConnectionState()
	report := TLSReport{Version: tls.VersionName(state.Version), Flags: []string{}}

	if state.Version < tls.VersionTLS12 {
		report.RiskScore += 40
		report.Flags = append(report.Flags, "legacy_tls_version")
	}
	if len(state.PeerCertificates) > 0 {
		cert := state.PeerCertificates[0]
		report.Issuer = cert.Issuer.CommonName
		now := time.Now()
		report.ExpiresInDays = int(cert.NotAfter.Sub(now).Hours() / 24)
		switch {
		case now.After(cert.NotAfter):
			report.RiskScore += 50
			report.Flags = append(report.Flags, "expired_certificate")
		case now.Before(cert.NotBefore):
			report.RiskScore += 30
			report.Flags = append(report.Flags, "certificate_not_yet_valid")
		case report.ExpiresInDays <= 14:
			report.RiskScore += 10
			report.Flags = append(report.Flags, "certificate_expiring_soon")
		}
		if err := cert.VerifyHostname(host); err != nil {
			report.RiskScore += 40
			report.Flags = append(report.Flags, "hostname_mismatch")
		}
		if len(state.PeerCertificates) == 1 && cert.Issuer.String() == cert.Subject.String() {
			report.RiskScore += 30
			report.Flags = append(report.Flags, "self_signed_certificate")
		}
	}
	if report.RiskScore > 100 {
		report.RiskScore = 100
	}
	return report, nil
}
