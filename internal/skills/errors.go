package skills

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/edwardtay/webwatcher-sub001/internal/model"
)

// ErrorKind classifies a skill failure.
type ErrorKind string

const (
	KindMissingParameter ErrorKind = "missing_parameter"
	KindInvalidFormat    ErrorKind = "invalid_format"
	KindUpstream         ErrorKind = "upstream"
)

// Error is a skill-level failure. It is data, not a transport fault: the
// gateway decides whether it becomes a JSON-RPC error object or an in-band
// payload, depending on the path that invoked the skill.
type Error struct {
	Kind    ErrorKind
	Skill   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Skill, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Skill, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Missing reports an absent required parameter.
func Missing(skill, field string) *Error {
	return &Error{
		Kind:    KindMissingParameter,
		Skill:   skill,
		Message: fmt.Sprintf("missing required parameter: %s", field),
	}
}

// Invalid reports a present but malformed parameter.
func Invalid(skill, message string) *Error {
	return &Error{Kind: KindInvalidFormat, Skill: skill, Message: message}
}

// Upstream wraps a collaborator failure with a human-readable
// classification of what went wrong on the network.
func Upstream(skill string, err error) *Error {
	return &Error{Kind: KindUpstream, Skill: skill, Message: classify(err), Err: err}
}

func classify(err error) string {
	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &dnsErr):
		return "DNS lookup failed for the target host"
	case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		return "upstream request timed out"
	case errors.Is(err, syscall.ECONNREFUSED):
		return "connection refused by the target"
	default:
		return "upstream request failed"
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

var suggestions = map[string]string{
	model.SkillScanURL:      `provide a url, e.g. {"url": "https://example.com"}`,
	model.SkillCheckDomain:  `provide a domain, e.g. {"domain": "example.com"}`,
	model.SkillAnalyzeEmail: `provide an email, e.g. {"email": "user@example.com"}`,
	model.SkillCheckBreach:  `provide an email, e.g. {"email": "user@example.com"}`,
	model.SkillCheckWallet:  `provide an address, e.g. {"address": "0x0000000000000000000000000000000000000000"}`,
	model.SkillFullScan:     `provide a target, e.g. {"url": "https://example.com"}`,
}

var acceptedInputs = map[string][]string{
	model.SkillScanURL:      {"https://example.com", "example.com", "scan https://example.com"},
	model.SkillCheckDomain:  {"example.com", "whois example.com"},
	model.SkillAnalyzeEmail: {"user@example.com", "analyze user@example.com"},
	model.SkillCheckBreach:  {"user@example.com", "was user@example.com in a breach?"},
	model.SkillCheckWallet:  {"0x0000000000000000000000000000000000000000", "check wallet 0x…"},
	model.SkillFullScan:     {"https://example.com", "full scan of example.com"},
}

// Suggestion returns the usage hint for a skill.
func Suggestion(skill string) string { return suggestions[skill] }

// AcceptedInputs returns example inputs for a skill.
func AcceptedInputs(skill string) []string { return acceptedInputs[skill] }

// Payload renders a skill error as the in-band failure object returned on
// the message paths. The overall status travels with the payload so callers
// can tell a failed run from a low-risk result without parsing the message.
func Payload(e *Error) map[string]any {
	return map[string]any{
		"error":          true,
		"status":         "failed",
		"message":        e.Message,
		"suggestion":     Suggestion(e.Skill),
		"acceptedInputs": AcceptedInputs(e.Skill),
	}
}

// AsError extracts a *Error from err, wrapping unexpected failures as an
// upstream error of the given skill so callers always have one to render.
func AsError(skill string, err error) *Error {
	var skillErr *Error
	if errors.As(err, &skillErr) {
		return skillErr
	}
	return Upstream(skill, err)
}

// humanTarget trims a target for inclusion in log lines and progress text.
func humanTarget(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 80 {
		return s[:77] + "..."
	}
	return s
}
