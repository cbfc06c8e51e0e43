// Package resolve turns loose A2A input into typed skill parameters. All
// functions are pure: no I/O, no clock, no randomness, which keeps the
// routing behavior fully table-testable.
package resolve

import (
	"regexp"
	"strings"

	"github.com/edwardtay/webwatcher-sub001/internal/a2a"
	"github.com/edwardtay/webwatcher-sub001/internal/model"
)

// Params is the typed input of a skill execution. Empty fields mean the
// caller did not supply, and the resolver could not extract, that kind of
// target. RawText keeps the original free text for keyword routing.
type Params struct {
	URL     string
	Domain  string
	Email   string
	Wallet  string
	RawText string
}

var (
	urlRe    = regexp.MustCompile(`https?://[^\s<>"]+`)
	emailRe  = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	walletRe = regexp.MustCompile(`\b0x[0-9a-fA-F]{40}\b`)
	hostRe   = regexp.MustCompile(`\b[a-zA-Z0-9][a-zA-Z0-9\-]*(\.[a-zA-Z0-9][a-zA-Z0-9\-]*)+\b`)
)

// maxBareHostLen guards the bare-token coercion: anything longer is noise,
// not a hostname someone typed.
const maxBareHostLen = 200

// Extract resolves parameters from an A2A message. Explicit fields in data
// parts short-circuit text mining entirely: a caller who said what the
// target is never has free text second-guess them. The raw text is still
// kept for keyword routing.
func Extract(msg a2a.Message) Params {
	var p Params
	var texts []string
	for _, part := range msg.Parts {
		switch part.Kind {
		case a2a.PartData:
			p.fillFromMap(part.Data)
		case a2a.PartText:
			if part.Text != "" {
				texts = append(texts, part.Text)
			}
		}
	}
	p.RawText = strings.Join(texts, "\n")
	if p.Empty() {
		p.fillFromText(p.RawText)
	}
	return p
}

// FromMap resolves parameters from a legacy direct-call params object. Free
// text under text/query/input/message keys is mined the same way message
// text parts are.
func FromMap(m map[string]any) Params {
	var p Params
	p.fillFromMap(m)
	for _, key := range []string{"text", "query", "input", "message"} {
		if s, ok := m[key].(string); ok && s != "" {
			p.RawText = s
			break
		}
	}
	if p.Empty() {
		p.fillFromText(p.RawText)
	}
	return p
}

func (p *Params) fillFromMap(m map[string]any) {
	pick := func(keys ...string) string {
		for _, k := range keys {
			if s, ok := m[k].(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					return s
				}
			}
		}
		return ""
	}
	if p.URL == "" {
		p.URL = pick("url", "target")
	}
	if p.Domain == "" {
		p.Domain = pick("domain")
	}
	if p.Email == "" {
		p.Email = pick("email")
	}
	if p.Wallet == "" {
		p.Wallet = pick("address", "wallet")
	}
}

// fillFromText mines free text for a target. A bare dotted token is only
// coerced to a URL when the text yielded neither a real URL nor an email,
// so "contact bob@startup.io" does not turn startup.io into a scan target.
func (p *Params) fillFromText(text string) {
	if text == "" {
		return
	}
	foundURL := ""
	if m := urlRe.FindString(text); m != "" {
		foundURL = trimTrailingPunct(m)
	}
	foundEmail := emailRe.FindString(text)

	if p.URL == "" {
		p.URL = foundURL
	}
	if p.Email == "" {
		p.Email = foundEmail
	}
	if p.Wallet == "" {
		p.Wallet = walletRe.FindString(text)
	}
	if p.URL == "" && p.Email == "" && foundURL == "" && foundEmail == "" {
		if host := hostRe.FindString(text); host != "" && len(host) < maxBareHostLen {
			p.URL = "https://" + host
		}
	}
}

func trimTrailingPunct(s string) string {
	return strings.TrimRight(s, `.,;:!?)"'`)
}

// Empty reports whether the resolver found nothing usable.
func (p Params) Empty() bool {
	return p.URL == "" && p.Domain == "" && p.Email == "" && p.Wallet == ""
}

// keywordRoutes is the fallback routing table, consulted in order when no
// typed target was extracted. URL talk outranks the other kinds, mirroring
// the typed-target precedence above.
var keywordRoutes = []struct {
	words []string
	skill string
}{
	{[]string{"url", "http"}, model.SkillScanURL},
	{[]string{"whois", "domain", "registrar"}, model.SkillCheckDomain},
	{[]string{"email", "phishing"}, model.SkillAnalyzeEmail},
	{[]string{"breach", "pwned", "leak"}, model.SkillCheckBreach},
	{[]string{"wallet", "address", "0x"}, model.SkillCheckWallet},
}

// Route picks the skill a resolved input should run. Typed targets win over
// keywords; a URL beats everything, and an email only routes to the breach
// checker when the surrounding text asks about exposure.
func Route(p Params) string {
	text := strings.ToLower(p.RawText)
	switch {
	case p.URL != "":
		return model.SkillScanURL
	case p.Domain != "":
		return model.SkillCheckDomain
	case p.Email != "":
		for _, w := range []string{"breach", "pwned", "leak"} {
			if strings.Contains(text, w) {
				return model.SkillCheckBreach
			}
		}
		return model.SkillAnalyzeEmail
	case p.Wallet != "":
		return model.SkillCheckWallet
	}
	for _, route := range keywordRoutes {
		for _, w := range route.words {
			if strings.Contains(text, w) {
				return route.skill
			}
		}
	}
	return model.SkillScanURL
}
