package gateway

import (
	"net/http"

	"github.com/edwardtay/webwatcher-sub001/internal/a2a"
	"github.com/edwardtay/webwatcher-sub001/internal/model"
	"github.com/edwardtay/webwatcher-sub001/internal/skills"
)

// skillMeta is the human-facing description of each skill in the discovery
// card. Ids not listed here still dispatch; they just advertise a generic
// entry.
var skillMeta = map[string]struct {
	name        string
	description string
	tags        []string
}{
	model.SkillScanURL: {
		name:        "URL Scanner",
		description: "Scans a URL for phishing and malware indicators using page analysis and reputation feeds.",
		tags:        []string{"url", "phishing", "reputation"},
	},
	model.SkillCheckDomain: {
		name:        "Domain Checker",
		description: "Checks a domain's registration age and WHOIS-derived risk indicators.",
		tags:        []string{"domain", "whois"},
	},
	model.SkillAnalyzeEmail: {
		name:        "Email Analyzer",
		description: "Analyzes an email address for phishing patterns and young-domain risk.",
		tags:        []string{"email", "phishing"},
	},
	model.SkillCheckBreach: {
		name:        "Breach Checker",
		description: "Looks an email address up in known data breaches.",
		tags:        []string{"email", "breach"},
	},
	model.SkillCheckWallet: {
		name:        "Wallet Checker",
		description: "Inspects an EVM wallet address for on-chain risk indicators.",
		tags:        []string{"wallet", "blockchain"},
	},
	model.SkillFullScan: {
		name:        "Comprehensive Scan",
		description: "Runs every analyzer against one target concurrently and returns a weighted composite report.",
		tags:        []string{"url", "comprehensive"},
	},
}

// card builds the discovery document from the live registry, so the
// advertised catalog can never drift from what actually dispatches.
func (s *Server) card() a2a.AgentCard {
	var catalog []a2a.AgentSkill
	for _, id := range s.registry.IDs() {
		meta, ok := skillMeta[id]
		if !ok {
			meta.name = id
			meta.description = "Security analysis skill."
		}
		catalog = append(catalog, a2a.AgentSkill{
			ID:          id,
			Name:        meta.name,
			Description: meta.description,
			Tags:        meta.tags,
			Examples:    skills.AcceptedInputs(id),
			InputModes:  []string{"text/plain", "application/json"},
			OutputModes: []string{"application/json"},
		})
	}
	return a2a.AgentCard{
		Name:        s.cfg.AgentName,
		Description: "Security scanning agent: URL, domain, email, breach, and wallet intelligence over A2A.",
		URL:         s.cfg.PublicURL,
		Version:     s.version,
		Capabilities: a2a.AgentCapabilities{
			Streaming: true,
		},
		DefaultInputModes:  []string{"text/plain", "application/json"},
		DefaultOutputModes: []string{"application/json"},
		Skills:             catalog,
	}
}

func (s *Server) handleAgentCard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.card())
}
