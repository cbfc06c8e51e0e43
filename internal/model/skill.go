package model

// Skill identifiers. These appear in the agent card, in routing decisions,
// and in metric labels, so they live here rather than in any one package.
const (
	SkillScanURL      = "scan_url"
	SkillCheckDomain  = "check_domain"
	SkillAnalyzeEmail = "analyze_email"
	SkillCheckBreach  = "check_breach"
	SkillCheckWallet  = "check_wallet"
	SkillFullScan     = "comprehensive_scan"
)

// SkillIDs lists every registered skill in catalog order.
var SkillIDs = []string{
	SkillScanURL,
	SkillCheckDomain,
	SkillAnalyzeEmail,
	SkillCheckBreach,
	SkillCheckWallet,
	SkillFullScan,
}
