package features

import "strings"

// Family names a group of keywords matched as substrings of lower-cased text
type Family string

const (
	FamilyUrgent       Family = "urgent"
	FamilyNegotiation  Family = "negotiation"
	FamilyLegal        Family = "legal"
	FamilyFinancial    Family = "financial"
	FamilyPending      Family = "pending"
	FamilyDelay        Family = "delay"
	FamilyApproval     Family = "approval"
	FamilyPositive     Family = "positive"
	FamilyNegative     Family = "negative"
	FamilyAmendment    Family = "amendment"
	FamilyExtension    Family = "extension"
	FamilyService      Family = "service"
	FamilySupply       Family = "supply"
	FamilyHighPriority Family = "high_priority"
	FamilyReviewStage  Family = "review_stage"
	FamilyNegotiating  Family = "negotiating"
)

// Families is the single keyword table used by feature derivation and by
// the pending-portfolio rules
var Families = map[Family][]string{
	FamilyUrgent:      {"urgent", "asap", "immediate", "critical", "emergency"},
	FamilyNegotiation: {"negotiat", "discussion", "counter", "proposal", "terms"},
	FamilyLegal:       {"legal", "lawyer", "attorney", "counsel", "litigation", "compliance"},
	FamilyFinancial:   {"payment", "invoice", "budget", "cost", "price", "financ", "fund"},
	FamilyPending: {
		"pending", "review", "waiting", "approval",
		"signature", "negotiation", "discussion", "follow-up",
	},
	FamilyDelay:    {"delay", "postpone", "overdue", "late", "behind", "stuck"},
	FamilyApproval: {"approv", "sign-off", "authoriz", "authoris"},
	FamilyPositive: {"complete", "approve", "success", "finalize", "ready", "agree"},
	FamilyNegative: {"delay", "issue", "problem", "reject", "deny", "cancel", "dispute"},

	FamilyAmendment: {"amendment", "amend", "modification", "variation"},
	FamilyExtension: {"extension", "extend", "renewal", "renew"},
	FamilyService:   {"service", "consult", "maintenance", "support"},
	FamilySupply:    {"supply", "purchase", "procurement", "goods", "equipment"},

	FamilyHighPriority: {"urgent", "critical", "deadline", "penalty", "escalate", "asap", "immediate"},
	FamilyReviewStage:  {"review", "approval", "signature"},
	FamilyNegotiating:  {"negotiation", "discussion"},
}

// Matches reports whether text contains any keyword of the family
// text must already be lower-cased
func Matches(family Family, text string) bool {
	if text == "" {
		return false
	}
	for _, kw := range Families[family] {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
