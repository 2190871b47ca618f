// Package rolepolicy enforces role-based constraints on the pipeline's
// output: tier ceilings, answer phrasing and refusal text. The tables are
// static configuration-as-data so the precedence rules stay auditable.
package rolepolicy

import (
	"fmt"

	"helpdesk-ai-be/internal/constant"
)

// maxTierByRole is the role capability table. Tiers above the cap are
// clamped down by ordinal comparison.
var maxTierByRole = map[constant.Role]constant.Tier{
	constant.RoleTrainee:         constant.Tier1,
	constant.RoleInstructor:      constant.Tier1,
	constant.RoleOperator:        constant.Tier2,
	constant.RoleSupportEngineer: constant.Tier3,
	constant.RoleAdmin:           constant.Tier3,
}

var refusalByRole = map[constant.Role]string{
	constant.RoleTrainee:    "I'm unable to help with that request due to platform safety policies.",
	constant.RoleInstructor: "That request is restricted under CyberLab safety rules.",
	constant.RoleOperator:   "That action is restricted by CyberLab security controls.",
}

const defaultRefusal = "This request is blocked by platform security policy."

// CapTier clamps the computed tier to the role's ceiling. Unknown roles pass
// through unchanged; they are rejected earlier at the boundary.
func CapTier(role constant.Role, tier constant.Tier) constant.Tier {
	maxTier, ok := maxTierByRole[role]
	if !ok {
		return tier
	}
	if tier.Ordinal() > maxTier.Ordinal() {
		return maxTier
	}
	return tier
}

// AdjustAnswer rephrases the answer for guided roles; other roles get the
// answer unchanged.
func AdjustAnswer(answer string, role constant.Role) string {
	switch role {
	case constant.RoleTrainee:
		return fmt.Sprintf("Here's what you can try:\n%s", answer)
	case constant.RoleInstructor:
		return fmt.Sprintf("I'll guide you through this:\n%s", answer)
	default:
		return answer
	}
}

// RefusalMessage is the canned per-role text used only on guardrail-blocked
// turns.
func RefusalMessage(role constant.Role) string {
	if msg, ok := refusalByRole[role]; ok {
		return msg
	}
	return defaultRefusal
}
