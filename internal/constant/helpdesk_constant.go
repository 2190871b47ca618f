package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"
)

// Role is the role a user holds on the platform. It gates tier caps,
// guardrail strictness and the ticket management surface.
type Role string

const (
	RoleTrainee         Role = "trainee"
	RoleInstructor      Role = "instructor"
	RoleOperator        Role = "operator"
	RoleSupportEngineer Role = "support engineer"
	RoleAdmin           Role = "admin"
)

// KnownRoles lists every valid role. Anything else is rejected at the
// ticket-listing/update boundary with a permission error.
var KnownRoles = []Role{
	RoleTrainee,
	RoleInstructor,
	RoleOperator,
	RoleSupportEngineer,
	RoleAdmin,
}

func (r Role) Valid() bool {
	for _, known := range KnownRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Tier is the escalation bucket for an issue, TIER_0 lowest.
type Tier string

const (
	Tier0 Tier = "TIER_0"
	Tier1 Tier = "TIER_1"
	Tier2 Tier = "TIER_2"
	Tier3 Tier = "TIER_3"
)

var tierOrder = map[Tier]int{
	Tier0: 0,
	Tier1: 1,
	Tier2: 2,
	Tier3: 3,
}

// Ordinal returns the tier position for ordinal comparison. Unknown tiers
// sort lowest so a malformed upstream value can never raise the tier.
func (t Tier) Ordinal() int {
	return tierOrder[t]
}

// Severity is the impact axis, independent from tier.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// TicketStatus tracks the ticket lifecycle. Only OPEN tickets participate
// in deduplication.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)
