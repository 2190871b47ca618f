// Package guardrail implements the policy filter that runs before any
// external call. Matching is case-insensitive substring search over four
// ordered pattern families; the first family that matches wins.
package guardrail

import (
	"strings"

	"helpdesk-ai-be/internal/constant"
)

// Verdict is the result of one guardrail evaluation. A blocked verdict is a
// valid terminal outcome of a turn, not an error.
type Verdict struct {
	Blocked        bool
	Reason         *string
	Severity       *constant.Severity
	NeedEscalation bool
}

var securitySensitivePatterns = []string{
	"disable logging",
	"turn off logging",
	"hide activity",
	"bypass logging",
	"access host machine",
	"host shell",
	"hypervisor",
	"reset all environments",
	"delete logs",
}

var hostAccessPatterns = []string{
	"access host",
	"host machine",
	"hypervisor",
	"underlying infrastructure",
}

// restrictedTechnicalPatterns are only enforced for trainee and instructor;
// operators and above may legitimately perform these actions.
var restrictedTechnicalPatterns = []string{
	"/etc/hosts",
	"edit hosts file",
	"change system clock",
	"sync time manually",
}

var destructivePatterns = []string{
	"reset all",
	"wipe environments",
	"delete all labs",
}

var restrictedRoles = map[constant.Role]bool{
	constant.RoleTrainee:    true,
	constant.RoleInstructor: true,
}

// Evaluate tests the message against the pattern families in strict priority
// order. Deterministic, no side effects; always returns a defined verdict.
func Evaluate(message string, role constant.Role) Verdict {
	msg := strings.ToLower(message)

	if matchesAny(msg, securitySensitivePatterns) {
		return blockedVerdict("Security policy prevents this action.", constant.SeverityHigh, true)
	}

	if matchesAny(msg, hostAccessPatterns) {
		return blockedVerdict("Host/infrastructure access is not permitted.", constant.SeverityHigh, true)
	}

	if restrictedRoles[role] && matchesAny(msg, restrictedTechnicalPatterns) {
		return blockedVerdict("This action is restricted for your role.", constant.SeverityMedium, false)
	}

	if matchesAny(msg, destructivePatterns) {
		return blockedVerdict("Destructive system actions are restricted.", constant.SeverityCritical, true)
	}

	return Verdict{Blocked: false}
}

func matchesAny(msg string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

func blockedVerdict(reason string, severity constant.Severity, escalate bool) Verdict {
	return Verdict{
		Blocked:        true,
		Reason:         &reason,
		Severity:       &severity,
		NeedEscalation: escalate,
	}
}
