// Package triage holds the deterministic tier/severity classifier. Upstream
// signals (the LLM classification hint, repeated-failure detection, grounding)
// feed in as booleans and can only ever raise the outcome, never relax it.
package triage

import (
	"strings"

	"helpdesk-ai-be/internal/constant"
)

// Keyword tables, scanned in severity order CRITICAL > HIGH > MEDIUM and
// tier order TIER_3 > TIER_2 > TIER_1 > TIER_0. First match wins.

var criticalKeywords = []string{
	"data loss",
	"lost work",
	"system down",
	"platform down",
	"can't work",
	"completely blocked",
	"critical",
	"emergency",
}

var highKeywords = []string{
	"kernel panic",
	"vm crash",
	"container failure",
	"startup failed",
	"security breach",
	"unauthorized access",
	"compromised",
}

var mediumKeywords = []string{
	"slow",
	"timeout",
	"error",
	"issue",
	"problem",
	"not working",
	"login loop",
	"redirect",
	"keeps logging out",
	"stuck",
	"frozen",
}

var tier3Keywords = []string{
	"vm crash",
	"vm froze",
	"kernel panic",
	"data loss",
	"lost work",
	"system down",
	"infrastructure",
}

var tier2Keywords = []string{
	"authentication loop",
	"redirect",
	"keeps logging out",
	"wrong environment",
	"wrong toolset",
	"configuration issue",
	"container",
	"init failed",
	"startup failed",
}

var tier1Keywords = []string{
	"lab access",
	"can't access",
	"cannot access",
	"login issue",
	"login problem",
	"permission denied",
	"timeout",
	"slow",
	"not loading",
}

var tier0Keywords = []string{
	"password reset",
	"forgot password",
	"documentation",
	"how to",
	"where is",
	"guide",
	"help me understand",
}

// Signals are the upstream hints reconciled against the keyword surface.
type Signals struct {
	KBCoverage      bool
	RepeatedFailure bool
	EscalationHint  bool
}

// Result is one classification outcome. Never errors; unmatched input
// resolves to the LOW/TIER_1 default.
type Result struct {
	Tier           constant.Tier
	Severity       constant.Severity
	NeedEscalation bool
}

type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify computes severity and tier independently from the raw keyword
// surface, then reconciles them through fixed override rules.
func (c *Classifier) Classify(message string, role constant.Role, signals Signals) Result {
	msg := strings.ToLower(message)

	severity := c.classifySeverity(msg)
	tier := c.classifyTier(msg, severity, signals)
	escalate := c.needsEscalation(tier, severity, signals)

	return Result{
		Tier:           tier,
		Severity:       severity,
		NeedEscalation: escalate,
	}
}

func (c *Classifier) classifySeverity(msg string) constant.Severity {
	if containsAny(msg, criticalKeywords) {
		return constant.SeverityCritical
	}
	if containsAny(msg, highKeywords) {
		return constant.SeverityHigh
	}
	if containsAny(msg, mediumKeywords) {
		return constant.SeverityMedium
	}
	return constant.SeverityLow
}

func (c *Classifier) classifyTier(msg string, severity constant.Severity, signals Signals) constant.Tier {
	// Override rules first, in fixed order. Each forces TIER_2.
	if severity == constant.SeverityCritical {
		return constant.Tier2
	}
	if signals.RepeatedFailure {
		return constant.Tier2
	}
	if signals.EscalationHint {
		return constant.Tier2
	}
	if !signals.KBCoverage {
		return constant.Tier2
	}

	if containsAny(msg, tier3Keywords) {
		return constant.Tier3
	}
	if containsAny(msg, tier2Keywords) {
		return constant.Tier2
	}
	if containsAny(msg, tier1Keywords) {
		return constant.Tier1
	}
	if containsAny(msg, tier0Keywords) {
		return constant.Tier0
	}

	return constant.Tier1
}

func (c *Classifier) needsEscalation(tier constant.Tier, severity constant.Severity, signals Signals) bool {
	if severity == constant.SeverityCritical {
		return true
	}
	if tier == constant.Tier3 {
		return true
	}
	if signals.RepeatedFailure {
		return true
	}
	if signals.EscalationHint {
		return true
	}
	if !signals.KBCoverage && (severity == constant.SeverityHigh || severity == constant.SeverityMedium) {
		return true
	}
	return false
}

func containsAny(msg string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(msg, k) {
			return true
		}
	}
	return false
}
