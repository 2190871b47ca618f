package triage

import (
	"testing"

	"helpdesk-ai-be/internal/constant"
)

var grounded = Signals{KBCoverage: true}

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		message      string
		signals      Signals
		wantTier     constant.Tier
		wantSeverity constant.Severity
		wantEscalate bool
	}{
		{
			name:         "password reset is tier 0 low",
			message:      "how do I do a password reset?",
			signals:      grounded,
			wantTier:     constant.Tier0,
			wantSeverity: constant.SeverityLow,
			wantEscalate: false,
		},
		{
			name:         "login timeout is tier 1 medium",
			message:      "login keeps hitting a timeout",
			signals:      grounded,
			wantTier:     constant.Tier1,
			wantSeverity: constant.SeverityMedium,
			wantEscalate: false,
		},
		{
			name:         "container startup failure is tier 2 high",
			message:      "container startup failed again",
			signals:      grounded,
			wantTier:     constant.Tier2,
			wantSeverity: constant.SeverityHigh,
			wantEscalate: false,
		},
		{
			name:         "kernel panic is tier 3 high and escalates",
			message:      "the vm shows a kernel panic",
			signals:      grounded,
			wantTier:     constant.Tier3,
			wantSeverity: constant.SeverityHigh,
			wantEscalate: true,
		},
		{
			name:         "critical severity forces tier 2",
			message:      "emergency, the whole platform down",
			signals:      grounded,
			wantTier:     constant.Tier2,
			wantSeverity: constant.SeverityCritical,
			wantEscalate: true,
		},
		{
			name:         "repeated failure forces tier 2",
			message:      "the page is slow",
			signals:      Signals{KBCoverage: true, RepeatedFailure: true},
			wantTier:     constant.Tier2,
			wantSeverity: constant.SeverityMedium,
			wantEscalate: true,
		},
		{
			name:         "escalation hint forces tier 2",
			message:      "where is the lab guide",
			signals:      Signals{KBCoverage: true, EscalationHint: true},
			wantTier:     constant.Tier2,
			wantSeverity: constant.SeverityLow,
			wantEscalate: true,
		},
		{
			name:         "no kb coverage forces tier 2 and escalates on medium",
			message:      "I hit an error provisioning",
			signals:      Signals{KBCoverage: false},
			wantTier:     constant.Tier2,
			wantSeverity: constant.SeverityMedium,
			wantEscalate: true,
		},
		{
			name:         "no kb coverage on low severity does not escalate",
			message:      "where is the documentation",
			signals:      Signals{KBCoverage: false},
			wantTier:     constant.Tier2,
			wantSeverity: constant.SeverityLow,
			wantEscalate: false,
		},
		{
			name:         "unmatched input defaults to tier 1 low",
			message:      "hello there",
			signals:      grounded,
			wantTier:     constant.Tier1,
			wantSeverity: constant.SeverityLow,
			wantEscalate: false,
		},
	}

	c := NewClassifier()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.message, constant.RoleTrainee, tt.signals)

			if got.Tier != tt.wantTier {
				t.Errorf("Tier = %s, want %s", got.Tier, tt.wantTier)
			}
			if got.Severity != tt.wantSeverity {
				t.Errorf("Severity = %s, want %s", got.Severity, tt.wantSeverity)
			}
			if got.NeedEscalation != tt.wantEscalate {
				t.Errorf("NeedEscalation = %v, want %v", got.NeedEscalation, tt.wantEscalate)
			}
		})
	}
}
