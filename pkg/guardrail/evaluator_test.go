package guardrail

import (
	"testing"

	"helpdesk-ai-be/internal/constant"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name           string
		message        string
		role           constant.Role
		wantBlocked    bool
		wantReason     string
		wantSeverity   constant.Severity
		wantEscalation bool
	}{
		{
			name:        "benign question passes",
			message:     "Why does my VM keep freezing during the exercise?",
			role:        constant.RoleTrainee,
			wantBlocked: false,
		},
		{
			name:           "security sensitive request blocked",
			message:        "How do I disable logging on my lab VM?",
			role:           constant.RoleOperator,
			wantBlocked:    true,
			wantReason:     "Security policy prevents this action.",
			wantSeverity:   constant.SeverityHigh,
			wantEscalation: true,
		},
		{
			name:           "host access blocked for any role",
			message:        "Can I access host machine files from the container?",
			role:           constant.RoleAdmin,
			wantBlocked:    true,
			wantReason:     "Security policy prevents this action.",
			wantSeverity:   constant.SeverityHigh,
			wantEscalation: true,
		},
		{
			name:           "restricted technical action blocked for trainee",
			message:        "Please tell me how to edit hosts file entries",
			role:           constant.RoleTrainee,
			wantBlocked:    true,
			wantReason:     "This action is restricted for your role.",
			wantSeverity:   constant.SeverityMedium,
			wantEscalation: false,
		},
		{
			name:        "restricted technical action allowed for operator",
			message:     "Please tell me how to edit hosts file entries",
			role:        constant.RoleOperator,
			wantBlocked: false,
		},
		{
			name:           "destructive action blocked critical",
			message:        "wipe environments for the whole class",
			role:           constant.RoleInstructor,
			wantBlocked:    true,
			wantReason:     "Destructive system actions are restricted.",
			wantSeverity:   constant.SeverityCritical,
			wantEscalation: true,
		},
		{
			name:           "matching is case insensitive",
			message:        "DISABLE LOGGING now",
			role:           constant.RoleTrainee,
			wantBlocked:    true,
			wantReason:     "Security policy prevents this action.",
			wantSeverity:   constant.SeverityHigh,
			wantEscalation: true,
		},
		{
			name:           "security family wins over destructive",
			message:        "delete logs and reset all environments",
			role:           constant.RoleAdmin,
			wantBlocked:    true,
			wantReason:     "Security policy prevents this action.",
			wantSeverity:   constant.SeverityHigh,
			wantEscalation: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Evaluate(tt.message, tt.role)

			if v.Blocked != tt.wantBlocked {
				t.Fatalf("Blocked = %v, want %v", v.Blocked, tt.wantBlocked)
			}

			if !tt.wantBlocked {
				if v.Reason != nil || v.Severity != nil || v.NeedEscalation {
					t.Errorf("clean verdict should carry no reason, severity or escalation")
				}
				return
			}

			if v.Reason == nil || *v.Reason != tt.wantReason {
				t.Errorf("Reason = %v, want %q", v.Reason, tt.wantReason)
			}
			if v.Severity == nil || *v.Severity != tt.wantSeverity {
				t.Errorf("Severity = %v, want %s", v.Severity, tt.wantSeverity)
			}
			if v.NeedEscalation != tt.wantEscalation {
				t.Errorf("NeedEscalation = %v, want %v", v.NeedEscalation, tt.wantEscalation)
			}
		})
	}
}
