package rolepolicy

import (
	"strings"
	"testing"

	"helpdesk-ai-be/internal/constant"
)

func TestCapTier(t *testing.T) {
	tests := []struct {
		name string
		role constant.Role
		tier constant.Tier
		want constant.Tier
	}{
		{"trainee capped at tier 1", constant.RoleTrainee, constant.Tier3, constant.Tier1},
		{"trainee keeps tier 0", constant.RoleTrainee, constant.Tier0, constant.Tier0},
		{"instructor capped at tier 1", constant.RoleInstructor, constant.Tier2, constant.Tier1},
		{"operator capped at tier 2", constant.RoleOperator, constant.Tier3, constant.Tier2},
		{"operator keeps tier 2", constant.RoleOperator, constant.Tier2, constant.Tier2},
		{"support engineer uncapped", constant.RoleSupportEngineer, constant.Tier3, constant.Tier3},
		{"admin uncapped", constant.RoleAdmin, constant.Tier3, constant.Tier3},
		{"unknown role passes through", constant.Role("auditor"), constant.Tier3, constant.Tier3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CapTier(tt.role, tt.tier); got != tt.want {
				t.Errorf("CapTier(%s, %s) = %s, want %s", tt.role, tt.tier, got, tt.want)
			}
		})
	}
}

func TestAdjustAnswer(t *testing.T) {
	const answer = "Reboot the VM from the dashboard."

	if got := AdjustAnswer(answer, constant.RoleTrainee); !strings.HasPrefix(got, "Here's what you can try:") {
		t.Errorf("trainee answer missing guided prefix: %q", got)
	}
	if got := AdjustAnswer(answer, constant.RoleInstructor); !strings.HasPrefix(got, "I'll guide you through this:") {
		t.Errorf("instructor answer missing guided prefix: %q", got)
	}
	if got := AdjustAnswer(answer, constant.RoleOperator); got != answer {
		t.Errorf("operator answer should be unchanged, got %q", got)
	}
	if got := AdjustAnswer(answer, constant.RoleAdmin); got != answer {
		t.Errorf("admin answer should be unchanged, got %q", got)
	}
}

func TestRefusalMessage(t *testing.T) {
	perRole := map[constant.Role]bool{
		constant.RoleTrainee:    true,
		constant.RoleInstructor: true,
		constant.RoleOperator:   true,
	}

	for role := range perRole {
		if RefusalMessage(role) == defaultRefusal {
			t.Errorf("role %s should have a dedicated refusal message", role)
		}
	}

	if got := RefusalMessage(constant.RoleAdmin); got != defaultRefusal {
		t.Errorf("admin refusal = %q, want default", got)
	}
	if got := RefusalMessage(constant.Role("auditor")); got != defaultRefusal {
		t.Errorf("unknown role refusal = %q, want default", got)
	}
}
