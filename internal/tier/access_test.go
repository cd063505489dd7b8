package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleAllows(t *testing.T) {
	tests := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RoleOwner, PermManageBilling, true},
		{RoleOwner, PermDelete, true},
		{RoleAdmin, PermManageMembers, true},
		{RoleAdmin, PermManageBilling, false},
		{RoleSupport, PermDelete, true},
		{RoleManager, PermEdit, true},
		{RoleManager, PermManageMembers, false},
		{RoleMember, PermCreate, true},
		{RoleMember, PermDelete, false},
		{RoleViewer, PermView, true},
		{RoleViewer, PermEdit, false},
		{Role("intern"), PermView, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.perm), func(t *testing.T) {
			assert.Equal(t, tt.want, RoleAllows(tt.role, tt.perm))
		})
	}
}

func TestCanAccess_TierGateShortCircuitsRole(t *testing.T) {
	// Owner role would permit the action, but the starter tier lacks the
	// feature: the denial must be reported as a tier denial.
	actor := Actor{Role: RoleOwner}
	d := CanAccess(actor, Starter, Check{Feature: "reviews", Permission: PermCreate})

	assert.False(t, d.Allowed)
	assert.Equal(t, DenyTier, d.Reason)
}

func TestCanAccess_RoleGate(t *testing.T) {
	actor := Actor{Role: RoleViewer}
	d := CanAccess(actor, Pro, Check{Feature: "reviews", Permission: PermCreate})

	assert.False(t, d.Allowed)
	assert.Equal(t, DenyRole, d.Reason)
}

func TestCanAccess_Allowed(t *testing.T) {
	actor := Actor{Role: RoleMember}
	d := CanAccess(actor, Pro, Check{Feature: "reviews", Permission: PermCreate})

	assert.True(t, d.Allowed)
	assert.Equal(t, DenyNone, d.Reason)
}

func TestCanAccess_PlatformAdminBypassesBothGates(t *testing.T) {
	actor := Actor{Role: RoleViewer, PlatformAdmin: true}
	d := CanAccess(actor, Starter, Check{Feature: "square_integration", Permission: PermDelete})

	assert.True(t, d.Allowed)
}

func TestCanAccess_EmptyFeatureSkipsTierGate(t *testing.T) {
	actor := Actor{Role: RoleMember}
	d := CanAccess(actor, Starter, Check{Permission: PermEdit})

	assert.True(t, d.Allowed)
}

func TestCanBypassRestrictions(t *testing.T) {
	assert.True(t, CanBypassRestrictions(Actor{PlatformAdmin: true}))
	assert.False(t, CanBypassRestrictions(Actor{Role: RoleOwner}))
}
