package tier

// Role identifies a member's role within a tenant or organization.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
	RoleSupport Role = "support"
	RoleManager Role = "manager"
	RoleMember  Role = "member"
	RoleViewer  Role = "viewer"
)

// Permission identifies an action class gated by role.
type Permission string

const (
	PermView          Permission = "view"
	PermCreate        Permission = "create"
	PermEdit          Permission = "edit"
	PermDelete        Permission = "delete"
	PermManageMembers Permission = "manage_members"
	PermManageBilling Permission = "manage_billing"
)

// rolePermissions is the fixed role hierarchy. Owners hold every
// permission; admin/support/manager are progressively narrower; members can
// create and edit but not delete; viewers are read-only.
var rolePermissions = map[Role][]Permission{
	RoleOwner:   {PermView, PermCreate, PermEdit, PermDelete, PermManageMembers, PermManageBilling},
	RoleAdmin:   {PermView, PermCreate, PermEdit, PermDelete, PermManageMembers},
	RoleSupport: {PermView, PermCreate, PermEdit, PermDelete},
	RoleManager: {PermView, PermCreate, PermEdit, PermDelete},
	RoleMember:  {PermView, PermCreate, PermEdit},
	RoleViewer:  {PermView},
}

// RoleAllows reports whether a role grants a permission. Unknown roles
// grant nothing.
func RoleAllows(role Role, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// Actor is the authenticated principal evaluated by access checks.
type Actor struct {
	Role          Role
	PlatformAdmin bool
}

// CanBypassRestrictions reports whether the actor short-circuits all tier
// and role gating. Platform operators manage tenants regardless of the
// tenant's subscription.
func CanBypassRestrictions(a Actor) bool {
	return a.PlatformAdmin
}

// DenyReason distinguishes why an access check failed, so callers can
// surface an upgrade prompt versus a permissions message.
type DenyReason string

const (
	DenyNone DenyReason = ""
	DenyTier DenyReason = "tier"
	DenyRole DenyReason = "role"
)

// Check describes one gated action: the feature the tenant's tier must
// grant and the permission the actor's role must hold. An empty Feature
// skips the tier gate.
type Check struct {
	Feature    string
	Permission Permission
}

// Decision is the outcome of CanAccess.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// CanAccess evaluates both gates for an action: the tenant tier must grant
// the feature, and the actor's role must grant the permission. The tier
// gate is evaluated first and short-circuits, so a tier denial is never
// misreported as a role denial. Platform admins bypass both gates.
func CanAccess(a Actor, t Info, c Check) Decision {
	if CanBypassRestrictions(a) {
		return Decision{Allowed: true}
	}
	if c.Feature != "" && !HasFeature(t, c.Feature) {
		return Decision{Reason: DenyTier}
	}
	if !RoleAllows(a.Role, c.Permission) {
		return Decision{Reason: DenyRole}
	}
	return Decision{Allowed: true}
}
