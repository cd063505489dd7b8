package api

// Tier key constants
const (
	TierStarter    = "starter"
	TierPro        = "pro"
	TierEnterprise = "enterprise"
)

// Feature IDs gating API operations
const (
	FeatureBusinessHours = "business_hours"
	FeatureSpecialHours  = "special_hours"
	FeatureReviews       = "reviews"
	FeatureSquare        = "square_integration"
	FeatureItems         = "items"
)

// Member role constants as stored on API keys
const (
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
	RoleSupport = "support"
	RoleManager = "manager"
	RoleMember  = "member"
	RoleViewer  = "viewer"
)
