package db

import (
	"time"

	"github.com/google/uuid"
)

// APIKey represents a bearer key scoped to a tenant, carrying the member
// role used for access checks. Platform-admin keys have no tenant.
type APIKey struct {
	ID            uuid.UUID  `json:"id"`
	Key           string     `json:"key"`
	Email         *string    `json:"email,omitempty"`
	TenantID      *uuid.UUID `json:"tenant_id,omitempty"`
	Role          string     `json:"role"` // owner|admin|support|manager|member|viewer
	PlatformAdmin bool       `json:"platform_admin"`
	RateLimitRPS  int        `json:"rate_limit_rps"`
	IsActive      bool       `json:"is_active"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	LastUsedAt    *time.Time `json:"last_used_at,omitempty"`
}

// Organization groups tenants into a chain with its own subscription tier.
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	TierKey   string    `json:"tier_key"` // starter|pro|enterprise
	IsChain   bool      `json:"is_chain"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tenant is a single storefront/location account.
type Tenant struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
	Name           string     `json:"name"`
	Slug           string     `json:"slug"`
	TierKey        string     `json:"tier_key"`
	Timezone       string     `json:"timezone"`
	Address        *string    `json:"address,omitempty"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TenantUpdate holds fields that can be updated on a tenant.
type TenantUpdate struct {
	Name     *string `json:"name,omitempty"`
	Timezone *string `json:"timezone,omitempty"`
	Address  *string `json:"address,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// Item is one inventory item belonging to a tenant.
type Item struct {
	ID             uuid.UUID `json:"id"`
	TenantID       uuid.UUID `json:"tenant_id"`
	Name           string    `json:"name"`
	SKU            *string   `json:"sku,omitempty"`
	PriceCents     int64     `json:"price_cents"`
	Quantity       int       `json:"quantity"`
	Category       *string   `json:"category,omitempty"`
	IsActive       bool      `json:"is_active"`
	SquareObjectID *string   `json:"square_object_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ItemUpdate holds fields that can be updated on an item.
type ItemUpdate struct {
	Name           *string `json:"name,omitempty"`
	SKU            *string `json:"sku,omitempty"`
	PriceCents     *int64  `json:"price_cents,omitempty"`
	Quantity       *int    `json:"quantity,omitempty"`
	Category       *string `json:"category,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
	SquareObjectID *string `json:"square_object_id,omitempty"`
}

// BusinessHour is one weekly open period for a tenant. Times are
/// zero-padded "HH:MM" strings in the tenant's timezone.
type BusinessHour struct {
	ID       int64     `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Weekday  int       `json:"weekday"` // 0=Sunday .. 6=Saturday
	OpenAt   string    `json:"open_at"`
	CloseAt  string    `json:"close_at"`
}

// SpecialHour is one date-specific override for a tenant.
type SpecialHour struct {
	ID       int64     `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Date     string    `json:"date"` // YYYY-MM-DD
	IsClosed bool      `json:"is_closed"`
	OpenAt   string    `json:"open_at,omitempty"`
	CloseAt  string    `json:"close_at,omitempty"`
	Note     *string   `json:"note,omitempty"`
}

// Review is a customer review attached to a tenant.
type Review struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"` // 1..5
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PlatformSettings is the singleton row of platform-wide toggles.
type PlatformSettings struct {
	MaintenanceMode bool      `json:"maintenance_mode"`
	SignupsEnabled  bool      `json:"signups_enabled"`
	DefaultTierKey  string    `json:"default_tier_key"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UsageCounts are live per-tenant resource counts used for limit checks.
type UsageCounts struct {
	Products  int64   `json:"products"`
	Locations int64   `json:"locations"`
	Users     int64   `json:"users"`
	APICalls  int64   `json:"api_calls"`
	StorageGB float64 `json:"storage_gb"`
}
