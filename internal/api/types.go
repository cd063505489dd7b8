// Package api provides HTTP API types for storefront-cloud
package api

import "github.com/storekit/storefront-cloud/internal/tier"

// --- Signup ---

// SignupRequest defines the request body for POST /v1/signup
type SignupRequest struct {
	Email     string `json:"email"`
	StoreName string `json:"storeName"`
	Slug      string `json:"slug,omitempty"`     // Derived from StoreName when empty
	Timezone  string `json:"timezone,omitempty"` // Defaults to UTC
}

// SignupResponse defines the response body for POST /v1/signup
type SignupResponse struct {
	StoreID string `json:"storeId"`
	Key     string `json:"key"`
	Tier    string `json:"tier"`
	Message string `json:"message"`
}

// --- Stores ---

// CreateStoreRequest defines the request body for POST /v1/stores
type CreateStoreRequest struct {
	Name     string  `json:"name"`
	Slug     string  `json:"slug,omitempty"`
	Timezone string  `json:"timezone,omitempty"`
	Address  *string `json:"address,omitempty"`
}

// UpdateStoreRequest defines the request body for PATCH /v1/stores/{id}
type UpdateStoreRequest struct {
	Name     *string `json:"name,omitempty"`
	Timezone *string `json:"timezone,omitempty"`
	Address  *string `json:"address,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// StoreResponse defines the response body for store operations
type StoreResponse struct {
	ID             string  `json:"id"`
	OrganizationID *string `json:"organizationId,omitempty"`
	Name           string  `json:"name"`
	Slug           string  `json:"slug"`
	Tier           string  `json:"tier"`
	Timezone       string  `json:"timezone"`
	Address        *string `json:"address,omitempty"`
	IsActive       bool    `json:"isActive"`
	CreatedAt      string  `json:"createdAt"`
}

// StoreStatusResponse defines the response body for GET /v1/stores/{id}/status
type StoreStatusResponse struct {
	IsOpen    bool   `json:"isOpen"`
	Label     string `json:"label"`
	CheckedAt string `json:"checkedAt"`
}

// --- Hours ---

// WeeklyPeriodPayload is one weekly open period on the wire.
type WeeklyPeriodPayload struct {
	Day   int    `json:"day" doc:"Weekday, 0=Sunday .. 6=Saturday" minimum:"0" maximum:"6"`
	Open  string `json:"open" doc:"Opening time, zero-padded HH:MM" example:"09:00"`
	Close string `json:"close" doc:"Closing time, zero-padded HH:MM" example:"17:00"`
}

// SpecialHourPayload is one date override on the wire.
type SpecialHourPayload struct {
	Date     string  `json:"date" doc:"Calendar date, YYYY-MM-DD" example:"2026-12-25"`
	IsClosed bool    `json:"isClosed"`
	Open     string  `json:"open,omitempty"`
	Close    string  `json:"close,omitempty"`
	Note     *string `json:"note,omitempty"`
}

// HoursResponse defines the response body for GET/PUT /v1/stores/{id}/hours
type HoursResponse struct {
	Timezone string                `json:"timezone"`
	Periods  []WeeklyPeriodPayload `json:"periods"`
}

// PutHoursRequest defines the request body for PUT /v1/stores/{id}/hours.
// The list replaces the schedule wholesale.
type PutHoursRequest struct {
	Periods []WeeklyPeriodPayload `json:"periods"`
}

// SpecialHoursResponse defines the response body for GET/PUT /v1/stores/{id}/special-hours
type SpecialHoursResponse struct {
	Overrides []SpecialHourPayload `json:"overrides"`
}

// PutSpecialHoursRequest defines the request body for PUT /v1/stores/{id}/special-hours
type PutSpecialHoursRequest struct {
	Overrides []SpecialHourPayload `json:"overrides"`
}

// --- Items ---

// CreateItemRequest defines the request body for POST /v1/stores/{id}/items
type CreateItemRequest struct {
	Name       string  `json:"name"`
	SKU        *string `json:"sku,omitempty"`
	PriceCents int64   `json:"priceCents"`
	Quantity   int     `json:"quantity"`
	Category   *string `json:"category,omitempty"`
}

// UpdateItemRequest defines the request body for PATCH /v1/stores/{id}/items/{itemId}
type UpdateItemRequest struct {
	Name       *string `json:"name,omitempty"`
	SKU        *string `json:"sku,omitempty"`
	PriceCents *int64  `json:"priceCents,omitempty"`
	Quantity   *int    `json:"quantity,omitempty"`
	Category   *string `json:"category,omitempty"`
	IsActive   *bool   `json:"isActive,omitempty"`
}

// ItemResponse defines the response body for item operations
type ItemResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	SKU            *string `json:"sku,omitempty"`
	PriceCents     int64   `json:"priceCents"`
	Quantity       int     `json:"quantity"`
	Category       *string `json:"category,omitempty"`
	IsActive       bool    `json:"isActive"`
	SquareObjectID *string `json:"squareObjectId,omitempty"`
	CreatedAt      string  `json:"createdAt"`
}

// ListItemsResponse defines the response body for GET /v1/stores/{id}/items
type ListItemsResponse struct {
	Items []ItemResponse `json:"items"`
}

// SyncItemsResponse defines the response body for POST /v1/stores/{id}/items/sync
type SyncItemsResponse struct {
	Synced int      `json:"synced"`
	Failed []string `json:"failed,omitempty"` // Item IDs that could not be synced
}

// --- Reviews ---

// CreateReviewRequest defines the request body for POST /v1/stores/{id}/reviews
type CreateReviewRequest struct {
	Author  string  `json:"author"`
	Rating  int     `json:"rating" minimum:"1" maximum:"5"`
	Comment *string `json:"comment,omitempty"`
}

// ReviewResponse defines the response body for review operations
type ReviewResponse struct {
	ID        string  `json:"id"`
	Author    string  `json:"author"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

// ListReviewsResponse defines the response body for GET /v1/stores/{id}/reviews
type ListReviewsResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
}

// --- Tier ---

// TierInfoResponse is the API representation of a tier snapshot.
type TierInfoResponse struct {
	ID       string   `json:"id"`
	Level    string   `json:"level"`
	Features []string `json:"features"`
}

// LimitUsageResponse reports consumption against one tier limit.
type LimitUsageResponse struct {
	Key       string  `json:"key"`
	Limit     int64   `json:"limit"` // -1 means unlimited
	Current   int64   `json:"current"`
	Percent   float64 `json:"percent"`
	Reached   bool    `json:"reached"`
	Unlimited bool    `json:"unlimited"`
}

// StoreTierResponse defines the response body for GET /v1/stores/{id}/tier
type StoreTierResponse struct {
	EffectiveTier    TierInfoResponse     `json:"effectiveTier"`
	TenantTier       string               `json:"tenantTier"`
	OrganizationTier *string              `json:"organizationTier,omitempty"`
	IsChain          bool                 `json:"isChain"`
	Usage            tier.UsageSnapshot   `json:"usage"`
	Limits           []LimitUsageResponse `json:"limits"`
}

// --- Organizations ---

// OrganizationResponse defines the response body for GET /v1/organizations/{id}
type OrganizationResponse struct {
	ID        string                       `json:"id"`
	Name      string                       `json:"name"`
	Tier      string                       `json:"tier"`
	IsChain   bool                         `json:"isChain"`
	Stores    []StoreResponse              `json:"stores"`
	Members   []OrganizationMemberResponse `json:"members"`
	CreatedAt string                       `json:"createdAt"`
}

// OrganizationMemberResponse is one member (API key) on a store in the
// organization view. Key material is never included.
type OrganizationMemberResponse struct {
	StoreID string  `json:"storeId"`
	Email   *string `json:"email,omitempty"`
	Role    string  `json:"role"`
}

// --- Platform admin ---

// UpdateStoreTierRequest defines the request body for PUT /v1/admin/stores/{id}/tier
type UpdateStoreTierRequest struct {
	Tier string `json:"tier" enum:"starter,pro,enterprise"`
}

// PlatformSettingsPayload is the platform settings body for admin operations.
type PlatformSettingsPayload struct {
	MaintenanceMode bool   `json:"maintenanceMode"`
	SignupsEnabled  bool   `json:"signupsEnabled"`
	DefaultTier     string `json:"defaultTier"`
}
