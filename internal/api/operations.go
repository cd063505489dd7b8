// Package api defines the huma input/output types for OpenAPI documentation.
package api

// Huma input/output types for API operations.
// These wrap the core types with path parameters, query parameters, and body.

// --- Signup ---

// SignupInput is the input for POST /v1/signup.
type SignupInput struct {
	Body SignupRequest
}

// SignupOutput is the output for POST /v1/signup.
type SignupOutput struct {
	Body SignupResponse
}

// --- Stores ---

// CreateStoreInput is the input for POST /v1/stores.
type CreateStoreInput struct {
	Body CreateStoreRequest
}

// CreateStoreOutput is the output for POST /v1/stores.
type CreateStoreOutput struct {
	Body StoreResponse
}

// GetStoreInput is the input for GET /v1/stores/{id}.
type GetStoreInput struct {
	ID string `path:"id" doc:"Store ID" format:"uuid"`
}

// GetStoreOutput is the output for GET /v1/stores/{id}.
type GetStoreOutput struct {
	Body StoreResponse
}

// UpdateStoreInput is the input for PATCH /v1/stores/{id}.
type UpdateStoreInput struct {
	ID   string `path:"id" doc:"Store ID" format:"uuid"`
	Body UpdateStoreRequest
}

// UpdateStoreOutput is the output for PATCH /v1/stores/{id}.
type UpdateStoreOutput struct {
	Body StoreResponse
}

// GetStoreStatusInput is the input for GET /v1/stores/{id}/status.
type GetStoreStatusInput struct {
	ID string `path:"id" doc:"Store ID" format:"uuid"`
}

// GetStoreStatusOutput is the output for GET /v1/stores/{id}/status.
type GetStoreStatusOutput struct {
	Body StoreStatusResponse
}

// --- Hours ---

// GetHoursInput is the input for GET /v1/stores/{id}/hours.
type GetHoursInput struct {
	ID string `path:"id" doc:"Store ID" format:"uuid"`
}

// GetHoursOutput is the output for GET /v1/stores/{id}/hours.
type GetHoursOutput struct {
	Body HoursResponse
}

// PutHoursInput is the input for PUT /v1/stores/{id}/hours.
type PutHoursInput struct {
	ID   string `path:"id" doc:"Store ID" format:"uuid"`
	Body PutHoursRequest
}

// PutHoursOutput is the output for PUT /v1/stores/{id}/hours.
type PutHoursOutput struct {
	Body HoursResponse
}

// GetSpecialHoursInput is the input for GET /v1/stores/{id}/special-hours.
type GetSpecialHoursInput struct {
	ID string `path:"id" doc:"Store ID" format:"uuid"`
}

// GetSpecialHoursOutput is the output for GET /v1/stores/{id}/special-hours.
type GetSpecialHoursOutput struct {
	Body SpecialHoursResponse
}

// PutSpecialHoursInput is the input for PUT /v1/stores/{id}/special-hours.
type PutSpecialHoursInput struct {
	ID   string `path:"id" doc:"Store ID" format:"uuid"`
	Body PutSpecialHoursRequest
}

// PutSpecialHoursOutput is the output for PUT /v1/stores/{id}/special-hours.
type PutSpecialHoursOutput struct {
	Body SpecialHoursResponse
}

// --- Items ---

// ListItemsInput is the input for GET /v1/stores/{id}/items.
type ListItemsInput struct {
	ID string `path:"id" doc:"Store ID" format:"uuid"`
}

// ListItemsOutput is the output for GET /v1/stores/{id}/items.
type ListItemsOutput struct {
	Body ListItemsResponse
}

// CreateItemInput is the input for POST /v1/stores/{id}/items.
type CreateItemInput struct {
	ID   string `path:"id" doc:"Store ID" format:"uuid"`
	Body CreateItemRequest
}

// CreateItemOutput is the output for POST /v1/stores/{id}/items.
type CreateItemOutput struct {
	Body ItemResponse
}

// UpdateItemInput is the input for PATCH /v1/stores/{id}/items/{itemId}.
type UpdateItemInput struct {
	ID     string `path:"id" doc:"Store ID" format:"uuid"`
	ItemID string `path:"itemId" doc:"Item ID" format:"uuid"`
	Body   UpdateItemRequest
}

// UpdateItemOutput is the output for PATCH /v1/stores/{id}/items/{itemId}.
type UpdateItemOutput struct {
	Body ItemResponse
}

// DeleteItemInput is the input for DELETE /v1/stores/{id}/items/{itemId}.
type DeleteItemInput struct {
	ID     string `path:"id" doc:"Store ID" format:"uuid"`
	ItemID string `path:"itemId" doc:"Item ID" format:"uuid"`
}

// DeleteItemOutput is the output for DELETE /v1/stores/{id}/items/{itemId} (204 No Content).
type DeleteItemOutput struct {
}

// SyncItemsInput is the input for POST /v1/stores/{id}/items/sync.
type SyncItemsInput struct {
	ID string `path:"id" doc:"Store ID" format:"uuid"`
}

// SyncItemsOutput is the output for POST /v1/stores/{id}/items/sync.
type SyncItemsOutput struct {
	Body SyncItemsResponse
}

// --- Reviews ---

// ListReviewsInput is the input for GET /v1/stores/{id}/reviews.
type ListReviewsInput struct {
	ID string `path:"id" doc:"Store ID" format:"uuid"`
}

// ListReviewsOutput is the output for GET /v1/stores/{id}/reviews.
type ListReviewsOutput struct {
	Body ListReviewsResponse
}

// CreateReviewInput is the input for POST /v1/stores/{id}/reviews.
type CreateReviewInput struct {
	ID   string `path:"id" doc:"Store ID" format:"uuid"`
	Body CreateReviewRequest
}

// CreateReviewOutput is the output for POST /v1/stores/{id}/reviews.
type CreateReviewOutput struct {
	Body ReviewResponse
}

// --- Tier ---

// GetStoreTierInput is the input for GET /v1/stores/{id}/tier.
type GetStoreTierInput struct {
	ID string `path:"id" doc:"Store ID" format:"uuid"`
}

// GetStoreTierOutput is the output for GET /v1/stores/{id}/tier.
type GetStoreTierOutput struct {
	Body StoreTierResponse
}

// --- Organizations ---

// GetOrganizationInput is the input for GET /v1/organizations/{id}.
type GetOrganizationInput struct {
	ID string `path:"id" doc:"Organization ID" format:"uuid"`
}

// GetOrganizationOutput is the output for GET /v1/organizations/{id}.
type GetOrganizationOutput struct {
	Body OrganizationResponse
}

// --- Platform admin ---

// UpdateStoreTierInput is the input for PUT /v1/admin/stores/{id}/tier.
type UpdateStoreTierInput struct {
	ID   string `path:"id" doc:"Store ID" format:"uuid"`
	Body UpdateStoreTierRequest
}

// UpdateStoreTierOutput is the output for PUT /v1/admin/stores/{id}/tier.
type UpdateStoreTierOutput struct {
	Body StoreResponse
}

// GetPlatformSettingsInput is the input for GET /v1/admin/settings.
type GetPlatformSettingsInput struct {
}

// GetPlatformSettingsOutput is the output for GET /v1/admin/settings.
type GetPlatformSettingsOutput struct {
	Body PlatformSettingsPayload
}

// UpdatePlatformSettingsInput is the input for PUT /v1/admin/settings.
type UpdatePlatformSettingsInput struct {
	Body PlatformSettingsPayload
}

// UpdatePlatformSettingsOutput is the output for PUT /v1/admin/settings.
type UpdatePlatformSettingsOutput struct {
	Body PlatformSettingsPayload
}

// --- Health ---

// HealthCheckInput is the input for GET /health.
type HealthCheckInput struct {
}

// HealthCheckOutput is the output for GET /health.
type HealthCheckOutput struct {
	Body struct {
		Status string `json:"status" doc:"Health status" example:"ok"`
	}
}
