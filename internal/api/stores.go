package api

import (
	"context"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/storekit/storefront-cloud/internal/db"
	"github.com/storekit/storefront-cloud/internal/hours"
	"github.com/storekit/storefront-cloud/internal/tier"
)

const timestampLayout = "2006-01-02T15:04:05Z07:00"

// StoreService handles storefront signup, CRUD, and live status.
type StoreService struct {
	db    DBClient
	cache StatusCache
}

// NewStoreService creates a new StoreService.
func NewStoreService(db DBClient, cache StatusCache) *StoreService {
	return &StoreService{db: db, cache: cache}
}

// Signup handles POST /v1/signup
// Creates a storefront and its owner API key (public endpoint, no auth required).
func (s *StoreService) Signup(ctx context.Context, input *SignupInput) (*SignupOutput, error) {
	if input.Body.Email == "" {
		return nil, huma.Error400BadRequest("email is required")
	}
	if input.Body.StoreName == "" {
		return nil, huma.Error400BadRequest("storeName is required")
	}

	settings, err := s.db.GetPlatformSettings(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get platform settings", err)
	}
	if !settings.SignupsEnabled {
		return nil, huma.Error403Forbidden("signups are currently disabled")
	}

	slug := input.Body.Slug
	if slug == "" {
		slug = slugify(input.Body.StoreName)
	}
	timezone := input.Body.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, huma.Error400BadRequest("unknown timezone")
	}

	now := time.Now().UTC()
	store := &db.Tenant{
		ID:        uuid.New(),
		Name:      input.Body.StoreName,
		Slug:      slug,
		TierKey:   settings.DefaultTierKey,
		Timezone:  timezone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.CreateTenant(ctx, store); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, huma.Error409Conflict("slug already in use")
		}
		return nil, huma.Error500InternalServerError("failed to create store", err)
	}

	apiKey, err := s.db.CreateAPIKey(ctx, input.Body.Email, store.ID, RoleOwner)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to create API key", err)
	}

	return &SignupOutput{
		Body: SignupResponse{
			StoreID: store.ID.String(),
			Key:     apiKey.Key,
			Tier:    store.TierKey,
			Message: "Welcome to storefront-cloud! Save your API key - it will only be shown once.",
		},
	}, nil
}

// CreateStore handles POST /v1/stores
// Adds a sibling location to the caller's organization, enforcing the
// locations limit of the resolved tier.
func (s *StoreService) CreateStore(ctx context.Context, input *CreateStoreInput) (*CreateStoreOutput, error) {
	tenantID, ok := GetTenantID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("unauthorized")
	}
	if input.Body.Name == "" {
		return nil, huma.Error400BadRequest("name is required")
	}

	caller, err := s.db.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get store", err)
	}
	if caller.OrganizationID == nil {
		return nil, huma.Error400BadRequest("store does not belong to an organization")
	}

	resolved := resolveStoreTier(ctx, s.db, caller)
	if err := requireAccess(ctx, resolved.Effective, tier.Check{Permission: tier.PermCreate}); err != nil {
		return nil, err
	}

	usage, err := s.db.GetUsageCounts(ctx, tenantID, caller.OrganizationID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get usage counts", err)
	}
	if err := requireLimit(ctx, resolved.Effective, tier.LimitLocations, usage.Locations); err != nil {
		return nil, err
	}

	slug := input.Body.Slug
	if slug == "" {
		slug = slugify(input.Body.Name)
	}
	timezone := input.Body.Timezone
	if timezone == "" {
		timezone = caller.Timezone
	}

	now := time.Now().UTC()
	store := &db.Tenant{
		ID:             uuid.New(),
		OrganizationID: caller.OrganizationID,
		Name:           input.Body.Name,
		Slug:           slug,
		TierKey:        caller.TierKey,
		Timezone:       timezone,
		Address:        input.Body.Address,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.db.CreateTenant(ctx, store); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, huma.Error409Conflict("slug already in use")
		}
		return nil, huma.Error500InternalServerError("failed to create store", err)
	}

	return &CreateStoreOutput{Body: storeResponse(store)}, nil
}

// GetStore handles GET /v1/stores/{id}
func (s *StoreService) GetStore(ctx context.Context, input *GetStoreInput) (*GetStoreOutput, error) {
	store, err := s.loadScopedStore(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetStoreOutput{Body: storeResponse(store)}, nil
}

// UpdateStore handles PATCH /v1/stores/{id}
func (s *StoreService) UpdateStore(ctx context.Context, input *UpdateStoreInput) (*UpdateStoreOutput, error) {
	store, err := s.loadScopedStore(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resolved := resolveStoreTier(ctx, s.db, store)
	if err := requireAccess(ctx, resolved.Effective, tier.Check{Permission: tier.PermEdit}); err != nil {
		return nil, err
	}

	if input.Body.Timezone != nil {
		if _, err := time.LoadLocation(*input.Body.Timezone); err != nil {
			return nil, huma.Error400BadRequest("unknown timezone")
		}
	}

	update := &db.TenantUpdate{
		Name:     input.Body.Name,
		Timezone: input.Body.Timezone,
		Address:  input.Body.Address,
		IsActive: input.Body.IsActive,
	}
	if err := s.db.UpdateTenant(ctx, store.ID, update); err != nil {
		return nil, huma.Error500InternalServerError("failed to update store", err)
	}

	// Timezone changes shift the local clock used by status computation.
	if input.Body.Timezone != nil {
		s.cache.InvalidateStatus(ctx, store.ID)
	}

	updated, err := s.db.GetTenant(ctx, store.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get store", err)
	}
	return &UpdateStoreOutput{Body: storeResponse(updated)}, nil
}

// GetStatus handles GET /v1/stores/{id}/status
// Computes whether the store is currently open from its weekly schedule
// and date overrides, caching the result briefly.
func (s *StoreService) GetStatus(ctx context.Context, input *GetStoreStatusInput) (*GetStoreStatusOutput, error) {
	store, err := s.loadScopedStore(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	status, ok := s.cache.GetStatus(ctx, store.ID)
	if !ok {
		status, err = s.computeStatus(ctx, store, now)
		if err != nil {
			return nil, err
		}
		s.cache.SetStatus(ctx, store.ID, status)
	}

	return &GetStoreStatusOutput{
		Body: StoreStatusResponse{
			IsOpen:    status.IsOpen,
			Label:     status.Label,
			CheckedAt: now.Format(timestampLayout),
		},
	}, nil
}

// computeStatus evaluates the hours engine against the stored schedule.
func (s *StoreService) computeStatus(ctx context.Context, store *db.Tenant, now time.Time) (hours.Status, error) {
	rows, err := s.db.GetBusinessHours(ctx, store.ID)
	if err != nil {
		return hours.Status{}, huma.Error500InternalServerError("failed to get business hours", err)
	}
	overrides, err := s.db.GetSpecialHours(ctx, store.ID)
	if err != nil {
		return hours.Status{}, huma.Error500InternalServerError("failed to get special hours", err)
	}

	return hours.ComputeStatus(periodsFromRows(rows), overridesFromRows(overrides), now, store.Timezone), nil
}

// loadScopedStore parses the store ID, applies the tenant scope check, and
// fetches the row.
func (s *StoreService) loadScopedStore(ctx context.Context, id string) (*db.Tenant, error) {
	storeID, err := uuid.Parse(id)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid store ID")
	}
	if err := requireStoreScope(ctx, storeID); err != nil {
		return nil, err
	}
	store, err := s.db.GetTenant(ctx, storeID)
	if err != nil {
		return nil, huma.Error404NotFound("store not found")
	}
	return store, nil
}

// storeResponse converts a tenant row into its API representation.
func storeResponse(t *db.Tenant) StoreResponse {
	resp := StoreResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		Slug:      t.Slug,
		Tier:      t.TierKey,
		Timezone:  t.Timezone,
		Address:   t.Address,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt.Format(timestampLayout),
	}
	if t.OrganizationID != nil {
		orgID := t.OrganizationID.String()
		resp.OrganizationID = &orgID
	}
	return resp
}

// slugify derives a URL-safe slug from a store name.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
