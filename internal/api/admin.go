package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/storekit/storefront-cloud/internal/db"
	"github.com/storekit/storefront-cloud/internal/tier"
)

// AdminService handles platform-operator endpoints. Every handler requires
// a platform admin key.
type AdminService struct {
	db    DBClient
	cache StatusCache
}

// NewAdminService creates a new AdminService.
func NewAdminService(db DBClient, cache StatusCache) *AdminService {
	return &AdminService{db: db, cache: cache}
}

func validTierKey(key string) bool {
	switch key {
	case tier.KeyStarter, tier.KeyPro, tier.KeyEnterprise:
		return true
	}
	return false
}

func requirePlatformAdmin(ctx context.Context) error {
	if !GetActor(ctx).PlatformAdmin {
		return huma.Error403Forbidden("platform admin access required")
	}
	return nil
}

// UpdateStoreTier handles PUT /v1/admin/stores/{id}/tier
func (s *AdminService) UpdateStoreTier(ctx context.Context, input *UpdateStoreTierInput) (*UpdateStoreTierOutput, error) {
	if err := requirePlatformAdmin(ctx); err != nil {
		return nil, err
	}
	storeID, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid store ID")
	}
	if !validTierKey(input.Body.Tier) {
		return nil, huma.Error400BadRequest("unknown tier")
	}

	store, err := s.db.GetTenant(ctx, storeID)
	if err != nil {
		return nil, huma.Error404NotFound("store not found")
	}
	if err := s.db.UpdateTenantTier(ctx, store.ID, input.Body.Tier); err != nil {
		return nil, huma.Error500InternalServerError("failed to update tier", err)
	}

	updated, err := s.db.GetTenant(ctx, store.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get store", err)
	}
	return &UpdateStoreTierOutput{Body: storeResponse(updated)}, nil
}

// GetPlatformSettings handles GET /v1/admin/settings
func (s *AdminService) GetPlatformSettings(ctx context.Context, input *GetPlatformSettingsInput) (*GetPlatformSettingsOutput, error) {
	if err := requirePlatformAdmin(ctx); err != nil {
		return nil, err
	}
	settings, err := s.db.GetPlatformSettings(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get platform settings", err)
	}
	return &GetPlatformSettingsOutput{Body: settingsPayload(settings)}, nil
}

// UpdatePlatformSettings handles PUT /v1/admin/settings
func (s *AdminService) UpdatePlatformSettings(ctx context.Context, input *UpdatePlatformSettingsInput) (*UpdatePlatformSettingsOutput, error) {
	if err := requirePlatformAdmin(ctx); err != nil {
		return nil, err
	}
	if !validTierKey(input.Body.DefaultTier) {
		return nil, huma.Error400BadRequest("unknown default tier")
	}

	settings := &db.PlatformSettings{
		MaintenanceMode: input.Body.MaintenanceMode,
		SignupsEnabled:  input.Body.SignupsEnabled,
		DefaultTierKey:  input.Body.DefaultTier,
	}
	if err := s.db.UpdatePlatformSettings(ctx, settings); err != nil {
		return nil, huma.Error500InternalServerError("failed to update platform settings", err)
	}
	return &UpdatePlatformSettingsOutput{Body: settingsPayload(settings)}, nil
}

func settingsPayload(s *db.PlatformSettings) PlatformSettingsPayload {
	return PlatformSettingsPayload{
		MaintenanceMode: s.MaintenanceMode,
		SignupsEnabled:  s.SignupsEnabled,
		DefaultTier:     s.DefaultTierKey,
	}
}
