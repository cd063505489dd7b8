package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/storekit/storefront-cloud/internal/db"
	"github.com/storekit/storefront-cloud/internal/tier"
)

// resolveStoreTier resolves the effective tier for a storefront against its
// organization. An organization lookup failure degrades to "no org tier":
// the tenant keeps its own tier and never gains access from stale chain
// data.
func resolveStoreTier(ctx context.Context, dbc DBClient, store *db.Tenant) tier.Resolved {
	tenantInfo := tier.Get(store.TierKey)

	var orgInfo *tier.Info
	isChain := false
	if store.OrganizationID != nil {
		org, err := dbc.GetOrganization(ctx, *store.OrganizationID)
		if err == nil {
			isChain = org.IsChain
			info := tier.Get(org.TierKey)
			orgInfo = &info
		}
	}

	return tier.Resolve(orgInfo, &tenantInfo, isChain)
}

// requireAccess evaluates the tier gate then the role gate for an action,
// mapping each denial to the API error that tells the client what to fix.
func requireAccess(ctx context.Context, effective tier.Info, check tier.Check) error {
	d := tier.CanAccess(GetActor(ctx), effective, check)
	if d.Allowed {
		return nil
	}
	if d.Reason == tier.DenyTier {
		return ErrorTierRequired("your plan does not include this feature")
	}
	return ErrorRoleForbidden("your role does not permit this action")
}

// requireStoreScope verifies the authenticated key may operate on the
// store: platform admins always may, tenant keys only on their own store.
func requireStoreScope(ctx context.Context, storeID uuid.UUID) error {
	if GetActor(ctx).PlatformAdmin {
		return nil
	}
	tenantID, ok := GetTenantID(ctx)
	if !ok || tenantID != storeID {
		return huma.Error404NotFound("store not found")
	}
	return nil
}

// requireLimit checks a usage limit before a create operation. Platform
// admins bypass limits entirely.
func requireLimit(ctx context.Context, effective tier.Info, key string, current int64) error {
	if tier.CanBypassRestrictions(GetActor(ctx)) {
		return nil
	}
	if tier.IsLimitReached(effective, key, current) {
		return ErrorLimitReached("plan limit reached for " + key)
	}
	return nil
}

// TierService answers resolved-tier and usage queries for storefronts.
type TierService struct {
	db    DBClient
	cache StatusCache
}

// NewTierService creates a new TierService.
func NewTierService(db DBClient, cache StatusCache) *TierService {
	return &TierService{db: db, cache: cache}
}

// GetStoreTier handles GET /v1/stores/{id}/tier
// Returns the resolved tier for a storefront along with live usage and
// per-limit consumption percentages.
func (s *TierService) GetStoreTier(ctx context.Context, input *GetStoreTierInput) (*GetStoreTierOutput, error) {
	storeID, err := uuid.Parse(input.ID)
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

	resolved := resolveStoreTier(ctx, s.db, store)

	usage, ok := s.cache.GetUsage(ctx, storeID)
	if !ok {
		counts, err := s.db.GetUsageCounts(ctx, storeID, store.OrganizationID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to get usage counts", err)
		}
		usage = *counts
		s.cache.SetUsage(ctx, storeID, usage)
	}

	snapshot := tier.UsageSnapshot{
		Products:  usage.Products,
		Locations: usage.Locations,
		Users:     usage.Users,
		APICalls:  usage.APICalls,
		StorageGB: usage.StorageGB,
	}

	response := StoreTierResponse{
		EffectiveTier: tierInfoResponse(resolved.Effective),
		IsChain:       resolved.IsChain,
		TenantTier:    store.TierKey,
		Usage:         snapshot,
	}
	if resolved.OrganizationTier != nil {
		response.OrganizationTier = &resolved.OrganizationTier.ID
	}

	for _, key := range []string{
		tier.LimitProducts, tier.LimitLocations, tier.LimitUsers,
		tier.LimitAPICalls, tier.LimitStorageGB,
	} {
		current := snapshot.For(key)
		response.Limits = append(response.Limits, LimitUsageResponse{
			Key:       key,
			Limit:     resolved.Effective.Limits[key],
			Current:   current,
			Percent:   tier.UsagePercentage(resolved.Effective, key, current),
			Reached:   tier.IsLimitReached(resolved.Effective, key, current),
			Unlimited: tier.IsUnlimited(resolved.Effective.Limits[key]),
		})
	}

	return &GetStoreTierOutput{Body: response}, nil
}

// tierInfoResponse converts a tier snapshot into its API representation.
func tierInfoResponse(t tier.Info) TierInfoResponse {
	return TierInfoResponse{
		ID:       t.ID,
		Level:    t.Level.String(),
		Features: t.Features,
	}
}
