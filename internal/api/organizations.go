package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/storekit/storefront-cloud/internal/tier"
)

// OrganizationService handles chain-level reads.
type OrganizationService struct {
	db DBClient
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(db DBClient) *OrganizationService {
	return &OrganizationService{db: db}
}

// GetOrganization handles GET /v1/organizations/{id}
// Returns the organization and its member stores. Callers must belong to
// one of the member stores unless they are platform admins.
func (s *OrganizationService) GetOrganization(ctx context.Context, input *GetOrganizationInput) (*GetOrganizationOutput, error) {
	orgID, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid organization ID")
	}

	org, err := s.db.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, huma.Error404NotFound("organization not found")
	}
	stores, err := s.db.ListTenantsByOrganization(ctx, orgID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list stores", err)
	}

	if !tier.CanBypassRestrictions(GetActor(ctx)) {
		tenantID, ok := GetTenantID(ctx)
		member := false
		for _, st := range stores {
			if ok && st.ID == tenantID {
				member = true
				break
			}
		}
		if !member {
			return nil, huma.Error404NotFound("organization not found")
		}
	}

	if err := requireAccess(ctx, tier.Get(org.TierKey), tier.Check{Permission: tier.PermView}); err != nil {
		return nil, err
	}

	storeList := make([]StoreResponse, 0, len(stores))
	members := make([]OrganizationMemberResponse, 0, len(stores))
	for _, st := range stores {
		storeList = append(storeList, storeResponse(&st))

		keys, err := s.db.ListAPIKeysByTenant(ctx, st.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list members", err)
		}
		for _, k := range keys {
			members = append(members, OrganizationMemberResponse{
				StoreID: st.ID.String(),
				Email:   k.Email,
				Role:    k.Role,
			})
		}
	}
	return &GetOrganizationOutput{
		Body: OrganizationResponse{
			ID:        org.ID.String(),
			Name:      org.Name,
			Tier:      org.TierKey,
			IsChain:   org.IsChain,
			Stores:    storeList,
			Members:   members,
			CreatedAt: org.CreatedAt.Format(timestampLayout),
		},
	}, nil
}
