package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/storekit/storefront-cloud/internal/db"
)

// DBClient defines the database operations required by the API services
type DBClient interface {
	GetAPIKeyByKey(ctx context.Context, key string) (*db.APIKey, error)
	CreateAPIKey(ctx context.Context, email string, tenantID uuid.UUID, role string) (*db.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
	CountAPIKeysByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	ListAPIKeysByTenant(ctx context.Context, tenantID uuid.UUID) ([]db.APIKey, error)

	CreateTenant(ctx context.Context, t *db.Tenant) error
	GetTenant(ctx context.Context, id uuid.UUID) (*db.Tenant, error)
	ListTenantsByOrganization(ctx context.Context, orgID uuid.UUID) ([]db.Tenant, error)
	UpdateTenant(ctx context.Context, id uuid.UUID, update *db.TenantUpdate) error
	UpdateTenantTier(ctx context.Context, id uuid.UUID, tierKey string) error

	GetOrganization(ctx context.Context, id uuid.UUID) (*db.Organization, error)

	CreateItem(ctx context.Context, it *db.Item) error
	GetItem(ctx context.Context, id uuid.UUID) (*db.Item, error)
	ListItems(ctx context.Context, tenantID uuid.UUID) ([]db.Item, error)
	UpdateItem(ctx context.Context, id uuid.UUID, update *db.ItemUpdate) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	CountItems(ctx context.Context, tenantID uuid.UUID) (int64, error)

	GetBusinessHours(ctx context.Context, tenantID uuid.UUID) ([]db.BusinessHour, error)
	ReplaceBusinessHours(ctx context.Context, tenantID uuid.UUID, hours []db.BusinessHour) error
	GetSpecialHours(ctx context.Context, tenantID uuid.UUID) ([]db.SpecialHour, error)
	ReplaceSpecialHours(ctx context.Context, tenantID uuid.UUID, overrides []db.SpecialHour) error

	ListReviews(ctx context.Context, tenantID uuid.UUID) ([]db.Review, error)
	CreateReview(ctx context.Context, r *db.Review) error

	GetPlatformSettings(ctx context.Context) (*db.PlatformSettings, error)
	UpdatePlatformSettings(ctx context.Context, s *db.PlatformSettings) error

	IncrementDailyAPICalls(ctx context.Context, tenantID uuid.UUID) error
	GetUsageCounts(ctx context.Context, tenantID uuid.UUID, orgID *uuid.UUID) (*db.UsageCounts, error)
}

// Ensure *db.Client implements DBClient interface
var _ DBClient = (*db.Client)(nil)
