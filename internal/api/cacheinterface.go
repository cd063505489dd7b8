package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/storekit/storefront-cloud/internal/db"
	"github.com/storekit/storefront-cloud/internal/hours"
	"github.com/storekit/storefront-cloud/internal/statuscache"
)

// StatusCache defines the cache operations used by the API services.
// A nil *statuscache.Cache satisfies it as an always-miss pass-through.
type StatusCache interface {
	GetStatus(ctx context.Context, tenantID uuid.UUID) (hours.Status, bool)
	SetStatus(ctx context.Context, tenantID uuid.UUID, s hours.Status)
	InvalidateStatus(ctx context.Context, tenantID uuid.UUID)
	GetUsage(ctx context.Context, tenantID uuid.UUID) (db.UsageCounts, bool)
	SetUsage(ctx context.Context, tenantID uuid.UUID, u db.UsageCounts)
}

// Ensure *statuscache.Cache implements StatusCache interface
var _ StatusCache = (*statuscache.Cache)(nil)
