package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/storekit/storefront-cloud/internal/tier"
)

// ctxKey is a type for context keys to avoid collisions
type ctxKey string

const (
	ctxAPIKeyID        ctxKey = "api_key_id"
	ctxAPIKeyRateLimit ctxKey = "api_key_rate_limit"
	ctxTenantID        ctxKey = "tenant_id"
	ctxActor           ctxKey = "actor"
)

// GetAPIKeyID retrieves the API key ID from the request context.
// Returns the API key ID and true if found, otherwise returns a zero UUID and false.
func GetAPIKeyID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxAPIKeyID).(uuid.UUID)
	return id, ok
}

// WithAPIKeyID adds the API key ID to the request context.
// This is typically called by authentication middleware after validating the API key.
func WithAPIKeyID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxAPIKeyID, id)
}

// GetAPIKeyRateLimit retrieves the rate limit (RPS) from the request context.
func GetAPIKeyRateLimit(ctx context.Context) (int, bool) {
	limit, ok := ctx.Value(ctxAPIKeyRateLimit).(int)
	return limit, ok
}

// WithAPIKeyRateLimit adds the rate limit to the request context.
func WithAPIKeyRateLimit(ctx context.Context, rateLimit int) context.Context {
	return context.WithValue(ctx, ctxAPIKeyRateLimit, rateLimit)
}

// GetTenantID retrieves the authenticated key's tenant from the context.
// Platform-admin keys carry no tenant, so ok may be false for a valid key.
func GetTenantID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxTenantID).(uuid.UUID)
	return id, ok
}

// WithTenantID adds the tenant ID to the request context.
func WithTenantID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxTenantID, id)
}

// GetActor retrieves the access-check actor (role + platform-admin flag)
// from the context. Absent actor means no privileges: checks fail closed.
func GetActor(ctx context.Context) tier.Actor {
	a, _ := ctx.Value(ctxActor).(tier.Actor)
	return a
}

// WithActor adds the access-check actor to the request context.
func WithActor(ctx context.Context, a tier.Actor) context.Context {
	return context.WithValue(ctx, ctxActor, a)
}
