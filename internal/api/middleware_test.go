package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/storefront-cloud/internal/db"
	"github.com/storekit/storefront-cloud/internal/tier"
)

func seedAPIKey(m *mockDB, tenantID uuid.UUID, role string, platformAdmin bool) *db.APIKey {
	email := "owner@test.shop"
	key := &db.APIKey{
		ID:            uuid.New(),
		Key:           "sk_test_" + randHex(32),
		Email:         &email,
		TenantID:      &tenantID,
		Role:          role,
		PlatformAdmin: platformAdmin,
		RateLimitRPS:  10,
		IsActive:      true,
		CreatedAt:     time.Now().UTC(),
	}
	m.apiKeys[key.Key] = key
	return key
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	mockDB := newMockDB()
	handler := AuthMiddleware(mockDB)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/v1/stores/x", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_InvalidKey(t *testing.T) {
	mockDB := newMockDB()
	handler := AuthMiddleware(mockDB)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/v1/stores/x", nil)
	req.Header.Set("Authorization", "Bearer sk_bogus")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_SetsIdentity(t *testing.T) {
	mockDB := newMockDB()
	store := mockDB.seedStore("pro")
	apiKey := seedAPIKey(mockDB, store.ID, RoleManager, false)

	var gotKeyID, gotTenantID uuid.UUID
	var gotActor tier.Actor
	var gotLimit int
	handler := AuthMiddleware(mockDB)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKeyID, _ = GetAPIKeyID(r.Context())
		gotTenantID, _ = GetTenantID(r.Context())
		gotActor = GetActor(r.Context())
		gotLimit, _ = GetAPIKeyRateLimit(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/v1/stores/x", nil)
	req.Header.Set("Authorization", "Bearer "+apiKey.Key)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, apiKey.ID, gotKeyID)
	assert.Equal(t, store.ID, gotTenantID)
	assert.Equal(t, tier.Role(RoleManager), gotActor.Role)
	assert.False(t, gotActor.PlatformAdmin)
	assert.Equal(t, 10, gotLimit)
}

func TestMaintenanceMiddleware_BlocksNonAdmins(t *testing.T) {
	mockDB := newMockDB()
	mockDB.settings.MaintenanceMode = true

	handler := MaintenanceMiddleware(mockDB)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/v1/stores/x", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// Platform admins pass through.
	req = httptest.NewRequest("GET", "/v1/stores/x", nil)
	req = req.WithContext(WithActor(req.Context(), tier.Actor{PlatformAdmin: true}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_EnforcesPerKeyBudget(t *testing.T) {
	rl := NewRateLimiter()
	keyID := uuid.New()

	// A budget of 2 RPS grants 2 immediate tokens.
	assert.True(t, rl.allow("key:"+keyID.String(), 2))
	assert.True(t, rl.allow("key:"+keyID.String(), 2))
	assert.False(t, rl.allow("key:"+keyID.String(), 2))
}

func TestRateLimiter_IndependentBuckets(t *testing.T) {
	rl := NewRateLimiter()

	assert.True(t, rl.allow("key:a", 1))
	assert.False(t, rl.allow("key:a", 1))
	// A different caller is unaffected.
	assert.True(t, rl.allow("key:b", 1))
	// IP buckets are namespaced separately from key buckets.
	assert.True(t, rl.allow("ip:a", 1))
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	keyID := uuid.New()
	makeReq := func() *http.Request {
		req := httptest.NewRequest("GET", "/v1/stores/x", nil)
		ctx := WithAPIKeyID(req.Context(), keyID)
		ctx = WithAPIKeyRateLimit(ctx, 1)
		return req.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, makeReq())
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, makeReq())
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestRateLimiter_MiddlewareWithoutAuthContext(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/v1/stores/x", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
