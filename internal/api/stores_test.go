package api

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/storefront-cloud/internal/db"
	"github.com/storekit/storefront-cloud/internal/hours"
	"github.com/storekit/storefront-cloud/internal/tier"
)

// ctxForStore builds a request context authenticated as a key of the given
// store and role.
func ctxForStore(storeID uuid.UUID, role string) context.Context {
	ctx := WithTenantID(context.Background(), storeID)
	ctx = WithActor(ctx, tier.Actor{Role: tier.Role(role)})
	return WithAPIKeyID(ctx, uuid.New())
}

func adminCtx() context.Context {
	ctx := WithActor(context.Background(), tier.Actor{PlatformAdmin: true})
	return ctx
}

func TestStoreService_Signup_Success(t *testing.T) {
	mockDB := newMockDB()
	service := NewStoreService(mockDB, newMockCache())

	out, err := service.Signup(context.Background(), &SignupInput{
		Body: SignupRequest{
			Email:     "owner@corner.shop",
			StoreName: "Corner Shop",
			Timezone:  "America/New_York",
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, out.Body.StoreID)
	assert.Contains(t, out.Body.Key, "sk_")
	assert.Equal(t, "starter", out.Body.Tier)

	storeID, err := uuid.Parse(out.Body.StoreID)
	require.NoError(t, err)
	store, err := mockDB.GetTenant(context.Background(), storeID)
	require.NoError(t, err)
	assert.Equal(t, "corner-shop", store.Slug)
	assert.Equal(t, "America/New_York", store.Timezone)
}

func TestStoreService_Signup_Disabled(t *testing.T) {
	mockDB := newMockDB()
	mockDB.settings.SignupsEnabled = false
	service := NewStoreService(mockDB, newMockCache())

	_, err := service.Signup(context.Background(), &SignupInput{
		Body: SignupRequest{Email: "a@b.c", StoreName: "Shop"},
	})
	assert.Error(t, err)
}

func TestStoreService_Signup_BadTimezone(t *testing.T) {
	mockDB := newMockDB()
	service := NewStoreService(mockDB, newMockCache())

	_, err := service.Signup(context.Background(), &SignupInput{
		Body: SignupRequest{Email: "a@b.c", StoreName: "Shop", Timezone: "Mars/Olympus"},
	})
	assert.Error(t, err)
}

func TestStoreService_Signup_DuplicateSlug(t *testing.T) {
	mockDB := newMockDB()
	service := NewStoreService(mockDB, newMockCache())

	_, err := service.Signup(context.Background(), &SignupInput{
		Body: SignupRequest{Email: "a@b.c", StoreName: "Shop", Slug: "shop"},
	})
	require.NoError(t, err)

	_, err = service.Signup(context.Background(), &SignupInput{
		Body: SignupRequest{Email: "d@e.f", StoreName: "Other Shop", Slug: "shop"},
	})
	assert.Error(t, err)
}

func TestStoreService_GetStore_ScopedToOwnTenant(t *testing.T) {
	mockDB := newMockDB()
	service := NewStoreService(mockDB, newMockCache())

	mine := mockDB.seedStore("starter")
	other := mockDB.seedStore("starter")

	out, err := service.GetStore(ctxForStore(mine.ID, RoleOwner), &GetStoreInput{ID: mine.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, mine.ID.String(), out.Body.ID)

	// Another tenant's store must read as not-found, not forbidden.
	_, err = service.GetStore(ctxForStore(mine.ID, RoleOwner), &GetStoreInput{ID: other.ID.String()})
	assert.Error(t, err)
}

func TestStoreService_GetStore_PlatformAdminCrossTenant(t *testing.T) {
	mockDB := newMockDB()
	service := NewStoreService(mockDB, newMockCache())

	store := mockDB.seedStore("pro")

	out, err := service.GetStore(adminCtx(), &GetStoreInput{ID: store.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, store.ID.String(), out.Body.ID)
}

func TestStoreService_CreateStore_LocationLimit(t *testing.T) {
	mockDB := newMockDB()
	service := NewStoreService(mockDB, newMockCache())

	orgID := uuid.New()
	mockDB.organizations[orgID] = &db.Organization{ID: orgID, Name: "Chain", TierKey: "starter", IsChain: true}
	store := mockDB.seedStore("starter")
	store.OrganizationID = &orgID

	// Starter allows a single location and this org already has one.
	_, err := service.CreateStore(ctxForStore(store.ID, RoleOwner), &CreateStoreInput{
		Body: CreateStoreRequest{Name: "Second Location"},
	})
	assert.Error(t, err)
}

func TestStoreService_CreateStore_Success(t *testing.T) {
	mockDB := newMockDB()
	service := NewStoreService(mockDB, newMockCache())

	orgID := uuid.New()
	mockDB.organizations[orgID] = &db.Organization{ID: orgID, Name: "Chain", TierKey: "pro", IsChain: true}
	store := mockDB.seedStore("pro")
	store.OrganizationID = &orgID

	out, err := service.CreateStore(ctxForStore(store.ID, RoleOwner), &CreateStoreInput{
		Body: CreateStoreRequest{Name: "Second Location"},
	})
	require.NoError(t, err)
	assert.Equal(t, "second-location", out.Body.Slug)
	require.NotNil(t, out.Body.OrganizationID)
	assert.Equal(t, orgID.String(), *out.Body.OrganizationID)
	// New locations inherit the creating store's timezone and tier.
	assert.Equal(t, "pro", out.Body.Tier)
	assert.Equal(t, store.Timezone, out.Body.Timezone)
}

func TestStoreService_CreateStore_ViewerDenied(t *testing.T) {
	mockDB := newMockDB()
	service := NewStoreService(mockDB, newMockCache())

	orgID := uuid.New()
	mockDB.organizations[orgID] = &db.Organization{ID: orgID, Name: "Chain", TierKey: "pro", IsChain: true}
	store := mockDB.seedStore("pro")
	store.OrganizationID = &orgID

	_, err := service.CreateStore(ctxForStore(store.ID, RoleViewer), &CreateStoreInput{
		Body: CreateStoreRequest{Name: "Second Location"},
	})
	assert.Error(t, err)
}

func TestStoreService_GetStatus_UsesCache(t *testing.T) {
	mockDB := newMockDB()
	cache := newMockCache()
	service := NewStoreService(mockDB, cache)

	store := mockDB.seedStore("starter")
	cache.SetStatus(context.Background(), store.ID, hours.Status{IsOpen: true, Label: "Open until 17:00"})

	out, err := service.GetStatus(ctxForStore(store.ID, RoleViewer), &GetStoreStatusInput{ID: store.ID.String()})
	require.NoError(t, err)
	assert.True(t, out.Body.IsOpen)
	assert.Equal(t, "Open until 17:00", out.Body.Label)
}

func TestStoreService_GetStatus_ComputesAndCaches(t *testing.T) {
	mockDB := newMockDB()
	cache := newMockCache()
	service := NewStoreService(mockDB, cache)

	store := mockDB.seedStore("starter")
	// Open every day all day so the computed status is deterministic.
	for day := 0; day <= 6; day++ {
		mockDB.businessHours[store.ID] = append(mockDB.businessHours[store.ID], db.BusinessHour{
			TenantID: store.ID, Weekday: day, OpenAt: "00:00", CloseAt: "23:59",
		})
	}

	out, err := service.GetStatus(ctxForStore(store.ID, RoleViewer), &GetStoreStatusInput{ID: store.ID.String()})
	require.NoError(t, err)
	assert.True(t, out.Body.IsOpen)

	_, ok := cache.GetStatus(context.Background(), store.ID)
	assert.True(t, ok, "computed status should be cached")
}

func TestStoreService_UpdateStore_TimezoneInvalidatesStatus(t *testing.T) {
	mockDB := newMockDB()
	cache := newMockCache()
	service := NewStoreService(mockDB, cache)

	store := mockDB.seedStore("starter")
	cache.SetStatus(context.Background(), store.ID, hours.Status{IsOpen: true, Label: "Open"})

	tz := "Europe/Berlin"
	_, err := service.UpdateStore(ctxForStore(store.ID, RoleOwner), &UpdateStoreInput{
		ID:   store.ID.String(),
		Body: UpdateStoreRequest{Timezone: &tz},
	})
	require.NoError(t, err)

	_, ok := cache.GetStatus(context.Background(), store.ID)
	assert.False(t, ok, "timezone change should invalidate cached status")

	updated, err := mockDB.GetTenant(context.Background(), store.ID)
	require.NoError(t, err)
	assert.Equal(t, tz, updated.Timezone)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "corner-shop", slugify("Corner Shop"))
	assert.Equal(t, "joe-s-caf-2", slugify("Joe's Café +2"))
	assert.Equal(t, "", slugify("!!!"))
}
