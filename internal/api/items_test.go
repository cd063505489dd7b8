package api

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/storefront-cloud/internal/db"
	"github.com/storekit/storefront-cloud/internal/square"
)

// mockSquare records upserts and assigns server-side object IDs.
type mockSquare struct {
	upserts []square.CatalogObject
	failOn  map[string]bool // client object IDs that should error
}

func newMockSquare() *mockSquare {
	return &mockSquare{failOn: make(map[string]bool)}
}

func (m *mockSquare) UpsertCatalogObject(ctx context.Context, idempotencyKey string, obj square.CatalogObject) (*square.UpsertResponse, error) {
	if m.failOn[obj.ID] {
		return nil, fmt.Errorf("square: rate limited")
	}
	m.upserts = append(m.upserts, obj)
	assigned := obj
	assigned.ID = "SQ" + uuid.NewString()[:8]
	return &square.UpsertResponse{
		CatalogObject: assigned,
		IDMappings: []square.IDMapping{
			{ClientObjectID: obj.ID, ObjectID: assigned.ID},
		},
	}, nil
}

func (m *mockSquare) RetrieveInventoryCounts(ctx context.Context, catalogObjectIDs, locationIDs []string) ([]square.InventoryCount, error) {
	return nil, nil
}

func TestItemService_CreateItem_Success(t *testing.T) {
	mockDB := newMockDB()
	service := NewItemService(mockDB, nil)

	store := mockDB.seedStore("starter")

	out, err := service.CreateItem(ctxForStore(store.ID, RoleMember), &CreateItemInput{
		ID:   store.ID.String(),
		Body: CreateItemRequest{Name: "Espresso", PriceCents: 350, Quantity: 100},
	})
	require.NoError(t, err)
	assert.Equal(t, "Espresso", out.Body.Name)
	assert.True(t, out.Body.IsActive)

	count, err := mockDB.CountItems(context.Background(), store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestItemService_CreateItem_ProductLimit(t *testing.T) {
	mockDB := newMockDB()
	service := NewItemService(mockDB, nil)

	store := mockDB.seedStore("starter")
	ctx := ctxForStore(store.ID, RoleOwner)

	// Starter caps products at 25.
	for i := 0; i < 25; i++ {
		_, err := service.CreateItem(ctx, &CreateItemInput{
			ID:   store.ID.String(),
			Body: CreateItemRequest{Name: fmt.Sprintf("Item %d", i), PriceCents: 100},
		})
		require.NoError(t, err)
	}

	_, err := service.CreateItem(ctx, &CreateItemInput{
		ID:   store.ID.String(),
		Body: CreateItemRequest{Name: "One Too Many", PriceCents: 100},
	})
	assert.Error(t, err)
}

func TestItemService_CreateItem_AdminBypassesLimit(t *testing.T) {
	mockDB := newMockDB()
	service := NewItemService(mockDB, nil)

	store := mockDB.seedStore("starter")
	for i := 0; i < 25; i++ {
		item := &db.Item{ID: uuid.New(), TenantID: store.ID, Name: fmt.Sprintf("Item %d", i), IsActive: true}
		require.NoError(t, mockDB.CreateItem(context.Background(), item))
	}

	_, err := service.CreateItem(adminCtx(), &CreateItemInput{
		ID:   store.ID.String(),
		Body: CreateItemRequest{Name: "Admin Item", PriceCents: 100},
	})
	assert.NoError(t, err)
}

func TestItemService_UpdateItem_OtherStoresItemNotFound(t *testing.T) {
	mockDB := newMockDB()
	service := NewItemService(mockDB, nil)

	mine := mockDB.seedStore("starter")
	other := mockDB.seedStore("starter")
	item := &db.Item{ID: uuid.New(), TenantID: other.ID, Name: "Theirs", IsActive: true}
	require.NoError(t, mockDB.CreateItem(context.Background(), item))

	name := "Renamed"
	_, err := service.UpdateItem(ctxForStore(mine.ID, RoleOwner), &UpdateItemInput{
		ID:     mine.ID.String(),
		ItemID: item.ID.String(),
		Body:   UpdateItemRequest{Name: &name},
	})
	assert.Error(t, err)
}

func TestItemService_DeleteItem(t *testing.T) {
	mockDB := newMockDB()
	service := NewItemService(mockDB, nil)

	store := mockDB.seedStore("starter")
	item := &db.Item{ID: uuid.New(), TenantID: store.ID, Name: "Gone Soon", IsActive: true}
	require.NoError(t, mockDB.CreateItem(context.Background(), item))

	_, err := service.DeleteItem(ctxForStore(store.ID, RoleOwner), &DeleteItemInput{
		ID:     store.ID.String(),
		ItemID: item.ID.String(),
	})
	require.NoError(t, err)

	_, err = mockDB.GetItem(context.Background(), item.ID)
	assert.Error(t, err)
}

func TestItemService_SyncItems_TierGated(t *testing.T) {
	mockDB := newMockDB()
	service := NewItemService(mockDB, newMockSquare())

	// Starter has no Square integration.
	store := mockDB.seedStore("starter")
	_, err := service.SyncItems(ctxForStore(store.ID, RoleOwner), &SyncItemsInput{ID: store.ID.String()})
	assert.Error(t, err)
}

func TestItemService_SyncItems_PushesActiveItems(t *testing.T) {
	mockDB := newMockDB()
	sq := newMockSquare()
	service := NewItemService(mockDB, sq)

	store := mockDB.seedStore("pro")
	active := &db.Item{ID: uuid.New(), TenantID: store.ID, Name: "Latte", IsActive: true}
	inactive := &db.Item{ID: uuid.New(), TenantID: store.ID, Name: "Retired", IsActive: false}
	require.NoError(t, mockDB.CreateItem(context.Background(), active))
	require.NoError(t, mockDB.CreateItem(context.Background(), inactive))

	out, err := service.SyncItems(ctxForStore(store.ID, RoleOwner), &SyncItemsInput{ID: store.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Body.Synced)
	assert.Empty(t, out.Body.Failed)
	require.Len(t, sq.upserts, 1)
	assert.Equal(t, "Latte", sq.upserts[0].ItemData.Name)

	// The returned Square object ID is recorded for the next sync.
	stored, err := mockDB.GetItem(context.Background(), active.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.SquareObjectID)
	assert.Contains(t, *stored.SquareObjectID, "SQ")
}

func TestItemService_SyncItems_PartialFailure(t *testing.T) {
	mockDB := newMockDB()
	sq := newMockSquare()
	service := NewItemService(mockDB, sq)

	store := mockDB.seedStore("pro")
	good := &db.Item{ID: uuid.New(), TenantID: store.ID, Name: "Good", IsActive: true}
	bad := &db.Item{ID: uuid.New(), TenantID: store.ID, Name: "Bad", IsActive: true}
	require.NoError(t, mockDB.CreateItem(context.Background(), good))
	require.NoError(t, mockDB.CreateItem(context.Background(), bad))
	sq.failOn["#"+bad.ID.String()] = true

	out, err := service.SyncItems(ctxForStore(store.ID, RoleOwner), &SyncItemsInput{ID: store.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Body.Synced)
	assert.Equal(t, []string{bad.ID.String()}, out.Body.Failed)
}

func TestItemService_SyncItems_NotConfigured(t *testing.T) {
	mockDB := newMockDB()
	service := NewItemService(mockDB, nil)

	store := mockDB.seedStore("enterprise")
	_, err := service.SyncItems(ctxForStore(store.ID, RoleOwner), &SyncItemsInput{ID: store.ID.String()})
	assert.Error(t, err)
}
