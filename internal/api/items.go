package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/storekit/storefront-cloud/internal/db"
	"github.com/storekit/storefront-cloud/internal/square"
	"github.com/storekit/storefront-cloud/internal/tier"
)

// SquareClient defines the Square Connect operations used by item sync.
type SquareClient interface {
	UpsertCatalogObject(ctx context.Context, idempotencyKey string, obj square.CatalogObject) (*square.UpsertResponse, error)
	RetrieveInventoryCounts(ctx context.Context, catalogObjectIDs, locationIDs []string) ([]square.InventoryCount, error)
}

var _ SquareClient = (*square.Client)(nil)

// ItemService handles catalog item CRUD and POS synchronization.
type ItemService struct {
	db     DBClient
	square SquareClient
}

// NewItemService creates a new ItemService. A nil square client disables
// sync regardless of tier.
func NewItemService(db DBClient, sq SquareClient) *ItemService {
	return &ItemService{db: db, square: sq}
}

// ListItems handles GET /v1/stores/{id}/items
func (s *ItemService) ListItems(ctx context.Context, input *ListItemsInput) (*ListItemsOutput, error) {
	store, err := s.loadStore(ctx, input.ID, tier.PermView)
	if err != nil {
		return nil, err
	}

	items, err := s.db.ListItems(ctx, store.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list items", err)
	}

	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, itemResponse(&it))
	}
	return &ListItemsOutput{Body: ListItemsResponse{Items: out}}, nil
}

// CreateItem handles POST /v1/stores/{id}/items
// Enforces the products limit of the resolved tier before inserting.
func (s *ItemService) CreateItem(ctx context.Context, input *CreateItemInput) (*CreateItemOutput, error) {
	store, err := s.loadStore(ctx, input.ID, tier.PermCreate)
	if err != nil {
		return nil, err
	}
	if input.Body.Name == "" {
		return nil, huma.Error400BadRequest("name is required")
	}
	if input.Body.PriceCents < 0 {
		return nil, huma.Error400BadRequest("priceCents must not be negative")
	}

	resolved := resolveStoreTier(ctx, s.db, store)
	count, err := s.db.CountItems(ctx, store.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to count items", err)
	}
	if err := requireLimit(ctx, resolved.Effective, tier.LimitProducts, count); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := &db.Item{
		ID:         uuid.New(),
		TenantID:   store.ID,
		Name:       input.Body.Name,
		SKU:        input.Body.SKU,
		PriceCents: input.Body.PriceCents,
		Quantity:   input.Body.Quantity,
		Category:   input.Body.Category,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.db.CreateItem(ctx, item); err != nil {
		return nil, huma.Error500InternalServerError("failed to create item", err)
	}

	return &CreateItemOutput{Body: itemResponse(item)}, nil
}

// UpdateItem handles PATCH /v1/stores/{id}/items/{itemId}
func (s *ItemService) UpdateItem(ctx context.Context, input *UpdateItemInput) (*UpdateItemOutput, error) {
	store, err := s.loadStore(ctx, input.ID, tier.PermEdit)
	if err != nil {
		return nil, err
	}
	item, err := s.loadStoreItem(ctx, store.ID, input.ItemID)
	if err != nil {
		return nil, err
	}
	if input.Body.PriceCents != nil && *input.Body.PriceCents < 0 {
		return nil, huma.Error400BadRequest("priceCents must not be negative")
	}

	update := &db.ItemUpdate{
		Name:       input.Body.Name,
		SKU:        input.Body.SKU,
		PriceCents: input.Body.PriceCents,
		Quantity:   input.Body.Quantity,
		Category:   input.Body.Category,
		IsActive:   input.Body.IsActive,
	}
	if err := s.db.UpdateItem(ctx, item.ID, update); err != nil {
		return nil, huma.Error500InternalServerError("failed to update item", err)
	}

	updated, err := s.db.GetItem(ctx, item.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get item", err)
	}
	return &UpdateItemOutput{Body: itemResponse(updated)}, nil
}

// DeleteItem handles DELETE /v1/stores/{id}/items/{itemId}
func (s *ItemService) DeleteItem(ctx context.Context, input *DeleteItemInput) (*DeleteItemOutput, error) {
	store, err := s.loadStore(ctx, input.ID, tier.PermDelete)
	if err != nil {
		return nil, err
	}
	item, err := s.loadStoreItem(ctx, store.ID, input.ItemID)
	if err != nil {
		return nil, err
	}
	if err := s.db.DeleteItem(ctx, item.ID); err != nil {
		return nil, huma.Error500InternalServerError("failed to delete item", err)
	}
	return &DeleteItemOutput{}, nil
}

// SyncItems handles POST /v1/stores/{id}/items/sync
// Pushes every active item to Square's catalog and records the returned
// object IDs. Square integration is gated by tier. Sync is best-effort per
// item: a failed upsert is reported but does not abort the batch.
func (s *ItemService) SyncItems(ctx context.Context, input *SyncItemsInput) (*SyncItemsOutput, error) {
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
	if err := requireAccess(ctx, resolved.Effective, tier.Check{
		Feature:    FeatureSquare,
		Permission: tier.PermEdit,
	}); err != nil {
		return nil, err
	}
	if s.square == nil {
		return nil, huma.Error503ServiceUnavailable("Square integration is not configured")
	}

	items, err := s.db.ListItems(ctx, store.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list items", err)
	}

	synced := 0
	var failed []string
	for _, it := range items {
		if !it.IsActive {
			continue
		}
		objectID := "#" + it.ID.String()
		if it.SquareObjectID != nil {
			objectID = *it.SquareObjectID
		}
		obj := square.CatalogObject{
			Type: "ITEM",
			ID:   objectID,
			ItemData: &square.ItemData{
				Name: it.Name,
			},
			PresentAtAllLocations: true,
		}
		resp, err := s.square.UpsertCatalogObject(ctx, syncIdempotencyKey(it), obj)
		if err != nil {
			slog.Warn("square upsert failed", "item_id", it.ID, "error", err)
			failed = append(failed, it.ID.String())
			continue
		}
		synced++

		if it.SquareObjectID == nil {
			squareID := resp.CatalogObject.ID
			for _, m := range resp.IDMappings {
				if m.ClientObjectID == objectID {
					squareID = m.ObjectID
				}
			}
			if err := s.db.UpdateItem(ctx, it.ID, &db.ItemUpdate{SquareObjectID: &squareID}); err != nil {
				slog.Warn("failed to record square object ID", "item_id", it.ID, "error", err)
			}
		}
	}

	return &SyncItemsOutput{Body: SyncItemsResponse{Synced: synced, Failed: failed}}, nil
}

// syncIdempotencyKey makes Square dedupe retried upserts of the same item
// revision.
func syncIdempotencyKey(it db.Item) string {
	return fmt.Sprintf("%s-%d", it.ID, it.UpdatedAt.Unix())
}

// loadStore resolves scope, fetches the store, and applies the items tier
// gate for the given permission.
func (s *ItemService) loadStore(ctx context.Context, id string, perm tier.Permission) (*db.Tenant, error) {
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
	resolved := resolveStoreTier(ctx, s.db, store)
	if err := requireAccess(ctx, resolved.Effective, tier.Check{
		Feature:    FeatureItems,
		Permission: perm,
	}); err != nil {
		return nil, err
	}
	return store, nil
}

// loadStoreItem fetches an item and confirms it belongs to the store.
func (s *ItemService) loadStoreItem(ctx context.Context, storeID uuid.UUID, id string) (*db.Item, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid item ID")
	}
	item, err := s.db.GetItem(ctx, itemID)
	if err != nil || item.TenantID != storeID {
		return nil, huma.Error404NotFound("item not found")
	}
	return item, nil
}

func itemResponse(it *db.Item) ItemResponse {
	return ItemResponse{
		ID:             it.ID.String(),
		Name:           it.Name,
		SKU:            it.SKU,
		PriceCents:     it.PriceCents,
		Quantity:       it.Quantity,
		Category:       it.Category,
		IsActive:       it.IsActive,
		SquareObjectID: it.SquareObjectID,
		CreatedAt:      it.CreatedAt.Format(timestampLayout),
	}
}
