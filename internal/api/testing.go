package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storekit/storefront-cloud/internal/db"
	"github.com/storekit/storefront-cloud/internal/hours"
)

// mockDB implements a test double for db.Client
type mockDB struct {
	mu            sync.RWMutex
	apiKeys       map[string]*db.APIKey
	lastUsedCalls map[uuid.UUID]int
	apiCallCounts map[uuid.UUID]int64
	tenants       map[uuid.UUID]*db.Tenant
	organizations map[uuid.UUID]*db.Organization
	items         map[uuid.UUID]*db.Item
	businessHours map[uuid.UUID][]db.BusinessHour
	specialHours  map[uuid.UUID][]db.SpecialHour
	reviews       map[uuid.UUID][]db.Review
	settings      db.PlatformSettings

	// replaceHoursCalls counts schedule writes so tests can assert that
	// invalid input was rejected before any save.
	replaceHoursCalls int
}

func newMockDB() *mockDB {
	return &mockDB{
		apiKeys:       make(map[string]*db.APIKey),
		lastUsedCalls: make(map[uuid.UUID]int),
		apiCallCounts: make(map[uuid.UUID]int64),
		tenants:       make(map[uuid.UUID]*db.Tenant),
		organizations: make(map[uuid.UUID]*db.Organization),
		items:         make(map[uuid.UUID]*db.Item),
		businessHours: make(map[uuid.UUID][]db.BusinessHour),
		specialHours:  make(map[uuid.UUID][]db.SpecialHour),
		reviews:       make(map[uuid.UUID][]db.Review),
		settings: db.PlatformSettings{
			SignupsEnabled: true,
			DefaultTierKey: "starter",
		},
	}
}

func randHex(n int) string {
	b := make([]byte, n/2)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func (m *mockDB) GetAPIKeyByKey(ctx context.Context, key string) (*db.APIKey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	apiKey, ok := m.apiKeys[key]
	if !ok {
		return nil, fmt.Errorf("API key not found")
	}
	// Return a copy to avoid race conditions
	keyCopy := *apiKey
	return &keyCopy, nil
}

func (m *mockDB) CreateAPIKey(ctx context.Context, email string, tenantID uuid.UUID, role string) (*db.APIKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf("sk_test_%s", randHex(32))
	apiKey := &db.APIKey{
		ID:           uuid.New(),
		Key:          key,
		Email:        &email,
		TenantID:     &tenantID,
		Role:         role,
		RateLimitRPS: 10,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	m.apiKeys[key] = apiKey
	return apiKey, nil
}

func (m *mockDB) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastUsedCalls[id]++
	return nil
}

func (m *mockDB) CountAPIKeysByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, apiKey := range m.apiKeys {
		if apiKey.TenantID != nil && *apiKey.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

func (m *mockDB) ListAPIKeysByTenant(ctx context.Context, tenantID uuid.UUID) ([]db.APIKey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []db.APIKey
	for _, apiKey := range m.apiKeys {
		if apiKey.IsActive && apiKey.TenantID != nil && *apiKey.TenantID == tenantID {
			keys = append(keys, *apiKey)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].CreatedAt.Before(keys[j].CreatedAt) })
	return keys, nil
}

func (m *mockDB) CreateTenant(ctx context.Context, t *db.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.tenants {
		if existing.Slug == t.Slug {
			return fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	tenantCopy := *t
	m.tenants[t.ID] = &tenantCopy
	return nil
}

func (m *mockDB) GetTenant(ctx context.Context, id uuid.UUID) (*db.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tenants[id]
	if !ok {
		return nil, fmt.Errorf("tenant not found")
	}
	tenantCopy := *t
	return &tenantCopy, nil
}

func (m *mockDB) ListTenantsByOrganization(ctx context.Context, orgID uuid.UUID) ([]db.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var tenants []db.Tenant
	for _, t := range m.tenants {
		if t.OrganizationID != nil && *t.OrganizationID == orgID {
			tenants = append(tenants, *t)
		}
	}
	return tenants, nil
}

func (m *mockDB) UpdateTenant(ctx context.Context, id uuid.UUID, update *db.TenantUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tenants[id]
	if !ok {
		return fmt.Errorf("tenant not found")
	}
	if update.Name != nil {
		t.Name = *update.Name
	}
	if update.Timezone != nil {
		t.Timezone = *update.Timezone
	}
	if update.Address != nil {
		t.Address = update.Address
	}
	if update.IsActive != nil {
		t.IsActive = *update.IsActive
	}
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *mockDB) UpdateTenantTier(ctx context.Context, id uuid.UUID, tierKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tenants[id]
	if !ok {
		return fmt.Errorf("tenant not found")
	}
	t.TierKey = tierKey
	return nil
}

func (m *mockDB) GetOrganization(ctx context.Context, id uuid.UUID) (*db.Organization, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	org, ok := m.organizations[id]
	if !ok {
		return nil, fmt.Errorf("organization not found")
	}
	orgCopy := *org
	return &orgCopy, nil
}

func (m *mockDB) CreateItem(ctx context.Context, it *db.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	itemCopy := *it
	m.items[it.ID] = &itemCopy
	return nil
}

func (m *mockDB) GetItem(ctx context.Context, id uuid.UUID) (*db.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("item not found")
	}
	itemCopy := *it
	return &itemCopy, nil
}

func (m *mockDB) ListItems(ctx context.Context, tenantID uuid.UUID) ([]db.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var items []db.Item
	for _, it := range m.items {
		if it.TenantID == tenantID {
			items = append(items, *it)
		}
	}
	return items, nil
}

func (m *mockDB) UpdateItem(ctx context.Context, id uuid.UUID, update *db.ItemUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[id]
	if !ok {
		return fmt.Errorf("item not found")
	}
	if update.Name != nil {
		it.Name = *update.Name
	}
	if update.SKU != nil {
		it.SKU = update.SKU
	}
	if update.PriceCents != nil {
		it.PriceCents = *update.PriceCents
	}
	if update.Quantity != nil {
		it.Quantity = *update.Quantity
	}
	if update.Category != nil {
		it.Category = update.Category
	}
	if update.IsActive != nil {
		it.IsActive = *update.IsActive
	}
	if update.SquareObjectID != nil {
		it.SquareObjectID = update.SquareObjectID
	}
	it.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *mockDB) DeleteItem(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("item not found")
	}
	delete(m.items, id)
	return nil
}

func (m *mockDB) CountItems(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, it := range m.items {
		if it.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

func (m *mockDB) GetBusinessHours(ctx context.Context, tenantID uuid.UUID) ([]db.BusinessHour, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]db.BusinessHour(nil), m.businessHours[tenantID]...), nil
}

func (m *mockDB) ReplaceBusinessHours(ctx context.Context, tenantID uuid.UUID, rows []db.BusinessHour) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.replaceHoursCalls++
	m.businessHours[tenantID] = append([]db.BusinessHour(nil), rows...)
	return nil
}

func (m *mockDB) GetSpecialHours(ctx context.Context, tenantID uuid.UUID) ([]db.SpecialHour, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]db.SpecialHour(nil), m.specialHours[tenantID]...), nil
}

func (m *mockDB) ReplaceSpecialHours(ctx context.Context, tenantID uuid.UUID, overrides []db.SpecialHour) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.specialHours[tenantID] = append([]db.SpecialHour(nil), overrides...)
	return nil
}

func (m *mockDB) ListReviews(ctx context.Context, tenantID uuid.UUID) ([]db.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]db.Review(nil), m.reviews[tenantID]...), nil
}

func (m *mockDB) CreateReview(ctx context.Context, r *db.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reviews[r.TenantID] = append(m.reviews[r.TenantID], *r)
	return nil
}

func (m *mockDB) GetPlatformSettings(ctx context.Context) (*db.PlatformSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	settingsCopy := m.settings
	return &settingsCopy, nil
}

func (m *mockDB) UpdatePlatformSettings(ctx context.Context, s *db.PlatformSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings = *s
	m.settings.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *mockDB) IncrementDailyAPICalls(ctx context.Context, tenantID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.apiCallCounts[tenantID]++
	return nil
}

func (m *mockDB) GetUsageCounts(ctx context.Context, tenantID uuid.UUID, orgID *uuid.UUID) (*db.UsageCounts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := &db.UsageCounts{
		APICalls: m.apiCallCounts[tenantID],
	}
	for _, it := range m.items {
		if it.TenantID == tenantID {
			counts.Products++
		}
	}
	for _, apiKey := range m.apiKeys {
		if apiKey.TenantID != nil && *apiKey.TenantID == tenantID {
			counts.Users++
		}
	}
	if orgID != nil {
		for _, t := range m.tenants {
			if t.OrganizationID != nil && *t.OrganizationID == *orgID {
				counts.Locations++
			}
		}
	} else {
		counts.Locations = 1
	}
	return counts, nil
}

var _ DBClient = (*mockDB)(nil)

// mockCache is an in-memory StatusCache test double.
type mockCache struct {
	mu          sync.Mutex
	statuses    map[uuid.UUID]hours.Status
	usage       map[uuid.UUID]db.UsageCounts
	invalidated int
}

func newMockCache() *mockCache {
	return &mockCache{
		statuses: make(map[uuid.UUID]hours.Status),
		usage:    make(map[uuid.UUID]db.UsageCounts),
	}
}

func (c *mockCache) GetStatus(ctx context.Context, tenantID uuid.UUID) (hours.Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.statuses[tenantID]
	return s, ok
}

func (c *mockCache) SetStatus(ctx context.Context, tenantID uuid.UUID, s hours.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[tenantID] = s
}

func (c *mockCache) InvalidateStatus(ctx context.Context, tenantID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.statuses, tenantID)
	c.invalidated++
}

func (c *mockCache) GetUsage(ctx context.Context, tenantID uuid.UUID) (db.UsageCounts, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.usage[tenantID]
	return u, ok
}

func (c *mockCache) SetUsage(ctx context.Context, tenantID uuid.UUID, u db.UsageCounts) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.usage[tenantID] = u
}

var _ StatusCache = (*mockCache)(nil)

// seedStore inserts a tenant with the given tier and returns it.
func (m *mockDB) seedStore(tierKey string) *db.Tenant {
	now := time.Now().UTC()
	t := &db.Tenant{
		ID:        uuid.New(),
		Name:      "Test Store",
		Slug:      "test-store-" + randHex(8),
		TierKey:   tierKey,
		Timezone:  "UTC",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.tenants[t.ID] = t
	return t
}
