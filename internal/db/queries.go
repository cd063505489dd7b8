package db

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// apiKeyColumns is the list of columns to select for API key queries
const apiKeyColumns = `id, key, email, tenant_id, role, platform_admin, rate_limit_rps,
    is_active, expires_at, created_at, last_used_at`

// scanAPIKey scans a database row into an APIKey struct
func scanAPIKey(row interface{ Scan(...any) error }) (*APIKey, error) {
	var key APIKey
	err := row.Scan(
		&key.ID, &key.Key, &key.Email, &key.TenantID, &key.Role,
		&key.PlatformAdmin, &key.RateLimitRPS, &key.IsActive, &key.ExpiresAt,
		&key.CreatedAt, &key.LastUsedAt,
	)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// GetAPIKeyByKey retrieves an API key by its key string.
// Returns an error if the key is not found, deactivated, expired, or if the query fails.
func (c *Client) GetAPIKeyByKey(ctx context.Context, key string) (*APIKey, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM api_keys
		WHERE key = $1
		  AND is_active = true
		  AND (expires_at IS NULL OR expires_at > NOW())
	`, apiKeyColumns)

	apiKey, err := scanAPIKey(c.pool.QueryRow(ctx, query, key))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("API key not found")
		}
		return nil, fmt.Errorf("failed to get API key: %w", err)
	}

	return apiKey, nil
}

// CreateAPIKey creates a new API key for a tenant member with the given role.
// Returns the created key with a newly generated key string.
func (c *Client) CreateAPIKey(ctx context.Context, email string, tenantID uuid.UUID, role string) (*APIKey, error) {
	keyBytes := make([]byte, 32)
	if _, err := rand.Read(keyBytes); err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}
	key := fmt.Sprintf("sk_%s", hex.EncodeToString(keyBytes))

	query := fmt.Sprintf(`
		INSERT INTO api_keys (id, key, email, tenant_id, role, rate_limit_rps, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, 10, true, NOW())
		RETURNING %s
	`, apiKeyColumns)

	apiKey, err := scanAPIKey(c.pool.QueryRow(ctx, query, uuid.New(), key, email, tenantID, role))
	if err != nil {
		return nil, fmt.Errorf("failed to create API key: %w", err)
	}

	return apiKey, nil
}

// UpdateAPIKeyLastUsed updates the last_used_at timestamp for an API key.
func (c *Client) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE api_keys
		SET last_used_at = NOW()
		WHERE id = $1
	`

	result, err := c.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to update API key last used: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("API key not found")
	}

	return nil
}

// CountAPIKeysByTenant returns the number of active keys (members) for a tenant.
func (c *Client) CountAPIKeysByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := c.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM api_keys WHERE tenant_id = $1 AND is_active = true`,
		tenantID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count API keys: %w", err)
	}
	return count, nil
}

// ListAPIKeysByTenant returns the active member keys for a tenant, oldest
// first.
func (c *Client) ListAPIKeysByTenant(ctx context.Context, tenantID uuid.UUID) ([]APIKey, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM api_keys
		WHERE tenant_id = $1 AND is_active = true
		ORDER BY created_at
	`, apiKeyColumns)

	rows, err := c.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list API keys: %w", err)
	}
	defer rows.Close()

	var keys []APIKey
	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan API key: %w", err)
		}
		keys = append(keys, *key)
	}
	return keys, rows.Err()
}

const tenantColumns = `id, organization_id, name, slug, tier_key, timezone, address, is_active, created_at, updated_at`

func scanTenant(row interface{ Scan(...any) error }) (*Tenant, error) {
	var t Tenant
	err := row.Scan(
		&t.ID, &t.OrganizationID, &t.Name, &t.Slug, &t.TierKey,
		&t.Timezone, &t.Address, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTenant inserts a new storefront.
func (c *Client) CreateTenant(ctx context.Context, t *Tenant) error {
	query := `
		INSERT INTO tenants (id, organization_id, name, slug, tier_key, timezone, address, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := c.pool.Exec(ctx, query,
		t.ID, t.OrganizationID, t.Name, t.Slug, t.TierKey,
		t.Timezone, t.Address, t.IsActive, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

// GetTenant retrieves a storefront by ID.
func (c *Client) GetTenant(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM tenants WHERE id = $1`, tenantColumns)

	t, err := scanTenant(c.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("tenant not found")
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return t, nil
}

// ListTenantsByOrganization returns all storefronts belonging to an organization.
func (c *Client) ListTenantsByOrganization(ctx context.Context, orgID uuid.UUID) ([]Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM tenants WHERE organization_id = $1 ORDER BY created_at`, tenantColumns)

	rows, err := c.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, *t)
	}
	return tenants, rows.Err()
}

// UpdateTenant applies non-nil fields of the update to a storefront.
func (c *Client) UpdateTenant(ctx context.Context, id uuid.UUID, update *TenantUpdate) error {
	query := `
		UPDATE tenants
		SET name = COALESCE($2, name),
		    timezone = COALESCE($3, timezone),
		    address = COALESCE($4, address),
		    is_active = COALESCE($5, is_active),
		    updated_at = NOW()
		WHERE id = $1
	`
	result, err := c.pool.Exec(ctx, query, id, update.Name, update.Timezone, update.Address, update.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update tenant: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tenant not found")
	}
	return nil
}

// UpdateTenantTier sets a storefront's subscription tier.
func (c *Client) UpdateTenantTier(ctx context.Context, id uuid.UUID, tierKey string) error {
	result, err := c.pool.Exec(ctx,
		`UPDATE tenants SET tier_key = $2, updated_at = NOW() WHERE id = $1`,
		id, tierKey,
	)
	if err != nil {
		return fmt.Errorf("failed to update tenant tier: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tenant not found")
	}
	return nil
}

// GetOrganization retrieves an organization by ID.
func (c *Client) GetOrganization(ctx context.Context, id uuid.UUID) (*Organization, error) {
	var org Organization
	err := c.pool.QueryRow(ctx,
		`SELECT id, name, tier_key, is_chain, created_at, updated_at FROM organizations WHERE id = $1`,
		id,
	).Scan(&org.ID, &org.Name, &org.TierKey, &org.IsChain, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("organization not found")
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return &org, nil
}

const itemColumns = `id, tenant_id, name, sku, price_cents, quantity, category, is_active, square_object_id, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (*Item, error) {
	var it Item
	err := row.Scan(
		&it.ID, &it.TenantID, &it.Name, &it.SKU, &it.PriceCents,
		&it.Quantity, &it.Category, &it.IsActive, &it.SquareObjectID,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// CreateItem inserts a new inventory item.
func (c *Client) CreateItem(ctx context.Context, it *Item) error {
	query := `
		INSERT INTO items (id, tenant_id, name, sku, price_cents, quantity, category, is_active, square_object_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := c.pool.Exec(ctx, query,
		it.ID, it.TenantID, it.Name, it.SKU, it.PriceCents, it.Quantity,
		it.Category, it.IsActive, it.SquareObjectID, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// GetItem retrieves an inventory item by ID.
func (c *Client) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM items WHERE id = $1`, itemColumns)

	it, err := scanItem(c.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("item not found")
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return it, nil
}

// ListItems returns all items for a tenant, newest first.
func (c *Client) ListItems(ctx context.Context, tenantID uuid.UUID) ([]Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM items WHERE tenant_id = $1 ORDER BY created_at DESC`, itemColumns)

	rows, err := c.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// UpdateItem applies non-nil fields of the update to an item.
func (c *Client) UpdateItem(ctx context.Context, id uuid.UUID, update *ItemUpdate) error {
	query := `
		UPDATE items
		SET name = COALESCE($2, name),
		    sku = COALESCE($3, sku),
		    price_cents = COALESCE($4, price_cents),
		    quantity = COALESCE($5, quantity),
		    category = COALESCE($6, category),
		    is_active = COALESCE($7, is_active),
		    square_object_id = COALESCE($8, square_object_id),
		    updated_at = NOW()
		WHERE id = $1
	`
	result, err := c.pool.Exec(ctx, query, id,
		update.Name, update.SKU, update.PriceCents, update.Quantity,
		update.Category, update.IsActive, update.SquareObjectID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("item not found")
	}
	return nil
}

// DeleteItem removes an inventory item.
func (c *Client) DeleteItem(ctx context.Context, id uuid.UUID) error {
	result, err := c.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("item not found")
	}
	return nil
}

// CountItems returns the number of items a tenant has.
func (c *Client) CountItems(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := c.pool.QueryRow(ctx, `SELECT COUNT(*) FROM items WHERE tenant_id = $1`, tenantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

// GetBusinessHours returns a tenant's weekly schedule ordered by weekday and opening time.
func (c *Client) GetBusinessHours(ctx context.Context, tenantID uuid.UUID) ([]BusinessHour, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT id, tenant_id, weekday, open_at, close_at FROM business_hours WHERE tenant_id = $1 ORDER BY weekday, open_at`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get business hours: %w", err)
	}
	defer rows.Close()

	var hours []BusinessHour
	for rows.Next() {
		var h BusinessHour
		if err := rows.Scan(&h.ID, &h.TenantID, &h.Weekday, &h.OpenAt, &h.CloseAt); err != nil {
			return nil, fmt.Errorf("failed to scan business hour: %w", err)
		}
		hours = append(hours, h)
	}
	return hours, rows.Err()
}

// ReplaceBusinessHours swaps a tenant's entire weekly schedule in one
// transaction. The UI edits the full list and saves it wholesale; there is
// no partial-update path.
func (c *Client) ReplaceBusinessHours(ctx context.Context, tenantID uuid.UUID, hours []BusinessHour) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM business_hours WHERE tenant_id = $1`, tenantID); err != nil {
		return fmt.Errorf("failed to clear business hours: %w", err)
	}

	for _, h := range hours {
		_, err := tx.Exec(ctx,
			`INSERT INTO business_hours (tenant_id, weekday, open_at, close_at) VALUES ($1, $2, $3, $4)`,
			tenantID, h.Weekday, h.OpenAt, h.CloseAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert business hour: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit business hours: %w", err)
	}
	return nil
}

// GetSpecialHours returns a tenant's date overrides ordered by date.
func (c *Client) GetSpecialHours(ctx context.Context, tenantID uuid.UUID) ([]SpecialHour, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT id, tenant_id, to_char(date, 'YYYY-MM-DD'), is_closed, open_at, close_at, note
		 FROM special_hours WHERE tenant_id = $1 ORDER BY date, open_at`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get special hours: %w", err)
	}
	defer rows.Close()

	var overrides []SpecialHour
	for rows.Next() {
		var s SpecialHour
		if err := rows.Scan(&s.ID, &s.TenantID, &s.Date, &s.IsClosed, &s.OpenAt, &s.CloseAt, &s.Note); err != nil {
			return nil, fmt.Errorf("failed to scan special hour: %w", err)
		}
		overrides = append(overrides, s)
	}
	return overrides, rows.Err()
}

// ReplaceSpecialHours swaps a tenant's date overrides in one transaction.
func (c *Client) ReplaceSpecialHours(ctx context.Context, tenantID uuid.UUID, overrides []SpecialHour) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM special_hours WHERE tenant_id = $1`, tenantID); err != nil {
		return fmt.Errorf("failed to clear special hours: %w", err)
	}

	for _, s := range overrides {
		_, err := tx.Exec(ctx,
			`INSERT INTO special_hours (tenant_id, date, is_closed, open_at, close_at, note)
			 VALUES ($1, $2::date, $3, $4, $5, $6)`,
			tenantID, s.Date, s.IsClosed, s.OpenAt, s.CloseAt, s.Note,
		)
		if err != nil {
			return fmt.Errorf("failed to insert special hour: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit special hours: %w", err)
	}
	return nil
}

// ListReviews returns reviews for a tenant, newest first.
func (c *Client) ListReviews(ctx context.Context, tenantID uuid.UUID) ([]Review, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT id, tenant_id, author, rating, comment, created_at FROM reviews WHERE tenant_id = $1 ORDER BY created_at DESC`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.TenantID, &r.Author, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// CreateReview inserts a customer review.
func (c *Client) CreateReview(ctx context.Context, r *Review) error {
	_, err := c.pool.Exec(ctx,
		`INSERT INTO reviews (id, tenant_id, author, rating, comment, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.TenantID, r.Author, r.Rating, r.Comment, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// GetPlatformSettings returns the singleton platform settings row.
func (c *Client) GetPlatformSettings(ctx context.Context) (*PlatformSettings, error) {
	var s PlatformSettings
	err := c.pool.QueryRow(ctx,
		`SELECT maintenance_mode, signups_enabled, default_tier_key, updated_at FROM platform_settings WHERE id = 1`,
	).Scan(&s.MaintenanceMode, &s.SignupsEnabled, &s.DefaultTierKey, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get platform settings: %w", err)
	}
	return &s, nil
}

// UpdatePlatformSettings upserts the singleton platform settings row.
func (c *Client) UpdatePlatformSettings(ctx context.Context, s *PlatformSettings) error {
	_, err := c.pool.Exec(ctx, `
		INSERT INTO platform_settings (id, maintenance_mode, signups_enabled, default_tier_key, updated_at)
		VALUES (1, $1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE SET
			maintenance_mode = EXCLUDED.maintenance_mode,
			signups_enabled = EXCLUDED.signups_enabled,
			default_tier_key = EXCLUDED.default_tier_key,
			updated_at = NOW()
	`, s.MaintenanceMode, s.SignupsEnabled, s.DefaultTierKey)
	if err != nil {
		return fmt.Errorf("failed to update platform settings: %w", err)
	}
	return nil
}

// IncrementDailyAPICalls bumps today's API call counter for a tenant.
// Called fire-and-forget from middleware; failures are non-critical.
func (c *Client) IncrementDailyAPICalls(ctx context.Context, tenantID uuid.UUID) error {
	_, err := c.pool.Exec(ctx, `
		INSERT INTO usage_metrics (tenant_id, date, api_calls)
		VALUES ($1, CURRENT_DATE, 1)
		ON CONFLICT (tenant_id, date) DO UPDATE SET api_calls = usage_metrics.api_calls + 1
	`, tenantID)
	if err != nil {
		return fmt.Errorf("failed to increment API calls: %w", err)
	}
	return nil
}

// GetUsageCounts gathers live resource counts for a tenant: item count,
// member count, today's API calls, sibling location count when the tenant
// belongs to an organization, and a coarse storage estimate.
func (c *Client) GetUsageCounts(ctx context.Context, tenantID uuid.UUID, orgID *uuid.UUID) (*UsageCounts, error) {
	var u UsageCounts

	products, err := c.CountItems(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	u.Products = products

	users, err := c.CountAPIKeysByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	u.Users = users

	u.Locations = 1
	if orgID != nil {
		err := c.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM tenants WHERE organization_id = $1 AND is_active = true`,
			orgID,
		).Scan(&u.Locations)
		if err != nil {
			return nil, fmt.Errorf("failed to count locations: %w", err)
		}
	}

	err = c.pool.QueryRow(ctx,
		`SELECT COALESCE((SELECT api_calls FROM usage_metrics WHERE tenant_id = $1 AND date = CURRENT_DATE), 0)`,
		tenantID,
	).Scan(&u.APICalls)
	if err != nil {
		return nil, fmt.Errorf("failed to get API call count: %w", err)
	}

	// Coarse estimate: ~2KB per item row. Good enough for the usage meter.
	u.StorageGB = float64(products) * 2048 / (1 << 30)

	return &u, nil
}

// Now returns the database's current time. Used by tests and health tooling
// to detect clock skew between app and database.
func (c *Client) Now(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := c.pool.QueryRow(ctx, `SELECT NOW()`).Scan(&now); err != nil {
		return time.Time{}, fmt.Errorf("failed to get database time: %w", err)
	}
	return now, nil
}
