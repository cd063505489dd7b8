package statuscache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/storefront-cloud/internal/db"
	"github.com/storekit/storefront-cloud/internal/hours"
)

func TestNew_NoAddrDisablesCache(t *testing.T) {
	cache, err := New(context.Background(), "", DefaultTTL)
	require.NoError(t, err)
	assert.Nil(t, cache)
}

// A nil cache must behave as an always-miss pass-through so callers never
// branch on whether Redis is configured.
func TestNilCache_PassThrough(t *testing.T) {
	var cache *Cache
	ctx := context.Background()
	id := uuid.New()

	_, ok := cache.GetStatus(ctx, id)
	assert.False(t, ok)
	cache.SetStatus(ctx, id, hours.Status{IsOpen: true, Label: "Open"})
	cache.InvalidateStatus(ctx, id)

	_, ok = cache.GetUsage(ctx, id)
	assert.False(t, ok)
	cache.SetUsage(ctx, id, db.UsageCounts{Products: 1})

	assert.NoError(t, cache.Close())
}

func TestKeys(t *testing.T) {
	id := uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")
	assert.Equal(t, "store:status:"+id.String(), statusKey(id))
	assert.Equal(t, "store:usage:"+id.String(), usageKey(id))
}

func TestDefaultTTL(t *testing.T) {
	assert.Equal(t, 60*time.Second, DefaultTTL)
}
