package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/storefront-cloud/internal/db"
)

func TestHoursService_PutHours_RoundTrip(t *testing.T) {
	mockDB := newMockDB()
	service := NewHoursService(mockDB, newMockCache())

	store := mockDB.seedStore("starter")
	ctx := ctxForStore(store.ID, RoleOwner)

	periods := []WeeklyPeriodPayload{
		{Day: 1, Open: "09:00", Close: "12:00"},
		{Day: 1, Open: "13:00", Close: "17:00"},
		{Day: 2, Open: "09:00", Close: "17:00"},
	}
	_, err := service.PutHours(ctx, &PutHoursInput{
		ID:   store.ID.String(),
		Body: PutHoursRequest{Periods: periods},
	})
	require.NoError(t, err)

	out, err := service.GetHours(ctx, &GetHoursInput{ID: store.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, periods, out.Body.Periods)
	assert.Equal(t, store.Timezone, out.Body.Timezone)
}

func TestHoursService_PutHours_OverlapRejectedBeforeSave(t *testing.T) {
	mockDB := newMockDB()
	service := NewHoursService(mockDB, newMockCache())

	store := mockDB.seedStore("starter")

	_, err := service.PutHours(ctxForStore(store.ID, RoleOwner), &PutHoursInput{
		ID: store.ID.String(),
		Body: PutHoursRequest{Periods: []WeeklyPeriodPayload{
			{Day: 1, Open: "09:00", Close: "13:00"},
			{Day: 1, Open: "12:00", Close: "17:00"},
		}},
	})
	assert.Error(t, err)
	assert.Zero(t, mockDB.replaceHoursCalls, "invalid schedule must not reach the database")
}

func TestHoursService_PutHours_InvertedRangeRejected(t *testing.T) {
	mockDB := newMockDB()
	service := NewHoursService(mockDB, newMockCache())

	store := mockDB.seedStore("starter")

	_, err := service.PutHours(ctxForStore(store.ID, RoleOwner), &PutHoursInput{
		ID: store.ID.String(),
		Body: PutHoursRequest{Periods: []WeeklyPeriodPayload{
			{Day: 3, Open: "17:00", Close: "09:00"},
		}},
	})
	assert.Error(t, err)
	assert.Zero(t, mockDB.replaceHoursCalls)
}

func TestHoursService_PutHours_InvalidatesStatus(t *testing.T) {
	mockDB := newMockDB()
	cache := newMockCache()
	service := NewHoursService(mockDB, cache)

	store := mockDB.seedStore("starter")
	ctx := ctxForStore(store.ID, RoleOwner)

	_, err := service.PutHours(ctx, &PutHoursInput{
		ID: store.ID.String(),
		Body: PutHoursRequest{Periods: []WeeklyPeriodPayload{
			{Day: 1, Open: "09:00", Close: "17:00"},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidated)
}

func TestHoursService_PutHours_ViewerDenied(t *testing.T) {
	mockDB := newMockDB()
	service := NewHoursService(mockDB, newMockCache())

	store := mockDB.seedStore("starter")

	_, err := service.PutHours(ctxForStore(store.ID, RoleViewer), &PutHoursInput{
		ID: store.ID.String(),
		Body: PutHoursRequest{Periods: []WeeklyPeriodPayload{
			{Day: 1, Open: "09:00", Close: "17:00"},
		}},
	})
	assert.Error(t, err)
	assert.Zero(t, mockDB.replaceHoursCalls)
}

func TestHoursService_SpecialHours_TierGated(t *testing.T) {
	mockDB := newMockDB()
	service := NewHoursService(mockDB, newMockCache())

	// Starter does not include special hours.
	starter := mockDB.seedStore("starter")
	_, err := service.PutSpecialHours(ctxForStore(starter.ID, RoleOwner), &PutSpecialHoursInput{
		ID: starter.ID.String(),
		Body: PutSpecialHoursRequest{Overrides: []SpecialHourPayload{
			{Date: "2026-12-25", IsClosed: true},
		}},
	})
	assert.Error(t, err)

	// Pro does.
	pro := mockDB.seedStore("pro")
	_, err = service.PutSpecialHours(ctxForStore(pro.ID, RoleOwner), &PutSpecialHoursInput{
		ID: pro.ID.String(),
		Body: PutSpecialHoursRequest{Overrides: []SpecialHourPayload{
			{Date: "2026-12-25", IsClosed: true},
		}},
	})
	assert.NoError(t, err)
}

func TestHoursService_PutSpecialHours_ClosedSkipsTimeValidation(t *testing.T) {
	mockDB := newMockDB()
	service := NewHoursService(mockDB, newMockCache())

	store := mockDB.seedStore("pro")
	ctx := ctxForStore(store.ID, RoleOwner)

	// Closed-all-day with no times is valid.
	_, err := service.PutSpecialHours(ctx, &PutSpecialHoursInput{
		ID: store.ID.String(),
		Body: PutSpecialHoursRequest{Overrides: []SpecialHourPayload{
			{Date: "2026-12-25", IsClosed: true},
		}},
	})
	require.NoError(t, err)

	// A timed override with malformed times is not.
	_, err = service.PutSpecialHours(ctx, &PutSpecialHoursInput{
		ID: store.ID.String(),
		Body: PutSpecialHoursRequest{Overrides: []SpecialHourPayload{
			{Date: "2026-12-26", Open: "9:00", Close: "17:00"},
		}},
	})
	assert.Error(t, err)
}

func TestHoursService_PutSpecialHours_BadDateRejected(t *testing.T) {
	mockDB := newMockDB()
	service := NewHoursService(mockDB, newMockCache())

	store := mockDB.seedStore("pro")

	_, err := service.PutSpecialHours(ctxForStore(store.ID, RoleOwner), &PutSpecialHoursInput{
		ID: store.ID.String(),
		Body: PutSpecialHoursRequest{Overrides: []SpecialHourPayload{
			{Date: "12/25/2026", IsClosed: true},
		}},
	})
	assert.Error(t, err)
}

func TestHoursService_GetSpecialHours_ReturnsSavedOverrides(t *testing.T) {
	mockDB := newMockDB()
	service := NewHoursService(mockDB, newMockCache())

	store := mockDB.seedStore("pro")
	note := "Christmas"
	mockDB.specialHours[store.ID] = []db.SpecialHour{
		{TenantID: store.ID, Date: "2026-12-25", IsClosed: true, Note: &note},
		{TenantID: store.ID, Date: "2026-12-31", OpenAt: "10:00", CloseAt: "15:00"},
	}

	out, err := service.GetSpecialHours(ctxForStore(store.ID, RoleViewer), &GetSpecialHoursInput{ID: store.ID.String()})
	require.NoError(t, err)
	require.Len(t, out.Body.Overrides, 2)
	assert.True(t, out.Body.Overrides[0].IsClosed)
	require.NotNil(t, out.Body.Overrides[0].Note)
	assert.Equal(t, "Christmas", *out.Body.Overrides[0].Note)
	assert.Equal(t, "10:00", out.Body.Overrides[1].Open)
}
