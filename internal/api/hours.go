package api

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/storekit/storefront-cloud/internal/db"
	"github.com/storekit/storefront-cloud/internal/hours"
	"github.com/storekit/storefront-cloud/internal/tier"
)

// HoursService handles the weekly schedule and date overrides of a store.
type HoursService struct {
	db    DBClient
	cache StatusCache
}

// NewHoursService creates a new HoursService.
func NewHoursService(db DBClient, cache StatusCache) *HoursService {
	return &HoursService{db: db, cache: cache}
}

// GetHours handles GET /v1/stores/{id}/hours
func (s *HoursService) GetHours(ctx context.Context, input *GetHoursInput) (*GetHoursOutput, error) {
	store, err := s.loadStore(ctx, input.ID, tier.Check{
		Feature:    FeatureBusinessHours,
		Permission: tier.PermView,
	})
	if err != nil {
		return nil, err
	}

	rows, err := s.db.GetBusinessHours(ctx, store.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get business hours", err)
	}

	payload := make([]WeeklyPeriodPayload, 0, len(rows))
	for _, r := range rows {
		payload = append(payload, WeeklyPeriodPayload{
			Day:   r.Weekday,
			Open:  r.OpenAt,
			Close: r.CloseAt,
		})
	}
	return &GetHoursOutput{
		Body: HoursResponse{Timezone: store.Timezone, Periods: payload},
	}, nil
}

// PutHours handles PUT /v1/stores/{id}/hours
// Replaces the weekly schedule atomically. The new schedule is validated
// before any write: malformed times, inverted ranges, and same-day overlaps
// are all rejected.
func (s *HoursService) PutHours(ctx context.Context, input *PutHoursInput) (*PutHoursOutput, error) {
	store, err := s.loadStore(ctx, input.ID, tier.Check{
		Feature:    FeatureBusinessHours,
		Permission: tier.PermEdit,
	})
	if err != nil {
		return nil, err
	}

	periods := make([]hours.WeeklyPeriod, 0, len(input.Body.Periods))
	rows := make([]db.BusinessHour, 0, len(input.Body.Periods))
	for _, p := range input.Body.Periods {
		if p.Day < 0 || p.Day > 6 {
			return nil, huma.Error400BadRequest("day must be between 0 (Sunday) and 6 (Saturday)")
		}
		periods = append(periods, hours.WeeklyPeriod{
			Day:   time.Weekday(p.Day),
			Open:  p.Open,
			Close: p.Close,
		})
		rows = append(rows, db.BusinessHour{
			TenantID: store.ID,
			Weekday:  p.Day,
			OpenAt:   p.Open,
			CloseAt:  p.Close,
		})
	}
	if err := hours.Validate(periods); err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	if err := s.db.ReplaceBusinessHours(ctx, store.ID, rows); err != nil {
		return nil, huma.Error500InternalServerError("failed to save business hours", err)
	}
	s.cache.InvalidateStatus(ctx, store.ID)

	return &PutHoursOutput{
		Body: HoursResponse{Timezone: store.Timezone, Periods: input.Body.Periods},
	}, nil
}

// GetSpecialHours handles GET /v1/stores/{id}/special-hours
func (s *HoursService) GetSpecialHours(ctx context.Context, input *GetSpecialHoursInput) (*GetSpecialHoursOutput, error) {
	store, err := s.loadStore(ctx, input.ID, tier.Check{
		Feature:    FeatureSpecialHours,
		Permission: tier.PermView,
	})
	if err != nil {
		return nil, err
	}

	rows, err := s.db.GetSpecialHours(ctx, store.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get special hours", err)
	}

	payload := make([]SpecialHourPayload, 0, len(rows))
	for _, r := range rows {
		payload = append(payload, specialHourPayload(r))
	}
	return &GetSpecialHoursOutput{
		Body: SpecialHoursResponse{Overrides: payload},
	}, nil
}

// PutSpecialHours handles PUT /v1/stores/{id}/special-hours
// Replaces all date overrides. Closed-all-day overrides skip the time
// validation; timed overrides must carry a well-formed open < close range.
func (s *HoursService) PutSpecialHours(ctx context.Context, input *PutSpecialHoursInput) (*PutSpecialHoursOutput, error) {
	store, err := s.loadStore(ctx, input.ID, tier.Check{
		Feature:    FeatureSpecialHours,
		Permission: tier.PermEdit,
	})
	if err != nil {
		return nil, err
	}

	overrides := make([]hours.Override, 0, len(input.Body.Overrides))
	rows := make([]db.SpecialHour, 0, len(input.Body.Overrides))
	for _, o := range input.Body.Overrides {
		if _, err := time.Parse("2006-01-02", o.Date); err != nil {
			return nil, huma.Error400BadRequest("date must be formatted YYYY-MM-DD")
		}
		overrides = append(overrides, hours.Override{
			Date:   o.Date,
			Closed: o.IsClosed,
			Open:   o.Open,
			Close:  o.Close,
		})
		rows = append(rows, db.SpecialHour{
			TenantID: store.ID,
			Date:     o.Date,
			IsClosed: o.IsClosed,
			OpenAt:   o.Open,
			CloseAt:  o.Close,
			Note:     o.Note,
		})
	}
	if err := hours.ValidateOverrides(overrides); err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	if err := s.db.ReplaceSpecialHours(ctx, store.ID, rows); err != nil {
		return nil, huma.Error500InternalServerError("failed to save special hours", err)
	}
	s.cache.InvalidateStatus(ctx, store.ID)

	return &PutSpecialHoursOutput{
		Body: SpecialHoursResponse{Overrides: input.Body.Overrides},
	}, nil
}

// loadStore resolves scope, fetches the store, and applies the tier gate for
// the given check.
func (s *HoursService) loadStore(ctx context.Context, id string, check tier.Check) (*db.Tenant, error) {
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
	if err := requireAccess(ctx, resolved.Effective, check); err != nil {
		return nil, err
	}
	return store, nil
}

func specialHourPayload(r db.SpecialHour) SpecialHourPayload {
	return SpecialHourPayload{
		Date:     r.Date,
		IsClosed: r.IsClosed,
		Open:     r.OpenAt,
		Close:    r.CloseAt,
		Note:     r.Note,
	}
}

// periodsFromRows converts stored weekly rows to the hours engine's input.
func periodsFromRows(rows []db.BusinessHour) []hours.WeeklyPeriod {
	out := make([]hours.WeeklyPeriod, 0, len(rows))
	for _, r := range rows {
		out = append(out, hours.WeeklyPeriod{
			Day:   time.Weekday(r.Weekday),
			Open:  r.OpenAt,
			Close: r.CloseAt,
		})
	}
	return out
}

// overridesFromRows converts stored date overrides to the hours engine's input.
func overridesFromRows(rows []db.SpecialHour) []hours.Override {
	out := make([]hours.Override, 0, len(rows))
	for _, r := range rows {
		out = append(out, hours.Override{
			Date:   r.Date,
			Closed: r.IsClosed,
			Open:   r.OpenAt,
			Close:  r.CloseAt,
		})
	}
	return out
}
