package api

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/storekit/storefront-cloud/internal/db"
	"github.com/storekit/storefront-cloud/internal/tier"
)

// ReviewService handles customer reviews for a store.
type ReviewService struct {
	db DBClient
}

// NewReviewService creates a new ReviewService.
func NewReviewService(db DBClient) *ReviewService {
	return &ReviewService{db: db}
}

// ListReviews handles GET /v1/stores/{id}/reviews
func (s *ReviewService) ListReviews(ctx context.Context, input *ListReviewsInput) (*ListReviewsOutput, error) {
	store, err := s.loadStore(ctx, input.ID, tier.PermView)
	if err != nil {
		return nil, err
	}

	reviews, err := s.db.ListReviews(ctx, store.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list reviews", err)
	}

	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, reviewResponse(&r))
	}
	return &ListReviewsOutput{Body: ListReviewsResponse{Reviews: out}}, nil
}

// CreateReview handles POST /v1/stores/{id}/reviews
func (s *ReviewService) CreateReview(ctx context.Context, input *CreateReviewInput) (*CreateReviewOutput, error) {
	store, err := s.loadStore(ctx, input.ID, tier.PermCreate)
	if err != nil {
		return nil, err
	}
	if input.Body.Author == "" {
		return nil, huma.Error400BadRequest("author is required")
	}
	if input.Body.Rating < 1 || input.Body.Rating > 5 {
		return nil, huma.Error400BadRequest("rating must be between 1 and 5")
	}

	review := &db.Review{
		ID:        uuid.New(),
		TenantID:  store.ID,
		Author:    input.Body.Author,
		Rating:    input.Body.Rating,
		Comment:   input.Body.Comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.CreateReview(ctx, review); err != nil {
		return nil, huma.Error500InternalServerError("failed to create review", err)
	}

	return &CreateReviewOutput{Body: reviewResponse(review)}, nil
}

// loadStore resolves scope, fetches the store, and applies the reviews tier
// gate.
func (s *ReviewService) loadStore(ctx context.Context, id string, perm tier.Permission) (*db.Tenant, error) {
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
		Feature:    FeatureReviews,
		Permission: perm,
	}); err != nil {
		return nil, err
	}
	return store, nil
}

func reviewResponse(r *db.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID.String(),
		Author:    r.Author,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt.Format(timestampLayout),
	}
}
