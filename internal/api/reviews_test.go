package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService_CreateReview_TierGated(t *testing.T) {
	mockDB := newMockDB()
	service := NewReviewService(mockDB)

	// Reviews are a pro feature.
	starter := mockDB.seedStore("starter")
	_, err := service.CreateReview(ctxForStore(starter.ID, RoleOwner), &CreateReviewInput{
		ID:   starter.ID.String(),
		Body: CreateReviewRequest{Author: "Sam", Rating: 5},
	})
	assert.Error(t, err)

	pro := mockDB.seedStore("pro")
	out, err := service.CreateReview(ctxForStore(pro.ID, RoleOwner), &CreateReviewInput{
		ID:   pro.ID.String(),
		Body: CreateReviewRequest{Author: "Sam", Rating: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sam", out.Body.Author)
	assert.Equal(t, 5, out.Body.Rating)
}

func TestReviewService_CreateReview_RatingBounds(t *testing.T) {
	mockDB := newMockDB()
	service := NewReviewService(mockDB)

	store := mockDB.seedStore("pro")
	ctx := ctxForStore(store.ID, RoleOwner)

	for _, rating := range []int{0, 6, -1} {
		_, err := service.CreateReview(ctx, &CreateReviewInput{
			ID:   store.ID.String(),
			Body: CreateReviewRequest{Author: "Sam", Rating: rating},
		})
		assert.Error(t, err, "rating %d should be rejected", rating)
	}
}

func TestReviewService_ListReviews(t *testing.T) {
	mockDB := newMockDB()
	service := NewReviewService(mockDB)

	store := mockDB.seedStore("pro")
	ctx := ctxForStore(store.ID, RoleOwner)

	for _, rating := range []int{3, 4} {
		_, err := service.CreateReview(ctx, &CreateReviewInput{
			ID:   store.ID.String(),
			Body: CreateReviewRequest{Author: "Sam", Rating: rating},
		})
		require.NoError(t, err)
	}

	out, err := service.ListReviews(ctx, &ListReviewsInput{ID: store.ID.String()})
	require.NoError(t, err)
	assert.Len(t, out.Body.Reviews, 2)
}
