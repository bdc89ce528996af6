package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService(t *testing.T) {
	r := setupRepos(t)
	svc := NewReviewService(r.reviews, r.products, r.users)
	ctx := context.Background()

	user := createCustomer(t, r, "customer@example.com")
	other := createCustomer(t, r, "other@example.com")
	product := createProduct(t, r, 1)

	review, err := svc.CreateReview(ctx, user.ID, product.ID, 4, "Comfortable")
	require.NoError(t, err)
	assert.Equal(t, user.Name, review.UserName)

	_, err = svc.CreateReview(ctx, user.ID, product.ID, 5, "Again")
	assert.ErrorIs(t, err, ErrReviewAlreadyExists)

	_, err = svc.CreateReview(ctx, other.ID, product.ID, 6, "Too good")
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.CreateReview(ctx, other.ID, 9999, 3, "Missing")
	assert.ErrorIs(t, err, ErrProductNotFound)

	rating := 2
	_, err = svc.UpdateReview(ctx, other.ID, review.ID, &rating, nil)
	assert.ErrorIs(t, err, ErrReviewNotFound)

	updated, err := svc.UpdateReview(ctx, user.ID, review.ID, &rating, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)
	assert.Equal(t, "Comfortable", updated.Comment)

	reviews, err := svc.ListProductReviews(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	assert.ErrorIs(t, svc.DeleteReview(ctx, other.ID, review.ID), ErrReviewNotFound)
	require.NoError(t, svc.DeleteReview(ctx, user.ID, review.ID))
}
