package repository

import (
	"context"
	"testing"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefundRepository_CreateAndFind(t *testing.T) {
	testDB, orderRepo, user := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)
	ctx := context.Background()

	order := newTestOrder(user.ID, "Colombo")
	require.NoError(t, orderRepo.Create(ctx, order))

	repo := NewRefundRepository(testDB)
	refund := &model.Refund{
		OrderID:           order.ID,
		UserID:            user.ID,
		OrderNumber:       order.OrderNumber(),
		Reason:            "Wrong size/fit",
		Images:            []string{"/uploads/refunds/a.png", "/uploads/refunds/b.jpg"},
		ContactPreference: model.ContactByEmail,
		ContactDetails:    "customer@example.com",
		Status:            model.RefundStatusPending,
	}
	require.NoError(t, repo.Create(ctx, refund))

	exists, err := repo.ExistsForOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	found, err := repo.FindByID(ctx, refund.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/refunds/a.png", "/uploads/refunds/b.jpg"}, found.Images)
	require.NotNil(t, found.Order)
	assert.Equal(t, order.ID, found.Order.ID)

	second := *refund
	second.ID = 0
	err = repo.Create(ctx, &second)
	assert.True(t, IsDuplicateKey(err))

	pending, err := repo.FindAll(ctx, model.RefundStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	approved, err := repo.FindAll(ctx, model.RefundStatusApproved)
	require.NoError(t, err)
	assert.Empty(t, approved)
}
