package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	testDB, orderRepo, user := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)
	ctx := context.Background()

	order := newTestOrder(user.ID, "Colombo")
	require.NoError(t, orderRepo.Create(ctx, order))

	errBoom := errors.New("boom")
	tm := NewTransactionManager(testDB)
	err := tm.Execute(ctx, func(repos TxRepositories) error {
		o, err := repos.Orders().FindByID(ctx, order.ID)
		if err != nil {
			return err
		}
		o.Status = model.OrderStatusRefundRequested
		if err := repos.Orders().Update(ctx, o); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	found, err := orderRepo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPlaced, found.Status)
}

func TestTransactionManager_Commits(t *testing.T) {
	testDB, orderRepo, user := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)
	ctx := context.Background()

	order := newTestOrder(user.ID, "Colombo")
	require.NoError(t, orderRepo.Create(ctx, order))

	tm := NewTransactionManager(testDB)
	err := tm.Execute(ctx, func(repos TxRepositories) error {
		o, err := repos.Orders().FindByID(ctx, order.ID)
		if err != nil {
			return err
		}
		o.Status = model.OrderStatusDelivered
		return repos.Orders().Update(ctx, o)
	})
	require.NoError(t, err)

	found, err := orderRepo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, found.Status)
}
