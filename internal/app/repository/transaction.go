package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// TxRepositories hands out repositories bound to one open transaction.
type TxRepositories interface {
	Orders() OrderRepository
	Products() ProductRepository
	DeliveryPersons() DeliveryPersonRepository
	DeliveryDetails() DeliveryDetailRepository
	Refunds() RefundRepository
	Carts() CartRepository
}

type TransactionManager interface {
	// Execute commits when fn returns nil and rolls back otherwise.
	Execute(ctx context.Context, fn func(repos TxRepositories) error) error
}

type gormTransactionManager struct {
	db *gorm.DB
}

type gormTxRepositories struct {
	tx *gorm.DB
}

func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &gormTransactionManager{db: db}
}

func (f *gormTxRepositories) Orders() OrderRepository {
	return NewOrderRepository(f.tx)
}

func (f *gormTxRepositories) Products() ProductRepository {
	return NewProductRepository(f.tx)
}

func (f *gormTxRepositories) DeliveryPersons() DeliveryPersonRepository {
	return NewDeliveryPersonRepository(f.tx)
}

func (f *gormTxRepositories) DeliveryDetails() DeliveryDetailRepository {
	return NewDeliveryDetailRepository(f.tx)
}

func (f *gormTxRepositories) Refunds() RefundRepository {
	return NewRefundRepository(f.tx)
}

func (f *gormTxRepositories) Carts() CartRepository {
	return NewCartRepository(f.tx)
}

func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(repos TxRepositories) error) error {
	tx := tm.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&gormTxRepositories{tx: tx}); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return fmt.Errorf("transaction rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// IsDuplicateKey reports a unique-index violation from any supported driver.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
