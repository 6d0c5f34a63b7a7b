package persistence

import (
	"context"

	appinv "github.com/bizops/backend/internal/application/inventory"
	"github.com/bizops/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormInventoryTransactionScope implements the inventory TransactionScope
// using GORM transactions. It provides atomic execution of multiple
// repository operations.
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope.
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormInventoryRepositories{tx: tx}
		return fn(repos)
	})
}

// gormInventoryRepositories provides access to the inventory repositories within a transaction.
type gormInventoryRepositories struct {
	tx *gorm.DB
}

// ItemRepo returns the inventory item repository scoped to the current transaction.
func (r *gormInventoryRepositories) ItemRepo() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

// MovementRepo returns the stock ledger repository scoped to the current transaction.
func (r *gormInventoryRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// RequestRepo returns the request repository scoped to the current transaction.
func (r *gormInventoryRepositories) RequestRepo() inventory.StockMovementRequestRepository {
	return NewGormStockMovementRequestRepository(r.tx)
}

// Ensure GormInventoryTransactionScope implements TransactionScope
var _ appinv.TransactionScope = (*GormInventoryTransactionScope)(nil)

// Ensure gormInventoryRepositories implements TransactionalRepositories
var _ appinv.TransactionalRepositories = (*gormInventoryRepositories)(nil)
