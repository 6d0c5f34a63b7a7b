package persistence

import (
	"context"

	apprecv "github.com/bizops/backend/internal/application/receiving"
	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/receiving"
	"github.com/bizops/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormReceivingTransactionScope implements the receiving TransactionScope
// using GORM transactions. Shipment processing writes four aggregates in one
// transaction through this scope.
type GormReceivingTransactionScope struct {
	db *gorm.DB
}

// NewGormReceivingTransactionScope creates a new GormReceivingTransactionScope.
func NewGormReceivingTransactionScope(db *gorm.DB) *GormReceivingTransactionScope {
	return &GormReceivingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormReceivingTransactionScope) Execute(ctx context.Context, fn func(repos apprecv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormReceivingRepositories{tx: tx}
		return fn(repos)
	})
}

// gormReceivingRepositories provides access to the receiving-side repositories within a transaction.
type gormReceivingRepositories struct {
	tx *gorm.DB
}

// ShipmentRepo returns the shipment repository scoped to the current transaction.
func (r *gormReceivingRepositories) ShipmentRepo() receiving.ShipmentRepository {
	return NewGormShipmentRepository(r.tx)
}

// OrderRepo returns the purchase order repository scoped to the current transaction.
func (r *gormReceivingRepositories) OrderRepo() trade.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

// ItemRepo returns the inventory item repository scoped to the current transaction.
func (r *gormReceivingRepositories) ItemRepo() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

// MovementRepo returns the stock ledger repository scoped to the current transaction.
func (r *gormReceivingRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// Ensure GormReceivingTransactionScope implements TransactionScope
var _ apprecv.TransactionScope = (*GormReceivingTransactionScope)(nil)

// Ensure gormReceivingRepositories implements TransactionalRepositories
var _ apprecv.TransactionalRepositories = (*gormReceivingRepositories)(nil)
