package receiving

import (
	"context"

	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/receiving"
	"github.com/bizops/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories shipment
// processing touches. Processing writes the shipment, the purchase order, the
// stock items and the ledger rows in one transaction, so a shipment lands
// fully or not at all.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the receiving-side
// repositories within a transaction.
type TransactionalRepositories interface {
	// ShipmentRepo returns the shipment repository scoped to the current transaction
	ShipmentRepo() receiving.ShipmentRepository
	// OrderRepo returns the purchase order repository scoped to the current transaction
	OrderRepo() trade.PurchaseOrderRepository
	// ItemRepo returns the inventory item repository scoped to the current transaction
	ItemRepo() inventory.InventoryItemRepository
	// MovementRepo returns the stock ledger repository scoped to the current transaction
	MovementRepo() inventory.StockMovementRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is not
// required.
type NoOpTransactionScope struct {
	shipmentRepo receiving.ShipmentRepository
	orderRepo    trade.PurchaseOrderRepository
	itemRepo     inventory.InventoryItemRepository
	movementRepo inventory.StockMovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	shipmentRepo receiving.ShipmentRepository,
	orderRepo trade.PurchaseOrderRepository,
	itemRepo inventory.InventoryItemRepository,
	movementRepo inventory.StockMovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		shipmentRepo: shipmentRepo,
		orderRepo:    orderRepo,
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ShipmentRepo returns the shipment repository.
func (s *NoOpTransactionScope) ShipmentRepo() receiving.ShipmentRepository {
	return s.shipmentRepo
}

// OrderRepo returns the purchase order repository.
func (s *NoOpTransactionScope) OrderRepo() trade.PurchaseOrderRepository {
	return s.orderRepo
}

// ItemRepo returns the inventory item repository.
func (s *NoOpTransactionScope) ItemRepo() inventory.InventoryItemRepository {
	return s.itemRepo
}

// MovementRepo returns the stock ledger repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository {
	return s.movementRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
