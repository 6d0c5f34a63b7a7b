package inventory

import (
	"context"

	"github.com/bizops/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to inventory repositories.
// When a function is executed within a transaction scope, all repository
// operations will be part of the same database transaction and will be
// committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the inventory repositories
// within a transaction. All repositories returned share the same underlying
// database transaction, which is what makes a multi-line transfer or
// adjustment all-or-nothing.
type TransactionalRepositories interface {
	// ItemRepo returns the inventory item repository scoped to the current transaction
	ItemRepo() inventory.InventoryItemRepository
	// MovementRepo returns the stock ledger repository scoped to the current transaction
	MovementRepo() inventory.StockMovementRepository
	// RequestRepo returns the request repository scoped to the current transaction
	RequestRepo() inventory.StockMovementRequestRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is not
// required.
type NoOpTransactionScope struct {
	itemRepo     inventory.InventoryItemRepository
	movementRepo inventory.StockMovementRepository
	requestRepo  inventory.StockMovementRequestRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	itemRepo inventory.InventoryItemRepository,
	movementRepo inventory.StockMovementRepository,
	requestRepo inventory.StockMovementRequestRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		requestRepo:  requestRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the inventory item repository.
func (s *NoOpTransactionScope) ItemRepo() inventory.InventoryItemRepository {
	return s.itemRepo
}

// MovementRepo returns the stock ledger repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository {
	return s.movementRepo
}

// RequestRepo returns the request repository.
func (s *NoOpTransactionScope) RequestRepo() inventory.StockMovementRequestRepository {
	return s.requestRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
