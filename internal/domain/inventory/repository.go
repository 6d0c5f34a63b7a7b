package inventory

import (
	"context"
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItemRepository defines the interface for inventory item persistence.
// The stock mutation methods run as single conditional updates in the store so
// racing writers serialize there instead of in application code.
type InventoryItemRepository interface {
	// FindByID finds an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)

	// FindByWarehouseAndProduct finds the item for a warehouse-product pair
	FindByWarehouseAndProduct(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*InventoryItem, error)

	// FindAllForWarehouse lists items in a warehouse
	FindAllForWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) ([]InventoryItem, error)

	// CountForWarehouse counts items in a warehouse
	CountForWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) (int64, error)

	// GetOrCreate returns the item for the pair, creating a zero-quantity row
	// if none exists yet
	GetOrCreate(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*InventoryItem, error)

	// Save creates or updates an item
	Save(ctx context.Context, item *InventoryItem) error

	// SaveWithLock updates an item guarded by its version; returns
	// ErrConcurrencyConflict when the stored version moved
	SaveWithLock(ctx context.Context, item *InventoryItem) error

	// AddStock atomically increases on-hand and available quantity and
	// returns the refreshed item
	AddStock(ctx context.Context, tenantID, warehouseID, productID uuid.UUID, quantity decimal.Decimal) (*InventoryItem, error)

	// DeductStock atomically decreases on-hand and available quantity.
	// Unless allowNegative is set the update carries a quantity guard and
	// returns ErrInsufficientStock when the guard rejects it.
	DeductStock(ctx context.Context, tenantID, warehouseID, productID uuid.UUID, quantity decimal.Decimal, allowNegative bool) (*InventoryItem, error)
}

// MovementFilter narrows ledger queries
type MovementFilter struct {
	shared.Filter
	WarehouseID *uuid.UUID
	ProductID   *uuid.UUID
	SourceType  *SourceType
	Reference   string
	From        *time.Time
	To          *time.Time
}

// StockMovementRepository defines the interface for the append-only ledger
type StockMovementRepository interface {
	// Create appends a ledger row
	Create(ctx context.Context, movement *StockMovement) error

	// CreateBatch appends several rows
	CreateBatch(ctx context.Context, movements []*StockMovement) error

	// FindByID finds a row by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)

	// FindForTenant lists rows matching the filter, newest first
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter MovementFilter) ([]StockMovement, error)

	// CountForTenant counts rows matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter MovementFilter) (int64, error)

	// FindByRequest lists the rows produced by one approval request
	FindByRequest(ctx context.Context, tenantID, requestID uuid.UUID) ([]StockMovement, error)

	// ExistsForShipment reports whether any row references the shipment,
	// used as the idempotency guard for shipment processing
	ExistsForShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) (bool, error)

	// SumSignedQuantity sums the signed quantities for a warehouse-product
	// pair, reproducing the on-hand balance from history
	SumSignedQuantity(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (decimal.Decimal, error)
}

// RequestFilter narrows request queries
type RequestFilter struct {
	shared.Filter
	Status      *RequestStatus
	RequestType *RequestType
	// WarehouseIDs restricts results to requests whose primary warehouse is
	// in the set. A non-nil empty slice means an empty scope and matches
	// nothing; nil means no restriction.
	WarehouseIDs []uuid.UUID
	RequestedBy  *uuid.UUID
}

// StockMovementRequestRepository defines the interface for request persistence
type StockMovementRequestRepository interface {
	// FindByID finds a request by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovementRequest, error)

	// FindByIDForTenant finds a request by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockMovementRequest, error)

	// FindForTenant lists requests matching the filter, newest first
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter RequestFilter) ([]StockMovementRequest, error)

	// CountForTenant counts requests matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter RequestFilter) (int64, error)

	// Create persists a new request
	Create(ctx context.Context, request *StockMovementRequest) error

	// Save updates a request without a status guard
	Save(ctx context.Context, request *StockMovementRequest) error

	// SaveWithTransition updates a request guarded by its previous status.
	// The update only lands if the stored row still holds expectedStatus;
	// otherwise ErrAlreadyProcessed is returned and the in-memory request is
	// left as loaded. This is what makes the pending decision exactly-once
	// under racing approvers.
	SaveWithTransition(ctx context.Context, request *StockMovementRequest, expectedStatus RequestStatus) error
}
