package inventory

import (
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementRequestSubmittedEvent fires when a request enters the pending queue
type MovementRequestSubmittedEvent struct {
	shared.BaseDomainEvent
	TenantID    uuid.UUID   `json:"tenant_id"`
	RequestedBy uuid.UUID   `json:"requested_by"`
	RequestType RequestType `json:"request_type"`
}

// NewMovementRequestSubmittedEvent creates a new submitted event
func NewMovementRequestSubmittedEvent(requestID, tenantID, requestedBy uuid.UUID, requestType RequestType) *MovementRequestSubmittedEvent {
	return &MovementRequestSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("inventory.request.submitted", requestID),
		TenantID:        tenantID,
		RequestedBy:     requestedBy,
		RequestType:     requestType,
	}
}

// MovementRequestApprovedEvent fires when a pending request is approved
type MovementRequestApprovedEvent struct {
	shared.BaseDomainEvent
	TenantID    uuid.UUID   `json:"tenant_id"`
	ApprovedBy  uuid.UUID   `json:"approved_by"`
	RequestType RequestType `json:"request_type"`
}

// NewMovementRequestApprovedEvent creates a new approved event
func NewMovementRequestApprovedEvent(requestID, tenantID, approvedBy uuid.UUID, requestType RequestType) *MovementRequestApprovedEvent {
	return &MovementRequestApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("inventory.request.approved", requestID),
		TenantID:        tenantID,
		ApprovedBy:      approvedBy,
		RequestType:     requestType,
	}
}

// MovementRequestRejectedEvent fires when a pending request is rejected
type MovementRequestRejectedEvent struct {
	shared.BaseDomainEvent
	TenantID   uuid.UUID `json:"tenant_id"`
	RejectedBy uuid.UUID `json:"rejected_by"`
	Reason     string    `json:"reason"`
}

// NewMovementRequestRejectedEvent creates a new rejected event
func NewMovementRequestRejectedEvent(requestID, tenantID, rejectedBy uuid.UUID, reason string) *MovementRequestRejectedEvent {
	return &MovementRequestRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("inventory.request.rejected", requestID),
		TenantID:        tenantID,
		RejectedBy:      rejectedBy,
		Reason:          reason,
	}
}

// StockLevelChangedEvent fires after a ledger row lands on an item
type StockLevelChangedEvent struct {
	shared.BaseDomainEvent
	TenantID    uuid.UUID       `json:"tenant_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Delta       decimal.Decimal `json:"delta"`
	NewBalance  decimal.Decimal `json:"new_balance"`
}

// NewStockLevelChangedEvent creates a new stock level changed event
func NewStockLevelChangedEvent(itemID, tenantID, warehouseID, productID uuid.UUID, delta, newBalance decimal.Decimal) *StockLevelChangedEvent {
	return &StockLevelChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("inventory.stock.changed", itemID),
		TenantID:        tenantID,
		WarehouseID:     warehouseID,
		ProductID:       productID,
		Delta:           delta,
		NewBalance:      newBalance,
	}
}
