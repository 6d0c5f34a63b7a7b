package inventory

import (
	"time"

	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItemResponse is the application-level view of an inventory item
type InventoryItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	WarehouseID       uuid.UUID       `json:"warehouse_id"`
	ProductID         uuid.UUID       `json:"product_id"`
	QuantityOnHand    decimal.Decimal `json:"quantity_on_hand"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	LocationID        *uuid.UUID      `json:"location_id,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewInventoryItemResponse maps a domain item to its response
func NewInventoryItemResponse(item *inventory.InventoryItem) *InventoryItemResponse {
	return &InventoryItemResponse{
		ID:                item.ID,
		WarehouseID:       item.WarehouseID,
		ProductID:         item.ProductID,
		QuantityOnHand:    item.QuantityOnHand,
		ReservedQuantity:  item.ReservedQuantity,
		AvailableQuantity: item.AvailableQuantity,
		LocationID:        item.LocationID,
		UpdatedAt:         item.UpdatedAt,
	}
}

// StockMovementResponse is the application-level view of a ledger row
type StockMovementResponse struct {
	ID             uuid.UUID              `json:"id"`
	WarehouseID    uuid.UUID              `json:"warehouse_id"`
	ProductID      uuid.UUID              `json:"product_id"`
	LocationID     *uuid.UUID             `json:"location_id,omitempty"`
	MovementType   inventory.MovementType `json:"movement_type"`
	SourceType     inventory.SourceType   `json:"source_type"`
	Quantity       decimal.Decimal        `json:"quantity"`
	SignedQuantity decimal.Decimal        `json:"signed_quantity"`
	BalanceBefore  decimal.Decimal        `json:"balance_before"`
	BalanceAfter   decimal.Decimal        `json:"balance_after"`
	Reference      string                 `json:"reference,omitempty"`
	Reason         string                 `json:"reason,omitempty"`
	OperatorID     uuid.UUID              `json:"operator_id"`
	RequestID      *uuid.UUID             `json:"request_id,omitempty"`
	ShipmentID     *uuid.UUID             `json:"shipment_id,omitempty"`
	MovementDate   time.Time              `json:"movement_date"`
}

// NewStockMovementResponse maps a domain movement to its response
func NewStockMovementResponse(m *inventory.StockMovement) *StockMovementResponse {
	return &StockMovementResponse{
		ID:             m.ID,
		WarehouseID:    m.WarehouseID,
		ProductID:      m.ProductID,
		LocationID:     m.LocationID,
		MovementType:   m.MovementType,
		SourceType:     m.SourceType,
		Quantity:       m.Quantity,
		SignedQuantity: m.SignedQuantity,
		BalanceBefore:  m.BalanceBefore,
		BalanceAfter:   m.BalanceAfter,
		Reference:      m.Reference,
		Reason:         m.Reason,
		OperatorID:     m.OperatorID,
		RequestID:      m.RequestID,
		ShipmentID:     m.ShipmentID,
		MovementDate:   m.MovementDate,
	}
}

// MovementRequestResponse is the application-level view of a request
type MovementRequestResponse struct {
	ID            uuid.UUID                `json:"id"`
	RequestType   inventory.RequestType    `json:"request_type"`
	Status        inventory.RequestStatus  `json:"status"`
	WarehouseID   uuid.UUID                `json:"warehouse_id"`
	Payload       inventory.RequestPayload `json:"payload"`
	RequestedBy   uuid.UUID                `json:"requested_by"`
	RequestedAt   time.Time                `json:"requested_at"`
	ApprovedBy    *uuid.UUID               `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time               `json:"approved_at,omitempty"`
	RejectedBy    *uuid.UUID               `json:"rejected_by,omitempty"`
	RejectedAt    *time.Time               `json:"rejected_at,omitempty"`
	RejectReason  string                   `json:"reject_reason,omitempty"`
	FailureReason string                   `json:"failure_reason,omitempty"`
}

// NewMovementRequestResponse maps a domain request to its response
func NewMovementRequestResponse(r *inventory.StockMovementRequest) *MovementRequestResponse {
	return &MovementRequestResponse{
		ID:            r.ID,
		RequestType:   r.RequestType,
		Status:        r.Status,
		WarehouseID:   r.WarehouseID,
		Payload:       r.Payload,
		RequestedBy:   r.RequestedBy,
		RequestedAt:   r.RequestedAt,
		ApprovedBy:    r.ApprovedBy,
		ApprovedAt:    r.ApprovedAt,
		RejectedBy:    r.RejectedBy,
		RejectedAt:    r.RejectedAt,
		RejectReason:  r.RejectReason,
		FailureReason: r.FailureReason,
	}
}

// SubmitRequestCommand carries one intake call
type SubmitRequestCommand struct {
	TenantID    uuid.UUID
	ActorID     uuid.UUID
	RequestType inventory.RequestType
	Payload     inventory.RequestPayload
}

// DecideRequestCommand carries one approve or reject call
type DecideRequestCommand struct {
	TenantID  uuid.UUID
	ActorID   uuid.UUID
	RequestID uuid.UUID
	Reason    string
}

// ListRequestsQuery narrows a request listing
type ListRequestsQuery struct {
	TenantID    uuid.UUID
	ActorID     uuid.UUID
	Status      *inventory.RequestStatus
	RequestType *inventory.RequestType
	Page        int
	PageSize    int
}

// CountLine is one counted product in a cycle count
type CountLine struct {
	ProductID       uuid.UUID
	CountedQuantity decimal.Decimal
	Remark          string
}

// CycleCountCommand carries one cycle count reconciliation
type CycleCountCommand struct {
	TenantID    uuid.UUID
	OperatorID  uuid.UUID
	WarehouseID uuid.UUID
	Reference   string
	Lines       []CountLine
}
