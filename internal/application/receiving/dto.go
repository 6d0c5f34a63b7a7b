package receiving

import (
	"time"

	"github.com/bizops/backend/internal/domain/receiving"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShipmentLineResponse is the application-level view of a shipment line
type ShipmentLineResponse struct {
	ProductID        uuid.UUID       `json:"product_id"`
	ExpectedQuantity decimal.Decimal `json:"expected_quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	AcceptedQuantity decimal.Decimal `json:"accepted_quantity"`
	RejectedQuantity decimal.Decimal `json:"rejected_quantity"`
	Remark           string          `json:"remark,omitempty"`
}

// ShipmentResponse is the application-level view of an incoming shipment
type ShipmentResponse struct {
	ID              uuid.UUID                `json:"id"`
	ShipmentNumber  string                   `json:"shipment_number"`
	PurchaseOrderID uuid.UUID                `json:"purchase_order_id"`
	WarehouseID     uuid.UUID                `json:"warehouse_id"`
	Status          receiving.ShipmentStatus `json:"status"`
	CarrierRef      string                   `json:"carrier_ref,omitempty"`
	ReceivedBy      *uuid.UUID               `json:"received_by,omitempty"`
	ReceivedAt      *time.Time               `json:"received_at,omitempty"`
	ProcessedAt     *time.Time               `json:"processed_at,omitempty"`
	RejectReason    string                   `json:"reject_reason,omitempty"`
	Lines           []ShipmentLineResponse   `json:"lines"`
}

// NewShipmentResponse maps a domain shipment to its response
func NewShipmentResponse(s *receiving.IncomingShipment) *ShipmentResponse {
	lines := make([]ShipmentLineResponse, 0, len(s.Lines))
	for _, line := range s.Lines {
		lines = append(lines, ShipmentLineResponse{
			ProductID:        line.ProductID,
			ExpectedQuantity: line.ExpectedQuantity,
			ReceivedQuantity: line.ReceivedQuantity,
			AcceptedQuantity: line.AcceptedQuantity,
			RejectedQuantity: line.RejectedQuantity,
			Remark:           line.Remark,
		})
	}
	return &ShipmentResponse{
		ID:              s.ID,
		ShipmentNumber:  s.ShipmentNumber,
		PurchaseOrderID: s.PurchaseOrderID,
		WarehouseID:     s.WarehouseID,
		Status:          s.Status,
		CarrierRef:      s.CarrierRef,
		ReceivedBy:      s.ReceivedBy,
		ReceivedAt:      s.ReceivedAt,
		ProcessedAt:     s.ProcessedAt,
		RejectReason:    s.RejectReason,
		Lines:           lines,
	}
}

// ExpectedLine is one expected product on a new shipment
type ExpectedLine struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// CreateShipmentCommand registers a delivery announced against a purchase order
type CreateShipmentCommand struct {
	TenantID        uuid.UUID
	ActorID         uuid.UUID
	PurchaseOrderID uuid.UUID
	ShipmentNumber  string
	CarrierRef      string
	Lines           []ExpectedLine
}

// ReceiptLine is one counted line at the dock
type ReceiptLine struct {
	ProductID uuid.UUID
	Received  decimal.Decimal
	Accepted  decimal.Decimal
	Rejected  decimal.Decimal
	Remark    string
}

// RecordReceiptCommand captures the dock counts and closes the counting phase
type RecordReceiptCommand struct {
	TenantID   uuid.UUID
	ActorID    uuid.UUID
	ShipmentID uuid.UUID
	Lines      []ReceiptLine
}

// ProcessShipmentCommand applies a received shipment to stock
type ProcessShipmentCommand struct {
	TenantID   uuid.UUID
	ActorID    uuid.UUID
	ShipmentID uuid.UUID
}

// RejectShipmentCommand refuses a shipment before processing
type RejectShipmentCommand struct {
	TenantID   uuid.UUID
	ActorID    uuid.UUID
	ShipmentID uuid.UUID
	Reason     string
}

// ListShipmentsQuery narrows a shipment listing
type ListShipmentsQuery struct {
	TenantID    uuid.UUID
	ActorID     uuid.UUID
	Status      *receiving.ShipmentStatus
	WarehouseID *uuid.UUID
	Page        int
	PageSize    int
}
