package dto

import (
	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementPayloadRequest is the movement branch of a request submission
type MovementPayloadRequest struct {
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Direction   string          `json:"direction" binding:"required,oneof=in out"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	LocationID  *uuid.UUID      `json:"location_id"`
	Reference   string          `json:"reference" binding:"max=100"`
	Reason      string          `json:"reason" binding:"max=500"`
}

// TransferLineRequest is one line of a transfer submission
type TransferLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// TransferPayloadRequest is the transfer branch of a request submission
type TransferPayloadRequest struct {
	SourceWarehouseID uuid.UUID             `json:"source_warehouse_id" binding:"required"`
	TargetWarehouseID uuid.UUID             `json:"target_warehouse_id" binding:"required"`
	Lines             []TransferLineRequest `json:"lines" binding:"required,min=1,dive"`
	Reference         string                `json:"reference" binding:"max=100"`
	Reason            string                `json:"reason" binding:"max=500"`
}

// AdjustmentLineRequest is one line of an adjustment submission
type AdjustmentLineRequest struct {
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	ActualQuantity decimal.Decimal `json:"actual_quantity"`
	Remark         string          `json:"remark" binding:"max=500"`
}

// AdjustmentPayloadRequest is the adjustment branch of a request submission
type AdjustmentPayloadRequest struct {
	WarehouseID uuid.UUID               `json:"warehouse_id" binding:"required"`
	Lines       []AdjustmentLineRequest `json:"lines" binding:"required,min=1,dive"`
	Reference   string                  `json:"reference" binding:"max=100"`
	Reason      string                  `json:"reason" binding:"max=500"`
}

// SubmitRequestRequest is the intake body for the approval workflow. Exactly
// one payload branch must match the request type; shape validation beyond
// binding happens in the domain.
type SubmitRequestRequest struct {
	RequestType string                    `json:"request_type" binding:"required,oneof=movement transfer adjustment"`
	Movement    *MovementPayloadRequest   `json:"movement"`
	Transfer    *TransferPayloadRequest   `json:"transfer"`
	Adjustment  *AdjustmentPayloadRequest `json:"adjustment"`
}

// ToPayload converts the API body into the domain payload union
func (r *SubmitRequestRequest) ToPayload() inventory.RequestPayload {
	payload := inventory.RequestPayload{}

	if r.Movement != nil {
		payload.Movement = &inventory.MovementPayload{
			WarehouseID: r.Movement.WarehouseID,
			ProductID:   r.Movement.ProductID,
			Direction:   inventory.MovementDirection(r.Movement.Direction),
			Quantity:    r.Movement.Quantity,
			LocationID:  r.Movement.LocationID,
			Reference:   r.Movement.Reference,
			Reason:      r.Movement.Reason,
		}
	}
	if r.Transfer != nil {
		lines := make([]inventory.TransferLine, 0, len(r.Transfer.Lines))
		for _, line := range r.Transfer.Lines {
			lines = append(lines, inventory.TransferLine{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			})
		}
		payload.Transfer = &inventory.TransferPayload{
			SourceWarehouseID: r.Transfer.SourceWarehouseID,
			TargetWarehouseID: r.Transfer.TargetWarehouseID,
			Lines:             lines,
			Reference:         r.Transfer.Reference,
			Reason:            r.Transfer.Reason,
		}
	}
	if r.Adjustment != nil {
		lines := make([]inventory.AdjustmentLine, 0, len(r.Adjustment.Lines))
		for _, line := range r.Adjustment.Lines {
			lines = append(lines, inventory.AdjustmentLine{
				ProductID:      line.ProductID,
				ActualQuantity: line.ActualQuantity,
				Remark:         line.Remark,
			})
		}
		payload.Adjustment = &inventory.AdjustmentPayload{
			WarehouseID: r.Adjustment.WarehouseID,
			Lines:       lines,
			Reference:   r.Adjustment.Reference,
			Reason:      r.Adjustment.Reason,
		}
	}

	return payload
}

// RejectRequestRequest carries the reason for rejecting a pending request
type RejectRequestRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ListRequestsRequest narrows the request listing
type ListRequestsRequest struct {
	ListRequest
	Status      string `form:"status" binding:"omitempty,oneof=pending approved rejected failed"`
	RequestType string `form:"request_type" binding:"omitempty,oneof=movement transfer adjustment"`
}

// CycleCountLineRequest is one counted product in a cycle count submission
type CycleCountLineRequest struct {
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
	Remark          string          `json:"remark" binding:"max=500"`
}

// CycleCountRequest is the body of a cycle count reconciliation
type CycleCountRequest struct {
	WarehouseID uuid.UUID               `json:"warehouse_id" binding:"required"`
	Reference   string                  `json:"reference" binding:"max=100"`
	Lines       []CycleCountLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ListMovementsRequest narrows the ledger listing
type ListMovementsRequest struct {
	ListRequest
	WarehouseID *uuid.UUID `form:"warehouse_id"`
	ProductID   *uuid.UUID `form:"product_id"`
	SourceType  string     `form:"source_type" binding:"omitempty,oneof=MANUAL TRANSFER CYCLE_COUNT INCOMING_SHIPMENT PURCHASE_ORDER"`
	Reference   string     `form:"reference"`
}
