package inventory

import (
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementDirection is the direction of a single-item movement request
type MovementDirection string

const (
	DirectionIn  MovementDirection = "in"
	DirectionOut MovementDirection = "out"
)

// IsValid checks if the direction is valid
func (d MovementDirection) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// MovementPayload describes a single-item in or out movement
type MovementPayload struct {
	WarehouseID uuid.UUID         `json:"warehouse_id"`
	ProductID   uuid.UUID         `json:"product_id"`
	Direction   MovementDirection `json:"direction"`
	Quantity    decimal.Decimal   `json:"quantity"`
	LocationID  *uuid.UUID        `json:"location_id,omitempty"`
	Reference   string            `json:"reference,omitempty"`
	Reason      string            `json:"reason,omitempty"`
}

// Validate checks the payload shape
func (p *MovementPayload) Validate() error {
	if p.WarehouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if p.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !p.Direction.IsValid() {
		return shared.NewDomainError("INVALID_DIRECTION", "Direction must be 'in' or 'out'")
	}
	if p.Quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return nil
}

// TransferLine is one product quantity within a transfer
type TransferLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// TransferPayload describes a multi-line move between two warehouses
type TransferPayload struct {
	SourceWarehouseID uuid.UUID      `json:"source_warehouse_id"`
	TargetWarehouseID uuid.UUID      `json:"target_warehouse_id"`
	Lines             []TransferLine `json:"lines"`
	Reference         string         `json:"reference,omitempty"`
	Reason            string         `json:"reason,omitempty"`
}

// Validate checks the payload shape
func (p *TransferPayload) Validate() error {
	if p.SourceWarehouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Source warehouse ID cannot be empty")
	}
	if p.TargetWarehouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Target warehouse ID cannot be empty")
	}
	if p.SourceWarehouseID == p.TargetWarehouseID {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Source and target warehouses must differ")
	}
	if len(p.Lines) == 0 {
		return shared.NewDomainError("INVALID_PAYLOAD", "Transfer must contain at least one line")
	}
	seen := make(map[uuid.UUID]bool, len(p.Lines))
	for _, line := range p.Lines {
		if line.ProductID == uuid.Nil {
			return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
		}
		if seen[line.ProductID] {
			return shared.NewDomainError("INVALID_PAYLOAD", "Duplicate product in transfer lines")
		}
		seen[line.ProductID] = true
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
	}
	return nil
}

// AdjustmentLine is one counted product within an adjustment
type AdjustmentLine struct {
	ProductID      uuid.UUID       `json:"product_id"`
	ActualQuantity decimal.Decimal `json:"actual_quantity"`
	Remark         string          `json:"remark,omitempty"`
}

// AdjustmentPayload describes a correction of recorded quantities to counted ones.
// Source distinguishes a cycle count compiled by the count adapter from a
// manually entered adjustment; it defaults to manual.
type AdjustmentPayload struct {
	WarehouseID uuid.UUID        `json:"warehouse_id"`
	Lines       []AdjustmentLine `json:"lines"`
	Reference   string           `json:"reference,omitempty"`
	Reason      string           `json:"reason,omitempty"`
	Source      SourceType       `json:"source,omitempty"`
}

// Validate checks the payload shape
func (p *AdjustmentPayload) Validate() error {
	if p.WarehouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if p.Source != "" && p.Source != SourceTypeManual && p.Source != SourceTypeCycleCount {
		return shared.NewDomainError("INVALID_SOURCE_TYPE", "Adjustment source must be manual or cycle_count")
	}
	if len(p.Lines) == 0 {
		return shared.NewDomainError("INVALID_PAYLOAD", "Adjustment must contain at least one line")
	}
	seen := make(map[uuid.UUID]bool, len(p.Lines))
	for _, line := range p.Lines {
		if line.ProductID == uuid.Nil {
			return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
		}
		if seen[line.ProductID] {
			return shared.NewDomainError("INVALID_PAYLOAD", "Duplicate product in adjustment lines")
		}
		seen[line.ProductID] = true
		if line.ActualQuantity.IsNegative() {
			return shared.NewDomainError("INVALID_QUANTITY", "Actual quantity cannot be negative")
		}
	}
	return nil
}

// EffectiveSource returns the ledger source for the adjustment
func (p *AdjustmentPayload) EffectiveSource() SourceType {
	if p.Source == "" {
		return SourceTypeManual
	}
	return p.Source
}

// RequestPayload is the tagged union carried by a stock movement request.
// Exactly one branch must be set, matching the request type. The payload is
// decoded and validated once at intake and stored with the request, so
// approval never re-parses client input.
type RequestPayload struct {
	Movement   *MovementPayload   `json:"movement,omitempty"`
	Transfer   *TransferPayload   `json:"transfer,omitempty"`
	Adjustment *AdjustmentPayload `json:"adjustment,omitempty"`
}

// Validate checks that exactly the branch for the given request type is set
// and that the branch itself is well formed.
func (p *RequestPayload) Validate(requestType RequestType) error {
	branches := 0
	if p.Movement != nil {
		branches++
	}
	if p.Transfer != nil {
		branches++
	}
	if p.Adjustment != nil {
		branches++
	}
	if branches != 1 {
		return shared.NewDomainError("INVALID_PAYLOAD", "Exactly one payload branch must be set")
	}

	switch requestType {
	case RequestTypeMovement:
		if p.Movement == nil {
			return shared.NewDomainError("INVALID_PAYLOAD", "Movement request requires a movement payload")
		}
		return p.Movement.Validate()
	case RequestTypeTransfer:
		if p.Transfer == nil {
			return shared.NewDomainError("INVALID_PAYLOAD", "Transfer request requires a transfer payload")
		}
		return p.Transfer.Validate()
	case RequestTypeAdjustment:
		if p.Adjustment == nil {
			return shared.NewDomainError("INVALID_PAYLOAD", "Adjustment request requires an adjustment payload")
		}
		return p.Adjustment.Validate()
	default:
		return shared.NewDomainError("INVALID_REQUEST_TYPE", "Invalid request type")
	}
}

// WarehouseIDs returns the warehouses the payload touches, source first
func (p *RequestPayload) WarehouseIDs() []uuid.UUID {
	switch {
	case p.Movement != nil:
		return []uuid.UUID{p.Movement.WarehouseID}
	case p.Transfer != nil:
		return []uuid.UUID{p.Transfer.SourceWarehouseID, p.Transfer.TargetWarehouseID}
	case p.Adjustment != nil:
		return []uuid.UUID{p.Adjustment.WarehouseID}
	}
	return nil
}

// ProductIDs returns the distinct products the payload touches
func (p *RequestPayload) ProductIDs() []uuid.UUID {
	switch {
	case p.Movement != nil:
		return []uuid.UUID{p.Movement.ProductID}
	case p.Transfer != nil:
		ids := make([]uuid.UUID, 0, len(p.Transfer.Lines))
		for _, line := range p.Transfer.Lines {
			ids = append(ids, line.ProductID)
		}
		return ids
	case p.Adjustment != nil:
		ids := make([]uuid.UUID, 0, len(p.Adjustment.Lines))
		for _, line := range p.Adjustment.Lines {
			ids = append(ids, line.ProductID)
		}
		return ids
	}
	return nil
}
