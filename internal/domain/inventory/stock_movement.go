package inventory

import (
	"strings"
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType classifies a ledger row by direction
type MovementType string

const (
	MovementTypeIn         MovementType = "in"
	MovementTypeOut        MovementType = "out"
	MovementTypeAdjustment MovementType = "adjustment"
)

// IsValid checks if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjustment:
		return true
	}
	return false
}

// SourceType identifies the business process that produced a movement
type SourceType string

const (
	SourceTypeManual           SourceType = "MANUAL"
	SourceTypeTransfer         SourceType = "TRANSFER"
	SourceTypeCycleCount       SourceType = "CYCLE_COUNT"
	SourceTypeIncomingShipment SourceType = "INCOMING_SHIPMENT"
	SourceTypePurchaseOrder    SourceType = "PURCHASE_ORDER"
)

// IsValid checks if the source type is valid
func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypeManual, SourceTypeTransfer, SourceTypeCycleCount,
		SourceTypeIncomingShipment, SourceTypePurchaseOrder:
		return true
	}
	return false
}

// StockMovement is one immutable row of the stock ledger. Rows are only ever
// appended; corrections happen through compensating adjustment rows, never by
// editing history. SignedQuantity carries the direction (+in, -out, +/-
// adjustment) so that summing rows per item reproduces the on-hand balance.
type StockMovement struct {
	shared.TenantAggregateRoot
	WarehouseID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_warehouse_product,priority:1"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_warehouse_product,priority:2"`
	LocationID     *uuid.UUID      `gorm:"type:uuid"`
	MovementType   MovementType    `gorm:"type:varchar(20);not null"`
	SourceType     SourceType      `gorm:"type:varchar(30);not null;index"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SignedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceBefore  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reference      string          `gorm:"type:varchar(100);index"`
	Reason         string          `gorm:"type:varchar(500)"`
	OperatorID     uuid.UUID       `gorm:"type:uuid;not null"`
	RequestID      *uuid.UUID      `gorm:"type:uuid;index"`
	ShipmentID     *uuid.UUID      `gorm:"type:uuid;index"`
	MovementDate   time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a ledger row. Quantity must be positive; the signed
// quantity is derived from the movement type. For adjustments the caller passes
// the signed difference directly via NewAdjustmentMovement.
func NewStockMovement(
	tenantID, warehouseID, productID, operatorID uuid.UUID,
	movementType MovementType,
	sourceType SourceType,
	quantity decimal.Decimal,
	balanceBefore decimal.Decimal,
) (*StockMovement, error) {
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "Invalid source type")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if operatorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OPERATOR", "Operator ID cannot be empty")
	}
	if movementType == MovementTypeAdjustment {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Adjustment rows must be created with NewAdjustmentMovement")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	signed := quantity
	if movementType == MovementTypeOut {
		signed = quantity.Neg()
	}

	return &StockMovement{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		WarehouseID:         warehouseID,
		ProductID:           productID,
		MovementType:        movementType,
		SourceType:          sourceType,
		Quantity:            quantity,
		SignedQuantity:      signed,
		BalanceBefore:       balanceBefore,
		BalanceAfter:        balanceBefore.Add(signed),
		OperatorID:          operatorID,
		MovementDate:        time.Now(),
	}, nil
}

// NewAdjustmentMovement creates an adjustment row from the signed difference
// between the counted and recorded quantity. A zero difference is rejected;
// callers short-circuit zero-diff lines before reaching the ledger.
func NewAdjustmentMovement(
	tenantID, warehouseID, productID, operatorID uuid.UUID,
	sourceType SourceType,
	difference decimal.Decimal,
	balanceBefore decimal.Decimal,
) (*StockMovement, error) {
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "Invalid source type")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if operatorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OPERATOR", "Operator ID cannot be empty")
	}
	if difference.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment difference cannot be zero")
	}

	return &StockMovement{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		WarehouseID:         warehouseID,
		ProductID:           productID,
		MovementType:        MovementTypeAdjustment,
		SourceType:          sourceType,
		Quantity:            difference.Abs(),
		SignedQuantity:      difference,
		BalanceBefore:       balanceBefore,
		BalanceAfter:        balanceBefore.Add(difference),
		OperatorID:          operatorID,
		MovementDate:        time.Now(),
	}, nil
}

// WithLocation attaches a storage location to the movement
func (m *StockMovement) WithLocation(locationID uuid.UUID) *StockMovement {
	if locationID != uuid.Nil {
		m.LocationID = &locationID
	}
	return m
}

// WithReference attaches an external reference number
func (m *StockMovement) WithReference(reference string) *StockMovement {
	m.Reference = strings.TrimSpace(reference)
	return m
}

// WithReason attaches a free-text reason
func (m *StockMovement) WithReason(reason string) *StockMovement {
	m.Reason = strings.TrimSpace(reason)
	return m
}

// WithRequest links the movement to the approval request that produced it
func (m *StockMovement) WithRequest(requestID uuid.UUID) *StockMovement {
	if requestID != uuid.Nil {
		m.RequestID = &requestID
	}
	return m
}

// WithShipment links the movement to the incoming shipment that produced it
func (m *StockMovement) WithShipment(shipmentID uuid.UUID) *StockMovement {
	if shipmentID != uuid.Nil {
		m.ShipmentID = &shipmentID
	}
	return m
}

// IsInbound returns true when the row increases stock
func (m *StockMovement) IsInbound() bool {
	return m.SignedQuantity.GreaterThan(decimal.Zero)
}

// IsOutbound returns true when the row decreases stock
func (m *StockMovement) IsOutbound() bool {
	return m.SignedQuantity.LessThan(decimal.Zero)
}
