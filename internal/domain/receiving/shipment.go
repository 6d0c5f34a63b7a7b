package receiving

import (
	"strings"
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShipmentStatus represents the lifecycle state of an incoming shipment
type ShipmentStatus string

const (
	ShipmentStatusAssigned  ShipmentStatus = "assigned"
	ShipmentStatusReceived  ShipmentStatus = "received"
	ShipmentStatusProcessed ShipmentStatus = "processed"
	ShipmentStatusRejected  ShipmentStatus = "rejected"
)

// IsValid checks if the status is valid
func (s ShipmentStatus) IsValid() bool {
	switch s {
	case ShipmentStatusAssigned, ShipmentStatusReceived, ShipmentStatusProcessed, ShipmentStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s ShipmentStatus) CanTransitionTo(target ShipmentStatus) bool {
	switch s {
	case ShipmentStatusAssigned:
		return target == ShipmentStatusReceived || target == ShipmentStatusRejected
	case ShipmentStatusReceived:
		return target == ShipmentStatusProcessed
	}
	return false
}

// ShipmentLine is one expected product on an incoming shipment. Receipt counts
// are recorded at the dock: received splits into accepted and rejected, and
// the split must always add up exactly.
type ShipmentLine struct {
	shared.BaseEntity
	ShipmentID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	ExpectedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AcceptedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RejectedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Remark           string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ShipmentLine) TableName() string {
	return "shipment_lines"
}

// CountsConsistent returns true when accepted plus rejected equals received
func (l *ShipmentLine) CountsConsistent() bool {
	return l.AcceptedQuantity.Add(l.RejectedQuantity).Equal(l.ReceivedQuantity)
}

// IncomingShipment is a delivery against a purchase order. It is assigned to
// a warehouse, receives per-line counts at the dock, and is then processed
// exactly once into ledger movements and purchase order progress.
type IncomingShipment struct {
	shared.TenantAggregateRoot
	ShipmentNumber  string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_shipment_tenant_number,priority:2"`
	PurchaseOrderID uuid.UUID      `gorm:"type:uuid;not null;index"`
	WarehouseID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status          ShipmentStatus `gorm:"type:varchar(20);not null;index"`
	CarrierRef      string         `gorm:"type:varchar(100)"`
	ReceivedBy      *uuid.UUID     `gorm:"type:uuid"`
	ReceivedAt      *time.Time     ``
	ProcessedAt     *time.Time     ``
	RejectReason    string         `gorm:"type:varchar(500)"`
	Lines           []ShipmentLine `gorm:"foreignKey:ShipmentID"`
}

// TableName returns the table name for GORM
func (IncomingShipment) TableName() string {
	return "incoming_shipments"
}

// NewIncomingShipment creates a shipment in the assigned state
func NewIncomingShipment(tenantID, purchaseOrderID, warehouseID uuid.UUID, shipmentNumber string) (*IncomingShipment, error) {
	shipmentNumber = strings.TrimSpace(shipmentNumber)
	if shipmentNumber == "" {
		return nil, shared.NewDomainError("INVALID_SHIPMENT_NUMBER", "Shipment number cannot be empty")
	}
	if purchaseOrderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Purchase order ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	return &IncomingShipment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ShipmentNumber:      shipmentNumber,
		PurchaseOrderID:     purchaseOrderID,
		WarehouseID:         warehouseID,
		Status:              ShipmentStatusAssigned,
	}, nil
}

// AddLine appends an expected product line
func (s *IncomingShipment) AddLine(productID uuid.UUID, expectedQuantity decimal.Decimal) error {
	if s.Status != ShipmentStatusAssigned {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be added while the shipment is assigned")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if expectedQuantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Expected quantity must be positive")
	}
	for _, line := range s.Lines {
		if line.ProductID == productID {
			return shared.NewDomainError("DUPLICATE_ITEM", "Product already on the shipment")
		}
	}

	s.Lines = append(s.Lines, ShipmentLine{
		BaseEntity:       shared.NewBaseEntity(),
		ShipmentID:       s.ID,
		ProductID:        productID,
		ExpectedQuantity: expectedQuantity,
	})
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// LineForProduct returns the line for a product, or nil
func (s *IncomingShipment) LineForProduct(productID uuid.UUID) *ShipmentLine {
	for i := range s.Lines {
		if s.Lines[i].ProductID == productID {
			return &s.Lines[i]
		}
	}
	return nil
}

// RecordLineCounts captures the dock counts for one line. Accepted plus
// rejected must equal received; partial and over receipts are both allowed,
// the counts record what actually arrived.
func (s *IncomingShipment) RecordLineCounts(productID uuid.UUID, received, accepted, rejected decimal.Decimal, remark string) error {
	if s.Status != ShipmentStatusAssigned {
		return shared.NewDomainError("INVALID_STATE", "Counts can only be recorded while the shipment is assigned")
	}
	line := s.LineForProduct(productID)
	if line == nil {
		return shared.NewDomainError("NOT_FOUND", "Product is not on the shipment")
	}
	if received.IsNegative() || accepted.IsNegative() || rejected.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Counts cannot be negative")
	}
	if !accepted.Add(rejected).Equal(received) {
		return shared.ErrInvariantViolation
	}

	line.ReceivedQuantity = received
	line.AcceptedQuantity = accepted
	line.RejectedQuantity = rejected
	line.Remark = strings.TrimSpace(remark)
	line.UpdatedAt = time.Now()
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// MarkReceived closes the counting phase. Every line must hold a consistent
// accepted-plus-rejected split before the shipment can move on.
func (s *IncomingShipment) MarkReceived(receivedBy uuid.UUID) error {
	if receivedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_OPERATOR", "Receiver ID cannot be empty")
	}
	if !s.Status.CanTransitionTo(ShipmentStatusReceived) {
		return shared.NewDomainError("INVALID_STATE", "Shipment cannot be marked received from its current state")
	}
	for i := range s.Lines {
		if !s.Lines[i].CountsConsistent() {
			return shared.ErrInvariantViolation
		}
	}

	now := time.Now()
	s.Status = ShipmentStatusReceived
	s.ReceivedBy = &receivedBy
	s.ReceivedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	return nil
}

// MarkProcessed records that the accepted quantities landed in the ledger
func (s *IncomingShipment) MarkProcessed() error {
	if !s.Status.CanTransitionTo(ShipmentStatusProcessed) {
		return shared.NewDomainError("INVALID_STATE", "Only received shipments can be processed")
	}

	now := time.Now()
	s.Status = ShipmentStatusProcessed
	s.ProcessedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	return nil
}

// Reject refuses the whole shipment before any counting is finalized
func (s *IncomingShipment) Reject(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason cannot be empty")
	}
	if !s.Status.CanTransitionTo(ShipmentStatusRejected) {
		return shared.NewDomainError("INVALID_STATE", "Shipment cannot be rejected from its current state")
	}

	s.Status = ShipmentStatusRejected
	s.RejectReason = reason
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// AcceptedLines returns the lines with a positive accepted quantity
func (s *IncomingShipment) AcceptedLines() []ShipmentLine {
	var accepted []ShipmentLine
	for _, line := range s.Lines {
		if line.AcceptedQuantity.GreaterThan(decimal.Zero) {
			accepted = append(accepted, line)
		}
	}
	return accepted
}
