package inventory

import (
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is the materialized on-hand stock for a product at a warehouse.
// It is the aggregate root for inventory state; the composite identifier is
// WarehouseID + ProductID. Items are created lazily on the first movement into
// a previously-unseen pair and are never deleted while movement history
// references them.
//
// Invariant: AvailableQuantity = QuantityOnHand - ReservedQuantity, and both
// are non-negative unless the product is configured to allow negative stock.
type InventoryItem struct {
	shared.TenantAggregateRoot
	WarehouseID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_item_warehouse_product,priority:2"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_item_warehouse_product,priority:3"`
	QuantityOnHand    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReservedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AvailableQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LocationID        *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates a new inventory item for a warehouse-product combination
func NewInventoryItem(tenantID, warehouseID, productID uuid.UUID) (*InventoryItem, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	return &InventoryItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		WarehouseID:         warehouseID,
		ProductID:           productID,
		QuantityOnHand:      decimal.Zero,
		ReservedQuantity:    decimal.Zero,
		AvailableQuantity:   decimal.Zero,
	}, nil
}

// Receive increases on-hand and available quantity by the given amount
func (i *InventoryItem) Receive(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	i.QuantityOnHand = i.QuantityOnHand.Add(quantity)
	i.AvailableQuantity = i.AvailableQuantity.Add(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Issue decreases on-hand and available quantity by the given amount.
// Unless allowNegative is set, the resulting available quantity must stay
// non-negative.
func (i *InventoryItem) Issue(quantity decimal.Decimal, allowNegative bool) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !allowNegative && i.AvailableQuantity.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	i.QuantityOnHand = i.QuantityOnHand.Sub(quantity)
	i.AvailableQuantity = i.AvailableQuantity.Sub(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// AdjustTo sets on-hand quantity to the counted actual value and returns the
// signed difference. Available becomes max(0, actual - reserved).
func (i *InventoryItem) AdjustTo(actualQuantity decimal.Decimal) (decimal.Decimal, error) {
	if actualQuantity.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Actual quantity cannot be negative")
	}

	difference := actualQuantity.Sub(i.QuantityOnHand)

	i.QuantityOnHand = actualQuantity
	available := actualQuantity.Sub(i.ReservedQuantity)
	if available.IsNegative() {
		available = decimal.Zero
	}
	i.AvailableQuantity = available
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return difference, nil
}

// Reserve moves quantity from available to reserved
func (i *InventoryItem) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if i.AvailableQuantity.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	i.ReservedQuantity = i.ReservedQuantity.Add(quantity)
	i.AvailableQuantity = i.AvailableQuantity.Sub(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// ReleaseReservation moves quantity from reserved back to available
func (i *InventoryItem) ReleaseReservation(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if i.ReservedQuantity.LessThan(quantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Cannot release more than the reserved quantity")
	}

	i.ReservedQuantity = i.ReservedQuantity.Sub(quantity)
	i.AvailableQuantity = i.AvailableQuantity.Add(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// SetLocation records the default storage location for this item
func (i *InventoryItem) SetLocation(locationID uuid.UUID) error {
	if locationID == uuid.Nil {
		return shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	i.LocationID = &locationID
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// CanFulfill returns true if the available quantity can cover the requested quantity
func (i *InventoryItem) CanFulfill(quantity decimal.Decimal) bool {
	return i.AvailableQuantity.GreaterThanOrEqual(quantity)
}

// HasAvailableStock returns true if there is available stock
func (i *InventoryItem) HasAvailableStock() bool {
	return i.AvailableQuantity.GreaterThan(decimal.Zero)
}
