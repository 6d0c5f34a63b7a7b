package trade

import (
	"strings"
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the lifecycle state of a purchase order
type PurchaseOrderStatus string

const (
	POStatusConfirmed         PurchaseOrderStatus = "confirmed"
	POStatusPartiallyReceived PurchaseOrderStatus = "partially_received"
	POStatusReceived          PurchaseOrderStatus = "received"
	POStatusClosed            PurchaseOrderStatus = "closed"
)

// IsValid checks if the status is valid
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case POStatusConfirmed, POStatusPartiallyReceived, POStatusReceived, POStatusClosed:
		return true
	}
	return false
}

// PurchaseOrderItem is one ordered product line with its receiving progress
type PurchaseOrderItem struct {
	shared.BaseEntity
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	OrderedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// RemainingQuantity returns how much is still expected
func (i *PurchaseOrderItem) RemainingQuantity() decimal.Decimal {
	remaining := i.OrderedQuantity.Sub(i.ReceivedQuantity)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsFullyReceived returns true if receipts cover the ordered quantity
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity.GreaterThanOrEqual(i.OrderedQuantity)
}

// PurchaseOrder is the supplier order that incoming shipments fulfil. Only the
// receiving side of its lifecycle lives here; ordering, pricing and supplier
// management are owned by the trading platform upstream.
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	OrderNumber string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_po_tenant_number,priority:2"`
	SupplierID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	WarehouseID uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status      PurchaseOrderStatus `gorm:"type:varchar(30);not null;index"`
	Items       []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a confirmed purchase order ready for receiving
func NewPurchaseOrder(tenantID, supplierID, warehouseID uuid.UUID, orderNumber string) (*PurchaseOrder, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	return &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		SupplierID:          supplierID,
		WarehouseID:         warehouseID,
		Status:              POStatusConfirmed,
	}, nil
}

// AddItem appends an ordered line
func (po *PurchaseOrder) AddItem(productID uuid.UUID, orderedQuantity decimal.Decimal) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if orderedQuantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity must be positive")
	}
	for _, item := range po.Items {
		if item.ProductID == productID {
			return shared.NewDomainError("DUPLICATE_ITEM", "Product already on the order")
		}
	}

	po.Items = append(po.Items, PurchaseOrderItem{
		BaseEntity:      shared.NewBaseEntity(),
		PurchaseOrderID: po.ID,
		ProductID:       productID,
		OrderedQuantity: orderedQuantity,
	})
	po.UpdatedAt = time.Now()
	po.IncrementVersion()

	return nil
}

// CanReceive returns true while the order accepts receipts
func (po *PurchaseOrder) CanReceive() bool {
	return po.Status == POStatusConfirmed || po.Status == POStatusPartiallyReceived
}

// ItemForProduct returns the order line for a product, or nil
func (po *PurchaseOrder) ItemForProduct(productID uuid.UUID) *PurchaseOrderItem {
	for i := range po.Items {
		if po.Items[i].ProductID == productID {
			return &po.Items[i]
		}
	}
	return nil
}

// AddReceivedQuantity bumps the received counter of one line and refreshes
// the order status. Over-receipt is tolerated; the counter records what the
// dock actually accepted.
func (po *PurchaseOrder) AddReceivedQuantity(productID uuid.UUID, quantity decimal.Decimal) error {
	if !po.CanReceive() {
		return shared.NewDomainError("INVALID_STATE", "Purchase order does not accept receipts")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}
	item := po.ItemForProduct(productID)
	if item == nil {
		return shared.NewDomainError("NOT_FOUND", "Product is not on the order")
	}

	item.ReceivedQuantity = item.ReceivedQuantity.Add(quantity)
	item.UpdatedAt = time.Now()
	po.refreshStatus()
	po.UpdatedAt = time.Now()
	po.IncrementVersion()

	return nil
}

// IsFullyReceived returns true once every line reached its ordered quantity
func (po *PurchaseOrder) IsFullyReceived() bool {
	return po.Status == POStatusReceived
}

// Close finishes the order regardless of remaining quantities
func (po *PurchaseOrder) Close() error {
	if po.Status == POStatusClosed {
		return shared.NewDomainError("INVALID_STATE", "Purchase order is already closed")
	}
	po.Status = POStatusClosed
	po.UpdatedAt = time.Now()
	po.IncrementVersion()
	return nil
}

func (po *PurchaseOrder) refreshStatus() {
	if len(po.Items) == 0 {
		return
	}
	allReceived := true
	anyReceived := false
	for i := range po.Items {
		if po.Items[i].ReceivedQuantity.GreaterThan(decimal.Zero) {
			anyReceived = true
		}
		if !po.Items[i].IsFullyReceived() {
			allReceived = false
		}
	}
	switch {
	case allReceived:
		po.Status = POStatusReceived
	case anyReceived:
		po.Status = POStatusPartiallyReceived
	}
}
