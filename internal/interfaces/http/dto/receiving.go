package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShipmentLineRequest is one expected product on a new shipment
type ShipmentLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateShipmentRequest announces a delivery against a purchase order
type CreateShipmentRequest struct {
	PurchaseOrderID uuid.UUID             `json:"purchase_order_id" binding:"required"`
	ShipmentNumber  string                `json:"shipment_number" binding:"required,max=50"`
	CarrierRef      string                `json:"carrier_ref" binding:"max=100"`
	Lines           []ShipmentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ReceiptLineRequest carries the dock counts for one line
type ReceiptLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Received  decimal.Decimal `json:"received"`
	Accepted  decimal.Decimal `json:"accepted"`
	Rejected  decimal.Decimal `json:"rejected"`
	Remark    string          `json:"remark" binding:"max=500"`
}

// RecordReceiptRequest finalizes the counting phase of a shipment
type RecordReceiptRequest struct {
	Lines []ReceiptLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// RejectShipmentRequest refuses a shipment with a reason
type RejectShipmentRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ListShipmentsRequest narrows the shipment listing
type ListShipmentsRequest struct {
	ListRequest
	Status      string     `form:"status" binding:"omitempty,oneof=assigned received processed rejected"`
	WarehouseID *uuid.UUID `form:"warehouse_id"`
}
