package handler

import (
	apprecv "github.com/bizops/backend/internal/application/receiving"
	"github.com/bizops/backend/internal/domain/receiving"
	"github.com/bizops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ShipmentHandler serves the incoming shipment endpoints
type ShipmentHandler struct {
	BaseHandler
	shipments *apprecv.ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler
func NewShipmentHandler(shipments *apprecv.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{shipments: shipments}
}

// Create announces a delivery against a purchase order
// POST /api/v1/shipments
func (h *ShipmentHandler) Create(c *gin.Context) {
	tenantID, userID, err := identityFrom(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req dto.CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lines := make([]apprecv.ExpectedLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, apprecv.ExpectedLine{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	response, err := h.shipments.CreateShipment(c.Request.Context(), apprecv.CreateShipmentCommand{
		TenantID:        tenantID,
		ActorID:         userID,
		PurchaseOrderID: req.PurchaseOrderID,
		ShipmentNumber:  req.ShipmentNumber,
		CarrierRef:      req.CarrierRef,
		Lines:           lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, response)
}

// RecordReceipt captures the dock counts and marks the shipment received
// POST /api/v1/shipments/:id/receipt
func (h *ShipmentHandler) RecordReceipt(c *gin.Context) {
	tenantID, userID, err := identityFrom(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}

	var req dto.RecordReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lines := make([]apprecv.ReceiptLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, apprecv.ReceiptLine{
			ProductID: line.ProductID,
			Received:  line.Received,
			Accepted:  line.Accepted,
			Rejected:  line.Rejected,
			Remark:    line.Remark,
		})
	}

	response, err := h.shipments.RecordReceipt(c.Request.Context(), apprecv.RecordReceiptCommand{
		TenantID:   tenantID,
		ActorID:    userID,
		ShipmentID: shipmentID,
		Lines:      lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

// Process applies a received shipment to stock, exactly once
// POST /api/v1/shipments/:id/process
func (h *ShipmentHandler) Process(c *gin.Context) {
	tenantID, userID, err := identityFrom(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}

	response, err := h.shipments.ProcessShipment(c.Request.Context(), apprecv.ProcessShipmentCommand{
		TenantID:   tenantID,
		ActorID:    userID,
		ShipmentID: shipmentID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

// Reject refuses a shipment before processing
// POST /api/v1/shipments/:id/reject
func (h *ShipmentHandler) Reject(c *gin.Context) {
	tenantID, userID, err := identityFrom(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}

	var req dto.RejectShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	response, err := h.shipments.RejectShipment(c.Request.Context(), apprecv.RejectShipmentCommand{
		TenantID:   tenantID,
		ActorID:    userID,
		ShipmentID: shipmentID,
		Reason:     req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

// Get returns one shipment
// GET /api/v1/shipments/:id
func (h *ShipmentHandler) Get(c *gin.Context) {
	tenantID, userID, err := identityFrom(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}

	response, err := h.shipments.GetShipment(c.Request.Context(), tenantID, userID, shipmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

// List returns shipments visible to the caller, newest first
// GET /api/v1/shipments
func (h *ShipmentHandler) List(c *gin.Context) {
	tenantID, userID, err := identityFrom(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req dto.ListShipmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	query := apprecv.ListShipmentsQuery{
		TenantID:    tenantID,
		ActorID:     userID,
		WarehouseID: req.WarehouseID,
		Page:        req.Page,
		PageSize:    req.PageSize,
	}
	if req.Status != "" {
		status := receiving.ShipmentStatus(req.Status)
		query.Status = &status
	}

	page, err := h.shipments.ListShipments(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
