package handler

import (
	appinv "github.com/bizops/backend/internal/application/inventory"
	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MovementRequestHandler serves the approval workflow endpoints
type MovementRequestHandler struct {
	BaseHandler
	requests   *appinv.RequestService
	cycleCount *appinv.CycleCountService
}

// NewMovementRequestHandler creates a new MovementRequestHandler
func NewMovementRequestHandler(requests *appinv.RequestService, cycleCount *appinv.CycleCountService) *MovementRequestHandler {
	return &MovementRequestHandler{requests: requests, cycleCount: cycleCount}
}

// Submit files a new stock movement request
// POST /api/v1/stock-requests
func (h *MovementRequestHandler) Submit(c *gin.Context) {
	tenantID, userID, err := identityFrom(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req dto.SubmitRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	response, err := h.requests.Submit(c.Request.Context(), appinv.SubmitRequestCommand{
		TenantID:    tenantID,
		ActorID:     userID,
		RequestType: inventory.RequestType(req.RequestType),
		Payload:     req.ToPayload(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, response)
}

// Approve approves a pending request and applies it to the ledger
// POST /api/v1/stock-requests/:id/approve
func (h *MovementRequestHandler) Approve(c *gin.Context) {
	tenantID, userID, err := identityFrom(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	response, err := h.requests.Approve(c.Request.Context(), appinv.DecideRequestCommand{
		TenantID:  tenantID,
		ActorID:   userID,
		RequestID: requestID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

// Reject rejects a pending request with a reason
// POST /api/v1/stock-requests/:id/reject
func (h *MovementRequestHandler) Reject(c *gin.Context) {
	tenantID, userID, err := identityFrom(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	var req dto.RejectRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	response, err := h.requests.Reject(c.Request.Context(), appinv.DecideRequestCommand{
		TenantID:  tenantID,
		ActorID:   userID,
		RequestID: requestID,
		Reason:    req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

// Get returns one request
// GET /api/v1/stock-requests/:id
func (h *MovementRequestHandler) Get(c *gin.Context) {
	tenantID, userID, err := identityFrom(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	response, err := h.requests.Get(c.Request.Context(), tenantID, userID, requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

// List returns requests visible to the caller, newest first
// GET /api/v1/stock-requests
func (h *MovementRequestHandler) List(c *gin.Context) {
	tenantID, userID, err := identityFrom(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req dto.ListRequestsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	query := appinv.ListRequestsQuery{
		TenantID: tenantID,
		ActorID:  userID,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Status != "" {
		status := inventory.RequestStatus(req.Status)
		query.Status = &status
	}
	if req.RequestType != "" {
		requestType := inventory.RequestType(req.RequestType)
		query.RequestType = &requestType
	}

	page, err := h.requests.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// CycleCount submits counted quantities as an adjustment request
// POST /api/v1/cycle-counts
func (h *MovementRequestHandler) CycleCount(c *gin.Context) {
	tenantID, userID, err := identityFrom(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req dto.CycleCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lines := make([]appinv.CountLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, appinv.CountLine{
			ProductID:       line.ProductID,
			CountedQuantity: line.CountedQuantity,
			Remark:          line.Remark,
		})
	}

	response, err := h.cycleCount.ReconcileCount(c.Request.Context(), appinv.CycleCountCommand{
		TenantID:    tenantID,
		OperatorID:  userID,
		WarehouseID: req.WarehouseID,
		Reference:   req.Reference,
		Lines:       lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, response)
}
