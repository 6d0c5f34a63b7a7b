package inventory

import (
	"strings"
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RequestType classifies what a stock movement request wants to do
type RequestType string

const (
	RequestTypeMovement   RequestType = "movement"
	RequestTypeTransfer   RequestType = "transfer"
	RequestTypeAdjustment RequestType = "adjustment"
)

// IsValid checks if the request type is valid
func (t RequestType) IsValid() bool {
	switch t {
	case RequestTypeMovement, RequestTypeTransfer, RequestTypeAdjustment:
		return true
	}
	return false
}

// RequestStatus represents the lifecycle state of a stock movement request
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
	RequestStatusFailed   RequestStatus = "failed"
)

// IsValid checks if the status is valid
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected, RequestStatusFailed:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status.
// A pending request is decided exactly once; approved may become failed when
// the ledger application does not go through.
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	switch s {
	case RequestStatusPending:
		return target == RequestStatusApproved || target == RequestStatusRejected
	case RequestStatusApproved:
		return target == RequestStatusFailed
	}
	return false
}

// IsTerminal returns true when no further transition is possible
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusRejected || s == RequestStatusFailed
}

// StockMovementRequest is the approval-workflow aggregate. A request is
// submitted with a fully decoded payload, sits pending until an approver
// decides it, and on approval the ledger application runs. The pending
// decision is guarded by a conditional update in persistence so that two
// racing approvers cannot both win.
type StockMovementRequest struct {
	shared.TenantAggregateRoot
	RequestType   RequestType    `gorm:"type:varchar(20);not null;index"`
	Status        RequestStatus  `gorm:"type:varchar(20);not null;index"`
	WarehouseID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Payload       RequestPayload `gorm:"serializer:json;type:jsonb;not null"`
	RequestedBy   uuid.UUID      `gorm:"type:uuid;not null;index"`
	RequestedAt   time.Time      `gorm:"not null"`
	ApprovedBy    *uuid.UUID     `gorm:"type:uuid"`
	ApprovedAt    *time.Time     ``
	RejectedBy    *uuid.UUID     `gorm:"type:uuid"`
	RejectedAt    *time.Time     ``
	RejectReason  string         `gorm:"type:varchar(500)"`
	FailureReason string         `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (StockMovementRequest) TableName() string {
	return "stock_movement_requests"
}

// NewStockMovementRequest creates a pending request with a validated payload.
// WarehouseID is the payload's primary warehouse (the source for transfers)
// and is denormalized for scoped listing.
func NewStockMovementRequest(
	tenantID uuid.UUID,
	requestType RequestType,
	payload RequestPayload,
	requestedBy uuid.UUID,
) (*StockMovementRequest, error) {
	if !requestType.IsValid() {
		return nil, shared.NewDomainError("INVALID_REQUEST_TYPE", "Invalid request type")
	}
	if requestedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OPERATOR", "Requester ID cannot be empty")
	}
	if err := payload.Validate(requestType); err != nil {
		return nil, err
	}

	return &StockMovementRequest{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RequestType:         requestType,
		Status:              RequestStatusPending,
		WarehouseID:         payload.WarehouseIDs()[0],
		Payload:             payload,
		RequestedBy:         requestedBy,
		RequestedAt:         time.Now(),
	}, nil
}

// Approve marks the request approved by the given user
func (r *StockMovementRequest) Approve(approverID uuid.UUID) error {
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_OPERATOR", "Approver ID cannot be empty")
	}
	if !r.Status.CanTransitionTo(RequestStatusApproved) {
		return shared.ErrAlreadyProcessed
	}

	now := time.Now()
	r.Status = RequestStatusApproved
	r.ApprovedBy = &approverID
	r.ApprovedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()
	r.AddDomainEvent(NewMovementRequestApprovedEvent(r.ID, r.TenantID, approverID, r.RequestType))

	return nil
}

// Reject marks the request rejected with a reason
func (r *StockMovementRequest) Reject(rejecterID uuid.UUID, reason string) error {
	if rejecterID == uuid.Nil {
		return shared.NewDomainError("INVALID_OPERATOR", "Rejecter ID cannot be empty")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason cannot be empty")
	}
	if !r.Status.CanTransitionTo(RequestStatusRejected) {
		return shared.ErrAlreadyProcessed
	}

	now := time.Now()
	r.Status = RequestStatusRejected
	r.RejectedBy = &rejecterID
	r.RejectedAt = &now
	r.RejectReason = reason
	r.UpdatedAt = now
	r.IncrementVersion()
	r.AddDomainEvent(NewMovementRequestRejectedEvent(r.ID, r.TenantID, rejecterID, reason))

	return nil
}

// MarkFailed records that the approved request could not be applied to the
// ledger. The approval itself stands; the failure reason tells the operator
// why the stock never moved.
func (r *StockMovementRequest) MarkFailed(reason string) error {
	if !r.Status.CanTransitionTo(RequestStatusFailed) {
		return shared.NewDomainError("INVALID_STATE", "Only approved requests can be marked failed")
	}

	r.Status = RequestStatusFailed
	r.FailureReason = strings.TrimSpace(reason)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// IsPending returns true if the request awaits a decision
func (r *StockMovementRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// TouchesWarehouse returns true if the payload involves the given warehouse
func (r *StockMovementRequest) TouchesWarehouse(warehouseID uuid.UUID) bool {
	for _, id := range r.Payload.WarehouseIDs() {
		if id == warehouseID {
			return true
		}
	}
	return false
}
