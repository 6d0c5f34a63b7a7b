package event

import (
	"context"

	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditLogHandler writes a structured audit line for every workflow and
// ledger event. It is the default subscriber wired at startup.
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates a new AuditLogHandler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger}
}

// EventTypes returns the event types this handler consumes
func (h *AuditLogHandler) EventTypes() []string {
	return []string{
		"inventory.request.submitted",
		"inventory.request.approved",
		"inventory.request.rejected",
		"inventory.stock.changed",
	}
}

// Handle logs the event with its domain-specific fields
func (h *AuditLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case *inventory.MovementRequestSubmittedEvent:
		fields = append(fields,
			zap.String("tenant_id", e.TenantID.String()),
			zap.String("requested_by", e.RequestedBy.String()),
			zap.String("request_type", string(e.RequestType)))
	case *inventory.MovementRequestApprovedEvent:
		fields = append(fields,
			zap.String("tenant_id", e.TenantID.String()),
			zap.String("approved_by", e.ApprovedBy.String()),
			zap.String("request_type", string(e.RequestType)))
	case *inventory.MovementRequestRejectedEvent:
		fields = append(fields,
			zap.String("tenant_id", e.TenantID.String()),
			zap.String("rejected_by", e.RejectedBy.String()),
			zap.String("reason", e.Reason))
	case *inventory.StockLevelChangedEvent:
		fields = append(fields,
			zap.String("tenant_id", e.TenantID.String()),
			zap.String("warehouse_id", e.WarehouseID.String()),
			zap.String("product_id", e.ProductID.String()),
			zap.String("delta", e.Delta.String()),
			zap.String("new_balance", e.NewBalance.String()))
	}

	h.logger.Info("audit", fields...)
	return nil
}

var _ EventHandler = (*AuditLogHandler)(nil)
