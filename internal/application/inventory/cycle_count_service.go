package inventory

import (
	"context"

	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CycleCountService compiles a warehouse walk-through into an adjustment
// request. The compiled payload goes through the normal intake path, so a
// count is subject to the same role policy as any other adjustment: a
// self-approving role applies immediately, everyone else leaves a pending
// request for a decider.
type CycleCountService struct {
	requests *RequestService
	logger   *zap.Logger
}

// NewCycleCountService creates a new CycleCountService
func NewCycleCountService(requests *RequestService, logger *zap.Logger) *CycleCountService {
	return &CycleCountService{
		requests: requests,
		logger:   logger,
	}
}

// ReconcileCount submits the counted quantities of one warehouse walk-through
// as an adjustment request. Ledger rows produced by an approved count carry
// the cycle count source so they stay distinguishable from manual corrections.
func (s *CycleCountService) ReconcileCount(ctx context.Context, cmd CycleCountCommand) (*MovementRequestResponse, error) {
	if len(cmd.Lines) == 0 {
		return nil, shared.NewDomainError("INVALID_PAYLOAD", "Cycle count must contain at least one line")
	}

	lines := make([]inventory.AdjustmentLine, 0, len(cmd.Lines))
	for _, line := range cmd.Lines {
		lines = append(lines, inventory.AdjustmentLine{
			ProductID:      line.ProductID,
			ActualQuantity: line.CountedQuantity,
			Remark:         line.Remark,
		})
	}

	response, err := s.requests.Submit(ctx, SubmitRequestCommand{
		TenantID:    cmd.TenantID,
		ActorID:     cmd.OperatorID,
		RequestType: inventory.RequestTypeAdjustment,
		Payload: inventory.RequestPayload{
			Adjustment: &inventory.AdjustmentPayload{
				WarehouseID: cmd.WarehouseID,
				Lines:       lines,
				Reference:   cmd.Reference,
				Source:      inventory.SourceTypeCycleCount,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cycle count submitted",
		zap.String("request_id", response.ID.String()),
		zap.String("warehouse_id", cmd.WarehouseID.String()),
		zap.String("status", string(response.Status)),
		zap.Int("lines", len(lines)))

	return response, nil
}
