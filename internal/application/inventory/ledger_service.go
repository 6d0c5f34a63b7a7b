package inventory

import (
	"context"

	"github.com/bizops/backend/internal/domain/catalog"
	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockCacheInvalidator drops cached stock views after a ledger write lands.
// Invalidation is best effort and runs after commit; a miss only costs a
// re-read from the database.
type StockCacheInvalidator interface {
	InvalidateItem(ctx context.Context, tenantID, warehouseID, productID uuid.UUID)
}

// LedgerService applies approved stock changes to the ledger. Every apply
// runs inside one transaction scope: the item mutation and its ledger row
// commit together, and a multi-line transfer or adjustment is all-or-nothing.
type LedgerService struct {
	scope          TransactionScope
	productRepo    catalog.ProductRepository
	invalidator    StockCacheInvalidator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(scope TransactionScope, productRepo catalog.ProductRepository, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		scope:       scope,
		productRepo: productRepo,
		logger:      logger,
	}
}

// SetCacheInvalidator sets the optional cache invalidator
func (s *LedgerService) SetCacheInvalidator(invalidator StockCacheInvalidator) {
	s.invalidator = invalidator
}

// SetEventPublisher sets the optional event publisher
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ApplyRequest applies an approved request to the ledger and returns the rows
// it produced. The caller holds the approved request; this method only moves
// stock.
func (s *LedgerService) ApplyRequest(ctx context.Context, request *inventory.StockMovementRequest) ([]StockMovementResponse, error) {
	var movements []*inventory.StockMovement

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var applyErr error
		switch request.RequestType {
		case inventory.RequestTypeMovement:
			movements, applyErr = s.applyMovement(ctx, repos, request)
		case inventory.RequestTypeTransfer:
			movements, applyErr = s.applyTransfer(ctx, repos, request)
		case inventory.RequestTypeAdjustment:
			movements, _, applyErr = s.applyAdjustmentLines(
				ctx, repos,
				request.TenantID, *request.ApprovedBy, request.Payload.Adjustment.WarehouseID,
				request.Payload.Adjustment.Lines,
				request.Payload.Adjustment.EffectiveSource(),
				request.Payload.Adjustment.Reference, request.Payload.Adjustment.Reason,
				&request.ID,
			)
		default:
			applyErr = shared.NewDomainError("INVALID_REQUEST_TYPE", "Invalid request type")
		}
		return applyErr
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, movements)
	return toMovementResponses(movements), nil
}

func (s *LedgerService) applyMovement(ctx context.Context, repos TransactionalRepositories, request *inventory.StockMovementRequest) ([]*inventory.StockMovement, error) {
	p := request.Payload.Movement
	operatorID := *request.ApprovedBy

	var (
		item *inventory.InventoryItem
		err  error
	)

	switch p.Direction {
	case inventory.DirectionIn:
		item, err = repos.ItemRepo().AddStock(ctx, request.TenantID, p.WarehouseID, p.ProductID, p.Quantity)
	case inventory.DirectionOut:
		allowNegative, lookupErr := s.allowNegativeStock(ctx, request.TenantID, p.ProductID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		item, err = repos.ItemRepo().DeductStock(ctx, request.TenantID, p.WarehouseID, p.ProductID, p.Quantity, allowNegative)
	default:
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Direction must be 'in' or 'out'")
	}
	if err != nil {
		return nil, err
	}

	movementType := inventory.MovementTypeIn
	if p.Direction == inventory.DirectionOut {
		movementType = inventory.MovementTypeOut
	}
	balanceBefore := item.QuantityOnHand.Sub(p.Quantity)
	if p.Direction == inventory.DirectionOut {
		balanceBefore = item.QuantityOnHand.Add(p.Quantity)
	}

	movement, err := inventory.NewStockMovement(
		request.TenantID, p.WarehouseID, p.ProductID, operatorID,
		movementType, inventory.SourceTypeManual,
		p.Quantity, balanceBefore,
	)
	if err != nil {
		return nil, err
	}
	movement.WithReference(p.Reference).WithReason(p.Reason).WithRequest(request.ID)
	if p.LocationID != nil {
		movement.WithLocation(*p.LocationID)
	}

	if err := repos.MovementRepo().Create(ctx, movement); err != nil {
		return nil, err
	}
	return []*inventory.StockMovement{movement}, nil
}

// applyTransfer deducts every line from the source warehouse and adds it to
// the target, two ledger rows per line, inside the caller's transaction. The
// first line that fails its stock guard rolls the whole transfer back.
func (s *LedgerService) applyTransfer(ctx context.Context, repos TransactionalRepositories, request *inventory.StockMovementRequest) ([]*inventory.StockMovement, error) {
	p := request.Payload.Transfer
	operatorID := *request.ApprovedBy
	movements := make([]*inventory.StockMovement, 0, len(p.Lines)*2)

	for _, line := range p.Lines {
		allowNegative, err := s.allowNegativeStock(ctx, request.TenantID, line.ProductID)
		if err != nil {
			return nil, err
		}

		sourceItem, err := repos.ItemRepo().DeductStock(ctx, request.TenantID, p.SourceWarehouseID, line.ProductID, line.Quantity, allowNegative)
		if err != nil {
			return nil, err
		}
		outRow, err := inventory.NewStockMovement(
			request.TenantID, p.SourceWarehouseID, line.ProductID, operatorID,
			inventory.MovementTypeOut, inventory.SourceTypeTransfer,
			line.Quantity, sourceItem.QuantityOnHand.Add(line.Quantity),
		)
		if err != nil {
			return nil, err
		}
		outRow.WithReference(p.Reference).WithReason(p.Reason).WithRequest(request.ID)

		targetItem, err := repos.ItemRepo().AddStock(ctx, request.TenantID, p.TargetWarehouseID, line.ProductID, line.Quantity)
		if err != nil {
			return nil, err
		}
		inRow, err := inventory.NewStockMovement(
			request.TenantID, p.TargetWarehouseID, line.ProductID, operatorID,
			inventory.MovementTypeIn, inventory.SourceTypeTransfer,
			line.Quantity, targetItem.QuantityOnHand.Sub(line.Quantity),
		)
		if err != nil {
			return nil, err
		}
		inRow.WithReference(p.Reference).WithReason(p.Reason).WithRequest(request.ID)

		movements = append(movements, outRow, inRow)
	}

	if err := repos.MovementRepo().CreateBatch(ctx, movements); err != nil {
		return nil, err
	}
	return movements, nil
}

func (s *LedgerService) applyAdjustmentLines(
	ctx context.Context,
	repos TransactionalRepositories,
	tenantID, operatorID, warehouseID uuid.UUID,
	lines []inventory.AdjustmentLine,
	sourceType inventory.SourceType,
	reference, reason string,
	requestID *uuid.UUID,
) ([]*inventory.StockMovement, int, error) {
	var movements []*inventory.StockMovement
	skipped := 0

	for _, line := range lines {
		item, err := repos.ItemRepo().GetOrCreate(ctx, tenantID, warehouseID, line.ProductID)
		if err != nil {
			return nil, 0, err
		}

		if item.QuantityOnHand.Equal(line.ActualQuantity) {
			skipped++
			continue
		}

		balanceBefore := item.QuantityOnHand
		difference, err := item.AdjustTo(line.ActualQuantity)
		if err != nil {
			return nil, 0, err
		}
		if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
			return nil, 0, err
		}

		movement, err := inventory.NewAdjustmentMovement(
			tenantID, warehouseID, line.ProductID, operatorID,
			sourceType, difference, balanceBefore,
		)
		if err != nil {
			return nil, 0, err
		}
		movement.WithReference(reference)
		if line.Remark != "" {
			movement.WithReason(line.Remark)
		} else {
			movement.WithReason(reason)
		}
		if requestID != nil {
			movement.WithRequest(*requestID)
		}

		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return nil, 0, err
		}
		movements = append(movements, movement)
	}

	return movements, skipped, nil
}

func (s *LedgerService) allowNegativeStock(ctx context.Context, tenantID, productID uuid.UUID) (bool, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return false, err
	}
	return product.AllowNegativeStock, nil
}

func (s *LedgerService) afterCommit(ctx context.Context, movements []*inventory.StockMovement) {
	for _, m := range movements {
		if s.invalidator != nil {
			s.invalidator.InvalidateItem(ctx, m.TenantID, m.WarehouseID, m.ProductID)
		}
		if s.eventPublisher != nil {
			event := inventory.NewStockLevelChangedEvent(m.ID, m.TenantID, m.WarehouseID, m.ProductID, m.SignedQuantity, m.BalanceAfter)
			if err := s.eventPublisher.Publish(ctx, event); err != nil && s.logger != nil {
				s.logger.Warn("failed to publish stock level event",
					zap.String("movement_id", m.ID.String()),
					zap.Error(err))
			}
		}
	}
}

func toMovementResponses(movements []*inventory.StockMovement) []StockMovementResponse {
	responses := make([]StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		responses = append(responses, *NewStockMovementResponse(m))
	}
	return responses
}
