package receiving

import (
	"context"

	"github.com/bizops/backend/internal/domain/identity"
	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/receiving"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/bizops/backend/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockCacheInvalidator drops cached stock views after processing lands
type StockCacheInvalidator interface {
	InvalidateItem(ctx context.Context, tenantID, warehouseID, productID uuid.UUID)
}

// ShipmentService handles incoming shipments from announcement to stock.
// Processing a shipment turns its accepted counts into inbound ledger rows
// and purchase order progress, exactly once, in one transaction.
type ShipmentService struct {
	scope        TransactionScope
	shipmentRepo receiving.ShipmentRepository
	orderRepo    trade.PurchaseOrderRepository
	userRepo     identity.UserRepository
	policy       *inventory.ApprovalPolicy
	invalidator  StockCacheInvalidator
	logger       *zap.Logger
}

// NewShipmentService creates a new ShipmentService
func NewShipmentService(
	scope TransactionScope,
	shipmentRepo receiving.ShipmentRepository,
	orderRepo trade.PurchaseOrderRepository,
	userRepo identity.UserRepository,
	policy *inventory.ApprovalPolicy,
	logger *zap.Logger,
) *ShipmentService {
	return &ShipmentService{
		scope:        scope,
		shipmentRepo: shipmentRepo,
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		policy:       policy,
		logger:       logger,
	}
}

// SetCacheInvalidator sets the optional cache invalidator
func (s *ShipmentService) SetCacheInvalidator(invalidator StockCacheInvalidator) {
	s.invalidator = invalidator
}

// CreateShipment registers a delivery announced against a purchase order.
// Every expected line must be a product on the order.
func (s *ShipmentService) CreateShipment(ctx context.Context, cmd CreateShipmentCommand) (*ShipmentResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, cmd.TenantID, cmd.PurchaseOrderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorize(ctx, cmd.TenantID, cmd.ActorID, order.WarehouseID); err != nil {
		return nil, err
	}
	if !order.CanReceive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Purchase order does not accept receipts")
	}
	if len(cmd.Lines) == 0 {
		return nil, shared.NewDomainError("INVALID_PAYLOAD", "Shipment must contain at least one line")
	}

	shipment, err := receiving.NewIncomingShipment(cmd.TenantID, order.ID, order.WarehouseID, cmd.ShipmentNumber)
	if err != nil {
		return nil, err
	}
	shipment.CarrierRef = cmd.CarrierRef

	for _, line := range cmd.Lines {
		if order.ItemForProduct(line.ProductID) == nil {
			return nil, shared.NewDomainError("NOT_FOUND", "Product is not on the purchase order")
		}
		if err := shipment.AddLine(line.ProductID, line.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.shipmentRepo.Save(ctx, shipment); err != nil {
		return nil, err
	}
	return NewShipmentResponse(shipment), nil
}

// RecordReceipt captures the dock counts for a shipment and marks it
// received. Counts are validated line by line before anything is stored, so
// an inconsistent accepted-plus-rejected split leaves the shipment untouched.
func (s *ShipmentService) RecordReceipt(ctx context.Context, cmd RecordReceiptCommand) (*ShipmentResponse, error) {
	shipment, err := s.shipmentRepo.FindByIDForTenant(ctx, cmd.TenantID, cmd.ShipmentID)
	if err != nil {
		return nil, err
	}
	actor, err := s.authorize(ctx, cmd.TenantID, cmd.ActorID, shipment.WarehouseID)
	if err != nil {
		return nil, err
	}

	for _, line := range cmd.Lines {
		if err := shipment.RecordLineCounts(line.ProductID, line.Received, line.Accepted, line.Rejected, line.Remark); err != nil {
			return nil, err
		}
	}
	if err := shipment.MarkReceived(actor.ID); err != nil {
		return nil, err
	}

	if err := s.shipmentRepo.SaveWithLock(ctx, shipment); err != nil {
		return nil, err
	}
	return NewShipmentResponse(shipment), nil
}

// ProcessShipment applies a received shipment to stock. An existing ledger
// row for the shipment is the idempotency guard: a second process call gets
// ErrAlreadyProcessed and changes nothing. Ledger rows, purchase order
// progress and the shipment's processed state commit together. The shipment
// moves to processed only once the parent order is fully received, or when
// every line was rejected and there is nothing to apply; a partial receipt
// leaves it received.
func (s *ShipmentService) ProcessShipment(ctx context.Context, cmd ProcessShipmentCommand) (*ShipmentResponse, error) {
	existing, err := s.shipmentRepo.FindByIDForTenant(ctx, cmd.TenantID, cmd.ShipmentID)
	if err != nil {
		return nil, err
	}
	actor, err := s.authorize(ctx, cmd.TenantID, cmd.ActorID, existing.WarehouseID)
	if err != nil {
		return nil, err
	}

	var shipment *receiving.IncomingShipment
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		shipment, err = repos.ShipmentRepo().FindByIDForTenant(ctx, cmd.TenantID, cmd.ShipmentID)
		if err != nil {
			return err
		}
		if shipment.Status != receiving.ShipmentStatusReceived {
			return shared.NewDomainError("INVALID_STATE", "Only received shipments can be processed")
		}

		processed, err := repos.MovementRepo().ExistsForShipment(ctx, cmd.TenantID, shipment.ID)
		if err != nil {
			return err
		}
		if processed {
			return shared.ErrAlreadyProcessed
		}

		order, err := repos.OrderRepo().FindByIDForTenant(ctx, cmd.TenantID, shipment.PurchaseOrderID)
		if err != nil {
			return err
		}

		var movements []*inventory.StockMovement
		for _, line := range shipment.AcceptedLines() {
			item, err := repos.ItemRepo().AddStock(ctx, cmd.TenantID, shipment.WarehouseID, line.ProductID, line.AcceptedQuantity)
			if err != nil {
				return err
			}

			movement, err := inventory.NewStockMovement(
				cmd.TenantID, shipment.WarehouseID, line.ProductID, actor.ID,
				inventory.MovementTypeIn, inventory.SourceTypeIncomingShipment,
				line.AcceptedQuantity, item.QuantityOnHand.Sub(line.AcceptedQuantity),
			)
			if err != nil {
				return err
			}
			movement.WithReference(shipment.ShipmentNumber).WithShipment(shipment.ID)
			movements = append(movements, movement)

			if err := order.AddReceivedQuantity(line.ProductID, line.AcceptedQuantity); err != nil {
				return err
			}
		}

		if len(movements) > 0 {
			if err := repos.MovementRepo().CreateBatch(ctx, movements); err != nil {
				return err
			}
			if err := repos.OrderRepo().Save(ctx, order); err != nil {
				return err
			}
		}

		// A partially received order keeps the shipment in the received
		// state; a fully rejected shipment has nothing left to apply.
		if !order.IsFullyReceived() && len(movements) > 0 {
			return nil
		}

		if err := shipment.MarkProcessed(); err != nil {
			return err
		}
		return repos.ShipmentRepo().SaveWithLock(ctx, shipment)
	})
	if err != nil {
		return nil, err
	}

	if s.invalidator != nil {
		for _, line := range shipment.AcceptedLines() {
			s.invalidator.InvalidateItem(ctx, cmd.TenantID, shipment.WarehouseID, line.ProductID)
		}
	}

	s.logger.Info("shipment receipt applied",
		zap.String("shipment_id", shipment.ID.String()),
		zap.String("warehouse_id", shipment.WarehouseID.String()),
		zap.String("status", string(shipment.Status)),
		zap.Int("lines", len(shipment.AcceptedLines())))

	return NewShipmentResponse(shipment), nil
}

// RejectShipment refuses a shipment before it is received
func (s *ShipmentService) RejectShipment(ctx context.Context, cmd RejectShipmentCommand) (*ShipmentResponse, error) {
	shipment, err := s.shipmentRepo.FindByIDForTenant(ctx, cmd.TenantID, cmd.ShipmentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorize(ctx, cmd.TenantID, cmd.ActorID, shipment.WarehouseID); err != nil {
		return nil, err
	}

	if err := shipment.Reject(cmd.Reason); err != nil {
		return nil, err
	}
	if err := s.shipmentRepo.SaveWithLock(ctx, shipment); err != nil {
		return nil, err
	}
	return NewShipmentResponse(shipment), nil
}

// GetShipment returns one shipment visible to the actor
func (s *ShipmentService) GetShipment(ctx context.Context, tenantID, actorID, shipmentID uuid.UUID) (*ShipmentResponse, error) {
	shipment, err := s.shipmentRepo.FindByIDForTenant(ctx, tenantID, shipmentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorize(ctx, tenantID, actorID, shipment.WarehouseID); err != nil {
		return nil, err
	}
	return NewShipmentResponse(shipment), nil
}

// ListShipments returns shipments visible to the actor, newest first
func (s *ShipmentService) ListShipments(ctx context.Context, query ListShipmentsQuery) (*shared.Paginated[ShipmentResponse], error) {
	actor, err := s.userRepo.FindByIDForTenant(ctx, query.TenantID, query.ActorID)
	if err != nil {
		return nil, err
	}
	if !actor.Active {
		return nil, shared.ErrForbidden
	}

	filter := receiving.ShipmentFilter{
		Filter:      shared.DefaultFilter(),
		Status:      query.Status,
		WarehouseID: query.WarehouseID,
	}
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	if actor.AssignedWarehouseID != nil {
		if filter.WarehouseID != nil && *filter.WarehouseID != *actor.AssignedWarehouseID {
			return nil, shared.ErrForbidden
		}
		filter.WarehouseID = actor.AssignedWarehouseID
	}

	shipments, err := s.shipmentRepo.FindForTenant(ctx, query.TenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.shipmentRepo.CountForTenant(ctx, query.TenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ShipmentResponse, 0, len(shipments))
	for i := range shipments {
		responses = append(responses, *NewShipmentResponse(&shipments[i]))
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *ShipmentService) authorize(ctx context.Context, tenantID, actorID, warehouseID uuid.UUID) (*identity.User, error) {
	actor, err := s.userRepo.FindByIDForTenant(ctx, tenantID, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Active {
		return nil, shared.ErrForbidden
	}
	if !s.policy.CanSubmit(actor.Role, inventory.RequestTypeMovement) {
		return nil, shared.ErrForbidden
	}
	if actor.AssignedWarehouseID != nil && *actor.AssignedWarehouseID != warehouseID {
		return nil, shared.ErrForbidden
	}
	return actor, nil
}
