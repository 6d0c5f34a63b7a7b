package inventory

import (
	"context"

	"github.com/bizops/backend/internal/domain/identity"
	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockViewCache is a read-through cache for single-item stock views. Both
// lookups and stores are best effort; the database remains authoritative.
type StockViewCache interface {
	GetItem(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*InventoryItemResponse, bool)
	SetItem(ctx context.Context, tenantID, warehouseID, productID uuid.UUID, item *InventoryItemResponse)
}

// StockQueryService serves read-only stock and ledger views with the same
// warehouse scoping the write side enforces.
type StockQueryService struct {
	itemRepo     inventory.InventoryItemRepository
	movementRepo inventory.StockMovementRepository
	userRepo     identity.UserRepository
	cache        StockViewCache
	logger       *zap.Logger
}

// NewStockQueryService creates a new StockQueryService
func NewStockQueryService(
	itemRepo inventory.InventoryItemRepository,
	movementRepo inventory.StockMovementRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *StockQueryService {
	return &StockQueryService{
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// SetCache sets the optional read-through cache
func (s *StockQueryService) SetCache(cache StockViewCache) {
	s.cache = cache
}

// GetItem returns the stock view for one warehouse-product pair
func (s *StockQueryService) GetItem(ctx context.Context, tenantID, actorID, warehouseID, productID uuid.UUID) (*InventoryItemResponse, error) {
	if err := s.checkWarehouseAccess(ctx, tenantID, actorID, warehouseID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cached, ok := s.cache.GetItem(ctx, tenantID, warehouseID, productID); ok {
			return cached, nil
		}
	}

	item, err := s.itemRepo.FindByWarehouseAndProduct(ctx, tenantID, warehouseID, productID)
	if err != nil {
		return nil, err
	}

	response := NewInventoryItemResponse(item)
	if s.cache != nil {
		s.cache.SetItem(ctx, tenantID, warehouseID, productID, response)
	}
	return response, nil
}

// ListItems returns the stock views of one warehouse
func (s *StockQueryService) ListItems(ctx context.Context, tenantID, actorID, warehouseID uuid.UUID, page, pageSize int) (*shared.Paginated[InventoryItemResponse], error) {
	if err := s.checkWarehouseAccess(ctx, tenantID, actorID, warehouseID); err != nil {
		return nil, err
	}

	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	items, err := s.itemRepo.FindAllForWarehouse(ctx, tenantID, warehouseID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.itemRepo.CountForWarehouse(ctx, tenantID, warehouseID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]InventoryItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *NewInventoryItemResponse(&items[i]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListMovements returns ledger history matching the filter, newest first
func (s *StockQueryService) ListMovements(ctx context.Context, tenantID, actorID uuid.UUID, filter inventory.MovementFilter) (*shared.Paginated[StockMovementResponse], error) {
	if filter.WarehouseID != nil {
		if err := s.checkWarehouseAccess(ctx, tenantID, actorID, *filter.WarehouseID); err != nil {
			return nil, err
		}
	} else {
		actor, err := s.userRepo.FindByIDForTenant(ctx, tenantID, actorID)
		if err != nil {
			return nil, err
		}
		if actor.AssignedWarehouseID != nil {
			filter.WarehouseID = actor.AssignedWarehouseID
		}
	}

	if filter.Page == 0 {
		filter.Filter = shared.DefaultFilter()
	}

	movements, err := s.movementRepo.FindForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.movementRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]StockMovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, *NewStockMovementResponse(&movements[i]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

func (s *StockQueryService) checkWarehouseAccess(ctx context.Context, tenantID, actorID, warehouseID uuid.UUID) error {
	actor, err := s.userRepo.FindByIDForTenant(ctx, tenantID, actorID)
	if err != nil {
		return err
	}
	if !actor.Active {
		return shared.ErrForbidden
	}
	if actor.AssignedWarehouseID != nil && *actor.AssignedWarehouseID != warehouseID {
		return shared.ErrForbidden
	}
	return nil
}
