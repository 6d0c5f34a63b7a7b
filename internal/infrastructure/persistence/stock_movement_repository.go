package persistence

import (
	"context"
	"errors"

	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements StockMovementRepository using GORM
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create appends a ledger row
func (r *GormStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// CreateBatch appends several ledger rows
func (r *GormStockMovementRepository) CreateBatch(ctx context.Context, movements []*inventory.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(movements).Error
}

// FindByID finds a ledger row by its ID
func (r *GormStockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockMovement, error) {
	var movement inventory.StockMovement
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindForTenant lists ledger rows matching the filter, newest first
func (r *GormStockMovementRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter inventory.MovementFilter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := r.filtered(ctx, tenantID, filter).
		Order("movement_date DESC")

	if filter.PageSize > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PageSize
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// CountForTenant counts ledger rows matching the filter
func (r *GormStockMovementRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter inventory.MovementFilter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByRequest lists the ledger rows produced by one approval request
func (r *GormStockMovementRepository) FindByRequest(ctx context.Context, tenantID, requestID uuid.UUID) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND request_id = ?", tenantID, requestID).
		Order("movement_date ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// ExistsForShipment reports whether any ledger row references the shipment
func (r *GormStockMovementRepository) ExistsForShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Where("tenant_id = ? AND shipment_id = ?", tenantID, shipmentID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SumSignedQuantity sums the signed quantities for a warehouse-product pair
func (r *GormStockMovementRepository) SumSignedQuantity(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Select("COALESCE(SUM(signed_quantity), 0) as total").
		Where("tenant_id = ? AND warehouse_id = ? AND product_id = ?", tenantID, warehouseID, productID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

func (r *GormStockMovementRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter inventory.MovementFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Where("tenant_id = ?", tenantID)

	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.SourceType != nil {
		query = query.Where("source_type = ?", *filter.SourceType)
	}
	if filter.Reference != "" {
		query = query.Where("reference = ?", filter.Reference)
	}
	if filter.From != nil {
		query = query.Where("movement_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("movement_date < ?", *filter.To)
	}
	return query
}

// Ensure GormStockMovementRepository implements the domain interface
var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
