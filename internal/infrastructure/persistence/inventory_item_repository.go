package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryItemRepository implements InventoryItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByID finds an inventory item by its ID
func (r *GormInventoryItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByWarehouseAndProduct finds the item for a warehouse-product pair
func (r *GormInventoryItemRepository) FindByWarehouseAndProduct(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND warehouse_id = ? AND product_id = ?", tenantID, warehouseID, productID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindAllForWarehouse finds all inventory items in a warehouse
func (r *GormInventoryItemRepository) FindAllForWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	query := applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
			Where("tenant_id = ? AND warehouse_id = ?", tenantID, warehouseID),
		filter,
	)

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountForWarehouse counts inventory items in a warehouse
func (r *GormInventoryItemRepository) CountForWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, _ shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryItem{}).
		Where("tenant_id = ? AND warehouse_id = ?", tenantID, warehouseID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetOrCreate returns the item for the pair, inserting a zero-quantity row if
// none exists. The insert uses ON CONFLICT DO NOTHING so concurrent callers
// converge on the same row.
func (r *GormInventoryItemRepository) GetOrCreate(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*inventory.InventoryItem, error) {
	item, err := r.FindByWarehouseAndProduct(ctx, tenantID, warehouseID, productID)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	fresh, err := inventory.NewInventoryItem(tenantID, warehouseID, productID)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(fresh).Error; err != nil {
		return nil, err
	}

	return r.FindByWarehouseAndProduct(ctx, tenantID, warehouseID, productID)
}

// Save creates or updates an inventory item
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormInventoryItemRepository) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	result := r.db.WithContext(ctx).
		Model(item).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]interface{}{
			"quantity_on_hand":   item.QuantityOnHand,
			"reserved_quantity":  item.ReservedQuantity,
			"available_quantity": item.AvailableQuantity,
			"location_id":        item.LocationID,
			"version":            item.Version,
			"updated_at":         item.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// AddStock atomically increases on-hand and available quantity. The row is
// created on first use, then bumped with a single relative update so
// concurrent inbound writers never lose an increment.
func (r *GormInventoryItemRepository) AddStock(ctx context.Context, tenantID, warehouseID, productID uuid.UUID, quantity decimal.Decimal) (*inventory.InventoryItem, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	if _, err := r.GetOrCreate(ctx, tenantID, warehouseID, productID); err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Model(&inventory.InventoryItem{}).
		Where("tenant_id = ? AND warehouse_id = ? AND product_id = ?", tenantID, warehouseID, productID).
		Updates(map[string]interface{}{
			"quantity_on_hand":   gorm.Expr("quantity_on_hand + ?", quantity),
			"available_quantity": gorm.Expr("available_quantity + ?", quantity),
			"version":            gorm.Expr("version + 1"),
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, shared.ErrConcurrencyConflict
	}

	return r.FindByWarehouseAndProduct(ctx, tenantID, warehouseID, productID)
}

// DeductStock atomically decreases on-hand and available quantity. Unless
// allowNegative is set the update carries an available_quantity guard, so of
// two racing deductions against the same stock exactly the ones the balance
// can cover succeed; the rest get ErrInsufficientStock.
func (r *GormInventoryItemRepository) DeductStock(ctx context.Context, tenantID, warehouseID, productID uuid.UUID, quantity decimal.Decimal, allowNegative bool) (*inventory.InventoryItem, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	if _, err := r.GetOrCreate(ctx, tenantID, warehouseID, productID); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&inventory.InventoryItem{}).
		Where("tenant_id = ? AND warehouse_id = ? AND product_id = ?", tenantID, warehouseID, productID)
	if !allowNegative {
		query = query.Where("available_quantity >= ?", quantity)
	}

	result := query.Updates(map[string]interface{}{
		"quantity_on_hand":   gorm.Expr("quantity_on_hand - ?", quantity),
		"available_quantity": gorm.Expr("available_quantity - ?", quantity),
		"version":            gorm.Expr("version + 1"),
		"updated_at":         time.Now(),
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, shared.ErrInsufficientStock
	}

	return r.FindByWarehouseAndProduct(ctx, tenantID, warehouseID, productID)
}

// Ensure GormInventoryItemRepository implements the domain interface
var _ inventory.InventoryItemRepository = (*GormInventoryItemRepository)(nil)
