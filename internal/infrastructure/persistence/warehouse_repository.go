package persistence

import (
	"context"
	"errors"

	"github.com/bizops/backend/internal/domain/partner"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWarehouseRepository implements WarehouseRepository using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// FindByID finds a warehouse by its ID
func (r *GormWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Warehouse, error) {
	var warehouse partner.Warehouse
	if err := r.db.WithContext(ctx).First(&warehouse, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &warehouse, nil
}

// FindByIDForTenant finds a warehouse by ID within a tenant
func (r *GormWarehouseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Warehouse, error) {
	var warehouse partner.Warehouse
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&warehouse).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &warehouse, nil
}

// FindAllForTenant finds all warehouses for a tenant
func (r *GormWarehouseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Warehouse, error) {
	var warehouses []partner.Warehouse
	query := applyFilter(
		r.db.WithContext(ctx).Model(&partner.Warehouse{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&warehouses).Error; err != nil {
		return nil, err
	}
	return warehouses, nil
}

// ExistsForTenant checks whether a warehouse exists within a tenant
func (r *GormWarehouseRepository) ExistsForTenant(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.Warehouse{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a warehouse
func (r *GormWarehouseRepository) Save(ctx context.Context, warehouse *partner.Warehouse) error {
	return r.db.WithContext(ctx).Save(warehouse).Error
}

// CountForTenant counts warehouses for a tenant
func (r *GormWarehouseRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.Warehouse{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormWarehouseRepository implements the domain interface
var _ partner.WarehouseRepository = (*GormWarehouseRepository)(nil)

// GormStorageLocationRepository implements StorageLocationRepository using GORM
type GormStorageLocationRepository struct {
	db *gorm.DB
}

// NewGormStorageLocationRepository creates a new GormStorageLocationRepository
func NewGormStorageLocationRepository(db *gorm.DB) *GormStorageLocationRepository {
	return &GormStorageLocationRepository{db: db}
}

// FindByID finds a storage location by its ID
func (r *GormStorageLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.StorageLocation, error) {
	var location partner.StorageLocation
	if err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// FindByWarehouse finds all locations within a warehouse
func (r *GormStorageLocationRepository) FindByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) ([]partner.StorageLocation, error) {
	var locations []partner.StorageLocation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND warehouse_id = ?", tenantID, warehouseID).
		Order("code ASC").
		Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// ExistsInWarehouse checks whether a location exists within a specific warehouse
func (r *GormStorageLocationRepository) ExistsInWarehouse(ctx context.Context, tenantID, warehouseID, locationID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.StorageLocation{}).
		Where("tenant_id = ? AND warehouse_id = ? AND id = ?", tenantID, warehouseID, locationID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a storage location
func (r *GormStorageLocationRepository) Save(ctx context.Context, location *partner.StorageLocation) error {
	return r.db.WithContext(ctx).Save(location).Error
}

// Ensure GormStorageLocationRepository implements the domain interface
var _ partner.StorageLocationRepository = (*GormStorageLocationRepository)(nil)
