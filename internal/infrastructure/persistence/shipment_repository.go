package persistence

import (
	"context"
	"errors"

	"github.com/bizops/backend/internal/domain/receiving"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormShipmentRepository implements ShipmentRepository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// FindByID finds a shipment with its lines by ID
func (r *GormShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*receiving.IncomingShipment, error) {
	var shipment receiving.IncomingShipment
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&shipment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &shipment, nil
}

// FindByIDForTenant finds a shipment with its lines within a tenant
func (r *GormShipmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*receiving.IncomingShipment, error) {
	var shipment receiving.IncomingShipment
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&shipment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &shipment, nil
}

// FindForTenant lists shipments matching the filter, newest first
func (r *GormShipmentRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter receiving.ShipmentFilter) ([]receiving.IncomingShipment, error) {
	var shipments []receiving.IncomingShipment
	query := r.filtered(ctx, tenantID, filter).
		Preload("Lines").
		Order("created_at DESC")

	if filter.PageSize > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PageSize
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&shipments).Error; err != nil {
		return nil, err
	}
	return shipments, nil
}

// CountForTenant counts shipments matching the filter
func (r *GormShipmentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter receiving.ShipmentFilter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a shipment together with its lines
func (r *GormShipmentRepository) Save(ctx context.Context, shipment *receiving.IncomingShipment) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(shipment).Error
}

// SaveWithLock saves the shipment header guarded by its version and then
// writes the lines. The version guard keeps two dock clerks from finalizing
// counts over each other.
func (r *GormShipmentRepository) SaveWithLock(ctx context.Context, shipment *receiving.IncomingShipment) error {
	result := r.db.WithContext(ctx).
		Model(shipment).
		Where("id = ? AND version = ?", shipment.ID, shipment.Version-1).
		Updates(map[string]interface{}{
			"status":        shipment.Status,
			"received_by":   shipment.ReceivedBy,
			"received_at":   shipment.ReceivedAt,
			"processed_at":  shipment.ProcessedAt,
			"reject_reason": shipment.RejectReason,
			"version":       shipment.Version,
			"updated_at":    shipment.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	for i := range shipment.Lines {
		if err := r.db.WithContext(ctx).Save(&shipment.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormShipmentRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter receiving.ShipmentFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&receiving.IncomingShipment{}).
		Where("tenant_id = ?", tenantID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	return query
}

// Ensure GormShipmentRepository implements the domain interface
var _ receiving.ShipmentRepository = (*GormShipmentRepository)(nil)
