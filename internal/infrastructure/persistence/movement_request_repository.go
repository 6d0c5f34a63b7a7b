package persistence

import (
	"context"
	"errors"

	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockMovementRequestRepository implements StockMovementRequestRepository using GORM
type GormStockMovementRequestRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRequestRepository creates a new GormStockMovementRequestRepository
func NewGormStockMovementRequestRepository(db *gorm.DB) *GormStockMovementRequestRepository {
	return &GormStockMovementRequestRepository{db: db}
}

// FindByID finds a request by its ID
func (r *GormStockMovementRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockMovementRequest, error) {
	var request inventory.StockMovementRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByIDForTenant finds a request by ID within a tenant
func (r *GormStockMovementRequestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.StockMovementRequest, error) {
	var request inventory.StockMovementRequest
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindForTenant lists requests matching the filter, newest first
func (r *GormStockMovementRequestRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter inventory.RequestFilter) ([]inventory.StockMovementRequest, error) {
	var requests []inventory.StockMovementRequest
	query := r.filtered(ctx, tenantID, filter).
		Order("requested_at DESC")

	if filter.PageSize > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PageSize
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// CountForTenant counts requests matching the filter
func (r *GormStockMovementRequestRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter inventory.RequestFilter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists a new request
func (r *GormStockMovementRequestRepository) Create(ctx context.Context, request *inventory.StockMovementRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// Save updates a request without a status guard
func (r *GormStockMovementRequestRepository) Save(ctx context.Context, request *inventory.StockMovementRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// SaveWithTransition updates a request only if the stored row still holds the
// expected status. A zero-row update means another decision landed first, so
// the caller gets ErrAlreadyProcessed. This single conditional update is the
// whole exactly-once guarantee for the pending decision.
func (r *GormStockMovementRequestRepository) SaveWithTransition(ctx context.Context, request *inventory.StockMovementRequest, expectedStatus inventory.RequestStatus) error {
	result := r.db.WithContext(ctx).
		Model(request).
		Where("id = ? AND status = ?", request.ID, expectedStatus).
		Updates(map[string]interface{}{
			"status":         request.Status,
			"approved_by":    request.ApprovedBy,
			"approved_at":    request.ApprovedAt,
			"rejected_by":    request.RejectedBy,
			"rejected_at":    request.RejectedAt,
			"reject_reason":  request.RejectReason,
			"failure_reason": request.FailureReason,
			"version":        request.Version,
			"updated_at":     request.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrAlreadyProcessed
	}
	return nil
}

func (r *GormStockMovementRequestRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter inventory.RequestFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&inventory.StockMovementRequest{}).
		Where("tenant_id = ?", tenantID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.RequestType != nil {
		query = query.Where("request_type = ?", *filter.RequestType)
	}
	if filter.WarehouseIDs != nil {
		query = query.Where("warehouse_id IN ?", filter.WarehouseIDs)
	}
	if filter.RequestedBy != nil {
		query = query.Where("requested_by = ?", *filter.RequestedBy)
	}
	return query
}

// Ensure GormStockMovementRequestRepository implements the domain interface
var _ inventory.StockMovementRequestRepository = (*GormStockMovementRequestRepository)(nil)
