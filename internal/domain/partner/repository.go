package partner

import (
	"context"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// WarehouseRepository defines the interface for warehouse persistence
type WarehouseRepository interface {
	// FindByID finds a warehouse by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)

	// FindByIDForTenant finds a warehouse by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Warehouse, error)

	// FindAllForTenant finds all warehouses for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Warehouse, error)

	// ExistsForTenant checks whether a warehouse exists within a tenant
	ExistsForTenant(ctx context.Context, tenantID, id uuid.UUID) (bool, error)

	// Save creates or updates a warehouse
	Save(ctx context.Context, warehouse *Warehouse) error

	// CountForTenant counts warehouses matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// StorageLocationRepository defines the interface for storage location persistence
type StorageLocationRepository interface {
	// FindByID finds a storage location by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StorageLocation, error)

	// FindByWarehouse finds all locations within a warehouse
	FindByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) ([]StorageLocation, error)

	// ExistsInWarehouse checks whether a location exists within a specific warehouse
	ExistsInWarehouse(ctx context.Context, tenantID, warehouseID, locationID uuid.UUID) (bool, error)

	// Save creates or updates a storage location
	Save(ctx context.Context, location *StorageLocation) error
}
