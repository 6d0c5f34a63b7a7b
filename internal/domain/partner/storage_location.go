package partner

import (
	"strings"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StorageLocation represents a named position inside a warehouse (aisle, shelf, bin).
// Locations are optional; stock movements may carry a location for finer tracking.
type StorageLocation struct {
	shared.TenantAggregateRoot
	WarehouseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_location_warehouse_code,priority:1"`
	Code        string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_location_warehouse_code,priority:2"`
	Name        string    `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (StorageLocation) TableName() string {
	return "storage_locations"
}

// NewStorageLocation creates a new storage location within a warehouse
func NewStorageLocation(tenantID, warehouseID uuid.UUID, code, name string) (*StorageLocation, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Location code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Location name cannot be empty")
	}

	return &StorageLocation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		WarehouseID:         warehouseID,
		Code:                strings.ToUpper(code),
		Name:                name,
	}, nil
}
