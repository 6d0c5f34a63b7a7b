package receiving

import (
	"context"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ShipmentFilter narrows shipment queries
type ShipmentFilter struct {
	shared.Filter
	Status      *ShipmentStatus
	WarehouseID *uuid.UUID
}

// ShipmentRepository defines the interface for incoming shipment persistence
type ShipmentRepository interface {
	// FindByID finds a shipment with its lines by ID
	FindByID(ctx context.Context, id uuid.UUID) (*IncomingShipment, error)

	// FindByIDForTenant finds a shipment with its lines within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*IncomingShipment, error)

	// FindForTenant lists shipments matching the filter, newest first
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter ShipmentFilter) ([]IncomingShipment, error)

	// CountForTenant counts shipments matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ShipmentFilter) (int64, error)

	// Save creates or updates a shipment together with its lines
	Save(ctx context.Context, shipment *IncomingShipment) error

	// SaveWithLock updates a shipment guarded by its version; returns
	// ErrConcurrencyConflict when the stored version moved
	SaveWithLock(ctx context.Context, shipment *IncomingShipment) error
}
