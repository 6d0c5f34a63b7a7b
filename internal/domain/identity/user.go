package identity

import (
	"strings"
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Role names known to the platform. The role string itself is resolved by the
// external authentication collaborator; the inventory core only consumes it
// through the approval policy table.
const (
	RoleAdmin            = "admin"
	RoleWarehouseManager = "warehouse_manager"
	RoleWarehouseClerk   = "warehouse_clerk"
	RoleViewer           = "viewer"
)

// User represents an operator account. The core reads two things from it:
// the role string and the optional assigned warehouse used for scoping.
type User struct {
	shared.TenantAggregateRoot
	Username            string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_user_tenant_username,priority:2"`
	DisplayName         string     `gorm:"type:varchar(200)"`
	Role                string     `gorm:"type:varchar(50);not null"`
	AssignedWarehouseID *uuid.UUID `gorm:"type:uuid;index"`
	Active              bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user with the given role
func NewUser(tenantID uuid.UUID, username, role string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if strings.TrimSpace(role) == "" {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role cannot be empty")
	}

	return &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Username:            username,
		Role:                role,
		Active:              true,
	}, nil
}

// AssignWarehouse binds the user to a warehouse for scoping purposes
func (u *User) AssignWarehouse(warehouseID uuid.UUID) error {
	if warehouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	u.AssignedWarehouseID = &warehouseID
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// ClearWarehouseAssignment removes the warehouse binding
func (u *User) ClearWarehouseAssignment() {
	u.AssignedWarehouseID = nil
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}
