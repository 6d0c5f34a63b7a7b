package catalog

import (
	"strings"
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductStatus represents the lifecycle status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusDisabled ProductStatus = "disabled"
)

// Product represents a sellable or stockable product.
// The inventory core treats its ID as an opaque foreign key; the only
// field it reads is AllowNegativeStock, which controls whether outbound
// movements may drive on-hand quantity below zero.
type Product struct {
	shared.TenantAggregateRoot
	Code               string        `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_tenant_code,priority:2"`
	Name               string        `gorm:"type:varchar(200);not null"`
	Unit               string        `gorm:"type:varchar(20);not null;default:'pcs'"`
	Status             ProductStatus `gorm:"type:varchar(20);not null;default:'active'"`
	AllowNegativeStock bool          `gorm:"not null;default:false"`
	Description        string        `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with required fields
func NewProduct(tenantID uuid.UUID, code, name string) (*Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Unit:                "pcs",
		Status:              ProductStatusActive,
	}, nil
}

// SetAllowNegativeStock configures whether stock may go negative for this product
func (p *Product) SetAllowNegativeStock(allow bool) {
	p.AllowNegativeStock = allow
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Disable marks the product as disabled
func (p *Product) Disable() error {
	if p.Status == ProductStatusDisabled {
		return shared.NewDomainError("INVALID_STATE", "Product is already disabled")
	}
	p.Status = ProductStatusDisabled
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Enable marks the product as active
func (p *Product) Enable() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Product is already active")
	}
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}
