package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product categories
const (
	CategoryAccessory = "accessory"
	CategoryPart      = "part"
	CategoryOil       = "oil"
	CategoryCleaner   = "cleaner"
)

// LowStockThreshold marks the stock level at which a product counts as low stock.
const LowStockThreshold = 5

// Product is a catalog item. Stock is only decremented by the sale
// transaction processor and incremented by restocking.
type Product struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id,string"`
	Name          string          `gorm:"index" json:"name" form:"name"`
	Description   string          `gorm:"size:1024" json:"description" form:"description"`
	Srp           decimal.Decimal `gorm:"type:decimal(10,2)" json:"srp"`
	SupplierPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"supplier_price"`
	Stock         int             `gorm:"not null;default:0" json:"stock" form:"stock"`
	Category      string          `gorm:"size:32;index" json:"category" form:"category"`
	SupplierID    int64           `gorm:"index;not null" json:"supplier_id,string" form:"supplier_id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}

// LowStock reports whether the product is at or below the low-stock threshold.
func (p Product) LowStock() bool {
	return p.Stock <= LowStockThreshold
}

// ValidCategory reports whether c is one of the known product categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryAccessory, CategoryPart, CategoryOil, CategoryCleaner:
		return true
	}
	return false
}
