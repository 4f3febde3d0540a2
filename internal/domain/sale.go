package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an append-only sale record. CustomerID is nil for walk-in sales.
type Sale struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id,string"`
	ProductID  int64           `gorm:"index;not null" json:"product_id,string"`
	CustomerID *int64          `gorm:"index" json:"customer_id,string,omitempty"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_price"`
	Date       time.Time       `gorm:"index" json:"date"`
}

// TableName Specify table name
func (Sale) TableName() string {
	return "sales"
}
