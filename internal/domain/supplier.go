package domain

import "time"

// Supplier is a parts supplier referenced by products.
type Supplier struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id,string"`
	Name        string    `gorm:"index" json:"name" form:"name"`
	ContactInfo string    `gorm:"size:1024" json:"contact_info" form:"contact_info"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Supplier) TableName() string {
	return "suppliers"
}
