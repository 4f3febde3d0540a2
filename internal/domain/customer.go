package domain

import "time"

// Customer is a registered buyer identified by an RFID tag.
// LoyaltyPoints is only mutated by the sale transaction processor.
type Customer struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id,string"`
	Name          string    `gorm:"index" json:"name" form:"name"`
	Rfid          string    `gorm:"size:50;uniqueIndex;not null" json:"rfid" form:"rfid"`
	LoyaltyPoints int       `gorm:"not null;default:0" json:"loyalty_points"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Customer) TableName() string {
	return "customers"
}
