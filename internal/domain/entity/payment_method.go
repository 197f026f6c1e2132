package entity

import "time"

// PaymentMethod represents an accepted way of paying a sale
type PaymentMethod struct {
	ID                int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name              string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	RequiresReference bool      `gorm:"not null;default:false" json:"requires_reference"`
	IsActive          *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PaymentMethod) TableName() string {
	return "payment_methods"
}
