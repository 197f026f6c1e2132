package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DiscountStatus represents the approval state of a discount request
type DiscountStatus string

const (
	DiscountStatusPending  DiscountStatus = "pending"
	DiscountStatusApproved DiscountStatus = "approved"
	DiscountStatusRejected DiscountStatus = "rejected"
)

// DiscountRequest represents a requested price discount for a product,
// either patient-specific or global (patient_id null).
//
// DiscountedPrice is a snapshot of the product price at request time
// and is never recomputed from the live catalog price.
type DiscountRequest struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RequestedBy        uuid.UUID       `gorm:"type:uuid;not null;index" json:"requested_by"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	PatientID          *uuid.UUID      `gorm:"type:uuid;index" json:"patient_id,omitempty"`
	ApprovedBy         *uuid.UUID      `gorm:"type:uuid" json:"approved_by,omitempty"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"discount_percentage"`
	DiscountedPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discounted_price"`
	Status             DiscountStatus  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Reason             string          `gorm:"type:text" json:"reason,omitempty"`
	ExpiryDate         *time.Time      `json:"expiry_date,omitempty"`
	IsGlobal           bool            `gorm:"not null;default:false" json:"is_global"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Product Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (DiscountRequest) TableName() string {
	return "discount_requests"
}

func (d *DiscountRequest) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// IsPending checks if the request awaits approval
func (d *DiscountRequest) IsPending() bool {
	return d.Status == DiscountStatusPending
}

// IsApproved checks if the request has been approved
func (d *DiscountRequest) IsApproved() bool {
	return d.Status == DiscountStatusApproved
}

// IsExpired checks if the discount passed its expiry date
func (d *DiscountRequest) IsExpired(now time.Time) bool {
	return d.ExpiryDate != nil && d.ExpiryDate.Before(now)
}
