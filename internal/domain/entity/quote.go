package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QuoteStatus represents the lifecycle state of a quote
type QuoteStatus string

const (
	QuoteStatusPending   QuoteStatus = "pending"
	QuoteStatusApproved  QuoteStatus = "approved"
	QuoteStatusRejected  QuoteStatus = "rejected"
	QuoteStatusConverted QuoteStatus = "converted"
)

// Quote represents a priced offer to a patient, convertible to an order
// while still pending or approved.
type Quote struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	QuoteNumber string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"quote_number"`
	PatientID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	Status      QuoteStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax"`
	Discount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount"`
	Total       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	ValidUntil  *time.Time      `json:"valid_until,omitempty"`
	Notes       string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy   uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient Patient     `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Items   []QuoteItem `gorm:"foreignKey:QuoteID" json:"items,omitempty"`
}

func (Quote) TableName() string {
	return "quotes"
}

func (q *Quote) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// IsConvertible checks whether the quote can still be turned into an order
func (q *Quote) IsConvertible() bool {
	return q.Status == QuoteStatusPending || q.Status == QuoteStatusApproved
}

// QuoteItem represents one product line of a quote, with the discount
// resolved at quote-creation time frozen into the final unit price.
type QuoteItem struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	QuoteID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"quote_id"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	Quantity           int             `gorm:"not null" json:"quantity"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	DiscountID         *uuid.UUID      `gorm:"type:uuid" json:"discount_id,omitempty"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percentage"`
	FinalUnitPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"final_unit_price"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	IsLens             bool            `gorm:"not null;default:false" json:"is_lens"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (QuoteItem) TableName() string {
	return "quote_items"
}

func (i *QuoteItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
