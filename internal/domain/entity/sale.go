package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleStatus represents the lifecycle state of a sale
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
	SaleStatusRefunded  SaleStatus = "refunded"
)

// Sale represents a billing event for an order and/or appointment.
// Balance and payment_status are derived from the owned payment rows
// and written only by the sale ledger.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SaleNumber    string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sale_number"`
	PatientID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	OrderID       *uuid.UUID      `gorm:"type:uuid;index" json:"order_id,omitempty"`
	AppointmentID *uuid.UUID      `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax"`
	Discount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Balance       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"balance"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`
	Status        SaleStatus      `gorm:"type:varchar(20);not null;default:'completed';index" json:"status"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy     uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient         Patient          `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Payments        []SalePayment    `gorm:"foreignKey:SaleID" json:"payments,omitempty"`
	PartialPayments []PartialPayment `gorm:"foreignKey:SaleID" json:"partial_payments,omitempty"`
}

func (Sale) TableName() string {
	return "sales"
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// IsCancelled checks if the sale has been cancelled
func (s *Sale) IsCancelled() bool {
	return s.Status == SaleStatusCancelled
}

// IsRefunded checks if the sale has been refunded
func (s *Sale) IsRefunded() bool {
	return s.Status == SaleStatusRefunded
}

// IsPaid checks if the sale is fully paid
func (s *Sale) IsPaid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}

// SalePayment is an immutable payment fact recorded against a sale
// through the generic payment path.
type SalePayment struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SaleID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	PaymentMethodID int             `gorm:"not null" json:"payment_method_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentDate     time.Time       `gorm:"not null" json:"payment_date"`
	Reference       string          `gorm:"type:varchar(100)" json:"reference,omitempty"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy       uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	PaymentMethod PaymentMethod `gorm:"foreignKey:PaymentMethodID" json:"payment_method,omitempty"`
}

func (SalePayment) TableName() string {
	return "sale_payments"
}

func (p *SalePayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PartialPayment is an immutable payment fact recorded through the
// dedicated installment-tracking path. Same shape as SalePayment but a
// separate table with stricter removal authorization.
type PartialPayment struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SaleID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	PaymentMethodID int             `gorm:"not null" json:"payment_method_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentDate     time.Time       `gorm:"not null" json:"payment_date"`
	Reference       string          `gorm:"type:varchar(100)" json:"reference,omitempty"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy       uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	PaymentMethod PaymentMethod `gorm:"foreignKey:PaymentMethodID" json:"payment_method,omitempty"`
}

func (PartialPayment) TableName() string {
	return "partial_payments"
}

func (p *PartialPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
