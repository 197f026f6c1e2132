package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type SalePaymentRequest struct {
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	PaymentMethodID int             `json:"payment_method_id" validate:"required,min=1"`
	PaymentDate     *time.Time      `json:"payment_date"`
	Reference       string          `json:"reference" validate:"omitempty,max=100"`
	Notes           string          `json:"notes"`
}

// SaleItemRequest is an informational line of the sale creation
// payload. A non-empty lens reference marks the line as requiring
// laboratory fabrication.
type SaleItemRequest struct {
	ProductID     uuid.UUID `json:"product_id" validate:"required"`
	Quantity      int       `json:"quantity" validate:"required,min=1"`
	LensReference string    `json:"lens_reference"`
}

type CreateSaleRequest struct {
	PatientID       uuid.UUID            `json:"patient_id" validate:"required"`
	OrderID         *uuid.UUID           `json:"order_id"`
	AppointmentID   *uuid.UUID           `json:"appointment_id"`
	Subtotal        decimal.Decimal      `json:"subtotal" validate:"required"`
	Tax             decimal.Decimal      `json:"tax"`
	Discount        decimal.Decimal      `json:"discount"`
	Total           decimal.Decimal      `json:"total" validate:"required"`
	Notes           string               `json:"notes"`
	Items           []SaleItemRequest    `json:"items" validate:"omitempty,dive"`
	InitialPayments []SalePaymentRequest `json:"initial_payments" validate:"omitempty,dive"`
	LaboratoryID    *uuid.UUID           `json:"laboratory_id"`
	ContainsLenses  bool                 `json:"contains_lenses"`
	LabNotes        string               `json:"lab_notes"`
}

// Response DTOs

type SalePaymentResponse struct {
	ID              uuid.UUID       `json:"id"`
	PaymentMethodID int             `json:"payment_method_id"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     time.Time       `json:"payment_date"`
	Reference       string          `json:"reference,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

type SaleResponse struct {
	ID              uuid.UUID             `json:"id"`
	SaleNumber      string                `json:"sale_number"`
	PatientID       uuid.UUID             `json:"patient_id"`
	OrderID         *uuid.UUID            `json:"order_id,omitempty"`
	AppointmentID   *uuid.UUID            `json:"appointment_id,omitempty"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	Tax             decimal.Decimal       `json:"tax"`
	Discount        decimal.Decimal       `json:"discount"`
	Total           decimal.Decimal       `json:"total"`
	Balance         decimal.Decimal       `json:"balance"`
	PaymentStatus   string                `json:"payment_status"`
	Status          string                `json:"status"`
	Notes           string                `json:"notes,omitempty"`
	Payments        []SalePaymentResponse `json:"payments,omitempty"`
	PartialPayments []SalePaymentResponse `json:"partial_payments,omitempty"`
	CreatedBy       uuid.UUID             `json:"created_by"`
	CancelledAt     *time.Time            `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

type SaleListResponse struct {
	Sales []SaleResponse `json:"sales"`
	Total int64          `json:"total"`
}
