package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateDiscountRequest struct {
	ProductID          uuid.UUID       `json:"product_id" validate:"required"`
	PatientID          *uuid.UUID      `json:"patient_id"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage" validate:"required"`
	Reason             string          `json:"reason"`
	ExpiryDate         *time.Time      `json:"expiry_date"`
}

// Response DTOs

type DiscountResponse struct {
	ID                 uuid.UUID       `json:"id"`
	RequestedBy        uuid.UUID       `json:"requested_by"`
	ProductID          uuid.UUID       `json:"product_id"`
	PatientID          *uuid.UUID      `json:"patient_id,omitempty"`
	ApprovedBy         *uuid.UUID      `json:"approved_by,omitempty"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	DiscountedPrice    decimal.Decimal `json:"discounted_price"`
	Status             string          `json:"status"`
	Reason             string          `json:"reason,omitempty"`
	ExpiryDate         *time.Time      `json:"expiry_date,omitempty"`
	IsGlobal           bool            `json:"is_global"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type DiscountListResponse struct {
	Discounts []DiscountResponse `json:"discounts"`
	Total     int64              `json:"total"`
}

// PriceQuoteResponse is the outcome of pricing one product for an
// optional patient; nothing is persisted when it is produced.
type PriceQuoteResponse struct {
	ProductID       uuid.UUID       `json:"product_id"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	Percentage      decimal.Decimal `json:"percentage"`
	DiscountID      *uuid.UUID      `json:"discount_id,omitempty"`
}
