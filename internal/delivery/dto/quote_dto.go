package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type QuoteItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type CreateQuoteRequest struct {
	PatientID  uuid.UUID          `json:"patient_id" validate:"required"`
	Items      []QuoteItemRequest `json:"items" validate:"required,min=1,dive"`
	Tax        decimal.Decimal    `json:"tax"`
	ValidUntil *time.Time         `json:"valid_until"`
	Notes      string             `json:"notes"`
}

// Response DTOs

type QuoteItemResponse struct {
	ID                 uuid.UUID       `json:"id"`
	ProductID          uuid.UUID       `json:"product_id"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	DiscountID         *uuid.UUID      `json:"discount_id,omitempty"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	FinalUnitPrice     decimal.Decimal `json:"final_unit_price"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	IsLens             bool            `json:"is_lens"`
}

type QuoteResponse struct {
	ID          uuid.UUID           `json:"id"`
	QuoteNumber string              `json:"quote_number"`
	PatientID   uuid.UUID           `json:"patient_id"`
	Status      string              `json:"status"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	Tax         decimal.Decimal     `json:"tax"`
	Discount    decimal.Decimal     `json:"discount"`
	Total       decimal.Decimal     `json:"total"`
	ValidUntil  *time.Time          `json:"valid_until,omitempty"`
	Notes       string              `json:"notes,omitempty"`
	Items       []QuoteItemResponse `json:"items,omitempty"`
	CreatedBy   uuid.UUID           `json:"created_by"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type QuoteListResponse struct {
	Quotes []QuoteResponse `json:"quotes"`
	Total  int64           `json:"total"`
}
