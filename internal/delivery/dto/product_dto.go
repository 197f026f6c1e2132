package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateProductRequest struct {
	SKU               string          `json:"sku" validate:"required,min=2,max=50"`
	Name              string          `json:"name" validate:"required,min=2,max=255"`
	Description       string          `json:"description"`
	Category          string          `json:"category" validate:"required,oneof=lens frame contact_lens accessory service"`
	Price             decimal.Decimal `json:"price" validate:"required"`
	Stock             int             `json:"stock" validate:"omitempty,min=0"`
	HasLensAttributes bool            `json:"has_lens_attributes"`
}

type UpdateProductRequest struct {
	Name              string           `json:"name" validate:"omitempty,min=2,max=255"`
	Description       string           `json:"description"`
	Category          string           `json:"category" validate:"omitempty,oneof=lens frame contact_lens accessory service"`
	Price             *decimal.Decimal `json:"price"`
	Stock             *int             `json:"stock" validate:"omitempty,min=0"`
	HasLensAttributes *bool            `json:"has_lens_attributes"`
}

// Response DTOs

type ProductResponse struct {
	ID                uuid.UUID       `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	Stock             int             `json:"stock"`
	HasLensAttributes bool            `json:"has_lens_attributes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int64             `json:"total"`
}
