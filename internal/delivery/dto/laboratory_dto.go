package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateLaboratoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	ContactName string `json:"contact_name" validate:"omitempty,max=255"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=8,max=20"`
	Email       string `json:"email" validate:"omitempty,email"`
	Address     string `json:"address"`
}

type UpdateLaboratoryRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=255"`
	ContactName string `json:"contact_name" validate:"omitempty,max=255"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=8,max=20"`
	Email       string `json:"email" validate:"omitempty,email"`
	Address     string `json:"address"`
}

type UpdateLabOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

// Response DTOs

type LaboratoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type LaboratoryListResponse struct {
	Laboratories []LaboratoryResponse `json:"laboratories"`
	Total        int64                `json:"total"`
}

type LabOrderStatusResponse struct {
	Status    string     `json:"status"`
	Notes     string     `json:"notes,omitempty"`
	ChangedBy *uuid.UUID `json:"changed_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type LabOrderResponse struct {
	ID            uuid.UUID                `json:"id"`
	LaboratoryID  uuid.UUID                `json:"laboratory_id"`
	PatientID     uuid.UUID                `json:"patient_id"`
	OrderID       *uuid.UUID               `json:"order_id,omitempty"`
	SaleID        *uuid.UUID               `json:"sale_id,omitempty"`
	Status        string                   `json:"status"`
	Notes         string                   `json:"notes,omitempty"`
	StatusHistory []LabOrderStatusResponse `json:"status_history,omitempty"`
	CreatedBy     uuid.UUID                `json:"created_by"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

type LabOrderListResponse struct {
	Orders []LabOrderResponse `json:"orders"`
	Total  int64              `json:"total"`
}
