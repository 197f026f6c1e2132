package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePatientRequest struct {
	FirstName   string     `json:"first_name" validate:"required,min=2,max=100"`
	LastName    string     `json:"last_name" validate:"required,min=2,max=100"`
	PhoneNumber string     `json:"phone_number" validate:"omitempty,min=8,max=20"`
	Email       string     `json:"email" validate:"omitempty,email"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      string     `json:"gender" validate:"omitempty,oneof=M F"`
	Address     string     `json:"address"`
	Notes       string     `json:"notes"`
}

type UpdatePatientRequest struct {
	FirstName   string     `json:"first_name" validate:"omitempty,min=2,max=100"`
	LastName    string     `json:"last_name" validate:"omitempty,min=2,max=100"`
	PhoneNumber string     `json:"phone_number" validate:"omitempty,min=8,max=20"`
	Email       string     `json:"email" validate:"omitempty,email"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      string     `json:"gender" validate:"omitempty,oneof=M F"`
	Address     string     `json:"address"`
	Notes       string     `json:"notes"`
}

// Response DTOs

type PatientResponse struct {
	ID          uuid.UUID  `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	Email       string     `json:"email,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	Address     string     `json:"address,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int64             `json:"total"`
}
