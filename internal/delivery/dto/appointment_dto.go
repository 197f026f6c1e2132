package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	PatientID    uuid.UUID `json:"patient_id" validate:"required"`
	SpecialistID uuid.UUID `json:"specialist_id" validate:"required"`
	ScheduledAt  time.Time `json:"scheduled_at" validate:"required"`
	Reason       string    `json:"reason"`
}

type RescheduleAppointmentRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Notes       string    `json:"notes"`
}

// Response DTOs

type AppointmentResponse struct {
	ID           uuid.UUID  `json:"id"`
	PatientID    uuid.UUID  `json:"patient_id"`
	SpecialistID uuid.UUID  `json:"specialist_id"`
	TakenBy      *uuid.UUID `json:"taken_by,omitempty"`
	Status       string     `json:"status"`
	ScheduledAt  time.Time  `json:"scheduled_at"`
	Reason       string     `json:"reason,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	TakenAt      *time.Time `json:"taken_at,omitempty"`
	PausedAt     *time.Time `json:"paused_at,omitempty"`
	ResumedAt    *time.Time `json:"resumed_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	IsBilled     bool       `json:"is_billed"`
	BilledAt     *time.Time `json:"billed_at,omitempty"`
	SaleID       *uuid.UUID `json:"sale_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int64                 `json:"total"`
}
