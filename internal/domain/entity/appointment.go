package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusPaused     AppointmentStatus = "paused"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
)

// Appointment represents a patient appointment with a specialist.
//
// The partial unique index on taken_by enforces at the storage layer
// that a specialist can hold at most one in-progress appointment.
type Appointment struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	SpecialistID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"specialist_id"`
	ReceptionistID *uuid.UUID        `gorm:"type:uuid" json:"receptionist_id,omitempty"`
	TakenBy        *uuid.UUID        `gorm:"type:uuid;index:ux_appointments_active_specialist,unique,where:status = 'in_progress'" json:"taken_by,omitempty"`
	Status         AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	ScheduledAt    time.Time         `gorm:"not null;index" json:"scheduled_at"`
	Reason         string            `gorm:"type:text" json:"reason,omitempty"`
	Notes          string            `gorm:"type:text" json:"notes,omitempty"`
	TakenAt        *time.Time        `json:"taken_at,omitempty"`
	PausedAt       *time.Time        `json:"paused_at,omitempty"`
	ResumedAt      *time.Time        `json:"resumed_at,omitempty"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
	IsBilled       bool              `gorm:"not null;default:false;index" json:"is_billed"`
	BilledAt       *time.Time        `json:"billed_at,omitempty"`
	SaleID         *uuid.UUID        `gorm:"type:uuid" json:"sale_id,omitempty"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient    Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Specialist User    `gorm:"foreignKey:SpecialistID" json:"specialist,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsScheduled checks if the appointment is waiting to be taken
func (a *Appointment) IsScheduled() bool {
	return a.Status == AppointmentStatusScheduled
}

// IsInProgress checks if the appointment is actively held by a specialist
func (a *Appointment) IsInProgress() bool {
	return a.Status == AppointmentStatusInProgress
}

// IsPaused checks if the appointment is paused
func (a *Appointment) IsPaused() bool {
	return a.Status == AppointmentStatusPaused
}

// IsCompleted checks if the appointment reached its terminal state
func (a *Appointment) IsCompleted() bool {
	return a.Status == AppointmentStatusCompleted
}

// IsHeldBy checks if the given specialist currently holds the appointment
func (a *Appointment) IsHeldBy(specialistID uuid.UUID) bool {
	return a.TakenBy != nil && *a.TakenBy == specialistID
}
