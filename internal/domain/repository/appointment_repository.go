package repository

import (
	"time"

	"go-optical-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	// FindActiveBySpecialist returns the appointment currently held
	// in_progress by the specialist, or nil when none exists. Must be
	// called inside the transaction that performs the take/resume write
	// so the check and the write are observed consistently.
	FindActiveBySpecialist(db *gorm.DB, specialistID uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindBySpecialistID(db *gorm.DB, specialistID uuid.UUID) ([]entity.Appointment, error)
	FindAll(db *gorm.DB, limit, offset int) ([]entity.Appointment, int64, error)
	Update(db *gorm.DB, appointment *entity.Appointment) error
	Delete(db *gorm.DB, id uuid.UUID) error
	// MarkBilled and MarkUnbilled are reserved for billing propagation;
	// no other component writes is_billed/billed_at as a billing side
	// effect. MarkUnbilled keeps the sale link when saleID is non-nil.
	MarkBilled(db *gorm.DB, id uuid.UUID, saleID uuid.UUID, billedAt time.Time) error
	MarkUnbilled(db *gorm.DB, id uuid.UUID, saleID *uuid.UUID) error
}
