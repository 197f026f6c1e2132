package repository

import (
	"time"

	"go-optical-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiscountRequestRepository interface {
	Create(db *gorm.DB, request *entity.DiscountRequest) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.DiscountRequest, error)
	FindAll(db *gorm.DB, limit, offset int) ([]entity.DiscountRequest, int64, error)
	FindByStatus(db *gorm.DB, status entity.DiscountStatus) ([]entity.DiscountRequest, error)
	// FindBestForPatient returns the approved, unexpired patient-specific
	// discount with the highest percentage for the product, or nil.
	// Ties break on earliest created_at, then id.
	FindBestForPatient(db *gorm.DB, productID, patientID uuid.UUID, now time.Time) (*entity.DiscountRequest, error)
	// FindBestGlobal is FindBestForPatient for global discounts
	// (patient_id null / is_global).
	FindBestGlobal(db *gorm.DB, productID uuid.UUID, now time.Time) (*entity.DiscountRequest, error)
	Update(db *gorm.DB, request *entity.DiscountRequest) error
	Delete(db *gorm.DB, id uuid.UUID) error
}
