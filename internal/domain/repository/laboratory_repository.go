package repository

import (
	"go-optical-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LaboratoryRepository interface {
	Create(db *gorm.DB, lab *entity.Laboratory) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Laboratory, error)
	// FindFirstActive returns the oldest laboratory with status=active,
	// or nil when none exists.
	FindFirstActive(db *gorm.DB) (*entity.Laboratory, error)
	// FindFirst returns the oldest laboratory regardless of status.
	FindFirst(db *gorm.DB) (*entity.Laboratory, error)
	FindAll(db *gorm.DB) ([]entity.Laboratory, error)
	Update(db *gorm.DB, lab *entity.Laboratory) error
}

type LaboratoryOrderRepository interface {
	Create(db *gorm.DB, order *entity.LaboratoryOrder) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.LaboratoryOrder, error)
	FindBySaleID(db *gorm.DB, saleID uuid.UUID) (*entity.LaboratoryOrder, error)
	FindByLaboratoryID(db *gorm.DB, laboratoryID uuid.UUID) ([]entity.LaboratoryOrder, error)
	FindAll(db *gorm.DB, limit, offset int) ([]entity.LaboratoryOrder, int64, error)
	// CountOpen counts orders of the laboratory that have not reached a
	// terminal status (delivered or cancelled).
	CountOpen(db *gorm.DB, laboratoryID uuid.UUID) (int64, error)
	Update(db *gorm.DB, order *entity.LaboratoryOrder) error
	Delete(db *gorm.DB, id uuid.UUID) error
	CreateStatusHistory(db *gorm.DB, history *entity.LaboratoryOrderStatus) error
}
