package repository

import (
	"go-optical-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	FindAll(db *gorm.DB, limit, offset int) ([]entity.Patient, int64, error)
	Update(db *gorm.DB, patient *entity.Patient) error
	Delete(db *gorm.DB, id uuid.UUID) error
}

type ProductRepository interface {
	Create(db *gorm.DB, product *entity.Product) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Product, error)
	FindAll(db *gorm.DB, limit, offset int) ([]entity.Product, int64, error)
	Update(db *gorm.DB, product *entity.Product) error
	Delete(db *gorm.DB, id uuid.UUID) error
}

type PaymentMethodRepository interface {
	Create(db *gorm.DB, method *entity.PaymentMethod) error
	FindByID(db *gorm.DB, id int) (*entity.PaymentMethod, error)
	FindAll(db *gorm.DB) ([]entity.PaymentMethod, error)
}
