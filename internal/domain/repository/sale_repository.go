package repository

import (
	"go-optical-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(db *gorm.DB, sale *entity.Sale) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Sale, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Sale, error)
	FindAll(db *gorm.DB, limit, offset int) ([]entity.Sale, int64, error)
	Update(db *gorm.DB, sale *entity.Sale) error
	// Delete hard-deletes the sale header together with all of its
	// payment rows.
	Delete(db *gorm.DB, id uuid.UUID) error

	CreatePayment(db *gorm.DB, payment *entity.SalePayment) error
	FindPaymentByID(db *gorm.DB, id uuid.UUID) (*entity.SalePayment, error)
	DeletePayment(db *gorm.DB, id uuid.UUID) error
	SumPayments(db *gorm.DB, saleID uuid.UUID) (decimal.Decimal, error)

	CreatePartialPayment(db *gorm.DB, payment *entity.PartialPayment) error
	FindPartialPaymentByID(db *gorm.DB, id uuid.UUID) (*entity.PartialPayment, error)
	DeletePartialPayment(db *gorm.DB, id uuid.UUID) error
	SumPartialPayments(db *gorm.DB, saleID uuid.UUID) (decimal.Decimal, error)
}
