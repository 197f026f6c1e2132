package repository

import (
	"go-optical-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuoteRepository interface {
	Create(db *gorm.DB, quote *entity.Quote) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Quote, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Quote, error)
	FindAll(db *gorm.DB, limit, offset int) ([]entity.Quote, int64, error)
	Update(db *gorm.DB, quote *entity.Quote) error
	Delete(db *gorm.DB, id uuid.UUID) error
}

type OrderRepository interface {
	Create(db *gorm.DB, order *entity.Order) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Order, error)
	FindItems(db *gorm.DB, orderID uuid.UUID) ([]entity.OrderItem, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Order, error)
	FindAll(db *gorm.DB, limit, offset int) ([]entity.Order, int64, error)
	Update(db *gorm.DB, order *entity.Order) error
	// UpdatePaymentStatus is reserved for billing propagation; no other
	// component writes order payment status.
	UpdatePaymentStatus(db *gorm.DB, orderID uuid.UUID, status entity.PaymentStatus) error
	UpdateStatus(db *gorm.DB, orderID uuid.UUID, status entity.OrderStatus) error
}
