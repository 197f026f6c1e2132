package repository

import (
	"errors"

	"go-optical-clinic/internal/domain/entity"
	domainRepo "go-optical-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type quoteRepository struct{}

func NewQuoteRepository() domainRepo.QuoteRepository {
	return &quoteRepository{}
}

func (r *quoteRepository) Create(db *gorm.DB, quote *entity.Quote) error {
	return db.Create(quote).Error
}

func (r *quoteRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Quote, error) {
	var quote entity.Quote
	err := db.Preload("Items").Preload("Items.Product").Where("id = ?", id).First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Quote, error) {
	var quotes []entity.Quote
	err := db.Preload("Items").
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *quoteRepository) FindAll(db *gorm.DB, limit, offset int) ([]entity.Quote, int64, error) {
	var quotes []entity.Quote
	var total int64

	if err := db.Model(&entity.Quote{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&quotes).Error
	if err != nil {
		return nil, 0, err
	}

	return quotes, total, nil
}

func (r *quoteRepository) Update(db *gorm.DB, quote *entity.Quote) error {
	return db.Save(quote).Error
}

func (r *quoteRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	if err := db.Delete(&entity.QuoteItem{}, "quote_id = ?", id).Error; err != nil {
		return err
	}
	return db.Delete(&entity.Quote{}, "id = ?", id).Error
}

type orderRepository struct{}

func NewOrderRepository() domainRepo.OrderRepository {
	return &orderRepository{}
}

func (r *orderRepository) Create(db *gorm.DB, order *entity.Order) error {
	return db.Create(order).Error
}

func (r *orderRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := db.Preload("Items").Preload("Items.Product").Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindItems(db *gorm.DB, orderID uuid.UUID) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := db.Where("order_id = ?", orderID).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Order, error) {
	var orders []entity.Order
	err := db.Preload("Items").
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) FindAll(db *gorm.DB, limit, offset int) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	if err := db.Model(&entity.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) Update(db *gorm.DB, order *entity.Order) error {
	return db.Save(order).Error
}

func (r *orderRepository) UpdatePaymentStatus(db *gorm.DB, orderID uuid.UUID, status entity.PaymentStatus) error {
	return db.Model(&entity.Order{}).
		Where("id = ?", orderID).
		Update("payment_status", status).Error
}

func (r *orderRepository) UpdateStatus(db *gorm.DB, orderID uuid.UUID, status entity.OrderStatus) error {
	return db.Model(&entity.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}
