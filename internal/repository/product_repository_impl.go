package repository

import (
	"errors"

	"go-optical-clinic/internal/domain/entity"
	domainRepo "go-optical-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productRepository struct{}

func NewProductRepository() domainRepo.ProductRepository {
	return &productRepository{}
}

func (r *productRepository) Create(db *gorm.DB, product *entity.Product) error {
	return db.Create(product).Error
}

func (r *productRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := db.Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindAll(db *gorm.DB, limit, offset int) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	if err := db.Model(&entity.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) Update(db *gorm.DB, product *entity.Product) error {
	return db.Save(product).Error
}

func (r *productRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Delete(&entity.Product{}, "id = ?", id).Error
}

type paymentMethodRepository struct{}

func NewPaymentMethodRepository() domainRepo.PaymentMethodRepository {
	return &paymentMethodRepository{}
}

func (r *paymentMethodRepository) Create(db *gorm.DB, method *entity.PaymentMethod) error {
	return db.Create(method).Error
}

func (r *paymentMethodRepository) FindByID(db *gorm.DB, id int) (*entity.PaymentMethod, error) {
	var method entity.PaymentMethod
	err := db.Where("id = ?", id).First(&method).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &method, nil
}

func (r *paymentMethodRepository) FindAll(db *gorm.DB) ([]entity.PaymentMethod, error) {
	var methods []entity.PaymentMethod
	err := db.Order("id ASC").Find(&methods).Error
	if err != nil {
		return nil, err
	}
	return methods, nil
}
