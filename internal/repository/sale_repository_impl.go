package repository

import (
	"errors"

	"go-optical-clinic/internal/domain/entity"
	domainRepo "go-optical-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type saleRepository struct{}

func NewSaleRepository() domainRepo.SaleRepository {
	return &saleRepository{}
}

func (r *saleRepository) Create(db *gorm.DB, sale *entity.Sale) error {
	return db.Create(sale).Error
}

func (r *saleRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := db.Preload("Payments").Preload("PartialPayments").Where("id = ?", id).First(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Sale, error) {
	var sales []entity.Sale
	err := db.Preload("Payments").Preload("PartialPayments").
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *saleRepository) FindAll(db *gorm.DB, limit, offset int) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	if err := db.Model(&entity.Sale{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Payments").Preload("PartialPayments").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&sales).Error
	if err != nil {
		return nil, 0, err
	}

	return sales, total, nil
}

func (r *saleRepository) Update(db *gorm.DB, sale *entity.Sale) error {
	return db.Save(sale).Error
}

func (r *saleRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	if err := db.Delete(&entity.SalePayment{}, "sale_id = ?", id).Error; err != nil {
		return err
	}
	if err := db.Delete(&entity.PartialPayment{}, "sale_id = ?", id).Error; err != nil {
		return err
	}
	return db.Delete(&entity.Sale{}, "id = ?", id).Error
}

func (r *saleRepository) CreatePayment(db *gorm.DB, payment *entity.SalePayment) error {
	return db.Create(payment).Error
}

func (r *saleRepository) FindPaymentByID(db *gorm.DB, id uuid.UUID) (*entity.SalePayment, error) {
	var payment entity.SalePayment
	err := db.Where("id = ?", id).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *saleRepository) DeletePayment(db *gorm.DB, id uuid.UUID) error {
	return db.Delete(&entity.SalePayment{}, "id = ?", id).Error
}

func (r *saleRepository) SumPayments(db *gorm.DB, saleID uuid.UUID) (decimal.Decimal, error) {
	return sumAmounts(db, &entity.SalePayment{}, saleID)
}

func (r *saleRepository) CreatePartialPayment(db *gorm.DB, payment *entity.PartialPayment) error {
	return db.Create(payment).Error
}

func (r *saleRepository) FindPartialPaymentByID(db *gorm.DB, id uuid.UUID) (*entity.PartialPayment, error) {
	var payment entity.PartialPayment
	err := db.Where("id = ?", id).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *saleRepository) DeletePartialPayment(db *gorm.DB, id uuid.UUID) error {
	return db.Delete(&entity.PartialPayment{}, "id = ?", id).Error
}

func (r *saleRepository) SumPartialPayments(db *gorm.DB, saleID uuid.UUID) (decimal.Decimal, error) {
	return sumAmounts(db, &entity.PartialPayment{}, saleID)
}

func sumAmounts(db *gorm.DB, model interface{}, saleID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := db.Model(model).
		Select("SUM(amount)").
		Where("sale_id = ?", saleID).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}
