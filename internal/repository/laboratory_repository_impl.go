package repository

import (
	"errors"

	"go-optical-clinic/internal/domain/entity"
	domainRepo "go-optical-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type laboratoryRepository struct{}

func NewLaboratoryRepository() domainRepo.LaboratoryRepository {
	return &laboratoryRepository{}
}

func (r *laboratoryRepository) Create(db *gorm.DB, lab *entity.Laboratory) error {
	return db.Create(lab).Error
}

func (r *laboratoryRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Laboratory, error) {
	var lab entity.Laboratory
	err := db.Where("id = ?", id).First(&lab).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &lab, nil
}

func (r *laboratoryRepository) FindFirstActive(db *gorm.DB) (*entity.Laboratory, error) {
	var lab entity.Laboratory
	err := db.Where("status = ?", entity.LaboratoryStatusActive).
		Order("created_at ASC").
		First(&lab).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &lab, nil
}

func (r *laboratoryRepository) FindFirst(db *gorm.DB) (*entity.Laboratory, error) {
	var lab entity.Laboratory
	err := db.Order("created_at ASC").First(&lab).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &lab, nil
}

func (r *laboratoryRepository) FindAll(db *gorm.DB) ([]entity.Laboratory, error) {
	var labs []entity.Laboratory
	err := db.Order("name ASC").Find(&labs).Error
	if err != nil {
		return nil, err
	}
	return labs, nil
}

func (r *laboratoryRepository) Update(db *gorm.DB, lab *entity.Laboratory) error {
	return db.Save(lab).Error
}

type laboratoryOrderRepository struct{}

func NewLaboratoryOrderRepository() domainRepo.LaboratoryOrderRepository {
	return &laboratoryOrderRepository{}
}

func (r *laboratoryOrderRepository) Create(db *gorm.DB, order *entity.LaboratoryOrder) error {
	return db.Create(order).Error
}

func (r *laboratoryOrderRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.LaboratoryOrder, error) {
	var order entity.LaboratoryOrder
	err := db.Preload("Laboratory").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("laboratory_order_statuses.created_at ASC, laboratory_order_statuses.id ASC")
		}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *laboratoryOrderRepository) FindBySaleID(db *gorm.DB, saleID uuid.UUID) (*entity.LaboratoryOrder, error) {
	var order entity.LaboratoryOrder
	err := db.Where("sale_id = ?", saleID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *laboratoryOrderRepository) FindByLaboratoryID(db *gorm.DB, laboratoryID uuid.UUID) ([]entity.LaboratoryOrder, error) {
	var orders []entity.LaboratoryOrder
	err := db.Where("laboratory_id = ?", laboratoryID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *laboratoryOrderRepository) FindAll(db *gorm.DB, limit, offset int) ([]entity.LaboratoryOrder, int64, error) {
	var orders []entity.LaboratoryOrder
	var total int64

	if err := db.Model(&entity.LaboratoryOrder{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Laboratory").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *laboratoryOrderRepository) CountOpen(db *gorm.DB, laboratoryID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&entity.LaboratoryOrder{}).
		Where("laboratory_id = ? AND status NOT IN ?", laboratoryID,
			[]entity.LaboratoryOrderStatusValue{entity.LabOrderStatusDelivered, entity.LabOrderStatusCancelled}).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *laboratoryOrderRepository) Update(db *gorm.DB, order *entity.LaboratoryOrder) error {
	return db.Save(order).Error
}

func (r *laboratoryOrderRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	if err := db.Delete(&entity.LaboratoryOrderStatus{}, "laboratory_order_id = ?", id).Error; err != nil {
		return err
	}
	return db.Delete(&entity.LaboratoryOrder{}, "id = ?", id).Error
}

func (r *laboratoryOrderRepository) CreateStatusHistory(db *gorm.DB, history *entity.LaboratoryOrderStatus) error {
	return db.Create(history).Error
}
