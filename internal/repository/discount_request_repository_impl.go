package repository

import (
	"errors"
	"time"

	"go-optical-clinic/internal/domain/entity"
	domainRepo "go-optical-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type discountRequestRepository struct{}

func NewDiscountRequestRepository() domainRepo.DiscountRequestRepository {
	return &discountRequestRepository{}
}

func (r *discountRequestRepository) Create(db *gorm.DB, request *entity.DiscountRequest) error {
	return db.Create(request).Error
}

func (r *discountRequestRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.DiscountRequest, error) {
	var request entity.DiscountRequest
	err := db.Preload("Product").Where("id = ?", id).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *discountRequestRepository) FindAll(db *gorm.DB, limit, offset int) ([]entity.DiscountRequest, int64, error) {
	var requests []entity.DiscountRequest
	var total int64

	if err := db.Model(&entity.DiscountRequest{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Product").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *discountRequestRepository) FindByStatus(db *gorm.DB, status entity.DiscountStatus) ([]entity.DiscountRequest, error) {
	var requests []entity.DiscountRequest
	err := db.Preload("Product").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// Candidate ordering: highest percentage wins, ties break on earliest
// created_at then id so resolution is deterministic.
const discountCandidateOrder = "discount_percentage DESC, created_at ASC, id ASC"

func (r *discountRequestRepository) FindBestForPatient(db *gorm.DB, productID, patientID uuid.UUID, now time.Time) (*entity.DiscountRequest, error) {
	var request entity.DiscountRequest
	err := db.Where("product_id = ? AND patient_id = ? AND status = ?", productID, patientID, entity.DiscountStatusApproved).
		Where("expiry_date IS NULL OR expiry_date > ?", now).
		Order(discountCandidateOrder).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *discountRequestRepository) FindBestGlobal(db *gorm.DB, productID uuid.UUID, now time.Time) (*entity.DiscountRequest, error) {
	var request entity.DiscountRequest
	err := db.Where("product_id = ? AND patient_id IS NULL AND status = ?", productID, entity.DiscountStatusApproved).
		Where("expiry_date IS NULL OR expiry_date > ?", now).
		Order(discountCandidateOrder).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *discountRequestRepository) Update(db *gorm.DB, request *entity.DiscountRequest) error {
	return db.Save(request).Error
}

func (r *discountRequestRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Delete(&entity.DiscountRequest{}, "id = ?", id).Error
}
