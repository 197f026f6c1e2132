package usecase

import (
	"context"
	"errors"

	"go-optical-clinic/internal/converter"
	"go-optical-clinic/internal/delivery/dto"
	"go-optical-clinic/internal/delivery/http/middleware"
	"go-optical-clinic/internal/domain/entity"
	"go-optical-clinic/internal/domain/repository"
	"go-optical-clinic/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDiscountNotFound         = errors.New("discount request not found")
	ErrDiscountNotPending       = errors.New("discount request is not pending")
	ErrDiscountInvalidPercent   = errors.New("discount percentage must be greater than 0 and at most 100")
	ErrDiscountDeleteNotAllowed = errors.New("only pending discount requests can be deleted")
	ErrProductNotFound          = errors.New("product not found")
)

type DiscountUsecase interface {
	Create(ctx context.Context, req *dto.CreateDiscountRequest) (*dto.DiscountResponse, error)
	Get(ctx context.Context, discountID uuid.UUID) (*dto.DiscountResponse, error)
	GetAll(ctx context.Context, page, limit int) (*dto.DiscountListResponse, error)
	GetPending(ctx context.Context) (*dto.DiscountListResponse, error)
	Approve(ctx context.Context, discountID uuid.UUID) (*dto.DiscountResponse, error)
	Reject(ctx context.Context, discountID uuid.UUID) (*dto.DiscountResponse, error)
	Delete(ctx context.Context, discountID uuid.UUID) error
	ResolvePrice(ctx context.Context, productID uuid.UUID, patientID *uuid.UUID) (*dto.PriceQuoteResponse, error)
}

type discountUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	discountRepo   repository.DiscountRequestRepository
	productRepo    repository.ProductRepository
	patientRepo    repository.PatientRepository
	pricingService *service.PricingService
	auditService   service.AuditService
}

func NewDiscountUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	discountRepo repository.DiscountRequestRepository,
	productRepo repository.ProductRepository,
	patientRepo repository.PatientRepository,
	pricingService *service.PricingService,
	auditService service.AuditService,
) DiscountUsecase {
	return &discountUsecase{
		db:             db,
		log:            log,
		discountRepo:   discountRepo,
		productRepo:    productRepo,
		patientRepo:    patientRepo,
		pricingService: pricingService,
		auditService:   auditService,
	}
}

// Create records a discount request with the product price snapshotted
// at request time. Requests made by an admin are approved immediately;
// everyone else's wait for an admin decision.
func (u *discountUsecase) Create(ctx context.Context, req *dto.CreateDiscountRequest) (*dto.DiscountResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	roleID, _ := middleware.GetRoleIDFromContext(ctx)

	if req.DiscountPercentage.LessThanOrEqual(decimal.Zero) ||
		req.DiscountPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, ErrDiscountInvalidPercent
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	product, err := u.productRepo.FindByID(tx, req.ProductID)
	if err != nil {
		u.log.Warnf("Failed to find product %s: %+v", req.ProductID, err)
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if req.PatientID != nil {
		patient, err := u.patientRepo.FindByID(tx, *req.PatientID)
		if err != nil {
			u.log.Warnf("Failed to find patient %s: %+v", *req.PatientID, err)
			return nil, err
		}
		if patient == nil {
			return nil, ErrPatientNotFound
		}
	}

	factor := decimal.NewFromInt(1).Sub(req.DiscountPercentage.Div(decimal.NewFromInt(100)))
	discount := &entity.DiscountRequest{
		RequestedBy:        actorID,
		ProductID:          req.ProductID,
		PatientID:          req.PatientID,
		DiscountPercentage: req.DiscountPercentage,
		DiscountedPrice:    product.Price.Mul(factor).Round(2),
		Status:             entity.DiscountStatusPending,
		Reason:             req.Reason,
		ExpiryDate:         req.ExpiryDate,
		IsGlobal:           req.PatientID == nil,
	}

	if roleID == entity.RoleIDAdmin {
		discount.Status = entity.DiscountStatusApproved
		discount.ApprovedBy = &actorID
	}

	if err := u.discountRepo.Create(tx, discount); err != nil {
		u.log.Warnf("Failed to create discount request: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(tx, &actorID, entity.AuditActionDiscountCreate, "discount_request", discount.ID.String(), discount.Status); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Discount request created: id=%s, product=%s, pct=%s, status=%s", discount.ID, discount.ProductID, discount.DiscountPercentage, discount.Status)
	return converter.DiscountToResponse(discount), nil
}

func (u *discountUsecase) Get(ctx context.Context, discountID uuid.UUID) (*dto.DiscountResponse, error) {
	discount, err := u.discountRepo.FindByID(u.db.WithContext(ctx), discountID)
	if err != nil {
		u.log.Warnf("Failed to find discount request %s: %+v", discountID, err)
		return nil, err
	}
	if discount == nil {
		return nil, ErrDiscountNotFound
	}

	return converter.DiscountToResponse(discount), nil
}

func (u *discountUsecase) GetAll(ctx context.Context, page, limit int) (*dto.DiscountListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	discounts, total, err := u.discountRepo.FindAll(u.db.WithContext(ctx), limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find discount requests: %+v", err)
		return nil, err
	}

	return &dto.DiscountListResponse{
		Discounts: converter.DiscountsToResponses(discounts),
		Total:     total,
	}, nil
}

func (u *discountUsecase) GetPending(ctx context.Context) (*dto.DiscountListResponse, error) {
	discounts, err := u.discountRepo.FindByStatus(u.db.WithContext(ctx), entity.DiscountStatusPending)
	if err != nil {
		u.log.Warnf("Failed to find pending discount requests: %+v", err)
		return nil, err
	}

	return &dto.DiscountListResponse{
		Discounts: converter.DiscountsToResponses(discounts),
		Total:     int64(len(discounts)),
	}, nil
}

func (u *discountUsecase) Approve(ctx context.Context, discountID uuid.UUID) (*dto.DiscountResponse, error) {
	return u.decide(ctx, discountID, entity.DiscountStatusApproved, entity.AuditActionDiscountApprove)
}

func (u *discountUsecase) Reject(ctx context.Context, discountID uuid.UUID) (*dto.DiscountResponse, error) {
	return u.decide(ctx, discountID, entity.DiscountStatusRejected, entity.AuditActionDiscountReject)
}

// decide moves a pending request to its terminal status. Decisions are
// one-shot; an already-decided request cannot be re-decided.
func (u *discountUsecase) decide(ctx context.Context, discountID uuid.UUID, status entity.DiscountStatus, action string) (*dto.DiscountResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	discount, err := u.discountRepo.FindByID(tx, discountID)
	if err != nil {
		u.log.Warnf("Failed to find discount request %s: %+v", discountID, err)
		return nil, err
	}
	if discount == nil {
		return nil, ErrDiscountNotFound
	}
	if !discount.IsPending() {
		return nil, ErrDiscountNotPending
	}

	previous := discount.Status
	discount.Status = status
	discount.ApprovedBy = &actorID
	if err := u.discountRepo.Update(tx, discount); err != nil {
		u.log.Warnf("Failed to update discount request %s: %+v", discountID, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(tx, &actorID, action, "discount_request", discount.ID.String(), previous, discount.Status); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Discount request %s: id=%s", status, discount.ID)
	return converter.DiscountToResponse(discount), nil
}

// Delete removes a discount request. Non-admins may only delete
// requests still pending; admins may delete any request.
func (u *discountUsecase) Delete(ctx context.Context, discountID uuid.UUID) error {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return errors.New("user not found in context")
	}
	roleID, _ := middleware.GetRoleIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	discount, err := u.discountRepo.FindByID(tx, discountID)
	if err != nil {
		u.log.Warnf("Failed to find discount request %s: %+v", discountID, err)
		return err
	}
	if discount == nil {
		return ErrDiscountNotFound
	}
	if !discount.IsPending() && roleID != entity.RoleIDAdmin {
		return ErrDiscountDeleteNotAllowed
	}

	if err := u.discountRepo.Delete(tx, discountID); err != nil {
		u.log.Warnf("Failed to delete discount request %s: %+v", discountID, err)
		return err
	}

	if err := u.auditService.LogDelete(tx, &actorID, entity.AuditActionDiscountDelete, "discount_request", discount.ID.String(), discount.Status); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

// ResolvePrice prices a product for an optional patient through the
// discount resolution engine, without persisting anything.
func (u *discountUsecase) ResolvePrice(ctx context.Context, productID uuid.UUID, patientID *uuid.UUID) (*dto.PriceQuoteResponse, error) {
	db := u.db.WithContext(ctx)

	product, err := u.productRepo.FindByID(db, productID)
	if err != nil {
		u.log.Warnf("Failed to find product %s: %+v", productID, err)
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	quote, err := u.pricingService.Price(db, product.Price, productID, patientID)
	if err != nil {
		return nil, err
	}

	return &dto.PriceQuoteResponse{
		ProductID:       productID,
		OriginalPrice:   quote.Original,
		DiscountedPrice: quote.Discounted,
		Percentage:      quote.Percentage,
		DiscountID:      quote.DiscountID,
	}, nil
}
