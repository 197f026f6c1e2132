package usecase

import (
	"context"
	"errors"
	"time"

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
	ErrQuoteNotFound       = errors.New("quote not found")
	ErrQuoteNotPending     = errors.New("quote is not pending")
	ErrQuoteNotConvertible = errors.New("quote can no longer be converted to an order")
	ErrQuoteExpired        = errors.New("quote validity period has passed")
	ErrQuoteNoItems        = errors.New("quote must contain at least one item")
)

type QuoteUsecase interface {
	Create(ctx context.Context, req *dto.CreateQuoteRequest) (*dto.QuoteResponse, error)
	Get(ctx context.Context, quoteID uuid.UUID) (*dto.QuoteResponse, error)
	GetAll(ctx context.Context, page, limit int) (*dto.QuoteListResponse, error)
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*dto.QuoteListResponse, error)
	Approve(ctx context.Context, quoteID uuid.UUID) (*dto.QuoteResponse, error)
	Reject(ctx context.Context, quoteID uuid.UUID) (*dto.QuoteResponse, error)
	Convert(ctx context.Context, quoteID uuid.UUID) (*dto.OrderResponse, error)
	Delete(ctx context.Context, quoteID uuid.UUID) error
}

type quoteUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	quoteRepo       repository.QuoteRepository
	orderRepo       repository.OrderRepository
	patientRepo     repository.PatientRepository
	productRepo     repository.ProductRepository
	pricingService  *service.PricingService
	sequenceService *service.SequenceService
	auditService    service.AuditService
}

func NewQuoteUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	quoteRepo repository.QuoteRepository,
	orderRepo repository.OrderRepository,
	patientRepo repository.PatientRepository,
	productRepo repository.ProductRepository,
	pricingService *service.PricingService,
	sequenceService *service.SequenceService,
	auditService service.AuditService,
) QuoteUsecase {
	return &quoteUsecase{
		db:              db,
		log:             log,
		quoteRepo:       quoteRepo,
		orderRepo:       orderRepo,
		patientRepo:     patientRepo,
		productRepo:     productRepo,
		pricingService:  pricingService,
		sequenceService: sequenceService,
		auditService:    auditService,
	}
}

// Create prices every line through the discount resolution engine and
// freezes the outcome into the quote items. Later discount changes
// never reprice an existing quote.
func (u *quoteUsecase) Create(ctx context.Context, req *dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	if len(req.Items) == 0 {
		return nil, ErrQuoteNoItems
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(tx, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	patientID := req.PatientID
	subtotal := decimal.Zero
	discount := decimal.Zero
	items := make([]entity.QuoteItem, 0, len(req.Items))
	for _, line := range req.Items {
		product, err := u.productRepo.FindByID(tx, line.ProductID)
		if err != nil {
			u.log.Warnf("Failed to find product %s: %+v", line.ProductID, err)
			return nil, err
		}
		if product == nil {
			return nil, ErrProductNotFound
		}

		price, err := u.pricingService.Price(tx, product.Price, product.ID, &patientID)
		if err != nil {
			return nil, err
		}

		quantity := decimal.NewFromInt(int64(line.Quantity))
		lineSubtotal := price.Discounted.Mul(quantity)
		items = append(items, entity.QuoteItem{
			ProductID:          product.ID,
			Quantity:           line.Quantity,
			UnitPrice:          price.Original,
			DiscountID:         price.DiscountID,
			DiscountPercentage: price.Percentage,
			FinalUnitPrice:     price.Discounted,
			Subtotal:           lineSubtotal,
			IsLens:             product.HasLensAttributes,
		})

		subtotal = subtotal.Add(price.Original.Mul(quantity))
		discount = discount.Add(price.Original.Sub(price.Discounted).Mul(quantity))
	}

	quote := &entity.Quote{
		QuoteNumber: u.sequenceService.NextQuoteNumber(ctx),
		PatientID:   req.PatientID,
		Status:      entity.QuoteStatusPending,
		Subtotal:    subtotal,
		Tax:         req.Tax,
		Discount:    discount,
		Total:       subtotal.Sub(discount).Add(req.Tax),
		ValidUntil:  req.ValidUntil,
		Notes:       req.Notes,
		CreatedBy:   actorID,
		Items:       items,
	}
	if err := u.quoteRepo.Create(tx, quote); err != nil {
		u.log.Warnf("Failed to create quote: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(tx, &actorID, entity.AuditActionQuoteCreate, "quote", quote.ID.String(), quote.QuoteNumber); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Quote created: id=%s, number=%s, total=%s", quote.ID, quote.QuoteNumber, quote.Total)
	return converter.QuoteToResponse(quote), nil
}

func (u *quoteUsecase) Get(ctx context.Context, quoteID uuid.UUID) (*dto.QuoteResponse, error) {
	quote, err := u.quoteRepo.FindByID(u.db.WithContext(ctx), quoteID)
	if err != nil {
		u.log.Warnf("Failed to find quote %s: %+v", quoteID, err)
		return nil, err
	}
	if quote == nil {
		return nil, ErrQuoteNotFound
	}

	return converter.QuoteToResponse(quote), nil
}

func (u *quoteUsecase) GetAll(ctx context.Context, page, limit int) (*dto.QuoteListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	quotes, total, err := u.quoteRepo.FindAll(u.db.WithContext(ctx), limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find quotes: %+v", err)
		return nil, err
	}

	return &dto.QuoteListResponse{
		Quotes: converter.QuotesToResponses(quotes),
		Total:  total,
	}, nil
}

func (u *quoteUsecase) GetByPatient(ctx context.Context, patientID uuid.UUID) (*dto.QuoteListResponse, error) {
	quotes, err := u.quoteRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find quotes for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.QuoteListResponse{
		Quotes: converter.QuotesToResponses(quotes),
		Total:  int64(len(quotes)),
	}, nil
}

func (u *quoteUsecase) Approve(ctx context.Context, quoteID uuid.UUID) (*dto.QuoteResponse, error) {
	return u.decide(ctx, quoteID, entity.QuoteStatusApproved)
}

func (u *quoteUsecase) Reject(ctx context.Context, quoteID uuid.UUID) (*dto.QuoteResponse, error) {
	return u.decide(ctx, quoteID, entity.QuoteStatusRejected)
}

func (u *quoteUsecase) decide(ctx context.Context, quoteID uuid.UUID, status entity.QuoteStatus) (*dto.QuoteResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	quote, err := u.quoteRepo.FindByID(tx, quoteID)
	if err != nil {
		u.log.Warnf("Failed to find quote %s: %+v", quoteID, err)
		return nil, err
	}
	if quote == nil {
		return nil, ErrQuoteNotFound
	}
	if quote.Status != entity.QuoteStatusPending {
		return nil, ErrQuoteNotPending
	}

	previous := quote.Status
	quote.Status = status
	if err := u.quoteRepo.Update(tx, quote); err != nil {
		u.log.Warnf("Failed to update quote %s: %+v", quoteID, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(tx, &actorID, entity.AuditActionQuoteUpdate, "quote", quote.ID.String(), previous, quote.Status); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.QuoteToResponse(quote), nil
}

// Convert turns a pending or approved quote into an order, copying the
// frozen item pricing verbatim. The quote moves to converted and can
// never be converted again.
func (u *quoteUsecase) Convert(ctx context.Context, quoteID uuid.UUID) (*dto.OrderResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	quote, err := u.quoteRepo.FindByID(tx, quoteID)
	if err != nil {
		u.log.Warnf("Failed to find quote %s: %+v", quoteID, err)
		return nil, err
	}
	if quote == nil {
		return nil, ErrQuoteNotFound
	}
	if !quote.IsConvertible() {
		return nil, ErrQuoteNotConvertible
	}
	if quote.ValidUntil != nil && quote.ValidUntil.Before(time.Now()) {
		return nil, ErrQuoteExpired
	}

	items := make([]entity.OrderItem, 0, len(quote.Items))
	for _, item := range quote.Items {
		items = append(items, entity.OrderItem{
			ProductID:          item.ProductID,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
			DiscountID:         item.DiscountID,
			DiscountPercentage: item.DiscountPercentage,
			FinalUnitPrice:     item.FinalUnitPrice,
			Subtotal:           item.Subtotal,
			IsLens:             item.IsLens,
		})
	}

	quoteRef := quote.ID
	order := &entity.Order{
		OrderNumber:   u.sequenceService.NextOrderNumber(ctx),
		QuoteID:       &quoteRef,
		PatientID:     quote.PatientID,
		Status:        entity.OrderStatusPending,
		PaymentStatus: entity.PaymentStatusPending,
		Subtotal:      quote.Subtotal,
		Tax:           quote.Tax,
		Discount:      quote.Discount,
		Total:         quote.Total,
		Notes:         quote.Notes,
		CreatedBy:     actorID,
		Items:         items,
	}
	if err := u.orderRepo.Create(tx, order); err != nil {
		u.log.Warnf("Failed to create order from quote %s: %+v", quoteID, err)
		return nil, err
	}

	quote.Status = entity.QuoteStatusConverted
	if err := u.quoteRepo.Update(tx, quote); err != nil {
		u.log.Warnf("Failed to mark quote %s converted: %+v", quoteID, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(tx, &actorID, entity.AuditActionQuoteConvert, "quote", quote.ID.String(), entity.QuoteStatusPending, order.ID.String()); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Quote converted: quote=%s, order=%s, number=%s", quote.ID, order.ID, order.OrderNumber)
	return converter.OrderToResponse(order), nil
}

// Delete removes a quote that has not been converted
func (u *quoteUsecase) Delete(ctx context.Context, quoteID uuid.UUID) error {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return errors.New("user not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	quote, err := u.quoteRepo.FindByID(tx, quoteID)
	if err != nil {
		u.log.Warnf("Failed to find quote %s: %+v", quoteID, err)
		return err
	}
	if quote == nil {
		return ErrQuoteNotFound
	}
	if quote.Status == entity.QuoteStatusConverted {
		return ErrQuoteNotConvertible
	}

	if err := u.quoteRepo.Delete(tx, quoteID); err != nil {
		u.log.Warnf("Failed to delete quote %s: %+v", quoteID, err)
		return err
	}

	if err := u.auditService.LogDelete(tx, &actorID, entity.AuditActionQuoteDelete, "quote", quote.ID.String(), quote.QuoteNumber); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
