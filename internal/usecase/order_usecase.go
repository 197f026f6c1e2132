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
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderCancelled        = errors.New("order is cancelled")
	ErrOrderAlreadyCompleted = errors.New("order is already completed")
	ErrOrderNoItems          = errors.New("order must contain at least one item")
)

type OrderUsecase interface {
	Create(ctx context.Context, req *dto.CreateOrderRequest) (*dto.OrderResponse, error)
	Get(ctx context.Context, orderID uuid.UUID) (*dto.OrderResponse, error)
	GetAll(ctx context.Context, page, limit int) (*dto.OrderListResponse, error)
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*dto.OrderListResponse, error)
	Complete(ctx context.Context, orderID uuid.UUID) (*dto.OrderResponse, error)
}

type orderUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	orderRepo       repository.OrderRepository
	patientRepo     repository.PatientRepository
	productRepo     repository.ProductRepository
	pricingService  *service.PricingService
	sequenceService *service.SequenceService
	auditService    service.AuditService
}

func NewOrderUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	orderRepo repository.OrderRepository,
	patientRepo repository.PatientRepository,
	productRepo repository.ProductRepository,
	pricingService *service.PricingService,
	sequenceService *service.SequenceService,
	auditService service.AuditService,
) OrderUsecase {
	return &orderUsecase{
		db:              db,
		log:             log,
		orderRepo:       orderRepo,
		patientRepo:     patientRepo,
		productRepo:     productRepo,
		pricingService:  pricingService,
		sequenceService: sequenceService,
		auditService:    auditService,
	}
}

// Create builds a direct order (not originating from a quote), pricing
// each line through the discount resolution engine the same way quotes
// do. Payment status starts pending and is only ever changed by
// billing propagation from a sale.
func (u *orderUsecase) Create(ctx context.Context, req *dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	if len(req.Items) == 0 {
		return nil, ErrOrderNoItems
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
	items := make([]entity.OrderItem, 0, len(req.Items))
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
		items = append(items, entity.OrderItem{
			ProductID:          product.ID,
			Quantity:           line.Quantity,
			UnitPrice:          price.Original,
			DiscountID:         price.DiscountID,
			DiscountPercentage: price.Percentage,
			FinalUnitPrice:     price.Discounted,
			Subtotal:           price.Discounted.Mul(quantity),
			IsLens:             product.HasLensAttributes,
		})

		subtotal = subtotal.Add(price.Original.Mul(quantity))
		discount = discount.Add(price.Original.Sub(price.Discounted).Mul(quantity))
	}

	order := &entity.Order{
		OrderNumber:   u.sequenceService.NextOrderNumber(ctx),
		PatientID:     req.PatientID,
		Status:        entity.OrderStatusPending,
		PaymentStatus: entity.PaymentStatusPending,
		Subtotal:      subtotal,
		Tax:           req.Tax,
		Discount:      discount,
		Total:         subtotal.Sub(discount).Add(req.Tax),
		Notes:         req.Notes,
		CreatedBy:     actorID,
		Items:         items,
	}
	if err := u.orderRepo.Create(tx, order); err != nil {
		u.log.Warnf("Failed to create order: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(tx, &actorID, entity.AuditActionOrderCreate, "order", order.ID.String(), order.OrderNumber); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Order created: id=%s, number=%s, total=%s", order.ID, order.OrderNumber, order.Total)
	return converter.OrderToResponse(order), nil
}

func (u *orderUsecase) Get(ctx context.Context, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := u.orderRepo.FindByID(u.db.WithContext(ctx), orderID)
	if err != nil {
		u.log.Warnf("Failed to find order %s: %+v", orderID, err)
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	return converter.OrderToResponse(order), nil
}

func (u *orderUsecase) GetAll(ctx context.Context, page, limit int) (*dto.OrderListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	orders, total, err := u.orderRepo.FindAll(u.db.WithContext(ctx), limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find orders: %+v", err)
		return nil, err
	}

	return &dto.OrderListResponse{
		Orders: converter.OrdersToResponses(orders),
		Total:  total,
	}, nil
}

func (u *orderUsecase) GetByPatient(ctx context.Context, patientID uuid.UUID) (*dto.OrderListResponse, error) {
	orders, err := u.orderRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find orders for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.OrderListResponse{
		Orders: converter.OrdersToResponses(orders),
		Total:  int64(len(orders)),
	}, nil
}

// Complete marks the fulfilment side of the order done. It does not
// touch payment status; that belongs to billing propagation.
func (u *orderUsecase) Complete(ctx context.Context, orderID uuid.UUID) (*dto.OrderResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	order, err := u.orderRepo.FindByID(tx, orderID)
	if err != nil {
		u.log.Warnf("Failed to find order %s: %+v", orderID, err)
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.IsCancelled() {
		return nil, ErrOrderCancelled
	}
	if order.Status == entity.OrderStatusCompleted {
		return nil, ErrOrderAlreadyCompleted
	}

	order.Status = entity.OrderStatusCompleted
	if err := u.orderRepo.Update(tx, order); err != nil {
		u.log.Warnf("Failed to complete order %s: %+v", orderID, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(tx, &actorID, entity.AuditActionOrderComplete, "order", order.ID.String(), entity.OrderStatusPending, order.Status); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.OrderToResponse(order), nil
}
