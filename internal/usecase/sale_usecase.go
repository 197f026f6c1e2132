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
	ErrSaleNotFound            = errors.New("sale not found")
	ErrSaleAlreadyCancelled    = errors.New("sale is already cancelled")
	ErrSaleAlreadyRefunded     = errors.New("sale is already refunded")
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrInvalidPaymentAmount    = errors.New("payment amount must be positive")
	ErrPaymentExceedsBalance   = errors.New("payment amount exceeds outstanding balance")
	ErrPaymentMethodNotFound   = errors.New("payment method not found")
	ErrPartialRemovalAdminOnly = errors.New("only administrators can remove partial payments")
)

type SaleUsecase interface {
	Create(ctx context.Context, req *dto.CreateSaleRequest) (*dto.SaleResponse, error)
	Get(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error)
	GetAll(ctx context.Context, page, limit int) (*dto.SaleListResponse, error)
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*dto.SaleListResponse, error)
	AddPayment(ctx context.Context, saleID uuid.UUID, req *dto.SalePaymentRequest) (*dto.SaleResponse, error)
	RemovePayment(ctx context.Context, saleID, paymentID uuid.UUID) (*dto.SaleResponse, error)
	AddPartialPayment(ctx context.Context, saleID uuid.UUID, req *dto.SalePaymentRequest) (*dto.SaleResponse, error)
	RemovePartialPayment(ctx context.Context, saleID, paymentID uuid.UUID) (*dto.SaleResponse, error)
	Cancel(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error)
	Delete(ctx context.Context, saleID uuid.UUID) error
}

type saleUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	saleRepo          repository.SaleRepository
	orderRepo         repository.OrderRepository
	appointmentRepo   repository.AppointmentRepository
	patientRepo       repository.PatientRepository
	paymentMethodRepo repository.PaymentMethodRepository
	billingService    *service.BillingService
	labOrderService   *service.LabOrderService
	sequenceService   *service.SequenceService
	auditService      service.AuditService
}

func NewSaleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	saleRepo repository.SaleRepository,
	orderRepo repository.OrderRepository,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	paymentMethodRepo repository.PaymentMethodRepository,
	billingService *service.BillingService,
	labOrderService *service.LabOrderService,
	sequenceService *service.SequenceService,
	auditService service.AuditService,
) SaleUsecase {
	return &saleUsecase{
		db:                db,
		log:               log,
		saleRepo:          saleRepo,
		orderRepo:         orderRepo,
		appointmentRepo:   appointmentRepo,
		patientRepo:       patientRepo,
		paymentMethodRepo: paymentMethodRepo,
		billingService:    billingService,
		labOrderService:   labOrderService,
		sequenceService:   sequenceService,
		auditService:      auditService,
	}
}

// Create persists the sale header, applies every initial payment
// through the same path as AddPayment, recomputes the balance once,
// propagates billing and runs the laboratory-order trigger. The whole
// creation is one transaction.
func (u *saleUsecase) Create(ctx context.Context, req *dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
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

	if req.OrderID != nil {
		order, err := u.orderRepo.FindByID(tx, *req.OrderID)
		if err != nil {
			u.log.Warnf("Failed to find order %s: %+v", *req.OrderID, err)
			return nil, err
		}
		if order == nil {
			return nil, ErrOrderNotFound
		}
	}
	if req.AppointmentID != nil {
		appointment, err := u.appointmentRepo.FindByID(tx, *req.AppointmentID)
		if err != nil {
			u.log.Warnf("Failed to find appointment %s: %+v", *req.AppointmentID, err)
			return nil, err
		}
		if appointment == nil {
			return nil, ErrAppointmentNotFound
		}
	}

	sale := &entity.Sale{
		SaleNumber:    u.sequenceService.NextSaleNumber(ctx),
		PatientID:     req.PatientID,
		OrderID:       req.OrderID,
		AppointmentID: req.AppointmentID,
		Subtotal:      req.Subtotal,
		Tax:           req.Tax,
		Discount:      req.Discount,
		Total:         req.Total,
		Balance:       req.Total,
		PaymentStatus: entity.PaymentStatusPending,
		Status:        entity.SaleStatusCompleted,
		Notes:         req.Notes,
		CreatedBy:     actorID,
	}
	if err := u.saleRepo.Create(tx, sale); err != nil {
		u.log.Warnf("Failed to create sale: %+v", err)
		return nil, err
	}

	remaining := sale.Total
	for i := range req.InitialPayments {
		payment := &req.InitialPayments[i]
		if err := u.appendPayment(tx, sale, payment, remaining, actorID); err != nil {
			return nil, err
		}
		remaining = remaining.Sub(payment.Amount)
	}

	if err := u.recomputeAndPropagate(tx, sale); err != nil {
		return nil, err
	}

	labReq := &service.LabOrderRequest{
		LaboratoryID:   req.LaboratoryID,
		Notes:          req.LabNotes,
		ContainsLenses: req.ContainsLenses,
		HasLensItems:   hasLensItems(req.Items),
	}
	needsLab, err := u.labOrderService.NeedsLabOrder(tx, sale, labReq)
	if err != nil {
		return nil, err
	}
	if needsLab {
		if _, err := u.labOrderService.CreateFromSale(tx, sale, labReq, actorID); err != nil {
			return nil, err
		}
	}

	if err := u.auditService.LogCreate(tx, &actorID, entity.AuditActionSaleCreate, "sale", sale.ID.String(), sale.SaleNumber); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
		// Don't fail the transaction for audit log errors
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Sale created: id=%s, number=%s, total=%s, status=%s", sale.ID, sale.SaleNumber, sale.Total, sale.PaymentStatus)
	return u.reload(ctx, sale.ID)
}

func (u *saleUsecase) Get(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := u.saleRepo.FindByID(u.db.WithContext(ctx), saleID)
	if err != nil {
		u.log.Warnf("Failed to find sale %s: %+v", saleID, err)
		return nil, err
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}

	return converter.SaleToResponse(sale), nil
}

func (u *saleUsecase) GetAll(ctx context.Context, page, limit int) (*dto.SaleListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	sales, total, err := u.saleRepo.FindAll(u.db.WithContext(ctx), limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find sales: %+v", err)
		return nil, err
	}

	return &dto.SaleListResponse{
		Sales: converter.SalesToResponses(sales),
		Total: total,
	}, nil
}

func (u *saleUsecase) GetByPatient(ctx context.Context, patientID uuid.UUID) (*dto.SaleListResponse, error) {
	sales, err := u.saleRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find sales for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.SaleListResponse{
		Sales: converter.SalesToResponses(sales),
		Total: int64(len(sales)),
	}, nil
}

func (u *saleUsecase) AddPayment(ctx context.Context, saleID uuid.UUID, req *dto.SalePaymentRequest) (*dto.SaleResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	sale, err := u.loadMutableSale(tx, saleID)
	if err != nil {
		return nil, err
	}

	if err := u.appendPayment(tx, sale, req, sale.Balance, actorID); err != nil {
		return nil, err
	}

	if err := u.recomputeAndPropagate(tx, sale); err != nil {
		return nil, err
	}

	if err := u.auditService.LogUpdate(tx, &actorID, entity.AuditActionPaymentAdd, "sale", sale.ID.String(), nil, req.Amount); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Payment added: sale=%s, amount=%s, status=%s", sale.ID, req.Amount, sale.PaymentStatus)
	return u.reload(ctx, sale.ID)
}

// RemovePayment deletes a payment fact. This is a correction, not a
// refund; the derived balance and status simply reflect the remaining
// facts.
func (u *saleUsecase) RemovePayment(ctx context.Context, saleID, paymentID uuid.UUID) (*dto.SaleResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	sale, err := u.loadMutableSale(tx, saleID)
	if err != nil {
		return nil, err
	}

	payment, err := u.saleRepo.FindPaymentByID(tx, paymentID)
	if err != nil {
		u.log.Warnf("Failed to find payment %s: %+v", paymentID, err)
		return nil, err
	}
	if payment == nil || payment.SaleID != sale.ID {
		return nil, ErrPaymentNotFound
	}

	if err := u.saleRepo.DeletePayment(tx, paymentID); err != nil {
		u.log.Warnf("Failed to delete payment %s: %+v", paymentID, err)
		return nil, err
	}

	if err := u.recomputeAndPropagate(tx, sale); err != nil {
		return nil, err
	}

	if err := u.auditService.LogUpdate(tx, &actorID, entity.AuditActionPaymentRemove, "sale", sale.ID.String(), payment.Amount, nil); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Payment removed: sale=%s, payment=%s, status=%s", sale.ID, paymentID, sale.PaymentStatus)
	return u.reload(ctx, sale.ID)
}

func (u *saleUsecase) AddPartialPayment(ctx context.Context, saleID uuid.UUID, req *dto.SalePaymentRequest) (*dto.SaleResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	sale, err := u.loadMutableSale(tx, saleID)
	if err != nil {
		return nil, err
	}

	if err := u.validatePayment(tx, req, sale.Balance); err != nil {
		return nil, err
	}

	payment := &entity.PartialPayment{
		SaleID:          sale.ID,
		PaymentMethodID: req.PaymentMethodID,
		Amount:          req.Amount,
		PaymentDate:     paymentDate(req),
		Reference:       req.Reference,
		Notes:           req.Notes,
		CreatedBy:       actorID,
	}
	if err := u.saleRepo.CreatePartialPayment(tx, payment); err != nil {
		u.log.Warnf("Failed to create partial payment: %+v", err)
		return nil, err
	}

	if err := u.recomputeAndPropagate(tx, sale); err != nil {
		return nil, err
	}

	if err := u.auditService.LogUpdate(tx, &actorID, entity.AuditActionPaymentAdd, "sale", sale.ID.String(), nil, req.Amount); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Partial payment added: sale=%s, amount=%s, status=%s", sale.ID, req.Amount, sale.PaymentStatus)
	return u.reload(ctx, sale.ID)
}

// RemovePartialPayment is restricted to admin-role callers; the
// generic RemovePayment path is not. The two payment tracks enforce
// different authorization at this boundary on purpose.
func (u *saleUsecase) RemovePartialPayment(ctx context.Context, saleID, paymentID uuid.UUID) (*dto.SaleResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	roleID, _ := middleware.GetRoleIDFromContext(ctx)
	if roleID != entity.RoleIDAdmin {
		return nil, ErrPartialRemovalAdminOnly
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	sale, err := u.loadMutableSale(tx, saleID)
	if err != nil {
		return nil, err
	}

	payment, err := u.saleRepo.FindPartialPaymentByID(tx, paymentID)
	if err != nil {
		u.log.Warnf("Failed to find partial payment %s: %+v", paymentID, err)
		return nil, err
	}
	if payment == nil || payment.SaleID != sale.ID {
		return nil, ErrPaymentNotFound
	}

	if err := u.saleRepo.DeletePartialPayment(tx, paymentID); err != nil {
		u.log.Warnf("Failed to delete partial payment %s: %+v", paymentID, err)
		return nil, err
	}

	if err := u.recomputeAndPropagate(tx, sale); err != nil {
		return nil, err
	}

	if err := u.auditService.LogUpdate(tx, &actorID, entity.AuditActionPaymentRemove, "sale", sale.ID.String(), payment.Amount, nil); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return u.reload(ctx, sale.ID)
}

// Cancel marks the sale cancelled and hard-unbills its linked order
// and appointment, independent of payment state. The linked order's
// payment_status is deliberately left untouched; only Delete resets it.
func (u *saleUsecase) Cancel(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	sale, err := u.saleRepo.FindByID(tx, saleID)
	if err != nil {
		u.log.Warnf("Failed to find sale %s: %+v", saleID, err)
		return nil, err
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}
	if sale.IsCancelled() {
		return nil, ErrSaleAlreadyCancelled
	}
	if sale.IsRefunded() {
		return nil, ErrSaleAlreadyRefunded
	}

	now := time.Now()
	sale.Status = entity.SaleStatusCancelled
	sale.CancelledAt = &now
	if err := u.saleRepo.Update(tx, sale); err != nil {
		u.log.Warnf("Failed to cancel sale %s: %+v", saleID, err)
		return nil, err
	}

	if sale.OrderID != nil {
		if err := u.orderRepo.UpdateStatus(tx, *sale.OrderID, entity.OrderStatusCancelled); err != nil {
			u.log.Warnf("Failed to cancel order %s: %+v", *sale.OrderID, err)
			return nil, err
		}
	}

	if err := u.billingService.Release(tx, sale, false); err != nil {
		return nil, err
	}

	if err := u.auditService.LogUpdate(tx, &actorID, entity.AuditActionSaleCancel, "sale", sale.ID.String(), entity.SaleStatusCompleted, sale.Status); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Sale cancelled: id=%s, number=%s", sale.ID, sale.SaleNumber)
	return converter.SaleToResponse(sale), nil
}

// Delete hard-deletes the sale and its payment rows. Unlike Cancel,
// the linked order's payment_status is reset to pending unconditionally.
func (u *saleUsecase) Delete(ctx context.Context, saleID uuid.UUID) error {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return errors.New("user not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	sale, err := u.saleRepo.FindByID(tx, saleID)
	if err != nil {
		u.log.Warnf("Failed to find sale %s: %+v", saleID, err)
		return err
	}
	if sale == nil {
		return ErrSaleNotFound
	}

	if err := u.billingService.Release(tx, sale, true); err != nil {
		return err
	}

	if err := u.saleRepo.Delete(tx, saleID); err != nil {
		u.log.Warnf("Failed to delete sale %s: %+v", saleID, err)
		return err
	}

	if err := u.auditService.LogDelete(tx, &actorID, entity.AuditActionSaleDelete, "sale", sale.ID.String(), sale.SaleNumber); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("Sale deleted: id=%s, number=%s", sale.ID, sale.SaleNumber)
	return nil
}

// loadMutableSale loads a sale that can still accept ledger mutations
func (u *saleUsecase) loadMutableSale(tx *gorm.DB, saleID uuid.UUID) (*entity.Sale, error) {
	sale, err := u.saleRepo.FindByID(tx, saleID)
	if err != nil {
		u.log.Warnf("Failed to find sale %s: %+v", saleID, err)
		return nil, err
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}
	if sale.IsCancelled() {
		return nil, ErrSaleAlreadyCancelled
	}
	if sale.IsRefunded() {
		return nil, ErrSaleAlreadyRefunded
	}
	return sale, nil
}

func (u *saleUsecase) validatePayment(tx *gorm.DB, req *dto.SalePaymentRequest, remaining decimal.Decimal) error {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPaymentAmount
	}
	if req.Amount.GreaterThan(remaining) {
		return ErrPaymentExceedsBalance
	}

	method, err := u.paymentMethodRepo.FindByID(tx, req.PaymentMethodID)
	if err != nil {
		u.log.Warnf("Failed to find payment method %d: %+v", req.PaymentMethodID, err)
		return err
	}
	if method == nil {
		return ErrPaymentMethodNotFound
	}
	return nil
}

func (u *saleUsecase) appendPayment(tx *gorm.DB, sale *entity.Sale, req *dto.SalePaymentRequest, remaining decimal.Decimal, actorID uuid.UUID) error {
	if err := u.validatePayment(tx, req, remaining); err != nil {
		return err
	}

	payment := &entity.SalePayment{
		SaleID:          sale.ID,
		PaymentMethodID: req.PaymentMethodID,
		Amount:          req.Amount,
		PaymentDate:     paymentDate(req),
		Reference:       req.Reference,
		Notes:           req.Notes,
		CreatedBy:       actorID,
	}
	if err := u.saleRepo.CreatePayment(tx, payment); err != nil {
		u.log.Warnf("Failed to create payment for sale %s: %+v", sale.ID, err)
		return err
	}
	return nil
}

// recomputeAndPropagate re-derives balance and payment_status from the
// current payment facts, persists the sale, and pushes the resulting
// status to the linked order and appointment. Runs inside the mutating
// transaction so the ledger and its propagation are one atomic unit.
func (u *saleUsecase) recomputeAndPropagate(tx *gorm.DB, sale *entity.Sale) error {
	paid, err := u.saleRepo.SumPayments(tx, sale.ID)
	if err != nil {
		u.log.Warnf("Failed to sum payments for sale %s: %+v", sale.ID, err)
		return err
	}
	partial, err := u.saleRepo.SumPartialPayments(tx, sale.ID)
	if err != nil {
		u.log.Warnf("Failed to sum partial payments for sale %s: %+v", sale.ID, err)
		return err
	}
	totalPaid := paid.Add(partial)

	sale.Balance = sale.Total.Sub(totalPaid)
	switch {
	case sale.Balance.LessThanOrEqual(decimal.Zero):
		sale.PaymentStatus = entity.PaymentStatusPaid
	case totalPaid.GreaterThan(decimal.Zero):
		sale.PaymentStatus = entity.PaymentStatusPartial
	default:
		sale.PaymentStatus = entity.PaymentStatusPending
	}

	if err := u.saleRepo.Update(tx, sale); err != nil {
		u.log.Warnf("Failed to update sale %s: %+v", sale.ID, err)
		return err
	}

	return u.billingService.Propagate(tx, sale)
}

func (u *saleUsecase) reload(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := u.saleRepo.FindByID(u.db.WithContext(ctx), saleID)
	if err != nil || sale == nil {
		u.log.Warnf("Failed to reload sale %s: %+v", saleID, err)
		return nil, ErrSaleNotFound
	}
	return converter.SaleToResponse(sale), nil
}

func paymentDate(req *dto.SalePaymentRequest) time.Time {
	if req.PaymentDate != nil {
		return *req.PaymentDate
	}
	return time.Now()
}

func hasLensItems(items []dto.SaleItemRequest) bool {
	for _, item := range items {
		if item.LensReference != "" {
			return true
		}
	}
	return false
}
