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
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrLaboratoryNotFound      = errors.New("laboratory not found")
	ErrLabOrderNotFound        = errors.New("laboratory order not found")
	ErrLabOrderInvalidStatus   = errors.New("invalid laboratory order status")
	ErrLabOrderNotDeletable    = errors.New("only pending laboratory orders can be deleted")
	ErrLaboratoryHasOpenOrders = errors.New("laboratory still has open orders")
)

type LaboratoryUsecase interface {
	CreateLaboratory(ctx context.Context, req *dto.CreateLaboratoryRequest) (*dto.LaboratoryResponse, error)
	GetLaboratory(ctx context.Context, labID uuid.UUID) (*dto.LaboratoryResponse, error)
	GetLaboratories(ctx context.Context) (*dto.LaboratoryListResponse, error)
	UpdateLaboratory(ctx context.Context, labID uuid.UUID, req *dto.UpdateLaboratoryRequest) (*dto.LaboratoryResponse, error)
	Deactivate(ctx context.Context, labID uuid.UUID) (*dto.LaboratoryResponse, error)

	GetOrder(ctx context.Context, orderID uuid.UUID) (*dto.LabOrderResponse, error)
	GetOrders(ctx context.Context, page, limit int) (*dto.LabOrderListResponse, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, req *dto.UpdateLabOrderStatusRequest) (*dto.LabOrderResponse, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}

type laboratoryUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	labRepo      repository.LaboratoryRepository
	labOrderRepo repository.LaboratoryOrderRepository
	auditService service.AuditService
}

func NewLaboratoryUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	labRepo repository.LaboratoryRepository,
	labOrderRepo repository.LaboratoryOrderRepository,
	auditService service.AuditService,
) LaboratoryUsecase {
	return &laboratoryUsecase{
		db:           db,
		log:          log,
		labRepo:      labRepo,
		labOrderRepo: labOrderRepo,
		auditService: auditService,
	}
}

func (u *laboratoryUsecase) CreateLaboratory(ctx context.Context, req *dto.CreateLaboratoryRequest) (*dto.LaboratoryResponse, error) {
	lab := &entity.Laboratory{
		Name:        req.Name,
		ContactName: req.ContactName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Address:     req.Address,
		Status:      entity.LaboratoryStatusActive,
	}

	if err := u.labRepo.Create(u.db.WithContext(ctx), lab); err != nil {
		u.log.Warnf("Failed to create laboratory: %+v", err)
		return nil, err
	}

	u.log.Infof("Laboratory created: id=%s, name=%s", lab.ID, lab.Name)
	return converter.LaboratoryToResponse(lab), nil
}

func (u *laboratoryUsecase) GetLaboratory(ctx context.Context, labID uuid.UUID) (*dto.LaboratoryResponse, error) {
	lab, err := u.labRepo.FindByID(u.db.WithContext(ctx), labID)
	if err != nil {
		u.log.Warnf("Failed to find laboratory %s: %+v", labID, err)
		return nil, err
	}
	if lab == nil {
		return nil, ErrLaboratoryNotFound
	}

	return converter.LaboratoryToResponse(lab), nil
}

func (u *laboratoryUsecase) GetLaboratories(ctx context.Context) (*dto.LaboratoryListResponse, error) {
	labs, err := u.labRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find laboratories: %+v", err)
		return nil, err
	}

	return &dto.LaboratoryListResponse{
		Laboratories: converter.LaboratoriesToResponses(labs),
		Total:        int64(len(labs)),
	}, nil
}

func (u *laboratoryUsecase) UpdateLaboratory(ctx context.Context, labID uuid.UUID, req *dto.UpdateLaboratoryRequest) (*dto.LaboratoryResponse, error) {
	db := u.db.WithContext(ctx)

	lab, err := u.labRepo.FindByID(db, labID)
	if err != nil {
		u.log.Warnf("Failed to find laboratory %s: %+v", labID, err)
		return nil, err
	}
	if lab == nil {
		return nil, ErrLaboratoryNotFound
	}

	if req.Name != "" {
		lab.Name = req.Name
	}
	if req.ContactName != "" {
		lab.ContactName = req.ContactName
	}
	if req.PhoneNumber != "" {
		lab.PhoneNumber = req.PhoneNumber
	}
	if req.Email != "" {
		lab.Email = req.Email
	}
	if req.Address != "" {
		lab.Address = req.Address
	}

	if err := u.labRepo.Update(db, lab); err != nil {
		u.log.Warnf("Failed to update laboratory %s: %+v", labID, err)
		return nil, err
	}

	return converter.LaboratoryToResponse(lab), nil
}

// Deactivate stops the laboratory from receiving new fabrication
// orders. A laboratory with undelivered orders cannot be deactivated.
func (u *laboratoryUsecase) Deactivate(ctx context.Context, labID uuid.UUID) (*dto.LaboratoryResponse, error) {
	db := u.db.WithContext(ctx)

	lab, err := u.labRepo.FindByID(db, labID)
	if err != nil {
		u.log.Warnf("Failed to find laboratory %s: %+v", labID, err)
		return nil, err
	}
	if lab == nil {
		return nil, ErrLaboratoryNotFound
	}

	open, err := u.labOrderRepo.CountOpen(db, labID)
	if err != nil {
		u.log.Warnf("Failed to count open orders of laboratory %s: %+v", labID, err)
		return nil, err
	}
	if open > 0 {
		return nil, ErrLaboratoryHasOpenOrders
	}

	lab.Status = entity.LaboratoryStatusInactive
	if err := u.labRepo.Update(db, lab); err != nil {
		u.log.Warnf("Failed to deactivate laboratory %s: %+v", labID, err)
		return nil, err
	}

	u.log.Infof("Laboratory deactivated: id=%s, name=%s", lab.ID, lab.Name)
	return converter.LaboratoryToResponse(lab), nil
}

func (u *laboratoryUsecase) GetOrder(ctx context.Context, orderID uuid.UUID) (*dto.LabOrderResponse, error) {
	order, err := u.labOrderRepo.FindByID(u.db.WithContext(ctx), orderID)
	if err != nil {
		u.log.Warnf("Failed to find laboratory order %s: %+v", orderID, err)
		return nil, err
	}
	if order == nil {
		return nil, ErrLabOrderNotFound
	}

	return converter.LabOrderToResponse(order), nil
}

func (u *laboratoryUsecase) GetOrders(ctx context.Context, page, limit int) (*dto.LabOrderListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	orders, total, err := u.labOrderRepo.FindAll(u.db.WithContext(ctx), limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find laboratory orders: %+v", err)
		return nil, err
	}

	return &dto.LabOrderListResponse{
		Orders: converter.LabOrdersToResponses(orders),
		Total:  total,
	}, nil
}

// UpdateOrderStatus moves the order to any enumerated status and
// appends a status-history row in the same transaction. There is no
// transition table; fabrication workflows differ per laboratory.
func (u *laboratoryUsecase) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, req *dto.UpdateLabOrderStatusRequest) (*dto.LabOrderResponse, error) {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	status := entity.LaboratoryOrderStatusValue(req.Status)
	if !entity.ValidLabOrderStatus(status) {
		return nil, ErrLabOrderInvalidStatus
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	order, err := u.labOrderRepo.FindByID(tx, orderID)
	if err != nil {
		u.log.Warnf("Failed to find laboratory order %s: %+v", orderID, err)
		return nil, err
	}
	if order == nil {
		return nil, ErrLabOrderNotFound
	}

	previous := order.Status
	order.Status = status
	if req.Notes != "" {
		order.Notes = req.Notes
	}
	if err := u.labOrderRepo.Update(tx, order); err != nil {
		u.log.Warnf("Failed to update laboratory order %s: %+v", orderID, err)
		return nil, err
	}

	history := &entity.LaboratoryOrderStatus{
		LaboratoryOrderID: order.ID,
		Status:            status,
		Notes:             req.Notes,
		ChangedBy:         &actorID,
	}
	if err := u.labOrderRepo.CreateStatusHistory(tx, history); err != nil {
		u.log.Warnf("Failed to record laboratory order status history: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(tx, &actorID, entity.AuditActionLabOrderStatus, "laboratory_order", order.ID.String(), previous, status); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Laboratory order status updated: id=%s, from=%s, to=%s", order.ID, previous, status)
	return converter.LabOrderToResponse(order), nil
}

// DeleteOrder removes a laboratory order that has not entered
// fabrication yet.
func (u *laboratoryUsecase) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return errors.New("user not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	order, err := u.labOrderRepo.FindByID(tx, orderID)
	if err != nil {
		u.log.Warnf("Failed to find laboratory order %s: %+v", orderID, err)
		return err
	}
	if order == nil {
		return ErrLabOrderNotFound
	}
	if !order.IsPending() {
		return ErrLabOrderNotDeletable
	}

	if err := u.labOrderRepo.Delete(tx, orderID); err != nil {
		u.log.Warnf("Failed to delete laboratory order %s: %+v", orderID, err)
		return err
	}

	if err := u.auditService.LogDelete(tx, &actorID, entity.AuditActionLabOrderDelete, "laboratory_order", order.ID.String(), order.Status); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
