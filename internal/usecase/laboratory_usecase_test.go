package usecase

import (
	"errors"
	"testing"

	"go-optical-clinic/internal/delivery/dto"
	"go-optical-clinic/internal/domain/entity"
	"go-optical-clinic/internal/repository"
	"go-optical-clinic/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newLaboratoryUsecaseForTest(t *testing.T) (LaboratoryUsecase, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger()
	uc := NewLaboratoryUsecase(
		db,
		log,
		repository.NewLaboratoryRepository(),
		repository.NewLaboratoryOrderRepository(),
		service.NewAuditService(log, repository.NewAuditLogRepository()),
	)
	return uc, db
}

func seedLabOrder(t *testing.T, db *gorm.DB, labID uuid.UUID, status entity.LaboratoryOrderStatusValue) *entity.LaboratoryOrder {
	t.Helper()
	order := &entity.LaboratoryOrder{
		LaboratoryID: labID,
		PatientID:    uuid.New(),
		Status:       status,
		CreatedBy:    uuid.New(),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("failed to seed laboratory order: %v", err)
	}
	return order
}

func TestLaboratoryDeactivateBlockedByOpenOrders(t *testing.T) {
	uc, db := newLaboratoryUsecaseForTest(t)
	lab := seedLaboratory(t, db)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)
	ctx := actorContext(receptionist.ID, entity.RoleIDReceptionist)

	open := seedLabOrder(t, db, lab.ID, entity.LabOrderStatusInProcess)

	if _, err := uc.Deactivate(ctx, lab.ID); !errors.Is(err, ErrLaboratoryHasOpenOrders) {
		t.Fatalf("expected ErrLaboratoryHasOpenOrders, got %v", err)
	}

	// Once the last order reaches a terminal status the laboratory
	// can be deactivated.
	if _, err := uc.UpdateOrderStatus(ctx, open.ID, &dto.UpdateLabOrderStatusRequest{
		Status: string(entity.LabOrderStatusDelivered),
	}); err != nil {
		t.Fatalf("UpdateOrderStatus returned error: %v", err)
	}
	resp, err := uc.Deactivate(ctx, lab.ID)
	if err != nil {
		t.Fatalf("Deactivate returned error: %v", err)
	}
	if resp.Status != string(entity.LaboratoryStatusInactive) {
		t.Errorf("expected inactive, got %s", resp.Status)
	}
}

func TestLabOrderStatusUpdateRecordsHistory(t *testing.T) {
	uc, db := newLaboratoryUsecaseForTest(t)
	lab := seedLaboratory(t, db)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)
	ctx := actorContext(receptionist.ID, entity.RoleIDReceptionist)

	order := seedLabOrder(t, db, lab.ID, entity.LabOrderStatusPending)

	if _, err := uc.UpdateOrderStatus(ctx, order.ID, &dto.UpdateLabOrderStatusRequest{
		Status: "not_a_status",
	}); !errors.Is(err, ErrLabOrderInvalidStatus) {
		t.Fatalf("expected ErrLabOrderInvalidStatus, got %v", err)
	}

	resp, err := uc.UpdateOrderStatus(ctx, order.ID, &dto.UpdateLabOrderStatusRequest{
		Status: string(entity.LabOrderStatusSentToLab),
		Notes:  "courier picked up",
	})
	if err != nil {
		t.Fatalf("UpdateOrderStatus returned error: %v", err)
	}
	if resp.Status != string(entity.LabOrderStatusSentToLab) {
		t.Errorf("expected sent_to_lab, got %s", resp.Status)
	}

	var history []entity.LaboratoryOrderStatus
	if err := db.Where("laboratory_order_id = ?", order.ID).Find(&history).Error; err != nil {
		t.Fatalf("failed to load status history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected one history row, got %d", len(history))
	}
	if history[0].Status != entity.LabOrderStatusSentToLab {
		t.Errorf("history must record the new status, got %s", history[0].Status)
	}
	if history[0].ChangedBy == nil || *history[0].ChangedBy != receptionist.ID {
		t.Error("history must record who changed the status")
	}
}

func TestLabOrderDeleteOnlyWhilePending(t *testing.T) {
	uc, db := newLaboratoryUsecaseForTest(t)
	lab := seedLaboratory(t, db)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)
	ctx := actorContext(receptionist.ID, entity.RoleIDReceptionist)

	started := seedLabOrder(t, db, lab.ID, entity.LabOrderStatusInProcess)
	if err := uc.DeleteOrder(ctx, started.ID); !errors.Is(err, ErrLabOrderNotDeletable) {
		t.Fatalf("expected ErrLabOrderNotDeletable, got %v", err)
	}

	pending := seedLabOrder(t, db, lab.ID, entity.LabOrderStatusPending)
	if err := uc.DeleteOrder(ctx, pending.ID); err != nil {
		t.Fatalf("DeleteOrder returned error: %v", err)
	}
	if _, err := uc.GetOrder(ctx, pending.ID); !errors.Is(err, ErrLabOrderNotFound) {
		t.Fatalf("expected ErrLabOrderNotFound after delete, got %v", err)
	}
}
