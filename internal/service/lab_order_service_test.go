package service

import (
	"testing"

	"go-optical-clinic/internal/domain/entity"
	"go-optical-clinic/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newLabOrderServiceForTest(t *testing.T) (*LabOrderService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewLabOrderService(
		newTestLogger(),
		repository.NewLaboratoryRepository(),
		repository.NewLaboratoryOrderRepository(),
		repository.NewOrderRepository(),
	)
	return svc, db
}

func seedTestLaboratory(t *testing.T, db *gorm.DB, status entity.LaboratoryStatus) *entity.Laboratory {
	t.Helper()
	lab := &entity.Laboratory{
		Name:   "Lab " + uuid.NewString()[:8],
		Status: status,
	}
	if err := db.Create(lab).Error; err != nil {
		t.Fatalf("failed to seed laboratory: %v", err)
	}
	return lab
}

func seedOrderWithItem(t *testing.T, db *gorm.DB, patientID uuid.UUID, isLens bool) *entity.Order {
	t.Helper()
	order := &entity.Order{
		OrderNumber:   "OR-TEST-" + uuid.NewString()[:8],
		PatientID:     patientID,
		Status:        entity.OrderStatusPending,
		PaymentStatus: entity.PaymentStatusPending,
		Subtotal:      d(t, "100.00"),
		Tax:           decimal.Zero,
		Discount:      decimal.Zero,
		Total:         d(t, "100.00"),
		CreatedBy:     uuid.New(),
		Items: []entity.OrderItem{
			{
				ProductID:      uuid.New(),
				Quantity:       1,
				UnitPrice:      d(t, "100.00"),
				FinalUnitPrice: d(t, "100.00"),
				Subtotal:       d(t, "100.00"),
				IsLens:         isLens,
			},
		},
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	return order
}

func TestNeedsLabOrderDecision(t *testing.T) {
	svc, db := newLabOrderServiceForTest(t)
	patientID := uuid.New()
	lensOrder := seedOrderWithItem(t, db, patientID, true)
	frameOrder := seedOrderWithItem(t, db, patientID, false)
	labID := uuid.New()

	tests := []struct {
		name string
		sale *entity.Sale
		req  *LabOrderRequest
		want bool
	}{
		{
			name: "explicit laboratory",
			sale: &entity.Sale{PatientID: patientID},
			req:  &LabOrderRequest{LaboratoryID: &labID},
			want: true,
		},
		{
			name: "lens flag on payload",
			sale: &entity.Sale{PatientID: patientID},
			req:  &LabOrderRequest{ContainsLenses: true},
			want: true,
		},
		{
			name: "lens item on payload",
			sale: &entity.Sale{PatientID: patientID},
			req:  &LabOrderRequest{HasLensItems: true},
			want: true,
		},
		{
			name: "linked order with lens item",
			sale: &entity.Sale{PatientID: patientID, OrderID: &lensOrder.ID},
			req:  &LabOrderRequest{},
			want: true,
		},
		{
			name: "linked order without lens items",
			sale: &entity.Sale{PatientID: patientID, OrderID: &frameOrder.ID},
			req:  &LabOrderRequest{},
			want: false,
		},
		{
			name: "nothing lens-related",
			sale: &entity.Sale{PatientID: patientID},
			req:  &LabOrderRequest{},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.NeedsLabOrder(db, tt.sale, tt.req)
			if err != nil {
				t.Fatalf("NeedsLabOrder returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCreateFromSaleIsIdempotent(t *testing.T) {
	svc, db := newLabOrderServiceForTest(t)
	lab := seedTestLaboratory(t, db, entity.LaboratoryStatusActive)
	sale := seedTestSale(t, db, uuid.New(), nil)
	actorID := uuid.New()

	req := &LabOrderRequest{LaboratoryID: &lab.ID, Notes: "rush job"}
	first, err := svc.CreateFromSale(db, sale, req, actorID)
	if err != nil {
		t.Fatalf("CreateFromSale returned error: %v", err)
	}
	if first == nil {
		t.Fatal("expected a laboratory order")
	}
	if first.Status != entity.LabOrderStatusPending {
		t.Errorf("expected pending, got %s", first.Status)
	}
	if first.Notes != "rush job" {
		t.Errorf("expected notes to carry over, got %q", first.Notes)
	}

	second, err := svc.CreateFromSale(db, sale, req, actorID)
	if err != nil {
		t.Fatalf("second CreateFromSale returned error: %v", err)
	}
	if second.ID != first.ID {
		t.Error("a second trigger must return the existing order")
	}

	var count int64
	if err := db.Model(&entity.LaboratoryOrder{}).
		Where("sale_id = ?", sale.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("failed to count laboratory orders: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly one laboratory order, got %d", count)
	}
}

func TestCreateFromSaleLaboratoryFallback(t *testing.T) {
	svc, db := newLabOrderServiceForTest(t)
	seedTestLaboratory(t, db, entity.LaboratoryStatusInactive)
	active := seedTestLaboratory(t, db, entity.LaboratoryStatusActive)
	sale := seedTestSale(t, db, uuid.New(), nil)

	// No laboratory named: the first active one is picked.
	labOrder, err := svc.CreateFromSale(db, sale, &LabOrderRequest{ContainsLenses: true}, uuid.New())
	if err != nil {
		t.Fatalf("CreateFromSale returned error: %v", err)
	}
	if labOrder == nil || labOrder.LaboratoryID != active.ID {
		t.Fatalf("expected the active laboratory, got %+v", labOrder)
	}
}

func TestCreateFromSaleInactiveFallback(t *testing.T) {
	svc, db := newLabOrderServiceForTest(t)
	inactive := seedTestLaboratory(t, db, entity.LaboratoryStatusInactive)
	sale := seedTestSale(t, db, uuid.New(), nil)

	// With no active laboratory the order still goes somewhere.
	labOrder, err := svc.CreateFromSale(db, sale, &LabOrderRequest{ContainsLenses: true}, uuid.New())
	if err != nil {
		t.Fatalf("CreateFromSale returned error: %v", err)
	}
	if labOrder == nil || labOrder.LaboratoryID != inactive.ID {
		t.Fatalf("expected the inactive laboratory fallback, got %+v", labOrder)
	}
}

func TestCreateFromSaleWithoutAnyLaboratory(t *testing.T) {
	svc, db := newLabOrderServiceForTest(t)
	sale := seedTestSale(t, db, uuid.New(), nil)

	labOrder, err := svc.CreateFromSale(db, sale, &LabOrderRequest{ContainsLenses: true}, uuid.New())
	if err != nil {
		t.Fatalf("CreateFromSale returned error: %v", err)
	}
	if labOrder != nil {
		t.Fatalf("expected silent skip with no laboratory, got %+v", labOrder)
	}
}
