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

func newSaleUsecaseForTest(t *testing.T) (SaleUsecase, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger()
	orderRepo := repository.NewOrderRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	billingService := service.NewBillingService(log, orderRepo, appointmentRepo)
	labOrderService := service.NewLabOrderService(
		log,
		repository.NewLaboratoryRepository(),
		repository.NewLaboratoryOrderRepository(),
		orderRepo,
	)
	sequenceService := service.NewSequenceService(log, nil)
	auditService := service.NewAuditService(log, repository.NewAuditLogRepository())
	uc := NewSaleUsecase(
		db,
		log,
		repository.NewSaleRepository(),
		orderRepo,
		appointmentRepo,
		repository.NewPatientRepository(),
		repository.NewPaymentMethodRepository(),
		billingService,
		labOrderService,
		sequenceService,
		auditService,
	)
	return uc, db
}

func reloadOrder(t *testing.T, db *gorm.DB, id uuid.UUID) *entity.Order {
	t.Helper()
	var order entity.Order
	if err := db.First(&order, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload order: %v", err)
	}
	return &order
}

func reloadAppointment(t *testing.T, db *gorm.DB, id uuid.UUID) *entity.Appointment {
	t.Helper()
	var appointment entity.Appointment
	if err := db.First(&appointment, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload appointment: %v", err)
	}
	return &appointment
}

func TestSaleCreateStartsPending(t *testing.T) {
	uc, db := newSaleUsecaseForTest(t)
	patient := seedPatient(t, db)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)

	ctx := actorContext(receptionist.ID, entity.RoleIDReceptionist)
	sale, err := uc.Create(ctx, &dto.CreateSaleRequest{
		PatientID: patient.ID,
		Subtotal:  d(t, "200.00"),
		Total:     d(t, "200.00"),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if sale.PaymentStatus != string(entity.PaymentStatusPending) {
		t.Errorf("expected pending, got %s", sale.PaymentStatus)
	}
	if !sale.Balance.Equal(d(t, "200.00")) {
		t.Errorf("expected balance 200.00, got %s", sale.Balance)
	}
	if sale.SaleNumber == "" {
		t.Error("sale number must be assigned")
	}
}

func TestSaleCreateWithInitialPayments(t *testing.T) {
	uc, db := newSaleUsecaseForTest(t)
	patient := seedPatient(t, db)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)
	method := seedPaymentMethod(t, db)

	ctx := actorContext(receptionist.ID, entity.RoleIDReceptionist)

	partial, err := uc.Create(ctx, &dto.CreateSaleRequest{
		PatientID: patient.ID,
		Subtotal:  d(t, "100.00"),
		Total:     d(t, "100.00"),
		InitialPayments: []dto.SalePaymentRequest{
			{Amount: d(t, "40.00"), PaymentMethodID: method.ID},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if partial.PaymentStatus != string(entity.PaymentStatusPartial) {
		t.Errorf("expected partial, got %s", partial.PaymentStatus)
	}
	if !partial.Balance.Equal(d(t, "60.00")) {
		t.Errorf("expected balance 60.00, got %s", partial.Balance)
	}

	paid, err := uc.Create(ctx, &dto.CreateSaleRequest{
		PatientID: patient.ID,
		Subtotal:  d(t, "100.00"),
		Total:     d(t, "100.00"),
		InitialPayments: []dto.SalePaymentRequest{
			{Amount: d(t, "60.00"), PaymentMethodID: method.ID},
			{Amount: d(t, "40.00"), PaymentMethodID: method.ID},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if paid.PaymentStatus != string(entity.PaymentStatusPaid) {
		t.Errorf("expected paid, got %s", paid.PaymentStatus)
	}
	if !paid.Balance.IsZero() {
		t.Errorf("expected zero balance, got %s", paid.Balance)
	}
}

func TestSaleCreateRejectsOverpayingInitialPayments(t *testing.T) {
	uc, db := newSaleUsecaseForTest(t)
	patient := seedPatient(t, db)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)
	method := seedPaymentMethod(t, db)

	ctx := actorContext(receptionist.ID, entity.RoleIDReceptionist)
	_, err := uc.Create(ctx, &dto.CreateSaleRequest{
		PatientID: patient.ID,
		Subtotal:  d(t, "100.00"),
		Total:     d(t, "100.00"),
		InitialPayments: []dto.SalePaymentRequest{
			{Amount: d(t, "80.00"), PaymentMethodID: method.ID},
			{Amount: d(t, "30.00"), PaymentMethodID: method.ID},
		},
	})
	if !errors.Is(err, ErrPaymentExceedsBalance) {
		t.Fatalf("expected ErrPaymentExceedsBalance, got %v", err)
	}
}

func TestSalePaymentValidation(t *testing.T) {
	uc, db := newSaleUsecaseForTest(t)
	patient := seedPatient(t, db)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)
	method := seedPaymentMethod(t, db)

	ctx := actorContext(receptionist.ID, entity.RoleIDReceptionist)
	sale, err := uc.Create(ctx, &dto.CreateSaleRequest{
		PatientID: patient.ID,
		Subtotal:  d(t, "100.00"),
		Total:     d(t, "100.00"),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	tests := []struct {
		name    string
		req     dto.SalePaymentRequest
		wantErr error
	}{
		{
			name:    "zero amount",
			req:     dto.SalePaymentRequest{Amount: d(t, "0"), PaymentMethodID: method.ID},
			wantErr: ErrInvalidPaymentAmount,
		},
		{
			name:    "negative amount",
			req:     dto.SalePaymentRequest{Amount: d(t, "-5.00"), PaymentMethodID: method.ID},
			wantErr: ErrInvalidPaymentAmount,
		},
		{
			name:    "exceeds balance",
			req:     dto.SalePaymentRequest{Amount: d(t, "150.00"), PaymentMethodID: method.ID},
			wantErr: ErrPaymentExceedsBalance,
		},
		{
			name:    "unknown payment method",
			req:     dto.SalePaymentRequest{Amount: d(t, "50.00"), PaymentMethodID: 9999},
			wantErr: ErrPaymentMethodNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.AddPayment(ctx, sale.ID, &tt.req); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSalePaymentsPropagateToOrderAndAppointment(t *testing.T) {
	uc, db := newSaleUsecaseForTest(t)
	patient := seedPatient(t, db)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)
	specialist := seedUser(t, db, entity.RoleIDSpecialist)
	method := seedPaymentMethod(t, db)
	order := seedOrder(t, db, patient.ID, receptionist.ID, "100.00")
	appointment := seedAppointment(t, db, patient.ID, specialist.ID)

	ctx := actorContext(receptionist.ID, entity.RoleIDReceptionist)
	sale, err := uc.Create(ctx, &dto.CreateSaleRequest{
		PatientID:     patient.ID,
		OrderID:       &order.ID,
		AppointmentID: &appointment.ID,
		Subtotal:      d(t, "100.00"),
		Total:         d(t, "100.00"),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// Partial payment: order mirrors the status, appointment stays
	// unbilled but keeps the sale link.
	if _, err := uc.AddPayment(ctx, sale.ID, &dto.SalePaymentRequest{
		Amount: d(t, "30.00"), PaymentMethodID: method.ID,
	}); err != nil {
		t.Fatalf("AddPayment returned error: %v", err)
	}
	if got := reloadOrder(t, db, order.ID); got.PaymentStatus != entity.PaymentStatusPartial {
		t.Errorf("expected order payment_status partial, got %s", got.PaymentStatus)
	}
	appt := reloadAppointment(t, db, appointment.ID)
	if appt.IsBilled {
		t.Error("appointment must not be billed while balance is outstanding")
	}
	if appt.SaleID == nil || *appt.SaleID != sale.ID {
		t.Error("appointment must keep its sale link while unbilled")
	}

	// Paying off the balance bills the appointment.
	paid, err := uc.AddPartialPayment(ctx, sale.ID, &dto.SalePaymentRequest{
		Amount: d(t, "70.00"), PaymentMethodID: method.ID,
	})
	if err != nil {
		t.Fatalf("AddPartialPayment returned error: %v", err)
	}
	if paid.PaymentStatus != string(entity.PaymentStatusPaid) {
		t.Errorf("expected paid, got %s", paid.PaymentStatus)
	}
	if got := reloadOrder(t, db, order.ID); got.PaymentStatus != entity.PaymentStatusPaid {
		t.Errorf("expected order payment_status paid, got %s", got.PaymentStatus)
	}
	appt = reloadAppointment(t, db, appointment.ID)
	if !appt.IsBilled || appt.BilledAt == nil {
		t.Error("appointment must be billed once the sale is fully paid")
	}

	// Removing a payment fact re-derives everything downstream.
	var payment entity.SalePayment
	if err := db.First(&payment, "sale_id = ?", sale.ID).Error; err != nil {
		t.Fatalf("failed to load payment: %v", err)
	}
	after, err := uc.RemovePayment(ctx, sale.ID, payment.ID)
	if err != nil {
		t.Fatalf("RemovePayment returned error: %v", err)
	}
	if after.PaymentStatus != string(entity.PaymentStatusPartial) {
		t.Errorf("expected partial after removal, got %s", after.PaymentStatus)
	}
	if got := reloadOrder(t, db, order.ID); got.PaymentStatus != entity.PaymentStatusPartial {
		t.Errorf("expected order payment_status partial after removal, got %s", got.PaymentStatus)
	}
	if appt = reloadAppointment(t, db, appointment.ID); appt.IsBilled {
		t.Error("appointment must be unbilled after payment removal")
	}
}

func TestSalePartialPaymentRemovalIsAdminOnly(t *testing.T) {
	uc, db := newSaleUsecaseForTest(t)
	patient := seedPatient(t, db)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)
	admin := seedUser(t, db, entity.RoleIDAdmin)
	method := seedPaymentMethod(t, db)

	staffCtx := actorContext(receptionist.ID, entity.RoleIDReceptionist)
	sale, err := uc.Create(staffCtx, &dto.CreateSaleRequest{
		PatientID: patient.ID,
		Subtotal:  d(t, "100.00"),
		Total:     d(t, "100.00"),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := uc.AddPartialPayment(staffCtx, sale.ID, &dto.SalePaymentRequest{
		Amount: d(t, "25.00"), PaymentMethodID: method.ID,
	}); err != nil {
		t.Fatalf("AddPartialPayment returned error: %v", err)
	}

	var payment entity.PartialPayment
	if err := db.First(&payment, "sale_id = ?", sale.ID).Error; err != nil {
		t.Fatalf("failed to load partial payment: %v", err)
	}

	if _, err := uc.RemovePartialPayment(staffCtx, sale.ID, payment.ID); !errors.Is(err, ErrPartialRemovalAdminOnly) {
		t.Fatalf("expected ErrPartialRemovalAdminOnly, got %v", err)
	}

	adminCtx := actorContext(admin.ID, entity.RoleIDAdmin)
	after, err := uc.RemovePartialPayment(adminCtx, sale.ID, payment.ID)
	if err != nil {
		t.Fatalf("admin removal returned error: %v", err)
	}
	if after.PaymentStatus != string(entity.PaymentStatusPending) {
		t.Errorf("expected pending after removal, got %s", after.PaymentStatus)
	}
}

func TestSaleCancelKeepsOrderPaymentStatus(t *testing.T) {
	uc, db := newSaleUsecaseForTest(t)
	patient := seedPatient(t, db)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)
	specialist := seedUser(t, db, entity.RoleIDSpecialist)
	method := seedPaymentMethod(t, db)
	order := seedOrder(t, db, patient.ID, receptionist.ID, "100.00")
	appointment := seedAppointment(t, db, patient.ID, specialist.ID)

	ctx := actorContext(receptionist.ID, entity.RoleIDReceptionist)
	sale, err := uc.Create(ctx, &dto.CreateSaleRequest{
		PatientID:     patient.ID,
		OrderID:       &order.ID,
		AppointmentID: &appointment.ID,
		Subtotal:      d(t, "100.00"),
		Total:         d(t, "100.00"),
		InitialPayments: []dto.SalePaymentRequest{
			{Amount: d(t, "100.00"), PaymentMethodID: method.ID},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	cancelled, err := uc.Cancel(ctx, sale.ID)
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if cancelled.Status != string(entity.SaleStatusCancelled) {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}

	got := reloadOrder(t, db, order.ID)
	if got.Status != entity.OrderStatusCancelled {
		t.Errorf("expected order cancelled, got %s", got.Status)
	}
	// Cancel documents the money that was taken; the paid marker stays.
	if got.PaymentStatus != entity.PaymentStatusPaid {
		t.Errorf("cancel must not touch order payment_status, got %s", got.PaymentStatus)
	}

	appt := reloadAppointment(t, db, appointment.ID)
	if appt.IsBilled || appt.BilledAt != nil || appt.SaleID != nil {
		t.Error("cancel must fully release the appointment billing")
	}

	// A cancelled sale accepts no further ledger mutations.
	if _, err := uc.AddPayment(ctx, sale.ID, &dto.SalePaymentRequest{
		Amount: d(t, "10.00"), PaymentMethodID: method.ID,
	}); !errors.Is(err, ErrSaleAlreadyCancelled) {
		t.Fatalf("expected ErrSaleAlreadyCancelled, got %v", err)
	}
	if _, err := uc.Cancel(ctx, sale.ID); !errors.Is(err, ErrSaleAlreadyCancelled) {
		t.Fatalf("expected ErrSaleAlreadyCancelled on re-cancel, got %v", err)
	}
}

func TestSaleDeleteResetsOrderPaymentStatus(t *testing.T) {
	uc, db := newSaleUsecaseForTest(t)
	patient := seedPatient(t, db)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)
	specialist := seedUser(t, db, entity.RoleIDSpecialist)
	method := seedPaymentMethod(t, db)
	order := seedOrder(t, db, patient.ID, receptionist.ID, "100.00")
	appointment := seedAppointment(t, db, patient.ID, specialist.ID)

	ctx := actorContext(receptionist.ID, entity.RoleIDReceptionist)
	sale, err := uc.Create(ctx, &dto.CreateSaleRequest{
		PatientID:     patient.ID,
		OrderID:       &order.ID,
		AppointmentID: &appointment.ID,
		Subtotal:      d(t, "100.00"),
		Total:         d(t, "100.00"),
		InitialPayments: []dto.SalePaymentRequest{
			{Amount: d(t, "100.00"), PaymentMethodID: method.ID},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := uc.Delete(ctx, sale.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	got := reloadOrder(t, db, order.ID)
	if got.PaymentStatus != entity.PaymentStatusPending {
		t.Errorf("delete must reset order payment_status to pending, got %s", got.PaymentStatus)
	}
	appt := reloadAppointment(t, db, appointment.ID)
	if appt.IsBilled || appt.SaleID != nil {
		t.Error("delete must fully release the appointment billing")
	}
	if _, err := uc.Get(ctx, sale.ID); !errors.Is(err, ErrSaleNotFound) {
		t.Fatalf("expected ErrSaleNotFound after delete, got %v", err)
	}
}

func TestSaleCreateOpensLaboratoryOrder(t *testing.T) {
	uc, db := newSaleUsecaseForTest(t)
	patient := seedPatient(t, db)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)
	lab := seedLaboratory(t, db)
	lens := seedProduct(t, db, "150.00", true)

	ctx := actorContext(receptionist.ID, entity.RoleIDReceptionist)
	sale, err := uc.Create(ctx, &dto.CreateSaleRequest{
		PatientID:    patient.ID,
		Subtotal:     d(t, "150.00"),
		Total:        d(t, "150.00"),
		LaboratoryID: &lab.ID,
		Items: []dto.SaleItemRequest{
			{ProductID: lens.ID, Quantity: 1, LensReference: "OD -1.25 OS -1.50"},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	var labOrder entity.LaboratoryOrder
	if err := db.First(&labOrder, "sale_id = ?", sale.ID).Error; err != nil {
		t.Fatalf("expected a laboratory order for the sale: %v", err)
	}
	if labOrder.LaboratoryID != lab.ID {
		t.Errorf("expected laboratory %s, got %s", lab.ID, labOrder.LaboratoryID)
	}
	if labOrder.Status != entity.LabOrderStatusPending {
		t.Errorf("expected pending laboratory order, got %s", labOrder.Status)
	}

	var history int64
	if err := db.Model(&entity.LaboratoryOrderStatus{}).
		Where("laboratory_order_id = ?", labOrder.ID).
		Count(&history).Error; err != nil {
		t.Fatalf("failed to count status history: %v", err)
	}
	if history != 1 {
		t.Errorf("expected one status history row, got %d", history)
	}
}

func TestSaleCreateWithoutLensesSkipsLaboratory(t *testing.T) {
	uc, db := newSaleUsecaseForTest(t)
	patient := seedPatient(t, db)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)
	seedLaboratory(t, db)
	frame := seedProduct(t, db, "80.00", false)

	ctx := actorContext(receptionist.ID, entity.RoleIDReceptionist)
	sale, err := uc.Create(ctx, &dto.CreateSaleRequest{
		PatientID: patient.ID,
		Subtotal:  d(t, "80.00"),
		Total:     d(t, "80.00"),
		Items: []dto.SaleItemRequest{
			{ProductID: frame.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	var count int64
	if err := db.Model(&entity.LaboratoryOrder{}).
		Where("sale_id = ?", sale.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("failed to count laboratory orders: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no laboratory order, got %d", count)
	}
}
