package usecase

import (
	"errors"
	"testing"
	"time"

	"go-optical-clinic/internal/delivery/dto"
	"go-optical-clinic/internal/domain/entity"
	"go-optical-clinic/internal/repository"
	"go-optical-clinic/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newQuoteUsecaseForTest(t *testing.T) (QuoteUsecase, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger()
	uc := NewQuoteUsecase(
		db,
		log,
		repository.NewQuoteRepository(),
		repository.NewOrderRepository(),
		repository.NewPatientRepository(),
		repository.NewProductRepository(),
		service.NewPricingService(log, repository.NewDiscountRequestRepository()),
		service.NewSequenceService(log, nil),
		service.NewAuditService(log, repository.NewAuditLogRepository()),
	)
	return uc, db
}

func seedApprovedDiscount(t *testing.T, db *gorm.DB, productID uuid.UUID, patientID *uuid.UUID, pct string) *entity.DiscountRequest {
	t.Helper()
	discount := &entity.DiscountRequest{
		RequestedBy:        uuid.New(),
		ProductID:          productID,
		PatientID:          patientID,
		DiscountPercentage: d(t, pct),
		Status:             entity.DiscountStatusApproved,
		IsGlobal:           patientID == nil,
	}
	if err := db.Create(discount).Error; err != nil {
		t.Fatalf("failed to seed discount: %v", err)
	}
	return discount
}

func TestQuoteCreateFreezesPricing(t *testing.T) {
	uc, db := newQuoteUsecaseForTest(t)
	patient := seedPatient(t, db)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)
	product := seedProduct(t, db, "100.00", false)
	discount := seedApprovedDiscount(t, db, product.ID, &patient.ID, "20.00")

	ctx := actorContext(receptionist.ID, entity.RoleIDReceptionist)
	quote, err := uc.Create(ctx, &dto.CreateQuoteRequest{
		PatientID: patient.ID,
		Items: []dto.QuoteItemRequest{
			{ProductID: product.ID, Quantity: 2},
		},
		Tax: d(t, "10.00"),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if len(quote.Items) != 1 {
		t.Fatalf("expected one item, got %d", len(quote.Items))
	}
	item := quote.Items[0]
	if !item.UnitPrice.Equal(d(t, "100.00")) {
		t.Errorf("expected unit price 100.00, got %s", item.UnitPrice)
	}
	if !item.FinalUnitPrice.Equal(d(t, "80.00")) {
		t.Errorf("expected discounted unit price 80.00, got %s", item.FinalUnitPrice)
	}
	if item.DiscountID == nil || *item.DiscountID != discount.ID {
		t.Error("item must snapshot the discount that priced it")
	}
	if !quote.Subtotal.Equal(d(t, "200.00")) {
		t.Errorf("expected subtotal 200.00, got %s", quote.Subtotal)
	}
	if !quote.Discount.Equal(d(t, "40.00")) {
		t.Errorf("expected discount 40.00, got %s", quote.Discount)
	}
	if !quote.Total.Equal(d(t, "170.00")) {
		t.Errorf("expected total 170.00, got %s", quote.Total)
	}

	// A later, better discount never reprices an existing quote.
	seedApprovedDiscount(t, db, product.ID, &patient.ID, "50.00")
	reloaded, err := uc.Get(ctx, quote.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !reloaded.Items[0].FinalUnitPrice.Equal(d(t, "80.00")) {
		t.Errorf("frozen price changed to %s", reloaded.Items[0].FinalUnitPrice)
	}
}

func TestQuoteCreateRequiresItems(t *testing.T) {
	uc, db := newQuoteUsecaseForTest(t)
	patient := seedPatient(t, db)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)

	ctx := actorContext(receptionist.ID, entity.RoleIDReceptionist)
	_, err := uc.Create(ctx, &dto.CreateQuoteRequest{PatientID: patient.ID})
	if !errors.Is(err, ErrQuoteNoItems) {
		t.Fatalf("expected ErrQuoteNoItems, got %v", err)
	}
}

func TestQuoteConvertCopiesFrozenItems(t *testing.T) {
	uc, db := newQuoteUsecaseForTest(t)
	patient := seedPatient(t, db)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)
	lens := seedProduct(t, db, "150.00", true)
	seedApprovedDiscount(t, db, lens.ID, nil, "10.00")

	ctx := actorContext(receptionist.ID, entity.RoleIDReceptionist)
	quote, err := uc.Create(ctx, &dto.CreateQuoteRequest{
		PatientID: patient.ID,
		Items: []dto.QuoteItemRequest{
			{ProductID: lens.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	order, err := uc.Convert(ctx, quote.ID)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if order.QuoteID == nil || *order.QuoteID != quote.ID {
		t.Error("order must reference the quote it came from")
	}
	if !order.Total.Equal(quote.Total) {
		t.Errorf("order total %s must equal quote total %s", order.Total, quote.Total)
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected one order item, got %d", len(order.Items))
	}
	if !order.Items[0].FinalUnitPrice.Equal(d(t, "135.00")) {
		t.Errorf("expected frozen price 135.00, got %s", order.Items[0].FinalUnitPrice)
	}
	if !order.Items[0].IsLens {
		t.Error("lens flag must survive conversion")
	}

	converted, err := uc.Get(ctx, quote.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if converted.Status != string(entity.QuoteStatusConverted) {
		t.Errorf("expected converted, got %s", converted.Status)
	}

	if _, err := uc.Convert(ctx, quote.ID); !errors.Is(err, ErrQuoteNotConvertible) {
		t.Fatalf("expected ErrQuoteNotConvertible on second convert, got %v", err)
	}
}

func TestQuoteConvertAfterApproval(t *testing.T) {
	uc, db := newQuoteUsecaseForTest(t)
	patient := seedPatient(t, db)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)
	product := seedProduct(t, db, "50.00", false)

	ctx := actorContext(receptionist.ID, entity.RoleIDReceptionist)
	quote, err := uc.Create(ctx, &dto.CreateQuoteRequest{
		PatientID: patient.ID,
		Items:     []dto.QuoteItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := uc.Approve(ctx, quote.ID); err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}
	// A decision is one-shot.
	if _, err := uc.Reject(ctx, quote.ID); !errors.Is(err, ErrQuoteNotPending) {
		t.Fatalf("expected ErrQuoteNotPending, got %v", err)
	}
	// Approved quotes still convert.
	if _, err := uc.Convert(ctx, quote.ID); err != nil {
		t.Fatalf("Convert of approved quote returned error: %v", err)
	}
}

func TestQuoteRejectBlocksConversion(t *testing.T) {
	uc, db := newQuoteUsecaseForTest(t)
	patient := seedPatient(t, db)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)
	product := seedProduct(t, db, "50.00", false)

	ctx := actorContext(receptionist.ID, entity.RoleIDReceptionist)
	quote, err := uc.Create(ctx, &dto.CreateQuoteRequest{
		PatientID: patient.ID,
		Items:     []dto.QuoteItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := uc.Reject(ctx, quote.ID); err != nil {
		t.Fatalf("Reject returned error: %v", err)
	}
	if _, err := uc.Convert(ctx, quote.ID); !errors.Is(err, ErrQuoteNotConvertible) {
		t.Fatalf("expected ErrQuoteNotConvertible, got %v", err)
	}
}

func TestQuoteConvertExpired(t *testing.T) {
	uc, db := newQuoteUsecaseForTest(t)
	patient := seedPatient(t, db)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)
	product := seedProduct(t, db, "50.00", false)

	ctx := actorContext(receptionist.ID, entity.RoleIDReceptionist)
	validUntil := time.Now().Add(-time.Hour)
	quote, err := uc.Create(ctx, &dto.CreateQuoteRequest{
		PatientID:  patient.ID,
		Items:      []dto.QuoteItemRequest{{ProductID: product.ID, Quantity: 1}},
		ValidUntil: &validUntil,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := uc.Convert(ctx, quote.ID); !errors.Is(err, ErrQuoteExpired) {
		t.Fatalf("expected ErrQuoteExpired, got %v", err)
	}
}

func TestQuoteDeleteConvertedRejected(t *testing.T) {
	uc, db := newQuoteUsecaseForTest(t)
	patient := seedPatient(t, db)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)
	product := seedProduct(t, db, "50.00", false)

	ctx := actorContext(receptionist.ID, entity.RoleIDReceptionist)
	quote, err := uc.Create(ctx, &dto.CreateQuoteRequest{
		PatientID: patient.ID,
		Items:     []dto.QuoteItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := uc.Convert(ctx, quote.ID); err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}

	if err := uc.Delete(ctx, quote.ID); !errors.Is(err, ErrQuoteNotConvertible) {
		t.Fatalf("expected ErrQuoteNotConvertible on delete of converted quote, got %v", err)
	}

	pending, err := uc.Create(ctx, &dto.CreateQuoteRequest{
		PatientID: patient.ID,
		Items:     []dto.QuoteItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := uc.Delete(ctx, pending.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := uc.Get(ctx, pending.ID); !errors.Is(err, ErrQuoteNotFound) {
		t.Fatalf("expected ErrQuoteNotFound after delete, got %v", err)
	}
}
