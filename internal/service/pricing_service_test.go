package service

import (
	"testing"
	"time"

	"go-optical-clinic/internal/domain/entity"
	"go-optical-clinic/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newPricingServiceForTest(t *testing.T) (*PricingService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewPricingService(newTestLogger(), repository.NewDiscountRequestRepository()), db
}

type discountSpec struct {
	id        uuid.UUID
	patientID *uuid.UUID
	pct       string
	status    entity.DiscountStatus
	expiry    *time.Time
	createdAt time.Time
}

func seedDiscountSpec(t *testing.T, db *gorm.DB, productID uuid.UUID, spec discountSpec) *entity.DiscountRequest {
	t.Helper()
	if spec.status == "" {
		spec.status = entity.DiscountStatusApproved
	}
	if spec.createdAt.IsZero() {
		spec.createdAt = time.Now()
	}
	discount := &entity.DiscountRequest{
		ID:                 spec.id,
		RequestedBy:        uuid.New(),
		ProductID:          productID,
		PatientID:          spec.patientID,
		DiscountPercentage: d(t, spec.pct),
		Status:             spec.status,
		ExpiryDate:         spec.expiry,
		IsGlobal:           spec.patientID == nil,
		CreatedAt:          spec.createdAt,
	}
	if err := db.Create(discount).Error; err != nil {
		t.Fatalf("failed to seed discount: %v", err)
	}
	return discount
}

func TestPricingPatientSpecificBeatsGlobal(t *testing.T) {
	svc, db := newPricingServiceForTest(t)
	productID := uuid.New()
	patientID := uuid.New()

	seedDiscountSpec(t, db, productID, discountSpec{pct: "50.00"})
	specific := seedDiscountSpec(t, db, productID, discountSpec{patientID: &patientID, pct: "10.00"})

	offer, err := svc.Resolve(db, productID, &patientID)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if offer == nil {
		t.Fatal("expected an offer")
	}
	// A weaker patient-specific discount still wins over a stronger
	// global one.
	if offer.DiscountID != specific.ID {
		t.Errorf("expected patient-specific discount %s, got %s", specific.ID, offer.DiscountID)
	}
	if !offer.PatientSpecific {
		t.Error("offer must be flagged patient-specific")
	}
}

func TestPricingHighestPercentageWins(t *testing.T) {
	svc, db := newPricingServiceForTest(t)
	productID := uuid.New()

	seedDiscountSpec(t, db, productID, discountSpec{pct: "10.00"})
	best := seedDiscountSpec(t, db, productID, discountSpec{pct: "30.00"})
	seedDiscountSpec(t, db, productID, discountSpec{pct: "20.00"})

	offer, err := svc.Resolve(db, productID, nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if offer == nil || offer.DiscountID != best.ID {
		t.Fatalf("expected the 30%% discount, got %+v", offer)
	}
}

func TestPricingTieBreaksOnAgeThenID(t *testing.T) {
	svc, db := newPricingServiceForTest(t)
	productID := uuid.New()

	older := time.Now().Add(-2 * time.Hour)
	newer := time.Now().Add(-1 * time.Hour)
	seedDiscountSpec(t, db, productID, discountSpec{pct: "25.00", createdAt: newer})
	oldest := seedDiscountSpec(t, db, productID, discountSpec{pct: "25.00", createdAt: older})

	offer, err := svc.Resolve(db, productID, nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if offer == nil || offer.DiscountID != oldest.ID {
		t.Fatalf("expected the older discount to win the tie, got %+v", offer)
	}

	// Same percentage and creation time: the smaller id wins.
	sameMoment := time.Now().Add(-3 * time.Hour)
	lowID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	highID := uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")
	twinProduct := uuid.New()
	seedDiscountSpec(t, db, twinProduct, discountSpec{id: highID, pct: "25.00", createdAt: sameMoment})
	seedDiscountSpec(t, db, twinProduct, discountSpec{id: lowID, pct: "25.00", createdAt: sameMoment})

	offer, err = svc.Resolve(db, twinProduct, nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if offer == nil || offer.DiscountID != lowID {
		t.Fatalf("expected the lower id to win the tie, got %+v", offer)
	}
}

func TestPricingIgnoresUnapprovedAndExpired(t *testing.T) {
	svc, db := newPricingServiceForTest(t)
	productID := uuid.New()

	expired := time.Now().Add(-time.Hour)
	seedDiscountSpec(t, db, productID, discountSpec{pct: "60.00", status: entity.DiscountStatusPending})
	seedDiscountSpec(t, db, productID, discountSpec{pct: "50.00", status: entity.DiscountStatusRejected})
	seedDiscountSpec(t, db, productID, discountSpec{pct: "40.00", expiry: &expired})
	valid := seedDiscountSpec(t, db, productID, discountSpec{pct: "15.00"})

	offer, err := svc.Resolve(db, productID, nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if offer == nil || offer.DiscountID != valid.ID {
		t.Fatalf("expected the valid 15%% discount, got %+v", offer)
	}
}

func TestPricingIgnoresOutOfRangePercentages(t *testing.T) {
	svc, db := newPricingServiceForTest(t)
	productID := uuid.New()

	seedDiscountSpec(t, db, productID, discountSpec{pct: "0"})
	seedDiscountSpec(t, db, productID, discountSpec{pct: "-10.00"})

	offer, err := svc.Resolve(db, productID, nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if offer != nil {
		t.Fatalf("expected no offer, got %+v", offer)
	}
}

func TestPricingPriceComputation(t *testing.T) {
	svc, db := newPricingServiceForTest(t)
	productID := uuid.New()
	seedDiscountSpec(t, db, productID, discountSpec{pct: "12.50"})

	quote, err := svc.Price(db, d(t, "79.99"), productID, nil)
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}
	if !quote.Original.Equal(d(t, "79.99")) {
		t.Errorf("expected original 79.99, got %s", quote.Original)
	}
	if !quote.Discounted.Equal(d(t, "69.99")) {
		t.Errorf("expected discounted 69.99, got %s", quote.Discounted)
	}
	if !quote.Percentage.Equal(d(t, "12.50")) {
		t.Errorf("expected percentage 12.50, got %s", quote.Percentage)
	}
	if quote.DiscountID == nil {
		t.Error("quote must reference the resolved discount")
	}
}

func TestPricingPassthroughWithoutOffer(t *testing.T) {
	svc, db := newPricingServiceForTest(t)

	quote, err := svc.Price(db, d(t, "42.00"), uuid.New(), nil)
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}
	if !quote.Discounted.Equal(d(t, "42.00")) {
		t.Errorf("expected passthrough 42.00, got %s", quote.Discounted)
	}
	if !quote.Percentage.Equal(decimal.Zero) {
		t.Errorf("expected zero percentage, got %s", quote.Percentage)
	}
	if quote.DiscountID != nil {
		t.Error("passthrough quote must not reference a discount")
	}
}
