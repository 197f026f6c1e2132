package usecase

import (
	"errors"
	"testing"

	"go-optical-clinic/internal/delivery/dto"
	"go-optical-clinic/internal/domain/entity"
	"go-optical-clinic/internal/repository"
	"go-optical-clinic/internal/service"

	"gorm.io/gorm"
)

func newDiscountUsecaseForTest(t *testing.T) (DiscountUsecase, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger()
	discountRepo := repository.NewDiscountRequestRepository()
	uc := NewDiscountUsecase(
		db,
		log,
		discountRepo,
		repository.NewProductRepository(),
		repository.NewPatientRepository(),
		service.NewPricingService(log, discountRepo),
		service.NewAuditService(log, repository.NewAuditLogRepository()),
	)
	return uc, db
}

func TestDiscountCreatePercentBounds(t *testing.T) {
	uc, db := newDiscountUsecaseForTest(t)
	product := seedProduct(t, db, "100.00", false)
	specialist := seedUser(t, db, entity.RoleIDSpecialist)
	ctx := actorContext(specialist.ID, entity.RoleIDSpecialist)

	for _, pct := range []string{"0", "-10", "100.01"} {
		_, err := uc.Create(ctx, &dto.CreateDiscountRequest{
			ProductID:          product.ID,
			DiscountPercentage: d(t, pct),
		})
		if !errors.Is(err, ErrDiscountInvalidPercent) {
			t.Errorf("pct %s: expected ErrDiscountInvalidPercent, got %v", pct, err)
		}
	}

	// 100 is a legal full write-off.
	resp, err := uc.Create(ctx, &dto.CreateDiscountRequest{
		ProductID:          product.ID,
		DiscountPercentage: d(t, "100"),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !resp.DiscountedPrice.IsZero() {
		t.Errorf("expected discounted price 0, got %s", resp.DiscountedPrice)
	}
}

func TestDiscountCreateSnapshotsPrice(t *testing.T) {
	uc, db := newDiscountUsecaseForTest(t)
	product := seedProduct(t, db, "200.00", false)
	specialist := seedUser(t, db, entity.RoleIDSpecialist)
	ctx := actorContext(specialist.ID, entity.RoleIDSpecialist)

	resp, err := uc.Create(ctx, &dto.CreateDiscountRequest{
		ProductID:          product.ID,
		DiscountPercentage: d(t, "25"),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if resp.Status != string(entity.DiscountStatusPending) {
		t.Errorf("expected pending, got %s", resp.Status)
	}
	if !resp.DiscountedPrice.Equal(d(t, "150.00")) {
		t.Errorf("expected snapshot 150.00, got %s", resp.DiscountedPrice)
	}
	if !resp.IsGlobal {
		t.Error("request without patient must be global")
	}
}

func TestDiscountAdminAutoApproves(t *testing.T) {
	uc, db := newDiscountUsecaseForTest(t)
	product := seedProduct(t, db, "100.00", false)
	admin := seedUser(t, db, entity.RoleIDAdmin)
	ctx := actorContext(admin.ID, entity.RoleIDAdmin)

	resp, err := uc.Create(ctx, &dto.CreateDiscountRequest{
		ProductID:          product.ID,
		DiscountPercentage: d(t, "10"),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if resp.Status != string(entity.DiscountStatusApproved) {
		t.Errorf("admin request must auto-approve, got %s", resp.Status)
	}
	if resp.ApprovedBy == nil || *resp.ApprovedBy != admin.ID {
		t.Error("auto-approved request must record the admin as approver")
	}
}

func TestDiscountDecisionIsOneShot(t *testing.T) {
	uc, db := newDiscountUsecaseForTest(t)
	product := seedProduct(t, db, "100.00", false)
	specialist := seedUser(t, db, entity.RoleIDSpecialist)
	admin := seedUser(t, db, entity.RoleIDAdmin)

	resp, err := uc.Create(actorContext(specialist.ID, entity.RoleIDSpecialist), &dto.CreateDiscountRequest{
		ProductID:          product.ID,
		DiscountPercentage: d(t, "15"),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	adminCtx := actorContext(admin.ID, entity.RoleIDAdmin)
	approved, err := uc.Approve(adminCtx, resp.ID)
	if err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}
	if approved.Status != string(entity.DiscountStatusApproved) {
		t.Errorf("expected approved, got %s", approved.Status)
	}

	if _, err := uc.Reject(adminCtx, resp.ID); !errors.Is(err, ErrDiscountNotPending) {
		t.Fatalf("expected ErrDiscountNotPending, got %v", err)
	}
	if _, err := uc.Approve(adminCtx, resp.ID); !errors.Is(err, ErrDiscountNotPending) {
		t.Fatalf("expected ErrDiscountNotPending on re-approve, got %v", err)
	}
}

func TestDiscountDeleteGating(t *testing.T) {
	uc, db := newDiscountUsecaseForTest(t)
	product := seedProduct(t, db, "100.00", false)
	specialist := seedUser(t, db, entity.RoleIDSpecialist)
	admin := seedUser(t, db, entity.RoleIDAdmin)

	staffCtx := actorContext(specialist.ID, entity.RoleIDSpecialist)
	adminCtx := actorContext(admin.ID, entity.RoleIDAdmin)

	resp, err := uc.Create(staffCtx, &dto.CreateDiscountRequest{
		ProductID:          product.ID,
		DiscountPercentage: d(t, "15"),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := uc.Approve(adminCtx, resp.ID); err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}

	if err := uc.Delete(staffCtx, resp.ID); !errors.Is(err, ErrDiscountDeleteNotAllowed) {
		t.Fatalf("expected ErrDiscountDeleteNotAllowed, got %v", err)
	}
	if err := uc.Delete(adminCtx, resp.ID); err != nil {
		t.Fatalf("admin delete returned error: %v", err)
	}
	if _, err := uc.Get(staffCtx, resp.ID); !errors.Is(err, ErrDiscountNotFound) {
		t.Fatalf("expected ErrDiscountNotFound after delete, got %v", err)
	}
}

func TestDiscountResolvePrice(t *testing.T) {
	uc, db := newDiscountUsecaseForTest(t)
	patient := seedPatient(t, db)
	product := seedProduct(t, db, "100.00", false)
	seedApprovedDiscount(t, db, product.ID, &patient.ID, "40.00")
	specialist := seedUser(t, db, entity.RoleIDSpecialist)
	ctx := actorContext(specialist.ID, entity.RoleIDSpecialist)

	quote, err := uc.ResolvePrice(ctx, product.ID, &patient.ID)
	if err != nil {
		t.Fatalf("ResolvePrice returned error: %v", err)
	}
	if !quote.DiscountedPrice.Equal(d(t, "60.00")) {
		t.Errorf("expected 60.00, got %s", quote.DiscountedPrice)
	}

	// Without a patient the patient-specific discount never applies.
	plain, err := uc.ResolvePrice(ctx, product.ID, nil)
	if err != nil {
		t.Fatalf("ResolvePrice returned error: %v", err)
	}
	if !plain.DiscountedPrice.Equal(d(t, "100.00")) {
		t.Errorf("expected passthrough 100.00, got %s", plain.DiscountedPrice)
	}
	if plain.DiscountID != nil {
		t.Error("passthrough pricing must not reference a discount")
	}
}
