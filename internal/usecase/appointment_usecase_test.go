package usecase

import (
	"errors"
	"testing"
	"time"

	"go-optical-clinic/internal/delivery/dto"
	"go-optical-clinic/internal/domain/entity"
	"go-optical-clinic/internal/repository"
	"go-optical-clinic/internal/service"

	"gorm.io/gorm"
)

func newAppointmentUsecaseForTest(t *testing.T) (AppointmentUsecase, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger()
	auditService := service.NewAuditService(log, repository.NewAuditLogRepository())
	uc := NewAppointmentUsecase(
		db,
		log,
		repository.NewAppointmentRepository(),
		repository.NewPatientRepository(),
		repository.NewUserRepository(),
		auditService,
	)
	return uc, db
}

func TestAppointmentCreate(t *testing.T) {
	uc, db := newAppointmentUsecaseForTest(t)
	patient := seedPatient(t, db)
	specialist := seedUser(t, db, entity.RoleIDSpecialist)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)

	ctx := actorContext(receptionist.ID, entity.RoleIDReceptionist)
	resp, err := uc.Create(ctx, &dto.CreateAppointmentRequest{
		PatientID:    patient.ID,
		SpecialistID: specialist.ID,
		ScheduledAt:  time.Now().Add(2 * time.Hour),
		Reason:       "annual eye exam",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if resp.Status != string(entity.AppointmentStatusScheduled) {
		t.Errorf("expected status scheduled, got %s", resp.Status)
	}
	if resp.IsBilled {
		t.Error("new appointment must not be billed")
	}
}

func TestAppointmentCreateRejectsNonSpecialist(t *testing.T) {
	uc, db := newAppointmentUsecaseForTest(t)
	patient := seedPatient(t, db)
	receptionist := seedUser(t, db, entity.RoleIDReceptionist)

	ctx := actorContext(receptionist.ID, entity.RoleIDReceptionist)
	_, err := uc.Create(ctx, &dto.CreateAppointmentRequest{
		PatientID:    patient.ID,
		SpecialistID: receptionist.ID,
		ScheduledAt:  time.Now().Add(time.Hour),
	})
	if !errors.Is(err, ErrSpecialistNotFound) {
		t.Fatalf("expected ErrSpecialistNotFound, got %v", err)
	}
}

func TestAppointmentLifecycle(t *testing.T) {
	uc, db := newAppointmentUsecaseForTest(t)
	patient := seedPatient(t, db)
	specialist := seedUser(t, db, entity.RoleIDSpecialist)
	appointment := seedAppointment(t, db, patient.ID, specialist.ID)

	ctx := actorContext(specialist.ID, entity.RoleIDSpecialist)

	taken, err := uc.Take(ctx, appointment.ID)
	if err != nil {
		t.Fatalf("Take returned error: %v", err)
	}
	if taken.Status != string(entity.AppointmentStatusInProgress) {
		t.Errorf("expected in_progress after take, got %s", taken.Status)
	}
	if taken.TakenBy == nil || *taken.TakenBy != specialist.ID {
		t.Error("taken_by must record the acting specialist")
	}
	if taken.TakenAt == nil {
		t.Error("taken_at must be set")
	}

	paused, err := uc.Pause(ctx, appointment.ID)
	if err != nil {
		t.Fatalf("Pause returned error: %v", err)
	}
	if paused.Status != string(entity.AppointmentStatusPaused) {
		t.Errorf("expected paused, got %s", paused.Status)
	}

	resumed, err := uc.Resume(ctx, appointment.ID)
	if err != nil {
		t.Fatalf("Resume returned error: %v", err)
	}
	if resumed.Status != string(entity.AppointmentStatusInProgress) {
		t.Errorf("expected in_progress after resume, got %s", resumed.Status)
	}

	completed, err := uc.Complete(ctx, appointment.ID)
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if completed.Status != string(entity.AppointmentStatusCompleted) {
		t.Errorf("expected completed, got %s", completed.Status)
	}
	if completed.CompletedAt == nil {
		t.Error("completed_at must be set")
	}
}

func TestAppointmentTakeRequiresScheduled(t *testing.T) {
	uc, db := newAppointmentUsecaseForTest(t)
	patient := seedPatient(t, db)
	specialist := seedUser(t, db, entity.RoleIDSpecialist)
	appointment := seedAppointment(t, db, patient.ID, specialist.ID)

	ctx := actorContext(specialist.ID, entity.RoleIDSpecialist)
	if _, err := uc.Take(ctx, appointment.ID); err != nil {
		t.Fatalf("first take returned error: %v", err)
	}
	if _, err := uc.Take(ctx, appointment.ID); !errors.Is(err, ErrAppointmentNotScheduled) {
		t.Fatalf("expected ErrAppointmentNotScheduled, got %v", err)
	}
}

func TestAppointmentTakeConflict(t *testing.T) {
	uc, db := newAppointmentUsecaseForTest(t)
	patient := seedPatient(t, db)
	specialist := seedUser(t, db, entity.RoleIDSpecialist)
	first := seedAppointment(t, db, patient.ID, specialist.ID)
	second := seedAppointment(t, db, patient.ID, specialist.ID)

	ctx := actorContext(specialist.ID, entity.RoleIDSpecialist)
	if _, err := uc.Take(ctx, first.ID); err != nil {
		t.Fatalf("first take returned error: %v", err)
	}

	_, err := uc.Take(ctx, second.ID)
	var conflict *ActiveAppointmentConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ActiveAppointmentConflictError, got %v", err)
	}
	if conflict.ConflictingAppointmentID != first.ID {
		t.Errorf("conflict must name the held appointment, got %s", conflict.ConflictingAppointmentID)
	}

	// Completing the held appointment releases the hold.
	if _, err := uc.Complete(ctx, first.ID); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if _, err := uc.Take(ctx, second.ID); err != nil {
		t.Fatalf("take after release returned error: %v", err)
	}
}

func TestAppointmentResumeChecksConflict(t *testing.T) {
	uc, db := newAppointmentUsecaseForTest(t)
	patient := seedPatient(t, db)
	specialist := seedUser(t, db, entity.RoleIDSpecialist)
	first := seedAppointment(t, db, patient.ID, specialist.ID)
	second := seedAppointment(t, db, patient.ID, specialist.ID)

	ctx := actorContext(specialist.ID, entity.RoleIDSpecialist)
	if _, err := uc.Take(ctx, first.ID); err != nil {
		t.Fatalf("take returned error: %v", err)
	}
	if _, err := uc.Pause(ctx, first.ID); err != nil {
		t.Fatalf("pause returned error: %v", err)
	}
	if _, err := uc.Take(ctx, second.ID); err != nil {
		t.Fatalf("take of second returned error: %v", err)
	}

	_, err := uc.Resume(ctx, first.ID)
	var conflict *ActiveAppointmentConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ActiveAppointmentConflictError on resume, got %v", err)
	}
	if conflict.ConflictingAppointmentID != second.ID {
		t.Errorf("conflict must name the active appointment, got %s", conflict.ConflictingAppointmentID)
	}
}

func TestAppointmentHeldByOtherSpecialist(t *testing.T) {
	uc, db := newAppointmentUsecaseForTest(t)
	patient := seedPatient(t, db)
	holder := seedUser(t, db, entity.RoleIDSpecialist)
	other := seedUser(t, db, entity.RoleIDSpecialist)
	appointment := seedAppointment(t, db, patient.ID, holder.ID)

	holderCtx := actorContext(holder.ID, entity.RoleIDSpecialist)
	if _, err := uc.Take(holderCtx, appointment.ID); err != nil {
		t.Fatalf("take returned error: %v", err)
	}

	otherCtx := actorContext(other.ID, entity.RoleIDSpecialist)
	if _, err := uc.Pause(otherCtx, appointment.ID); !errors.Is(err, ErrAppointmentNotHeld) {
		t.Fatalf("expected ErrAppointmentNotHeld on pause, got %v", err)
	}
	if _, err := uc.Complete(otherCtx, appointment.ID); !errors.Is(err, ErrAppointmentNotHeld) {
		t.Fatalf("expected ErrAppointmentNotHeld on complete, got %v", err)
	}
}

func TestAppointmentReschedule(t *testing.T) {
	uc, db := newAppointmentUsecaseForTest(t)
	patient := seedPatient(t, db)
	specialist := seedUser(t, db, entity.RoleIDSpecialist)
	appointment := seedAppointment(t, db, patient.ID, specialist.ID)

	ctx := actorContext(specialist.ID, entity.RoleIDSpecialist)
	if _, err := uc.Take(ctx, appointment.ID); err != nil {
		t.Fatalf("take returned error: %v", err)
	}

	newTime := time.Now().Add(48 * time.Hour)
	resp, err := uc.Reschedule(ctx, appointment.ID, &dto.RescheduleAppointmentRequest{
		ScheduledAt: newTime,
		Notes:       "patient asked to move",
	})
	if err != nil {
		t.Fatalf("Reschedule returned error: %v", err)
	}
	if resp.Status != string(entity.AppointmentStatusScheduled) {
		t.Errorf("reschedule must reset status to scheduled, got %s", resp.Status)
	}

	// A completed appointment cannot be rescheduled.
	if _, err := uc.Take(ctx, appointment.ID); err != nil {
		t.Fatalf("re-take returned error: %v", err)
	}
	if _, err := uc.Complete(ctx, appointment.ID); err != nil {
		t.Fatalf("complete returned error: %v", err)
	}
	_, err = uc.Reschedule(ctx, appointment.ID, &dto.RescheduleAppointmentRequest{ScheduledAt: newTime})
	if !errors.Is(err, ErrAppointmentCompleted) {
		t.Fatalf("expected ErrAppointmentCompleted, got %v", err)
	}
}

func TestAppointmentDeleteGuards(t *testing.T) {
	uc, db := newAppointmentUsecaseForTest(t)
	patient := seedPatient(t, db)
	specialist := seedUser(t, db, entity.RoleIDSpecialist)
	appointment := seedAppointment(t, db, patient.ID, specialist.ID)

	ctx := actorContext(specialist.ID, entity.RoleIDSpecialist)
	if _, err := uc.Take(ctx, appointment.ID); err != nil {
		t.Fatalf("take returned error: %v", err)
	}
	if err := uc.Delete(ctx, appointment.ID); !errors.Is(err, ErrAppointmentNotDeletable) {
		t.Fatalf("expected ErrAppointmentNotDeletable for in-progress, got %v", err)
	}

	if _, err := uc.Complete(ctx, appointment.ID); err != nil {
		t.Fatalf("complete returned error: %v", err)
	}
	if err := uc.Delete(ctx, appointment.ID); !errors.Is(err, ErrAppointmentNotDeletable) {
		t.Fatalf("expected ErrAppointmentNotDeletable for completed, got %v", err)
	}

	scheduled := seedAppointment(t, db, patient.ID, specialist.ID)
	if err := uc.Delete(ctx, scheduled.ID); err != nil {
		t.Fatalf("delete of scheduled appointment returned error: %v", err)
	}
	if _, err := uc.Get(ctx, scheduled.ID); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound after delete, got %v", err)
	}
}
