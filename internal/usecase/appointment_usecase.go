package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

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
	ErrAppointmentNotFound      = errors.New("appointment not found")
	ErrAppointmentNotScheduled  = errors.New("appointment is not in scheduled status")
	ErrAppointmentNotInProgress = errors.New("appointment is not in progress")
	ErrAppointmentNotPaused     = errors.New("appointment is not paused")
	ErrAppointmentNotHeld       = errors.New("appointment is held by another specialist")
	ErrAppointmentCompleted     = errors.New("appointment is already completed")
	ErrAppointmentNotDeletable  = errors.New("completed or in-progress appointments cannot be deleted")
	ErrSpecialistNotFound       = errors.New("specialist not found")
)

// ActiveAppointmentConflictError reports that a specialist already
// holds another appointment in progress. It carries the conflicting
// appointment id so the caller can offer remediation.
type ActiveAppointmentConflictError struct {
	ConflictingAppointmentID uuid.UUID
}

func (e *ActiveAppointmentConflictError) Error() string {
	return fmt.Sprintf("specialist already has appointment %s in progress", e.ConflictingAppointmentID)
}

type AppointmentUsecase interface {
	Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	Get(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	GetAll(ctx context.Context, page, limit int) (*dto.AppointmentListResponse, error)
	GetBySpecialist(ctx context.Context, specialistID uuid.UUID) (*dto.AppointmentListResponse, error)
	Take(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	Pause(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	Resume(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	Complete(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	Reschedule(ctx context.Context, appointmentID uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	Delete(ctx context.Context, appointmentID uuid.UUID) error
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	userRepo        repository.UserRepository
	auditService    service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	userRepo repository.UserRepository,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		userRepo:        userRepo,
		auditService:    auditService,
	}
}

func (u *appointmentUsecase) Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	specialist, err := u.userRepo.FindByID(u.db.WithContext(ctx), req.SpecialistID)
	if err != nil {
		u.log.Warnf("Failed to find specialist %s: %+v", req.SpecialistID, err)
		return nil, err
	}
	if specialist == nil || !specialist.IsSpecialist() {
		return nil, ErrSpecialistNotFound
	}

	appointment := &entity.Appointment{
		PatientID:    req.PatientID,
		SpecialistID: req.SpecialistID,
		Status:       entity.AppointmentStatusScheduled,
		ScheduledAt:  req.ScheduledAt,
		Reason:       req.Reason,
	}
	if actorID, ok := middleware.GetUserIDFromContext(ctx); ok {
		appointment.ReceptionistID = &actorID
	}

	if err := u.appointmentRepo.Create(u.db.WithContext(ctx), appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment created: id=%s, patient=%s, specialist=%s", appointment.ID, req.PatientID, req.SpecialistID)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) Get(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetAll(ctx context.Context, page, limit int) (*dto.AppointmentListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	appointments, total, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        total,
	}, nil
}

func (u *appointmentUsecase) GetBySpecialist(ctx context.Context, specialistID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindBySpecialistID(u.db.WithContext(ctx), specialistID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for specialist %s: %+v", specialistID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        int64(len(appointments)),
	}, nil
}

// Take moves a scheduled appointment to in_progress under the acting
// specialist. The single-active-appointment invariant is checked inside
// the transaction and backed by the partial unique index, so two
// concurrent takes for the same specialist cannot both commit.
func (u *appointmentUsecase) Take(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	specialistID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.IsScheduled() {
		return nil, ErrAppointmentNotScheduled
	}

	if conflictErr, err := u.checkNoActiveAppointment(tx, specialistID); err != nil {
		return nil, err
	} else if conflictErr != nil {
		return nil, conflictErr
	}

	now := time.Now()
	appointment.Status = entity.AppointmentStatusInProgress
	appointment.TakenBy = &specialistID
	appointment.TakenAt = &now

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		u.log.Warnf("Failed to take appointment %s: %+v", appointmentID, err)
		return nil, u.translateActiveConflict(ctx, err, specialistID)
	}

	if err := u.auditService.LogUpdate(tx, &specialistID, entity.AuditActionAppointmentTake, "appointment", appointment.ID.String(), entity.AppointmentStatusScheduled, appointment.Status); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
		// Don't fail the transaction for audit log errors
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, u.translateActiveConflict(ctx, err, specialistID)
	}

	u.log.Infof("Appointment taken: id=%s, specialist=%s", appointmentID, specialistID)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) Pause(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	specialistID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.IsInProgress() {
		return nil, ErrAppointmentNotInProgress
	}
	if !appointment.IsHeldBy(specialistID) {
		return nil, ErrAppointmentNotHeld
	}

	now := time.Now()
	appointment.Status = entity.AppointmentStatusPaused
	appointment.PausedAt = &now

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		u.log.Warnf("Failed to pause appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(tx, &specialistID, entity.AuditActionAppointmentPause, "appointment", appointment.ID.String(), entity.AppointmentStatusInProgress, appointment.Status); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

// Resume is logically equivalent to re-taking: the single-active
// invariant is re-checked with the same conflict semantics as Take.
func (u *appointmentUsecase) Resume(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	specialistID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.IsPaused() {
		return nil, ErrAppointmentNotPaused
	}
	if !appointment.IsHeldBy(specialistID) {
		return nil, ErrAppointmentNotHeld
	}

	if conflictErr, err := u.checkNoActiveAppointment(tx, specialistID); err != nil {
		return nil, err
	} else if conflictErr != nil {
		return nil, conflictErr
	}

	now := time.Now()
	appointment.Status = entity.AppointmentStatusInProgress
	appointment.ResumedAt = &now

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		u.log.Warnf("Failed to resume appointment %s: %+v", appointmentID, err)
		return nil, u.translateActiveConflict(ctx, err, specialistID)
	}

	if err := u.auditService.LogUpdate(tx, &specialistID, entity.AuditActionAppointmentResume, "appointment", appointment.ID.String(), entity.AppointmentStatusPaused, appointment.Status); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, u.translateActiveConflict(ctx, err, specialistID)
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) Complete(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	specialistID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.IsInProgress() {
		return nil, ErrAppointmentNotInProgress
	}
	if !appointment.IsHeldBy(specialistID) {
		return nil, ErrAppointmentNotHeld
	}

	now := time.Now()
	appointment.Status = entity.AppointmentStatusCompleted
	appointment.CompletedAt = &now

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		u.log.Warnf("Failed to complete appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(tx, &specialistID, entity.AuditActionAppointmentComplete, "appointment", appointment.ID.String(), entity.AppointmentStatusInProgress, appointment.Status); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment completed: id=%s, specialist=%s", appointmentID, specialistID)
	return converter.AppointmentToResponse(appointment), nil
}

// Reschedule resets the appointment to scheduled regardless of its
// current state (except completed). Any in-progress or paused hold is
// released implicitly; a fresh Take is required afterwards.
func (u *appointmentUsecase) Reschedule(ctx context.Context, appointmentID uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.IsCompleted() {
		return nil, ErrAppointmentCompleted
	}

	appointment.Status = entity.AppointmentStatusScheduled
	appointment.ScheduledAt = req.ScheduledAt
	if req.Notes != "" {
		appointment.Notes = req.Notes
	}

	if err := u.appointmentRepo.Update(u.db.WithContext(ctx), appointment); err != nil {
		u.log.Warnf("Failed to reschedule appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) Delete(ctx context.Context, appointmentID uuid.UUID) error {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}
	if appointment.IsCompleted() || appointment.IsInProgress() {
		return ErrAppointmentNotDeletable
	}

	if err := u.appointmentRepo.Delete(u.db.WithContext(ctx), appointmentID); err != nil {
		u.log.Warnf("Failed to delete appointment %s: %+v", appointmentID, err)
		return err
	}

	return nil
}

// checkNoActiveAppointment returns a conflict error when the specialist
// already holds an in_progress appointment.
func (u *appointmentUsecase) checkNoActiveAppointment(tx *gorm.DB, specialistID uuid.UUID) (*ActiveAppointmentConflictError, error) {
	active, err := u.appointmentRepo.FindActiveBySpecialist(tx, specialistID)
	if err != nil {
		u.log.Warnf("Failed to check active appointment for specialist %s: %+v", specialistID, err)
		return nil, err
	}
	if active != nil {
		return &ActiveAppointmentConflictError{ConflictingAppointmentID: active.ID}, nil
	}
	return nil, nil
}

// translateActiveConflict maps a unique violation on the
// active-specialist partial index (a lost race) to the same conflict
// error the in-transaction check produces.
func (u *appointmentUsecase) translateActiveConflict(ctx context.Context, err error, specialistID uuid.UUID) error {
	if !isDuplicateKeyError(err, "ux_appointments_active_specialist") {
		return err
	}
	active, findErr := u.appointmentRepo.FindActiveBySpecialist(u.db.WithContext(ctx), specialistID)
	if findErr != nil || active == nil {
		return &ActiveAppointmentConflictError{}
	}
	return &ActiveAppointmentConflictError{ConflictingAppointmentID: active.ID}
}
