package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go-optical-clinic/internal/delivery/dto"
	"go-optical-clinic/internal/usecase"
	"go-optical-clinic/pkg/response"
	"go-optical-clinic/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrSpecialistNotFound:
			response.NotFound(w, "Specialist not found")
		default:
			response.InternalServerError(w, "Failed to create appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid appointment ID")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.Get(r.Context(), id)
	if err != nil {
		if err == usecase.ErrAppointmentNotFound {
			response.NotFound(w, "Appointment not found")
			return
		}
		response.InternalServerError(w, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) GetAllAppointments(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	appointments, err := h.appointmentUsecase.GetAll(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetBySpecialist(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	specialistID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid specialist ID", nil)
		return
	}

	appointments, err := h.appointmentUsecase.GetBySpecialist(r.Context(), specialistID)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) TakeAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid appointment ID")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.Take(r.Context(), id)
	if err != nil {
		h.writeWorkflowError(w, err, "Failed to take appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment taken successfully", appointment)
}

func (h *AppointmentHandler) PauseAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid appointment ID")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.Pause(r.Context(), id)
	if err != nil {
		h.writeWorkflowError(w, err, "Failed to pause appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment paused successfully", appointment)
}

func (h *AppointmentHandler) ResumeAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid appointment ID")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.Resume(r.Context(), id)
	if err != nil {
		h.writeWorkflowError(w, err, "Failed to resume appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment resumed successfully", appointment)
}

func (h *AppointmentHandler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid appointment ID")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.Complete(r.Context(), id)
	if err != nil {
		h.writeWorkflowError(w, err, "Failed to complete appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment completed successfully", appointment)
}

func (h *AppointmentHandler) RescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid appointment ID")
	if !ok {
		return
	}

	var req dto.RescheduleAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Reschedule(r.Context(), id, &req)
	if err != nil {
		h.writeWorkflowError(w, err, "Failed to reschedule appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment rescheduled successfully", appointment)
}

func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "Invalid appointment ID")
	if !ok {
		return
	}

	if err := h.appointmentUsecase.Delete(r.Context(), id); err != nil {
		h.writeWorkflowError(w, err, "Failed to delete appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment deleted successfully", nil)
}

func (h *AppointmentHandler) writeWorkflowError(w http.ResponseWriter, err error, fallback string) {
	var conflict *usecase.ActiveAppointmentConflictError
	if errors.As(err, &conflict) {
		response.Error(w, http.StatusConflict, "Specialist already has an appointment in progress", map[string]string{
			"conflicting_appointment_id": conflict.ConflictingAppointmentID.String(),
		})
		return
	}

	switch err {
	case usecase.ErrAppointmentNotFound:
		response.NotFound(w, "Appointment not found")
	case usecase.ErrAppointmentNotScheduled,
		usecase.ErrAppointmentNotInProgress,
		usecase.ErrAppointmentNotPaused,
		usecase.ErrAppointmentCompleted,
		usecase.ErrAppointmentNotDeletable:
		response.Error(w, http.StatusConflict, err.Error(), nil)
	case usecase.ErrAppointmentNotHeld:
		response.Forbidden(w, "Appointment is held by another specialist")
	default:
		response.InternalServerError(w, fallback)
	}
}

// parseIDParam reads the {id} path variable as a UUID
func parseIDParam(w http.ResponseWriter, r *http.Request, message string) (uuid.UUID, bool) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, message, nil)
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination reads page and limit query parameters with defaults
func parsePagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}
