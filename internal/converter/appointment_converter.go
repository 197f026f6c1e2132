package converter

import (
	"go-optical-clinic/internal/delivery/dto"
	"go-optical-clinic/internal/domain/entity"
)

func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	return &dto.AppointmentResponse{
		ID:           appointment.ID,
		PatientID:    appointment.PatientID,
		SpecialistID: appointment.SpecialistID,
		TakenBy:      appointment.TakenBy,
		Status:       string(appointment.Status),
		ScheduledAt:  appointment.ScheduledAt,
		Reason:       appointment.Reason,
		Notes:        appointment.Notes,
		TakenAt:      appointment.TakenAt,
		PausedAt:     appointment.PausedAt,
		ResumedAt:    appointment.ResumedAt,
		CompletedAt:  appointment.CompletedAt,
		IsBilled:     appointment.IsBilled,
		BilledAt:     appointment.BilledAt,
		SaleID:       appointment.SaleID,
		CreatedAt:    appointment.CreatedAt,
		UpdatedAt:    appointment.UpdatedAt,
	}
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		responses = append(responses, *AppointmentToResponse(&appointments[i]))
	}
	return responses
}
