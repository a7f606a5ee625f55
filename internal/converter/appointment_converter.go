package converter

import (
	"go-clinic-scheduling/internal/delivery/dto"
	"go-clinic-scheduling/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:                  appointment.ID,
		Category:            string(appointment.Category),
		Type:                appointment.Type,
		Date:                appointment.Date.Format("2006-01-02"),
		StartTime:           appointment.StartTime,
		EndTime:             appointment.EndTime,
		DurationMinutes:     appointment.DurationMinutes,
		PatientID:           appointment.PatientID,
		ProviderID:          appointment.ProviderID,
		MachineID:           appointment.MachineID,
		AssistantID:         appointment.AssistantID,
		ServiceID:           appointment.ServiceID,
		Status:              string(appointment.Status),
		LinkedAppointmentID: appointment.LinkedAppointmentID,
		LinkSequence:        appointment.LinkSequence,
		Title:               appointment.Title,
		Reason:              appointment.Reason,
		Notes:               appointment.Notes,
		Priority:            appointment.Priority,
		Color:               appointment.Color,
		ConfirmedBy:         appointment.ConfirmedBy,
		ConfirmedAt:         appointment.ConfirmedAt,
		CreatedAt:           appointment.CreatedAt,
		UpdatedAt:           appointment.UpdatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		resp := AppointmentToResponse(&appointment)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// GroupToResponse converts an ordered member list to a group response.
// The group id is the first member's own id.
func GroupToResponse(members []entity.Appointment) *dto.AppointmentGroupResponse {
	if len(members) == 0 {
		return nil
	}
	return &dto.AppointmentGroupResponse{
		GroupID: members[0].GroupID(),
		Members: AppointmentsToResponses(members),
		Total:   len(members),
	}
}
