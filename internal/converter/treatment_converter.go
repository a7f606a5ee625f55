package converter

import (
	"go-clinic-scheduling/internal/delivery/dto"
	"go-clinic-scheduling/internal/domain/entity"
)

// TreatmentToResponse converts a Treatment entity to TreatmentResponse DTO
func TreatmentToResponse(treatment *entity.Treatment) *dto.TreatmentResponse {
	if treatment == nil {
		return nil
	}

	return &dto.TreatmentResponse{
		ID:                     treatment.ID,
		Name:                   treatment.Name,
		Description:            treatment.Description,
		DefaultDurationMinutes: treatment.DefaultDurationMinutes,
		Overlappable:           treatment.Overlappable,
		Price:                  treatment.Price,
		CreatedAt:              treatment.CreatedAt,
		UpdatedAt:              treatment.UpdatedAt,
	}
}

// TreatmentsToResponses converts a slice of Treatment entities
func TreatmentsToResponses(treatments []entity.Treatment) []dto.TreatmentResponse {
	responses := make([]dto.TreatmentResponse, len(treatments))
	for i, treatment := range treatments {
		resp := TreatmentToResponse(&treatment)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
