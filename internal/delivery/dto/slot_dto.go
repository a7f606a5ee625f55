package dto

import "github.com/google/uuid"

// SlotSegmentRequest mirrors SegmentRequest for slot search: the resources a
// candidate start would have to satisfy for this segment.
type SlotSegmentRequest struct {
	Category        string     `json:"category" validate:"required,oneof=treatment consultation"`
	ServiceID       *uuid.UUID `json:"service_id,omitempty"`
	DurationMinutes int        `json:"duration_minutes" validate:"omitempty,min=1"`
	MachineID       *uuid.UUID `json:"machine_id,omitempty"`
	ProviderID      *uuid.UUID `json:"provider_id,omitempty"`
}

type SlotSearchRequest struct {
	Date      string               `json:"date" validate:"required"` // YYYY-MM-DD
	PatientID *uuid.UUID           `json:"patient_id,omitempty"`
	Segments  []SlotSegmentRequest `json:"segments" validate:"required,min=1,dive"`
}

type SlotListResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
	Total int      `json:"total"`
}
