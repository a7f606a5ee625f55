package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// SegmentRequest is one member of a booking request. Duration may be
// omitted when a service id is given; the catalog default applies.
type SegmentRequest struct {
	Category        string     `json:"category" validate:"required,oneof=treatment consultation"`
	Type            string     `json:"type" validate:"omitempty,max=50"`
	ServiceID       *uuid.UUID `json:"service_id,omitempty"`
	DurationMinutes int        `json:"duration_minutes" validate:"omitempty,min=1"`
	MachineID       *uuid.UUID `json:"machine_id,omitempty"`
	ProviderID      *uuid.UUID `json:"provider_id,omitempty"`
	AssistantID     *uuid.UUID `json:"assistant_id,omitempty"`
	Title           string     `json:"title" validate:"omitempty,max=255"`
	Reason          string     `json:"reason"`
	Notes           string     `json:"notes"`
	Priority        string     `json:"priority" validate:"omitempty,oneof=low normal high emergency"`
	Color           string     `json:"color" validate:"omitempty,max=20"`
}

// CreateAppointmentGroupRequest books a chain of one or more back-to-back
// segments as a single atomic unit.
type CreateAppointmentGroupRequest struct {
	PatientID           uuid.UUID        `json:"patient_id" validate:"required"`
	Date                string           `json:"date" validate:"required"`       // YYYY-MM-DD
	StartTime           string           `json:"start_time" validate:"required"` // HH:MM
	ProviderID          *uuid.UUID       `json:"provider_id,omitempty"`          // group-level default
	AssistantID         *uuid.UUID       `json:"assistant_id,omitempty"`         // group-level default
	AllowPatientOverlap bool             `json:"allow_patient_overlap"`
	Segments            []SegmentRequest `json:"segments" validate:"required,min=1,dive"`
}

// RescheduleGroupRequest moves and/or edits an entire group atomically.
// Notes apply to the first member only; status/provider/assistant apply
// group-wide. Cancellation has its own endpoint and is not a valid status
// here. AppendSegments are chained after the last existing member.
type RescheduleGroupRequest struct {
	Date                string           `json:"date" validate:"omitempty"`
	StartTime           string           `json:"start_time" validate:"omitempty"`
	Status              *string          `json:"status,omitempty" validate:"omitempty,oneof=scheduled confirmed in_progress completed no_show"`
	ProviderID          *uuid.UUID       `json:"provider_id,omitempty"`
	AssistantID         *uuid.UUID       `json:"assistant_id,omitempty"`
	Notes               *string          `json:"notes,omitempty"`
	AllowPatientOverlap bool             `json:"allow_patient_overlap"`
	AppendSegments      []SegmentRequest `json:"append_segments" validate:"omitempty,dive"`
}

type CancelGroupRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type StatusChangeRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// Response DTOs

type AppointmentResponse struct {
	ID                  uuid.UUID  `json:"id"`
	Category            string     `json:"category"`
	Type                string     `json:"type,omitempty"`
	Date                string     `json:"date"`
	StartTime           string     `json:"start_time"`
	EndTime             string     `json:"end_time"`
	DurationMinutes     int        `json:"duration_minutes"`
	PatientID           uuid.UUID  `json:"patient_id"`
	ProviderID          *uuid.UUID `json:"provider_id,omitempty"`
	MachineID           *uuid.UUID `json:"machine_id,omitempty"`
	AssistantID         *uuid.UUID `json:"assistant_id,omitempty"`
	ServiceID           *uuid.UUID `json:"service_id,omitempty"`
	Status              string     `json:"status"`
	LinkedAppointmentID *uuid.UUID `json:"linked_appointment_id,omitempty"`
	LinkSequence        *int       `json:"link_sequence,omitempty"`
	Title               string     `json:"title,omitempty"`
	Reason              string     `json:"reason,omitempty"`
	Notes               string     `json:"notes,omitempty"`
	Priority            string     `json:"priority,omitempty"`
	Color               string     `json:"color,omitempty"`
	ConfirmedBy         *uuid.UUID `json:"confirmed_by,omitempty"`
	ConfirmedAt         *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

type AppointmentGroupResponse struct {
	GroupID uuid.UUID             `json:"group_id"`
	Members []AppointmentResponse `json:"members"`
	Total   int                   `json:"total"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
