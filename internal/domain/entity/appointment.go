package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentCategory distinguishes machine-based treatments from
// provider-based consultations.
type AppointmentCategory string

const (
	CategoryTreatment    AppointmentCategory = "treatment"
	CategoryConsultation AppointmentCategory = "consultation"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// statusTransitions is the allowed lifecycle transition table.
// Completed, cancelled and no_show are terminal.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled:  {StatusConfirmed, StatusInProgress, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// Appointment is the atomic booking unit. A multi-treatment group is the set
// of rows sharing a LinkedAppointmentID; it has no row of its own.
type Appointment struct {
	ID       uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID uuid.UUID           `gorm:"type:uuid;not null;index" json:"clinic_id"`
	Category AppointmentCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	Type     string              `gorm:"type:varchar(50)" json:"type"`

	Date            time.Time `gorm:"type:date;not null;index" json:"date"`
	StartTime       string    `gorm:"type:time;not null" json:"start_time"`
	EndTime         string    `gorm:"type:time;not null" json:"end_time"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`

	PatientID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	ProviderID  *uuid.UUID `gorm:"type:uuid;index" json:"provider_id,omitempty"`
	MachineID   *uuid.UUID `gorm:"type:uuid;index" json:"machine_id,omitempty"`
	AssistantID *uuid.UUID `gorm:"type:uuid" json:"assistant_id,omitempty"`
	ServiceID   *uuid.UUID `gorm:"type:uuid;index" json:"service_id,omitempty"`

	Status AppointmentStatus `gorm:"type:appointment_status;not null;default:'scheduled';index" json:"status"`

	LinkedAppointmentID *uuid.UUID `gorm:"type:uuid;index" json:"linked_appointment_id,omitempty"`
	LinkSequence        *int       `json:"link_sequence,omitempty"`

	Title    string `gorm:"type:varchar(255)" json:"title"`
	Reason   string `gorm:"type:text" json:"reason"`
	Notes    string `gorm:"type:text" json:"notes"`
	Priority string `gorm:"type:varchar(20)" json:"priority"`
	Color    string `gorm:"type:varchar(20)" json:"color"`

	ConfirmedBy *uuid.UUID `gorm:"type:uuid" json:"confirmed_by,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient  Patient    `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Provider *Provider  `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	Machine  *Machine   `gorm:"foreignKey:MachineID" json:"machine,omitempty"`
	Service  *Treatment `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsCancelled checks if the appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// IsTerminal checks if the appointment is in a terminal state
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled || a.Status == StatusNoShow
}

// CanTransitionTo reports whether the lifecycle allows moving to the target
// status from the current one.
func (a *Appointment) CanTransitionTo(target AppointmentStatus) bool {
	for _, allowed := range statusTransitions[a.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Confirm marks the appointment confirmed and records who confirmed it.
func (a *Appointment) Confirm(confirmedBy uuid.UUID, at time.Time) {
	a.Status = StatusConfirmed
	a.ConfirmedBy = &confirmedBy
	a.ConfirmedAt = &at
}

// Cancel marks the appointment cancelled, appending the reason to notes.
// The row is never deleted; cancelled bookings drop out of conflict checks.
func (a *Appointment) Cancel(reason string) {
	a.Status = StatusCancelled
	if reason != "" {
		if a.Notes != "" {
			a.Notes += "\n"
		}
		a.Notes += "Cancelled: " + reason
	}
}

// IsGroupMember checks whether the appointment belongs to a linked group
func (a *Appointment) IsGroupMember() bool {
	return a.LinkedAppointmentID != nil || (a.LinkSequence != nil && *a.LinkSequence == 1)
}

// GroupID returns the id shared by all members of the appointment's group:
// the first member's own id.
func (a *Appointment) GroupID() uuid.UUID {
	if a.LinkedAppointmentID != nil {
		return *a.LinkedAppointmentID
	}
	return a.ID
}
