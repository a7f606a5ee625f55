package repository

import (
	"time"

	"go-clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OverlapFilter describes a half-open time window on a date, with bookings
// to ignore (the group being rescheduled checks against everything but
// itself). Cancelled bookings are always excluded by the implementation.
type OverlapFilter struct {
	Date       time.Time
	StartTime  string // HH:MM
	EndTime    string // HH:MM
	ExcludeIDs []uuid.UUID
}

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	Update(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Appointment, error)
	// FindGroup returns all members sharing the group id (the row whose id
	// equals groupID plus every row linked to it), ordered by link_sequence.
	FindGroup(db *gorm.DB, clinicID, groupID uuid.UUID) ([]entity.Appointment, error)
	FindByDate(db *gorm.DB, clinicID uuid.UUID, date time.Time) ([]entity.Appointment, error)
	FindByPatient(db *gorm.DB, clinicID, patientID uuid.UUID) ([]entity.Appointment, error)

	// Overlap queries behind the conflict detector. All exclude cancelled rows.
	FindMachineOverlaps(db *gorm.DB, clinicID, machineID uuid.UUID, filter OverlapFilter) ([]entity.Appointment, error)
	FindProviderOverlaps(db *gorm.DB, clinicID, providerID uuid.UUID, category entity.AppointmentCategory, filter OverlapFilter) ([]entity.Appointment, error)
	FindPatientOverlaps(db *gorm.DB, clinicID, patientID uuid.UUID, filter OverlapFilter) ([]entity.Appointment, error)
}
