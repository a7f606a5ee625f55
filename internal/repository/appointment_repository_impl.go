package repository

import (
	"errors"
	"time"

	"go-clinic-scheduling/internal/domain/entity"
	domainRepo "go-clinic-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Save(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Where("clinic_id = ? AND id = ?", clinicID, id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// FindGroup reconstructs a linked group by query: the first member (its own
// id equals the group id) plus every member pointing at it, in sequence
// order. A standalone booking comes back as a single-element slice.
func (r *appointmentRepository) FindGroup(db *gorm.DB, clinicID, groupID uuid.UUID) ([]entity.Appointment, error) {
	var members []entity.Appointment
	err := db.Where("clinic_id = ? AND (id = ? OR linked_appointment_id = ?)", clinicID, groupID, groupID).
		Order("link_sequence ASC NULLS FIRST").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *appointmentRepository) FindByDate(db *gorm.DB, clinicID uuid.UUID, date time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Patient").
		Where("clinic_id = ? AND date = ?", clinicID, date.Format("2006-01-02")).
		Order("start_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByPatient(db *gorm.DB, clinicID, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Where("clinic_id = ? AND patient_id = ?", clinicID, patientID).
		Order("date DESC, start_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// overlapQuery applies the half-open interval intersection on HH:MM time
// columns: existing.start < new.end AND new.start < existing.end.
// Cancelled rows never block.
func overlapQuery(db *gorm.DB, clinicID uuid.UUID, filter domainRepo.OverlapFilter) *gorm.DB {
	q := db.Where("clinic_id = ? AND date = ? AND status != ?",
		clinicID, filter.Date.Format("2006-01-02"), entity.StatusCancelled).
		Where("start_time < ? AND ? < end_time", filter.EndTime, filter.StartTime)
	if len(filter.ExcludeIDs) > 0 {
		q = q.Where("id NOT IN ?", filter.ExcludeIDs)
	}
	return q
}

func (r *appointmentRepository) FindMachineOverlaps(db *gorm.DB, clinicID, machineID uuid.UUID, filter domainRepo.OverlapFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := overlapQuery(db.Model(&entity.Appointment{}), clinicID, filter).
		Where("machine_id = ?", machineID).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindProviderOverlaps(db *gorm.DB, clinicID, providerID uuid.UUID, category entity.AppointmentCategory, filter domainRepo.OverlapFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := overlapQuery(db.Model(&entity.Appointment{}), clinicID, filter).
		Where("provider_id = ? AND category = ?", providerID, category).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindPatientOverlaps(db *gorm.DB, clinicID, patientID uuid.UUID, filter domainRepo.OverlapFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := overlapQuery(db.Model(&entity.Appointment{}), clinicID, filter).
		Where("patient_id = ?", patientID).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}
