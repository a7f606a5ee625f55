package service

import (
	"go-clinic-scheduling/internal/domain/entity"
	"go-clinic-scheduling/internal/domain/repository"
	"go-clinic-scheduling/internal/scheduling"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ResourceKind identifies which contended resource a conflict is about.
type ResourceKind string

const (
	ResourceMachine  ResourceKind = "machine"
	ResourceProvider ResourceKind = "provider"
	ResourcePatient  ResourceKind = "patient"
)

// Conflict describes why a proposed window was rejected: the resource it
// collided on and the existing bookings that block it.
type Conflict struct {
	Kind           ResourceKind `json:"kind"`
	ResourceID     uuid.UUID    `json:"resource_id"`
	ConflictingIDs []uuid.UUID  `json:"conflicting_ids"`
}

// ConflictService is the conflict detector: pure reads against the
// appointment table, never mutating state. A nil *Conflict means the window
// is free.
type ConflictService interface {
	CheckMachine(db *gorm.DB, clinicID, machineID uuid.UUID, filter repository.OverlapFilter) (*Conflict, error)
	CheckProvider(db *gorm.DB, clinicID, providerID uuid.UUID, newCategory entity.AppointmentCategory, filter repository.OverlapFilter) (*Conflict, error)
	CheckPatient(db *gorm.DB, clinicID, patientID uuid.UUID, filters []repository.OverlapFilter) (*Conflict, error)
}

type conflictService struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
}

func NewConflictService(log *logrus.Logger, appointmentRepo repository.AppointmentRepository) ConflictService {
	return &conflictService{
		log:             log,
		appointmentRepo: appointmentRepo,
	}
}

// CheckMachine treats any overlapping non-cancelled booking on the same
// machine as a conflict. Overlappable treatments carry no machine id and are
// never checked here.
func (s *conflictService) CheckMachine(db *gorm.DB, clinicID, machineID uuid.UUID, filter repository.OverlapFilter) (*Conflict, error) {
	overlaps, err := s.appointmentRepo.FindMachineOverlaps(db, clinicID, machineID, filter)
	if err != nil {
		s.log.Warnf("Failed to query machine overlaps for %s: %+v", machineID, err)
		return nil, err
	}
	if len(overlaps) == 0 {
		return nil, nil
	}
	return &Conflict{
		Kind:           ResourceMachine,
		ResourceID:     machineID,
		ConflictingIDs: appointmentIDs(overlaps),
	}, nil
}

// CheckProvider applies the asymmetric provider rule: consultations and
// treatments held by the provider are queried separately and each side is
// run through the category decision table against the new booking's
// category. A provider may supervise concurrent treatments but never
// double-books a consultation.
func (s *conflictService) CheckProvider(db *gorm.DB, clinicID, providerID uuid.UUID, newCategory entity.AppointmentCategory, filter repository.OverlapFilter) (*Conflict, error) {
	var blocking []entity.Appointment

	for _, existing := range []entity.AppointmentCategory{entity.CategoryConsultation, entity.CategoryTreatment} {
		if !scheduling.ProviderCategoryBlocks(scheduling.Category(existing), scheduling.Category(newCategory)) {
			continue
		}
		overlaps, err := s.appointmentRepo.FindProviderOverlaps(db, clinicID, providerID, existing, filter)
		if err != nil {
			s.log.Warnf("Failed to query provider overlaps for %s: %+v", providerID, err)
			return nil, err
		}
		blocking = append(blocking, overlaps...)
	}

	if len(blocking) == 0 {
		return nil, nil
	}
	return &Conflict{
		Kind:           ResourceProvider,
		ResourceID:     providerID,
		ConflictingIDs: appointmentIDs(blocking),
	}, nil
}

// CheckPatient validates every proposed window at once so a whole
// multi-treatment chain is vetted before any of it is committed. The caller
// may skip this check entirely when a patient double-booking is accepted.
func (s *conflictService) CheckPatient(db *gorm.DB, clinicID, patientID uuid.UUID, filters []repository.OverlapFilter) (*Conflict, error) {
	var blocking []entity.Appointment
	seen := map[uuid.UUID]bool{}

	for _, filter := range filters {
		overlaps, err := s.appointmentRepo.FindPatientOverlaps(db, clinicID, patientID, filter)
		if err != nil {
			s.log.Warnf("Failed to query patient overlaps for %s: %+v", patientID, err)
			return nil, err
		}
		for _, o := range overlaps {
			if !seen[o.ID] {
				seen[o.ID] = true
				blocking = append(blocking, o)
			}
		}
	}

	if len(blocking) == 0 {
		return nil, nil
	}
	return &Conflict{
		Kind:           ResourcePatient,
		ResourceID:     patientID,
		ConflictingIDs: appointmentIDs(blocking),
	}, nil
}

func appointmentIDs(appointments []entity.Appointment) []uuid.UUID {
	ids := make([]uuid.UUID, len(appointments))
	for i, a := range appointments {
		ids[i] = a.ID
	}
	return ids
}
