package service

import (
	"errors"
	"time"

	"go-clinic-scheduling/config"
	"go-clinic-scheduling/internal/domain/entity"
	"go-clinic-scheduling/internal/domain/repository"
	"go-clinic-scheduling/internal/scheduling"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrClinicSettingsMissing = errors.New("clinic settings not configured")

// SegmentRequirement is one segment of a slot-search request: its duration
// and the resources it would occupy.
type SegmentRequirement struct {
	DurationMinutes int
	Category        entity.AppointmentCategory
	MachineID       *uuid.UUID
	ProviderID      *uuid.UUID
}

// SlotService enumerates candidate start times within a clinic's operating
// hours for which every segment of the requested chain is conflict-free.
type SlotService interface {
	FindSlots(db *gorm.DB, clinicID uuid.UUID, date time.Time, segments []SegmentRequirement, patientID *uuid.UUID) ([]string, error)
}

type slotService struct {
	log             *logrus.Logger
	cfg             config.SchedulingConfig
	settingsRepo    repository.ClinicSettingsRepository
	conflictService ConflictService
}

func NewSlotService(
	log *logrus.Logger,
	cfg config.SchedulingConfig,
	settingsRepo repository.ClinicSettingsRepository,
	conflictService ConflictService,
) SlotService {
	return &slotService{
		log:             log,
		cfg:             cfg,
		settingsRepo:    settingsRepo,
		conflictService: conflictService,
	}
}

// FindSlots sweeps the operating window at the clinic's slot interval and
// keeps each start for which the entire chained request fits before close
// and passes every resource check. A candidate is dropped on the first
// failing segment. An empty result is a valid answer, not an error.
func (s *slotService) FindSlots(db *gorm.DB, clinicID uuid.UUID, date time.Time, segments []SegmentRequirement, patientID *uuid.UUID) ([]string, error) {
	if len(segments) == 0 {
		return []string{}, nil
	}

	settings, err := s.settingsRepo.FindByClinicID(db, clinicID)
	if err != nil {
		s.log.Warnf("Failed to load clinic settings for %s: %+v", clinicID, err)
		return nil, err
	}
	if settings == nil {
		return nil, ErrClinicSettingsMissing
	}

	hours, open := settings.HoursFor(date)
	if !open {
		return []string{}, nil
	}

	openMin, err := scheduling.MinuteOfDay(hours.OpensAt)
	if err != nil {
		return nil, err
	}
	closeMin, err := scheduling.MinuteOfDay(hours.ClosesAt)
	if err != nil {
		return nil, err
	}

	interval := settings.SlotIntervalMinutes
	if interval <= 0 {
		interval = s.cfg.SlotIntervalMinutes
	}

	durations := make([]int, len(segments))
	total := 0
	for i, seg := range segments {
		durations[i] = seg.DurationMinutes
		total += seg.DurationMinutes
	}

	slots := []string{}
	for start := openMin; start+total <= closeMin; start += interval {
		startTime := scheduling.FormatMinute(start)
		ok, err := s.chainFits(db, clinicID, date, startTime, segments, durations, patientID)
		if err != nil {
			return nil, err
		}
		if ok {
			slots = append(slots, startTime)
		}
	}
	return slots, nil
}

func (s *slotService) chainFits(db *gorm.DB, clinicID uuid.UUID, date time.Time, start string, segments []SegmentRequirement, durations []int, patientID *uuid.UUID) (bool, error) {
	windows, err := scheduling.ChainWindows(start, durations)
	if err != nil {
		return false, err
	}

	patientFilters := make([]repository.OverlapFilter, 0, len(windows))
	for i, seg := range segments {
		filter := repository.OverlapFilter{
			Date:      date,
			StartTime: windows[i].Start,
			EndTime:   windows[i].End,
		}
		patientFilters = append(patientFilters, filter)

		if seg.MachineID != nil {
			conflict, err := s.conflictService.CheckMachine(db, clinicID, *seg.MachineID, filter)
			if err != nil {
				return false, err
			}
			if conflict != nil {
				return false, nil
			}
		}
		if seg.ProviderID != nil {
			conflict, err := s.conflictService.CheckProvider(db, clinicID, *seg.ProviderID, seg.Category, filter)
			if err != nil {
				return false, err
			}
			if conflict != nil {
				return false, nil
			}
		}
	}

	if patientID != nil {
		conflict, err := s.conflictService.CheckPatient(db, clinicID, *patientID, patientFilters)
		if err != nil {
			return false, err
		}
		if conflict != nil {
			return false, nil
		}
	}
	return true, nil
}
