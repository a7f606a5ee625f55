package usecase

import (
	"context"
	"errors"
	"time"

	"go-clinic-scheduling/config"
	"go-clinic-scheduling/internal/delivery/dto"
	"go-clinic-scheduling/internal/delivery/http/middleware"
	"go-clinic-scheduling/internal/domain/entity"
	"go-clinic-scheduling/internal/domain/repository"
	"go-clinic-scheduling/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SlotUsecase interface {
	FindSlots(ctx context.Context, req *dto.SlotSearchRequest) (*dto.SlotListResponse, error)
}

type slotUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	cfg           config.SchedulingConfig
	treatmentRepo repository.TreatmentRepository
	slotService   service.SlotService
}

func NewSlotUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg config.SchedulingConfig,
	treatmentRepo repository.TreatmentRepository,
	slotService service.SlotService,
) SlotUsecase {
	return &slotUsecase{
		db:            db,
		log:           log,
		cfg:           cfg,
		treatmentRepo: treatmentRepo,
		slotService:   slotService,
	}
}

// FindSlots resolves each requested segment against the catalog, then asks
// the slot service for every start time where the whole chain fits. Two
// identical calls with no writes in between return the same sequence.
func (u *slotUsecase) FindSlots(ctx context.Context, req *dto.SlotSearchRequest) (*dto.SlotListResponse, error) {
	clinicID, ok := middleware.GetClinicIDFromContext(ctx)
	if !ok {
		return nil, errors.New("clinic not found in context")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	if len(req.Segments) == 0 {
		return nil, ErrNoSegments
	}
	if len(req.Segments) > u.cfg.MaxGroupSegments {
		return nil, ErrTooManySegments
	}

	db := u.db.WithContext(ctx)
	segments := make([]service.SegmentRequirement, len(req.Segments))
	for i, seg := range req.Segments {
		category := entity.AppointmentCategory(seg.Category)
		if category != entity.CategoryTreatment && category != entity.CategoryConsultation {
			return nil, ErrInvalidCategory
		}

		requirement := service.SegmentRequirement{
			DurationMinutes: seg.DurationMinutes,
			Category:        category,
			MachineID:       seg.MachineID,
			ProviderID:      seg.ProviderID,
		}

		if seg.ServiceID != nil {
			treatment, err := u.treatmentRepo.FindByID(db, clinicID, *seg.ServiceID)
			if err != nil {
				u.log.Warnf("Failed to find treatment %s: %+v", *seg.ServiceID, err)
				return nil, err
			}
			if treatment == nil {
				return nil, ErrTreatmentNotFound
			}
			if requirement.DurationMinutes == 0 {
				requirement.DurationMinutes = treatment.DefaultDurationMinutes
			}
			if treatment.Overlappable {
				requirement.MachineID = nil
			}
		}

		if requirement.DurationMinutes < u.cfg.MinDurationMinutes || requirement.DurationMinutes > u.cfg.MaxDurationMinutes {
			return nil, ErrInvalidDuration
		}
		segments[i] = requirement
	}

	slots, err := u.slotService.FindSlots(db, clinicID, date, segments, req.PatientID)
	if err != nil {
		u.log.Warnf("Slot search failed for %s: %+v", req.Date, err)
		return nil, err
	}

	return &dto.SlotListResponse{
		Date:  req.Date,
		Slots: slots,
		Total: len(slots),
	}, nil
}
