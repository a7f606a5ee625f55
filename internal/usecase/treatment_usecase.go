package usecase

import (
	"context"
	"errors"

	"go-clinic-scheduling/internal/converter"
	"go-clinic-scheduling/internal/delivery/dto"
	"go-clinic-scheduling/internal/delivery/http/middleware"
	"go-clinic-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TreatmentUsecase is the read side of the service catalog: scheduling only
// reads durations and the overlappable flag, it never writes the catalog.
type TreatmentUsecase interface {
	GetTreatment(ctx context.Context, treatmentID uuid.UUID) (*dto.TreatmentResponse, error)
	GetAllTreatments(ctx context.Context) (*dto.TreatmentListResponse, error)
}

type treatmentUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	treatmentRepo repository.TreatmentRepository
}

func NewTreatmentUsecase(db *gorm.DB, log *logrus.Logger, treatmentRepo repository.TreatmentRepository) TreatmentUsecase {
	return &treatmentUsecase{
		db:            db,
		log:           log,
		treatmentRepo: treatmentRepo,
	}
}

func (u *treatmentUsecase) GetTreatment(ctx context.Context, treatmentID uuid.UUID) (*dto.TreatmentResponse, error) {
	clinicID, ok := middleware.GetClinicIDFromContext(ctx)
	if !ok {
		return nil, errors.New("clinic not found in context")
	}

	treatment, err := u.treatmentRepo.FindByID(u.db.WithContext(ctx), clinicID, treatmentID)
	if err != nil {
		u.log.Warnf("Failed to find treatment %s: %+v", treatmentID, err)
		return nil, err
	}
	if treatment == nil {
		return nil, ErrTreatmentNotFound
	}
	return converter.TreatmentToResponse(treatment), nil
}

func (u *treatmentUsecase) GetAllTreatments(ctx context.Context) (*dto.TreatmentListResponse, error) {
	clinicID, ok := middleware.GetClinicIDFromContext(ctx)
	if !ok {
		return nil, errors.New("clinic not found in context")
	}

	treatments, err := u.treatmentRepo.FindAll(u.db.WithContext(ctx), clinicID)
	if err != nil {
		u.log.Warnf("Failed to list treatments: %+v", err)
		return nil, err
	}
	return &dto.TreatmentListResponse{
		Treatments: converter.TreatmentsToResponses(treatments),
		Total:      len(treatments),
	}, nil
}
