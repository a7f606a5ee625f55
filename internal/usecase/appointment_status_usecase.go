package usecase

import (
	"context"
	"errors"
	"time"

	"go-clinic-scheduling/internal/converter"
	"go-clinic-scheduling/internal/delivery/dto"
	"go-clinic-scheduling/internal/delivery/http/middleware"
	"go-clinic-scheduling/internal/domain/entity"
	"go-clinic-scheduling/internal/domain/repository"
	"go-clinic-scheduling/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AppointmentStatusUsecase drives the lifecycle state machine for a single
// booking, independent of its group structure.
type AppointmentStatusUsecase interface {
	Confirm(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	Start(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	Complete(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, appointmentID uuid.UUID, reason string) (*dto.AppointmentResponse, error)
	NoShow(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
}

type appointmentStatusUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
	reminderService *service.ReminderService
}

func NewAppointmentStatusUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	reminderService *service.ReminderService,
) AppointmentStatusUsecase {
	return &appointmentStatusUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
		reminderService: reminderService,
	}
}

func (u *appointmentStatusUsecase) Confirm(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, appointmentID, entity.StatusConfirmed, "")
}

func (u *appointmentStatusUsecase) Start(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, appointmentID, entity.StatusInProgress, "")
}

func (u *appointmentStatusUsecase) Complete(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, appointmentID, entity.StatusCompleted, "")
}

func (u *appointmentStatusUsecase) Cancel(ctx context.Context, appointmentID uuid.UUID, reason string) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, appointmentID, entity.StatusCancelled, reason)
}

func (u *appointmentStatusUsecase) NoShow(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, appointmentID, entity.StatusNoShow, "")
}

// transition loads the row, consults the entity's transition table, applies
// the change and audits it in one unit of work. Requests out of a terminal
// state are rejected with a state-conflict error, never silently ignored.
func (u *appointmentStatusUsecase) transition(ctx context.Context, appointmentID uuid.UUID, target entity.AppointmentStatus, reason string) (*dto.AppointmentResponse, error) {
	clinicID, ok := middleware.GetClinicIDFromContext(ctx)
	if !ok {
		return nil, errors.New("clinic not found in context")
	}
	userID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, clinicID, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if !appointment.CanTransitionTo(target) {
		if appointment.IsTerminal() {
			return nil, ErrTerminalState
		}
		return nil, ErrInvalidStatusTransition
	}

	oldStatus := appointment.Status
	switch target {
	case entity.StatusConfirmed:
		appointment.Confirm(userID, time.Now().UTC())
	case entity.StatusCancelled:
		appointment.Cancel(reason)
	default:
		appointment.Status = target
	}

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		u.log.Warnf("Failed to update appointment %s status: %+v", appointmentID, err)
		return nil, translateStorageError(err)
	}

	if err := u.auditService.LogUpdate(ctx, tx, clinicID, userPtr(userID), entity.AuditActionAppointmentStatus,
		"appointment", appointment.ID.String(),
		map[string]interface{}{"status": string(oldStatus)},
		map[string]interface{}{"status": string(target), "reason": reason},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit status change for %s: %+v", appointmentID, err)
		return nil, translateStorageError(err)
	}

	if target == entity.StatusCancelled {
		u.reminderService.CancelReminder(appointment)
	}

	u.log.Infof("Appointment status changed: id=%s, %s -> %s", appointment.ID, oldStatus, target)
	return converter.AppointmentToResponse(appointment), nil
}
