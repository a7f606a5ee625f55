package usecase

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-clinic-scheduling/config"
	"go-clinic-scheduling/internal/converter"
	"go-clinic-scheduling/internal/delivery/dto"
	"go-clinic-scheduling/internal/delivery/http/middleware"
	"go-clinic-scheduling/internal/domain/entity"
	"go-clinic-scheduling/internal/domain/repository"
	"go-clinic-scheduling/internal/scheduling"
	"go-clinic-scheduling/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AppointmentUsecase interface {
	CreateGroup(ctx context.Context, req *dto.CreateAppointmentGroupRequest) (*dto.AppointmentGroupResponse, error)
	RescheduleGroup(ctx context.Context, groupID uuid.UUID, req *dto.RescheduleGroupRequest) (*dto.AppointmentGroupResponse, error)
	CancelGroup(ctx context.Context, groupID uuid.UUID, reason string) error
	GetGroup(ctx context.Context, groupID uuid.UUID) (*dto.AppointmentGroupResponse, error)
	ListByDate(ctx context.Context, date string) (*dto.AppointmentListResponse, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	cfg             config.SchedulingConfig
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	providerRepo    repository.ProviderRepository
	machineRepo     repository.MachineRepository
	treatmentRepo   repository.TreatmentRepository
	conflictService service.ConflictService
	auditService    service.AuditService
	reminderService *service.ReminderService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg config.SchedulingConfig,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	providerRepo repository.ProviderRepository,
	machineRepo repository.MachineRepository,
	treatmentRepo repository.TreatmentRepository,
	conflictService service.ConflictService,
	auditService service.AuditService,
	reminderService *service.ReminderService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		cfg:             cfg,
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		providerRepo:    providerRepo,
		machineRepo:     machineRepo,
		treatmentRepo:   treatmentRepo,
		conflictService: conflictService,
		auditService:    auditService,
		reminderService: reminderService,
	}
}

// segmentPlan is a fully resolved segment: catalog defaults applied,
// resources verified to exist, overlappable treatments stripped of their
// machine.
type segmentPlan struct {
	category    entity.AppointmentCategory
	segType     string
	serviceID   *uuid.UUID
	duration    int
	machineID   *uuid.UUID
	providerID  *uuid.UUID
	assistantID *uuid.UUID
	title       string
	reason      string
	notes       string
	priority    string
	color       string
}

// CreateGroup books an ordered chain of segments as one all-or-nothing unit
// of work: validate everything, conflict-check every segment's resources,
// and only then persist all members. A single booking is simply a group of
// size one. Reminder scheduling runs after commit and can never roll the
// group back.
func (u *appointmentUsecase) CreateGroup(ctx context.Context, req *dto.CreateAppointmentGroupRequest) (*dto.AppointmentGroupResponse, error) {
	clinicID, ok := middleware.GetClinicIDFromContext(ctx)
	if !ok {
		return nil, errors.New("clinic not found in context")
	}
	userID, _ := middleware.GetUserIDFromContext(ctx)

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	if _, err := scheduling.MinuteOfDay(req.StartTime); err != nil {
		return nil, ErrInvalidTimeFormat
	}
	if len(req.Segments) == 0 {
		return nil, ErrNoSegments
	}
	if len(req.Segments) > u.cfg.MaxGroupSegments {
		return nil, ErrTooManySegments
	}

	tx := u.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: sql.LevelSerializable})
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(tx, clinicID, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	plans := make([]segmentPlan, len(req.Segments))
	durations := make([]int, len(req.Segments))
	for i, seg := range req.Segments {
		plan, err := u.buildPlan(tx, clinicID, &seg, req.ProviderID, req.AssistantID)
		if err != nil {
			return nil, err
		}
		plans[i] = *plan
		durations[i] = plan.duration
	}

	windows, err := chainOrValidationError(req.StartTime, durations)
	if err != nil {
		return nil, err
	}

	// Phase 1: every segment must be conflict-free before anything is written
	if err := u.checkPlans(tx, clinicID, date, windows, plans, nil, 0); err != nil {
		return nil, err
	}
	if !req.AllowPatientOverlap {
		if err := u.checkPatient(tx, clinicID, req.PatientID, date, windows, nil); err != nil {
			return nil, err
		}
	}

	// Phase 2: persist all members, linking every non-first member to the
	// first member's id
	members := make([]entity.Appointment, len(plans))
	firstID := uuid.New()
	for i, plan := range plans {
		member := entity.Appointment{
			ID:              uuid.New(),
			ClinicID:        clinicID,
			Category:        plan.category,
			Type:            plan.segType,
			Date:            date,
			StartTime:       windows[i].Start,
			EndTime:         windows[i].End,
			DurationMinutes: plan.duration,
			PatientID:       req.PatientID,
			ProviderID:      plan.providerID,
			MachineID:       plan.machineID,
			AssistantID:     plan.assistantID,
			ServiceID:       plan.serviceID,
			Status:          entity.StatusScheduled,
			Title:           plan.title,
			Reason:          plan.reason,
			Notes:           plan.notes,
			Priority:        plan.priority,
			Color:           plan.color,
		}
		if i == 0 {
			member.ID = firstID
			if len(plans) > 1 {
				seq := 1
				member.LinkSequence = &seq
			}
		} else {
			linked := firstID
			seq := i + 1
			member.LinkedAppointmentID = &linked
			member.LinkSequence = &seq
		}

		if err := u.appointmentRepo.Create(tx, &member); err != nil {
			u.log.Warnf("Failed to create appointment segment %d: %+v", i, err)
			return nil, translateStorageError(err)
		}
		members[i] = member
	}

	if err := u.auditService.LogCreate(ctx, tx, clinicID, userPtr(userID), entity.AuditActionAppointmentCreate,
		"appointment_group", firstID.String(), map[string]interface{}{
			"date":       req.Date,
			"start_time": req.StartTime,
			"segments":   len(members),
		}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit appointment group %s: %+v", firstID, err)
		return nil, translateStorageError(err)
	}

	// Post-commit; failure must not affect the created group
	u.reminderService.ScheduleReminder(&members[0])

	u.log.Infof("Appointment group created: id=%s, patient=%s, segments=%d", firstID, req.PatientID, len(members))
	return converter.GroupToResponse(members), nil
}

// RescheduleGroup recomputes every member's window from a new date/start by
// the same chaining rule, re-checks conflicts while ignoring the group's own
// rows, applies group-wide field updates (status/provider/assistant),
// optionally appends new segments after the last member, and commits all
// updates atomically. Any conflict leaves the group untouched.
func (u *appointmentUsecase) RescheduleGroup(ctx context.Context, groupID uuid.UUID, req *dto.RescheduleGroupRequest) (*dto.AppointmentGroupResponse, error) {
	clinicID, ok := middleware.GetClinicIDFromContext(ctx)
	if !ok {
		return nil, errors.New("clinic not found in context")
	}
	userID, _ := middleware.GetUserIDFromContext(ctx)

	if req.Date != "" {
		if _, err := time.Parse("2006-01-02", req.Date); err != nil {
			return nil, ErrInvalidDateFormat
		}
	}
	if req.StartTime != "" {
		if _, err := scheduling.MinuteOfDay(req.StartTime); err != nil {
			return nil, ErrInvalidTimeFormat
		}
	}

	tx := u.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: sql.LevelSerializable})
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	members, err := u.appointmentRepo.FindGroup(tx, clinicID, groupID)
	if err != nil {
		u.log.Warnf("Failed to load group %s: %+v", groupID, err)
		return nil, err
	}
	if len(members) == 0 {
		return nil, ErrGroupNotFound
	}

	active := activeMembers(members)
	if len(active) == 0 {
		return nil, ErrGroupCancelled
	}

	if len(members)+len(req.AppendSegments) > u.cfg.MaxGroupSegments {
		return nil, ErrTooManySegments
	}

	date := active[0].Date
	if req.Date != "" {
		date, _ = time.Parse("2006-01-02", req.Date)
	}
	start := active[0].StartTime
	if req.StartTime != "" {
		start = req.StartTime
	}

	// Group-wide overrides shift which provider gets conflict-checked
	if req.ProviderID != nil {
		provider, err := u.providerRepo.FindByID(tx, clinicID, *req.ProviderID)
		if err != nil {
			return nil, err
		}
		if provider == nil {
			return nil, ErrProviderNotFound
		}
		for i := range active {
			active[i].ProviderID = req.ProviderID
		}
	}
	if req.AssistantID != nil {
		for i := range active {
			active[i].AssistantID = req.AssistantID
		}
	}
	if req.Status != nil {
		target := entity.AppointmentStatus(*req.Status)
		for i := range active {
			if !active[i].CanTransitionTo(target) {
				if active[i].IsTerminal() {
					return nil, ErrTerminalState
				}
				return nil, ErrInvalidStatusTransition
			}
		}
		now := time.Now().UTC()
		for i := range active {
			if target == entity.StatusConfirmed {
				active[i].Confirm(userID, now)
			} else {
				active[i].Status = target
			}
		}
	}

	appendPlans := make([]segmentPlan, len(req.AppendSegments))
	durations := make([]int, 0, len(active)+len(req.AppendSegments))
	for _, member := range active {
		durations = append(durations, member.DurationMinutes)
	}
	defaultProvider := req.ProviderID
	if defaultProvider == nil {
		defaultProvider = active[0].ProviderID
	}
	defaultAssistant := req.AssistantID
	if defaultAssistant == nil {
		defaultAssistant = active[0].AssistantID
	}
	for i, seg := range req.AppendSegments {
		plan, err := u.buildPlan(tx, clinicID, &seg, defaultProvider, defaultAssistant)
		if err != nil {
			return nil, err
		}
		appendPlans[i] = *plan
		durations = append(durations, plan.duration)
	}

	windows, err := chainOrValidationError(start, durations)
	if err != nil {
		return nil, err
	}

	oldDate := active[0].Date.Format("2006-01-02")
	oldStart := active[0].StartTime
	excludeIDs := memberIDs(members)

	// Re-check every member against everything except the group itself
	for i := range active {
		filter := repository.OverlapFilter{
			Date:       date,
			StartTime:  windows[i].Start,
			EndTime:    windows[i].End,
			ExcludeIDs: excludeIDs,
		}
		if err := u.checkResources(tx, clinicID, active[i].MachineID, active[i].ProviderID, active[i].Category, filter, i); err != nil {
			return nil, err
		}
	}
	if err := u.checkPlans(tx, clinicID, date, windows[len(active):], appendPlans, excludeIDs, len(active)); err != nil {
		return nil, err
	}
	if !req.AllowPatientOverlap {
		if err := u.checkPatient(tx, clinicID, members[0].PatientID, date, windows, excludeIDs); err != nil {
			return nil, err
		}
	}

	// Commit phase: apply recomputed windows and field updates
	for i := range active {
		active[i].Date = date
		active[i].StartTime = windows[i].Start
		active[i].EndTime = windows[i].End
	}
	if req.Notes != nil {
		// Notes apply to the group's first member only
		members[0].Notes = *req.Notes
	}

	updated := map[uuid.UUID]bool{}
	for i := range active {
		if err := u.appointmentRepo.Update(tx, active[i]); err != nil {
			u.log.Warnf("Failed to update appointment %s: %+v", active[i].ID, err)
			return nil, translateStorageError(err)
		}
		updated[active[i].ID] = true
	}
	if req.Notes != nil && !updated[members[0].ID] {
		if err := u.appointmentRepo.Update(tx, &members[0]); err != nil {
			return nil, translateStorageError(err)
		}
	}

	// Appended segments chain after the last existing member and take the
	// next link sequences
	maxSeq := 0
	for _, member := range members {
		if member.LinkSequence != nil && *member.LinkSequence > maxSeq {
			maxSeq = *member.LinkSequence
		}
	}
	if len(appendPlans) > 0 && maxSeq == 0 {
		// Appending turns a standalone booking into a group
		seq := 1
		members[0].LinkSequence = &seq
		maxSeq = 1
		if err := u.appointmentRepo.Update(tx, &members[0]); err != nil {
			return nil, translateStorageError(err)
		}
	}

	appended := make([]entity.Appointment, len(appendPlans))
	for i, plan := range appendPlans {
		window := windows[len(active)+i]
		linked := members[0].ID
		seq := maxSeq + i + 1
		member := entity.Appointment{
			ID:                  uuid.New(),
			ClinicID:            clinicID,
			Category:            plan.category,
			Type:                plan.segType,
			Date:                date,
			StartTime:           window.Start,
			EndTime:             window.End,
			DurationMinutes:     plan.duration,
			PatientID:           members[0].PatientID,
			ProviderID:          plan.providerID,
			MachineID:           plan.machineID,
			AssistantID:         plan.assistantID,
			ServiceID:           plan.serviceID,
			Status:              entity.StatusScheduled,
			LinkedAppointmentID: &linked,
			LinkSequence:        &seq,
			Title:               plan.title,
			Reason:              plan.reason,
			Notes:               plan.notes,
			Priority:            plan.priority,
			Color:               plan.color,
		}
		if err := u.appointmentRepo.Create(tx, &member); err != nil {
			u.log.Warnf("Failed to append segment %d to group %s: %+v", i, groupID, err)
			return nil, translateStorageError(err)
		}
		appended[i] = member
	}

	newValues := map[string]interface{}{"date": date.Format("2006-01-02"), "start_time": windows[0].Start, "appended": len(appended)}
	if req.Status != nil {
		newValues["status"] = *req.Status
	}
	if err := u.auditService.LogUpdate(ctx, tx, clinicID, userPtr(userID), entity.AuditActionAppointmentReschedule,
		"appointment_group", members[0].ID.String(),
		map[string]interface{}{"date": oldDate, "start_time": oldStart},
		newValues,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit reschedule of group %s: %+v", groupID, err)
		return nil, translateStorageError(err)
	}

	u.reminderService.CancelReminder(&members[0])
	u.reminderService.ScheduleReminder(&members[0])

	u.log.Infof("Appointment group rescheduled: id=%s, date=%s, start=%s", members[0].ID, date.Format("2006-01-02"), windows[0].Start)
	return u.GetGroup(ctx, groupID)
}

// CancelGroup transitions every member to cancelled in one unit of work,
// which immediately frees every resource the group held. Cancelling an
// already-cancelled group is reported as a state conflict, not silently
// absorbed.
func (u *appointmentUsecase) CancelGroup(ctx context.Context, groupID uuid.UUID, reason string) error {
	clinicID, ok := middleware.GetClinicIDFromContext(ctx)
	if !ok {
		return errors.New("clinic not found in context")
	}
	userID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: sql.LevelSerializable})
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	members, err := u.appointmentRepo.FindGroup(tx, clinicID, groupID)
	if err != nil {
		u.log.Warnf("Failed to load group %s: %+v", groupID, err)
		return err
	}
	if len(members) == 0 {
		return ErrGroupNotFound
	}

	active := activeMembers(members)
	if len(active) == 0 {
		return ErrGroupCancelled
	}

	for i := range active {
		active[i].Cancel(reason)
		if err := u.appointmentRepo.Update(tx, active[i]); err != nil {
			u.log.Warnf("Failed to cancel appointment %s: %+v", active[i].ID, err)
			return translateStorageError(err)
		}
	}

	if err := u.auditService.LogUpdate(ctx, tx, clinicID, userPtr(userID), entity.AuditActionAppointmentCancel,
		"appointment_group", members[0].ID.String(),
		map[string]interface{}{"cancelled": len(active)},
		map[string]interface{}{"reason": reason},
	); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit cancellation of group %s: %+v", groupID, err)
		return translateStorageError(err)
	}

	for i := range members {
		u.reminderService.CancelReminder(&members[i])
	}

	u.log.Infof("Appointment group cancelled: id=%s, members=%d", members[0].ID, len(active))
	return nil
}

func (u *appointmentUsecase) GetGroup(ctx context.Context, groupID uuid.UUID) (*dto.AppointmentGroupResponse, error) {
	clinicID, ok := middleware.GetClinicIDFromContext(ctx)
	if !ok {
		return nil, errors.New("clinic not found in context")
	}

	members, err := u.appointmentRepo.FindGroup(u.db.WithContext(ctx), clinicID, groupID)
	if err != nil {
		u.log.Warnf("Failed to load group %s: %+v", groupID, err)
		return nil, err
	}
	if len(members) == 0 {
		return nil, ErrGroupNotFound
	}
	return converter.GroupToResponse(members), nil
}

func (u *appointmentUsecase) ListByDate(ctx context.Context, date string) (*dto.AppointmentListResponse, error) {
	clinicID, ok := middleware.GetClinicIDFromContext(ctx)
	if !ok {
		return nil, errors.New("clinic not found in context")
	}

	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	appointments, err := u.appointmentRepo.FindByDate(u.db.WithContext(ctx), clinicID, parsed)
	if err != nil {
		u.log.Warnf("Failed to list appointments for %s: %+v", date, err)
		return nil, err
	}
	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) ListByPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	clinicID, ok := middleware.GetClinicIDFromContext(ctx)
	if !ok {
		return nil, errors.New("clinic not found in context")
	}

	appointments, err := u.appointmentRepo.FindByPatient(u.db.WithContext(ctx), clinicID, patientID)
	if err != nil {
		u.log.Warnf("Failed to list appointments for patient %s: %+v", patientID, err)
		return nil, err
	}
	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// buildPlan resolves one requested segment: catalog defaults, the
// overlappable rule, resource existence, duration bounds.
func (u *appointmentUsecase) buildPlan(tx *gorm.DB, clinicID uuid.UUID, seg *dto.SegmentRequest, defaultProvider, defaultAssistant *uuid.UUID) (*segmentPlan, error) {
	category := entity.AppointmentCategory(seg.Category)
	if category != entity.CategoryTreatment && category != entity.CategoryConsultation {
		return nil, ErrInvalidCategory
	}

	plan := &segmentPlan{
		category:    category,
		segType:     seg.Type,
		serviceID:   seg.ServiceID,
		duration:    seg.DurationMinutes,
		machineID:   seg.MachineID,
		providerID:  seg.ProviderID,
		assistantID: seg.AssistantID,
		title:       seg.Title,
		reason:      seg.Reason,
		notes:       seg.Notes,
		priority:    seg.Priority,
		color:       seg.Color,
	}
	if plan.providerID == nil {
		plan.providerID = defaultProvider
	}
	if plan.assistantID == nil {
		plan.assistantID = defaultAssistant
	}

	if seg.ServiceID != nil {
		treatment, err := u.treatmentRepo.FindByID(tx, clinicID, *seg.ServiceID)
		if err != nil {
			u.log.Warnf("Failed to find treatment %s: %+v", *seg.ServiceID, err)
			return nil, err
		}
		if treatment == nil {
			return nil, ErrTreatmentNotFound
		}
		if plan.duration == 0 {
			plan.duration = treatment.DefaultDurationMinutes
		}
		if treatment.Overlappable {
			// Overlappable treatments hold no machine and skip machine checks
			plan.machineID = nil
		} else if category == entity.CategoryTreatment && plan.machineID == nil {
			return nil, ErrMachineRequired
		}
	} else if category == entity.CategoryTreatment && plan.machineID == nil {
		// Without a catalog entry there is no overlappable flag to exempt the
		// treatment from machine checks, so it must name the machine it holds.
		return nil, ErrMachineRequired
	}

	if plan.duration < u.cfg.MinDurationMinutes || plan.duration > u.cfg.MaxDurationMinutes {
		return nil, ErrInvalidDuration
	}
	if category == entity.CategoryConsultation && plan.providerID == nil {
		return nil, ErrProviderRequired
	}

	if plan.machineID != nil {
		machine, err := u.machineRepo.FindByID(tx, clinicID, *plan.machineID)
		if err != nil {
			return nil, err
		}
		if machine == nil {
			return nil, ErrMachineNotFound
		}
	}
	if plan.providerID != nil {
		provider, err := u.providerRepo.FindByID(tx, clinicID, *plan.providerID)
		if err != nil {
			return nil, err
		}
		if provider == nil {
			return nil, ErrProviderNotFound
		}
	}

	return plan, nil
}

// checkPlans runs machine and provider checks for each plan's window.
// segmentOffset keeps reported indexes aligned with the caller's request
// when the plans are a tail of a longer chain.
func (u *appointmentUsecase) checkPlans(tx *gorm.DB, clinicID uuid.UUID, date time.Time, windows []scheduling.Window, plans []segmentPlan, excludeIDs []uuid.UUID, segmentOffset int) error {
	for i, plan := range plans {
		filter := repository.OverlapFilter{
			Date:       date,
			StartTime:  windows[i].Start,
			EndTime:    windows[i].End,
			ExcludeIDs: excludeIDs,
		}
		if err := u.checkResources(tx, clinicID, plan.machineID, plan.providerID, plan.category, filter, segmentOffset+i); err != nil {
			return err
		}
	}
	return nil
}

func (u *appointmentUsecase) checkResources(tx *gorm.DB, clinicID uuid.UUID, machineID, providerID *uuid.UUID, category entity.AppointmentCategory, filter repository.OverlapFilter, segmentIndex int) error {
	if machineID != nil {
		conflict, err := u.conflictService.CheckMachine(tx, clinicID, *machineID, filter)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &ConflictError{SegmentIndex: segmentIndex, Conflict: conflict}
		}
	}
	if providerID != nil {
		conflict, err := u.conflictService.CheckProvider(tx, clinicID, *providerID, category, filter)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &ConflictError{SegmentIndex: segmentIndex, Conflict: conflict}
		}
	}
	return nil
}

func (u *appointmentUsecase) checkPatient(tx *gorm.DB, clinicID, patientID uuid.UUID, date time.Time, windows []scheduling.Window, excludeIDs []uuid.UUID) error {
	filters := make([]repository.OverlapFilter, len(windows))
	for i, window := range windows {
		filters[i] = repository.OverlapFilter{
			Date:       date,
			StartTime:  window.Start,
			EndTime:    window.End,
			ExcludeIDs: excludeIDs,
		}
	}
	conflict, err := u.conflictService.CheckPatient(tx, clinicID, patientID, filters)
	if err != nil {
		return err
	}
	if conflict != nil {
		return &ConflictError{SegmentIndex: -1, Conflict: conflict}
	}
	return nil
}

// chainOrValidationError maps pure chaining errors onto the validation
// taxonomy.
func chainOrValidationError(start string, durations []int) ([]scheduling.Window, error) {
	windows, err := scheduling.ChainWindows(start, durations)
	if err != nil {
		if errors.Is(err, scheduling.ErrInvalidTimeOfDay) {
			return nil, ErrInvalidTimeFormat
		}
		return nil, ErrInvalidDuration
	}
	return windows, nil
}

func activeMembers(members []entity.Appointment) []*entity.Appointment {
	active := make([]*entity.Appointment, 0, len(members))
	for i := range members {
		if !members[i].IsCancelled() {
			active = append(active, &members[i])
		}
	}
	return active
}

func memberIDs(members []entity.Appointment) []uuid.UUID {
	ids := make([]uuid.UUID, len(members))
	for i, member := range members {
		ids[i] = member.ID
	}
	return ids
}

func userPtr(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
