package usecase

import (
	"context"
	"testing"
	"time"

	"go-clinic-scheduling/internal/delivery/dto"
	"go-clinic-scheduling/internal/domain/entity"
	"go-clinic-scheduling/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appointmentFixture struct {
	clinicID   uuid.UUID
	userID     uuid.UUID
	patientID  uuid.UUID
	machineID  uuid.UUID
	providerID uuid.UUID

	repo       *fakeAppointmentRepo
	machines   *fakeMachineRepo
	treatments *fakeTreatmentRepo
	audit      *fakeAuditRepo
	mock       sqlmock.Sqlmock
	uc         AppointmentUsecase
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()

	f := &appointmentFixture{
		clinicID:   uuid.New(),
		userID:     uuid.New(),
		patientID:  uuid.New(),
		machineID:  uuid.New(),
		providerID: uuid.New(),
		repo:       &fakeAppointmentRepo{},
		treatments: &fakeTreatmentRepo{treatments: map[uuid.UUID]entity.Treatment{}},
		audit:      &fakeAuditRepo{},
	}

	db, mock := newTestDB(t)
	f.mock = mock

	log := testLogger()
	patientRepo := &fakePatientRepo{patients: map[uuid.UUID]entity.Patient{
		f.patientID: {ID: f.patientID, ClinicID: f.clinicID, FullName: "Jamie Soto"},
	}}
	providerRepo := &fakeProviderRepo{providers: map[uuid.UUID]entity.Provider{
		f.providerID: {ID: f.providerID, ClinicID: f.clinicID, Name: "Dr. Reyes"},
	}}
	f.machines = &fakeMachineRepo{machines: map[uuid.UUID]entity.Machine{
		f.machineID: {ID: f.machineID, ClinicID: f.clinicID, Name: "Laser A"},
	}}

	f.uc = NewAppointmentUsecase(
		db, log, testSchedulingConfig(),
		f.repo, patientRepo, providerRepo, f.machines, f.treatments,
		service.NewConflictService(log, f.repo),
		service.NewAuditService(log, f.audit),
		testReminderService(),
	)
	return f
}

func (f *appointmentFixture) ctx() context.Context {
	return tenantContext(f.clinicID, f.userID)
}

func treatmentSegment(machineID uuid.UUID, duration int) dto.SegmentRequest {
	return dto.SegmentRequest{
		Category:        string(entity.CategoryTreatment),
		DurationMinutes: duration,
		MachineID:       &machineID,
	}
}

func TestCreateGroupSingleSegment(t *testing.T) {
	f := newAppointmentFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	group, err := f.uc.CreateGroup(f.ctx(), &dto.CreateAppointmentGroupRequest{
		PatientID: f.patientID,
		Date:      "2025-06-02",
		StartTime: "09:00",
		Segments:  []dto.SegmentRequest{treatmentSegment(f.machineID, 60)},
	})
	require.NoError(t, err)
	require.Len(t, group.Members, 1)

	member := group.Members[0]
	assert.Equal(t, member.ID, group.GroupID)
	assert.Equal(t, "09:00", member.StartTime)
	assert.Equal(t, "10:00", member.EndTime)
	assert.Equal(t, string(entity.StatusScheduled), member.Status)
	// standalone bookings carry no link fields
	assert.Nil(t, member.LinkedAppointmentID)
	assert.Nil(t, member.LinkSequence)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, entity.AuditActionAppointmentCreate, f.audit.entries[0].Action)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateGroupChainsSegments(t *testing.T) {
	f := newAppointmentFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	machineB := uuid.New()
	f.seedMachine(machineB)

	group, err := f.uc.CreateGroup(f.ctx(), &dto.CreateAppointmentGroupRequest{
		PatientID: f.patientID,
		Date:      "2025-06-02",
		StartTime: "09:00",
		Segments: []dto.SegmentRequest{
			treatmentSegment(f.machineID, 30),
			treatmentSegment(machineB, 20),
			treatmentSegment(f.machineID, 45),
		},
	})
	require.NoError(t, err)
	require.Len(t, group.Members, 3)

	first := group.Members[0]
	assert.Equal(t, first.ID, group.GroupID)
	assert.Equal(t, "09:00", first.StartTime)
	assert.Equal(t, "09:30", first.EndTime)
	require.NotNil(t, first.LinkSequence)
	assert.Equal(t, 1, *first.LinkSequence)
	assert.Nil(t, first.LinkedAppointmentID)

	second := group.Members[1]
	assert.Equal(t, "09:30", second.StartTime)
	assert.Equal(t, "09:50", second.EndTime)
	require.NotNil(t, second.LinkedAppointmentID)
	assert.Equal(t, first.ID, *second.LinkedAppointmentID)
	require.NotNil(t, second.LinkSequence)
	assert.Equal(t, 2, *second.LinkSequence)

	third := group.Members[2]
	assert.Equal(t, "09:50", third.StartTime)
	assert.Equal(t, "10:35", third.EndTime)
	require.NotNil(t, third.LinkedAppointmentID)
	assert.Equal(t, first.ID, *third.LinkedAppointmentID)
}

func TestCreateGroupConflictIsAtomic(t *testing.T) {
	f := newAppointmentFixture(t)
	f.seedBooking(func(a *entity.Appointment) {
		a.MachineID = &f.machineID
		a.StartTime = "09:30"
		a.EndTime = "10:00"
	})

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	machineB := uuid.New()
	f.seedMachine(machineB)

	// second segment (09:20-09:50) collides on machine A
	_, err := f.uc.CreateGroup(f.ctx(), &dto.CreateAppointmentGroupRequest{
		PatientID: f.patientID,
		Date:      "2025-06-02",
		StartTime: "09:00",
		Segments: []dto.SegmentRequest{
			treatmentSegment(machineB, 20),
			treatmentSegment(f.machineID, 30),
		},
	})

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, 1, conflictErr.SegmentIndex)
	assert.Equal(t, service.ResourceMachine, conflictErr.Conflict.Kind)

	// nothing from the failed group may persist
	assert.Len(t, f.repo.appointments, 1)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateGroupPatientOverlap(t *testing.T) {
	f := newAppointmentFixture(t)
	f.seedBooking(func(a *entity.Appointment) {
		a.PatientID = f.patientID
		a.StartTime = "09:00"
		a.EndTime = "10:00"
	})

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	req := &dto.CreateAppointmentGroupRequest{
		PatientID: f.patientID,
		Date:      "2025-06-02",
		StartTime: "09:30",
		Segments:  []dto.SegmentRequest{treatmentSegment(f.machineID, 30)},
	}
	_, err := f.uc.CreateGroup(f.ctx(), req)

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, service.ResourcePatient, conflictErr.Conflict.Kind)
	assert.Equal(t, -1, conflictErr.SegmentIndex)

	// the same booking goes through once the caller explicitly allows it
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	req.AllowPatientOverlap = true
	group, err := f.uc.CreateGroup(f.ctx(), req)
	require.NoError(t, err)
	assert.Len(t, group.Members, 1)
}

func TestCreateGroupValidation(t *testing.T) {
	f := newAppointmentFixture(t)

	segments := []dto.SegmentRequest{treatmentSegment(f.machineID, 30)}

	_, err := f.uc.CreateGroup(f.ctx(), &dto.CreateAppointmentGroupRequest{
		PatientID: f.patientID, Date: "06/02/2025", StartTime: "09:00", Segments: segments,
	})
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	_, err = f.uc.CreateGroup(f.ctx(), &dto.CreateAppointmentGroupRequest{
		PatientID: f.patientID, Date: "2025-06-02", StartTime: "9am", Segments: segments,
	})
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)

	_, err = f.uc.CreateGroup(f.ctx(), &dto.CreateAppointmentGroupRequest{
		PatientID: f.patientID, Date: "2025-06-02", StartTime: "09:00",
	})
	assert.ErrorIs(t, err, ErrNoSegments)

	tooMany := make([]dto.SegmentRequest, 11)
	for i := range tooMany {
		tooMany[i] = treatmentSegment(f.machineID, 15)
	}
	_, err = f.uc.CreateGroup(f.ctx(), &dto.CreateAppointmentGroupRequest{
		PatientID: f.patientID, Date: "2025-06-02", StartTime: "09:00", Segments: tooMany,
	})
	assert.ErrorIs(t, err, ErrTooManySegments)
}

func TestCreateGroupUnknownPatient(t *testing.T) {
	f := newAppointmentFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.uc.CreateGroup(f.ctx(), &dto.CreateAppointmentGroupRequest{
		PatientID: uuid.New(),
		Date:      "2025-06-02",
		StartTime: "09:00",
		Segments:  []dto.SegmentRequest{treatmentSegment(f.machineID, 30)},
	})
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestCreateGroupConsultationNeedsProvider(t *testing.T) {
	f := newAppointmentFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.uc.CreateGroup(f.ctx(), &dto.CreateAppointmentGroupRequest{
		PatientID: f.patientID,
		Date:      "2025-06-02",
		StartTime: "09:00",
		Segments: []dto.SegmentRequest{{
			Category:        string(entity.CategoryConsultation),
			DurationMinutes: 30,
		}},
	})
	assert.ErrorIs(t, err, ErrProviderRequired)
}

func TestCreateGroupCatalogDefaults(t *testing.T) {
	f := newAppointmentFixture(t)

	serviceID := uuid.New()
	f.treatments.treatments[serviceID] = entity.Treatment{
		ID: serviceID, ClinicID: f.clinicID, Name: "Hydrafacial",
		DefaultDurationMinutes: 45, Overlappable: true,
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	// duration comes from the catalog; the machine is dropped because the
	// treatment is overlappable
	group, err := f.uc.CreateGroup(f.ctx(), &dto.CreateAppointmentGroupRequest{
		PatientID: f.patientID,
		Date:      "2025-06-02",
		StartTime: "10:00",
		Segments: []dto.SegmentRequest{{
			Category:  string(entity.CategoryTreatment),
			ServiceID: &serviceID,
			MachineID: &f.machineID,
		}},
	})
	require.NoError(t, err)
	require.Len(t, group.Members, 1)
	assert.Equal(t, 45, group.Members[0].DurationMinutes)
	assert.Equal(t, "10:45", group.Members[0].EndTime)
	assert.Nil(t, group.Members[0].MachineID)
}

func TestCreateGroupNonOverlappableNeedsMachine(t *testing.T) {
	f := newAppointmentFixture(t)

	serviceID := uuid.New()
	f.treatments.treatments[serviceID] = entity.Treatment{
		ID: serviceID, ClinicID: f.clinicID, Name: "CO2 Laser",
		DefaultDurationMinutes: 30, Overlappable: false,
	}

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.uc.CreateGroup(f.ctx(), &dto.CreateAppointmentGroupRequest{
		PatientID: f.patientID,
		Date:      "2025-06-02",
		StartTime: "10:00",
		Segments: []dto.SegmentRequest{{
			Category:  string(entity.CategoryTreatment),
			ServiceID: &serviceID,
		}},
	})
	assert.ErrorIs(t, err, ErrMachineRequired)
}

func TestCreateGroupTreatmentNeedsMachineOrService(t *testing.T) {
	f := newAppointmentFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	// a treatment with no catalog entry has no overlappable flag to exempt
	// it, so it must name the machine it occupies
	_, err := f.uc.CreateGroup(f.ctx(), &dto.CreateAppointmentGroupRequest{
		PatientID: f.patientID,
		Date:      "2025-06-02",
		StartTime: "09:00",
		Segments: []dto.SegmentRequest{{
			Category:        string(entity.CategoryTreatment),
			DurationMinutes: 30,
		}},
	})
	assert.ErrorIs(t, err, ErrMachineRequired)
	assert.Empty(t, f.repo.appointments)
}

func TestRescheduleGroupMovesWholeChain(t *testing.T) {
	f := newAppointmentFixture(t)
	groupID := f.seedGroup([]int{30, 20}, "09:00")

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	group, err := f.uc.RescheduleGroup(f.ctx(), groupID, &dto.RescheduleGroupRequest{
		StartTime: "14:00",
	})
	require.NoError(t, err)
	require.Len(t, group.Members, 2)
	assert.Equal(t, "14:00", group.Members[0].StartTime)
	assert.Equal(t, "14:30", group.Members[0].EndTime)
	assert.Equal(t, "14:30", group.Members[1].StartTime)
	assert.Equal(t, "14:50", group.Members[1].EndTime)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, entity.AuditActionAppointmentReschedule, f.audit.entries[0].Action)
}

func TestRescheduleGroupIgnoresOwnRows(t *testing.T) {
	f := newAppointmentFixture(t)
	groupID := f.seedGroup([]int{60}, "09:00")

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	// shifting by 15 minutes overlaps the group's own current window; that
	// must not count as a conflict
	group, err := f.uc.RescheduleGroup(f.ctx(), groupID, &dto.RescheduleGroupRequest{
		StartTime: "09:15",
	})
	require.NoError(t, err)
	assert.Equal(t, "09:15", group.Members[0].StartTime)
	assert.Equal(t, "10:15", group.Members[0].EndTime)
}

func TestRescheduleGroupConflictLeavesGroupUntouched(t *testing.T) {
	f := newAppointmentFixture(t)
	groupID := f.seedGroup([]int{30}, "09:00")
	f.seedBooking(func(a *entity.Appointment) {
		a.MachineID = &f.machineID
		a.StartTime = "14:00"
		a.EndTime = "15:00"
	})

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.uc.RescheduleGroup(f.ctx(), groupID, &dto.RescheduleGroupRequest{
		StartTime: "14:00",
	})

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)

	members, findErr := f.repo.FindGroup(nil, f.clinicID, groupID)
	require.NoError(t, findErr)
	assert.Equal(t, "09:00", members[0].StartTime)
}

func TestRescheduleGroupAppendPromotesStandalone(t *testing.T) {
	f := newAppointmentFixture(t)
	groupID := f.seedGroup([]int{30}, "09:00")

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	machineB := uuid.New()
	f.seedMachine(machineB)

	group, err := f.uc.RescheduleGroup(f.ctx(), groupID, &dto.RescheduleGroupRequest{
		AppendSegments: []dto.SegmentRequest{treatmentSegment(machineB, 20)},
	})
	require.NoError(t, err)
	require.Len(t, group.Members, 2)

	first := group.Members[0]
	require.NotNil(t, first.LinkSequence)
	assert.Equal(t, 1, *first.LinkSequence)

	appended := group.Members[1]
	assert.Equal(t, "09:30", appended.StartTime)
	assert.Equal(t, "09:50", appended.EndTime)
	require.NotNil(t, appended.LinkedAppointmentID)
	assert.Equal(t, groupID, *appended.LinkedAppointmentID)
	require.NotNil(t, appended.LinkSequence)
	assert.Equal(t, 2, *appended.LinkSequence)
}

func TestRescheduleGroupStatusAppliesGroupWide(t *testing.T) {
	f := newAppointmentFixture(t)
	groupID := f.seedGroup([]int{30, 20}, "09:00")

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	status := string(entity.StatusConfirmed)
	group, err := f.uc.RescheduleGroup(f.ctx(), groupID, &dto.RescheduleGroupRequest{
		Status: &status,
	})
	require.NoError(t, err)
	require.Len(t, group.Members, 2)
	for _, m := range group.Members {
		assert.Equal(t, string(entity.StatusConfirmed), m.Status)
		require.NotNil(t, m.ConfirmedBy)
		assert.Equal(t, f.userID, *m.ConfirmedBy)
	}
}

func TestRescheduleGroupStatusRejectsTerminal(t *testing.T) {
	f := newAppointmentFixture(t)
	groupID := f.seedGroup([]int{30}, "09:00")
	f.repo.appointments[0].Status = entity.StatusCompleted

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	status := string(entity.StatusConfirmed)
	_, err := f.uc.RescheduleGroup(f.ctx(), groupID, &dto.RescheduleGroupRequest{
		Status: &status,
	})
	assert.ErrorIs(t, err, ErrTerminalState)
	assert.Equal(t, entity.StatusCompleted, f.repo.appointments[0].Status)
}

func TestRescheduleGroupStatusInvalidTransition(t *testing.T) {
	f := newAppointmentFixture(t)
	groupID := f.seedGroup([]int{30}, "09:00")

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	// a scheduled booking cannot jump straight to completed
	status := string(entity.StatusCompleted)
	_, err := f.uc.RescheduleGroup(f.ctx(), groupID, &dto.RescheduleGroupRequest{
		Status: &status,
	})
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestRescheduleGroupNotFound(t *testing.T) {
	f := newAppointmentFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.uc.RescheduleGroup(f.ctx(), uuid.New(), &dto.RescheduleGroupRequest{StartTime: "10:00"})
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestCancelGroupFreesResources(t *testing.T) {
	f := newAppointmentFixture(t)
	groupID := f.seedGroup([]int{30, 20}, "09:00")

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	require.NoError(t, f.uc.CancelGroup(f.ctx(), groupID, "patient request"))

	members, err := f.repo.FindGroup(nil, f.clinicID, groupID)
	require.NoError(t, err)
	for _, m := range members {
		assert.Equal(t, entity.StatusCancelled, m.Status)
		assert.Contains(t, m.Notes, "Cancelled: patient request")
	}

	// the machine windows are free again
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	_, err = f.uc.CreateGroup(f.ctx(), &dto.CreateAppointmentGroupRequest{
		PatientID: f.patientID,
		Date:      "2025-06-02",
		StartTime: "09:00",
		Segments:  []dto.SegmentRequest{treatmentSegment(f.machineID, 30)},
	})
	require.NoError(t, err)
}

func TestCancelGroupTwiceIsStateConflict(t *testing.T) {
	f := newAppointmentFixture(t)
	groupID := f.seedGroup([]int{30}, "09:00")

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	require.NoError(t, f.uc.CancelGroup(f.ctx(), groupID, ""))

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	err := f.uc.CancelGroup(f.ctx(), groupID, "")
	assert.ErrorIs(t, err, ErrGroupCancelled)
}

func TestGetGroupNotFound(t *testing.T) {
	f := newAppointmentFixture(t)

	_, err := f.uc.GetGroup(f.ctx(), uuid.New())
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestListByDate(t *testing.T) {
	f := newAppointmentFixture(t)
	f.seedBooking(func(a *entity.Appointment) {
		a.StartTime = "09:00"
		a.EndTime = "09:30"
	})

	list, err := f.uc.ListByDate(f.ctx(), "2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	list, err = f.uc.ListByDate(f.ctx(), "2025-06-03")
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)

	_, err = f.uc.ListByDate(f.ctx(), "yesterday")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

// seedBooking inserts one scheduled booking on 2025-06-02, customized by fn.
func (f *appointmentFixture) seedBooking(fn func(*entity.Appointment)) uuid.UUID {
	a := entity.Appointment{
		ID:        uuid.New(),
		ClinicID:  f.clinicID,
		Category:  entity.CategoryTreatment,
		Date:      time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "10:00",
		PatientID: uuid.New(),
		Status:    entity.StatusScheduled,
	}
	fn(&a)
	f.repo.appointments = append(f.repo.appointments, a)
	return a.ID
}

// seedGroup inserts a chained group on 2025-06-02 using the fixture machine
// and patient, returning the group id.
func (f *appointmentFixture) seedGroup(durations []int, start string) uuid.UUID {
	firstID := uuid.New()
	cursorStart := start
	for i, d := range durations {
		end := addMinutesOrPanic(cursorStart, d)
		a := entity.Appointment{
			ID:              firstID,
			ClinicID:        f.clinicID,
			Category:        entity.CategoryTreatment,
			Date:            time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			StartTime:       cursorStart,
			EndTime:         end,
			DurationMinutes: d,
			PatientID:       f.patientID,
			MachineID:       &f.machineID,
			Status:          entity.StatusScheduled,
		}
		if len(durations) > 1 {
			seq := i + 1
			a.LinkSequence = &seq
			if i > 0 {
				a.ID = uuid.New()
				linked := firstID
				a.LinkedAppointmentID = &linked
			}
		}
		f.repo.appointments = append(f.repo.appointments, a)
		cursorStart = end
	}
	return firstID
}

func (f *appointmentFixture) seedMachine(id uuid.UUID) {
	f.machines.machines[id] = entity.Machine{ID: id, ClinicID: f.clinicID, Name: "Laser B"}
}

func addMinutesOrPanic(start string, minutes int) string {
	parsed, err := time.Parse("15:04", start)
	if err != nil {
		panic(err)
	}
	return parsed.Add(time.Duration(minutes) * time.Minute).Format("15:04")
}
