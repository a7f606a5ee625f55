package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"go-clinic-scheduling/config"
	"go-clinic-scheduling/internal/delivery/http/middleware"
	"go-clinic-scheduling/internal/domain/entity"
	"go-clinic-scheduling/internal/domain/repository"
	"go-clinic-scheduling/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB wraps gorm around sqlmock so transaction boundaries are real
// while all row access goes through the in-memory fakes.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testSchedulingConfig() config.SchedulingConfig {
	return config.SchedulingConfig{
		SlotIntervalMinutes: 15,
		MaxGroupSegments:    10,
		MinDurationMinutes:  5,
		MaxDurationMinutes:  480,
		ReminderLeadTime:    24 * time.Hour,
	}
}

// testReminderService points at an unreachable Redis; every operation is
// fire-and-continue, so failures are swallowed exactly as in production.
func testReminderService() *service.ReminderService {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	return service.NewReminderService(client, testLogger(), 24*time.Hour)
}

func tenantContext(clinicID, userID uuid.UUID) context.Context {
	ctx := context.WithValue(context.Background(), middleware.ClinicIDKey, clinicID)
	return context.WithValue(ctx, middleware.UserIDKey, userID)
}

// fakeAppointmentRepo is an in-memory AppointmentRepository mirroring the SQL
// implementation's overlap semantics, cancelled-row exclusion included.
type fakeAppointmentRepo struct {
	appointments []entity.Appointment
}

func (f *fakeAppointmentRepo) Create(_ *gorm.DB, a *entity.Appointment) error {
	f.appointments = append(f.appointments, *a)
	return nil
}

func (f *fakeAppointmentRepo) Update(_ *gorm.DB, a *entity.Appointment) error {
	for i := range f.appointments {
		if f.appointments[i].ID == a.ID {
			f.appointments[i] = *a
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeAppointmentRepo) FindByID(_ *gorm.DB, clinicID, id uuid.UUID) (*entity.Appointment, error) {
	for i := range f.appointments {
		if f.appointments[i].ClinicID == clinicID && f.appointments[i].ID == id {
			a := f.appointments[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeAppointmentRepo) FindGroup(_ *gorm.DB, clinicID, groupID uuid.UUID) ([]entity.Appointment, error) {
	var members []entity.Appointment
	for _, a := range f.appointments {
		if a.ClinicID != clinicID {
			continue
		}
		if a.ID == groupID || (a.LinkedAppointmentID != nil && *a.LinkedAppointmentID == groupID) {
			members = append(members, a)
		}
	}
	return members, nil
}

func (f *fakeAppointmentRepo) FindByDate(_ *gorm.DB, clinicID uuid.UUID, date time.Time) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range f.appointments {
		if a.ClinicID == clinicID && sameDate(a.Date, date) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) FindByPatient(_ *gorm.DB, clinicID, patientID uuid.UUID) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range f.appointments {
		if a.ClinicID == clinicID && a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) FindMachineOverlaps(_ *gorm.DB, clinicID, machineID uuid.UUID, filter repository.OverlapFilter) ([]entity.Appointment, error) {
	return f.overlaps(clinicID, filter, func(a entity.Appointment) bool {
		return a.MachineID != nil && *a.MachineID == machineID
	}), nil
}

func (f *fakeAppointmentRepo) FindProviderOverlaps(_ *gorm.DB, clinicID, providerID uuid.UUID, category entity.AppointmentCategory, filter repository.OverlapFilter) ([]entity.Appointment, error) {
	return f.overlaps(clinicID, filter, func(a entity.Appointment) bool {
		return a.ProviderID != nil && *a.ProviderID == providerID && a.Category == category
	}), nil
}

func (f *fakeAppointmentRepo) FindPatientOverlaps(_ *gorm.DB, clinicID, patientID uuid.UUID, filter repository.OverlapFilter) ([]entity.Appointment, error) {
	return f.overlaps(clinicID, filter, func(a entity.Appointment) bool {
		return a.PatientID == patientID
	}), nil
}

func (f *fakeAppointmentRepo) overlaps(clinicID uuid.UUID, filter repository.OverlapFilter, match func(entity.Appointment) bool) []entity.Appointment {
	var out []entity.Appointment
	for _, a := range f.appointments {
		if a.ClinicID != clinicID || a.Status == entity.StatusCancelled {
			continue
		}
		if !sameDate(a.Date, filter.Date) || !match(a) {
			continue
		}
		if a.StartTime >= filter.EndTime || filter.StartTime >= a.EndTime {
			continue
		}
		excluded := false
		for _, id := range filter.ExcludeIDs {
			if a.ID == id {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, a)
		}
	}
	return out
}

func sameDate(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

type fakePatientRepo struct {
	patients map[uuid.UUID]entity.Patient
}

func (f *fakePatientRepo) FindByID(_ *gorm.DB, clinicID, id uuid.UUID) (*entity.Patient, error) {
	if p, ok := f.patients[id]; ok && p.ClinicID == clinicID {
		return &p, nil
	}
	return nil, nil
}

type fakeProviderRepo struct {
	providers map[uuid.UUID]entity.Provider
}

func (f *fakeProviderRepo) FindByID(_ *gorm.DB, clinicID, id uuid.UUID) (*entity.Provider, error) {
	if p, ok := f.providers[id]; ok && p.ClinicID == clinicID {
		return &p, nil
	}
	return nil, nil
}

func (f *fakeProviderRepo) FindAll(_ *gorm.DB, clinicID uuid.UUID) ([]entity.Provider, error) {
	var out []entity.Provider
	for _, p := range f.providers {
		if p.ClinicID == clinicID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeMachineRepo struct {
	machines map[uuid.UUID]entity.Machine
}

func (f *fakeMachineRepo) FindByID(_ *gorm.DB, clinicID, id uuid.UUID) (*entity.Machine, error) {
	if m, ok := f.machines[id]; ok && m.ClinicID == clinicID {
		return &m, nil
	}
	return nil, nil
}

func (f *fakeMachineRepo) FindAll(_ *gorm.DB, clinicID uuid.UUID) ([]entity.Machine, error) {
	var out []entity.Machine
	for _, m := range f.machines {
		if m.ClinicID == clinicID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeTreatmentRepo struct {
	treatments map[uuid.UUID]entity.Treatment
}

func (f *fakeTreatmentRepo) FindByID(_ *gorm.DB, clinicID, id uuid.UUID) (*entity.Treatment, error) {
	if tr, ok := f.treatments[id]; ok && tr.ClinicID == clinicID {
		return &tr, nil
	}
	return nil, nil
}

func (f *fakeTreatmentRepo) FindAll(_ *gorm.DB, clinicID uuid.UUID) ([]entity.Treatment, error) {
	var out []entity.Treatment
	for _, tr := range f.treatments {
		if tr.ClinicID == clinicID {
			out = append(out, tr)
		}
	}
	return out, nil
}

type fakeSettingsRepo struct {
	settings *entity.ClinicSettings
}

func (f *fakeSettingsRepo) FindByClinicID(_ *gorm.DB, clinicID uuid.UUID) (*entity.ClinicSettings, error) {
	if f.settings != nil && f.settings.ClinicID == clinicID {
		return f.settings, nil
	}
	return nil, nil
}

type fakeAuditRepo struct {
	entries []entity.AuditLog
}

func (f *fakeAuditRepo) Create(_ *gorm.DB, log *entity.AuditLog) error {
	f.entries = append(f.entries, *log)
	return nil
}

func (f *fakeAuditRepo) FindAll(_ *gorm.DB, clinicID uuid.UUID) ([]entity.AuditLog, error) {
	var out []entity.AuditLog
	for _, e := range f.entries {
		if e.ClinicID == clinicID {
			out = append(out, e)
		}
	}
	return out, nil
}

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }
