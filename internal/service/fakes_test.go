package service

import (
	"io"
	"time"

	"go-clinic-scheduling/internal/domain/entity"
	"go-clinic-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// fakeAppointmentRepo is an in-memory AppointmentRepository. The *gorm.DB
// handle is ignored; overlap semantics mirror the SQL implementation,
// including the half-open window test and the cancelled-row exclusion.
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

// fakeSettingsRepo serves one clinic's settings.
type fakeSettingsRepo struct {
	settings *entity.ClinicSettings
}

func (f *fakeSettingsRepo) FindByClinicID(_ *gorm.DB, clinicID uuid.UUID) (*entity.ClinicSettings, error) {
	if f.settings != nil && f.settings.ClinicID == clinicID {
		return f.settings, nil
	}
	return nil, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }
