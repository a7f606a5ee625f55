package repository

import (
	"go-clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TreatmentRepository interface {
	FindByID(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Treatment, error)
	FindAll(db *gorm.DB, clinicID uuid.UUID) ([]entity.Treatment, error)
}

type MachineRepository interface {
	FindByID(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Machine, error)
	FindAll(db *gorm.DB, clinicID uuid.UUID) ([]entity.Machine, error)
}

type ProviderRepository interface {
	FindByID(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Provider, error)
	FindAll(db *gorm.DB, clinicID uuid.UUID) ([]entity.Provider, error)
}

type PatientRepository interface {
	FindByID(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Patient, error)
}

type ClinicSettingsRepository interface {
	FindByClinicID(db *gorm.DB, clinicID uuid.UUID) (*entity.ClinicSettings, error)
}
