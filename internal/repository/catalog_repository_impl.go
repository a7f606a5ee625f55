package repository

import (
	"errors"

	"go-clinic-scheduling/internal/domain/entity"
	domainRepo "go-clinic-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type treatmentRepository struct{}

func NewTreatmentRepository() domainRepo.TreatmentRepository {
	return &treatmentRepository{}
}

func (r *treatmentRepository) FindByID(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Treatment, error) {
	var treatment entity.Treatment
	err := db.Where("clinic_id = ? AND id = ? AND is_active = ?", clinicID, id, true).First(&treatment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &treatment, nil
}

func (r *treatmentRepository) FindAll(db *gorm.DB, clinicID uuid.UUID) ([]entity.Treatment, error) {
	var treatments []entity.Treatment
	err := db.Where("clinic_id = ? AND is_active = ?", clinicID, true).
		Order("name ASC").
		Find(&treatments).Error
	if err != nil {
		return nil, err
	}
	return treatments, nil
}

type machineRepository struct{}

func NewMachineRepository() domainRepo.MachineRepository {
	return &machineRepository{}
}

func (r *machineRepository) FindByID(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Machine, error) {
	var machine entity.Machine
	err := db.Where("clinic_id = ? AND id = ? AND is_active = ?", clinicID, id, true).First(&machine).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &machine, nil
}

func (r *machineRepository) FindAll(db *gorm.DB, clinicID uuid.UUID) ([]entity.Machine, error) {
	var machines []entity.Machine
	err := db.Where("clinic_id = ? AND is_active = ?", clinicID, true).
		Order("name ASC").
		Find(&machines).Error
	if err != nil {
		return nil, err
	}
	return machines, nil
}

type providerRepository struct{}

func NewProviderRepository() domainRepo.ProviderRepository {
	return &providerRepository{}
}

func (r *providerRepository) FindByID(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Provider, error) {
	var provider entity.Provider
	err := db.Where("clinic_id = ? AND id = ? AND is_active = ?", clinicID, id, true).First(&provider).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &provider, nil
}

func (r *providerRepository) FindAll(db *gorm.DB, clinicID uuid.UUID) ([]entity.Provider, error) {
	var providers []entity.Provider
	err := db.Where("clinic_id = ? AND is_active = ?", clinicID, true).
		Order("name ASC").
		Find(&providers).Error
	if err != nil {
		return nil, err
	}
	return providers, nil
}

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) FindByID(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Where("clinic_id = ? AND id = ?", clinicID, id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

type clinicSettingsRepository struct{}

func NewClinicSettingsRepository() domainRepo.ClinicSettingsRepository {
	return &clinicSettingsRepository{}
}

func (r *clinicSettingsRepository) FindByClinicID(db *gorm.DB, clinicID uuid.UUID) (*entity.ClinicSettings, error) {
	var settings entity.ClinicSettings
	err := db.Where("clinic_id = ?", clinicID).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}
