package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Treatment is a catalog entry for a bookable service. Overlappable
// treatments do not occupy exclusive machine time and skip machine conflict
// checks entirely.
type Treatment struct {
	ID                     uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID               uuid.UUID       `gorm:"type:uuid;not null;index" json:"clinic_id"`
	Name                   string          `gorm:"type:varchar(255);not null" json:"name"`
	Description            string          `gorm:"type:text" json:"description"`
	DefaultDurationMinutes int             `gorm:"not null" json:"default_duration_minutes"`
	Overlappable           bool            `gorm:"not null;default:false" json:"overlappable"`
	Price                  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	IsActive               bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt              time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Treatment) TableName() string {
	return "treatments"
}
