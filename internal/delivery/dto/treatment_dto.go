package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TreatmentResponse struct {
	ID                     uuid.UUID       `json:"id"`
	Name                   string          `json:"name"`
	Description            string          `json:"description,omitempty"`
	DefaultDurationMinutes int             `json:"default_duration_minutes"`
	Overlappable           bool            `json:"overlappable"`
	Price                  decimal.Decimal `json:"price"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

type TreatmentListResponse struct {
	Treatments []TreatmentResponse `json:"treatments"`
	Total      int                 `json:"total"`
}
