package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DayHours is one weekday's operating window. A closed day has Open == false.
type DayHours struct {
	Open     bool   `json:"open"`
	OpensAt  string `json:"opens_at"`  // HH:MM
	ClosesAt string `json:"closes_at"` // HH:MM
}

// WeekHours maps weekday name (lowercase English) to hours.
type WeekHours map[string]DayHours

// Value implements driver.Valuer for JSONB storage
func (w WeekHours) Value() (driver.Value, error) {
	if len(w) == 0 {
		return nil, nil
	}
	return json.Marshal(w)
}

// Scan implements sql.Scanner
func (w *WeekHours) Scan(value interface{}) error {
	if value == nil {
		*w = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}
	result := WeekHours{}
	err := json.Unmarshal(bytes, &result)
	*w = result
	return err
}

// DateList is a JSONB-stored list of YYYY-MM-DD strings (closed dates,
// holidays).
type DateList []string

// Value implements driver.Valuer
func (d DateList) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner
func (d *DateList) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}
	result := DateList{}
	err := json.Unmarshal(bytes, &result)
	*d = result
	return err
}

// Contains checks whether the list holds the given date.
func (d DateList) Contains(date time.Time) bool {
	formatted := date.Format("2006-01-02")
	for _, entry := range d {
		if entry == formatted {
			return true
		}
	}
	return false
}

// ClinicSettings holds per-clinic scheduling configuration: operating hours,
// closed dates and the slot granularity used by slot search.
type ClinicSettings struct {
	ClinicID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"clinic_id"`
	OperatingHours      WeekHours `gorm:"type:jsonb" json:"operating_hours"`
	ClosedDates         DateList  `gorm:"type:jsonb" json:"closed_dates"`
	SlotIntervalMinutes int       `gorm:"not null;default:15" json:"slot_interval_minutes"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ClinicSettings) TableName() string {
	return "clinic_settings"
}

// HoursFor returns the operating window for a calendar date, honoring both
// the weekly pattern and the closed-date list.
func (s *ClinicSettings) HoursFor(date time.Time) (DayHours, bool) {
	if s.ClosedDates.Contains(date) {
		return DayHours{}, false
	}
	day, ok := s.OperatingHours[weekdayKey(date.Weekday())]
	if !ok || !day.Open {
		return DayHours{}, false
	}
	return day, true
}

func weekdayKey(d time.Weekday) string {
	switch d {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}
