package usecase

import (
	"errors"
	"fmt"

	"go-clinic-scheduling/internal/service"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// Validation
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidTimeFormat = errors.New("invalid time format, use HH:MM")
	ErrInvalidCategory   = errors.New("category must be treatment or consultation")
	ErrInvalidDuration   = errors.New("duration is out of bounds")
	ErrTooManySegments   = errors.New("too many segments in one group")
	ErrNoSegments        = errors.New("at least one segment is required")
	ErrProviderRequired  = errors.New("consultations require a provider")
	ErrMachineRequired   = errors.New("non-overlappable treatments require a machine")

	// Not found
	ErrPatientNotFound     = errors.New("patient not found")
	ErrProviderNotFound    = errors.New("provider not found")
	ErrMachineNotFound     = errors.New("machine not found")
	ErrTreatmentNotFound   = errors.New("treatment not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrGroupNotFound       = errors.New("appointment group not found")

	// State conflicts
	ErrGroupCancelled          = errors.New("appointment group is already cancelled")
	ErrTerminalState           = errors.New("appointment is in a terminal state")
	ErrInvalidStatusTransition = errors.New("status transition is not allowed")

	// Late-detected race at commit time; retryable by the caller
	ErrStorageConflict = errors.New("concurrent scheduling conflict, please retry")
)

// ConflictError reports a resource conflict found by the conflict detector:
// which segment failed (index into the request, -1 for a patient-wide or
// whole-group check) and which existing bookings block it.
type ConflictError struct {
	SegmentIndex int               `json:"segment_index"`
	Conflict     *service.Conflict `json:"conflict"`
}

func (e *ConflictError) Error() string {
	if e.SegmentIndex >= 0 {
		return fmt.Sprintf("%s %s conflicts with existing bookings at segment %d",
			e.Conflict.Kind, e.Conflict.ResourceID, e.SegmentIndex)
	}
	return fmt.Sprintf("%s %s conflicts with existing bookings",
		e.Conflict.Kind, e.Conflict.ResourceID)
}

// translateStorageError maps driver errors from a lost read-then-write race
// (exclusion constraint violation, serialization failure) to the same
// conflict shape as an early detection.
func translateStorageError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23P01", "40001":
			return ErrStorageConflict
		}
	}
	return err
}
