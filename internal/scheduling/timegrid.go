package scheduling

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimeOfDay = errors.New("invalid time of day, use HH:MM")
	ErrChainPastClose   = errors.New("segment chain runs past end of day")
)

const minutesPerDay = 24 * 60

// Window is a half-open [Start, End) interval within a single day,
// both bounds zero-padded HH:MM strings.
type Window struct {
	Start string
	End   string
}

// MinuteOfDay converts a zero-padded HH:MM string to its minute offset
// from midnight.
func MinuteOfDay(t string) (int, error) {
	// time.Parse accepts unpadded hours ("9:00"); the canonical form must be
	// exactly five characters so lexicographic comparison stays chronological.
	if len(t) != 5 {
		return 0, ErrInvalidTimeOfDay
	}
	parsed, err := time.Parse("15:04", t)
	if err != nil {
		return 0, ErrInvalidTimeOfDay
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// FormatMinute converts a minute offset back to a zero-padded HH:MM string.
func FormatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// AddMinutes computes the end of a window starting at t with the given
// duration. The result must stay within the same day.
func AddMinutes(t string, durationMinutes int) (string, error) {
	start, err := MinuteOfDay(t)
	if err != nil {
		return "", err
	}
	end := start + durationMinutes
	if end > minutesPerDay {
		return "", ErrChainPastClose
	}
	return FormatMinute(end), nil
}

// ChainWindows computes back-to-back windows for an ordered list of segment
// durations: segment n starts where segment n-1 ends.
func ChainWindows(start string, durations []int) ([]Window, error) {
	cursor, err := MinuteOfDay(start)
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(durations))
	for _, d := range durations {
		if d <= 0 {
			return nil, fmt.Errorf("segment duration must be positive, got %d", d)
		}
		end := cursor + d
		if end > minutesPerDay {
			return nil, ErrChainPastClose
		}
		windows = append(windows, Window{
			Start: FormatMinute(cursor),
			End:   FormatMinute(end),
		})
		cursor = end
	}
	return windows, nil
}

// Overlaps reports whether two half-open windows intersect.
// Zero-padded HH:MM strings compare lexicographically in chronological
// order, so a.Start < b.End && b.Start < a.End is the standard interval test.
func Overlaps(a, b Window) bool {
	return a.Start < b.End && b.Start < a.End
}
