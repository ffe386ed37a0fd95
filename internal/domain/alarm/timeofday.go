package alarm

import (
	"fmt"
	"time"
)

const (
	// minutesPerHour is the number of minutes in an hour.
	minutesPerHour = 60
	// hoursPerDay is the number of hours in a day.
	hoursPerDay = 24
)

// errInvalidTimeOfDay is returned when a time-of-day string cannot be parsed.
var errInvalidTimeOfDay = fmt.Errorf("%w: time of day must look like HH:MM", ErrInvalidArgument)

// TimeOfDay is an hour:minute value without a date component.
type TimeOfDay struct {
	// Hour is in the range [0, 23].
	Hour int
	// Minute is in the range [0, 59].
	Minute int
}

// NewTimeOfDay builds a TimeOfDay, rejecting out-of-range components.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour >= hoursPerDay || minute < 0 || minute >= minutesPerHour {
		return TimeOfDay{}, fmt.Errorf("%w: got %02d:%02d", errInvalidTimeOfDay, hour, minute)
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS" (seconds are dropped).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
		}
	}

	return TimeOfDay{}, fmt.Errorf("%w: %q", errInvalidTimeOfDay, s)
}

// TimeOfDayOf extracts the wall-clock hour and minute of t in its own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*minutesPerHour + t.Minute
}

// Before reports whether t is earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// Distance is the absolute difference between two times of day treated as
// plain magnitudes. It does not wrap around midnight: 23:58 and 00:02 are
// 23h56m apart, not 4 minutes.
func (t TimeOfDay) Distance(other TimeOfDay) time.Duration {
	diff := t.Minutes() - other.Minutes()
	if diff < 0 {
		diff = -diff
	}

	return time.Duration(diff) * time.Minute
}

// String renders the value as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
