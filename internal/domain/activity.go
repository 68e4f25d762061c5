package domain

import (
	"errors"
	"strings"
)

// ErrUnknownActivity is returned when raw text does not name one of the four
// recognized activity levels. ParseActivityLevel is the only place raw text
// becomes an ActivityLevel, so code holding an ActivityLevel can rely on it
// being one of the four constants.
var ErrUnknownActivity = errors.New("unknown activity level")

// ActivityLevel is the categorical movement-intensity of a reading.
type ActivityLevel int

const (
	ActivityNone ActivityLevel = iota
	ActivityLow
	ActivityMedium
	ActivityHigh
)

// ActivityVector is the fixed 3-axis accelerometer encoding attached to the
// inference payload in place of real accelerometer samples.
type ActivityVector struct {
	X int
	Y int
	Z int
}

// ParseActivityLevel matches a raw activity token (case-insensitive,
// surrounding whitespace ignored) against the four recognized levels.
func ParseActivityLevel(token string) (ActivityLevel, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "no activity":
		return ActivityNone, nil
	case "low activity":
		return ActivityLow, nil
	case "medium activity":
		return ActivityMedium, nil
	case "high activity":
		return ActivityHigh, nil
	}
	return 0, ErrUnknownActivity
}

func (a ActivityLevel) String() string {
	switch a {
	case ActivityNone:
		return "no activity"
	case ActivityLow:
		return "low activity"
	case ActivityMedium:
		return "medium activity"
	case ActivityHigh:
		return "high activity"
	}
	return "unknown"
}

// Vector returns the fixed encoding for the level. The table is a closed
// enumeration; there is no interpolation and no fallback row.
func (a ActivityLevel) Vector() ActivityVector {
	switch a {
	case ActivityNone:
		return ActivityVector{X: -42, Y: -25, Z: -4}
	case ActivityLow:
		return ActivityVector{X: -11, Y: 0, Z: 12}
	case ActivityMedium:
		return ActivityVector{X: 40, Y: 22, Z: 26}
	case ActivityHigh:
		return ActivityVector{X: 57, Y: 57, Z: 45}
	}
	// Unreachable for levels produced by ParseActivityLevel.
	return ActivityVector{}
}
