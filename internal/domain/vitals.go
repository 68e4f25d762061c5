package domain

import (
	"errors"
	"fmt"
	"math"
)

// Validation failures for raw readings. All of them are detected before any
// network or storage effect, so a rejected submission can always be retried.
var (
	ErrInvalidNumeric  = errors.New("reading is not a finite number")
	ErrOutOfRange      = errors.New("reading outside physiological range")
	ErrMissingActivity = errors.New("activity level missing or not recognized")
)

// Accepted ranges for raw readings (inclusive, units as supplied by the
// wearable: BVP proxy voltage, EDA in microsiemens, temperature in Celsius).
const (
	BVPMin  = -500.0
	BVPMax  = 1500.0
	EDAMin  = 0.0
	EDAMax  = 100.0
	TempMin = 25.0
	TempMax = 43.0
)

// VitalSigns is one raw physiological sample: blood-volume-pulse proxy
// voltage, electrodermal activity and body temperature.
type VitalSigns struct {
	BVP  float64 `json:"bvp"`
	EDA  float64 `json:"eda"`
	Temp float64 `json:"temp"`
}

// Validate checks every reading for finiteness first, then for the accepted
// range. Pure; no side effects.
func (v VitalSigns) Validate() error {
	for _, r := range []struct {
		name     string
		value    float64
		min, max float64
	}{
		{"bvp", v.BVP, BVPMin, BVPMax},
		{"eda", v.EDA, EDAMin, EDAMax},
		{"temp", v.Temp, TempMin, TempMax},
	} {
		if math.IsNaN(r.value) || math.IsInf(r.value, 0) {
			return fmt.Errorf("%s: %w", r.name, ErrInvalidNumeric)
		}
		if r.value < r.min || r.value > r.max {
			return fmt.Errorf("%s %.2f not in [%.0f, %.0f]: %w", r.name, r.value, r.min, r.max, ErrOutOfRange)
		}
	}
	return nil
}

// ValidateSubmission validates a full raw submission: the three readings and
// the activity token. An empty or unrecognized token fails with
// ErrMissingActivity; the stricter ErrUnknownActivity is reserved for the
// encoder boundary. On success it returns the parsed activity level.
func ValidateSubmission(v VitalSigns, activity string) (ActivityLevel, error) {
	if err := v.Validate(); err != nil {
		return 0, err
	}
	level, err := ParseActivityLevel(activity)
	if err != nil {
		return 0, fmt.Errorf("activity %q: %w", activity, ErrMissingActivity)
	}
	return level, nil
}
