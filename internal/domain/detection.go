package domain

import (
	"time"

	"github.com/google/uuid"
)

// DetectionRecord is one completed detection for a subject (corresponds to a
// row in the detections table). Records are immutable once created: the core
// never updates or deletes them, and a subject's derived condition is always
// recomputed from the full set rather than patched in place.
type DetectionRecord struct {
	DetectionID string `db:"detection_id" json:"detection_id"`
	SubjectID   string `db:"subject_id" json:"subject_id"`

	// Raw readings, already validated before the record exists.
	BVP  float64 `db:"bvp" json:"bvp"`
	EDA  float64 `db:"eda" json:"eda"`
	Temp float64 `db:"temperature" json:"temp"`

	Activity ActivityLevel `db:"activity" json:"activity"`

	// Result is the display string from the inference oracle; never empty
	// (the gateway substitutes a fallback for empty payloads).
	Result string `db:"result" json:"result"`
	// Advice is the oracle's optional advisory text; "" when absent.
	Advice string `db:"advice" json:"advice,omitempty"`

	// Timestamp is the instant of the reading, not the insertion time.
	// History ordering and the derived label both key on it.
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NewDetectionRecord builds an immutable record for a validated submission.
func NewDetectionRecord(subjectID string, v VitalSigns, activity ActivityLevel, result, advice string, at time.Time) DetectionRecord {
	return DetectionRecord{
		DetectionID: uuid.NewString(),
		SubjectID:   subjectID,
		BVP:         v.BVP,
		EDA:         v.EDA,
		Temp:        v.Temp,
		Activity:    activity,
		Result:      result,
		Advice:      advice,
		Timestamp:   at,
	}
}

// Condition classifies the record's display result.
func (r DetectionRecord) Condition() ConditionLabel {
	return Classify(r.Result)
}
