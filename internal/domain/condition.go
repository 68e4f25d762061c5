package domain

// ConditionLabel is the tri-state stress condition derived from a subject's
// detection history. A subject starts at NotYetMeasured and moves between
// Stressed and NotStressed as detections are appended; no other operation
// changes it.
type ConditionLabel string

const (
	ConditionStressed       ConditionLabel = "Stressed"
	ConditionNotStressed    ConditionLabel = "NotStressed"
	ConditionNotYetMeasured ConditionLabel = "NotYetMeasured"
)

// Valid reports whether the label is one of the three known values
// (used when reading back cached or stored labels).
func (c ConditionLabel) Valid() bool {
	switch c {
	case ConditionStressed, ConditionNotStressed, ConditionNotYetMeasured:
		return true
	}
	return false
}
