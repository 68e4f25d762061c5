package domain

// Subject is a monitored person (corresponds to a row in the subjects
// table). The detection core only reads SubjectID and overwrites Condition;
// the profile fields belong to the registry surface.
type Subject struct {
	SubjectID string `db:"subject_id" json:"subject_id"`
	Name      string `db:"name" json:"name"`
	Age       int    `db:"age" json:"age"`
	// Group is the subject's categorical cohort (e.g. "student", "staff").
	Group  string `db:"cohort" json:"group"`
	Gender string `db:"gender" json:"gender"`
	// ImageRef is an optional reference to an uploaded photo; "" when unset.
	ImageRef string `db:"image_ref" json:"image_ref,omitempty"`

	// Condition is the derived label cached on the subject. It is
	// denormalized read-state: authoritative truth is the detection history.
	Condition ConditionLabel `db:"condition" json:"condition"`
}
