package domain

import "strings"

// notStressedMarkers are the substrings that mark an inference result as a
// no-stress outcome. Checked before the generic "stress" match, so
// "No Stress detected" never reads as Stressed.
var notStressedMarkers = []string{
	"not stress",
	"no stress",
	"not stressed",
	"no-stress",
}

// Classify maps a free-text inference result to a binary condition.
// The rules are an ordered list, evaluated top-down:
//  1. text contains a no-stress marker, or equals exactly "normal" -> NotStressed
//  2. text contains "stress" -> Stressed
//  3. anything else -> Stressed
//
// The final default is deliberate: the oracle returns unconstrained text, and
// an unrecognizable result is treated as an alert condition rather than
// silently downgraded. Classify is total; it never fails.
func Classify(raw string) ConditionLabel {
	text := strings.ToLower(strings.TrimSpace(raw))

	for _, marker := range notStressedMarkers {
		if strings.Contains(text, marker) {
			return ConditionNotStressed
		}
	}
	if text == "normal" {
		return ConditionNotStressed
	}
	if strings.Contains(text, "stress") {
		return ConditionStressed
	}
	return ConditionStressed
}
