package domain

import "strings"

// ClassificationStatus is the canonical category set. Any label the
// generation service invents must be normalized into this set or the
// classification falls back to StatusInvalid.
type ClassificationStatus string

const (
	StatusHot     ClassificationStatus = "hot"
	StatusWarm    ClassificationStatus = "warm"
	StatusCold    ClassificationStatus = "cold"
	StatusInvalid ClassificationStatus = "invalid"
)

// CanonicalStatuses in the order prompts present them.
var CanonicalStatuses = []ClassificationStatus{StatusHot, StatusWarm, StatusCold, StatusInvalid}

// Classification is the final verdict on a completed conversation.
// Created at most once per conversation and immutable afterwards.
type Classification struct {
	Status     ClassificationStatus `json:"status"`
	Confidence float64              `json:"confidence"`
	Reasoning  string               `json:"reasoning"`

	// Metadata maps criterion name to the value extracted from the
	// conversation, empty string when not provided.
	Metadata map[string]string `json:"metadata"`
}

// NormalizeStatus maps any recognized label variant onto the canonical
// set. The generation service sometimes answers with finer-grained labels
// (hot_premium, warm_nurture, cold_long_term, invalid_spam); substring
// containment folds those in. Unrecognized labels report ok=false.
func NormalizeStatus(raw string) (ClassificationStatus, bool) {
	label := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case label == "":
		return StatusInvalid, false
	case strings.Contains(label, "hot"):
		return StatusHot, true
	case strings.Contains(label, "warm"):
		return StatusWarm, true
	case strings.Contains(label, "cold"):
		return StatusCold, true
	case strings.Contains(label, "invalid"), strings.Contains(label, "spam"):
		return StatusInvalid, true
	default:
		return StatusInvalid, false
	}
}
