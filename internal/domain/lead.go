package domain

import "time"

// LeadRecord is the flattened, escape-safe row handed to a lead sink
// once a conversation finishes.
type LeadRecord struct {
	Timestamp            time.Time
	Status               ClassificationStatus
	Confidence           float64
	Reasoning            string
	Metadata             map[string]string
	TranscriptLength     int
	SerializedTranscript string
}
