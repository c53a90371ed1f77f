// Package leads serializes finished conversations into lead records and
// hands them to a persistence sink. Persistence is best-effort: a sink
// failure is logged and reported, never escalated.
package leads

import (
	"context"
	"strings"
	"time"

	"github.com/groweasy/lead-agent/internal/domain"
	"github.com/groweasy/lead-agent/internal/observability"
)

type Recorder struct {
	sink domain.LeadSink
	now  func() time.Time
}

func NewRecorder(sink domain.LeadSink) *Recorder {
	return &Recorder{
		sink: sink,
		now:  time.Now,
	}
}

// Record flattens the transcript and classification into a row and
// appends it to the sink. Returns false when persistence failed or no
// sink is configured; the caller's classification is unaffected either
// way and no retry happens here.
func (r *Recorder) Record(ctx context.Context, t *domain.Transcript, c *domain.Classification) bool {
	log := observability.LoggerFromContext(ctx)

	if r.sink == nil {
		log.Info("no lead sink configured, skipping lead persistence")
		return false
	}
	if c == nil {
		log.Warn("lead record requested without classification, skipping")
		return false
	}

	metadata := make(map[string]string, len(c.Metadata))
	for k, v := range c.Metadata {
		metadata[k] = neutralize(v)
	}

	record := domain.LeadRecord{
		Timestamp:            r.now(),
		Status:               c.Status,
		Confidence:           c.Confidence,
		Reasoning:            neutralize(c.Reasoning),
		Metadata:             metadata,
		TranscriptLength:     t.Len(),
		SerializedTranscript: serializeTranscript(t),
	}

	if err := r.sink.Append(ctx, record); err != nil {
		log.Error("failed to persist lead", "status", c.Status, "error", err)
		return false
	}

	log.Info("lead persisted", "status", c.Status, "transcript_length", record.TranscriptLength)
	return true
}

// serializeTranscript renders the conversation as a single row-safe
// field: "role: content | role: content".
func serializeTranscript(t *domain.Transcript) string {
	parts := make([]string, 0, t.Len())
	for _, turn := range t.Turns() {
		parts = append(parts, string(turn.Role)+": "+neutralize(turn.Content))
	}
	return strings.Join(parts, " | ")
}

// neutralize strips the characters that corrupt row-oriented text
// formats: newlines become spaces, double quotes are doubled.
func neutralize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, `"`, `""`)
	return strings.TrimSpace(s)
}
