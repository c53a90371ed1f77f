package leads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groweasy/lead-agent/internal/domain"
)

type captureSink struct {
	records []domain.LeadRecord
	err     error
}

func (s *captureSink) Append(ctx context.Context, record domain.LeadRecord) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

func classified() *domain.Classification {
	return &domain.Classification{
		Status:     domain.StatusHot,
		Confidence: 0.9,
		Reasoning:  "clear budget\nand timeline",
		Metadata:   map[string]string{"budget": `"80 lakhs"`},
	}
}

func TestRecordNeutralizesRowBreakingCharacters(t *testing.T) {
	sink := &captureSink{}
	r := NewRecorder(sink)

	tr := domain.NewTranscript()
	require.NoError(t, tr.Append(domain.RoleUser, "line one\nline two", time.Now()))

	ok := r.Record(context.Background(), tr, classified())
	require.True(t, ok)
	require.Len(t, sink.records, 1)

	rec := sink.records[0]
	assert.Equal(t, domain.StatusHot, rec.Status)
	assert.Equal(t, "clear budget and timeline", rec.Reasoning)
	assert.Equal(t, `""80 lakhs""`, rec.Metadata["budget"])
	assert.Equal(t, "user: line one line two", rec.SerializedTranscript)
	assert.Equal(t, 1, rec.TranscriptLength)
}

func TestRecordSerializesWholeTranscript(t *testing.T) {
	sink := &captureSink{}
	r := NewRecorder(sink)

	tr := domain.NewTranscript()
	require.NoError(t, tr.Append(domain.RoleAssistant, "Which city?", time.Now()))
	require.NoError(t, tr.Append(domain.RoleUser, "Mumbai", time.Now()))

	require.True(t, r.Record(context.Background(), tr, classified()))
	assert.Equal(t, "assistant: Which city? | user: Mumbai", sink.records[0].SerializedTranscript)
}

func TestRecordSinkFailureIsNonFatal(t *testing.T) {
	sink := &captureSink{err: errors.New("disk full")}
	r := NewRecorder(sink)

	tr := domain.NewTranscript()
	require.NoError(t, tr.Append(domain.RoleUser, "hello", time.Now()))

	assert.False(t, r.Record(context.Background(), tr, classified()))
}

func TestRecordWithoutSinkOrClassification(t *testing.T) {
	tr := domain.NewTranscript()
	require.NoError(t, tr.Append(domain.RoleUser, "hello", time.Now()))

	assert.False(t, NewRecorder(nil).Record(context.Background(), tr, classified()))
	assert.False(t, NewRecorder(&captureSink{}).Record(context.Background(), tr, nil))
}
