package csvfile

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groweasy/lead-agent/internal/domain"
)

func testRecord(status domain.ClassificationStatus, reasoning string) domain.LeadRecord {
	return domain.LeadRecord{
		Timestamp:            time.Date(2025, 6, 12, 10, 30, 0, 0, time.UTC),
		Status:               status,
		Confidence:           0.85,
		Reasoning:            reasoning,
		Metadata:             map[string]string{"budget": "80 lakhs", "location": "Mumbai"},
		TranscriptLength:     6,
		SerializedTranscript: "assistant: Which city? | user: Mumbai",
	}
}

func TestAppendWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")
	sink := NewSink(path, []string{"budget", "location"})
	ctx := context.Background()

	require.NoError(t, sink.Append(ctx, testRecord(domain.StatusHot, "strong intent")))
	require.NoError(t, sink.Append(ctx, testRecord(domain.StatusWarm, "needs follow up")))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"timestamp", "status", "confidence", "reasoning", "budget", "location", "transcript_length", "transcript"}, rows[0])
	assert.Equal(t, "hot", rows[1][1])
	assert.Equal(t, "warm", rows[2][1])
	assert.Equal(t, "0.85", rows[1][2])
	assert.Equal(t, "80 lakhs", rows[1][4])
}

func TestAppendRecentRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")
	sink := NewSink(path, []string{"budget", "location"})
	ctx := context.Background()

	want := testRecord(domain.StatusHot, "clear budget and city")
	require.NoError(t, sink.Append(ctx, want))

	got, err := sink.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, want.Status, got[0].Status)
	assert.Equal(t, want.Confidence, got[0].Confidence)
	assert.Equal(t, want.Reasoning, got[0].Reasoning)
	assert.Equal(t, want.Metadata, got[0].Metadata)
	assert.Equal(t, want.TranscriptLength, got[0].TranscriptLength)
	assert.Equal(t, want.SerializedTranscript, got[0].SerializedTranscript)
	assert.True(t, want.Timestamp.Equal(got[0].Timestamp))
}

func TestRecentReturnsNewestRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")
	sink := NewSink(path, nil)
	ctx := context.Background()

	for _, reasoning := range []string{"first", "second", "third"} {
		require.NoError(t, sink.Append(ctx, testRecord(domain.StatusCold, reasoning)))
	}

	got, err := sink.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Reasoning)
	assert.Equal(t, "third", got[1].Reasoning)
}

func TestRecentFoldsQuoteDoublingBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")
	sink := NewSink(path, []string{"budget"})
	ctx := context.Background()

	// The recorder hands fields over with double quotes already doubled.
	rec := testRecord(domain.StatusHot, `buyer said ""call me""`)
	rec.Metadata = map[string]string{"budget": `""80 lakhs""`}
	rec.SerializedTranscript = `user: ""yes please""`
	require.NoError(t, sink.Append(ctx, rec))

	got, err := sink.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, `buyer said "call me"`, got[0].Reasoning)
	assert.Equal(t, `"80 lakhs"`, got[0].Metadata["budget"])
	assert.Equal(t, `user: "yes please"`, got[0].SerializedTranscript)
}

func TestRecentMissingFile(t *testing.T) {
	sink := NewSink(filepath.Join(t.TempDir(), "absent.csv"), nil)

	got, err := sink.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}
