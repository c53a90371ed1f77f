// Package csvfile persists finalized leads as rows of a local CSV file.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/groweasy/lead-agent/internal/domain"
)

// Sink appends lead records to a CSV file, one row per lead. The header
// is written when the file is created. Metadata columns follow the
// criterion order fixed at construction so rows stay aligned.
type Sink struct {
	mu sync.Mutex

	path            string
	metadataColumns []string
}

func NewSink(path string, metadataColumns []string) *Sink {
	return &Sink{
		path:            path,
		metadataColumns: metadataColumns,
	}
}

func (s *Sink) header() []string {
	cols := []string{"timestamp", "status", "confidence", "reasoning"}
	cols = append(cols, s.metadataColumns...)
	return append(cols, "transcript_length", "transcript")
}

// Append implements domain.LeadSink.
func (s *Sink) Append(ctx context.Context, record domain.LeadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeHeader := false
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		writeHeader = true
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening lead csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(s.header()); err != nil {
			return fmt.Errorf("writing lead csv header: %w", err)
		}
	}
	if err := w.Write(s.row(record)); err != nil {
		return fmt.Errorf("writing lead csv row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing lead csv: %w", err)
	}
	return nil
}

func (s *Sink) row(record domain.LeadRecord) []string {
	row := []string{
		record.Timestamp.Format(time.RFC3339),
		string(record.Status),
		strconv.FormatFloat(record.Confidence, 'f', 2, 64),
		record.Reasoning,
	}
	for _, col := range s.metadataColumns {
		row = append(row, record.Metadata[col])
	}
	return append(row,
		strconv.Itoa(record.TranscriptLength),
		record.SerializedTranscript,
	)
}

// Recent implements domain.LeadLister by reading the newest rows back
// from the file.
func (s *Sink) Recent(ctx context.Context, limit int) ([]domain.LeadRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening lead csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading lead csv: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	data := rows[1:] // skip header
	if limit > 0 && len(data) > limit {
		data = data[len(data)-limit:]
	}

	out := make([]domain.LeadRecord, 0, len(data))
	for _, row := range data {
		out = append(out, s.parseRow(row))
	}
	return out, nil
}

func (s *Sink) parseRow(row []string) domain.LeadRecord {
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	ts, _ := time.Parse(time.RFC3339, get(0))
	confidence, _ := strconv.ParseFloat(get(2), 64)

	metadata := make(map[string]string, len(s.metadataColumns))
	for i, col := range s.metadataColumns {
		metadata[col] = undoQuoteDoubling(get(4 + i))
	}

	length, _ := strconv.Atoi(get(4 + len(s.metadataColumns)))

	return domain.LeadRecord{
		Timestamp:            ts,
		Status:               domain.ClassificationStatus(get(1)),
		Confidence:           confidence,
		Reasoning:            undoQuoteDoubling(get(3)),
		Metadata:             metadata,
		TranscriptLength:     length,
		SerializedTranscript: undoQuoteDoubling(get(5 + len(s.metadataColumns))),
	}
}

// undoQuoteDoubling reverses the recorder's quote neutralization.
// Records arrive with double quotes already doubled for row safety;
// encoding/csv escapes them a second time on write, so reads must fold
// the doubling back to return the text that was classified.
func undoQuoteDoubling(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}
