package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/groweasy/lead-agent/internal/domain"
)

// Sink persists finalized leads as documents of a "leads" collection.
type Sink struct {
	client *firestore.Client
}

// NewSink creates a Firestore-backed lead sink for the given project.
func NewSink(ctx context.Context, projectID string) (*Sink, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore lead sink")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Sink{client: client}, nil
}

func (s *Sink) leadsCol() *firestore.CollectionRef {
	return s.client.Collection("leads")
}

type leadDoc struct {
	Timestamp            time.Time         `firestore:"timestamp"`
	Status               string            `firestore:"status"`
	Confidence           float64           `firestore:"confidence"`
	Reasoning            string            `firestore:"reasoning"`
	Metadata             map[string]string `firestore:"metadata"`
	TranscriptLength     int               `firestore:"transcript_length"`
	SerializedTranscript string            `firestore:"transcript"`
}

// Append implements domain.LeadSink.
func (s *Sink) Append(ctx context.Context, record domain.LeadRecord) error {
	doc := leadDoc{
		Timestamp:            record.Timestamp,
		Status:               string(record.Status),
		Confidence:           record.Confidence,
		Reasoning:            record.Reasoning,
		Metadata:             record.Metadata,
		TranscriptLength:     record.TranscriptLength,
		SerializedTranscript: record.SerializedTranscript,
	}

	_, _, err := s.leadsCol().Add(ctx, doc)
	if err != nil {
		if status.Code(err) == codes.PermissionDenied {
			return fmt.Errorf("firestore Append: permission denied: %w", err)
		}
		return fmt.Errorf("firestore Append: %w", err)
	}
	return nil
}

// Recent implements domain.LeadLister.
func (s *Sink) Recent(ctx context.Context, limit int) ([]domain.LeadRecord, error) {
	q := s.leadsCol().OrderBy("timestamp", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []domain.LeadRecord
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore Recent: %w", err)
		}

		var doc leadDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode leadDoc: %w", err)
		}

		out = append(out, domain.LeadRecord{
			Timestamp:            doc.Timestamp,
			Status:               domain.ClassificationStatus(doc.Status),
			Confidence:           doc.Confidence,
			Reasoning:            doc.Reasoning,
			Metadata:             doc.Metadata,
			TranscriptLength:     doc.TranscriptLength,
			SerializedTranscript: doc.SerializedTranscript,
		})
	}
	return out, nil
}
