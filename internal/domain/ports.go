package domain

import "context"

// GenerateOptions are the only generation parameters the engine tunes:
// output budget and sampling temperature. The classifier uses a near-zero
// temperature, the conversation path a higher one.
type GenerateOptions struct {
	MaxOutputTokens int32
	Temperature     float32
}

// Generator defines how the engine talks to the external text-generation
// service. Failures should be reported as *GenerationError so callers can
// distinguish auth, rate-limit and server conditions.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// LeadSink is the append-only persistence target for finalized leads.
type LeadSink interface {
	Append(ctx context.Context, record LeadRecord) error
}

// LeadLister is optionally implemented by sinks that can read leads
// back, for the review endpoint.
type LeadLister interface {
	Recent(ctx context.Context, limit int) ([]LeadRecord, error)
}
