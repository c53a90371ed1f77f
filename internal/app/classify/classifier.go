// Package classify turns a finished conversation into a canonical
// Classification. Every failure mode is absorbed locally into a fallback
// result: once the dialogue policy declares completion, a classification
// is always produced, never an error.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/groweasy/lead-agent/internal/app/prompt"
	"github.com/groweasy/lead-agent/internal/domain"
	"github.com/groweasy/lead-agent/internal/observability"
)

// Failure causes reported in fallback reasoning strings.
const (
	causeServiceError    = "GENERATION_SERVICE_ERROR"
	causeMalformedOutput = "MALFORMED_OUTPUT"
	causeInvalidCategory = "INVALID_CATEGORY"
)

const fallbackConfidence = 0.1

type Classifier struct {
	gen     domain.Generator
	profile *domain.BusinessProfile

	maxOutputTokens int32
	temperature     float32
}

func New(gen domain.Generator, profile *domain.BusinessProfile) *Classifier {
	return &Classifier{
		gen:             gen,
		profile:         profile,
		maxOutputTokens: 500,
		// near-deterministic sampling keeps the JSON output parseable
		// and consistent across runs.
		temperature: 0.1,
	}
}

// Classify builds the classification prompt, invokes the generation
// service once and normalizes the reply. The returned classification is
// always from the canonical status set.
func (c *Classifier) Classify(ctx context.Context, t *domain.Transcript) *domain.Classification {
	log := observability.LoggerFromContext(ctx)

	promptText := prompt.BuildClassification(t, c.profile)

	raw, err := c.gen.Generate(ctx, promptText, domain.GenerateOptions{
		MaxOutputTokens: c.maxOutputTokens,
		Temperature:     c.temperature,
	})
	if err != nil {
		log.Error("classification generation failed", "error", err)
		return fallback(causeServiceError, err.Error())
	}

	result, cause := parse(raw)
	if result == nil {
		log.Warn("classification output rejected", "cause", cause, "raw_prefix", prefix(raw, 120))
		return fallback(cause, "could not interpret classifier output")
	}

	log.Info("lead classified", "status", result.Status, "confidence", result.Confidence)
	return result
}

// rawResult tolerates the label variants the generation service has been
// seen to produce: either a "status" or a "classification" key, metadata
// under "metadata" or "extracted_data", null values for unknown fields.
type rawResult struct {
	Status         string             `json:"status"`
	Classification string             `json:"classification"`
	Confidence     float64            `json:"confidence"`
	Reasoning      string             `json:"reasoning"`
	Metadata       map[string]*string `json:"metadata"`
	ExtractedData  map[string]*string `json:"extracted_data"`
}

func parse(raw string) (*domain.Classification, string) {
	span, ok := firstObjectSpan(raw)
	if !ok {
		return nil, causeMalformedOutput
	}

	var r rawResult
	if err := json.Unmarshal([]byte(span), &r); err != nil {
		return nil, causeMalformedOutput
	}

	label := r.Status
	if label == "" {
		label = r.Classification
	}
	status, ok := domain.NormalizeStatus(label)
	if !ok {
		return nil, causeInvalidCategory
	}

	confidence := r.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	metadata := r.Metadata
	if len(metadata) == 0 {
		metadata = r.ExtractedData
	}

	return &domain.Classification{
		Status:     status,
		Confidence: confidence,
		Reasoning:  strings.TrimSpace(r.Reasoning),
		Metadata:   flatten(metadata),
	}, ""
}

// firstObjectSpan locates the first top-level {...} span in the reply,
// tolerating leading and trailing prose around the JSON object. Braces
// inside string literals are skipped.
func firstObjectSpan(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}

func flatten(m map[string]*string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if v != nil {
			out[k] = *v
		} else {
			out[k] = ""
		}
	}
	return out
}

func fallback(cause, detail string) *domain.Classification {
	return &domain.Classification{
		Status:     domain.StatusInvalid,
		Confidence: fallbackConfidence,
		Reasoning:  fmt.Sprintf("%s: %s", cause, detail),
		Metadata:   map[string]string{},
	}
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
