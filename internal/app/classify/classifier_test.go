package classify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groweasy/lead-agent/internal/domain"
	"github.com/groweasy/lead-agent/internal/profile"
)

// stubGenerator returns a fixed reply or error.
type stubGenerator struct {
	reply string
	err   error

	lastPrompt string
	lastOpts   domain.GenerateOptions
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
	s.lastPrompt = prompt
	s.lastOpts = opts
	return s.reply, s.err
}

func finishedTranscript(t *testing.T) *domain.Transcript {
	t.Helper()
	tr := domain.NewTranscript()
	require.NoError(t, tr.Append(domain.RoleAssistant, "What's your budget?", time.Now()))
	require.NoError(t, tr.Append(domain.RoleUser, "80 lakhs, moving to Pune in 3 months", time.Now()))
	return tr
}

func TestClassifyParsesEmbeddedJSON(t *testing.T) {
	gen := &stubGenerator{
		reply: `Sure! {"status":"hot_premium","confidence":0.92,"reasoning":"strong buyer","metadata":{"budget":"80 lakhs","timeline":null}} thanks!`,
	}
	c := New(gen, profile.Default())

	got := c.Classify(context.Background(), finishedTranscript(t))

	assert.Equal(t, domain.StatusHot, got.Status)
	assert.InDelta(t, 0.92, got.Confidence, 1e-9)
	assert.Equal(t, "strong buyer", got.Reasoning)
	assert.Equal(t, "80 lakhs", got.Metadata["budget"])
	assert.Equal(t, "", got.Metadata["timeline"])
}

func TestClassifyUsesLowTemperature(t *testing.T) {
	gen := &stubGenerator{reply: `{"status":"warm","confidence":0.5,"reasoning":"ok","metadata":{}}`}
	c := New(gen, profile.Default())

	c.Classify(context.Background(), finishedTranscript(t))

	assert.InDelta(t, 0.1, float64(gen.lastOpts.Temperature), 1e-6)
	assert.Contains(t, gen.lastPrompt, "classify the lead quality")
}

func TestClassifyAcceptsClassificationKeyVariant(t *testing.T) {
	gen := &stubGenerator{
		reply: `{"classification":"warm_nurture","confidence":0.6,"reasoning":"interested","extracted_data":{"location":"Pune"}}`,
	}
	c := New(gen, profile.Default())

	got := c.Classify(context.Background(), finishedTranscript(t))

	assert.Equal(t, domain.StatusWarm, got.Status)
	assert.Equal(t, "Pune", got.Metadata["location"])
}

func TestClassifyFallsBackOnGarbage(t *testing.T) {
	for _, reply := range []string{
		"I can't really say.",
		`{"status":"hot"`, // truncated JSON
		`{"status": [1,2,`,
	} {
		gen := &stubGenerator{reply: reply}
		c := New(gen, profile.Default())

		got := c.Classify(context.Background(), finishedTranscript(t))

		assert.Equal(t, domain.StatusInvalid, got.Status, "reply=%q", reply)
		assert.InDelta(t, 0.1, got.Confidence, 1e-9)
		assert.Contains(t, got.Reasoning, causeMalformedOutput)
		assert.NotNil(t, got.Metadata)
	}
}

func TestClassifyFallsBackOnUnknownLabel(t *testing.T) {
	gen := &stubGenerator{reply: `{"status":"purple","confidence":0.8,"reasoning":"?","metadata":{}}`}
	c := New(gen, profile.Default())

	got := c.Classify(context.Background(), finishedTranscript(t))

	assert.Equal(t, domain.StatusInvalid, got.Status)
	assert.Contains(t, got.Reasoning, causeInvalidCategory)
}

func TestClassifyFallsBackOnServiceError(t *testing.T) {
	gen := &stubGenerator{err: &domain.GenerationError{Kind: domain.GenerationRateLimit, Status: 429}}
	c := New(gen, profile.Default())

	got := c.Classify(context.Background(), finishedTranscript(t))

	assert.Equal(t, domain.StatusInvalid, got.Status)
	assert.Contains(t, got.Reasoning, causeServiceError)
}

func TestClassifyClampsConfidence(t *testing.T) {
	gen := &stubGenerator{reply: `{"status":"cold","confidence":3.5,"reasoning":"?","metadata":{}}`}
	c := New(gen, profile.Default())

	got := c.Classify(context.Background(), finishedTranscript(t))

	assert.Equal(t, domain.StatusCold, got.Status)
	assert.Equal(t, 1.0, got.Confidence)
}

func TestFirstObjectSpanSkipsBracesInStrings(t *testing.T) {
	span, ok := firstObjectSpan(`prose {"reasoning":"said {budget} twice","status":"cold"} trailing`)
	require.True(t, ok)
	assert.Equal(t, `{"reasoning":"said {budget} twice","status":"cold"}`, span)
}
