package llm

import (
	"context"
	"strings"

	"github.com/groweasy/lead-agent/internal/domain"
)

// MockGenerator is a deterministic domain.Generator for local mode and
// tests. It answers classification prompts with a well-formed JSON
// object and everything else with a short canned question.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (m *MockGenerator) Generate(ctx context.Context, promptText string, opts domain.GenerateOptions) (string, error) {
	if strings.Contains(promptText, "classify the lead quality") {
		return `{"status":"warm","confidence":0.6,"reasoning":"mock classification","metadata":{}}`, nil
	}
	return "That sounds interesting! Could you tell me a bit more about what you have in mind?", nil
}
