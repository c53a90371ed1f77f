package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/groweasy/lead-agent/internal/domain"
)

// GeminiClient implements domain.Generator on top of the Gemini API,
// through either the API-key backend or Vertex AI.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// GeminiConfig selects the backend: APIKey wins when set, otherwise
// Project and Location route the client through Vertex AI.
type GeminiConfig struct {
	APIKey    string
	Project   string
	Location  string
	ModelName string
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	modelName := cfg.ModelName
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	clientCfg := &genai.ClientConfig{}
	switch {
	case cfg.APIKey != "":
		clientCfg.APIKey = cfg.APIKey
	case cfg.Project != "" && cfg.Location != "":
		clientCfg.Project = cfg.Project
		clientCfg.Location = cfg.Location
		clientCfg.Backend = genai.BackendVertexAI
	default:
		return nil, fmt.Errorf("gemini client needs an API key or a GCP project and location")
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// Generate implements domain.Generator. The prompt is sent as a single
// user content; conversation history is already rendered into the prompt
// text by the prompt builder.
func (g *GeminiClient) Generate(ctx context.Context, promptText string, opts domain.GenerateOptions) (string, error) {
	temp := opts.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: opts.MaxOutputTokens,
	}

	contents := []*genai.Content{
		genai.NewContentFromText(promptText, genai.RoleUser),
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", wrapGenerationError(err)
	}

	text := res.Text()
	if text == "" {
		return "", &domain.GenerationError{
			Kind: domain.GenerationServer,
			Err:  fmt.Errorf("gemini returned empty text"),
		}
	}

	return text, nil
}

// wrapGenerationError maps API failures onto the engine's error kinds so
// the transport layer can answer with the right status and code.
func wrapGenerationError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		kind := domain.GenerationUnknown
		switch {
		case apiErr.Code == 401 || apiErr.Code == 403:
			kind = domain.GenerationAuth
		case apiErr.Code == 429:
			kind = domain.GenerationRateLimit
		case apiErr.Code >= 500:
			kind = domain.GenerationServer
		}
		return &domain.GenerationError{Kind: kind, Status: apiErr.Code, Err: err}
	}
	return &domain.GenerationError{Kind: domain.GenerationUnknown, Err: err}
}
