package insights

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// DefaultModelName is used when GEMINI_MODEL is unset.
const DefaultModelName = "gemini-2.5-flash"

// Generator sends one prompt and returns the raw response text.
type Generator interface {
	Generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}

// GeminiGenerator calls the Gemini API with JSON structured output.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

// NewGeminiGenerator creates a client for the Gemini API backend.
func NewGeminiGenerator(ctx context.Context, apiKey, model string, log zerolog.Logger) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("NewGeminiGenerator: GEMINI_API_KEY is not set")
	}
	if model == "" {
		model = DefaultModelName
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiGenerator: create genai client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model, log: log}, nil
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("empty response from model")
	}

	g.log.Debug().Str("model", g.model).Int("response_bytes", len(text)).Msg("Model responded")
	return text, nil
}
