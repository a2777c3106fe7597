package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiGenerator calls the Gemini generateContent API
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini API client authenticated with an API
// key. baseURL overrides the public endpoint when set; client may be nil.
func NewGeminiGenerator(ctx context.Context, apiKey, model, baseURL string, client *http.Client) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY must be set")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: client,
	}
	if baseURL != "" {
		cfg.HTTPOptions.BaseURL = baseURL
	}

	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiGenerator{
		client: c,
		model:  model,
	}, nil
}

// Name identifies the backend in logs and errors
func (g *GeminiGenerator) Name() string {
	return "gemini"
}

// Generate returns the text of the first candidate
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates in response")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}
