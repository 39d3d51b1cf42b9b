package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiProvider generates text through the Gemini API.
type GeminiProvider struct {
	Model       string
	Temperature float32
	client      *genai.Client
}

// NewGeminiProvider creates a Gemini provider using the API key found in
// apiKeyEnv. A missing key yields an unconfigured provider, not an error.
func NewGeminiProvider(ctx context.Context, model, apiKeyEnv string) (*GeminiProvider, error) {
	if model == "" || !strings.HasPrefix(model, "gemini") {
		model = defaultGeminiModel
	}
	p := &GeminiProvider{Model: model, Temperature: 0.7}

	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return p, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	p.client = client
	return p, nil
}

// IsConfigured reports whether an API client was created.
func (g *GeminiProvider) IsConfigured() bool {
	return g.client != nil
}

// Generate sends a prompt to Gemini and returns the response text.
func (g *GeminiProvider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("gemini API key not configured")
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.Temperature),
		MaxOutputTokens: int32(maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from gemini")
	}
	return text, nil
}
