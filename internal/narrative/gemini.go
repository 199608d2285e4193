package narrative

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Generator produces prose from a system framing and a prompt. The engine
// depends on this interface so generation can be stubbed in tests.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

const defaultModel = "gemini-2.0-flash"

// maxOutputTokens caps one day's entry; the prompt asks for 120-150 words.
const maxOutputTokens = 500

// GeminiGenerator talks to Google's Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a generator bound to one model.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: maxOutputTokens,
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	return text, nil
}

// Name identifies the generator for logs.
func (g *GeminiGenerator) Name() string {
	return fmt.Sprintf("gemini:%s", g.model)
}
