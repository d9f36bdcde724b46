package insights

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/finvoice/finvoice/internal/config"
)

var (
	// ErrUnavailable means no AI backend is configured or reachable.
	ErrUnavailable = errors.New("AI service unavailable")
	// ErrResponseParse means the model answered in a shape the service
	// could not extract structured data from.
	ErrResponseParse = errors.New("failed to parse AI response")
)

// Client generates free-form text for a prompt. The only production
// implementation talks to Gemini; tests script responses.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

// GeminiClient wraps the Gemini SDK behind the Client interface.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, cfg config.Gemini) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{
		client: client,
		model:  client.GenerativeModel(cfg.Model),
	}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrResponseParse)
	}
	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}
