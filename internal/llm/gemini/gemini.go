// Package gemini implements llm.Client using the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/nadzzz/jukebox/internal/config"
	"github.com/nadzzz/jukebox/internal/llm"
)

// Client completes prompts with Gemini models.
type Client struct {
	api   *genai.Client
	model string
}

// New creates a Gemini client from config.
func New(ctx context.Context, cfg config.GeminiConfig) (*Client, error) {
	return newWithConfig(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}, cfg.Model)
}

func newWithConfig(ctx context.Context, cc *genai.ClientConfig, model string) (*Client, error) {
	api, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Client{api: api, model: model}, nil
}

// Name returns the backend identifier.
func (c *Client) Name() string { return "gemini" }

// Complete sends prompt as a single user turn.
func (c *Client) Complete(ctx context.Context, prompt string, opts llm.CompleteOpts) (string, error) {
	model := c.model
	if opts.Model != "" {
		model = opts.Model
	}

	var genCfg *genai.GenerateContentConfig
	if opts.Temperature != nil {
		genCfg = &genai.GenerateContentConfig{Temperature: opts.Temperature}
	}

	resp, err := c.api.Models.GenerateContent(ctx, model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini completion: empty response")
	}

	slog.Debug("gemini completion", "model", model, "response_length", len(text))
	return text, nil
}

// Close is a no-op; the genai client holds no connections of its own.
func (c *Client) Close() error { return nil }
