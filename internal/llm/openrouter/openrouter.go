// Package openrouter implements llm.Client against the OpenRouter API.
//
// OpenRouter speaks the OpenAI chat completions protocol, so the go-openai
// client is pointed at its base URL. The optional site identification headers
// (HTTP-Referer, X-Title) are attached by a wrapping round tripper.
package openrouter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nadzzz/jukebox/internal/config"
	"github.com/nadzzz/jukebox/internal/llm"
)

// Client completes prompts through OpenRouter.
type Client struct {
	api   *openai.Client
	model string
}

// New creates an OpenRouter client from config.
func New(cfg config.OpenRouterConfig) *Client {
	return NewWithHTTPClient(cfg, &http.Client{})
}

// NewWithHTTPClient is New with a caller-supplied HTTP client.
func NewWithHTTPClient(cfg config.OpenRouterConfig, hc *http.Client) *Client {
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped := *hc
	wrapped.Transport = &siteHeaders{next: base, referer: cfg.SiteURL, title: cfg.SiteName}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = &wrapped

	return &Client{
		api:   openai.NewClientWithConfig(apiCfg),
		model: cfg.Model,
	}
}

// Name returns the backend identifier.
func (c *Client) Name() string { return "openrouter" }

// Complete sends prompt as a single user message and returns the first choice.
func (c *Client) Complete(ctx context.Context, prompt string, opts llm.CompleteOpts) (string, error) {
	model := c.model
	if opts.Model != "" {
		model = opts.Model
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if opts.Temperature != nil {
		req.Temperature = *opts.Temperature
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openrouter completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openrouter completion: no choices returned")
	}

	content := resp.Choices[0].Message.Content
	slog.Debug("openrouter completion", "model", model, "response_length", len(content))
	return content, nil
}

// Close is a no-op for the OpenRouter client.
func (c *Client) Close() error { return nil }

// siteHeaders adds OpenRouter's optional ranking headers to every request.
type siteHeaders struct {
	next    http.RoundTripper
	referer string
	title   string
}

func (s *siteHeaders) RoundTrip(req *http.Request) (*http.Response, error) {
	if s.referer == "" && s.title == "" {
		return s.next.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	if s.referer != "" {
		req.Header.Set("HTTP-Referer", s.referer)
	}
	if s.title != "" {
		req.Header.Set("X-Title", s.title)
	}
	return s.next.RoundTrip(req)
}
