// Package llm defines the interface for prompt completion backends.
//
// The jukebox sends single-turn prompts and reads back raw text; any JSON
// structure in the reply is checked by package validate, not here. Two
// backends ship: OpenRouter (OpenAI-compatible) and Google Gemini.
package llm

import "context"

// CompleteOpts controls a single completion call.
type CompleteOpts struct {
	// Model overrides the backend's configured model.
	Model string

	// Temperature overrides the backend default when non-nil.
	Temperature *float32
}

// Client sends a prompt to a remote model and returns its raw text reply.
type Client interface {
	// Name returns the backend identifier (e.g., "openrouter", "gemini").
	Name() string

	// Complete sends prompt as a single user message.
	Complete(ctx context.Context, prompt string, opts CompleteOpts) (string, error)

	// Close releases any resources held by the client.
	Close() error
}
