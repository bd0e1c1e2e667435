// Package openai implements stt.Transcriber using the OpenAI Audio
// Transcription API (Whisper / gpt-4o-transcribe) via go-openai.
package openai

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nadzzz/jukebox/internal/config"
	"github.com/nadzzz/jukebox/internal/stt"
)

// Transcriber uses OpenAI for speech-to-text.
type Transcriber struct {
	api      *openai.Client
	model    string
	language string
}

// New creates an OpenAI transcriber from config.
func New(cfg config.OpenAITranscribeConfig) *Transcriber {
	return newWithConfig(openai.DefaultConfig(cfg.APIKey), cfg)
}

func newWithConfig(apiCfg openai.ClientConfig, cfg config.OpenAITranscribeConfig) *Transcriber {
	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &Transcriber{
		api:      openai.NewClientWithConfig(apiCfg),
		model:    model,
		language: cfg.Language,
	}
}

// Name returns the backend identifier.
func (t *Transcriber) Name() string { return "openai" }

// Transcribe sends audio to the OpenAI Transcription API.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, contentType string, opts stt.TranscribeOpts) (*stt.Result, error) {
	req := openai.AudioRequest{
		Model:    t.model,
		FilePath: "audio" + stt.ExtFromContentType(contentType),
		Reader:   bytes.NewReader(audio),
		Language: t.language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}
	if opts.Model != "" {
		req.Model = opts.Model
	}
	if opts.Language != "" {
		req.Language = opts.Language
	}

	resp, err := t.api.CreateTranscription(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}

	// OpenAI returns full language names ("english"); normalise to ISO-639-1.
	lang := normalizeLanguage(resp.Language)

	slog.Debug("transcription complete", "backend", "openai", "text_length", len(resp.Text), "language", lang)
	return &stt.Result{Text: resp.Text, Language: lang}, nil
}

// Close is a no-op for the OpenAI transcriber.
func (t *Transcriber) Close() error { return nil }

// normalizeLanguage converts full language names to ISO-639-1 codes.
func normalizeLanguage(lang string) string {
	if len(lang) == 2 {
		return strings.ToLower(lang)
	}
	known := map[string]string{
		"english":    "en",
		"french":     "fr",
		"spanish":    "es",
		"german":     "de",
		"italian":    "it",
		"portuguese": "pt",
		"dutch":      "nl",
	}
	if code, ok := known[strings.ToLower(lang)]; ok {
		return code
	}
	return strings.ToLower(lang)
}
