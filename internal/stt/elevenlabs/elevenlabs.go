// Package elevenlabs implements stt.Transcriber using the ElevenLabs
// speech-to-text (Scribe) API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/nadzzz/jukebox/internal/config"
	"github.com/nadzzz/jukebox/internal/stt"
)

const defaultBaseURL = "https://api.elevenlabs.io"

// Transcriber sends recorded audio to ElevenLabs for transcription.
type Transcriber struct {
	apiKey         string
	baseURL        string
	model          string
	language       string
	tagAudioEvents bool
	diarize        bool
	client         *http.Client
}

// New creates an ElevenLabs transcriber from config.
func New(cfg config.ElevenLabsSTTConfig) *Transcriber {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	return &Transcriber{
		apiKey:         cfg.APIKey,
		baseURL:        base,
		model:          cfg.Model,
		language:       cfg.Language,
		tagAudioEvents: cfg.TagAudioEvents,
		diarize:        cfg.Diarize,
		client:         &http.Client{},
	}
}

// Name returns the backend identifier.
func (t *Transcriber) Name() string { return "elevenlabs" }

// Transcribe uploads audio as multipart form data and returns the text.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, contentType string, opts stt.TranscribeOpts) (*stt.Result, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "audio"+stt.ExtFromContentType(contentType))
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(audio)); err != nil {
		return nil, fmt.Errorf("writing audio: %w", err)
	}

	model := t.model
	if opts.Model != "" {
		model = opts.Model
	}
	language := t.language
	if opts.Language != "" {
		language = opts.Language
	}
	_ = writer.WriteField("model_id", model)
	if language != "" {
		_ = writer.WriteField("language_code", language)
	}
	_ = writer.WriteField("tag_audio_events", strconv.FormatBool(t.tagAudioEvents))
	_ = writer.WriteField("diarize", strconv.FormatBool(t.diarize))
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v1/speech-to-text", body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("xi-api-key", t.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("transcription failed (status %d): %s", resp.StatusCode, respBody)
	}

	var result struct {
		Text         string `json:"text"`
		LanguageCode string `json:"language_code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding transcription: %w", err)
	}

	slog.Debug("transcription complete", "backend", "elevenlabs", "text_length", len(result.Text), "language", result.LanguageCode)
	return &stt.Result{Text: result.Text, Language: result.LanguageCode}, nil
}

// Close is a no-op for the ElevenLabs transcriber.
func (t *Transcriber) Close() error { return nil }
