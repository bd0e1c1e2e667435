// Package elevenlabs implements tts.Synthesizer using the ElevenLabs
// text-to-speech API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nadzzz/jukebox/internal/audio"
	"github.com/nadzzz/jukebox/internal/config"
	"github.com/nadzzz/jukebox/internal/tts"
)

const defaultBaseURL = "https://api.elevenlabs.io"

// Synthesizer converts text to speech through ElevenLabs.
type Synthesizer struct {
	apiKey       string
	baseURL      string
	voiceID      string
	model        string
	outputFormat string
	client       *http.Client
}

// New creates an ElevenLabs synthesizer from config.
func New(cfg config.ElevenLabsTTSConfig) *Synthesizer {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	format := cfg.OutputFormat
	if format == "" {
		format = "mp3_44100_128"
	}
	return &Synthesizer{
		apiKey:       cfg.APIKey,
		baseURL:      base,
		voiceID:      cfg.VoiceID,
		model:        cfg.Model,
		outputFormat: format,
		client:       &http.Client{},
	}
}

// Name returns the backend identifier.
func (s *Synthesizer) Name() string { return "elevenlabs" }

type synthesizeRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id,omitempty"`
}

// Synthesize requests speech for text and returns the encoded audio.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, opts tts.SynthesizeOpts) (*tts.SynthesizeResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("empty text for synthesis")
	}

	voice := s.voiceID
	if opts.Voice != "" {
		voice = opts.Voice
	}
	model := s.model
	if opts.Model != "" {
		model = opts.Model
	}

	body, err := json.Marshal(synthesizeRequest{Text: text, ModelID: model})
	if err != nil {
		return nil, fmt.Errorf("marshalling tts request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s",
		s.baseURL, url.PathEscape(voice), url.QueryEscape(s.outputFormat))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating tts request: %w", err)
	}
	req.Header.Set("xi-api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("tts failed (status %d): %s", resp.StatusCode, respBody)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading tts audio: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("tts returned no audio")
	}

	contentType, rate := describeFormat(s.outputFormat)
	if contentType == "audio/pcm" {
		data = audio.PCMToWAV(data, rate, 1, 2)
		contentType = "audio/wav"
	}
	slog.Debug("elevenlabs synthesize", "text_length", len(text), "voice", voice, "audio_bytes", len(data))
	return &tts.SynthesizeResult{
		Audio:       data,
		ContentType: contentType,
		SampleRate:  rate,
		Channels:    1,
	}, nil
}

// Close is a no-op for the ElevenLabs synthesizer.
func (s *Synthesizer) Close() error { return nil }

// describeFormat derives the MIME type and sample rate from an ElevenLabs
// output_format such as "mp3_44100_128" or "pcm_16000". Raw PCM is 16-bit
// little-endian mono.
func describeFormat(format string) (string, int) {
	parts := strings.Split(format, "_")
	contentType := "audio/mpeg"
	if parts[0] != "mp3" {
		contentType = "audio/" + parts[0]
	}
	rate := 0
	if len(parts) > 1 {
		rate, _ = strconv.Atoi(parts[1])
	}
	return contentType, rate
}
