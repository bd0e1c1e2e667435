// Package stt defines the interface for speech-to-text backends.
//
// A transcriber takes a recorded utterance and returns its text. The jukebox
// ships with two backends: ElevenLabs Scribe (default) and OpenAI Whisper.
package stt

import (
	"context"
	"strings"
)

// TranscribeOpts controls transcription behavior.
type TranscribeOpts struct {
	// Language guides recognition; the code format is backend specific.
	Language string

	// Model overrides the default transcription model.
	Model string
}

// Result holds the output of a transcription.
type Result struct {
	// Text is the recognised speech, untrimmed as returned by the backend.
	Text string

	// Language is the language reported by the backend, if any.
	Language string
}

// Transcriber is the interface for audio transcription.
type Transcriber interface {
	// Name returns the backend identifier (e.g., "elevenlabs", "openai").
	Name() string

	// Transcribe converts audio bytes to text.
	Transcribe(ctx context.Context, audio []byte, contentType string, opts TranscribeOpts) (*Result, error)

	// Close releases any resources held by the transcriber.
	Close() error
}

// ExtFromContentType maps an audio MIME type to a file extension for
// multipart uploads.
func ExtFromContentType(ct string) string {
	switch {
	case strings.Contains(ct, "wav"):
		return ".wav"
	case strings.Contains(ct, "ogg"):
		return ".ogg"
	case strings.Contains(ct, "mp3"), strings.Contains(ct, "mpeg"):
		return ".mp3"
	case strings.Contains(ct, "flac"):
		return ".flac"
	case strings.Contains(ct, "webm"):
		return ".webm"
	default:
		return ".wav"
	}
}
