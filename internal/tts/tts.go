// Package tts defines the interface for text-to-speech synthesis.
//
// The jukebox speaks every roast, joke and prompt through a Synthesizer. Clips
// are either played immediately or cached on disk by the static message
// library, so results carry their container type.
package tts

import (
	"context"
	"strings"
)

// SynthesizeOpts controls synthesis behavior.
type SynthesizeOpts struct {
	// Voice overrides the configured voice.
	Voice string

	// Model overrides the configured synthesis model.
	Model string
}

// Synthesizer converts text to audio.
type Synthesizer interface {
	// Name returns the backend identifier (e.g., "elevenlabs", "piper").
	Name() string

	// Synthesize generates a complete, playable audio file from text.
	Synthesize(ctx context.Context, text string, opts SynthesizeOpts) (*SynthesizeResult, error)

	// Close releases any resources held by the synthesizer.
	Close() error
}

// SynthesizeResult holds the output of TTS synthesis.
type SynthesizeResult struct {
	// Audio is the synthesized audio file (MP3 or WAV).
	Audio []byte

	// ContentType is the MIME type of the audio (e.g., "audio/mpeg", "audio/wav").
	ContentType string

	// SampleRate is the audio sample rate in Hz, when known.
	SampleRate int

	// Channels is the number of audio channels, when known.
	Channels int
}

// Ext returns the file extension clips of this result should be stored under.
func (r *SynthesizeResult) Ext() string {
	return ExtFor(r.ContentType)
}

// ExtFor maps a synthesized audio MIME type to a file extension.
func ExtFor(contentType string) string {
	if strings.Contains(contentType, "wav") {
		return ".wav"
	}
	return ".mp3"
}
