// Package audio provides microphone capture, speaker output and WAV helpers.
//
// Device access needs cgo (portaudio for capture, beep/oto for output). Builds
// without cgo get stand-ins that return ErrUnavailable, so the rest of the
// jukebox still compiles and its tests run anywhere.
package audio

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned by device operations in builds without audio support.
var ErrUnavailable = errors.New("audio devices unavailable in this build")

// Recorder captures a fixed-length utterance from the default input device.
type Recorder interface {
	// Record blocks for d (or until ctx ends) and returns the capture as WAV.
	Record(ctx context.Context, d time.Duration) ([]byte, error)
}

// Output plays encoded audio on the default output device.
type Output interface {
	// Play blocks until data has finished playing or ctx ends.
	// contentType selects the decoder ("audio/wav" or "audio/mpeg").
	Play(ctx context.Context, data []byte, contentType string) error
}

// Sniff guesses the content type of an encoded clip from its leading bytes.
func Sniff(data []byte) string {
	if len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WAVE" {
		return "audio/wav"
	}
	return "audio/mpeg"
}
