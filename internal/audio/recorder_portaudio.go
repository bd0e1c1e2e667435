//go:build cgo

package audio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/nadzzz/jukebox/internal/config"
)

// DeviceRecorder records 16-bit PCM from the default input device.
type DeviceRecorder struct {
	sampleRate int
	channels   int
	frames     int
}

// NewRecorder creates a recorder for the default input device.
func NewRecorder(cfg config.AudioConfig) *DeviceRecorder {
	r := &DeviceRecorder{sampleRate: cfg.SampleRate, channels: cfg.Channels, frames: cfg.FramesPerBuffer}
	if r.sampleRate <= 0 {
		r.sampleRate = 44100
	}
	if r.channels <= 0 {
		r.channels = 1
	}
	if r.frames <= 0 {
		r.frames = 1024
	}
	return r
}

// Record captures d worth of buffers and returns them as a WAV file.
// PortAudio is initialised per call so the device is released between turns.
func (r *DeviceRecorder) Record(ctx context.Context, d time.Duration) ([]byte, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialising portaudio: %w", err)
	}
	defer portaudio.Terminate()

	buf := make([]int16, r.frames*r.channels)
	stream, err := portaudio.OpenDefaultStream(r.channels, 0, float64(r.sampleRate), r.frames, buf)
	if err != nil {
		return nil, fmt.Errorf("opening input stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("starting input stream: %w", err)
	}
	defer stream.Stop()

	chunks := int(float64(r.sampleRate) / float64(r.frames) * d.Seconds())
	samples := make([]int16, 0, chunks*len(buf))

	slog.Debug("recording", "duration", d, "chunks", chunks)
	for i := 0; i < chunks; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := stream.Read(); err != nil {
			return nil, fmt.Errorf("reading input stream: %w", err)
		}
		samples = append(samples, buf...)
	}
	slog.Debug("finished recording", "samples", len(samples))

	return Int16ToWAV(samples, r.sampleRate, r.channels), nil
}
