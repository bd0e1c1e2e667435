//go:build cgo

package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DeviceSpeaker plays clips through the default output device using beep.
// Concurrent Play calls are mixed by the speaker.
type DeviceSpeaker struct {
	mu          sync.Mutex
	initialized bool
	sampleRate  beep.SampleRate
}

// NewSpeaker creates a speaker; the device is opened on first Play.
func NewSpeaker() *DeviceSpeaker {
	return &DeviceSpeaker{sampleRate: beep.SampleRate(44100)}
}

func (s *DeviceSpeaker) init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(s.sampleRate, s.sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("initialising speaker: %w", err)
	}
	s.initialized = true
	return nil
}

// Play decodes data and blocks until it has been played.
func (s *DeviceSpeaker) Play(ctx context.Context, data []byte, contentType string) error {
	streamer, format, err := decode(data, contentType)
	if err != nil {
		return fmt.Errorf("decoding audio: %w", err)
	}
	defer streamer.Close()

	if err := s.init(); err != nil {
		return err
	}

	var src beep.Streamer = streamer
	if format.SampleRate != s.sampleRate {
		src = beep.Resample(4, format.SampleRate, s.sampleRate, streamer)
	}

	ctrl := &beep.Ctrl{Streamer: src}
	done := make(chan struct{})
	speaker.Play(beep.Seq(ctrl, beep.Callback(func() { close(done) })))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Lock()
		ctrl.Streamer = nil
		speaker.Unlock()
		return ctx.Err()
	}
}

func decode(data []byte, contentType string) (beep.StreamSeekCloser, beep.Format, error) {
	if contentType == "" {
		contentType = Sniff(data)
	}
	if strings.Contains(contentType, "wav") {
		return wav.Decode(bytes.NewReader(data))
	}
	return mp3.Decode(io.NopCloser(bytes.NewReader(data)))
}
