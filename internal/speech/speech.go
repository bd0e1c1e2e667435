// Package speech joins the audio devices to the speech gateways: a Listener
// records and transcribes one utterance, a Speaker synthesizes and plays text.
package speech

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nadzzz/jukebox/internal/audio"
	"github.com/nadzzz/jukebox/internal/stt"
	"github.com/nadzzz/jukebox/internal/tts"
)

// Listener captures and transcribes bounded utterances.
type Listener struct {
	rec  audio.Recorder
	stt  stt.Transcriber
	opts stt.TranscribeOpts
}

// NewListener creates a Listener that records with rec and transcribes with tr.
func NewListener(rec audio.Recorder, tr stt.Transcriber) *Listener {
	return &Listener{rec: rec, stt: tr}
}

// Listen records for d and returns the transcript with surrounding whitespace
// removed. Silence yields an empty string and no error.
func (l *Listener) Listen(ctx context.Context, d time.Duration) (string, error) {
	wav, err := l.rec.Record(ctx, d)
	if err != nil {
		return "", fmt.Errorf("recording: %w", err)
	}
	res, err := l.stt.Transcribe(ctx, wav, "audio/wav", l.opts)
	if err != nil {
		return "", fmt.Errorf("transcribing with %s: %w", l.stt.Name(), err)
	}
	text := strings.TrimSpace(res.Text)
	slog.Debug("heard", "transcript", text, "duration", d)
	return text, nil
}

// Speaker synthesizes text and plays it to completion.
type Speaker struct {
	tts tts.Synthesizer
	out audio.Output
}

// NewSpeaker creates a Speaker that synthesizes with synth and plays on out.
func NewSpeaker(synth tts.Synthesizer, out audio.Output) *Speaker {
	return &Speaker{tts: synth, out: out}
}

// Say speaks text and blocks until playback finishes.
func (s *Speaker) Say(ctx context.Context, text string) error {
	res, err := s.tts.Synthesize(ctx, text, tts.SynthesizeOpts{})
	if err != nil {
		return fmt.Errorf("synthesizing with %s: %w", s.tts.Name(), err)
	}
	if err := s.out.Play(ctx, res.Audio, res.ContentType); err != nil {
		return fmt.Errorf("playing speech: %w", err)
	}
	return nil
}
