// Package static manages the pre-rendered clips for the jukebox's fixed
// phrases. Each message is cached in a directory as <id>.txt next to its
// audio, <id>.mp3 or <id>.wav depending on the synthesizer.
package static

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nadzzz/jukebox/internal/audio"
	"github.com/nadzzz/jukebox/internal/tts"
)

// ErrUnknownMessage is returned for an id that is neither built in nor cached.
var ErrUnknownMessage = errors.New("unknown static message")

var clipExts = []string{".mp3", ".wav"}

// Library renders, caches and plays static messages.
type Library struct {
	dir   string
	synth tts.Synthesizer
	out   audio.Output
}

// New creates a Library rooted at dir.
func New(dir string, synth tts.Synthesizer, out audio.Output) *Library {
	return &Library{dir: dir, synth: synth, out: out}
}

// Entry describes one message and whether its clip is cached.
type Entry struct {
	ID     string
	Text   string
	Cached bool
}

func (l *Library) clipPath(id string) (string, bool) {
	for _, ext := range clipExts {
		p := filepath.Join(l.dir, id+ext)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// Create synthesizes text and stores it as the clip for id, returning its path.
func (l *Library) Create(ctx context.Context, id, text string) (string, error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", l.dir, err)
	}
	res, err := l.synth.Synthesize(ctx, text, tts.SynthesizeOpts{})
	if err != nil {
		return "", fmt.Errorf("synthesizing %q: %w", id, err)
	}

	path := filepath.Join(l.dir, id+res.Ext())
	if err := os.WriteFile(path, res.Audio, 0o644); err != nil {
		return "", fmt.Errorf("writing clip %s: %w", path, err)
	}
	// A clip left over from another backend would shadow the new one.
	for _, ext := range clipExts {
		if ext != res.Ext() {
			_ = os.Remove(filepath.Join(l.dir, id+ext))
		}
	}
	slog.Info("static message created", "id", id, "path", path)
	return path, nil
}

// Render writes the text file of every built-in message and synthesizes each
// missing clip, or every clip when force is set. It keeps going past
// individual failures and returns the number of clips rendered.
func (l *Library) Render(ctx context.Context, force bool) (int, error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", l.dir, err)
	}

	var (
		rendered int
		errs     []error
	)
	for _, m := range catalog {
		if err := ctx.Err(); err != nil {
			return rendered, err
		}
		if err := os.WriteFile(filepath.Join(l.dir, m.ID+".txt"), []byte(m.Text), 0o644); err != nil {
			errs = append(errs, fmt.Errorf("writing text for %q: %w", m.ID, err))
			continue
		}
		if _, ok := l.clipPath(m.ID); ok && !force {
			slog.Debug("static message already rendered", "id", m.ID)
			continue
		}
		if _, err := l.Create(ctx, m.ID, m.Text); err != nil {
			errs = append(errs, err)
			continue
		}
		rendered++
	}
	return rendered, errors.Join(errs...)
}

// Play plays the cached clip for id. Without a cached clip the message text is
// synthesized and spoken live. It reports whether anything was played.
func (l *Library) Play(ctx context.Context, id string) bool {
	logger := slog.With("component", "static", "id", id)

	if path, ok := l.clipPath(id); ok {
		data, err := os.ReadFile(path)
		if err == nil {
			if err = l.out.Play(ctx, data, audio.Sniff(data)); err == nil {
				return true
			}
		}
		logger.Warn("playing cached clip failed", "path", path, "error", err)
	}

	text, err := l.Text(id)
	if err != nil {
		logger.Warn("static message not found", "error", err)
		return false
	}
	res, err := l.synth.Synthesize(ctx, text, tts.SynthesizeOpts{})
	if err != nil {
		logger.Error("live synthesis failed", "error", err)
		return false
	}
	if err := l.out.Play(ctx, res.Audio, res.ContentType); err != nil {
		logger.Error("live playback failed", "error", err)
		return false
	}
	logger.Debug("static message spoken live")
	return true
}

// Text returns the cached text for id, falling back to the built-in catalog.
func (l *Library) Text(id string) (string, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, id+".txt"))
	if err == nil {
		if text := strings.TrimSpace(string(data)); text != "" {
			return text, nil
		}
	}
	if text, ok := Lookup(id); ok {
		return text, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMessage, id)
}

// List reports every built-in message and whether its clip is cached.
func (l *Library) List() []Entry {
	entries := make([]Entry, 0, len(catalog))
	for _, m := range catalog {
		_, cached := l.clipPath(m.ID)
		entries = append(entries, Entry{ID: m.ID, Text: m.Text, Cached: cached})
	}
	return entries
}
