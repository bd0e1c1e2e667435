// Package player plays chosen songs and publishes what it is doing through
// Status.
package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/nadzzz/jukebox/internal/audio"
	"github.com/nadzzz/jukebox/internal/config"
	"github.com/nadzzz/jukebox/internal/message"
)

// ErrNoSong is returned when neither the requested song nor the default asset exists.
var ErrNoSong = errors.New("no playable song")

// Controller loads and plays songs from a directory.
type Controller struct {
	songsDir    string
	defaultSong string
	out         audio.Output
	status      *Status
}

// New creates a Controller playing songs from cfg.SongsDir on out.
func New(cfg config.PlayerConfig, out audio.Output) *Controller {
	return &Controller{
		songsDir:    cfg.SongsDir,
		defaultSong: cfg.DefaultSong,
		out:         out,
		status:      &Status{},
	}
}

// Status returns the controller's live status.
func (c *Controller) Status() *Status { return c.status }

// resolve maps a spoken song name to a file, falling back to the default asset.
func (c *Controller) resolve(name string) (string, error) {
	cleaned := strings.TrimRight(name, ". ")
	if cleaned != "" {
		path := filepath.Join(c.songsDir, cleaned+".wav")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		slog.Info("song not found, using default", "song", cleaned, "default", c.defaultSong)
	}
	path := filepath.Join(c.songsDir, c.defaultSong)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %q nor default %q", ErrNoSong, cleaned, c.defaultSong)
	}
	return path, nil
}

// Play loads and plays name, blocking until playback finishes. Both flags are
// cleared on every return path.
func (c *Controller) Play(ctx context.Context, name string) error {
	return c.play(ctx, name, name, &c.status.loadingSong, &c.status.playingSong)
}

// PlayCustom plays a custom song. Generated songs are not rendered yet, so
// the default asset stands in for them.
func (c *Controller) PlayCustom(ctx context.Context, song message.SongDetails) error {
	return c.play(ctx, "", song.SongName, &c.status.loadingCustomSong, &c.status.playingCustomSong)
}

// PlayAsync starts Play in its own goroutine and returns immediately.
func (c *Controller) PlayAsync(name string) {
	go func() {
		if err := c.Play(context.Background(), name); err != nil {
			slog.Error("song playback failed", "song", name, "error", err)
		}
	}()
}

// PlayCustomAsync starts PlayCustom in its own goroutine and returns immediately.
func (c *Controller) PlayCustomAsync(song message.SongDetails) {
	go func() {
		if err := c.PlayCustom(context.Background(), song); err != nil {
			slog.Error("custom song playback failed", "song", song.SongName, "error", err)
		}
	}()
}

func (c *Controller) play(ctx context.Context, name, label string, loading, playing *atomic.Bool) error {
	loading.Store(true)
	defer loading.Store(false)
	defer playing.Store(false)

	logger := slog.With("component", "player", "song", label)

	path, err := c.resolve(name)
	if err != nil {
		return err
	}
	logger.Info("loading song", "path", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	loading.Store(false)
	playing.Store(true)
	logger.Info("playing song", "path", path)

	if err := c.out.Play(ctx, data, audio.Sniff(data)); err != nil {
		return fmt.Errorf("playing %s: %w", path, err)
	}
	logger.Info("finished playing song", "path", path)
	return nil
}
