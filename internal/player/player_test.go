package player

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nadzzz/jukebox/internal/config"
	"github.com/nadzzz/jukebox/internal/message"
)

// recordingOutput captures what was played and the status seen mid-playback.
type recordingOutput struct {
	status  *Status
	played  []string
	during  []Snapshot
	err     error
	release chan struct{}
	started chan struct{}
}

func (o *recordingOutput) Play(_ context.Context, data []byte, _ string) error {
	o.played = append(o.played, string(data))
	o.during = append(o.during, o.status.Snapshot())
	if o.started != nil {
		close(o.started)
	}
	if o.release != nil {
		<-o.release
	}
	return o.err
}

func newController(t *testing.T, files map[string]string) (*Controller, *recordingOutput) {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	out := &recordingOutput{}
	c := New(config.PlayerConfig{SongsDir: dir, DefaultSong: "DemoSong.wav"}, out)
	out.status = c.Status()
	return c, out
}

func TestPlay_ResolvesTrimmedName(t *testing.T) {
	c, out := newController(t, map[string]string{"Toxic.wav": "toxic", "DemoSong.wav": "demo"})

	if err := c.Play(context.Background(), "Toxic. "); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if len(out.played) != 1 || out.played[0] != "toxic" {
		t.Errorf("played = %v", out.played)
	}
	if want := (Snapshot{PlayingSong: true}); out.during[0] != want {
		t.Errorf("status during playback = %+v, want %+v", out.during[0], want)
	}
	if c.Status().Active() {
		t.Errorf("status after playback = %+v", c.Status().Snapshot())
	}
}

func TestPlay_FallsBackToDefault(t *testing.T) {
	c, out := newController(t, map[string]string{"DemoSong.wav": "demo"})
	if err := c.Play(context.Background(), "Never Gonna Give You Up"); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if out.played[0] != "demo" {
		t.Errorf("played = %v, want default asset", out.played)
	}
}

func TestPlay_FailuresClearFlags(t *testing.T) {
	t.Run("no_song", func(t *testing.T) {
		c, _ := newController(t, nil)
		err := c.Play(context.Background(), "missing")
		if !errors.Is(err, ErrNoSong) {
			t.Fatalf("err = %v, want ErrNoSong", err)
		}
		if c.Status().Active() {
			t.Errorf("status = %+v", c.Status().Snapshot())
		}
	})
	t.Run("output_error", func(t *testing.T) {
		c, out := newController(t, map[string]string{"DemoSong.wav": "demo"})
		out.err = errors.New("device gone")
		if err := c.Play(context.Background(), "x"); err == nil {
			t.Fatal("expected error")
		}
		if c.Status().Active() {
			t.Errorf("status = %+v", c.Status().Snapshot())
		}
		if err := c.PlayCustom(context.Background(), message.SongDetails{SongName: "x"}); err == nil {
			t.Fatal("expected error")
		}
		if c.Status().Active() {
			t.Errorf("status after custom = %+v", c.Status().Snapshot())
		}
	})
}

func TestPlayCustom_UsesCustomFlags(t *testing.T) {
	c, out := newController(t, map[string]string{"DemoSong.wav": "demo"})
	if err := c.PlayCustom(context.Background(), message.SongDetails{SongName: "Ode to Rent", Genre: "polka"}); err != nil {
		t.Fatalf("PlayCustom: %v", err)
	}
	if want := (Snapshot{PlayingCustomSong: true}); out.during[0] != want {
		t.Errorf("status during custom playback = %+v", out.during[0])
	}
}

func TestPlayAsync_ReturnsImmediately(t *testing.T) {
	c, out := newController(t, map[string]string{"DemoSong.wav": "demo"})
	out.started = make(chan struct{})
	out.release = make(chan struct{})

	c.PlayAsync("anything")
	select {
	case <-out.started:
	case <-time.After(2 * time.Second):
		t.Fatal("playback never started")
	}
	if !c.Status().PlayingSong() {
		t.Error("PlayingSong = false while playing")
	}
	close(out.release)

	deadline := time.Now().Add(2 * time.Second)
	for c.Status().Active() {
		if time.Now().After(deadline) {
			t.Fatal("status never cleared")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSnapshotJSON(t *testing.T) {
	b, err := json.Marshal(Snapshot{LoadingCustomSong: true})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"loading_song":false,"playing_song":false,"loading_custom_song":true,"playing_custom_song":false}`
	if string(b) != want {
		t.Errorf("json = %s", b)
	}
}
