package static

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nadzzz/jukebox/internal/tts"
)

type fakeSynth struct {
	contentType string
	fail        bool
	calls       []string
}

func (f *fakeSynth) Name() string { return "fake" }
func (f *fakeSynth) Close() error { return nil }
func (f *fakeSynth) Synthesize(_ context.Context, text string, _ tts.SynthesizeOpts) (*tts.SynthesizeResult, error) {
	f.calls = append(f.calls, text)
	if f.fail {
		return nil, errors.New("synthesis down")
	}
	return &tts.SynthesizeResult{Audio: []byte("clip:" + text), ContentType: f.contentType}, nil
}

type fakeOutput struct{ played []string }

func (f *fakeOutput) Play(_ context.Context, data []byte, _ string) error {
	f.played = append(f.played, string(data))
	return nil
}

func TestCatalog(t *testing.T) {
	if got := len(Catalog()); got != 29 {
		t.Errorf("catalog size = %d, want 29", got)
	}
	seen := map[string]bool{}
	for _, id := range IDs() {
		if seen[id] {
			t.Errorf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if text, ok := Lookup("offer"); !ok || text == "" {
		t.Errorf("Lookup(offer) = %q, %v", text, ok)
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup(nope) found")
	}
}

func TestRender_SkipsCachedUnlessForced(t *testing.T) {
	dir := t.TempDir()
	synth := &fakeSynth{contentType: "audio/mpeg"}
	lib := New(dir, synth, &fakeOutput{})

	if err := os.WriteFile(filepath.Join(dir, "welcome.mp3"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := lib.Render(context.Background(), false)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if n != 28 {
		t.Errorf("rendered = %d, want 28", n)
	}
	if data, _ := os.ReadFile(filepath.Join(dir, "welcome.mp3")); string(data) != "old" {
		t.Errorf("cached clip overwritten without force")
	}
	if text, _ := os.ReadFile(filepath.Join(dir, "welcome.txt")); len(text) == 0 {
		t.Errorf("text file not written for cached clip")
	}

	n, err = lib.Render(context.Background(), true)
	if err != nil || n != 29 {
		t.Fatalf("forced Render = %d, %v", n, err)
	}
}

func TestCreate_UsesContentTypeExtension(t *testing.T) {
	dir := t.TempDir()
	lib := New(dir, &fakeSynth{contentType: "audio/wav"}, &fakeOutput{})
	if err := os.WriteFile(filepath.Join(dir, "offer.mp3"), []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	path, err := lib.Create(context.Background(), "offer", "buy a song")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if filepath.Base(path) != "offer.wav" {
		t.Errorf("path = %s", path)
	}
	if _, err := os.Stat(filepath.Join(dir, "offer.mp3")); !os.IsNotExist(err) {
		t.Errorf("stale mp3 clip kept: %v", err)
	}
}

func TestRender_ReportsFailures(t *testing.T) {
	lib := New(t.TempDir(), &fakeSynth{fail: true}, &fakeOutput{})
	n, err := lib.Render(context.Background(), false)
	if err == nil || n != 0 {
		t.Errorf("Render = %d, %v; want 0 and an error", n, err)
	}
}

func TestPlay(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "welcome.mp3"), []byte("cached"), 0o644); err != nil {
		t.Fatal(err)
	}
	synth := &fakeSynth{contentType: "audio/mpeg"}
	out := &fakeOutput{}
	lib := New(dir, synth, out)

	if !lib.Play(context.Background(), "welcome") {
		t.Error("Play(welcome) = false")
	}
	if !lib.Play(context.Background(), "try_again") {
		t.Error("Play(try_again) without clip = false, want live fallback")
	}
	if lib.Play(context.Background(), "no_such_message") {
		t.Error("Play(unknown) = true")
	}

	want := []string{"cached", "clip:Try again, oh master of terrible music choices."}
	if len(out.played) != len(want) {
		t.Fatalf("played = %v", out.played)
	}
	for i := range want {
		if out.played[i] != want[i] {
			t.Errorf("played[%d] = %q, want %q", i, out.played[i], want[i])
		}
	}
	if len(synth.calls) != 1 {
		t.Errorf("synth calls = %d, want 1", len(synth.calls))
	}
}

func TestText(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "offer.txt"), []byte(" custom offer \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	lib := New(dir, &fakeSynth{}, &fakeOutput{})

	if got, _ := lib.Text("offer"); got != "custom offer" {
		t.Errorf("Text(offer) = %q", got)
	}
	if got, _ := lib.Text("giving_up"); got != "Giving up already? Typical." {
		t.Errorf("Text(giving_up) = %q", got)
	}
	if _, err := lib.Text("nope"); !errors.Is(err, ErrUnknownMessage) {
		t.Errorf("Text(nope) err = %v", err)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "offer.wav"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	entries := New(dir, &fakeSynth{}, &fakeOutput{}).List()
	if len(entries) != 29 {
		t.Fatalf("entries = %d", len(entries))
	}
	for _, e := range entries {
		if e.Cached != (e.ID == "offer") {
			t.Errorf("%s cached = %v", e.ID, e.Cached)
		}
	}
}
