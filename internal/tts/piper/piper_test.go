package piper

import (
	"bufio"
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/nadzzz/jukebox/internal/audio"
	"github.com/nadzzz/jukebox/internal/config"
	"github.com/nadzzz/jukebox/internal/tts"
)

func TestEventRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	in := event{Type: "audio-chunk", Data: map[string]any{"rate": 16000}}
	if err := writeEvent(&buf, in, []byte{1, 2, 3}); err != nil {
		t.Fatalf("writeEvent: %v", err)
	}
	if !strings.HasSuffix(strings.SplitN(buf.String(), "\n", 2)[0], " 3") {
		t.Errorf("header = %q, want payload length 3", strings.SplitN(buf.String(), "\n", 2)[0])
	}

	out, payload, err := readEvent(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("readEvent: %v", err)
	}
	if out.Type != "audio-chunk" || intField(out.Data, "rate", 0) != 16000 {
		t.Errorf("event = %+v", out)
	}
	if !bytes.Equal(payload, []byte{1, 2, 3}) {
		t.Errorf("payload = %v", payload)
	}
}

func TestReadEvent_BadHeader(t *testing.T) {
	for _, in := range []string{"garbage\n", "1\n", "x 0\n", "-1 0\n"} {
		if _, _, err := readEvent(bufio.NewReader(strings.NewReader(in))); err == nil {
			t.Errorf("readEvent(%q): expected error", in)
		}
	}
}

// fakePiper serves one synthesize request over conn using script.
func fakePiper(t *testing.T, conn net.Conn, got chan<- event, script func(w net.Conn)) {
	t.Helper()
	go func() {
		defer conn.Close()
		evt, _, err := readEvent(bufio.NewReader(conn))
		if err != nil {
			t.Errorf("server readEvent: %v", err)
			return
		}
		got <- *evt
		script(conn)
	}()
}

func newPiped(t *testing.T, script func(w net.Conn)) (*Synthesizer, chan event) {
	t.Helper()
	client, server := net.Pipe()
	got := make(chan event, 1)
	fakePiper(t, server, got, script)

	s := New(config.PiperConfig{Endpoint: "tcp://piper:10200", Voice: "en_US-lessac-medium"})
	s.dial = func(_ context.Context, network, addr string) (net.Conn, error) {
		if network != "tcp" || addr != "piper:10200" {
			t.Errorf("dial %s %s", network, addr)
		}
		return client, nil
	}
	return s, got
}

func TestSynthesize_CollectsChunksIntoWAV(t *testing.T) {
	s, got := newPiped(t, func(w net.Conn) {
		_ = writeEvent(w, event{Type: "audio-start", Data: map[string]any{"rate": 16000, "width": 2, "channels": 1}}, nil)
		_ = writeEvent(w, event{Type: "audio-chunk"}, []byte{1, 0, 2, 0})
		_ = writeEvent(w, event{Type: "audio-chunk"}, []byte{3, 0})
		_ = writeEvent(w, event{Type: "audio-stop"}, nil)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	res, err := s.Synthesize(ctx, "hello there", tts.SynthesizeOpts{})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	req := <-got
	if req.Type != "synthesize" || req.Data["text"] != "hello there" {
		t.Errorf("request = %+v", req)
	}
	if voice, _ := req.Data["voice"].(map[string]any); voice["name"] != "en_US-lessac-medium" {
		t.Errorf("voice = %v", req.Data["voice"])
	}

	if res.ContentType != "audio/wav" || res.Ext() != ".wav" {
		t.Errorf("content type = %q", res.ContentType)
	}
	info, err := audio.ParseWAVHeader(res.Audio)
	if err != nil {
		t.Fatalf("ParseWAVHeader: %v", err)
	}
	if info.SampleRate != 16000 || info.DataLen != 6 {
		t.Errorf("wav info = %+v", info)
	}
}

func TestSynthesize_ServerError(t *testing.T) {
	s, _ := newPiped(t, func(w net.Conn) {
		_ = writeEvent(w, event{Type: "error", Data: map[string]any{"text": "voice not found"}}, nil)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := s.Synthesize(ctx, "hi", tts.SynthesizeOpts{})
	if err == nil || !strings.Contains(err.Error(), "voice not found") {
		t.Fatalf("err = %v, want piper error", err)
	}
}

func TestSynthesize_EmptyText(t *testing.T) {
	s := New(config.PiperConfig{Endpoint: "localhost:10200"})
	if _, err := s.Synthesize(context.Background(), "  ", tts.SynthesizeOpts{}); err == nil {
		t.Fatal("expected error for empty text")
	}
}
