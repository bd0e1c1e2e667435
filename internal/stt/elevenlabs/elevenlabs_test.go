package elevenlabs

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nadzzz/jukebox/internal/config"
	"github.com/nadzzz/jukebox/internal/stt"
)

func TestTranscribe_SendsMultipartForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/speech-to-text" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("xi-api-key"); got != "el-key" {
			t.Errorf("xi-api-key = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		want := map[string]string{
			"model_id":         "scribe_v1",
			"language_code":    "eng",
			"tag_audio_events": "true",
			"diarize":          "false",
		}
		for k, v := range want {
			if got := r.FormValue(k); got != v {
				t.Errorf("field %s = %q, want %q", k, got, v)
			}
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if string(data) != "RIFFdata" || hdr.Filename != "audio.wav" {
			t.Errorf("file = %q (%s)", data, hdr.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"language_code":"eng","language_probability":0.98,"text":" play some jazz "}`)
	}))
	defer srv.Close()

	tr := New(config.ElevenLabsSTTConfig{
		APIKey:         "el-key",
		BaseURL:        srv.URL + "/",
		Model:          "scribe_v1",
		Language:       "eng",
		TagAudioEvents: true,
	})
	res, err := tr.Transcribe(context.Background(), []byte("RIFFdata"), "audio/wav", stt.TranscribeOpts{})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if res.Text != " play some jazz " || res.Language != "eng" {
		t.Errorf("result = %+v", res)
	}
}

func TestTranscribe_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	tr := New(config.ElevenLabsSTTConfig{APIKey: "bad", BaseURL: srv.URL, Model: "scribe_v1"})
	_, err := tr.Transcribe(context.Background(), []byte("x"), "audio/wav", stt.TranscribeOpts{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "status 401") || !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("error = %v", err)
	}
}
