package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nadzzz/jukebox/internal/config"
	"github.com/nadzzz/jukebox/internal/llm"
)

func TestComplete_SendsPromptAndHeaders(t *testing.T) {
	var gotReq struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var gotAuth, gotReferer, gotTitle string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s, want /chat/completions", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"a joke"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := New(config.OpenRouterConfig{
		APIKey:   "key",
		BaseURL:  srv.URL,
		Model:    "default-model",
		SiteURL:  "https://example.test",
		SiteName: "Crooked Jukebox",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	got, err := c.Complete(ctx, "tell me a joke", llm.CompleteOpts{Model: "override"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "a joke" {
		t.Errorf("content = %q, want %q", got, "a joke")
	}
	if gotAuth != "Bearer key" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotReferer != "https://example.test" || gotTitle != "Crooked Jukebox" {
		t.Errorf("site headers = %q / %q", gotReferer, gotTitle)
	}
	if gotReq.Model != "override" {
		t.Errorf("model = %q, want override", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" || gotReq.Messages[0].Content != "tell me a joke" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}

func TestComplete_Failures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status_non_2xx", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"oops"}}`))
		}},
		{"empty_choices", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			c := New(config.OpenRouterConfig{APIKey: "key", BaseURL: srv.URL, Model: "m"})
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if _, err := c.Complete(ctx, "hi", llm.CompleteOpts{}); err == nil {
				t.Fatal("expected error; got nil")
			}
		})
	}
}
