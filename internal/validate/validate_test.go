package validate

import (
	"context"
	"errors"
	"testing"

	"github.com/nadzzz/jukebox/internal/llm"
)

type verdict struct {
	Acceptable bool   `json:"acceptable"`
	Roast      string `json:"roast"`
}

func (verdict) Schema() Schema {
	return Schema{Name: "verdict", Fields: []Field{
		{Name: "acceptable", Kind: Bool},
		{Name: "roast", Kind: String},
	}}
}

// scriptedClient returns replies in order and records every prompt.
type scriptedClient struct {
	replies []string
	err     error
	prompts []string
}

func (c *scriptedClient) Name() string { return "scripted" }
func (c *scriptedClient) Close() error { return nil }

func (c *scriptedClient) Complete(_ context.Context, prompt string, _ llm.CompleteOpts) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	if len(c.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	r := c.replies[0]
	c.replies = c.replies[1:]
	return r, nil
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```{\"a\":1}```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
		{"no fences", "no fences"},
	}
	for _, tt := range tests {
		if got := StripFences(tt.in); got != tt.want {
			t.Errorf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParse_ValidNeedsNoRepair(t *testing.T) {
	client := &scriptedClient{}
	v := New(client)

	got, ok := Parse[verdict](context.Background(), v, `{"acceptable": false, "roast": "meh"}`, "fix: ")
	if !ok {
		t.Fatal("expected valid result")
	}
	if got.Acceptable || got.Roast != "meh" {
		t.Errorf("got %+v", got)
	}
	if len(client.prompts) != 0 {
		t.Errorf("repair calls = %d, want 0", len(client.prompts))
	}
}

func TestParse_FencedEqualsUnfenced(t *testing.T) {
	v := New(&scriptedClient{})
	fenced, ok1 := Parse[verdict](context.Background(), v, "```json\n{\"acceptable\": true, \"roast\": \"ok\"}\n```", "")
	plain, ok2 := Parse[verdict](context.Background(), v, `{"acceptable": true, "roast": "ok"}`, "")
	if !ok1 || !ok2 {
		t.Fatalf("ok = %v/%v, want both true", ok1, ok2)
	}
	if fenced != plain {
		t.Errorf("fenced %+v != plain %+v", fenced, plain)
	}
	if !fenced.Acceptable || fenced.Roast != "ok" {
		t.Errorf("got %+v", fenced)
	}
}

func TestParse_ProseWithoutCleanupIsAbsent(t *testing.T) {
	client := &scriptedClient{replies: []string{`{"acceptable": true, "roast": "x"}`}}
	_, ok := Parse[verdict](context.Background(), New(client), `Sure! {"acceptable": true}`, "")
	if ok {
		t.Fatal("expected absent result")
	}
	if len(client.prompts) != 0 {
		t.Errorf("repair calls = %d, want 0 without a cleanup prompt", len(client.prompts))
	}
}

func TestParse_RepairSucceeds(t *testing.T) {
	raw := `Here you go: {"acceptable": true}`
	client := &scriptedClient{replies: []string{"```json\n{\"acceptable\": true, \"roast\": \"fixed\"}\n```"}}

	got, ok := Parse[verdict](context.Background(), New(client), raw, "CLEAN:")
	if !ok {
		t.Fatal("expected repaired result")
	}
	if got.Roast != "fixed" {
		t.Errorf("roast = %q, want fixed", got.Roast)
	}
	if len(client.prompts) != 1 {
		t.Fatalf("repair calls = %d, want 1", len(client.prompts))
	}
	if client.prompts[0] != "CLEAN:"+raw {
		t.Errorf("repair prompt = %q, want cleanup + original raw text", client.prompts[0])
	}
}

func TestParse_AtMostOneRepair(t *testing.T) {
	tests := []struct {
		name   string
		client *scriptedClient
	}{
		{"repair_still_invalid", &scriptedClient{replies: []string{"still not json", `{"acceptable": true, "roast": "late"}`}}},
		{"repair_errors", &scriptedClient{err: errors.New("gateway down")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Parse[verdict](context.Background(), New(tt.client), "garbage", "CLEAN:")
			if ok {
				t.Fatal("expected absent result")
			}
			if len(tt.client.prompts) != 1 {
				t.Errorf("repair calls = %d, want exactly 1", len(tt.client.prompts))
			}
		})
	}
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing_key", `{"acceptable": true}`},
		{"wrong_type", `{"acceptable": "yes", "roast": "x"}`},
		{"null_value", `{"acceptable": true, "roast": null}`},
		{"array", `[true, "x"]`},
		{"json_null", `null`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Parse[verdict](context.Background(), New(nil), tt.raw, "CLEAN:"); ok {
				t.Errorf("Parse(%q) ok = true, want false", tt.raw)
			}
		})
	}
}

func TestMust_Fallback(t *testing.T) {
	fallback := verdict{Roast: "default"}
	got := Must(context.Background(), New(nil), "nope", "", fallback)
	if got != fallback {
		t.Errorf("Must = %+v, want fallback", got)
	}
}
