// Package validate turns raw LLM text into typed, schema-checked responses.
//
// Models intermittently wrap JSON in markdown fences or prose. Parse strips
// fences, decodes strictly, and checks every declared field. When that fails
// and a cleanup prompt is supplied, it asks the model exactly once to repair
// its answer and repeats the same checks on the reply. Anything still invalid
// is reported as absent; callers supply their own default.
package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/nadzzz/jukebox/internal/llm"
)

// Kind is the primitive JSON type a field must carry.
type Kind int

const (
	Bool Kind = iota
	String
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "boolean"
	case String:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field is one required key of a response object.
type Field struct {
	Name string
	Kind Kind
}

// Schema declares the required keys of a response kind.
type Schema struct {
	Name   string
	Fields []Field
}

// Check reports the first field of s that obj lacks or carries with the wrong type.
func (s Schema) Check(obj map[string]any) error {
	for _, f := range s.Fields {
		val, ok := obj[f.Name]
		if !ok {
			return fmt.Errorf("%s: missing key %q", s.Name, f.Name)
		}
		var typed bool
		switch f.Kind {
		case Bool:
			_, typed = val.(bool)
		case String:
			_, typed = val.(string)
		}
		if !typed {
			return fmt.Errorf("%s: key %q is %T, want %s", s.Name, f.Name, val, f.Kind)
		}
	}
	return nil
}

// Response is implemented by every struct that can be decoded from LLM output.
// Schema must not depend on the receiver's field values.
type Response interface {
	Schema() Schema
}

var fenceRe = regexp.MustCompile("```json|```")

// StripFences removes markdown code-fence markers and surrounding whitespace.
func StripFences(text string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
}

// Validator owns the completion client used for repair round-trips.
type Validator struct {
	client llm.Client
}

// New creates a Validator that repairs malformed responses through client.
func New(client llm.Client) *Validator {
	return &Validator{client: client}
}

// decode applies fence stripping, strict decoding and the schema check to raw.
func decode[T Response](raw string) (T, error) {
	var out T
	stripped := StripFences(raw)

	var obj map[string]any
	if err := json.Unmarshal([]byte(stripped), &obj); err != nil {
		return out, fmt.Errorf("decoding %s: %w", out.Schema().Name, err)
	}
	if obj == nil {
		return out, fmt.Errorf("decoding %s: not an object", out.Schema().Name)
	}
	if err := out.Schema().Check(obj); err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(stripped), &out); err != nil {
		return out, fmt.Errorf("decoding %s: %w", out.Schema().Name, err)
	}
	return out, nil
}

// Parse decodes raw into T. If raw does not satisfy T's schema and cleanup is
// non-empty, cleanup+raw is sent to the model once and its reply is checked
// the same way. The boolean is false when no valid T could be produced.
func Parse[T Response](ctx context.Context, v *Validator, raw, cleanup string) (T, bool) {
	var zero T
	logger := slog.With("component", "validate", "schema", zero.Schema().Name)

	out, err := decode[T](raw)
	if err == nil {
		return out, true
	}
	logger.Debug("response rejected", "error", err)

	if cleanup == "" || v == nil || v.client == nil {
		return zero, false
	}

	repaired, err := v.client.Complete(ctx, cleanup+raw, llm.CompleteOpts{})
	if err != nil {
		logger.Warn("repair round-trip failed", "error", err)
		return zero, false
	}
	logger.Debug("repaired response", "text", repaired)

	out, err = decode[T](repaired)
	if err != nil {
		logger.Warn("repaired response rejected", "error", err)
		return zero, false
	}
	return out, true
}

// Must is Parse with a fallback substituted for an absent result.
func Must[T Response](ctx context.Context, v *Validator, raw, cleanup string, fallback T) T {
	if out, ok := Parse[T](ctx, v, raw, cleanup); ok {
		return out
	}
	return fallback
}
