// Package interaction implements the spoken exchanges of the jukebox: request
// classification, the song pickers and the confirmation loop.
//
// Every loop follows the same turn policy. "quit" ends the loop as cancelled.
// An empty transcript, or a failed capture, re-prompts the current question
// without consulting the model; a run of max_silence such turns cancels.
// Classifications below medium confidence are asked again.
package interaction

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nadzzz/jukebox/internal/config"
	"github.com/nadzzz/jukebox/internal/llm"
	"github.com/nadzzz/jukebox/internal/message"
	"github.com/nadzzz/jukebox/internal/validate"
)

// Listener captures and transcribes one utterance.
type Listener interface {
	Listen(ctx context.Context, d time.Duration) (string, error)
}

// Speaker speaks dynamic text such as roasts.
type Speaker interface {
	Say(ctx context.Context, text string) error
}

// Clips plays static messages by id.
type Clips interface {
	Play(ctx context.Context, id string) bool
}

// Deps are the collaborators of a Session.
type Deps struct {
	Listener  Listener
	Speaker   Speaker
	Clips     Clips
	LLM       llm.Client
	Validator *validate.Validator
	Config    config.InteractionConfig
}

// Result is the terminal state of a picker.
type Result struct {
	Outcome    message.Outcome
	Song       message.SongDetails
	Evaluation message.Evaluation
}

// Session runs interaction loops for one listener request.
type Session struct {
	Deps
	id     string
	logger *slog.Logger
}

// NewSession creates a Session tagged with a fresh session id.
func NewSession(deps Deps) *Session {
	id := uuid.NewString()
	return &Session{
		Deps:   deps,
		id:     id,
		logger: slog.With("component", "interaction", "session_id", id),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

type turn int

const (
	turnHeard turn = iota
	turnSilent
	turnFailed // capture or transcription error
	turnQuit
	turnCancelled
)

// silence counts consecutive silent turns within one loop.
type silence struct {
	max int
	run int
}

// observe records a turn and reports whether the silence budget is spent.
// Failed captures count as silent.
func (c *silence) observe(t turn) bool {
	if t != turnSilent && t != turnFailed {
		c.run = 0
		return false
	}
	c.run++
	return c.max > 0 && c.run >= c.max
}

// IsQuit reports whether a transcript asks to leave the current loop.
func IsQuit(text string) bool {
	return strings.EqualFold(strings.TrimRight(strings.TrimSpace(text), ".!?,;: "), "quit")
}

// hear captures one utterance and classifies the turn.
func (s *Session) hear(ctx context.Context, d time.Duration) (string, turn) {
	text, err := s.Listener.Listen(ctx, d)
	if ctx.Err() != nil {
		return "", turnCancelled
	}
	if err != nil {
		s.logger.Error("listening failed", "error", err)
		return "", turnFailed
	}
	text = strings.TrimSpace(text)
	switch {
	case IsQuit(text):
		return text, turnQuit
	case text == "":
		return "", turnSilent
	default:
		s.logger.Info("user said", "transcript", text)
		return text, turnHeard
	}
}

func (s *Session) say(ctx context.Context, text string) {
	if err := s.Speaker.Say(ctx, text); err != nil {
		s.logger.Error("speaking failed", "error", err)
	}
}

func (s *Session) play(ctx context.Context, ids ...string) {
	for _, id := range ids {
		s.Clips.Play(ctx, id)
	}
}

// ClassifyRequest decides whether an utterance asks for a song or a custom song.
func (s *Session) ClassifyRequest(ctx context.Context, transcript string) message.RequestIntent {
	raw, err := s.LLM.Complete(ctx, requestPrompt(transcript), llm.CompleteOpts{})
	if err != nil {
		s.logger.Error("classifying request failed", "error", err)
		return message.DefaultRequestIntent()
	}
	s.logger.Debug("request classification", "response", raw)
	intent := validate.Must(ctx, s.Validator, raw, requestCleanup, message.DefaultRequestIntent())
	s.logger.Info("request classified", "relevant", intent.Relevant, "type", intent.Type, "confidence", intent.Confidence)
	return intent
}

func (s *Session) evaluate(ctx context.Context, prompt string) message.Evaluation {
	raw, err := s.LLM.Complete(ctx, prompt, llm.CompleteOpts{})
	if err != nil {
		s.logger.Error("evaluating song failed", "error", err)
		return message.FailedEvaluation(err)
	}
	s.logger.Debug("song evaluation", "response", raw)
	return validate.Must(ctx, s.Validator, raw, evaluationCleanup, message.DefaultEvaluation())
}

func (s *Session) classifyConfirmation(ctx context.Context, transcript string) message.Confirmation {
	raw, err := s.LLM.Complete(ctx, confirmationPrompt(transcript), llm.CompleteOpts{})
	if err != nil {
		s.logger.Error("classifying confirmation failed", "error", err)
		return message.DefaultConfirmation()
	}
	s.logger.Debug("confirmation classification", "response", raw)
	return validate.Must(ctx, s.Validator, raw, confirmationCleanup, message.DefaultConfirmation())
}
