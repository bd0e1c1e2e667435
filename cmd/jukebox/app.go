package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nadzzz/jukebox/internal/audio"
	"github.com/nadzzz/jukebox/internal/config"
	"github.com/nadzzz/jukebox/internal/interaction"
	"github.com/nadzzz/jukebox/internal/llm"
	"github.com/nadzzz/jukebox/internal/llm/gemini"
	"github.com/nadzzz/jukebox/internal/llm/openrouter"
	"github.com/nadzzz/jukebox/internal/player"
	"github.com/nadzzz/jukebox/internal/speech"
	"github.com/nadzzz/jukebox/internal/static"
	"github.com/nadzzz/jukebox/internal/store"
	mongostore "github.com/nadzzz/jukebox/internal/store/mongo"
	"github.com/nadzzz/jukebox/internal/stt"
	elevenlabsstt "github.com/nadzzz/jukebox/internal/stt/elevenlabs"
	openaistt "github.com/nadzzz/jukebox/internal/stt/openai"
	"github.com/nadzzz/jukebox/internal/tts"
	elevenlabstts "github.com/nadzzz/jukebox/internal/tts/elevenlabs"
	"github.com/nadzzz/jukebox/internal/tts/piper"
	"github.com/nadzzz/jukebox/internal/validate"
)

// app holds every component the interactive commands share.
type app struct {
	cfg *config.Config

	llm   llm.Client
	stt   stt.Transcriber
	tts   tts.Synthesizer
	out   audio.Output
	store store.Sink

	listener *speech.Listener
	speaker  *speech.Speaker
	clips    *static.Library
	player   *player.Controller
}

// newApp validates cfg and builds the configured backends.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	client, err := newLLM(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}
	tr, err := newTranscriber(cfg.STT)
	if err != nil {
		client.Close()
		return nil, err
	}
	synth, err := newSynthesizer(cfg.TTS)
	if err != nil {
		client.Close()
		tr.Close()
		return nil, err
	}
	sink, err := newSink(cfg.Store)
	if err != nil {
		client.Close()
		tr.Close()
		synth.Close()
		return nil, err
	}

	out := audio.NewSpeaker()
	return &app{
		cfg:      cfg,
		llm:      client,
		stt:      tr,
		tts:      synth,
		out:      out,
		store:    sink,
		listener: speech.NewListener(audio.NewRecorder(cfg.Audio), tr),
		speaker:  speech.NewSpeaker(synth, out),
		clips:    static.New(cfg.Messages.Dir, synth, out),
		player:   player.New(cfg.Player, out),
	}, nil
}

func (a *app) interactionDeps() interaction.Deps {
	return interaction.Deps{
		Listener:  a.listener,
		Speaker:   a.speaker,
		Clips:     a.clips,
		LLM:       a.llm,
		Validator: validate.New(a.llm),
		Config:    a.cfg.Interaction,
	}
}

// Close releases every backend.
func (a *app) Close() {
	err := errors.Join(a.llm.Close(), a.stt.Close(), a.tts.Close())
	if err != nil {
		slog.Warn("closing backends", "error", err)
	}
}

func newLLM(ctx context.Context, cfg config.LLMConfig) (llm.Client, error) {
	switch cfg.Backend {
	case "openrouter":
		slog.Info("using OpenRouter LLM", "model", cfg.OpenRouter.Model)
		return openrouter.New(cfg.OpenRouter), nil
	case "gemini":
		slog.Info("using Gemini LLM", "model", cfg.Gemini.Model)
		c, err := gemini.New(ctx, cfg.Gemini)
		if err != nil {
			return nil, fmt.Errorf("creating gemini client: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown llm backend %q", cfg.Backend)
	}
}

func newTranscriber(cfg config.STTConfig) (stt.Transcriber, error) {
	switch cfg.Backend {
	case "elevenlabs":
		slog.Info("using ElevenLabs transcription", "model", cfg.ElevenLabs.Model)
		return elevenlabsstt.New(cfg.ElevenLabs), nil
	case "openai":
		slog.Info("using OpenAI transcription", "model", cfg.OpenAI.Model)
		return openaistt.New(cfg.OpenAI), nil
	default:
		return nil, fmt.Errorf("unknown stt backend %q", cfg.Backend)
	}
}

func newSynthesizer(cfg config.TTSConfig) (tts.Synthesizer, error) {
	switch cfg.Backend {
	case "elevenlabs":
		slog.Info("using ElevenLabs TTS", "voice", cfg.ElevenLabs.VoiceID, "model", cfg.ElevenLabs.Model)
		return elevenlabstts.New(cfg.ElevenLabs), nil
	case "piper":
		slog.Info("using Piper TTS", "endpoint", cfg.Piper.Endpoint, "voice", cfg.Piper.Voice)
		return piper.New(cfg.Piper), nil
	default:
		return nil, fmt.Errorf("unknown tts backend %q", cfg.Backend)
	}
}

func newSink(cfg config.StoreConfig) (store.Sink, error) {
	switch cfg.Backend {
	case "mongo":
		slog.Info("storing songs in MongoDB", "database", cfg.Mongo.Database, "collection", cfg.Mongo.Collection)
		return mongostore.New(cfg.Mongo), nil
	case "none":
		slog.Info("song storage disabled")
		return store.Discard{}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
