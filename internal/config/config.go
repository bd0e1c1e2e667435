// Package config handles loading and validating the jukebox configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissing is wrapped by every error Validate reports for an unset required key.
var ErrMissing = errors.New("missing required configuration")

// Config is the root configuration for the jukebox.
type Config struct {
	LLM         LLMConfig         `mapstructure:"llm"`
	STT         STTConfig         `mapstructure:"stt"`
	TTS         TTSConfig         `mapstructure:"tts"`
	Audio       AudioConfig       `mapstructure:"audio"`
	Messages    MessagesConfig    `mapstructure:"messages"`
	Player      PlayerConfig      `mapstructure:"player"`
	Store       StoreConfig       `mapstructure:"store"`
	Interaction InteractionConfig `mapstructure:"interaction"`
	Dispatch    DispatchConfig    `mapstructure:"dispatch"`
	Server      ServerConfig      `mapstructure:"server"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// LLMConfig selects and configures the completion backend.
type LLMConfig struct {
	Backend    string           `mapstructure:"backend"` // "openrouter" or "gemini"
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
}

// OpenRouterConfig holds settings for the OpenAI-compatible OpenRouter API.
type OpenRouterConfig struct {
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
	Model    string `mapstructure:"model"`
	SiteURL  string `mapstructure:"site_url"`  // sent as HTTP-Referer
	SiteName string `mapstructure:"site_name"` // sent as X-Title
}

// GeminiConfig holds Google Gemini API settings.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// STTConfig selects and configures the speech-to-text backend.
type STTConfig struct {
	Backend    string                 `mapstructure:"backend"` // "elevenlabs" or "openai"
	ElevenLabs ElevenLabsSTTConfig    `mapstructure:"elevenlabs"`
	OpenAI     OpenAITranscribeConfig `mapstructure:"openai"`
}

// ElevenLabsSTTConfig holds ElevenLabs speech-to-text settings.
type ElevenLabsSTTConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	Language       string `mapstructure:"language"` // ISO-639-3, e.g. "eng"
	TagAudioEvents bool   `mapstructure:"tag_audio_events"`
	Diarize        bool   `mapstructure:"diarize"`
}

// OpenAITranscribeConfig holds OpenAI Whisper settings.
type OpenAITranscribeConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Language string `mapstructure:"language"`
}

// TTSConfig selects and configures the text-to-speech backend.
type TTSConfig struct {
	Backend    string              `mapstructure:"backend"` // "elevenlabs" or "piper"
	ElevenLabs ElevenLabsTTSConfig `mapstructure:"elevenlabs"`
	Piper      PiperConfig         `mapstructure:"piper"`
}

// ElevenLabsTTSConfig holds ElevenLabs text-to-speech settings.
type ElevenLabsTTSConfig struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	VoiceID      string `mapstructure:"voice_id"`
	Model        string `mapstructure:"model"`
	OutputFormat string `mapstructure:"output_format"`
}

// PiperConfig holds Piper TTS settings (Wyoming protocol).
type PiperConfig struct {
	Endpoint string `mapstructure:"endpoint"` // Wyoming TCP endpoint (host:port)
	Voice    string `mapstructure:"voice"`
}

// AudioConfig controls microphone capture.
type AudioConfig struct {
	SampleRate      int `mapstructure:"sample_rate"`
	Channels        int `mapstructure:"channels"`
	FramesPerBuffer int `mapstructure:"frames_per_buffer"`
}

// MessagesConfig locates the static message cache.
type MessagesConfig struct {
	Dir string `mapstructure:"dir"`
}

// PlayerConfig locates playable songs.
type PlayerConfig struct {
	SongsDir    string `mapstructure:"songs_dir"`
	DefaultSong string `mapstructure:"default_song"`
}

// StoreConfig selects the persistence sink.
type StoreConfig struct {
	Backend string      `mapstructure:"backend"` // "mongo" or "none"
	Mongo   MongoConfig `mapstructure:"mongo"`
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI        string        `mapstructure:"uri"`
	Database   string        `mapstructure:"database"`
	Collection string        `mapstructure:"collection"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// InteractionConfig tunes the voice interaction loops.
type InteractionConfig struct {
	Listen       time.Duration `mapstructure:"listen"`
	StylesListen time.Duration `mapstructure:"styles_listen"`
	LyricsListen time.Duration `mapstructure:"lyrics_listen"`
	MaxSilence   int           `mapstructure:"max_silence"` // 0 = unlimited
}

// DispatchConfig holds the top-level loop timings.
type DispatchConfig struct {
	Settle        time.Duration `mapstructure:"settle"`
	OfferEvery    int           `mapstructure:"offer_every"`
	OfferLead     time.Duration `mapstructure:"offer_lead"`
	OfferTail     time.Duration `mapstructure:"offer_tail"`
	MinWait       time.Duration `mapstructure:"min_wait"`
	MaxWait       time.Duration `mapstructure:"max_wait"`
	RecoveryDelay time.Duration `mapstructure:"recovery_delay"`
}

// ServerConfig holds the optional health/status servers.
type ServerConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	HealthPort int  `mapstructure:"health_port"`
	GRPCPort   int  `mapstructure:"grpc_port"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.backend", "openrouter")
	v.SetDefault("llm.openrouter.api_key", "${OPENROUTER_API_KEY}")
	v.SetDefault("llm.openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("llm.openrouter.model", "mistralai/mistral-small-3.2-24b-instruct:free")
	v.SetDefault("llm.openrouter.site_url", "${SITE_URL}")
	v.SetDefault("llm.openrouter.site_name", "${SITE_NAME}")
	v.SetDefault("llm.gemini.api_key", "${GEMINI_API_KEY}")
	v.SetDefault("llm.gemini.model", "gemini-2.0-flash")

	v.SetDefault("stt.backend", "elevenlabs")
	v.SetDefault("stt.elevenlabs.api_key", "${ELEVENLABS_API_KEY}")
	v.SetDefault("stt.elevenlabs.base_url", "https://api.elevenlabs.io")
	v.SetDefault("stt.elevenlabs.model", "scribe_v1")
	v.SetDefault("stt.elevenlabs.language", "eng")
	v.SetDefault("stt.elevenlabs.tag_audio_events", true)
	v.SetDefault("stt.elevenlabs.diarize", true)
	v.SetDefault("stt.openai.api_key", "${OPENAI_API_KEY}")
	v.SetDefault("stt.openai.model", "whisper-1")
	v.SetDefault("stt.openai.language", "en")

	v.SetDefault("tts.backend", "elevenlabs")
	v.SetDefault("tts.elevenlabs.api_key", "${ELEVENLABS_API_KEY}")
	v.SetDefault("tts.elevenlabs.base_url", "https://api.elevenlabs.io")
	v.SetDefault("tts.elevenlabs.voice_id", "JBFqnCBsd6RMkjVDRZzb")
	v.SetDefault("tts.elevenlabs.model", "eleven_multilingual_v2")
	v.SetDefault("tts.elevenlabs.output_format", "mp3_44100_128")
	v.SetDefault("tts.piper.endpoint", "localhost:10200")
	v.SetDefault("tts.piper.voice", "en_US-lessac-medium")

	v.SetDefault("audio.sample_rate", 44100)
	v.SetDefault("audio.channels", 1)
	v.SetDefault("audio.frames_per_buffer", 1024)

	v.SetDefault("messages.dir", "static_audio")
	v.SetDefault("player.songs_dir", ".")
	v.SetDefault("player.default_song", "DemoSong.wav")

	v.SetDefault("store.backend", "mongo")
	v.SetDefault("store.mongo.uri", "${MONGODB_URI}")
	v.SetDefault("store.mongo.database", "${MONGODB_DATABASE}")
	v.SetDefault("store.mongo.collection", "${MONGODB_COLLECTION}")
	v.SetDefault("store.mongo.timeout", 10*time.Second)

	v.SetDefault("interaction.listen", 5*time.Second)
	v.SetDefault("interaction.styles_listen", 7*time.Second)
	v.SetDefault("interaction.lyrics_listen", 10*time.Second)
	v.SetDefault("interaction.max_silence", 3)

	v.SetDefault("dispatch.settle", 5*time.Second)
	v.SetDefault("dispatch.offer_every", 3)
	v.SetDefault("dispatch.offer_lead", 2*time.Second)
	v.SetDefault("dispatch.offer_tail", 3*time.Second)
	v.SetDefault("dispatch.min_wait", 8*time.Second)
	v.SetDefault("dispatch.max_wait", 15*time.Second)
	v.SetDefault("dispatch.recovery_delay", 5*time.Second)

	v.SetDefault("server.enabled", false)
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("server.grpc_port", 50051)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Load reads the configuration from .env, file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./jukebox.yaml, ./configs/jukebox.yaml, /etc/jukebox/jukebox.yaml.
func Load(configFile string) (*Config, error) {
	// A missing .env is normal in containers; real env vars still apply.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("jukebox")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/jukebox")
	}

	// Environment variables: JUKEBOX_LLM_BACKEND, JUKEBOX_STORE_MONGO_URI, etc.
	v.SetEnvPrefix("JUKEBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Debug("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.resolveEnvRefs()

	if cfg.Store.Mongo.Database == "" {
		cfg.Store.Mongo.Database = "aijukebox"
	}
	if cfg.Store.Mongo.Collection == "" {
		cfg.Store.Mongo.Collection = "songs"
	}

	return &cfg, nil
}

func (c *Config) resolveEnvRefs() {
	for _, field := range []*string{
		&c.LLM.OpenRouter.APIKey,
		&c.LLM.OpenRouter.SiteURL,
		&c.LLM.OpenRouter.SiteName,
		&c.LLM.Gemini.APIKey,
		&c.STT.ElevenLabs.APIKey,
		&c.STT.OpenAI.APIKey,
		&c.TTS.ElevenLabs.APIKey,
		&c.Store.Mongo.URI,
		&c.Store.Mongo.Database,
		&c.Store.Mongo.Collection,
	} {
		*field = resolveEnvRef(*field)
	}
}

// resolveEnvRef replaces "${VAR_NAME}" with the value of VAR_NAME.
// An unset variable resolves to the empty string.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		return os.Getenv(val[2 : len(val)-1])
	}
	return val
}

// Validate reports every required key that is unset for the selected backends.
func Validate(cfg *Config) error {
	var errs []error
	require := func(key, val string) {
		if val == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissing, key))
		}
	}

	switch cfg.LLM.Backend {
	case "openrouter":
		require("llm.openrouter.api_key (OPENROUTER_API_KEY)", cfg.LLM.OpenRouter.APIKey)
	case "gemini":
		require("llm.gemini.api_key (GEMINI_API_KEY)", cfg.LLM.Gemini.APIKey)
	default:
		errs = append(errs, fmt.Errorf("unknown llm backend %q", cfg.LLM.Backend))
	}

	switch cfg.STT.Backend {
	case "elevenlabs":
		require("stt.elevenlabs.api_key (ELEVENLABS_API_KEY)", cfg.STT.ElevenLabs.APIKey)
	case "openai":
		require("stt.openai.api_key (OPENAI_API_KEY)", cfg.STT.OpenAI.APIKey)
	default:
		errs = append(errs, fmt.Errorf("unknown stt backend %q", cfg.STT.Backend))
	}

	if err := ValidateTTS(cfg.TTS); err != nil {
		errs = append(errs, err)
	}

	switch cfg.Store.Backend {
	case "mongo":
		require("store.mongo.uri (MONGODB_URI)", cfg.Store.Mongo.URI)
	case "none":
	default:
		errs = append(errs, fmt.Errorf("unknown store backend %q", cfg.Store.Backend))
	}

	if cfg.Dispatch.MaxWait < cfg.Dispatch.MinWait {
		errs = append(errs, fmt.Errorf("dispatch.max_wait (%s) is shorter than dispatch.min_wait (%s)",
			cfg.Dispatch.MaxWait, cfg.Dispatch.MinWait))
	}

	return errors.Join(errs...)
}

// ValidateTTS reports every required key that is unset for the selected
// synthesis backend. ElevenLabs output must be mp3 or pcm, the only
// encodings the player decodes.
func ValidateTTS(cfg TTSConfig) error {
	var errs []error
	require := func(key, val string) {
		if val == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissing, key))
		}
	}

	switch cfg.Backend {
	case "elevenlabs":
		require("tts.elevenlabs.api_key (ELEVENLABS_API_KEY)", cfg.ElevenLabs.APIKey)
		require("tts.elevenlabs.voice_id", cfg.ElevenLabs.VoiceID)
		if f := cfg.ElevenLabs.OutputFormat; f != "" && !strings.HasPrefix(f, "mp3_") && !strings.HasPrefix(f, "pcm_") {
			errs = append(errs, fmt.Errorf("unsupported tts.elevenlabs.output_format %q (want mp3_* or pcm_*)", f))
		}
	case "piper":
		require("tts.piper.endpoint", cfg.Piper.Endpoint)
	default:
		errs = append(errs, fmt.Errorf("unknown tts backend %q", cfg.Backend))
	}
	return errors.Join(errs...)
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
