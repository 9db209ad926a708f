// Package config loads and validates application settings.
//
// Settings are layered: built-in defaults, then the YAML config file,
// then DITADO_* environment variables. The OpenAI API key is read only
// from the environment so it never lands in a file on disk.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/LuzGuilherme/Ditado/internal/hotkey"
)

const envPrefix = "ditado"

// Config holds all application configuration.
type Config struct {
	Hotkey        string        `yaml:"hotkey"`
	Language      string        `yaml:"language"`
	EnhanceText   bool          `yaml:"enhance_text" split_words:"true"`
	SoundFeedback bool          `yaml:"sound_feedback" split_words:"true"`
	API           APIConfig     `yaml:"api"`
	Audio         AudioConfig   `yaml:"audio"`
	History       HistoryConfig `yaml:"history"`
	StateDir      string        `yaml:"state_dir" split_words:"true"`
	MetricsAddr   string        `yaml:"metrics_addr" split_words:"true"`
	LogLevel      string        `yaml:"log_level" split_words:"true"`
}

// APIConfig holds OpenAI API settings. The key is environment-only
// (DITADO_API_KEY) and is never marshalled back to YAML.
type APIConfig struct {
	Key                      string `yaml:"-"`
	BaseURL                  string `yaml:"base_url" split_words:"true"`
	WhisperModel             string `yaml:"whisper_model" split_words:"true"`
	GPTModel                 string `yaml:"gpt_model" split_words:"true"`
	TranscribeTimeoutSeconds int    `yaml:"transcribe_timeout_seconds" split_words:"true"`
	EnhanceTimeoutSeconds    int    `yaml:"enhance_timeout_seconds" split_words:"true"`
}

// AudioConfig holds audio capture settings.
type AudioConfig struct {
	SampleRate          uint32 `yaml:"sample_rate" split_words:"true"`
	Channels            uint32 `yaml:"channels"`
	MaxRecordingSeconds int    `yaml:"max_recording_seconds" split_words:"true"`
	AutoStop            bool   `yaml:"auto_stop" split_words:"true"`
	MuteSystemAudio     bool   `yaml:"mute_system_audio" split_words:"true"`
}

// HistoryConfig holds transcription history settings.
type HistoryConfig struct {
	StoreFullText bool `yaml:"store_full_text" split_words:"true"`
}

// TranscribeTimeout returns the whole-request timeout for transcription calls.
func (a APIConfig) TranscribeTimeout() time.Duration {
	return time.Duration(a.TranscribeTimeoutSeconds) * time.Second
}

// EnhanceTimeout returns the whole-request timeout for enhancement calls.
func (a APIConfig) EnhanceTimeout() time.Duration {
	return time.Duration(a.EnhanceTimeoutSeconds) * time.Second
}

// MaxRecording returns the auto-stop recording deadline as a duration.
func (a AudioConfig) MaxRecording() time.Duration {
	return time.Duration(a.MaxRecordingSeconds) * time.Second
}

// DefaultStateDir returns the default per-user state directory.
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ditado")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultStateDir(), "config.yaml")
}

// HistoryPath returns the transcription history file path.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.StateDir, "history.json")
}

// UsagePath returns the usage statistics file path.
func (c *Config) UsagePath() string {
	return filepath.Join(c.StateDir, "usage.json")
}

// LogDir returns the directory for log files.
func (c *Config) LogDir() string {
	return filepath.Join(c.StateDir, "logs")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Hotkey:        "caps_lock",
		Language:      "auto",
		EnhanceText:   true,
		SoundFeedback: true,
		API: APIConfig{
			BaseURL:                  "https://api.openai.com/v1",
			WhisperModel:             "whisper-1",
			GPTModel:                 "gpt-4o-mini",
			TranscribeTimeoutSeconds: 60,
			EnhanceTimeoutSeconds:    30,
		},
		Audio: AudioConfig{
			SampleRate:          16000,
			Channels:            1,
			MaxRecordingSeconds: 300,
			AutoStop:            true,
			MuteSystemAudio:     true,
		},
		History: HistoryConfig{
			StoreFullText: true,
		},
		StateDir: DefaultStateDir(),
		LogLevel: "info",
	}
}

// Load reads the YAML config file, fills missing fields with defaults,
// and applies DITADO_* environment overrides. A missing file is not an
// error; defaults plus the environment apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	// Pull in a .env file if one exists; variables already set in the
	// environment win.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	cfg.StateDir = expandTilde(cfg.StateDir)

	return cfg, nil
}

// Save writes the config as YAML. The API key is excluded by its yaml
// tag, so saved files never contain credentials.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.Hotkey == "" {
		return fmt.Errorf("hotkey must not be empty")
	}

	if len(hotkey.Parse(c.Hotkey)) == 0 {
		return fmt.Errorf("hotkey %q contains no recognized keys", c.Hotkey)
	}

	if _, ok := SupportedLanguages[c.Language]; !ok {
		return fmt.Errorf("language %q is not a supported language code", c.Language)
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}

	if c.API.WhisperModel == "" {
		return fmt.Errorf("api.whisper_model must not be empty")
	}

	if c.API.GPTModel == "" {
		return fmt.Errorf("api.gpt_model must not be empty")
	}

	if c.API.TranscribeTimeoutSeconds <= 0 {
		return fmt.Errorf("api.transcribe_timeout_seconds must be > 0")
	}

	if c.API.EnhanceTimeoutSeconds <= 0 {
		return fmt.Errorf("api.enhance_timeout_seconds must be > 0")
	}

	if c.Audio.SampleRate == 0 {
		return fmt.Errorf("audio.sample_rate must be > 0")
	}

	if c.Audio.Channels == 0 {
		return fmt.Errorf("audio.channels must be > 0")
	}

	if c.Audio.MaxRecordingSeconds <= 0 {
		return fmt.Errorf("audio.max_recording_seconds must be > 0")
	}

	if c.StateDir == "" {
		return fmt.Errorf("state_dir must not be empty")
	}

	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be trace, debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}

// expandTilde replaces a leading ~ with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
