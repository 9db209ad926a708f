package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Hotkey != "caps_lock" {
		t.Errorf("Hotkey = %q, want %q", cfg.Hotkey, "caps_lock")
	}
	if cfg.Language != "auto" {
		t.Errorf("Language = %q, want %q", cfg.Language, "auto")
	}
	if !cfg.EnhanceText {
		t.Error("EnhanceText should default to true")
	}
	if !cfg.SoundFeedback {
		t.Error("SoundFeedback should default to true")
	}
	if cfg.API.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, "https://api.openai.com/v1")
	}
	if cfg.API.WhisperModel != "whisper-1" {
		t.Errorf("API.WhisperModel = %q, want %q", cfg.API.WhisperModel, "whisper-1")
	}
	if cfg.API.GPTModel != "gpt-4o-mini" {
		t.Errorf("API.GPTModel = %q, want %q", cfg.API.GPTModel, "gpt-4o-mini")
	}
	if cfg.API.Key != "" {
		t.Errorf("API.Key = %q, want empty (environment-only)", cfg.API.Key)
	}
	if cfg.Audio.SampleRate != 16000 {
		t.Errorf("Audio.SampleRate = %d, want 16000", cfg.Audio.SampleRate)
	}
	if cfg.Audio.Channels != 1 {
		t.Errorf("Audio.Channels = %d, want 1", cfg.Audio.Channels)
	}
	if cfg.Audio.MaxRecordingSeconds != 300 {
		t.Errorf("Audio.MaxRecordingSeconds = %d, want 300", cfg.Audio.MaxRecordingSeconds)
	}
	if !cfg.Audio.AutoStop {
		t.Error("Audio.AutoStop should default to true")
	}
	if !cfg.Audio.MuteSystemAudio {
		t.Error("Audio.MuteSystemAudio should default to true")
	}
	if !cfg.History.StoreFullText {
		t.Error("History.StoreFullText should default to true")
	}
	if cfg.MetricsAddr != "" {
		t.Errorf("MetricsAddr = %q, want empty (disabled)", cfg.MetricsAddr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Validate() on defaults: %v", err)
	}
}

func TestLoad(t *testing.T) {
	yamlContent := `
hotkey: ctrl_l+space
language: pt
enhance_text: false
audio:
  sample_rate: 44100
  channels: 2
  max_recording_seconds: 120
  mute_system_audio: false
api:
  gpt_model: gpt-4o
log_level: debug
`
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Hotkey != "ctrl_l+space" {
		t.Errorf("Hotkey = %q, want %q", cfg.Hotkey, "ctrl_l+space")
	}
	if cfg.Language != "pt" {
		t.Errorf("Language = %q, want %q", cfg.Language, "pt")
	}
	if cfg.EnhanceText {
		t.Error("EnhanceText should be false")
	}
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("Audio.SampleRate = %d, want 44100", cfg.Audio.SampleRate)
	}
	if cfg.Audio.Channels != 2 {
		t.Errorf("Audio.Channels = %d, want 2", cfg.Audio.Channels)
	}
	if cfg.Audio.MaxRecordingSeconds != 120 {
		t.Errorf("Audio.MaxRecordingSeconds = %d, want 120", cfg.Audio.MaxRecordingSeconds)
	}
	if cfg.Audio.MuteSystemAudio {
		t.Error("Audio.MuteSystemAudio should be false")
	}
	if cfg.API.GPTModel != "gpt-4o" {
		t.Errorf("API.GPTModel = %q, want %q", cfg.API.GPTModel, "gpt-4o")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}

	// Fields absent from the file keep their defaults.
	if cfg.API.WhisperModel != "whisper-1" {
		t.Errorf("API.WhisperModel = %q, want default %q", cfg.API.WhisperModel, "whisper-1")
	}
	if !cfg.SoundFeedback {
		t.Error("SoundFeedback should keep its default true")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for missing file", err)
	}
	if cfg.Hotkey != "caps_lock" {
		t.Errorf("Hotkey = %q, want default %q", cfg.Hotkey, "caps_lock")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	yamlContent := `
hotkey: caps_lock
language: en
api:
  base_url: https://file.example.com/v1
`
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("DITADO_API_KEY", "sk-test-123")
	t.Setenv("DITADO_HOTKEY", "ctrl_l+shift")
	t.Setenv("DITADO_LANGUAGE", "pt")
	t.Setenv("DITADO_API_BASE_URL", "https://env.example.com/v1")
	t.Setenv("DITADO_AUDIO_MUTE_SYSTEM_AUDIO", "false")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.Key != "sk-test-123" {
		t.Errorf("API.Key = %q, want %q", cfg.API.Key, "sk-test-123")
	}
	if cfg.Hotkey != "ctrl_l+shift" {
		t.Errorf("Hotkey = %q, want env override %q", cfg.Hotkey, "ctrl_l+shift")
	}
	if cfg.Language != "pt" {
		t.Errorf("Language = %q, want env override %q", cfg.Language, "pt")
	}
	if cfg.API.BaseURL != "https://env.example.com/v1" {
		t.Errorf("API.BaseURL = %q, want env override", cfg.API.BaseURL)
	}
	if cfg.Audio.MuteSystemAudio {
		t.Error("Audio.MuteSystemAudio should be false from env")
	}
}

func TestLoadExpandsTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	yamlContent := `
state_dir: ~/ditado-state
`
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := filepath.Join(home, "ditado-state")
	if cfg.StateDir != expected {
		t.Errorf("StateDir = %q, want %q", cfg.StateDir, expected)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "sub", "config.yaml")

	cfg := Default()
	cfg.Hotkey = "alt_l+space"
	cfg.Language = "pt"
	cfg.Audio.MaxRecordingSeconds = 90

	if err := cfg.Save(cfgPath); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Hotkey != "alt_l+space" {
		t.Errorf("Hotkey = %q, want %q", loaded.Hotkey, "alt_l+space")
	}
	if loaded.Language != "pt" {
		t.Errorf("Language = %q, want %q", loaded.Language, "pt")
	}
	if loaded.Audio.MaxRecordingSeconds != 90 {
		t.Errorf("Audio.MaxRecordingSeconds = %d, want 90", loaded.Audio.MaxRecordingSeconds)
	}
}

func TestSaveOmitsAPIKey(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")

	cfg := Default()
	cfg.API.Key = "sk-secret-value"

	if err := cfg.Save(cfgPath); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	if strings.Contains(string(data), "sk-secret-value") {
		t.Error("saved config must not contain the API key")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty hotkey",
			modify:  func(c *Config) { c.Hotkey = "" },
			wantErr: true,
		},
		{
			name:    "unrecognized hotkey keys",
			modify:  func(c *Config) { c.Hotkey = "not_a_real_key" },
			wantErr: true,
		},
		{
			name:    "unsupported language",
			modify:  func(c *Config) { c.Language = "xx" },
			wantErr: true,
		},
		{
			name:    "empty base url",
			modify:  func(c *Config) { c.API.BaseURL = "" },
			wantErr: true,
		},
		{
			name:    "empty whisper model",
			modify:  func(c *Config) { c.API.WhisperModel = "" },
			wantErr: true,
		},
		{
			name:    "empty gpt model",
			modify:  func(c *Config) { c.API.GPTModel = "" },
			wantErr: true,
		},
		{
			name:    "zero transcribe timeout",
			modify:  func(c *Config) { c.API.TranscribeTimeoutSeconds = 0 },
			wantErr: true,
		},
		{
			name:    "zero enhance timeout",
			modify:  func(c *Config) { c.API.EnhanceTimeoutSeconds = 0 },
			wantErr: true,
		},
		{
			name:    "zero sample rate",
			modify:  func(c *Config) { c.Audio.SampleRate = 0 },
			wantErr: true,
		},
		{
			name:    "zero channels",
			modify:  func(c *Config) { c.Audio.Channels = 0 },
			wantErr: true,
		},
		{
			name:    "zero max recording",
			modify:  func(c *Config) { c.Audio.MaxRecordingSeconds = 0 },
			wantErr: true,
		},
		{
			name:    "empty state dir",
			modify:  func(c *Config) { c.StateDir = "" },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := Default()

	if got := cfg.API.TranscribeTimeout(); got != 60*time.Second {
		t.Errorf("TranscribeTimeout() = %v, want 60s", got)
	}
	if got := cfg.API.EnhanceTimeout(); got != 30*time.Second {
		t.Errorf("EnhanceTimeout() = %v, want 30s", got)
	}
	if got := cfg.Audio.MaxRecording(); got != 5*time.Minute {
		t.Errorf("MaxRecording() = %v, want 5m", got)
	}
}

func TestStatePaths(t *testing.T) {
	cfg := Default()
	cfg.StateDir = "/tmp/ditado-test"

	if got := cfg.HistoryPath(); got != filepath.Join("/tmp/ditado-test", "history.json") {
		t.Errorf("HistoryPath() = %q", got)
	}
	if got := cfg.UsagePath(); got != filepath.Join("/tmp/ditado-test", "usage.json") {
		t.Errorf("UsagePath() = %q", got)
	}
	if got := cfg.LogDir(); got != filepath.Join("/tmp/ditado-test", "logs") {
		t.Errorf("LogDir() = %q", got)
	}
}

func TestLanguageName(t *testing.T) {
	if got := LanguageName("pt"); got != "Portuguese" {
		t.Errorf("LanguageName(pt) = %q, want Portuguese", got)
	}
	if got := LanguageName("auto"); got != "Auto-detect" {
		t.Errorf("LanguageName(auto) = %q, want Auto-detect", got)
	}
	if got := LanguageName("xx"); got != "Unknown" {
		t.Errorf("LanguageName(xx) = %q, want Unknown", got)
	}
}
