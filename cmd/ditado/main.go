// Ditado is a push-to-talk dictation tool: hold a hotkey, speak, release,
// and the transcribed text is typed into the focused application.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/LuzGuilherme/Ditado/internal/audio"
	"github.com/LuzGuilherme/Ditado/internal/config"
	"github.com/LuzGuilherme/Ditado/internal/hotkey"
	"github.com/LuzGuilherme/Ditado/internal/inject"
	"github.com/LuzGuilherme/Ditado/internal/logging"
	"github.com/LuzGuilherme/Ditado/internal/metrics"
	"github.com/LuzGuilherme/Ditado/internal/notify"
	"github.com/LuzGuilherme/Ditado/internal/openai"
	"github.com/LuzGuilherme/Ditado/internal/pipeline"
	"github.com/LuzGuilherme/Ditado/internal/sched"
	"github.com/LuzGuilherme/Ditado/internal/store"
)

const appName = "Ditado"

func main() {
	// CLI flags
	configPath := flag.String("config", "", "path to config file (default: ~/.ditado/config.yaml)")
	capture := flag.Bool("capture", false, "capture a new push-to-talk hotkey, save it, and exit")
	captureMode := flag.String("capture-mode", "combo", "hotkey capture style: combo or single")
	flag.Parse()

	path := *configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		// Use fmt for fatal errors before the logger is initialized.
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogDir())

	// First run: persist the effective defaults so there is a file to edit.
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := cfg.Save(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("could not write default config")
		} else {
			logger.Info().Str("path", path).Msg("wrote default config")
		}
	}

	if *capture {
		if err := runCapture(cfg, path, *captureMode); err != nil {
			logger.Fatal().Err(err).Msg("hotkey capture failed")
		}
		return
	}

	if cfg.API.Key == "" {
		fmt.Fprintln(os.Stderr, "No API key configured. Set DITADO_API_KEY in the environment or a .env file.")
		os.Exit(1)
	}

	printBanner(cfg)
	metrics.Serve(cfg.MetricsAddr, component(logger, "metrics"))

	a, err := build(cfg, path, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}

	a.monitor.Attach(a.combo)
	go a.monitor.Start()
	go a.watchEvents()
	watchSignals(a)

	logger.Info().
		Str("hotkey", hotkey.Format(a.combo.Spec())).
		Str("language", config.LanguageName(cfg.Language)).
		Msg("ready, hold the hotkey to dictate")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info().Str("signal", sig.String()).Msg("shutting down")
	a.shutdown()

	// Exit directly to avoid gohook's C cleanup crash. The OS reclaims
	// the event hook on process exit.
	os.Exit(0)
}

// app bundles the assembled collaborators for signal handlers and shutdown.
type app struct {
	cfg      *config.Config
	path     string
	log      zerolog.Logger
	recorder *audio.Recorder
	history  *store.History
	notifier *notify.Notifier
	pipe     *pipeline.Pipeline
	combo    *hotkey.Combo
	monitor  *hotkey.Monitor
}

// component returns a child logger tagged with the component name.
func component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

// build assembles the stores, devices, API clients, and the pipeline.
func build(cfg *config.Config, path string, logger zerolog.Logger) (*app, error) {
	history, err := store.OpenHistory(cfg.HistoryPath(), component(logger, "history"))
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	history.SetPrivacy(cfg.History.StoreFullText)

	usage, err := store.OpenUsage(cfg.UsagePath(), component(logger, "usage"))
	if err != nil {
		return nil, fmt.Errorf("opening usage stats: %w", err)
	}
	if err := usage.ResetSession(); err != nil {
		logger.Warn().Err(err).Msg("could not reset session stats")
	}

	recorder, err := audio.NewRecorder(cfg.Audio.SampleRate, cfg.Audio.Channels)
	if err != nil {
		return nil, fmt.Errorf("initializing audio recorder: %w", err)
	}

	notifier := notify.NewNotifier(appName, component(logger, "notify"))

	pipe := pipeline.New(pipelineConfig(cfg), pipeline.Deps{
		Recorder: recorder,
		Muter:    audio.NewMuteGuard(audio.NewSystemEndpoint(), component(logger, "mute")),
		STT:      openai.NewTranscriber(cfg.API.BaseURL, cfg.API.Key, cfg.API.WhisperModel, cfg.API.TranscribeTimeout(), component(logger, "stt")),
		Cleanup:  openai.NewEnhancer(cfg.API.BaseURL, cfg.API.Key, cfg.API.GPTModel, cfg.API.EnhanceTimeout(), component(logger, "enhance")),
		Injector: inject.NewInjector(),
		Notifier: notifier,
		Cues:     notify.NewCues(cfg.SoundFeedback, component(logger, "cues")),
		History:  history,
		Usage:    usage,
		Sched:    sched.Default(),
		Log:      component(logger, "pipeline"),
	})

	return &app{
		cfg:      cfg,
		path:     path,
		log:      logger,
		recorder: recorder,
		history:  history,
		notifier: notifier,
		pipe:     pipe,
		combo:    hotkey.NewCombo(cfg.Hotkey, pipe.Activate, pipe.Deactivate),
		monitor:  hotkey.NewMonitor(),
	}, nil
}

// pipelineConfig maps the application settings onto the pipeline's view.
func pipelineConfig(cfg *config.Config) pipeline.Config {
	pc := pipeline.Config{
		Language:        cfg.Language,
		EnhanceText:     cfg.EnhanceText,
		SoundFeedback:   cfg.SoundFeedback,
		MuteSystemAudio: cfg.Audio.MuteSystemAudio,
	}
	if cfg.Audio.AutoStop {
		pc.AutoStop = cfg.Audio.MaxRecording()
	}
	return pc
}

// watchEvents logs pipeline state transitions. The events channel is
// never closed; the goroutine lives for the rest of the process.
func (a *app) watchEvents() {
	for ev := range a.pipe.Events() {
		if ev.Err != nil {
			a.log.Warn().Err(ev.Err).Str("state", string(ev.State)).Msg("pipeline state")
			continue
		}
		a.log.Debug().Str("state", string(ev.State)).Msg("pipeline state")
	}
}

// reload re-reads the config file and applies what can change at runtime:
// pipeline settings, the hotkey, history privacy, and the log level. API
// and audio device settings need a restart.
func (a *app) reload() {
	cfg, err := config.Load(a.path)
	if err != nil {
		a.log.Error().Err(err).Msg("config reload failed")
		return
	}
	if err := cfg.Validate(); err != nil {
		a.log.Error().Err(err).Msg("config reload rejected")
		return
	}

	if cfg.API != a.cfg.API {
		a.log.Warn().Msg("API settings changed, restart to apply")
	}
	if cfg.Audio.SampleRate != a.cfg.Audio.SampleRate || cfg.Audio.Channels != a.cfg.Audio.Channels {
		a.log.Warn().Msg("audio device settings changed, restart to apply")
	}

	a.cfg = cfg
	a.pipe.Reconfigure(pipelineConfig(cfg))
	a.combo.SetSpec(cfg.Hotkey)
	a.history.SetPrivacy(cfg.History.StoreFullText)
	zerolog.SetGlobalLevel(logging.ParseLevel(cfg.LogLevel))

	a.log.Info().Str("hotkey", hotkey.Format(a.combo.Spec())).Msg("configuration reloaded")
}

// toggle flips dictation on or off. The combo is disabled alongside the
// pipeline so a held hotkey cannot leave a dangling activation edge.
func (a *app) toggle() {
	enabled := !a.pipe.Enabled()
	a.pipe.SetEnabled(enabled)
	a.combo.SetEnabled(enabled)
	if enabled {
		a.notifier.Notify(appName, "Dictation enabled")
	} else {
		a.notifier.Notify(appName, "Dictation disabled")
	}
}

func (a *app) shutdown() {
	a.combo.SetEnabled(false)
	a.monitor.Stop()
	a.pipe.Close()
	if err := a.recorder.Close(); err != nil {
		a.log.Warn().Err(err).Msg("closing recorder")
	}
}

// runCapture listens for the next hotkey the user presses (or holds, in
// combo mode), saves it to the config file, and exits.
func runCapture(cfg *config.Config, path, mode string) error {
	done := make(chan string, 1)

	var handler hotkey.Handler
	switch mode {
	case "combo":
		handler = hotkey.NewComboCapture(sched.Default(), hotkey.DefaultCaptureMaxKeys, hotkey.DefaultStabilityDelay,
			func(spec string) { done <- spec })
	case "single":
		handler = hotkey.NewSingleCapture(func(key string) { done <- key })
	default:
		return fmt.Errorf("unknown capture mode %q (want combo or single)", mode)
	}

	monitor := hotkey.NewMonitor()
	monitor.Attach(handler)
	go monitor.Start()
	defer monitor.Stop()

	if mode == "combo" {
		fmt.Println("Hold the key combination you want for push-to-talk (up to 2 keys)...")
	} else {
		fmt.Println("Press the key you want for push-to-talk...")
	}

	cancel := make(chan os.Signal, 1)
	signal.Notify(cancel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case spec := <-done:
		cfg.Hotkey = spec
		if err := cfg.Save(path); err != nil {
			return fmt.Errorf("saving hotkey: %w", err)
		}
		fmt.Printf("Hotkey set to %s\n", hotkey.Format(spec))
		return nil
	case <-cancel:
		return errors.New("capture cancelled")
	}
}

// printBanner displays the startup configuration summary.
func printBanner(cfg *config.Config) {
	fmt.Println("=== Ditado ===")
	fmt.Printf("  Hotkey:    %s\n", hotkey.Format(cfg.Hotkey))
	fmt.Printf("  Language:  %s\n", config.LanguageName(cfg.Language))
	fmt.Printf("  Audio:     %dHz, %dch\n", cfg.Audio.SampleRate, cfg.Audio.Channels)
	fmt.Printf("  Enhance:   %v\n", cfg.EnhanceText)
	fmt.Printf("  Models:    %s / %s\n", cfg.API.WhisperModel, cfg.API.GPTModel)
	fmt.Printf("  State:     %s\n", cfg.StateDir)
	fmt.Printf("  Log:       %s\n", cfg.LogLevel)
	fmt.Println("==============")
}
