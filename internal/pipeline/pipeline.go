// Package pipeline orchestrates one push-to-talk dictation cycle:
// recording, transcription, optional text enhancement, and injection
// into the focused application.
//
// Hotkey edges drive Activate and Deactivate. Deactivate stops the
// capture and hands the clip to a fresh background goroutine; a
// single-flight guard drops duplicate runs instead of queueing them.
package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/LuzGuilherme/Ditado/internal/audio"
	"github.com/LuzGuilherme/Ditado/internal/metrics"
	"github.com/LuzGuilherme/Ditado/internal/openai"
	"github.com/LuzGuilherme/Ditado/internal/retry"
	"github.com/LuzGuilherme/Ditado/internal/sched"
	"github.com/LuzGuilherme/Ditado/internal/store"
)

const (
	// muteSettle separates engaging the system mute from opening the
	// capture device, so the mute is in effect before audio flows.
	muteSettle = 50 * time.Millisecond

	// typeDelay gives the focused application a beat before keystrokes.
	typeDelay = 100 * time.Millisecond

	longRecording = 5 * time.Minute

	notifyTitle      = "Ditado"
	notifyErrorTitle = "Ditado Error"
)

// Recorder owns one microphone capture at a time.
type Recorder interface {
	Start() error
	Stop() (audio.Clip, error)
	IsRecording() bool
}

// Muter controls the system output mute around a recording. Restore
// undoes only a mute this process performed; ForceUnmute is the
// shutdown path.
type Muter interface {
	Mute() bool
	Restore() bool
	ForceUnmute() bool
}

// SpeechToText turns a WAV payload into text plus billable minutes.
type SpeechToText interface {
	Transcribe(wav []byte, language string) (openai.Transcription, error)
}

// TextCleanup rewrites a transcript (filler removal, punctuation).
type TextCleanup interface {
	Enhance(text string) (string, error)
}

// Injector delivers text into the focused application.
type Injector interface {
	TypeDirect(text string) error
	TypeViaClipboard(text string) error
}

// Notifier shows desktop notifications.
type Notifier interface {
	Notify(title, message string)
}

// Cues plays the start and end recording sounds.
type Cues interface {
	Start()
	End()
	SetEnabled(bool)
}

// History records finished dictations.
type History interface {
	Append(e store.Entry) error
}

// Usage accumulates billable minutes and word counts.
type Usage interface {
	Add(minutes float64, words int) error
}

// Config is the pipeline's view of the application settings, passed at
// construction and swapped via Reconfigure.
type Config struct {
	Language        string
	EnhanceText     bool
	SoundFeedback   bool
	MuteSystemAudio bool
	AutoStop        time.Duration // 0 disables the recording deadline
}

// Deps are the pipeline's collaborators. STT may be nil (API not
// configured) and Cleanup may be nil (enhancement unavailable); the
// rest must be non-nil.
type Deps struct {
	Recorder Recorder
	Muter    Muter
	STT      SpeechToText
	Cleanup  TextCleanup
	Injector Injector
	Notifier Notifier
	Cues     Cues
	History  History
	Usage    Usage
	Sched    sched.Scheduler
	Log      zerolog.Logger
}

// Pipeline sequences one dictation run at a time.
type Pipeline struct {
	deps Deps
	log  zerolog.Logger

	mu       sync.Mutex
	cfg      Config
	enabled  bool
	deadline sched.Handle

	guard  guard
	events chan Event

	closing   chan struct{}
	closeOnce sync.Once

	settle time.Duration
	delay  time.Duration
	sleep  func(time.Duration)
}

// New builds a pipeline. It starts enabled.
func New(cfg Config, deps Deps) *Pipeline {
	if deps.Sched == nil {
		deps.Sched = sched.Default()
	}

	p := &Pipeline{
		deps:    deps,
		log:     deps.Log,
		cfg:     cfg,
		enabled: true,
		events:  make(chan Event, eventBuffer),
		closing: make(chan struct{}),
		settle:  muteSettle,
		delay:   typeDelay,
		sleep:   time.Sleep,
	}
	deps.Cues.SetEnabled(cfg.SoundFeedback)
	return p
}

// SetEnabled gates activation. Disabling while a recording is in
// progress stops it via the normal deactivation path so the microphone
// and mute state are never left held.
func (p *Pipeline) SetEnabled(enabled bool) {
	p.mu.Lock()
	p.enabled = enabled
	p.mu.Unlock()

	if enabled {
		p.log.Info().Msg("dictation enabled")
		return
	}
	p.log.Info().Msg("dictation disabled")

	if p.deps.Recorder.IsRecording() {
		p.Deactivate()
	}
}

// Enabled reports whether activation edges are being honored.
func (p *Pipeline) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Reconfigure swaps the pipeline's settings. Callers must not change
// configuration while the hotkey is held.
func (p *Pipeline) Reconfigure(cfg Config) {
	p.mu.Lock()
	p.cfg = cfg
	p.mu.Unlock()

	p.deps.Cues.SetEnabled(cfg.SoundFeedback)
	p.log.Info().
		Str("language", cfg.Language).
		Bool("enhance", cfg.EnhanceText).
		Bool("mute", cfg.MuteSystemAudio).
		Msg("pipeline reconfigured")
}

func (p *Pipeline) config() Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}

// Activate arms a recording: start cue, optional system-audio mute,
// then the capture device. It runs on the hotkey monitor goroutine and
// must stay quick; the only delay is the mute settle.
func (p *Pipeline) Activate() {
	p.mu.Lock()
	cfg := p.cfg
	enabled := p.enabled
	p.mu.Unlock()

	if !enabled {
		return
	}
	if p.deps.STT == nil {
		p.log.Debug().Msg("ignoring activation: API not configured")
		return
	}

	// Cue before muting so the user hears it.
	p.deps.Cues.Start()

	if cfg.MuteSystemAudio {
		p.deps.Muter.Mute()
		p.sleep(p.settle)
	}

	p.publish(Event{State: StateRecording})

	if err := p.deps.Recorder.Start(); err != nil {
		p.log.Error().Err(err).Msg("recording failed to start")
		p.deps.Notifier.Notify(notifyErrorTitle, err.Error())
		p.deps.Muter.Restore()
		p.publish(Event{State: StateIdle, Err: err})
		return
	}
	p.log.Debug().Msg("recording started")

	if cfg.AutoStop > 0 {
		p.mu.Lock()
		p.deadline = p.deps.Sched.After(cfg.AutoStop, p.autoStop)
		p.mu.Unlock()
		p.log.Debug().Dur("deadline", cfg.AutoStop).Msg("auto-stop scheduled")
	}
}

func (p *Pipeline) autoStop() {
	if !p.deps.Recorder.IsRecording() {
		return
	}

	cfg := p.config()
	p.log.Info().Msg("auto-stopping recording: limit reached")
	p.deps.Notifier.Notify(notifyTitle,
		fmt.Sprintf("Recording auto-stopped after %d min", int(cfg.AutoStop.Minutes())))
	p.Deactivate()
}

// Deactivate stops the capture and hands the clip to a background
// worker. It returns without waiting for processing.
func (p *Pipeline) Deactivate() {
	p.cancelDeadline()

	p.deps.Muter.Restore()

	// Cue after unmuting so the user hears it.
	p.deps.Cues.End()

	if !p.deps.Recorder.IsRecording() {
		return
	}

	clip, err := p.deps.Recorder.Stop()
	if err != nil {
		p.log.Debug().Err(err).Msg("recording discarded")
		p.deps.Notifier.Notify(notifyTitle, discardMessage(err))
		p.publish(Event{State: StateIdle, Err: err})
		recordDiscard(err)
		return
	}

	metrics.ObserveRecording(clip.Duration)
	p.log.Debug().Dur("duration", clip.Duration).Msg("clip captured")

	go p.process(clip)
}

// process is the background worker for one run. The guard makes runs
// single flight: a clip arriving while another run holds the guard is
// dropped, never queued.
func (p *Pipeline) process(clip audio.Clip) {
	if !p.guard.TryAcquire() {
		p.log.Debug().Msg("already processing, dropping run")
		metrics.RecordRun(metrics.OutcomeAbandoned)
		return
	}
	defer p.guard.Release()

	cfg := p.config()

	if clip.Duration > longRecording {
		p.log.Warn().
			Dur("duration", clip.Duration).
			Msg("long recording, transcription may be expensive")
	}

	p.publish(Event{State: StateTranscribing})

	tr, err := p.transcribe(clip, cfg)
	if err != nil {
		p.log.Error().Err(err).Msg("transcription failed")
		p.deps.Notifier.Notify(notifyErrorTitle, truncate(err.Error(), 100))
		p.publish(Event{State: StateIdle, Err: err})
		metrics.RecordRun(metrics.OutcomeError)
		return
	}

	text := tr.Text
	if text == "" {
		p.log.Debug().Msg("no speech detected")
		p.publish(Event{State: StateIdle})
		metrics.RecordRun(metrics.OutcomeEmpty)
		return
	}
	p.log.Info().Float64("minutes", tr.Minutes).Str("text", snippet(text)).Msg("transcribed")

	// The history flag records that enhancement was configured and
	// attempted, not that it succeeded; a run that falls back to the
	// original transcript still counts as enhanced.
	enhanced := cfg.EnhanceText && p.deps.Cleanup != nil
	if enhanced {
		text = p.enhance(text)
	}

	p.publish(Event{State: StateTyping})
	p.sleep(p.delay)
	p.inject(text)

	words := len(strings.Fields(text))
	metrics.AddWordsTyped(words)

	if err := p.deps.Usage.Add(tr.Minutes, words); err != nil {
		p.log.Error().Err(err).Msg("recording usage failed")
	}
	if err := p.deps.History.Append(store.NewEntry(text, clip.Duration, cfg.Language, enhanced)); err != nil {
		p.log.Error().Err(err).Msg("recording history failed")
	}

	p.publish(Event{State: StateIdle})

	metrics.RecordRun(metrics.OutcomeCompleted)
	p.log.Info().Float64("minutes", tr.Minutes).Int("words", words).Msg("dictation complete")
}

func (p *Pipeline) transcribe(clip audio.Clip, cfg Config) (openai.Transcription, error) {
	return retry.Do(p.policy("transcription"), func() (openai.Transcription, error) {
		start := time.Now()
		tr, err := p.deps.STT.Transcribe(clip.WAV, cfg.Language)
		metrics.RecordStage("transcribe", err)
		if err == nil {
			metrics.ObserveTranscription(time.Since(start))
		}
		return tr, err
	})
}

// enhance runs the cleanup stage. Failure is never fatal: after retry
// exhaustion the original transcript is returned.
func (p *Pipeline) enhance(original string) string {
	p.publish(Event{State: StateEnhancing})

	result, err := retry.Do(p.policy("enhancement"), func() (string, error) {
		start := time.Now()
		out, err := p.deps.Cleanup.Enhance(original)
		metrics.RecordStage("enhance", err)
		if err == nil {
			metrics.ObserveEnhancement(time.Since(start))
		}
		return out, err
	})
	if err != nil {
		p.log.Error().Err(err).Msg("enhancement failed, using original text")
		return original
	}

	if result != original {
		p.log.Info().Str("text", snippet(result)).Msg("enhanced")
	}
	return result
}

func (p *Pipeline) inject(text string) {
	err := p.deps.Injector.TypeDirect(text)
	metrics.RecordStage("inject", err)
	if err == nil {
		return
	}
	p.log.Warn().Err(err).Msg("direct typing failed, falling back to clipboard")

	err = p.deps.Injector.TypeViaClipboard(text)
	metrics.RecordStage("inject_clipboard", err)
	if err != nil {
		p.log.Error().Err(err).Msg("clipboard injection failed, text lost")
		p.deps.Notifier.Notify(notifyErrorTitle, "Could not type into the active window.")
	}
}

// policy builds the standard three-attempt backoff for a remote stage.
func (p *Pipeline) policy(stage string) retry.Policy {
	policy := retry.Default()
	policy.Retryable = openai.Retryable
	policy.Sleep = p.sleep
	policy.Interrupted = p.interrupted
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		p.log.Warn().Err(err).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg(stage + " failed, retrying")
	}
	return policy
}

func (p *Pipeline) interrupted() bool {
	select {
	case <-p.closing:
		return true
	default:
		return false
	}
}

func (p *Pipeline) cancelDeadline() {
	p.mu.Lock()
	h := p.deadline
	p.deadline = nil
	p.mu.Unlock()

	if h != nil {
		h.Cancel()
	}
}

// Close cancels the auto-stop deadline, interrupts retry loops at their
// next attempt boundary, and force-unmutes. An in-flight remote call
// still runs to its own timeout.
func (p *Pipeline) Close() {
	p.closeOnce.Do(func() {
		close(p.closing)
		p.cancelDeadline()
		p.deps.Muter.ForceUnmute()
	})
}

func discardMessage(err error) string {
	switch {
	case errors.Is(err, audio.ErrTooShort):
		return "Recording too short, ignored."
	case errors.Is(err, audio.ErrSilent):
		return "No speech detected, recording ignored."
	default:
		return err.Error()
	}
}

func recordDiscard(err error) {
	switch {
	case errors.Is(err, audio.ErrTooShort):
		metrics.RecordRun(metrics.OutcomeTooShort)
	case errors.Is(err, audio.ErrSilent):
		metrics.RecordRun(metrics.OutcomeSilent)
	default:
		metrics.RecordRun(metrics.OutcomeError)
	}
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func snippet(s string) string {
	const max = 50
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return truncate(s, max) + "..."
}
