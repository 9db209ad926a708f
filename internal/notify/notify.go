// Package notify surfaces desktop notifications and the short audio cues
// that mark recording start and end.
package notify

import (
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"
)

// Notifier shows desktop notifications. Failures are logged, never fatal:
// a missing notification daemon must not break dictation.
type Notifier struct {
	appName string
	log     zerolog.Logger
}

// NewNotifier returns a Notifier titled with appName by default.
func NewNotifier(appName string, log zerolog.Logger) *Notifier {
	return &Notifier{appName: appName, log: log}
}

// Notify shows a desktop notification.
func (n *Notifier) Notify(title, message string) {
	if title == "" {
		title = n.appName
	}
	if err := beeep.Notify(title, message, ""); err != nil {
		n.log.Warn().Err(err).Str("title", title).Msg("desktop notification failed")
	}
}

// Cue parameters for recording feedback.
const (
	startFreq = 800.0
	endFreq   = 600.0
	cueMillis = 100
)

// Cues plays short beeps marking recording start and end. Playback is
// asynchronous so the pipeline never waits on the sound device.
type Cues struct {
	mu      sync.Mutex
	enabled bool
	log     zerolog.Logger
}

// NewCues returns a cue player.
func NewCues(enabled bool, log zerolog.Logger) *Cues {
	return &Cues{enabled: enabled, log: log}
}

// SetEnabled toggles sound feedback.
func (c *Cues) SetEnabled(enabled bool) {
	c.mu.Lock()
	c.enabled = enabled
	c.mu.Unlock()
}

// Start plays the recording-started cue.
func (c *Cues) Start() { c.play(startFreq) }

// End plays the recording-ended cue.
func (c *Cues) End() { c.play(endFreq) }

func (c *Cues) play(freq float64) {
	c.mu.Lock()
	enabled := c.enabled
	c.mu.Unlock()
	if !enabled {
		return
	}
	go func() {
		if err := beeep.Beep(freq, cueMillis); err != nil {
			c.log.Debug().Err(err).Msg("audio cue failed")
		}
	}()
}
