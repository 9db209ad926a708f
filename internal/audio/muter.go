package audio

import (
	"sync"

	"github.com/rs/zerolog"
)

// Endpoint controls the mute state of the system output device. The
// platform implementations shell out to the native mixer tool; anything
// richer (COM, CoreAudio bindings) plugs in behind the same two methods.
type Endpoint interface {
	Muted() (bool, error)
	SetMuted(muted bool) error
}

// MuteGuard silences system output during recording and keeps the
// restore symmetric: it only unmutes what it muted, so a mute the user
// set themselves survives a dictation run.
type MuteGuard struct {
	mu        sync.Mutex
	ep        Endpoint
	log       zerolog.Logger
	wasMuted  bool // output state observed just before we muted
	mutedByUs bool
}

// NewMuteGuard wraps an endpoint. A nil endpoint yields a guard whose
// operations all succeed as no-ops.
func NewMuteGuard(ep Endpoint, log zerolog.Logger) *MuteGuard {
	return &MuteGuard{ep: ep, log: log}
}

// Mute silences system output unless it already is silenced. It reports
// whether output is muted when it returns.
func (g *MuteGuard) Mute() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ep == nil {
		return false
	}

	muted, err := g.ep.Muted()
	if err != nil {
		g.log.Warn().Err(err).Msg("reading system mute state")
		g.wasMuted = false
		g.mutedByUs = false
		return false
	}
	g.wasMuted = muted
	if muted {
		// The user had it muted; leave it theirs to unmute.
		return true
	}
	if err := g.ep.SetMuted(true); err != nil {
		g.log.Warn().Err(err).Msg("muting system output")
		g.mutedByUs = false
		return false
	}
	g.mutedByUs = true
	return true
}

// Restore undoes a previous Mute. When this process did not mute it is a
// no-op, so double restores and restores after a failed mute are safe.
func (g *MuteGuard) Restore() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ep == nil {
		return true
	}

	unmute := g.mutedByUs && !g.wasMuted
	g.mutedByUs = false
	g.wasMuted = false
	if !unmute {
		return true
	}
	if err := g.ep.SetMuted(false); err != nil {
		g.log.Warn().Err(err).Msg("restoring system output")
		return false
	}
	return true
}

// ForceUnmute clears any mute this process applied. Shutdown paths call
// it so a crash mid-recording cannot leave the system silenced.
func (g *MuteGuard) ForceUnmute() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ep == nil || !g.mutedByUs {
		return true
	}

	g.mutedByUs = false
	g.wasMuted = false
	if err := g.ep.SetMuted(false); err != nil {
		g.log.Warn().Err(err).Msg("force unmuting system output")
		return false
	}
	return true
}
