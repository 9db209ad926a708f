//go:build linux

package audio

import (
	"fmt"
	"os/exec"
	"strings"
)

// PactlEndpoint drives the default PulseAudio/PipeWire sink.
type PactlEndpoint struct{}

// NewSystemEndpoint returns the mute control for this platform, or nil
// when the required tool is not installed.
func NewSystemEndpoint() Endpoint {
	if _, err := exec.LookPath("pactl"); err != nil {
		return nil
	}
	return PactlEndpoint{}
}

func (PactlEndpoint) Muted() (bool, error) {
	out, err := exec.Command("pactl", "get-sink-mute", "@DEFAULT_SINK@").Output()
	if err != nil {
		return false, fmt.Errorf("pactl get-sink-mute: %w", err)
	}
	return strings.Contains(strings.ToLower(string(out)), "yes"), nil
}

func (PactlEndpoint) SetMuted(muted bool) error {
	arg := "0"
	if muted {
		arg = "1"
	}
	if err := exec.Command("pactl", "set-sink-mute", "@DEFAULT_SINK@", arg).Run(); err != nil {
		return fmt.Errorf("pactl set-sink-mute: %w", err)
	}
	return nil
}
