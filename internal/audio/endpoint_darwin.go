//go:build darwin

package audio

import (
	"fmt"
	"os/exec"
	"strings"
)

// OsascriptEndpoint toggles output mute through AppleScript.
type OsascriptEndpoint struct{}

// NewSystemEndpoint returns the mute control for this platform, or nil
// when the required tool is not installed.
func NewSystemEndpoint() Endpoint {
	if _, err := exec.LookPath("osascript"); err != nil {
		return nil
	}
	return OsascriptEndpoint{}
}

func (OsascriptEndpoint) Muted() (bool, error) {
	out, err := exec.Command("osascript", "-e", "output muted of (get volume settings)").Output()
	if err != nil {
		return false, fmt.Errorf("osascript get volume settings: %w", err)
	}
	return strings.TrimSpace(string(out)) == "true", nil
}

func (OsascriptEndpoint) SetMuted(muted bool) error {
	script := fmt.Sprintf("set volume output muted %t", muted)
	if err := exec.Command("osascript", "-e", script).Run(); err != nil {
		return fmt.Errorf("osascript set volume: %w", err)
	}
	return nil
}
