// Package inject delivers text into the focused application, either by
// simulating keystrokes with robotgo or by a clipboard paste that saves
// and restores whatever the user had copied.
package inject

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	"github.com/go-vgo/robotgo"
)

// ErrEmptyText rejects injection of nothing.
var ErrEmptyText = errors.New("no text to inject")

// Delays around focus changes and clipboard traffic. The sleeps bound the
// window where another application stealing focus could swallow the paste.
const (
	focusDelay  = 50 * time.Millisecond
	copySettle  = 20 * time.Millisecond
	pasteSettle = 150 * time.Millisecond
)

// Injector types or pastes text into the active application.
type Injector struct {
	sleep func(time.Duration)
}

// NewInjector returns a ready Injector.
func NewInjector() *Injector {
	return &Injector{sleep: time.Sleep}
}

// TypeDirect simulates individual keystrokes. It preserves the clipboard
// but is slower for long text.
func (inj *Injector) TypeDirect(text string) error {
	if text == "" {
		return ErrEmptyText
	}
	inj.sleep(focusDelay)
	robotgo.TypeStr(text)
	return nil
}

// TypeViaClipboard copies text to the clipboard, pastes it, and restores
// the previous clipboard contents best-effort.
func (inj *Injector) TypeViaClipboard(text string) error {
	if text == "" {
		return ErrEmptyText
	}

	prev, _ := clipboard.ReadAll()

	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("inject: write to clipboard: %w", err)
	}
	inj.sleep(copySettle)

	if err := robotgo.KeyTap("v", pasteModifier()); err != nil {
		return fmt.Errorf("inject: key tap paste: %w", err)
	}
	inj.sleep(pasteSettle)

	_ = clipboard.WriteAll(prev)

	return nil
}

// pasteModifier is the paste chord's modifier key for this platform.
func pasteModifier() string {
	if runtime.GOOS == "darwin" {
		return "cmd"
	}
	return "ctrl"
}
