package hotkey

import (
	"sync"
	"time"

	"github.com/LuzGuilherme/Ditado/internal/sched"
)

// SingleCapture reports the first key pressed, exactly once.
type SingleCapture struct {
	mu     sync.Mutex
	done   bool
	result func(key string)
}

// NewSingleCapture returns a capture that calls result with the canonical
// name of the first key pressed.
func NewSingleCapture(result func(key string)) *SingleCapture {
	return &SingleCapture{result: result}
}

func (s *SingleCapture) HandlePress(key string) {
	s.mu.Lock()
	if s.done || key == "" {
		s.mu.Unlock()
		return
	}
	s.done = true
	cb := s.result
	s.mu.Unlock()
	if cb != nil {
		cb(key)
	}
}

func (s *SingleCapture) HandleRelease(key string) {}

// Cancel stops the capture without reporting a key.
func (s *SingleCapture) Cancel() {
	s.mu.Lock()
	s.done = true
	s.mu.Unlock()
}

// Default combination capture parameters.
const (
	DefaultCaptureMaxKeys = 2
	DefaultStabilityDelay = 300 * time.Millisecond
)

// ComboCapture records a key combination: the user holds the keys they
// want, and once the held set has been stable for the configured delay
// the combination is finalized and reported exactly once.
type ComboCapture struct {
	mu      sync.Mutex
	maxKeys int
	delay   time.Duration
	sched   sched.Scheduler
	timer   sched.Handle
	held    []string
	done    bool
	result  func(spec string)
}

// NewComboCapture returns a capture reporting the finished combination in
// machine spec form. maxKeys <= 0 and delay <= 0 select the defaults.
func NewComboCapture(s sched.Scheduler, maxKeys int, delay time.Duration, result func(spec string)) *ComboCapture {
	if maxKeys <= 0 {
		maxKeys = DefaultCaptureMaxKeys
	}
	if delay <= 0 {
		delay = DefaultStabilityDelay
	}
	return &ComboCapture{
		maxKeys: maxKeys,
		delay:   delay,
		sched:   s,
		result:  result,
	}
}

// HandlePress adds a new key to the held set (up to the cap) and restarts
// the stability window. Repeats of an already-held key are ignored so OS
// auto-repeat cannot keep the window from closing.
func (c *ComboCapture) HandlePress(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done || key == "" || c.contains(key) {
		return
	}
	if len(c.held) >= c.maxKeys {
		return
	}
	c.held = append(c.held, key)
	c.restartLocked()
}

// HandleRelease drops the key from the held set. The stability window
// restarts only while keys remain held; releasing everything leaves the
// capture waiting for a fresh attempt.
func (c *ComboCapture) HandleRelease(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done || !c.contains(key) {
		return
	}
	for i, k := range c.held {
		if k == key {
			c.held = append(c.held[:i], c.held[i+1:]...)
			break
		}
	}
	if c.timer != nil {
		c.timer.Cancel()
		c.timer = nil
	}
	if len(c.held) > 0 {
		c.restartLocked()
	}
}

// Held returns the currently held keys in press order, for live display.
func (c *ComboCapture) Held() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.held))
	copy(out, c.held)
	return out
}

// Cancel stops the capture without reporting a combination.
func (c *ComboCapture) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.done = true
	if c.timer != nil {
		c.timer.Cancel()
		c.timer = nil
	}
}

func (c *ComboCapture) contains(key string) bool {
	for _, k := range c.held {
		if k == key {
			return true
		}
	}
	return false
}

func (c *ComboCapture) restartLocked() {
	if c.timer != nil {
		c.timer.Cancel()
	}
	c.timer = c.sched.After(c.delay, c.finalize)
}

// finalize fires when the held set has been stable for the full delay.
// The done flag closes the race between expiry and a simultaneous key
// event: whichever takes the lock first wins, and the combination is
// reported at most once.
func (c *ComboCapture) finalize() {
	c.mu.Lock()
	if c.done || len(c.held) == 0 {
		c.mu.Unlock()
		return
	}
	c.done = true
	spec := Join(SortCombo(c.held))
	cb := c.result
	c.mu.Unlock()
	if cb != nil {
		cb(spec)
	}
}
