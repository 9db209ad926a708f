package hotkey

import (
	"strings"
	"sync"
)

// Combo tracks a push-to-talk key combination. Raw press and release
// events go in; activation and deactivation edges come out, each fired
// exactly once per hold. Releasing ANY required key deactivates: when in
// doubt the combo errs toward stopping a recording rather than leaving
// one running.
//
// All state lives behind one mutex and callbacks fire while it is held,
// so edges are strictly serialized: two presses cannot both observe the
// inactive state, and a release cannot interleave with a press.
type Combo struct {
	mu           sync.Mutex
	required     map[string]struct{}
	order        []string
	pressed      map[string]struct{}
	active       bool
	enabled      bool
	onActivate   func()
	onDeactivate func()
}

// NewCombo parses spec and returns a tracker. Either callback may be nil.
func NewCombo(spec string, onActivate, onDeactivate func()) *Combo {
	c := &Combo{
		enabled:      true,
		onActivate:   onActivate,
		onDeactivate: onDeactivate,
	}
	c.SetSpec(spec)
	return c
}

// HandlePress records key going down and fires the activation edge when
// the full required set is held.
func (c *Combo) HandlePress(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled || len(c.required) == 0 {
		return
	}
	req, ok := c.match(key)
	if !ok {
		return
	}
	c.pressed[req] = struct{}{}
	if !c.active && len(c.pressed) == len(c.required) {
		c.active = true
		if c.onActivate != nil {
			c.onActivate()
		}
	}
}

// HandleRelease records key going up and fires the deactivation edge if
// the combo was active.
func (c *Combo) HandleRelease(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled || len(c.required) == 0 {
		return
	}
	req, ok := c.match(key)
	if !ok {
		return
	}
	delete(c.pressed, req)
	if c.active {
		c.active = false
		if c.onDeactivate != nil {
			c.onDeactivate()
		}
	}
}

// match resolves an incoming key against the required set. Single
// character keys compare case-insensitively so a combo survives Shift or
// Caps Lock changing the reported character.
func (c *Combo) match(key string) (string, bool) {
	if _, ok := c.required[key]; ok {
		return key, true
	}
	if len([]rune(key)) == 1 {
		lower := strings.ToLower(key)
		if _, ok := c.required[lower]; ok {
			return lower, true
		}
	}
	return "", false
}

// SetSpec replaces the required combination and resets tracking state.
// No edge fires for the reset.
func (c *Combo) SetSpec(spec string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = Parse(spec)
	c.required = make(map[string]struct{}, len(c.order))
	for _, k := range c.order {
		c.required[k] = struct{}{}
	}
	c.pressed = make(map[string]struct{})
	c.active = false
}

// SetEnabled toggles event processing. Disabling resets tracking state so
// a re-enable starts from a clean slate.
func (c *Combo) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
	if !enabled {
		c.pressed = make(map[string]struct{})
		c.active = false
	}
}

// Spec returns the canonical machine form of the configured combination.
func (c *Combo) Spec() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Join(c.order)
}

// Active reports whether the combo is currently held.
func (c *Combo) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}
