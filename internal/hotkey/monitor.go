package hotkey

import (
	"sort"
	"sync"
	"unicode"

	hook "github.com/robotn/gohook"
)

// Handler receives canonical key events from a Monitor. Combo and the
// capture types all implement it.
type Handler interface {
	HandlePress(key string)
	HandleRelease(key string)
}

// Monitor taps the OS keyboard hook via gohook and forwards canonical key
// names to attached handlers. The hook thread only enqueues events; all
// handler work runs on the goroutine that called Start, so handlers may
// take locks and sleep briefly without stalling the hook itself.
type Monitor struct {
	mu       sync.Mutex
	handlers []Handler
	raw      map[uint16]string // rawcode -> canonical, learned on key-down
	done     chan struct{}
	once     sync.Once
}

// NewMonitor returns an idle Monitor. Attach handlers, then run Start in
// a goroutine.
func NewMonitor() *Monitor {
	return &Monitor{
		raw:  make(map[uint16]string),
		done: make(chan struct{}),
	}
}

// Attach subscribes h to key events.
func (m *Monitor) Attach(h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, h)
}

// Detach unsubscribes h.
func (m *Monitor) Detach(h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.handlers[:0]
	for _, cur := range m.handlers {
		if cur != h {
			kept = append(kept, cur)
		}
	}
	m.handlers = kept
}

// Start pumps hook events until Stop is called. It blocks; run it in a
// goroutine.
func (m *Monitor) Start() {
	evs := hook.Start()
	defer hook.End()
	for {
		select {
		case <-m.done:
			return
		case ev, ok := <-evs:
			if !ok {
				return
			}
			m.dispatch(ev)
		}
	}
}

// Stop terminates the monitor. Safe to call multiple times.
func (m *Monitor) Stop() {
	m.once.Do(func() {
		close(m.done)
	})
}

func (m *Monitor) dispatch(ev hook.Event) {
	switch ev.Kind {
	case hook.KeyDown:
		if key := m.keyDown(ev); key != "" {
			for _, h := range m.snapshot() {
				h.HandlePress(key)
			}
		}
	case hook.KeyUp:
		if key := m.keyUp(ev); key != "" {
			for _, h := range m.snapshot() {
				h.HandleRelease(key)
			}
		}
	}
}

// keyDown resolves the event and remembers its rawcode so the matching
// KeyUp resolves to the same name. gohook fills Keychar on key-down but
// not reliably on key-up.
func (m *Monitor) keyDown(ev hook.Event) string {
	key := canonicalEvent(ev)
	if key == "" {
		return ""
	}
	m.mu.Lock()
	m.raw[ev.Rawcode] = key
	m.mu.Unlock()
	return key
}

func (m *Monitor) keyUp(ev hook.Event) string {
	m.mu.Lock()
	key, ok := m.raw[ev.Rawcode]
	if ok {
		delete(m.raw, ev.Rawcode)
	}
	m.mu.Unlock()
	if ok {
		return key
	}
	return canonicalEvent(ev)
}

func (m *Monitor) snapshot() []Handler {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Handler, len(m.handlers))
	copy(out, m.handlers)
	return out
}

// canonicalEvent maps a hook event into the canonical key vocabulary:
// printable characters by Keychar, everything else through the gohook
// keycode table.
func canonicalEvent(ev hook.Event) string {
	if ev.Keychar != 0 && ev.Keychar != 0xFFFF {
		r := unicode.ToLower(rune(ev.Keychar))
		if r == ' ' {
			return "space"
		}
		if unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return Canonical(string(r))
		}
	}
	if name, ok := keycodeName(ev.Keycode); ok {
		return Canonical(name)
	}
	return ""
}

var (
	keycodeOnce sync.Once
	keycodeRev  map[uint16]string
)

// keycodeName reverse-maps gohook's name->keycode table. Names sharing a
// code are resolved in sorted order so the mapping is deterministic, and
// names outside the canonical vocabulary are skipped.
func keycodeName(code uint16) (string, bool) {
	keycodeOnce.Do(func() {
		names := make([]string, 0, len(hook.Keycode))
		for name := range hook.Keycode {
			names = append(names, name)
		}
		sort.Strings(names)
		keycodeRev = make(map[uint16]string, len(names))
		for _, name := range names {
			if Canonical(name) == "" {
				continue
			}
			c := hook.Keycode[name]
			if _, exists := keycodeRev[c]; !exists {
				keycodeRev[c] = name
			}
		}
	})
	name, ok := keycodeRev[code]
	return name, ok
}
