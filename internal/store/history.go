// Package store persists dictation history and usage statistics as JSON
// files under the application state directory.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultMaxEntries caps the history file.
const DefaultMaxEntries = 100

// Entry is one completed dictation.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
	WordCount int       `json:"word_count"`
	Duration  float64   `json:"duration_seconds"`
	Language  string    `json:"language"`
	Enhanced  bool      `json:"enhanced"`
}

// NewEntry builds a history entry for a finished dictation.
func NewEntry(text string, duration time.Duration, language string, enhanced bool) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Text:      text,
		WordCount: len(strings.Fields(text)),
		Duration:  duration.Seconds(),
		Language:  language,
		Enhanced:  enhanced,
	}
}

type historyFile struct {
	Entries []Entry `json:"entries"`
}

// History is a newest-first, size-capped dictation log. Privacy mode
// replaces stored text with a word-count placeholder.
type History struct {
	mu         sync.Mutex
	path       string
	maxEntries int
	fullText   bool
	entries    []Entry
	log        zerolog.Logger
}

// OpenHistory loads the history file at path, starting fresh when the
// file is missing or unreadable. A corrupt history must not brick the
// daemon.
func OpenHistory(path string, log zerolog.Logger) (*History, error) {
	h := &History{
		path:       path,
		maxEntries: DefaultMaxEntries,
		fullText:   true,
		log:        log,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	var f historyFile
	if err := json.Unmarshal(data, &f); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("history file corrupt, starting fresh")
		return h, nil
	}
	h.entries = f.Entries
	return h, nil
}

// SetPrivacy controls whether future entries keep their text. Existing
// entries are left as stored.
func (h *History) SetPrivacy(storeFullText bool) {
	h.mu.Lock()
	h.fullText = storeFullText
	h.mu.Unlock()
}

// Append adds an entry at the front, trims to the cap, and persists.
func (h *History) Append(e Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.fullText {
		e.Text = fmt.Sprintf("[%d words]", e.WordCount)
	}
	h.entries = append([]Entry{e}, h.entries...)
	if len(h.entries) > h.maxEntries {
		h.entries = h.entries[:h.maxEntries]
	}
	return h.saveLocked()
}

// Recent returns up to n entries, newest first. n <= 0 returns all.
func (h *History) Recent(n int) []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n <= 0 || n > len(h.entries) {
		n = len(h.entries)
	}
	out := make([]Entry, n)
	copy(out, h.entries[:n])
	return out
}

// Delete removes the entry with the given id and reports whether it
// existed.
func (h *History) Delete(id string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, e := range h.entries {
		if e.ID == id {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			return true, h.saveLocked()
		}
	}
	return false, nil
}

// Clear removes all entries.
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
	return h.saveLocked()
}

// Len reports the number of stored entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

func (h *History) saveLocked() error {
	data, err := json.MarshalIndent(historyFile{Entries: h.entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	if err := os.WriteFile(h.path, data, 0o600); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}

// RelativeTime renders a timestamp the way the history view shows it.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d.Minutes()))
	}

	clock := t.Format("3:04 PM")
	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	if ty == ny && tm == nm && td == nd {
		return "Today, " + clock
	}
	yy, ym, yd := now.AddDate(0, 0, -1).Date()
	if ty == yy && tm == ym && td == yd {
		return "Yesterday, " + clock
	}
	return t.Format("Jan 2, 3:04 PM")
}
