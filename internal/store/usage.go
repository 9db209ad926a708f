package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Published API pricing used for the cost estimate.
const (
	whisperPerMinute = 0.006
	gptPerRequest    = 0.0003
)

// Stats is the persisted usage ledger.
type Stats struct {
	TotalMinutes    float64  `json:"total_minutes"`
	TotalRequests   int      `json:"total_requests"`
	SessionMinutes  float64  `json:"session_minutes"`
	SessionRequests int      `json:"session_requests"`
	TotalWords      int      `json:"total_words"`
	FirstUse        string   `json:"first_use_date,omitempty"`
	LastUse         string   `json:"last_use_date,omitempty"`
	ActiveDays      []string `json:"active_days"`
}

// Cost is an estimated spend derived from the ledger.
type Cost struct {
	Whisper float64
	GPT     float64
	Total   float64
}

// Usage tracks transcription minutes, requests, and words across runs.
type Usage struct {
	mu   sync.Mutex
	path string
	s    Stats
	log  zerolog.Logger
	now  func() time.Time
}

// OpenUsage loads the usage file at path, starting a fresh ledger when
// the file is missing or unreadable.
func OpenUsage(path string, log zerolog.Logger) (*Usage, error) {
	u := &Usage{path: path, log: log, now: time.Now}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return u, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading usage stats: %w", err)
	}
	if err := json.Unmarshal(data, &u.s); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("usage file corrupt, starting fresh")
		u.s = Stats{}
	}
	return u, nil
}

// ResetSession zeroes the per-session counters. Called once at startup.
func (u *Usage) ResetSession() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.s.SessionMinutes = 0
	u.s.SessionRequests = 0
	return u.saveLocked()
}

// Add records one completed dictation and persists the ledger.
func (u *Usage) Add(minutes float64, words int) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	day := u.now().Format("2006-01-02")
	u.s.TotalMinutes += minutes
	u.s.SessionMinutes += minutes
	u.s.TotalRequests++
	u.s.SessionRequests++
	u.s.TotalWords += words
	if u.s.FirstUse == "" {
		u.s.FirstUse = day
	}
	u.s.LastUse = day
	if !containsDay(u.s.ActiveDays, day) {
		u.s.ActiveDays = append(u.s.ActiveDays, day)
	}
	return u.saveLocked()
}

// Snapshot returns a copy of the current stats.
func (u *Usage) Snapshot() Stats {
	u.mu.Lock()
	defer u.mu.Unlock()
	s := u.s
	s.ActiveDays = append([]string(nil), u.s.ActiveDays...)
	return s
}

// EstimatedCost prices the ledger with published per-minute and
// per-request rates.
func (u *Usage) EstimatedCost() Cost {
	u.mu.Lock()
	defer u.mu.Unlock()
	c := Cost{
		Whisper: u.s.TotalMinutes * whisperPerMinute,
		GPT:     float64(u.s.TotalRequests) * gptPerRequest,
	}
	c.Total = c.Whisper + c.GPT
	return c
}

// AverageWPM is total words over total transcribed minutes.
func (u *Usage) AverageWPM() float64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.s.TotalMinutes <= 0 {
		return 0
	}
	return float64(u.s.TotalWords) / u.s.TotalMinutes
}

// WeeksActive counts calendar weeks since first use, starting at 1.
func (u *Usage) WeeksActive() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.s.FirstUse == "" {
		return 0
	}
	first, err := time.Parse("2006-01-02", u.s.FirstUse)
	if err != nil {
		return 0
	}
	days := int(u.now().Sub(first).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days/7 + 1
}

func (u *Usage) saveLocked() error {
	data, err := json.MarshalIndent(u.s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding usage stats: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(u.path), 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	if err := os.WriteFile(u.path, data, 0o600); err != nil {
		return fmt.Errorf("writing usage stats: %w", err)
	}
	return nil
}

func containsDay(days []string, day string) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
