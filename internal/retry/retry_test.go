package retry

import (
	"errors"
	"testing"
	"time"
)

// sleepless returns a policy whose sleeps are recorded instead of slept.
func sleepless(p Policy) (Policy, *[]time.Duration) {
	var slept []time.Duration
	p.Sleep = func(d time.Duration) { slept = append(slept, d) }
	return p, &slept
}

func TestDoFirstTrySuccess(t *testing.T) {
	p, slept := sleepless(Default())
	calls := 0
	got, err := Do(p, func() (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil || got != "ok" {
		t.Fatalf("Do() = (%q, %v), want (ok, nil)", got, err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if len(*slept) != 0 {
		t.Errorf("slept %v, want no delays on first-try success", *slept)
	}
}

func TestDoRetriesThenSucceeds(t *testing.T) {
	p, slept := sleepless(Default())
	calls := 0
	got, err := Do(p, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	if err != nil || got != 42 {
		t.Fatalf("Do() = (%d, %v), want (42, nil)", got, err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(*slept) != len(want) || (*slept)[0] != want[0] || (*slept)[1] != want[1] {
		t.Errorf("slept %v, want %v (delays only between attempts)", *slept, want)
	}
}

func TestDoExhaustionReturnsLastError(t *testing.T) {
	p, slept := sleepless(Default())
	calls := 0
	last := errors.New("failure 3")
	_, err := Do(p, func() (int, error) {
		calls++
		if calls == 3 {
			return 0, last
		}
		return 0, errors.New("earlier failure")
	})
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if !errors.Is(err, last) {
		t.Errorf("err = %v, want the final attempt's error", err)
	}
	if len(*slept) != 2 {
		t.Errorf("slept %v, want 2 delays and none after the final failure", *slept)
	}
}

func TestDoNonRetryableStopsImmediately(t *testing.T) {
	fatal := errors.New("bad credentials")
	p, slept := sleepless(Default())
	p.Retryable = func(err error) bool { return !errors.Is(err, fatal) }

	calls := 0
	_, err := Do(p, func() (int, error) {
		calls++
		return 0, fatal
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1 for a non-retryable error", calls)
	}
	if !errors.Is(err, fatal) {
		t.Errorf("err = %v, want %v", err, fatal)
	}
	if len(*slept) != 0 {
		t.Errorf("slept %v, want none", *slept)
	}
}

func TestDoShortDelayTableRepeatsLast(t *testing.T) {
	p, slept := sleepless(Policy{MaxAttempts: 4, Delays: []time.Duration{time.Second}})
	calls := 0
	_, _ = Do(p, func() (int, error) {
		calls++
		return 0, errors.New("always")
	})
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
	for i, d := range *slept {
		if d != time.Second {
			t.Errorf("slept[%d] = %v, want 1s", i, d)
		}
	}
	if len(*slept) != 3 {
		t.Errorf("len(slept) = %d, want 3", len(*slept))
	}
}

func TestDoInterruptedAtBoundary(t *testing.T) {
	p, _ := sleepless(Default())
	interrupted := false
	p.Interrupted = func() bool { return interrupted }

	calls := 0
	boom := errors.New("boom")
	_, err := Do(p, func() (int, error) {
		calls++
		interrupted = true
		return 0, boom
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no attempt after interruption)", calls)
	}
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want last error %v", err, boom)
	}
}

func TestDoOnRetryObservesAttempts(t *testing.T) {
	p, _ := sleepless(Default())
	type note struct {
		attempt int
		delay   time.Duration
	}
	var notes []note
	p.OnRetry = func(attempt int, delay time.Duration, err error) {
		notes = append(notes, note{attempt, delay})
	}
	_, _ = Do(p, func() (int, error) { return 0, errors.New("always") })

	if len(notes) != 2 {
		t.Fatalf("OnRetry called %d times, want 2", len(notes))
	}
	if notes[0] != (note{1, time.Second}) || notes[1] != (note{2, 2 * time.Second}) {
		t.Errorf("notes = %v, want attempt/delay pairs (1,1s) (2,2s)", notes)
	}
}

func TestDoZeroAttemptsRunsOnce(t *testing.T) {
	p, _ := sleepless(Policy{})
	calls := 0
	_, _ = Do(p, func() (int, error) {
		calls++
		return 0, errors.New("x")
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
