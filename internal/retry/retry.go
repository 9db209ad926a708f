// Package retry runs an operation up to a fixed number of attempts with a
// fixed delay table between them. Delays are coarse, blocking sleeps on
// the calling goroutine; a shutdown request is honored only at attempt
// boundaries, never mid-sleep.
package retry

import "time"

// Policy configures Do. The zero value is not useful; start from Default.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int
	// Delays[i] is slept after attempt i+1 fails. A table shorter than
	// MaxAttempts-1 repeats its last entry.
	Delays []time.Duration
	// Retryable reports whether an error is worth another attempt.
	// nil retries everything.
	Retryable func(error) bool
	// OnRetry is called before each sleep with the 1-based attempt number
	// that failed, the upcoming delay, and the error. Used for logging.
	OnRetry func(attempt int, delay time.Duration, err error)
	// Interrupted is consulted at attempt boundaries; returning true stops
	// the loop with the last error.
	Interrupted func() bool
	// Sleep replaces time.Sleep in tests.
	Sleep func(time.Duration)
}

// Default is the standard policy: three attempts with 1s, 2s, 4s delays.
func Default() Policy {
	return Policy{
		MaxAttempts: 3,
		Delays:      []time.Duration{time.Second, 2 * time.Second, 4 * time.Second},
	}
}

// Do runs fn until it succeeds, the error is not retryable, attempts run
// out, or the policy is interrupted. It returns the last result and error.
func Do[T any](p Policy, fn func() (T, error)) (T, error) {
	var zero T
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if attempt > 1 && p.Interrupted != nil && p.Interrupted() {
			return zero, lastErr
		}
		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err
		if p.Retryable != nil && !p.Retryable(err) {
			return zero, err
		}
		if attempt == p.MaxAttempts {
			break
		}
		d := p.delay(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, d, err)
		}
		sleep(d)
	}
	return zero, lastErr
}

// delay returns the sleep after the given 1-based failed attempt.
func (p Policy) delay(attempt int) time.Duration {
	if len(p.Delays) == 0 {
		return 0
	}
	i := attempt - 1
	if i >= len(p.Delays) {
		i = len(p.Delays) - 1
	}
	return p.Delays[i]
}
