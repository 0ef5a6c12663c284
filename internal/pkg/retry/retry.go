package retry

import (
	"context"
	"errors"
	"log"
	"time"
)

// Policy describes how an operation is retried. The zero value is not usable;
// use DefaultPolicy or construct one explicitly.
type Policy struct {
	MaxAttempts int
	// Delay is the base wait between attempts; attempt n sleeps Delay * n.
	Delay time.Duration
	// Sleep is swappable for tests. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// DefaultPolicy matches the reseller client's behavior: three attempts with a
// linearly growing backoff.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, Delay: 2 * time.Second}
}

// PermanentError wraps an error that must not be retried, such as an HTTP 4xx
// response where repeating the call cannot change the outcome.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent marks err as non-retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err was marked non-retryable.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// Do runs fn under the policy. It returns nil on the first success, the
// wrapped error as soon as a permanent error occurs, or the last error once
// attempts are exhausted. The operation name is only used for logging.
func (p Policy) Do(ctx context.Context, operation string, fn func() error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if IsPermanent(err) {
			log.Printf("%s failed with non-retryable error: %v", operation, err)
			return err
		}
		if attempt == attempts {
			break
		}

		wait := p.Delay * time.Duration(attempt)
		log.Printf("%s attempt %d failed, retrying in %v: %v", operation, attempt, wait, err)
		sleep(wait)
	}

	log.Printf("%s failed after %d attempts: %v", operation, attempts, lastErr)
	return lastErr
}
