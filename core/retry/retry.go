package retry

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Notify is called before every wait with the error that caused the retry.
type Notify func(err error, wait time.Duration)

// temporary is implemented by errors that are worth retrying.
type temporary interface {
	Temporary() bool
}

// delayer is implemented by errors carrying a server-side wait hint.
type delayer interface {
	RetryDelay() time.Duration
}

// IsRetryable reports whether err is transient. Context cancellation is never
// retryable; timeouts from the network stack are.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var t temporary
	if errors.As(err, &t) {
		return t.Temporary()
	}

	return false
}

// Do runs op until it succeeds, returns a non-retryable error, or the policy
// is exhausted. The last error from op is returned.
func Do(ctx context.Context, cfg Config, op func() error, notify Notify) error {
	hint := &delayHint{}
	b := backoff.WithContext(
		backoff.WithMaxRetries(&hintedBackOff{BackOff: cfg.newExponential(), hint: hint, max: cfg.MaxInterval}, uint64(max(cfg.MaxRetries, 0))),
		ctx,
	)

	attempt := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return backoff.Permanent(err)
		}
		var d delayer
		if errors.As(err, &d) {
			hint.set(d.RetryDelay())
		}
		return err
	}

	var n backoff.Notify
	if notify != nil {
		n = backoff.Notify(notify)
	}
	return backoff.RetryNotify(attempt, b, n)
}

func (c Config) newExponential() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	if c.InitialInterval > 0 {
		b.InitialInterval = c.InitialInterval
	}
	if c.MaxInterval > 0 {
		b.MaxInterval = c.MaxInterval
	}
	if c.Multiplier >= 1 {
		b.Multiplier = c.Multiplier
	}
	if c.RandomizationFactor >= 0 && c.RandomizationFactor < 1 {
		b.RandomizationFactor = c.RandomizationFactor
	}
	b.MaxElapsedTime = c.MaxElapsedTime
	b.Reset()
	return b
}

// delayHint carries the latest server wait hint from the operation to the backoff.
type delayHint struct {
	mu sync.Mutex
	d  time.Duration
}

func (h *delayHint) set(d time.Duration) {
	h.mu.Lock()
	h.d = d
	h.mu.Unlock()
}

func (h *delayHint) take() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	d := h.d
	h.d = 0
	return d
}

// hintedBackOff waits at least as long as the server asked, capped at max.
type hintedBackOff struct {
	backoff.BackOff
	hint *delayHint
	max  time.Duration
}

func (h *hintedBackOff) NextBackOff() time.Duration {
	next := h.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	if d := h.hint.take(); d > next {
		next = d
		if h.max > 0 && next > h.max {
			next = h.max
		}
	}
	return next
}
