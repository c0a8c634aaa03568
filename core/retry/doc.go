// Package retry wraps external calls in a bounded exponential backoff.
//
// Only transient failures are retried: errors whose Temporary method returns
// true (rate limiting and server errors from the API client) and network
// timeouts. Everything else is returned after the first attempt.
//
// When an error also exposes RetryDelay, for example a rate-limit reset time
// reported by the server, the next wait is at least that long, capped at
// Config.MaxInterval.
//
// # Usage
//
//	err := retry.Do(ctx, cfg.Retry, func() error {
//	    return client.call(ctx)
//	}, func(err error, wait time.Duration) {
//	    log.Warn("retrying", zap.Error(err), zap.Duration("wait", wait))
//	})
package retry
