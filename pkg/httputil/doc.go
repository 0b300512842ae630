// Package httputil provides transport helpers shared by the API clients.
//
// # Overview
//
//   - [Retry]: retry with exponential backoff for transient failures
//   - [Gate]: client-side request pacing backed by golang.org/x/time/rate
//
// # Retry
//
// Only errors wrapped with [RetryableError] are retried; everything else
// returns immediately:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// The GitHub client runs a single attempt by default; retries are enabled
// with the github.retries setting.
//
// # Pacing
//
// A [Gate] created with a positive rate delays each request so that no more
// than that many are sent per second. A nil gate never waits:
//
//	gate := httputil.NewGate(cfg.RequestsPerSecond) // nil when 0
//	if err := gate.Wait(ctx); err != nil {
//	    return err
//	}
package httputil
