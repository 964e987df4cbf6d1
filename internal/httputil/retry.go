// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for fetching source pages.
package httputil

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Backoff controls retries of throttled requests.
type Backoff struct {
	// Base is the first delay; each later attempt doubles it.
	Base time.Duration

	// Max caps any single delay, including one requested by Retry-After.
	Max time.Duration

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
}

// DefaultBackoff waits 2 s, 4 s, 8 s, 16 s, 32 s between attempts.
var DefaultBackoff = Backoff{
	Base:       2 * time.Second,
	Max:        time.Minute,
	MaxRetries: 5,
}

// Retryable reports whether a response status means the server asked the
// client to slow down or come back later.
func Retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// Delay returns the wait before retry number attempt (starting at 0). A
// Retry-After header given in seconds takes precedence over the
// exponential schedule.
func (b Backoff) Delay(attempt int, resp *http.Response) time.Duration {
	d := b.Base << attempt
	if resp != nil {
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs >= 0 {
			d = time.Duration(secs) * time.Second
		}
	}
	if b.Max > 0 && d > b.Max {
		d = b.Max
	}
	return d
}

// Do executes req and retries while the response is Retryable. The body
// of each throttled response is drained and closed before waiting. If ctx
// ends during a wait, Do returns ctx.Err(). Once retries are exhausted
// the last throttled response is returned for the caller to inspect.
func Do(ctx context.Context, client *http.Client, req *http.Request, b Backoff) (*http.Response, error) {
	if b.MaxRetries < 0 {
		b.MaxRetries = 0
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if !Retryable(resp.StatusCode) || attempt >= b.MaxRetries {
			return resp, nil
		}

		wait := b.Delay(attempt, resp)
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}
