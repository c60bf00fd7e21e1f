package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"
)

// RetryConfig controls how timed text downloads are retried
type RetryConfig struct {
	Attempts   int           // total attempts, the first one included
	Backoff    time.Duration // wait before the first retry, doubled for each later one
	MaxBackoff time.Duration // also caps a server supplied Retry-After
}

// DefaultRetryConfig is used when Options.Retry is left empty
var DefaultRetryConfig = RetryConfig{
	Attempts:   4,
	Backoff:    500 * time.Millisecond,
	MaxBackoff: 10 * time.Second,
}

// ErrTimedTextTooLarge is returned for caption tracks above the download limit
var ErrTimedTextTooLarge = errors.New("caption track exceeds size limit")

// statusError is a non-200 answer from the timed text endpoint
type statusError struct {
	code       int
	retryAfter time.Duration
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d (%s)", e.code, http.StatusText(e.code))
}

// throttled reports whether YouTube asked us to slow down or failed on its side
func (e *statusError) throttled() bool {
	return e.code == http.StatusTooManyRequests || e.code >= http.StatusInternalServerError
}

// downloadTimedText fetches a timed text URL, retrying throttling and transient network failures
func (s *youTubeService) downloadTimedText(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= s.retry.Attempts; attempt++ {
		if attempt > 1 {
			wait := s.retry.backoff(attempt-1, lastErr)
			s.logger.Debug("retrying timed text download",
				slog.Int("attempt", attempt),
				slog.Duration("wait", wait),
				slog.Any("err", lastErr))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, err := s.getTimedText(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !isTransient(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", s.retry.Attempts, lastErr)
}

// getTimedText performs one rate limited GET and reads at most maxTimedTextBytes
func (s *youTubeService) getTimedText(ctx context.Context, rawURL string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, retryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxTimedTextBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > s.maxTimedTextBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTimedTextTooLarge, s.maxTimedTextBytes)
	}
	return body, nil
}

// backoff returns the wait before the given retry, preferring the server's Retry-After
func (c RetryConfig) backoff(retry int, lastErr error) time.Duration {
	var statusErr *statusError
	if errors.As(lastErr, &statusErr) && statusErr.retryAfter > 0 {
		return min(statusErr.retryAfter, c.MaxBackoff)
	}

	wait := c.Backoff
	for i := 1; i < retry && wait < c.MaxBackoff; i++ {
		wait *= 2
	}
	return min(wait, c.MaxBackoff)
}

// isTransient classifies download failures worth another attempt.
// Client errors and oversized tracks are final.
func isTransient(err error) bool {
	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return statusErr.throttled()
	}
	if errors.Is(err, ErrTimedTextTooLarge) {
		return false
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// parseRetryAfter reads a Retry-After header given in seconds
func parseRetryAfter(value string) time.Duration {
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
