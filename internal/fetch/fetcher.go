// Package fetch is the single place in the codebase that performs HTTP and
// the single place that retries. Scrapers call Fetch and treat the result as
// a value; no other component sleeps or backs off.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// ErrorKind separates failures the caller may retry from ones it must not.
type ErrorKind string

const (
	// KindTransient covers timeouts, connection resets and 5xx responses.
	KindTransient ErrorKind = "transient"
	// KindPermanent covers 4xx responses and malformed URLs.
	KindPermanent ErrorKind = "permanent"
)

// Error is a fetch failure after all retry attempts were spent.
type Error struct {
	Kind     ErrorKind
	URL      string
	Attempts int
	Status   int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s: %s after %d attempt(s): %v", e.Kind, e.URL, e.Attempts, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsTransient reports whether err is a fetch error of transient kind.
func IsTransient(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == KindTransient
}

// Result is a successful fetch.
type Result struct {
	Body    []byte
	Status  int
	Headers http.Header
	URL     string
}

// Counters accumulates fetch activity for the ETL summary. All fields are
// updated atomically; read them with Snapshot.
type Counters struct {
	Requests  atomic.Int64
	Retries   atomic.Int64
	Failures  atomic.Int64
	BytesRead atomic.Int64
}

// CounterSnapshot is a point-in-time copy of Counters.
type CounterSnapshot struct {
	Requests  int64 `json:"requests"`
	Retries   int64 `json:"retries"`
	Failures  int64 `json:"failures"`
	BytesRead int64 `json:"bytes_read"`
}

// Snapshot copies the counters.
func (c *Counters) Snapshot() CounterSnapshot {
	return CounterSnapshot{
		Requests:  c.Requests.Load(),
		Retries:   c.Retries.Load(),
		Failures:  c.Failures.Load(),
		BytesRead: c.BytesRead.Load(),
	}
}

// Options configures a Fetcher.
type Options struct {
	UserAgent string
	// Delay is the politeness interval between requests to one host.
	Delay time.Duration
	// Timeout bounds a single request attempt.
	Timeout time.Duration
	// MaxAttempts counts the first try plus retries.
	MaxAttempts int
	// MaxBodyBytes caps a response body read. Zero means 16 MiB.
	MaxBodyBytes int64
}

// Fetcher performs rate-limited, retrying GETs over one shared connection
// pool. Safe for concurrent use; rate limiting is per host.
type Fetcher struct {
	client *http.Client
	opts   Options

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	Counters Counters
}

// New creates a Fetcher with a pooled transport shared by all requests.
func New(opts Options) *Fetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = 4
	}
	if opts.Delay == 0 {
		opts.Delay = 500 * time.Millisecond
	}
	if opts.MaxBodyBytes == 0 {
		opts.MaxBodyBytes = 16 << 20
	}
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		opts:     opts,
		limiters: make(map[string]*rate.Limiter),
	}
}

// limiterFor returns the per-host limiter, creating it on first use. The
// limiter admits one request per politeness delay with a burst of one.
func (f *Fetcher) limiterFor(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.limiters[host]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Every(f.opts.Delay), 1)
	f.limiters[host] = l
	return l
}

// Fetch GETs a URL with bounded retries and exponential backoff. Transient
// failures (timeout, reset, 5xx) are retried up to MaxAttempts; permanent
// ones (4xx, bad URL) surface immediately.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, &Error{Kind: KindPermanent, URL: rawURL, Attempts: 0, Err: fmt.Errorf("malformed URL: %v", err)}
	}
	limiter := f.limiterFor(u.Host)

	var lastErr error
	var lastStatus int
	for attempt := 1; attempt <= f.opts.MaxAttempts; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, &Error{Kind: KindTransient, URL: rawURL, Attempts: attempt, Err: err}
		}
		if attempt > 1 {
			f.Counters.Retries.Add(1)
			if err := sleepCtx(ctx, backoff(attempt)); err != nil {
				return nil, &Error{Kind: KindTransient, URL: rawURL, Attempts: attempt, Err: err}
			}
		}
		f.Counters.Requests.Add(1)

		res, status, err := f.attempt(ctx, rawURL)
		if err == nil {
			return res, nil
		}
		lastErr, lastStatus = err, status

		if status >= 400 && status < 500 {
			f.Counters.Failures.Add(1)
			return nil, &Error{Kind: KindPermanent, URL: rawURL, Attempts: attempt, Status: status, Err: err}
		}
		if ctx.Err() != nil {
			break
		}
		log.Printf("[fetch] attempt %d/%d failed for %s: %v", attempt, f.opts.MaxAttempts, rawURL, err)
	}
	f.Counters.Failures.Add(1)
	return nil, &Error{Kind: KindTransient, URL: rawURL, Attempts: f.opts.MaxAttempts, Status: lastStatus, Err: lastErr}
}

// attempt performs one GET. The returned status is zero for network errors.
func (f *Fetcher) attempt(ctx context.Context, rawURL string) (*Result, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, 0, fmt.Errorf("timeout: %w", err)
		}
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	f.Counters.BytesRead.Add(int64(len(body)))

	if resp.StatusCode >= 400 {
		return nil, resp.StatusCode, fmt.Errorf("status %d", resp.StatusCode)
	}
	return &Result{Body: body, Status: resp.StatusCode, Headers: resp.Header, URL: rawURL}, 0, nil
}

// backoff returns the sleep before retry n (n >= 2): 1s, 2s, 4s ... with up
// to 250ms of jitter so parallel workers do not retry in lockstep.
func backoff(attempt int) time.Duration {
	d := time.Second << (attempt - 2)
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d + time.Duration(rand.Int63n(int64(250*time.Millisecond)))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
