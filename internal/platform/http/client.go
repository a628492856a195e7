package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

// Client is a wrapper for HTTP client with rate limiting
type Client struct {
	HTTPClient      *http.Client
	Limiter         *rate.Limiter
	MaxRetryTimeout time.Duration
	RetryInterval   time.Duration
	headers         http.Header
}

// ClientOptions holds options for creating a new Client
type ClientOptions struct {
	Timeout         time.Duration
	RequestsPerSec  int
	MaxRetryTimeout time.Duration
	// RetryInterval is the first backoff delay
	RetryInterval time.Duration
	// Headers are set on every request
	Headers http.Header
}

// NewClient creates a new HTTP client with rate limiting
func NewClient(opts ClientOptions) *Client {
	// Set default values if not provided
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 5
	}
	if opts.MaxRetryTimeout == 0 {
		opts.MaxRetryTimeout = 20 * time.Second
	}
	if opts.RetryInterval == 0 {
		opts.RetryInterval = backoff.DefaultInitialInterval
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: opts.Timeout,
		},
		Limiter:         rate.NewLimiter(rate.Limit(opts.RequestsPerSec), opts.RequestsPerSec),
		MaxRetryTimeout: opts.MaxRetryTimeout,
		RetryInterval:   opts.RetryInterval,
		headers:         opts.Headers.Clone(),
	}
}

// DoRequest performs an HTTP request with rate limiting. GET requests are
// retried with exponential backoff; anything else is attempted exactly once.
func (c *Client) DoRequest(ctx context.Context, req *http.Request) (*http.Response, error) {
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	var resp *http.Response
	operation := func() error {
		// Wait for rate limiter
		if err := c.Limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		var err error
		resp, err = c.HTTPClient.Do(req)
		if err != nil {
			return err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			statusErr := &HTTPStatusError{StatusCode: resp.StatusCode, Body: string(body)}
			if !statusErr.Temporary() {
				return backoff.Permanent(statusErr)
			}
			return statusErr
		}
		return nil
	}

	if req.Method != http.MethodGet {
		if err := operation(); err != nil {
			return nil, unwrapPermanent(err)
		}
		return resp, nil
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.InitialInterval = c.RetryInterval
	backoffStrategy.MaxElapsedTime = c.MaxRetryTimeout

	if err := backoff.Retry(operation, backoff.WithContext(backoffStrategy, ctx)); err != nil {
		return nil, err
	}

	return resp, nil
}

func unwrapPermanent(err error) error {
	if p, ok := err.(*backoff.PermanentError); ok {
		return p.Err
	}
	return err
}

// HTTPStatusError represents an error due to a non-2xx HTTP status code
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *HTTPStatusError) Error() string {
	msg := "unexpected status code: " + http.StatusText(e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Temporary reports whether retrying could succeed
func (e *HTTPStatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
