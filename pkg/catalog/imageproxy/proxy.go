// Package imageproxy fetches remote images on behalf of browser
// clients that cannot load them directly due to cross-origin
// restrictions. Only image responses are forwarded; everything else is
// rejected before any body bytes reach the caller.
package imageproxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds a single upstream fetch.
const DefaultTimeout = 10 * time.Second

var (
	// ErrInvalidURL indicates the requested URL is missing, malformed,
	// or uses a scheme other than http or https.
	ErrInvalidURL = errors.New("invalid upstream url")

	// ErrUpstreamTimeout indicates the upstream did not respond within
	// the configured timeout.
	ErrUpstreamTimeout = errors.New("upstream timed out")

	// ErrUnsupportedMediaType indicates the upstream responded with a
	// non-image content type.
	ErrUnsupportedMediaType = errors.New("upstream returned non-image content")

	// ErrBadGateway indicates the upstream request failed or returned a
	// non-success status.
	ErrBadGateway = errors.New("upstream request failed")
)

// Result is a successful upstream fetch. Body must be closed by the
// caller once consumed.
type Result struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// Fetcher retrieves remote images over HTTP
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// New creates a new image fetcher
func New(options ...Option) *Fetcher {
	f := &Fetcher{
		client:  &http.Client{},
		timeout: DefaultTimeout,
	}
	for _, option := range options {
		option(f)
	}
	return f
}

// Fetch retrieves the image at rawURL. The response body is only
// returned when the upstream answered with a success status and an
// image content type; on any error no body is leaked.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		cancel()
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrUpstreamTimeout
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return nil, ErrUpstreamTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrBadGateway, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("%w: upstream status %d", ErrBadGateway, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("%w: got %q", ErrUnsupportedMediaType, contentType)
	}

	return &Result{
		// The timeout context stays alive until the body is fully
		// consumed; cancel fires when the caller closes the body.
		Body:          &cancelReadCloser{ReadCloser: resp.Body, cancel: cancel},
		ContentType:   contentType,
		ContentLength: resp.ContentLength,
	}, nil
}

// validateURL accepts absolute http and https URLs only
func validateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: empty url", ErrInvalidURL)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrInvalidURL, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	return nil
}

type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
