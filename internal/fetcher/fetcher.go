package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

const (
	// DefaultTimeout bounds every request end to end.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize limits how much of a response body is read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Fetcher retrieves page content with a single HTTP GET.
// It is safe for concurrent use.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	maxBodySize  int64
	proxyAddress string
	logger       *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the end-to-end request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxBodySize sets the maximum number of body bytes read per response.
// Longer bodies are truncated.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithProxy routes requests through the SOCKS5 proxy at address ("host:port").
// An empty address means direct connections.
func WithProxy(address string) Option {
	return func(f *Fetcher) {
		f.proxyAddress = address
	}
}

// WithHTTPClient replaces the HTTP client. The timeout and proxy options
// are ignored when a client is supplied.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithLogger sets the logger used for fetch failures.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// New creates a Fetcher. Without options it connects directly with
// DefaultTimeout and DefaultMaxBodySize.
func New(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:     DefaultTimeout,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}

	if f.client == nil {
		if f.timeout <= 0 {
			return nil, ErrInvalidTimeout
		}
		transport, err := newTransport(f.proxyAddress)
		if err != nil {
			return nil, err
		}
		f.client = &http.Client{
			Transport: transport,
			Timeout:   f.timeout,
		}
	}
	return f, nil
}

// Fetch returns the body of rawURL as text, decoded to UTF-8 according to
// the response charset. It returns an empty string on any failure and logs
// the cause.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) string {
	body, err := f.fetch(ctx, rawURL)
	if err != nil {
		f.logger.Warn("fetch failed", "url", rawURL, "error", err)
		return ""
	}
	f.logger.Debug("fetched page", "url", rawURL, "bytes", len(body))
	return body
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // best effort
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	limited := io.LimitReader(resp.Body, f.maxBodySize)
	reader, err := charset.NewReader(limited, resp.Header.Get("Content-Type"))
	if err != nil {
		// Unknown charset labels fall back to the raw bytes.
		reader = limited
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", ErrEmptyBody
	}
	return string(data), nil
}
