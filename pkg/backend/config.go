package backend

import (
	"log/slog"
	"net/http"
	"time"
)

// Config holds client configuration.
type Config struct {
	// BaseURL is the analysis service root, e.g. "http://localhost:8080".
	BaseURL string

	// Timeout bounds each request. Keep it short: a frame's result is
	// stale within a second anyway.
	Timeout time.Duration

	// SendTimestamps includes the capture timestamp in each landmark
	// request (later protocol variant).
	SendTimestamps bool

	// HTTPClient overrides the HTTP client (tests).
	HTTPClient *http.Client

	// Logger is the structured logger.
	Logger *slog.Logger
}

// Option is a functional option for configuring the client.
type Option func(*Config)

// WithBaseURL sets the analysis service URL.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithTimestamps enables the timestamp field in landmark requests.
func WithTimestamps(enabled bool) Option {
	return func(c *Config) { c.SendTimestamps = enabled }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Config) { c.HTTPClient = h }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Timeout:        5 * time.Second,
		SendTimestamps: true,
		Logger:         slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
