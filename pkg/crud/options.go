package crud

import (
	"net/http"
	"time"
)

// settings collects Option values before a Service is built.
type settings struct {
	client  Doer
	logger  Logger
	idField string
	headers http.Header
}

// Option configures a Service.
type Option func(*settings)

// WithHTTPClient replaces the default *http.Client. A nil client is ignored.
func WithHTTPClient(c Doer) Option {
	return func(s *settings) {
		if c != nil {
			s.client = c
		}
	}
}

// WithTimeout sets the timeout of the default *http.Client. It has no effect
// after WithHTTPClient has installed a different Doer.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if hc, ok := s.client.(*http.Client); ok && d > 0 {
			hc.Timeout = d
		}
	}
}

// WithLogger installs the optional diagnostic logger.
func WithLogger(l Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithIDField sets the JSON field stripped from outgoing bodies.
func WithIDField(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.idField = name
		}
	}
}

// WithHeader adds a static header sent with every request.
func WithHeader(key, value string) Option {
	return func(s *settings) {
		s.headers.Add(key, value)
	}
}
