package session

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/saltastro/gqlsession/pkg/auth"
)

// Option configures the Session.
type Option func(*Session)

// WithHTTPClient swaps the underlying HTTP client (e.g. an *http.Client with
// a custom transport). Timeout and cancellation behavior belong to the client
// and are never intercepted by the session.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(s *Session) {
		s.client = doer
	}
}

// WithTimeout sets a timeout on the HTTP client (if it's an *http.Client).
func WithTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		if s.client == nil {
			s.client = &http.Client{}
		}
		if httpClient, ok := s.client.(*http.Client); ok {
			httpClient.Timeout = timeout
		}
	}
}

// WithHeader adds a header to every request made through the session.
func WithHeader(key, value string) Option {
	return func(s *Session) {
		s.headers[key] = value
	}
}

// WithHeaders adds multiple headers to every request made through the session.
func WithHeaders(headers map[string]string) Option {
	return func(s *Session) {
		for k, v := range headers {
			s.headers[k] = v
		}
	}
}

// WithAuth sets the initial auth handler.
func WithAuth(h auth.Handler) Option {
	return func(s *Session) {
		s.auth = h
	}
}

// WithLogger sets a logger for request debugging. The default is a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}
