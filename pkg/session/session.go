// Package session provides an HTTP session bound to a single GraphQL
// endpoint. The session delegates the plain HTTP verbs to an underlying HTTP
// client, always targeting the bound URI, and adds one specialized operation:
// Query, which builds and sends a GraphQL request body, optionally with file
// attachments encoded per the GraphQL multipart request spec.
package session

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/saltastro/gqlsession/pkg/auth"
	"github.com/saltastro/gqlsession/pkg/config"
	"github.com/saltastro/gqlsession/pkg/graphql"
)

// HTTPDoer is the minimal interface the session needs from its HTTP client.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Session is an HTTP session for GraphQL queries. The endpoint URI is fixed
// at construction and never changes; the auth slot is mutable and applies to
// every outgoing request. A Session is safe for concurrent use as long as the
// underlying HTTP client is and the auth slot is not written concurrently.
type Session struct {
	uri     string
	client  HTTPDoer
	headers map[string]string
	auth    auth.Handler
	logger  *zap.Logger
}

// New creates a session bound to the given endpoint URI.
func New(uri string, opts ...Option) *Session {
	s := &Session{
		uri:     uri,
		headers: make(map[string]string),
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		s.client = &http.Client{
			Timeout: 30 * time.Second,
		}
	}
	return s
}

// FromConfig creates a session from a loaded session config, building the
// auth handler through the auth registry.
func FromConfig(cfg *config.Session, opts ...Option) (*Session, error) {
	s := New(cfg.Endpoint, opts...)
	for k, v := range cfg.Headers {
		s.headers[k] = v
	}
	if cfg.Auth != nil {
		handler, err := auth.NewAuthRegistry().Create(cfg.Auth)
		if err != nil {
			return nil, err
		}
		s.auth = handler
	}
	return s, nil
}

// URI returns the endpoint this session is bound to.
func (s *Session) URI() string {
	return s.uri
}

// SetAuth sets the auth handler applied to every subsequent request.
// Pass nil to clear it.
func (s *Session) SetAuth(h auth.Handler) {
	s.auth = h
}

// Auth returns the current auth handler, or nil if none is set.
func (s *Session) Auth() auth.Handler {
	return s.auth
}

// Query sends a GraphQL request to the bound endpoint. A query without files
// is sent as a JSON POST; a query with variables, a file map and files is
// sent as a multipart POST. The raw response is returned unparsed; network
// errors propagate from the underlying client unchanged.
func (s *Session) Query(ctx context.Context, query string, opts ...graphql.BuilderOption) (*http.Response, error) {
	builder := graphql.NewBuilder(s.uri, query, opts...)
	req, err := builder.Build(ctx)
	if err != nil {
		return nil, err
	}
	return s.send(req)
}

// send applies the session headers and auth handler, then executes the
// request. Session headers never override headers already on the request.
func (s *Session) send(req *http.Request) (*http.Response, error) {
	for k, v := range s.headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	if s.auth != nil {
		if err := s.auth.ApplyAuth(req); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("sending request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("received response",
		zap.String("method", req.Method),
		zap.Int("status", resp.StatusCode),
	)
	return resp, nil
}
