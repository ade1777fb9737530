package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/saltastro/gqlsession/pkg/errors"
)

// verbs maps the recognized capability names to their HTTP methods.
var verbs = map[string]string{
	"get":     http.MethodGet,
	"post":    http.MethodPost,
	"put":     http.MethodPut,
	"patch":   http.MethodPatch,
	"delete":  http.MethodDelete,
	"options": http.MethodOptions,
	"head":    http.MethodHead,
}

// RequestOption configures a single delegated request. The session supplies
// the target URL itself; everything else is forwarded verbatim.
type RequestOption func(*requestConfig)

type requestConfig struct {
	body        io.Reader
	contentType string
	headers     map[string]string
	query       url.Values
	err         error
}

// WithBody sets the request body and its content type.
func WithBody(body io.Reader, contentType string) RequestOption {
	return func(c *requestConfig) {
		c.body = body
		c.contentType = contentType
	}
}

// WithJSONBody marshals v as the JSON request body.
func WithJSONBody(v interface{}) RequestOption {
	return func(c *requestConfig) {
		buf, err := json.Marshal(v)
		if err != nil {
			c.err = fmt.Errorf("failed to encode JSON body: %w", err)
			return
		}
		c.body = bytes.NewReader(buf)
		c.contentType = "application/json"
	}
}

// WithRequestHeader adds a header to this request only.
func WithRequestHeader(key, value string) RequestOption {
	return func(c *requestConfig) {
		if c.headers == nil {
			c.headers = make(map[string]string)
		}
		c.headers[key] = value
	}
}

// WithQueryParam adds a query parameter to the request URL.
func WithQueryParam(key, value string) RequestOption {
	return func(c *requestConfig) {
		if c.query == nil {
			c.query = url.Values{}
		}
		c.query.Add(key, value)
	}
}

// Get performs a GET request against the bound endpoint.
func (s *Session) Get(ctx context.Context, opts ...RequestOption) (*http.Response, error) {
	return s.request(ctx, http.MethodGet, opts...)
}

// Post performs a POST request against the bound endpoint.
func (s *Session) Post(ctx context.Context, opts ...RequestOption) (*http.Response, error) {
	return s.request(ctx, http.MethodPost, opts...)
}

// Put performs a PUT request against the bound endpoint.
func (s *Session) Put(ctx context.Context, opts ...RequestOption) (*http.Response, error) {
	return s.request(ctx, http.MethodPut, opts...)
}

// Patch performs a PATCH request against the bound endpoint.
func (s *Session) Patch(ctx context.Context, opts ...RequestOption) (*http.Response, error) {
	return s.request(ctx, http.MethodPatch, opts...)
}

// Delete performs a DELETE request against the bound endpoint.
func (s *Session) Delete(ctx context.Context, opts ...RequestOption) (*http.Response, error) {
	return s.request(ctx, http.MethodDelete, opts...)
}

// Options performs an OPTIONS request against the bound endpoint.
func (s *Session) Options(ctx context.Context, opts ...RequestOption) (*http.Response, error) {
	return s.request(ctx, http.MethodOptions, opts...)
}

// Head performs a HEAD request against the bound endpoint.
func (s *Session) Head(ctx context.Context, opts ...RequestOption) (*http.Response, error) {
	return s.request(ctx, http.MethodHead, opts...)
}

// Call invokes a capability by name. Verb names (get, post, put, patch,
// delete, options, head) dispatch to the corresponding method; any other
// name fails with ErrUnknownCapability naming the missing capability.
func (s *Session) Call(ctx context.Context, capability string, opts ...RequestOption) (*http.Response, error) {
	method, ok := verbs[capability]
	if !ok {
		return nil, errors.WrapError(
			fmt.Errorf("the session has no capability %q", capability),
			errors.ErrUnknownCapability,
			"delegate request",
		)
	}
	return s.request(ctx, method, opts...)
}

// request builds a request for the bound URI and sends it through the
// session's header/auth path.
func (s *Session) request(ctx context.Context, method string, opts ...RequestOption) (*http.Response, error) {
	cfg := &requestConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}

	req, err := http.NewRequestWithContext(ctx, method, s.uri, cfg.body)
	if err != nil {
		return nil, err
	}

	if len(cfg.query) > 0 {
		q := req.URL.Query()
		for key, values := range cfg.query {
			for _, value := range values {
				q.Add(key, value)
			}
		}
		req.URL.RawQuery = q.Encode()
	}
	if cfg.contentType != "" {
		req.Header.Set("Content-Type", cfg.contentType)
	}
	for k, v := range cfg.headers {
		req.Header.Set(k, v)
	}

	return s.send(req)
}
