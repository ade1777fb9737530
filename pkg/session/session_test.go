package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/saltastro/gqlsession/pkg/auth"
	"github.com/saltastro/gqlsession/pkg/config"
	"github.com/saltastro/gqlsession/pkg/errors"
	"github.com/saltastro/gqlsession/pkg/graphql"
)

type recordedRequest struct {
	method string
	host   string
	header http.Header
	path   string
	query  url.Values
}

func TestSession_VerbsTargetBoundEndpoint(t *testing.T) {
	var recorded recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorded = recordedRequest{
			method: r.Method,
			host:   r.Host,
			header: r.Header.Clone(),
			path:   r.URL.Path,
			query:  r.URL.Query(),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := New(server.URL)
	expectedHost := strings.TrimPrefix(server.URL, "http://")

	cases := []struct {
		name   string
		call   func(ctx context.Context) (*http.Response, error)
		method string
	}{
		{"Get", func(ctx context.Context) (*http.Response, error) { return s.Get(ctx) }, http.MethodGet},
		{"Post", func(ctx context.Context) (*http.Response, error) { return s.Post(ctx) }, http.MethodPost},
		{"Put", func(ctx context.Context) (*http.Response, error) { return s.Put(ctx) }, http.MethodPut},
		{"Patch", func(ctx context.Context) (*http.Response, error) { return s.Patch(ctx) }, http.MethodPatch},
		{"Delete", func(ctx context.Context) (*http.Response, error) { return s.Delete(ctx) }, http.MethodDelete},
		{"Options", func(ctx context.Context) (*http.Response, error) { return s.Options(ctx) }, http.MethodOptions},
		{"Head", func(ctx context.Context) (*http.Response, error) { return s.Head(ctx) }, http.MethodHead},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := tc.call(context.Background())
			if err != nil {
				t.Fatalf("%s failed: %v", tc.name, err)
			}
			resp.Body.Close()

			if recorded.method != tc.method {
				t.Errorf("Expected method %s, got %s", tc.method, recorded.method)
			}
			if recorded.host != expectedHost {
				t.Errorf("Expected host %s, got %s", expectedHost, recorded.host)
			}
		})
	}
}

func TestSession_CallDispatchesVerbs(t *testing.T) {
	var method string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := New(server.URL)

	resp, err := s.Call(context.Background(), "put")
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	resp.Body.Close()

	if method != http.MethodPut {
		t.Errorf("Expected PUT, got %s", method)
	}
}

func TestSession_CallUnknownCapability(t *testing.T) {
	s := New("https://api.example.com/graphql")

	_, err := s.Call(context.Background(), "stream")
	if err == nil {
		t.Fatal("Expected error for unknown capability, got nil")
	}
	if !errors.Is(err, errors.ErrUnknownCapability) {
		t.Errorf("Expected ErrUnknownCapability, got %v", err)
	}
	if !strings.Contains(err.Error(), "stream") {
		t.Errorf("Expected error to name the capability, got %q", err.Error())
	}
}

func TestSession_RequestOptionsAreForwarded(t *testing.T) {
	var recorded recordedRequest
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorded = recordedRequest{
			method: r.Method,
			header: r.Header.Clone(),
			query:  r.URL.Query(),
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := New(server.URL)
	resp, err := s.Post(context.Background(),
		WithJSONBody(map[string]string{"hello": "world"}),
		WithRequestHeader("X-Trace-Id", "t-1"),
		WithQueryParam("dry_run", "true"),
	)
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	resp.Body.Close()

	if got := recorded.header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %q", got)
	}
	if got := recorded.header.Get("X-Trace-Id"); got != "t-1" {
		t.Errorf("Expected X-Trace-Id 't-1', got %q", got)
	}
	if got := recorded.query.Get("dry_run"); got != "true" {
		t.Errorf("Expected dry_run=true, got %q", got)
	}
	if body["hello"] != "world" {
		t.Errorf("Expected body hello=world, got %v", body)
	}
}

func TestSession_AuthAppliesToEveryRequest(t *testing.T) {
	var authHeaders []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := New(server.URL)
	s.SetAuth(auth.NewTokenAuth("sometoken"))

	resp, err := s.Get(context.Background())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	resp.Body.Close()

	resp, err = s.Query(context.Background(), "query { greet }")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	resp.Body.Close()

	if len(authHeaders) != 2 {
		t.Fatalf("Expected 2 requests, got %d", len(authHeaders))
	}
	for i, header := range authHeaders {
		if header != "Token sometoken" {
			t.Errorf("Request %d: expected Authorization 'Token sometoken', got %q", i, header)
		}
	}
}

func TestSession_AuthSlotIsMutable(t *testing.T) {
	s := New("https://api.example.com/graphql")

	if s.Auth() != nil {
		t.Error("Expected no auth handler on a fresh session")
	}

	bearer := auth.NewBearerAuth("tok")
	s.SetAuth(bearer)
	if s.Auth() != auth.Handler(bearer) {
		t.Error("Expected the auth slot to return the handler that was set")
	}

	s.SetAuth(nil)
	if s.Auth() != nil {
		t.Error("Expected the auth slot to be cleared")
	}
}

func TestSession_QuerySendsJSON(t *testing.T) {
	queryString := `query hello($name: String!) {
    greet(name: $name) {
        response
    }
}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %q", got)
		}
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("Failed to decode payload: %v", err)
		}
		if payload["query"] != queryString {
			t.Errorf("Expected query %q, got %q", queryString, payload["query"])
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := New(server.URL)
	resp, err := s.Query(context.Background(), queryString)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	resp.Body.Close()
}

func TestSession_QueryUploadsFiles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("Expected a multipart request: %v", err)
			return
		}

		var operations map[string]interface{}
		if err := json.Unmarshal([]byte(r.FormValue("operations")), &operations); err != nil {
			t.Errorf("Failed to decode operations: %v", err)
		}
		if !strings.Contains(operations["query"].(string), "uploadWeatherData") {
			t.Errorf("Expected query in operations, got %v", operations["query"])
		}

		var fileMap map[string][]string
		if err := json.Unmarshal([]byte(r.FormValue("map")), &fileMap); err != nil {
			t.Errorf("Failed to decode map: %v", err)
		}
		if len(fileMap["0"]) != 1 || fileMap["0"][0] != "variables.data" {
			t.Errorf("Expected map 0 -> [variables.data], got %v", fileMap)
		}

		file, header, err := r.FormFile("0")
		if err != nil {
			t.Errorf("Expected file part '0': %v", err)
			return
		}
		defer file.Close()
		if header.Filename != "weather.csv" {
			t.Errorf("Expected filename weather.csv, got %q", header.Filename)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := New(server.URL)
	resp, err := s.Query(context.Background(),
		`mutation uploadWeatherData($town: String, $data: Upload) { uploadWeatherData(town: $town, data: $data) { ok } }`,
		graphql.WithVariables(map[string]interface{}{"town": "Sutherland", "data": nil}),
		graphql.WithFileMap(map[string][]string{"0": {"variables.data"}}),
		graphql.WithFile("0", graphql.FileFromString("weather.csv", "date,temp\n2026-08-29,18", "text/csv")),
	)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	resp.Body.Close()
}

func TestSession_QueryValidationFailsBeforeSending(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := New(server.URL)
	_, err := s.Query(context.Background(), "some query",
		graphql.WithFileMap(map[string][]string{"0": {"variables.message"}}),
	)
	if !errors.Is(err, errors.ErrInvalidArguments) {
		t.Errorf("Expected ErrInvalidArguments, got %v", err)
	}
	if requests != 0 {
		t.Errorf("Expected no network request on validation failure, got %d", requests)
	}
}

func TestSession_SessionHeadersAreSent(t *testing.T) {
	var recorded http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorded = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := New(server.URL, WithHeader("X-Client", "gqlsession"))
	resp, err := s.Query(context.Background(), "query { greet }")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	resp.Body.Close()

	if got := recorded.Get("X-Client"); got != "gqlsession" {
		t.Errorf("Expected X-Client header 'gqlsession', got %q", got)
	}
	// The builder owns the content type; session headers must not clobber it.
	if got := recorded.Get("Content-Type"); got != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %q", got)
	}
}

func TestFromConfig(t *testing.T) {
	t.Run("WithBearerAuth", func(t *testing.T) {
		var recorded http.Header
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorded = r.Header.Clone()
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		cfg := &config.Session{
			Endpoint: server.URL,
			Headers:  map[string]string{"X-Client": "gqlsession"},
			Auth: &config.Auth{
				Type:   config.AuthTypeBearer,
				Bearer: &config.BearerAuth{Token: "cfg-token"},
			},
		}

		s, err := FromConfig(cfg)
		if err != nil {
			t.Fatalf("FromConfig failed: %v", err)
		}
		if s.URI() != server.URL {
			t.Errorf("Expected bound URI %s, got %s", server.URL, s.URI())
		}

		resp, err := s.Get(context.Background())
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		resp.Body.Close()

		if got := recorded.Get("Authorization"); got != "Bearer cfg-token" {
			t.Errorf("Expected Authorization 'Bearer cfg-token', got %q", got)
		}
		if got := recorded.Get("X-Client"); got != "gqlsession" {
			t.Errorf("Expected X-Client 'gqlsession', got %q", got)
		}
	})

	t.Run("UnsupportedAuthType", func(t *testing.T) {
		cfg := &config.Session{
			Endpoint: "https://api.example.com/graphql",
			Auth:     &config.Auth{Type: "kerberos"},
		}

		_, err := FromConfig(cfg)
		if !errors.Is(err, errors.ErrConfiguration) {
			t.Errorf("Expected ErrConfiguration, got %v", err)
		}
	})
}
