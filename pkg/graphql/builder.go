// Package graphql builds GraphQL HTTP requests. A request without files is a
// plain JSON POST; a request with files is encoded per the GraphQL multipart
// request spec. The variables/file map/files triple is validated for
// consistency before any request is constructed.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
	"strings"

	"github.com/saltastro/gqlsession/pkg/auth"
	"github.com/saltastro/gqlsession/pkg/errors"
)

// Builder constructs GraphQL requests, either as a plain JSON POST or, when
// files are attached, as a multipart/form-data POST following the GraphQL
// multipart request spec (an "operations" field, a "map" field and one part
// per file keyed by its file map key).
type Builder struct {
	Endpoint    string
	Query       string
	Variables   map[string]interface{}
	FileMap     map[string][]string
	Files       map[string]FileEntry
	Headers     map[string]string
	AuthHandler auth.Handler
}

// NewBuilder sets up a GraphQL Builder.
// Endpoint is the full URL of your GraphQL endpoint.
func NewBuilder(endpoint, query string, opts ...BuilderOption) *Builder {
	b := &Builder{
		Endpoint: endpoint,
		Query:    query,
	}
	b.ApplyOptions(opts...)
	return b
}

// operationsBody is the "operations" JSON of an upload request. Variables are
// always serialized, null file slots included, as the protocol requires.
type operationsBody struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// Validate checks the variables/file map/files triple for consistency.
// It never touches the network; Build calls it before constructing a request.
func (b *Builder) Validate() error {
	if len(b.FileMap) > 0 {
		if len(b.Variables) == 0 || len(b.Files) == 0 {
			return errors.WrapError(
				fmt.Errorf("the file map requires the variables and files arguments"),
				errors.ErrInvalidArguments,
				"validate query",
			)
		}
	}
	if len(b.Files) > 0 {
		if len(b.Variables) == 0 || len(b.FileMap) == 0 {
			return errors.WrapError(
				fmt.Errorf("the files argument requires the variables and file map arguments"),
				errors.ErrInvalidArguments,
				"validate query",
			)
		}
	}

	// The file map and the files must describe the same upload keys.
	if len(b.FileMap) > 0 && len(b.Files) > 0 {
		if !sameKeys(b.FileMap, b.Files) {
			return errors.WrapError(
				fmt.Errorf("the file map and the files mapping must have the same keys"),
				errors.ErrInconsistentFileMap,
				"validate query",
			)
		}
	}

	// Each file entry must carry all three components.
	for _, key := range sortedFileKeys(b.Files) {
		if missing := b.Files[key].missing(); len(missing) > 0 {
			return errors.WrapError(
				fmt.Errorf("entry %q is missing the %s; every entry must be a 3-tuple with the filename, the content and the content type",
					key, strings.Join(missing, " and ")),
				errors.ErrMalformedFileEntry,
				"validate files",
			)
		}
	}

	return nil
}

// Build validates the query arguments and creates the *http.Request.
// A query without files becomes a JSON POST; a query with files becomes a
// multipart POST. All validation happens before any request is constructed.
func (b *Builder) Build(ctx context.Context) (*http.Request, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	var req *http.Request
	var err error
	if len(b.Files) == 0 {
		req, err = b.buildJSON(ctx)
	} else {
		req, err = b.buildMultipart(ctx)
	}
	if err != nil {
		return nil, err
	}

	for k, v := range b.Headers {
		req.Header.Set(k, v)
	}
	if b.AuthHandler != nil {
		if err := b.AuthHandler.ApplyAuth(req); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// buildJSON creates a plain {"query": ..., "variables": ...} POST.
// The variables key is omitted entirely when no variables were supplied.
func (b *Builder) buildJSON(ctx context.Context) (*http.Request, error) {
	body := map[string]interface{}{
		"query": b.Query,
	}
	if len(b.Variables) > 0 {
		body["variables"] = b.Variables
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.Endpoint, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// buildMultipart creates an upload POST per the GraphQL multipart request
// spec: text fields "operations" and "map", then one file part per key.
func (b *Builder) buildMultipart(ctx context.Context) (*http.Request, error) {
	operations, err := json.Marshal(operationsBody{
		Query:     b.Query,
		Variables: b.Variables,
	})
	if err != nil {
		return nil, err
	}
	fileMap, err := json.Marshal(b.FileMap)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("operations", string(operations)); err != nil {
		return nil, err
	}
	if err := writer.WriteField("map", string(fileMap)); err != nil {
		return nil, err
	}

	for _, key := range sortedFileKeys(b.Files) {
		entry := b.Files[key]
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, key, entry.Filename))
		header.Set("Content-Type", entry.ContentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, entry.Content); err != nil {
			return nil, fmt.Errorf("failed to write file part %q: %w", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.Endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req, nil
}

// sameKeys checks that the file map and the files have identical key sets
func sameKeys(fileMap map[string][]string, files map[string]FileEntry) bool {
	if len(fileMap) != len(files) {
		return false
	}
	for key := range fileMap {
		if _, ok := files[key]; !ok {
			return false
		}
	}
	return true
}

// sortedFileKeys returns the file keys in stable order so the parts of the
// multipart body are deterministic.
func sortedFileKeys(files map[string]FileEntry) []string {
	keys := make([]string, 0, len(files))
	for key := range files {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
