package graphql

import (
	"github.com/saltastro/gqlsession/pkg/auth"
)

// BuilderOption configures the Builder.
type BuilderOption func(*Builder)

// WithHeader adds a header to the GraphQL request.
func WithHeader(key, value string) BuilderOption {
	return func(b *Builder) {
		if b.Headers == nil {
			b.Headers = make(map[string]string)
		}
		b.Headers[key] = value
	}
}

// WithHeaders adds multiple headers to the GraphQL request.
func WithHeaders(headers map[string]string) BuilderOption {
	return func(b *Builder) {
		if b.Headers == nil {
			b.Headers = make(map[string]string)
		}
		for k, v := range headers {
			b.Headers[k] = v
		}
	}
}

// WithAuthHandler sets a custom auth handler.
func WithAuthHandler(h auth.Handler) BuilderOption {
	return func(b *Builder) {
		b.AuthHandler = h
	}
}

// WithVariable sets a single variable.
func WithVariable(key string, value interface{}) BuilderOption {
	return func(b *Builder) {
		if b.Variables == nil {
			b.Variables = make(map[string]interface{})
		}
		b.Variables[key] = value
	}
}

// WithVariables sets multiple variables.
func WithVariables(variables map[string]interface{}) BuilderOption {
	return func(b *Builder) {
		if b.Variables == nil {
			b.Variables = make(map[string]interface{})
		}
		for k, v := range variables {
			b.Variables[k] = v
		}
	}
}

// WithFileMap sets the file map: upload key to the operations paths it fills.
// Paths are always a sequence, even for a single path (e.g. "variables.file").
func WithFileMap(fileMap map[string][]string) BuilderOption {
	return func(b *Builder) {
		if b.FileMap == nil {
			b.FileMap = make(map[string][]string)
		}
		for k, v := range fileMap {
			b.FileMap[k] = v
		}
	}
}

// WithFile attaches a single file under the given upload key.
func WithFile(key string, entry FileEntry) BuilderOption {
	return func(b *Builder) {
		if b.Files == nil {
			b.Files = make(map[string]FileEntry)
		}
		b.Files[key] = entry
	}
}

// WithFiles attaches multiple files keyed by their file map keys.
func WithFiles(files map[string]FileEntry) BuilderOption {
	return func(b *Builder) {
		if b.Files == nil {
			b.Files = make(map[string]FileEntry)
		}
		for k, v := range files {
			b.Files[k] = v
		}
	}
}

// ApplyOptions applies BuilderOption functions in order.
func (b *Builder) ApplyOptions(opts ...BuilderOption) {
	for _, opt := range opts {
		opt(b)
	}
}
