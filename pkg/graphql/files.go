package graphql

import (
	"io"
	"strings"
)

// FileEntry describes one file to upload alongside a GraphQL operation. It
// carries the three components the multipart request spec needs for a file
// part: the filename, the content and the content type. An entry with any
// component missing is rejected during validation.
type FileEntry struct {
	Filename    string
	Content     io.Reader
	ContentType string
}

// NewFileEntry creates a file entry from a reader.
func NewFileEntry(filename string, content io.Reader, contentType string) FileEntry {
	return FileEntry{
		Filename:    filename,
		Content:     content,
		ContentType: contentType,
	}
}

// FileFromString creates a file entry holding in-memory string content.
func FileFromString(filename, content, contentType string) FileEntry {
	return FileEntry{
		Filename:    filename,
		Content:     strings.NewReader(content),
		ContentType: contentType,
	}
}

// missing reports which of the three components are absent.
func (f FileEntry) missing() []string {
	var parts []string
	if f.Filename == "" {
		parts = append(parts, "filename")
	}
	if f.Content == nil {
		parts = append(parts, "content")
	}
	if f.ContentType == "" {
		parts = append(parts, "content type")
	}
	return parts
}
