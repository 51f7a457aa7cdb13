package gong

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
)

// Request describes one call against the Gong API. It is built fresh for
// every tool invocation.
type Request struct {
	Method string
	// Path is relative to the base URL with path parameters already substituted.
	Path  string
	Query url.Values
	// Body is marshalled as JSON when non-nil.
	Body      any
	Multipart *Multipart
	Header    http.Header
}

// Multipart describes a single-file multipart/form-data upload.
type Multipart struct {
	Field    string
	FilePath string
}

// encodedBody is the serialised form of a request body plus what to log for it.
type encodedBody struct {
	reader      io.Reader
	contentType string
	summary     string
}

// encode serialises the request body. A Request with neither Body nor
// Multipart produces a nil reader.
func (r Request) encode() (*encodedBody, error) {
	if r.Multipart != nil {
		return r.Multipart.encode()
	}
	if r.Body == nil {
		return &encodedBody{summary: "undefined"}, nil
	}

	data, err := json.Marshal(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	summary := string(data)
	var pretty bytes.Buffer
	if json.Indent(&pretty, data, "", "  ") == nil {
		summary = pretty.String()
	}
	return &encodedBody{
		reader:      bytes.NewReader(data),
		contentType: "application/json",
		summary:     summary,
	}, nil
}

// encode reads the file into a multipart form. Media files are uploaded in one
// request so the whole form is buffered to get a definite Content-Length.
func (m *Multipart) encode() (*encodedBody, error) {
	f, err := os.Open(m.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", m.Field, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(m.Field, filepath.Base(m.FilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	n, err := io.Copy(part, f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", m.Field, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart form: %w", err)
	}

	return &encodedBody{
		reader:      &buf,
		contentType: w.FormDataContentType(),
		summary:     fmt.Sprintf("multipart/form-data %s=%s (%d bytes)", m.Field, filepath.Base(m.FilePath), n),
	}, nil
}
