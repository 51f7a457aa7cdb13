package tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/bobmcallan/gong-mcp/internal/common"
	"github.com/bobmcallan/gong-mcp/internal/config"
	"github.com/bobmcallan/gong-mcp/internal/gong"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
)

// --- Helpers ---

func testLogger() *common.Logger {
	return common.NewSilentLogger()
}

// fakeDoer records every request and answers with a fixed body or error.
type fakeDoer struct {
	mu        sync.Mutex
	requests  []gong.Request
	body      []byte
	err       error
	panicWith any
}

func (f *fakeDoer) Do(_ context.Context, r gong.Request) ([]byte, error) {
	f.mu.Lock()
	f.requests = append(f.requests, r)
	f.mu.Unlock()
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.body, f.err
}

func (f *fakeDoer) calls() []gong.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gong.Request(nil), f.requests...)
}

// recorded is one request seen by the mock upstream.
type recorded struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   []byte
}

// mockGong starts an upstream that records requests and answers with status and body.
func mockGong(t *testing.T, status int, body string) (*httptest.Server, func() []recorded) {
	t.Helper()
	var mu sync.Mutex
	var seen []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen = append(seen, recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   data,
		})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), seen...)
	}
}

// gongTable builds the full catalog against baseURL with test credentials.
func gongTable(baseURL string) *Table {
	creds := config.Credentials{AccessKey: "key", AccessKeySecret: "secret"}
	client := gong.NewClient(baseURL, creds, testLogger())
	return NewGongTable(client, testLogger())
}

// resultText returns the text of the single content block.
func resultText(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	tc, ok := result.Content[0].(mcpgo.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return tc.Text
}

// decodeBody unmarshals a recorded JSON body into a map.
func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m), "body: %s", body)
	return m
}
