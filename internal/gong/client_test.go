package gong

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/gong-mcp/internal/common"
	"github.com/bobmcallan/gong-mcp/internal/config"
)

func testLogger() *common.Logger {
	return common.NewSilentLogger()
}

func testCreds() config.Credentials {
	return config.Credentials{AccessKey: "key", AccessKeySecret: "secret"}
}

func TestClient_Get_Success(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/v2/calls/123" {
			t.Errorf("Expected /v2/calls/123, got %s", r.URL.Path)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("Expected empty query, got %s", r.URL.RawQuery)
		}
		body, _ := io.ReadAll(r.Body)
		if len(body) != 0 {
			t.Errorf("Expected empty body, got %s", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"123","title":"Demo"}`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, testCreds(), testLogger())
	body, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v2/calls/123"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(body) != `{"id":"123","title":"Demo"}` {
		t.Errorf("Unexpected body %s", body)
	}
}

func TestClient_Headers(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := "Basic " + base64.StdEncoding.EncodeToString([]byte("key:secret"))
		if got := r.Header.Get("Authorization"); got != want {
			t.Errorf("Expected Authorization %q, got %q", want, got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %q", got)
		}
		if got := r.Header.Get("X-Extra"); got != "yes" {
			t.Errorf("Expected X-Extra=yes, got %q", got)
		}
		w.Write([]byte(`{}`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, testCreds(), testLogger())
	header := http.Header{}
	header.Set("X-Extra", "yes")
	if _, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v2/users", Header: header}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestClient_NoCredentials_NoAuthorizationHeader(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Errorf("Expected no Authorization header, got %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{}`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, config.Credentials{}, testLogger())
	if client.Authorization() != "" {
		t.Errorf("Expected empty authorization, got %q", client.Authorization())
	}
	if _, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v2/users"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestClient_NoCredentials_LogsWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := common.NewLoggerWithOutput("info", &buf)

	NewClient("http://localhost:1", config.Credentials{}, logger)

	if !strings.Contains(buf.String(), "ACCESS_KEY") {
		t.Errorf("Expected startup warning naming ACCESS_KEY, got: %s", buf.String())
	}
}

func TestClient_Query(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("emailAddress") != "a@b.com" {
			t.Errorf("Expected emailAddress=a@b.com, got %q", q.Get("emailAddress"))
		}
		if ids := q["userIds"]; len(ids) != 2 || ids[0] != "u1" || ids[1] != "u2" {
			t.Errorf("Expected repeated userIds, got %v", ids)
		}
		w.Write([]byte(`{}`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, testCreds(), testLogger())
	query := url.Values{"emailAddress": {"a@b.com"}, "userIds": {"u1", "u2"}}
	if _, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v2/stats/interaction", Query: query}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestClient_Post_JSONBody(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		var req map[string]interface{}
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("Request body is not valid JSON: %v", err)
		}
		if req["title"] != "T" {
			t.Errorf("Expected title=T, got %v", req["title"])
		}
		w.Write([]byte(`{"callId":"9"}`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, testCreds(), testLogger())
	body, err := client.Do(context.Background(), Request{Method: http.MethodPost, Path: "/v2/calls", Body: map[string]any{"title": "T"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(string(body), `"callId"`) {
		t.Errorf("Unexpected body %s", body)
	}
}

func TestClient_Delete_NoBody(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("Expected DELETE, got %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		if len(body) != 0 {
			t.Errorf("Expected no body, got %s", body)
		}
		w.Write([]byte(`{"requestId":"r"}`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, testCreds(), testLogger())
	if _, err := client.Do(context.Background(), Request{Method: http.MethodDelete, Path: "/v2/data-privacy/erase-data-for-phone-number"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestClient_Multipart(t *testing.T) {
	mediaPath := filepath.Join(t.TempDir(), "call.mp3")
	if err := os.WriteFile(mediaPath, []byte("audio-bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("Expected PUT, got %s", r.Method)
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("Expected multipart content type, got %q", r.Header.Get("Content-Type"))
		}
		file, header, err := r.FormFile("mediaFile")
		if err != nil {
			t.Fatalf("Expected mediaFile part: %v", err)
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if string(data) != "audio-bytes" {
			t.Errorf("Unexpected file content %q", data)
		}
		if header.Filename != "call.mp3" {
			t.Errorf("Expected filename call.mp3, got %s", header.Filename)
		}
		w.Write([]byte(`{"url":"ok"}`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, testCreds(), testLogger())
	_, err := client.Do(context.Background(), Request{
		Method:    http.MethodPut,
		Path:      "/v2/calls/7/media",
		Multipart: &Multipart{Field: "mediaFile", FilePath: mediaPath},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestClient_Multipart_MissingFile(t *testing.T) {
	called := false
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, testCreds(), testLogger())
	_, err := client.Do(context.Background(), Request{
		Method:    http.MethodPut,
		Path:      "/v2/calls/7/media",
		Multipart: &Multipart{Field: "mediaFile", FilePath: filepath.Join(t.TempDir(), "missing.mp3")},
	})
	if err == nil {
		t.Fatal("Expected error for missing media file")
	}
	if called {
		t.Error("Expected no request when the media file cannot be read")
	}
}

func TestClient_ServerError_APIError(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, testCreds(), testLogger())
	_, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v2/calls/missing"})
	if err == nil {
		t.Fatal("Expected error for 404 response")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", apiErr.StatusCode)
	}
	if string(apiErr.Body) != `{"error":"not found"}` {
		t.Errorf("Unexpected error body %s", apiErr.Body)
	}
	if err.Error() != "Request failed with status code 404" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if StatusCode(err) != 404 {
		t.Errorf("Expected StatusCode 404, got %d", StatusCode(err))
	}
}

func TestClient_ServerUnavailable_TransportError(t *testing.T) {
	client := NewClient("http://localhost:1", testCreds(), testLogger())
	_, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v2/users"})
	if err == nil {
		t.Fatal("Expected error when server is unavailable")
	}

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected *TransportError, got %T", err)
	}
	if StatusCode(err) != 0 {
		t.Errorf("Expected no status code, got %d", StatusCode(err))
	}
}

func TestClient_Timeout_TransportError(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, testCreds(), testLogger(), WithTimeout(20*time.Millisecond))
	_, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v2/users"})

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected *TransportError for timeout, got %T (%v)", err, err)
	}
}

func TestClient_URL(t *testing.T) {
	client := NewClient("https://api.gong.io/", testCreds(), testLogger())
	got := client.URL(Request{Path: "/v2/calls", Query: url.Values{"cursor": {"abc"}}})
	if got != "https://api.gong.io/v2/calls?cursor=abc" {
		t.Errorf("Unexpected URL %s", got)
	}
	if client.BaseURL() != "https://api.gong.io" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.BaseURL())
	}
}

func TestClient_LogsRequestWithMaskedAuthorization(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer mockServer.Close()

	var buf bytes.Buffer
	logger := common.NewLoggerWithOutput("info", &buf)
	client := NewClient(mockServer.URL, testCreds(), logger)

	_, err := client.Do(context.Background(), Request{Method: http.MethodPost, Path: "/v2/calls", Body: map[string]any{"title": "T"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Request: POST "+mockServer.URL+"/v2/calls") {
		t.Errorf("Expected request line in log, got: %s", output)
	}
	if !strings.Contains(output, "Basic ***") {
		t.Errorf("Expected masked authorization in log, got: %s", output)
	}
	secret := base64.StdEncoding.EncodeToString([]byte("key:secret"))
	if strings.Contains(output, secret) {
		t.Error("Credentials leaked into diagnostic log")
	}
}
