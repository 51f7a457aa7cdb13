package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bobmcallan/gong-mcp/internal/gong"
	"github.com/mark3labs/mcp-go/mcp"
)

// errorPrefix starts every failure envelope.
const errorPrefix = "Error calling Gong API: "

// textResult wraps text in a single-content success result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
	}
}

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(message)},
		IsError: true,
	}
}

// successResult renders an upstream body as two-space indented JSON.
// Bodies that are not JSON are rendered as a JSON string.
func successResult(body []byte) *mcp.CallToolResult {
	var out bytes.Buffer
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && json.Indent(&out, trimmed, "", "  ") == nil {
		return textResult(out.String())
	}
	quoted, _ := json.Marshal(string(body))
	return textResult(string(quoted))
}

// failureResult renders err as the uniform failure envelope. Upstream
// errors carry the status code and the raw response body.
func failureResult(err error) *mcp.CallToolResult {
	text := errorPrefix + err.Error()
	var apiErr *gong.APIError
	if errors.As(err, &apiErr) {
		text += fmt.Sprintf("\nStatus: %d\nDetails: %s", apiErr.StatusCode, apiErr.Body)
	}
	return errorResult(text)
}
