// Package tools maps named tool invocations onto Gong API requests.
package tools

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// BodyMode selects how the request body is built from the arguments.
type BodyMode int

const (
	// BodyNone sends no body.
	BodyNone BodyMode = iota
	// BodyArgs sends the whole argument object.
	BodyArgs
	// BodyFields sends an object holding the listed fields that are present.
	BodyFields
	// BodyField sends the value of a single argument as the body.
	BodyField
	// BodyMultipart uploads the file named by a single argument.
	BodyMultipart
)

func (m BodyMode) String() string {
	switch m {
	case BodyNone:
		return "none"
	case BodyArgs:
		return "args"
	case BodyFields:
		return "fields"
	case BodyField:
		return "field"
	case BodyMultipart:
		return "multipart"
	default:
		return fmt.Sprintf("BodyMode(%d)", int(m))
	}
}

// allowedMethods is the whitelist of HTTP methods for tool definitions.
var allowedMethods = map[string]bool{
	http.MethodGet: true, http.MethodPost: true, http.MethodPut: true, http.MethodPatch: true, http.MethodDelete: true,
}

// Definition is one tool: its schema and the recipe for the upstream request.
type Definition struct {
	Name        string
	Description string
	Method      string
	// Path may hold {param} placeholders filled from the arguments.
	Path string
	// Query lists the arguments forwarded as query parameters.
	Query []string
	Body  BodyMode
	// BodyFields lists the body arguments for BodyFields, or the single
	// argument for BodyField and BodyMultipart.
	BodyFields []string
	// Params declares the input schema properties.
	Params []mcp.ToolOption
}

// pathParams returns the placeholder names in d.Path in order.
func (d Definition) pathParams() []string {
	var names []string
	rest := d.Path
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			return names
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return names
		}
		names = append(names, rest[start+1:start+end])
		rest = rest[start+end+1:]
	}
}

// validate checks the recipe is internally consistent.
func (d Definition) validate() error {
	if d.Name == "" {
		return fmt.Errorf("tool has empty name")
	}
	if !allowedMethods[strings.ToUpper(d.Method)] {
		return fmt.Errorf("tool %q has unsupported method %q", d.Name, d.Method)
	}
	if !strings.HasPrefix(d.Path, "/") {
		return fmt.Errorf("tool %q has invalid path %q (must start with /)", d.Name, d.Path)
	}
	if strings.Contains(d.Path, "..") {
		return fmt.Errorf("tool %q has invalid path %q (contains ..)", d.Name, d.Path)
	}
	for _, p := range d.pathParams() {
		if p == "" {
			return fmt.Errorf("tool %q has empty path placeholder", d.Name)
		}
	}
	switch d.Body {
	case BodyNone, BodyArgs:
	case BodyFields:
		if len(d.BodyFields) == 0 {
			return fmt.Errorf("tool %q uses body fields but lists none", d.Name)
		}
	case BodyField, BodyMultipart:
		if len(d.BodyFields) != 1 {
			return fmt.Errorf("tool %q body mode %s needs exactly one field", d.Name, d.Body)
		}
	default:
		return fmt.Errorf("tool %q has unknown body mode %s", d.Name, d.Body)
	}
	return nil
}

// Tool builds the mcp-go tool advertised for d.
func (d Definition) Tool() mcp.Tool {
	opts := append([]mcp.ToolOption{mcp.WithDescription(d.Description)}, d.Params...)
	return mcp.NewTool(d.Name, opts...)
}
