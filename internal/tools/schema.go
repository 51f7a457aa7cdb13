package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Format sets the JSON Schema "format" keyword (date-time, email).
func Format(format string) mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["format"] = format
	}
}

// Integer narrows a number property to whole numbers.
func Integer() mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["type"] = "integer"
	}
}

// FieldError is one schema violation.
type FieldError struct {
	// Field is the dotted argument path, empty for the argument object itself.
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (f FieldError) String() string {
	if f.Field == "" {
		return f.Reason
	}
	return f.Field + ": " + f.Reason
}

// ValidationError reports arguments that do not satisfy a tool's schema.
type ValidationError struct {
	Tool   string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, strings.Join(parts, "; "))
}

// compileSchema compiles the input schema advertised by tool. The decoded
// schema document is returned alongside for pruneArgs.
func compileSchema(tool mcp.Tool) (*jsonschema.Schema, map[string]any, error) {
	raw, err := json.Marshal(tool.InputSchema)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal schema for %s: %w", tool.Name, err)
	}
	var shape map[string]any
	if err := json.Unmarshal(raw, &shape); err != nil {
		return nil, nil, fmt.Errorf("failed to decode schema for %s: %w", tool.Name, err)
	}

	url := "mem://tools/" + tool.Name + ".json"
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft7
	c.AssertFormat = true
	if err := c.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, nil, fmt.Errorf("failed to load schema for %s: %w", tool.Name, err)
	}
	schema, err := c.Compile(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compile schema for %s: %w", tool.Name, err)
	}
	return schema, shape, nil
}

// pruneArgs drops object keys that schema does not declare, descending into
// nested objects and array items. Objects whose schema lists no properties
// are free-form and kept whole.
func pruneArgs(value any, schema map[string]any) any {
	switch v := value.(type) {
	case map[string]any:
		props, ok := schema["properties"].(map[string]any)
		if !ok {
			return v
		}
		out := make(map[string]any, len(v))
		for key, val := range v {
			sub, declared := props[key].(map[string]any)
			if !declared {
				continue
			}
			out[key] = pruneArgs(val, sub)
		}
		return out
	case []any:
		items, ok := schema["items"].(map[string]any)
		if !ok {
			return v
		}
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = pruneArgs(val, items)
		}
		return out
	}
	return value
}

// validateArgs checks args against schema and flattens any failure into
// field-level errors.
func validateArgs(tool string, schema *jsonschema.Schema, args map[string]any) error {
	err := schema.Validate(args)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return &ValidationError{Tool: tool, Fields: []FieldError{{Reason: err.Error()}}}
	}

	var fields []FieldError
	collectFieldErrors(verr, &fields)
	if len(fields) == 0 {
		fields = append(fields, FieldError{Field: fieldPath(verr.InstanceLocation), Reason: verr.Message})
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return &ValidationError{Tool: tool, Fields: fields}
}

// collectFieldErrors appends the leaf causes of e.
func collectFieldErrors(e *jsonschema.ValidationError, out *[]FieldError) {
	if len(e.Causes) == 0 {
		if missing := missingProperties(e); len(missing) > 0 {
			parent := fieldPath(e.InstanceLocation)
			for _, name := range missing {
				if parent != "" {
					name = parent + "." + name
				}
				*out = append(*out, FieldError{Field: name, Reason: "required"})
			}
			return
		}
		*out = append(*out, FieldError{Field: fieldPath(e.InstanceLocation), Reason: e.Message})
		return
	}
	for _, cause := range e.Causes {
		collectFieldErrors(cause, out)
	}
}

// missingProperties extracts property names from a "required" keyword
// failure, whose message reads: missing properties: "a", "b".
func missingProperties(e *jsonschema.ValidationError) []string {
	if !strings.HasSuffix(e.KeywordLocation, "/required") {
		return nil
	}
	_, list, ok := strings.Cut(e.Message, ":")
	if !ok {
		return nil
	}
	var names []string
	for _, item := range strings.Split(list, ",") {
		name := strings.Trim(strings.TrimSpace(item), `"'`)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// fieldPath turns a JSON pointer ("/filter/fromDate") into "filter.fromDate".
func fieldPath(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return ""
	}
	segments := strings.Split(pointer, "/")
	for i, s := range segments {
		s = strings.ReplaceAll(s, "~1", "/")
		segments[i] = strings.ReplaceAll(s, "~0", "~")
	}
	return strings.Join(segments, ".")
}
