package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/bobmcallan/gong-mcp/internal/gong"
)

// normalizeArgs converts caller-supplied arguments into a JSON object with
// json.Number numerics. nil means an empty argument object.
func normalizeArgs(tool string, args any) (map[string]any, error) {
	if args == nil {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, &ValidationError{Tool: tool, Fields: []FieldError{{Reason: "arguments are not valid JSON: " + err.Error()}}}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &ValidationError{Tool: tool, Fields: []FieldError{{Reason: "arguments are not valid JSON: " + err.Error()}}}
	}
	switch obj := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return obj, nil
	default:
		return nil, &ValidationError{Tool: tool, Fields: []FieldError{{Reason: "arguments must be an object"}}}
	}
}

// lookup returns the argument value, treating JSON null as absent.
func lookup(args map[string]any, name string) (any, bool) {
	v, ok := args[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// scalarString renders a scalar argument the way it appears in a URL.
func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}

// buildRequest applies the definition's recipe to validated arguments.
func buildRequest(def Definition, args map[string]any) (gong.Request, error) {
	req := gong.Request{Method: strings.ToUpper(def.Method)}

	path := def.Path
	for _, name := range def.pathParams() {
		v, ok := lookup(args, name)
		if !ok {
			return req, &ValidationError{Tool: def.Name, Fields: []FieldError{{Field: name, Reason: "missing path parameter"}}}
		}
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(scalarString(v)))
	}
	req.Path = path

	query := url.Values{}
	for _, name := range def.Query {
		v, ok := lookup(args, name)
		if !ok {
			continue
		}
		if items, isList := v.([]any); isList {
			for _, item := range items {
				query.Add(name, scalarString(item))
			}
			continue
		}
		query.Set(name, scalarString(v))
	}
	if len(query) > 0 {
		req.Query = query
	}

	switch def.Body {
	case BodyArgs:
		req.Body = args
	case BodyFields:
		body := make(map[string]any, len(def.BodyFields))
		for _, name := range def.BodyFields {
			if v, ok := lookup(args, name); ok {
				body[name] = v
			}
		}
		req.Body = body
	case BodyField:
		if v, ok := lookup(args, def.BodyFields[0]); ok {
			req.Body = v
		}
	case BodyMultipart:
		field := def.BodyFields[0]
		v, ok := lookup(args, field)
		if !ok {
			return req, &ValidationError{Tool: def.Name, Fields: []FieldError{{Field: field, Reason: "missing file path"}}}
		}
		req.Multipart = &gong.Multipart{Field: field, FilePath: scalarString(v)}
	}

	return req, nil
}
