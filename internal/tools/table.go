package tools

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/bobmcallan/gong-mcp/internal/common"
	"github.com/bobmcallan/gong-mcp/internal/gong"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrUnknownTool is returned by Invoke for names that were never registered.
var ErrUnknownTool = errors.New("unknown tool")

// Doer sends one request to the Gong API. *gong.Client implements it.
type Doer interface {
	Do(ctx context.Context, r gong.Request) ([]byte, error)
}

type entry struct {
	def    Definition
	tool   mcp.Tool
	schema *jsonschema.Schema
	shape  map[string]any
}

// Table holds the registered tools and dispatches invocations. Tools are
// registered at startup; Invoke is safe for concurrent use.
type Table struct {
	client Doer
	logger *common.Logger

	mu      sync.RWMutex
	entries map[string]*entry
	order   []string
}

// NewTable creates an empty table sending requests through client.
func NewTable(client Doer, logger *common.Logger) *Table {
	return &Table{
		client:  client,
		logger:  logger,
		entries: make(map[string]*entry),
	}
}

// Register adds def. Duplicate names and inconsistent definitions are rejected.
func (t *Table) Register(def Definition) error {
	if err := def.validate(); err != nil {
		return err
	}
	tool := def.Tool()
	schema, shape, err := compileSchema(tool)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.entries[def.Name]; exists {
		return fmt.Errorf("tool %q is already registered", def.Name)
	}
	t.entries[def.Name] = &entry{def: def, tool: tool, schema: schema, shape: shape}
	t.order = append(t.order, def.Name)
	return nil
}

// MustRegister registers every definition and panics on the first failure.
func (t *Table) MustRegister(defs ...Definition) {
	for _, def := range defs {
		if err := t.Register(def); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the definition registered under name.
func (t *Table) Lookup(name string) (Definition, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[name]
	if !ok {
		return Definition{}, false
	}
	return e.def, true
}

// Definitions returns the registered definitions in registration order.
func (t *Table) Definitions() []Definition {
	t.mu.RLock()
	defer t.mu.RUnlock()
	defs := make([]Definition, 0, len(t.order))
	for _, name := range t.order {
		defs = append(defs, t.entries[name].def)
	}
	return defs
}

// Len returns the number of registered tools.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}

// Invoke validates args against the named tool's schema, performs the
// upstream request and returns the result envelope. Only an unknown name or
// a *ValidationError is returned as an error; upstream and transport
// failures come back as an envelope with IsError set.
func (t *Table) Invoke(ctx context.Context, name string, args any) (result *mcp.CallToolResult, err error) {
	t.mu.RLock()
	e, ok := t.entries[name]
	t.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	logger := t.logger.WithCorrelationId(uuid.NewString())

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("tool", name).Str("panic", fmt.Sprint(r)).Str("stack", string(debug.Stack())).Msg("tool handler panicked")
			result, err = errorResult(fmt.Sprintf("%sinternal error: %v", errorPrefix, r)), nil
		}
	}()

	normalized, err := normalizeArgs(name, args)
	if err != nil {
		return nil, err
	}
	if err := validateArgs(name, e.schema, normalized); err != nil {
		logger.Warn().Str("tool", name).Str("error", err.Error()).Msg("tool arguments rejected")
		return nil, err
	}
	normalized, _ = pruneArgs(normalized, e.shape).(map[string]any)

	req, err := buildRequest(e.def, normalized)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	body, err := t.client.Do(common.WithLogger(ctx, logger), req)
	if err != nil {
		logger.Error().
			Str("tool", name).
			Int("status", gong.StatusCode(err)).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Str("error", err.Error()).
			Msg("Error in " + name)
		return failureResult(err), nil
	}

	logger.Debug().Str("tool", name).Int("bytes", len(body)).Int64("duration_ms", time.Since(start).Milliseconds()).Msg("tool completed")
	return successResult(body), nil
}

// Handler returns the mcp-go handler for name.
func (t *Table) Handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return t.Invoke(ctx, name, r.GetArguments())
	}
}

// Install registers every tool on s. Returns the number of tools installed.
func (t *Table) Install(s *server.MCPServer) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, name := range t.order {
		s.AddTool(t.entries[name].tool, t.Handler(name))
	}
	return len(t.order)
}
