package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sweetpotato0/deepread/pkg/logging"
)

// Dispatcher resolves tool names to handlers and normalizes every failure
// mode into a {"error": ...} payload. Dispatch never returns a Go error:
// the orchestrator treats each call as infallible and the model sees the
// error text instead, so it can retry with corrected arguments.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   logging.WithComponent("dispatcher"),
	}
}

// Registry exposes the underlying registry, mainly for schema extraction.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Dispatch executes a tool by name and returns its JSON-serialized result.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) string {
	t, ok := d.registry.Get(name)
	if !ok {
		return errPayload(fmt.Sprintf("Unknown tool: %s", name))
	}

	result, err := d.invoke(ctx, t, args)
	if err != nil {
		d.logger.Warn("tool failed", "tool", name, "error", err)
		return errPayload(fmt.Sprintf("Tool '%s' failed: %v", name, err))
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return errPayload(fmt.Sprintf("Tool '%s' failed: %v", name, err))
	}
	return string(raw)
}

// invoke isolates handler panics so a backend bug degrades into an error
// payload instead of tearing down the generation session.
func (d *Dispatcher) invoke(ctx context.Context, t *Tool, args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	if t.Handler == nil {
		return nil, fmt.Errorf("no handler")
	}
	if args == nil {
		args = map[string]any{}
	}
	return t.Handler(ctx, args)
}

func errPayload(msg string) string {
	raw, err := json.Marshal(map[string]string{"error": msg})
	if err != nil {
		return `{"error":"internal"}`
	}
	return string(raw)
}

// StringArg extracts a string argument, tolerating absence.
func StringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

// IntArg extracts an integer argument. JSON numbers decode as float64, so
// both forms are accepted.
func IntArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return def
}
