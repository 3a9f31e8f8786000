package tool

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestRegistryOrderAndDuplicates(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"b_tool", "a_tool", "c_tool"} {
		err := reg.Register(&Tool{Name: name, Handler: func(context.Context, map[string]any) (any, error) {
			return "ok", nil
		}})
		if err != nil {
			t.Fatalf("Register(%s) error: %v", name, err)
		}
	}

	if err := reg.Register(&Tool{Name: "a_tool"}); err == nil {
		t.Error("Expected duplicate registration error")
	}
	if err := reg.Register(&Tool{}); err == nil {
		t.Error("Expected empty-name registration error")
	}

	schemas := reg.Schemas()
	if len(schemas) != 3 {
		t.Fatalf("Expected 3 schemas, got %d", len(schemas))
	}
	if schemas[0].Name != "b_tool" || schemas[1].Name != "a_tool" {
		t.Errorf("Expected registration order, got %s then %s", schemas[0].Name, schemas[1].Name)
	}
}

func TestToSchema(t *testing.T) {
	tool := &Tool{
		Name:        "read_page_detail",
		Description: "Read one page",
		Parameters: []Parameter{
			{Name: "page_num", Type: "integer", Description: "1-based page", Required: true},
			{Name: "verbose", Type: "boolean", Description: "optional flag"},
		},
	}

	schema := tool.ToSchema()
	if schema.Parameters["type"] != "object" {
		t.Errorf("Expected object schema, got %v", schema.Parameters["type"])
	}
	props := schema.Parameters["properties"].(map[string]any)
	if _, ok := props["page_num"]; !ok {
		t.Error("Expected page_num property")
	}
	required := schema.Parameters["required"].([]string)
	if len(required) != 1 || required[0] != "page_num" {
		t.Errorf("Expected required [page_num], got %v", required)
	}
}

func decodeError(t *testing.T, payload string) string {
	t.Helper()
	var m map[string]string
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		t.Fatalf("Payload is not JSON: %q", payload)
	}
	return m["error"]
}

func TestDispatchUnknownTool(t *testing.T) {
	d := NewDispatcher(NewRegistry())
	msg := decodeError(t, d.Dispatch(context.Background(), "nope", nil))
	if msg != "Unknown tool: nope" {
		t.Errorf("Expected unknown-tool message, got %q", msg)
	}
}

func TestDispatchHandlerError(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&Tool{
		Name: "broken",
		Handler: func(context.Context, map[string]any) (any, error) {
			return nil, errors.New("backend closed")
		},
	})

	d := NewDispatcher(reg)
	msg := decodeError(t, d.Dispatch(context.Background(), "broken", nil))
	if !strings.Contains(msg, "Tool 'broken' failed") || !strings.Contains(msg, "backend closed") {
		t.Errorf("Expected normalized failure message, got %q", msg)
	}
}

func TestDispatchHandlerPanic(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&Tool{
		Name: "panics",
		Handler: func(context.Context, map[string]any) (any, error) {
			panic("index out of range")
		},
	})

	d := NewDispatcher(reg)
	msg := decodeError(t, d.Dispatch(context.Background(), "panics", nil))
	if !strings.Contains(msg, "Tool 'panics' failed") {
		t.Errorf("Panic must degrade to an error payload, got %q", msg)
	}
}

func TestDispatchSuccess(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&Tool{
		Name: "echo",
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{"query": args["query"]}, nil
		},
	})

	d := NewDispatcher(reg)
	out := d.Dispatch(context.Background(), "echo", map[string]any{"query": "hi"})

	var m map[string]any
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("Result is not JSON: %q", out)
	}
	if m["query"] != "hi" {
		t.Errorf("Expected echoed args, got %v", m)
	}
}

func TestArgHelpers(t *testing.T) {
	args := map[string]any{
		"s":     "text",
		"f":     float64(7),
		"i":     3,
		"num":   json.Number("12"),
		"wrong": []string{"x"},
	}

	if got := StringArg(args, "s"); got != "text" {
		t.Errorf("StringArg = %q", got)
	}
	if got := StringArg(args, "missing"); got != "" {
		t.Errorf("Expected empty string for missing key, got %q", got)
	}
	if got := IntArg(args, "f", -1); got != 7 {
		t.Errorf("IntArg float64 = %d", got)
	}
	if got := IntArg(args, "i", -1); got != 3 {
		t.Errorf("IntArg int = %d", got)
	}
	if got := IntArg(args, "num", -1); got != 12 {
		t.Errorf("IntArg json.Number = %d", got)
	}
	if got := IntArg(args, "wrong", -1); got != -1 {
		t.Errorf("Expected default for wrong type, got %d", got)
	}
}
