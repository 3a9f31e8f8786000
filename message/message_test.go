package message

import (
	"testing"
)

func TestNewToolResponseMessage(t *testing.T) {
	msg := NewToolResponseMessage("call_1", `{"page": 2}`)
	if msg.Role != RoleTool {
		t.Errorf("Expected role tool, got %s", msg.Role)
	}
	if msg.ToolID != "call_1" {
		t.Errorf("Expected tool id call_1, got %s", msg.ToolID)
	}
	if msg.Content != `{"page": 2}` {
		t.Errorf("Content = %q", msg.Content)
	}
}

func TestNewToolCallMessage(t *testing.T) {
	calls := []ToolCall{{ID: "call_1", Name: "search_text", Args: map[string]any{"query": "q"}}}
	msg := NewToolCallMessage("partial text", calls)
	if msg.Role != RoleAssistant {
		t.Errorf("Expected role assistant, got %s", msg.Role)
	}
	if len(msg.ToolCalls) != 1 || msg.ToolCalls[0].Name != "search_text" {
		t.Errorf("ToolCalls = %+v", msg.ToolCalls)
	}
}

func TestCloneIsDeep(t *testing.T) {
	original := NewToolCallMessage("text", []ToolCall{
		{ID: "call_1", Name: "search_text", Args: map[string]any{"query": "before"}},
	})

	cloned := Clone(original)
	cloned.ToolCalls[0].Args["query"] = "after"
	cloned.Content = "changed"

	if original.ToolCalls[0].Args["query"] != "before" {
		t.Error("Clone shares tool-call args with the original")
	}
	if original.Content != "text" {
		t.Error("Clone shares content with the original")
	}
}

func TestCloneNil(t *testing.T) {
	if Clone(nil) != nil {
		t.Error("Expected nil clone of nil message")
	}
	if CloneMessages(nil) != nil {
		t.Error("Expected nil clone of empty slice")
	}
}
