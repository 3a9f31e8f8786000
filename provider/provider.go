// Package provider defines the model/completion contract the orchestrator is
// written against. Clients are explicitly constructed and injected, never
// read from process-wide singletons, so the loop can be tested with fakes.
package provider

import (
	"context"
	"iter"

	"github.com/sweetpotato0/deepread/message"
	"github.com/sweetpotato0/deepread/tool"
)

// FinishReason terminates a model stream.
type FinishReason string

const (
	FinishNone      FinishReason = ""
	FinishStop      FinishReason = "stop"
	FinishToolCalls FinishReason = "tool_calls"
	FinishLength    FinishReason = "length"
)

// ToolCallDelta is one streamed fragment of a tool-call request. Arguments
// arrive as raw text pieces; parsing is the accumulator's job, not the
// provider's.
type ToolCallDelta struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}

// Chunk is one ordered piece of a model stream.
type Chunk struct {
	Text         string
	Reasoning    string
	ToolCalls    []ToolCallDelta
	FinishReason FinishReason
}

// Request bundles the inputs of one completion stream.
type Request struct {
	Messages    []*message.Message
	Tools       []tool.Schema
	Temperature float64
	MaxTokens   int64
}

// Client streams model completions. The sequence ends after the terminal
// chunk or yields a single error; consumers stop iterating to cancel.
type Client interface {
	Stream(ctx context.Context, req *Request) iter.Seq2[*Chunk, error]
}
