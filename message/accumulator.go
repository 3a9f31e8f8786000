package message

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ToolCallAccumulator assembles tool calls from fragmented stream deltas.
// Providers emit tool-call pieces keyed by a stream-local positional index;
// the name and argument text arrive as fragments that are appended, never
// overwritten, while the call id is set once. A call is only executable
// after Finalize, when the accumulated argument text is parsed exactly once.
type ToolCallAccumulator struct {
	calls map[int]*partialCall
}

type partialCall struct {
	id        string
	name      string
	arguments string
}

// NewToolCallAccumulator creates an empty accumulator for one round.
func NewToolCallAccumulator() *ToolCallAccumulator {
	return &ToolCallAccumulator{calls: make(map[int]*partialCall)}
}

// Add appends one streamed fragment. Empty fields are ignored so sparse
// deltas never clobber earlier fragments.
func (a *ToolCallAccumulator) Add(index int, id, name, arguments string) {
	call, ok := a.calls[index]
	if !ok {
		call = &partialCall{}
		a.calls[index] = call
	}
	if id != "" {
		call.id = id
	}
	if name != "" {
		call.name += name
	}
	if arguments != "" {
		call.arguments += arguments
	}
}

// Len returns how many calls have been observed this round.
func (a *ToolCallAccumulator) Len() int { return len(a.calls) }

// Finalize parses the accumulated calls in stream-index order. Argument text
// that fails to parse yields empty arguments rather than aborting the round;
// missing ids are synthesized from the round number and index so tool
// results can always be correlated.
func (a *ToolCallAccumulator) Finalize(round int) []ToolCall {
	if len(a.calls) == 0 {
		return nil
	}

	indexes := make([]int, 0, len(a.calls))
	for idx := range a.calls {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	calls := make([]ToolCall, 0, len(indexes))
	for _, idx := range indexes {
		partial := a.calls[idx]

		args := map[string]any{}
		if partial.arguments != "" {
			if err := json.Unmarshal([]byte(partial.arguments), &args); err != nil {
				args = map[string]any{}
			}
		}

		id := partial.id
		if id == "" {
			id = fmt.Sprintf("call_%d_%d", round, idx)
		}

		calls = append(calls, ToolCall{
			ID:           id,
			Name:         partial.name,
			Args:         args,
			RawArguments: partial.arguments,
		})
	}
	return calls
}
