package message

import (
	"testing"
)

func TestAccumulatorFragmentAssembly(t *testing.T) {
	acc := NewToolCallAccumulator()

	// Typical stream: id and name arrive first, arguments in pieces.
	acc.Add(0, "call_abc", "search", "")
	acc.Add(0, "", "_text", `{"que`)
	acc.Add(0, "", "", `ry": "routing"}`)

	calls := acc.Finalize(0)
	if len(calls) != 1 {
		t.Fatalf("Expected 1 call, got %d", len(calls))
	}
	call := calls[0]
	if call.ID != "call_abc" {
		t.Errorf("Expected id call_abc, got %s", call.ID)
	}
	if call.Name != "search_text" {
		t.Errorf("Expected appended name search_text, got %s", call.Name)
	}
	if call.Args["query"] != "routing" {
		t.Errorf("Expected parsed args, got %v", call.Args)
	}
	if call.RawArguments != `{"query": "routing"}` {
		t.Errorf("RawArguments = %q", call.RawArguments)
	}
}

func TestAccumulatorEmptyFragmentsIgnored(t *testing.T) {
	acc := NewToolCallAccumulator()
	acc.Add(0, "call_1", "get_paper_structure", "{}")
	acc.Add(0, "", "", "")

	calls := acc.Finalize(0)
	if calls[0].ID != "call_1" || calls[0].Name != "get_paper_structure" {
		t.Errorf("Empty fragments must not clobber earlier state: %+v", calls[0])
	}
}

func TestAccumulatorMalformedArguments(t *testing.T) {
	acc := NewToolCallAccumulator()
	acc.Add(0, "call_1", "search_text", `{"query": unterminated`)

	calls := acc.Finalize(0)
	if len(calls) != 1 {
		t.Fatalf("Malformed arguments must not drop the call, got %d calls", len(calls))
	}
	if len(calls[0].Args) != 0 {
		t.Errorf("Expected empty args on parse failure, got %v", calls[0].Args)
	}
}

func TestAccumulatorSynthesizedIDs(t *testing.T) {
	acc := NewToolCallAccumulator()
	acc.Add(2, "", "locate_quote", "{}")
	acc.Add(0, "", "search_text", "{}")

	calls := acc.Finalize(7)
	if len(calls) != 2 {
		t.Fatalf("Expected 2 calls, got %d", len(calls))
	}
	// Index order, not arrival order.
	if calls[0].Name != "search_text" || calls[1].Name != "locate_quote" {
		t.Errorf("Expected stream-index ordering, got %s then %s", calls[0].Name, calls[1].Name)
	}
	if calls[0].ID != "call_7_0" || calls[1].ID != "call_7_2" {
		t.Errorf("Expected synthesized ids call_7_0 and call_7_2, got %s and %s",
			calls[0].ID, calls[1].ID)
	}
}

func TestAccumulatorEmpty(t *testing.T) {
	acc := NewToolCallAccumulator()
	if acc.Len() != 0 {
		t.Errorf("Expected empty accumulator, got %d", acc.Len())
	}
	if calls := acc.Finalize(0); calls != nil {
		t.Errorf("Expected nil calls, got %v", calls)
	}
}
