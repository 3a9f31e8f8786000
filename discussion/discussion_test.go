package discussion

import (
	"context"
	"iter"
	"strings"
	"testing"

	"github.com/sweetpotato0/deepread/agent"
	"github.com/sweetpotato0/deepread/document"
	"github.com/sweetpotato0/deepread/provider"
	"github.com/sweetpotato0/deepread/store"
)

// fakeClient replays one scripted completion per call.
type fakeClient struct {
	replies  []string
	requests []*provider.Request
}

func (f *fakeClient) Stream(_ context.Context, req *provider.Request) iter.Seq2[*provider.Chunk, error] {
	f.requests = append(f.requests, req)
	reply := ""
	if n := len(f.requests) - 1; n < len(f.replies) {
		reply = f.replies[n]
	}
	return func(yield func(*provider.Chunk, error) bool) {
		if !yield(&provider.Chunk{Text: reply}, nil) {
			return
		}
		yield(&provider.Chunk{FinishReason: provider.FinishStop}, nil)
	}
}

func testPaper() *document.Paper {
	return &document.Paper{
		ID:       "p1",
		Title:    "Sparse Experts",
		FullText: "--- Page 1 ---\nThe router activates two experts per token in every layer.\n",
	}
}

func TestRunSequenceAndTranscript(t *testing.T) {
	client := &fakeClient{replies: []string{
		"What does routing mean here?",
		"Routing selects experts per token.",
		"How is the router trained?",
		"Jointly with the experts.",
		"## TLDR\nThe router activates two experts per token in every layer of the model.",
	}}
	reports := store.NewInMemory()
	r := New(client, WithRounds(2), WithStore(reports))

	var events []*agent.Event
	for ev, err := range r.Run(context.Background(), testPaper(), nil, "## TLDR\noriginal report", "en") {
		if err != nil {
			t.Fatalf("Run error: %v", err)
		}
		events = append(events, ev)
	}

	if len(client.requests) != 5 {
		t.Fatalf("Expected 5 completions (2 rounds + polish), got %d", len(client.requests))
	}

	var order []agent.EventType
	for _, ev := range events {
		if ev.Type == agent.EventReaderChunk || ev.Type == agent.EventWriterChunk ||
			ev.Type == agent.EventPolishChunk {
			continue
		}
		order = append(order, ev.Type)
	}
	want := []agent.EventType{
		agent.EventDiscussionStart,
		agent.EventDiscussionRound,
		agent.EventDiscussionRound,
		agent.EventDiscussionEnd,
		agent.EventPolishStart,
		agent.EventPolishEnd,
	}
	if len(order) != len(want) {
		t.Fatalf("Event order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Event %d = %s, want %s", i, order[i], want[i])
		}
	}

	turns := reports.Discussion("p1")
	if len(turns) != 2 {
		t.Fatalf("Expected 2 transcript turns, got %d", len(turns))
	}
	if turns[0].Question != "What does routing mean here?" ||
		turns[0].Answer != "Routing selects experts per token." {
		t.Errorf("Turn 1 = %+v", turns[0])
	}
	if turns[1].Round != 2 {
		t.Errorf("Turn 2 round = %d", turns[1].Round)
	}

	// The polished report is post-processed and saved.
	final, ok := reports.Report("p1")
	if !ok {
		t.Fatal("Expected polished report to be saved")
	}
	if !strings.Contains(final, `[[p.1 "The router activates two experts per token in"]]`) {
		t.Errorf("Expected fallback citation in polished report, got %q", final)
	}

	last := events[len(events)-1]
	if last.Type != agent.EventPolishEnd || last.Report != final {
		t.Errorf("Polish end must carry the saved report")
	}
}

func TestRunRoundContextThreading(t *testing.T) {
	client := &fakeClient{replies: []string{"Q1?", "A1.", "Q2?", "A2.", "polished"}}
	r := New(client, WithRounds(2))

	for ev, err := range r.Run(context.Background(), testPaper(), nil, "report", "en") {
		if err != nil {
			t.Fatalf("Run error: %v", err)
		}
		_ = ev
	}

	// Round 2's reader prompt carries the round 1 exchange.
	reader2 := client.requests[2].Messages[1].Content
	if !strings.Contains(reader2, "Q1?") || !strings.Contains(reader2, "A1.") {
		t.Errorf("Round 2 reader prompt missing prior discussion: %q", reader2)
	}
	if !strings.Contains(reader2, "round 2 of 2") {
		t.Errorf("Reader prompt missing round framing: %q", reader2)
	}

	// The writer sees the paper text and the fresh question.
	writer1 := client.requests[1].Messages[1].Content
	if !strings.Contains(writer1, "The router activates two experts") {
		t.Errorf("Writer prompt missing paper text: %q", writer1)
	}
	if !strings.Contains(writer1, "Q1?") {
		t.Errorf("Writer prompt missing the question: %q", writer1)
	}

	// The polish prompt carries the whole transcript.
	polish := client.requests[4].Messages[1].Content
	for _, fragment := range []string{"Q1?", "A1.", "Q2?", "A2.", "Current report"} {
		if !strings.Contains(polish, fragment) {
			t.Errorf("Polish prompt missing %q", fragment)
		}
	}
}
