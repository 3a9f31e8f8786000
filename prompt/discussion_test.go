package prompt

import (
	"strings"
	"testing"
)

func TestReaderTurnPrompt(t *testing.T) {
	first, err := ReaderTurnPrompt(ReaderTurn{Report: "REPORT", Round: 1, Total: 3})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if strings.Contains(first, "Previous discussion") {
		t.Error("Round 1 must not reference prior discussion")
	}
	if !strings.Contains(first, "round 1 of 3") {
		t.Errorf("Missing round framing: %q", first)
	}

	later, err := ReaderTurnPrompt(ReaderTurn{Report: "REPORT", Dialogue: "Q and A", Round: 2, Total: 3})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(later, "Previous discussion:\nQ and A") {
		t.Errorf("Missing prior discussion: %q", later)
	}
}

func TestWriterTurnPrompt(t *testing.T) {
	got, err := WriterTurnPrompt(WriterTurn{
		PaperText: "PAPER", FigSummary: "\nFIGS", Report: "REPORT", Round: 2, Question: "Why?",
	})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	for _, fragment := range []string{
		"## Original paper text:\nPAPER",
		"## Your report:\nREPORT",
		"## Reader's question (Round 2):\nWhy?",
		"evidence from the paper",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("Missing %q in:\n%s", fragment, got)
		}
	}
}

func TestPolishTurnPrompt(t *testing.T) {
	got, err := PolishTurnPrompt(PolishTurn{
		PaperText: "PAPER", Report: "REPORT", Dialogue: "TRANSCRIPT",
	})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(got, "## Discussion transcript:\nTRANSCRIPT") {
		t.Errorf("Missing transcript section: %q", got)
	}
	if !strings.Contains(got, "Output the full revised report.") {
		t.Errorf("Missing revision instruction: %q", got)
	}
}
