package store

import (
	"context"
	"testing"
)

func TestInMemoryReports(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	if _, ok := s.Report("p1"); ok {
		t.Fatal("Expected no report initially")
	}

	if err := s.SaveReport(ctx, "p1", "## TLDR\nfirst"); err != nil {
		t.Fatalf("SaveReport error: %v", err)
	}
	if err := s.SaveReport(ctx, "p1", "## TLDR\npolished"); err != nil {
		t.Fatalf("SaveReport error: %v", err)
	}

	got, ok := s.Report("p1")
	if !ok || got != "## TLDR\npolished" {
		t.Errorf("Report = %q, ok = %v", got, ok)
	}
}

func TestInMemoryDiscussionIsolation(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	turns := []DiscussionTurn{{Round: 1, Question: "why?", Answer: "because"}}
	if err := s.SaveDiscussion(ctx, "p1", turns); err != nil {
		t.Fatalf("SaveDiscussion error: %v", err)
	}

	// Mutating the caller's slice must not affect the stored copy.
	turns[0].Answer = "changed"
	stored := s.Discussion("p1")
	if len(stored) != 1 || stored[0].Answer != "because" {
		t.Errorf("Stored transcript shares memory with caller: %+v", stored)
	}
}
