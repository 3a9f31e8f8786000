package document

import (
	"strings"
	"testing"
)

func TestSplitPages(t *testing.T) {
	fullText := "--- Page 1 ---\nAbstract text here.\n--- Page 2 ---\nMethod text here.\n--- Page 3 ---\nResults."

	pages := SplitPages(fullText)
	if len(pages) != 3 {
		t.Fatalf("Expected 3 pages, got %d", len(pages))
	}
	for i, page := range pages {
		if page.Num != i+1 {
			t.Errorf("Expected page %d at position %d, got %d", i+1, i, page.Num)
		}
	}
	if !strings.Contains(pages[0].Text, "Abstract text") {
		t.Errorf("Page 1 missing its text: %q", pages[0].Text)
	}
	if strings.Contains(pages[0].Text, "Method text") {
		t.Errorf("Page 1 leaked page 2 content: %q", pages[0].Text)
	}
}

func TestSplitPagesUnordered(t *testing.T) {
	fullText := "--- Page 2 ---\nsecond\n--- Page 1 ---\nfirst\n"

	pages := SplitPages(fullText)
	if len(pages) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(pages))
	}
	if pages[0].Num != 1 || pages[1].Num != 2 {
		t.Errorf("Expected sorted page numbers, got %d, %d", pages[0].Num, pages[1].Num)
	}
	if strings.TrimSpace(pages[0].Text) != "first" {
		t.Errorf("Page 1 text = %q", pages[0].Text)
	}
}

func TestSplitPagesNoMarkers(t *testing.T) {
	if pages := SplitPages("plain text without any markers"); pages != nil {
		t.Errorf("Expected nil for markerless text, got %v", pages)
	}
}

func TestFigurePath(t *testing.T) {
	fig := Figure{Filename: "fig_0.png"}
	got := fig.Path("paper-42")
	want := "/data/figures/paper-42/fig_0.png"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
