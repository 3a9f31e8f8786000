package prompt

import (
	"strings"
	"testing"

	"github.com/sweetpotato0/deepread/document"
)

func TestBuildUserPromptWithFigures(t *testing.T) {
	paper := &document.Paper{
		ID:       "p1",
		Title:    "Sparse Routing at Scale",
		Authors:  "A. Researcher, B. Scientist",
		FullText: "--- Page 1 ---\nbody",
	}
	figures := []document.Figure{
		{Filename: "fig_0.png", PageNum: 2, Caption: "Figure 1: Overview"},
	}

	prompt := BuildUserPrompt(paper, figures)

	if !strings.Contains(prompt, "# Paper: Sparse Routing at Scale") {
		t.Error("Missing title header")
	}
	if !strings.Contains(prompt, "A. Researcher") {
		t.Error("Missing authors")
	}
	// Page numbers are 0-based from the extractor, shown 1-based.
	if !strings.Contains(prompt, "Figure 1: Overview (page 3)") {
		t.Error("Missing 1-based figure page")
	}
	if !strings.Contains(prompt, "![Figure 1: Overview](/data/figures/p1/fig_0.png)") {
		t.Error("Missing exact insertion syntax")
	}
	if !strings.Contains(prompt, "--- Page 1 ---") {
		t.Error("Missing full text")
	}
	if !strings.Contains(prompt, "start directly with ## TLDR") {
		t.Error("Missing citation reminder")
	}
}

func TestBuildUserPromptNoFigures(t *testing.T) {
	paper := &document.Paper{ID: "p1", Title: "T", FullText: "text"}
	prompt := BuildUserPrompt(paper, nil)
	if !strings.Contains(prompt, "No figures were extracted") {
		t.Error("Missing no-figures note")
	}
}

func TestLangInstruction(t *testing.T) {
	if !strings.Contains(LangInstruction("zh"), "中文") {
		t.Error("Expected Chinese instruction for zh")
	}
	if LangInstruction("fr") != LangInstruction("en") {
		t.Error("Unknown language must default to English")
	}
	withLang := WithLang("SYSTEM", "en")
	if !strings.HasPrefix(withLang, "SYSTEM") || !strings.Contains(withLang, "Language requirement:") {
		t.Errorf("WithLang = %q", withLang)
	}
}

func TestFigureSummary(t *testing.T) {
	if FigureSummary(nil) != "" {
		t.Error("Expected empty summary for no figures")
	}
	got := FigureSummary([]document.Figure{{Caption: "Figure 2: Ablation", PageNum: 4}})
	if !strings.Contains(got, "Figure 2: Ablation (page 5)") {
		t.Errorf("Summary = %q", got)
	}
}
