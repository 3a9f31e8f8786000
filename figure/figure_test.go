package figure

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeRenderer struct {
	result RenderResult
	code   string
}

func (r *fakeRenderer) Render(_ context.Context, code, paperID, figName string) RenderResult {
	r.code = code
	return r.result
}

type fakeReviewer struct {
	review Review
	err    error
}

func (r *fakeReviewer) Review(context.Context, string, string) (Review, error) {
	return r.review, r.err
}

func TestGenerateSuccess(t *testing.T) {
	renderer := &fakeRenderer{result: RenderResult{Success: true, Path: "/data/figures/p1/arch.png"}}
	reviewer := &fakeReviewer{review: Review{Passed: true, Feedback: "Looks clear"}}

	result := NewGenerator(renderer, reviewer).Generate(context.Background(), "<svg/>", "p1", "arch")
	if !result.Success {
		t.Fatalf("Expected success, got %+v", result)
	}
	if result.Path != "/data/figures/p1/arch.png" {
		t.Errorf("Path = %q", result.Path)
	}
	if renderer.code != "<svg/>" {
		t.Errorf("Renderer got code %q", renderer.code)
	}
}

func TestGenerateRenderFailure(t *testing.T) {
	renderer := &fakeRenderer{result: RenderResult{Success: false, Error: "browser crashed"}}

	result := NewGenerator(renderer, nil).Generate(context.Background(), "<svg/>", "p1", "arch")
	if result.Success {
		t.Fatal("Expected failure")
	}
	if !strings.Contains(result.Error, "browser crashed") {
		t.Errorf("Error = %q", result.Error)
	}
}

func TestGenerateFailedReviewInstructsRetry(t *testing.T) {
	renderer := &fakeRenderer{result: RenderResult{Success: true, Path: "/x.png"}}
	reviewer := &fakeReviewer{review: Review{Passed: false, Feedback: "text overflows the boxes"}}

	result := NewGenerator(renderer, reviewer).Generate(context.Background(), "<div/>", "p1", "arch")
	if result.Success {
		t.Fatal("Failed review must fail the tool call")
	}
	if !strings.Contains(result.Error, "Figure review FAILED: text overflows the boxes") {
		t.Errorf("Error = %q", result.Error)
	}
	if !strings.Contains(result.Error, "call generate_figure again") {
		t.Errorf("Error should instruct a retry, got %q", result.Error)
	}
}

func TestGenerateReviewerOutageFailsOpen(t *testing.T) {
	renderer := &fakeRenderer{result: RenderResult{Success: true, Path: "/x.png"}}
	reviewer := &fakeReviewer{err: errors.New("vision api timeout")}

	result := NewGenerator(renderer, reviewer).Generate(context.Background(), "<div/>", "p1", "arch")
	if !result.Success {
		t.Fatalf("Reviewer outage must not block the figure, got %+v", result)
	}
	if !strings.Contains(result.Review, "Review skipped") {
		t.Errorf("Review = %q", result.Review)
	}
}

func TestGenerateNoRenderer(t *testing.T) {
	result := NewGenerator(nil, nil).Generate(context.Background(), "<div/>", "p1", "arch")
	if result.Success {
		t.Fatal("Expected failure without a renderer")
	}
}

func TestSanitizeName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"model architecture", "model_architecture"},
		{"训练流程 pipeline", "_____pipeline"},
		{"", "figure"},
		{strings.Repeat("a", 80), strings.Repeat("a", 60)},
	}
	for _, c := range cases {
		if got := SanitizeName(c.in); got != c.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
