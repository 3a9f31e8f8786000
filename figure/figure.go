// Package figure drives the one side-effecting tool: diagram generation
// through an external rendering collaborator, gated by an external vision
// review collaborator.
package figure

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/sweetpotato0/deepread/pkg/logging"
)

// RenderResult is the rendering collaborator's outcome.
type RenderResult struct {
	Success bool   `json:"success"`
	Path    string `json:"path,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Renderer renders body-only HTML/SVG markup to an image. Implementations
// wrap a headless browser or an equivalent service.
type Renderer interface {
	Render(ctx context.Context, code, paperID, figName string) RenderResult
}

// Review is the review collaborator's verdict on a rendered diagram.
type Review struct {
	Passed   bool   `json:"passed"`
	Feedback string `json:"feedback"`
}

// Reviewer inspects a rendered diagram image for quality problems.
type Reviewer interface {
	Review(ctx context.Context, imagePath, description string) (Review, error)
}

// Result is the tool-facing outcome of a generate-diagram call.
type Result struct {
	Success bool   `json:"success"`
	Path    string `json:"path,omitempty"`
	Review  string `json:"review,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Generator couples rendering with review. A failed review converts a
// successful render into a tool-level failure that instructs the model to
// retry; a reviewer outage is fail-open so one collaborator being down never
// blocks the report.
type Generator struct {
	renderer Renderer
	reviewer Reviewer
	logger   *slog.Logger
}

// NewGenerator builds a generator. The reviewer may be nil, in which case
// every rendered diagram passes with an explanatory note.
func NewGenerator(renderer Renderer, reviewer Reviewer) *Generator {
	return &Generator{
		renderer: renderer,
		reviewer: reviewer,
		logger:   logging.WithComponent("figure"),
	}
}

// Generate renders the markup and reviews the output.
func (g *Generator) Generate(ctx context.Context, code, paperID, description string) Result {
	if g.renderer == nil {
		return Result{Success: false, Error: "diagram rendering is not available"}
	}

	name := SanitizeName(description)
	rendered := g.renderer.Render(ctx, code, paperID, name)
	if !rendered.Success {
		g.logger.Warn("diagram render failed", "paper_id", paperID, "name", name, "error", rendered.Error)
		return Result{Success: false, Error: fmt.Sprintf("Render failed: %s", rendered.Error)}
	}

	review := g.reviewFigure(ctx, rendered.Path, description)
	if !review.Passed {
		return Result{
			Success: false,
			Review:  review.Feedback,
			Error: fmt.Sprintf(
				"Figure review FAILED: %s. Please fix the issues and call generate_figure again.",
				review.Feedback,
			),
		}
	}

	return Result{Success: true, Path: rendered.Path, Review: review.Feedback}
}

func (g *Generator) reviewFigure(ctx context.Context, path, description string) Review {
	if g.reviewer == nil {
		return Review{Passed: true, Feedback: "Review skipped: no reviewer configured"}
	}
	review, err := g.reviewer.Review(ctx, path, description)
	if err != nil {
		// Reviewer outage must not block the artifact.
		g.logger.Warn("figure review unavailable", "path", path, "error", err)
		return Review{Passed: true, Feedback: fmt.Sprintf("Review skipped: %v", err)}
	}
	return review
}

var unsafeNameRe = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)

// SanitizeName turns a free-form description into a filesystem-safe figure
// name, capped at 60 characters.
func SanitizeName(description string) string {
	name := unsafeNameRe.ReplaceAllString(description, "_")
	if len(name) > 60 {
		name = name[:60]
	}
	if name == "" {
		name = "figure"
	}
	return name
}
