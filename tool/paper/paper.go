// Package paper installs the document query tools and the diagram tool into
// a tool registry, bound to one live position index for the session.
package paper

import (
	"context"
	"fmt"

	"github.com/sweetpotato0/deepread/figure"
	"github.com/sweetpotato0/deepread/index"
	"github.com/sweetpotato0/deepread/tool"
)

// Deps carries the per-session collaborators the tools close over.
type Deps struct {
	Index   index.Index
	Figures *figure.Generator // nil disables generate_figure
	PaperID string
}

// Register installs the five read-only query tools, plus generate_figure
// when a diagram generator is available.
func Register(reg *tool.Registry, deps Deps) error {
	idx := deps.Index
	if idx == nil {
		return fmt.Errorf("paper tools require an index")
	}

	tools := []*tool.Tool{
		{
			Name: "get_paper_structure",
			Description: "Extract the section headings and structure of the paper with " +
				"page numbers and y-positions. Call this first to understand the " +
				"paper's organization.",
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return idx.Structure(), nil
			},
		},
		{
			Name: "read_page_detail",
			Description: "Get the detailed text blocks of a specific page with y-positions. " +
				"Useful to examine a particular section or page in detail.",
			Parameters: []tool.Parameter{
				{Name: "page_num", Type: "integer", Description: "1-based page number to read", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return idx.PageDetail(tool.IntArg(args, "page_num", 1))
			},
		},
		{
			Name: "search_text",
			Description: "Search for specific text across all pages of the paper. Returns " +
				"matches with page numbers, y-positions, and surrounding context.",
			Parameters: []tool.Parameter{
				{Name: "query", Type: "string", Description: "Text to search for (case-insensitive)", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return idx.Search(tool.StringArg(args, "query"), index.MaxSearchResults), nil
			},
		},
		{
			Name: "get_figure_context",
			Description: "Get the text surrounding a figure or table to understand its context. " +
				"Pass the figure label like 'Figure 3' or part of its caption.",
			Parameters: []tool.Parameter{
				{Name: "figure_caption", Type: "string", Description: "Figure label or caption text to search for", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return idx.FigureContext(tool.StringArg(args, "figure_caption")), nil
			},
		},
		{
			Name: "locate_quote",
			Description: "Find the exact page and y-position of a verbatim quote in the paper. " +
				`Use this to get precise citation coordinates for [[p.N:Y "quote"]] format.`,
			Parameters: []tool.Parameter{
				{Name: "quote", Type: "string", Description: "The verbatim text to locate in the paper", Required: true},
				{Name: "page_hint", Type: "integer", Description: "Optional page number where you expect the quote (1-based)", Required: false},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return idx.LocateQuote(tool.StringArg(args, "quote"), tool.IntArg(args, "page_hint", 0)), nil
			},
		},
	}

	if deps.Figures != nil {
		gen := deps.Figures
		paperID := deps.PaperID
		tools = append(tools, &tool.Tool{
			Name: "generate_figure",
			Description: "Generate a high-quality explanatory diagram by writing HTML/CSS/SVG " +
				"code. The code is rendered in a headless browser and saved as a PNG " +
				"image. Write the BODY content only — the outer <html>/<body> tags, " +
				"fonts, and padding are provided automatically. After calling this " +
				"tool, insert the returned image path in your report using " +
				"![description](path) syntax.",
			Parameters: []tool.Parameter{
				{
					Name: "code", Type: "string", Required: true,
					Description: "HTML/CSS/SVG code for the diagram body content. " +
						"Use <style> for CSS, <div> for layout, <svg> for " +
						"vector graphics. Do NOT include <html> or <body> tags.",
				},
				{
					Name: "description", Type: "string", Required: true,
					Description: "Brief description used as filename and alt text " +
						"(e.g. 'model_architecture', 'training_pipeline')",
				},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return gen.Generate(
					ctx,
					tool.StringArg(args, "code"),
					paperID,
					tool.StringArg(args, "description"),
				), nil
			},
		})
	}

	for _, t := range tools {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}
