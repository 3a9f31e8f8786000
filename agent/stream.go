package agent

import (
	"context"
	"iter"
	"strings"

	"github.com/sweetpotato0/deepread/conversation"
	"github.com/sweetpotato0/deepread/document"
	apperrors "github.com/sweetpotato0/deepread/errors"
	"github.com/sweetpotato0/deepread/grounding"
	"github.com/sweetpotato0/deepread/message"
	"github.com/sweetpotato0/deepread/pkg/telemetry"
	"github.com/sweetpotato0/deepread/prompt"
	"github.com/sweetpotato0/deepread/provider"
)

// Generate streams the full report pipeline for one paper: the tool-calling
// generation rounds, citation post-processing, and (when configured) the
// review discussion. Text streamed during a round that ends in tool calls
// is retracted from the report buffer; clients that rendered it should
// treat the next text event as a fresh continuation.
func (g *Generator) Generate(ctx context.Context, paper *document.Paper, figures []document.Figure, lang string) iter.Seq2[*Event, error] {
	return func(yield func(*Event, error) bool) {
		ctx, span := g.tracer.Start(ctx, "agent.Generate")
		var genErr error
		defer func() { telemetry.End(span, genErr) }()

		if g.client == nil {
			genErr = apperrors.ErrNoProvider
			yield(nil, genErr)
			return
		}

		system := prompt.WithLang(prompt.ReportSystemPrompt, lang)
		user := prompt.BuildUserPrompt(paper, figures)

		conv := conversation.New()
		conv.Add(message.NewMessage(message.RoleSystem, system))
		conv.Add(message.NewMessage(message.RoleUser, user))

		g.logger.Info("generation started",
			"paper", paper.ID,
			"figures", len(figures),
			"prompt_tokens", g.estimator.Count(system)+g.estimator.Count(user))

		var report strings.Builder
		schemas := g.dispatcher.Registry().Schemas()

		for round := 0; round < g.maxRounds; round++ {
			var (
				roundText strings.Builder
				reasoning strings.Builder
				acc       = message.NewToolCallAccumulator()
				finish    provider.FinishReason
			)

			req := &provider.Request{
				Messages:    conv.Messages(),
				Tools:       schemas,
				Temperature: g.temperature,
			}
			for chunk, err := range g.client.Stream(ctx, req) {
				if err != nil {
					genErr = err
					yield(nil, err)
					return
				}
				if chunk.FinishReason != provider.FinishNone {
					finish = chunk.FinishReason
				}
				if chunk.Reasoning != "" {
					reasoning.WriteString(chunk.Reasoning)
				}
				if chunk.Text != "" {
					roundText.WriteString(chunk.Text)
					if !yield(textEvent(chunk.Text), nil) {
						return
					}
				}
				for _, tc := range chunk.ToolCalls {
					acc.Add(tc.Index, tc.ID, tc.Name, tc.Arguments)
				}
			}

			if finish != provider.FinishToolCalls || acc.Len() == 0 {
				report.WriteString(roundText.String())
				break
			}

			// Tool round: the streamed text stays in the history for the
			// model but never reaches the final report.
			calls := acc.Finalize(round)
			assistant := message.NewToolCallMessage(roundText.String(), calls)
			assistant.Reasoning = reasoning.String()
			conv.Add(assistant)

			for _, call := range calls {
				if !yield(statusEvent(toolStatus(call)), nil) {
					return
				}
				result := g.executeTool(ctx, call)
				if ctx.Err() != nil {
					genErr = ctx.Err()
					yield(nil, genErr)
					return
				}
				conv.Add(message.NewToolResponseMessage(call.ID, result))
			}
		}

		reportText := report.String()
		if strings.TrimSpace(reportText) == "" {
			g.logger.Warn("generation produced empty report", "paper", paper.ID)
			return
		}

		if !yield(statusEvent("Enhancing citations..."), nil) {
			return
		}
		enhanced := grounding.Enhance(reportText, g.index)
		enhanced = grounding.InjectFallback(enhanced, paper.FullText)
		if enhanced != reportText {
			if !yield(&Event{Type: EventReplace, Report: enhanced}, nil) {
				return
			}
			reportText = enhanced
		}

		if g.store != nil {
			if err := g.store.SaveReport(ctx, paper.ID, reportText); err != nil {
				g.logger.Warn("report save failed", "paper", paper.ID, "error", err)
			}
		}

		if g.discusser == nil {
			return
		}
		if !yield(statusEvent("Starting review discussion..."), nil) {
			return
		}
		for ev, err := range g.discusser.Run(ctx, paper, figures, reportText, lang) {
			if err != nil {
				// Discussion failures never invalidate the finished report.
				yield(&Event{Type: EventDiscussionError, Error: err.Error()}, nil)
				return
			}
			if !yield(ev, nil) {
				return
			}
		}
	}
}

// executeTool dispatches one call on a worker goroutine so cancellation
// interrupts the wait even when a tool handler blocks, and truncates
// oversized results before they enter the conversation.
func (g *Generator) executeTool(ctx context.Context, call message.ToolCall) string {
	ctx, span := g.tracer.Start(ctx, "agent.tool."+call.Name)
	defer telemetry.End(span, nil)

	done := make(chan string, 1)
	go func() {
		done <- g.dispatcher.Dispatch(ctx, call.Name, call.Args)
	}()

	var result string
	select {
	case <-ctx.Done():
		return `{"error": "tool execution cancelled"}`
	case result = <-done:
	}

	if len(result) > g.resultLimit {
		result = clipRunes(result, g.resultLimit) + "... (truncated)"
	}
	return result
}
