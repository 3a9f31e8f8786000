// Package discussion runs the automatic review loop that follows report
// generation: a critical reader asks questions, the report's author answers
// from the paper text, and a final polish pass folds the exchange back into
// the report.
package discussion

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/sweetpotato0/deepread/agent"
	"github.com/sweetpotato0/deepread/document"
	"github.com/sweetpotato0/deepread/grounding"
	"github.com/sweetpotato0/deepread/index"
	"github.com/sweetpotato0/deepread/message"
	"github.com/sweetpotato0/deepread/pkg/logging"
	"github.com/sweetpotato0/deepread/pkg/telemetry"
	"github.com/sweetpotato0/deepread/prompt"
	"github.com/sweetpotato0/deepread/provider"
	"github.com/sweetpotato0/deepread/store"
)

const (
	// DefaultRounds is how many question/answer exchanges run.
	DefaultRounds = 3
	// maxPaperTextLen bounds the paper text fed to writer and polish
	// prompts.
	maxPaperTextLen = 30000

	polishMaxTokens = 4096
	temperature     = 0.7
)

// Runner drives the reader/writer/polish exchange.
type Runner struct {
	client provider.Client
	index  index.Index
	store  store.ReportStore
	rounds int

	tracer trace.Tracer
	logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithRounds overrides the number of question/answer rounds.
func WithRounds(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.rounds = n
		}
	}
}

// WithStore persists the transcript and the polished report.
func WithStore(s store.ReportStore) Option {
	return func(r *Runner) { r.store = s }
}

// WithIndex enables position resolution for citations in the polished
// report.
func WithIndex(idx index.Index) Option {
	return func(r *Runner) { r.index = idx }
}

func New(client provider.Client, opts ...Option) *Runner {
	r := &Runner{
		client: client,
		rounds: DefaultRounds,
		tracer: telemetry.Tracer("discussion"),
		logger: logging.WithComponent("discussion"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run streams the discussion and polish flow as agent events.
func (r *Runner) Run(ctx context.Context, paper *document.Paper, figures []document.Figure, report, lang string) iter.Seq2[*agent.Event, error] {
	return func(yield func(*agent.Event, error) bool) {
		ctx, span := r.tracer.Start(ctx, "discussion.Run")
		var runErr error
		defer func() { telemetry.End(span, runErr) }()

		paperText := paper.FullText
		if len(paperText) > maxPaperTextLen {
			paperText = paperText[:maxPaperTextLen] + "\n\n... (truncated)"
		}
		figSummary := prompt.FigureSummary(figures)

		if !yield(&agent.Event{Type: agent.EventDiscussionStart}, nil) {
			return
		}

		var (
			transcript []store.DiscussionTurn
			dialogue   strings.Builder
		)

		for round := 1; round <= r.rounds; round++ {
			if !yield(&agent.Event{Type: agent.EventDiscussionRound, Round: round, Total: r.rounds}, nil) {
				return
			}

			readerPrompt, err := prompt.ReaderTurnPrompt(prompt.ReaderTurn{
				Report:   report,
				Dialogue: strings.TrimSpace(dialogue.String()),
				Round:    round,
				Total:    r.rounds,
			})
			if err != nil {
				runErr = err
				yield(nil, err)
				return
			}

			question, ok, err := r.streamCompletion(ctx,
				prompt.WithLang(prompt.ReaderSystemPrompt, lang), readerPrompt,
				func(chunk string) bool {
					return yield(&agent.Event{Type: agent.EventReaderChunk, Round: round, Content: chunk}, nil)
				})
			if err != nil {
				runErr = err
				yield(nil, err)
				return
			}
			if !ok {
				return
			}
			fmt.Fprintf(&dialogue, "\n### Question (Round %d):\n%s\n", round, question)

			writerPrompt, err := prompt.WriterTurnPrompt(prompt.WriterTurn{
				PaperText:  paperText,
				FigSummary: figSummary,
				Report:     report,
				Round:      round,
				Question:   question,
			})
			if err != nil {
				runErr = err
				yield(nil, err)
				return
			}

			answer, ok, err := r.streamCompletion(ctx,
				prompt.WithLang(prompt.WriterSystemPrompt, lang), writerPrompt,
				func(chunk string) bool {
					return yield(&agent.Event{Type: agent.EventWriterChunk, Round: round, Content: chunk}, nil)
				})
			if err != nil {
				runErr = err
				yield(nil, err)
				return
			}
			if !ok {
				return
			}
			fmt.Fprintf(&dialogue, "\n### Writer (Round %d):\n%s\n", round, answer)

			transcript = append(transcript,
				store.DiscussionTurn{Round: round, Question: question, Answer: answer})
		}

		if !yield(&agent.Event{Type: agent.EventDiscussionEnd}, nil) {
			return
		}

		if r.store != nil {
			if err := r.store.SaveDiscussion(ctx, paper.ID, transcript); err != nil {
				r.logger.Warn("discussion save failed", "paper", paper.ID, "error", err)
			}
		}

		if !yield(&agent.Event{Type: agent.EventPolishStart}, nil) {
			return
		}

		polishPrompt, err := prompt.PolishTurnPrompt(prompt.PolishTurn{
			PaperText:  paperText,
			FigSummary: figSummary,
			Report:     report,
			Dialogue:   dialogue.String(),
		})
		if err != nil {
			runErr = err
			yield(nil, err)
			return
		}

		polished, ok, err := r.streamCompletion(ctx,
			prompt.WithLang(prompt.PolishSystemPrompt, lang), polishPrompt,
			func(chunk string) bool {
				return yield(&agent.Event{Type: agent.EventPolishChunk, Content: chunk}, nil)
			})
		if err != nil {
			runErr = err
			yield(nil, err)
			return
		}
		if !ok {
			return
		}

		polished = grounding.Enhance(polished, r.index)
		polished = grounding.InjectFallback(polished, paper.FullText)

		if r.store != nil {
			if err := r.store.SaveReport(ctx, paper.ID, polished); err != nil {
				r.logger.Warn("polished report save failed", "paper", paper.ID, "error", err)
			}
		}

		yield(&agent.Event{Type: agent.EventPolishEnd, Report: polished}, nil)
	}
}

// streamCompletion runs one plain completion, forwarding each text chunk
// through emit. The bool result is false when the consumer stopped.
func (r *Runner) streamCompletion(ctx context.Context, system, user string, emit func(string) bool) (string, bool, error) {
	req := &provider.Request{
		Messages: []*message.Message{
			message.NewMessage(message.RoleSystem, system),
			message.NewMessage(message.RoleUser, user),
		},
		Temperature: temperature,
		MaxTokens:   polishMaxTokens,
	}

	var text strings.Builder
	for chunk, err := range r.client.Stream(ctx, req) {
		if err != nil {
			return "", false, err
		}
		if chunk.Text == "" {
			continue
		}
		text.WriteString(chunk.Text)
		if !emit(chunk.Text) {
			return "", false, nil
		}
	}
	return text.String(), true, nil
}

