// Package agent runs the multi-round, streaming, tool-calling loop that
// turns a parsed paper into a grounded reading report. The loop streams
// model output as events, executes requested tools between rounds, and
// post-processes the finished report with position-resolved citations.
package agent

import (
	"context"
	"iter"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/sweetpotato0/deepread/document"
	"github.com/sweetpotato0/deepread/index"
	"github.com/sweetpotato0/deepread/pkg/logging"
	"github.com/sweetpotato0/deepread/pkg/telemetry"
	"github.com/sweetpotato0/deepread/provider"
	"github.com/sweetpotato0/deepread/store"
	"github.com/sweetpotato0/deepread/tokenizer"
	"github.com/sweetpotato0/deepread/tool"
)

const (
	// DefaultMaxRounds bounds the tool-calling loop.
	DefaultMaxRounds = 25
	// DefaultToolResultLimit truncates oversized tool results before they
	// enter the conversation.
	DefaultToolResultLimit = 8000
	// DefaultTemperature is the sampling temperature for report rounds.
	DefaultTemperature = 0.7
)

// Discusser runs the post-report review loop. It is implemented by the
// discussion package; the indirection keeps the handoff optional.
type Discusser interface {
	Run(ctx context.Context, paper *document.Paper, figures []document.Figure, report, lang string) iter.Seq2[*Event, error]
}

// Generator orchestrates report generation for one paper at a time.
type Generator struct {
	client     provider.Client
	index      index.Index
	dispatcher *tool.Dispatcher
	store      store.ReportStore
	estimator  tokenizer.Estimator
	discusser  Discusser

	maxRounds   int
	temperature float64
	resultLimit int

	tracer trace.Tracer
	logger *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithMaxRounds overrides the tool-round ceiling.
func WithMaxRounds(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxRounds = n
		}
	}
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float64) Option {
	return func(g *Generator) { g.temperature = t }
}

// WithToolResultLimit overrides the tool-result truncation threshold.
func WithToolResultLimit(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.resultLimit = n
		}
	}
}

// WithStore persists finished reports and transcripts.
func WithStore(s store.ReportStore) Option {
	return func(g *Generator) { g.store = s }
}

// WithTokenEstimator sets the estimator used for prompt-size accounting.
func WithTokenEstimator(e tokenizer.Estimator) Option {
	return func(g *Generator) { g.estimator = e }
}

// WithDiscusser enables the automatic review discussion after the report.
func WithDiscusser(d Discusser) Option {
	return func(g *Generator) { g.discusser = d }
}

// New builds a Generator over a model client, a document index, and a
// tool dispatcher whose registry serves that index.
func New(client provider.Client, idx index.Index, dispatcher *tool.Dispatcher, opts ...Option) *Generator {
	g := &Generator{
		client:      client,
		index:       idx,
		dispatcher:  dispatcher,
		estimator:   tokenizer.Heuristic{},
		maxRounds:   DefaultMaxRounds,
		temperature: DefaultTemperature,
		resultLimit: DefaultToolResultLimit,
		tracer:      telemetry.Tracer("agent"),
		logger:      logging.WithComponent("agent"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}
