package prompt

// Turn templates of the discussion loop. The writer and polish turns see the
// paper text and figure summary so answers stay grounded in the source.

var readerTurnTmpl = MustTemplate("reader_turn",
	`Here is the report to review:

{{.Report}}

{{if .Dialogue}}Previous discussion:
{{.Dialogue}}

{{end}}This is round {{.Round}} of {{.Total}}. Ask ONE new question about an aspect not yet covered.`)

var writerTurnTmpl = MustTemplate("writer_turn",
	`## Original paper text:
{{.PaperText}}
{{.FigSummary}}

## Your report:
{{.Report}}

## Reader's question (Round {{.Round}}):
{{.Question}}

Answer the question with evidence from the paper.`)

var polishTmpl = MustTemplate("polish",
	`## Original paper text:
{{.PaperText}}
{{.FigSummary}}

## Current report:
{{.Report}}

## Discussion transcript:
{{.Dialogue}}

Revise the report based on the discussion. Output the full revised report.`)

// ReaderTurn is the data of one reader question prompt.
type ReaderTurn struct {
	Report   string
	Dialogue string
	Round    int
	Total    int
}

// WriterTurn is the data of one writer answer prompt.
type WriterTurn struct {
	PaperText  string
	FigSummary string
	Report     string
	Round      int
	Question   string
}

// PolishTurn is the data of the final revision prompt.
type PolishTurn struct {
	PaperText  string
	FigSummary string
	Report     string
	Dialogue   string
}

func ReaderTurnPrompt(turn ReaderTurn) (string, error) { return readerTurnTmpl.Render(turn) }
func WriterTurnPrompt(turn WriterTurn) (string, error) { return writerTurnTmpl.Render(turn) }
func PolishTurnPrompt(turn PolishTurn) (string, error) { return polishTmpl.Render(turn) }
