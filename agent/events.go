package agent

import (
	"fmt"

	"github.com/sweetpotato0/deepread/message"
	"github.com/sweetpotato0/deepread/tool"
)

// EventType discriminates the events of a generation stream.
type EventType string

const (
	// EventText carries report markdown streamed from the model.
	EventText EventType = "text"
	// EventStatus carries a short progress message for display.
	EventStatus EventType = "status"
	// EventReplace carries a full revised report that supersedes all
	// text streamed so far.
	EventReplace EventType = "replace"

	EventDiscussionStart EventType = "discussion_start"
	EventDiscussionRound EventType = "discussion_round"
	EventReaderChunk     EventType = "reader_chunk"
	EventWriterChunk     EventType = "writer_chunk"
	EventDiscussionEnd   EventType = "discussion_end"
	EventDiscussionError EventType = "discussion_error"
	EventPolishStart     EventType = "polish_start"
	EventPolishChunk     EventType = "polish_chunk"
	EventPolishEnd       EventType = "polish_end"
)

// Event is one item of the generation stream. Which fields are set
// depends on Type.
type Event struct {
	Type    EventType `json:"type"`
	Content string    `json:"content,omitempty"`
	Round   int       `json:"round,omitempty"`
	Total   int       `json:"total,omitempty"`
	Report  string    `json:"report,omitempty"`
	Error   string    `json:"error,omitempty"`
}

func textEvent(content string) *Event   { return &Event{Type: EventText, Content: content} }
func statusEvent(content string) *Event { return &Event{Type: EventStatus, Content: content} }

// Marker renders status and replace events as the HTML-comment markers
// clients embed inside a raw markdown stream. Other event types render
// as their content.
func (e *Event) Marker() string {
	switch e.Type {
	case EventStatus:
		return fmt.Sprintf("<!--STATUS:%s-->", e.Content)
	case EventReplace:
		return fmt.Sprintf("\n\n<!--FULL_REPLACE-->%s<!--/FULL_REPLACE-->", e.Report)
	default:
		return e.Content
	}
}

// toolStatus phrases a progress message for one tool invocation.
func toolStatus(call message.ToolCall) string {
	switch call.Name {
	case "get_paper_structure":
		return "Analyzing paper structure..."
	case "read_page_detail":
		page := tool.IntArg(call.Args, "page_num", 0)
		if page == 0 {
			return "Reading page ? in detail..."
		}
		return fmt.Sprintf("Reading page %d in detail...", page)
	case "search_text":
		return fmt.Sprintf("Searching for %q...", clipRunes(tool.StringArg(call.Args, "query"), 40))
	case "get_figure_context":
		return "Examining figure context..."
	case "locate_quote":
		return "Locating citation position..."
	case "generate_figure":
		return fmt.Sprintf("Generating diagram: %s...", clipRunes(tool.StringArg(call.Args, "description"), 40))
	default:
		return fmt.Sprintf("Running %s...", call.Name)
	}
}

func clipRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
