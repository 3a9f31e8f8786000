package index

import (
	"regexp"
)

// YScale is the normalized vertical scale: 0 = page top, 1000 = page bottom.
const YScale = 1000

// MaxSearchResults caps how many matches a single search may return.
const MaxSearchResults = 10

// PlaceholderFontSize is reported by backends without font metadata.
const PlaceholderFontSize = 12.0

// Section is one heading entry of the paper structure.
type Section struct {
	Level int    `json:"level"`
	Title string `json:"title"`
	Page  int    `json:"page"`
	Y     int    `json:"y"`
}

// TextBlock is one positioned block of page text.
type TextBlock struct {
	Text     string  `json:"text"`
	YStart   int     `json:"y_start"`
	YEnd     int     `json:"y_end"`
	FontSize float64 `json:"font_size"`
}

// SearchMatch is one hit of a full-document text search.
type SearchMatch struct {
	Page       int    `json:"page"`
	Y          int    `json:"y"`
	Context    string `json:"context"`
	ExactMatch string `json:"exact_match"`
}

// StructureResult is the payload of the structure operation.
type StructureResult struct {
	Sections []Section `json:"sections"`
}

// PageDetailResult is the payload of the page-detail operation.
type PageDetailResult struct {
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
	Blocks     []TextBlock `json:"blocks"`
}

// SearchResult is the payload of the search operation.
type SearchResult struct {
	Query   string        `json:"query"`
	Matches []SearchMatch `json:"matches"`
}

// FigureContextResult is the payload of the figure-context operation. It is a
// "not found" result rather than an error when the caption cannot be located.
type FigureContextResult struct {
	CaptionFound bool   `json:"caption_found"`
	Query        string `json:"query,omitempty"`
	Page         int    `json:"page,omitempty"`
	Y            int    `json:"y,omitempty"`
	CaptionText  string `json:"caption_text,omitempty"`
	TextBefore   string `json:"text_before,omitempty"`
	TextAfter    string `json:"text_after,omitempty"`
}

// QuoteResult is the payload of the locate-quote operation.
type QuoteResult struct {
	Found       bool   `json:"found"`
	Quote       string `json:"quote,omitempty"`
	Page        int    `json:"page,omitempty"`
	Y           int    `json:"y,omitempty"`
	MatchedText string `json:"matched_text,omitempty"`
}

// Index is the uniform position-indexed query contract shared by all document
// backends. Every operation is total over its input domain: out-of-range and
// not-found conditions surface as structured results or a descriptive error,
// never as a panic, so the orchestrator needs no backend-specific handling.
type Index interface {
	PageCount() int

	// Structure extracts section headings with page numbers and y-positions.
	Structure() *StructureResult

	// PageDetail returns the ordered text blocks of one page. The error for
	// an out-of-range page names the valid range 1..N.
	PageDetail(pageNum int) (*PageDetailResult, error)

	// Search runs a case-insensitive substring search across pages in page
	// order, stopping once maxResults hits are collected.
	Search(query string, maxResults int) *SearchResult

	// FigureContext locates the block containing a figure caption and
	// returns the surrounding text.
	FigureContext(caption string) *FigureContextResult

	// LocateQuote finds the position of a verbatim quote, searching the
	// hinted page first.
	LocateQuote(quote string, pageHint int) *QuoteResult
}

// headingRe matches lines that look like section headings: numbering
// prefixes (arabic, roman, single letter) or common section keywords.
var headingRe = regexp.MustCompile(`(?i)^(\d+(\.\d+)*\.?\s|[IVXLC]+\.\s|[A-Z]\.\s|Abstract|Introduction|Conclusion|Related Work|Experiments|Results|Discussion|Method|References|Appendix|Background|Evaluation|Implementation|Overview|Acknowledgment)`)

// clip truncates s to at most n runes.
func clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// normOffset converts a character offset within a page to the 0-1000 scale.
func normOffset(offset, pageLen int) int {
	if pageLen <= 0 {
		return 0
	}
	y := offset * YScale / pageLen
	if y < 0 {
		return 0
	}
	if y > YScale {
		return YScale
	}
	return y
}

// dedupeSections removes entries sharing (page, first-50-chars title),
// keeping the first occurrence.
func dedupeSections(sections []Section) []Section {
	type key struct {
		page  int
		title string
	}
	seen := make(map[key]bool, len(sections))
	unique := make([]Section, 0, len(sections))
	for _, s := range sections {
		k := key{s.Page, clip(s.Title, 50)}
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, s)
	}
	return unique
}

// contextWindow extracts roughly ±60 characters around a match, marking
// truncation boundaries with ellipses and flattening newlines.
func contextWindow(pageText string, idx, matchLen int) string {
	start := idx - 60
	if start < 0 {
		start = 0
	}
	end := idx + matchLen + 60
	if end > len(pageText) {
		end = len(pageText)
	}
	ctx := flattenWS(pageText[start:end])
	if start > 0 {
		ctx = "..." + ctx
	}
	if end < len(pageText) {
		ctx = ctx + "..."
	}
	return ctx
}

var nlRe = regexp.MustCompile(`\s*\n\s*`)

func flattenWS(s string) string {
	s = nlRe.ReplaceAllString(s, " ")
	return trimSpace(s)
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	return s[start:end]
}
