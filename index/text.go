package index

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sweetpotato0/deepread/document"
	apperrors "github.com/sweetpotato0/deepread/errors"
)

// TextIndex is the position index over marker-delimited plain text (the HTML
// backend, and the fallback for any source without geometry). Y-positions are
// derived from character offsets within each virtual page.
type TextIndex struct {
	pages []document.Page
}

// NewTextIndex builds an index from "--- Page N ---" delimited full text.
func NewTextIndex(fullText string) *TextIndex {
	return &TextIndex{pages: document.SplitPages(fullText)}
}

// PageCount returns the number of virtual pages.
func (ix *TextIndex) PageCount() int { return len(ix.pages) }

func (ix *TextIndex) page(num int) (document.Page, bool) {
	for _, p := range ix.pages {
		if p.Num == num {
			return p, true
		}
	}
	return document.Page{}, false
}

// Structure detects headings by line pattern. Without font metadata the level
// comes from the numbering shape of the line.
func (ix *TextIndex) Structure() *StructureResult {
	var sections []Section

	numberedRe := regexp.MustCompile(`^\d+\.\s`)
	subNumberedRe := regexp.MustCompile(`^\d+\.\d+`)

	for _, page := range ix.pages {
		pageLen := len(page.Text)
		for _, line := range strings.Split(page.Text, "\n") {
			line = strings.TrimSpace(line)
			if len(line) < 3 || len(line) > 80 {
				continue
			}
			if !headingRe.MatchString(line) {
				continue
			}

			offset := strings.Index(page.Text, line)
			y := 0
			if offset >= 0 {
				y = normOffset(offset, pageLen)
			}

			level := 2
			switch {
			case subNumberedRe.MatchString(line):
				level = 3
			case numberedRe.MatchString(line):
				level = 2
			default:
				switch strings.ToLower(line) {
				case "abstract", "references", "appendix":
					level = 1
				}
			}

			sections = append(sections, Section{
				Level: level,
				Title: clip(line, 100),
				Page:  page.Num,
				Y:     y,
			})
		}
	}

	return &StructureResult{Sections: dedupeSections(sections)}
}

var blockSplitRe = regexp.MustCompile(`\n{2,}`)

// PageDetail splits a page into blank-line-delimited blocks with
// offset-derived positions. Font size is a placeholder here.
func (ix *TextIndex) PageDetail(pageNum int) (*PageDetailResult, error) {
	page, ok := ix.page(pageNum)
	if !ok {
		return nil, fmt.Errorf("%w: page %d out of range (1-%d)", apperrors.ErrInvalidInput, pageNum, len(ix.pages))
	}

	pageLen := len(page.Text)
	var blocks []TextBlock
	for _, raw := range blockSplitRe.Split(page.Text, -1) {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		offset := strings.Index(page.Text, text)
		yStart, yEnd := 0, YScale
		if offset >= 0 {
			yStart = normOffset(offset, pageLen)
			yEnd = normOffset(offset+len(text), pageLen)
		}
		blocks = append(blocks, TextBlock{
			Text:     clip(text, 500),
			YStart:   yStart,
			YEnd:     yEnd,
			FontSize: PlaceholderFontSize,
		})
	}

	return &PageDetailResult{Page: pageNum, TotalPages: len(ix.pages), Blocks: blocks}, nil
}

// Search scans pages in order for a case-insensitive substring.
func (ix *TextIndex) Search(query string, maxResults int) *SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return &SearchResult{Query: query, Matches: []SearchMatch{}}
	}
	if maxResults <= 0 || maxResults > MaxSearchResults {
		maxResults = MaxSearchResults
	}

	queryLower := strings.ToLower(query)
	matches := make([]SearchMatch, 0, maxResults)

	for _, page := range ix.pages {
		if len(matches) >= maxResults {
			break
		}
		textLower := strings.ToLower(page.Text)
		pageLen := len(page.Text)

		pos := 0
		for pos < len(textLower) && len(matches) < maxResults {
			rel := strings.Index(textLower[pos:], queryLower)
			if rel < 0 {
				break
			}
			idx := pos + rel
			matches = append(matches, SearchMatch{
				Page:       page.Num,
				Y:          normOffset(idx, pageLen),
				Context:    contextWindow(page.Text, idx, len(query)),
				ExactMatch: page.Text[idx : idx+len(query)],
			})
			pos = idx + len(query)
		}
	}

	return &SearchResult{Query: query, Matches: matches}
}

// FigureContext finds the caption text (exact, else a 3-word prefix) and
// returns the surrounding 300 characters each way. Never errors.
func (ix *TextIndex) FigureContext(caption string) *FigureContextResult {
	captionLower := strings.ToLower(strings.TrimSpace(caption))
	if captionLower == "" {
		return &FigureContextResult{CaptionFound: false, Query: caption}
	}

	for _, page := range ix.pages {
		textLower := strings.ToLower(page.Text)
		idx := strings.Index(textLower, captionLower)
		if idx < 0 {
			words := strings.Fields(captionLower)
			if len(words) >= 3 {
				idx = strings.Index(textLower, strings.Join(words[:3], " "))
			}
			if idx < 0 {
				continue
			}
		}

		pageLen := len(page.Text)
		before := page.Text[:idx]
		if len(before) > 300 {
			before = before[len(before)-300:]
		}
		afterStart := idx + len(captionLower)
		if afterStart > len(page.Text) {
			afterStart = len(page.Text)
		}
		after := page.Text[afterStart:]
		if len(after) > 300 {
			after = after[:300]
		}

		return &FigureContextResult{
			CaptionFound: true,
			Page:         page.Num,
			Y:            normOffset(idx, pageLen),
			CaptionText:  clip(page.Text[idx:], 200),
			TextBefore:   before,
			TextAfter:    after,
		}
	}

	return &FigureContextResult{CaptionFound: false, Query: caption}
}

// LocateQuote searches the hinted page first, then all pages in order. It
// tries an exact case-insensitive match, then a whitespace-flexible pattern.
func (ix *TextIndex) LocateQuote(quote string, pageHint int) *QuoteResult {
	quote = strings.TrimSpace(quote)
	if quote == "" {
		return &QuoteResult{Found: false, Quote: quote}
	}

	for _, page := range pagesHintFirst(ix.pages, pageHint) {
		if r := searchQuoteInText(page.Num, page.Text, quote); r != nil {
			return r
		}
	}

	return &QuoteResult{Found: false, Quote: clip(quote, 100)}
}

// pagesHintFirst reorders pages so the hinted page is scanned first.
func pagesHintFirst(pages []document.Page, hint int) []document.Page {
	for i, p := range pages {
		if p.Num == hint && i > 0 {
			reordered := make([]document.Page, 0, len(pages))
			reordered = append(reordered, p)
			reordered = append(reordered, pages[:i]...)
			reordered = append(reordered, pages[i+1:]...)
			return reordered
		}
	}
	return pages
}

// searchQuoteInText is the shared quote matcher over one page of text.
// Returns nil when the quote is not on the page.
func searchQuoteInText(pageNum int, pageText, quote string) *QuoteResult {
	pageLen := len(pageText)

	idx := strings.Index(strings.ToLower(pageText), strings.ToLower(quote))
	if idx >= 0 {
		end := idx + len(quote)
		if end > len(pageText) {
			end = len(pageText)
		}
		return &QuoteResult{
			Found:       true,
			Page:        pageNum,
			Y:           normOffset(idx, pageLen),
			MatchedText: pageText[idx:end],
		}
	}

	words := strings.Fields(quote)
	if len(words) < 2 {
		return nil
	}
	escaped := make([]string, len(words))
	for i, w := range words {
		escaped[i] = regexp.QuoteMeta(w)
	}
	flexRe, err := regexp.Compile(`(?i)` + strings.Join(escaped, `\s+`))
	if err != nil {
		return nil
	}
	loc := flexRe.FindStringIndex(pageText)
	if loc == nil {
		return nil
	}
	return &QuoteResult{
		Found:       true,
		Page:        pageNum,
		Y:           normOffset(loc[0], pageLen),
		MatchedText: clip(pageText[loc[0]:loc[1]], 200),
	}
}
