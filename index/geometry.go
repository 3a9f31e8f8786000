package index

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	apperrors "github.com/sweetpotato0/deepread/errors"
)

// GeometryBlock is one text block with layout metadata, as handed over by the
// PDF extraction collaborator.
type GeometryBlock struct {
	Text     string
	Y0       float64 // top edge in page coordinates
	Y1       float64 // bottom edge
	FontSize float64 // average span size, rounded to 0.1
	Bold     bool
}

// GeometryPage is one physical page with its layout blocks.
type GeometryPage struct {
	Num    int
	Height float64
	Text   string
	Blocks []GeometryBlock
}

// OutlineEntry is one embedded outline (bookmark) record.
type OutlineEntry struct {
	Level int
	Title string
	Page  int
}

// GeometryIndex is the position index over geometry-annotated pages (the PDF
// backend). Y-positions come from block bounding boxes where available,
// falling back to character offsets.
type GeometryIndex struct {
	pages   []GeometryPage
	outline []OutlineEntry
}

// NewGeometryIndex builds an index from extracted page geometry and an
// optional embedded outline.
func NewGeometryIndex(pages []GeometryPage, outline []OutlineEntry) *GeometryIndex {
	return &GeometryIndex{pages: pages, outline: outline}
}

// PageCount returns the number of physical pages.
func (ix *GeometryIndex) PageCount() int { return len(ix.pages) }

func (ix *GeometryIndex) page(num int) (GeometryPage, bool) {
	for _, p := range ix.pages {
		if p.Num == num {
			return p, true
		}
	}
	return GeometryPage{}, false
}

func normGeomY(y, height float64) int {
	if height <= 0 {
		return 0
	}
	n := int(math.Round(y / height * YScale))
	if n < 0 {
		return 0
	}
	if n > YScale {
		return YScale
	}
	return n
}

// structureScanPages bounds the heuristic font scan window.
const structureScanPages = 25

// Structure prefers the embedded outline when it carries at least three
// entries; otherwise it falls back to a font-size heuristic against the
// modal body size.
func (ix *GeometryIndex) Structure() *StructureResult {
	if len(ix.outline) >= 3 {
		return ix.structureFromOutline()
	}
	return ix.structureFromFonts()
}

func (ix *GeometryIndex) structureFromOutline() *StructureResult {
	sections := make([]Section, 0, len(ix.outline))
	for _, entry := range ix.outline {
		y := 0
		if page, ok := ix.page(entry.Page); ok {
			if b := findBlockContaining(page, clip(entry.Title, 60)); b != nil {
				y = normGeomY(b.Y0, page.Height)
			}
		}
		sections = append(sections, Section{
			Level: entry.Level,
			Title: clip(strings.TrimSpace(entry.Title), 100),
			Page:  entry.Page,
			Y:     y,
		})
	}
	return &StructureResult{Sections: dedupeSections(sections)}
}

type headingCandidate struct {
	size float64
	text string
	page int
	y0   float64
	bold bool
}

func (ix *GeometryIndex) structureFromFonts() *StructureResult {
	var (
		sizeCounts = map[float64]int{}
		candidates []headingCandidate
	)

	scan := len(ix.pages)
	if scan > structureScanPages {
		scan = structureScanPages
	}
	for _, page := range ix.pages[:scan] {
		for _, block := range page.Blocks {
			text := strings.TrimSpace(block.Text)
			if len(text) < 2 || block.FontSize <= 0 {
				continue
			}
			size := math.Round(block.FontSize*10) / 10
			sizeCounts[size]++
			candidates = append(candidates, headingCandidate{
				size: size,
				text: text,
				page: page.Num,
				y0:   block.Y0,
				bold: block.Bold,
			})
		}
	}
	if len(sizeCounts) == 0 {
		return &StructureResult{Sections: []Section{}}
	}

	// Modal block size is taken as the body size.
	var bodySize float64
	best := -1
	for size, count := range sizeCounts {
		if count > best || (count == best && size < bodySize) {
			best = count
			bodySize = size
		}
	}

	var sections []Section
	for _, cand := range candidates {
		if len(cand.text) < 3 || len(cand.text) > 120 {
			continue
		}
		isLarger := cand.size > bodySize+0.5
		isBoldLarger := cand.bold && cand.size >= bodySize
		if !isLarger && !isBoldLarger {
			continue
		}
		if !headingRe.MatchString(cand.text) {
			continue
		}

		sizeDiff := cand.size - bodySize
		level := 3
		if sizeDiff > 3 {
			level = 1
		} else if sizeDiff > 1 {
			level = 2
		}

		y := 0
		if page, ok := ix.page(cand.page); ok {
			y = normGeomY(cand.y0, page.Height)
		}
		sections = append(sections, Section{
			Level: level,
			Title: clip(cand.text, 100),
			Page:  cand.page,
			Y:     y,
		})
	}

	return &StructureResult{Sections: dedupeSections(sections)}
}

// PageDetail returns the page's geometry blocks with normalized positions.
func (ix *GeometryIndex) PageDetail(pageNum int) (*PageDetailResult, error) {
	page, ok := ix.page(pageNum)
	if !ok {
		return nil, fmt.Errorf("%w: page %d out of range (1-%d)", apperrors.ErrInvalidInput, pageNum, len(ix.pages))
	}

	var blocks []TextBlock
	for _, block := range page.Blocks {
		text := strings.TrimSpace(block.Text)
		if text == "" {
			continue
		}
		blocks = append(blocks, TextBlock{
			Text:     clip(text, 500),
			YStart:   normGeomY(block.Y0, page.Height),
			YEnd:     normGeomY(block.Y1, page.Height),
			FontSize: block.FontSize,
		})
	}

	return &PageDetailResult{Page: pageNum, TotalPages: len(ix.pages), Blocks: blocks}, nil
}

// Search scans pages in order; the y-position comes from the bounding box of
// the block containing the hit when one can be resolved.
func (ix *GeometryIndex) Search(query string, maxResults int) *SearchResult {
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

		pos := 0
		for pos < len(textLower) && len(matches) < maxResults {
			rel := strings.Index(textLower[pos:], queryLower)
			if rel < 0 {
				break
			}
			idx := pos + rel
			matches = append(matches, SearchMatch{
				Page:       page.Num,
				Y:          ix.blockY(page, query, idx),
				Context:    contextWindow(page.Text, idx, len(query)),
				ExactMatch: page.Text[idx : idx+len(query)],
			})
			pos = idx + len(query)
		}
	}

	return &SearchResult{Query: query, Matches: matches}
}

// blockY resolves a match to the top of its containing block, falling back to
// the character-offset position when no block carries the text.
func (ix *GeometryIndex) blockY(page GeometryPage, needle string, offset int) int {
	if b := findBlockContaining(page, needle); b != nil {
		return normGeomY(b.Y0, page.Height)
	}
	return normOffset(offset, len(page.Text))
}

func findBlockContaining(page GeometryPage, needle string) *GeometryBlock {
	needleLower := strings.ToLower(needle)
	for i := range page.Blocks {
		if strings.Contains(strings.ToLower(page.Blocks[i].Text), needleLower) {
			return &page.Blocks[i]
		}
	}
	return nil
}

// FigureContext walks page blocks for the caption (exact, else a 3-word
// prefix) and returns the neighbouring blocks.
func (ix *GeometryIndex) FigureContext(caption string) *FigureContextResult {
	captionLower := strings.ToLower(strings.TrimSpace(caption))
	if captionLower == "" {
		return &FigureContextResult{CaptionFound: false, Query: caption}
	}

	var partial string
	if words := strings.Fields(captionLower); len(words) >= 3 {
		partial = strings.Join(words[:3], " ")
	}

	for _, page := range ix.pages {
		for j, block := range page.Blocks {
			text := strings.TrimSpace(block.Text)
			if text == "" {
				continue
			}
			textLower := strings.ToLower(text)
			if !strings.Contains(textLower, captionLower) &&
				(partial == "" || !strings.Contains(textLower, partial)) {
				continue
			}

			var before, after string
			if j > 0 {
				before = clip(strings.TrimSpace(page.Blocks[j-1].Text), 300)
			}
			if j < len(page.Blocks)-1 {
				after = clip(strings.TrimSpace(page.Blocks[j+1].Text), 300)
			}
			return &FigureContextResult{
				CaptionFound: true,
				Page:         page.Num,
				Y:            normGeomY(block.Y0, page.Height),
				CaptionText:  clip(text, 200),
				TextBefore:   before,
				TextAfter:    after,
			}
		}
	}

	return &FigureContextResult{CaptionFound: false, Query: caption}
}

// LocateQuote searches the hinted page first. Exact case-insensitive match,
// then a whitespace-flexible pattern; the y-position prefers the geometry of
// the containing block.
func (ix *GeometryIndex) LocateQuote(quote string, pageHint int) *QuoteResult {
	quote = strings.TrimSpace(quote)
	if quote == "" {
		return &QuoteResult{Found: false, Quote: quote}
	}

	order := make([]GeometryPage, 0, len(ix.pages))
	hinted := false
	for _, p := range ix.pages {
		if p.Num == pageHint {
			hinted = true
		}
	}
	if hinted {
		for _, p := range ix.pages {
			if p.Num == pageHint {
				order = append(order, p)
			}
		}
		for _, p := range ix.pages {
			if p.Num != pageHint {
				order = append(order, p)
			}
		}
	} else {
		order = ix.pages
	}

	for _, page := range order {
		if r := ix.searchQuoteOnPage(page, quote); r != nil {
			return r
		}
	}

	return &QuoteResult{Found: false, Quote: clip(quote, 100)}
}

func (ix *GeometryIndex) searchQuoteOnPage(page GeometryPage, quote string) *QuoteResult {
	idx := strings.Index(strings.ToLower(page.Text), strings.ToLower(quote))
	if idx >= 0 {
		return &QuoteResult{
			Found:       true,
			Page:        page.Num,
			Y:           ix.blockY(page, quote, idx),
			MatchedText: page.Text[idx : idx+len(quote)],
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
	loc := flexRe.FindStringIndex(page.Text)
	if loc == nil {
		return nil
	}

	// Geometry lookup keys off the first three words of the quote.
	y := YScale / 2
	if b := findBlockContaining(page, strings.Join(words[:min(3, len(words))], " ")); b != nil {
		y = normGeomY(b.Y0, page.Height)
	}
	return &QuoteResult{
		Found:       true,
		Page:        page.Num,
		Y:           y,
		MatchedText: clip(page.Text[loc[0]:loc[1]], 200),
	}
}
