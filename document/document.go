package document

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// Paper is the contract handed over by the ingestion collaborator after it has
// extracted text from a PDF or HTML source. FullText uses repeated
// "--- Page N ---" markers to delimit physical or virtual pages; the core
// never re-parses the binary source, only this marker-delimited text.
type Paper struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Authors  string `json:"authors,omitempty"`
	Abstract string `json:"abstract,omitempty"`
	FullText string `json:"full_text"`
	NumPages int    `json:"num_pages"`
}

// Figure is a figure or table cropped out of the source by the extraction
// collaborator. The core indexes figure records but never mutates them.
type Figure struct {
	FigIndex int    `json:"fig_index"`
	Filename string `json:"filename"`
	PageNum  int    `json:"page_num"` // 0-based, as emitted by the extractor
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Caption  string `json:"caption"`
}

// Path resolves the figure to the shared store path convention.
func (f Figure) Path(paperID string) string {
	return fmt.Sprintf("/data/figures/%s/%s", paperID, f.Filename)
}

// Page is one page of marker-delimited text.
type Page struct {
	Num  int
	Text string
}

var pageMarkerRe = regexp.MustCompile(`--- Page (\d+) ---\n?`)

// SplitPages re-tokenizes marker-delimited full text into ordered pages.
// Page numbers come from the markers themselves; output is sorted so page
// numbers are contiguous starting at 1 for well-formed input.
func SplitPages(fullText string) []Page {
	locs := pageMarkerRe.FindAllStringSubmatchIndex(fullText, -1)
	if len(locs) == 0 {
		return nil
	}

	byNum := make(map[int]string, len(locs))
	for i, loc := range locs {
		num, err := strconv.Atoi(fullText[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		end := len(fullText)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		byNum[num] = fullText[loc[1]:end]
	}

	nums := make([]int, 0, len(byNum))
	for n := range byNum {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	pages := make([]Page, 0, len(nums))
	for _, n := range nums {
		pages = append(pages, Page{Num: n, Text: byNum[n]})
	}
	return pages
}
