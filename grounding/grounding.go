// Package grounding post-processes generated reports: it upgrades
// page-only citations with y-positions resolved against the document
// index, and injects fallback citations when the model produced none.
package grounding

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sweetpotato0/deepread/index"
)

// citationRe matches [[p.N "quote"]] citations that still lack a :Y position.
var citationRe = regexp.MustCompile(`\[\[p\.(\d+)\s+"([^"]+)"\]\]`)

// anyCitationRe detects whether the report carries citations at all,
// in either the page-only or positioned form.
var anyCitationRe = regexp.MustCompile(`\[\[p\.\d+`)

var pageMarkerRe = regexp.MustCompile(`--- Page (\d+) ---`)

// Enhance resolves each page-only citation against idx and rewrites it as
// [[p.N:Y "quote"]]. Citations whose quote cannot be located are left
// untouched. A nil index returns the report unchanged.
func Enhance(report string, idx index.Index) string {
	if idx == nil || !citationRe.MatchString(report) {
		return report
	}
	return citationRe.ReplaceAllStringFunc(report, func(match string) string {
		sub := citationRe.FindStringSubmatch(match)
		page := atoi(sub[1])
		quote := sub[2]
		res := idx.LocateQuote(quote, page)
		if res == nil || !res.Found {
			return match
		}
		return fmt.Sprintf(`[[p.%d:%d "%s"]]`, res.Page, res.Y, quote)
	})
}

// InjectFallback appends page-only citations to body lines when the model
// produced no citations at all. Each substantive line is aligned against
// the full text by its leading 8, 5, then 3 words; the page comes from the
// last "--- Page N ---" marker before the earliest occurrence. Reports that
// already contain any citation are returned unchanged.
func InjectFallback(report, fullText string) string {
	if anyCitationRe.MatchString(report) {
		return report
	}
	markers := pageMarkerRe.FindAllStringSubmatchIndex(fullText, -1)
	if len(markers) == 0 {
		return report
	}

	lines := strings.Split(report, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "#") ||
			strings.HasPrefix(stripped, "!") || len(stripped) < 30 {
			out = append(out, line)
			continue
		}
		page, quote := findPage(stripped, fullText, markers)
		if page > 0 {
			if quote != "" {
				line = line + fmt.Sprintf(` [[p.%d "%s"]]`, page, quote)
			} else {
				line = line + fmt.Sprintf(" [[p.%d]]", page)
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// findPage aligns a report line with the source text by shrinking word
// prefixes and maps the earliest match position to its page marker.
func findPage(line, fullText string, markers [][]int) (int, string) {
	words := strings.Fields(line)
	for _, length := range []int{8, 5, 3} {
		if len(words) < length {
			continue
		}
		phrase := strings.Join(words[:length], " ")
		pos := strings.Index(fullText, phrase)
		if pos < 0 {
			continue
		}
		page := 1
		for _, m := range markers {
			if m[0] > pos {
				break
			}
			page = atoi(fullText[m[2]:m[3]])
		}
		return page, phrase
	}
	return 0, ""
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
