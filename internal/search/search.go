package search

import (
	"html"
	"strings"

	"golang.org/x/text/cases"

	"github.com/fjvi/bm/internal/model"
)

// Normalize trims and case-folds a keyword. An empty result means no
// search is active.
func Normalize(keyword string) string {
	return fold(strings.TrimSpace(keyword))
}

// Search returns the index entries whose title or URL contains the
// keyword, case-insensitively, in index order. active is false when the
// keyword normalizes to empty; callers show the full tree in that case
// rather than an empty result list.
func Search(index []model.FlatEntry, keyword string) (matches []model.FlatEntry, active bool) {
	needle := Normalize(keyword)
	if needle == "" {
		return nil, false
	}

	caser := cases.Fold()
	matches = []model.FlatEntry{}
	for _, e := range index {
		if strings.Contains(caser.String(e.Title), needle) ||
			(e.URL != "" && strings.Contains(caser.String(e.URL), needle)) {
			matches = append(matches, e)
		}
	}
	return matches, true
}

// Segment is a run of a title, either matching the keyword or not.
type Segment struct {
	Text  string
	Match bool
}

// Segments splits title into runs, marking every non-overlapping
// case-insensitive occurrence of keyword. The keyword is matched
// literally. An empty keyword yields the whole title unmatched.
func Segments(title, keyword string) []Segment {
	needle := Normalize(keyword)
	if title == "" {
		return nil
	}
	if needle == "" {
		return []Segment{{Text: title}}
	}

	// Fold rune by rune, remembering which original rune each folded byte
	// came from so match offsets map back onto the untouched title.
	caser := cases.Fold()
	var folded strings.Builder
	var origin []span
	for i, r := range title {
		f := caser.String(string(r))
		end := i + len(string(r))
		for range len(f) {
			origin = append(origin, span{i, end})
		}
		folded.WriteString(f)
	}
	haystack := folded.String()

	var result []Segment
	last := 0
	for pos := 0; pos < len(haystack); {
		idx := strings.Index(haystack[pos:], needle)
		if idx < 0 {
			break
		}
		fs := pos + idx
		fe := fs + len(needle)
		start, end := origin[fs].start, origin[fe-1].end
		pos = fe
		if start < last {
			continue
		}
		if start > last {
			result = append(result, Segment{Text: title[last:start]})
		}
		result = append(result, Segment{Text: title[start:end], Match: true})
		last = end
	}
	if last < len(title) {
		result = append(result, Segment{Text: title[last:]})
	}
	return result
}

// HighlightHTML renders title with every occurrence of keyword wrapped in
// <mark>. All text, matched or not, is HTML-escaped.
func HighlightHTML(title, keyword string) string {
	var b strings.Builder
	for _, s := range Segments(title, keyword) {
		if s.Match {
			b.WriteString("<mark>")
			b.WriteString(html.EscapeString(s.Text))
			b.WriteString("</mark>")
			continue
		}
		b.WriteString(html.EscapeString(s.Text))
	}
	return b.String()
}

type span struct {
	start, end int
}

func fold(s string) string {
	return cases.Fold().String(s)
}
