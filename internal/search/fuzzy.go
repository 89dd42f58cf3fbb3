package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/fjvi/bm/internal/model"
)

// FuzzyMatch represents a fuzzy search match.
type FuzzyMatch struct {
	Entry          model.FlatEntry
	MatchedIndexes []int
	Score          int
}

// linkTitles implements fuzzy.Source over the link entries of an index.
type linkTitles []model.FlatEntry

func (lt linkTitles) String(i int) string {
	return lt[i].Title
}

func (lt linkTitles) Len() int {
	return len(lt)
}

// Fuzzy searches link entries by title using fuzzy matching.
// Returns results sorted by match score (best first).
func Fuzzy(index []model.FlatEntry, query string) []FuzzyMatch {
	if query == "" {
		return nil
	}

	links := make(linkTitles, 0, len(index))
	for _, e := range index {
		if e.IsLink() {
			links = append(links, e)
		}
	}

	matches := fuzzy.FindFrom(query, links)

	results := make([]FuzzyMatch, len(matches))
	for i, m := range matches {
		results[i] = FuzzyMatch{
			Entry:          links[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
