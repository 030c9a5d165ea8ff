// Package search ranks bookmarks against a fuzzy query.
package search

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/synthcache/internal/model"
)

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Bookmark       *model.Bookmark
	MatchedIndexes []int // into Haystack(Bookmark)
	Score          int
}

// Haystack is the text a bookmark is matched against: its display title
// followed by its tags.
func Haystack(b *model.Bookmark) string {
	if len(b.Tags) == 0 {
		return b.DisplayTitle()
	}
	return b.DisplayTitle() + " " + strings.Join(b.Tags, " ")
}

// bookmarkSource implements fuzzy.Source for a bookmark slice.
type bookmarkSource []*model.Bookmark

func (bs bookmarkSource) String(i int) string {
	return Haystack(bs[i])
}

func (bs bookmarkSource) Len() int {
	return len(bs)
}

// FuzzySearchBookmarks searches the given bookmarks by title and tags.
// The caller passes only bookmarks visible in the current mode.
// Returns results sorted by match score (best first).
func FuzzySearchBookmarks(bookmarks []model.Bookmark, query string) []SearchResult {
	if query == "" {
		return nil
	}

	source := make(bookmarkSource, len(bookmarks))
	for i := range bookmarks {
		source[i] = &bookmarks[i]
	}

	matches := fuzzy.FindFrom(query, source)

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Bookmark:       source[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}
