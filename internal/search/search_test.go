package search

import (
	"testing"
	"time"

	"github.com/nikbrunner/synthcache/internal/model"
)

func bookmark(id, title string) model.Bookmark {
	return model.Bookmark{
		ID:        id,
		Title:     title,
		URL:       "https://" + id + ".example",
		Tags:      model.TitleTags(title),
		CreatedAt: time.Now(),
	}
}

func TestFuzzySearchBookmarks_EmptyQuery(t *testing.T) {
	results := FuzzySearchBookmarks([]model.Bookmark{bookmark("b1", "GitHub")}, "")

	if len(results) != 0 {
		t.Errorf("expected 0 results for empty query, got %d", len(results))
	}
}

func TestFuzzySearchBookmarks_ExactMatch(t *testing.T) {
	bookmarks := []model.Bookmark{
		bookmark("b1", "GitHub"),
		bookmark("b2", "GitLab"),
	}

	results := FuzzySearchBookmarks(bookmarks, "GitHub")

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Bookmark.ID != "b1" {
		t.Errorf("expected b1, got %s", results[0].Bookmark.ID)
	}
}

func TestFuzzySearchBookmarks_FuzzyMatch(t *testing.T) {
	bookmarks := []model.Bookmark{
		bookmark("b1", "TanStack Router"),
		bookmark("b2", "React Router"),
	}

	// "tanrou" should fuzzy match "TanStack Router"
	results := FuzzySearchBookmarks(bookmarks, "tanrou")

	if len(results) < 1 {
		t.Fatalf("expected at least 1 result for 'tanrou', got %d", len(results))
	}
	if results[0].Bookmark.ID != "b1" {
		t.Errorf("expected TanStack Router as first result, got %s", results[0].Bookmark.Title)
	}
}

func TestFuzzySearchBookmarks_MatchesTags(t *testing.T) {
	bookmarks := []model.Bookmark{
		bookmark("b1", "Effective Go [golang, style]"),
		bookmark("b2", "Rust Book [rust]"),
	}

	results := FuzzySearchBookmarks(bookmarks, "golang")

	if len(results) != 1 || results[0].Bookmark.ID != "b1" {
		t.Fatalf("expected tag match on b1, got %+v", results)
	}
}

func TestFuzzySearchBookmarks_IgnoresTagBrackets(t *testing.T) {
	b := bookmark("b1", "Effective Go [golang, style]")

	if got := Haystack(&b); got != "Effective Go golang style" {
		t.Errorf("Haystack() = %q", got)
	}
}

func TestFuzzySearchBookmarks_MultipleMatches(t *testing.T) {
	bookmarks := []model.Bookmark{
		bookmark("b1", "GitHub"),
		bookmark("b2", "GitLab"),
		bookmark("b3", "Gitea"),
	}

	results := FuzzySearchBookmarks(bookmarks, "git")

	if len(results) != 3 {
		t.Errorf("expected 3 results for 'git', got %d", len(results))
	}
}

func TestFuzzySearchBookmarks_NoMatch(t *testing.T) {
	results := FuzzySearchBookmarks([]model.Bookmark{bookmark("b1", "GitHub")}, "xyz123")

	if len(results) != 0 {
		t.Errorf("expected 0 results for 'xyz123', got %d", len(results))
	}
}

func TestFuzzySearchBookmarks_SortedByScore(t *testing.T) {
	bookmarks := []model.Bookmark{
		bookmark("b1", "React Router Documentation"),
		bookmark("b2", "Router"),
	}

	results := FuzzySearchBookmarks(bookmarks, "router")

	if len(results) < 2 {
		t.Fatalf("expected at least 2 results, got %d", len(results))
	}
	// "Router" should rank higher (exact match) than "React Router Documentation"
	if results[0].Bookmark.ID != "b2" {
		t.Errorf("expected 'Router' as first result (exact match), got %s", results[0].Bookmark.Title)
	}
}
