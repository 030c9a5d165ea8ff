package service

import (
	"context"
	"fmt"

	"github.com/nikbrunner/synthcache/internal/diag"
	"github.com/nikbrunner/synthcache/internal/exporter"
	"github.com/nikbrunner/synthcache/internal/model"
	"github.com/nikbrunner/synthcache/internal/search"
	"github.com/nikbrunner/synthcache/internal/visibility"
)

// snapshot loads the bookmark tree with tags and folder types filled in.
func (s *Service) snapshot(ctx context.Context) (*model.Snapshot, error) {
	reg, err := s.folders(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading bookmarks: %w", err)
	}
	model.Annotate(snap.Bookmarks, reg)
	return snap, nil
}

// Bookmarks returns every stored bookmark with its tags and folder type
// filled in. Callers filter the result through the visibility package.
func (s *Service) Bookmarks(ctx context.Context) ([]model.Bookmark, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Bookmarks, nil
}

// List returns the bookmarks visible under mode and filters, with tags
// scrubbed for display.
func (s *Service) List(ctx context.Context, mode model.PrivacyMode, f visibility.Filters) ([]model.Bookmark, error) {
	all, err := s.Bookmarks(ctx)
	if err != nil {
		return nil, err
	}
	return visible(all, mode, f), nil
}

func visible(all []model.Bookmark, mode model.PrivacyMode, f visibility.Filters) []model.Bookmark {
	list := visibility.Apply(all, mode, f)
	for i := range list {
		list[i].Tags = visibility.DisplayTags(list[i], mode)
	}
	return list
}

// Recent returns up to limit accessible bookmarks, newest first.
func (s *Service) Recent(ctx context.Context, mode model.PrivacyMode, limit int) ([]model.Bookmark, error) {
	f := visibility.ForMode(visibility.Filters{ShowNormal: true, ShowNSFW: true, Sort: visibility.SortDate}, mode)
	list, err := s.List(ctx, mode, f)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// Tags returns the tag cloud for mode.
func (s *Service) Tags(ctx context.Context, mode model.PrivacyMode, limit int) ([]visibility.TagCount, error) {
	all, err := s.Bookmarks(ctx)
	if err != nil {
		return nil, err
	}
	return visibility.TagCloud(all, mode, limit), nil
}

// Stats returns bookmark counts for mode.
func (s *Service) Stats(ctx context.Context, mode model.PrivacyMode) (visibility.Stats, error) {
	all, err := s.Bookmarks(ctx)
	if err != nil {
		return visibility.Stats{}, err
	}
	return visibility.Summarize(all, mode), nil
}

// QuickSearch fuzzy-matches the bookmarks accessible under mode.
func (s *Service) QuickSearch(ctx context.Context, mode model.PrivacyMode, query string) ([]search.SearchResult, error) {
	f := visibility.ForMode(visibility.Filters{ShowNormal: true, ShowNSFW: true}, mode)
	list, err := s.List(ctx, mode, f)
	if err != nil {
		return nil, err
	}
	return search.FuzzySearchBookmarks(list, query), nil
}

// Export renders the bookmarks visible under mode and filters as
// Netscape bookmark HTML.
func (s *Service) Export(ctx context.Context, mode model.PrivacyMode, f visibility.Filters) (string, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return "", err
	}
	return exporter.ExportHTML(snap.Subset(visible(snap.Bookmarks, mode, f))), nil
}

// SaveDiagnostics writes the captured diagnostic records to the
// diagnostics directory.
func (s *Service) SaveDiagnostics() ([]string, error) {
	if s.ring == nil {
		return nil, nil
	}
	return s.ring.Save(s.cfg.DiagnosticsDir, s.now())
}

// ClearDiagnostics drops the captured diagnostic records.
func (s *Service) ClearDiagnostics() {
	if s.ring != nil {
		s.ring.Clear()
	}
}

// CategoryCount is the number of captured records in one category.
type CategoryCount struct {
	Category diag.Category `json:"category"`
	Count    int           `json:"count"`
}

// DiagnosticCounts reports how many records each category holds.
func (s *Service) DiagnosticCounts() []CategoryCount {
	out := []CategoryCount{}
	if s.ring == nil {
		return out
	}
	counts := s.ring.Counts()
	for _, c := range diag.Categories {
		out = append(out, CategoryCount{Category: c, Count: counts[c]})
	}
	return out
}
