// Package visibility decides which bookmarks a listing may show under a
// privacy mode.
package visibility

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/nikbrunner/synthcache/internal/model"
)

// DefaultTagCloudSize is the number of tags shown in the tag cloud.
const DefaultTagCloudSize = 20

// PrivateTerms mark tags that are never shown or filterable in normal mode.
var PrivateTerms = []string{"nsfw", "adult", "xxx", "porn", "explicit", "mature", "erotic"}

// ErrPrivateTag is returned when adding a private-term tag filter in
// normal mode.
var ErrPrivateTag = errors.New("tag filter not allowed in normal mode")

// SortMode selects the listing order.
type SortMode string

const (
	SortTitle  SortMode = "title"
	SortDate   SortMode = "date"
	SortFolder SortMode = "folder"
	SortTags   SortMode = "tags"
)

// ParseSortMode accepts the sort names; empty means SortTitle.
func ParseSortMode(s string) (SortMode, error) {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return SortTitle, nil
	case SortTitle, SortDate, SortFolder, SortTags:
		return m, nil
	default:
		return "", fmt.Errorf("unknown sort mode %q", s)
	}
}

// Filters are the active listing controls.
type Filters struct {
	Search     string   `json:"search"`
	ShowNormal bool     `json:"showNormal"`
	ShowNSFW   bool     `json:"showNsfw"`
	Tags       []string `json:"tags"`
	Sort       SortMode `json:"sort"`
}

// DefaultFilters shows normal bookmarks sorted by title.
func DefaultFilters() Filters {
	return Filters{ShowNormal: true, Sort: SortTitle}
}

// IsPrivateTag reports whether tag contains one of the PrivateTerms.
func IsPrivateTag(tag string) bool {
	lower := strings.ToLower(tag)
	for _, term := range PrivateTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// AddTagFilter returns f with tag added. In normal mode private tags are
// refused with ErrPrivateTag. Adding a tag already present is a no-op.
func AddTagFilter(f Filters, mode model.PrivacyMode, tag string) (Filters, error) {
	if mode == model.ModeNormal && IsPrivateTag(tag) {
		return f, ErrPrivateTag
	}
	if slices.Contains(f.Tags, tag) {
		return f, nil
	}
	f.Tags = append(slices.Clone(f.Tags), tag)
	return f, nil
}

// ToggleTagFilter adds tag, or removes it when already active.
func ToggleTagFilter(f Filters, mode model.PrivacyMode, tag string) (Filters, error) {
	if i := slices.Index(f.Tags, tag); i >= 0 {
		f.Tags = slices.Delete(slices.Clone(f.Tags), i, i+1)
		return f, nil
	}
	return AddTagFilter(f, mode, tag)
}

// ForMode drops filter state that does not apply to mode: in normal mode
// the NSFW toggle is cleared and private tag filters are removed.
func ForMode(f Filters, mode model.PrivacyMode) Filters {
	if mode == model.ModeIncognito {
		return f
	}
	f.ShowNSFW = false
	f.Tags = ScrubTags(f.Tags, mode)
	return f
}

// ScrubTags removes private tags in normal mode.
func ScrubTags(tags []string, mode model.PrivacyMode) []string {
	if mode == model.ModeIncognito {
		return tags
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !IsPrivateTag(t) {
			out = append(out, t)
		}
	}
	return out
}

// Accessible returns the bookmarks the mode may ever see: everything in
// incognito, everything outside the private folder in normal mode.
func Accessible(bookmarks []model.Bookmark, mode model.PrivacyMode) []model.Bookmark {
	out := make([]model.Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if mode == model.ModeNormal && b.FolderType == model.FolderNSFWHidden {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Apply filters and sorts bookmarks. The input slice is not modified.
func Apply(bookmarks []model.Bookmark, mode model.PrivacyMode, f Filters) []model.Bookmark {
	f = ForMode(f, mode)
	search := strings.ToLower(f.Search)

	out := make([]model.Bookmark, 0, len(bookmarks))
	for _, b := range Accessible(bookmarks, mode) {
		switch b.FolderType {
		case model.FolderNormal:
			if !f.ShowNormal {
				continue
			}
		case model.FolderNSFWHidden:
			if !f.ShowNSFW {
				continue
			}
		}
		if search != "" && !matchesSearch(b, search) {
			continue
		}
		if !matchesAllTags(b, f.Tags) {
			continue
		}
		out = append(out, b)
	}

	Sort(out, f.Sort)
	return out
}

func matchesSearch(b model.Bookmark, needle string) bool {
	if strings.Contains(strings.ToLower(b.Title), needle) || strings.Contains(strings.ToLower(b.URL), needle) {
		return true
	}
	for _, t := range b.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

func matchesAllTags(b model.Bookmark, filters []string) bool {
	for _, f := range filters {
		needle := strings.ToLower(f)
		found := false
		for _, t := range b.Tags {
			if strings.Contains(strings.ToLower(t), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Sort orders bookmarks in place; ties keep their input order.
func Sort(bookmarks []model.Bookmark, mode SortMode) {
	var less func(a, b model.Bookmark) bool
	switch mode {
	case SortDate:
		less = func(a, b model.Bookmark) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortFolder:
		less = func(a, b model.Bookmark) bool { return a.FolderType.String() < b.FolderType.String() }
	case SortTags:
		less = func(a, b model.Bookmark) bool { return len(a.Tags) > len(b.Tags) }
	default:
		less = func(a, b model.Bookmark) bool {
			return strings.ToLower(a.DisplayTitle()) < strings.ToLower(b.DisplayTitle())
		}
	}
	sort.SliceStable(bookmarks, func(i, j int) bool {
		return less(bookmarks[i], bookmarks[j])
	})
}

// TagCount is one tag cloud entry.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TagCloud counts tags across the accessible bookmarks, most frequent
// first, ties in first-seen order. Private tags are scrubbed in normal
// mode. limit <= 0 means DefaultTagCloudSize.
func TagCloud(bookmarks []model.Bookmark, mode model.PrivacyMode, limit int) []TagCount {
	if limit <= 0 {
		limit = DefaultTagCloudSize
	}

	index := make(map[string]int)
	var cloud []TagCount
	for _, b := range Accessible(bookmarks, mode) {
		for _, t := range ScrubTags(b.Tags, mode) {
			if i, ok := index[t]; ok {
				cloud[i].Count++
				continue
			}
			index[t] = len(cloud)
			cloud = append(cloud, TagCount{Tag: t, Count: 1})
		}
	}

	sort.SliceStable(cloud, func(i, j int) bool {
		return cloud[i].Count > cloud[j].Count
	})
	if len(cloud) > limit {
		cloud = cloud[:limit]
	}
	return cloud
}

// Stats summarizes the accessible bookmarks. Private is only reported in
// incognito mode.
type Stats struct {
	Total   int  `json:"total"`
	Tagged  int  `json:"tagged"`
	Private *int `json:"private,omitempty"`
}

// Summarize computes Stats for mode.
func Summarize(bookmarks []model.Bookmark, mode model.PrivacyMode) Stats {
	var s Stats
	private := 0
	for _, b := range Accessible(bookmarks, mode) {
		s.Total++
		if len(b.Tags) > 0 {
			s.Tagged++
		}
		if b.FolderType == model.FolderNSFWHidden {
			private++
		}
	}
	if mode == model.ModeIncognito {
		s.Private = &private
	}
	return s
}

// DisplayTags returns the tags a bookmark may show under mode.
func DisplayTags(b model.Bookmark, mode model.PrivacyMode) []string {
	return ScrubTags(b.Tags, mode)
}
