package visibility

import (
	"errors"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/synthcache/internal/model"
)

var base = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func fixture() []model.Bookmark {
	return []model.Bookmark{
		{ID: "n1", Title: "Go Docs", URL: "https://go.dev", Tags: []string{"golang", "docs"}, FolderType: model.FolderNormal, CreatedAt: base},
		{ID: "n2", Title: "Rust Book", URL: "https://doc.rust-lang.org", Tags: []string{"rust"}, FolderType: model.FolderNormal, CreatedAt: base.Add(time.Hour)},
		{ID: "p1", Title: "Clips", URL: "https://clips.example", Tags: []string{"clips", "nsfw"}, FolderType: model.FolderNSFWHidden, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "p2", Title: "Golang Streams", URL: "https://streams.example", Tags: []string{"golang", "adultswim"}, FolderType: model.FolderNSFWHidden, CreatedAt: base.Add(3 * time.Hour)},
		{ID: "o1", Title: "Apple", URL: "https://apple.com", Tags: nil, FolderType: model.FolderOther, CreatedAt: base.Add(-time.Hour)},
	}
}

func ids(bs []model.Bookmark) []string {
	out := []string{}
	for _, b := range bs {
		out = append(out, b.ID)
	}
	return out
}

func TestApply_NormalModeHidesPrivate(t *testing.T) {
	toggles := []Filters{
		{ShowNormal: true, ShowNSFW: true},
		{ShowNormal: true, ShowNSFW: false},
		{ShowNormal: false, ShowNSFW: true},
		{ShowNSFW: true, Search: "golang"},
		{ShowNSFW: true, Search: "clips"},
		{ShowNSFW: true, Tags: []string{"golang"}},
	}

	for _, f := range toggles {
		for _, b := range Apply(fixture(), model.ModeNormal, f) {
			if b.FolderType == model.FolderNSFWHidden {
				t.Errorf("filters %+v leaked private bookmark %s", f, b.ID)
			}
		}
	}

	for _, tc := range TagCloud(fixture(), model.ModeNormal, 0) {
		if tc.Tag == "clips" {
			t.Error("tag cloud leaked a tag only used by private bookmarks")
		}
	}
}

func TestApply_Toggles(t *testing.T) {
	tests := []struct {
		name string
		mode model.PrivacyMode
		f    Filters
		want []string
	}{
		{"normal mode defaults", model.ModeNormal, DefaultFilters(), []string{"o1", "n1", "n2"}},
		{"normal toggle off keeps other", model.ModeNormal, Filters{}, []string{"o1"}},
		{"incognito with nsfw", model.ModeIncognito, Filters{ShowNormal: true, ShowNSFW: true}, []string{"o1", "p1", "n1", "p2", "n2"}},
		{"incognito nsfw only", model.ModeIncognito, Filters{ShowNSFW: true}, []string{"o1", "p1", "p2"}},
		{"incognito without nsfw", model.ModeIncognito, Filters{ShowNormal: true}, []string{"o1", "n1", "n2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(fixture(), tt.mode, tt.f))
			assert.DeepEqual(t, got, tt.want)
		})
	}
}

func TestApply_SearchAndTags(t *testing.T) {
	all := Filters{ShowNormal: true, ShowNSFW: true}

	f := all
	f.Search = "RUST"
	assert.DeepEqual(t, ids(Apply(fixture(), model.ModeIncognito, f)), []string{"n2"})

	f = all
	f.Search = "apple.com"
	assert.DeepEqual(t, ids(Apply(fixture(), model.ModeIncognito, f)), []string{"o1"})

	f = all
	f.Tags = []string{"go", "doc"}
	assert.DeepEqual(t, ids(Apply(fixture(), model.ModeIncognito, f)), []string{"n1"})

	f = all
	f.Tags = []string{"golang"}
	assert.DeepEqual(t, ids(Apply(fixture(), model.ModeIncognito, f)), []string{"n1", "p2"})
}

func TestApply_NormalModeIgnoresPrivateTagFilters(t *testing.T) {
	f := Filters{ShowNormal: true, Tags: []string{"nsfw"}}
	got := ids(Apply(fixture(), model.ModeNormal, f))
	assert.DeepEqual(t, got, []string{"o1", "n1", "n2"})
}

func TestSort(t *testing.T) {
	tests := []struct {
		mode SortMode
		want []string
	}{
		{SortTitle, []string{"o1", "p1", "n1", "p2", "n2"}},
		{SortDate, []string{"p2", "p1", "n2", "n1", "o1"}},
		{SortFolder, []string{"n1", "n2", "p1", "p2", "o1"}},
		{SortTags, []string{"n1", "p1", "p2", "n2", "o1"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			bs := fixture()
			Sort(bs, tt.mode)
			assert.DeepEqual(t, ids(bs), tt.want)
		})
	}
}

func TestAddTagFilter(t *testing.T) {
	f := DefaultFilters()

	_, err := AddTagFilter(f, model.ModeNormal, "NSFW-clips")
	if !errors.Is(err, ErrPrivateTag) {
		t.Errorf("expected ErrPrivateTag, got %v", err)
	}

	f, err = AddTagFilter(f, model.ModeIncognito, "nsfw")
	assert.NilError(t, err)
	f, err = AddTagFilter(f, model.ModeNormal, "golang")
	assert.NilError(t, err)
	f, err = AddTagFilter(f, model.ModeNormal, "golang")
	assert.NilError(t, err)
	assert.DeepEqual(t, f.Tags, []string{"nsfw", "golang"})

	f, err = ToggleTagFilter(f, model.ModeNormal, "nsfw")
	assert.NilError(t, err)
	assert.DeepEqual(t, f.Tags, []string{"golang"})
}

func TestTagCloud(t *testing.T) {
	normal := TagCloud(fixture(), model.ModeNormal, 0)
	assert.DeepEqual(t, normal, []TagCount{{"golang", 1}, {"docs", 1}, {"rust", 1}})

	incognito := TagCloud(fixture(), model.ModeIncognito, 0)
	assert.DeepEqual(t, incognito[0], TagCount{"golang", 2})
	assert.Check(t, is.Len(incognito, 6))

	limited := TagCloud(fixture(), model.ModeIncognito, 2)
	assert.Check(t, is.Len(limited, 2))
}

func TestSummarize(t *testing.T) {
	normal := Summarize(fixture(), model.ModeNormal)
	assert.Equal(t, normal.Total, 3)
	assert.Equal(t, normal.Tagged, 2)
	assert.Check(t, normal.Private == nil)

	incognito := Summarize(fixture(), model.ModeIncognito)
	assert.Equal(t, incognito.Total, 5)
	assert.Equal(t, incognito.Tagged, 4)
	assert.Equal(t, *incognito.Private, 2)
}

func TestDisplayTags(t *testing.T) {
	b := model.Bookmark{Tags: []string{"clips", "nsfw", "matureaudience"}}
	assert.DeepEqual(t, DisplayTags(b, model.ModeNormal), []string{"clips"})
	assert.DeepEqual(t, DisplayTags(b, model.ModeIncognito), b.Tags)
}

func TestParseSortMode(t *testing.T) {
	m, err := ParseSortMode("")
	assert.NilError(t, err)
	assert.Equal(t, m, SortTitle)

	m, err = ParseSortMode("Tags")
	assert.NilError(t, err)
	assert.Equal(t, m, SortTags)

	_, err = ParseSortMode("random")
	assert.Check(t, err != nil)
}
