package router

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/nikbrunner/synthcache/internal/model"
)

type fakeStore struct {
	bookmarks map[string]*model.Bookmark // keyed by URL
	moves     int
	retitles  int
	moveErr   error
	titleErr  error
}

func newFakeStore(bs ...model.Bookmark) *fakeStore {
	s := &fakeStore{bookmarks: make(map[string]*model.Bookmark)}
	for i := range bs {
		b := bs[i]
		s.bookmarks[b.URL] = &b
	}
	return s
}

func (s *fakeStore) FindByURL(_ context.Context, url string) (model.Bookmark, error) {
	b, ok := s.bookmarks[url]
	if !ok {
		return model.Bookmark{}, model.ErrNotFound
	}
	return *b, nil
}

func (s *fakeStore) byID(id string) *model.Bookmark {
	for _, b := range s.bookmarks {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (s *fakeStore) Move(_ context.Context, id, folderID string) error {
	if s.moveErr != nil {
		return s.moveErr
	}
	s.moves++
	s.byID(id).ParentID = folderID
	return nil
}

func (s *fakeStore) SetTitle(_ context.Context, id, title string) error {
	if s.titleErr != nil {
		return s.titleErr
	}
	s.retitles++
	s.byID(id).Title = title
	return nil
}

var reg = model.FolderRegistry{NormalFolderID: "normal", NSFWHiddenFolderID: "private"}

func TestRoute(t *testing.T) {
	tests := []struct {
		existing model.FolderType
		hasVideo bool
		want     model.FolderType
	}{
		{model.FolderOther, false, model.FolderNormal},
		{model.FolderOther, true, model.FolderNSFWHidden},
		{model.FolderNormal, false, model.FolderNormal},
		{model.FolderNormal, true, model.FolderNSFWHidden},
		{model.FolderNSFWHidden, false, model.FolderNSFWHidden},
		{model.FolderNSFWHidden, true, model.FolderNSFWHidden},
	}

	for _, tt := range tests {
		if got := Route(tt.existing, tt.hasVideo); got != tt.want {
			t.Errorf("Route(%v, %v) = %v, want %v", tt.existing, tt.hasVideo, got, tt.want)
		}
	}
}

func TestAssembleTags(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		target   model.FolderType
		want     []string
	}{
		{"normal keeps keywords", []string{"golang", "docs"}, model.FolderNormal, []string{"golang", "docs"}},
		{"caps extracted keywords", []string{"aaaa", "bbbb", "cccc", "dddd", "eeee", "ffff"}, model.FolderNormal, []string{"aaaa", "bbbb", "cccc", "dddd", "eeee"}},
		{"private appends nsfw past cap", []string{"aaaa", "bbbb", "cccc", "dddd", "eeee"}, model.FolderNSFWHidden, []string{"aaaa", "bbbb", "cccc", "dddd", "eeee", "nsfw"}},
		{"nsfw not duplicated", []string{"nsfw", "clips"}, model.FolderNSFWHidden, []string{"nsfw", "clips"}},
		{"no keywords private", nil, model.FolderNSFWHidden, []string{"nsfw"}},
		{"no keywords normal", nil, model.FolderNormal, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssembleTags(tt.keywords, tt.target)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AssembleTags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRewriteTitle_RoundTrip(t *testing.T) {
	title := RewriteTitle("Example Domain [old, stale]", []string{"a", "b"})
	if title != "Example Domain [a, b]" {
		t.Fatalf("RewriteTitle() = %q", title)
	}
	if got := model.TitleTags(title); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("TitleTags() = %v, want [a b]", got)
	}
}

func TestApply_NoBookmark(t *testing.T) {
	store := newFakeStore()
	r := New(store, nil)

	out, err := r.Apply(context.Background(), reg, Signal{URL: "https://missing.example"})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if out.Result != OutcomeNoBookmark {
		t.Errorf("expected no-bookmark outcome, got %v", out.Result)
	}
}

func TestApply_MovesAndRetitles(t *testing.T) {
	store := newFakeStore(model.Bookmark{ID: "b1", URL: "https://go.dev", Title: "Go", ParentID: "other"})
	r := New(store, nil)

	out, err := r.Apply(context.Background(), reg, Signal{URL: "https://go.dev", Keywords: []string{"golang"}})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if out.Result != OutcomeUpdated || !out.Moved || !out.Retitled {
		t.Errorf("unexpected outcome %+v", out)
	}
	b := store.bookmarks["https://go.dev"]
	if b.ParentID != "normal" || b.Title != "Go [golang]" {
		t.Errorf("unexpected bookmark state %+v", b)
	}
}

func TestApply_Idempotent(t *testing.T) {
	store := newFakeStore(model.Bookmark{ID: "b1", URL: "https://clips.example", Title: "Clips", ParentID: "normal"})
	r := New(store, nil)
	sig := Signal{URL: "https://clips.example", Keywords: []string{"clips"}, HasVideo: true}

	if _, err := r.Apply(context.Background(), reg, sig); err != nil {
		t.Fatal(err)
	}
	moves, retitles := store.moves, store.retitles

	out, err := r.Apply(context.Background(), reg, sig)
	if err != nil {
		t.Fatal(err)
	}
	if store.moves != moves || store.retitles != retitles {
		t.Errorf("second pass made calls: moves %d->%d, retitles %d->%d", moves, store.moves, retitles, store.retitles)
	}
	if out.Result != OutcomeUnchanged {
		t.Errorf("expected unchanged, got %v", out.Result)
	}
	if got := store.bookmarks["https://clips.example"].Title; got != "Clips [clips, nsfw]" {
		t.Errorf("unexpected title %q", got)
	}
}

func TestApply_PrivateIsSticky(t *testing.T) {
	store := newFakeStore(model.Bookmark{ID: "b1", URL: "https://x.example", Title: "X [nsfw]", ParentID: "private"})
	r := New(store, nil)

	out, err := r.Apply(context.Background(), reg, Signal{URL: "https://x.example"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Target != model.FolderNSFWHidden || out.Moved {
		t.Errorf("private bookmark should stay put, got %+v", out)
	}
	if store.bookmarks["https://x.example"].ParentID != "private" {
		t.Error("bookmark left the private folder")
	}
}

func TestApply_NoTagsLeavesTitle(t *testing.T) {
	store := newFakeStore(model.Bookmark{ID: "b1", URL: "https://go.dev", Title: "Go [keep]", ParentID: "normal"})
	r := New(store, nil)

	out, err := r.Apply(context.Background(), reg, Signal{URL: "https://go.dev"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Retitled || store.retitles != 0 {
		t.Error("title must not change without tags")
	}
}

func TestApply_StoreFailure(t *testing.T) {
	boom := errors.New("permission denied")
	store := newFakeStore(model.Bookmark{ID: "b1", URL: "https://go.dev", Title: "Go", ParentID: "other"})
	store.moveErr = boom
	r := New(store, nil)

	_, err := r.Apply(context.Background(), reg, Signal{URL: "https://go.dev", HasVideo: true})

	var rerr *RouteError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RouteError, got %v", err)
	}
	if rerr.Op != "move" || rerr.BookmarkID != "b1" || rerr.TargetFolderID != "private" || rerr.Target != model.FolderNSFWHidden {
		t.Errorf("unexpected error context %+v", rerr)
	}
	if !errors.Is(err, boom) {
		t.Error("expected cause to be wrapped")
	}
}

func TestApply_TitleFailure(t *testing.T) {
	store := newFakeStore(model.Bookmark{ID: "b1", URL: "https://go.dev", Title: "Go", ParentID: "normal"})
	store.titleErr = errors.New("quota")
	r := New(store, nil)

	_, err := r.Apply(context.Background(), reg, Signal{URL: "https://go.dev", Keywords: []string{"golang"}})

	var rerr *RouteError
	if !errors.As(err, &rerr) || rerr.Op != "set_title" {
		t.Fatalf("expected set_title RouteError, got %v", err)
	}
}
