package model

import "time"

// Bookmark represents a saved URL as held by the bookmark store.
// Tags and FolderType are derived: Tags from the title suffix, FolderType
// from the parent folder against the FolderRegistry.
type Bookmark struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	ParentID   string     `json:"parentId"`
	Tags       []string   `json:"tags"`
	FolderType FolderType `json:"folderType"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// NewBookmarkParams holds parameters for creating a new Bookmark.
type NewBookmarkParams struct {
	Title     string
	URL       string
	ParentID  string
	CreatedAt time.Time // zero = now
}

// NewBookmark creates a Bookmark with a generated ID.
func NewBookmark(params NewBookmarkParams) Bookmark {
	createdAt := params.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return Bookmark{
		ID:        NewID(),
		Title:     params.Title,
		URL:       params.URL,
		ParentID:  params.ParentID,
		Tags:      TitleTags(params.Title),
		CreatedAt: createdAt,
	}
}

// DisplayTitle returns the title without its tag suffix.
func (b Bookmark) DisplayTitle() string {
	return BaseTitle(b.Title)
}

// Annotate fills the derived fields of every bookmark in place.
func Annotate(bookmarks []Bookmark, reg FolderRegistry) {
	for i := range bookmarks {
		bookmarks[i].Tags = TitleTags(bookmarks[i].Title)
		bookmarks[i].FolderType = reg.Classify(bookmarks[i].ParentID)
	}
}
