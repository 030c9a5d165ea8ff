package storage

import (
	"context"

	"github.com/nikbrunner/synthcache/internal/model"
)

// BookmarkStore is the bookmark tree the rest of the application reads
// and mutates. Missing items are reported as model.ErrNotFound and
// database failures as *model.HostAPIError.
type BookmarkStore interface {
	FindByURL(ctx context.Context, url string) (model.Bookmark, error)
	SearchURL(ctx context.Context, url string) ([]model.Bookmark, error)
	HasURL(ctx context.Context, url string) (bool, error)
	Move(ctx context.Context, id, folderID string) error
	SetTitle(ctx context.Context, id, title string) error
	ListAll(ctx context.Context) ([]model.Bookmark, error)
	Children(ctx context.Context, folderID string) ([]model.Bookmark, error)
	Create(ctx context.Context, params model.NewBookmarkParams) (model.Bookmark, error)
	Remove(ctx context.Context, id string) error
	ImportBatch(ctx context.Context, batch []model.NewBookmarkParams) ([]model.Bookmark, error)

	CreateFolder(ctx context.Context, params model.NewFolderParams) (model.Folder, error)
	GetFolder(ctx context.Context, id string) (model.Folder, error)
	FindFolder(ctx context.Context, title string, parentID *string) (model.Folder, error)
	ListFolders(ctx context.Context) ([]model.Folder, error)
	Load(ctx context.Context) (*model.Snapshot, error)
}

var _ BookmarkStore = (*SQLiteStorage)(nil)

// OpenStorage opens the bookmark database configured in cfg.
func OpenStorage(cfg Config) (*SQLiteStorage, error) {
	return NewSQLiteStorage(cfg.BookmarksPath())
}
