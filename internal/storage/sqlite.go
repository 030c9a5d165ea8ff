package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/synthcache/internal/model"
)

// SQLiteStorage is the bookmark store, backed by a SQLite database.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage opens or creates the database at path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (s *SQLiteStorage) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS folders (
			id TEXT PRIMARY KEY NOT NULL,
			title TEXT NOT NULL,
			parent_id TEXT,
			created_at TEXT NOT NULL,
			FOREIGN KEY (parent_id) REFERENCES folders(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_folders_parent_id ON folders(parent_id);

		CREATE TABLE IF NOT EXISTS bookmarks (
			id TEXT PRIMARY KEY NOT NULL,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			parent_id TEXT,
			created_at TEXT NOT NULL,
			FOREIGN KEY (parent_id) REFERENCES folders(id) ON DELETE SET NULL
		);

		CREATE INDEX IF NOT EXISTS idx_bookmarks_parent_id ON bookmarks(parent_id);
		CREATE INDEX IF NOT EXISTS idx_bookmarks_url ON bookmarks(url);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

func hostErr(op, id string, err error) error {
	return &model.HostAPIError{Op: op, ID: id, Err: err}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

type scanner interface {
	Scan(dest ...any) error
}

const bookmarkColumns = "id, title, url, parent_id, created_at"

func scanBookmark(row scanner) (model.Bookmark, error) {
	var b model.Bookmark
	var parentID sql.NullString
	var createdAt string
	if err := row.Scan(&b.ID, &b.Title, &b.URL, &parentID, &createdAt); err != nil {
		return b, err
	}
	b.ParentID = parentID.String
	b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	b.Tags = model.TitleTags(b.Title)
	return b, nil
}

func scanFolder(row scanner) (model.Folder, error) {
	var f model.Folder
	var parentID sql.NullString
	var createdAt string
	if err := row.Scan(&f.ID, &f.Title, &parentID, &createdAt); err != nil {
		return f, err
	}
	if parentID.Valid {
		f.ParentID = &parentID.String
	}
	f.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return f, nil
}

func (s *SQLiteStorage) queryBookmarks(ctx context.Context, op, query string, args ...any) ([]model.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, hostErr(op, "", err)
	}
	defer rows.Close()

	bookmarks := []model.Bookmark{}
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, hostErr(op, "", err)
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, hostErr(op, "", err)
	}
	return bookmarks, nil
}

// FindByURL returns the oldest bookmark saved under url, or
// model.ErrNotFound.
func (s *SQLiteStorage) FindByURL(ctx context.Context, url string) (model.Bookmark, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+bookmarkColumns+" FROM bookmarks WHERE url = ? ORDER BY created_at, rowid LIMIT 1", url)
	b, err := scanBookmark(row)
	if errors.Is(err, sql.ErrNoRows) {
		return b, fmt.Errorf("bookmark for %s: %w", url, model.ErrNotFound)
	}
	if err != nil {
		return b, hostErr("find", url, err)
	}
	return b, nil
}

// SearchURL returns every bookmark saved under url.
func (s *SQLiteStorage) SearchURL(ctx context.Context, url string) ([]model.Bookmark, error) {
	return s.queryBookmarks(ctx, "search",
		"SELECT "+bookmarkColumns+" FROM bookmarks WHERE url = ? ORDER BY created_at, rowid", url)
}

// HasURL reports whether any bookmark is saved under url.
func (s *SQLiteStorage) HasURL(ctx context.Context, url string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookmarks WHERE url = ?", url).Scan(&n); err != nil {
		return false, hostErr("search", url, err)
	}
	return n > 0, nil
}

// GetBookmark returns a bookmark by id, or model.ErrNotFound.
func (s *SQLiteStorage) GetBookmark(ctx context.Context, id string) (model.Bookmark, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+bookmarkColumns+" FROM bookmarks WHERE id = ?", id)
	b, err := scanBookmark(row)
	if errors.Is(err, sql.ErrNoRows) {
		return b, fmt.Errorf("bookmark %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return b, hostErr("get", id, err)
	}
	return b, nil
}

// ListAll returns every bookmark, oldest first.
func (s *SQLiteStorage) ListAll(ctx context.Context) ([]model.Bookmark, error) {
	return s.queryBookmarks(ctx, "list",
		"SELECT "+bookmarkColumns+" FROM bookmarks ORDER BY created_at, rowid")
}

// Children returns the bookmarks directly inside folderID.
func (s *SQLiteStorage) Children(ctx context.Context, folderID string) ([]model.Bookmark, error) {
	return s.queryBookmarks(ctx, "children",
		"SELECT "+bookmarkColumns+" FROM bookmarks WHERE parent_id = ? ORDER BY created_at, rowid", folderID)
}

// Create inserts a new bookmark.
func (s *SQLiteStorage) Create(ctx context.Context, params model.NewBookmarkParams) (model.Bookmark, error) {
	b := model.NewBookmark(params)
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO bookmarks ("+bookmarkColumns+") VALUES (?, ?, ?, ?, ?)",
		b.ID, b.Title, b.URL, nullable(b.ParentID), formatTime(b.CreatedAt))
	if err != nil {
		return model.Bookmark{}, hostErr("create", b.URL, err)
	}
	return b, nil
}

func (s *SQLiteStorage) execOne(ctx context.Context, op, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return hostErr(op, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return hostErr(op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("bookmark %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// Remove deletes a bookmark.
func (s *SQLiteStorage) Remove(ctx context.Context, id string) error {
	return s.execOne(ctx, "remove", id, "DELETE FROM bookmarks WHERE id = ?", id)
}

// Move sets a bookmark's parent folder. The folder must exist.
func (s *SQLiteStorage) Move(ctx context.Context, id, folderID string) error {
	return s.execOne(ctx, "move", id, "UPDATE bookmarks SET parent_id = ? WHERE id = ?", nullable(folderID), id)
}

// SetTitle replaces a bookmark's title.
func (s *SQLiteStorage) SetTitle(ctx context.Context, id, title string) error {
	return s.execOne(ctx, "set_title", id, "UPDATE bookmarks SET title = ? WHERE id = ?", title, id)
}

// CreateFolder inserts a folder. A nil parentID creates a root folder.
func (s *SQLiteStorage) CreateFolder(ctx context.Context, params model.NewFolderParams) (model.Folder, error) {
	f := model.NewFolder(params)
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO folders (id, title, parent_id, created_at) VALUES (?, ?, ?, ?)",
		f.ID, f.Title, f.ParentID, formatTime(f.CreatedAt))
	if err != nil {
		return model.Folder{}, hostErr("create_folder", f.Title, err)
	}
	return f, nil
}

// GetFolder returns a folder by id, or model.ErrNotFound.
func (s *SQLiteStorage) GetFolder(ctx context.Context, id string) (model.Folder, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, title, parent_id, created_at FROM folders WHERE id = ?", id)
	f, err := scanFolder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return f, fmt.Errorf("folder %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return f, hostErr("get_folder", id, err)
	}
	return f, nil
}

// FindFolder returns the oldest folder named title under parentID (nil
// for root level), or model.ErrNotFound.
func (s *SQLiteStorage) FindFolder(ctx context.Context, title string, parentID *string) (model.Folder, error) {
	var row *sql.Row
	if parentID == nil {
		row = s.db.QueryRowContext(ctx,
			"SELECT id, title, parent_id, created_at FROM folders WHERE title = ? AND parent_id IS NULL ORDER BY created_at, rowid LIMIT 1", title)
	} else {
		row = s.db.QueryRowContext(ctx,
			"SELECT id, title, parent_id, created_at FROM folders WHERE title = ? AND parent_id = ? ORDER BY created_at, rowid LIMIT 1", title, *parentID)
	}

	f, err := scanFolder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return f, fmt.Errorf("folder %q: %w", title, model.ErrNotFound)
	}
	if err != nil {
		return f, hostErr("find_folder", title, err)
	}
	return f, nil
}

// ListFolders returns every folder ordered by title.
func (s *SQLiteStorage) ListFolders(ctx context.Context) ([]model.Folder, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, parent_id, created_at FROM folders ORDER BY title")
	if err != nil {
		return nil, hostErr("list_folders", "", err)
	}
	defer rows.Close()

	folders := []model.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, hostErr("list_folders", "", err)
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, hostErr("list_folders", "", err)
	}
	return folders, nil
}

// Load returns a snapshot of every folder and bookmark.
func (s *SQLiteStorage) Load(ctx context.Context) (*model.Snapshot, error) {
	folders, err := s.ListFolders(ctx)
	if err != nil {
		return nil, err
	}
	bookmarks, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return model.NewSnapshot(folders, bookmarks), nil
}

// ImportBatch inserts bookmarks in one transaction, skipping URLs that
// are already saved. Returns the inserted bookmarks.
func (s *SQLiteStorage) ImportBatch(ctx context.Context, batch []model.NewBookmarkParams) ([]model.Bookmark, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, hostErr("import", "", err)
	}
	defer tx.Rollback()

	exists, err := tx.PrepareContext(ctx, "SELECT COUNT(*) FROM bookmarks WHERE url = ?")
	if err != nil {
		return nil, hostErr("import", "", err)
	}
	defer exists.Close()

	insert, err := tx.PrepareContext(ctx,
		"INSERT INTO bookmarks ("+bookmarkColumns+") VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return nil, hostErr("import", "", err)
	}
	defer insert.Close()

	created := []model.Bookmark{}
	for _, params := range batch {
		var n int
		if err := exists.QueryRowContext(ctx, params.URL).Scan(&n); err != nil {
			return nil, hostErr("import", params.URL, err)
		}
		if n > 0 {
			continue
		}

		b := model.NewBookmark(params)
		if _, err := insert.ExecContext(ctx, b.ID, b.Title, b.URL, nullable(b.ParentID), formatTime(b.CreatedAt)); err != nil {
			return nil, hostErr("import", b.URL, err)
		}
		created = append(created, b)
	}

	if err := tx.Commit(); err != nil {
		return nil, hostErr("import", "", err)
	}
	return created, nil
}

// DefaultSQLitePath returns the default database path inside dataDir.
func DefaultSQLitePath(dataDir string) string {
	return filepath.Join(dataDir, "bookmarks.db")
}
