package model

import "time"

// Folder represents a container for bookmarks and other folders.
type Folder struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ParentID  *string   `json:"parentId"` // nil = root level
	CreatedAt time.Time `json:"createdAt"`
}

// NewFolderParams holds parameters for creating a new Folder.
type NewFolderParams struct {
	Title    string
	ParentID *string
}

// NewFolder creates a Folder with a generated ID.
func NewFolder(params NewFolderParams) Folder {
	return Folder{
		ID:        NewID(),
		Title:     params.Title,
		ParentID:  params.ParentID,
		CreatedAt: time.Now(),
	}
}

// FolderType classifies where a bookmark lives.
type FolderType int

const (
	FolderOther FolderType = iota // anywhere outside the managed folders
	FolderNormal
	FolderNSFWHidden
)

// String returns the stable lower-case name used for sorting and JSON.
func (t FolderType) String() string {
	switch t {
	case FolderNormal:
		return "normal"
	case FolderNSFWHidden:
		return "nsfw"
	default:
		return "other"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t FolderType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *FolderType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "normal":
		*t = FolderNormal
	case "nsfw":
		*t = FolderNSFWHidden
	default:
		*t = FolderOther
	}
	return nil
}

// FolderRegistry holds the ids of the two managed folders.
type FolderRegistry struct {
	NormalFolderID     string `json:"normalFolderId"`
	NSFWHiddenFolderID string `json:"nsfwHiddenFolderId"`
}

// Valid reports whether both folder ids are set.
func (r FolderRegistry) Valid() bool {
	return r.NormalFolderID != "" && r.NSFWHiddenFolderID != ""
}

// Classify maps a parent folder id to a FolderType.
func (r FolderRegistry) Classify(parentID string) FolderType {
	switch {
	case parentID == "":
		return FolderOther
	case parentID == r.NSFWHiddenFolderID:
		return FolderNSFWHidden
	case parentID == r.NormalFolderID:
		return FolderNormal
	default:
		return FolderOther
	}
}

// FolderID returns the managed folder id for a FolderType, or "" for FolderOther.
func (r FolderRegistry) FolderID(t FolderType) string {
	switch t {
	case FolderNormal:
		return r.NormalFolderID
	case FolderNSFWHidden:
		return r.NSFWHiddenFolderID
	default:
		return ""
	}
}
