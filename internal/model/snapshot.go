package model

// Snapshot is a point-in-time copy of the bookmark tree. Export renders
// one; the service builds one per listing.
type Snapshot struct {
	Folders   []Folder   `json:"folders"`
	Bookmarks []Bookmark `json:"bookmarks"`
}

// NewSnapshot wraps folders and bookmarks. Nil slices become empty.
func NewSnapshot(folders []Folder, bookmarks []Bookmark) *Snapshot {
	if folders == nil {
		folders = []Folder{}
	}
	if bookmarks == nil {
		bookmarks = []Bookmark{}
	}
	return &Snapshot{Folders: folders, Bookmarks: bookmarks}
}

// InFolder returns bookmarks whose parent is folderID, in snapshot order.
func (s *Snapshot) InFolder(folderID string) []Bookmark {
	var result []Bookmark
	for _, b := range s.Bookmarks {
		if b.ParentID == folderID {
			result = append(result, b)
		}
	}
	return result
}

// Subset returns a snapshot holding only bookmarks and the folders that
// directly contain at least one of them. Folder order is kept.
func (s *Snapshot) Subset(bookmarks []Bookmark) *Snapshot {
	used := make(map[string]bool, len(bookmarks))
	for _, b := range bookmarks {
		used[b.ParentID] = true
	}

	var folders []Folder
	for _, f := range s.Folders {
		if used[f.ID] {
			folders = append(folders, f)
		}
	}
	return NewSnapshot(folders, bookmarks)
}
