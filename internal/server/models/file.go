// Package models defines server-side data models persisted in the database.
package models

import "time"

// FileEntry is a folder or a stored file. Both live in one table and are
// told apart by Kind.
type FileEntry struct {
	ID      int64
	OwnerID int64
	// Name is the display name supplied by the client. It is never used as
	// a storage key.
	Name string
	Kind Kind

	// Size is the human-readable size ("2.45 MB"); nil for folders.
	Size *string
	// Locator is the blob store reference; nil for folders.
	Locator *string

	Modified time.Time
	Favorite bool
	Color    *string
	// ParentID is nil for entries at the root of the owner's forest.
	ParentID  *int64
	CreatedAt time.Time
}

// IsFolder reports whether e is a folder.
func (e *FileEntry) IsFolder() bool {
	return e.Kind == KindFolder
}

// FilePatch is a partial update. Nil pointers leave fields untouched;
// ClearColor removes the color tag. ParentSet distinguishes a move to the
// root (ParentSet with nil ParentID) from leaving the parent as it is.
type FilePatch struct {
	Favorite   *bool
	Color      *string
	ClearColor bool
	ParentSet  bool
	ParentID   *int64
}

// Empty reports whether the patch changes nothing but the modified time.
func (p FilePatch) Empty() bool {
	return p.Favorite == nil && p.Color == nil && !p.ClearColor && !p.ParentSet
}
