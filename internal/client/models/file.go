// Package models holds the shapes the CloudVault API returns.
package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// File is one entry of the listing. Folders have Type "folder", an empty
// Filepath and no Size.
type File struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	Filepath  string    `json:"filepath"`
	Type      string    `json:"type"`
	Size      *string   `json:"size"`
	Modified  time.Time `json:"modified"`
	UserID    int64     `json:"user_id"`
	Favorite  bool      `json:"favorite"`
	Color     *string   `json:"color"`
	ParentID  *int64    `json:"parentId"`
	CreatedAt time.Time `json:"created_at"`
}

func (f *File) IsFolder() bool {
	return f.Type == "folder"
}

// Patch is a partial update. Nil fields are not sent. ClearColor sends a
// null color and ToRoot a null parentId; they win over Color and ParentID.
type Patch struct {
	Favorite   *bool
	Color      *string
	ClearColor bool
	ParentID   *int64
	ToRoot     bool
}

// Body renders the patch as the JSON object the server expects.
func (p Patch) Body() map[string]any {
	body := map[string]any{}
	if p.Favorite != nil {
		body["favorite"] = *p.Favorite
	}
	switch {
	case p.ClearColor:
		body["color"] = nil
	case p.Color != nil:
		body["color"] = *p.Color
	}
	switch {
	case p.ToRoot:
		body["parentId"] = nil
	case p.ParentID != nil:
		body["parentId"] = *p.ParentID
	}
	return body
}
