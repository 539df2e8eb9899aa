package rest

import (
	"time"

	"github.com/dmitrijs2005/cloudvault/internal/server/models"
)

// BlobPathPrefix is where blobs are served; a file's "filepath" is this
// prefix plus its locator.
const BlobPathPrefix = "/uploads/"

type userDTO struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type userResponse struct {
	User userDTO `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toUserDTO(u *models.User) userDTO {
	return userDTO{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

type fileDTO struct {
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

func toFileDTO(e *models.FileEntry) fileDTO {
	d := fileDTO{
		ID:        e.ID,
		Filename:  e.Name,
		Type:      string(e.Kind),
		Size:      e.Size,
		Modified:  e.Modified,
		UserID:    e.OwnerID,
		Favorite:  e.Favorite,
		Color:     e.Color,
		ParentID:  e.ParentID,
		CreatedAt: e.CreatedAt,
	}
	if e.Locator != nil {
		d.Filepath = BlobPathPrefix + *e.Locator
	}
	return d
}

func toFileDTOs(entries []*models.FileEntry) []fileDTO {
	out := make([]fileDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toFileDTO(e))
	}
	return out
}
