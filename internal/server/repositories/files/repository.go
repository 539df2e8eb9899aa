package files

import (
	"context"

	"github.com/dmitrijs2005/cloudvault/internal/server/models"
)

// Repository is the file record store. Every method except Create is
// scoped by owner; rows of other owners behave as if absent.
type Repository interface {
	Create(ctx context.Context, entry *models.FileEntry) (*models.FileEntry, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.FileEntry, error)
	Get(ctx context.Context, ownerID, id int64) (*models.FileEntry, error)
	GetByLocator(ctx context.Context, ownerID int64, locator string) (*models.FileEntry, error)
	ListChildren(ctx context.Context, ownerID, parentID int64) ([]*models.FileEntry, error)
	Update(ctx context.Context, entry *models.FileEntry) error
	Delete(ctx context.Context, ownerID, id int64) error
}
