package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/dbx"
	"github.com/dmitrijs2005/cloudvault/internal/logging"
	"github.com/dmitrijs2005/cloudvault/internal/server/blobstore"
	"github.com/dmitrijs2005/cloudvault/internal/server/config"
	"github.com/dmitrijs2005/cloudvault/internal/server/models"
	"github.com/dmitrijs2005/cloudvault/internal/server/repositories/files"
	"github.com/dmitrijs2005/cloudvault/internal/server/repositories/repomanager"
)

const (
	maxNameLen  = 255
	maxColorLen = 50
)

// FileService authorizes, validates and executes every read or mutation of
// a user's file forest, keeping records and blobs consistent. Every lookup
// is scoped by owner; entries of other users behave as if absent.
type FileService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	blobs         blobstore.Store
	maxUploadSize int64
	log           logging.Logger
	now           func() time.Time
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, blobs blobstore.Store, cfg *config.Config, log logging.Logger) *FileService {
	return &FileService{
		db:            db,
		repomanager:   m,
		blobs:         blobs,
		maxUploadSize: cfg.MaxUploadSize,
		log:           log.With("module", "files"),
		now:           time.Now,
	}
}

// MaxUploadSize is the largest accepted upload in bytes.
func (s *FileService) MaxUploadSize() int64 {
	return s.maxUploadSize
}

// List returns the owner's whole forest, flattened, newest first.
func (s *FileService) List(ctx context.Context, ownerID int64) ([]*models.FileEntry, error) {
	entries, err := s.repomanager.Files(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return entries, nil
}

// CreateFolder adds an empty folder under parentID, or at the root when
// parentID is nil.
func (s *FileService) CreateFolder(ctx context.Context, ownerID int64, name string, parentID *int64) (*models.FileEntry, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Files(s.db)
	if err := s.checkParent(ctx, repo, ownerID, parentID); err != nil {
		return nil, err
	}

	entry, err := repo.Create(ctx, &models.FileEntry{
		OwnerID:  ownerID,
		Name:     name,
		Kind:     models.KindFolder,
		Modified: s.now(),
		ParentID: parentID,
	})
	if err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}

	s.log.Info(ctx, "folder created", "owner", ownerID, "id", entry.ID)
	return entry, nil
}

// Upload stores r as a new file entry. The blob is written first and the
// row recorded after, so a failure never leaves a row without content.
// Content beyond MaxUploadSize aborts the write with common.ErrPayloadTooLarge.
func (s *FileService) Upload(ctx context.Context, ownerID int64, name string, r io.Reader, parentID *int64) (*models.FileEntry, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Files(s.db)
	if err := s.checkParent(ctx, repo, ownerID, parentID); err != nil {
		return nil, err
	}

	limited := &io.LimitedReader{R: r, N: s.maxUploadSize + 1}
	locator, n, err := s.blobs.Put(ctx, blobstore.GenerateName(name), limited)
	if err != nil {
		if errors.Is(err, common.ErrPayloadTooLarge) {
			uploadsTotal.WithLabelValues("too_large").Inc()
			return nil, common.ErrPayloadTooLarge
		}
		uploadsTotal.WithLabelValues("storage_error").Inc()
		s.log.Error(ctx, "blob write failed", "op", "upload", "owner", ownerID, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrStorageWrite, err)
	}

	if n > s.maxUploadSize {
		s.removeBlob(context.WithoutCancel(ctx), ownerID, 0, locator)
		uploadsTotal.WithLabelValues("too_large").Inc()
		return nil, common.ErrPayloadTooLarge
	}

	size := models.FormatSize(n)
	entry, err := repo.Create(ctx, &models.FileEntry{
		OwnerID:  ownerID,
		Name:     name,
		Kind:     models.KindFromName(name),
		Size:     &size,
		Locator:  &locator,
		Modified: s.now(),
		ParentID: parentID,
	})
	if err != nil {
		s.removeBlob(context.WithoutCancel(ctx), ownerID, 0, locator)
		uploadsTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("create file: %w", err)
	}

	uploadsTotal.WithLabelValues("success").Inc()
	uploadBytesTotal.Add(float64(n))
	s.log.Info(ctx, "file uploaded", "owner", ownerID, "id", entry.ID, "bytes", n)
	return entry, nil
}

// Update applies patch to the entry and refreshes its modified time.
// A move is rejected with common.ErrCyclicMove when the new parent is the
// entry itself or one of its descendants, and with common.ErrInvalidParent
// when it is missing, foreign or not a folder.
func (s *FileService) Update(ctx context.Context, ownerID, id int64, patch models.FilePatch) (*models.FileEntry, error) {
	if patch.Color != nil && len(*patch.Color) > maxColorLen {
		return nil, fmt.Errorf("%w: color is too long", common.ErrValidation)
	}

	repo := s.repomanager.Files(s.db)

	entry, err := repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if patch.ParentSet && patch.ParentID != nil {
		if err := s.checkMove(ctx, repo, ownerID, id, *patch.ParentID); err != nil {
			return nil, err
		}
	}

	if patch.Favorite != nil {
		entry.Favorite = *patch.Favorite
	}
	switch {
	case patch.ClearColor:
		entry.Color = nil
	case patch.Color != nil:
		c := *patch.Color
		entry.Color = &c
	}
	if patch.ParentSet {
		entry.ParentID = patch.ParentID
	}
	entry.Modified = s.now()

	if err := repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes the entry and, for a folder, its whole subtree. Rows go in
// one transaction, children first; blobs are removed after the commit and a
// blob that is already gone is only logged. The operation runs to completion
// even if the caller disconnects.
//
// Rows are deliberately removed before blobs: a failure in between leaves an
// orphan blob, never a row pointing at missing content. Do not swap the order.
func (s *FileService) Delete(ctx context.Context, ownerID, id int64) error {
	ctx = context.WithoutCancel(ctx)

	var removed []*models.FileEntry
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Files(tx)

		root, err := repo.Get(ctx, ownerID, id)
		if err != nil {
			return err
		}

		subtree, err := collectSubtree(ctx, repo, ownerID, root)
		if err != nil {
			return err
		}

		for _, e := range subtree {
			if err := repo.Delete(ctx, ownerID, e.ID); err != nil {
				return fmt.Errorf("delete entry %d: %w", e.ID, err)
			}
		}
		removed = subtree
		return nil
	})
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.log.Error(ctx, "delete failed", "op", "delete", "owner", ownerID, "id", id, "error", err)
		}
		return err
	}

	for _, e := range removed {
		deletedEntriesTotal.WithLabelValues(string(e.Kind)).Inc()
		if e.Locator != nil {
			s.removeBlob(ctx, ownerID, e.ID, *e.Locator)
		}
	}

	s.log.Info(ctx, "entry deleted", "owner", ownerID, "id", id, "removed", len(removed))
	return nil
}

// OpenBlob returns the content behind locator if it belongs to one of the
// owner's entries. Foreign and unknown locators yield common.ErrNotFound.
func (s *FileService) OpenBlob(ctx context.Context, ownerID int64, locator string) (io.ReadCloser, *models.FileEntry, error) {
	entry, err := s.repomanager.Files(s.db).GetByLocator(ctx, ownerID, locator)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.blobs.Open(ctx, locator)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.log.Warn(ctx, "blob missing for entry", "op", "open", "owner", ownerID, "id", entry.ID)
			return nil, nil, common.ErrNotFound
		}
		s.log.Error(ctx, "blob read failed", "op", "open", "owner", ownerID, "id", entry.ID, "error", err)
		return nil, nil, fmt.Errorf("%w: %v", common.ErrStorageRead, err)
	}
	return rc, entry, nil
}

// --- helpers below ---

// checkParent accepts a nil parent (root) or a folder owned by ownerID.
func (s *FileService) checkParent(ctx context.Context, repo files.Repository, ownerID int64, parentID *int64) error {
	if parentID == nil {
		return nil
	}
	_, err := s.resolveFolder(ctx, repo, ownerID, *parentID)
	return err
}

func (s *FileService) resolveFolder(ctx context.Context, repo files.Repository, ownerID, id int64) (*models.FileEntry, error) {
	parent, err := repo.Get(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidParent
		}
		return nil, fmt.Errorf("lookup parent: %w", err)
	}
	if !parent.IsFolder() {
		return nil, common.ErrInvalidParent
	}
	return parent, nil
}

// checkMove walks the ancestor chain of the proposed parent up to the root
// and fails if the entry being moved appears in it.
func (s *FileService) checkMove(ctx context.Context, repo files.Repository, ownerID, id, parentID int64) error {
	if parentID == id {
		return common.ErrCyclicMove
	}

	parent, err := repo.Get(ctx, ownerID, parentID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrInvalidParent
		}
		return fmt.Errorf("lookup parent: %w", err)
	}

	seen := map[int64]struct{}{parent.ID: {}}
	for cur := parent; cur.ParentID != nil; {
		next := *cur.ParentID
		if next == id {
			return common.ErrCyclicMove
		}
		if _, loop := seen[next]; loop {
			return fmt.Errorf("%w: ancestor loop at %d", common.ErrInternal, next)
		}
		seen[next] = struct{}{}

		cur, err = repo.Get(ctx, ownerID, next)
		if err != nil {
			return fmt.Errorf("lookup ancestor %d: %w", next, err)
		}
	}

	if !parent.IsFolder() {
		return common.ErrInvalidParent
	}
	return nil
}

// collectSubtree returns root and its descendants in post-order, so that
// deleting in slice order never removes a parent before its children.
func collectSubtree(ctx context.Context, repo files.Repository, ownerID int64, root *models.FileEntry) ([]*models.FileEntry, error) {
	var out []*models.FileEntry
	var walk func(e *models.FileEntry) error
	walk = func(e *models.FileEntry) error {
		if e.IsFolder() {
			children, err := repo.ListChildren(ctx, ownerID, e.ID)
			if err != nil {
				return fmt.Errorf("list children of %d: %w", e.ID, err)
			}
			for _, c := range children {
				if err := walk(c); err != nil {
					return err
				}
			}
		}
		out = append(out, e)
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FileService) removeBlob(ctx context.Context, ownerID, id int64, locator string) {
	err := s.blobs.Delete(ctx, locator)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrNotFound):
		missingBlobsTotal.Inc()
		s.log.Warn(ctx, "blob already missing", "op", "delete", "owner", ownerID, "id", id)
	default:
		s.log.Error(ctx, "blob delete failed", "op", "delete", "owner", ownerID, "id", id, "error", err)
	}
}

// cleanName trims a client-supplied display name and drops any directory
// part some clients send along with it.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = strings.TrimSpace(name[i+1:])
	}
	switch {
	case name == "", name == ".", name == "..":
		return "", fmt.Errorf("%w: name is required", common.ErrValidation)
	case len(name) > maxNameLen:
		return "", fmt.Errorf("%w: name is too long", common.ErrValidation)
	case !utf8.ValidString(name):
		return "", fmt.Errorf("%w: name is not valid UTF-8", common.ErrValidation)
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return "", fmt.Errorf("%w: name contains control characters", common.ErrValidation)
	}
	return name, nil
}
