package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/filex"
)

// DiskStore keeps blobs as flat files in one directory. The locator is the
// bare file name.
type DiskStore struct {
	dir string
}

// NewDiskStore creates dir if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	return &DiskStore{dir: abs}, nil
}

// Dir returns the absolute storage directory.
func (s *DiskStore) Dir() string { return s.dir }

// Put streams r into a temp file, fsyncs it and renames it into place, so a
// reader never observes a partially written blob.
func (s *DiskStore) Put(ctx context.Context, name string, r io.Reader) (string, int64, error) {
	if !filex.SafeBase(name) {
		return "", 0, fmt.Errorf("invalid blob name %q", name)
	}

	fullPath := filepath.Join(s.dir, name)
	tmpPath := fullPath + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", 0, fmt.Errorf("create temp file: %w", err)
	}

	n, err := io.Copy(f, contextReader{ctx: ctx, r: r})
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", 0, fmt.Errorf("write: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", 0, fmt.Errorf("fsync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", 0, fmt.Errorf("close: %w", err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return "", 0, fmt.Errorf("rename: %w", err)
	}

	return name, n, nil
}

func (s *DiskStore) Open(_ context.Context, locator string) (io.ReadCloser, error) {
	if !filex.SafeBase(locator) {
		return nil, common.ErrNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, locator))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("open %s: %w", locator, err)
	}
	return f, nil
}

func (s *DiskStore) Delete(_ context.Context, locator string) error {
	if !filex.SafeBase(locator) {
		return common.ErrNotFound
	}

	err := os.Remove(filepath.Join(s.dir, locator))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.ErrNotFound
		}
		return fmt.Errorf("remove %s: %w", locator, err)
	}
	return nil
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
