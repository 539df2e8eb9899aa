// Package blobstore persists uploaded file contents. The file hierarchy never
// interprets a locator; each backend decides what it means.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Store is the blob persistence contract.
//
// Put stores r under a backend-specific locator derived from name and returns
// that locator together with the number of bytes written. On error nothing is
// left behind. Open returns common.ErrNotFound for an unknown locator. Delete
// returns common.ErrNotFound when the blob was already gone, which callers
// treat as success.
type Store interface {
	Put(ctx context.Context, name string, r io.Reader) (locator string, n int64, err error)
	Open(ctx context.Context, locator string) (io.ReadCloser, error)
	Delete(ctx context.Context, locator string) error
}

var seq atomic.Uint64

// GenerateName returns a collision-resistant storage name for a file the
// client called original: <unix-nanos>-<seq>-<uuid8><.ext>. Only a short,
// sanitised extension survives from the client-supplied name.
func GenerateName(original string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	if len(ext) > 10 || strings.ContainsAny(ext, ` /\`) {
		ext = ""
	}
	return fmt.Sprintf("%d-%d-%s%s", time.Now().UnixNano(), seq.Add(1), uuid.New().String()[:8], ext)
}
