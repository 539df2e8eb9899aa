package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiskStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")

	s, err := NewDiskStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDiskStore_PutOpenDelete(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	content := []byte("hello, blob")
	loc, n, err := s.Put(ctx, "1-1-abcdef12.txt", bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, "1-1-abcdef12.txt", loc)
	assert.Equal(t, int64(len(content)), n)

	_, err = os.Stat(filepath.Join(s.Dir(), loc+".tmp"))
	assert.True(t, os.IsNotExist(err), "temp file must be renamed away")

	rc, err := s.Open(ctx, loc)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, content, got)

	require.NoError(t, s.Delete(ctx, loc))
	assert.ErrorIs(t, s.Delete(ctx, loc), common.ErrNotFound)

	_, err = s.Open(ctx, loc)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDiskStore_RejectsTraversal(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, _, err = s.Put(ctx, "../escape.txt", bytes.NewReader([]byte("x")))
	assert.Error(t, err)

	_, err = s.Open(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, "a/b"), common.ErrNotFound)
}

type failingReader struct{ after int }

func (f *failingReader) Read(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, errors.New("read failed")
	}
	n := min(len(p), f.after)
	f.after -= n
	return n, nil
}

func TestDiskStore_PutFailureLeavesNothing(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = s.Put(context.Background(), "x.bin", &failingReader{after: 10})
	require.Error(t, err)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDiskStore_PutCanceled(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = s.Put(ctx, "x.bin", bytes.NewReader([]byte("data")))
	assert.ErrorIs(t, err, context.Canceled)
}
