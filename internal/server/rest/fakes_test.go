package rest

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/logging"
	"github.com/dmitrijs2005/cloudvault/internal/server/models"
)

var (
	alice = &models.User{ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: "$2a$secret"}
	bob   = &models.User{ID: 2, Username: "bob", Email: "bob@example.com", PasswordHash: "$2a$secret"}
)

type fakeAuth struct {
	registerErr error
	loginErr    error
}

func (f *fakeAuth) Register(_ context.Context, username, email, password string) (*models.User, string, error) {
	if f.registerErr != nil {
		return nil, "", f.registerErr
	}
	return &models.User{ID: 3, Username: username, Email: email, PasswordHash: "hash"}, "tok-new", nil
}

func (f *fakeAuth) Authenticate(_ context.Context, email, password string) (*models.User, string, error) {
	if f.loginErr != nil {
		return nil, "", f.loginErr
	}
	return alice, "tok-alice", nil
}

func (f *fakeAuth) Verify(_ context.Context, token string) (*models.User, error) {
	switch token {
	case "tok-alice":
		return alice, nil
	case "tok-bob":
		return bob, nil
	case "tok-ghost":
		return nil, common.ErrUserNotFound
	default:
		return nil, common.ErrUnauthenticated
	}
}

func (f *fakeAuth) TokenValidity() time.Duration { return time.Hour }

// fakeFiles keeps entries in memory, scoped by owner like the real service.
type fakeFiles struct {
	mu      sync.Mutex
	entries map[int64]*models.FileEntry
	blobs   map[string][]byte
	nextID  int64

	lastPatch   models.FilePatch
	lastParent  *int64
	uploadErr   error
	listErr     error
	panicOnList bool
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{entries: map[int64]*models.FileEntry{}, blobs: map[string][]byte{}}
}

func (f *fakeFiles) add(e *models.FileEntry) *models.FileEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	e.ID = f.nextID
	f.entries[e.ID] = e
	return e
}

func (f *fakeFiles) List(_ context.Context, ownerID int64) ([]*models.FileEntry, error) {
	if f.panicOnList {
		panic("boom")
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.FileEntry
	for id := int64(1); id <= f.nextID; id++ {
		if e, ok := f.entries[id]; ok && e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeFiles) CreateFolder(_ context.Context, ownerID int64, name string, parentID *int64) (*models.FileEntry, error) {
	if name == "" {
		return nil, common.ErrValidation
	}
	f.lastParent = parentID
	return f.add(&models.FileEntry{OwnerID: ownerID, Name: name, Kind: models.KindFolder, ParentID: parentID}), nil
}

func (f *fakeFiles) Upload(_ context.Context, ownerID int64, name string, r io.Reader, parentID *int64) (*models.FileEntry, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.lastParent = parentID
	loc := "100-1-abcdef12" + pathExt(name)
	f.mu.Lock()
	f.blobs[loc] = b
	f.mu.Unlock()
	size := models.FormatSize(int64(len(b)))
	return f.add(&models.FileEntry{
		OwnerID: ownerID, Name: name, Kind: models.KindFromName(name),
		Size: &size, Locator: &loc, ParentID: parentID,
	}), nil
}

func (f *fakeFiles) Update(_ context.Context, ownerID, id int64, patch models.FilePatch) (*models.FileEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPatch = patch
	e, ok := f.entries[id]
	if !ok || e.OwnerID != ownerID {
		return nil, common.ErrNotFound
	}
	if patch.Favorite != nil {
		e.Favorite = *patch.Favorite
	}
	if patch.ParentSet {
		e.ParentID = patch.ParentID
	}
	return e, nil
}

func (f *fakeFiles) Delete(_ context.Context, ownerID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok || e.OwnerID != ownerID {
		return common.ErrNotFound
	}
	delete(f.entries, id)
	return nil
}

func (f *fakeFiles) OpenBlob(_ context.Context, ownerID int64, locator string) (io.ReadCloser, *models.FileEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.OwnerID == ownerID && e.Locator != nil && *e.Locator == locator {
			return io.NopCloser(bytes.NewReader(f.blobs[locator])), e, nil
		}
	}
	return nil, nil, common.ErrNotFound
}

func (f *fakeFiles) MaxUploadSize() int64 { return 1024 }

func pathExt(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i:]
		}
	}
	return ""
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func newTestServer(t *testing.T) (*HTTPServer, *fakeAuth, *fakeFiles) {
	t.Helper()
	a := &fakeAuth{}
	f := newFakeFiles()
	s := NewHTTPServer("127.0.0.1:0", logging.Nop(), a, f, fakePinger{}, Options{
		CookieSameSite: "strict",
		CORSOrigins:    "http://localhost:3000",
	})
	return s, a, f
}

func do(t *testing.T, h http.Handler, req *http.Request, token string) *httptest.ResponseRecorder {
	t.Helper()
	if token != "" {
		req.AddCookie(&http.Cookie{Name: common.SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
