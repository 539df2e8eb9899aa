package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/cloudvault/internal/client/api"
	"github.com/dmitrijs2005/cloudvault/internal/client/config"
	"github.com/dmitrijs2005/cloudvault/internal/client/models"
)

func ptr[T any](v T) *T { return &v }

type fakeAPI struct {
	user  *models.User
	files []models.File
	blob  string

	regArgs   []string
	loginArgs []string
	loginErr  error
	listErr   error
	logoutN   int

	createdName   string
	createdParent *int64
	uploadedName  string
	uploadedBody  string
	uploadParent  *int64
	patchID       int64
	patch         models.Patch
	deletedID     int64
	deleteErr     error
	downloadPath  string
	downloadErr   error
}

func (f *fakeAPI) Register(_ context.Context, username, email, password string) (*models.User, error) {
	f.regArgs = []string{username, email, password}
	return &models.User{ID: 9, Username: username, Email: email}, nil
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*models.User, error) {
	f.loginArgs = []string{email, password}
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.user, nil
}

func (f *fakeAPI) Logout(context.Context) error {
	f.logoutN++
	return nil
}

func (f *fakeAPI) Check(context.Context) (*models.User, error) {
	if f.user == nil {
		return nil, &api.Error{Status: 401, Code: "UNAUTHENTICATED", Message: "authentication required"}
	}
	return f.user, nil
}

func (f *fakeAPI) List(context.Context) ([]models.File, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.File(nil), f.files...), nil
}

func (f *fakeAPI) CreateFolder(_ context.Context, name string, parentID *int64) (*models.File, error) {
	f.createdName, f.createdParent = name, parentID
	return &models.File{ID: 10, Filename: name, Type: "folder", ParentID: parentID}, nil
}

func (f *fakeAPI) Upload(_ context.Context, name string, r io.Reader, parentID *int64) (*models.File, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.uploadedName, f.uploadedBody, f.uploadParent = name, string(b), parentID
	return &models.File{ID: 11, Filename: name, Type: "document", Size: ptr("0.00 MB")}, nil
}

func (f *fakeAPI) Update(_ context.Context, id int64, patch models.Patch) (*models.File, error) {
	f.patchID, f.patch = id, patch
	return &models.File{ID: id, Filename: "a.txt", Type: "document", Favorite: patch.Favorite != nil && *patch.Favorite}, nil
}

func (f *fakeAPI) Delete(_ context.Context, id int64) error {
	f.deletedID = id
	return f.deleteErr
}

func (f *fakeAPI) Download(_ context.Context, filepath string, w io.Writer) (int64, error) {
	f.downloadPath = filepath
	if f.downloadErr != nil {
		_, _ = io.WriteString(w, "part")
		return 4, f.downloadErr
	}
	n, err := io.WriteString(w, f.blob)
	return int64(n), err
}

// sampleFiles is a small forest:
//
//	Docs/ #1
//	  a.txt #2
//	  Old/ #3
//	    b.txt #4
//	cat.png #5
func sampleFiles() []models.File {
	return []models.File{
		{ID: 1, Filename: "Docs", Type: "folder"},
		{ID: 2, Filename: "a.txt", Type: "document", Filepath: "/uploads/1-1-aa.txt", Size: ptr("0.01 MB"), ParentID: ptr[int64](1)},
		{ID: 3, Filename: "Old", Type: "folder", ParentID: ptr[int64](1)},
		{ID: 4, Filename: "b.txt", Type: "document", Filepath: "/uploads/1-2-bb.txt", Size: ptr("0.02 MB"), ParentID: ptr[int64](3)},
		{ID: 5, Filename: "cat.png", Type: "image", Filepath: "/uploads/1-3-cc.png", Size: ptr("1.20 MB"), Favorite: true, Color: ptr("red")},
	}
}

func newTestApp(t *testing.T, fa *fakeAPI, input string) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &App{
		config: &config.Config{ServerURL: "http://127.0.0.1:3001"},
		api:    fa,
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    &out,
	}, &out
}

func loggedInApp(t *testing.T, fa *fakeAPI) (*App, *bytes.Buffer) {
	t.Helper()
	a, out := newTestApp(t, fa, "")
	a.user = &models.User{ID: 1, Username: "alice", Email: "alice@example.com"}
	return a, out
}
