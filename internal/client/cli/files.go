package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/cloudvault/internal/client/models"
)

var errUsage = errors.New("usage")

func usage(format string) error {
	return fmt.Errorf("%w: %s", errUsage, format)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// optionalParent parses an optional trailing parent id argument.
func optionalParent(args []string, at int) (*int64, error) {
	if len(args) <= at {
		return nil, nil
	}
	id, err := parseID(args[at])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func findEntry(files []models.File, id int64) *models.File {
	for i := range files {
		if files[i].ID == id {
			return &files[i]
		}
	}
	return nil
}

// List prints the direct children of a folder, or of the root when no id
// is given.
func (a *App) List(ctx context.Context, args []string) error {
	parent, err := optionalParent(args, 0)
	if err != nil {
		return err
	}

	files, err := a.api.List(ctx)
	if err != nil {
		return a.sessionErr(err)
	}

	if parent != nil {
		if f := findEntry(files, *parent); f == nil || !f.IsFolder() {
			return fmt.Errorf("no folder with id %d", *parent)
		}
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tSIZE\tMODIFIED\tFLAGS\tNAME")
	n := 0
	for _, f := range sortEntries(childrenOf(files, parent)) {
		size := "-"
		if f.Size != nil {
			size = *f.Size
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			f.ID, f.Type, size, f.Modified.Local().Format("2006-01-02 15:04"), flags(f), displayName(f))
		n++
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(a.out, "(empty)")
	}
	return nil
}

func (a *App) Tree(ctx context.Context) error {
	files, err := a.api.List(ctx)
	if err != nil {
		return a.sessionErr(err)
	}
	if len(files) == 0 {
		fmt.Fprintln(a.out, "(empty)")
		return nil
	}
	renderTree(a.out, files)
	return nil
}

func (a *App) Mkdir(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("mkdir <name> [parentId]")
	}
	parent, err := optionalParent(args, 1)
	if err != nil {
		return err
	}

	f, err := a.api.CreateFolder(ctx, args[0], parent)
	if err != nil {
		return a.sessionErr(err)
	}
	fmt.Fprintf(a.out, "Created folder %s (id %d)\n", f.Filename, f.ID)
	return nil
}

func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("upload <path> [parentId]")
	}
	parent, err := optionalParent(args, 1)
	if err != nil {
		return err
	}

	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	st, err := file.Stat()
	if err != nil {
		return err
	}
	if st.IsDir() {
		return fmt.Errorf("%s is a directory", args[0])
	}

	f, err := a.api.Upload(ctx, filepath.Base(args[0]), file, parent)
	if err != nil {
		return a.sessionErr(err)
	}
	size := ""
	if f.Size != nil {
		size = ", " + *f.Size
	}
	fmt.Fprintf(a.out, "Uploaded %s (id %d%s)\n", f.Filename, f.ID, size)
	return nil
}

// Download saves a file to dest. When dest is a directory the stored name
// is used inside it. A partial file is removed on failure.
func (a *App) Download(ctx context.Context, args []string) (err error) {
	if len(args) != 2 {
		return usage("download <id> <dest>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	files, err := a.api.List(ctx)
	if err != nil {
		return a.sessionErr(err)
	}
	f := findEntry(files, id)
	if f == nil {
		return fmt.Errorf("no entry with id %d", id)
	}
	if f.IsFolder() || f.Filepath == "" {
		return fmt.Errorf("%s is a folder", f.Filename)
	}

	dest := args[1]
	if st, statErr := os.Stat(dest); statErr == nil && st.IsDir() {
		dest = filepath.Join(dest, filepath.Base(f.Filename))
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(dest)
		}
	}()

	n, err := a.api.Download(ctx, f.Filepath, out)
	if err != nil {
		return a.sessionErr(err)
	}
	fmt.Fprintf(a.out, "Saved %d bytes to %s\n", n, dest)
	return nil
}

func (a *App) SetFavorite(ctx context.Context, args []string, favorite bool) error {
	if len(args) != 1 {
		if favorite {
			return usage("fav <id>")
		}
		return usage("unfav <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return a.update(ctx, id, models.Patch{Favorite: &favorite})
}

// Color tags an entry; "-" removes the tag.
func (a *App) Color(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("color <id> <color|->")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if args[1] == "-" {
		return a.update(ctx, id, models.Patch{ClearColor: true})
	}
	return a.update(ctx, id, models.Patch{Color: &args[1]})
}

func (a *App) Move(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("mv <id> <parentId|root>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if args[1] == "root" || args[1] == "/" {
		return a.update(ctx, id, models.Patch{ToRoot: true})
	}
	parent, err := parseID(args[1])
	if err != nil {
		return err
	}
	return a.update(ctx, id, models.Patch{ParentID: &parent})
}

func (a *App) update(ctx context.Context, id int64, patch models.Patch) error {
	f, err := a.api.Update(ctx, id, patch)
	if err != nil {
		return a.sessionErr(err)
	}
	fmt.Fprintf(a.out, "Updated %s\n", describe(*f))
	return nil
}

// Remove deletes an entry; folders go with everything inside them.
func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("rm <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.api.Delete(ctx, id); err != nil {
		return a.sessionErr(err)
	}
	fmt.Fprintf(a.out, "Deleted %d\n", id)
	return nil
}
