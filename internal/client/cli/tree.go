package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dmitrijs2005/cloudvault/internal/client/models"
)

// childrenOf returns the entries whose parent is parent (nil for the root).
func childrenOf(files []models.File, parent *int64) []models.File {
	var out []models.File
	for _, f := range files {
		switch {
		case parent == nil && f.ParentID == nil:
			out = append(out, f)
		case parent != nil && f.ParentID != nil && *f.ParentID == *parent:
			out = append(out, f)
		}
	}
	return out
}

// sortEntries orders folders first, then by case-insensitive name, then id.
func sortEntries(files []models.File) []models.File {
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		if a.IsFolder() != b.IsFolder() {
			return a.IsFolder()
		}
		if an, bn := strings.ToLower(a.Filename), strings.ToLower(b.Filename); an != bn {
			return an < bn
		}
		return a.ID < b.ID
	})
	return files
}

func displayName(f models.File) string {
	if f.IsFolder() {
		return f.Filename + "/"
	}
	return f.Filename
}

func flags(f models.File) string {
	var parts []string
	if f.Favorite {
		parts = append(parts, "*")
	}
	if f.Color != nil && *f.Color != "" {
		parts = append(parts, "["+*f.Color+"]")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func describe(f models.File) string {
	s := fmt.Sprintf("%s #%d", displayName(f), f.ID)
	if f.Size != nil {
		s += " (" + *f.Size + ")"
	}
	if fl := flags(f); fl != "-" {
		s += " " + fl
	}
	return s
}

// renderTree prints the flat listing as a forest. Entries whose parent is
// not in the listing are shown at the top level.
func renderTree(w io.Writer, files []models.File) {
	present := make(map[int64]bool, len(files))
	for _, f := range files {
		present[f.ID] = true
	}

	children := make(map[int64][]models.File)
	var roots []models.File
	for _, f := range files {
		if f.ParentID == nil || !present[*f.ParentID] {
			roots = append(roots, f)
			continue
		}
		children[*f.ParentID] = append(children[*f.ParentID], f)
	}

	visited := make(map[int64]bool, len(files))
	var walk func(nodes []models.File, prefix string)
	walk = func(nodes []models.File, prefix string) {
		sortEntries(nodes)
		for i, f := range nodes {
			if visited[f.ID] {
				continue
			}
			visited[f.ID] = true

			branch, next := "├── ", "│   "
			if i == len(nodes)-1 {
				branch, next = "└── ", "    "
			}
			fmt.Fprintln(w, prefix+branch+describe(f))
			walk(children[f.ID], prefix+next)
		}
	}

	fmt.Fprintln(w, ".")
	walk(roots, "")
}
