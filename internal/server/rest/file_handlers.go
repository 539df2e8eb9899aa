package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/server/models"
	"github.com/go-chi/chi/v5"
)

const (
	// multipartSlack covers boundaries, part headers and the parentId field.
	multipartSlack = 64 << 10
	// multipartMemory is how much of a form is kept in memory before spilling
	// file parts to temp files.
	multipartMemory = 1 << 20
)

func (s *HTTPServer) handleListFiles(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	entries, err := s.files.List(r.Context(), user.ID)
	if err != nil {
		s.writeServiceError(w, r, "list", err)
		return
	}
	writeJSON(w, http.StatusOK, toFileDTOs(entries))
}

func (s *HTTPServer) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	var raw map[string]json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil {
		s.writeServiceError(w, r, "create_folder", err)
		return
	}

	var name string
	if v, ok := raw["name"]; ok {
		if err := json.Unmarshal(v, &name); err != nil {
			s.writeServiceError(w, r, "create_folder", fmt.Errorf("%w: name must be a string", common.ErrValidation))
			return
		}
	}

	var parentID *int64
	if v, ok := raw["parentId"]; ok {
		id, err := decodeParentID(v)
		if err != nil {
			s.writeServiceError(w, r, "create_folder", err)
			return
		}
		parentID = id
	}

	entry, err := s.files.CreateFolder(r.Context(), user.ID, name, parentID)
	if err != nil {
		s.writeServiceError(w, r, "create_folder", err)
		return
	}
	writeJSON(w, http.StatusCreated, toFileDTO(entry))
}

func (s *HTTPServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.files.MaxUploadSize()+multipartSlack)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeServiceError(w, r, "upload", common.ErrPayloadTooLarge)
			return
		}
		s.writeServiceError(w, r, "upload", fmt.Errorf("%w: malformed multipart body", common.ErrValidation))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeServiceError(w, r, "upload", fmt.Errorf("%w: file part is required", common.ErrValidation))
		return
	}
	defer file.Close()

	// Multipart headers carry raw bytes; the name column only takes UTF-8.
	if !utf8.ValidString(header.Filename) {
		s.writeServiceError(w, r, "upload", fmt.Errorf("%w: file name is not valid UTF-8", common.ErrValidation))
		return
	}

	parentID, err := parseOptionalID(r.FormValue("parentId"))
	if err != nil {
		s.writeServiceError(w, r, "upload", err)
		return
	}

	entry, err := s.files.Upload(r.Context(), user.ID, header.Filename, file, parentID)
	if err != nil {
		s.writeServiceError(w, r, "upload", err)
		return
	}
	writeJSON(w, http.StatusOK, toFileDTO(entry))
}

func (s *HTTPServer) handleUpdateFile(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, "update", err)
		return
	}

	var raw map[string]json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil {
		s.writeServiceError(w, r, "update", err)
		return
	}

	patch, err := decodePatch(raw)
	if err != nil {
		s.writeServiceError(w, r, "update", err)
		return
	}

	entry, err := s.files.Update(r.Context(), user.ID, id, patch)
	if err != nil {
		s.writeServiceError(w, r, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, toFileDTO(entry))
}

func (s *HTTPServer) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, "delete", err)
		return
	}

	if err := s.files.Delete(r.Context(), user.ID, id); err != nil {
		s.writeServiceError(w, r, "delete", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "deleted"})
}

// handleServeBlob streams a blob to its owner only.
func (s *HTTPServer) handleServeBlob(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())
	locator := chi.URLParam(r, "*")

	rc, entry, err := s.files.OpenBlob(r.Context(), user.ID, locator)
	if err != nil {
		s.writeServiceError(w, r, "download", err)
		return
	}
	defer rc.Close()

	ctype := mime.TypeByExtension(path.Ext(locator))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": entry.Name}))

	if rs, ok := rc.(io.ReadSeeker); ok {
		http.ServeContent(w, r, "", entry.Modified, rs)
		return
	}
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn(r.Context(), "blob stream interrupted", "owner", user.ID, "id", entry.ID, "error", err)
	}
}

// --- decoding helpers ---

// pathID parses {id}. A malformed id cannot name an entry, so it is a 404.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ErrNotFound
	}
	return id, nil
}

// parseOptionalID reads a form value: empty or "null" means none.
func parseOptionalID(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: parentId must be a positive integer", common.ErrValidation)
	}
	return &id, nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// decodeParentID accepts a number, a numeric string or null.
func decodeParentID(v json.RawMessage) (*int64, error) {
	if isNull(v) {
		return nil, nil
	}
	var n int64
	if err := json.Unmarshal(v, &n); err == nil {
		if n <= 0 {
			return nil, fmt.Errorf("%w: parentId must be a positive integer", common.ErrValidation)
		}
		return &n, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil, fmt.Errorf("%w: parentId must be a number or null", common.ErrValidation)
	}
	return parseOptionalID(s)
}

// decodePatch builds a partial update. Absent keys are left untouched; a
// null parentId moves the entry to the root and a null or empty color
// clears it. Unknown keys are ignored.
func decodePatch(raw map[string]json.RawMessage) (models.FilePatch, error) {
	var p models.FilePatch

	if v, ok := raw["favorite"]; ok {
		var fav bool
		if isNull(v) || json.Unmarshal(v, &fav) != nil {
			return p, fmt.Errorf("%w: favorite must be a boolean", common.ErrValidation)
		}
		p.Favorite = &fav
	}

	if v, ok := raw["color"]; ok {
		if isNull(v) {
			p.ClearColor = true
		} else {
			var c string
			if err := json.Unmarshal(v, &c); err != nil {
				return p, fmt.Errorf("%w: color must be a string or null", common.ErrValidation)
			}
			if c == "" {
				p.ClearColor = true
			} else {
				p.Color = &c
			}
		}
	}

	if v, ok := raw["parentId"]; ok {
		id, err := decodeParentID(v)
		if err != nil {
			return p, err
		}
		p.ParentSet = true
		p.ParentID = id
	}

	return p, nil
}
