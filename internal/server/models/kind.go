package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind classifies a FileEntry.
type Kind string

const (
	KindFolder   Kind = "folder"
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindAudio    Kind = "audio"
	KindDocument Kind = "document"
	KindFile     Kind = "file"
)

var kindByExt = map[string]Kind{}

func init() {
	groups := map[Kind][]string{
		KindImage:    {"jpg", "jpeg", "png", "gif", "bmp", "webp", "svg", "heic", "tiff", "ico"},
		KindVideo:    {"mp4", "mov", "avi", "mkv", "webm", "wmv", "flv", "m4v"},
		KindAudio:    {"mp3", "wav", "ogg", "flac", "aac", "m4a", "wma", "opus"},
		KindDocument: {"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "odt", "ods", "odp", "txt", "rtf", "csv", "md"},
	}
	for kind, exts := range groups {
		for _, ext := range exts {
			kindByExt[ext] = kind
		}
	}
}

// KindFromName classifies a file by the extension of its name,
// case-insensitively. Unknown or missing extensions yield KindFile.
func KindFromName(name string) Kind {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if kind, ok := kindByExt[ext]; ok {
		return kind
	}
	return KindFile
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindFolder, KindImage, KindVideo, KindAudio, KindDocument, KindFile:
		return true
	}
	return false
}

// FormatSize renders a byte count in megabytes with two decimals.
func FormatSize(n int64) string {
	return fmt.Sprintf("%.2f MB", float64(n)/1024/1024)
}
