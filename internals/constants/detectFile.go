package constants

import (
	"path/filepath"
	"strings"
)

const (
	FileTypeImage   = 6
	FileTypeUnknown = 99
)

// DetectFileTypeFromExt: hanya gambar yang dikenali (upload gambar soal).
func DetectFileTypeFromExt(filename string) int {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return FileTypeImage
	default:
		return FileTypeUnknown
	}
}
