package constants

import (
	"path/filepath"
	"strings"
)

type FileType int

const (
	FileImage   FileType = 1
	FileUnknown FileType = 99
)

// DetectFileTypeFromExt: hanya gambar yang diterima (ikon fasilitas)
func DetectFileTypeFromExt(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg", ".webp":
		return FileImage
	default:
		return FileUnknown
	}
}
