// Package ingest normalizes heterogeneous inputs into a uniform sequence of
// raster image sources: it classifies filesystem entries by extension,
// probes pixel dimensions, and enumerates image folders in display order.
package ingest

import (
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// Kind classifies a filesystem entry.
type Kind int

const (
	KindUnsupported Kind = iota
	KindImage
	KindPDF
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindPDF:
		return "pdf"
	}
	return "unsupported"
}

// imageExts is the fixed extension allow-list. No content sniffing.
var imageExts = []string{
	".png", ".jpg", ".jpeg", ".tif", ".tiff", ".webp",
	".bmp", ".gif", ".ico", ".heic", ".heif",
}

// Classify determines whether path names a supported raster image, a PDF,
// or neither, by case-insensitive extension. Directories are not recursed
// into here; recursion policy belongs to the caller.
func Classify(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".pdf":
		return KindPDF
	case lo.Contains(imageExts, ext):
		return KindImage
	}
	return KindUnsupported
}
