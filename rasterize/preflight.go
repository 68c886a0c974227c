package rasterize

import (
	"fmt"
	"path/filepath"
	"strings"

	pdfcpuapi "github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/slideforge/slideforge/api"
)

// PDFInfo describes a PDF before rasterization.
type PDFInfo struct {
	PageCount int

	// First page media box in inches, used to infer the slide size when
	// none is configured.
	PageWidthIn  float64
	PageHeightIn float64
}

// Preflight validates a PDF without rasterizing it: non-PDF and zero-page
// documents fail with ErrRasterization, password-protected documents with
// ErrEncryptedPDF. On success it reports the page count and the first
// page's dimensions (72 PDF points per inch).
func Preflight(path string) (PDFInfo, error) {
	ctx, err := pdfcpuapi.ReadContextFile(path)
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "password") || strings.Contains(msg, "encrypt") {
			return PDFInfo{}, fmt.Errorf("%w: %s", api.ErrEncryptedPDF, filepath.Base(path))
		}
		return PDFInfo{}, fmt.Errorf("%w: %s: %v", api.ErrRasterization, filepath.Base(path), err)
	}

	if ctx.PageCount == 0 {
		return PDFInfo{}, fmt.Errorf("%w: %s: document has no pages",
			api.ErrRasterization, filepath.Base(path))
	}

	info := PDFInfo{PageCount: ctx.PageCount}

	dims, err := ctx.PageDims()
	if err != nil || len(dims) == 0 || dims[0].Width <= 0 || dims[0].Height <= 0 {
		// Geometry probing is best effort; fall back to widescreen.
		info.PageWidthIn = 13.3333333333
		info.PageHeightIn = 7.5
		return info, nil
	}

	info.PageWidthIn = dims[0].Width / api.PointsPerInch
	info.PageHeightIn = dims[0].Height / api.PointsPerInch
	return info, nil
}
