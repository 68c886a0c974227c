// Package rasterize turns PDF documents into ordered sequences of temporary
// page images at a caller-specified DPI. Rendering is delegated to
// pluggable backends (in-process MuPDF, poppler's pdftoppm); the temp files
// of one document are owned by a scoped PageSet that must be released on
// every exit path.
package rasterize

import (
	"context"
	"fmt"
)

// Backend renders every page of a PDF into raster files at the given DPI.
type Backend interface {
	// Name identifies the backend.
	Name() string

	// IsAvailable checks whether the backend can run on this system.
	IsAvailable() bool

	// Render writes one image per page into outDir and returns the file
	// paths in page order.
	Render(ctx context.Context, pdfPath string, dpi int, outDir string) ([]string, error)
}

// BackendError wraps a failure from a specific rasterization backend.
type BackendError struct {
	Backend   string
	Operation string
	Err       error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend %s failed: %v", e.Backend, e.Operation, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func newBackendError(backend, operation string, err error) error {
	return &BackendError{Backend: backend, Operation: operation, Err: err}
}
