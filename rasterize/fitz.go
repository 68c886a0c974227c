package rasterize

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
)

// FitzBackend rasterizes PDFs in-process through MuPDF.
type FitzBackend struct{}

// NewFitzBackend creates the MuPDF backend.
func NewFitzBackend() *FitzBackend {
	return &FitzBackend{}
}

func (b *FitzBackend) Name() string {
	return "mupdf"
}

// IsAvailable always holds: MuPDF is linked into the binary.
func (b *FitzBackend) IsAvailable() bool {
	return true
}

func (b *FitzBackend) Render(ctx context.Context, pdfPath string, dpi int, outDir string) ([]string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, newBackendError(b.Name(), "open", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages == 0 {
		return nil, newBackendError(b.Name(), "open", fmt.Errorf("document has no pages"))
	}

	paths := make([]string, 0, pages)
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, newBackendError(b.Name(), "render", err)
		}

		img, err := doc.ImageDPI(i, float64(dpi))
		if err != nil {
			return nil, newBackendError(b.Name(), "render", fmt.Errorf("page %d: %w", i+1, err))
		}

		outPath := filepath.Join(outDir, fmt.Sprintf("page_%04d.png", i+1))
		f, err := os.Create(outPath)
		if err != nil {
			return nil, newBackendError(b.Name(), "render", err)
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return nil, newBackendError(b.Name(), "render", fmt.Errorf("page %d: %w", i+1, err))
		}
		if err := f.Close(); err != nil {
			return nil, newBackendError(b.Name(), "render", err)
		}
		paths = append(paths, outPath)
	}
	return paths, nil
}
