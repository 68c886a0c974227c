package rasterize

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// PdftoppmBackend shells out to poppler's pdftoppm.
type PdftoppmBackend struct{}

// NewPdftoppmBackend creates the poppler backend.
func NewPdftoppmBackend() *PdftoppmBackend {
	return &PdftoppmBackend{}
}

func (b *PdftoppmBackend) Name() string {
	return "pdftoppm"
}

// IsAvailable checks if pdftoppm is in PATH.
func (b *PdftoppmBackend) IsAvailable() bool {
	_, err := exec.LookPath("pdftoppm")
	return err == nil
}

func (b *PdftoppmBackend) Render(ctx context.Context, pdfPath string, dpi int, outDir string) ([]string, error) {
	if !b.IsAvailable() {
		return nil, newBackendError(b.Name(), "render", fmt.Errorf("pdftoppm not found in PATH"))
	}

	prefix := filepath.Join(outDir, "page")
	cmd := exec.CommandContext(ctx, "pdftoppm", "-png", "-r", strconv.Itoa(dpi), pdfPath, prefix)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, newBackendError(b.Name(), "render",
			fmt.Errorf("command failed: %w, output: %s", err, string(output)))
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, newBackendError(b.Name(), "render", err)
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "page") && strings.HasSuffix(e.Name(), ".png") {
			paths = append(paths, filepath.Join(outDir, e.Name()))
		}
	}
	// pdftoppm zero-pads page numbers to the document's width, so lexical
	// order is page order.
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, newBackendError(b.Name(), "render", fmt.Errorf("no pages produced"))
	}
	return paths, nil
}
