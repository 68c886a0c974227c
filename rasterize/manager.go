package rasterize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/flanksource/commons/logger"

	"github.com/slideforge/slideforge/api"
	"github.com/slideforge/slideforge/ingest"
)

// Manager selects among the available rasterization backends, with an
// optional explicit preference.
type Manager struct {
	backends  []Backend
	preferred string
	mu        sync.RWMutex
}

// NewManager auto-detects available backends in preference order:
// in-process MuPDF first, then poppler's pdftoppm.
func NewManager() *Manager {
	m := &Manager{}
	for _, b := range []Backend{NewFitzBackend(), NewPdftoppmBackend()} {
		if b.IsAvailable() {
			m.backends = append(m.backends, b)
		}
	}
	return m
}

// Available returns the names of the detected backends.
func (m *Manager) Available() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.backends))
	for i, b := range m.backends {
		names[i] = b.Name()
	}
	return names
}

// SetPreferred selects a backend by name for subsequent rasterizations.
func (m *Manager) SetPreferred(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.backends {
		if b.Name() == name {
			m.preferred = name
			return nil
		}
	}
	return fmt.Errorf("backend %q not available", name)
}

func (m *Manager) pick() (Backend, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.backends) == 0 {
		return nil, api.ErrBackendUnavailable
	}
	if m.preferred != "" {
		for _, b := range m.backends {
			if b.Name() == m.preferred {
				return b, nil
			}
		}
	}
	return m.backends[0], nil
}

// Rasterize renders every page of pdfPath at the given DPI into a fresh
// temporary directory and returns the pages, in order, as a scoped PageSet.
// Rendering cost grows with dpi²; callers conventionally clamp dpi to
// [72, 1200].
func (m *Manager) Rasterize(ctx context.Context, pdfPath string, dpi int) (*PageSet, error) {
	if dpi <= 0 {
		return nil, fmt.Errorf("%w: dpi %d", api.ErrInvalidDimension, dpi)
	}

	backend, err := m.pick()
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "slideforge-pages-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	logger.Debugf("rasterizing %s at %d dpi via %s", pdfPath, dpi, backend.Name())
	paths, err := backend.Render(ctx, pdfPath, dpi, dir)
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("%w: %s: %w", api.ErrRasterization, filepath.Base(pdfPath), err)
	}

	set := &PageSet{dir: dir}
	for _, p := range paths {
		src, err := ingest.Probe(p)
		if err != nil {
			set.Release()
			return nil, fmt.Errorf("%w: %s: %w", api.ErrRasterization, filepath.Base(pdfPath), err)
		}
		src.Temp = true
		set.Sources = append(set.Sources, src)
	}
	return set, nil
}
