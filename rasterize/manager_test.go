package rasterize

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slideforge/slideforge/api"
)

// fakeBackend renders a fixed number of synthetic pages, optionally failing
// partway through.
type fakeBackend struct {
	name      string
	available bool
	pages     int
	failAt    int // 1-based page to fail on, 0 = never
}

func (b *fakeBackend) Name() string      { return b.name }
func (b *fakeBackend) IsAvailable() bool { return b.available }

func (b *fakeBackend) Render(ctx context.Context, pdfPath string, dpi int, outDir string) ([]string, error) {
	var paths []string
	for i := 1; i <= b.pages; i++ {
		if b.failAt == i {
			return nil, newBackendError(b.name, "render", fmt.Errorf("page %d: boom", i))
		}
		outPath := filepath.Join(outDir, fmt.Sprintf("page_%04d.png", i))
		f, err := os.Create(outPath)
		if err != nil {
			return nil, err
		}
		if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 40, 30))); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		paths = append(paths, outPath)
	}
	return paths, nil
}

func managerWith(backends ...Backend) *Manager {
	return &Manager{backends: backends}
}

func TestRasterizeProducesOrderedTempPages(t *testing.T) {
	m := managerWith(&fakeBackend{name: "fake", available: true, pages: 3})

	set, err := m.Rasterize(context.Background(), "doc.pdf", 300)
	require.NoError(t, err)
	defer set.Release()

	require.Len(t, set.Sources, 3)
	for i, src := range set.Sources {
		assert.True(t, src.Temp)
		assert.Equal(t, 40, src.Width)
		assert.Equal(t, 30, src.Height)
		assert.Contains(t, src.Path, fmt.Sprintf("page_%04d", i+1))
		assert.FileExists(t, src.Path)
	}
}

func TestReleaseRemovesTempDirAndIsIdempotent(t *testing.T) {
	m := managerWith(&fakeBackend{name: "fake", available: true, pages: 2})

	set, err := m.Rasterize(context.Background(), "doc.pdf", 150)
	require.NoError(t, err)

	dir := set.Dir()
	require.DirExists(t, dir)

	set.Release()
	assert.NoDirExists(t, dir)

	// Second release is a no-op, not a panic.
	set.Release()
}

func TestMidRenderFailureLeavesNoTempFiles(t *testing.T) {
	m := managerWith(&fakeBackend{name: "fake", available: true, pages: 3, failAt: 2})

	before := tempPageDirs(t)
	_, err := m.Rasterize(context.Background(), "doc.pdf", 300)
	require.ErrorIs(t, err, api.ErrRasterization)

	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, "fake", backendErr.Backend)

	assert.Equal(t, before, tempPageDirs(t), "failed rasterization must not leak temp dirs")
}

// tempPageDirs lists this package's temp directories currently on disk.
func tempPageDirs(t *testing.T) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "slideforge-pages-*"))
	require.NoError(t, err)
	return matches
}

func TestRasterizeRejectsNonPositiveDPI(t *testing.T) {
	m := managerWith(&fakeBackend{name: "fake", available: true, pages: 1})

	for _, dpi := range []int{0, -10} {
		_, err := m.Rasterize(context.Background(), "doc.pdf", dpi)
		require.ErrorIs(t, err, api.ErrInvalidDimension)
	}
}

func TestNoBackendsAvailable(t *testing.T) {
	m := managerWith()

	_, err := m.Rasterize(context.Background(), "doc.pdf", 300)
	require.ErrorIs(t, err, api.ErrBackendUnavailable)
}

func TestSetPreferred(t *testing.T) {
	a := &fakeBackend{name: "a", available: true, pages: 1}
	b := &fakeBackend{name: "b", available: true, pages: 1}
	m := managerWith(a, b)

	require.NoError(t, m.SetPreferred("b"))
	picked, err := m.pick()
	require.NoError(t, err)
	assert.Equal(t, "b", picked.Name())

	require.Error(t, m.SetPreferred("nope"))
	assert.Equal(t, []string{"a", "b"}, m.Available())
}

func TestCancelledContextAbortsRender(t *testing.T) {
	// The real backends check ctx between pages; the manager must clean up
	// the temp dir when rendering reports the cancellation.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := managerWith(&cancelAwareBackend{})
	before := tempPageDirs(t)

	_, err := m.Rasterize(ctx, "doc.pdf", 300)
	require.ErrorIs(t, err, api.ErrRasterization)
	assert.Equal(t, before, tempPageDirs(t))
}

type cancelAwareBackend struct{}

func (b *cancelAwareBackend) Name() string      { return "cancel-aware" }
func (b *cancelAwareBackend) IsAvailable() bool { return true }

func (b *cancelAwareBackend) Render(ctx context.Context, pdfPath string, dpi int, outDir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, newBackendError(b.Name(), "render", err)
	}
	return nil, nil
}
