package slideforge

import (
	"archive/zip"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slideforge/slideforge/api"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{G: 128, A: 255})

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func widescreenOpts() Options {
	return Options{
		Size: api.SlideSize{Name: "16:9", WidthIn: 13.3333333333, HeightIn: 7.5},
		Mode: api.ModeFit,
	}
}

func slideCount(t *testing.T, pptxPath string) int {
	t.Helper()
	r, err := zip.OpenReader(pptxPath)
	require.NoError(t, err)
	defer r.Close()

	count := 0
	for _, f := range r.File {
		if filepath.Dir(f.Name) == "ppt/slides" {
			count++
		}
	}
	return count
}

func TestConvertImageFolder(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "zebra.png", 100, 50)
	writePNG(t, dir, "Alpha.png", 50, 100)
	writePNG(t, dir, "mid.png", 64, 64)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignore.txt"), []byte("x"), 0o644))

	results := New().Convert(context.Background(), dir, widescreenOpts())
	require.Len(t, results, 1)

	res := results[0]
	require.NoError(t, res.Err)
	assert.Equal(t, 3, res.Slides)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, filepath.Join(dir, filepath.Base(dir)+".pptx"), res.Output)
	assert.FileExists(t, res.Output)
	assert.Equal(t, 3, slideCount(t, res.Output))
}

func TestConvertSingleImage(t *testing.T) {
	dir := t.TempDir()
	img := writePNG(t, dir, "photo.png", 192, 96)

	results := New().Convert(context.Background(), img, Options{Mode: api.ModeFill})
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	assert.Equal(t, 1, results[0].Slides)
	assert.Equal(t, filepath.Join(dir, "photo.pptx"), results[0].Output)
	assert.FileExists(t, results[0].Output)
}

func TestConvertEmptyFolder(t *testing.T) {
	results := New().Convert(context.Background(), t.TempDir(), widescreenOpts())
	require.Len(t, results, 1)
	require.ErrorIs(t, results[0].Err, api.ErrNothingToConvert)
}

func TestConvertMissingInput(t *testing.T) {
	results := New().Convert(context.Background(), filepath.Join(t.TempDir(), "absent"), widescreenOpts())
	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
}

func TestConvertUnsupportedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	results := New().Convert(context.Background(), path, widescreenOpts())
	require.Len(t, results, 1)
	require.ErrorIs(t, results[0].Err, api.ErrUnsupportedFormat)
}

func TestConvertRefusesOverwriteWithoutForce(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "only.png", 10, 10)
	existing := filepath.Join(dir, filepath.Base(dir)+".pptx")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0o644))

	results := New().Convert(context.Background(), dir, widescreenOpts())
	require.Len(t, results, 1)
	require.ErrorIs(t, results[0].Err, api.ErrOutputExists)

	// The pre-existing file is untouched.
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	opts := widescreenOpts()
	opts.Force = true
	results = New().Convert(context.Background(), dir, opts)
	require.NoError(t, results[0].Err)
	assert.Greater(t, fileSize(t, existing), int64(3))
}

func fileSize(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.Size()
}

func TestConvertBatchIsolatesFailures(t *testing.T) {
	good := t.TempDir()
	writePNG(t, good, "ok.png", 20, 20)
	bad := filepath.Join(t.TempDir(), "missing.pdf")

	summary := New().ConvertBatch(context.Background(), []string{bad, good}, widescreenOpts())

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Results, 2)
	assert.Error(t, summary.Results[0].Err)
	assert.NoError(t, summary.Results[1].Err)
	assert.NoError(t, summary.Err(), "partial success is not a terminal error")
}

func TestConvertRejectsSharedOutputForFolderOfPDFs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("%PDF-1.4"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.pdf"), []byte("%PDF-1.4"), 0o644))

	opts := widescreenOpts()
	opts.Output = "deck"
	opts.Force = true

	// Two PDFs mean two decks; a single explicit output must be refused
	// up front instead of letting the second deck overwrite the first.
	results := New().Convert(context.Background(), dir, opts)
	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
	assert.Contains(t, results[0].Err.Error(), "deck")
	assert.NoFileExists(t, "deck.pptx")

	// A folder holding a single PDF still accepts an explicit output.
	single := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(single, "only.pdf"), []byte("%PDF-1.4"), 0o644))
	results = New().Convert(context.Background(), single, opts)
	require.Len(t, results, 1)
	assert.NotContains(t, fmt.Sprintf("%v", results[0].Err), "cannot be shared")
}

func TestSummaryErrWhenAllFail(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.pdf")
	summary := New().ConvertBatch(context.Background(), []string{missing}, widescreenOpts())

	assert.True(t, summary.NothingConverted())
	require.Error(t, summary.Err())
}

func TestRecursiveFolderExpansion(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "chapter1")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0o755))
	writePNG(t, sub, "p1.png", 30, 30)
	writePNG(t, sub, "p2.png", 30, 30)

	opts := widescreenOpts()
	opts.Recursive = true
	results := New().Convert(context.Background(), root, opts)

	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, 2, results[0].Slides)
	assert.Equal(t, filepath.Join(sub, "chapter1.pptx"), results[0].Output)
}

func TestInferredSlideSizeIsLandscape(t *testing.T) {
	size := inferredSlideSize(api.ImageSource{Path: "p.png", Width: 960, Height: 1920})
	assert.InDelta(t, 20.0, size.WidthIn, 1e-9)
	assert.InDelta(t, 10.0, size.HeightIn, 1e-9)
}

func TestOutputPathDerivation(t *testing.T) {
	c := New()

	out, err := c.outputPath("/data/report.pdf", false, Options{Force: true})
	require.NoError(t, err)
	assert.Equal(t, "/data/report.pptx", out)

	out, err = c.outputPath("/data/photos", true, Options{Force: true})
	require.NoError(t, err)
	assert.Equal(t, "/data/photos/photos.pptx", out)

	out, err = c.outputPath("/data/report.pdf", false, Options{Force: true, Output: "deck"})
	require.NoError(t, err)
	assert.Equal(t, "deck.pptx", out)
}
