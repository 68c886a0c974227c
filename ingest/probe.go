package ingest

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/slideforge/slideforge/api"
)

// Probe reads the intrinsic pixel dimensions of a raster image and
// normalizes any EXIF orientation into them, so downstream geometry never
// reasons about rotation. For animated GIFs the logical screen size is
// reported; the deck embeds the file as-is and the viewer shows the first
// frame.
func Probe(path string) (api.ImageSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return api.ImageSource{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return api.ImageSource{}, fmt.Errorf("%w: %s: %v",
			api.ErrUnsupportedFormat, filepath.Base(path), err)
	}

	w, h := cfg.Width, cfg.Height
	if o := orientationOf(path); transposes(o) {
		w, h = h, w
	}

	src := api.ImageSource{Path: path, Width: w, Height: h}
	if err := src.Validate(); err != nil {
		return api.ImageSource{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return src, nil
}

// transposes reports whether an EXIF orientation value swaps the display
// axes. Values 5-8 rotate the image by 90 or 270 degrees.
func transposes(orientation int) bool {
	return orientation >= 5 && orientation <= 8
}

// orientationOf returns the EXIF orientation tag of a JPEG or TIFF file,
// or 0 when absent or unreadable. Other formats carry no EXIF block.
func orientationOf(path string) int {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".tif", ".tiff":
	default:
		return 0
	}

	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return 0
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 0
	}
	o, err := tag.Int(0)
	if err != nil {
		return 0
	}
	return o
}
