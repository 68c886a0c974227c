// Package api holds the shared value types of the conversion pipeline:
// slide geometry, placement results, image sources and the error taxonomy.
// Everything geometric is expressed in inches; conversion to the output
// container's native unit happens only at the point of insertion.
package api

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
)

// Mode selects how an image is placed on a slide.
type Mode int

const (
	// ModeFit scales the image uniformly so it is fully contained in the
	// slide, centered. The background may show (letterbox/pillarbox).
	ModeFit Mode = iota

	// ModeFill scales the image uniformly so the slide is fully covered,
	// cropping symmetric margins off the source as needed.
	ModeFill
)

func (m Mode) String() string {
	switch m {
	case ModeFit:
		return "fit"
	case ModeFill:
		return "fill"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode parses "fit" or "fill", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fit":
		return ModeFit, nil
	case "fill":
		return ModeFill, nil
	}
	return ModeFit, fmt.Errorf("invalid placement mode %q (want fit or fill)", s)
}

// SlideSize is the physical slide geometry in inches. One size is selected
// per run and applied to every slide in the deck.
type SlideSize struct {
	Name     string  `yaml:"name"`
	WidthIn  float64 `yaml:"width_in"`
	HeightIn float64 `yaml:"height_in"`
}

// Validate rejects non-finite and non-positive dimensions.
func (s SlideSize) Validate() error {
	for _, v := range []float64{s.WidthIn, s.HeightIn} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: slide %gx%g in", ErrInvalidDimension, s.WidthIn, s.HeightIn)
		}
	}
	return nil
}

// IsZero reports whether the size is unset and should be inferred from the
// first page or image of the input.
func (s SlideSize) IsZero() bool {
	return s.WidthIn == 0 && s.HeightIn == 0
}

// AspectRatio returns width over height.
func (s SlideSize) AspectRatio() float64 {
	return s.WidthIn / s.HeightIn
}

func (s SlideSize) String() string {
	if s.Name != "" {
		return fmt.Sprintf("%s (%.2f\" x %.2f\")", s.Name, s.WidthIn, s.HeightIn)
	}
	return fmt.Sprintf("%.2f\" x %.2f\"", s.WidthIn, s.HeightIn)
}

// Presets are the slide sizes offered by the CLI, in menu order.
// 16:9 is the PowerPoint default widescreen.
var Presets = []SlideSize{
	{Name: "16:9", WidthIn: 13.3333333333, HeightIn: 7.5},
	{Name: "4:3", WidthIn: 10.0, HeightIn: 7.5},
	{Name: "letter", WidthIn: 11.0, HeightIn: 8.5},
	{Name: "a4", WidthIn: 11.69, HeightIn: 8.27},
	{Name: "legal", WidthIn: 14.0, HeightIn: 8.5},
	{Name: "tabloid", WidthIn: 17.0, HeightIn: 11.0},
}

// PresetByName looks up a preset case-insensitively.
func PresetByName(name string) (SlideSize, bool) {
	return lo.Find(Presets, func(s SlideSize) bool {
		return strings.EqualFold(s.Name, name)
	})
}

// Crop describes the fraction of each source edge discarded in fill mode.
// All fractions are in [0, 1) and symmetric per axis.
type Crop struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// IsZero reports whether no cropping applies.
func (c Crop) IsZero() bool {
	return c == Crop{}
}

// Placement is where an image lands on a slide: destination rectangle in
// inches plus the source crop fractions (zero outside fill mode).
type Placement struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
	Crop   Crop
}

// ImageSource is a raster image on disk together with its intrinsic pixel
// dimensions. Orientation metadata is already normalized into the
// dimensions, so downstream geometry never reasons about rotation.
type ImageSource struct {
	Path   string
	Width  int
	Height int

	// Temp marks rasterizer-produced pages that are deleted after the
	// deck is built.
	Temp bool
}

// Validate rejects non-positive pixel dimensions.
func (s ImageSource) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: image %dx%d px", ErrInvalidDimension, s.Width, s.Height)
	}
	return nil
}
