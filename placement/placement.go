// Package placement is the geometric core: given a source image's pixel
// dimensions and a slide's physical dimensions, it computes the destination
// rectangle and, for fill mode, the source crop fractions.
//
// The scale factor is always uniform across both axes; the image is never
// stretched. Compute is a pure function: identical inputs yield identical
// results.
package placement

import (
	"fmt"

	"github.com/slideforge/slideforge/api"
)

// Compute places an image of pw x ph pixels on the given slide.
//
// Fit mode contains the image in the slide, centered, possibly leaving
// background bars. Fill mode covers the slide completely; the destination
// rectangle is the full slide and the overflow is expressed as symmetric
// crop fractions on exactly one axis of the source.
func Compute(pw, ph int, slide api.SlideSize, mode api.Mode) (api.Placement, error) {
	if pw <= 0 || ph <= 0 {
		return api.Placement{}, fmt.Errorf("%w: source %dx%d px", api.ErrInvalidDimension, pw, ph)
	}
	if err := slide.Validate(); err != nil {
		return api.Placement{}, err
	}

	arSrc := float64(pw) / float64(ph)
	arSlide := slide.AspectRatio()

	var p api.Placement
	switch mode {
	case api.ModeFit:
		if arSrc >= arSlide {
			// Source relatively wider: width-constrained.
			p.Width = slide.WidthIn
			p.Height = slide.WidthIn / arSrc
		} else {
			p.Height = slide.HeightIn
			p.Width = slide.HeightIn * arSrc
		}

	case api.ModeFill:
		p.Width = slide.WidthIn
		p.Height = slide.HeightIn
		if arSrc >= arSlide {
			// Source relatively wider: trim left/right symmetrically.
			visible := arSlide / arSrc
			margin := (1 - visible) / 2
			p.Crop = api.Crop{Left: margin, Right: margin}
		} else {
			visible := arSrc / arSlide
			margin := (1 - visible) / 2
			p.Crop = api.Crop{Top: margin, Bottom: margin}
		}

	default:
		return api.Placement{}, fmt.Errorf("unknown placement mode %v", mode)
	}

	p.X = (slide.WidthIn - p.Width) / 2
	p.Y = (slide.HeightIn - p.Height) / 2
	return p, nil
}
