package deck

import (
	"fmt"
	"path/filepath"

	"github.com/flanksource/commons/logger"

	"github.com/slideforge/slideforge/api"
	"github.com/slideforge/slideforge/placement"
)

// Build creates one slide per source on the sink, in the order presented.
//
// Sources must arrive pre-sorted (case-insensitive by filename, or page
// order for rasterized PDFs); the builder never re-sorts. The first failure
// aborts the whole deck.
func Build(sink Sink, sources []api.ImageSource, slide api.SlideSize, mode api.Mode) error {
	if len(sources) == 0 {
		return api.ErrNothingToConvert
	}
	if err := slide.Validate(); err != nil {
		return err
	}

	for i, src := range sources {
		name := filepath.Base(src.Path)

		handle, err := sink.AddBlankSlide(slide.WidthIn, slide.HeightIn)
		if err != nil {
			return fmt.Errorf("add slide %d for %s: %w", i+1, name, err)
		}

		p, err := placement.Compute(src.Width, src.Height, slide, mode)
		if err != nil {
			return fmt.Errorf("place %s: %w", name, err)
		}

		if err := sink.PlaceImage(handle, src, p); err != nil {
			return fmt.Errorf("draw %s: %w", name, err)
		}

		logger.Debugf("slide %d: %s %dx%d px -> %.2fx%.2f in at (%.2f, %.2f)",
			i+1, name, src.Width, src.Height, p.Width, p.Height, p.X, p.Y)
	}
	return nil
}
