// Package deck assembles slide decks: one blank slide per image source,
// each image placed by the geometry engine, rendered through a container
// sink. The builder is all-or-nothing — a failure on any source aborts the
// whole deck so no partial output is ever produced.
package deck

import (
	"github.com/slideforge/slideforge/api"
)

// SlideHandle identifies a slide added to a Sink.
type SlideHandle int

// Sink is the output container's surface: it accepts blank slides and image
// placements and serializes the finished deck. Implementations append
// slides in insertion order; slide order is part of the observable
// contract.
type Sink interface {
	// AddBlankSlide appends a blank slide of the given physical size in
	// inches and returns its handle.
	AddBlankSlide(widthIn, heightIn float64) (SlideHandle, error)

	// PlaceImage draws the image on the slide at the placement rectangle,
	// pre-cropped by the placement's crop fractions (zero when not
	// applicable).
	PlaceImage(slide SlideHandle, src api.ImageSource, p api.Placement) error

	// Save serializes the deck to path.
	Save(path string) error
}
