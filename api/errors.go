package api

import "errors"

var (
	// ErrInvalidDimension is returned for zero, negative or non-finite
	// geometry input. Always a caller bug, never retried.
	ErrInvalidDimension = errors.New("slideforge: invalid dimension")

	// ErrRasterization is returned when a PDF cannot be rendered to images.
	ErrRasterization = errors.New("slideforge: pdf rasterization failed")

	// ErrEncryptedPDF is returned for password-protected PDFs.
	ErrEncryptedPDF = errors.New("slideforge: pdf is encrypted")

	// ErrBackendUnavailable is returned when no rasterization backend can
	// be invoked on this system.
	ErrBackendUnavailable = errors.New("slideforge: no pdf rasterization backend available")

	// ErrUnsupportedFormat is returned for files outside the extension
	// allow-list, or images no registered decoder can read.
	ErrUnsupportedFormat = errors.New("slideforge: unsupported input format")

	// ErrNothingToConvert is returned when an input yields zero usable sources.
	ErrNothingToConvert = errors.New("slideforge: nothing to convert")

	// ErrOutputExists is returned when the output file already exists and
	// overwriting was not confirmed.
	ErrOutputExists = errors.New("slideforge: output file already exists")
)
