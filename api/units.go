package api

import (
	"fmt"
	"math"
)

// EMUPerInch is the OOXML length unit: 914400 English Metric Units per inch.
const EMUPerInch = 914400

// PointsPerInch is the PDF user-space unit density.
const PointsPerInch = 72.0

// EMU converts a physical length in inches to EMU. Lengths must be finite
// and strictly positive.
func EMU(inches float64) (int64, error) {
	if math.IsNaN(inches) || math.IsInf(inches, 0) || inches <= 0 {
		return 0, fmt.Errorf("%w: %v in", ErrInvalidDimension, inches)
	}
	return int64(math.Round(inches * EMUPerInch)), nil
}

// OffsetEMU converts a coordinate in inches to EMU. Unlike EMU it accepts
// zero, since a centered fill placement sits at the slide origin.
func OffsetEMU(inches float64) (int64, error) {
	if math.IsNaN(inches) || math.IsInf(inches, 0) || inches < 0 {
		return 0, fmt.Errorf("%w: offset %v in", ErrInvalidDimension, inches)
	}
	return int64(math.Round(inches * EMUPerInch)), nil
}

// Inches converts an EMU length back to inches.
func Inches(emu int64) float64 {
	return float64(emu) / EMUPerInch
}
