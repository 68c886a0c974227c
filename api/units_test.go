package api

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMU(t *testing.T) {
	tests := []struct {
		name   string
		inches float64
		want   int64
	}{
		{"one inch", 1, 914400},
		{"ten inches", 10, 9144000},
		{"widescreen width", 13.3333333333, 12192000},
		{"widescreen height", 7.5, 6858000},
		{"rounds to nearest", 0.0000005, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EMU(tt.inches)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEMURejectsDegenerateLengths(t *testing.T) {
	for _, in := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := EMU(in)
		require.ErrorIs(t, err, ErrInvalidDimension, "EMU(%v)", in)
	}
}

func TestOffsetEMUAllowsZero(t *testing.T) {
	got, err := OffsetEMU(0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)

	got, err = OffsetEMU(0.41666666665)
	require.NoError(t, err)
	assert.Equal(t, int64(381000), got)
}

func TestOffsetEMURejectsNegativeAndNonFinite(t *testing.T) {
	for _, in := range []float64{-0.001, math.NaN(), math.Inf(1)} {
		_, err := OffsetEMU(in)
		require.ErrorIs(t, err, ErrInvalidDimension, "OffsetEMU(%v)", in)
	}
}

func TestInchesRoundTrip(t *testing.T) {
	for _, in := range []float64{0.5, 1, 7.5, 13.3333333333} {
		emu, err := EMU(in)
		require.NoError(t, err)
		assert.InDelta(t, in, Inches(emu), 1e-6)
	}
}
