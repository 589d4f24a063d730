package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyKnownBands(t *testing.T) {
	bands := DefaultBands()

	cases := []struct {
		purity float64
		karat  string
		floor  float64
	}{
		{0.920, "22K", 0.9165},
		{0.916, "22K", 0.9165},
		{0.926, "22K", 0.9165},
		{0.875, "21K", 0.875},
		{0.880, "21K", 0.875},
		{0.755, "18K", 0.75},
		{0.375, "9K", 0.375},
		{0.40, "9K", 0.375},
	}
	for _, tc := range cases {
		band, err := bands.Classify(tc.purity)
		require.NoError(t, err, "purity %v", tc.purity)
		assert.Equal(t, tc.karat, band.Karat, "purity %v", tc.purity)
		assert.Equal(t, tc.floor, band.Floor, "purity %v", tc.purity)
	}
}

func TestClassifyOutsideAllBands(t *testing.T) {
	bands := DefaultBands()
	for _, p := range []float64{0.50, 0.0, 1.0, 0.915, 0.93, 0.881} {
		_, err := bands.Classify(p)
		require.ErrorIs(t, err, ErrNoPurityBand, "purity %v", p)
	}
}

func TestClassifyAmbiguousBands(t *testing.T) {
	bands := Bands{
		{Karat: "A", Lo: 0.90, Hi: 0.95, Floor: 0.90},
		{Karat: "B", Lo: 0.94, Hi: 0.96, Floor: 0.94},
	}
	_, err := bands.Classify(0.945)
	require.ErrorIs(t, err, ErrAmbiguousPurityBand)
}

func TestBandsValidate(t *testing.T) {
	require.NoError(t, DefaultBands().Validate())

	overlapping := Bands{
		{Karat: "A", Lo: 0.90, Hi: 0.95, Floor: 0.90},
		{Karat: "B", Lo: 0.95, Hi: 0.96, Floor: 0.95},
	}
	assert.Error(t, overlapping.Validate())

	inverted := Bands{{Karat: "A", Lo: 0.95, Hi: 0.90, Floor: 0.90}}
	assert.Error(t, inverted.Validate())

	assert.Error(t, Bands{}.Validate())
}

func TestGoldGainLinearInWeight(t *testing.T) {
	assert.InDelta(t, 0.035, GoldGain(0.920, 0.9165, 10), 1e-9)
	assert.InDelta(t, 0.070, GoldGain(0.920, 0.9165, 20), 1e-9)
	assert.InDelta(t, 0.0, GoldGain(0.9165, 0.9165, 100), 1e-9)
	// Returns carry negative gross weight and invert the gain.
	assert.InDelta(t, -0.035, GoldGain(0.920, 0.9165, -10), 1e-9)
}
