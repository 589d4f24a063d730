package classify

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNoPurityBand        = errors.New("purity matches no karat band")
	ErrAmbiguousPurityBand = errors.New("purity matches more than one karat band")
)

// ArtifactPurity marks non-sale adjustment records exported by the
// point-of-sale system. Rows carrying it are dropped before classification.
const ArtifactPurity = 0.995

// Band is a closed interval on the raw purity fraction. Floor is the nominal
// manufacturing purity used for gold-gain computation; it may differ from Lo
// (the 22K floor sits at 0.9165 while the band accepts 0.916).
type Band struct {
	Karat string  `json:"karat"`
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Floor float64 `json:"floor"`
}

type Bands []Band

// DefaultBands returns the band table confirmed against the trading data.
// The 9K upper bound is unverified business-side and stays configurable.
func DefaultBands() Bands {
	return Bands{
		{Karat: "22K", Lo: 0.916, Hi: 0.926, Floor: 0.9165},
		{Karat: "21K", Lo: 0.875, Hi: 0.880, Floor: 0.875},
		{Karat: "18K", Lo: 0.75, Hi: 0.76, Floor: 0.75},
		{Karat: "9K", Lo: 0.375, Hi: 0.40, Floor: 0.375},
	}
}

// Validate rejects malformed or overlapping band tables at startup.
func (bs Bands) Validate() error {
	if len(bs) == 0 {
		return errors.New("purity bands: empty table")
	}
	for _, b := range bs {
		if b.Karat == "" {
			return errors.New("purity bands: band without karat label")
		}
		if b.Lo > b.Hi {
			return fmt.Errorf("purity bands: %s has lo %v > hi %v", b.Karat, b.Lo, b.Hi)
		}
	}
	ordered := make(Bands, len(bs))
	copy(ordered, bs)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Lo < ordered[j].Lo })
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Lo <= ordered[i-1].Hi {
			return fmt.Errorf("purity bands: %s overlaps %s", ordered[i-1].Karat, ordered[i].Karat)
		}
	}
	return nil
}

// Classify returns the single band containing p. Closed intervals; a value
// inside no band or inside several is an explicit error, never a default.
func (bs Bands) Classify(p float64) (Band, error) {
	var match Band
	found := 0
	for _, b := range bs {
		if p >= b.Lo && p <= b.Hi {
			match = b
			found++
		}
	}
	switch found {
	case 0:
		return Band{}, fmt.Errorf("purity %v: %w", p, ErrNoPurityBand)
	case 1:
		return match, nil
	default:
		return Band{}, fmt.Errorf("purity %v: %w", p, ErrAmbiguousPurityBand)
	}
}

// GoldGain is the metal-content profit in weight-equivalent grams:
// (purity - manufacturing floor) * gross weight. Linear in gross weight.
func GoldGain(purity, floor, grossWeight float64) float64 {
	return (purity - floor) * grossWeight
}
