package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"goldbook/internal/domain"
)

func TestItemCategory(t *testing.T) {
	cases := map[string]string{
		"18BRA":  "Bracelets",
		"22CHA":  "Chains",
		"22C":    "Chains",
		"CHAHA":  "Chains",
		"21BAN":  "Bangles",
		"18RIN":  "Rings",
		"RING":   "Rings",
		"22PEN":  "Pendants",
		"PSET":   "Pendants",
		"18bra":  "Bracelets",
		" 22pen": "Pendants",
		"UNK":    domain.CategoryUncategorized,
		"UNCAT":  domain.CategoryUncategorized,
		"18XYZ":  domain.CategoryUncategorized,
		"":       domain.CategoryUncategorized,
	}
	for code, want := range cases {
		assert.Equal(t, want, ItemCategory(code), "code %q", code)
	}
}

func TestGenuineUncategorized(t *testing.T) {
	assert.True(t, GenuineUncategorized("UNK"))
	assert.True(t, GenuineUncategorized("22UNCAT"))
	assert.False(t, GenuineUncategorized("18XYZ"))
	assert.False(t, GenuineUncategorized("18BRA"))
}

func TestCleanQuarterlyCode(t *testing.T) {
	cases := map[string]string{
		"CCH":       "CHA",
		"CCHX":      "CHA",
		"CB":        "BRA",
		"BGL":       "BAN",
		"PSET":      "PEN",
		"22CCH-HM":  "22CHA",
		"PEN NEW":   "PEN",
		"18BRA":     "18BRA",
		"":          "UNK",
		"  ":        "UNK",
		"bgl":       "BAN",
	}
	for code, want := range cases {
		assert.Equal(t, want, CleanQuarterlyCode(code), "code %q", code)
	}
}
