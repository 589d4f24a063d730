package classify

import (
	"regexp"
	"strings"

	"goldbook/internal/domain"
)

// codeSuffix extracts the alphabetic family from an item code such as
// "18BRA" (two purity digits, then the family code).
var codeSuffix = regexp.MustCompile(`^\d{0,2}([A-Z]+)`)

var itemCategories = map[string]string{
	"BRA":   "Bracelets",
	"CHA":   "Chains",
	"C":     "Chains",
	"CHAHA": "Chains",
	"BAN":   "Bangles",
	"RIN":   "Rings",
	"RING":  "Rings",
	"PEN":   "Pendants",
	"PSET":  "Pendants",
	"UNCAT": domain.CategoryUncategorized,
	"UNK":   domain.CategoryUncategorized,
}

// genuineUncategorized are codes that deliberately mark an uncategorized
// item, as opposed to codes whose family simply has no mapping.
var genuineUncategorized = map[string]bool{
	"UNCAT": true,
	"UNK":   true,
}

// ItemCategory maps an item code to its jewellery category.
// Unmapped codes degrade to Uncategorized rather than failing.
func ItemCategory(code string) string {
	family := codeFamily(code)
	if cat, ok := itemCategories[family]; ok {
		return cat
	}
	return domain.CategoryUncategorized
}

// GenuineUncategorized reports whether the code explicitly marks an
// uncategorized item (UNCAT/UNK) rather than being parse noise.
func GenuineUncategorized(code string) bool {
	return genuineUncategorized[codeFamily(code)]
}

func codeFamily(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	m := codeSuffix.FindStringSubmatch(code)
	if m == nil {
		return code
	}
	return m[1]
}

// Quarterly-file item codes arrive with helper suffixes and house variants
// of the family codes. They are rewritten into the shared families before
// categorization; codes left empty become UNK.
var quarterlyCodeSubs = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`[-/ ](HM|NEW|OLD|RPR)\b`), ""},
	{regexp.MustCompile(`CCH[A-Z]*`), "CHA"},
	{regexp.MustCompile(`CB[A-Z]*`), "BRA"},
	{regexp.MustCompile(`BGL[A-Z]*`), "BAN"},
	{regexp.MustCompile(`PSET[A-Z]*`), "PEN"},
}

// CleanQuarterlyCode normalizes a quarterly-file item code into the shared
// code families used by ItemCategory.
func CleanQuarterlyCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, sub := range quarterlyCodeSubs {
		code = sub.pattern.ReplaceAllString(code, sub.repl)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return "UNK"
	}
	return code
}
