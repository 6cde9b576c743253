package services

import (
	"strings"
)

// Normalizer expands the abbreviations receipts print for item names, so
// "GV ORG MLK 1GAL" becomes "Great Value Organic Milk 1 Gallon". The
// expansion tables are injected at construction; the service itself is
// stateless and safe for concurrent use.
type Normalizer struct {
	brands        map[string]string
	abbreviations map[string]string
	units         map[string]string
}

// NewNormalizer creates a normalizer with the default expansion tables.
func NewNormalizer() *Normalizer {
	return NewNormalizerWithTables(defaultBrands, defaultAbbreviations, defaultUnits)
}

// NewNormalizerWithTables creates a normalizer with custom tables. Keys are
// matched case-insensitively against whole words.
func NewNormalizerWithTables(brands, abbreviations, units map[string]string) *Normalizer {
	return &Normalizer{
		brands:        lowerKeys(brands),
		abbreviations: lowerKeys(abbreviations),
		units:         lowerKeys(units),
	}
}

func lowerKeys(table map[string]string) map[string]string {
	out := make(map[string]string, len(table))
	for k, v := range table {
		out[strings.ToLower(k)] = v
	}
	return out
}

// Normalize expands a raw item name word by word. Brand codes are checked
// first, then general abbreviations, then quantity+unit suffixes; words with
// no expansion pass through title-cased.
func (n *Normalizer) Normalize(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return name
	}

	expanded := make([]string, 0, len(words))
	for _, word := range words {
		key := strings.ToLower(strings.Trim(word, ".,"))
		if full, ok := n.brands[key]; ok {
			expanded = append(expanded, full)
			continue
		}
		if full, ok := n.abbreviations[key]; ok {
			expanded = append(expanded, full)
			continue
		}
		if qty, unit, ok := n.splitUnit(key); ok {
			expanded = append(expanded, qty+" "+unit)
			continue
		}
		expanded = append(expanded, titleCase(word))
	}

	return strings.Join(expanded, " ")
}

// splitUnit handles fused quantity+unit tokens like "1gal" or "16oz".
func (n *Normalizer) splitUnit(word string) (qty, unit string, ok bool) {
	i := 0
	for i < len(word) && (word[i] >= '0' && word[i] <= '9' || word[i] == '.') {
		i++
	}
	if i == 0 || i == len(word) {
		return "", "", false
	}
	full, found := n.units[word[i:]]
	if !found {
		return "", "", false
	}
	return word[:i], full, true
}

func titleCase(word string) string {
	if word == "" {
		return word
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

var defaultBrands = map[string]string{
	"gv":  "Great Value",
	"mm":  "Member's Mark",
	"ks":  "Kirkland Signature",
	"sb":  "Store Brand",
	"hb":  "Happy Belly",
	"sf":  "Simply Fresh",
	"og":  "O Organics",
	"365": "365 Everyday Value",
}

var defaultAbbreviations = map[string]string{
	"org":    "Organic",
	"orgnc":  "Organic",
	"mlk":    "Milk",
	"chz":    "Cheese",
	"chkn":   "Chicken",
	"ckn":    "Chicken",
	"brst":   "Breast",
	"grnd":   "Ground",
	"bf":     "Beef",
	"trky":   "Turkey",
	"sndwch": "Sandwich",
	"brd":    "Bread",
	"wht":    "White",
	"whl":    "Whole",
	"wheat":  "Wheat",
	"bttr":   "Butter",
	"pnt":    "Peanut",
	"choc":   "Chocolate",
	"van":    "Vanilla",
	"strwb":  "Strawberry",
	"ban":    "Banana",
	"tom":    "Tomato",
	"pot":    "Potato",
	"on":     "Onion",
	"grn":    "Green",
	"bns":    "Beans",
	"frz":    "Frozen",
	"frsh":   "Fresh",
	"lrg":    "Large",
	"sm":     "Small",
	"med":    "Medium",
	"dzn":    "Dozen",
	"eggs":   "Eggs",
	"yog":    "Yogurt",
	"ygt":    "Yogurt",
	"cer":    "Cereal",
	"jc":     "Juice",
	"wtr":    "Water",
	"sda":    "Soda",
	"snck":   "Snack",
	"crkr":   "Crackers",
	"ppr":    "Paper",
	"twl":    "Towels",
	"tp":     "Toilet Paper",
	"dtrgnt": "Detergent",
	"shmp":   "Shampoo",
}

var defaultUnits = map[string]string{
	"gal": "Gallon",
	"gl":  "Gallon",
	"oz":  "Ounce",
	"lb":  "Pound",
	"lbs": "Pounds",
	"pk":  "Pack",
	"ct":  "Count",
	"ltr": "Liter",
	"l":   "Liter",
	"ml":  "Milliliter",
	"qt":  "Quart",
	"pt":  "Pint",
	"doz": "Dozen",
}
