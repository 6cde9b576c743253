package scan

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ItemCandidate is a fragment provisionally classified as an item name,
// pending pairing with a price.
type ItemCandidate struct {
	FragmentIndex int
	Name          string
}

// itemFilter decides whether a fragment can plausibly be an item name.
// Everything a receipt prints that is not a purchased item - payment lines,
// addresses, membership numbers, register metadata - must be rejected here,
// because a false positive pairs garbage with a real price.
type itemFilter struct {
	excludePatterns []*regexp.Regexp
	excludeKeywords []string
	modifierWords   map[string]struct{}
	streetSuffix    *regexp.Regexp
	leadingNumber   *regexp.Regexp
	numberAndWord   *regexp.Regexp
	letterCount     *regexp.Regexp
}

// addressGuardWindow is the fragment range where header street addresses
// show up; the tighter address check only applies there so item names like
// "1 Pasta Sauce" further down are not mistaken for addresses.
const addressGuardWindow = 15

func newItemFilter() *itemFilter {
	return &itemFilter{
		excludePatterns: []*regexp.Regexp{
			// Pure prices and percentages
			regexp.MustCompile(`^\$?\d+\.\d{2}$`),
			regexp.MustCompile(`\d+(\.\d+)?\s*%`),
			// Asterisk-prefixed serials and long numeric codes
			regexp.MustCompile(`^\*+\s*\d+`),
			regexp.MustCompile(`^\d{3,}$`),
			// Field labels
			regexp.MustCompile(`(?i)^\s*(sub\s*total|total|tax|tip|change|balance|amount\s*due)\b`),
			// City/state, zip and phone lines
			regexp.MustCompile(`[A-Za-z]+,\s*[A-Z]{2}\b`),
			regexp.MustCompile(`^\d{5}(-\d{4})?$`),
			regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
			// Store location markers: "Greenville #1005"
			regexp.MustCompile(`#\s*\d+`),
			// Membership numbers
			regexp.MustCompile(`(?i)\bmember(ship)?\b.*\d`),
		},
		excludeKeywords: []string{
			// Payment methods and tender
			"visa", "mastercard", "amex", "american express", "discover",
			"debit", "credit", "cash", "change due", "tender", "payment",
			"approved", "auth code", "account",
			// Totals vocabulary
			"subtotal", "total", "tax", "tip", "balance", "amount due",
			// Address and day-of-week words
			"street", "avenue", "boulevard", "suite", "monday", "tuesday",
			"wednesday", "thursday", "friday", "saturday", "sunday",
			// Transaction metadata
			"cashier", "register", "transaction", "terminal", "receipt",
			"invoice", "order #", "thank you", "welcome", "savings",
			"coupon", "rewards", "points",
		},
		modifierWords: toSet([]string{
			"extra", "hot", "iced", "large", "medium", "small", "decaf",
			"light", "plain", "double", "triple", "half", "add", "with",
			"tall", "grande", "venti", "mild", "sweet",
		}),
		streetSuffix:  regexp.MustCompile(`(?i)\b(street|st|avenue|ave|road|rd|boulevard|blvd|drive|dr|lane|ln|way|court|ct|circle|cir|parkway|pkwy|highway|hwy|suite|ste)\b`),
		leadingNumber: regexp.MustCompile(`^(\d+)\b`),
		numberAndWord: regexp.MustCompile(`\b\d+\s+[A-Z][a-z]+`),
		letterCount:   regexp.MustCompile(`[A-Za-z]`),
	}
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// isCandidate reports whether a fragment can be an item name. storeName and
// storeAddress are the already-detected header fields; a fragment equal to
// either (under OCR-tolerant normalization) is the header itself.
func (f *itemFilter) isCandidate(text string, index int, storeName, storeAddress string) bool {
	text = strings.TrimSpace(text)
	if len(text) < 3 || len(text) > 50 {
		return false
	}
	if len(f.letterCount.FindAllString(text, -1)) < 3 {
		return false
	}

	for _, pattern := range f.excludePatterns {
		if pattern.MatchString(text) {
			return false
		}
	}

	lower := strings.ToLower(text)
	for _, keyword := range f.excludeKeywords {
		if strings.Contains(lower, keyword) {
			return false
		}
	}

	if f.isModifierPhrase(lower) {
		return false
	}

	normalized := normalizeForComparison(text)
	if normalized == normalizeForComparison(storeName) {
		return false
	}
	if storeAddress != "" && normalized == normalizeForComparison(storeAddress) {
		return false
	}

	if index < addressGuardWindow && f.looksLikeStreetAddress(text) {
		return false
	}

	return true
}

// isModifierPhrase rejects short order-modifier lines ("Extra Hot") that
// describe the previous item rather than naming a new one.
func (f *itemFilter) isModifierPhrase(lower string) bool {
	words := strings.Fields(lower)
	if len(words) == 0 || len(words) > 2 {
		return false
	}
	for _, w := range words {
		if _, ok := f.modifierWords[w]; !ok {
			return false
		}
	}
	return true
}

// looksLikeStreetAddress catches header address fragments: either a large
// leading street number, or a number+word shape combined with a street
// suffix. A small leading quantity ("1 Pasta Sauce") passes.
func (f *itemFilter) looksLikeStreetAddress(text string) bool {
	if m := f.leadingNumber.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 100 {
			return true
		}
	}
	return f.numberAndWord.MatchString(text) && f.streetSuffix.MatchString(text)
}

// normalizeForComparison strips apostrophe variants and collapses
// whitespace so OCR apostrophe corruption does not defeat the store-name
// equality check.
func normalizeForComparison(text string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(text) {
		switch r {
		case '\'', '‘', '’', '`':
			continue
		}
		sb.WriteRune(r)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// mergeAdjacent recovers item names the recognizer split across two blocks:
// a multi-word or ALL-CAPS candidate followed by one short trailing word in
// the very next fragment is a single name. Candidates separated by price or
// rejected fragments never merge.
func mergeAdjacent(candidates []ItemCandidate) []ItemCandidate {
	var merged []ItemCandidate
	for i := 0; i < len(candidates); i++ {
		current := candidates[i]
		if i+1 < len(candidates) &&
			candidates[i+1].FragmentIndex == current.FragmentIndex+1 &&
			mergeable(current.Name, candidates[i+1].Name) {
			current.Name += " " + candidates[i+1].Name
			i++
		}
		merged = append(merged, current)
	}
	return merged
}

func mergeable(name, next string) bool {
	if !(strings.Contains(name, " ") || isAllCaps(name)) {
		return false
	}
	if strings.Contains(next, " ") || len(next) > 10 || next == "" {
		return false
	}
	return !unicode.IsDigit(rune(next[0]))
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}
