package scan

import (
	"regexp"
	"strconv"
	"strings"
)

// fieldClassifier detects the non-item receipt fields: store name, store
// address, the labelled totals and the printed date. Patterns are compiled
// once and the classifier is safe for concurrent use.
type fieldClassifier struct {
	boilerplate []*regexp.Regexp
	allCapsName *regexp.Regexp
	titleName   *regexp.Regexp

	streetAddress *regexp.Regexp
	bareAddress   *regexp.Regexp

	totalAmount    *regexp.Regexp
	subtotalAmount *regexp.Regexp
	taxAmount      *regexp.Regexp
	tipAmount      *regexp.Regexp

	datePattern *regexp.Regexp
}

// storeNameWindow limits store-name detection to the top of the receipt.
const storeNameWindow = 10

func newFieldClassifier() *fieldClassifier {
	return &fieldClassifier{
		boilerplate: []*regexp.Regexp{
			// Date and time stamps
			regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`),
			regexp.MustCompile(`\d{1,2}:\d{2}`),
			// Phone numbers
			regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
			// Register and cashier markers
			regexp.MustCompile(`(?i)\b(cashier|register|reg|trans|term|lane|clerk)\b`),
			// Pure numerics and price-like lines
			regexp.MustCompile(`^[\d\s.,$#*-]+$`),
			// State + zip
			regexp.MustCompile(`\b[A-Z]{2}\s+\d{5}(-\d{4})?\b`),
			// Street addresses
			regexp.MustCompile(`(?i)^\d+\s+\w+.*\b(st|street|ave|avenue|rd|road|blvd|boulevard|dr|drive|ln|lane|way|ct|court|pkwy|parkway|hwy|highway)\b`),
			// City, state zip
			regexp.MustCompile(`[A-Za-z]+,\s*[A-Z]{2}\b`),
		},
		allCapsName: regexp.MustCompile(`^[A-Z][A-Z\s'&.)-]+$`),
		titleName:   regexp.MustCompile(`^[A-Z][a-z]+(\s+[A-Z][a-z]+)*$`),

		streetAddress: regexp.MustCompile(`(?i)\b\d+\s+[\w\s.]*?\b(street|st|avenue|ave|road|rd|boulevard|blvd|drive|dr|lane|ln|way|court|ct|circle|cir|parkway|pkwy|highway|hwy|plaza|pl)\b\.?`),
		bareAddress:   regexp.MustCompile(`\b\d+\s+(?:[A-Z][a-z]+\s*)+`),

		totalAmount:    regexp.MustCompile(`(?i)total[:\s]+\$?(\d+\.?\d{2})`),
		subtotalAmount: regexp.MustCompile(`(?i)sub\s*total[:\s]+\$?(\d+\.?\d{2})`),
		taxAmount:      regexp.MustCompile(`(?i)tax[:\s]+\$?(\d+\.?\d{2})`),
		tipAmount:      regexp.MustCompile(`(?i)tip[:\s]+\$?(\d+\.?\d{2})`),

		datePattern: regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`),
	}
}

// detectStoreName picks the store name from the first fragments of the
// receipt. ALL-CAPS banner lines win over title-case lines, which win over
// whatever candidate survived the boilerplate filters.
func (f *fieldClassifier) detectStoreName(fragments []TextFragment) string {
	limit := len(fragments)
	if limit > storeNameWindow {
		limit = storeNameWindow
	}

	var candidates []string
	for _, fragment := range fragments[:limit] {
		text := fragment.Text
		if len(text) < 4 || len(text) > 40 {
			continue
		}
		if f.isBoilerplate(text) {
			continue
		}
		candidates = append(candidates, text)
	}

	if len(candidates) == 0 {
		return "Unknown Store"
	}
	for _, c := range candidates {
		if f.allCapsName.MatchString(c) {
			return c
		}
	}
	for _, c := range candidates {
		if f.titleName.MatchString(c) {
			return c
		}
	}
	return candidates[0]
}

func (f *fieldClassifier) isBoilerplate(text string) bool {
	for _, pattern := range f.boilerplate {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// detectStoreAddress finds a street address in the joined receipt text and
// tries to extend it with an adjacent city/state line.
func (f *fieldClassifier) detectStoreAddress(joined string) string {
	address := f.streetAddress.FindString(joined)
	if address == "" {
		address = f.bareAddress.FindString(joined)
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return ""
	}

	// Follow-up anchored on the matched text: "123 Main Street\nDenver, CO 80202"
	extension := regexp.MustCompile(regexp.QuoteMeta(address) + `[,\s]*\n?\s*([A-Za-z .]+,?\s*[A-Z]{2}(\s+\d{5}(-\d{4})?)?)`)
	if m := extension.FindStringSubmatch(joined); m != nil {
		return address + ", " + strings.TrimSpace(m[1])
	}
	return address
}

// detectTotals runs the labelled-amount passes over the joined text. The
// total takes the last match because receipts often print a
// subtotal-labelled total above the final one.
func (f *fieldClassifier) detectTotals(joined string) (total, subtotal, tax, tip float64) {
	if matches := f.totalAmount.FindAllStringSubmatch(joined, -1); len(matches) > 0 {
		total = parseAmount(matches[len(matches)-1][1])
	}
	if m := f.subtotalAmount.FindStringSubmatch(joined); m != nil {
		subtotal = parseAmount(m[1])
	}
	if m := f.taxAmount.FindStringSubmatch(joined); m != nil {
		tax = parseAmount(m[1])
	}
	if m := f.tipAmount.FindStringSubmatch(joined); m != nil {
		tip = parseAmount(m[1])
	}
	return total, subtotal, tax, tip
}

// detectDate returns the first printed date string, or "" when none is
// found. Callers decide what to do with it; the draft date is always the
// scan time.
func (f *fieldClassifier) detectDate(joined string) string {
	return f.datePattern.FindString(joined)
}

func parseAmount(s string) float64 {
	// Amounts arrive as captured digit groups; a missing decimal point
	// means the last two digits are cents ("548" is 5.48).
	if !strings.Contains(s, ".") && len(s) > 2 {
		s = s[:len(s)-2] + "." + s[len(s)-2:]
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return value
}
