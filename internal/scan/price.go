package scan

import (
	"regexp"
	"strconv"
	"strings"
)

// PriceCandidate is a monetary value recovered from a single fragment.
type PriceCandidate struct {
	FragmentIndex int
	Value         float64
	RawText       string
}

// priceToken is the intermediate result of repairing one fragment's text.
type priceToken struct {
	value          float64
	currencyMarked bool
	bareInteger    bool
}

// priceRepairer turns raw fragment text into monetary values, tolerating the
// character substitutions and spacing artifacts OCR introduces. The rules
// run in a fixed order and the first applicable one wins.
type priceRepairer struct {
	qtyTimesUnit   *regexp.Regexp
	commaDecimal   *regexp.Regexp
	splitWhole     *regexp.Regexp
	splitFraction  *regexp.Regexp
	dollarAmount   *regexp.Regexp
	shortMarked    *regexp.Regexp
	confusedDollar *regexp.Regexp
	bareDecimal    *regexp.Regexp
	bareInteger    *regexp.Regexp
	repeatedDots   *regexp.Regexp
}

func newPriceRepairer() *priceRepairer {
	return &priceRepairer{
		// Quantity-times-unit-price lines: "2 $3.49", "3 S1.25"
		qtyTimesUnit: regexp.MustCompile(`^\d+\s+[$S]\d+\.\d{2}$`),
		// Comma read where the decimal point was: "$1,12"
		commaDecimal: regexp.MustCompile(`\$(\d+),(\d{2})\b`),
		// Stray leading digit split off the amount: "$4 4.99"
		splitWhole: regexp.MustCompile(`\$\d\s+(\d+\.\d{2})`),
		// Truncated decimal followed by junk digits: "$0.1 10"
		splitFraction: regexp.MustCompile(`(\$\d+\.\d)\s+\d+`),
		dollarAmount:  regexp.MustCompile(`\$(\d+\.?\d*)`),
		shortMarked:   regexp.MustCompile(`^\$(\d{1,2})$`),
		// "$" read as "S" or "s": "S0.29"
		confusedDollar: regexp.MustCompile(`[Ss](\d+\.\d{2})`),
		bareDecimal:    regexp.MustCompile(`^\d*\.\d{2}$`),
		bareInteger:    regexp.MustCompile(`^\d{1,2}$`),
		repeatedDots:   regexp.MustCompile(`\.{2,}`),
	}
}

// repair applies the ordered rule list to a fragment's text. It returns nil
// when the text cannot plausibly be a final price.
func (r *priceRepairer) repair(text string) *priceToken {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	// Unit-price ("2 @ $1.99") and tax-rate annotations are never the
	// final line price.
	if strings.ContainsAny(text, "@%") {
		return nil
	}
	if r.qtyTimesUnit.MatchString(text) {
		return nil
	}

	if strings.Contains(text, "$") {
		repaired := r.commaDecimal.ReplaceAllString(text, "$$$1.$2")
		repaired = r.splitWhole.ReplaceAllString(repaired, "$$$1")
		repaired = r.splitFraction.ReplaceAllString(repaired, "${1}0")
		m := r.dollarAmount.FindStringSubmatch(repaired)
		if m == nil {
			return nil
		}
		return r.parseMarked(m[1])
	}

	if m := r.confusedDollar.FindStringSubmatch(text); m != nil {
		return r.parseMarked(m[1])
	}

	// No currency marker at all. Strip OCR-inserted spaces and collapse
	// repeated dots before trying the bare shapes.
	bare := strings.ReplaceAll(text, " ", "")
	bare = r.repeatedDots.ReplaceAllString(bare, ".")
	if r.bareDecimal.MatchString(bare) {
		if strings.HasPrefix(bare, ".") {
			bare = "0" + bare
		}
		value, err := strconv.ParseFloat(bare, 64)
		if err != nil {
			return nil
		}
		return &priceToken{value: value}
	}
	if r.bareInteger.MatchString(bare) {
		value, err := strconv.ParseFloat(bare, 64)
		if err != nil {
			return nil
		}
		// Ambiguous without a currency marker: only usable when a
		// marked value nearby confirms it (split-decimal merge).
		return &priceToken{value: value, bareInteger: true}
	}

	return nil
}

// parseMarked handles a currency-marked numeric portion, normalizing marked
// integers that lost their decimal point.
func (r *priceRepairer) parseMarked(numeric string) *priceToken {
	if strings.Contains(numeric, ".") {
		value, err := strconv.ParseFloat(numeric, 64)
		if err != nil {
			return nil
		}
		return &priceToken{value: value, currencyMarked: true}
	}

	// Marked integer with the decimal point dropped by the recognizer.
	switch {
	case len(numeric) >= 3:
		numeric = numeric[:len(numeric)-2] + "." + numeric[len(numeric)-2:]
	case len(numeric) == 2:
		numeric = "0." + numeric
	default:
		numeric += ".00"
	}
	value, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return nil
	}
	return &priceToken{value: value, currencyMarked: true}
}

// shortMarkedInteger reports whether the fragment is nothing but a
// dollar-marked value of at most two digits with no decimal point, the
// shape left behind when the recognizer splits "$12.99" across fragments.
func (r *priceRepairer) shortMarkedInteger(text string) (string, bool) {
	m := r.shortMarked.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// collectPrices scans the fragments for price candidates, applying the
// split-decimal merge and the strategy-supplied ceiling. Fragments consumed
// by an earlier stage are skipped; a fragment absorbed by a merge is marked
// consumed so it cannot pair again.
func (r *priceRepairer) collectPrices(fragments []TextFragment, consumed []bool, ceiling float64) []PriceCandidate {
	var candidates []PriceCandidate

	for i := 0; i < len(fragments); i++ {
		if consumed[i] {
			continue
		}
		text := fragments[i].Text

		// Split-decimal recovery: "$12" followed by "99" is "12.99".
		if whole, ok := r.shortMarkedInteger(text); ok && i+1 < len(fragments) && !consumed[i+1] {
			next := strings.TrimSpace(fragments[i+1].Text)
			if r.bareInteger.MatchString(next) {
				value, err := strconv.ParseFloat(whole+"."+next, 64)
				if err == nil && acceptPrice(value, ceiling) {
					candidates = append(candidates, PriceCandidate{
						FragmentIndex: i,
						Value:         roundCents(value),
						RawText:       text + " " + next,
					})
					consumed[i+1] = true
					continue
				}
			}
		}

		token := r.repair(text)
		if token == nil || token.bareInteger {
			continue
		}
		if !acceptPrice(token.value, ceiling) {
			continue
		}
		candidates = append(candidates, PriceCandidate{
			FragmentIndex: i,
			Value:         roundCents(token.value),
			RawText:       text,
		})
	}

	return candidates
}

// repairFragment exposes single-fragment repair for the proximity strategy.
func (r *priceRepairer) repairFragment(text string, ceiling float64) (float64, bool) {
	token := r.repair(text)
	if token == nil || token.bareInteger || !acceptPrice(token.value, ceiling) {
		return 0, false
	}
	return roundCents(token.value), true
}

// acceptPrice bounds candidate values to plausible item prices. Values
// outside (0.01, ceiling] are totals, codes or unrelated numbers.
func acceptPrice(value, ceiling float64) bool {
	return value > 0.01 && value <= ceiling
}
