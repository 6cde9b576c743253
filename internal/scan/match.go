package scan

import (
	"regexp"
	"sort"
	"strings"
)

// ParsedLineItem is the final pairing of one item name with one price.
type ParsedLineItem struct {
	Name       string  `json:"name"`
	TotalPrice float64 `json:"totalPrice"`
	Quantity   int     `json:"quantity"`

	// position of the originating price fragment, used to restore
	// receipt order across strategies.
	position float64
}

// matchContext carries the per-parse state shared by the pairing passes.
// consumed marks fragments already claimed by an earlier pass so no
// fragment contributes to two line items.
type matchContext struct {
	fragments    []TextFragment
	consumed     []bool
	filter       *itemFilter
	repairer     *priceRepairer
	storeName    string
	storeAddress string
}

// pairingStrategy pairs the remaining item and price fragments after the
// same-line pass. Exactly one strategy runs per parse, selected by whether
// the recognizer supplied usable geometry.
type pairingStrategy interface {
	Pair(ctx *matchContext) []ParsedLineItem
}

// Price plausibility ceilings. The sequential strategy pairs blindly by
// order, so it only trusts values in grocery-item range; the proximity
// strategy has geometry backing the pairing and accepts more.
const (
	sequentialPriceCeiling = 50
	proximityPriceCeiling  = 100
)

// Same-line bounds are looser: the price shares a fragment with its name,
// so the pairing itself is unambiguous.
const (
	sameLineMinPrice = 0.05
	sameLineMaxPrice = 1000
)

var sameLinePattern = regexp.MustCompile(`^(.+?)\s+\$?(\d+\.\d{2})$`)

// sameLinePass captures receipts where the recognizer kept an item's name
// and price in one line. It always runs first, regardless of geometry.
func sameLinePass(ctx *matchContext) []ParsedLineItem {
	var items []ParsedLineItem

	for i, fragment := range ctx.fragments {
		if ctx.consumed[i] {
			continue
		}
		m := sameLinePattern.FindStringSubmatch(fragment.Text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if !ctx.filter.isCandidate(name, i, ctx.storeName, ctx.storeAddress) {
			continue
		}
		price := parseAmount(m[2])
		if price <= sameLineMinPrice || price >= sameLineMaxPrice {
			continue
		}
		items = append(items, ParsedLineItem{
			Name:       name,
			TotalPrice: roundCents(price),
			Quantity:   1,
			position:   fragment.Vertical,
		})
		ctx.consumed[i] = true
	}

	return items
}

// SequentialMatcher pairs items and prices by parallel list order. It
// assumes the point-of-sale printout lists names and prices as two
// same-order columns, which holds even when the recognizer loses the
// column alignment entirely.
type SequentialMatcher struct{}

// endOfItemsKeywords terminate item collection; everything after the totals
// block is payment noise. Matching also runs against a space-stripped copy
// of the fragment to tolerate OCR-inserted spaces.
var endOfItemsKeywords = []string{"tax:", "total", "balance", "subtotal"}

func (SequentialMatcher) Pair(ctx *matchContext) []ParsedLineItem {
	var candidates []ItemCandidate
	for i, fragment := range ctx.fragments {
		if isEndOfItems(fragment.Text) {
			break
		}
		if ctx.consumed[i] {
			continue
		}
		if !ctx.filter.isCandidate(fragment.Text, i, ctx.storeName, ctx.storeAddress) {
			continue
		}
		candidates = append(candidates, ItemCandidate{FragmentIndex: i, Name: fragment.Text})
	}
	candidates = mergeAdjacent(candidates)

	// Prices are collected across the whole list: totals sections often
	// interleave with trailing item prices on noisy scans.
	prices := ctx.repairer.collectPrices(ctx.fragments, ctx.consumed, sequentialPriceCeiling)
	if len(prices) > len(candidates) {
		prices = prices[:len(candidates)]
	}

	var items []ParsedLineItem
	for k := range prices {
		items = append(items, ParsedLineItem{
			Name:       candidates[k].Name,
			TotalPrice: prices[k].Value,
			Quantity:   1,
			position:   ctx.fragments[prices[k].FragmentIndex].Vertical,
		})
		ctx.consumed[candidates[k].FragmentIndex] = true
		ctx.consumed[prices[k].FragmentIndex] = true
	}
	return items
}

func isEndOfItems(text string) bool {
	lower := strings.ToLower(text)
	stripped := strings.ReplaceAll(lower, " ", "")
	for _, keyword := range endOfItemsKeywords {
		if strings.Contains(lower, keyword) || strings.Contains(stripped, keyword) {
			return true
		}
	}
	return false
}

// ProximityMatcher pairs each price with the spatially nearest candidate
// fragment. Used when the recognizer supplied real geometry.
type ProximityMatcher struct{}

const (
	// maxPairingDistance caps how far apart a name and price may sit
	// before the price is left unmatched.
	maxPairingDistance = 50
	// horizontalWeight discounts horizontal offsets: receipts are
	// columnar, so vertical alignment dominates.
	horizontalWeight = 0.1
	// rightOfPricePenalty biases against candidates printed after their
	// price; names lead prices on almost every layout.
	rightOfPricePenalty = 5
)

var paymentMarkers = []string{"payment", "visa", "mastercard", "amex", "american express", "discover"}

func (ProximityMatcher) Pair(ctx *matchContext) []ParsedLineItem {
	paymentStart, hasPaymentSection := detectPaymentStart(ctx.fragments)

	var items []ParsedLineItem
	for i, fragment := range ctx.fragments {
		if ctx.consumed[i] {
			continue
		}
		if hasPaymentSection && fragment.Vertical >= paymentStart {
			continue
		}
		price, ok := ctx.repairer.repairFragment(fragment.Text, proximityPriceCeiling)
		if !ok {
			continue
		}

		best := -1
		bestDistance := 0.0
		for j, candidate := range ctx.fragments {
			if j == i || ctx.consumed[j] {
				continue
			}
			if !ctx.filter.isCandidate(candidate.Text, j, ctx.storeName, ctx.storeAddress) {
				continue
			}
			distance := abs(candidate.Vertical-fragment.Vertical) +
				horizontalWeight*abs(candidate.Horizontal-fragment.Horizontal)
			if candidate.Horizontal > fragment.Horizontal {
				distance += rightOfPricePenalty
			}
			if best == -1 || distance < bestDistance {
				best = j
				bestDistance = distance
			}
		}
		if best == -1 || bestDistance > maxPairingDistance {
			continue
		}

		items = append(items, ParsedLineItem{
			Name:       ctx.fragments[best].Text,
			TotalPrice: price,
			Quantity:   1,
			position:   fragment.Vertical,
		})
		ctx.consumed[i] = true
		ctx.consumed[best] = true
	}
	return items
}

// detectPaymentStart finds the vertical position where the payment section
// begins; prices at or below it are tender amounts, not item prices.
func detectPaymentStart(fragments []TextFragment) (float64, bool) {
	for _, fragment := range fragments {
		lower := strings.ToLower(fragment.Text)
		for _, marker := range paymentMarkers {
			if strings.Contains(lower, marker) {
				return fragment.Vertical, true
			}
		}
	}
	return 0, false
}

// sortByPosition restores receipt order regardless of which strategy
// produced each line item. The sort is stable so items sharing a position
// keep their emission order.
func sortByPosition(items []ParsedLineItem) {
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].position < items[b].position
	})
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
