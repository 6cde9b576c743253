package scan

import "math"

// totalTolerance is how far the printed total may drift from the computed
// one before the printed value is assumed misread.
const totalTolerance = 1.00

// reconcileTotals favors internal arithmetic consistency over possibly
// misread printed amounts: a zero subtotal is replaced by the item sum, and
// a missing or implausible total is replaced by subtotal + tax + tip.
func reconcileTotals(draft *ReceiptDraft) {
	calculated := 0.0
	for _, item := range draft.Items {
		calculated += item.TotalPrice
	}
	calculated = roundCents(calculated)

	if draft.Subtotal == 0 {
		draft.Subtotal = calculated
	}

	expected := roundCents(draft.Subtotal + draft.Tax + draft.Tip)
	if draft.Total == 0 || math.Abs(draft.Total-expected) > totalTolerance {
		draft.Total = expected
	}
}

func roundCents(value float64) float64 {
	return math.Round(value*100) / 100
}
