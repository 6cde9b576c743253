package scan

import (
	"math"
	"reflect"
	"testing"
)

func blocksFromLines(lines ...string) []RecognizedBlock {
	blocks := make([]RecognizedBlock, len(lines))
	for i, line := range lines {
		blocks[i] = RecognizedBlock{Text: line}
	}
	return blocks
}

func assertItems(t *testing.T, draft *ReceiptDraft, want []ParsedLineItem) {
	t.Helper()
	if len(draft.Items) != len(want) {
		t.Fatalf("got %d items, want %d: %+v", len(draft.Items), len(want), draft.Items)
	}
	for i := range want {
		got := draft.Items[i]
		if got.Name != want[i].Name || got.TotalPrice != want[i].TotalPrice || got.Quantity != want[i].Quantity {
			t.Errorf("item %d = {%s %v x%d}, want {%s %v x%d}",
				i, got.Name, got.TotalPrice, got.Quantity,
				want[i].Name, want[i].TotalPrice, want[i].Quantity)
		}
	}
}

func assertArithmetic(t *testing.T, draft *ReceiptDraft) {
	t.Helper()
	expected := draft.Subtotal + draft.Tax + draft.Tip
	if math.Abs(draft.Total-expected) > totalTolerance {
		t.Errorf("total %v drifts more than %v from subtotal+tax+tip = %v",
			draft.Total, totalTolerance, expected)
	}
}

func TestParseBasicReceipt(t *testing.T) {
	parser := NewParser()

	draft := parser.Parse(blocksFromLines(
		"WHOLE FOODS MARKET",
		"123 Main Street",
		"Bananas",
		"$1.99",
		"Milk",
		"$3.49",
		"Subtotal $5.48",
		"Tax $0.48",
		"Total $5.96",
	))

	if draft.StoreName != "WHOLE FOODS MARKET" {
		t.Errorf("store name = %q, want %q", draft.StoreName, "WHOLE FOODS MARKET")
	}
	if draft.StoreAddress != "123 Main Street" {
		t.Errorf("store address = %q, want %q", draft.StoreAddress, "123 Main Street")
	}
	assertItems(t, draft, []ParsedLineItem{
		{Name: "Bananas", TotalPrice: 1.99, Quantity: 1},
		{Name: "Milk", TotalPrice: 3.49, Quantity: 1},
	})
	if draft.Subtotal != 5.48 || draft.Tax != 0.48 || draft.Total != 5.96 {
		t.Errorf("totals = (%v, %v, %v), want (5.48, 0.48, 5.96)",
			draft.Subtotal, draft.Tax, draft.Total)
	}
	if draft.OCRMethod != OCRMethodOnDevice || draft.OCRConfidence != onDeviceConfidence {
		t.Errorf("ocr fields = (%q, %d), want (%q, %d)",
			draft.OCRMethod, draft.OCRConfidence, OCRMethodOnDevice, onDeviceConfidence)
	}
	assertArithmetic(t, draft)
}

func TestParseSameLineItem(t *testing.T) {
	parser := NewParser()

	draft := parser.Parse(blocksFromLines("Coffee $4.99"))

	assertItems(t, draft, []ParsedLineItem{
		{Name: "Coffee", TotalPrice: 4.99, Quantity: 1},
	})
	if draft.Subtotal != 4.99 || draft.Total != 4.99 {
		t.Errorf("totals = (%v, %v), want (4.99, 4.99)", draft.Subtotal, draft.Total)
	}
	assertArithmetic(t, draft)
}

func TestParseRepairsOCRDamagedPrices(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name  string
		lines []string
		want  []ParsedLineItem
	}{
		{
			name:  "comma for decimal point",
			lines: []string{"CORNER DELI", "Bagel", "$1,12"},
			want:  []ParsedLineItem{{Name: "Bagel", TotalPrice: 1.12, Quantity: 1}},
		},
		{
			name:  "dollar sign read as S",
			lines: []string{"CORNER DELI", "Banana", "S0.29"},
			want:  []ParsedLineItem{{Name: "Banana", TotalPrice: 0.29, Quantity: 1}},
		},
		{
			name:  "price split across fragments",
			lines: []string{"CORNER DELI", "Sandwich", "$12", "99"},
			want:  []ParsedLineItem{{Name: "Sandwich", TotalPrice: 12.99, Quantity: 1}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			draft := parser.Parse(blocksFromLines(tc.lines...))
			assertItems(t, draft, tc.want)
		})
	}
}

func TestParseDerivesMissingTotals(t *testing.T) {
	parser := NewParser()

	draft := parser.Parse(blocksFromLines(
		"FRESH MART",
		"Chicken Breast",
		"$10.00",
		"Rice",
		"$2.34",
		"Tax $1.00",
	))

	assertItems(t, draft, []ParsedLineItem{
		{Name: "Chicken Breast", TotalPrice: 10.00, Quantity: 1},
		{Name: "Rice", TotalPrice: 2.34, Quantity: 1},
	})
	if draft.Subtotal != 12.34 {
		t.Errorf("subtotal = %v, want 12.34", draft.Subtotal)
	}
	if draft.Tax != 1.00 {
		t.Errorf("tax = %v, want 1.00", draft.Tax)
	}
	if draft.Total != 13.34 {
		t.Errorf("total = %v, want 13.34", draft.Total)
	}
	assertArithmetic(t, draft)
}

func TestParseExcludesStoreLocationMarker(t *testing.T) {
	parser := NewParser()

	draft := parser.Parse(blocksFromLines(
		"COSTCO WHOLESALE",
		"Greenville #1005",
		"KS ORGANIC EGGS",
		"$6.49",
		"Subtotal $6.49",
		"Total $6.49",
	))

	assertItems(t, draft, []ParsedLineItem{
		{Name: "KS ORGANIC EGGS", TotalPrice: 6.49, Quantity: 1},
	})
	assertArithmetic(t, draft)
}

func TestParseKeepsEqualPricedItems(t *testing.T) {
	parser := NewParser()

	draft := parser.Parse(blocksFromLines(
		"FRESH MART",
		"Apple",
		"$2.00",
		"Banana",
		"$2.00",
	))

	assertItems(t, draft, []ParsedLineItem{
		{Name: "Apple", TotalPrice: 2.00, Quantity: 1},
		{Name: "Banana", TotalPrice: 2.00, Quantity: 1},
	})
}

func TestParseUsesProximityWithGeometry(t *testing.T) {
	parser := NewParser()

	box := func(v, h float64) *BoundingBox {
		return &BoundingBox{Top: &v, Bottom: &v, Left: &h, Right: &h}
	}
	draft := parser.Parse([]RecognizedBlock{
		{Text: "WHOLE FOODS", BoundingBox: box(10, 50)},
		{Text: "Milk", BoundingBox: box(150, 10)},
		{Text: "$3.49", BoundingBox: box(149, 200)},
		{Text: "Bananas", BoundingBox: box(100, 10)},
		{Text: "$1.99", BoundingBox: box(102, 200)},
		{Text: "VISA PAYMENT", BoundingBox: box(300, 10)},
		{Text: "$5.48", BoundingBox: box(320, 200)},
	})

	// Geometry pairs by distance and restores receipt order; the tender
	// amount below the payment marker never becomes an item.
	assertItems(t, draft, []ParsedLineItem{
		{Name: "Bananas", TotalPrice: 1.99, Quantity: 1},
		{Name: "Milk", TotalPrice: 3.49, Quantity: 1},
	})
}

func TestParseIsDeterministic(t *testing.T) {
	parser := NewParser()
	lines := []string{
		"WHOLE FOODS MARKET",
		"123 Main Street",
		"Bananas",
		"$1.99",
		"Milk",
		"$3.49",
		"Subtotal $5.48",
		"Tax $0.48",
		"Total $5.96",
	}

	first := parser.Parse(blocksFromLines(lines...))
	second := parser.Parse(blocksFromLines(lines...))

	// The date reflects scan time; everything else must be identical.
	second.Date = first.Date
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated parses differ:\n%+v\n%+v", first, second)
	}
}

func TestParseEmptyInput(t *testing.T) {
	parser := NewParser()

	draft := parser.Parse(nil)
	if draft.StoreName != "Unknown Store" {
		t.Errorf("store name = %q, want %q", draft.StoreName, "Unknown Store")
	}
	if len(draft.Items) != 0 {
		t.Errorf("expected no items, got %+v", draft.Items)
	}
	if draft.Total != 0 || draft.Subtotal != 0 {
		t.Errorf("totals = (%v, %v), want zeros", draft.Subtotal, draft.Total)
	}
	if draft.Items == nil {
		t.Error("items must be an empty slice, not nil")
	}
}

func TestRecalculate(t *testing.T) {
	draft := &ReceiptDraft{
		Items: []ParsedLineItem{
			{Name: "Bananas", TotalPrice: 1.99},
			{Name: "Milk", TotalPrice: 3.49},
		},
		Tax: 0.48,
		Tip: 1.00,
	}
	draft.Recalculate()

	if draft.Subtotal != 5.48 {
		t.Errorf("subtotal = %v, want 5.48", draft.Subtotal)
	}
	if draft.Total != 6.96 {
		t.Errorf("total = %v, want 6.96", draft.Total)
	}
}

func TestManualDraft(t *testing.T) {
	draft := ManualDraft()
	if draft.OCRMethod != OCRMethodManual {
		t.Errorf("method = %q, want %q", draft.OCRMethod, OCRMethodManual)
	}
	if draft.OCRConfidence != 0 {
		t.Errorf("confidence = %d, want 0", draft.OCRConfidence)
	}
	if len(draft.Items) != 0 || draft.Items == nil {
		t.Errorf("items = %+v, want empty slice", draft.Items)
	}
}

func TestErrorDraftSentinel(t *testing.T) {
	draft := errorDraft()
	if draft.StoreName != errorDraftStoreName {
		t.Errorf("store name = %q, want %q", draft.StoreName, errorDraftStoreName)
	}
	if draft.OCRConfidence != 0 {
		t.Errorf("confidence = %d, want 0", draft.OCRConfidence)
	}
}
