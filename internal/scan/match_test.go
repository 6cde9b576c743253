package scan

import "testing"

func newTestContext(fragments []TextFragment, storeName, storeAddress string) *matchContext {
	return &matchContext{
		fragments:    fragments,
		consumed:     make([]bool, len(fragments)),
		filter:       newItemFilter(),
		repairer:     newPriceRepairer(),
		storeName:    storeName,
		storeAddress: storeAddress,
	}
}

func TestSameLinePass(t *testing.T) {
	fragments := fragmentsFromTexts(
		"CORNER DELI",
		"Coffee $4.99",
		"Bagel 1.25",
		"Total $6.24",
		"Candy $0.05",
		"Gift Card $1000.00",
	)
	ctx := newTestContext(fragments, "CORNER DELI", "")

	items := sameLinePass(ctx)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(items), items)
	}
	if items[0].Name != "Coffee" || items[0].TotalPrice != 4.99 {
		t.Errorf("item 0 = %+v, want Coffee 4.99", items[0])
	}
	if items[1].Name != "Bagel" || items[1].TotalPrice != 1.25 {
		t.Errorf("item 1 = %+v, want Bagel 1.25", items[1])
	}
	if !ctx.consumed[1] || !ctx.consumed[2] {
		t.Error("matched fragments must be consumed")
	}
	if ctx.consumed[3] {
		t.Error("totals line must not be consumed as an item")
	}
}

func TestSequentialMatcherPairsByOrder(t *testing.T) {
	fragments := fragmentsFromTexts(
		"FRESH MART",
		"Bananas",
		"Milk",
		"$1.99",
		"$3.49",
		"Subtotal $5.48",
	)
	ctx := newTestContext(fragments, "FRESH MART", "")

	items := SequentialMatcher{}.Pair(ctx)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(items), items)
	}
	if items[0].Name != "Bananas" || items[0].TotalPrice != 1.99 {
		t.Errorf("item 0 = %+v, want Bananas 1.99", items[0])
	}
	if items[1].Name != "Milk" || items[1].TotalPrice != 3.49 {
		t.Errorf("item 1 = %+v, want Milk 3.49", items[1])
	}
}

func TestSequentialMatcherTruncatesExtraPrices(t *testing.T) {
	// More recoverable prices than item names: the surplus is noise from
	// the totals block and must not invent items.
	fragments := fragmentsFromTexts(
		"FRESH MART",
		"Bananas",
		"$1.99",
		"$0.48",
		"$2.47",
	)
	ctx := newTestContext(fragments, "FRESH MART", "")

	items := SequentialMatcher{}.Pair(ctx)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d: %+v", len(items), items)
	}
	if items[0].Name != "Bananas" || items[0].TotalPrice != 1.99 {
		t.Errorf("item = %+v, want Bananas 1.99", items[0])
	}
}

func TestIsEndOfItems(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Subtotal $5.48", true},
		{"TOTAL", true},
		{"T O T A L", true},
		{"Tax: $0.48", true},
		{"Balance Due", true},
		{"Bananas", false},
		{"Tax free zone", false},
	}
	for _, tc := range tests {
		if got := isEndOfItems(tc.text); got != tc.want {
			t.Errorf("isEndOfItems(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestProximityMatcherPairsNearest(t *testing.T) {
	fragments := []TextFragment{
		{Text: "WHOLE FOODS", Vertical: 10, Horizontal: 50, HasGeometry: true},
		{Text: "Bananas", Vertical: 100, Horizontal: 10, HasGeometry: true},
		{Text: "$1.99", Vertical: 102, Horizontal: 200, HasGeometry: true},
		{Text: "Milk", Vertical: 150, Horizontal: 10, HasGeometry: true},
		{Text: "$3.49", Vertical: 149, Horizontal: 200, HasGeometry: true},
	}
	ctx := newTestContext(fragments, "WHOLE FOODS", "")

	items := ProximityMatcher{}.Pair(ctx)
	sortByPosition(items)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(items), items)
	}
	if items[0].Name != "Bananas" || items[0].TotalPrice != 1.99 {
		t.Errorf("item 0 = %+v, want Bananas 1.99", items[0])
	}
	if items[1].Name != "Milk" || items[1].TotalPrice != 3.49 {
		t.Errorf("item 1 = %+v, want Milk 3.49", items[1])
	}
}

func TestProximityMatcherSkipsPaymentSection(t *testing.T) {
	fragments := []TextFragment{
		{Text: "WHOLE FOODS", Vertical: 10, Horizontal: 50, HasGeometry: true},
		{Text: "Bananas", Vertical: 100, Horizontal: 10, HasGeometry: true},
		{Text: "$1.99", Vertical: 102, Horizontal: 200, HasGeometry: true},
		{Text: "VISA PAYMENT", Vertical: 300, Horizontal: 10, HasGeometry: true},
		{Text: "$5.48", Vertical: 320, Horizontal: 200, HasGeometry: true},
	}
	ctx := newTestContext(fragments, "WHOLE FOODS", "")

	items := ProximityMatcher{}.Pair(ctx)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d: %+v", len(items), items)
	}
	if items[0].Name != "Bananas" {
		t.Errorf("item = %+v, want Bananas", items[0])
	}
}

func TestProximityMatcherLeavesDistantPriceUnmatched(t *testing.T) {
	fragments := []TextFragment{
		{Text: "WHOLE FOODS", Vertical: 10, Horizontal: 50, HasGeometry: true},
		{Text: "Bananas", Vertical: 100, Horizontal: 10, HasGeometry: true},
		{Text: "$1.99", Vertical: 102, Horizontal: 200, HasGeometry: true},
		{Text: "$7.77", Vertical: 400, Horizontal: 200, HasGeometry: true},
	}
	ctx := newTestContext(fragments, "WHOLE FOODS", "")

	items := ProximityMatcher{}.Pair(ctx)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d: %+v", len(items), items)
	}
	if items[0].TotalPrice != 1.99 {
		t.Errorf("item = %+v, want price 1.99", items[0])
	}
}

func TestSortByPosition(t *testing.T) {
	items := []ParsedLineItem{
		{Name: "Third", position: 300},
		{Name: "First", position: 100},
		{Name: "SecondA", position: 200},
		{Name: "SecondB", position: 200},
	}
	sortByPosition(items)

	wantOrder := []string{"First", "SecondA", "SecondB", "Third"}
	for i, want := range wantOrder {
		if items[i].Name != want {
			t.Errorf("position %d = %q, want %q", i, items[i].Name, want)
		}
	}
}
