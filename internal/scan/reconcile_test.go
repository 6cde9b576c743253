package scan

import "testing"

func TestReconcileTotals(t *testing.T) {
	tests := []struct {
		name         string
		draft        ReceiptDraft
		wantSubtotal float64
		wantTotal    float64
	}{
		{
			name: "printed total within tolerance is kept",
			draft: ReceiptDraft{
				Items:    []ParsedLineItem{{TotalPrice: 10.00}},
				Subtotal: 10.00,
				Tax:      0.80,
				Total:    10.75,
			},
			wantSubtotal: 10.00,
			wantTotal:    10.75,
		},
		{
			name: "implausible printed total is recomputed",
			draft: ReceiptDraft{
				Items:    []ParsedLineItem{{TotalPrice: 10.00}},
				Subtotal: 10.00,
				Tax:      0.80,
				Total:    99.99,
			},
			wantSubtotal: 10.00,
			wantTotal:    10.80,
		},
		{
			name: "missing subtotal falls back to item sum",
			draft: ReceiptDraft{
				Items: []ParsedLineItem{{TotalPrice: 1.99}, {TotalPrice: 3.49}},
				Tax:   0.48,
			},
			wantSubtotal: 5.48,
			wantTotal:    5.96,
		},
		{
			name: "tip included in expected total",
			draft: ReceiptDraft{
				Items:    []ParsedLineItem{{TotalPrice: 12.00}},
				Subtotal: 12.00,
				Tax:      1.00,
				Tip:      2.00,
			},
			wantSubtotal: 12.00,
			wantTotal:    15.00,
		},
		{
			name:         "empty draft stays zero",
			draft:        ReceiptDraft{},
			wantSubtotal: 0,
			wantTotal:    0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			draft := tc.draft
			reconcileTotals(&draft)
			if draft.Subtotal != tc.wantSubtotal {
				t.Errorf("subtotal = %v, want %v", draft.Subtotal, tc.wantSubtotal)
			}
			if draft.Total != tc.wantTotal {
				t.Errorf("total = %v, want %v", draft.Total, tc.wantTotal)
			}
		})
	}
}

func TestRoundCents(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.006, 1.01},
		{5.48, 5.48},
		{1.994999, 1.99},
		{0, 0},
	}
	for _, tc := range tests {
		if got := roundCents(tc.in); got != tc.want {
			t.Errorf("roundCents(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
