package scan

import "testing"

func fragmentsFromTexts(texts ...string) []TextFragment {
	fragments := make([]TextFragment, len(texts))
	for i, text := range texts {
		fragments[i] = TextFragment{
			Text:       text,
			Vertical:   float64(i * syntheticRowStep),
			Horizontal: float64(i * syntheticColStep),
		}
	}
	return fragments
}

func TestDetectStoreName(t *testing.T) {
	classifier := newFieldClassifier()

	tests := []struct {
		name  string
		texts []string
		want  string
	}{
		{
			name:  "all caps banner wins over title case",
			texts: []string{"12/25/2023 10:45", "Trader Joes", "WHOLE FOODS MARKET"},
			want:  "WHOLE FOODS MARKET",
		},
		{
			name:  "title case when no caps line",
			texts: []string{"555-123-4567", "Trader Joes"},
			want:  "Trader Joes",
		},
		{
			name:  "first surviving candidate as fallback",
			texts: []string{"bodega 24hr", "$1.99"},
			want:  "bodega 24hr",
		},
		{
			name:  "no fragments",
			texts: nil,
			want:  "Unknown Store",
		},
		{
			name: "banner outside the header window is ignored",
			texts: []string{
				"$1.99", "$2.99", "$3.99", "$4.99", "$5.99",
				"$6.99", "$7.99", "$8.99", "$9.99", "$0.99",
				"WHOLE FOODS MARKET",
			},
			want: "Unknown Store",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classifier.detectStoreName(fragmentsFromTexts(tc.texts...))
			if got != tc.want {
				t.Errorf("detectStoreName = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDetectStoreAddress(t *testing.T) {
	classifier := newFieldClassifier()

	tests := []struct {
		name   string
		joined string
		want   string
	}{
		{
			name:   "street address with city state zip",
			joined: "WHOLE FOODS\n123 Main Street\nDenver, CO 80202",
			want:   "123 Main Street, Denver, CO 80202",
		},
		{
			name:   "street address alone",
			joined: "123 Main Street\n$1.99",
			want:   "123 Main Street",
		},
		{
			name:   "bare number and words fallback",
			joined: "456 Oak Hill",
			want:   "456 Oak Hill",
		},
		{
			name:   "no address",
			joined: "Bananas\n$1.99",
			want:   "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classifier.detectStoreAddress(tc.joined)
			if got != tc.want {
				t.Errorf("detectStoreAddress = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDetectTotals(t *testing.T) {
	classifier := newFieldClassifier()

	tests := []struct {
		name                          string
		joined                        string
		total, subtotal, tax, tip     float64
	}{
		{
			name:     "full totals block takes last total",
			joined:   "Subtotal: $5.48\nTax: $0.48\nTotal: $5.96",
			total:    5.96,
			subtotal: 5.48,
			tax:      0.48,
		},
		{
			name:   "missing decimal point inferred",
			joined: "TOTAL 548",
			total:  5.48,
		},
		{
			name:   "tip line",
			joined: "Tip: $2.00\nTotal: $14.00",
			total:  14.00,
			tip:    2.00,
		},
		{
			name:   "no labelled amounts",
			joined: "Bananas\n$1.99",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			total, subtotal, tax, tip := classifier.detectTotals(tc.joined)
			if total != tc.total || subtotal != tc.subtotal || tax != tc.tax || tip != tc.tip {
				t.Errorf("detectTotals = (%v, %v, %v, %v), want (%v, %v, %v, %v)",
					total, subtotal, tax, tip, tc.total, tc.subtotal, tc.tax, tc.tip)
			}
		})
	}
}

func TestDetectDate(t *testing.T) {
	classifier := newFieldClassifier()

	if got := classifier.detectDate("WHOLE FOODS\n12/25/2023 10:45"); got != "12/25/2023" {
		t.Errorf("detectDate = %q, want %q", got, "12/25/2023")
	}
	if got := classifier.detectDate("Bananas $1.99"); got != "" {
		t.Errorf("detectDate = %q, want empty", got)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"5.48", 5.48},
		{"548", 5.48},
		{"0.48", 0.48},
		{"not a number", 0},
	}
	for _, tc := range tests {
		if got := parseAmount(tc.in); got != tc.want {
			t.Errorf("parseAmount(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
