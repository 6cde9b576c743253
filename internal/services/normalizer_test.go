package services

import "testing"

func TestNormalize(t *testing.T) {
	normalizer := NewNormalizer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "brand abbreviation and fused unit",
			in:   "GV ORG MLK 1GAL",
			want: "Great Value Organic Milk 1 Gallon",
		},
		{
			name: "kirkland eggs",
			in:   "KS EGGS DZN",
			want: "Kirkland Signature Eggs Dozen",
		},
		{
			name: "unknown words title cased",
			in:   "HEIRLOOM TOMATOES",
			want: "Heirloom Tomatoes",
		},
		{
			name: "fused ounce unit",
			in:   "YOG 16OZ",
			want: "Yogurt 16 Ounce",
		},
		{
			name: "already clean name",
			in:   "Bananas",
			want: "Bananas",
		},
		{
			name: "empty name passes through",
			in:   "",
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizer.Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeWithCustomTables(t *testing.T) {
	normalizer := NewNormalizerWithTables(
		map[string]string{"tj": "Trader Joe's"},
		map[string]string{"crm": "Cream"},
		map[string]string{"pt": "Pint"},
	)

	if got := normalizer.Normalize("TJ CRM 1PT"); got != "Trader Joe's Cream 1 Pint" {
		t.Errorf("Normalize = %q, want %q", got, "Trader Joe's Cream 1 Pint")
	}
}
