package scan

import "testing"

func TestIsCandidate(t *testing.T) {
	filter := newItemFilter()
	const (
		storeName    = "Joe's Cafe"
		storeAddress = "123 Main Street"
	)

	tests := []struct {
		name  string
		text  string
		index int
		want  bool
	}{
		{name: "plain item name", text: "Bananas", index: 5, want: true},
		{name: "all caps item name", text: "KS ORGANIC EGGS", index: 5, want: true},
		{name: "small leading quantity passes", text: "1 Pasta Sauce", index: 2, want: true},
		{name: "store location marker", text: "Greenville #1005", index: 1, want: false},
		{name: "pure price", text: "$4.99", index: 5, want: false},
		{name: "percentage line", text: "Discount 8.25%", index: 5, want: false},
		{name: "long numeric code", text: "048291", index: 5, want: false},
		{name: "field label", text: "Subtotal", index: 5, want: false},
		{name: "payment line", text: "VISA ****1234", index: 20, want: false},
		{name: "cashier line", text: "Cashier: Sam", index: 5, want: false},
		{name: "thank you footer", text: "Thank You For Shopping", index: 20, want: false},
		{name: "city state line", text: "Denver, CO", index: 5, want: false},
		{name: "phone number", text: "(555) 123-4567", index: 5, want: false},
		{name: "modifier phrase", text: "Extra Hot", index: 5, want: false},
		{name: "modifier words inside longer name pass", text: "Extra Hot Sauce", index: 5, want: true},
		{name: "too short", text: "ab", index: 5, want: false},
		{name: "too few letters", text: "1 x 2", index: 5, want: false},
		{name: "store name with ocr apostrophe loss", text: "Joes Cafe", index: 5, want: false},
		{name: "street address in header window", text: "123 Main Ave", index: 1, want: false},
		{name: "same shape past header window", text: "123 Main Ave", index: 20, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := filter.isCandidate(tc.text, tc.index, storeName, storeAddress)
			if got != tc.want {
				t.Errorf("isCandidate(%q, %d) = %v, want %v", tc.text, tc.index, got, tc.want)
			}
		})
	}
}

func TestNormalizeForComparison(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Joe's  Cafe", "joes cafe"},
		{"Joe’s Cafe", "joes cafe"},
		{"  WHOLE  FOODS ", "whole foods"},
	}
	for _, tc := range tests {
		if got := normalizeForComparison(tc.in); got != tc.want {
			t.Errorf("normalizeForComparison(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMergeAdjacent(t *testing.T) {
	tests := []struct {
		name       string
		candidates []ItemCandidate
		wantNames  []string
	}{
		{
			name: "multi word followed by short word",
			candidates: []ItemCandidate{
				{FragmentIndex: 3, Name: "ORGANIC MILK"},
				{FragmentIndex: 4, Name: "Gallon"},
			},
			wantNames: []string{"ORGANIC MILK Gallon"},
		},
		{
			name: "all caps single word followed by short word",
			candidates: []ItemCandidate{
				{FragmentIndex: 3, Name: "CHEDDAR"},
				{FragmentIndex: 4, Name: "Cheese"},
			},
			wantNames: []string{"CHEDDAR Cheese"},
		},
		{
			name: "plain single words stay separate",
			candidates: []ItemCandidate{
				{FragmentIndex: 3, Name: "Milk"},
				{FragmentIndex: 4, Name: "Eggs"},
			},
			wantNames: []string{"Milk", "Eggs"},
		},
		{
			name: "digit-leading continuation stays separate",
			candidates: []ItemCandidate{
				{FragmentIndex: 3, Name: "Pasta Sauce"},
				{FragmentIndex: 4, Name: "2ct"},
			},
			wantNames: []string{"Pasta Sauce", "2ct"},
		},
		{
			name: "non-adjacent fragments never merge",
			candidates: []ItemCandidate{
				{FragmentIndex: 1, Name: "Chicken Breast"},
				{FragmentIndex: 3, Name: "Rice"},
			},
			wantNames: []string{"Chicken Breast", "Rice"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			merged := mergeAdjacent(tc.candidates)
			if len(merged) != len(tc.wantNames) {
				t.Fatalf("got %d candidates, want %d: %+v", len(merged), len(tc.wantNames), merged)
			}
			for i, want := range tc.wantNames {
				if merged[i].Name != want {
					t.Errorf("candidate %d = %q, want %q", i, merged[i].Name, want)
				}
			}
		})
	}
}
