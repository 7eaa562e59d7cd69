package address

import "testing"

func TestDecomposeHouseNumber(t *testing.T) {
	tests := []struct {
		name       string
		houseNo    string
		streetName string
		expected   HouseNumberParts
	}{
		{
			name:     "Plain number",
			houseNo:  "45",
			expected: HouseNumberParts{Number: "45"},
		},
		{
			name:     "Fused alphabetic suffix",
			houseNo:  "302A",
			expected: HouseNumberParts{Number: "302", Alpha: "A"},
		},
		{
			name:     "Near-duplicate pair keeps the first value",
			houseNo:  "103A,103B",
			expected: HouseNumberParts{Number: "103", Alpha: "A"},
		},
		{
			name:     "Unit before hyphen",
			houseNo:  "12-103A",
			expected: HouseNumberParts{Unit: "12", Number: "103", Alpha: "A"},
		},
		{
			name:     "Half number becomes vulgar fraction",
			houseNo:  "11 1/2",
			expected: HouseNumberParts{Number: "11", Alpha: "½"},
		},
		{
			name:     "Unit keyword with comma",
			houseNo:  "UNIT 5, 120",
			expected: HouseNumberParts{Unit: "5", Number: "120"},
		},
		{
			name:     "Lowercase unit keyword",
			houseNo:  "unit 5, 120",
			expected: HouseNumberParts{Unit: "5", Number: "120"},
		},
		{
			name:     "Number before unit keyword",
			houseNo:  "120, UNIT 5",
			expected: HouseNumberParts{Unit: "5", Number: "120"},
		},
		{
			name:     "Hash-prefixed unit",
			houseNo:  "#3-301",
			expected: HouseNumberParts{Unit: "3", Number: "301"},
		},
		{
			name:     "Parenthesized suffix",
			houseNo:  "12 (A)",
			expected: HouseNumberParts{Number: "12", Alpha: "A"},
		},
		{
			name:     "Decimal suffix",
			houseNo:  "12.5",
			expected: HouseNumberParts{Number: "12", Alpha: ".5"},
		},
		{
			name:     "Leading-dot value has no base number",
			houseNo:  ".5",
			expected: HouseNumberParts{Alpha: "5"},
		},
		{
			name:     "Run of duplicate numbers keeps the first",
			houseNo:  "123 123 123",
			expected: HouseNumberParts{Number: "123"},
		},
		{
			name:     "Trailing hyphen yields a unit only",
			houseNo:  "12-",
			expected: HouseNumberParts{Unit: "12"},
		},
		{
			name:       "Empty house number falls back to the street name",
			houseNo:    "",
			streetName: "18B Kootenay",
			expected:   HouseNumberParts{Number: "18", Alpha: "B"},
		},
		{
			name:     "Empty everything",
			houseNo:  "",
			expected: HouseNumberParts{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecomposeHouseNumber(tt.houseNo, tt.streetName)
			if got != tt.expected {
				t.Errorf("DecomposeHouseNumber(%q, %q) = %+v; want %+v",
					tt.houseNo, tt.streetName, got, tt.expected)
			}
		})
	}
}
