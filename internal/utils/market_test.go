package utils

import "testing"

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		decimals int
		expected string
	}{
		{"EUR_USD five decimals", 1.234567, 5, "1.23457"},
		{"USD_JPY three decimals", 151.23456, 3, "151.235"},
		{"Pads trailing zeros", 1.1, 5, "1.10000"},
		{"Half rounds up", 1.000005, 5, "1.00001"},
		{"Negative decimals clamp to zero", 1.6, -1, "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPrice(tt.price, tt.decimals); got != tt.expected {
				t.Errorf("FormatPrice(%v, %d) = %s, want %s", tt.price, tt.decimals, got, tt.expected)
			}
		})
	}
}

func TestHeuristicDecimals(t *testing.T) {
	tests := map[string]int{
		"USD_JPY": 3,
		"EUR_JPY": 3,
		"gbp_jpy": 3,
		"EUR_USD": 5,
		"AUD_CAD": 5,
	}
	for symbol, want := range tests {
		if got := HeuristicDecimals(symbol); got != want {
			t.Errorf("HeuristicDecimals(%s) = %d, want %d", symbol, got, want)
		}
	}
}

func TestNormalizeSymbol(t *testing.T) {
	for in, want := range map[string]string{
		"EUR/USD":   "EUR_USD",
		" usd-jpy ": "USD_JPY",
		"GBP_USD":   "GBP_USD",
	} {
		if got := NormalizeSymbol(in); got != want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", in, got, want)
		}
	}
}
