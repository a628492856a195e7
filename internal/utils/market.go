package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	jpyDecimals     = 3
	defaultDecimals = 5
)

// IsJPY reports whether the instrument is quoted against or in yen
func IsJPY(symbol string) bool {
	return strings.Contains(strings.ToUpper(symbol), "JPY")
}

// HeuristicDecimals is the fallback quote precision when the broker has not
// told us better: 3 for yen pairs, 5 otherwise.
func HeuristicDecimals(symbol string) int {
	if IsJPY(symbol) {
		return jpyDecimals
	}
	return defaultDecimals
}

// FormatPrice rounds half away from zero and renders exactly decimals places
func FormatPrice(price float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return decimal.NewFromFloat(price).StringFixed(int32(decimals))
}

// NormalizeSymbol turns "EUR/USD" or "eur-usd" into the broker form "EUR_USD"
func NormalizeSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	return strings.NewReplacer("/", "_", "-", "_").Replace(s)
}
