package indicators

import (
	"math"

	"github.com/markcheno/go-talib"
)

// TrueRange is max(high-low, |high-prevClose|, |low-prevClose|). The first
// bar has no previous close and is undefined.
func TrueRange(high, low, close []float64) []float64 {
	n := len(close)
	if n == 0 || len(high) != n || len(low) != n {
		return nanSeries(n)
	}
	out := talib.TRange(high, low, close)
	out[0] = math.NaN()
	return out
}

// ATR is the Wilder-smoothed average true range. The first value, at index
// period, is the simple mean of the first period true ranges.
func ATR(high, low, close []float64, period int) []float64 {
	n := len(close)
	if period <= 0 || n <= period || len(high) != n || len(low) != n {
		return nanSeries(n)
	}
	if period == 1 {
		return TrueRange(high, low, close)
	}
	out := talib.Atr(high, low, close, period)
	for i := 0; i < period; i++ {
		out[i] = math.NaN()
	}
	return out
}

// Bands holds aligned Bollinger band series
type Bands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger computes SMA bands at k population standard deviations
func Bollinger(values []float64, period int, k float64) Bands {
	n := len(values)
	if period < 2 || n < period {
		return Bands{Upper: nanSeries(n), Middle: nanSeries(n), Lower: nanSeries(n)}
	}
	upper, middle, lower := talib.BBands(values, period, k, k, talib.SMA)
	for i := 0; i < period-1; i++ {
		upper[i], middle[i], lower[i] = math.NaN(), math.NaN(), math.NaN()
	}
	return Bands{Upper: upper, Middle: middle, Lower: lower}
}

// Offset returns values[i] + k*by[i], NaN where either side is undefined
func Offset(values, by []float64, k float64) []float64 {
	out := nanSeries(len(values))
	for i := range values {
		if i >= len(by) || !Defined(by[i]) {
			continue
		}
		out[i] = values[i] + k*by[i]
	}
	return out
}
