// Package indicators computes aligned indicator series over candle data.
// Every output has the same length as its input; bars where a window is not
// yet full, or where the statistic is indeterminate, hold NaN.
package indicators

import (
	"math"

	"github.com/montanaflynn/stats"
)

// flatTolerance is the relative spread below which a window counts as flat
const flatTolerance = 1e-10

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// Defined reports whether v is a usable number
func Defined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Last returns the final element or NaN for an empty series
func Last(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return values[len(values)-1]
}

// SMA is the arithmetic mean over the trailing period bars
func SMA(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		mean, err := stats.Mean(values[i-period+1 : i+1])
		if err != nil {
			continue
		}
		out[i] = mean
	}
	return out
}

// StdDev is the sample standard deviation over the trailing period bars
func StdDev(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period < 2 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		sd, err := stats.StandardDeviationSample(values[i-period+1 : i+1])
		if err != nil {
			continue
		}
		out[i] = sd
	}
	return out
}

// ZScore is (value-mean)/std per bar. A flat window yields NaN.
func ZScore(values, mean, std []float64) []float64 {
	out := nanSeries(len(values))
	for i := range values {
		if i >= len(mean) || i >= len(std) {
			break
		}
		m, s := mean[i], std[i]
		if !Defined(m) || !Defined(s) {
			continue
		}
		if s <= flatTolerance*math.Max(1, math.Abs(m)) {
			continue
		}
		out[i] = (values[i] - m) / s
	}
	return out
}

// RollingMax is the maximum over the trailing window, using as many bars
// as are available at the start of the series.
func RollingMax(values []float64, window int) []float64 {
	return rolling(values, window, math.Max)
}

// RollingMin mirrors RollingMax
func RollingMin(values []float64, window int) []float64 {
	return rolling(values, window, math.Min)
}

func rolling(values []float64, window int, pick func(a, b float64) float64) []float64 {
	out := nanSeries(len(values))
	if window <= 0 {
		return out
	}
	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		acc := values[start]
		for _, v := range values[start+1 : i+1] {
			acc = pick(acc, v)
		}
		out[i] = acc
	}
	return out
}
