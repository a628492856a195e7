package indicators

import "math"

// RSI is the Wilder relative strength index on a 0-100 scale. The first
// value sits at index period. A window with no movement at all is NaN;
// a window with gains and no losses is 100.
func RSI(values []float64, period int) []float64 {
	n := len(values)
	out := nanSeries(n)
	if period <= 0 || n <= period {
		return out
	}

	var gains, losses float64
	for i := 1; i <= period; i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}
	p := float64(period)
	avgGain := gains / p
	avgLoss := losses / p
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < n; i++ {
		change := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	total := avgGain + avgLoss
	if total == 0 {
		return math.NaN()
	}
	return 100 * avgGain / total
}
