package indicators

import (
	"fmt"
	"time"
)

// Anchor controls where VWAP accumulation restarts
type Anchor string

const (
	// AnchorNone accumulates across the whole series
	AnchorNone Anchor = "none"
	// AnchorDay restarts at every UTC midnight
	AnchorDay Anchor = "day"
)

func ParseAnchor(s string) (Anchor, error) {
	switch Anchor(s) {
	case "", AnchorNone:
		return AnchorNone, nil
	case AnchorDay:
		return AnchorDay, nil
	}
	return "", fmt.Errorf("unknown vwap anchor %q", s)
}

// VWAP is the cumulative volume-weighted typical price (h+l+c)/3.
// Bars before any volume has traded are undefined.
func VWAP(high, low, close, volume []float64, times []time.Time, anchor Anchor) []float64 {
	n := len(close)
	out := nanSeries(n)
	if len(high) != n || len(low) != n || len(volume) != n {
		return out
	}

	var cumPV, cumV float64
	var day time.Time
	for i := 0; i < n; i++ {
		if anchor == AnchorDay && i < len(times) {
			d := times[i].UTC().Truncate(24 * time.Hour)
			if i == 0 || !d.Equal(day) {
				cumPV, cumV = 0, 0
				day = d
			}
		}
		typical := (high[i] + low[i] + close[i]) / 3
		cumPV += typical * volume[i]
		cumV += volume[i]
		if cumV > 0 {
			out[i] = cumPV / cumV
		}
	}
	return out
}
