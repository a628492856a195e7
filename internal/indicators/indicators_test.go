package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const equalityThreshold = 1e-9

func assertSeries(t *testing.T, want, got []float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.Truef(t, math.IsNaN(got[i]), "index %d: want NaN, got %v", i, got[i])
			continue
		}
		assert.InDeltaf(t, want[i], got[i], equalityThreshold, "index %d", i)
	}
}

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

var nan = math.NaN()

func TestSMA(t *testing.T) {
	t.Run("window fills at period", func(t *testing.T) {
		assertSeries(t, []float64{nan, nan, 2, 3, 4}, SMA([]float64{1, 2, 3, 4, 5}, 3))
	})
	t.Run("series shorter than period", func(t *testing.T) {
		assertSeries(t, []float64{nan, nan}, SMA([]float64{1, 2}, 3))
	})
}

func TestStdDev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	got := StdDev(values, 8)
	assert.InDelta(t, math.Sqrt(32.0/7.0), got[7], equalityThreshold)
	for i := 0; i < 7; i++ {
		assert.True(t, math.IsNaN(got[i]))
	}

	assertSeries(t, []float64{nan, nan}, StdDev([]float64{1, 2}, 1))
}

func TestZScore(t *testing.T) {
	t.Run("flat window is undefined", func(t *testing.T) {
		values := flat(20, 1.1)
		z := ZScore(values, SMA(values, 15), StdDev(values, 15))
		for i, v := range z {
			assert.Truef(t, math.IsNaN(v), "index %d: %v", i, v)
		}
	})

	t.Run("outlier below the mean", func(t *testing.T) {
		values := flat(15, 1.2)
		values[14] = 1.19
		z := ZScore(values, SMA(values, 15), StdDev(values, 15))
		// one outlier in n bars scores -(n-1)/sqrt(n)
		assert.InDelta(t, -14/math.Sqrt(15), z[14], 1e-6)
	})
}

func TestRolling(t *testing.T) {
	values := []float64{1, 3, 2, 5, 4}
	assertSeries(t, []float64{1, 3, 3, 5, 5}, RollingMax(values, 2))
	assertSeries(t, []float64{1, 1, 2, 2, 4}, RollingMin(values, 2))
	assertSeries(t, []float64{1, 1, 1, 1, 2}, RollingMin(values, 4))
}

func TestTrueRange(t *testing.T) {
	high := []float64{10, 12, 11}
	low := []float64{9, 10, 8}
	close := []float64{9.5, 11, 9}
	assertSeries(t, []float64{nan, 2.5, 3}, TrueRange(high, low, close))
}

func TestATR(t *testing.T) {
	t.Run("constant range", func(t *testing.T) {
		close := flat(6, 100)
		high := flat(6, 100.5)
		low := flat(6, 99.5)
		assertSeries(t, []float64{nan, nan, nan, 1, 1, 1}, ATR(high, low, close, 3))
	})

	t.Run("wilder smoothing", func(t *testing.T) {
		close := []float64{100, 101, 100.5, 102, 101, 103, 99, 100}
		high := make([]float64, len(close))
		low := make([]float64, len(close))
		for i, c := range close {
			high[i] = c + 0.4 + float64(i%3)*0.1
			low[i] = c - 0.3
		}
		period := 3
		tr := TrueRange(high, low, close)
		atr := ATR(high, low, close, period)

		seed := (tr[1] + tr[2] + tr[3]) / 3
		assert.InDelta(t, seed, atr[period], equalityThreshold)
		for i := period + 1; i < len(close); i++ {
			want := (atr[i-1]*float64(period-1) + tr[i]) / float64(period)
			assert.InDeltaf(t, want, atr[i], equalityThreshold, "index %d", i)
		}
	})

	t.Run("not enough bars", func(t *testing.T) {
		got := ATR(flat(3, 1), flat(3, 1), flat(3, 1), 3)
		assertSeries(t, []float64{nan, nan, nan}, got)
	})
}

func TestRSI(t *testing.T) {
	t.Run("alternating", func(t *testing.T) {
		assertSeries(t, []float64{nan, nan, 50, 75, 37.5}, RSI([]float64{1, 2, 1, 2, 1}, 2))
	})
	t.Run("only gains", func(t *testing.T) {
		assertSeries(t, []float64{nan, nan, nan, 100, 100}, RSI([]float64{1, 2, 3, 4, 5}, 3))
	})
	t.Run("flat is undefined", func(t *testing.T) {
		assertSeries(t, []float64{nan, nan, nan, nan}, RSI(flat(4, 1.3), 2))
	})
	t.Run("short series", func(t *testing.T) {
		assertSeries(t, []float64{nan, nan}, RSI([]float64{1, 2}, 2))
	})
}

func TestVWAP(t *testing.T) {
	prices := []float64{1, 2, 3}

	t.Run("cumulative", func(t *testing.T) {
		got := VWAP(prices, prices, prices, []float64{1, 1, 2}, nil, AnchorNone)
		assertSeries(t, []float64{1, 1.5, 2.25}, got)
	})

	t.Run("no volume yet", func(t *testing.T) {
		got := VWAP(prices, prices, prices, []float64{0, 2, 2}, nil, AnchorNone)
		assertSeries(t, []float64{nan, 2, 2.5}, got)
	})

	t.Run("typical price", func(t *testing.T) {
		got := VWAP([]float64{3}, []float64{0}, []float64{0}, []float64{5}, nil, AnchorNone)
		assertSeries(t, []float64{1}, got)
	})

	t.Run("day anchor resets at midnight", func(t *testing.T) {
		times := []time.Time{
			time.Date(2024, 3, 4, 23, 58, 0, 0, time.UTC),
			time.Date(2024, 3, 4, 23, 59, 0, 0, time.UTC),
			time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		}
		vol := []float64{1, 1, 1}
		assertSeries(t, []float64{1, 1.5, 3}, VWAP(prices, prices, prices, vol, times, AnchorDay))
		assertSeries(t, []float64{1, 1.5, 2}, VWAP(prices, prices, prices, vol, times, AnchorNone))
	})
}

func TestParseAnchor(t *testing.T) {
	a, err := ParseAnchor("")
	require.NoError(t, err)
	assert.Equal(t, AnchorNone, a)

	a, err = ParseAnchor("day")
	require.NoError(t, err)
	assert.Equal(t, AnchorDay, a)

	_, err = ParseAnchor("week")
	assert.Error(t, err)
}

func TestBollinger(t *testing.T) {
	bands := Bollinger([]float64{1, 2, 3, 4, 5}, 5, 2)
	sd := math.Sqrt(2)
	assertSeries(t, []float64{nan, nan, nan, nan, 3}, bands.Middle)
	assertSeries(t, []float64{nan, nan, nan, nan, 3 + 2*sd}, bands.Upper)
	assertSeries(t, []float64{nan, nan, nan, nan, 3 - 2*sd}, bands.Lower)

	short := Bollinger([]float64{1, 2}, 5, 2)
	assertSeries(t, []float64{nan, nan}, short.Middle)
}

func TestOffset(t *testing.T) {
	got := Offset([]float64{1, 2, 3}, []float64{nan, 1, 2}, 1.5)
	assertSeries(t, []float64{nan, 3.5, 6}, got)
}
