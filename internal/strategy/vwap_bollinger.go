package strategy

import (
	"fmt"

	"github.com/Alias1177/fxscalper/internal/indicators"
	"github.com/Alias1177/fxscalper/models"
)

// VWAP trend states
const (
	VWAPNone      = 0
	VWAPDowntrend = 1
	VWAPUptrend   = 2
	VWAPChop      = 3
)

// StraddlePolicy picks the VWAP state when the trailing high is at or
// above VWAP and the trailing low is at or below it on the same bar.
type StraddlePolicy string

const (
	StraddleChop      StraddlePolicy = "chop"
	StraddleUptrend   StraddlePolicy = "uptrend"
	StraddleDowntrend StraddlePolicy = "downtrend"
)

func ParseStraddle(s string) (StraddlePolicy, error) {
	switch StraddlePolicy(s) {
	case "", StraddleChop:
		return StraddleChop, nil
	case StraddleUptrend:
		return StraddleUptrend, nil
	case StraddleDowntrend:
		return StraddleDowntrend, nil
	}
	return "", fmt.Errorf("unknown vwap straddle policy %q", s)
}

// VWAPBollinger buys pullbacks to the middle band while price holds above
// VWAP and sells pushes through the upper band while price holds below it.
type VWAPBollinger struct {
	Backcandles       int
	RSIPeriod         int
	BBPeriod          int
	BBStdDev          float64
	ATRPeriod         int
	ATRBandMultiplier float64
	RSIBuyBelow       float64
	RSISellAbove      float64
	Anchor            indicators.Anchor
	Straddle          StraddlePolicy
}

func NewVWAPBollinger(p Params) *VWAPBollinger {
	v := &VWAPBollinger{
		Backcandles:       orDefault(p.Backcandles, 15),
		RSIPeriod:         orDefault(p.RSIPeriod, 16),
		BBPeriod:          orDefault(p.BBPeriod, 14),
		BBStdDev:          orDefaultF(p.BBStdDev, 2.0),
		ATRPeriod:         orDefault(p.ATRPeriod, 14),
		ATRBandMultiplier: orDefaultF(p.ATRBandMultiplier, 1.5),
		RSIBuyBelow:       orDefaultF(p.RSIBuyBelow, 45),
		RSISellAbove:      orDefaultF(p.RSISellAbove, 55),
		Anchor:            p.Anchor,
		Straddle:          p.Straddle,
	}
	if v.Anchor == "" {
		v.Anchor = indicators.AnchorNone
	}
	if v.Straddle == "" {
		v.Straddle = StraddleChop
	}
	return v
}

func (v *VWAPBollinger) Name() string { return VWAPBollingerName }

func (v *VWAPBollinger) MinBars() int {
	n := v.Backcandles
	for _, w := range []int{v.BBPeriod, v.RSIPeriod + 1, v.ATRPeriod + 1} {
		if w > n {
			n = w
		}
	}
	return n
}

func (v *VWAPBollinger) Compute(series models.CandleSeries) (*Frame, []models.Signal, error) {
	if len(series) < v.MinBars() {
		return nil, nil, insufficient(v.Name(), len(series), v.MinBars())
	}

	closes := series.Closes()
	highs, lows := series.Highs(), series.Lows()
	bands := indicators.Bollinger(closes, v.BBPeriod, v.BBStdDev)

	f := &Frame{
		Close:      closes,
		VWAP:       indicators.VWAP(highs, lows, closes, series.Volumes(), series.Times(), v.Anchor),
		RSI:        indicators.RSI(closes, v.RSIPeriod),
		ATR:        indicators.ATR(highs, lows, closes, v.ATRPeriod),
		BBUpper:    bands.Upper,
		BBMiddle:   bands.Middle,
		BBLower:    bands.Lower,
		RollingMax: indicators.RollingMax(closes, v.Backcandles),
		RollingMin: indicators.RollingMin(closes, v.Backcandles),
	}
	f.ATRUpper = indicators.Offset(closes, f.ATR, v.ATRBandMultiplier)
	f.ATRLower = indicators.Offset(closes, f.ATR, -v.ATRBandMultiplier)

	f.VWAPSignal = make([]int, len(closes))
	signals := make([]models.Signal, len(closes))
	for i := range closes {
		f.VWAPSignal[i] = v.trendAt(f.RollingMax[i], f.RollingMin[i], f.VWAP[i])
		signals[i] = v.signalAt(f, i)
	}
	return f, signals, nil
}

func (v *VWAPBollinger) trendAt(hi, lo, vwap float64) int {
	if !indicators.Defined(vwap) {
		return VWAPNone
	}
	up := hi >= vwap
	down := lo <= vwap
	switch {
	case up && down:
		switch v.Straddle {
		case StraddleUptrend:
			return VWAPUptrend
		case StraddleDowntrend:
			return VWAPDowntrend
		}
		return VWAPChop
	case up:
		return VWAPUptrend
	case down:
		return VWAPDowntrend
	}
	return VWAPNone
}

func (v *VWAPBollinger) signalAt(f *Frame, i int) models.Signal {
	rsi := f.RSI[i]
	if !indicators.Defined(rsi) {
		return models.Hold
	}
	close := f.Close[i]
	switch f.VWAPSignal[i] {
	case VWAPUptrend:
		mid := f.BBMiddle[i]
		if indicators.Defined(mid) && close <= mid && rsi < v.RSIBuyBelow {
			return models.Buy
		}
	case VWAPDowntrend:
		upper := f.BBUpper[i]
		if indicators.Defined(upper) && close >= upper && rsi > v.RSISellAbove {
			return models.Sell
		}
	}
	return models.Hold
}
