// Package strategy turns a candle series into an indicator frame and a
// per-bar signal.
package strategy

import (
	"fmt"
	"math"
	"strings"

	"github.com/Alias1177/fxscalper/internal/indicators"
	"github.com/Alias1177/fxscalper/models"
)

// Strategy is implemented by every signal variant
type Strategy interface {
	Name() string
	// MinBars is the shortest series Compute accepts
	MinBars() int
	Compute(series models.CandleSeries) (*Frame, []models.Signal, error)
}

// Frame holds the indicator series aligned with the source candles.
// Series a variant does not compute are nil.
type Frame struct {
	Close      []float64
	SMA        []float64
	STD        []float64
	Z          []float64
	ATR        []float64
	RSI        []float64
	VWAP       []float64
	BBUpper    []float64
	BBMiddle   []float64
	BBLower    []float64
	ATRUpper   []float64
	ATRLower   []float64
	RollingMax []float64
	RollingMin []float64
	VWAPSignal []int
}

func (f *Frame) Len() int { return len(f.Close) }

// At returns the value of s at bar i, NaN when the series is absent
func At(s []float64, i int) float64 {
	if i < 0 || i >= len(s) {
		return math.NaN()
	}
	return s[i]
}

const (
	MeanReversionName = "zscore"
	VWAPBollingerName = "vwap_bb"
)

// Params carries the knobs of both variants. Zero values fall back to the
// variant defaults.
type Params struct {
	Lookback          int
	Threshold         float64
	ATRPeriod         int
	RSIPeriod         int
	BBPeriod          int
	BBStdDev          float64
	Backcandles       int
	RSIBuyBelow       float64
	RSISellAbove      float64
	ATRBandMultiplier float64
	Anchor            indicators.Anchor
	Straddle          StraddlePolicy
}

// Build returns the strategy registered under name
func Build(name string, p Params) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", MeanReversionName, "mean_reversion":
		return NewMeanReversion(p), nil
	case VWAPBollingerName, "vwap":
		return NewVWAPBollinger(p), nil
	}
	return nil, fmt.Errorf("unknown strategy %q", name)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func orDefaultF(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

func insufficient(name string, have, want int) error {
	return fmt.Errorf("%s: %d bars, need %d: %w", name, have, want, models.ErrInsufficientData)
}
