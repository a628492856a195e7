package models

import (
	"fmt"
	"sort"
	"time"
)

// Price holds one OHLC quote stream of a candle (mid, bid or ask)
type Price struct {
	Open  float64 `json:"o"`
	High  float64 `json:"h"`
	Low   float64 `json:"l"`
	Close float64 `json:"c"`
}

// Candle represents a single price candle
type Candle struct {
	Time     time.Time `json:"time"`
	Complete bool      `json:"complete"`
	Volume   int64     `json:"volume"`
	Mid      Price     `json:"mid"`
	Bid      Price     `json:"bid"`
	Ask      Price     `json:"ask"`
}

// CandleSeries is ordered ascending by time and holds complete bars only
type CandleSeries []Candle

// NewCandleSeries sorts the raw candles by time, drops incomplete bars and
// keeps the first bar of every timestamp.
func NewCandleSeries(candles []Candle) CandleSeries {
	sorted := make([]Candle, len(candles))
	copy(sorted, candles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	series := make(CandleSeries, 0, len(sorted))
	for _, c := range sorted {
		if !c.Complete {
			continue
		}
		if n := len(series); n > 0 && series[n-1].Time.Equal(c.Time) {
			continue
		}
		series = append(series, c)
	}
	return series
}

// Latest returns the most recent bar
func (s CandleSeries) Latest() (Candle, bool) {
	if len(s) == 0 {
		return Candle{}, false
	}
	return s[len(s)-1], true
}

func (s CandleSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Mid.Close
	}
	return out
}

func (s CandleSeries) Highs() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Mid.High
	}
	return out
}

func (s CandleSeries) Lows() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Mid.Low
	}
	return out
}

func (s CandleSeries) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = float64(c.Volume)
	}
	return out
}

func (s CandleSeries) Times() []time.Time {
	out := make([]time.Time, len(s))
	for i, c := range s {
		out[i] = c.Time
	}
	return out
}

// Signal is the per-bar trade decision, encoded hold=0, sell=1, buy=2
type Signal int

const (
	Hold Signal = 0
	Sell Signal = 1
	Buy  Signal = 2
)

func (s Signal) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// Side maps a tradable signal to an order side
func (s Signal) Side() (Side, bool) {
	switch s {
	case Buy:
		return SideBuy, true
	case Sell:
		return SideSell, true
	}
	return "", false
}

// Side is an order direction
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// TradeDecision is the risk-sized outcome for the latest bar
type TradeDecision struct {
	Symbol     string    `json:"symbol"`
	Side       Side      `json:"side"`
	Entry      float64   `json:"entry"`
	StopLoss   float64   `json:"stop_loss"`
	TakeProfit float64   `json:"take_profit"`
	SLDistance float64   `json:"sl_distance"`
	TPDistance float64   `json:"tp_distance"`
	ATR        float64   `json:"atr"`
	BarTime    time.Time `json:"bar_time"`
}

// OrderIntent is a fully specified market order ready for the gateway.
// Prices are already rounded to the instrument precision.
type OrderIntent struct {
	Symbol     string    `json:"symbol"`
	Side       Side      `json:"side"`
	Units      int64     `json:"units"`
	StopLoss   string    `json:"stop_loss"`
	TakeProfit string    `json:"take_profit"`
	BarTime    time.Time `json:"bar_time"`
}

// SignedUnits is positive for buys and negative for sells
func (o OrderIntent) SignedUnits() int64 {
	if o.Side == SideSell {
		return -o.Units
	}
	return o.Units
}

func (o OrderIntent) String() string {
	return fmt.Sprintf("%s %s %d SL=%s TP=%s bar=%s",
		o.Side, o.Symbol, o.Units, o.StopLoss, o.TakeProfit, o.BarTime.Format(time.RFC3339))
}

// OrderConfirmation is what the gateway reports back for a placed order
type OrderConfirmation struct {
	OrderID       string    `json:"order_id"`
	TradeID       string    `json:"trade_id,omitempty"`
	FillPrice     float64   `json:"fill_price,omitempty"`
	ClientOrderID string    `json:"client_order_id,omitempty"`
	Time          time.Time `json:"time"`
}
