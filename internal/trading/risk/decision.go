package risk

import (
	"errors"
	"time"

	"github.com/Alias1177/fxscalper/internal/utils"
	"github.com/Alias1177/fxscalper/models"
)

// Verdict says what the decider concluded for a bar
type Verdict string

const (
	VerdictTrade         Verdict = "trade"
	VerdictHold          Verdict = "hold"
	VerdictDuplicate     Verdict = "duplicate"
	VerdictIndeterminate Verdict = "indeterminate"
)

// Bar is the latest bar as the decider sees it
type Bar struct {
	Time   time.Time
	Close  float64
	ATR    float64
	Signal models.Signal
}

// Decider sizes trades and enforces at most one trade per bar
type Decider struct {
	sizer *Sizer
}

func NewDecider(sizer *Sizer) *Decider {
	return &Decider{sizer: sizer}
}

// Decide returns a trade decision for bar unless it holds, was already
// traded (lastTraded equals the bar time) or cannot be sized.
func (d *Decider) Decide(symbol string, bar Bar, lastTraded time.Time) (*models.TradeDecision, Verdict, error) {
	side, ok := bar.Signal.Side()
	if !ok {
		return nil, VerdictHold, nil
	}
	if bar.Time.Equal(lastTraded) {
		return nil, VerdictDuplicate, nil
	}

	sl, tp, err := d.sizer.Distances(symbol, bar.ATR)
	if err != nil {
		if errors.Is(err, ErrIndeterminate) {
			return nil, VerdictIndeterminate, nil
		}
		return nil, "", err
	}
	if sl <= 0 || tp <= 0 {
		return nil, VerdictIndeterminate, nil
	}

	stopLoss, takeProfit := Levels(side, bar.Close, sl, tp)
	return &models.TradeDecision{
		Symbol:     symbol,
		Side:       side,
		Entry:      bar.Close,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		SLDistance: sl,
		TPDistance: tp,
		ATR:        bar.ATR,
		BarTime:    bar.Time,
	}, VerdictTrade, nil
}

// NewOrderIntent renders a decision as a gateway-ready market order
func NewOrderIntent(dec models.TradeDecision, units int64, decimals int) models.OrderIntent {
	return models.OrderIntent{
		Symbol:     dec.Symbol,
		Side:       dec.Side,
		Units:      units,
		StopLoss:   utils.FormatPrice(dec.StopLoss, decimals),
		TakeProfit: utils.FormatPrice(dec.TakeProfit, decimals),
		BarTime:    dec.BarTime,
	}
}
