package strategy

import (
	"github.com/Alias1177/fxscalper/internal/indicators"
	"github.com/Alias1177/fxscalper/models"
)

// MeanReversion buys when the close is more than Threshold sample standard
// deviations below its trailing mean and sells when it is as far above.
type MeanReversion struct {
	Lookback  int
	Threshold float64
	ATRPeriod int
	RSIPeriod int
}

func NewMeanReversion(p Params) *MeanReversion {
	return &MeanReversion{
		Lookback:  orDefault(p.Lookback, 15),
		Threshold: orDefaultF(p.Threshold, 2.0),
		ATRPeriod: orDefault(p.ATRPeriod, 14),
		RSIPeriod: orDefault(p.RSIPeriod, 14),
	}
}

func (m *MeanReversion) Name() string { return MeanReversionName }

func (m *MeanReversion) MinBars() int { return m.Lookback }

func (m *MeanReversion) Compute(series models.CandleSeries) (*Frame, []models.Signal, error) {
	if len(series) < m.MinBars() {
		return nil, nil, insufficient(m.Name(), len(series), m.MinBars())
	}

	closes := series.Closes()
	highs, lows := series.Highs(), series.Lows()

	f := &Frame{
		Close: closes,
		SMA:   indicators.SMA(closes, m.Lookback),
		STD:   indicators.StdDev(closes, m.Lookback),
		ATR:   indicators.ATR(highs, lows, closes, m.ATRPeriod),
		RSI:   indicators.RSI(closes, m.RSIPeriod),
	}
	f.Z = indicators.ZScore(closes, f.SMA, f.STD)

	signals := make([]models.Signal, len(closes))
	for i, z := range f.Z {
		signals[i] = m.signalAt(z)
	}
	return f, signals, nil
}

func (m *MeanReversion) signalAt(z float64) models.Signal {
	switch {
	case !indicators.Defined(z):
		return models.Hold
	case z < -m.Threshold:
		return models.Buy
	case z > m.Threshold:
		return models.Sell
	}
	return models.Hold
}
