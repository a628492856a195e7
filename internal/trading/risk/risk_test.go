package risk

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/fxscalper/models"
)

func TestPipSize(t *testing.T) {
	assert.Equal(t, 0.01, PipSize("USD_JPY"))
	assert.Equal(t, 0.0001, PipSize("EUR_USD"))
	assert.Equal(t, 0.01, PipSize("gbp_jpy"))
	assert.InDelta(t, 0.0015, PipsToPrice(15, "EUR_USD"), 1e-12)
	assert.InDelta(t, 0.15, PipsToPrice(15, "EUR_JPY"), 1e-12)
}

func TestSizingConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *SizingConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *SizingConfig) {}},
		{name: "unknown mode", mutate: func(c *SizingConfig) { c.Mode = "kelly" }, wantErr: true},
		{name: "negative multiplier", mutate: func(c *SizingConfig) { c.SLMultiplier = -1 }, wantErr: true},
		{name: "zero atr multiplier", mutate: func(c *SizingConfig) { c.TPMultiplier = 0 }, wantErr: true},
		{name: "max below min", mutate: func(c *SizingConfig) { c.SLMinPips = 10; c.SLMaxPips = 5 }, wantErr: true},
		{name: "fixed without pips", mutate: func(c *SizingConfig) { c.Mode = SizingFixed; c.SLPips = 0 }, wantErr: true},
		{name: "fixed ignores multipliers", mutate: func(c *SizingConfig) { c.Mode = SizingFixed; c.SLMultiplier = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSizingConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDistancesATR(t *testing.T) {
	s, err := NewSizer(DefaultSizingConfig())
	require.NoError(t, err)

	sl, tp, err := s.Distances("EUR_USD", 0.0008)
	require.NoError(t, err)
	assert.InDelta(t, 0.0008, sl, 1e-12)
	assert.InDelta(t, 0.0012, tp, 1e-12)

	_, _, err = s.Distances("EUR_USD", math.NaN())
	assert.ErrorIs(t, err, ErrIndeterminate)
	_, _, err = s.Distances("EUR_USD", 0)
	assert.ErrorIs(t, err, ErrIndeterminate)
}

func TestDistancesClamps(t *testing.T) {
	cfg := DefaultSizingConfig()
	cfg.SLMinPips = 5
	cfg.SLMaxPips = 20
	cfg.TPMinPips = 8
	s, err := NewSizer(cfg)
	require.NoError(t, err)

	tests := []struct {
		name           string
		symbol         string
		atr            float64
		wantSL, wantTP float64
	}{
		{"inside band", "EUR_USD", 0.0010, 0.0010, 0.0015},
		{"sl floor and tp floor", "EUR_USD", 0.0002, 0.0005, 0.0008},
		{"sl ceiling, tp unbounded", "EUR_USD", 0.0050, 0.0020, 0.0075},
		{"yen pips", "USD_JPY", 0.01, 0.05, 0.08},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sl, tp, err := s.Distances(tt.symbol, tt.atr)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantSL, sl, 1e-12)
			assert.InDelta(t, tt.wantTP, tp, 1e-12)
		})
	}
}

func TestDistancesFixed(t *testing.T) {
	cfg := DefaultSizingConfig()
	cfg.Mode = SizingFixed
	s, err := NewSizer(cfg)
	require.NoError(t, err)

	sl, tp, err := s.Distances("EUR_USD", math.NaN())
	require.NoError(t, err)
	assert.InDelta(t, 0.0010, sl, 1e-12)
	assert.InDelta(t, 0.0015, tp, 1e-12)

	sl, tp, err = s.Distances("USD_JPY", 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.10, sl, 1e-12)
	assert.InDelta(t, 0.15, tp, 1e-12)
}

func TestLevelsOrdering(t *testing.T) {
	for _, entry := range []float64{0.65, 1.0873, 151.2} {
		for _, d := range []float64{0.00001, 0.0007, 0.25} {
			sl, tp := Levels(models.SideBuy, entry, d, d*1.5)
			assert.Less(t, sl, entry)
			assert.Less(t, entry, tp)

			sl, tp = Levels(models.SideSell, entry, d, d*1.5)
			assert.Less(t, tp, entry)
			assert.Less(t, entry, sl)
		}
	}
}

func TestDecide(t *testing.T) {
	s, err := NewSizer(DefaultSizingConfig())
	require.NoError(t, err)
	d := NewDecider(s)

	barTime := time.Date(2024, 6, 3, 9, 15, 0, 0, time.UTC)
	buy := Bar{Time: barTime, Close: 1.1, ATR: 0.001, Signal: models.Buy}

	t.Run("hold", func(t *testing.T) {
		dec, v, err := d.Decide("EUR_USD", Bar{Time: barTime, Close: 1.1, ATR: 0.001, Signal: models.Hold}, time.Time{})
		require.NoError(t, err)
		assert.Nil(t, dec)
		assert.Equal(t, VerdictHold, v)
	})

	t.Run("buy", func(t *testing.T) {
		dec, v, err := d.Decide("EUR_USD", buy, time.Time{})
		require.NoError(t, err)
		require.NotNil(t, dec)
		assert.Equal(t, VerdictTrade, v)
		assert.Equal(t, models.SideBuy, dec.Side)
		assert.InDelta(t, 1.099, dec.StopLoss, 1e-12)
		assert.InDelta(t, 1.1015, dec.TakeProfit, 1e-12)
		assert.Equal(t, barTime, dec.BarTime)
	})

	t.Run("sell", func(t *testing.T) {
		sell := buy
		sell.Signal = models.Sell
		dec, _, err := d.Decide("EUR_USD", sell, barTime.Add(-time.Minute))
		require.NoError(t, err)
		require.NotNil(t, dec)
		assert.InDelta(t, 1.101, dec.StopLoss, 1e-12)
		assert.InDelta(t, 1.0985, dec.TakeProfit, 1e-12)
	})

	t.Run("same bar is suppressed", func(t *testing.T) {
		dec, v, err := d.Decide("EUR_USD", buy, barTime)
		require.NoError(t, err)
		assert.Nil(t, dec)
		assert.Equal(t, VerdictDuplicate, v)
	})

	t.Run("undefined atr", func(t *testing.T) {
		bar := buy
		bar.ATR = math.NaN()
		dec, v, err := d.Decide("EUR_USD", bar, time.Time{})
		require.NoError(t, err)
		assert.Nil(t, dec)
		assert.Equal(t, VerdictIndeterminate, v)
	})
}

func TestNewOrderIntent(t *testing.T) {
	dec := models.TradeDecision{
		Symbol:     "EUR_USD",
		Side:       models.SideSell,
		StopLoss:   1.234567,
		TakeProfit: 1.2301234,
		BarTime:    time.Date(2024, 6, 3, 9, 15, 0, 0, time.UTC),
	}
	intent := NewOrderIntent(dec, 1000, 5)
	assert.Equal(t, "1.23457", intent.StopLoss)
	assert.Equal(t, "1.23012", intent.TakeProfit)
	assert.Equal(t, int64(-1000), intent.SignedUnits())
	assert.Equal(t, dec.BarTime, intent.BarTime)
}
