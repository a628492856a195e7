package risk

import (
	"errors"
	"fmt"
	"math"

	"github.com/Alias1177/fxscalper/internal/indicators"
	"github.com/Alias1177/fxscalper/internal/utils"
	"github.com/Alias1177/fxscalper/models"
)

const (
	jpyPipSize     = 0.01
	defaultPipSize = 0.0001
)

// ErrIndeterminate means there is no usable volatility to size against
var ErrIndeterminate = errors.New("indeterminate volatility")

// PipSize is 0.01 for yen pairs and 0.0001 for everything else
func PipSize(symbol string) float64 {
	if utils.IsJPY(symbol) {
		return jpyPipSize
	}
	return defaultPipSize
}

// PipsToPrice converts a pip count into price units for symbol
func PipsToPrice(pips float64, symbol string) float64 {
	return pips * PipSize(symbol)
}

// SizingMode selects how stop and target distances are derived
type SizingMode string

const (
	SizingATR   SizingMode = "atr"
	SizingFixed SizingMode = "fixed"
)

func ParseSizingMode(s string) (SizingMode, error) {
	switch SizingMode(s) {
	case "", SizingATR:
		return SizingATR, nil
	case SizingFixed:
		return SizingFixed, nil
	}
	return "", fmt.Errorf("unknown sizing mode %q", s)
}

// SizingConfig holds the stop-loss / take-profit parameters. Pip clamps of
// zero are disabled.
type SizingConfig struct {
	Mode         SizingMode `yaml:"mode"`
	SLMultiplier float64    `yaml:"sl_multiplier"`
	TPMultiplier float64    `yaml:"tp_multiplier"`
	SLMinPips    float64    `yaml:"sl_min_pips"`
	SLMaxPips    float64    `yaml:"sl_max_pips"`
	TPMinPips    float64    `yaml:"tp_min_pips"`
	SLPips       float64    `yaml:"sl_pips"`
	TPPips       float64    `yaml:"tp_pips"`
}

// DefaultSizingConfig is ATR-scaled with 1.0x stop and 1.5x target
func DefaultSizingConfig() SizingConfig {
	return SizingConfig{
		Mode:         SizingATR,
		SLMultiplier: 1.0,
		TPMultiplier: 1.5,
		SLPips:       10,
		TPPips:       15,
	}
}

func (c SizingConfig) Validate() error {
	if _, err := ParseSizingMode(string(c.Mode)); err != nil {
		return err
	}
	for name, v := range map[string]float64{
		"sl_multiplier": c.SLMultiplier,
		"tp_multiplier": c.TPMultiplier,
		"sl_min_pips":   c.SLMinPips,
		"sl_max_pips":   c.SLMaxPips,
		"tp_min_pips":   c.TPMinPips,
		"sl_pips":       c.SLPips,
		"tp_pips":       c.TPPips,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%s (%f) cannot be negative", name, v)
		}
	}
	if c.SLMaxPips > 0 && c.SLMaxPips < c.SLMinPips {
		return fmt.Errorf("sl_max_pips (%f) is below sl_min_pips (%f)", c.SLMaxPips, c.SLMinPips)
	}
	switch c.Mode {
	case SizingFixed:
		if c.SLPips <= 0 || c.TPPips <= 0 {
			return errors.New("fixed sizing needs positive sl_pips and tp_pips")
		}
	default:
		if c.SLMultiplier <= 0 || c.TPMultiplier <= 0 {
			return errors.New("atr sizing needs positive multipliers")
		}
	}
	return nil
}

// Sizer derives stop and target distances in price units
type Sizer struct {
	cfg SizingConfig
}

func NewSizer(cfg SizingConfig) (*Sizer, error) {
	if cfg.Mode == "" {
		cfg.Mode = SizingATR
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Sizer{cfg: cfg}, nil
}

func (s *Sizer) Mode() SizingMode { return s.cfg.Mode }

// Distances returns the stop-loss and take-profit offsets from entry
func (s *Sizer) Distances(symbol string, atr float64) (sl, tp float64, err error) {
	if s.cfg.Mode == SizingFixed {
		return PipsToPrice(s.cfg.SLPips, symbol), PipsToPrice(s.cfg.TPPips, symbol), nil
	}

	if !indicators.Defined(atr) || atr <= 0 {
		return 0, 0, fmt.Errorf("atr %v: %w", atr, ErrIndeterminate)
	}
	sl = s.cfg.SLMultiplier * atr
	tp = s.cfg.TPMultiplier * atr

	if s.cfg.SLMinPips > 0 {
		sl = math.Max(sl, PipsToPrice(s.cfg.SLMinPips, symbol))
	}
	if s.cfg.SLMaxPips > 0 {
		sl = math.Min(sl, PipsToPrice(s.cfg.SLMaxPips, symbol))
	}
	if s.cfg.TPMinPips > 0 {
		tp = math.Max(tp, PipsToPrice(s.cfg.TPMinPips, symbol))
	}
	return sl, tp, nil
}

// Levels places the stop on the loss side and the target on the profit
// side of entry.
func Levels(side models.Side, entry, slDistance, tpDistance float64) (stopLoss, takeProfit float64) {
	if side == models.SideSell {
		return entry + slDistance, entry - tpDistance
	}
	return entry - slDistance, entry + tpDistance
}
