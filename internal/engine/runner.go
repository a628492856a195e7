// Package engine runs the per-symbol decision loop: fetch candles, compute
// the strategy, decide and submit. Every symbol owns one Runner and shares
// nothing with the others.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Alias1177/fxscalper/internal/metrics"
	"github.com/Alias1177/fxscalper/internal/strategy"
	"github.com/Alias1177/fxscalper/internal/trading/risk"
	"github.com/Alias1177/fxscalper/models"
)

// VerdictNoData marks a cycle whose series was shorter than the strategy window
const VerdictNoData risk.Verdict = "no_data"

// RunnerConfig is the per-symbol part of the loop configuration
type RunnerConfig struct {
	Symbol      string
	Granularity string
	Count       int
	Units       int64
	Interval    time.Duration
	// DryRun logs order intents instead of submitting them
	DryRun bool
}

// Deps are the collaborators a Runner talks to. Gateway may be nil in dry
// run mode and Notifier may always be nil.
type Deps struct {
	Source    models.MarketDataSource
	Gateway   models.OrderGateway
	Precision models.PrecisionLookup
	Notifier  models.Notifier
	Strategy  strategy.Strategy
	Decider   *risk.Decider
	Logger    zerolog.Logger
}

// CycleResult describes what one cycle saw and did
type CycleResult struct {
	Symbol       string
	Bars         int
	Bar          risk.Bar
	Frame        *strategy.Frame
	Verdict      risk.Verdict
	Decision     *models.TradeDecision
	Intent       *models.OrderIntent
	Confirmation *models.OrderConfirmation
}

type Runner struct {
	cfg  RunnerConfig
	deps Deps

	logger zerolog.Logger
	now    func() time.Time

	// lastTraded is the bar time of the last accepted order
	lastTraded time.Time
}

func NewRunner(cfg RunnerConfig, deps Deps) *Runner {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	return &Runner{
		cfg:    cfg,
		deps:   deps,
		logger: deps.Logger.With().Str("component", "engine").Str("symbol", cfg.Symbol).Logger(),
		now:    time.Now,
	}
}

func (r *Runner) Symbol() string { return r.cfg.Symbol }

// LastTraded returns the bar time of the last accepted order
func (r *Runner) LastTraded() time.Time { return r.lastTraded }

// Cycle runs fetch, compute, decide and submit once. Insufficient data is
// not an error. A panic inside the cycle is returned as an error.
func (r *Runner) Cycle(ctx context.Context) (res CycleResult, err error) {
	sym := r.cfg.Symbol
	res.Symbol = sym
	metrics.CyclesTotal.WithLabelValues(sym).Inc()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("cycle panic: %v", p)
			metrics.ErrorsTotal.WithLabelValues(sym, "panic").Inc()
			r.logger.Error().Interface("panic", p).Msg("Recovered from panic in cycle")
		}
		metrics.LastCycle.WithLabelValues(sym).Set(float64(r.now().Unix()))
	}()

	raw, err := r.deps.Source.FetchCandles(ctx, sym, r.cfg.Count, r.cfg.Granularity)
	if err != nil {
		if !errors.Is(err, models.ErrDataSource) {
			err = fmt.Errorf("%w: %v", models.ErrDataSource, err)
		}
		metrics.ErrorsTotal.WithLabelValues(sym, "fetch").Inc()
		r.logger.Error().Err(err).Msg("Failed to fetch candles")
		return res, err
	}

	series := models.NewCandleSeries(raw)
	res.Bars = len(series)

	frame, signals, err := r.deps.Strategy.Compute(series)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientData) {
			res.Verdict = VerdictNoData
			r.logger.Warn().Int("bars", len(series)).Int("need", r.deps.Strategy.MinBars()).Msg("Not enough complete candles, skipping")
			return res, nil
		}
		metrics.ErrorsTotal.WithLabelValues(sym, "compute").Inc()
		r.logger.Error().Err(err).Msg("Strategy failed")
		return res, fmt.Errorf("computing %s: %w", r.deps.Strategy.Name(), err)
	}
	res.Frame = frame

	i := len(series) - 1
	latest := series[i]
	bar := risk.Bar{
		Time:   latest.Time,
		Close:  latest.Mid.Close,
		ATR:    strategy.At(frame.ATR, i),
		Signal: signals[i],
	}
	res.Bar = bar

	r.logger.Debug().
		Time("bar_time", bar.Time).
		Float64("close", bar.Close).
		Float64("bid", latest.Bid.Close).
		Float64("ask", latest.Ask.Close).
		Float64("atr", bar.ATR).
		Str("signal", bar.Signal.String()).
		Msg("Latest bar")

	dec, verdict, err := r.deps.Decider.Decide(sym, bar, r.lastTraded)
	res.Verdict = verdict
	res.Decision = dec
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(sym, "decide").Inc()
		r.logger.Error().Err(err).Time("bar_time", bar.Time).Msg("Decision failed")
		return res, err
	}
	metrics.SignalsTotal.WithLabelValues(sym, bar.Signal.String(), string(verdict)).Inc()

	switch verdict {
	case risk.VerdictHold:
		r.logger.Info().Time("bar_time", bar.Time).Msg("No trade signal")
		return res, nil
	case risk.VerdictDuplicate:
		r.logger.Debug().Time("bar_time", bar.Time).Str("signal", bar.Signal.String()).Msg("Bar already traded, signal suppressed")
		return res, nil
	case risk.VerdictIndeterminate:
		r.logger.Warn().Time("bar_time", bar.Time).Str("signal", bar.Signal.String()).Msg("Volatility undefined, cannot size trade")
		return res, nil
	}

	intent := risk.NewOrderIntent(*dec, r.cfg.Units, r.deps.Precision.DecimalsFor(sym))
	res.Intent = &intent

	entry := latest.Ask.Close
	if intent.Side == models.SideSell {
		entry = latest.Bid.Close
	}

	if r.cfg.DryRun || r.deps.Gateway == nil {
		r.lastTraded = bar.Time
		metrics.OrdersTotal.WithLabelValues(sym, string(intent.Side), "dry_run").Inc()
		r.logger.Info().Str("order", intent.String()).Float64("entry", entry).Msg("Dry run, order not submitted")
		return res, nil
	}

	conf, err := r.deps.Gateway.SubmitMarketOrder(ctx, sym, intent.SignedUnits(), intent.StopLoss, intent.TakeProfit)
	if err != nil {
		if !errors.Is(err, models.ErrOrderSubmission) {
			err = fmt.Errorf("%w: %v", models.ErrOrderSubmission, err)
		}
		metrics.OrdersTotal.WithLabelValues(sym, string(intent.Side), "failed").Inc()
		metrics.ErrorsTotal.WithLabelValues(sym, "submit").Inc()
		r.logger.Error().Err(err).Time("bar_time", bar.Time).Str("order", intent.String()).Msg("Failed to submit order")
		return res, err
	}

	r.lastTraded = bar.Time
	res.Confirmation = conf
	metrics.OrdersTotal.WithLabelValues(sym, string(intent.Side), "placed").Inc()
	r.logger.Info().
		Str("order", intent.String()).
		Float64("entry", entry).
		Str("order_id", conf.OrderID).
		Msg("Order submitted")

	if r.deps.Notifier != nil {
		if err := r.deps.Notifier.OrderPlaced(ctx, intent, conf); err != nil {
			r.logger.Warn().Err(err).Msg("Failed to notify about order")
		}
	}
	return res, nil
}

// Run executes a cycle, then waits for the next interval boundary, until
// ctx is cancelled. Cycle failures are logged and the loop carries on.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info().
		Str("strategy", r.deps.Strategy.Name()).
		Dur("interval", r.cfg.Interval).
		Bool("dry_run", r.cfg.DryRun).
		Msg("Decision loop started")

	for {
		// errors are logged inside Cycle
		_, _ = r.Cycle(ctx)

		if err := sleepUntil(ctx, NextBoundary(r.now(), r.cfg.Interval)); err != nil {
			r.logger.Info().Msg("Decision loop stopped")
			return nil
		}
	}
}
