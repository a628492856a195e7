package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Alias1177/fxscalper/internal/engine"
	"github.com/Alias1177/fxscalper/internal/instrument"
	"github.com/Alias1177/fxscalper/internal/metrics"
	"github.com/Alias1177/fxscalper/internal/notify"
	"github.com/Alias1177/fxscalper/models"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the decision loops for every configured symbol until interrupted",
	RunE:  runBot,
}

func init() {
	runCmd.Flags().Bool("dry-run", false, "log orders instead of submitting them")
}

func runBot(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	cfg, err := loadConfig(cmd, dryRun)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := newBrokerClient(cfg)

	precision := instrument.NewPrecisionTable()
	if cfg.OANDA.AccessKey != "" {
		if n, err := precision.Load(ctx, client); err != nil {
			log.Warn().Err(err).Msg("Could not load instrument precision, using pip heuristic")
		} else {
			log.Info().Int("instruments", n).Msg("Loaded instrument precision")
		}
	}

	var notifier models.Notifier = notify.Nop{}
	if cfg.Telegram.BotToken != "" {
		tg, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, "", nil)
		if err != nil {
			log.Warn().Err(err).Msg("Telegram notifications disabled")
		} else {
			notifier = tg
		}
	}

	if cfg.MetricsAddr != "" {
		srv := metrics.Serve(cfg.MetricsAddr)
		log.Info().Str("addr", cfg.MetricsAddr).Msg("Serving metrics")
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	strat, err := newStrategy(cfg)
	if err != nil {
		return err
	}
	decider, err := newDecider(cfg)
	if err != nil {
		return err
	}

	deps := engine.Deps{
		Source:    client,
		Precision: precision,
		Notifier:  notifier,
		Strategy:  strat,
		Decider:   decider,
		Logger:    log.Logger,
	}
	if !cfg.DryRun {
		deps.Gateway = client
	}

	return engine.NewSupervisor(log.Logger, newRunners(cfg, deps)...).Run(ctx)
}
