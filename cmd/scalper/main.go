package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Alias1177/fxscalper/internal/api/oanda"
	"github.com/Alias1177/fxscalper/internal/config"
	"github.com/Alias1177/fxscalper/internal/engine"
	"github.com/Alias1177/fxscalper/internal/strategy"
	"github.com/Alias1177/fxscalper/internal/trading/risk"
)

var rootCmd = &cobra.Command{
	Use:           "scalper",
	Short:         "Minute-bar forex scalper for the OANDA v20 API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML config file (overrides CONFIG_FILE)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (overrides LOG_LEVEL)")
	rootCmd.AddCommand(runCmd, analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func setupLogger(level string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(lvl)
}

// loadConfig reads the configuration and sets up the global logger
func loadConfig(cmd *cobra.Command, dryRun bool) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if dryRun {
		cfg.DryRun = true
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	setupLogger(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newBrokerClient(cfg *config.Config) *oanda.Client {
	return oanda.NewClient(oanda.ClientOptions{
		BaseURL:        cfg.OANDABaseURL(),
		AccessToken:    cfg.OANDA.AccessKey,
		AccountID:      cfg.OANDA.AccountID,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: cfg.RequestsPerSec,
	})
}

func newDecider(cfg *config.Config) (*risk.Decider, error) {
	sizer, err := risk.NewSizer(cfg.Sizing)
	if err != nil {
		return nil, fmt.Errorf("creating sizer: %w", err)
	}
	return risk.NewDecider(sizer), nil
}

// newRunners builds one decision loop per configured symbol
func newRunners(cfg *config.Config, deps engine.Deps) []*engine.Runner {
	runners := make([]*engine.Runner, 0, len(cfg.Symbols))
	for _, sym := range cfg.Symbols {
		runners = append(runners, engine.NewRunner(engine.RunnerConfig{
			Symbol:      sym,
			Granularity: cfg.Granularity,
			Count:       cfg.CandleCount,
			Units:       cfg.Units,
			Interval:    cfg.PollInterval,
			DryRun:      cfg.DryRun,
		}, deps))
	}
	return runners
}

func newStrategy(cfg *config.Config) (strategy.Strategy, error) {
	strat, err := strategy.Build(cfg.Strategy.Name, cfg.StrategyParams())
	if err != nil {
		return nil, err
	}
	log.Info().Str("strategy", strat.Name()).Int("min_bars", strat.MinBars()).Msg("Strategy ready")
	return strat, nil
}
