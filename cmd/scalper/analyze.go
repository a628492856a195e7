package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Alias1177/fxscalper/internal/api/csvfeed"
	"github.com/Alias1177/fxscalper/internal/engine"
	"github.com/Alias1177/fxscalper/internal/instrument"
	"github.com/Alias1177/fxscalper/internal/strategy"
	"github.com/Alias1177/fxscalper/models"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one dry cycle per symbol and print the latest-bar decision",
	RunE:  analyze,
}

func init() {
	analyzeCmd.Flags().String("csv", "", "read candles from CSV files instead of the broker, e.g. data/{symbol}.csv")
}

func analyze(cmd *cobra.Command, args []string) error {
	csvPath, _ := cmd.Flags().GetString("csv")

	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}

	precision := instrument.NewPrecisionTable()
	var source models.MarketDataSource
	if csvPath != "" {
		source = csvfeed.New(csvPath)
	} else {
		if cfg.OANDA.AccessKey == "" {
			return fmt.Errorf("OANDA_ACCESS_KEY is required without --csv")
		}
		client := newBrokerClient(cfg)
		if _, err := precision.Load(cmd.Context(), client); err != nil {
			log.Warn().Err(err).Msg("Could not load instrument precision, using pip heuristic")
		}
		source = client
	}

	strat, err := newStrategy(cfg)
	if err != nil {
		return err
	}
	decider, err := newDecider(cfg)
	if err != nil {
		return err
	}

	runners := newRunners(cfg, engine.Deps{
		Source:    source,
		Precision: precision,
		Strategy:  strat,
		Decider:   decider,
		Logger:    log.Logger,
	})

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Symbol", "Bar", "Close", "ATR", "Z", "RSI", "Signal", "Verdict", "SL", "TP"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	failed := 0
	for _, r := range runners {
		res, err := r.Cycle(cmd.Context())
		if err != nil {
			failed++
			table.Append([]string{r.Symbol(), "-", "-", "-", "-", "-", "-", "error", "-", "-"})
			continue
		}
		table.Append(resultRow(res))
	}
	table.Render()

	if failed == len(runners) {
		return fmt.Errorf("all %d symbols failed", failed)
	}
	return nil
}

func resultRow(res engine.CycleResult) []string {
	row := []string{res.Symbol, "-", "-", "-", "-", "-", "-", string(res.Verdict), "-", "-"}
	if res.Frame == nil {
		return row
	}
	i := res.Frame.Len() - 1
	row[1] = res.Bar.Time.Format(time.RFC3339)
	row[2] = strconv.FormatFloat(res.Bar.Close, 'f', -1, 64)
	row[3] = formatValue(res.Bar.ATR, 6)
	row[4] = formatValue(strategy.At(res.Frame.Z, i), 3)
	row[5] = formatValue(strategy.At(res.Frame.RSI, i), 2)
	row[6] = res.Bar.Signal.String()
	if res.Intent != nil {
		row[8] = res.Intent.StopLoss
		row[9] = res.Intent.TakeProfit
	}
	return row
}

func formatValue(v float64, prec int) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}
