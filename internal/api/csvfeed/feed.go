// Package csvfeed replays candles from CSV files. It implements the same
// market data contract as the live broker client so analysis runs can be
// done offline.
package csvfeed

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/fxscalper/models"
)

// SymbolPlaceholder in a path template is replaced with the instrument name
const SymbolPlaceholder = "{symbol}"

type candleRow struct {
	Time     string  `csv:"time"`
	Complete string  `csv:"complete"`
	Volume   int64   `csv:"volume"`
	MidO     float64 `csv:"mid_o"`
	MidH     float64 `csv:"mid_h"`
	MidL     float64 `csv:"mid_l"`
	MidC     float64 `csv:"mid_c"`
	BidO     float64 `csv:"bid_o"`
	BidH     float64 `csv:"bid_h"`
	BidL     float64 `csv:"bid_l"`
	BidC     float64 `csv:"bid_c"`
	AskO     float64 `csv:"ask_o"`
	AskH     float64 `csv:"ask_h"`
	AskL     float64 `csv:"ask_l"`
	AskC     float64 `csv:"ask_c"`
}

// Feed reads candles for a symbol from a file named by its path template
type Feed struct {
	pathTemplate string
	logger       zerolog.Logger
}

func New(pathTemplate string) *Feed {
	return &Feed{
		pathTemplate: pathTemplate,
		logger:       log.With().Str("component", "csv_feed").Logger(),
	}
}

// Path resolves the file used for symbol
func (f *Feed) Path(symbol string) string {
	return strings.ReplaceAll(f.pathTemplate, SymbolPlaceholder, symbol)
}

// FetchCandles returns the last count rows of the symbol's file. Granularity
// is not checked; the file is assumed to hold bars of the requested size.
func (f *Feed) FetchCandles(ctx context.Context, symbol string, count int, granularity string) ([]models.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := f.Path(symbol)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDataSource, err)
	}
	defer file.Close()

	var rows []*candleRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", models.ErrDataSource, path, err)
	}

	if count > 0 && len(rows) > count {
		rows = rows[len(rows)-count:]
	}

	candles := make([]models.Candle, 0, len(rows))
	for i, row := range rows {
		c, err := row.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %v", models.ErrDataSource, path, i+1, err)
		}
		candles = append(candles, c)
	}

	f.logger.Debug().Str("symbol", symbol).Str("path", path).Int("count", len(candles)).Msg("Loaded candles")
	return candles, nil
}

func (r *candleRow) toModel() (models.Candle, error) {
	t, err := parseTime(r.Time)
	if err != nil {
		return models.Candle{}, err
	}

	complete := true
	if s := strings.TrimSpace(r.Complete); s != "" {
		complete, err = strconv.ParseBool(s)
		if err != nil {
			return models.Candle{}, fmt.Errorf("complete %q: %w", r.Complete, err)
		}
	}

	return models.Candle{
		Time:     t,
		Complete: complete,
		Volume:   r.Volume,
		Mid:      models.Price{Open: r.MidO, High: r.MidH, Low: r.MidL, Close: r.MidC},
		Bid:      models.Price{Open: r.BidO, High: r.BidH, Low: r.BidL, Close: r.BidC},
		Ask:      models.Price{Open: r.AskO, High: r.AskH, Low: r.AskL, Close: r.AskC},
	}, nil
}

// parseTime accepts RFC3339 timestamps or unix seconds
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("time %q: unsupported format", s)
}
