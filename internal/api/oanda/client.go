package oanda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "github.com/Alias1177/fxscalper/internal/platform/http"
	"github.com/Alias1177/fxscalper/models"
)

const (
	PracticeURL = "https://api-fxpractice.oanda.com"
	LiveURL     = "https://api-fxtrade.oanda.com"

	orderTag = "fxscalper"
)

var (
	_ models.MarketDataSource = (*Client)(nil)
	_ models.OrderGateway     = (*Client)(nil)
)

// Client is the OANDA v20 REST client
type Client struct {
	baseURL    string
	accountID  string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new OANDA client
type ClientOptions struct {
	BaseURL         string
	AccessToken     string
	AccountID       string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetryTimeout time.Duration
	RetryInterval   time.Duration
}

// NewClient creates a new OANDA API client
func NewClient(options ClientOptions) *Client {
	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = PracticeURL
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+options.AccessToken)
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept-Datetime-Format", "RFC3339")

	return &Client{
		baseURL:   baseURL,
		accountID: options.AccountID,
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout:         options.RequestTimeout,
			RequestsPerSec:  options.RequestsPerSec,
			MaxRetryTimeout: options.MaxRetryTimeout,
			RetryInterval:   options.RetryInterval,
			Headers:         headers,
		}),
		logger: log.With().Str("component", "oanda_client").Logger(),
	}
}

// FetchCandles fetches mid, bid and ask candles, oldest first
func (c *Client) FetchCandles(ctx context.Context, symbol string, count int, granularity string) ([]models.Candle, error) {
	query := url.Values{}
	query.Set("count", strconv.Itoa(count))
	query.Set("granularity", granularity)
	query.Set("price", "MBA")
	endpoint := fmt.Sprintf("%s/v3/instruments/%s/candles?%s", c.baseURL, url.PathEscape(symbol), query.Encode())

	c.logger.Debug().Str("url", endpoint).Msg("Fetching candles")

	var data candlesResponse
	if err := c.getJSON(ctx, endpoint, &data); err != nil {
		return nil, fmt.Errorf("%w: candles %s: %v", models.ErrDataSource, symbol, err)
	}

	candles := make([]models.Candle, 0, len(data.Candles))
	for _, v := range data.Candles {
		candle, err := v.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: candles %s: %v", models.ErrDataSource, symbol, err)
		}
		candles = append(candles, candle)
	}

	c.logger.Debug().Str("symbol", symbol).Int("count", len(candles)).Msg("Fetched candles")
	return candles, nil
}

// SubmitMarketOrder places a market order with stop-loss and take-profit
// attached on fill. Prices must already be rounded to instrument precision.
func (c *Client) SubmitMarketOrder(ctx context.Context, symbol string, signedUnits int64, stopLoss, takeProfit string) (*models.OrderConfirmation, error) {
	clientID := uuid.NewString()
	payload := orderRequest{Order: marketOrderDTO{
		Instrument:       symbol,
		Units:            strconv.FormatInt(signedUnits, 10),
		Type:             "MARKET",
		PositionFill:     "DEFAULT",
		StopLossOnFill:   &priceDTO{Price: stopLoss},
		TakeProfitOnFill: &priceDTO{Price: takeProfit},
		ClientExtensions: &clientExtensionsDTO{ID: clientID, Tag: orderTag},
	}}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding order: %v", models.ErrOrderSubmission, err)
	}

	endpoint := fmt.Sprintf("%s/v3/accounts/%s/orders", c.baseURL, url.PathEscape(c.accountID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", models.ErrOrderSubmission, err)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrOrderSubmission, symbol, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", models.ErrOrderSubmission, err)
	}

	var data orderResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		c.logger.Error().Err(err).Str("response", string(raw)).Msg("Error parsing order response")
		return nil, fmt.Errorf("%w: parsing JSON: %v", models.ErrOrderSubmission, err)
	}
	if data.OrderCancelTransaction != nil {
		return nil, fmt.Errorf("%w: %s: order cancelled: %s", models.ErrOrderSubmission, symbol, data.OrderCancelTransaction.Reason)
	}
	if data.OrderCreateTransaction == nil {
		return nil, fmt.Errorf("%w: %s: no order created: %s", models.ErrOrderSubmission, symbol, data.ErrorMessage)
	}

	conf := &models.OrderConfirmation{
		OrderID:       data.OrderCreateTransaction.ID,
		ClientOrderID: clientID,
		Time:          parseTime(data.OrderCreateTransaction.Time),
	}
	if fill := data.OrderFillTransaction; fill != nil {
		conf.FillPrice, _ = strconv.ParseFloat(fill.Price, 64)
		if fill.TradeOpened != nil {
			conf.TradeID = fill.TradeOpened.TradeID
		}
	}

	c.logger.Info().Str("symbol", symbol).Str("order_id", conf.OrderID).Str("trade_id", conf.TradeID).
		Float64("fill_price", conf.FillPrice).Msg("Order placed")
	return conf, nil
}

// Instruments returns each tradeable instrument's display precision
func (c *Client) Instruments(ctx context.Context) (map[string]int, error) {
	endpoint := fmt.Sprintf("%s/v3/accounts/%s/instruments", c.baseURL, url.PathEscape(c.accountID))

	var data instrumentsResponse
	if err := c.getJSON(ctx, endpoint, &data); err != nil {
		return nil, fmt.Errorf("%w: instruments: %v", models.ErrDataSource, err)
	}

	out := make(map[string]int, len(data.Instruments))
	for _, in := range data.Instruments {
		out[in.Name] = in.DisplayPrecision
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if err := json.Unmarshal(body, into); err != nil {
		c.logger.Error().Err(err).Str("response", string(body)).Msg("Error parsing JSON")
		return fmt.Errorf("parsing JSON: %w", err)
	}
	return nil
}

func (v candleDTO) toModel() (models.Candle, error) {
	t, err := time.Parse(time.RFC3339Nano, v.Time)
	if err != nil {
		return models.Candle{}, fmt.Errorf("candle time %q: %w", v.Time, err)
	}
	candle := models.Candle{
		Time:     t.UTC(),
		Complete: v.Complete,
		Volume:   v.Volume,
	}
	for _, leg := range []struct {
		src *ohlcDTO
		dst *models.Price
	}{
		{v.Mid, &candle.Mid},
		{v.Bid, &candle.Bid},
		{v.Ask, &candle.Ask},
	} {
		if leg.src == nil {
			continue
		}
		p, err := leg.src.toModel()
		if err != nil {
			return models.Candle{}, fmt.Errorf("candle %s: %w", v.Time, err)
		}
		*leg.dst = p
	}
	return candle, nil
}

func (o ohlcDTO) toModel() (models.Price, error) {
	var p models.Price
	for _, f := range []struct {
		raw string
		dst *float64
	}{
		{o.O, &p.Open},
		{o.H, &p.High},
		{o.L, &p.Low},
		{o.C, &p.Close},
	} {
		v, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			return models.Price{}, fmt.Errorf("price %q: %w", f.raw, err)
		}
		*f.dst = v
	}
	return p, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
