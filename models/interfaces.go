package models

import (
	"context"
	"errors"
)

var (
	// ErrInsufficientData means the series is shorter than the strategy window
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDataSource wraps any failure fetching candles
	ErrDataSource = errors.New("data source failure")
	// ErrOrderSubmission wraps any failure placing an order
	ErrOrderSubmission = errors.New("order submission failure")
)

type MarketDataSource interface {
	FetchCandles(ctx context.Context, symbol string, count int, granularity string) ([]Candle, error)
}

type OrderGateway interface {
	SubmitMarketOrder(ctx context.Context, symbol string, signedUnits int64, stopLoss, takeProfit string) (*OrderConfirmation, error)
}

type PrecisionLookup interface {
	DecimalsFor(symbol string) int
}

// Notifier is told about every order that the gateway accepted
type Notifier interface {
	OrderPlaced(ctx context.Context, intent OrderIntent, conf *OrderConfirmation) error
}
