package provider

import (
	"context"
	"time"

	"PortfolioSentinel/internal/model"
)

// Provider supplies a daily close history for a ticker over a date range.
// Implementations may return an empty series for unknown or delisted tickers.
type Provider interface {
	History(ctx context.Context, ticker string, start, end time.Time) (model.PriceSeries, error)
	Name() string
}
