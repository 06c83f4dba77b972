package model

import "time"

// Signal is the buy/hold recommendation derived from the moving averages.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalHold Signal = "HOLD"
)

// IndicatorSet holds the technical indicators for one ticker. A nil moving
// average means the series was too short to compute it; it is never zero.
type IndicatorSet struct {
	CurrentPrice float64  `json:"current_price"`
	MA50         *float64 `json:"moving_average_50,omitempty"`
	MA200        *float64 `json:"moving_average_200,omitempty"`
	Signal       Signal   `json:"signal"`
}

// ForecastResult holds the linear-trend price estimates.
type ForecastResult struct {
	EstimatedBuyPrice  float64 `json:"estimated_buy_price"`
	EstimatedSellPrice float64 `json:"estimated_sell_price"`
	HorizonDays        int     `json:"forecast_horizon_days"`
}

// ProjectionResult holds the current holding value and its compounded
// future-value projections.
type ProjectionResult struct {
	TotalValue float64 `json:"total_value"`
	Year1      float64 `json:"projected_value_1y"`
	Year3      float64 `json:"projected_value_3y"`
	Year5      float64 `json:"projected_value_5y"`
}

// TickerReport is the full derived bundle for one successfully processed
// holding.
type TickerReport struct {
	Ticker     string           `json:"ticker"`
	Shares     float64          `json:"shares"`
	Indicators IndicatorSet     `json:"indicators"`
	Forecast   ForecastResult   `json:"forecast"`
	Projection ProjectionResult `json:"projection"`
}

// DiagnosticKind classifies why a ticker produced no report.
type DiagnosticKind string

const (
	DiagNoData              DiagnosticKind = "NO_DATA"
	DiagFetchError          DiagnosticKind = "FETCH_ERROR"
	DiagInsufficientHistory DiagnosticKind = "INSUFFICIENT_HISTORY"
)

// Diagnostic records a skipped ticker and the reason.
type Diagnostic struct {
	Ticker string         `json:"ticker"`
	Kind   DiagnosticKind `json:"kind"`
	Detail string         `json:"detail,omitempty"`
}

// PortfolioReport is the output of one batch evaluation. Reports appear in
// portfolio order; every skipped ticker has exactly one diagnostic.
type PortfolioReport struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Reports     []TickerReport `json:"reports"`
	Diagnostics []Diagnostic   `json:"diagnostics,omitempty"`
}

// Mover is a watch-list ticker flagged by the momentum screener.
type Mover struct {
	Ticker        string  `json:"ticker"`
	ChangePercent float64 `json:"change_percent"`
}
