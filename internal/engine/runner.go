package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"PortfolioSentinel/internal/calculator"
	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/provider"
)

// Options are the tunable policies of the valuation pipeline. Zero values
// fall back to the documented defaults.
type Options struct {
	GrowthRate          float64 // annual compounding rate, default 0.08
	BuyDiscount         float64 // below-trend buy discount, default 0.05
	HistoryDays         int     // valuation window, default 365
	ForecastWindow      int     // observations for trend fit, default 90
	ForecastHorizonDays int     // default 30
	MomentumWindowDays  int     // screener window, default 7
	MomentumThreshold   float64 // screener weekly-gain percent, default 2.0
}

func (o *Options) applyDefaults() {
	if o.GrowthRate == 0 {
		o.GrowthRate = 0.08
	}
	if o.BuyDiscount == 0 {
		o.BuyDiscount = 0.05
	}
	if o.HistoryDays == 0 {
		o.HistoryDays = 365
	}
	if o.ForecastWindow == 0 {
		o.ForecastWindow = 90
	}
	if o.ForecastHorizonDays == 0 {
		o.ForecastHorizonDays = 30
	}
	if o.MomentumWindowDays == 0 {
		o.MomentumWindowDays = 7
	}
	if o.MomentumThreshold == 0 {
		o.MomentumThreshold = 2.0
	}
}

// Runner drives the whole portfolio through indicator, forecast and
// projection computation, pacing every provider call and isolating
// per-ticker failures.
type Runner struct {
	provider provider.Provider
	pacer    Pacer
	opts     Options
}

// NewRunner creates a Runner. The pacer is shared across all provider calls
// the runner makes, batch and screener alike.
func NewRunner(p provider.Provider, pacer Pacer, opts Options) *Runner {
	opts.applyDefaults()
	return &Runner{provider: p, pacer: pacer, opts: opts}
}

// Evaluate processes the given portfolio snapshot in order and returns the
// assembled report plus one diagnostic per skipped ticker. A ticker-level
// failure never aborts the batch; only context cancellation does, in which
// case no report is returned.
func (r *Runner) Evaluate(ctx context.Context, entries []model.PortfolioEntry) (*model.PortfolioReport, error) {
	report := &model.PortfolioReport{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
	}
	log.Printf("[INFO] evaluating %d holdings (run %s)", len(entries), report.RunID)

	end := time.Now()
	start := end.AddDate(0, 0, -r.opts.HistoryDays)

	for _, entry := range entries {
		series, err := r.fetch(ctx, entry.Ticker, start, end)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("batch aborted: %w", ctx.Err())
			}
			log.Printf("[WARN] fetch %s: %v", entry.Ticker, err)
			report.Diagnostics = append(report.Diagnostics, model.Diagnostic{
				Ticker: entry.Ticker, Kind: model.DiagFetchError, Detail: err.Error(),
			})
			continue
		}
		if series.Len() == 0 {
			log.Printf("[WARN] no data found for %s", entry.Ticker)
			report.Diagnostics = append(report.Diagnostics, model.Diagnostic{
				Ticker: entry.Ticker, Kind: model.DiagNoData, Detail: "provider returned an empty series",
			})
			continue
		}

		tr, diag := r.buildReport(entry, series)
		if diag != nil {
			log.Printf("[WARN] skip %s: %s", entry.Ticker, diag.Detail)
			report.Diagnostics = append(report.Diagnostics, *diag)
			continue
		}
		report.Reports = append(report.Reports, *tr)
	}

	log.Printf("[INFO] run %s done: %d reports, %d skipped",
		report.RunID, len(report.Reports), len(report.Diagnostics))
	return report, nil
}

// buildReport runs the computation pipeline for one holding. A series too
// short for trend fitting drops the ticker entirely rather than emitting a
// degraded report.
func (r *Runner) buildReport(entry model.PortfolioEntry, series model.PriceSeries) (*model.TickerReport, *model.Diagnostic) {
	ind, err := calculator.CalculateIndicators(series)
	if err != nil {
		return nil, &model.Diagnostic{Ticker: entry.Ticker, Kind: model.DiagNoData, Detail: err.Error()}
	}
	forecast, err := calculator.CalculateForecast(series, r.opts.ForecastWindow, r.opts.ForecastHorizonDays, r.opts.BuyDiscount)
	if err != nil {
		return nil, &model.Diagnostic{Ticker: entry.Ticker, Kind: model.DiagInsufficientHistory, Detail: err.Error()}
	}
	return &model.TickerReport{
		Ticker:     entry.Ticker,
		Shares:     entry.Shares,
		Indicators: ind,
		Forecast:   forecast,
		Projection: calculator.CalculateProjection(ind.CurrentPrice, entry.Shares, r.opts.GrowthRate),
	}, nil
}

// Screen evaluates a watch-list with the screener window and flags tickers
// whose close gained more than the momentum threshold over that window.
// Tickers for which held returns true are skipped without a fetch.
func (r *Runner) Screen(ctx context.Context, watchlist []string, held func(string) bool) ([]model.Mover, []model.Diagnostic, error) {
	var movers []model.Mover
	var diags []model.Diagnostic

	end := time.Now()
	start := end.AddDate(0, 0, -r.opts.MomentumWindowDays)

	for _, ticker := range watchlist {
		if held != nil && held(ticker) {
			continue
		}
		series, err := r.fetch(ctx, ticker, start, end)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, fmt.Errorf("screen aborted: %w", ctx.Err())
			}
			log.Printf("[WARN] screen fetch %s: %v", ticker, err)
			diags = append(diags, model.Diagnostic{
				Ticker: ticker, Kind: model.DiagFetchError, Detail: err.Error(),
			})
			continue
		}
		if series.Len() < 2 {
			diags = append(diags, model.Diagnostic{
				Ticker: ticker, Kind: model.DiagNoData, Detail: "not enough observations in screener window",
			})
			continue
		}

		first := series.Points[0].Close
		last := series.Points[series.Len()-1].Close
		change := (last - first) / first * 100
		if change > r.opts.MomentumThreshold {
			movers = append(movers, model.Mover{Ticker: ticker, ChangePercent: change})
		}
	}
	return movers, diags, nil
}

// fetch applies the pacing contract before every provider call, the first
// one included.
func (r *Runner) fetch(ctx context.Context, ticker string, start, end time.Time) (model.PriceSeries, error) {
	if err := r.pacer.Wait(ctx); err != nil {
		return model.PriceSeries{}, fmt.Errorf("pacing wait: %w", err)
	}
	return r.provider.History(ctx, ticker, start, end)
}
