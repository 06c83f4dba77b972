package engine

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/provider"
)

func linearPoints(first, step float64, n int) []model.PricePoint {
	points := make([]model.PricePoint, n)
	base := time.Now().AddDate(0, 0, -n)
	for i := 0; i < n; i++ {
		points[i] = model.PricePoint{Date: base.AddDate(0, 0, i), Close: first + step*float64(i)}
	}
	return points
}

func mean(points []model.PricePoint) float64 {
	sum := 0.0
	for _, p := range points {
		sum += p.Close
	}
	return sum / float64(len(points))
}

func newTestRunner(p provider.Provider) *Runner {
	return NewRunner(p, NewIntervalPacer(0), Options{})
}

func TestEvaluate_FailureIsolation(t *testing.T) {
	mock := &provider.MockProvider{
		Series: map[string][]model.PricePoint{
			"GOOD": provider.GeneratePoints(100, 365),
		},
		Errs: map[string]error{
			"BAD": errors.New("connection reset"),
		},
	}
	runner := newTestRunner(mock)

	for _, entries := range [][]model.PortfolioEntry{
		{{Ticker: "BAD", Shares: 1}, {Ticker: "GOOD", Shares: 2}},
		{{Ticker: "GOOD", Shares: 2}, {Ticker: "BAD", Shares: 1}},
	} {
		rep, err := runner.Evaluate(context.Background(), entries)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rep.Reports) != 1 || rep.Reports[0].Ticker != "GOOD" {
			t.Errorf("expected exactly one report for GOOD, got %+v", rep.Reports)
		}
		if len(rep.Diagnostics) != 1 {
			t.Fatalf("expected exactly one diagnostic, got %+v", rep.Diagnostics)
		}
		d := rep.Diagnostics[0]
		if d.Ticker != "BAD" || d.Kind != model.DiagFetchError {
			t.Errorf("diagnostic = %+v, want FETCH_ERROR for BAD", d)
		}
		if d.Detail == "" {
			t.Error("fetch-error diagnostic must carry the error detail")
		}
	}
}

func TestEvaluate_EmptySeries(t *testing.T) {
	mock := &provider.MockProvider{Series: map[string][]model.PricePoint{}}
	runner := newTestRunner(mock)

	rep, err := runner.Evaluate(context.Background(), []model.PortfolioEntry{{Ticker: "ZZZZ", Shares: 5}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Reports) != 0 {
		t.Errorf("expected zero reports, got %d", len(rep.Reports))
	}
	if len(rep.Diagnostics) != 1 || rep.Diagnostics[0].Kind != model.DiagNoData || rep.Diagnostics[0].Ticker != "ZZZZ" {
		t.Errorf("expected one NO_DATA diagnostic for ZZZZ, got %+v", rep.Diagnostics)
	}
}

func TestEvaluate_InsufficientHistoryDropsTicker(t *testing.T) {
	mock := &provider.MockProvider{
		Series: map[string][]model.PricePoint{
			"ONE": linearPoints(100, 0, 1),
		},
	}
	runner := newTestRunner(mock)

	rep, err := runner.Evaluate(context.Background(), []model.PortfolioEntry{{Ticker: "ONE", Shares: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Reports) != 0 {
		t.Errorf("expected the ticker to be dropped, got %+v", rep.Reports)
	}
	if len(rep.Diagnostics) != 1 || rep.Diagnostics[0].Kind != model.DiagInsufficientHistory {
		t.Errorf("expected an INSUFFICIENT_HISTORY diagnostic, got %+v", rep.Diagnostics)
	}
}

func TestEvaluate_EndToEnd(t *testing.T) {
	// 365-point rising series ending at exactly 200.
	points := linearPoints(200-0.25*364, 0.25, 365)
	mock := &provider.MockProvider{
		Series: map[string][]model.PricePoint{"AAPL": points},
	}
	runner := newTestRunner(mock)

	rep, err := runner.Evaluate(context.Background(), []model.PortfolioEntry{{Ticker: "AAPL", Shares: 10}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Reports) != 1 {
		t.Fatalf("expected one report, got %d", len(rep.Reports))
	}
	tr := rep.Reports[0]

	if tr.Indicators.CurrentPrice != 200 {
		t.Errorf("current price = %v, want 200", tr.Indicators.CurrentPrice)
	}
	if tr.Indicators.Signal != model.SignalBuy {
		t.Errorf("signal = %s, want BUY for a rising series", tr.Indicators.Signal)
	}
	if tr.Indicators.MA50 == nil || tr.Indicators.MA200 == nil {
		t.Fatal("expected both moving averages to be computed from 365 observations")
	}
	if want := mean(points[315:]); math.Abs(*tr.Indicators.MA50-want) > 1e-9 {
		t.Errorf("MA50 = %v, want %v", *tr.Indicators.MA50, want)
	}
	if want := mean(points[165:]); math.Abs(*tr.Indicators.MA200-want) > 1e-9 {
		t.Errorf("MA200 = %v, want %v", *tr.Indicators.MA200, want)
	}
	if tr.Projection.TotalValue != 2000 {
		t.Errorf("total value = %v, want 2000", tr.Projection.TotalValue)
	}
	if tr.Projection.Year1 != 2160 {
		t.Errorf("1y projection = %v, want 2160", tr.Projection.Year1)
	}
	// Trend is a perfect 0.25/day line over the 90-observation window.
	if want := math.Round(200*0.95*100) / 100; tr.Forecast.EstimatedBuyPrice != want {
		t.Errorf("buy price = %v, want %v", tr.Forecast.EstimatedBuyPrice, want)
	}
	if want := math.Round((200+0.25*30)*100) / 100; tr.Forecast.EstimatedSellPrice != want {
		t.Errorf("sell price = %v, want %v", tr.Forecast.EstimatedSellPrice, want)
	}
	if rep.RunID == "" {
		t.Error("expected a run ID")
	}
}

func TestEvaluate_PreservesPortfolioOrder(t *testing.T) {
	mock := &provider.MockProvider{
		Series: map[string][]model.PricePoint{
			"AAA": provider.GeneratePoints(50, 365),
			"BBB": provider.GeneratePoints(60, 365),
			"CCC": provider.GeneratePoints(70, 365),
		},
	}
	runner := newTestRunner(mock)

	rep, err := runner.Evaluate(context.Background(), []model.PortfolioEntry{
		{Ticker: "CCC", Shares: 1}, {Ticker: "AAA", Shares: 1}, {Ticker: "BBB", Shares: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"CCC", "AAA", "BBB"}
	for i, tr := range rep.Reports {
		if tr.Ticker != want[i] {
			t.Errorf("report[%d] = %s, want %s", i, tr.Ticker, want[i])
		}
	}
}

func TestEvaluate_ContextCancellationAbortsBatch(t *testing.T) {
	mock := &provider.MockProvider{
		Series: map[string][]model.PricePoint{"AAPL": provider.GeneratePoints(100, 365)},
	}
	runner := newTestRunner(mock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := runner.Evaluate(ctx, []model.PortfolioEntry{{Ticker: "AAPL", Shares: 1}})
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if rep != nil {
		t.Errorf("expected no partial report on cancellation, got %+v", rep)
	}
}

func TestEvaluate_PacingBetweenFetches(t *testing.T) {
	const interval = 30 * time.Millisecond

	mock := &provider.MockProvider{
		Series: map[string][]model.PricePoint{
			"AAA": provider.GeneratePoints(50, 10),
			"BBB": provider.GeneratePoints(60, 10),
			"CCC": provider.GeneratePoints(70, 10),
		},
	}
	runner := NewRunner(mock, NewIntervalPacer(interval), Options{})

	started := time.Now()
	if _, err := runner.Evaluate(context.Background(), []model.PortfolioEntry{
		{Ticker: "AAA", Shares: 1}, {Ticker: "BBB", Shares: 1}, {Ticker: "CCC", Shares: 1},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mock.CallTimes) != 3 {
		t.Fatalf("expected 3 provider calls, got %d", len(mock.CallTimes))
	}
	// The pacing delay applies even before the first call, so three fetches
	// cost at least three full intervals.
	if gap := mock.CallTimes[0].Sub(started); gap < interval-time.Millisecond {
		t.Errorf("first call after %v, want at least %v", gap, interval)
	}
	if elapsed := mock.CallTimes[2].Sub(started); elapsed < 3*interval-time.Millisecond {
		t.Errorf("three paced calls took %v, want at least %v", elapsed, 3*interval)
	}
}

func TestScreen(t *testing.T) {
	mock := &provider.MockProvider{
		Series: map[string][]model.PricePoint{
			"UP":   linearPoints(100, 0.5, 7),   // +3%
			"FLAT": linearPoints(100, 0.1, 7),   // +0.6%
			"EDGE": {{Close: 100}, {Close: 102}}, // exactly +2%, not strictly above
		},
		Errs: map[string]error{
			"BAD": errors.New("timeout"),
		},
	}
	runner := newTestRunner(mock)

	held := func(ticker string) bool { return ticker == "OWNED" }
	movers, diags, err := runner.Screen(context.Background(),
		[]string{"UP", "FLAT", "EDGE", "OWNED", "BAD"}, held)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(movers) != 1 || movers[0].Ticker != "UP" {
		t.Fatalf("movers = %+v, want only UP", movers)
	}
	if movers[0].ChangePercent <= 2 {
		t.Errorf("change percent = %v, want > 2", movers[0].ChangePercent)
	}
	if len(diags) != 1 || diags[0].Ticker != "BAD" || diags[0].Kind != model.DiagFetchError {
		t.Errorf("diags = %+v, want one FETCH_ERROR for BAD", diags)
	}
	for _, c := range mock.Calls {
		if c == "OWNED" {
			t.Error("held ticker must not be fetched by the screener")
		}
	}
}
