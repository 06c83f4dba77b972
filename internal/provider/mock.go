package provider

import (
	"context"
	"time"

	"PortfolioSentinel/internal/model"
)

// MockProvider returns controllable fixed data for development and testing.
type MockProvider struct {
	Series map[string][]model.PricePoint
	Errs   map[string]error

	// Calls records each requested ticker and when the request arrived,
	// which lets tests assert pacing and ordering.
	Calls     []string
	CallTimes []time.Time
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) History(_ context.Context, ticker string, _, _ time.Time) (model.PriceSeries, error) {
	m.Calls = append(m.Calls, ticker)
	m.CallTimes = append(m.CallTimes, time.Now())

	series := model.PriceSeries{Ticker: ticker, FetchedAt: time.Now()}
	if err, ok := m.Errs[ticker]; ok {
		return series, err
	}
	series.Points = m.Series[ticker]
	return series, nil
}

// GeneratePoints builds a synthetic daily series ending today with a gentle
// linear drift around basePrice.
func GeneratePoints(basePrice float64, count int) []model.PricePoint {
	points := make([]model.PricePoint, count)
	for i := 0; i < count; i++ {
		points[i] = model.PricePoint{
			Date:  time.Now().AddDate(0, 0, -(count - i)),
			Close: basePrice * (1 + float64(i-count/2)*0.001),
		}
	}
	return points
}
