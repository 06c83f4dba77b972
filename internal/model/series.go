package model

import "time"

// PricePoint is one daily closing price.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries holds an ordered-by-date daily close history for one ticker.
type PriceSeries struct {
	Ticker    string
	Points    []PricePoint
	FetchedAt time.Time
}

// Len returns the number of observations in the series.
func (s PriceSeries) Len() int { return len(s.Points) }

// Closes extracts the close prices in date order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// LastClose returns the most recent close, or false for an empty series.
func (s PriceSeries) LastClose() (float64, bool) {
	if len(s.Points) == 0 {
		return 0, false
	}
	return s.Points[len(s.Points)-1].Close, true
}
