package calculator

import (
	"errors"
	"math"

	"PortfolioSentinel/internal/model"
)

// ErrInsufficientHistory is returned when a series is too short to fit a
// trend line.
var ErrInsufficientHistory = errors.New("not enough observations for trend fit")

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculateForecast fits an ordinary least-squares line over the most recent
// `window` closes (all of them, if the series is shorter) against a
// zero-based day index, then derives the estimated buy price (trend value
// today discounted by buyDiscount) and sell price (trend value horizonDays
// out). Deterministic for identical input.
func CalculateForecast(series model.PriceSeries, window, horizonDays int, buyDiscount float64) (model.ForecastResult, error) {
	closes := series.Closes()
	if len(closes) < 2 {
		return model.ForecastResult{}, ErrInsufficientHistory
	}
	if window > 0 && len(closes) > window {
		closes = closes[len(closes)-window:]
	}

	n := float64(len(closes))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range closes {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return model.ForecastResult{}, ErrInsufficientHistory
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	lastIdx := n - 1
	predictedToday := intercept + slope*lastIdx
	predictedAtHorizon := intercept + slope*(lastIdx+float64(horizonDays))

	return model.ForecastResult{
		EstimatedBuyPrice:  round2(predictedToday * (1 - buyDiscount)),
		EstimatedSellPrice: round2(predictedAtHorizon),
		HorizonDays:        horizonDays,
	}, nil
}
