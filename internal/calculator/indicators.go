package calculator

import (
	"errors"

	"PortfolioSentinel/internal/model"
)

// CalculateSMA computes the simple moving average of the trailing `period`
// prices ending at the most recent observation.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateIndicators derives the indicator set for a non-empty series.
// A moving average over a window longer than the series stays nil rather
// than zero. The signal is BUY only on a strict golden cross (MA50 > MA200);
// if either average is indeterminate the signal defaults to HOLD.
func CalculateIndicators(series model.PriceSeries) (model.IndicatorSet, error) {
	current, ok := series.LastClose()
	if !ok {
		return model.IndicatorSet{}, errors.New("empty price series")
	}

	ind := model.IndicatorSet{CurrentPrice: current, Signal: model.SignalHold}

	closes := series.Closes()
	if ma, err := CalculateSMA(closes, 50); err == nil {
		ind.MA50 = &ma
	}
	if ma, err := CalculateSMA(closes, 200); err == nil {
		ind.MA200 = &ma
	}
	if ind.MA50 != nil && ind.MA200 != nil && *ind.MA50 > *ind.MA200 {
		ind.Signal = model.SignalBuy
	}
	return ind, nil
}
