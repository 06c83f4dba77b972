package calculator

import (
	"math"

	"PortfolioSentinel/internal/model"
)

// CalculateProjection computes the current holding value and its compounded
// projections at 1, 3 and 5 years under a fixed annual growth rate.
func CalculateProjection(currentPrice, shares, growthRate float64) model.ProjectionResult {
	total := currentPrice * shares
	return model.ProjectionResult{
		TotalValue: total,
		Year1:      round2(total * math.Pow(1+growthRate, 1)),
		Year3:      round2(total * math.Pow(1+growthRate, 3)),
		Year5:      round2(total * math.Pow(1+growthRate, 5)),
	}
}
