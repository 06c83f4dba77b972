package model

// PortfolioEntry is a single held position: one ticker, a positive share count.
// The ticker is stored uppercase; duplicates are merged by summing shares
// before any entry reaches the valuation engine.
type PortfolioEntry struct {
	Ticker string  `json:"ticker"`
	Shares float64 `json:"shares"`
}
