package notifier

import (
	"fmt"
	"strings"

	"PortfolioSentinel/internal/model"
)

// FormatReport renders a portfolio evaluation into a Telegram message.
func FormatReport(rep *model.PortfolioReport) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Portfolio Report</b> | %s\n\n", rep.GeneratedAt.Format("2006-01-02")))

	var total float64
	for _, tr := range rep.Reports {
		total += tr.Projection.TotalValue

		marker := ""
		if tr.Indicators.Signal == model.SignalBuy {
			marker = " 🟢"
		}
		b.WriteString(fmt.Sprintf("<b>%s</b> (%.4g shares)%s\n", tr.Ticker, tr.Shares, marker))
		b.WriteString(fmt.Sprintf("  price %.2f | value %.2f | %s\n",
			tr.Indicators.CurrentPrice, tr.Projection.TotalValue, tr.Indicators.Signal))
		if tr.Indicators.MA50 != nil && tr.Indicators.MA200 != nil {
			b.WriteString(fmt.Sprintf("  MA50 %.2f | MA200 %.2f\n", *tr.Indicators.MA50, *tr.Indicators.MA200))
		}
		b.WriteString(fmt.Sprintf("  buy near %.2f, sell near %.2f (%dd trend)\n",
			tr.Forecast.EstimatedBuyPrice, tr.Forecast.EstimatedSellPrice, tr.Forecast.HorizonDays))
		b.WriteString(fmt.Sprintf("  projected: 1y %.2f | 3y %.2f | 5y %.2f\n\n",
			tr.Projection.Year1, tr.Projection.Year3, tr.Projection.Year5))
	}

	b.WriteString(fmt.Sprintf("💰 total portfolio value: %.2f\n", total))

	if len(rep.Diagnostics) > 0 {
		b.WriteString("\n⚠️ <b>Skipped:</b>\n")
		for _, d := range rep.Diagnostics {
			b.WriteString(fmt.Sprintf("  %s — %s", d.Ticker, d.Kind))
			if d.Detail != "" {
				b.WriteString(": " + d.Detail)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// FormatMovers renders a screener pass into a Telegram message.
func FormatMovers(movers []model.Mover) string {
	if len(movers) == 0 {
		return "🔍 watch-list scan: no ticker cleared the weekly-gain threshold"
	}
	var b strings.Builder
	b.WriteString("🔥 <b>Trending this week</b>\n\n")
	for _, m := range movers {
		b.WriteString(fmt.Sprintf("  %s %+.2f%%\n", m.Ticker, m.ChangePercent))
	}
	return b.String()
}

// FormatHoldings renders the current portfolio for display.
func FormatHoldings(entries []model.PortfolioEntry) string {
	if len(entries) == 0 {
		return "portfolio is empty"
	}
	var b strings.Builder
	b.WriteString("📦 <b>Holdings</b>\n\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("  %s: %.4g shares\n", e.Ticker, e.Shares))
	}
	return b.String()
}
