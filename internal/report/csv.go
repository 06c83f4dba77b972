package report

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"

	"PortfolioSentinel/internal/model"
)

// csvHeader is the flat tabular export consumed by the presentation layer.
var csvHeader = []string{
	"Ticker", "Current Price", "Total Value", "50-Day MA", "200-Day MA",
	"Signal", "Est. Buy Price", "Est. Sell Price", "1y", "3y", "5y",
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatPrice(*v)
}

// WriteCSV renders the report as UTF-8 comma-separated text with a header
// row, one row per ticker, numeric fields rounded to 2 decimal places.
// Indeterminate moving averages render as empty fields.
func WriteCSV(w io.Writer, rep *model.PortfolioReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, tr := range rep.Reports {
		row := []string{
			tr.Ticker,
			formatPrice(tr.Indicators.CurrentPrice),
			formatPrice(tr.Projection.TotalValue),
			formatOptional(tr.Indicators.MA50),
			formatOptional(tr.Indicators.MA200),
			string(tr.Indicators.Signal),
			formatPrice(tr.Forecast.EstimatedBuyPrice),
			formatPrice(tr.Forecast.EstimatedSellPrice),
			formatPrice(tr.Projection.Year1),
			formatPrice(tr.Projection.Year3),
			formatPrice(tr.Projection.Year5),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVBytes is a convenience wrapper around WriteCSV.
func CSVBytes(rep *model.PortfolioReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rep); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
