package recorder

import "PortfolioSentinel/internal/model"

// Recorder persists evaluation history for later analysis.
type Recorder interface {
	RecordRun(rep *model.PortfolioReport) error
	RecordScreen(movers []model.Mover, diags []model.Diagnostic) error
	Close() error
}
