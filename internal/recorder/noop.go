package recorder

import "PortfolioSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *model.PortfolioReport) error                 { return nil }
func (n *NoopRecorder) RecordScreen(_ []model.Mover, _ []model.Diagnostic) error { return nil }
func (n *NoopRecorder) Close() error                                             { return nil }
