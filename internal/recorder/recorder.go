package recorder

import (
	"time"

	"github.com/judas-33/momentum/internal/model"
)

// RunRecord holds one completed backtest run for persistence.
type RunRecord struct {
	ID             string // uuid
	Symbol         string
	Start          time.Time
	End            time.Time
	RSIThreshold   float64
	SMAPeriod      int
	InitialCapital float64
	Result         *model.Result
}

// Recorder persists backtest runs for later analysis.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	Close() error
}

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunRecord) error { return nil }
func (n *NoopRecorder) Close() error                 { return nil }
