// Package progress reports transfer progress to the operator.
package progress

import (
	"github.com/rs/zerolog"
)

// Reporter receives the cumulative byte count as a transfer advances. Calls
// arrive synchronously from the transfer loop: Start once, Update after
// every chunk, Finish once after a clean shutdown.
type Reporter interface {
	Start(total uint64)
	Update(transferred uint64)
	Finish()
}

// LogReporter narrates progress through the logger, for sessions without a
// terminal. It emits one line per completed decile instead of one per chunk.
type LogReporter struct {
	logger     zerolog.Logger
	total      uint64
	lastDecile uint64
}

// NewLogReporter builds a LogReporter on the given logger.
func NewLogReporter(logger zerolog.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

func (r *LogReporter) Start(total uint64) {
	r.total = total
	r.lastDecile = 0
	r.logger.Info().Uint64("total_bytes", total).Msg("transfer started")
}

func (r *LogReporter) Update(transferred uint64) {
	if r.total == 0 {
		return
	}
	decile := transferred * 10 / r.total
	if decile > r.lastDecile {
		r.lastDecile = decile
		r.logger.Info().
			Uint64("bytes", transferred).
			Uint64("percent", decile*10).
			Msg("transfer progress")
	}
}

func (r *LogReporter) Finish() {
	r.logger.Info().Msg("transfer complete")
}
