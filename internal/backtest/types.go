package backtest

import (
	"math"

	"github.com/RiteshGmoger/Stock-Screener/internal/core"
)

// Pick records one simulated holding: a ticker selected at a month's
// screen date, entered on the first trading day at or after it and
// exited on the last trading day inside the holding window. Immutable
// once measured.
type Pick struct {
	Month      core.Month
	Ticker     string
	Score      float64
	EntryPrice float64
	ExitPrice  float64
	ReturnPct  float64
}

// MonthlyResult is the aggregate outcome for one walk-forward month.
// BenchmarkReturnPct is NaN when the benchmark window could not be
// measured; OutperformancePct follows it.
type MonthlyResult struct {
	Month              core.Month
	PortfolioReturnPct float64
	BenchmarkReturnPct float64
	OutperformancePct  float64
	NumStocks          int
}

// BenchmarkMissing reports whether the month has no usable benchmark.
func (m MonthlyResult) BenchmarkMissing() bool {
	return math.IsNaN(m.BenchmarkReturnPct)
}

// Drop records a ticker lost somewhere in a run: excluded during
// screening, unmeasurable during the holding window, or the benchmark
// itself.
type Drop struct {
	Month  core.Month
	Stage  string // "screen", "measure" or "benchmark"
	Ticker string
	Reason string
}

// Result is the complete output of one walk-forward run. Months holds
// exactly one record per configured month; Picks are ordered by month
// then ticker.
type Result struct {
	RunID  string
	Months []MonthlyResult
	Picks  []Pick
	Drops  []Drop
	Stats  Stats
}
