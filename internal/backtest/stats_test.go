package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/RiteshGmoger/Stock-Screener/internal/core"
	"github.com/stretchr/testify/assert"
)

func month(i int, portfolio, benchmark float64) MonthlyResult {
	m := core.Month{Year: 2024, Month: time.Month(i)}
	return MonthlyResult{
		Month:              m,
		PortfolioReturnPct: portfolio,
		BenchmarkReturnPct: benchmark,
		OutperformancePct:  portfolio - benchmark,
		NumStocks:          3,
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Months)
	assert.Zero(t, s.TotalReturnPct)
	assert.Zero(t, s.Sharpe)
}

func TestSummarize_Averages(t *testing.T) {
	months := []MonthlyResult{
		month(1, 5, 3.45),
		month(2, 5, 3.45),
	}
	s := Summarize(months)

	assert.Equal(t, 2, s.Months)
	assert.Equal(t, 2, s.MonthsWithBenchmark)
	assert.InDelta(t, 5.0, s.AvgMonthlyPct, 1e-9)
	assert.InDelta(t, 3.45, s.BenchmarkAvgPct, 1e-9)
	assert.InDelta(t, 1.55, s.AvgOutperformPct, 1e-9)
	assert.InDelta(t, 1.0, s.WinRate, 1e-9)
	assert.InDelta(t, 1.0, s.BeatRate, 1e-9)
	// 1.05 * 1.05 - 1
	assert.InDelta(t, 10.25, s.TotalReturnPct, 1e-9)
	assert.Zero(t, s.VolatilityPct)
	assert.Zero(t, s.Sharpe, "sharpe is undefined at zero volatility")
}

func TestSummarize_SkipsMissingBenchmark(t *testing.T) {
	months := []MonthlyResult{
		month(1, 4, 2),
		month(2, 1, math.NaN()),
		month(3, -2, 1),
	}
	s := Summarize(months)

	assert.Equal(t, 3, s.Months)
	assert.Equal(t, 2, s.MonthsWithBenchmark)
	assert.False(t, math.IsNaN(s.BenchmarkAvgPct))
	assert.InDelta(t, 1.5, s.BenchmarkAvgPct, 1e-9)
	// month 1 beats, month 3 does not; month 2 is not counted
	assert.InDelta(t, 0.5, s.BeatRate, 1e-9)
	// portfolio-side stats still use all three months
	assert.InDelta(t, 1.0, s.AvgMonthlyPct, 1e-9)
}

func TestSummarize_Drawdown(t *testing.T) {
	months := []MonthlyResult{
		month(1, 10, 0),
		month(2, -20, 0),
		month(3, 5, 0),
	}
	s := Summarize(months)

	// Equity path 1.10 -> 0.88 -> 0.924; trough is 20% off the 1.10 peak
	assert.InDelta(t, -20.0, s.MaxDrawdownPct, 1e-9)
	assert.InDelta(t, 2.0/3.0, s.WinRate, 1e-9)
	assert.Equal(t, "Jan 2024", s.BestMonth)
	assert.InDelta(t, 10.0, s.BestMonthPct, 1e-9)
	assert.Equal(t, "Feb 2024", s.WorstMonth)
	assert.InDelta(t, -20.0, s.WorstMonthPct, 1e-9)
}

func TestSummarize_Volatility(t *testing.T) {
	months := []MonthlyResult{
		month(1, 2, 0),
		month(2, 4, 0),
		month(3, 6, 0),
	}
	s := Summarize(months)

	assert.InDelta(t, 4.0, s.AvgMonthlyPct, 1e-9)
	// population stddev of {2,4,6}
	assert.InDelta(t, math.Sqrt(8.0/3.0), s.VolatilityPct, 1e-9)
	assert.InDelta(t, 4.0/math.Sqrt(8.0/3.0), s.Sharpe, 1e-9)
}
