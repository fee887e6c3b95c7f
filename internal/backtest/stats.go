package backtest

import "math"

// Stats summarizes a finished run. Benchmark-relative figures skip
// months whose benchmark could not be measured; MonthsWithBenchmark
// says how many remained.
type Stats struct {
	Months              int
	MonthsWithBenchmark int

	TotalReturnPct float64 // compounded across months
	AvgMonthlyPct  float64
	VolatilityPct  float64 // population stddev of monthly returns
	Sharpe         float64 // monthly, not annualized
	MaxDrawdownPct float64 // <= 0
	WinRate        float64 // share of months with a positive return

	BenchmarkTotalPct float64
	BenchmarkAvgPct   float64
	AvgOutperformPct  float64
	BeatRate          float64 // share of measured months beating the benchmark

	BestMonth     string
	BestMonthPct  float64
	WorstMonth    string
	WorstMonthPct float64
}

// Summarize computes run statistics from the monthly records.
func Summarize(months []MonthlyResult) Stats {
	s := Stats{Months: len(months)}
	if len(months) == 0 {
		return s
	}

	var (
		sum      float64
		wins     int
		equity   = 1.0
		peak     = 1.0
		benchEq  = 1.0
		benchSum float64
		outSum   float64
		beats    int
	)

	s.BestMonthPct = math.Inf(-1)
	s.WorstMonthPct = math.Inf(1)

	for _, m := range months {
		r := m.PortfolioReturnPct
		sum += r
		if r > 0 {
			wins++
		}
		if r > s.BestMonthPct {
			s.BestMonthPct = r
			s.BestMonth = m.Month.Label()
		}
		if r < s.WorstMonthPct {
			s.WorstMonthPct = r
			s.WorstMonth = m.Month.Label()
		}

		equity *= 1 + r/100
		if equity > peak {
			peak = equity
		}
		if dd := (equity - peak) / peak * 100; dd < s.MaxDrawdownPct {
			s.MaxDrawdownPct = dd
		}

		if !m.BenchmarkMissing() {
			s.MonthsWithBenchmark++
			benchEq *= 1 + m.BenchmarkReturnPct/100
			benchSum += m.BenchmarkReturnPct
			outSum += m.OutperformancePct
			if m.PortfolioReturnPct > m.BenchmarkReturnPct {
				beats++
			}
		}
	}

	n := float64(len(months))
	s.TotalReturnPct = (equity - 1) * 100
	s.AvgMonthlyPct = sum / n
	s.WinRate = float64(wins) / n

	var variance float64
	for _, m := range months {
		d := m.PortfolioReturnPct - s.AvgMonthlyPct
		variance += d * d
	}
	s.VolatilityPct = math.Sqrt(variance / n)
	if s.VolatilityPct > 0 {
		s.Sharpe = s.AvgMonthlyPct / s.VolatilityPct
	}

	if s.MonthsWithBenchmark > 0 {
		bn := float64(s.MonthsWithBenchmark)
		s.BenchmarkTotalPct = (benchEq - 1) * 100
		s.BenchmarkAvgPct = benchSum / bn
		s.AvgOutperformPct = outSum / bn
		s.BeatRate = float64(beats) / bn
	}
	return s
}
