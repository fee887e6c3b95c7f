// Package report renders run results as flat CSV artifacts and writes
// them to the output directory and the configured archive.
package report

import (
	"bytes"
	"encoding/csv"
	"math"
	"strconv"

	"github.com/RiteshGmoger/Stock-Screener/internal/backtest"
	"github.com/RiteshGmoger/Stock-Screener/internal/screener"
)

// pct renders a percentage with two decimals. NaN renders as an empty
// cell so spreadsheet tools skip it instead of choking on "NaN".
func pct(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func price(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func render(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MonthlyCSV renders one row per walk-forward month.
func MonthlyCSV(months []backtest.MonthlyResult) ([]byte, error) {
	rows := [][]string{{"Month", "Portfolio_Return_%", "Benchmark_Return_%", "Outperformance_%", "Num_Stocks"}}
	for _, m := range months {
		rows = append(rows, []string{
			m.Month.Label(),
			pct(m.PortfolioReturnPct),
			pct(m.BenchmarkReturnPct),
			pct(m.OutperformancePct),
			strconv.Itoa(m.NumStocks),
		})
	}
	return render(rows)
}

// PicksCSV renders every simulated holding across the run.
func PicksCSV(picks []backtest.Pick) ([]byte, error) {
	rows := [][]string{{"Month", "Ticker", "Score", "Entry_Price", "Exit_Price", "Return_%"}}
	for _, p := range picks {
		rows = append(rows, []string{
			p.Month.Label(),
			p.Ticker,
			price(p.Score),
			price(p.EntryPrice),
			price(p.ExitPrice),
			pct(p.ReturnPct),
		})
	}
	return render(rows)
}

// DropsCSV renders the tickers lost during the run and why.
func DropsCSV(drops []backtest.Drop) ([]byte, error) {
	rows := [][]string{{"Month", "Stage", "Ticker", "Reason"}}
	for _, d := range drops {
		rows = append(rows, []string{d.Month.Label(), d.Stage, d.Ticker, d.Reason})
	}
	return render(rows)
}

// SummaryCSV renders run statistics as metric/value pairs.
func SummaryCSV(runID string, s backtest.Stats) ([]byte, error) {
	ratio := func(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }
	rows := [][]string{
		{"Metric", "Value"},
		{"Run_ID", runID},
		{"Months", strconv.Itoa(s.Months)},
		{"Total_Return_%", pct(s.TotalReturnPct)},
		{"Avg_Monthly_Return_%", pct(s.AvgMonthlyPct)},
		{"Volatility_%", pct(s.VolatilityPct)},
		{"Sharpe", ratio(s.Sharpe)},
		{"Max_Drawdown_%", pct(s.MaxDrawdownPct)},
		{"Win_Rate", ratio(s.WinRate)},
		{"Benchmark_Total_Return_%", pct(s.BenchmarkTotalPct)},
		{"Benchmark_Avg_Monthly_%", pct(s.BenchmarkAvgPct)},
		{"Avg_Outperformance_%", pct(s.AvgOutperformPct)},
		{"Beat_Rate", ratio(s.BeatRate)},
		{"Best_Month", s.BestMonth},
		{"Best_Month_Return_%", pct(s.BestMonthPct)},
		{"Worst_Month", s.WorstMonth},
		{"Worst_Month_Return_%", pct(s.WorstMonthPct)},
	}
	return render(rows)
}

// CandidatesCSV renders a single screen's ranked candidates.
func CandidatesCSV(res *screener.Result) ([]byte, error) {
	rows := [][]string{{"Rank", "Ticker", "Price", "MA", "RSI", "MA_Signal", "RSI_Signal", "Score"}}
	for _, c := range res.Candidates {
		rows = append(rows, []string{
			strconv.Itoa(c.Rank),
			c.Ticker,
			price(c.Price),
			price(c.MA),
			price(c.RSI),
			strconv.FormatFloat(c.MASignal, 'f', 1, 64),
			strconv.FormatFloat(c.RSISignal, 'f', 1, 64),
			price(c.Score),
		})
	}
	return render(rows)
}
