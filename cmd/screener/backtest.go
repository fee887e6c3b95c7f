package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/RiteshGmoger/Stock-Screener/internal/backtest"
	"github.com/RiteshGmoger/Stock-Screener/internal/logger"
	"github.com/RiteshGmoger/Stock-Screener/internal/metrics"
	"github.com/RiteshGmoger/Stock-Screener/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	backtestMonths  int
	backtestStart   string
	backtestTop     int
	backtestHolding int
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the walk-forward backtest",
	Long: `Backtest replays the screening strategy month by month: at each
month's screen date it ranks the universe using only data available
then, holds the top picks for the holding period and compares the
equal-weighted portfolio return against the benchmark index.`,
	RunE: runBacktestCmd,
}

func init() {
	backtestCmd.Flags().IntVar(&backtestMonths, "months", 0, "override the number of months to walk")
	backtestCmd.Flags().StringVar(&backtestStart, "start", "", "override the first month, YYYY-MM")
	backtestCmd.Flags().IntVar(&backtestTop, "top", 0, "override the number of picks per month")
	backtestCmd.Flags().IntVar(&backtestHolding, "holding-days", 0, "override the holding period in days")

	rootCmd.AddCommand(backtestCmd)
}

func runBacktestCmd(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if backtestMonths > 0 {
		cfg.Backtest.Months = backtestMonths
	}
	if backtestTop > 0 {
		cfg.Screen.TopN = backtestTop
	}
	if backtestHolding > 0 {
		cfg.Backtest.HoldingDays = backtestHolding
	}
	if backtestStart != "" {
		start, err := time.Parse("2006-01", backtestStart)
		if err != nil {
			return fmt.Errorf("invalid start month (expected YYYY-MM): %w", err)
		}
		cfg.Backtest.StartYear = start.Year()
		cfg.Backtest.StartMonth = int(start.Month())
	}

	var m *metrics.Registry
	if cfg.Metrics.Enabled {
		m = metrics.NewRegistry()
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, m.Handler())
		go func() {
			log.Info("metrics listener started", zap.String("addr", cfg.Metrics.Addr))
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Error("metrics listener failed", zap.Error(err))
			}
		}()
	}

	src, err := buildSource(cfg, m)
	if err != nil {
		return err
	}

	eng, err := backtest.New(src, backtest.Config{
		Universe:     cfg.Universe,
		Benchmark:    cfg.Benchmark,
		Months:       cfg.Backtest.Months,
		StartYear:    cfg.Backtest.StartYear,
		StartMonth:   cfg.Backtest.StartMonth,
		LookbackDays: cfg.Screen.LookbackDays,
		TopN:         cfg.Screen.TopN,
		HoldingDays:  cfg.Backtest.HoldingDays,
		MAWindow:     cfg.Screen.MAWindow,
		RSIWindow:    cfg.Screen.RSIWindow,
		MAWeight:     cfg.Screen.MAWeight,
		RSIWeight:    cfg.Screen.RSIWeight,
		FetchTimeout: cfg.Screen.FetchTimeout,
	}, log, m)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := eng.Run(ctx)
	if err != nil {
		return fmt.Errorf("backtest run %s: %w", eng.RunID(), err)
	}

	printSummary(res)

	store, err := buildArchive(cfg)
	if err != nil {
		return err
	}
	exporter := report.NewExporter(cfg.Output.Dir, store, log)
	written, err := exporter.ExportBacktest(ctx, res)
	if err != nil {
		return err
	}
	fmt.Println("\nArtifacts:")
	for _, p := range written {
		fmt.Printf("  %s\n", p)
	}

	return nil
}

func printSummary(res *backtest.Result) {
	s := res.Stats

	fmt.Printf("=== Backtest %s ===\n\n", res.RunID)
	for _, m := range res.Months {
		bench := "n/a"
		if !m.BenchmarkMissing() {
			bench = fmt.Sprintf("%+.2f%%", m.BenchmarkReturnPct)
		}
		fmt.Printf("%-9s portfolio %+.2f%%  benchmark %-8s picks %d\n",
			m.Month.Label(), m.PortfolioReturnPct, bench, m.NumStocks)
	}

	fmt.Printf("\nMonths:              %d\n", s.Months)
	fmt.Printf("Total return:        %+.2f%%\n", s.TotalReturnPct)
	fmt.Printf("Avg monthly return:  %+.2f%%\n", s.AvgMonthlyPct)
	fmt.Printf("Volatility:          %.2f%%\n", s.VolatilityPct)
	fmt.Printf("Sharpe (monthly):    %.2f\n", s.Sharpe)
	fmt.Printf("Max drawdown:        %.2f%%\n", s.MaxDrawdownPct)
	fmt.Printf("Win rate:            %.0f%%\n", s.WinRate*100)
	if s.MonthsWithBenchmark > 0 {
		fmt.Printf("Benchmark total:     %+.2f%%\n", s.BenchmarkTotalPct)
		fmt.Printf("Avg outperformance:  %+.2f%%\n", s.AvgOutperformPct)
		fmt.Printf("Beat rate:           %.0f%% of %d measured months\n",
			s.BeatRate*100, s.MonthsWithBenchmark)
	}
	if s.BestMonth != "" {
		fmt.Printf("Best month:          %s (%+.2f%%)\n", s.BestMonth, s.BestMonthPct)
		fmt.Printf("Worst month:         %s (%+.2f%%)\n", s.WorstMonth, s.WorstMonthPct)
	}
	if len(res.Drops) > 0 {
		fmt.Printf("Dropped tickers:     %d (see backtest_exclusions.csv)\n", len(res.Drops))
	}
}
