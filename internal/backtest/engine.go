// Package backtest walks forward through historical months, screening
// with only the data available at each month's as-of date and measuring
// realized returns afterwards.
package backtest

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/RiteshGmoger/Stock-Screener/internal/collector"
	"github.com/RiteshGmoger/Stock-Screener/internal/core"
	"github.com/RiteshGmoger/Stock-Screener/internal/metrics"
	"github.com/RiteshGmoger/Stock-Screener/internal/scorer"
	"github.com/RiteshGmoger/Stock-Screener/internal/screener"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds every knob of a walk-forward run. All fields are
// required; Validate rejects anything a run cannot start from.
type Config struct {
	Universe  []string
	Benchmark string

	Months     int
	StartYear  int
	StartMonth int

	LookbackDays int
	TopN         int
	HoldingDays  int

	MAWindow  int
	RSIWindow int
	MAWeight  float64
	RSIWeight float64

	FetchTimeout time.Duration
}

// Validate checks the configuration before any month executes.
func (c Config) Validate() error {
	if len(c.Universe) == 0 {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("universe is empty"))
	}
	if c.Benchmark == "" {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("benchmark ticker is required"))
	}
	if c.Months <= 0 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("months must be positive, got %d", c.Months))
	}
	if c.StartMonth < 1 || c.StartMonth > 12 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("start month must be 1-12, got %d", c.StartMonth))
	}
	if c.HoldingDays <= 0 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("holding days must be positive, got %d", c.HoldingDays))
	}
	// Lookback, windows, top-n and weights are validated by the
	// screener and scorer constructors.
	return nil
}

// Run state. The walk is strictly sequential: SCREENING must not see
// anything MEASURING fetches.
type state int

const (
	stateInitialized state = iota
	stateScreening
	stateMeasuring
	stateFinalized
)

// Engine executes walk-forward runs. One engine instance runs once.
type Engine struct {
	cfg      Config
	source   collector.Source
	screener *screener.Screener
	logger   *zap.Logger
	metrics  *metrics.Registry

	runID string
	state state
}

// New validates the configuration and builds an engine.
func New(source collector.Source, cfg Config, logger *zap.Logger, m *metrics.Registry) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sc, err := scorer.New(scorer.Config{
		MAWeight:    cfg.MAWeight,
		RSIWeight:   cfg.RSIWeight,
		DeadbandPct: scorer.DefaultConfig().DeadbandPct,
		RSIUpper:    scorer.DefaultConfig().RSIUpper,
		RSILower:    scorer.DefaultConfig().RSILower,
	})
	if err != nil {
		return nil, err
	}

	scr, err := screener.New(source, sc, screener.Config{
		LookbackDays: cfg.LookbackDays,
		TopN:         cfg.TopN,
		MAWindow:     cfg.MAWindow,
		RSIWindow:    cfg.RSIWindow,
		FetchTimeout: cfg.FetchTimeout,
	}, logger, m)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:      cfg,
		source:   source,
		screener: scr,
		logger:   logger,
		metrics:  m,
		runID:    uuid.NewString(),
		state:    stateInitialized,
	}, nil
}

// RunID identifies this run in logs and archived artifacts.
func (e *Engine) RunID() string {
	return e.runID
}

// Run walks the configured months in order. Each month yields exactly
// one MonthlyResult, even when screening found nothing or the benchmark
// was unreachable. Cancellation between months returns the months
// finalized so far along with ctx.Err(); finished records stay valid.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if e.state != stateInitialized {
		return nil, fmt.Errorf("engine already ran (run %s)", e.runID)
	}

	log := e.logger.With(zap.String("run_id", e.runID))
	started := time.Now()
	startMonth := core.Month{Year: e.cfg.StartYear, Month: time.Month(e.cfg.StartMonth)}

	res := &Result{RunID: e.runID}

	log.Info("backtest starting",
		zap.Int("months", e.cfg.Months),
		zap.Int("universe", len(e.cfg.Universe)),
		zap.Int("top_n", e.cfg.TopN),
		zap.Int("holding_days", e.cfg.HoldingDays),
		zap.String("benchmark", e.cfg.Benchmark),
	)

	for i := 0; i < e.cfg.Months; i++ {
		if err := ctx.Err(); err != nil {
			e.state = stateFinalized
			e.metrics.RecordBacktest("cancelled", time.Since(started).Seconds())
			return res, err
		}

		month := startMonth.AddMonths(i)
		screenDate := month.ScreenDate()

		e.state = stateScreening
		sres, err := e.screener.Screen(ctx, e.cfg.Universe, screenDate)
		if err != nil {
			e.state = stateFinalized
			e.metrics.RecordBacktest("error", time.Since(started).Seconds())
			return res, err
		}
		for _, excl := range sres.Exclusions {
			res.Drops = append(res.Drops, Drop{
				Month: month, Stage: "screen", Ticker: excl.Ticker, Reason: excl.Reason,
			})
		}

		e.state = stateMeasuring
		picks, drops := e.measure(ctx, month, sres.Candidates)
		res.Picks = append(res.Picks, picks...)
		res.Drops = append(res.Drops, drops...)

		benchReturn, benchDrop := e.benchmarkReturn(ctx, month)
		if benchDrop != nil {
			res.Drops = append(res.Drops, *benchDrop)
		}

		portfolio := 0.0
		if len(picks) > 0 {
			var sum float64
			for _, p := range picks {
				sum += p.ReturnPct
			}
			portfolio = sum / float64(len(picks))
		}

		monthly := MonthlyResult{
			Month:              month,
			PortfolioReturnPct: portfolio,
			BenchmarkReturnPct: benchReturn,
			OutperformancePct:  portfolio - benchReturn, // NaN propagates
			NumStocks:          len(picks),
		}
		res.Months = append(res.Months, monthly)
		e.metrics.RecordMonth()

		log.Info("month finalized",
			zap.String("month", month.Label()),
			zap.Float64("portfolio_pct", monthly.PortfolioReturnPct),
			zap.Float64("benchmark_pct", monthly.BenchmarkReturnPct),
			zap.Int("num_stocks", monthly.NumStocks),
		)
	}

	e.state = stateFinalized
	res.Stats = Summarize(res.Months)
	e.metrics.RecordBacktest("ok", time.Since(started).Seconds())

	log.Info("backtest finished",
		zap.Int("months", len(res.Months)),
		zap.Int("picks", len(res.Picks)),
		zap.Int("drops", len(res.Drops)),
		zap.Duration("took", time.Since(started)),
	)
	return res, nil
}

// measure fetches the forward window for each candidate and converts it
// into a Pick. Candidates whose window cannot be measured are dropped
// from the month's aggregate, never zero-filled. Picks come back sorted
// by ticker for stable output.
func (e *Engine) measure(ctx context.Context, month core.Month, candidates []screener.Candidate) ([]Pick, []Drop) {
	var picks []Pick
	var drops []Drop

	for _, cand := range candidates {
		entry, exit, err := e.holdingWindow(ctx, cand.Ticker, month)
		if err != nil {
			e.logger.Warn("pick unmeasurable",
				zap.String("run_id", e.runID),
				zap.String("month", month.Label()),
				zap.String("ticker", cand.Ticker),
				zap.Error(err),
			)
			e.metrics.RecordExclusion("measure")
			drops = append(drops, Drop{
				Month: month, Stage: "measure", Ticker: cand.Ticker, Reason: err.Error(),
			})
			continue
		}

		picks = append(picks, Pick{
			Month:      month,
			Ticker:     cand.Ticker,
			Score:      cand.Score,
			EntryPrice: entry,
			ExitPrice:  exit,
			ReturnPct:  (exit - entry) / entry * 100,
		})
	}

	sort.Slice(picks, func(a, b int) bool { return picks[a].Ticker < picks[b].Ticker })
	return picks, drops
}

// benchmarkReturn measures the index over the same holding window. A
// missing benchmark degrades the month to NaN rather than failing the
// run.
func (e *Engine) benchmarkReturn(ctx context.Context, month core.Month) (float64, *Drop) {
	entry, exit, err := e.holdingWindow(ctx, e.cfg.Benchmark, month)
	if err != nil {
		e.metrics.RecordExclusion("benchmark")
		return math.NaN(), &Drop{
			Month: month, Stage: "benchmark", Ticker: e.cfg.Benchmark, Reason: err.Error(),
		}
	}
	return (exit - entry) / entry * 100, nil
}

// holdingWindow returns the entry and exit prices for one ticker:
// the first close at or after the screen date and the last close within
// holding_days of it. This fetch is the only place forward data is
// touched, and it happens strictly after the month's screening.
func (e *Engine) holdingWindow(ctx context.Context, ticker string, month core.Month) (entry, exit float64, err error) {
	screenDate := month.ScreenDate()
	end := screenDate.AddDate(0, 0, e.cfg.HoldingDays)

	fctx := ctx
	if e.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, e.cfg.FetchTimeout)
		defer cancel()
	}

	series, err := e.source.FetchDaily(fctx, ticker, screenDate, end)
	if err != nil {
		return 0, 0, err
	}
	if series.Len() < 2 {
		return 0, 0, core.WrapError(core.ErrInsufficientHistory,
			fmt.Errorf("%s: %d trading days in holding window, need 2", ticker, series.Len()))
	}

	first, _ := series.First()
	last, _ := series.Last()
	if first.Close == 0 {
		return 0, 0, core.WrapError(core.ErrDataUnavailable,
			fmt.Errorf("%s: zero entry price", ticker))
	}
	return first.Close, last.Close, nil
}
