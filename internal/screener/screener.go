// Package screener ranks a universe of tickers at an as-of date using
// only price history available at that date.
package screener

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/RiteshGmoger/Stock-Screener/internal/collector"
	"github.com/RiteshGmoger/Stock-Screener/internal/core"
	"github.com/RiteshGmoger/Stock-Screener/internal/indicator"
	"github.com/RiteshGmoger/Stock-Screener/internal/metrics"
	"github.com/RiteshGmoger/Stock-Screener/internal/scorer"
	"go.uber.org/zap"
)

// Config holds screening parameters.
type Config struct {
	LookbackDays int
	TopN         int
	MAWindow     int
	RSIWindow    int

	// FetchTimeout bounds each per-ticker fetch so one unreachable
	// ticker cannot stall a screen. Zero disables the deadline.
	FetchTimeout time.Duration
}

// Candidate is one ranked ticker in a screen result.
type Candidate struct {
	Ticker    string
	Price     float64
	MA        float64
	RSI       float64
	MASignal  float64
	RSISignal float64
	Score     float64
	Rank      int
}

// Exclusion records a ticker dropped from ranking and why. Exclusions
// are data, not errors: a failed fetch never aborts the screen.
type Exclusion struct {
	Ticker string
	Reason string
}

// Result is the outcome of one screening pass.
type Result struct {
	AsOf       time.Time
	Candidates []Candidate
	Exclusions []Exclusion
}

// Screener fetches, scores and ranks tickers as of a date.
type Screener struct {
	source  collector.Source
	scorer  *scorer.Scorer
	cfg     Config
	logger  *zap.Logger
	metrics *metrics.Registry
}

// New creates a Screener.
func New(source collector.Source, sc *scorer.Scorer, cfg Config, logger *zap.Logger, m *metrics.Registry) (*Screener, error) {
	if cfg.LookbackDays <= 0 {
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("lookback_days must be positive, got %d", cfg.LookbackDays))
	}
	if cfg.TopN <= 0 {
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("top_n must be positive, got %d", cfg.TopN))
	}
	if cfg.MAWindow <= 0 || cfg.RSIWindow <= 0 {
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("indicator windows must be positive, got ma=%d rsi=%d", cfg.MAWindow, cfg.RSIWindow))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Screener{
		source:  source,
		scorer:  sc,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}, nil
}

// Screen evaluates the universe at asOf and returns at most TopN
// candidates, highest score first, ties broken by ticker ascending.
// Tickers that fail to fetch or lack history are excluded with a
// recorded reason. No price dated after asOf is ever consumed: the
// fetch window ends at asOf and the series is truncated again before
// indicator computation.
func (s *Screener) Screen(ctx context.Context, universe []string, asOf time.Time) (*Result, error) {
	if len(universe) == 0 {
		return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("empty universe"))
	}

	started := time.Now()
	start := asOf.AddDate(0, 0, -s.cfg.LookbackDays)

	// Per-ticker work is independent: fan out, collect into a slot per
	// ticker so the merge below stays deterministic.
	type outcome struct {
		candidate *Candidate
		exclusion *Exclusion
	}
	outcomes := make([]outcome, len(universe))

	var wg sync.WaitGroup
	for i, ticker := range universe {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			cand, excl := s.evaluate(ctx, ticker, start, asOf)
			outcomes[i] = outcome{candidate: cand, exclusion: excl}
		}(i, ticker)
	}
	wg.Wait()

	res := &Result{AsOf: asOf}
	for _, o := range outcomes {
		if o.candidate != nil {
			res.Candidates = append(res.Candidates, *o.candidate)
		}
		if o.exclusion != nil {
			res.Exclusions = append(res.Exclusions, *o.exclusion)
			s.metrics.RecordExclusion("screen")
		}
	}

	// Highest score first; ticker ascending keeps equal scores stable
	sort.Slice(res.Candidates, func(a, b int) bool {
		if res.Candidates[a].Score != res.Candidates[b].Score {
			return res.Candidates[a].Score > res.Candidates[b].Score
		}
		return res.Candidates[a].Ticker < res.Candidates[b].Ticker
	})
	if len(res.Candidates) > s.cfg.TopN {
		res.Candidates = res.Candidates[:s.cfg.TopN]
	}
	for i := range res.Candidates {
		res.Candidates[i].Rank = i + 1
	}

	sort.Slice(res.Exclusions, func(a, b int) bool {
		return res.Exclusions[a].Ticker < res.Exclusions[b].Ticker
	})

	s.metrics.RecordScreen(time.Since(started).Seconds())
	s.logger.Debug("screen complete",
		zap.Time("as_of", asOf),
		zap.Int("candidates", len(res.Candidates)),
		zap.Int("excluded", len(res.Exclusions)),
	)
	return res, nil
}

// evaluate fetches and scores one ticker. Failures come back as an
// exclusion, never an error.
func (s *Screener) evaluate(ctx context.Context, ticker string, start, asOf time.Time) (*Candidate, *Exclusion) {
	fctx := ctx
	if s.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()
	}

	series, err := s.source.FetchDaily(fctx, ticker, start, asOf)
	if err != nil {
		s.logger.Debug("fetch failed", zap.String("ticker", ticker), zap.Error(err))
		return nil, &Exclusion{Ticker: ticker, Reason: err.Error()}
	}

	// The fetch contract bounds end at asOf; truncate again so a
	// misbehaving source still cannot leak future prices into scoring.
	series = series.TruncateAfter(asOf)

	snap, err := indicator.Compute(series, asOf, s.cfg.MAWindow, s.cfg.RSIWindow)
	if err != nil {
		s.logger.Debug("indicators unavailable", zap.String("ticker", ticker), zap.Error(err))
		return nil, &Exclusion{Ticker: ticker, Reason: err.Error()}
	}

	sig := s.scorer.Score(snap)
	return &Candidate{
		Ticker:    ticker,
		Price:     snap.LatestPrice,
		MA:        snap.MA,
		RSI:       snap.RSI,
		MASignal:  sig.MASignal,
		RSISignal: sig.RSISignal,
		Score:     sig.Score,
	}, nil
}
