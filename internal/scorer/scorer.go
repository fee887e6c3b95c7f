// Package scorer combines trend (price vs moving average) and momentum
// (RSI) into a single weighted score in [-1, +1].
package scorer

import (
	"fmt"
	"math"

	"github.com/RiteshGmoger/Stock-Screener/internal/core"
	"github.com/RiteshGmoger/Stock-Screener/internal/indicator"
)

// Config holds scoring weights and thresholds. Weights must be positive
// and sum to 1.
type Config struct {
	MAWeight  float64
	RSIWeight float64

	// DeadbandPct is the percent distance from the MA inside which the
	// trend signal is neutral.
	DeadbandPct float64

	// RSIUpper/RSILower bound the neutral momentum zone.
	RSIUpper float64
	RSILower float64
}

// DefaultConfig returns the standard 0.4/0.6 weighting with a ±1%
// deadband and 60/40 RSI thresholds.
func DefaultConfig() Config {
	return Config{
		MAWeight:    0.4,
		RSIWeight:   0.6,
		DeadbandPct: 1.0,
		RSIUpper:    60,
		RSILower:    40,
	}
}

// Signals is the scored breakdown for one snapshot.
type Signals struct {
	MASignal  float64 // -1, 0 or +1
	RSISignal float64 // -0.5, 0 or +1
	Score     float64 // weighted combination, rounded to 2 decimals
}

// Scorer maps indicator snapshots to signals. It is stateless after
// construction, so one instance can serve concurrent screens.
type Scorer struct {
	cfg Config
}

// New validates the config and creates a Scorer.
func New(cfg Config) (*Scorer, error) {
	if cfg.MAWeight <= 0 || cfg.RSIWeight <= 0 {
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("weights must be positive, got ma=%.3f rsi=%.3f", cfg.MAWeight, cfg.RSIWeight))
	}
	if sum := cfg.MAWeight + cfg.RSIWeight; math.Abs(sum-1.0) > 0.001 {
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("weights must sum to 1.0, got %.3f", sum))
	}
	if cfg.DeadbandPct < 0 {
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("deadband cannot be negative, got %.2f", cfg.DeadbandPct))
	}
	if cfg.RSILower < 0 || cfg.RSIUpper > 100 || cfg.RSILower >= cfg.RSIUpper {
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("rsi thresholds must satisfy 0 <= lower < upper <= 100, got %.1f/%.1f",
				cfg.RSILower, cfg.RSIUpper))
	}
	return &Scorer{cfg: cfg}, nil
}

// MASignal is +1 when price is clearly above the MA (uptrend), -1 when
// clearly below, 0 inside the deadband.
func (s *Scorer) MASignal(price, ma float64) float64 {
	if ma == 0 {
		return 0
	}
	diffPct := (price - ma) / ma * 100
	switch {
	case diffPct > s.cfg.DeadbandPct:
		return 1
	case diffPct < -s.cfg.DeadbandPct:
		return -1
	default:
		return 0
	}
}

// RSISignal is +1 above the upper threshold (buyers pushing now), -0.5
// below the lower threshold (momentum already spent), 0 between.
func (s *Scorer) RSISignal(rsi float64) float64 {
	rsi = math.Max(0, math.Min(100, rsi))
	switch {
	case rsi > s.cfg.RSIUpper:
		return 1.0
	case rsi < s.cfg.RSILower:
		return -0.5
	default:
		return 0.0
	}
}

// Score combines the snapshot's signals into the weighted score.
func (s *Scorer) Score(snap indicator.Snapshot) Signals {
	maSig := s.MASignal(snap.LatestPrice, snap.MA)
	rsiSig := s.RSISignal(snap.RSI)
	return Signals{
		MASignal:  maSig,
		RSISignal: rsiSig,
		Score:     round2(s.cfg.MAWeight*maSig + s.cfg.RSIWeight*rsiSig),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
