package indicator

import (
	"fmt"
	"time"

	"github.com/RiteshGmoger/Stock-Screener/internal/core"
)

// Snapshot holds the indicator values for one ticker at an as-of date,
// derived only from closes dated at or before that date.
type Snapshot struct {
	Ticker      string
	MA          float64
	RSI         float64
	LatestPrice float64
	LatestDate  time.Time
}

// MovingAverage returns the arithmetic mean of the trailing window
// closes, i.e. the last window values of the slice.
func MovingAverage(closes []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, fmt.Errorf("ma window must be positive, got %d", window)
	}
	if len(closes) < window {
		return 0, core.WrapError(core.ErrInsufficientHistory,
			fmt.Errorf("%d closes, moving average needs %d", len(closes), window))
	}

	var sum float64
	for _, c := range closes[len(closes)-window:] {
		sum += c
	}
	return sum / float64(window), nil
}

// RSI computes the relative strength index over the trailing window
// using simple averages of gains and losses. It needs window+1 closes
// to form window deltas. When the window has no losses the value is 100
// if there were gains and 50 if prices never moved.
func RSI(closes []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, fmt.Errorf("rsi window must be positive, got %d", window)
	}
	if len(closes) < window+1 {
		return 0, core.WrapError(core.ErrInsufficientHistory,
			fmt.Errorf("%d closes, rsi needs %d", len(closes), window+1))
	}

	var gain, loss float64
	for i := len(closes) - window; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}

	avgGain := gain / float64(window)
	avgLoss := loss / float64(window)

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50, nil
		}
		return 100, nil
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), nil
}

// Compute derives the snapshot for a series at asOf. The series is
// truncated at asOf first, so the result is identical whether or not
// the input contains later points. Fails with INSUFFICIENT_HISTORY when
// the trailing observations don't cover the requested windows.
func Compute(series core.PriceSeries, asOf time.Time, maWindow, rsiWindow int) (Snapshot, error) {
	trimmed := series.TruncateAfter(asOf)
	closes := trimmed.Closes()

	ma, err := MovingAverage(closes, maWindow)
	if err != nil {
		return Snapshot{}, err
	}
	rsi, err := RSI(closes, rsiWindow)
	if err != nil {
		return Snapshot{}, err
	}

	last, _ := trimmed.Last()
	return Snapshot{
		Ticker:      series.Ticker,
		MA:          ma,
		RSI:         rsi,
		LatestPrice: last.Close,
		LatestDate:  last.Date,
	}, nil
}
