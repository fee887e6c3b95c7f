package indicator

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/RiteshGmoger/Stock-Screener/internal/core"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMovingAverage(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5, 6}

	got, err := MovingAverage(closes, 3)
	if err != nil {
		t.Fatalf("MovingAverage() error = %v", err)
	}
	// Trailing 3: (4+5+6)/3
	if !almostEqual(got, 5) {
		t.Errorf("MovingAverage = %v, want 5", got)
	}

	got, err = MovingAverage(closes, 6)
	if err != nil {
		t.Fatalf("MovingAverage() error = %v", err)
	}
	if !almostEqual(got, 3.5) {
		t.Errorf("MovingAverage = %v, want 3.5", got)
	}

	if _, err := MovingAverage(closes, 7); !errors.Is(err, core.ErrInsufficientHistory) {
		t.Errorf("short history: error = %v, want ErrInsufficientHistory", err)
	}
	if _, err := MovingAverage(closes, 0); err == nil {
		t.Error("zero window: expected error")
	}
}

func TestRSI(t *testing.T) {
	t.Run("all gains is 100", func(t *testing.T) {
		closes := []float64{100, 101, 102, 103, 104}
		got, err := RSI(closes, 4)
		if err != nil {
			t.Fatalf("RSI() error = %v", err)
		}
		if !almostEqual(got, 100) {
			t.Errorf("RSI = %v, want 100", got)
		}
	})

	t.Run("flat window is 50", func(t *testing.T) {
		closes := []float64{100, 100, 100, 100, 100}
		got, err := RSI(closes, 4)
		if err != nil {
			t.Fatalf("RSI() error = %v", err)
		}
		if !almostEqual(got, 50) {
			t.Errorf("RSI = %v, want 50", got)
		}
	})

	t.Run("all losses is 0", func(t *testing.T) {
		closes := []float64{104, 103, 102, 101, 100}
		got, err := RSI(closes, 4)
		if err != nil {
			t.Fatalf("RSI() error = %v", err)
		}
		if !almostEqual(got, 0) {
			t.Errorf("RSI = %v, want 0", got)
		}
	})

	t.Run("mixed window", func(t *testing.T) {
		// Deltas: +2, -1, +2, -1 over window 4
		// avgGain = 4/4 = 1, avgLoss = 2/4 = 0.5, RS = 2, RSI = 100-100/3
		closes := []float64{100, 102, 101, 103, 102}
		got, err := RSI(closes, 4)
		if err != nil {
			t.Fatalf("RSI() error = %v", err)
		}
		want := 100 - 100.0/3.0
		if !almostEqual(got, want) {
			t.Errorf("RSI = %v, want %v", got, want)
		}
	})

	t.Run("bounded", func(t *testing.T) {
		closes := []float64{50, 80, 20, 90, 10, 95, 5, 99}
		got, err := RSI(closes, 7)
		if err != nil {
			t.Fatalf("RSI() error = %v", err)
		}
		if got < 0 || got > 100 {
			t.Errorf("RSI = %v, out of [0,100]", got)
		}
	})

	t.Run("uses only trailing window", func(t *testing.T) {
		// Leading garbage outside the window must not matter
		a := []float64{1, 500, 3, 100, 102, 101, 103, 102}
		b := []float64{9, 9, 9, 100, 102, 101, 103, 102}
		ra, _ := RSI(a, 4)
		rb, _ := RSI(b, 4)
		if !almostEqual(ra, rb) {
			t.Errorf("RSI differs on identical trailing windows: %v vs %v", ra, rb)
		}
	})

	if _, err := RSI([]float64{1, 2, 3}, 3); !errors.Is(err, core.ErrInsufficientHistory) {
		t.Errorf("short history: error = %v, want ErrInsufficientHistory", err)
	}
}

func TestCompute(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := core.PriceSeries{Ticker: "INFY.NS"}
	for i := 0; i < 20; i++ {
		series.Points = append(series.Points, core.PricePoint{
			Date:  base.AddDate(0, 0, i),
			Close: 100 + float64(i),
		})
	}
	asOf := base.AddDate(0, 0, 19)

	snap, err := Compute(series, asOf, 10, 5)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if snap.Ticker != "INFY.NS" {
		t.Errorf("Ticker = %s, want INFY.NS", snap.Ticker)
	}
	if snap.LatestPrice != 119 {
		t.Errorf("LatestPrice = %v, want 119", snap.LatestPrice)
	}
	// Trailing 10 of 110..119
	if !almostEqual(snap.MA, 114.5) {
		t.Errorf("MA = %v, want 114.5", snap.MA)
	}
	if !almostEqual(snap.RSI, 100) {
		t.Errorf("RSI = %v, want 100 (monotone gains)", snap.RSI)
	}
}

func TestCompute_TruncatesAtAsOf(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := core.PriceSeries{Ticker: "INFY.NS"}
	for i := 0; i < 30; i++ {
		series.Points = append(series.Points, core.PricePoint{
			Date:  base.AddDate(0, 0, i),
			Close: 100 + float64(i%7),
		})
	}

	asOf := base.AddDate(0, 0, 14)
	full, err := Compute(series, asOf, 10, 5)
	if err != nil {
		t.Fatalf("Compute(full) error = %v", err)
	}

	truncated := series.TruncateAfter(asOf)
	trimmed, err := Compute(truncated, asOf, 10, 5)
	if err != nil {
		t.Fatalf("Compute(truncated) error = %v", err)
	}

	if full != trimmed {
		t.Errorf("snapshot differs with future data present:\n full:    %+v\n trimmed: %+v", full, trimmed)
	}
	if full.LatestDate.After(asOf) {
		t.Errorf("LatestDate %v is past asOf %v", full.LatestDate, asOf)
	}
}

func TestCompute_InsufficientHistory(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := core.PriceSeries{Ticker: "INFY.NS", Points: []core.PricePoint{
		{Date: base, Close: 100},
		{Date: base.AddDate(0, 0, 1), Close: 101},
	}}

	_, err := Compute(series, base.AddDate(0, 0, 5), 10, 5)
	if !errors.Is(err, core.ErrInsufficientHistory) {
		t.Errorf("error = %v, want ErrInsufficientHistory", err)
	}

	// Enough total history but not at the as-of cutoff
	long := core.PriceSeries{Ticker: "INFY.NS"}
	for i := 0; i < 30; i++ {
		long.Points = append(long.Points, core.PricePoint{Date: base.AddDate(0, 0, i), Close: 100})
	}
	_, err = Compute(long, base.AddDate(0, 0, 3), 10, 5)
	if !errors.Is(err, core.ErrInsufficientHistory) {
		t.Errorf("early as-of: error = %v, want ErrInsufficientHistory", err)
	}
}
