package core

import (
	"fmt"
	"time"
)

// PricePoint is a single daily closing price for a ticker.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries holds the ordered daily closes for one ticker.
// Points are ascending by date with no duplicate dates; Validate
// enforces this at the fetch boundary.
type PriceSeries struct {
	Ticker string
	Points []PricePoint
}

// Len returns the number of points in the series.
func (s PriceSeries) Len() int {
	return len(s.Points)
}

// Validate checks ordering and duplicate dates.
func (s PriceSeries) Validate() error {
	for i := 1; i < len(s.Points); i++ {
		prev, cur := s.Points[i-1].Date, s.Points[i].Date
		if !cur.After(prev) {
			return WrapError(ErrDataUnavailable,
				fmt.Errorf("%s: points out of order at index %d (%s then %s)",
					s.Ticker, i, prev.Format("2006-01-02"), cur.Format("2006-01-02")))
		}
	}
	return nil
}

// TruncateAfter returns a copy of the series containing only points
// dated at or before cutoff. Everything downstream of a screen operates
// on a truncated series, which is what keeps look-ahead out structurally.
func (s PriceSeries) TruncateAfter(cutoff time.Time) PriceSeries {
	n := len(s.Points)
	for n > 0 && s.Points[n-1].Date.After(cutoff) {
		n--
	}
	return PriceSeries{Ticker: s.Ticker, Points: s.Points[:n]}
}

// Closes returns the closing prices in date order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// First returns the earliest point, if any.
func (s PriceSeries) First() (PricePoint, bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[0], true
}

// Last returns the most recent point, if any.
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}
