package collector

import (
	"context"
	"time"

	"github.com/RiteshGmoger/Stock-Screener/internal/core"
)

// Source defines the contract for daily price history providers.
//
// FetchDaily returns the closes for ticker within [start, end], ascending
// by date. Implementations must honor the end bound: callers rely on it
// to keep future data out of screening decisions. Network or ticker
// failures surface as core.ErrDataUnavailable.
type Source interface {
	Name() string
	FetchDaily(ctx context.Context, ticker string, start, end time.Time) (core.PriceSeries, error)
}
