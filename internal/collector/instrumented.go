package collector

import (
	"context"
	"time"

	"github.com/RiteshGmoger/Stock-Screener/internal/core"
	"github.com/RiteshGmoger/Stock-Screener/internal/metrics"
)

// instrumented wraps a Source and records fetch counts and latency.
type instrumented struct {
	next Source
	m    *metrics.Registry
}

// Instrument decorates a source with fetch metrics.
func Instrument(s Source, m *metrics.Registry) Source {
	if m == nil {
		return s
	}
	return &instrumented{next: s, m: m}
}

func (i *instrumented) Name() string {
	return i.next.Name()
}

func (i *instrumented) FetchDaily(ctx context.Context, ticker string, start, end time.Time) (core.PriceSeries, error) {
	t0 := time.Now()
	series, err := i.next.FetchDaily(ctx, ticker, start, end)

	status := "ok"
	if err != nil {
		status = "error"
	}
	i.m.RecordFetch(i.next.Name(), status, time.Since(t0).Seconds())

	return series, err
}
