package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RiteshGmoger/Stock-Screener/internal/core"
	"github.com/RiteshGmoger/Stock-Screener/internal/metrics"
)

type fakeSource struct {
	name    string
	fetches int
	err     error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchDaily(ctx context.Context, ticker string, start, end time.Time) (core.PriceSeries, error) {
	f.fetches++
	if f.err != nil {
		return core.PriceSeries{}, f.err
	}
	return core.PriceSeries{Ticker: ticker}, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeSource{name: "yahoo"})
	r.Register(&fakeSource{name: "csvdir"})

	s, err := r.Get("yahoo")
	if err != nil {
		t.Fatalf("Get(yahoo) error = %v", err)
	}
	if s.Name() != "yahoo" {
		t.Errorf("Name = %s, want yahoo", s.Name())
	}

	_, err = r.Get("bloomberg")
	if err == nil {
		t.Fatal("expected error for unknown source")
	}
	if !errors.Is(err, core.ErrConfigInvalid) {
		t.Errorf("error = %v, want ErrConfigInvalid", err)
	}
}

func TestInstrument(t *testing.T) {
	fake := &fakeSource{name: "fake"}
	m := metrics.NewRegistry()
	src := Instrument(fake, m)

	if src.Name() != "fake" {
		t.Errorf("Name = %s, want fake", src.Name())
	}

	now := time.Now()
	if _, err := src.FetchDaily(context.Background(), "TCS.NS", now.AddDate(0, 0, -5), now); err != nil {
		t.Fatalf("FetchDaily() error = %v", err)
	}
	if fake.fetches != 1 {
		t.Errorf("fetches = %d, want 1", fake.fetches)
	}

	fake.err = core.ErrDataUnavailable
	if _, err := src.FetchDaily(context.Background(), "TCS.NS", now.AddDate(0, 0, -5), now); err == nil {
		t.Error("expected error passthrough")
	}

	// Nil registry is a no-op wrapper
	if got := Instrument(fake, nil); got != Source(fake) {
		t.Error("Instrument(s, nil) should return s unchanged")
	}
}
