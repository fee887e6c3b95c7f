package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RiteshGmoger/Stock-Screener/internal/collector"
	"github.com/RiteshGmoger/Stock-Screener/internal/core"
)

func TestYahoo_ImplementsSource(t *testing.T) {
	var _ collector.Source = (*Yahoo)(nil)
}

func TestYahoo_Name(t *testing.T) {
	y := New()
	if y.Name() != "yahoo" {
		t.Errorf("expected 'yahoo', got '%s'", y.Name())
	}
}

func TestValidateSymbol(t *testing.T) {
	valid := []string{"TCS.NS", "RELIANCE.NS", "BAJAJ-AUTO.NS", "M&M.NS", "^NSEI", "AAPL", "0700.HK"}
	for _, s := range valid {
		if err := validateSymbol(s); err != nil {
			t.Errorf("validateSymbol(%s) = %v, want nil", s, err)
		}
	}

	invalid := []string{"", "../etc/passwd", "TCS NS", "averyveryverylongsymbolname.NS"}
	for _, s := range invalid {
		if err := validateSymbol(s); err == nil {
			t.Errorf("validateSymbol(%q) = nil, want error", s)
		}
	}
}

func chartBody(dates []time.Time, closes []float64) string {
	ts := ""
	cl := ""
	for i := range dates {
		if i > 0 {
			ts += ","
			cl += ","
		}
		ts += fmt.Sprintf("%d", dates[i].Unix())
		cl += fmt.Sprintf("%g", closes[i])
	}
	return fmt.Sprintf(`{"chart":{"result":[{"timestamp":[%s],"indicators":{"quote":[{"close":[%s]}]}}],"error":null}}`, ts, cl)
}

func TestYahoo_FetchDaily(t *testing.T) {
	d1 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody([]time.Time{d1, d2, d3}, []float64{100, 101.5, 99}))
	}))
	defer srv.Close()

	y := New(WithBaseURL(srv.URL))
	series, err := y.FetchDaily(context.Background(), "TCS.NS", d1, d3)
	if err != nil {
		t.Fatalf("FetchDaily() error = %v", err)
	}

	if series.Ticker != "TCS.NS" {
		t.Errorf("Ticker = %s, want TCS.NS", series.Ticker)
	}
	if series.Len() != 3 {
		t.Fatalf("Len = %d, want 3", series.Len())
	}
	if series.Points[1].Close != 101.5 {
		t.Errorf("second close = %v, want 101.5", series.Points[1].Close)
	}
	if err := series.Validate(); err != nil {
		t.Errorf("fetched series failed validation: %v", err)
	}
}

func TestYahoo_FetchDaily_BoundsWindow(t *testing.T) {
	// The server returns a bar past the requested end; the source must
	// drop it rather than leak it to the caller.
	d1 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	future := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody([]time.Time{d1, d2, future}, []float64{100, 101, 200}))
	}))
	defer srv.Close()

	y := New(WithBaseURL(srv.URL))
	series, err := y.FetchDaily(context.Background(), "TCS.NS", d1, d2)
	if err != nil {
		t.Fatalf("FetchDaily() error = %v", err)
	}
	if series.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (future bar must be dropped)", series.Len())
	}
	last, _ := series.Last()
	if last.Date.After(d2) {
		t.Errorf("last date %v is past the requested end %v", last.Date, d2)
	}
}

func TestYahoo_FetchDaily_Errors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
		}))
		defer srv.Close()

		y := New(WithBaseURL(srv.URL))
		_, err := y.FetchDaily(context.Background(), "NOPE.NS", time.Now().AddDate(0, 0, -10), time.Now())
		if !errors.Is(err, core.ErrDataUnavailable) {
			t.Errorf("error = %v, want ErrDataUnavailable", err)
		}
	})

	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		y := New(WithBaseURL(srv.URL))
		_, err := y.FetchDaily(context.Background(), "TCS.NS", time.Now().AddDate(0, 0, -10), time.Now())
		if !errors.Is(err, core.ErrDataUnavailable) {
			t.Errorf("error = %v, want ErrDataUnavailable", err)
		}
	})

	t.Run("invalid symbol", func(t *testing.T) {
		y := New()
		_, err := y.FetchDaily(context.Background(), "bad symbol", time.Now().AddDate(0, 0, -10), time.Now())
		if !errors.Is(err, core.ErrDataUnavailable) {
			t.Errorf("error = %v, want ErrDataUnavailable", err)
		}
	})

	t.Run("context cancelled", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		y := New(WithBaseURL(srv.URL))
		_, err := y.FetchDaily(ctx, "TCS.NS", time.Now().AddDate(0, 0, -10), time.Now())
		if err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}
