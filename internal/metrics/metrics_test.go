package metrics

import (
	"net/http/httptest"
	"testing"
)

func TestRegistry_Record(t *testing.T) {
	r := NewRegistry()

	r.RecordFetch("yahoo", "ok", 0.1)
	r.RecordFetch("yahoo", "error", 0.2)
	r.RecordScreen(1.5)
	r.RecordExclusion("screen")
	r.RecordMonth()
	r.RecordBacktest("ok", 12.0)

	families, err := r.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	want := map[string]bool{
		"screener_fetches_total":             false,
		"screener_screens_total":             false,
		"screener_exclusions_total":          false,
		"screener_backtest_months_total":     false,
		"screener_backtests_total":           false,
		"screener_backtest_duration_seconds": false,
	}
	for _, f := range families {
		if _, ok := want[f.GetName()]; ok {
			want[f.GetName()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("metric %s not gathered", name)
		}
	}
}

func TestRegistry_NilSafe(t *testing.T) {
	var r *Registry

	// None of these should panic on a nil registry
	r.RecordFetch("yahoo", "ok", 0.1)
	r.RecordScreen(1)
	r.RecordExclusion("measure")
	r.RecordMonth()
	r.RecordBacktest("error", 1)
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.RecordMonth()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected metrics output")
	}
}
