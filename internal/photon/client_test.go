package photon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"photon-trading-bot/internal/circuit"
)

func TestGetCandlesSortsAndDedupes(t *testing.T) {
	var gotCookie, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/charts/tradingview_range") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotCookie = r.Header.Get("Cookie")
		gotQuery = r.URL.RawQuery
		// Out of order, one duplicate timestamp, one bar without a close,
		// prices as strings.
		w.Write([]byte(`[
			{"timestamp": 120000, "o": "2.0", "c": "2.1", "h": "2.2", "l": "1.9", "volume": 10},
			{"timestamp": 60000, "o": 1.0, "c": "1.1", "h": 1.2, "l": 0.9, "volume": "5"},
			{"timestamp": 120000, "o": "2.0", "c": "2.5", "h": "2.6", "l": "1.9", "volume": 11},
			{"timestamp": 180000, "o": 3.0, "c": null, "h": 3.2, "l": 2.9, "volume": 7}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticCookie("session=abc"), nil)
	candles, err := c.GetCandles(context.Background(), CandleQuery{
		PoolID: 42, From: 60, To: 240, Interval: "1m", PumpPoolID: 9,
	})
	if err != nil {
		t.Fatalf("GetCandles() error: %v", err)
	}

	if len(candles) != 2 {
		t.Fatalf("candles = %d, want 2 (dedup + dropped closeless bar)", len(candles))
	}
	if candles[0].Timestamp != 60 || candles[1].Timestamp != 120 {
		t.Errorf("timestamps = %d, %d; want ascending seconds 60, 120", candles[0].Timestamp, candles[1].Timestamp)
	}
	if candles[1].Close != 2.5 {
		t.Errorf("duplicate resolution close = %v, want the later bar's 2.5", candles[1].Close)
	}
	if candles[0].Volume != 5 {
		t.Errorf("string volume = %v, want 5", candles[0].Volume)
	}

	if gotCookie != "session=abc" {
		t.Errorf("cookie header = %q", gotCookie)
	}
	if !strings.Contains(gotQuery, "pool_id=42") || !strings.Contains(gotQuery, "pump_pool_id=9") {
		t.Errorf("query = %q, missing pool ids", gotQuery)
	}
}

func TestGetMemescopeNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "session expired", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, nil)
	_, err := c.GetMemescope(context.Background())
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusForbidden {
		t.Errorf("status = %d, want 403", apiErr.Status)
	}
}

func TestClientTripsBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	breaker := circuit.NewErrorWindowBreaker(&circuit.Config{Enabled: true, MaxErrors: 2, Window: time.Minute})
	c := NewClient(srv.URL, nil, breaker)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := c.GetMemescope(ctx); err == nil {
			t.Fatal("expected a transport error")
		}
	}

	_, err := c.GetMemescope(ctx)
	if err == nil || !strings.Contains(err.Error(), "circuit open") {
		t.Errorf("err = %v, want a circuit-open refusal", err)
	}
}

func TestAsFloat(t *testing.T) {
	if v, ok := AsFloat("12.5"); !ok || v != 12.5 {
		t.Errorf("AsFloat(string) = %v, %v", v, ok)
	}
	if v, ok := AsFloat(7); !ok || v != 7 {
		t.Errorf("AsFloat(int) = %v, %v", v, ok)
	}
	if _, ok := AsFloat(nil); ok {
		t.Error("nil should resolve to absent")
	}
	if _, ok := AsFloat("NaN"); ok {
		t.Error("NaN should resolve to absent, never zero")
	}
	if _, ok := AsFloat("12,5"); ok {
		t.Error("unparsable strings should resolve to absent")
	}
}
