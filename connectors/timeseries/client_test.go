package timeseries

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gridpool/scr/core/model"
)

func channel(value float64) map[string][]float64 {
	out := make(map[string][]float64, model.SubSliceCount)
	for _, name := range model.SubSliceNames() {
		out[name] = []float64{value, value}
	}
	return out
}

func TestOfferSeriesRequest(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		payload := map[string]any{
			"setValue":         channel(5),
			"actualValue":      channel(4),
			"upperLimit":       channel(10),
			"lowerLimit":       channel(0),
			"underFulfillment": channel(1),
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode: %v", err)
		}
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	series, err := client.OfferSeries(context.Background(), "offer-1", "2026-08-30", model.From08To12, model.Positive)
	if err != nil {
		t.Fatalf("offer series: %v", err)
	}
	if gotPath != "/activate/offer-1/2026-08-30_0812" {
		t.Errorf("path %s", gotPath)
	}
	if gotQuery != "type=POSITIVE" {
		t.Errorf("query %s", gotQuery)
	}
	if series.SetValue[0][0] != 5 || series.ActualValue[15][1] != 4 {
		t.Errorf("series not decoded: %+v", series.SetValue[0])
	}
}

func TestUnitSeriesRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/technical/unit-1/2026-08-30_2024" {
			t.Errorf("path %s", r.URL.Path)
		}
		payload := map[string]any{
			"setValue":                 channel(5),
			"actualValue":              channel(4),
			"upperLimit":               channel(10),
			"lowerLimit":               channel(0),
			"underFulfillment":         channel(1),
			"acceptanceValue":          channel(3),
			"allocableAcceptanceValue": channel(3),
			"acceptanceValueTU":        channel(2),
			"underFulfillmentTU":       channel(1),
			"proportion":               0.5,
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode: %v", err)
		}
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	series, err := client.UnitSeries(context.Background(), "unit-1", "2026-08-30", model.From20To24)
	if err != nil {
		t.Fatalf("unit series: %v", err)
	}
	if series.Proportion != 0.5 {
		t.Errorf("proportion %.2f", series.Proportion)
	}
	if series.AcceptanceValueTU[7][0] != 2 {
		t.Errorf("acceptance channel not decoded")
	}
}

func TestOfferSeriesPartialPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		set := channel(5)
		delete(set, "from090To105")
		payload := map[string]any{
			"setValue":         set,
			"actualValue":      channel(4),
			"upperLimit":       channel(10),
			"lowerLimit":       channel(0),
			"underFulfillment": channel(1),
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode: %v", err)
		}
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.OfferSeries(context.Background(), "offer-1", "2026-08-30", model.From08To12, model.Positive); err == nil {
		t.Fatal("expected error for partial payload")
	}
}

func TestOfferSeriesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.OfferSeries(context.Background(), "offer-1", "2026-08-30", model.From08To12, model.Positive); err == nil {
		t.Fatal("expected error for server failure")
	}
}

func TestConfigValidate(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error for missing base url")
	}
}
