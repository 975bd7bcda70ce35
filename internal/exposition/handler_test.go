package exposition

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/common/expfmt"

	"github.com/eero-exporter/eero-exporter/internal/catalog"
)

func newTestStore() *Store {
	st := NewStore(5 * time.Minute)
	st.Put("42", []catalog.Observation{
		catalog.NetworkSSID.Info(netLabels, "ssid", "HomeNet"),
		catalog.NetworkUploadBandwidth.Gauge(netLabels, 12_500_000),
	})
	st.SetStatus([]catalog.Observation{catalog.ExporterCollectionSuccess.Gauge(nil, 1)})
	return st
}

func scrape(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHandler_ServesTextFormat(t *testing.T) {
	h := NewHandler(newTestStore(), "/metrics")
	rec := scrape(t, h, http.MethodGet, "/metrics")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}

	var parser expfmt.TextParser
	fams, err := parser.TextToMetricFamilies(rec.Body)
	if err != nil {
		t.Fatalf("parse exposition: %v", err)
	}

	up, ok := fams["eero_network_upload_bandwidth_bps"]
	if !ok {
		t.Fatal("eero_network_upload_bandwidth_bps missing")
	}
	if v := up.GetMetric()[0].GetGauge().GetValue(); v != 12_500_000 {
		t.Errorf("upload = %v, want 12500000", v)
	}

	ssid, ok := fams["eero_network_ssid_info"]
	if !ok {
		t.Fatal("eero_network_ssid_info missing")
	}
	if got := labelMap(ssid.GetMetric()[0])["ssid"]; got != "HomeNet" {
		t.Errorf("ssid label = %q", got)
	}

	if _, ok := fams["eero_exporter_collection_success"]; !ok {
		t.Error("self metric missing")
	}
}

func TestHandler_Deterministic(t *testing.T) {
	h := NewHandler(newTestStore(), "/metrics")
	first, _ := io.ReadAll(scrape(t, h, http.MethodGet, "/metrics").Body)
	second, _ := io.ReadAll(scrape(t, h, http.MethodGet, "/metrics").Body)
	if string(first) != string(second) {
		t.Errorf("scrapes differ:\n%s\n---\n%s", first, second)
	}
}

func TestHandler_NotFound(t *testing.T) {
	h := NewHandler(newTestStore(), "/metrics")
	for _, path := range []string{"/", "/metrics/", "/favicon.ico", "/api/v1/health"} {
		if rec := scrape(t, h, http.MethodGet, path); rec.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", path, rec.Code)
		}
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := NewHandler(newTestStore(), "/metrics")
	rec := scrape(t, h, http.MethodPost, "/metrics")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow == "" {
		t.Error("Allow header missing on 405")
	}
}

func TestHandler_EmptyStore(t *testing.T) {
	h := NewHandler(NewStore(time.Minute), "/metrics")
	rec := scrape(t, h, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
}

func TestHandler_CustomPath(t *testing.T) {
	h := NewHandler(newTestStore(), "/probe")
	if rec := scrape(t, h, http.MethodGet, "/probe"); rec.Code != http.StatusOK {
		t.Errorf("GET /probe = %d, want 200", rec.Code)
	}
	if rec := scrape(t, h, http.MethodGet, "/metrics"); rec.Code != http.StatusNotFound {
		t.Errorf("GET /metrics = %d, want 404", rec.Code)
	}
}

func TestHandler_InvalidObservationDegradesOnlyItself(t *testing.T) {
	st := newTestStore()
	st.Put("43", []catalog.Observation{
		catalog.NetworkClientCount.Gauge([]string{"43"}, 9),
		catalog.NetworkEeroCount.Gauge([]string{"43", "Cabin", ""}, 1),
	})
	rec := scrape(t, NewHandler(st, "/metrics"), http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var parser expfmt.TextParser
	fams, err := parser.TextToMetricFamilies(rec.Body)
	if err != nil {
		t.Fatalf("parse exposition: %v", err)
	}
	if _, ok := fams["eero_network_client_count"]; ok {
		t.Error("malformed client_count sample was exposed")
	}
	if _, ok := fams["eero_network_eero_count"]; !ok {
		t.Error("valid sibling eero_count missing")
	}
	if _, ok := fams["eero_network_upload_bandwidth_bps"]; !ok {
		t.Error("other network's metrics missing")
	}
}
