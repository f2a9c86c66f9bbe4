package metrics

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveRequest("/api/v1/cart", "GET", 200, 20*time.Millisecond)
	m.IncStoreMutation("cart", "add")
	m.IncStoreMutation("cart", "add")
	m.IncStoreMutation("wishlist", "toggle")
	m.IncCheckout("success")
	m.IncRecommendation("")
	m.AddImportedRows("products", 4, 1)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	cases := []struct {
		name  string
		label string
		value string
		want  float64
	}{
		{"http_requests_total", "status", "200", 1},
		{"store_mutations_total", "op", "add", 2},
		{"store_mutations_total", "store", "wishlist", 1},
		{"checkouts_total", "outcome", "success", 1},
		{"recommendations_total", "source", "unknown", 1},
		{"csv_import_rows_total", "result", "failed", 1},
		{"csv_import_rows_total", "result", "imported", 4},
	}
	for _, tc := range cases {
		got, err := fetchCounterValue(mfs, tc.name, tc.label, tc.value)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s{%s=%q}: expected %v, got %v", tc.name, tc.label, tc.value, tc.want, got)
		}
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("/", "GET", 200, time.Second)
	m.IncStoreMutation("cart", "add")
	m.IncCheckout("success")
	m.IncRecommendation("ai")
	m.AddImportedRows("products", 1, 0)

	empty := New(nil)
	empty.IncCheckout("success")
}

func TestHandlerServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.IncCheckout("success")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `checkouts_total{outcome="success"} 1`) {
		t.Fatalf("metrics output missing counter:\n%s", rec.Body.String())
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, labelName, labelValue string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if hasLabel(metric, labelName, labelValue) {
				return metric.GetCounter().GetValue(), nil
			}
		}
	}
	return 0, fmt.Errorf("metric %s{%s=%q} not found", name, labelName, labelValue)
}

func hasLabel(metric *dto.Metric, name, value string) bool {
	for _, label := range metric.GetLabel() {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
