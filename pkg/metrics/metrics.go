package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the storefront collectors. A zero value is safe to use and
// records nothing.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	storeMutations   *prometheus.CounterVec
	checkouts       *prometheus.CounterVec
	recommendations *prometheus.CounterVec
	importedRows    *prometheus.CounterVec
	gatherer        prometheus.Gatherer
}

// New registers the storefront collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route pattern, method and status.",
	}, []string{"route", "method", "status"})
	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
	storeMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_mutations_total",
		Help: "Cart and wishlist mutations by store and operation.",
	}, []string{"store", "op"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	recommendations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendations_total",
		Help: "Recommendation responses by source.",
	}, []string{"source"})
	importedRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "csv_import_rows_total",
		Help: "CSV import rows by kind and result.",
	}, []string{"kind", "result"})
	reg.MustRegister(requests, requestDuration, storeMutations, checkouts, recommendations, importedRows)
	return &Metrics{
		requests:        requests,
		requestDuration: requestDuration,
		storeMutations:   storeMutations,
		checkouts:       checkouts,
		recommendations: recommendations,
		importedRows:    importedRows,
		gatherer:        reg,
	}
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, duration time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	route = normalizeLabel(route)
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// IncStoreMutation counts one change to a per-user store such as the cart or
// the wishlist.
func (m *Metrics) IncStoreMutation(store, op string) {
	if m == nil || m.storeMutations == nil {
		return
	}
	m.storeMutations.WithLabelValues(normalizeLabel(store), normalizeLabel(op)).Inc()
}

func (m *Metrics) IncCheckout(outcome string) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (m *Metrics) IncRecommendation(source string) {
	if m == nil || m.recommendations == nil {
		return
	}
	m.recommendations.WithLabelValues(normalizeLabel(source)).Inc()
}

// AddImportedRows counts imported and failed rows for one CSV import.
func (m *Metrics) AddImportedRows(kind string, imported, failed int) {
	if m == nil || m.importedRows == nil {
		return
	}
	m.importedRows.WithLabelValues(normalizeLabel(kind), "imported").Add(float64(imported))
	m.importedRows.WithLabelValues(normalizeLabel(kind), "failed").Add(float64(failed))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
