package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "routeopt"

// Metrics holds the prometheus collectors of the route service and of the http layer.
type Metrics struct {
	routeQueryCount    *prometheus.CounterVec
	routeQueryDuration prometheus.Histogram
	settledNodes       prometheus.Histogram
	graphVertices      prometheus.Histogram
	httpDuration       *prometheus.HistogramVec
	durationSummary    prometheus.Summary
	totalRequests      *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		routeQueryCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_query_count",
			Help:      "The total number of route queries by outcome",
		}, []string{"outcome"}),
		routeQueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_query_duration_seconds",
			Help:      "The duration of a route query, map data retrieval included",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		settledNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dijkstra_settled_nodes",
			Help:      "The number of vertices settled by one shortest path search",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		}),
		graphVertices: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "road_graph_vertices",
			Help:      "The number of vertices of the road graph a query ran on",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "The duration of request",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "path"}),
		durationSummary: prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace:  namespace,
			Name:       "request_duration_summary_seconds",
			Help:       "The duration of request",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}),
		totalRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "total_requests",
			Help:      "The total number of requests",
		}, []string{"path", "method", "status"}),
	}
	reg.MustRegister(m.routeQueryCount, m.routeQueryDuration, m.settledNodes, m.graphVertices,
		m.httpDuration, m.durationSummary, m.totalRequests)
	return m
}

// ObserveRoute records one finished route query. outcome is "found", "no_path" or "error".
func (m *Metrics) ObserveRoute(outcome string, duration time.Duration, settledNodes, vertices int) {
	m.routeQueryCount.With(prometheus.Labels{"outcome": outcome}).Inc()
	m.routeQueryDuration.Observe(duration.Seconds())
	if outcome != "error" {
		m.settledNodes.Observe(float64(settledNodes))
		m.graphVertices.Observe(float64(vertices))
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack is needed by the websocket upgrade.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

// PromeHttpMiddleware labels requests by the matched route pattern returned by pathOf.
func PromeHttpMiddleware(m *Metrics, pathOf func(r *http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := pathOf(r)
			rw := newResponseWriter(w)
			timer := prometheus.NewTimer(m.httpDuration.With(prometheus.Labels{"method": r.Method, "path": path}))
			now := time.Now()

			next.ServeHTTP(rw, r)

			m.totalRequests.With(prometheus.Labels{"path": path, "method": r.Method,
				"status": strconv.Itoa(rw.statusCode)}).Inc()
			timer.ObserveDuration()
			m.durationSummary.Observe(time.Since(now).Seconds())
		})
	}
}
