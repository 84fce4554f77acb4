// Package obs holds the Prometheus collectors of the service.
package obs

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP metrics.
var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Onboarding metrics.
var (
	signupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_signups_total",
			Help: "Signup attempts by role and outcome.",
		},
		[]string{"role", "outcome"},
	)

	verificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_verifications_total",
			Help: "Verification confirmations by outcome.",
		},
		[]string{"outcome"},
	)

	emailsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_verification_emails_total",
			Help: "Verification emails by outcome.",
		},
		[]string{"outcome"},
	)

	profilesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_profiles_completed_total",
			Help: "Committed profiles by role and path (submit or skip).",
		},
		[]string{"role", "path"},
	)

	sessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_sessions_established_total",
			Help: "Sessions established by source.",
		},
		[]string{"source"},
	)

	documentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_documents_uploaded_total",
			Help: "Uploaded documents by kind.",
		},
		[]string{"kind"},
	)
)

var initOnce sync.Once

// Init registers the collectors in the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			httpInFlight, httpRequestsTotal, httpRequestDuration,
			signupsTotal, verificationsTotal, emailsTotal, profilesTotal, sessionsTotal, documentsTotal,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordSignup(role, outcome string) { signupsTotal.WithLabelValues(role, outcome).Inc() }
func RecordVerification(outcome string) { verificationsTotal.WithLabelValues(outcome).Inc() }
func RecordEmail(outcome string)        { emailsTotal.WithLabelValues(outcome).Inc() }
func RecordProfile(role, path string)   { profilesTotal.WithLabelValues(role, path).Inc() }
func RecordSession(source string)       { sessionsTotal.WithLabelValues(source).Inc() }
func RecordDocument(kind string)        { documentsTotal.WithLabelValues(kind).Inc() }

// Instrument measures request rate, latency and in-flight requests.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := CanonicalPath(r.URL.Path)
		method := r.Method

		httpInFlight.Inc()
		defer httpInFlight.Dec()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		status := strconv.Itoa(sw.code)
		httpRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	})
}

// CanonicalPath replaces id segments so label cardinality stays bounded.
func CanonicalPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if _, err := uuid.Parse(s); err == nil {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
