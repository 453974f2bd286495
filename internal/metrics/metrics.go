// Package metrics exposes Prometheus counters for the auth flows.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the service and HTTP layers report to.
type Recorder interface {
	RecordOTPIssued(purpose string)
	RecordOTPVerification(result string)
	RecordLoginAttempt(result string)
	RecordSessionIssued()
	RecordHTTPRequest(method, route string, status int, d time.Duration)
}

type Collector struct {
	otpIssued     *prometheus.CounterVec
	otpVerified   *prometheus.CounterVec
	loginAttempts *prometheus.CounterVec
	sessions      prometheus.Counter
	httpRequests  *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
}

// NewCollector registers the collectors on reg. Use a fresh registry per
// test; registering twice on the same one panics.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		otpIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otpauth_otp_issued_total",
			Help: "One-time codes issued, by purpose",
		}, []string{"purpose"}),
		otpVerified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otpauth_otp_verifications_total",
			Help: "OTP verification attempts, by result",
		}, []string{"result"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otpauth_login_attempts_total",
			Help: "Credential checks at login, by result",
		}, []string{"result"}),
		sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "otpauth_sessions_issued_total",
			Help: "Session tokens issued",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otpauth_http_requests_total",
			Help: "HTTP requests, by method, route and status",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "otpauth_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.otpIssued,
		c.otpVerified,
		c.loginAttempts,
		c.sessions,
		c.httpRequests,
		c.httpLatency,
	)
	return c
}

func (c *Collector) RecordOTPIssued(purpose string) {
	c.otpIssued.WithLabelValues(purpose).Inc()
}

func (c *Collector) RecordOTPVerification(result string) {
	c.otpVerified.WithLabelValues(result).Inc()
}

func (c *Collector) RecordLoginAttempt(result string) {
	c.loginAttempts.WithLabelValues(result).Inc()
}

func (c *Collector) RecordSessionIssued() {
	c.sessions.Inc()
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

// Nop discards everything. Used when metrics are disabled.
type Nop struct{}

func (Nop) RecordOTPIssued(string)                               {}
func (Nop) RecordOTPVerification(string)                         {}
func (Nop) RecordLoginAttempt(string)                            {}
func (Nop) RecordSessionIssued()                                 {}
func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = Nop{}
)
