// Package metrics exposes Prometheus counters for assistant calls,
// question fallbacks, completed sessions and the dashboard API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is implemented by the Prometheus recorder and by Noop.
type Recorder interface {
	IncAssistantCalls(purpose string, ok bool)
	IncFallbackQuestions()
	IncSessionsCompleted(degraded bool)
	IncSubmitRejected()
	ObservePersistDuration(d time.Duration)
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, d time.Duration)
}

type promRecorder struct {
	assistantCalls    *prometheus.CounterVec
	fallbackQuestions prometheus.Counter
	sessionsCompleted *prometheus.CounterVec
	submitRejected    prometheus.Counter
	persistDuration   prometheus.Histogram
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	gatherer          prometheus.Gatherer
}

// New registers the interview metrics with reg.
func New(reg *prometheus.Registry) Recorder {
	f := promauto.With(reg)
	return &promRecorder{
		assistantCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "interview_assistant_calls_total",
			Help: "Assistant calls by purpose and result",
		}, []string{"purpose", "result"}),

		fallbackQuestions: f.NewCounter(prometheus.CounterOpts{
			Name: "interview_fallback_questions_total",
			Help: "Questions served from the offline bank",
		}),

		sessionsCompleted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "interview_sessions_completed_total",
			Help: "Completed interview sessions",
		}, []string{"degraded"}),

		submitRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "interview_submit_rejected_total",
			Help: "Answer submissions rejected because another was in flight",
		}),

		persistDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "interview_persist_duration_seconds",
			Help:    "Duration of state saves in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "interview_http_requests_total",
			Help: "Total number of dashboard HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "interview_http_request_duration_seconds",
			Help:    "Dashboard HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		gatherer: reg,
	}
}

func (m *promRecorder) IncAssistantCalls(purpose string, ok bool) {
	result := "ok"
	if !ok {
		result = "unavailable"
	}
	m.assistantCalls.WithLabelValues(purpose, result).Inc()
}

func (m *promRecorder) IncFallbackQuestions() {
	m.fallbackQuestions.Inc()
}

func (m *promRecorder) IncSessionsCompleted(degraded bool) {
	label := "false"
	if degraded {
		label = "true"
	}
	m.sessionsCompleted.WithLabelValues(label).Inc()
}

func (m *promRecorder) IncSubmitRejected() {
	m.submitRejected.Inc()
}

func (m *promRecorder) ObservePersistDuration(d time.Duration) {
	m.persistDuration.Observe(d.Seconds())
}

func (m *promRecorder) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *promRecorder) ObserveRequestDuration(endpoint string, d time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// Handler serves the metrics registered by rec. Noop recorders get a
// handler that reports 404.
func Handler(rec Recorder) http.Handler {
	if p, ok := rec.(*promRecorder); ok {
		return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
	}
	return http.NotFoundHandler()
}

// Noop returns a Recorder that discards everything.
func Noop() Recorder { return noop{} }

type noop struct{}

func (noop) IncAssistantCalls(string, bool)                {}
func (noop) IncFallbackQuestions()                         {}
func (noop) IncSessionsCompleted(bool)                     {}
func (noop) IncSubmitRejected()                            {}
func (noop) ObservePersistDuration(time.Duration)          {}
func (noop) IncRequestsTotal(string, int)                  {}
func (noop) ObserveRequestDuration(string, time.Duration) {}
