// Package metrics records tool calls, data fetches and form submissions.
// The interactive UI uses Noop; the server surfaces use a Collector backed
// by its own Prometheus registry.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oakwood-commons/uideck/internal/domain"
	"github.com/oakwood-commons/uideck/internal/mockdata"
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeFailed   = "failed"
	OutcomeError    = "error"
	OutcomeNotFound = "not_found"
)

// Recorder receives instrumentation events.
type Recorder interface {
	ToolCall(component, dataType, outcome string)
	Fetch(op string, d domain.Domain, outcome string, elapsed time.Duration)
	FormSubmission(d domain.Domain, outcome string)
	HTTPRequest(method, route string, status int, elapsed time.Duration)
}

// Noop discards every event.
type Noop struct{}

func (Noop) ToolCall(string, string, string) {}
func (Noop) Fetch(string, domain.Domain, string, time.Duration) {}
func (Noop) FormSubmission(domain.Domain, string) {}
func (Noop) HTTPRequest(string, string, int, time.Duration) {}

// Collector is a Recorder exporting Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	toolCalls    *prometheus.CounterVec
	fetches      *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec
	submissions  *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// NewCollector registers the uideck metrics on a fresh registry.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "uideck"
	}
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "displayComponent invocations by component, data type and outcome",
		}, []string{"component", "data_type", "outcome"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "data_fetches_total",
			Help:      "Mock data fetches by operation, domain and outcome",
		}, []string{"op", "domain", "outcome"}),
		fetchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "data_fetch_duration_seconds",
			Help:      "Duration of mock data fetches including simulated latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "domain"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_submissions_total",
			Help:      "Form submissions by domain and outcome",
		}, []string{"domain", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP API requests by method, route and status",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(c.toolCalls, c.fetches, c.fetchLatency, c.submissions, c.httpRequests, c.httpLatency)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) ToolCall(component, dataType, outcome string) {
	c.toolCalls.WithLabelValues(component, dataType, outcome).Inc()
}

func (c *Collector) Fetch(op string, d domain.Domain, outcome string, elapsed time.Duration) {
	c.fetches.WithLabelValues(op, d.String(), outcome).Inc()
	c.fetchLatency.WithLabelValues(op, d.String()).Observe(elapsed.Seconds())
}

func (c *Collector) FormSubmission(d domain.Domain, outcome string) {
	c.submissions.WithLabelValues(d.String(), outcome).Inc()
}

func (c *Collector) HTTPRequest(method, route string, status int, elapsed time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// instrumented wraps a Source and records every call.
type instrumented struct {
	next mockdata.Source
	rec  Recorder
}

// InstrumentSource returns src recording fetches to rec. A nil rec
// returns src unchanged.
func InstrumentSource(src mockdata.Source, rec Recorder) mockdata.Source {
	if rec == nil {
		return src
	}
	return &instrumented{next: src, rec: rec}
}

func (s *instrumented) ListRecords(ctx context.Context, d domain.Domain) (mockdata.ListResult, error) {
	start := time.Now()
	res, err := s.next.ListRecords(ctx, d)
	s.rec.Fetch("list", d, outcome(err, res.Success), time.Since(start))
	return res, err
}

func (s *instrumented) GetRecord(ctx context.Context, d domain.Domain, id string) (mockdata.ItemResult, error) {
	start := time.Now()
	res, err := s.next.GetRecord(ctx, d, id)
	out := outcome(err, res.Success)
	if err == nil && !res.Success {
		out = OutcomeNotFound
	}
	s.rec.Fetch("get", d, out, time.Since(start))
	return res, err
}

func outcome(err error, success bool) string {
	switch {
	case err != nil:
		return OutcomeError
	case !success:
		return OutcomeFailed
	}
	return OutcomeOK
}
