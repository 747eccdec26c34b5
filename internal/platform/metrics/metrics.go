// Package metrics exposes Prometheus instrumentation for the risk engine
// and its HTTP surface.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "risk_engine"

// Metrics owns a private registry so tests and multiple servers in one
// process do not collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	assessments   *prometheus.CounterVec
	alerts        prometheus.Counter
	duration      prometheus.Histogram
	rejected      prometheus.Counter
	collaborators *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

type Config struct {
	Namespace      string
	RuntimeMetrics bool
}

func New(cfg Config) *Metrics {
	ns := cfg.Namespace
	if ns == "" {
		ns = defaultNamespace
	}
	reg := prometheus.NewRegistry()
	if cfg.RuntimeMetrics {
		reg.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: ns}),
			collectors.NewGoCollector(),
		)
	}

	m := &Metrics{
		registry: reg,
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "assessments_total",
			Help:      "Completed risk assessments by escalation tier and composite level.",
		}, []string{"tier", "level"}),
		alerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "emergency_alerts_total",
			Help:      "Emergency alerts raised across all assessments.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "assessment_duration_seconds",
			Help:      "Time spent scoring a questionnaire.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "questionnaires_rejected_total",
			Help:      "Questionnaires that failed validation.",
		}),
		collaborators: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "collaborator_failures_total",
			Help:      "Store, trigger and publish failures.",
		}, []string{"collaborator"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.assessments, m.alerts, m.duration, m.rejected, m.collaborators, m.httpRequests, m.httpDuration)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) ObserveAssessment(tier, level string, alerts int, elapsed time.Duration) {
	m.assessments.WithLabelValues(tier, level).Inc()
	m.alerts.Add(float64(alerts))
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveRejected() { m.rejected.Inc() }

func (m *Metrics) ObserveCollaboratorFailure(collaborator string) {
	m.collaborators.WithLabelValues(collaborator).Inc()
}

// Middleware records request counts and latency. Routes are labelled by
// their echo pattern to keep cardinality bounded; unmatched paths share
// the "unmatched" label.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			} else if err != nil && !c.Response().Committed {
				status = http.StatusInternalServerError
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method

			m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
