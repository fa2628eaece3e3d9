// Package metrics exposes Prometheus counters for goal intents and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/benvon/goaltracker/internal/models"
	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "goaltracker"

// Metrics holds the service collectors in a private registry
type Metrics struct {
	registry *prometheus.Registry

	goalsCreated *prometheus.CounterVec
	taskToggles  *prometheus.CounterVec
	achievements *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		goalsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "goals_created_total",
			Help:      "Goals created, by category.",
		}, []string{"category"}),
		taskToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_toggles_total",
			Help:      "Accepted task toggles, by requested completion state.",
		}, []string{"completed"}),
		achievements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "achievements_unlocked_total",
			Help:      "Badges unlocked, by badge.",
		}, []string{"badge"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route template and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by method and route template.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.goalsCreated,
		m.taskToggles,
		m.achievements,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Registry returns the registry the collectors are registered with
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GoalCreated counts a created goal
func (m *Metrics) GoalCreated(category models.Category) {
	m.goalsCreated.WithLabelValues(string(category)).Inc()
}

// TaskToggled counts an accepted toggle
func (m *Metrics) TaskToggled(completed bool) {
	m.taskToggles.WithLabelValues(strconv.FormatBool(completed)).Inc()
}

// AchievementUnlocked counts an unlocked badge
func (m *Metrics) AchievementUnlocked(badge models.Badge) {
	m.achievements.WithLabelValues(string(badge)).Inc()
}

// Middleware records request count and latency labelled with the matched route template,
// never the raw path.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snoop := httpsnoop.CaptureMetrics(next, w, r)

		route := routeTemplate(r)
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(snoop.Code)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(snoop.Duration.Seconds())
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
