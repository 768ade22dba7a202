package metrics

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry  *prometheus.Registry
	logins    *prometheus.CounterVec
	events    *prometheus.CounterVec
	responses *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shift_monitor",
			Name:      "logins_total",
			Help:      "Login attempts by access level and result.",
		}, []string{"nivel_acesso", "result"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shift_monitor",
			Name:      "status_events_total",
			Help:      "Status ledger writes by event type.",
		}, []string{"tipo"}),
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shift_monitor",
			Name:      "http_responses_total",
			Help:      "HTTP responses by status class.",
		}, []string{"class"}),
	}
	m.registry.MustRegister(
		m.logins,
		m.events,
		m.responses,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Login(level, result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(level, result).Inc()
}

func (m *Metrics) StatusEvent(tipo string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(tipo).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts responses by status class.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.responses.WithLabelValues(strconv.Itoa(status/100) + "xx").Inc()
	})
}
