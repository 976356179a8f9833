// Package metrics collects and exposes Prometheus metrics for the
// scheduling API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records the signals the API emits: per-route request counts and
// latencies plus the scheduling outcomes worth alerting on.
type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	bookingConflict *prometheus.CounterVec
	booked          prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "citasmed_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "citasmed_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		bookingConflict: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "citasmed_booking_conflicts_total",
			Help: "Rejected booking attempts by conflict kind.",
		}, []string{"kind"}),
		booked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "citasmed_appointments_booked_total",
			Help: "Appointments accepted into the pending state.",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.bookingConflict,
		c.booked,
	)

	return c
}

func (c *Collector) RecordRequest(route, method string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (c *Collector) RecordBookingConflict(kind string) {
	c.bookingConflict.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordBooked() {
	c.booked.Inc()
}

// Handler serves the registry in the Prometheus scrape format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
