package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bankledger"

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Movement metrics
	MovementsRecorded    *prometheus.CounterVec
	MovementDuration     *prometheus.HistogramVec
	MovementsRejected    *prometheus.CounterVec
	MovementsDeactivated prometheus.Counter

	// Outbox metrics
	EventsPublished *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		MovementsRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "movements_recorded_total",
				Help:      "Total number of movements recorded by kind",
			},
			[]string{"kind"},
		),
		MovementDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "movement_duration_seconds",
				Help:      "Duration of movement recording including lock wait",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		MovementsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "movements_rejected_total",
				Help:      "Total number of rejected movements by reason",
			},
			[]string{"reason"},
		),
		MovementsDeactivated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_deactivated_total",
			Help:      "Total number of soft-deleted movements",
		}),

		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outbox_events_published_total",
				Help:      "Outbox events handed to the sink, by event type and result",
			},
			[]string{"event_type", "result"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		}),
	}
}

// RecordMovement counts a recorded movement and observes its duration.
func (m *Metrics) RecordMovement(kind string, duration time.Duration) {
	m.MovementsRecorded.WithLabelValues(kind).Inc()
	m.MovementDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordMovementRejected counts a rejected movement.
func (m *Metrics) RecordMovementRejected(reason string) {
	m.MovementsRejected.WithLabelValues(reason).Inc()
}

// RecordMovementDeactivated counts a soft delete.
func (m *Metrics) RecordMovementDeactivated() {
	m.MovementsDeactivated.Inc()
}

// RecordEventPublished counts an outbox publish attempt.
func (m *Metrics) RecordEventPublished(eventType string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.EventsPublished.WithLabelValues(eventType, result).Inc()
}

// RecordHTTPRequest counts a finished request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RequestStarted marks a request as in flight.
func (m *Metrics) RequestStarted() { m.HTTPInFlight.Inc() }

// RequestFinished clears a request marked by RequestStarted.
func (m *Metrics) RequestFinished() { m.HTTPInFlight.Dec() }
