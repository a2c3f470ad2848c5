package dispatcher

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	dispatched *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	inFlight   prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "camerabot_events_dispatched_total",
			Help: "Events that reached a terminal outcome, by kind and outcome",
		}, []string{"kind", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "camerabot_event_duration_seconds",
			Help:    "Time from dispatch to terminal outcome",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"kind"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "camerabot_events_in_flight",
			Help: "Events dispatched and not yet finished",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.dispatched, m.duration, m.inFlight)
	}
	return m
}
