package server

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the gauge collectors exported on /metrics.
type Metrics struct {
	Value         prometheus.Gauge
	Updates       prometheus.Counter
	Supersessions prometheus.Counter
	Frames        prometheus.Counter
	Viewers       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Value: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arcgauge_value",
			Help: "Target value of the gauge.",
		}),
		Updates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arcgauge_updates_total",
			Help: "Total number of accepted value updates.",
		}),
		Supersessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arcgauge_supersessions_total",
			Help: "Total number of value transitions replaced before completion.",
		}),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arcgauge_frames_total",
			Help: "Total number of rendered frames.",
		}),
		Viewers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arcgauge_viewers",
			Help: "Number of connected websocket viewers.",
		}),
	}
	reg.MustRegister(m.Value, m.Updates, m.Supersessions, m.Frames, m.Viewers)
	return m
}
