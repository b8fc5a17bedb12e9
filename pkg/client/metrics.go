package client

import (
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects Prometheus metrics for a channel. A nil *Metrics is a
// valid no-op collector, so instrumentation stays optional.
type Metrics struct {
	framesSent     prometheus.Counter
	framesReceived prometheus.Counter
	framesDropped  prometheus.Counter
	queuedFrames   prometheus.Gauge
	disconnects    *prometheus.CounterVec
}

// NewMetrics creates and registers channel metrics with the given registry.
// Pass prometheus.DefaultRegisterer for the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		framesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "correctquiz",
			Subsystem: "channel",
			Name:      "frames_sent_total",
			Help:      "Frames written to the wire.",
		}),
		framesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "correctquiz",
			Subsystem: "channel",
			Name:      "frames_received_total",
			Help:      "Frames successfully decoded from the wire.",
		}),
		framesDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "correctquiz",
			Subsystem: "channel",
			Name:      "frames_dropped_total",
			Help:      "Inbound frames dropped as malformed.",
		}),
		queuedFrames: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "correctquiz",
			Subsystem: "channel",
			Name:      "queued_frames",
			Help:      "Frames buffered while the channel is not ready.",
		}),
		disconnects: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "correctquiz",
			Subsystem: "channel",
			Name:      "disconnects_total",
			Help:      "Connection closures by kind.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) recordFrameSent() {
	if m == nil {
		return
	}
	m.framesSent.Inc()
}

func (m *Metrics) recordFrameReceived() {
	if m == nil {
		return
	}
	m.framesReceived.Inc()
}

func (m *Metrics) recordFrameDropped() {
	if m == nil {
		return
	}
	m.framesDropped.Inc()
}

func (m *Metrics) setQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queuedFrames.Set(float64(n))
}

func (m *Metrics) recordDisconnect(code int) {
	if m == nil {
		return
	}
	kind := "abnormal"
	if code == websocket.CloseNormalClosure {
		kind = "normal"
	}
	m.disconnects.WithLabelValues(kind).Inc()
}
