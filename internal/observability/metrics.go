package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Drop reasons for frames that were read but not delivered.
const (
	DropDecode   = "decode"
	DropOversize = "oversize"
)

var (
	registerOnce sync.Once

	framesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stormlang",
			Subsystem: "channel",
			Name:      "frames_received_total",
			Help:      "Frames decoded from the host, by shape.",
		},
		[]string{"kind"},
	)
	framesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stormlang",
			Subsystem: "channel",
			Name:      "frames_sent_total",
			Help:      "Frames written to the host.",
		},
	)
	framesDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stormlang",
			Subsystem: "channel",
			Name:      "frames_dropped_total",
			Help:      "Frames read from the host and skipped.",
		},
		[]string{"reason"},
	)
	streamClosures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stormlang",
			Subsystem: "channel",
			Name:      "stream_closed_total",
			Help:      "Input stream closures observed by Receive.",
		},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stormlang",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stormlang",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			framesReceived,
			framesSent,
			framesDropped,
			streamClosures,
			httpRequests,
			httpDuration,
		)
	})
}

func RecordFrameReceived(kind string) {
	RegisterMetrics()
	framesReceived.WithLabelValues(kind).Inc()
}

func RecordFrameSent() {
	RegisterMetrics()
	framesSent.Inc()
}

func RecordFrameDropped(reason string) {
	RegisterMetrics()
	framesDropped.WithLabelValues(reason).Inc()
}

func RecordStreamClosed() {
	RegisterMetrics()
	streamClosures.Inc()
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}
