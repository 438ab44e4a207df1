// Package metrics exposes Prometheus collectors for the probe loop.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProbesTotal counts completed probes by target and outcome.
	ProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pingclock_probes_total",
			Help: "Total number of completed probes",
		},
		[]string{"target", "status"},
	)

	// RTTSeconds tracks round-trip times of successful probes.
	RTTSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pingclock_rtt_seconds",
			Help:    "Round-trip time of successful probes in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
		},
		[]string{"target"},
	)

	// LossRate mirrors the rolling-window loss rate in percent.
	LossRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pingclock_loss_rate_percent",
			Help: "Packet loss rate over the rolling 60 second window",
		},
	)

	// MeanRTTMillis mirrors the rolling-window mean RTT in milliseconds.
	MeanRTTMillis = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pingclock_mean_rtt_ms",
			Help: "Mean round-trip time over the rolling 60 second window in milliseconds",
		},
	)

	// PendingProbes tracks probes dispatched but not yet completed.
	PendingProbes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pingclock_pending_probes",
			Help: "Number of probes currently in flight",
		},
	)
)

// RecordProbe records one completed probe for a target.
func RecordProbe(target string, success bool, rtt time.Duration) {
	status := "failure"
	if success {
		status = "success"
		RTTSeconds.WithLabelValues(target).Observe(rtt.Seconds())
	}
	ProbesTotal.WithLabelValues(target, status).Inc()
}

// RecordWindow publishes the recomputed rolling-window aggregates.
func RecordWindow(lossRatePercent, meanRTTMillis float64) {
	LossRate.Set(lossRatePercent)
	MeanRTTMillis.Set(meanRTTMillis)
}

// SetPendingProbes publishes the current in-flight probe count.
func SetPendingProbes(count int) {
	PendingProbes.Set(float64(count))
}
