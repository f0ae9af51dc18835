package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// SettlementsTotal counts settlement outcomes by request kind and action.
	SettlementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wallet",
			Name:      "settlements_total",
			Help:      "Total settlements by kind, action and outcome.",
		},
		[]string{"kind", "action", "outcome"},
	)

	// SettlementDuration observes settlement latency by request kind.
	SettlementDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wallet",
			Name:      "settlement_duration_seconds",
			Help:      "Settlement transaction duration in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
		[]string{"kind"},
	)

	// HoldsReleasedTotal counts deposits promoted to withdrawable by the
	// maturation job.
	HoldsReleasedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wallet",
			Name:      "holds_released_total",
			Help:      "Total matured deposit holds promoted to withdrawable.",
		},
	)

	// NotificationPublishFailures counts best-effort notification deliveries
	// that failed after a committed settlement.
	NotificationPublishFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wallet",
			Name:      "notification_publish_failures_total",
			Help:      "Total notification deliveries that failed post-commit.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		SettlementsTotal,
		SettlementDuration,
		HoldsReleasedTotal,
		NotificationPublishFailures,
	)
}

// TimeSettlement returns a function that observes the settlement duration
// for the given request kind when called.
func TimeSettlement(kind string) func() {
	start := time.Now()
	return func() {
		SettlementDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}
