// Package metrics exposes the gateway's Prometheus instrumentation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	payoutOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "faucet_payout_outcomes_total",
		Help: "Payout requests by terminal outcome.",
	}, []string{"outcome"})

	rpcRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "faucet_rpc_requests_total",
		Help: "Protocol gateway requests by method and result.",
	}, []string{"method", "result"})

	broadcastDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "faucet_broadcast_duration_seconds",
		Help:    "Time from nonce acquisition to accepted broadcast.",
		Buckets: prometheus.DefBuckets,
	})

	recordFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faucet_record_payout_failures_total",
		Help: "Best-effort bookkeeping calls that failed after an approved payout.",
	})
)

func CountOutcome(outcome string) {
	payoutOutcomes.WithLabelValues(outcome).Inc()
}

func CountRPC(method, result string) {
	rpcRequests.WithLabelValues(method, result).Inc()
}

func ObserveBroadcast(d time.Duration) {
	broadcastDuration.Observe(d.Seconds())
}

func CountRecordFailure() {
	recordFailures.Inc()
}

// Handler serves the default registry scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
