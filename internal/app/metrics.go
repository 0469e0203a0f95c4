package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "hlsrelay",
		Name:      "sessions_active",
		Help:      "Signaling sessions currently connected.",
	})

	// RelaysActive counts running transcoder subprocesses.
	RelaysActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "hlsrelay",
		Name:      "relays_active",
		Help:      "HLS relay subprocesses currently running.",
	})

	RelayFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hlsrelay",
		Name:      "relay_failures_total",
		Help:      "Relay subprocesses that exited while their session was alive.",
	})

	SignalRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hlsrelay",
		Name:      "signal_requests_total",
		Help:      "Signaling requests by message type and outcome.",
	}, []string{"type", "result"})
)
