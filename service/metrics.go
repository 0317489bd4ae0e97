package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "streamgate"

var (
	resolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resolutions_total",
		Help:      "Stream resolutions by endpoint, detected format and outcome.",
	}, []string{"endpoint", "format", "result"})

	redirectHops = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "redirect_hops",
		Help:      "Redirects followed before reaching a live response.",
		Buckets:   prometheus.LinearBuckets(0, 1, 7),
	})

	upstreamErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_errors_total",
		Help:      "Failed upstream requests by kind.",
	}, []string{"kind"})

	activeRelays = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "proxy_active_streams",
		Help:      "Streams currently relayed to clients.",
	})

	relayedBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proxy_relayed_bytes_total",
		Help:      "Bytes relayed from origins to clients.",
	})
)

func observeResolution(endpoint string, format string, err error) {
	result := "ok"
	if err != nil {
		result = errorKind(err)
	}
	resolutions.WithLabelValues(endpoint, format, result).Inc()
}

func init() {
	prometheus.MustRegister(resolutions, redirectHops, upstreamErrors, activeRelays, relayedBytes)
}
