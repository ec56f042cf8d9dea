// Package metrics exports API-call counters for Prometheus.
package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APICalls counts GraphQL operations by name and outcome.
var APICalls = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "xclient_api_calls_total",
	Help: "GraphQL operations by outcome",
}, []string{"operation", "outcome"})

func init() {
	prometheus.MustRegister(APICalls)
}

// Outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeRateLimited = "rate_limited"
)

// Hook returns a function suitable for ClientConfig.MetricsHook.
func Hook() func(endpoint string, success, rateLimited bool) {
	return func(endpoint string, success, rateLimited bool) {
		outcome := OutcomeError
		switch {
		case success:
			outcome = OutcomeOK
		case rateLimited:
			outcome = OutcomeRateLimited
		}
		APICalls.WithLabelValues(endpoint, outcome).Inc()
	}
}

// Handler serves /metrics and /health.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return mux
}

// Serve exposes Handler on addr in the background. Empty addr disables it.
func Serve(addr string) {
	if addr == "" {
		return
	}
	go func() {
		if err := http.ListenAndServe(addr, Handler()); err != nil {
			slog.Warn("metrics server stopped", slog.String("addr", addr), slog.Any("error", err))
		}
	}()
}
