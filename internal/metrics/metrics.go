// Package metrics exposes Prometheus counters for the console's sync,
// mutation and review activity.
//
// Series:
//   - hyperclaw_loads_total{screen,result}
//   - hyperclaw_load_duration_seconds{screen}
//   - hyperclaw_mutations_total{screen,action,result}
//   - hyperclaw_reviews_total{verdict,result}
//   - hyperclaw_requests_total{op,code}
//   - hyperclaw_push_messages_total
//
// Collectors are registered in init() and served by Serve at /metrics.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels.
const (
	ResultOK    = "ok"
	ResultError = "error"
	ResultBusy  = "busy"
)

var (
	loads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hyperclaw_loads_total",
			Help: "Screen loads by result",
		},
		[]string{"screen", "result"},
	)

	loadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hyperclaw_load_duration_seconds",
			Help:    "Time taken by one screen load",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"screen"},
	)

	mutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hyperclaw_mutations_total",
			Help: "User-triggered mutations by result (ok|error|busy)",
		},
		[]string{"screen", "action", "result"},
	)

	reviews = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hyperclaw_reviews_total",
			Help: "Review verdict dispatches by verdict and result",
		},
		[]string{"verdict", "result"},
	)

	requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hyperclaw_requests_total",
			Help: "Backend requests by operation and HTTP status (0 = transport failure)",
		},
		[]string{"op", "code"},
	)

	pushMessages = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hyperclaw_push_messages_total",
			Help: "Messages received on the push channel",
		},
	)
)

func init() {
	prometheus.MustRegister(loads, loadDuration, mutations, reviews, requests, pushMessages)
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// ObserveLoad records one screen load.
func ObserveLoad(screen string, d time.Duration, err error) {
	loads.WithLabelValues(screen, result(err)).Inc()
	loadDuration.WithLabelValues(screen).Observe(d.Seconds())
}

// ObserveMutation records one mutation attempt. Pass ResultBusy for
// attempts rejected by busy-gating.
func ObserveMutation(screen, action, res string) {
	mutations.WithLabelValues(screen, action, res).Inc()
}

// MutationResult maps an error to a result label.
func MutationResult(err error) string {
	return result(err)
}

// ObserveReview records one verdict dispatch.
func ObserveReview(verdict string, err error) {
	reviews.WithLabelValues(verdict, result(err)).Inc()
}

// ObserveRequest records one backend request.
func ObserveRequest(op string, status int) {
	requests.WithLabelValues(op, strconv.Itoa(status)).Inc()
}

// ObservePush records one push message.
func ObservePush() {
	pushMessages.Inc()
}

// Handler returns the /metrics handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Metrics server shutdown failed", "error", err)
		}
	}()

	slog.Info("Serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
