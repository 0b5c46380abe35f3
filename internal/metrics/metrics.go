// Package metrics provides Prometheus metrics for file operations and
// directory listings.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LFroesch/fex/internal/fileops"
	"github.com/LFroesch/fex/internal/logger"
)

// Registry holds every fex metric. It is separate from the default
// registry so nothing else leaks onto /metrics.
var Registry = prometheus.NewRegistry()

var (
	fileOpsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fex_fileops_total",
			Help: "Total file operations by result",
		},
		[]string{"op", "result"},
	)

	fileOpDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fex_fileop_duration_seconds",
			Help:    "File operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	listingEntries = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "fex_listing_entries",
			Help: "Number of entries in the most recent directory listing",
		},
	)

	listingDuration = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fex_listing_duration_seconds",
			Help:    "Directory listing duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Observe records a finished file operation. It has the shape of
// fileops.Observer.
func Observe(op string, elapsed time.Duration, err error) {
	fileOpsTotal.WithLabelValues(op, result(err)).Inc()
	fileOpDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveListing records a directory listing.
func ObserveListing(count int, elapsed time.Duration, err error) {
	fileOpsTotal.WithLabelValues(fileops.OpReadDir, result(err)).Inc()
	listingDuration.Observe(elapsed.Seconds())
	if err == nil {
		listingEntries.Set(float64(count))
	}
}

func result(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, fileops.ErrNameSpaceExhausted):
		return "exhausted"
	case errors.Is(err, fileops.ErrUnsupportedOperation):
		return "unsupported"
	default:
		return "error"
	}
}

type lister interface {
	List(dir string) ([]fileops.Entry, error)
}

// Lister wraps a directory lister and records every listing.
type Lister struct {
	next lister
}

func NewLister(next lister) *Lister {
	return &Lister{next: next}
}

func (l *Lister) List(dir string) ([]fileops.Entry, error) {
	start := time.Now()
	entries, err := l.next.List(dir)
	ObserveListing(len(entries), time.Since(start), err)
	return entries, err
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Serve starts the metrics endpoint on addr in the background and returns
// the server so the caller can close it.
func Serve(addr string) *http.Server {
	srv := &http.Server{
		Addr:    addr,
		Handler: Handler(),
	}
	go func() {
		logger.Info("metrics server listening on %s", addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error: %v", err)
		}
	}()
	return srv
}
