package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Manager holds the custom Prometheus metrics for the marketplace.
type Manager struct {
	Registry              *prometheus.Registry
	ListingsCreatedTotal  prometheus.Counter
	ListingsApprovedTotal prometheus.Counter
	ListingsDeletedTotal  prometheus.Counter
	MediaUploadsTotal     prometheus.Counter
	MediaUploadBytes      prometheus.Counter
	HTTPErrorsTotal       *prometheus.CounterVec
	HTTPLatency           *prometheus.HistogramVec
}

// NewManager initializes and registers the custom metrics on a private registry.
func NewManager(namespace string) *Manager {
	registry := prometheus.NewRegistry()

	listingsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_created_total",
		Help:      "Total number of listings created.",
	})
	listingsApproved := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_approved_total",
		Help:      "Total number of listings approved by an admin.",
	})
	listingsDeleted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_deleted_total",
		Help:      "Total number of listings deleted.",
	})
	mediaUploads := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_uploads_total",
		Help:      "Total number of media objects uploaded to storage.",
	})
	mediaUploadBytes := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_upload_bytes_total",
		Help:      "Total bytes uploaded to object storage after re-encoding.",
	})
	httpErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_errors_total",
		Help:      "Total number of HTTP errors by route and kind.",
	}, []string{"route", "kind"})
	httpLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_latency_seconds",
		Help:      "Latency of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	registry.MustRegister(
		listingsCreated,
		listingsApproved,
		listingsDeleted,
		mediaUploads,
		mediaUploadBytes,
		httpErrors,
		httpLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:              registry,
		ListingsCreatedTotal:  listingsCreated,
		ListingsApprovedTotal: listingsApproved,
		ListingsDeletedTotal:  listingsDeleted,
		MediaUploadsTotal:     mediaUploads,
		MediaUploadBytes:      mediaUploadBytes,
		HTTPErrorsTotal:       httpErrors,
		HTTPLatency:           httpLatency,
	}
}

// StartServer exposes /metrics on its own port. A blank port disables it.
func StartServer(port string, logger *zap.Logger, registry *prometheus.Registry) error {
	if port == "" {
		logger.Info("Prometheus metrics server port not configured, server will not start")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	logger.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	return server.ListenAndServe()
}
