package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/staynest/booking-service/internal/platform/logger"
)

// Manager holds the service's Prometheus metrics on a private registry.
type Manager struct {
	Registry                     *prometheus.Registry
	BookingsCreatedTotal         prometheus.Counter
	BookingTransitionsTotal      *prometheus.CounterVec
	NotificationsDispatchedTotal prometheus.Counter
	NotificationsDroppedTotal    prometheus.Counter
	APIErrorsTotal               *prometheus.CounterVec
	RequestLatency               *prometheus.HistogramVec
}

func NewManager(serviceName string) *Manager {
	registry := prometheus.NewRegistry()

	bookingsCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created.",
	})
	bookingTransitionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "booking_transitions_total",
		Help:      "Total number of accepted booking status transitions by target status.",
	}, []string{"status"})
	notificationsDispatchedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "notifications_dispatched_total",
		Help:      "Total number of notifications handed to the dispatcher.",
	})
	notificationsDroppedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "notifications_dropped_total",
		Help:      "Total number of notifications dropped because the dispatch queue was full.",
	})
	apiErrorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "api_errors_total",
		Help:      "Total number of API errors by operation and error kind.",
	}, []string{"operation", "error_kind"})
	requestLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "api_request_latency_seconds",
		Help:      "Latency of API operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	registry.MustRegister(
		bookingsCreatedTotal,
		bookingTransitionsTotal,
		notificationsDispatchedTotal,
		notificationsDroppedTotal,
		apiErrorsTotal,
		requestLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:                     registry,
		BookingsCreatedTotal:         bookingsCreatedTotal,
		BookingTransitionsTotal:      bookingTransitionsTotal,
		NotificationsDispatchedTotal: notificationsDispatchedTotal,
		NotificationsDroppedTotal:    notificationsDroppedTotal,
		APIErrorsTotal:               apiErrorsTotal,
		RequestLatency:               requestLatency,
	}
}

// StartServer exposes /metrics on its own port. Blocks; run in a goroutine.
func StartServer(port string, log logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		log.Info("Prometheus metrics server port not configured, server will not start")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	log.Infof("Prometheus metrics server starting on port %s", port)
	server := &http.Server{Addr: ":" + port, Handler: mux}
	return server.ListenAndServe()
}
