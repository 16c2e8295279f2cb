package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	uploadsTotal    *prometheus.CounterVec
	downloadsTotal  prometheus.Counter
	feedSubscribers prometheus.GaugeFunc
}

// NewMetricsService registers the core collectors. subscriberCount may be
// nil; the feed gauge then reports zero.
func NewMetricsService(subscriberCount func() int) *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	uploadsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "content_uploads_total",
		Help: "Total content uploads by content type",
	}, []string{"content_type"})

	downloadsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "student_downloads_recorded_total",
		Help: "Total student downloads recorded in the audit log",
	})

	feedSubscribers := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "feed_subscribers",
		Help: "Currently attached live feed subscribers",
	}, func() float64 {
		if subscriberCount == nil {
			return 0
		}
		return float64(subscriberCount())
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, uploadsTotal, downloadsTotal, feedSubscribers, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		uploadsTotal:    uploadsTotal,
		downloadsTotal:  downloadsTotal,
		feedSubscribers: feedSubscribers,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordUpload counts a successful content upload.
func (m *MetricsService) RecordUpload(contentType string) {
	if m == nil {
		return
	}
	m.uploadsTotal.WithLabelValues(contentType).Inc()
}

// RecordDownload counts a recorded student download.
func (m *MetricsService) RecordDownload() {
	if m == nil {
		return
	}
	m.downloadsTotal.Inc()
}
