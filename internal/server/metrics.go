package server

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// metrics holds the collectors exposed on /metrics
type metrics struct {
	registry        *prometheus.Registry
	classifications *prometheus.CounterVec
	transcribeFails prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "railvoice",
			Name:      "classifications_total",
			Help:      "Interpreted commands by label and whether a quantity was attached.",
		}, []string{"label", "quantity"}),
		transcribeFails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "railvoice",
			Name:      "transcription_failures_total",
			Help:      "Uploaded clips the transcription engine failed on.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "railvoice",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}

	m.registry.MustRegister(
		m.classifications,
		m.transcribeFails,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) observeResult(label int, hasQuantity bool) {
	m.classifications.WithLabelValues(strconv.Itoa(label), strconv.FormatBool(hasQuantity)).Inc()
}
