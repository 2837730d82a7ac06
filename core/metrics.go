package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type FetchMetrics struct {
	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	batchSize     *prometheus.GaugeVec
}

func NewFetchMetrics(registerer prometheus.Registerer) *FetchMetrics {
	m := &FetchMetrics{
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "culture_events",
			Name:      "fetch_total",
			Help:      "Event fetches by resolved source and fallback reason",
		}, []string{"source", "reason"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "culture_events",
			Name:      "fetch_duration_seconds",
			Help:      "Time spent resolving an event fetch",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		batchSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "culture_events",
			Name:      "last_batch_size",
			Help:      "Number of events in the most recent batch per category",
		}, []string{"category"}),
	}

	if registerer != nil {
		registerer.MustRegister(m.fetchTotal, m.fetchDuration, m.batchSize)
	}

	return m
}

func (m *FetchMetrics) Observe(query Query, result Result, start time.Time) {
	if m == nil {
		return
	}

	reason := string(result.Reason)
	if reason == "" {
		reason = "none"
	}

	m.fetchTotal.WithLabelValues(string(result.Source), reason).Inc()
	m.fetchDuration.WithLabelValues(string(result.Source)).Observe(time.Since(start).Seconds())
	m.batchSize.WithLabelValues(string(query.Category)).Set(float64(len(result.Events)))
}
