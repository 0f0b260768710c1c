// metrics_prom.go: Prometheus-backed MetricsCollector
//
// A thin abstraction over Prometheus so a container can be observed with
// or without a monitoring stack. The collector registers against a
// caller-supplied registry; with no registry, keep the default
// NoOpMetricsCollector and the dispatcher pays nothing.
//
// Metric names follow Prometheus conventions, suffixed with "_total" for
// counters. All series are labeled by operation where that is meaningful.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "github.com/prometheus/client_golang/prometheus"

// PrometheusCollector implements MetricsCollector on top of a Prometheus
// registry. Safe for concurrent use; all updates happen once per bulk
// call.
type PrometheusCollector struct {
	latency  *prometheus.HistogramVec
	inserted prometheus.Counter
	found    prometheus.Counter
	erased   prometheus.Counter
	rehashes prometheus.Counter
	capacity prometheus.Gauge
}

// NewPrometheusCollector creates a collector and registers its series with
// reg. reg must not be nil.
func NewPrometheusCollector(reg *prometheus.Registry) *PrometheusCollector {
	c := &PrometheusCollector{
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "xanthos",
				Name:      "bulk_latency_seconds",
				Help:      "Latency of bulk container operations.",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
			}, []string{"operation"}),
		inserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "xanthos",
			Name:      "inserted_total",
			Help:      "Number of keys stored by bulk inserts.",
		}),
		found: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "xanthos",
			Name:      "found_total",
			Help:      "Number of keys found by bulk lookups.",
		}),
		erased: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "xanthos",
			Name:      "erased_total",
			Help:      "Number of slots tombstoned by bulk erases.",
		}),
		rehashes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "xanthos",
			Name:      "rehashes_total",
			Help:      "Number of completed rehash operations.",
		}),
		capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "xanthos",
			Name:      "capacity_slots",
			Help:      "Slot capacity of the current storage generation.",
		}),
	}
	reg.MustRegister(c.latency, c.inserted, c.found, c.erased, c.rehashes, c.capacity)
	return c
}

func (c *PrometheusCollector) RecordInsert(latencyNs int64, inserted int64) {
	c.latency.WithLabelValues("insert").Observe(float64(latencyNs) / 1e9)
	c.inserted.Add(float64(inserted))
}

func (c *PrometheusCollector) RecordLookup(latencyNs int64, found int64) {
	c.latency.WithLabelValues("lookup").Observe(float64(latencyNs) / 1e9)
	c.found.Add(float64(found))
}

func (c *PrometheusCollector) RecordErase(latencyNs int64, erased int64) {
	c.latency.WithLabelValues("erase").Observe(float64(latencyNs) / 1e9)
	c.erased.Add(float64(erased))
}

func (c *PrometheusCollector) RecordRehash(latencyNs int64, capacity int) {
	c.latency.WithLabelValues("rehash").Observe(float64(latencyNs) / 1e9)
	c.rehashes.Inc()
	c.capacity.Set(float64(capacity))
}

func (c *PrometheusCollector) RecordClear(latencyNs int64) {
	c.latency.WithLabelValues("clear").Observe(float64(latencyNs) / 1e9)
}

// Compile-time interface check
var _ MetricsCollector = (*PrometheusCollector)(nil)
