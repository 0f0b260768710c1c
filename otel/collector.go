// Package otel provides OpenTelemetry integration for xanthos container
// metrics.
//
// This package implements the xanthos.MetricsCollector interface using
// OpenTelemetry, enabling enterprise-grade observability with automatic
// percentile calculation (p50, p95, p99) and multi-backend support
// (Prometheus, Jaeger, DataDog, Grafana).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package otel

import (
	"context"
	"errors"

	"github.com/agilira/xanthos"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsCollector implements xanthos.MetricsCollector using
// OpenTelemetry.
//
// The collector records one data point per bulk call, so its overhead is
// amortized over the whole input range rather than paid per key.
//
// Thread-safety: safe for concurrent use. The underlying OTEL instruments
// are thread-safe and lock-free.
type OTelMetricsCollector struct {
	insertLatency metric.Int64Histogram // bulk insert latency histogram
	lookupLatency metric.Int64Histogram // bulk lookup latency histogram
	eraseLatency  metric.Int64Histogram // bulk erase latency histogram
	rehashLatency metric.Int64Histogram // rehash latency histogram
	inserted      metric.Int64Counter   // keys stored
	found         metric.Int64Counter   // keys found
	erased        metric.Int64Counter   // slots tombstoned
	rehashes      metric.Int64Counter   // completed rehashes
	clears        metric.Int64Counter   // completed clears
}

// Options for configuring OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/agilira/xanthos"
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name. This is useful for
// distinguishing metrics from multiple container instances or integrating
// with existing OTEL instrumentation.
func WithMeterName(name string) Option {
	return func(o *Options) {
		o.MeterName = name
	}
}

// NewOTelMetricsCollector creates a new OpenTelemetry metrics collector.
//
// Parameters:
//   - provider: OpenTelemetry MeterProvider. Must not be nil.
//   - opts: Optional configuration options (meter name, etc.)
//
// Example:
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	collector, err := NewOTelMetricsCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{
		MeterName: "github.com/agilira/xanthos",
	}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	collector := &OTelMetricsCollector{}

	var err error
	collector.insertLatency, err = meter.Int64Histogram(
		"xanthos_insert_latency_ns",
		metric.WithDescription("Latency of bulk insert operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.lookupLatency, err = meter.Int64Histogram(
		"xanthos_lookup_latency_ns",
		metric.WithDescription("Latency of bulk contains/find/count operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.eraseLatency, err = meter.Int64Histogram(
		"xanthos_erase_latency_ns",
		metric.WithDescription("Latency of bulk erase operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.rehashLatency, err = meter.Int64Histogram(
		"xanthos_rehash_latency_ns",
		metric.WithDescription("Latency of rehash operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.inserted, err = meter.Int64Counter(
		"xanthos_inserted_total",
		metric.WithDescription("Total number of keys stored by bulk inserts"),
	)
	if err != nil {
		return nil, err
	}

	collector.found, err = meter.Int64Counter(
		"xanthos_found_total",
		metric.WithDescription("Total number of keys found by bulk lookups"),
	)
	if err != nil {
		return nil, err
	}

	collector.erased, err = meter.Int64Counter(
		"xanthos_erased_total",
		metric.WithDescription("Total number of slots tombstoned"),
	)
	if err != nil {
		return nil, err
	}

	collector.rehashes, err = meter.Int64Counter(
		"xanthos_rehashes_total",
		metric.WithDescription("Total number of completed rehashes"),
	)
	if err != nil {
		return nil, err
	}

	collector.clears, err = meter.Int64Counter(
		"xanthos_clears_total",
		metric.WithDescription("Total number of completed clears"),
	)
	if err != nil {
		return nil, err
	}

	return collector, nil
}

// RecordInsert records a bulk insert: latency histogram plus the number of
// inserted outcomes.
func (c *OTelMetricsCollector) RecordInsert(latencyNs int64, inserted int64) {
	ctx := context.Background()
	c.insertLatency.Record(ctx, latencyNs)
	c.inserted.Add(ctx, inserted)
}

// RecordLookup records a bulk contains/find/count: latency histogram plus
// the number of found keys.
func (c *OTelMetricsCollector) RecordLookup(latencyNs int64, found int64) {
	ctx := context.Background()
	c.lookupLatency.Record(ctx, latencyNs)
	c.found.Add(ctx, found)
}

// RecordErase records a bulk erase: latency histogram plus the number of
// tombstoned slots.
func (c *OTelMetricsCollector) RecordErase(latencyNs int64, erased int64) {
	ctx := context.Background()
	c.eraseLatency.Record(ctx, latencyNs)
	c.erased.Add(ctx, erased)
}

// RecordRehash records a completed rehash.
func (c *OTelMetricsCollector) RecordRehash(latencyNs int64, capacity int) {
	ctx := context.Background()
	c.rehashLatency.Record(ctx, latencyNs)
	c.rehashes.Add(ctx, 1)
}

// RecordClear records a completed clear.
func (c *OTelMetricsCollector) RecordClear(latencyNs int64) {
	c.clears.Add(context.Background(), 1)
}

// Compile-time interface check
var _ xanthos.MetricsCollector = (*OTelMetricsCollector)(nil)
