// Package otel provides OpenTelemetry integration for xanthos container
// metrics.
//
// This package implements the xanthos.MetricsCollector interface using
// OpenTelemetry, enabling enterprise-grade observability with automatic
// percentile calculation (p50, p95, p99) and multi-backend support
// (Prometheus, Jaeger, DataDog, Grafana).
//
// # Why a separate module
//
// The core xanthos package carries no OTEL dependencies; this module is
// opt-in so the container stays lean for users who rely on the built-in
// stats or the in-core Prometheus collector.
//
// # Usage
//
//	import (
//	    "github.com/agilira/xanthos"
//	    xanthosotel "github.com/agilira/xanthos/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//
//	collector, _ := xanthosotel.NewOTelMetricsCollector(provider)
//
//	set, _ := xanthos.NewSet[uint64](xanthos.Config{
//	    Capacity:         1 << 20,
//	    MetricsCollector: collector,
//	})
//
// # Metrics Exposed
//
//   - xanthos_insert_latency_ns: histogram of bulk insert latencies
//   - xanthos_lookup_latency_ns: histogram of bulk lookup latencies
//   - xanthos_erase_latency_ns: histogram of bulk erase latencies
//   - xanthos_rehash_latency_ns: histogram of rehash latencies
//   - xanthos_inserted_total: counter of keys stored
//   - xanthos_found_total: counter of keys found
//   - xanthos_erased_total: counter of slots tombstoned
//   - xanthos_rehashes_total: counter of completed rehashes
//   - xanthos_clears_total: counter of completed clears
//
// All metrics are aggregated by the OTEL SDK and can be exported to any
// OTEL-compatible backend; histograms calculate percentiles automatically.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package otel
