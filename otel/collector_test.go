// collector_test.go: tests for the OpenTelemetry metrics collector
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package otel

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func TestNewOTelMetricsCollector_NilProvider(t *testing.T) {
	if _, err := NewOTelMetricsCollector(nil); err == nil {
		t.Error("expected an error for a nil meter provider")
	}
}

func TestNewOTelMetricsCollector_Records(t *testing.T) {
	provider := sdkmetric.NewMeterProvider()
	defer func() {
		_ = provider.Shutdown(context.Background())
	}()

	collector, err := NewOTelMetricsCollector(provider)
	if err != nil {
		t.Fatalf("NewOTelMetricsCollector failed: %v", err)
	}

	// The instruments must accept records without panicking even with no
	// reader attached.
	collector.RecordInsert(1500, 10)
	collector.RecordLookup(900, 4)
	collector.RecordErase(700, 2)
	collector.RecordRehash(5000, 4096)
	collector.RecordClear(100)
}

func TestWithMeterName(t *testing.T) {
	provider := sdkmetric.NewMeterProvider()
	collector, err := NewOTelMetricsCollector(provider, WithMeterName("custom/meter"))
	if err != nil {
		t.Fatalf("NewOTelMetricsCollector failed: %v", err)
	}
	if collector == nil {
		t.Fatal("expected a collector")
	}
}
