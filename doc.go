// Package xanthos provides a massively parallel, fixed-capacity,
// open-addressing hash container for bulk key and key/payload workloads.
//
// # Overview
//
// Xanthos is designed for workloads that build, probe and drain very large
// associative tables in bulk: join build/probe sides, deduplication,
// semi-join filters. It favors throughput over per-key latency:
//
//   - Lock-free engine: every slot transition is one compare-and-swap
//   - Bulk API: whole input ranges per call, fanned out over a worker pool
//   - Stream ordering: asynchronous calls on one stream execute in order
//   - Type safety: generic over 64-bit key and payload words
//
// # Features
//
//   - Slot-window storage: probing examines W contiguous slots per attempt
//   - Cooperative probing: a group of lanes shares one logical query
//   - Sentinel tombstones: erase leaves probe-transparent, reusable slots
//   - Bulk operations: insert, insert_if, insert_and_find, contains,
//     contains_if, find, erase, count, count_outer, size, retrieve_all
//   - Rehash: full relocation of live entries to a new extent
//   - Structured errors: rich error context with XANTHOS_* error codes
//   - Observability: MetricsCollector interface, Prometheus collector
//     in-core, OpenTelemetry collector as a separate module
//   - Hot capacity: Argus-backed file watcher scheduling growth rehashes
//
// # Quick Start
//
//	set, err := xanthos.NewSet[uint64](xanthos.Config{
//		Capacity: 1 << 20,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer set.Close()
//
//	inserted, err := set.Insert(keys, nil)      // synchronous, counted
//	out := make([]bool, len(queries))
//	err = set.Contains(queries, out, nil)       // synchronous membership
//
// Key/payload mode:
//
//	m, _ := xanthos.NewMap[uint64, uint64](xanthos.Config{
//		Capacity:    1 << 20,
//		EnableErase: true,
//	})
//	m.Insert(keys, vals, nil)
//	found := make([]uint64, len(queries))
//	m.Find(queries, found, nil) // empty-value sentinel marks misses
//
// # Storage Model
//
// Storage is an ordered array of M windows of W slots (capacity = M*W).
// A slot stores one 64-bit key word, plus one 64-bit payload word in map
// mode. Two key words are reserved: the empty sentinel (never-used slot)
// and the erased sentinel (tombstone). Inserting a key equal to either is
// undefined, as is inserting the empty payload sentinel in map mode.
//
// M is always a power of two, chosen from the requested capacity and the
// load factor, so that both probing schemes walk a full permutation of
// the window indices and capacity exhaustion is detectable.
//
// # Probing
//
// A probing scheme maps (key, attempt) onto window indices. One attempt
// examines all W slots of one window cooperatively and reduces the
// observations to a ballot: first equal key, first empty, first reusable
// slot. Lookups stop at an equal key or an empty slot; erased slots are
// transparent. Inserts CAS the lowest reusable slot, retry the same
// window when the CAS is lost, and advance otherwise.
//
// Two schemes ship: LinearProbing (stride 1, best locality) and
// DoubleHashing (key-derived odd stride, default). Both carry the
// cooperative-group size used for launch-grid sizing.
//
// # Streams and Asynchrony
//
// Every bulk method takes a *Stream; nil selects the container's default
// stream. Commands on one stream execute in submission order on a
// dedicated goroutine; streams are mutually unordered. Asynchronous
// variants return immediately: inputs are staged at call time, outputs
// are written when the command executes, so output buffers must stay
// alive until the next Wait. Synchronous variants wait on the stream and
// return counters.
//
// Backend errors (capacity exhausted, truncated retrieve destination,
// rehash overflow) surface at the nearest Wait; configuration errors
// surface synchronously at the offending call.
//
// # Concurrency Model
//
// Within one bulk call, lanes race on slots and per-slot CAS is the
// entire synchronization surface: of two racing inserts of the same new
// key exactly one reports inserted, the other present. Across calls on
// the same stream there is strict happens-before. Across streams there is
// no ordering; callers synchronize explicitly. Mixing inserts and erases
// in a single bulk call, or mutating one container from two streams
// without synchronization, is undefined.
//
// Two-word slots keep the key word as the synchronization word: insert
// claims the payload word first and publishes the key word last; erase
// clears the key word first. A reader that observes a filled key observes
// its payload.
//
// # Capacity and Rehash
//
// Capacity is fixed for the lifetime of a storage generation; there is no
// automatic growth. Inserting past capacity fails the bulk command with
// XANTHOS_CAPACITY_EXHAUSTED (retryable after erase or rehash). Rehash
// allocates a fresh generation, relocates every live entry, drops the
// tombstones and swaps generations in stream order.
//
// # Error Handling
//
// Errors carry structured codes and context:
//
//	if xanthos.IsCapacityExhausted(err) {
//		set.Rehash(set.Capacity()*2, nil)
//	}
//
// Available classes: configuration (XANTHOS_INVALID_*,
// XANTHOS_SENTINEL_COLLISION), operation (XANTHOS_CAPACITY_EXHAUSTED,
// XANTHOS_OUTPUT_TRUNCATED, XANTHOS_REHASH_OVERFLOW,
// XANTHOS_ERASE_DISABLED, XANTHOS_LENGTH_MISMATCH) and stream
// (XANTHOS_STREAM_CLOSED).
//
// # Observability
//
// Built-in stats tracking:
//
//	stats := set.Stats()
//	fmt.Printf("size=%d load=%.2f hits=%d\n",
//		stats.Size, stats.LoadFactor(), stats.Hits)
//
// Prometheus:
//
//	reg := prometheus.NewRegistry()
//	cfg.MetricsCollector = xanthos.NewPrometheusCollector(reg)
//
// OpenTelemetry lives in the separate github.com/agilira/xanthos/otel
// module so the core stays free of OTEL dependencies.
//
// # Packages
//
//   - github.com/agilira/xanthos: core container implementation
//   - github.com/agilira/xanthos/otel: OpenTelemetry integration
//
// # License
//
// Mozilla Public License 2.0, as declared by the SPDX identifiers in the
// source files.
//
// Contributions welcome at https://github.com/agilira/xanthos
package xanthos
