// Package xanthos provides a massively parallel, fixed-capacity,
// open-addressing hash container for bulk workloads.
//
// Xanthos is built around a lock-free slot-window engine: storage is an
// array of windows of W slots, every probe attempt examines one whole
// window, and all mutation is resolved with per-slot compare-and-swap.
// Bulk operations are issued against a FIFO command stream and fan out
// over a worker pool.
//
// Example usage:
//
//	set, _ := xanthos.NewSet[uint64](xanthos.Config{
//		Capacity: 1 << 20,
//	})
//
//	set.InsertAsync(keys, nil)
//	set.ContainsAsync(keys, out, nil)
//	err := set.Wait(nil)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

const (
	// Version of the Xanthos container library
	Version = "v0.1.0-dev"

	// DefaultLoadFactor is the default live-entries / capacity ratio used
	// when sizing storage from a requested element count
	DefaultLoadFactor = 0.5

	// DefaultWindowSize is the default number of slots per window
	DefaultWindowSize = 4

	// DefaultCGSize is the default cooperative-group cardinality used to
	// examine one window
	DefaultCGSize = 4

	// DefaultBlockSize is the default number of lanes per launch block
	DefaultBlockSize = 128

	// DefaultEmptyKeySentinel marks a slot that has never held a key
	DefaultEmptyKeySentinel = ^uint64(0)

	// DefaultErasedKeySentinel marks a tombstoned slot; probing treats it
	// as transparent, insertion treats it as reusable
	DefaultErasedKeySentinel = ^uint64(0) - 1

	// DefaultEmptyValueSentinel marks an unwritten payload word
	DefaultEmptyValueSentinel = ^uint64(0)
)
