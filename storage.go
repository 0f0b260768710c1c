// storage.go: slot-window storage backing the open-addressing engine
//
// Storage is an ordered array of windows, each window a group of W
// contiguous slots. A slot is one key word (set mode) or a key word plus a
// payload word (map mode) kept in parallel arrays; the key word is the
// synchronization word for the two-word protocol in ref.go. All slot access
// after initialization goes through sync/atomic on the word arrays.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "sync/atomic"

// storage owns the window array for one container generation. Capacity is
// immutable for the lifetime of an instance; rehash builds a fresh one.
type storage struct {
	keys []uint64
	vals []uint64 // nil in set mode

	numWindows int
	windowSize int

	alloc Allocator
}

// newStorage allocates a storage of numWindows windows of windowSize slots.
// The slots are not yet initialized; callers must run initialize before the
// first probe touches them.
func newStorage(numWindows, windowSize int, hasPayload bool, alloc Allocator) *storage {
	s := &storage{
		numWindows: numWindows,
		windowSize: windowSize,
		alloc:      alloc,
	}
	s.keys = alloc.AllocWords(numWindows * windowSize)
	if hasPayload {
		s.vals = alloc.AllocWords(numWindows * windowSize)
	}
	return s
}

// capacity returns the total number of slots.
func (s *storage) capacity() int { return s.numWindows * s.windowSize }

// windowExtent returns the number of windows.
func (s *storage) windowExtent() int { return s.numWindows }

// hasPayload reports whether the storage carries payload words.
func (s *storage) hasPayload() bool { return s.vals != nil }

// initialize writes the empty sentinels to every slot of [lo, hi). The
// caller provides the fan-out over disjoint chunks. Stores are atomic like
// every other slot access, so an unsynchronized probe from another stream
// observes sentinels or earlier slot words, never torn state.
func (s *storage) initialize(emptyKey, emptyValue uint64, lo, hi int) {
	for i := lo; i < hi; i++ {
		atomic.StoreUint64(&s.keys[i], emptyKey)
	}
	if s.vals != nil {
		for i := lo; i < hi; i++ {
			atomic.StoreUint64(&s.vals[i], emptyValue)
		}
	}
}

// StorageRef is a non-owning view of a storage instance. Refs are passed by
// value into kernels and share the owner's lifetime; they must not outlive
// the container that produced them.
type StorageRef struct {
	keys []uint64
	vals []uint64

	numWindows int
	windowSize int
}

// ref returns a non-owning view of the storage.
func (s *storage) ref() StorageRef {
	return StorageRef{
		keys:       s.keys,
		vals:       s.vals,
		numWindows: s.numWindows,
		windowSize: s.windowSize,
	}
}

// Capacity returns the total number of slots.
func (r StorageRef) Capacity() int { return r.numWindows * r.windowSize }

// WindowExtent returns the number of windows.
func (r StorageRef) WindowExtent() int { return r.numWindows }

// WindowSize returns the number of slots per window.
func (r StorageRef) WindowSize() int { return r.windowSize }
