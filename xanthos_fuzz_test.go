// xanthos_fuzz_test.go: fuzz tests for the probing contract and the
// insert/lookup round trip
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"encoding/binary"
	"testing"
)

// FuzzProbing_Permutation fuzzes the full-permutation contract: for any
// key and extent, both schemes visit every window exactly once.
func FuzzProbing_Permutation(f *testing.F) {
	f.Add(uint64(0), uint8(4))
	f.Add(uint64(41), uint8(0))
	f.Add(^uint64(0), uint8(10))

	f.Fuzz(func(t *testing.T, key uint64, extentExp uint8) {
		m := uint64(1) << (extentExp % 12)
		for _, scheme := range []ProbingScheme{NewLinearProbing(4), NewDoubleHashing(4)} {
			seen := make(map[uint64]bool, m)
			w := scheme.WindowStart(key, m)
			stride := scheme.WindowStride(key, m)
			for i := uint64(0); i < m; i++ {
				if w >= m {
					t.Fatalf("window %d outside extent %d", w, m)
				}
				if seen[w] {
					t.Fatalf("window %d repeated within extent %d", w, m)
				}
				seen[w] = true
				w = (w + stride) & (m - 1)
			}
		}
	})
}

// FuzzSet_InsertContainsRoundTrip fuzzes arbitrary key batches through
// insert and reads them all back.
func FuzzSet_InsertContainsRoundTrip(f *testing.F) {
	f.Add([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	f.Add([]byte{0, 0, 0, 0, 0, 0, 0, 0, 9, 9, 9, 9, 9, 9, 9, 9})

	f.Fuzz(func(t *testing.T, data []byte) {
		n := len(data) / 8
		if n == 0 {
			return
		}
		if n > 512 {
			n = 512
		}
		keys := make([]uint64, n)
		for i := range keys {
			// Mask off the top bit so no input collides with the
			// reserved sentinels.
			keys[i] = binary.LittleEndian.Uint64(data[i*8:]) &^ (1 << 63)
		}

		s, err := NewSet[uint64](Config{Capacity: 2 * n})
		if err != nil {
			t.Fatalf("NewSet failed: %v", err)
		}
		defer s.Close()

		if _, err := s.Insert(keys, nil); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		out := make([]bool, n)
		if err := s.Contains(keys, out, nil); err != nil {
			t.Fatalf("Contains failed: %v", err)
		}
		for i, ok := range out {
			if !ok {
				t.Fatalf("key %d inserted but not found", keys[i])
			}
		}
	})
}
