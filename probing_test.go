// probing_test.go: permutation and extent-policy tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "testing"

// walkSequence collects the full window sequence of key over M windows.
func walkSequence(p ProbingScheme, key uint64, numWindows uint64) []uint64 {
	seq := make([]uint64, 0, numWindows)
	w := p.WindowStart(key, numWindows)
	stride := p.WindowStride(key, numWindows)
	for i := uint64(0); i < numWindows; i++ {
		seq = append(seq, w)
		w = (w + stride) & (numWindows - 1)
	}
	return seq
}

// TestProbing_FullPermutation checks the core contract of both schemes:
// over M attempts every window index is visited exactly once.
func TestProbing_FullPermutation(t *testing.T) {
	schemes := map[string]ProbingScheme{
		"linear": NewLinearProbing(4),
		"double": NewDoubleHashing(4),
	}
	extents := []uint64{1, 2, 4, 16, 64, 1024}
	keys := []uint64{0, 1, 2, 41, 0xdeadbeef, ^uint64(0) - 7}

	for name, scheme := range schemes {
		for _, m := range extents {
			for _, key := range keys {
				seen := make(map[uint64]bool, m)
				for _, w := range walkSequence(scheme, key, m) {
					if w >= m {
						t.Fatalf("%s: window %d out of extent %d", name, w, m)
					}
					if seen[w] {
						t.Fatalf("%s: window %d visited twice for key %d extent %d", name, w, key, m)
					}
					seen[w] = true
				}
				if uint64(len(seen)) != m {
					t.Errorf("%s: sequence covers %d of %d windows", name, len(seen), m)
				}
			}
		}
	}
}

func TestProbing_Deterministic(t *testing.T) {
	p := NewDoubleHashing(4)
	a := walkSequence(p, 123, 64)
	b := walkSequence(p, 123, 64)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sequence not deterministic at attempt %d", i)
		}
	}
}

func TestProbing_CGSize(t *testing.T) {
	if NewLinearProbing(8).CGSize() != 8 {
		t.Errorf("linear probing lost its cg size")
	}
	if NewDoubleHashing(2).CGSize() != 2 {
		t.Errorf("double hashing lost its cg size")
	}
}

func TestMakeWindowExtent(t *testing.T) {
	tests := []struct {
		capacity   int
		loadFactor float64
		windowSize int
		cgSize     int
		minSlots   int
	}{
		{16, 0.5, 4, 4, 32},
		{100, 1.0, 4, 4, 100},
		{1, 1.0, 1, 1, 1},
		{1000, 0.25, 8, 8, 4000},
	}
	for _, tc := range tests {
		windows := makeWindowExtent(tc.capacity, tc.loadFactor, tc.windowSize, tc.cgSize)
		if !isPowerOfTwo(windows) {
			t.Errorf("extent %d is not a power of two", windows)
		}
		if windows*tc.windowSize < tc.minSlots {
			t.Errorf("extent %d (cap %d, lf %v) holds %d slots, need >= %d",
				windows, tc.capacity, tc.loadFactor, windows*tc.windowSize, tc.minSlots)
		}
	}
}

func TestNextPowerOf2(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 4, 5: 8, 16: 16, 17: 32, 1000: 1024}
	for in, want := range cases {
		if got := nextPowerOf2(in); got != want {
			t.Errorf("nextPowerOf2(%d): expected %d, got %d", in, want, got)
		}
	}
}
