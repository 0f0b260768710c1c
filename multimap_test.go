// multimap_test.go: unit tests for the MultiMap container
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "testing"

func TestMultiMap_DuplicateKeys(t *testing.T) {
	mm, err := NewMultiMap[uint64, uint64](Config{Capacity: 64})
	if err != nil {
		t.Fatalf("NewMultiMap failed: %v", err)
	}
	defer mm.Close()

	keys := []uint64{1, 1, 1, 2, 2, 3}
	vals := []uint64{10, 11, 12, 20, 21, 30}
	inserted, err := mm.Insert(keys, vals, nil)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	// Every pair lands in its own slot.
	if inserted != 6 {
		t.Errorf("expected 6 inserted, got %d", inserted)
	}
	requireSize(t, mm, 6)
}

func TestMultiMap_CountMultiplicity(t *testing.T) {
	mm, err := NewMultiMap[uint64, uint64](Config{Capacity: 64})
	if err != nil {
		t.Fatalf("NewMultiMap failed: %v", err)
	}
	defer mm.Close()

	keys := []uint64{1, 1, 1, 2, 2, 3}
	vals := []uint64{10, 11, 12, 20, 21, 30}
	if _, err := mm.Insert(keys, vals, nil); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	count, err := mm.Count([]uint64{1}, nil)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected multiplicity 3, got %d", count)
	}

	count, err = mm.Count([]uint64{1, 2, 3, 4}, nil)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 6 {
		t.Errorf("expected total count 6, got %d", count)
	}
}

func TestMultiMap_CountOuter(t *testing.T) {
	mm, err := NewMultiMap[uint64, uint64](Config{Capacity: 64})
	if err != nil {
		t.Fatalf("NewMultiMap failed: %v", err)
	}
	defer mm.Close()

	if _, err := mm.Insert([]uint64{1, 1, 2}, []uint64{10, 11, 20}, nil); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// Matches contribute their multiplicity, the matchless key 7
	// contributes 1: 2 + 1 + 1 = 4.
	outer, err := mm.CountOuter([]uint64{1, 2, 7}, nil)
	if err != nil {
		t.Fatalf("CountOuter failed: %v", err)
	}
	if outer != 4 {
		t.Errorf("expected outer count 4, got %d", outer)
	}
}

func TestMultiMap_EraseOneOccurrence(t *testing.T) {
	mm, err := NewMultiMap[uint64, uint64](Config{Capacity: 64, EnableErase: true})
	if err != nil {
		t.Fatalf("NewMultiMap failed: %v", err)
	}
	defer mm.Close()

	if _, err := mm.Insert([]uint64{5, 5, 5}, []uint64{50, 51, 52}, nil); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	erased, err := mm.Erase([]uint64{5}, nil)
	if err != nil {
		t.Fatalf("Erase failed: %v", err)
	}
	if erased != 1 {
		t.Errorf("expected one occurrence erased, got %d", erased)
	}

	count, err := mm.Count([]uint64{5}, nil)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected multiplicity 2 after erase, got %d", count)
	}
}
